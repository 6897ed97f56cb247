// Package record implements the YAML record file: parsing, the
// house-style serializer, schema validation, injection scanning and
// field-level patching. Everything here is pure over text and parsed
// values; no I/O.
package record

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/lagerschema/lagerschema/internal/domain"
)

// File is one parsed record file: a single camp header block followed
// by an ordered events sequence.
type File struct {
	Camp   domain.Camp    `yaml:"camp"`
	Events []domain.Event `yaml:"events"`
}

// Parse decodes a record file.
func Parse(text string) (File, error) {
	var f File
	if err := yaml.Unmarshal([]byte(text), &f); err != nil {
		return File{}, fmt.Errorf("yaml.Unmarshal -> %w", err)
	}
	return f, nil
}

// ParseRegistry decodes the camp registry file.
func ParseRegistry(text string) ([]domain.Camp, error) {
	var reg struct {
		Camps []domain.Camp `yaml:"camps"`
	}
	if err := yaml.Unmarshal([]byte(text), &reg); err != nil {
		return nil, fmt.Errorf("yaml.Unmarshal -> %w", err)
	}
	return reg.Camps, nil
}

// AppendEvent returns a copy of f with e appended to the events
// sequence, leaving existing order untouched.
func AppendEvent(f File, e domain.Event) File {
	events := make([]domain.Event, 0, len(f.Events)+1)
	events = append(events, f.Events...)
	events = append(events, e)
	f.Events = events
	return f
}
