package record

import (
	"fmt"
	"regexp"
	"unicode"
	"unicode/utf8"

	"github.com/dlclark/regexp2"

	"github.com/lagerschema/lagerschema/internal/domain"
)

// Security pass: submissions end up rendered on a public page, so every
// free-text field that is ever rendered is scanned for the known
// injection signatures and held to a length ceiling. Owner fields are
// excluded on purpose, they are never rendered.

const (
	maxTextLength        = 200
	maxDescriptionLength = 2000
	maxLinkLength        = 500
)

var linkSchemeRe = regexp.MustCompile(`^https?://`)

type signature struct {
	name string
	re   *regexp2.Regexp
}

var signatures = []signature{
	{"script tag", regexp2.MustCompile(`<\s*/?\s*script\b`, regexp2.IgnoreCase)},
	{"iframe tag", regexp2.MustCompile(`<\s*iframe\b`, regexp2.IgnoreCase)},
	{"object or embed tag", regexp2.MustCompile(`<\s*(object|embed)\b`, regexp2.IgnoreCase)},
	{"event handler attribute", regexp2.MustCompile(`\bon[a-z]+\s*=`, regexp2.IgnoreCase)},
	{"javascript uri", regexp2.MustCompile(`javascript\s*:`, regexp2.IgnoreCase)},
	{"data:text/html uri", regexp2.MustCompile(`data\s*:\s*text\s*/\s*html`, regexp2.IgnoreCase)},
}

// Scan runs the security pass over a whole record file. The input is
// not mutated.
func Scan(f File) Result {
	var findings []string
	for i, e := range f.Events {
		findings = append(findings, prefixAll(fmt.Sprintf("events[%d].", i), scanEvent(e))...)
	}
	return resultOf(findings)
}

func scanEvent(e domain.Event) []string {
	var findings []string

	scanned := []struct {
		field string
		value string
		max   int
	}{
		{"title", e.Title, maxTextLength},
		{"location", e.Location, maxTextLength},
		{"responsible", e.Responsible, maxTextLength},
		{"description", e.Description, maxDescriptionLength},
	}
	for _, f := range scanned {
		if utf8.RuneCountInString(f.value) > f.max {
			findings = append(findings, fmt.Sprintf("%s: longer than %d characters", f.field, f.max))
		}
		if containsControl(f.value) {
			findings = append(findings, fmt.Sprintf("%s: contains control characters", f.field))
		}
		for _, sig := range signatures {
			if matched, _ := sig.re.MatchString(f.value); matched {
				findings = append(findings, fmt.Sprintf("%s: contains %s", f.field, sig.name))
			}
		}
	}

	if utf8.RuneCountInString(e.Link) > maxLinkLength {
		findings = append(findings, fmt.Sprintf("link: longer than %d characters", maxLinkLength))
	}
	if containsControl(e.Link) {
		findings = append(findings, "link: contains control characters")
	}
	if e.Link != "" && !linkSchemeRe.MatchString(e.Link) {
		findings = append(findings, "link: must start with http:// or https://")
	}

	return findings
}

// containsControl reports whether s carries any control character,
// newlines included. The serializer writes single-line scalars, so a
// field that embeds a newline must be refused before acceptance rather
// than break the file on the write side.
func containsControl(s string) bool {
	for _, r := range s {
		if unicode.IsControl(r) {
			return true
		}
	}
	return false
}
