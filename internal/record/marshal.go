package record

import (
	"regexp"
	"strings"

	"github.com/lagerschema/lagerschema/internal/domain"
)

// The record files are edited by hand between camps, so the serializer
// reproduces the house style instead of whatever yaml.Marshal would
// pick: date/time-shaped scalars are always quoted, free text only when
// it would otherwise confuse a YAML parser, and quoting is the
// single-quote style with embedded quotes doubled.

var dateTimeShaped = regexp.MustCompile(`^(\d{4}-\d{2}-\d{2}(T\d{2}:\d{2})?|\d{2}:\d{2})$`)

// Marshal renders a record file in the house style.
func Marshal(f File) string {
	var b strings.Builder

	b.WriteString("camp:\n")
	writeField(&b, "  ", "id", f.Camp.ID)
	writeField(&b, "  ", "name", f.Camp.Name)
	writeField(&b, "  ", "location", f.Camp.Location)
	writeField(&b, "  ", "start_date", f.Camp.StartDate)
	writeField(&b, "  ", "end_date", f.Camp.EndDate)
	writeField(&b, "  ", "opens_for_editing", f.Camp.OpensForEditing)
	writeBool(&b, "  ", "archived", f.Camp.Archived)
	if f.Camp.QA {
		writeBool(&b, "  ", "qa", true)
	}

	b.WriteString("events:\n")
	for _, e := range f.Events {
		writeEvent(&b, e)
	}

	return b.String()
}

func writeEvent(b *strings.Builder, e domain.Event) {
	b.WriteString("  - id: " + scalar(e.ID) + "\n")
	writeField(b, "    ", "title", e.Title)
	writeField(b, "    ", "date", e.Date)
	writeField(b, "    ", "start", e.Start)
	writeNullable(b, "    ", "end", e.End)
	writeField(b, "    ", "location", e.Location)
	writeField(b, "    ", "responsible", e.Responsible)
	writeNullable(b, "    ", "description", e.Description)
	writeNullable(b, "    ", "link", e.Link)
	b.WriteString("    owner:\n")
	writeField(b, "      ", "name", e.Owner.Name)
	writeField(b, "      ", "email", e.Owner.Email)
	b.WriteString("    meta:\n")
	writeField(b, "      ", "created_at", e.Meta.CreatedAt)
	writeField(b, "      ", "updated_at", e.Meta.UpdatedAt)
}

func writeField(b *strings.Builder, indent, key, value string) {
	b.WriteString(indent + key + ": " + scalar(value) + "\n")
}

func writeBool(b *strings.Builder, indent, key string, value bool) {
	if value {
		b.WriteString(indent + key + ": true\n")
		return
	}
	b.WriteString(indent + key + ": false\n")
}

// writeNullable renders an empty value as an explicit null. Only end,
// description and link ever clear this way.
func writeNullable(b *strings.Builder, indent, key, value string) {
	if value == "" {
		b.WriteString(indent + key + ": null\n")
		return
	}
	writeField(b, indent, key, value)
}

func scalar(v string) string {
	if v == "" {
		return "''"
	}
	if dateTimeShaped.MatchString(v) || needsQuote(v) {
		return "'" + strings.ReplaceAll(v, "'", "''") + "'"
	}
	return v
}

func needsQuote(v string) bool {
	if strings.ContainsAny(v, ":#[]{},&*!|>%@\"'") {
		return true
	}
	c := v[0]
	if c == ' ' || c == '\t' || (c >= '0' && c <= '9') {
		return true
	}
	return strings.TrimSpace(v) != v
}
