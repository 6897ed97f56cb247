package record

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var patchNow = time.Date(2026, 6, 20, 14, 5, 33, 0, time.UTC)

func TestPatchReplacesAndFallsBack(t *testing.T) {
	text := Marshal(validFile())

	out, err := Patch(text, "frukost-2026-06-16-0800", EventUpdate{
		Title:       "Sen frukost",
		Start:       "08:30",
		End:         "09:30",
		Location:    "", // falls back
		Responsible: "", // falls back
		Description: "Nu med gröt",
		Link:        "https://example.com/frukost",
	}, patchNow)
	require.NoError(t, err)

	f, err := Parse(out)
	require.NoError(t, err)
	e := f.Events[0]
	assert.Equal(t, "Sen frukost", e.Title)
	assert.Equal(t, "2026-06-16", e.Date) // empty update, old value kept
	assert.Equal(t, "08:30", e.Start)
	assert.Equal(t, "09:30", e.End)
	assert.Equal(t, "Matsalen", e.Location)
	assert.Equal(t, "Köket", e.Responsible)
	assert.Equal(t, "Nu med gröt", e.Description)
	assert.Equal(t, "https://example.com/frukost", e.Link)
}

func TestPatchClearsNullableFields(t *testing.T) {
	text := Marshal(validFile())

	// The second event has a description and a link; an empty-but-present
	// value clears them. End behaves the same way.
	out, err := Patch(text, "kvallsdopp-2026-06-17-2100", EventUpdate{
		End:         "",
		Description: "",
		Link:        "",
	}, patchNow)
	require.NoError(t, err)

	f, err := Parse(out)
	require.NoError(t, err)
	e := f.Events[1]
	assert.Empty(t, e.Description)
	assert.Empty(t, e.Link)
	assert.Empty(t, e.End)
	assert.Contains(t, out, "description: null\n")
	assert.Contains(t, out, "link: null\n")
}

func TestPatchImmutableFields(t *testing.T) {
	text := Marshal(validFile())

	out, err := Patch(text, "frukost-2026-06-16-0800", EventUpdate{
		Title: "Annat namn",
		End:   "09:30",
	}, patchNow)
	require.NoError(t, err)

	f, err := Parse(out)
	require.NoError(t, err)
	e := f.Events[0]
	assert.Equal(t, "frukost-2026-06-16-0800", e.ID)
	assert.Equal(t, "Anna", e.Owner.Name)
	assert.Equal(t, "anna@example.com", e.Owner.Email)
	assert.Equal(t, "2026-06-10T09:30", e.Meta.CreatedAt)
	assert.Equal(t, "2026-06-20T14:05", e.Meta.UpdatedAt)
}

func TestPatchLeavesOtherEventsAlone(t *testing.T) {
	original := validFile()
	text := Marshal(original)

	out, err := Patch(text, "frukost-2026-06-16-0800", EventUpdate{Title: "Brunch", End: "10:00"}, patchNow)
	require.NoError(t, err)

	f, err := Parse(out)
	require.NoError(t, err)
	require.Len(t, f.Events, 2)
	assert.Equal(t, original.Events[1], f.Events[1])
}

func TestPatchNotFound(t *testing.T) {
	_, err := Patch(Marshal(validFile()), "finns-inte-2026-06-16-0800", EventUpdate{}, patchNow)

	assert.ErrorIs(t, err, ErrEventNotFound)
}

func TestPatchedFileRevalidates(t *testing.T) {
	out, err := Patch(Marshal(validFile()), "frukost-2026-06-16-0800", EventUpdate{
		Title: "Frukostbuffé",
		End:   "09:45",
	}, patchNow)
	require.NoError(t, err)

	res := ValidateText(out)
	assert.True(t, res.OK, "findings: %v", res.Findings)
}
