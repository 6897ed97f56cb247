package record

import (
	"errors"
	"time"

	"github.com/lagerschema/lagerschema/internal/domain"
)

// ErrEventNotFound signals that no event in the file matches the
// requested id. Returned, not panicked: the caller decides how to
// surface it.
var ErrEventNotFound = errors.New("event not found in record file")

// EventUpdate carries the mutable fields of an edit submission. An
// empty title, date, start, location or responsible means "leave
// unchanged"; an empty end, description or link means "clear to null".
// That asymmetry mirrors how the edit form has always behaved, so it is
// kept as observed rather than generalized.
type EventUpdate struct {
	Title       string
	Date        string
	Start       string
	End         string
	Location    string
	Responsible string
	Description string
	Link        string
}

// ApplyUpdate merges u into e under the patch rules. The id, owner and
// meta.created_at are carried over verbatim; meta.updated_at is always
// rewritten to now at minute precision.
func ApplyUpdate(e domain.Event, u EventUpdate, now time.Time) domain.Event {
	if u.Title != "" {
		e.Title = u.Title
	}
	if u.Date != "" {
		e.Date = u.Date
	}
	if u.Start != "" {
		e.Start = u.Start
	}
	if u.Location != "" {
		e.Location = u.Location
	}
	if u.Responsible != "" {
		e.Responsible = u.Responsible
	}
	e.End = u.End
	e.Description = u.Description
	e.Link = u.Link
	e.Meta.UpdatedAt = now.Format(MinuteStamp)
	return e
}

// Patch applies u to the single event with the matching id and returns
// the re-serialized file text. Pure over text; performs no I/O.
func Patch(fileText, eventID string, u EventUpdate, now time.Time) (string, error) {
	f, err := Parse(fileText)
	if err != nil {
		return "", err
	}

	idx := -1
	for i, e := range f.Events {
		if e.ID == eventID {
			idx = i
			break
		}
	}
	if idx == -1 {
		return "", ErrEventNotFound
	}

	f.Events[idx] = ApplyUpdate(f.Events[idx], u, now)
	return Marshal(f), nil
}
