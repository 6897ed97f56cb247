package record

import (
	"errors"
	"fmt"
	"regexp"
	"sort"
	"time"

	validation "github.com/go-ozzo/ozzo-validation"

	"github.com/lagerschema/lagerschema/internal/domain"
)

// MinuteStamp is the layout of meta timestamps.
const MinuteStamp = "2006-01-02T15:04"

// DateRe and TimeRe are the shapes of date and start/end fields. They
// are exported for request-level validation, which reuses them.
var (
	DateRe   = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	TimeRe   = regexp.MustCompile(`^([01]\d|2[0-3]):[0-5]\d$`)
	minuteRe = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}T\d{2}:\d{2}$`)
)

// Result is the outcome of a validation or scan pass. A non-empty
// finding list always implies OK=false.
type Result struct {
	OK       bool     `json:"ok"`
	Findings []string `json:"findings"`
}

func resultOf(findings []string) Result {
	return Result{OK: len(findings) == 0, Findings: findings}
}

// calendarDate accepts YYYY-MM-DD strings that are real calendar dates;
// a structurally matching but impossible date (month 13) fails.
func calendarDate(value interface{}) error {
	s, _ := value.(string)
	if s == "" {
		return nil // presence is Required's job
	}
	if !DateRe.MatchString(s) {
		return errors.New("must be a YYYY-MM-DD date")
	}
	if _, err := time.Parse("2006-01-02", s); err != nil {
		return errors.New("is not a calendar date")
	}
	return nil
}

func clockTime(value interface{}) error {
	s, _ := value.(string)
	if s == "" {
		return nil
	}
	if !TimeRe.MatchString(s) {
		return errors.New("must be a HH:MM time")
	}
	return nil
}

// Validate runs the schema pass over a parsed record file. It checks
// required fields on the camp header and every event, date/time shape
// and calendar validity, start/end ordering, the camp date range, and
// uniqueness of both the event id and the (title, date, start) triple.
// The input is not mutated.
func Validate(f File) Result {
	findings := prefixAll("camp.", campFindings(f.Camp))

	seenIDs := make(map[string]int, len(f.Events))
	seenTriples := make(map[string]int, len(f.Events))
	for i, e := range f.Events {
		prefix := fmt.Sprintf("events[%d].", i)
		findings = append(findings, prefixAll(prefix, eventFindings(e, f.Camp))...)

		if e.ID != "" {
			if first, dup := seenIDs[e.ID]; dup {
				findings = append(findings, fmt.Sprintf("%sid: duplicates events[%d]", prefix, first))
			} else {
				seenIDs[e.ID] = i
			}
		}
		triple := e.Title + "\x00" + e.Date + "\x00" + e.Start
		if first, dup := seenTriples[triple]; dup {
			findings = append(findings, fmt.Sprintf("%stitle: same title, date and start as events[%d]", prefix, first))
		} else {
			seenTriples[triple] = i
		}
	}

	return resultOf(findings)
}

// ValidateText parses then validates; a parse failure (including a
// non-boolean archived/qa value) surfaces as a single finding.
func ValidateText(text string) Result {
	f, err := Parse(text)
	if err != nil {
		return Result{OK: false, Findings: []string{err.Error()}}
	}
	return Validate(f)
}

// CheckEvent validates one candidate event against its owning camp:
// the schema rules that apply to a single event plus the security scan.
// This is the synchronous pass run before a submission is accepted.
func CheckEvent(e domain.Event, camp domain.Camp) Result {
	findings := eventFindings(e, camp)
	findings = append(findings, scanEvent(e)...)
	return resultOf(findings)
}

func campFindings(c domain.Camp) []string {
	findings := ozzoFindings(validation.ValidateStruct(&c,
		validation.Field(&c.ID, validation.Required),
		validation.Field(&c.Name, validation.Required),
		validation.Field(&c.Location, validation.Required),
		validation.Field(&c.StartDate, validation.Required, validation.By(calendarDate)),
		validation.Field(&c.EndDate, validation.Required, validation.By(calendarDate)),
		validation.Field(&c.OpensForEditing, validation.Required, validation.By(calendarDate)),
	))
	if c.StartDate != "" && c.EndDate != "" && c.EndDate < c.StartDate {
		findings = append(findings, "end_date: must not be before start_date")
	}
	return findings
}

func eventFindings(e domain.Event, camp domain.Camp) []string {
	findings := ozzoFindings(validation.ValidateStruct(&e,
		validation.Field(&e.ID, validation.Required),
		validation.Field(&e.Title, validation.Required),
		validation.Field(&e.Date, validation.Required, validation.By(calendarDate)),
		validation.Field(&e.Start, validation.Required, validation.By(clockTime)),
		// End is clearable to null by an edit, so it is optional here.
		validation.Field(&e.End, validation.By(clockTime)),
		validation.Field(&e.Location, validation.Required),
		validation.Field(&e.Responsible, validation.Required),
	))

	if e.Owner.Name == "" {
		findings = append(findings, "owner.name: cannot be blank")
	}
	if e.Owner.Email == "" {
		findings = append(findings, "owner.email: cannot be blank")
	}
	if e.Meta.CreatedAt == "" || !minuteRe.MatchString(e.Meta.CreatedAt) {
		findings = append(findings, "meta.created_at: must be a YYYY-MM-DDTHH:MM timestamp")
	}
	if e.Meta.UpdatedAt == "" || !minuteRe.MatchString(e.Meta.UpdatedAt) {
		findings = append(findings, "meta.updated_at: must be a YYYY-MM-DDTHH:MM timestamp")
	}

	if TimeRe.MatchString(e.Start) && TimeRe.MatchString(e.End) && e.End <= e.Start {
		findings = append(findings, "end: must be after start")
	}
	if DateRe.MatchString(e.Date) && camp.StartDate != "" && !camp.ContainsDate(e.Date) {
		findings = append(findings, fmt.Sprintf("date: %s is outside the camp period %s to %s", e.Date, camp.StartDate, camp.EndDate))
	}

	return findings
}

// ozzoFindings flattens an ozzo-validation error into sorted
// "field: message" strings so finding order is deterministic.
func ozzoFindings(err error) []string {
	if err == nil {
		return nil
	}
	var errs validation.Errors
	if !errors.As(err, &errs) {
		return []string{err.Error()}
	}
	fields := make([]string, 0, len(errs))
	for field := range errs {
		fields = append(fields, field)
	}
	sort.Strings(fields)
	findings := make([]string, 0, len(fields))
	for _, field := range fields {
		findings = append(findings, fmt.Sprintf("%s: %v", field, errs[field]))
	}
	return findings
}

func prefixAll(prefix string, findings []string) []string {
	out := make([]string, 0, len(findings))
	for _, f := range findings {
		out = append(out, prefix+f)
	}
	return out
}
