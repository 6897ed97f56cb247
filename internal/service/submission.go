// Package service implements the two caller-facing write operations and
// the remote update pipeline behind them. Everything up to "locally
// accepted" runs synchronously and is surfaced to the caller;
// everything after runs as background work and fails silently from the
// submitter's point of view.
package service

import (
	"context"
	"fmt"
	"time"

	"github.com/lagerschema/lagerschema/internal/domain"
	"github.com/lagerschema/lagerschema/internal/record"
	"github.com/lagerschema/lagerschema/internal/repository"
	"github.com/lagerschema/lagerschema/internal/schedule"
	"github.com/lagerschema/lagerschema/internal/slug"
)

// ScheduleView is the cached read-side the synchronous checks run
// against. The pipeline itself never uses it; it re-reads everything
// fresh from the base branch.
type ScheduleView interface {
	ActiveCamp(ctx context.Context) (domain.Camp, error)
	FindEvent(ctx context.Context, id string) (domain.Event, bool, error)
	Today() string
}

// NewEventInput carries a new-event submission.
type NewEventInput struct {
	Title       string
	Date        string
	Start       string
	End         string
	Location    string
	Responsible string
	Description string
	Link        string
	OwnerName   string
	OwnerEmail  string
}

// EditEventInput carries an edit submission. Empty title, date, start,
// location or responsible keep the stored value; empty end, description
// or link clear it.
type EditEventInput struct {
	Title       string
	Date        string
	Start       string
	End         string
	Location    string
	Responsible string
	Description string
	Link        string
}

// Config wires the service to its repository and environment.
type Config struct {
	BaseBranch   string
	RegistryPath string
	Environment  schedule.Environment
	// Now is the clock used for "today" and meta timestamps. Defaults
	// to local time in the camp's timezone.
	Now func() time.Time
}

type SubmissionService struct {
	store  repository.RemoteStore
	view   ScheduleView
	runner TaskRunner
	conf   Config
}

func NewSubmissionService(store repository.RemoteStore, view ScheduleView, runner TaskRunner, conf Config) *SubmissionService {
	if conf.Now == nil {
		conf.Now = schedule.DefaultNow
	}
	return &SubmissionService{
		store:  store,
		view:   view,
		runner: runner,
		conf:   conf,
	}
}

// SubmitNewEvent validates a submission against the active camp and, on
// acceptance, returns the derived event id immediately. The durable
// write happens afterwards in the background pipeline.
func (s *SubmissionService) SubmitNewEvent(ctx context.Context, in NewEventInput) (string, error) {
	camp, err := s.view.ActiveCamp(ctx)
	if err != nil {
		return "", fmt.Errorf("s.view.ActiveCamp -> %w", err)
	}
	if schedule.OutsideEditingPeriod(s.view.Today(), camp.OpensForEditing, camp.EndDate) {
		return "", ErrOutsideEditingPeriod
	}

	now := s.conf.Now().Format(record.MinuteStamp)
	ev := domain.Event{
		ID:          slug.EventID(in.Title, in.Date, in.Start),
		Title:       in.Title,
		Date:        in.Date,
		Start:       in.Start,
		End:         in.End,
		Location:    in.Location,
		Responsible: in.Responsible,
		Description: in.Description,
		Link:        in.Link,
		Owner:       domain.EventOwner{Name: in.OwnerName, Email: in.OwnerEmail},
		Meta:        domain.EventMeta{CreatedAt: now, UpdatedAt: now},
	}

	if res := record.CheckEvent(ev, camp); !res.OK {
		return "", &ValidationError{Findings: res.Findings}
	}
	if _, exists, err := s.view.FindEvent(ctx, ev.ID); err != nil {
		return "", fmt.Errorf("s.view.FindEvent -> %w", err)
	} else if exists {
		return "", &ValidationError{Findings: []string{"id: an event with this title, date and start already exists"}}
	}

	s.runner.Run("add-"+ev.ID, func(taskCtx context.Context) error {
		return s.runPipeline(taskCtx, opAdd, ev, record.EventUpdate{})
	})

	return ev.ID, nil
}

// SubmitEdit validates an edit against the active camp and the stored
// event, then hands the patch to the background pipeline. The ownership
// check ("is this id in the submitter's cookie set") belongs to the
// HTTP layer and has already happened by the time this runs.
func (s *SubmissionService) SubmitEdit(ctx context.Context, eventID string, in EditEventInput) error {
	camp, err := s.view.ActiveCamp(ctx)
	if err != nil {
		return fmt.Errorf("s.view.ActiveCamp -> %w", err)
	}
	if schedule.OutsideEditingPeriod(s.view.Today(), camp.OpensForEditing, camp.EndDate) {
		return ErrOutsideEditingPeriod
	}

	existing, found, err := s.view.FindEvent(ctx, eventID)
	if err != nil {
		return fmt.Errorf("s.view.FindEvent -> %w", err)
	}
	if !found {
		return ErrEventNotFound
	}

	update := record.EventUpdate{
		Title:       in.Title,
		Date:        in.Date,
		Start:       in.Start,
		End:         in.End,
		Location:    in.Location,
		Responsible: in.Responsible,
		Description: in.Description,
		Link:        in.Link,
	}

	// Validate the event as it will look after the patch.
	candidate := record.ApplyUpdate(existing, update, s.conf.Now())
	if res := record.CheckEvent(candidate, camp); !res.OK {
		return &ValidationError{Findings: res.Findings}
	}

	s.runner.Run("edit-"+eventID, func(taskCtx context.Context) error {
		return s.runPipeline(taskCtx, opEdit, existing, update)
	})

	return nil
}
