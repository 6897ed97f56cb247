package schedule

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/lagerschema/lagerschema/internal/domain"
	"github.com/lagerschema/lagerschema/internal/record"
	"github.com/lagerschema/lagerschema/internal/repository"
)

// ContentSource is the read half of the remote store the view needs.
type ContentSource interface {
	GetFile(ctx context.Context, path, ref string) (repository.FileContent, error)
}

// DefaultNow returns wall-clock time in the camp's civil timezone, so
// "today" flips at local midnight rather than UTC midnight.
func DefaultNow() time.Time {
	loc, err := time.LoadLocation("Europe/Stockholm")
	if err != nil {
		return time.Now()
	}
	return time.Now().In(loc)
}

// Service serves a TTL-cached view of the registry and the active
// camp's record file as they stand on the base branch. The read API is
// built on it, and the write path uses it for its synchronous checks
// (date-in-range, edit-target existence) without a network round trip.
type Service struct {
	store        ContentSource
	registryPath string
	baseBranch   string
	env          Environment
	ttl          time.Duration
	now          func() time.Time

	mu        sync.RWMutex
	camps     []domain.Camp
	file      record.File
	fetchedAt time.Time
}

func NewService(store ContentSource, registryPath, baseBranch string, env Environment, ttl time.Duration, now func() time.Time) *Service {
	if now == nil {
		now = DefaultNow
	}
	return &Service{
		store:        store,
		registryPath: registryPath,
		baseBranch:   baseBranch,
		env:          env,
		ttl:          ttl,
		now:          now,
	}
}

// Today returns the current civil date as YYYY-MM-DD.
func (s *Service) Today() string {
	return s.now().Format(dateLayout)
}

// Registry returns the camp registry from the base branch.
func (s *Service) Registry(ctx context.Context) ([]domain.Camp, error) {
	if err := s.refresh(ctx); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Camp, len(s.camps))
	copy(out, s.camps)
	return out, nil
}

// ActiveCamp resolves the camp considered current right now.
func (s *Service) ActiveCamp(ctx context.Context) (domain.Camp, error) {
	if err := s.refresh(ctx); err != nil {
		return domain.Camp{}, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Resolve(s.camps, s.Today(), s.env)
}

// Schedule returns the active camp together with its events.
func (s *Service) Schedule(ctx context.Context) (domain.Camp, []domain.Event, error) {
	camp, err := s.ActiveCamp(ctx)
	if err != nil {
		return domain.Camp{}, nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	events := make([]domain.Event, len(s.file.Events))
	copy(events, s.file.Events)
	return camp, events, nil
}

// FindEvent looks an event up by id in the active camp's record file.
func (s *Service) FindEvent(ctx context.Context, id string) (domain.Event, bool, error) {
	_, events, err := s.Schedule(ctx)
	if err != nil {
		return domain.Event{}, false, err
	}
	for _, e := range events {
		if e.ID == id {
			return e, true, nil
		}
	}
	return domain.Event{}, false, nil
}

func (s *Service) refresh(ctx context.Context) error {
	s.mu.RLock()
	fresh := !s.fetchedAt.IsZero() && s.now().Sub(s.fetchedAt) < s.ttl
	s.mu.RUnlock()
	if fresh {
		return nil
	}

	reg, err := s.store.GetFile(ctx, s.registryPath, s.baseBranch)
	if err != nil {
		return fmt.Errorf("s.store.GetFile -> %w", err)
	}
	camps, err := record.ParseRegistry(reg.Text)
	if err != nil {
		return fmt.Errorf("record.ParseRegistry -> %w", err)
	}
	if err := CheckRegistry(camps); err != nil {
		return err
	}

	var file record.File
	camp, err := Resolve(camps, s.now().Format(dateLayout), s.env)
	if err == nil && camp.File != "" {
		content, err := s.store.GetFile(ctx, camp.File, s.baseBranch)
		if err != nil {
			return fmt.Errorf("s.store.GetFile -> %w", err)
		}
		file, err = record.Parse(content.Text)
		if err != nil {
			return fmt.Errorf("record.Parse -> %w", err)
		}
	} else if err != nil {
		zap.L().Debug("no active camp while refreshing schedule cache", zap.Error(err))
	}

	s.mu.Lock()
	s.camps = camps
	s.file = file
	s.fetchedAt = s.now()
	s.mu.Unlock()

	return nil
}
