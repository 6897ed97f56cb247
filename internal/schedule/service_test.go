package schedule

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lagerschema/lagerschema/internal/repository"
)

const serviceRegistry = `camps:
  - id: sommar-2026
    name: Sommarlägret
    location: Ekudden
    start_date: '2026-06-15'
    end_date: '2026-06-27'
    opens_for_editing: '2026-06-14'
    archived: false
    file: data/sommar-2026.yml
`

const serviceRecord = `camp:
  id: sommar-2026
  name: Sommarlägret
  location: Ekudden
  start_date: '2026-06-15'
  end_date: '2026-06-27'
  opens_for_editing: '2026-06-14'
  archived: false
events:
  - id: frukost-2026-06-16-0800
    title: Frukost
    date: '2026-06-16'
    start: '08:00'
    end: '09:00'
    location: Matsalen
    responsible: Köket
    description: null
    link: null
    owner:
      name: Anna
      email: anna@example.com
    meta:
      created_at: '2026-06-10T09:30'
      updated_at: '2026-06-10T09:30'
`

type countingSource struct {
	reads map[string]int
}

func (s *countingSource) GetFile(_ context.Context, path, _ string) (repository.FileContent, error) {
	if s.reads == nil {
		s.reads = make(map[string]int)
	}
	s.reads[path]++
	switch path {
	case "data/camps.yml":
		return repository.FileContent{Text: serviceRegistry, SHA: "reg"}, nil
	case "data/sommar-2026.yml":
		return repository.FileContent{Text: serviceRecord, SHA: "rec"}, nil
	}
	return repository.FileContent{}, repository.ErrFileNotFound
}

func newCachedService(src *countingSource, clock *time.Time) *Service {
	return NewService(src, "data/camps.yml", "main", EnvProduction, time.Minute, func() time.Time {
		return *clock
	})
}

func TestServiceCachesWithinTTL(t *testing.T) {
	src := &countingSource{}
	clock := time.Date(2026, 6, 20, 10, 0, 0, 0, time.UTC)
	svc := newCachedService(src, &clock)

	_, _, err := svc.Schedule(context.Background())
	require.NoError(t, err)
	_, _, err = svc.Schedule(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, src.reads["data/camps.yml"])
	assert.Equal(t, 1, src.reads["data/sommar-2026.yml"])

	// Past the TTL both files are fetched again.
	clock = clock.Add(2 * time.Minute)
	_, _, err = svc.Schedule(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, src.reads["data/camps.yml"])
	assert.Equal(t, 2, src.reads["data/sommar-2026.yml"])
}

func TestServiceSchedule(t *testing.T) {
	src := &countingSource{}
	clock := time.Date(2026, 6, 20, 10, 0, 0, 0, time.UTC)
	svc := newCachedService(src, &clock)

	camp, events, err := svc.Schedule(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "sommar-2026", camp.ID)
	require.Len(t, events, 1)
	assert.Equal(t, "frukost-2026-06-16-0800", events[0].ID)
}

func TestServiceFindEvent(t *testing.T) {
	src := &countingSource{}
	clock := time.Date(2026, 6, 20, 10, 0, 0, 0, time.UTC)
	svc := newCachedService(src, &clock)

	e, found, err := svc.FindEvent(context.Background(), "frukost-2026-06-16-0800")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "Frukost", e.Title)

	_, found, err = svc.FindEvent(context.Background(), "saknas-2026-06-16-0800")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestServiceToday(t *testing.T) {
	src := &countingSource{}
	clock := time.Date(2026, 6, 20, 23, 59, 0, 0, time.UTC)
	svc := newCachedService(src, &clock)

	assert.Equal(t, "2026-06-20", svc.Today())
}
