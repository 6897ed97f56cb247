// Package schedule decides which camp is current, gates the editing
// window and serves a cached view of the record store's base branch.
package schedule

import (
	"errors"
	"fmt"

	"github.com/lagerschema/lagerschema/internal/domain"
)

// Environment selects which camps take part in resolution.
type Environment string

const (
	EnvProduction Environment = "production"
	EnvQA         Environment = "qa"
)

// ErrAmbiguousCamp is returned when zero camps are available or the
// registry carries duplicates, so no single active camp can be named.
var ErrAmbiguousCamp = errors.New("cannot resolve a single active camp")

// Resolve picks the camp considered current for today.
//
// In production, qa-flagged camps are excluded up front. In qa, a
// qa-flagged camp whose range contains today wins outright, even over a
// camp with an earlier start date; otherwise resolution proceeds as
// normal. Normal order: the camp containing today (ties broken by
// earliest start date), then the camp with the nearest future start,
// then the camp with the latest end date, archived ones included.
func Resolve(camps []domain.Camp, today string, env Environment) (domain.Camp, error) {
	if env == EnvProduction {
		filtered := make([]domain.Camp, 0, len(camps))
		for _, c := range camps {
			if !c.QA {
				filtered = append(filtered, c)
			}
		}
		camps = filtered
	}

	if len(camps) == 0 {
		return domain.Camp{}, ErrAmbiguousCamp
	}

	if env == EnvQA {
		if c, ok := pickContaining(camps, today, true); ok {
			return c, nil
		}
	}

	if c, ok := pickContaining(camps, today, false); ok {
		return c, nil
	}

	var future domain.Camp
	haveFuture := false
	for _, c := range camps {
		if c.StartDate > today && (!haveFuture || c.StartDate < future.StartDate) {
			future = c
			haveFuture = true
		}
	}
	if haveFuture {
		return future, nil
	}

	latest := camps[0]
	for _, c := range camps[1:] {
		if c.EndDate > latest.EndDate {
			latest = c
		}
	}
	return latest, nil
}

func pickContaining(camps []domain.Camp, today string, qaOnly bool) (domain.Camp, bool) {
	var best domain.Camp
	found := false
	for _, c := range camps {
		if qaOnly && !c.QA {
			continue
		}
		if !c.ContainsDate(today) {
			continue
		}
		if !found || c.StartDate < best.StartDate {
			best = c
			found = true
		}
	}
	return best, found
}

// CheckRegistry verifies the registry invariants: camp ids and record
// files are unique and every camp's end date is not before its start.
func CheckRegistry(camps []domain.Camp) error {
	ids := make(map[string]bool, len(camps))
	files := make(map[string]bool, len(camps))
	for _, c := range camps {
		if ids[c.ID] {
			return fmt.Errorf("%w: duplicate camp id %q", ErrAmbiguousCamp, c.ID)
		}
		if c.File != "" && files[c.File] {
			return fmt.Errorf("%w: duplicate record file %q", ErrAmbiguousCamp, c.File)
		}
		if c.EndDate < c.StartDate {
			return fmt.Errorf("camp %q ends before it starts", c.ID)
		}
		ids[c.ID] = true
		files[c.File] = true
	}
	return nil
}
