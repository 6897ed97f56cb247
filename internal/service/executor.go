package service

import (
	"context"

	"go.uber.org/zap"
)

// TaskRunner executes the remote pipeline after the caller has already
// been answered. It is an interface so tests can run tasks inline and
// await them deterministically instead of racing timers.
type TaskRunner interface {
	Run(name string, task func(ctx context.Context) error)
}

// BackgroundRunner is the production runner: fire-and-forget in a
// goroutine, completion logged only. A failed task means the record
// simply never appears; the submitter has to submit again. The task
// carries no deadline of its own and leans on the transport's default
// timeout.
type BackgroundRunner struct{}

func NewBackgroundRunner() *BackgroundRunner {
	return &BackgroundRunner{}
}

func (r *BackgroundRunner) Run(name string, task func(ctx context.Context) error) {
	go func() {
		if err := task(context.Background()); err != nil {
			zap.L().Error("background submission failed", zap.String("task", name), zap.Error(err))
			return
		}
		zap.L().Info("background submission completed", zap.String("task", name))
	}()
}

// SyncRunner runs the task inline. Used by tests.
type SyncRunner struct {
	// Err records the most recent task error.
	Err error
}

func (r *SyncRunner) Run(name string, task func(ctx context.Context) error) {
	r.Err = task(context.Background())
}
