// Package goroutine runs background jobs under a concurrency cap and collects
// their errors for shutdown.
package goroutine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime"
	"runtime/debug"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/shandysiswandi/newsletter/internal/pkg/stacktrace"
)

// DefaultMaxGoroutine is multiplied by NumCPU when the configured limit is not positive.
const DefaultMaxGoroutine = 100

type Manager struct {
	group errgroup.Group

	mu     sync.Mutex
	errs   []error
	closed bool
}

func NewManager(limit int) *Manager {
	if limit < 1 {
		limit = runtime.NumCPU() * DefaultMaxGoroutine
	}

	m := &Manager{}
	m.group.SetLimit(limit)
	return m
}

// Go starts f unless the manager is full or already waiting; both cases are
// logged and f is dropped. A panic in f is logged and recorded as an error.
func (m *Manager) Go(ctx context.Context, f func(ctx context.Context) error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		slog.WarnContext(ctx, "goroutine: manager closed, job dropped")
		return
	}

	started := m.group.TryGo(func() error {
		if err := m.run(ctx, f); err != nil {
			m.mu.Lock()
			m.errs = append(m.errs, err)
			m.mu.Unlock()
		}
		return nil
	})
	if !started {
		slog.WarnContext(ctx, "goroutine: limit reached, job dropped")
	}
}

func (m *Manager) run(ctx context.Context, f func(context.Context) error) (err error) {
	defer func() {
		rvr := recover()
		if rvr == nil {
			return
		}
		stack := debug.Stack()
		if paths := stacktrace.InternalPaths(stack); len(paths) > 0 {
			slog.ErrorContext(ctx, "goroutine: panic", "because", rvr, "stack", paths)
		} else {
			slog.ErrorContext(ctx, "goroutine: panic", "because", rvr, "stack", string(stack))
		}
		err = fmt.Errorf("goroutine: panic: %v", rvr)
	}()

	if ctx.Err() != nil {
		slog.WarnContext(ctx, "goroutine: context done before start", "because", ctx.Err())
		return nil
	}

	return f(ctx)
}

// Wait refuses new jobs, waits for running ones and joins their errors.
func (m *Manager) Wait() error {
	m.mu.Lock()
	m.closed = true
	m.mu.Unlock()

	_ = m.group.Wait()

	m.mu.Lock()
	defer m.mu.Unlock()
	return errors.Join(m.errs...)
}
