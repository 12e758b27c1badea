// Package task provides the cooperative runtime threaded through long
// computations (color materialization, render object construction).
//
// Long loops call ShouldUpdate cheaply and, when it reports true, Update with
// their progress. Update is the suspension point: it reports progress to the
// observer, yields the processor and returns ErrCancelled once the work was
// aborted.
package task

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"
	"time"
)

// ErrCancelled is returned when a computation was aborted on purpose.
// It is not a failure: callers discard partial results and may retry.
var ErrCancelled = errors.New("task cancelled")

// DefaultUpdateInterval is how often a Runtime asks for progress updates.
const DefaultUpdateInterval = 15 * time.Millisecond

// Progress describes how far a computation got.
type Progress struct {
	Message       string
	Current       int
	Max           int
	Indeterminate bool
	CanAbort      bool
}

func (p Progress) String() string {
	if p.Indeterminate || p.Max <= 0 {
		return p.Message
	}
	return fmt.Sprintf("%s (%d/%d)", p.Message, p.Current, p.Max)
}

// Runtime is the cooperative task context.
type Runtime interface {
	// ShouldUpdate reports whether enough time passed since the last update.
	ShouldUpdate() bool
	// Update reports progress and yields. It returns an error wrapping
	// ErrCancelled if ctx is done or the runtime was aborted.
	Update(ctx context.Context, p Progress) error
}

// Observer receives progress reports.
type Observer func(Progress)

// Option configures a Runtime created by New.
type Option func(*runtimeCtx)

// WithObserver registers a progress observer.
func WithObserver(fn Observer) Option {
	return func(r *runtimeCtx) { r.observer = fn }
}

// WithUpdateInterval sets the minimum time between updates. Zero makes
// ShouldUpdate always true.
func WithUpdateInterval(d time.Duration) Option {
	return func(r *runtimeCtx) { r.interval = d }
}

// Controller is a Runtime that can be aborted from another goroutine.
type Controller interface {
	Runtime
	Abort()
}

type runtimeCtx struct {
	interval time.Duration
	observer Observer

	mu         sync.Mutex
	lastUpdate time.Time
	aborted    atomic.Bool
}

// New creates an asynchronous Runtime.
func New(opts ...Option) Controller {
	r := &runtimeCtx{interval: DefaultUpdateInterval, lastUpdate: time.Now()}
	for _, o := range opts {
		o(r)
	}
	return r
}

func (r *runtimeCtx) ShouldUpdate() bool {
	if r.aborted.Load() {
		return true
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return time.Since(r.lastUpdate) >= r.interval
}

func (r *runtimeCtx) Update(ctx context.Context, p Progress) error {
	if err := checkCancelled(ctx, r.aborted.Load()); err != nil {
		return err
	}
	r.mu.Lock()
	r.lastUpdate = time.Now()
	r.mu.Unlock()
	if r.observer != nil {
		r.observer(p)
	}
	runtime.Gosched()
	return checkCancelled(ctx, r.aborted.Load())
}

// Abort makes the next Update return ErrCancelled.
func (r *runtimeCtx) Abort() { r.aborted.Store(true) }

type syncRuntime struct{}

// Synchronous returns a Runtime that never asks for updates. It still honors
// context cancellation when Update is called explicitly.
func Synchronous() Runtime { return syncRuntime{} }

func (syncRuntime) ShouldUpdate() bool { return false }

func (syncRuntime) Update(ctx context.Context, _ Progress) error {
	return checkCancelled(ctx, false)
}

// Check returns an ErrCancelled error if ctx is done. Loops call it at batch
// boundaries so cancellation is noticed even when no update is due.
func Check(ctx context.Context) error {
	return checkCancelled(ctx, false)
}

func checkCancelled(ctx context.Context, aborted bool) error {
	if aborted {
		return ErrCancelled
	}
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: %w", ErrCancelled, err)
	}
	return nil
}

// IsCancelled reports whether err is a cancellation rather than a failure.
func IsCancelled(err error) bool {
	return errors.Is(err, ErrCancelled)
}
