package representation

import (
	"context"
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"

	"mol-render/gpu"
	"mol-render/render"
	"mol-render/task"
)

// BuilderConfig sizes the background construction pool.
type BuilderConfig struct {
	// Workers is the maximum number of concurrent constructions. Zero uses
	// the number of CPUs.
	Workers int `toml:"workers" yaml:"workers"`
	// QueueSize bounds queued constructions and undelivered results.
	QueueSize int `toml:"queue_size" yaml:"queue_size"`
	// IdleTimeout is how long an idle worker lives, e.g. "1s".
	IdleTimeout string `toml:"idle_timeout" yaml:"idle_timeout"`
	// UpdateInterval is the minimum time between progress reports.
	UpdateInterval string `toml:"update_interval" yaml:"update_interval"`
}

func DefaultBuilderConfig() BuilderConfig {
	return BuilderConfig{
		QueueSize:      256,
		IdleTimeout:    "1s",
		UpdateInterval: task.DefaultUpdateInterval.String(),
	}
}

func (c BuilderConfig) Validate() error {
	if c.Workers < 0 {
		return fmt.Errorf("workers %d is negative", c.Workers)
	}
	if c.QueueSize < 1 {
		return fmt.Errorf("queue size %d must be positive", c.QueueSize)
	}
	if _, err := time.ParseDuration(c.IdleTimeout); err != nil {
		return fmt.Errorf("idle timeout: %w", err)
	}
	if _, err := time.ParseDuration(c.UpdateInterval); err != nil {
		return fmt.Errorf("update interval: %w", err)
	}
	return nil
}

// BuildFunc constructs one render object. It must yield to rt and honor ctx.
type BuildFunc func(ctx context.Context, rt task.Runtime) (*render.RenderObject, error)

// Result is a finished construction. Err is a failure; cancelled
// constructions are not delivered.
type Result struct {
	Key    string
	Object *render.RenderObject
	Err    error
}

type pendingBuild struct {
	id     int
	cancel context.CancelFunc
}

// Builder runs render object constructions on a worker pool and hands the
// finished objects to the goroutine owning the GL context through Results.
// Submitting a key that is still building cancels the older build.
type Builder struct {
	pool     worker.DynamicWorkerPool
	results  chan Result
	done     chan struct{}
	observer task.Observer
	interval time.Duration

	nextID  atomic.Int64
	mu      sync.Mutex
	pending map[string]pendingBuild
	closed  bool
	running sync.WaitGroup
}

// NewBuilder starts a pool sized by cfg. observer receives the progress of
// every construction and may be nil.
func NewBuilder(cfg BuilderConfig, observer task.Observer) (*Builder, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	idle, _ := time.ParseDuration(cfg.IdleTimeout)
	interval, _ := time.ParseDuration(cfg.UpdateInterval)
	workers := cfg.Workers
	if workers == 0 {
		workers = runtime.NumCPU()
	}
	return &Builder{
		pool:     worker.NewDynamicWorkerPool(workers, cfg.QueueSize, idle),
		results:  make(chan Result, cfg.QueueSize),
		done:     make(chan struct{}),
		observer: observer,
		interval: interval,
		pending:  make(map[string]pendingBuild),
	}, nil
}

// Results delivers finished constructions.
func (b *Builder) Results() <-chan Result { return b.results }

// Submit queues build under key. It does nothing once the builder is closed.
func (b *Builder) Submit(ctx context.Context, key string, build BuildFunc) {
	id := int(b.nextID.Add(1))
	buildCtx, cancel := context.WithCancel(ctx)

	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		cancel()
		return
	}
	if prev, ok := b.pending[key]; ok {
		prev.cancel()
	}
	b.pending[key] = pendingBuild{id: id, cancel: cancel}
	b.mu.Unlock()

	opts := []task.Option{task.WithUpdateInterval(b.interval)}
	if b.observer != nil {
		opts = append(opts, task.WithObserver(b.observer))
	}
	rt := task.New(opts...)

	b.pool.SubmitTask(worker.Task{
		ID: id,
		Do: func() (any, error) {
			if !b.start() {
				cancel()
				return nil, task.ErrCancelled
			}
			defer b.running.Done()
			obj, err := build(buildCtx, rt)
			b.finish(key, id, Result{Key: key, Object: obj, Err: err})
			return obj, err
		},
	})
}

// start registers a running construction, or reports false after Close.
func (b *Builder) start() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return false
	}
	b.running.Add(1)
	return true
}

// Close cancels every pending build, stops the pool and waits for the
// constructions already running to return. Undelivered results are
// dropped. Close is idempotent.
func (b *Builder) Close() {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return
	}
	b.closed = true
	for key, p := range b.pending {
		p.cancel()
		delete(b.pending, key)
	}
	b.mu.Unlock()

	close(b.done)
	b.pool.Stop()
	b.running.Wait()
}

// Cancel aborts the pending build of key, if any.
func (b *Builder) Cancel(key string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if p, ok := b.pending[key]; ok {
		p.cancel()
		delete(b.pending, key)
	}
}

func (b *Builder) finish(key string, id int, r Result) {
	b.mu.Lock()
	p, current := b.pending[key]
	current = current && p.id == id
	if current {
		p.cancel()
		delete(b.pending, key)
	}
	b.mu.Unlock()

	switch {
	case task.IsCancelled(r.Err) || !current:
		gpu.Logger().Debug("render object construction cancelled", "key", key, "id", id)
		return
	case r.Err != nil:
		gpu.Logger().Error("render object construction failed", "key", key, "id", id, "err", r.Err)
	}
	select {
	case b.results <- r:
	case <-b.done:
		gpu.Logger().Debug("render object dropped on close", "key", key, "id", id)
	}
}
