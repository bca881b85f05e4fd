package task

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/foremanhq/foreman/internals/runlog"
)

// ErrDiscarded marks queued tasks that never ran because an earlier task in
// the same drain failed.
var ErrDiscarded = errors.New("discarded after an earlier task failed")

// Events receives lifecycle notifications from the drain loop. Methods run
// on the executor goroutine and must return quickly.
type Events interface {
	TaskStarted(t Task)
	TaskFinished(t Task, err error)
}

// Orchestrator owns the work queue. Tasks enter through NewTask from any
// goroutine; a single drain runs them to completion one tree at a time.
type Orchestrator struct {
	owner  *Context
	events Events

	mu       sync.Mutex
	queue    []Task
	draining bool
}

func NewOrchestrator(owner *Context, events Events) *Orchestrator {
	return &Orchestrator{owner: owner, events: events}
}

// NewTask creates a task of the named type via the registry and enqueues it.
// The task does not start until a drain reaches it.
func (o *Orchestrator) NewTask(name string, parent Task, payload json.RawMessage) (Task, error) {
	t, err := o.Create(name, parent, payload)
	if err != nil {
		return nil, err
	}
	o.Enqueue(t)
	return t, nil
}

// Create builds a task of the named type without queueing it, for callers
// that need bookkeeping between construction and execution.
func (o *Orchestrator) Create(name string, parent Task, payload json.RawMessage) (Task, error) {
	return o.owner.Registry.Create(o.owner, parent, name, payload)
}

// Enqueue adds t to the work queue. An active drain picks it up; otherwise
// it waits for the next RunTasks call.
func (o *Orchestrator) Enqueue(t Task) {
	o.mu.Lock()
	o.queue = append(o.queue, t)
	o.mu.Unlock()
}

// RunTasks drains the queue in FIFO order, running each tree to completion.
// The first failure halts the drain: every task still queued is discarded
// (finished with ErrDiscarded) and the failure is returned. When a drain is
// already active, RunTasks returns nil immediately and the active drainer
// picks up newly enqueued tasks.
func (o *Orchestrator) RunTasks(ctx context.Context) error {
	o.mu.Lock()
	if o.draining {
		o.mu.Unlock()
		return nil
	}
	o.draining = true
	o.mu.Unlock()

	for {
		o.mu.Lock()
		if len(o.queue) == 0 {
			o.draining = false
			o.mu.Unlock()
			return nil
		}
		next := o.queue[0]
		o.queue = o.queue[1:]
		o.mu.Unlock()

		if err := o.runOne(ctx, next); err != nil {
			o.discardQueue(err)
			return err
		}
	}
}

func (o *Orchestrator) runOne(ctx context.Context, t Task) error {
	buf := runlog.New(
		slog.String("task_id", t.ID()),
		slog.String("task_type", t.Type()),
	)
	runCtx := runlog.WithContext(ctx, buf)

	if o.events != nil {
		o.events.TaskStarted(t)
	}
	start := time.Now()
	err := Run(runCtx, t)
	if o.events != nil {
		o.events.TaskFinished(t, err)
	}

	buf.Scope(slog.Duration("duration", time.Since(start)))
	if err != nil {
		buf.Error("task failed", slog.Any("error", err))
	}
	buf.Flush(o.owner.Logger, "Task run")
	return err
}

func (o *Orchestrator) discardQueue(cause error) {
	o.mu.Lock()
	discarded := o.queue
	o.queue = nil
	o.draining = false
	o.mu.Unlock()

	for _, t := range discarded {
		if o.events != nil {
			o.events.TaskFinished(t, ErrDiscarded)
		}
		if o.owner.Logger != nil {
			o.owner.Logger.Warn("Discarding queued task after failure",
				slog.String("task_id", t.ID()),
				slog.String("task_type", t.Type()),
				slog.Any("cause", cause),
			)
		}
	}
}
