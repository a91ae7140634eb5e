package upload

import (
	"context"
	"errors"
	"sync"

	"github.com/dmitrijs2005/gophdrive/internal/client/models"
	"github.com/dmitrijs2005/gophdrive/internal/logging"
)

// Runner feeds queued tasks to a Coordinator one at a time.
type Runner struct {
	q     *Queue
	coord *Coordinator
	log   logging.Logger

	mu      sync.Mutex
	running bool
	active  string
	done    chan struct{}
}

func NewRunner(q *Queue, refresher Refresher) *Runner {
	return &Runner{
		q:     q,
		coord: newCoordinator(q, refresher),
		log:   q.log,
	}
}

// Run processes runnable tasks in insertion order until none is left or
// the queue is paused. If a run is already in progress it returns at once.
func (r *Runner) Run(ctx context.Context) error {
	if !r.claim() {
		return nil
	}
	r.loop(ctx)
	return ctx.Err()
}

// Start runs the queue in a background goroutine.
func (r *Runner) Start(ctx context.Context) {
	if r.claim() {
		go r.loop(ctx)
	}
}

func (r *Runner) claim() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.running {
		return false
	}
	r.running = true
	r.done = make(chan struct{})
	return true
}

func (r *Runner) loop(ctx context.Context) {
	for {
		t := r.next(ctx)
		if t == nil {
			return
		}
		err := r.coord.Upload(ctx, t)
		r.finish(ctx, t, err)
	}
}

// Wait blocks until the current run, if any, stops.
func (r *Runner) Wait() {
	r.mu.Lock()
	done := r.done
	running := r.running
	r.mu.Unlock()
	if running && done != nil {
		<-done
	}
}

// Running reports whether a run loop is active.
func (r *Runner) Running() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.running
}

// Active returns the identifier of the task being uploaded, if any.
func (r *Runner) Active() (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.active, r.active != ""
}

// next picks the next task and marks it active, or stops the loop. Both
// happen under r.mu so a Start racing with the loop's exit is never lost.
func (r *Runner) next(ctx context.Context) *Task {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.active = ""
	if ctx.Err() == nil && !r.q.control.Paused() {
		if t := r.q.next(); t != nil {
			r.active = t.id
			t.setStatus(models.StatusUploading, nil)
			return t
		}
	}
	r.running = false
	close(r.done)
	return nil
}

func (r *Runner) finish(ctx context.Context, t *Task, err error) {
	switch {
	case err == nil:
		r.q.remove(t)
		t.closeSource()
		r.q.forget(ctx, t)
		r.q.control.clearCancel(t.id)
		r.q.emit(EventCompleted, t, nil)
	case errors.Is(err, ErrCancelled):
		r.q.cancel(ctx, t)
	case errors.Is(err, ErrPaused), ctx.Err() != nil && errors.Is(err, ctx.Err()):
		// Parked, unless a remove arrived while the task was stopping.
		if r.takeCancelled(t) {
			r.q.cancel(context.WithoutCancel(ctx), t)
		}
	default:
		t.closeSource()
		r.q.emit(EventFailed, t, err)
	}
}

// takeCancelled removes t from the queue if a cancel was requested for it
// and nobody else has removed it yet.
func (r *Runner) takeCancelled(t *Task) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.q.control.cancelRequested(t.id) {
		return false
	}
	if _, ok := r.q.get(t.id); !ok {
		return false
	}
	r.q.remove(t)
	return true
}

// PauseAll stops the active task before its next chunk and keeps new
// tasks from starting.
func (r *Runner) PauseAll() {
	r.q.control.Pause()
}

// ResumeAll clears the pause and restarts processing in the background,
// beginning with the paused task.
func (r *Runner) ResumeAll(ctx context.Context) {
	r.q.control.Resume()
	r.Start(ctx)
}

// CancelAll cancels the active task, cancels a paused one with a backend
// notice, and discards everything else. The pause flag is cleared.
func (r *Runner) CancelAll(ctx context.Context) {
	var paused, rest []*Task

	r.mu.Lock()
	for _, t := range r.q.snapshot() {
		switch {
		case t.id == r.active && t.Status() != models.StatusPaused:
			r.q.control.RequestCancel(t.id)
			continue
		case t.Status() == models.StatusPaused:
			paused = append(paused, t)
		default:
			rest = append(rest, t)
		}
		r.q.remove(t)
	}
	r.q.control.Resume()
	r.mu.Unlock()

	for _, t := range paused {
		r.q.cancel(ctx, t)
	}
	for _, t := range rest {
		r.q.discard(ctx, t)
	}
}

// Remove takes task id out of the queue. An uploading task is cancelled at
// its next checkpoint, a paused one is cancelled with a backend notice, and
// a pending or failed one is dropped without contacting the backend.
// Removing an unknown or finished task is a no-op.
//
// The active task may already be parked at a checkpoint; it then counts as
// paused and is cancelled here rather than left for the next run.
func (r *Runner) Remove(ctx context.Context, id string) {
	r.mu.Lock()
	t, ok := r.q.get(id)
	if !ok {
		r.mu.Unlock()
		return
	}
	paused := t.Status() == models.StatusPaused
	if r.active == id && !paused {
		r.q.control.RequestCancel(id)
		r.mu.Unlock()
		return
	}
	r.q.remove(t)
	r.mu.Unlock()

	if paused {
		r.q.cancel(ctx, t)
		return
	}
	r.q.discard(ctx, t)
}
