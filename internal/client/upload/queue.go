package upload

import (
	"context"
	"errors"
	"fmt"
	"path"
	"sync"

	"github.com/dmitrijs2005/gophdrive/internal/client/models"
	"github.com/dmitrijs2005/gophdrive/internal/common"
	"github.com/dmitrijs2005/gophdrive/internal/logging"
)

// Options configures a Queue. Journal and Listener are optional.
type Options struct {
	Plan     PlanConfig
	Journal  Journal
	Listener Listener
	Logger   logging.Logger
}

// Queue is the ordered list of upload tasks. Insertion order is processing
// order.
type Queue struct {
	mu    sync.Mutex
	tasks []*Task
	root  string

	backend  Backend
	resolver *Resolver
	probe    *Probe
	control  *Control
	plan     PlanConfig
	journal  Journal
	listener Listener
	log      logging.Logger
}

func NewQueue(backend Backend, opts Options) *Queue {
	if opts.Plan == (PlanConfig{}) {
		opts.Plan = DefaultPlanConfig()
	}
	if opts.Logger == nil {
		opts.Logger = logging.Discard()
	}
	return &Queue{
		backend:  backend,
		resolver: NewResolver(),
		probe:    NewProbe(backend),
		control:  NewControl(),
		plan:     opts.Plan,
		journal:  opts.Journal,
		listener: opts.Listener,
		log:      opts.Logger,
	}
}

// SetRoot sets the remote folder new tasks are queued into.
func (q *Queue) SetRoot(root string) {
	q.mu.Lock()
	q.root = common.CleanRemote(root)
	q.mu.Unlock()
}

func (q *Queue) Root() string {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.root
}

// Control exposes the queue's pause/cancel state.
func (q *Queue) Control() *Control { return q.control }

// Enqueue resolves an identifier and a chunk plan for src, probes the
// backend and appends a pending task. relativePath is relative to the queue
// root; when empty the source name is used.
//
// The task takes ownership of src. If the destination already holds a
// complete file, src is closed and ErrDuplicate is returned.
func (q *Queue) Enqueue(ctx context.Context, src Source, relativePath string) (string, error) {
	rel := common.CleanRemote(relativePath)
	if rel == "" {
		rel = common.CleanRemote(src.Name())
	}
	if rel == "" {
		_ = src.Close()
		return "", fmt.Errorf("%w: empty file name", common.ErrInvalidPath)
	}
	root := q.Root()

	plan := q.plan.Plan(src.Size())
	id := q.resolver.Resolve(common.JoinRemote(root, rel), src.Size(), src.ModTime())

	return q.add(ctx, id, src, rel, root, plan)
}

// EnqueueResumed re-queues a journaled task under its journaled identifier
// and chunk layout, so the chunks the backend already holds are reused.
func (q *Queue) EnqueueResumed(ctx context.Context, src Source, rec *models.TaskRecord) (string, error) {
	if rec.TotalChunks < 1 || rec.ChunkSize <= 0 {
		_ = src.Close()
		return "", fmt.Errorf("%w: bad chunk layout for %s", common.ErrValidation, rec.ID)
	}
	plan := Plan{ChunkSize: rec.ChunkSize, TotalChunks: rec.TotalChunks}
	return q.add(ctx, rec.ID, src, common.CleanRemote(rec.RelativePath), common.CleanRemote(rec.TargetPath), plan)
}

func (q *Queue) add(ctx context.Context, id string, src Source, rel, root string, plan Plan) (string, error) {
	if _, ok := q.get(id); ok {
		_ = src.Close()
		return "", fmt.Errorf("%w: task %s already queued", ErrDuplicate, id)
	}

	res, err := q.probe.Probe(ctx, id, rel, path.Base(rel), root)
	if err != nil {
		q.log.Debug(ctx, "probe failed, uploading from scratch", "id", id, "path", rel, "error", err)
	}

	dest := common.JoinRemote(root, rel)
	if res.Exists && !res.IsFolder && len(res.Uploaded) == 0 {
		_ = src.Close()
		return "", fmt.Errorf("%w: %s", ErrDuplicate, dest)
	}

	t := newTask(id, src, rel, root, plan, res.Uploaded)
	if q.journal != nil {
		if _, ok := src.(localSource); ok {
			if jerr := q.journal.Save(ctx, t.record()); jerr != nil {
				q.log.Warn(ctx, "journal save failed", "id", id, "error", jerr)
			} else {
				t.journaled = true
			}
		}
	}

	q.mu.Lock()
	q.tasks = append(q.tasks, t)
	q.mu.Unlock()

	q.log.Debug(ctx, "queued", "id", id, "path", dest, "size", t.size, "chunks", plan.TotalChunks, "uploaded", len(res.Uploaded))
	if err != nil {
		q.emit(EventWarning, t, err)
	}
	q.emit(EventQueued, t, nil)
	return id, nil
}

// Tasks returns snapshots of all queued tasks in processing order.
func (q *Queue) Tasks() []TaskView {
	q.mu.Lock()
	tasks := append([]*Task(nil), q.tasks...)
	q.mu.Unlock()

	out := make([]TaskView, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, t.View())
	}
	return out
}

// Task returns a snapshot of task id.
func (q *Queue) Task(id string) (TaskView, error) {
	t, ok := q.get(id)
	if !ok {
		return TaskView{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return t.View(), nil
}

func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.tasks)
}

func (q *Queue) get(id string) (*Task, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	for _, t := range q.tasks {
		if t.id == id {
			return t, true
		}
	}
	return nil, false
}

// next returns the first task that may run: a paused one to resume or a
// pending one to start.
func (q *Queue) next() *Task {
	q.mu.Lock()
	defer q.mu.Unlock()
	for _, t := range q.tasks {
		switch t.Status() {
		case models.StatusPending, models.StatusPaused:
			return t
		}
	}
	return nil
}

func (q *Queue) remove(t *Task) {
	q.mu.Lock()
	defer q.mu.Unlock()
	for i, cur := range q.tasks {
		if cur == t {
			q.tasks = append(q.tasks[:i], q.tasks[i+1:]...)
			return
		}
	}
}

func (q *Queue) snapshot() []*Task {
	q.mu.Lock()
	defer q.mu.Unlock()
	return append([]*Task(nil), q.tasks...)
}

// discard drops a task that is not running: no backend call is made.
func (q *Queue) discard(ctx context.Context, t *Task) {
	t.setStatus(models.StatusCancelled, nil)
	q.remove(t)
	t.closeSource()
	q.forget(ctx, t)
	q.control.clearCancel(t.id)
	q.emit(EventCancelled, t, nil)
}

// cancel drops a task that has already talked to the backend and tells the
// backend to drop its chunks. The notice is best-effort.
func (q *Queue) cancel(ctx context.Context, t *Task) {
	if err := q.backend.Cancel(ctx, t.id); err != nil {
		q.log.Warn(ctx, "cancel notice failed", "id", t.id, "error", fmt.Errorf("%w: %w", ErrCancelNotice, err))
	}
	q.discard(ctx, t)
}

func (q *Queue) forget(ctx context.Context, t *Task) {
	if q.journal == nil || !t.journaled {
		return
	}
	if err := q.journal.Delete(ctx, t.id); err != nil && !errors.Is(err, common.ErrNotFound) {
		q.log.Warn(ctx, "journal delete failed", "id", t.id, "error", err)
	}
}

func (q *Queue) emit(kind EventKind, t *Task, err error) {
	if q.listener == nil {
		return
	}
	q.listener(Event{Kind: kind, Task: t.View(), Err: err})
}
