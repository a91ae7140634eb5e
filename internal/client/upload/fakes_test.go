package upload

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dmitrijs2005/gophdrive/internal/client/models"
	"github.com/dmitrijs2005/gophdrive/internal/common"
)

// fakeBackend keeps chunk sessions in memory and records every call.
type fakeBackend struct {
	mu       sync.Mutex
	calls    []string
	chunks   map[string]map[int][]byte
	files    map[string][]byte
	folders  map[string]bool
	checkErr error
	chunkErr func(models.ChunkUpload) error
	mergeErr error
	cancel   error
	folderFn func(path string) error

	// onChunk runs after a chunk is stored, before it is acknowledged.
	onChunk func(models.ChunkUpload)
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		chunks:  make(map[string]map[int][]byte),
		files:   make(map[string][]byte),
		folders: make(map[string]bool),
	}
}

func (b *fakeBackend) record(format string, args ...any) {
	b.mu.Lock()
	b.calls = append(b.calls, fmt.Sprintf(format, args...))
	b.mu.Unlock()
}

func (b *fakeBackend) Calls() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]string(nil), b.calls...)
}

func (b *fakeBackend) ResetCalls() {
	b.mu.Lock()
	b.calls = nil
	b.mu.Unlock()
}

// CallsWithPrefix filters recorded calls by kind ("chunk", "merge", ...).
func (b *fakeBackend) CallsWithPrefix(prefix string) []string {
	var out []string
	for _, c := range b.Calls() {
		if strings.HasPrefix(c, prefix) {
			out = append(out, c)
		}
	}
	return out
}

func (b *fakeBackend) Check(_ context.Context, req models.CheckRequest) (*models.CheckResult, error) {
	b.record("check:%s", req.Hash)
	if b.checkErr != nil {
		return nil, b.checkErr
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	dest := common.JoinRemote(req.TargetPath, req.FilePath)
	if b.folders[dest] {
		return &models.CheckResult{Exists: true, IsFolder: true}, nil
	}
	if _, ok := b.files[dest]; ok {
		return &models.CheckResult{Exists: true}, nil
	}
	res := &models.CheckResult{UploadedChunks: []string{}}
	for idx := range b.chunks[req.Hash] {
		res.UploadedChunks = append(res.UploadedChunks, common.ChunkName(idx))
	}
	sort.Strings(res.UploadedChunks)
	return res, nil
}

func (b *fakeBackend) UploadChunk(_ context.Context, c models.ChunkUpload) error {
	b.record("chunk:%s:%d", c.Hash, c.ChunkIndex)
	if b.chunkErr != nil {
		if err := b.chunkErr(c); err != nil {
			return err
		}
	}
	b.mu.Lock()
	if b.chunks[c.Hash] == nil {
		b.chunks[c.Hash] = make(map[int][]byte)
	}
	b.chunks[c.Hash][c.ChunkIndex] = append([]byte(nil), c.Data...)
	b.mu.Unlock()

	if b.onChunk != nil {
		b.onChunk(c)
	}
	return nil
}

func (b *fakeBackend) Merge(_ context.Context, req models.MergeRequest) (*models.MergeResult, error) {
	b.record("merge:%s", req.Hash)
	if b.mergeErr != nil {
		return nil, b.mergeErr
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	session := b.chunks[req.Hash]
	var buf bytes.Buffer
	for i := 0; i < req.TotalChunks; i++ {
		data, ok := session[i]
		if !ok {
			return nil, fmt.Errorf("missing chunk %d", i)
		}
		buf.Write(data)
	}
	dest := common.JoinRemote(req.TargetPath, req.FilePath)
	b.files[dest] = buf.Bytes()
	delete(b.chunks, req.Hash)
	return &models.MergeResult{Success: true, FilePath: dest, Size: int64(buf.Len())}, nil
}

func (b *fakeBackend) Cancel(_ context.Context, hash string) error {
	b.record("cancel:%s", hash)
	b.mu.Lock()
	delete(b.chunks, hash)
	b.mu.Unlock()
	return b.cancel
}

func (b *fakeBackend) CreateFolder(_ context.Context, parent, name string) error {
	p := common.JoinRemote(parent, name)
	b.record("folder:%s", p)
	if b.folderFn != nil {
		if err := b.folderFn(p); err != nil {
			return err
		}
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.folders[p] {
		return fmt.Errorf("%w: %s", common.ErrAlreadyExists, p)
	}
	b.folders[p] = true
	return nil
}

func (b *fakeBackend) File(dest string) ([]byte, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	data, ok := b.files[dest]
	return data, ok
}

func (b *fakeBackend) ChunkCount(id string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.chunks[id])
}

// memSource is an in-memory Source.
type memSource struct {
	*bytes.Reader
	name    string
	size    int64
	modTime time.Time
	closed  atomic.Bool
}

func newMemSource(name string, data []byte) *memSource {
	return &memSource{
		Reader:  bytes.NewReader(data),
		name:    name,
		size:    int64(len(data)),
		modTime: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
	}
}

func (s *memSource) Close() error       { s.closed.Store(true); return nil }
func (s *memSource) Name() string       { return s.name }
func (s *memSource) Size() int64        { return s.size }
func (s *memSource) ModTime() time.Time { return s.modTime }

// patternSource produces deterministic bytes without holding them.
type patternSource struct {
	name   string
	size   int64
	closed atomic.Bool
}

func (s *patternSource) ReadAt(p []byte, off int64) (int, error) {
	if off >= s.size {
		return 0, io.EOF
	}
	n := len(p)
	if rest := s.size - off; int64(n) > rest {
		n = int(rest)
	}
	for i := 0; i < n; i++ {
		p[i] = byte((off + int64(i)) % 251)
	}
	if n < len(p) {
		return n, io.EOF
	}
	return n, nil
}

func (s *patternSource) Close() error       { s.closed.Store(true); return nil }
func (s *patternSource) Name() string       { return s.name }
func (s *patternSource) Size() int64        { return s.size }
func (s *patternSource) ModTime() time.Time { return time.Unix(1700000000, 0) }

// eventLog collects listener events.
type eventLog struct {
	mu     sync.Mutex
	events []Event
}

func (l *eventLog) listen(e Event) {
	l.mu.Lock()
	l.events = append(l.events, e)
	l.mu.Unlock()
}

func (l *eventLog) Kinds(id string) []EventKind {
	l.mu.Lock()
	defer l.mu.Unlock()
	var out []EventKind
	for _, e := range l.events {
		if e.Task.ID == id {
			out = append(out, e.Kind)
		}
	}
	return out
}

func (l *eventLog) First(kind EventKind) (Event, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, e := range l.events {
		if e.Kind == kind {
			return e, true
		}
	}
	return Event{}, false
}

// fakeJournal records journal calls.
type fakeJournal struct {
	mu       sync.Mutex
	records  map[string]*models.TaskRecord
	chunks   map[string][]int
	statuses map[string]models.TaskStatus
	deleted  []string
	saveErr  error
}

func newFakeJournal() *fakeJournal {
	return &fakeJournal{
		records:  make(map[string]*models.TaskRecord),
		chunks:   make(map[string][]int),
		statuses: make(map[string]models.TaskStatus),
	}
}

func (j *fakeJournal) Save(_ context.Context, rec *models.TaskRecord) error {
	if j.saveErr != nil {
		return j.saveErr
	}
	j.mu.Lock()
	defer j.mu.Unlock()
	j.records[rec.ID] = rec
	j.statuses[rec.ID] = rec.Status
	return nil
}

func (j *fakeJournal) MarkChunk(_ context.Context, id string, index int) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	if _, ok := j.records[id]; !ok {
		return common.ErrNotFound
	}
	j.chunks[id] = append(j.chunks[id], index)
	j.statuses[id] = models.StatusUploading
	return nil
}

func (j *fakeJournal) SetStatus(_ context.Context, id string, status models.TaskStatus) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	if _, ok := j.records[id]; !ok {
		return common.ErrNotFound
	}
	j.statuses[id] = status
	return nil
}

func (j *fakeJournal) Delete(_ context.Context, id string) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	if _, ok := j.records[id]; !ok {
		return common.ErrNotFound
	}
	delete(j.records, id)
	j.deleted = append(j.deleted, id)
	return nil
}

type refreshRecorder struct {
	mu    sync.Mutex
	paths []string
}

func (r *refreshRecorder) Refresh(_ context.Context, path string) error {
	r.mu.Lock()
	r.paths = append(r.paths, path)
	r.mu.Unlock()
	return nil
}

func (r *refreshRecorder) Paths() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.paths...)
}
