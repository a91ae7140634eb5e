package services

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/dmitrijs2005/gophdrive/internal/client/client"
	"github.com/dmitrijs2005/gophdrive/internal/client/models"
	"github.com/dmitrijs2005/gophdrive/internal/common"
)

// fakeClient is an in-memory backend.
type fakeClient struct {
	client.Client

	mu      sync.Mutex
	calls   []string
	chunks  map[string]map[int][]byte
	files   map[string][]byte
	folders map[string]bool
	listErr error
	archive *models.BatchDownloadRequest
}

func newFakeClient() *fakeClient {
	return &fakeClient{
		chunks:  make(map[string]map[int][]byte),
		files:   make(map[string][]byte),
		folders: map[string]bool{"": true},
	}
}

func (f *fakeClient) record(format string, args ...any) {
	f.calls = append(f.calls, fmt.Sprintf(format, args...))
}

func (f *fakeClient) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func (f *fakeClient) Check(_ context.Context, req models.CheckRequest) (*models.CheckResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("check:%s", req.Hash)
	dest := common.JoinRemote(req.TargetPath, req.FilePath)
	if _, ok := f.files[dest]; ok {
		return &models.CheckResult{Exists: true}, nil
	}
	res := &models.CheckResult{}
	for idx := range f.chunks[req.Hash] {
		res.UploadedChunks = append(res.UploadedChunks, common.ChunkName(idx))
	}
	return res, nil
}

func (f *fakeClient) UploadChunk(_ context.Context, c models.ChunkUpload) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("chunk:%s:%d", c.Hash, c.ChunkIndex)
	if f.chunks[c.Hash] == nil {
		f.chunks[c.Hash] = make(map[int][]byte)
	}
	f.chunks[c.Hash][c.ChunkIndex] = append([]byte(nil), c.Data...)
	return nil
}

func (f *fakeClient) Merge(_ context.Context, req models.MergeRequest) (*models.MergeResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("merge:%s", req.Hash)
	var buf bytes.Buffer
	for i := 0; i < req.TotalChunks; i++ {
		data, ok := f.chunks[req.Hash][i]
		if !ok {
			return nil, fmt.Errorf("missing chunk %d", i)
		}
		buf.Write(data)
	}
	f.files[common.JoinRemote(req.TargetPath, req.FilePath)] = buf.Bytes()
	delete(f.chunks, req.Hash)
	return &models.MergeResult{Success: true}, nil
}

func (f *fakeClient) Cancel(_ context.Context, hash string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("cancel:%s", hash)
	delete(f.chunks, hash)
	return nil
}

func (f *fakeClient) CreateFolder(_ context.Context, parent, name string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	p := common.JoinRemote(parent, name)
	f.record("folder:%s", p)
	if f.folders[p] {
		return common.ErrAlreadyExists
	}
	f.folders[p] = true
	return nil
}

func (f *fakeClient) ListFiles(_ context.Context, p string) (*models.Listing, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("list:%s", p)
	if f.listErr != nil {
		return nil, f.listErr
	}
	if !f.folders[p] {
		return nil, fmt.Errorf("%w: folder %q", common.ErrNotFound, p)
	}
	l := &models.Listing{Success: true, Path: p}
	for dir := range f.folders {
		if parent, name := common.SplitRemote(dir); dir != "" && parent == p {
			l.Files = append(l.Files, models.FileEntry{Name: name, Type: models.EntryTypeFolder})
		}
	}
	for file := range f.files {
		if parent, name := common.SplitRemote(file); parent == p {
			l.Files = append(l.Files, models.FileEntry{Name: name, Type: models.EntryTypeFile})
		}
	}
	return l, nil
}

func (f *fakeClient) Delete(_ context.Context, p string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("delete:%s", p)
	delete(f.files, p)
	return nil
}

func (f *fakeClient) Rename(_ context.Context, oldPath, newName string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("rename:%s:%s", oldPath, newName)
	parent, _ := common.SplitRemote(oldPath)
	return common.JoinRemote(parent, newName), nil
}

func (f *fakeClient) Move(_ context.Context, src, dst string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("move:%s:%s", src, dst)
	_, name := common.SplitRemote(src)
	return common.JoinRemote(dst, name), nil
}

func (f *fakeClient) Download(_ context.Context, p string, w io.Writer) (int64, error) {
	f.mu.Lock()
	data, ok := f.files[p]
	f.mu.Unlock()
	if !ok {
		return 0, common.ErrNotFound
	}
	n, err := w.Write(data)
	return int64(n), err
}

func (f *fakeClient) DownloadArchive(_ context.Context, req models.BatchDownloadRequest, w io.Writer) (int64, error) {
	f.mu.Lock()
	f.archive = &req
	f.mu.Unlock()
	n, err := io.WriteString(w, "zip")
	return int64(n), err
}

func (f *fakeClient) File(p string) ([]byte, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	d, ok := f.files[p]
	return d, ok
}

// memMeta is an in-memory metadata repository.
type memMeta struct {
	mu sync.Mutex
	m  map[string]string
}

func newMemMeta() *memMeta { return &memMeta{m: make(map[string]string)} }

func (r *memMeta) Get(_ context.Context, key string) (string, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	v, ok := r.m[key]
	return v, ok, nil
}

func (r *memMeta) Set(_ context.Context, key, value string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.m[key] = value
	return nil
}
