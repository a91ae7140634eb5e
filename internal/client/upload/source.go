package upload

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"
)

// Source is the byte source of a task. The task owns it exclusively and
// closes it once it leaves the queue or fails.
type Source interface {
	io.ReaderAt
	io.Closer
	Name() string
	Size() int64
	ModTime() time.Time
}

// FileSource is a Source backed by a local file.
type FileSource struct {
	f       *os.File
	path    string
	size    int64
	modTime time.Time
}

// OpenFile opens a regular local file as a Source.
func OpenFile(path string) (*FileSource, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(abs)
	if err != nil {
		return nil, err
	}
	st, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, err
	}
	if !st.Mode().IsRegular() {
		_ = f.Close()
		return nil, fmt.Errorf("%s: not a regular file", path)
	}
	return &FileSource{f: f, path: abs, size: st.Size(), modTime: st.ModTime()}, nil
}

func (s *FileSource) ReadAt(p []byte, off int64) (int, error) { return s.f.ReadAt(p, off) }
func (s *FileSource) Close() error                            { return s.f.Close() }
func (s *FileSource) Name() string                            { return filepath.Base(s.path) }
func (s *FileSource) Size() int64                             { return s.size }
func (s *FileSource) ModTime() time.Time                      { return s.modTime }

// Path returns the absolute local path of the file.
func (s *FileSource) Path() string { return s.path }

// localSource is implemented by sources that can be reopened from disk and
// are therefore worth journaling.
type localSource interface {
	Path() string
}
