package storage

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"sort"
	"time"

	"github.com/dmitrijs2005/gophdrive/internal/common"
	"github.com/dmitrijs2005/gophdrive/internal/server/models"
)

func (s *Store) sessionDir(hash string) (string, error) {
	if !ValidName(hash) {
		return "", fmt.Errorf("%w: upload id %q", common.ErrValidation, hash)
	}
	return filepath.Join(s.chunks, hash), nil
}

// Destination reports what currently exists at dest.
func (s *Store) Destination(dest string) (models.Destination, error) {
	_, _, st, err := s.stat(dest)
	if errors.Is(err, common.ErrNotFound) {
		return models.Destination{}, nil
	}
	if err != nil {
		return models.Destination{}, err
	}
	if st.IsDir() {
		return models.Destination{Exists: true, IsFolder: true}, nil
	}
	return models.Destination{Exists: true, Size: st.Size()}, nil
}

// Session lists the chunks received for hash in index order. An unknown
// session is empty, not an error.
func (s *Store) Session(hash string) (models.Session, error) {
	dir, err := s.sessionDir(hash)
	if err != nil {
		return models.Session{}, err
	}

	sess := models.Session{Hash: hash, Chunks: []int{}}
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return sess, nil
	}
	if err != nil {
		return models.Session{}, err
	}

	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		idx, err := common.ParseChunkName(e.Name())
		if err != nil {
			continue
		}
		sess.Chunks = append(sess.Chunks, idx)
	}
	sort.Ints(sess.Chunks)

	if st, err := os.Stat(dir); err == nil {
		sess.Modified = st.ModTime()
	}
	return sess, nil
}

// SaveChunk stores one chunk of a session, replacing an earlier copy of
// the same index. It returns the number of bytes written.
func (s *Store) SaveChunk(hash string, index, total int, r io.Reader) (int64, error) {
	if total < 1 || index < 0 || index >= total {
		return 0, fmt.Errorf("%w: chunk %d of %d", common.ErrValidation, index, total)
	}
	dir, err := s.sessionDir(hash)
	if err != nil {
		return 0, err
	}
	if err := os.MkdirAll(dir, 0o770); err != nil {
		return 0, err
	}

	tmp, err := os.CreateTemp(dir, ".part-*")
	if err != nil {
		return 0, err
	}
	defer os.Remove(tmp.Name())

	src := r
	if s.maxFileSize > 0 {
		src = io.LimitReader(r, s.maxFileSize+1)
	}
	n, err := io.Copy(tmp, src)
	if cerr := tmp.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return 0, err
	}
	if s.maxFileSize > 0 && n > s.maxFileSize {
		return 0, fmt.Errorf("%w: chunk exceeds %d bytes", ErrTooLarge, s.maxFileSize)
	}

	if err := os.Rename(tmp.Name(), filepath.Join(dir, common.ChunkName(index))); err != nil {
		return 0, err
	}
	now := s.now()
	_ = os.Chtimes(dir, now, now)
	return n, nil
}

// Merge concatenates chunks 0..total-1 of a session into dest, creating
// parent folders, and drops the session. An existing file at dest is
// replaced; an existing folder is an error.
func (s *Store) Merge(hash, dest string, total int) (models.Merged, error) {
	if total < 1 {
		return models.Merged{}, fmt.Errorf("%w: total chunks %d", common.ErrValidation, total)
	}
	rel, abs, err := s.resolve(dest)
	if err != nil {
		return models.Merged{}, err
	}
	if rel == "" {
		return models.Merged{}, fmt.Errorf("%w: empty destination", common.ErrInvalidPath)
	}
	dir, err := s.sessionDir(hash)
	if err != nil {
		return models.Merged{}, err
	}

	var size int64
	for i := 0; i < total; i++ {
		st, err := os.Stat(filepath.Join(dir, common.ChunkName(i)))
		if os.IsNotExist(err) {
			return models.Merged{}, fmt.Errorf("%w: chunk %d of %d not received", ErrIncomplete, i, total)
		}
		if err != nil {
			return models.Merged{}, err
		}
		size += st.Size()
	}
	if s.maxFileSize > 0 && size > s.maxFileSize {
		return models.Merged{}, fmt.Errorf("%w: %d bytes exceeds %d", ErrTooLarge, size, s.maxFileSize)
	}
	if st, err := os.Stat(abs); err == nil && st.IsDir() {
		return models.Merged{}, fmt.Errorf("%w: /%s is a folder", common.ErrAlreadyExists, rel)
	}

	if err := os.MkdirAll(filepath.Dir(abs), 0o770); err != nil {
		return models.Merged{}, err
	}
	out, err := os.CreateTemp(filepath.Dir(abs), ".merge-*")
	if err != nil {
		return models.Merged{}, err
	}
	defer os.Remove(out.Name())

	n, err := s.concat(out, dir, total)
	if cerr := out.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return models.Merged{}, err
	}
	if err := os.Rename(out.Name(), abs); err != nil {
		return models.Merged{}, err
	}

	_ = os.RemoveAll(dir)
	return models.Merged{FileName: path.Base(rel), FilePath: rel, Size: n}, nil
}

func (s *Store) concat(w io.Writer, dir string, total int) (int64, error) {
	var n int64
	for i := 0; i < total; i++ {
		f, err := os.Open(filepath.Join(dir, common.ChunkName(i)))
		if err != nil {
			return n, err
		}
		c, err := io.Copy(w, f)
		_ = f.Close()
		n += c
		if err != nil {
			return n, err
		}
	}
	return n, nil
}

// Cancel drops a session. Cancelling an unknown session is not an error.
func (s *Store) Cancel(hash string) error {
	dir, err := s.sessionDir(hash)
	if err != nil {
		return err
	}
	return os.RemoveAll(dir)
}

// RemoveStale drops sessions untouched for longer than ttl and returns
// their identifiers.
func (s *Store) RemoveStale(ttl time.Duration) ([]string, error) {
	entries, err := os.ReadDir(s.chunks)
	if err != nil {
		return nil, err
	}

	cutoff := s.now().Add(-ttl)
	var removed []string
	var errs []error
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		if !info.ModTime().Before(cutoff) {
			continue
		}
		if err := os.RemoveAll(filepath.Join(s.chunks, e.Name())); err != nil {
			errs = append(errs, err)
			continue
		}
		removed = append(removed, e.Name())
	}
	return removed, errors.Join(errs...)
}
