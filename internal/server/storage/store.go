package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dmitrijs2005/gophdrive/internal/common"
	"github.com/dmitrijs2005/gophdrive/internal/filex"
)

type Store struct {
	root        string
	chunks      string
	maxFileSize int64
	now         func() time.Time
}

// New opens (creating if needed) the upload root and the chunk directory.
// A maxFileSize of 0 disables the size check.
func New(uploadDir, chunkDir string, maxFileSize int64) (*Store, error) {
	root, err := filepath.Abs(uploadDir)
	if err != nil {
		return nil, err
	}
	chunks, err := filepath.Abs(chunkDir)
	if err != nil {
		return nil, err
	}
	for _, d := range []string{root, chunks} {
		if _, err := filex.EnsureDir(d); err != nil {
			return nil, err
		}
	}
	return &Store{root: root, chunks: chunks, maxFileSize: maxFileSize, now: time.Now}, nil
}

// Root returns the absolute upload root.
func (s *Store) Root() string { return s.root }

// CleanPath normalizes an API path to slash-separated, root-relative form.
// Any ".." element is rejected rather than resolved.
func CleanPath(p string) (string, error) {
	if strings.ContainsRune(p, 0) {
		return "", fmt.Errorf("%w: %q", common.ErrInvalidPath, p)
	}
	parts := strings.Split(strings.ReplaceAll(p, "\\", "/"), "/")
	out := parts[:0]
	for _, part := range parts {
		switch part {
		case "", ".":
			continue
		case "..":
			return "", fmt.Errorf("%w: %q", common.ErrInvalidPath, p)
		}
		out = append(out, part)
	}
	return strings.Join(out, "/"), nil
}

// ValidName reports whether name can be used as a single path element.
func ValidName(name string) bool {
	if name == "" || name == "." || name == ".." || len(name) > 255 {
		return false
	}
	return !strings.ContainsAny(name, "/\\\x00")
}

// resolve returns the clean relative form of p and its absolute location.
func (s *Store) resolve(p string) (string, string, error) {
	rel, err := CleanPath(p)
	if err != nil {
		return "", "", err
	}
	abs := filepath.Join(s.root, filepath.FromSlash(rel))
	if abs != s.root && !strings.HasPrefix(abs, s.root+string(filepath.Separator)) {
		return "", "", fmt.Errorf("%w: %q", common.ErrInvalidPath, p)
	}
	return rel, abs, nil
}

// Abs returns the absolute location of p inside the upload root.
func (s *Store) Abs(p string) (string, error) {
	_, abs, err := s.resolve(p)
	return abs, err
}

func (s *Store) stat(p string) (string, string, os.FileInfo, error) {
	rel, abs, err := s.resolve(p)
	if err != nil {
		return "", "", nil, err
	}
	st, err := os.Stat(abs)
	if os.IsNotExist(err) {
		return rel, abs, nil, fmt.Errorf("%w: /%s", common.ErrNotFound, rel)
	}
	if err != nil {
		return rel, abs, nil, err
	}
	return rel, abs, st, nil
}
