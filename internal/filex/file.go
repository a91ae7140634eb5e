// Package filex contains helpers for the local side of an upload: state
// directories and flattening a folder tree into uploadable files.
package filex

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
)

// EnsureDir creates dir and its parents with owner/group access.
func EnsureDir(dir string) (string, error) {
	if err := os.MkdirAll(dir, 0o770); err != nil {
		return "", fmt.Errorf("mkdir %s: %w", dir, err)
	}
	return dir, nil
}

// LocalFile is a regular file found while walking a folder.
type LocalFile struct {
	// Path is the local filesystem path.
	Path string
	// RelativePath is slash separated and starts with the walked folder's
	// own name, e.g. "photos/2024/a.jpg" for root ".../photos".
	RelativePath string
}

// WalkFiles returns every regular file below root, sorted by RelativePath.
// Symlinks and other special files are skipped.
func WalkFiles(root string) ([]LocalFile, error) {
	root = filepath.Clean(root)
	info, err := os.Stat(root)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s is not a directory", root)
	}

	base := filepath.Base(root)
	var files []LocalFile

	err = filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.Type().IsRegular() {
			return nil
		}
		rel, err := filepath.Rel(root, p)
		if err != nil {
			return err
		}
		files = append(files, LocalFile{
			Path:         p,
			RelativePath: filepath.ToSlash(filepath.Join(base, rel)),
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", root, err)
	}

	sort.Slice(files, func(i, j int) bool { return files[i].RelativePath < files[j].RelativePath })
	return files, nil
}
