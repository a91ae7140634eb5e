package storage

import (
	"archive/zip"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/dmitrijs2005/gophdrive/internal/common"
	"github.com/dmitrijs2005/gophdrive/internal/server/models"
	"github.com/gabriel-vasile/mimetype"
)

const modifiedLayout = "2006-01-02T15:04:05"

// List returns the entries of folder p: folders first, then files, each
// group ordered by case-insensitive name.
func (s *Store) List(p string) (*models.Listing, error) {
	rel, abs, st, err := s.stat(p)
	if err != nil {
		return nil, err
	}
	if !st.IsDir() {
		return nil, fmt.Errorf("%w: /%s", ErrNotFolder, rel)
	}

	entries, err := os.ReadDir(abs)
	if err != nil {
		return nil, err
	}

	files := make([]models.Entry, 0, len(entries))
	for _, e := range entries {
		info, err := e.Info()
		if err != nil {
			continue
		}
		entryRel := path.Join(rel, e.Name())
		entry := models.Entry{
			Name:     e.Name(),
			Path:     entryRel,
			Modified: info.ModTime().Format(modifiedLayout),
			URL:      "/download/" + entryRel,
		}
		if info.IsDir() {
			entry.Type = models.EntryTypeFolder
			entry.FileCount = countFiles(filepath.Join(abs, e.Name()))
		} else {
			entry.Type = models.EntryTypeFile
			entry.Size = info.Size()
			if mt, err := mimetype.DetectFile(filepath.Join(abs, e.Name())); err == nil {
				entry.Mime = mt.String()
			}
		}
		files = append(files, entry)
	}

	sort.SliceStable(files, func(i, j int) bool {
		fi, fj := files[i].Type == models.EntryTypeFolder, files[j].Type == models.EntryTypeFolder
		if fi != fj {
			return fi
		}
		return strings.ToLower(files[i].Name) < strings.ToLower(files[j].Name)
	})

	return &models.Listing{
		Success:     true,
		Path:        rel,
		Files:       files,
		Breadcrumbs: Breadcrumbs(rel),
	}, nil
}

// Breadcrumbs returns the chain of folders from the root down to rel.
func Breadcrumbs(rel string) []models.Breadcrumb {
	crumbs := []models.Breadcrumb{{Name: "root", Path: ""}}
	cur := ""
	for _, part := range strings.Split(rel, "/") {
		if part == "" {
			continue
		}
		cur = path.Join(cur, part)
		crumbs = append(crumbs, models.Breadcrumb{Name: part, Path: cur})
	}
	return crumbs
}

func countFiles(dir string) int {
	n := 0
	_ = filepath.WalkDir(dir, func(_ string, d fs.DirEntry, err error) error {
		if err == nil && d.Type().IsRegular() {
			n++
		}
		return nil
	})
	return n
}

// CreateFolder creates name inside parent and returns its path.
func (s *Store) CreateFolder(parent, name string) (string, error) {
	if !ValidName(name) {
		return "", fmt.Errorf("%w: folder name %q", common.ErrInvalidPath, name)
	}
	rel, abs, err := s.resolve(path.Join(parent, name))
	if err != nil {
		return "", err
	}
	if _, err := os.Stat(abs); err == nil {
		return "", fmt.Errorf("folder %w", common.ErrAlreadyExists)
	}
	if err := os.MkdirAll(abs, 0o770); err != nil {
		return "", err
	}
	return rel, nil
}

// Delete removes a file or a whole folder. It reports whether p was a
// folder. The root cannot be deleted.
func (s *Store) Delete(p string) (bool, error) {
	rel, abs, st, err := s.stat(p)
	if err != nil {
		return false, err
	}
	if rel == "" {
		return false, fmt.Errorf("%w: cannot delete the root", common.ErrInvalidPath)
	}
	if st.IsDir() {
		return true, os.RemoveAll(abs)
	}
	return false, os.Remove(abs)
}

// Rename gives p a new name in the same folder and returns the new path.
func (s *Store) Rename(p, newName string) (string, error) {
	if !ValidName(newName) {
		return "", fmt.Errorf("%w: name %q", common.ErrInvalidPath, newName)
	}
	rel, abs, _, err := s.stat(p)
	if err != nil {
		return "", err
	}
	if rel == "" {
		return "", fmt.Errorf("%w: cannot rename the root", common.ErrInvalidPath)
	}

	parent, _ := common.SplitRemote(rel)
	newRel, newAbs, err := s.resolve(path.Join(parent, newName))
	if err != nil {
		return "", err
	}
	if _, err := os.Stat(newAbs); err == nil {
		return "", fmt.Errorf("%w: /%s", common.ErrAlreadyExists, newRel)
	}
	if err := os.Rename(abs, newAbs); err != nil {
		return "", err
	}
	return newRel, nil
}

// Move puts src inside folder dstDir, creating dstDir if needed, and
// returns the new path.
func (s *Store) Move(src, dstDir string) (string, error) {
	srcRel, srcAbs, st, err := s.stat(src)
	if err != nil {
		return "", err
	}
	if srcRel == "" {
		return "", fmt.Errorf("%w: cannot move the root", common.ErrInvalidPath)
	}
	dirRel, dirAbs, err := s.resolve(dstDir)
	if err != nil {
		return "", err
	}

	if st.IsDir() && (dirRel == srcRel || strings.HasPrefix(dirRel, srcRel+"/")) {
		return "", fmt.Errorf("%w: /%s into /%s", ErrMoveIntoSelf, srcRel, dirRel)
	}

	if dst, err := os.Stat(dirAbs); err == nil && !dst.IsDir() {
		return "", fmt.Errorf("%w: /%s", ErrNotFolder, dirRel)
	}
	if err := os.MkdirAll(dirAbs, 0o770); err != nil {
		return "", err
	}

	_, name := common.SplitRemote(srcRel)
	newRel := path.Join(dirRel, name)
	if newRel == srcRel {
		return "", fmt.Errorf("%w: /%s is already there", common.ErrAlreadyExists, srcRel)
	}
	newAbs := filepath.Join(dirAbs, name)
	if _, err := os.Stat(newAbs); err == nil {
		return "", fmt.Errorf("%w: /%s", common.ErrAlreadyExists, newRel)
	}
	if err := os.Rename(srcAbs, newAbs); err != nil {
		return "", err
	}
	return newRel, nil
}

// Stat returns the clean path of p and its file info.
func (s *Store) Stat(p string) (string, os.FileInfo, error) {
	rel, _, st, err := s.stat(p)
	return rel, st, err
}

// Open opens file p for reading.
func (s *Store) Open(p string) (*os.File, os.FileInfo, error) {
	rel, abs, st, err := s.stat(p)
	if err != nil {
		return nil, nil, err
	}
	if st.IsDir() {
		return nil, nil, fmt.Errorf("%w: /%s is a folder", common.ErrInvalidPath, rel)
	}
	f, err := os.Open(abs)
	if err != nil {
		return nil, nil, err
	}
	return f, st, nil
}

// WriteZip streams folder p as a zip archive. Entry names are relative to
// p and slash separated.
func (s *Store) WriteZip(p string, w io.Writer) error {
	rel, abs, st, err := s.stat(p)
	if err != nil {
		return err
	}
	if !st.IsDir() {
		return fmt.Errorf("%w: /%s", ErrNotFolder, rel)
	}

	zw := zip.NewWriter(w)
	if err := addZipTree(zw, abs, ""); err != nil {
		_ = zw.Close()
		return err
	}
	return zw.Close()
}

// ZipItem is one file or folder of a batch download. Name is the entry name
// inside the archive; it defaults to the base name of Path.
type ZipItem struct {
	Path string
	Name string
}

// Selection is a resolved set of files and folders to archive together.
type Selection struct {
	entries []zipEntry
}

type zipEntry struct {
	abs  string
	name string
	dir  bool
}

// Select resolves items inside the upload root. Items that no longer exist
// are skipped; ErrNotFound is returned when nothing is left. Whether an item
// is a file or a folder is decided by what is on disk.
func (s *Store) Select(items []ZipItem) (*Selection, error) {
	sel := &Selection{}
	for _, it := range items {
		rel, abs, st, err := s.stat(it.Path)
		if errors.Is(err, common.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}

		name := it.Name
		if name == "" {
			name = path.Base(rel)
			if rel == "" {
				name = "root"
			}
		}
		if !ValidName(name) {
			return nil, fmt.Errorf("%w: archive entry name %q", common.ErrInvalidPath, name)
		}
		sel.entries = append(sel.entries, zipEntry{abs: abs, name: name, dir: st.IsDir()})
	}
	if len(sel.entries) == 0 {
		return nil, fmt.Errorf("%w: none of the selected items exist", common.ErrNotFound)
	}
	return sel, nil
}

func (sel *Selection) Len() int { return len(sel.entries) }

// WriteZip streams the selection as one archive. A folder's files are
// stored under the folder's entry name.
func (sel *Selection) WriteZip(w io.Writer) error {
	zw := zip.NewWriter(w)
	for _, e := range sel.entries {
		var err error
		if e.dir {
			err = addZipTree(zw, e.abs, e.name)
		} else {
			err = addZipFile(zw, e.abs, e.name)
		}
		if err != nil {
			_ = zw.Close()
			return err
		}
	}
	return zw.Close()
}

// addZipTree adds every regular file below dir, named relative to dir and
// prefixed with prefix.
func addZipTree(zw *zip.Writer, dir, prefix string) error {
	return filepath.WalkDir(dir, func(fp string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.Type().IsRegular() {
			return nil
		}
		name, err := filepath.Rel(dir, fp)
		if err != nil {
			return err
		}
		return addZipFile(zw, fp, path.Join(prefix, filepath.ToSlash(name)))
	})
}

func addZipFile(zw *zip.Writer, fp, name string) error {
	f, err := os.Open(fp)
	if err != nil {
		return err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return err
	}
	hdr, err := zip.FileInfoHeader(info)
	if err != nil {
		return err
	}
	hdr.Name = name
	hdr.Method = zip.Deflate

	dst, err := zw.CreateHeader(hdr)
	if err != nil {
		return err
	}
	_, err = io.Copy(dst, f)
	return err
}
