package services

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/dmitrijs2005/gophdrive/internal/client/client"
	"github.com/dmitrijs2005/gophdrive/internal/client/models"
	"github.com/dmitrijs2005/gophdrive/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/gophdrive/internal/common"
	"github.com/dmitrijs2005/gophdrive/internal/logging"
)

type BrowseService interface {
	// Load restores the persisted current directory.
	Load(ctx context.Context) error
	Cwd() string
	// Resolve maps a user path to a remote path: absolute when it starts
	// with "/", relative to the current directory otherwise.
	Resolve(p string) string
	Chdir(ctx context.Context, p string) (*models.Listing, error)
	List(ctx context.Context, p string) (*models.Listing, error)
	Refresh(ctx context.Context, p string) error
	Latest() *models.Listing
	CreateFolder(ctx context.Context, name string) error
	Delete(ctx context.Context, p string) error
	Rename(ctx context.Context, p, newName string) (string, error)
	Move(ctx context.Context, src, dstDir string) (string, error)
	Download(ctx context.Context, remote, local string) (int64, error)
	// DownloadArchive saves the given remote files and folders as one zip
	// at local. A directory local gets a default archive name.
	DownloadArchive(ctx context.Context, remotes []string, local string) (int64, error)
}

const defaultArchiveName = "gophdrive.zip"

type browseService struct {
	client client.Client
	meta   metadata.Repository
	log    logging.Logger

	mu     sync.Mutex
	cwd    string
	latest *models.Listing
}

func NewBrowseService(c client.Client, meta metadata.Repository, log logging.Logger) BrowseService {
	return &browseService{client: c, meta: meta, log: log}
}

func (s *browseService) Load(ctx context.Context) error {
	cwd, err := metadata.CurrentDir(ctx, s.meta)
	if err != nil {
		return fmt.Errorf("error loading current directory: %w", err)
	}
	s.mu.Lock()
	s.cwd = cwd
	s.mu.Unlock()
	return nil
}

func (s *browseService) Cwd() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cwd
}

func (s *browseService) Resolve(p string) string {
	if strings.HasPrefix(p, "/") {
		return common.CleanRemote(p)
	}
	return common.JoinRemote(s.Cwd(), p)
}

func (s *browseService) Chdir(ctx context.Context, p string) (*models.Listing, error) {
	target := s.Resolve(p)
	l, err := s.client.ListFiles(ctx, target)
	if err != nil {
		return nil, fmt.Errorf("cannot change directory to /%s: %w", target, err)
	}

	s.mu.Lock()
	s.cwd = target
	s.latest = l
	s.mu.Unlock()

	if err := metadata.SetCurrentDir(ctx, s.meta, target); err != nil {
		s.log.Warn(ctx, "failed to persist current directory", "error", err)
	}
	return l, nil
}

func (s *browseService) List(ctx context.Context, p string) (*models.Listing, error) {
	l, err := s.client.ListFiles(ctx, s.Resolve(p))
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	s.latest = l
	s.mu.Unlock()
	return l, nil
}

// Refresh reloads the listing of p when it is the directory being viewed.
func (s *browseService) Refresh(ctx context.Context, p string) error {
	p = common.CleanRemote(p)
	if p != s.Cwd() {
		return nil
	}
	_, err := s.List(ctx, "/"+p)
	return err
}

func (s *browseService) Latest() *models.Listing {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.latest
}

func (s *browseService) CreateFolder(ctx context.Context, name string) error {
	if name == "" || strings.ContainsAny(name, `/\`) || name == "." || name == ".." {
		return fmt.Errorf("%w: folder name %q", common.ErrInvalidPath, name)
	}
	return s.client.CreateFolder(ctx, s.Cwd(), name)
}

func (s *browseService) Delete(ctx context.Context, p string) error {
	target := s.Resolve(p)
	if target == "" {
		return fmt.Errorf("%w: refusing to delete the root", common.ErrInvalidPath)
	}
	return s.client.Delete(ctx, target)
}

func (s *browseService) Rename(ctx context.Context, p, newName string) (string, error) {
	return s.client.Rename(ctx, s.Resolve(p), newName)
}

func (s *browseService) Move(ctx context.Context, src, dstDir string) (string, error) {
	return s.client.Move(ctx, s.Resolve(src), s.Resolve(dstDir))
}

// Download saves a remote file to local. When local is empty or a
// directory, the remote base name is used.
func (s *browseService) Download(ctx context.Context, remote, local string) (int64, error) {
	target := s.Resolve(remote)
	_, name := common.SplitRemote(target)
	if name == "" {
		return 0, fmt.Errorf("%w: nothing to download", common.ErrInvalidPath)
	}

	if local == "" {
		local = "."
	}
	if st, err := os.Stat(local); err == nil && st.IsDir() {
		local = filepath.Join(local, name)
	}

	f, err := os.Create(local)
	if err != nil {
		return 0, err
	}
	n, err := s.client.Download(ctx, target, f)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		_ = os.Remove(local)
		return 0, errors.Join(fmt.Errorf("download of /%s failed", target), err)
	}
	return n, nil
}

func (s *browseService) DownloadArchive(ctx context.Context, remotes []string, local string) (int64, error) {
	if len(remotes) == 0 {
		return 0, fmt.Errorf("%w: nothing to download", common.ErrValidation)
	}

	req := models.BatchDownloadRequest{CurrentPath: s.Cwd()}
	for _, r := range remotes {
		target := s.Resolve(r)
		item := models.ArchiveItem{Path: target}
		if s.isFolder(target) {
			req.Folders = append(req.Folders, item)
		} else {
			req.Files = append(req.Files, item)
		}
	}

	if local == "" {
		local = "."
	}
	if st, err := os.Stat(local); err == nil && st.IsDir() {
		local = filepath.Join(local, defaultArchiveName)
	}

	f, err := os.Create(local)
	if err != nil {
		return 0, err
	}
	n, err := s.client.DownloadArchive(ctx, req, f)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		_ = os.Remove(local)
		return 0, errors.Join(errors.New("archive download failed"), err)
	}
	return n, nil
}

// isFolder looks p up in the listing last shown. Anything not found there
// is sent as a file; the server decides by what is on disk.
func (s *browseService) isFolder(p string) bool {
	parent, name := common.SplitRemote(p)
	l := s.Latest()
	if l == nil || common.CleanRemote(l.Path) != parent {
		return false
	}
	for _, e := range l.Files {
		if e.Name == name {
			return e.IsFolder()
		}
	}
	return false
}
