package filex

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnsureDir_CreatesNestedStorageRoot(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "data", "uploads")

	got, err := EnsureDir(dir)
	require.NoError(t, err)
	assert.Equal(t, dir, got)

	fi, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, fi.IsDir())
	if runtime.GOOS != "windows" {
		assert.Equal(t, os.FileMode(0o700), fi.Mode().Perm()&0o700)
	}

	_, err = EnsureDir(dir)
	assert.NoError(t, err, "existing directory is fine")
}

func TestEnsureDir_FileInTheWay(t *testing.T) {
	p := filepath.Join(t.TempDir(), "chunks")
	require.NoError(t, os.WriteFile(p, []byte("x"), 0o600))

	_, err := EnsureDir(p)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "mkdir "+p)
}

func TestWalkFiles_FlattensUnderFolderName(t *testing.T) {
	root := filepath.Join(t.TempDir(), "photos")
	require.NoError(t, os.MkdirAll(filepath.Join(root, "2024", "may"), 0o755))
	require.NoError(t, os.MkdirAll(filepath.Join(root, "empty"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "cover.jpg"), []byte("c"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "2024", "may", "beach.jpg"), []byte("b"), 0o644))

	files, err := WalkFiles(root + string(filepath.Separator))
	require.NoError(t, err)

	assert.Equal(t, []LocalFile{
		{Path: filepath.Join(root, "2024", "may", "beach.jpg"), RelativePath: "photos/2024/may/beach.jpg"},
		{Path: filepath.Join(root, "cover.jpg"), RelativePath: "photos/cover.jpg"},
	}, files)
}

func TestWalkFiles_SkipsSymlinks(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("symlinks need privileges on windows")
	}
	root := filepath.Join(t.TempDir(), "docs")
	require.NoError(t, os.MkdirAll(root, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "a.txt"), []byte("a"), 0o644))
	require.NoError(t, os.Symlink(filepath.Join(root, "a.txt"), filepath.Join(root, "link.txt")))

	files, err := WalkFiles(root)
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Equal(t, "docs/a.txt", files[0].RelativePath)
}

func TestWalkFiles_RejectsNonFolders(t *testing.T) {
	tmp := t.TempDir()
	p := filepath.Join(tmp, "f.txt")
	require.NoError(t, os.WriteFile(p, []byte("x"), 0o644))

	_, err := WalkFiles(p)
	assert.ErrorContains(t, err, "is not a directory")

	_, err = WalkFiles(filepath.Join(tmp, "missing"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
