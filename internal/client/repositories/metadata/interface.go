// Package metadata persists client state between runs, such as the current
// remote directory.
package metadata

import (
	"context"

	"github.com/dmitrijs2005/gophdrive/internal/common"
)

// Well-known keys.
const (
	KeyCurrentDir = "cwd"
)

type Repository interface {
	// Get reports whether key is set and returns its value.
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
}

// CurrentDir returns the persisted remote directory in clean form; the root
// when none was saved.
func CurrentDir(ctx context.Context, r Repository) (string, error) {
	v, _, err := r.Get(ctx, KeyCurrentDir)
	if err != nil {
		return "", err
	}
	return common.CleanRemote(v), nil
}

// SetCurrentDir persists dir as the current remote directory.
func SetCurrentDir(ctx context.Context, r Repository, dir string) error {
	return r.Set(ctx, KeyCurrentDir, common.CleanRemote(dir))
}
