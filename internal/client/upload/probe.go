package upload

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/gophdrive/internal/client/models"
)

// ProbeResult is what the backend knows about an identifier.
type ProbeResult struct {
	Exists   bool
	IsFolder bool

	// Uploaded holds the confirmed chunk indices, ascending.
	Uploaded []int
}

// Probe queries the backend for existing chunk state. It never mutates
// backend state.
type Probe struct {
	backend Backend
}

func NewProbe(backend Backend) *Probe {
	return &Probe{backend: backend}
}

// Probe asks about identifier id destined for relativePath under
// targetPath. On failure it returns an empty result together with an error
// wrapping ErrProbeFailure; callers treat that as "nothing uploaded yet".
func (p *Probe) Probe(ctx context.Context, id, relativePath, fileName, targetPath string) (ProbeResult, error) {
	res, err := p.backend.Check(ctx, models.CheckRequest{
		Hash:       id,
		FilePath:   relativePath,
		FileName:   fileName,
		TargetPath: targetPath,
	})
	if err != nil {
		return ProbeResult{}, fmt.Errorf("%w: %w", ErrProbeFailure, err)
	}
	if res == nil {
		return ProbeResult{}, nil
	}
	return ProbeResult{
		Exists:   res.Exists,
		IsFolder: res.IsFolder,
		Uploaded: res.ChunkIndices(),
	}, nil
}
