package upload

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolver_SaltedPerSubmission(t *testing.T) {
	r := NewResolver()
	mod := time.Unix(1700000000, 0)

	a := r.Resolve("docs/a.txt", 10, mod)
	b := r.Resolve("docs/a.txt", 10, mod)
	assert.NotEqual(t, a, b)
	assert.Len(t, a, 32)
}

func TestResolver_DeterministicInputs(t *testing.T) {
	r := &Resolver{
		now:  func() time.Time { return time.Unix(42, 0) },
		salt: func() string { return "salt" },
	}
	mod := time.Unix(1700000000, 0)

	a := r.Resolve("docs/a.txt", 10, mod)
	assert.Equal(t, a, r.Resolve("docs/a.txt", 10, mod))
	assert.NotEqual(t, a, r.Resolve("docs/b.txt", 10, mod))
	assert.NotEqual(t, a, r.Resolve("docs/a.txt", 11, mod))
	assert.NotEqual(t, a, r.Resolve("docs/a.txt", 10, mod.Add(time.Second)))
}

func TestProbe_ReportsUploadedChunks(t *testing.T) {
	be := newFakeBackend()
	be.chunks["id1"] = map[int][]byte{2: nil, 0: nil, 10: nil}

	p := NewProbe(be)
	res, err := p.Probe(context.Background(), "id1", "a.txt", "a.txt", "")
	require.NoError(t, err)
	assert.False(t, res.Exists)
	assert.Equal(t, []int{0, 2, 10}, res.Uploaded)
}

func TestProbe_Idempotent(t *testing.T) {
	be := newFakeBackend()
	be.chunks["id1"] = map[int][]byte{0: nil, 1: nil}
	p := NewProbe(be)
	ctx := context.Background()

	first, err := p.Probe(ctx, "id1", "a.txt", "a.txt", "docs")
	require.NoError(t, err)
	second, err := p.Probe(ctx, "id1", "a.txt", "a.txt", "docs")
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, 2, be.ChunkCount("id1"))
}

func TestProbe_ExistingFileAndFolder(t *testing.T) {
	be := newFakeBackend()
	be.files["docs/a.txt"] = []byte("x")
	be.folders["docs/dir"] = true
	p := NewProbe(be)
	ctx := context.Background()

	res, err := p.Probe(ctx, "id", "a.txt", "a.txt", "docs")
	require.NoError(t, err)
	assert.True(t, res.Exists)
	assert.False(t, res.IsFolder)

	res, err = p.Probe(ctx, "id", "dir", "dir", "docs")
	require.NoError(t, err)
	assert.True(t, res.Exists)
	assert.True(t, res.IsFolder)
}

func TestProbe_FailureIsWrapped(t *testing.T) {
	be := newFakeBackend()
	boom := errors.New("connection refused")
	be.checkErr = boom

	res, err := NewProbe(be).Probe(context.Background(), "id", "a.txt", "a.txt", "")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrProbeFailure)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, ProbeResult{}, res)
}
