package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	var c Config
	c.LoadDefaults()

	assert.Equal(t, ":5000", c.EndpointAddr)
	assert.Equal(t, "uploads", c.UploadDir)
	assert.Equal(t, "chunks", c.ChunkDir)
	assert.Equal(t, int64(50<<30), c.MaxFileSize)
	assert.Equal(t, 24*time.Hour, c.StaleChunkTTL)
	assert.Equal(t, "@every 10m", c.JanitorSchedule)
	assert.Equal(t, 10*time.Second, c.ShutdownTimeout)
	assert.Equal(t, "info", c.LogLevel)
	assert.Equal(t, "us-east-1", c.S3Region)
	assert.False(t, c.ReplicaEnabled())
}

func TestLoadConfig_UsesDefaultsBeforeParsing(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })
	os.Args = []string{"testbin"}

	c := LoadConfig()
	require.NotNil(t, c)

	var want Config
	want.LoadDefaults()
	assert.Equal(t, want, *c)
}

func TestReplicaEnabled(t *testing.T) {
	c := Config{S3Bucket: "mirror"}
	assert.True(t, c.ReplicaEnabled())
}
