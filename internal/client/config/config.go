package config

import (
	"time"

	"github.com/dmitrijs2005/gophdrive/internal/client/upload"
)

// Config holds runtime settings for the GophDrive CLI.
//
// Sizes are in bytes; OnlineCheckInterval and RequestTimeout are
// time.Duration values (RequestTimeout 0 disables the per-request limit).
type Config struct {
	ServerURL           string
	OnlineCheckInterval time.Duration
	RequestTimeout      time.Duration
	DatabasePath        string
	LogLevel            string

	ChunkSize          int64
	LargeFileThreshold int64
	LargeChunkSize     int64
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerURL = "http://127.0.0.1:5000"
	c.OnlineCheckInterval = 3 * time.Second
	c.RequestTimeout = 5 * time.Minute
	c.DatabasePath = "gophdrive.db"
	c.LogLevel = "info"
	c.ChunkSize = upload.DefaultChunkSize
	c.LargeFileThreshold = upload.DefaultLargeFileThreshold
	c.LargeChunkSize = upload.DefaultLargeChunkSize
}

// Plan returns the chunking policy configured by c.
func (c *Config) Plan() upload.PlanConfig {
	return upload.PlanConfig{
		DefaultChunkSize:   c.ChunkSize,
		LargeFileThreshold: c.LargeFileThreshold,
		LargeChunkSize:     c.LargeChunkSize,
	}
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present) and command-line flags (if present). Later sources take
// precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
