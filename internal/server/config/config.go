// Package config handles configuration for the server component,
// including defaults, JSON overlay, and command-line flags.
package config

import "time"

// Config holds runtime settings for the GophDrive backend.
//
// Fields:
//   - EndpointAddr: bind address of the HTTP API.
//   - UploadDir: root of the stored file tree; every API path is confined to it.
//   - ChunkDir: where chunk sessions live until merge.
//   - MaxFileSize: upper bound for a merged file, in bytes (0 disables the check).
//   - StaleChunkTTL / JanitorSchedule: chunk sessions untouched for longer
//     than the TTL are removed on the cron schedule.
//   - S3*: optional object storage mirror; an empty bucket disables it.
type Config struct {
	EndpointAddr    string
	UploadDir       string
	ChunkDir        string
	MaxFileSize     int64
	StaleChunkTTL   time.Duration
	JanitorSchedule string
	ShutdownTimeout time.Duration
	LogLevel        string
	S3RootUser      string
	S3RootPassword  string
	S3Bucket        string
	S3Region        string
	S3BaseEndpoint  string
}

// LoadDefaults populates Config with development defaults.
func (c *Config) LoadDefaults() {
	c.EndpointAddr = ":5000"
	c.UploadDir = "uploads"
	c.ChunkDir = "chunks"
	c.MaxFileSize = 50 << 30
	c.StaleChunkTTL = 24 * time.Hour
	c.JanitorSchedule = "@every 10m"
	c.ShutdownTimeout = 10 * time.Second
	c.LogLevel = "info"
	c.S3Region = "us-east-1"
	c.S3BaseEndpoint = "http://127.0.0.1:9000/"
}

// ReplicaEnabled reports whether merged files are mirrored to S3.
func (c *Config) ReplicaEnabled() bool {
	return c.S3Bucket != ""
}

// LoadConfig builds a Config by applying defaults, then overlaying values
// from an optional JSON file and finally from command-line flags.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
