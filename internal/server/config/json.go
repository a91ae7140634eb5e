package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/dmitrijs2005/gophdrive/internal/flagx"
	"github.com/dmitrijs2005/gophdrive/internal/timex"
)

// JsonConfig is the on-disk shape of the server configuration. Durations
// use timex.Duration, so both "10m" and integer nanoseconds are accepted.
// Fields left out of the file keep their current value.
type JsonConfig struct {
	EndpointAddr    string         `json:"endpoint_addr"`
	UploadDir       string         `json:"upload_dir"`
	ChunkDir        string         `json:"chunk_dir"`
	MaxFileSize     int64          `json:"max_file_size"`
	StaleChunkTTL   timex.Duration `json:"stale_chunk_ttl"`
	JanitorSchedule string         `json:"janitor_schedule"`
	ShutdownTimeout timex.Duration `json:"shutdown_timeout"`
	LogLevel        string         `json:"log_level"`
	S3RootUser      string         `json:"s3_root_user"`
	S3RootPassword  string         `json:"s3_root_password"`
	S3Bucket        string         `json:"s3_bucket"`
	S3Region        string         `json:"s3_region"`
	S3BaseEndpoint  string         `json:"s3_base_endpoint"`
}

// parseJson overlays Config with the JSON file named by -c or -config.
// Panics if the file cannot be read or parsed.
func parseJson(config *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	c := &JsonConfig{}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}
	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	setString(&config.EndpointAddr, c.EndpointAddr)
	setString(&config.UploadDir, c.UploadDir)
	setString(&config.ChunkDir, c.ChunkDir)
	setString(&config.JanitorSchedule, c.JanitorSchedule)
	setString(&config.LogLevel, c.LogLevel)
	setString(&config.S3RootUser, c.S3RootUser)
	setString(&config.S3RootPassword, c.S3RootPassword)
	setString(&config.S3Bucket, c.S3Bucket)
	setString(&config.S3Region, c.S3Region)
	setString(&config.S3BaseEndpoint, c.S3BaseEndpoint)

	if c.MaxFileSize > 0 {
		config.MaxFileSize = c.MaxFileSize
	}
	if d := time.Duration(c.StaleChunkTTL.Duration); d > 0 {
		config.StaleChunkTTL = d
	}
	if d := time.Duration(c.ShutdownTimeout.Duration); d > 0 {
		config.ShutdownTimeout = d
	}
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
