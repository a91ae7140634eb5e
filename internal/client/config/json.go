package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/dmitrijs2005/gophdrive/internal/flagx"
	"github.com/dmitrijs2005/gophdrive/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling.
// Durations use timex.Duration ("3s" or integer nanoseconds); sizes are in
// bytes. Absent or zero fields leave the current value untouched.
type JsonConfig struct {
	ServerURL           string         `json:"server_url"`
	OnlineCheckInterval timex.Duration `json:"online_check_interval"`
	RequestTimeout      timex.Duration `json:"request_timeout"`
	DatabasePath        string         `json:"database_path"`
	LogLevel            string         `json:"log_level"`
	ChunkSize           int64          `json:"chunk_size"`
	LargeFileThreshold  int64          `json:"large_file_threshold"`
	LargeChunkSize      int64          `json:"large_chunk_size"`
}

// parseJson overlays Config with values loaded from the JSON file named by
// -c or -config. Panics on read or unmarshal errors.
func parseJson(cfg *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	var jc JsonConfig

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	setString(&cfg.ServerURL, jc.ServerURL)
	setString(&cfg.DatabasePath, jc.DatabasePath)
	setString(&cfg.LogLevel, jc.LogLevel)
	setDuration(&cfg.OnlineCheckInterval, jc.OnlineCheckInterval.Duration)
	setDuration(&cfg.RequestTimeout, jc.RequestTimeout.Duration)
	setSize(&cfg.ChunkSize, jc.ChunkSize)
	setSize(&cfg.LargeFileThreshold, jc.LargeFileThreshold)
	setSize(&cfg.LargeChunkSize, jc.LargeChunkSize)
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func setDuration(dst *time.Duration, v time.Duration) {
	if v != 0 {
		*dst = v
	}
}

func setSize(dst *int64, v int64) {
	if v > 0 {
		*dst = v
	}
}
