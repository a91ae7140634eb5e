// Package config loads runtime configuration for the GophDrive CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file (see parseJson) selected via flags: -c or -config.
//  3. Command-line flags (see parseFlags), which override earlier values.
//
// Supported flags
//
//	-a string   backend base URL
//	-i int      online status check interval (seconds)
//	-d string   local state database path
//	-s int      default chunk size (MB)
//	-l string   log level
//
// # JSON schema
//
//	{
//	  "server_url": "http://127.0.0.1:5000",
//	  "online_check_interval": "3s",
//	  "request_timeout": "5m",
//	  "database_path": "gophdrive.db",
//	  "log_level": "info",
//	  "chunk_size": 20971520,
//	  "large_file_threshold": 524288000,
//	  "large_chunk_size": 52428800
//	}
package config
