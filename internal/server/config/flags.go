package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/gophdrive/internal/flagx"
)

// parseFlags populates selected server Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   HTTP bind address (e.g., ":5000")
//	-u string   upload root directory
//	-k string   chunk session directory
//	-m int      max file size, MB
//	-t int      stale chunk session TTL, minutes
//	-j string   janitor cron schedule (e.g., "@every 10m")
//	-l string   log level
//	-b string   S3 bucket for the replica (empty disables it)
//	-g string   S3 region
//	-e string   S3 base endpoint (e.g., "http://127.0.0.1:9000/")
//
// S3 credentials are JSON-only.
func parseFlags(config *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-u", "-k", "-m", "-t", "-j", "-l", "-b", "-g", "-e"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.EndpointAddr, "a", config.EndpointAddr, "address and port to run server")
	fs.StringVar(&config.UploadDir, "u", config.UploadDir, "upload root directory")
	fs.StringVar(&config.ChunkDir, "k", config.ChunkDir, "chunk session directory")

	maxFileSize := fs.Int64("m", config.MaxFileSize>>20, "max file size (in MB)")
	staleTTL := fs.Int("t", int(config.StaleChunkTTL.Minutes()), "stale chunk session ttl (in minutes)")

	fs.StringVar(&config.JanitorSchedule, "j", config.JanitorSchedule, "janitor cron schedule")
	fs.StringVar(&config.LogLevel, "l", config.LogLevel, "log level")
	fs.StringVar(&config.S3Bucket, "b", config.S3Bucket, "S3 replica bucket")
	fs.StringVar(&config.S3Region, "g", config.S3Region, "S3 region")
	fs.StringVar(&config.S3BaseEndpoint, "e", config.S3BaseEndpoint, "S3 base endpoint")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	config.MaxFileSize = *maxFileSize << 20
	config.StaleChunkTTL = time.Duration(*staleTTL) * time.Minute
}
