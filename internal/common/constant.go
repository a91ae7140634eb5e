// Package common contains shared constants, sentinel errors and remote path
// helpers used by both the GophDrive client and the reference backend.
package common

// RequestIDHeaderName is the HTTP header carrying the per-request id that the
// backend echoes back and logs.
const RequestIDHeaderName = "X-Request-ID"

// ChunkNamePrefix prefixes chunk indices in check responses ("chunk_3").
const ChunkNamePrefix = "chunk_"
