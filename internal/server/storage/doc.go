// Package storage keeps the backend's file tree on the local filesystem.
//
// Every API path is relative to the upload root and is rejected when it
// tries to climb out of it. Chunk sessions live in a separate directory,
// one sub-directory per upload identifier holding chunk_<index> files,
// until they are merged into the tree or cancelled.
package storage
