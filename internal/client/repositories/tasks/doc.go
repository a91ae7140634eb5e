// Package tasks persists the client's upload journal: one row per upload
// task backed by a local file, plus the chunk indices the backend has
// confirmed for it. The journal lets interrupted uploads resume after a
// restart under their journaled identifiers.
package tasks
