// Package cli provides the interactive GophDrive command-line client.
//
// It wires configuration, the local journal database, the HTTP client, and
// the upload queue, then runs a REPL for browsing the remote store and
// managing uploads. A background watcher pings the server and flips the
// prompt between online and offline.
//
// Uploads run in the background while the shell keeps accepting commands;
// progress is drawn on a single line when stdout is a terminal and logged
// line by line otherwise. App.Batch is the non-interactive entry point used
// when paths are given on the command line.
package cli
