// Package services implements the client's use cases on top of the backend
// client, the local repositories and the upload engine.
//
// BrowseService tracks the current remote directory and performs listing
// and file management; it also serves as the listing refresher the upload
// engine notifies after a merge. UploadService turns local paths into
// queued uploads and restores unfinished uploads from the journal.
package services
