// Package models defines the shapes the backend stores and serves: folder
// listings, chunk sessions and merge outcomes.
package models

import "time"

// EntryType tells files and folders apart in a listing.
type EntryType string

const (
	EntryTypeFile   EntryType = "file"
	EntryTypeFolder EntryType = "folder"
)

// Entry is one row of a folder listing.
type Entry struct {
	Name      string    `json:"name"`
	Path      string    `json:"path"`
	Type      EntryType `json:"type"`
	Size      int64     `json:"size"`
	FileCount int       `json:"file_count,omitempty"`
	Modified  string    `json:"modified"`
	URL       string    `json:"url"`
	Mime      string    `json:"mime,omitempty"`
}

type Breadcrumb struct {
	Name string `json:"name"`
	Path string `json:"path"`
}

// Listing is the body of GET /api/files.
type Listing struct {
	Success     bool         `json:"success"`
	Path        string       `json:"path"`
	Files       []Entry      `json:"files"`
	Breadcrumbs []Breadcrumb `json:"breadcrumbs"`
}

// Destination describes what already sits at an upload destination.
type Destination struct {
	Exists   bool
	IsFolder bool
	Size     int64
}

// Session is the set of chunks received so far for one upload identifier.
type Session struct {
	Hash     string
	Chunks   []int
	Modified time.Time
}

// Merged is the outcome of assembling a session into its destination.
type Merged struct {
	FileName string
	FilePath string
	Size     int64
}
