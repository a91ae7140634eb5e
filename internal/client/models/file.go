package models

// EntryType tells files and folders apart in a listing.
type EntryType string

const (
	EntryTypeFile   EntryType = "file"
	EntryTypeFolder EntryType = "folder"
)

// FileEntry is one row of a remote folder listing.
type FileEntry struct {
	Name      string    `json:"name"`
	Path      string    `json:"path"`
	Type      EntryType `json:"type"`
	Size      int64     `json:"size"`
	FileCount int       `json:"file_count,omitempty"`
	Modified  string    `json:"modified"`
	URL       string    `json:"url"`
	Mime      string    `json:"mime,omitempty"`
}

// IsFolder reports whether the entry is a folder.
func (e FileEntry) IsFolder() bool { return e.Type == EntryTypeFolder }

// Breadcrumb is one step of the path from the root to a listed folder.
type Breadcrumb struct {
	Name string `json:"name"`
	Path string `json:"path"`
}

// Listing is the response of GET /api/files.
type Listing struct {
	Success     bool         `json:"success"`
	Path        string       `json:"path"`
	Files       []FileEntry  `json:"files"`
	Breadcrumbs []Breadcrumb `json:"breadcrumbs"`
}
