package models

import (
	"sort"

	"github.com/dmitrijs2005/gophdrive/internal/common"
)

// CheckRequest is the body of POST /api/check.
type CheckRequest struct {
	Hash       string `json:"hash"`
	FilePath   string `json:"filepath"`
	FileName   string `json:"filename"`
	TargetPath string `json:"target_path"`
}

// CheckResult is the response of POST /api/check.
type CheckResult struct {
	Exists         bool     `json:"exists"`
	IsFolder       bool     `json:"is_folder"`
	Size           int64    `json:"size,omitempty"`
	UploadedChunks []string `json:"uploaded_chunks"`
	ChunkCount     int      `json:"chunk_count,omitempty"`
}

// ChunkIndices decodes UploadedChunks ("chunk_<idx>") into sorted unique
// indices. Names that do not parse are skipped.
func (r *CheckResult) ChunkIndices() []int {
	seen := make(map[int]struct{}, len(r.UploadedChunks))
	out := make([]int, 0, len(r.UploadedChunks))
	for _, name := range r.UploadedChunks {
		idx, err := common.ParseChunkName(name)
		if err != nil {
			continue
		}
		if _, dup := seen[idx]; dup {
			continue
		}
		seen[idx] = struct{}{}
		out = append(out, idx)
	}
	sort.Ints(out)
	return out
}

// ChunkUpload is one multipart POST /api/upload/chunk.
type ChunkUpload struct {
	Hash        string
	ChunkIndex  int
	TotalChunks int
	FileName    string
	FilePath    string
	TargetPath  string
	Data        []byte
}

// MergeRequest is the body of POST /api/upload/merge.
type MergeRequest struct {
	Hash        string `json:"hash"`
	FileName    string `json:"filename"`
	FilePath    string `json:"filepath"`
	TargetPath  string `json:"target_path"`
	TotalChunks int    `json:"totalChunks"`
}

// MergeResult is the success response of POST /api/upload/merge.
type MergeResult struct {
	Success  bool   `json:"success"`
	FileName string `json:"filename"`
	FilePath string `json:"filepath"`
	Size     int64  `json:"size"`
	Message  string `json:"message"`
}

// CancelRequest is the body of POST /api/upload/cancel.
type CancelRequest struct {
	Hash string `json:"hash"`
}

// CreateFolderRequest is the body of POST /api/files/create-folder.
// ArchiveItem is one file or folder of a batch download. Name is the entry
// name inside the archive; the server defaults it to the base name.
type ArchiveItem struct {
	Path string `json:"path"`
	Name string `json:"name,omitempty"`
}

type BatchDownloadRequest struct {
	Files       []ArchiveItem `json:"files"`
	Folders     []ArchiveItem `json:"folders"`
	CurrentPath string        `json:"current_path"`
}

type CreateFolderRequest struct {
	Path string `json:"path"`
	Name string `json:"name"`
}

// DeleteRequest is the body of POST /api/files/delete.
type DeleteRequest struct {
	FilePath string `json:"filepath"`
}

// RenameRequest is the body of POST /api/files/rename.
type RenameRequest struct {
	OldPath string `json:"old_path"`
	NewName string `json:"new_name"`
}

// MoveRequest is the body of POST /api/files/move.
type MoveRequest struct {
	SourcePath string `json:"source_path"`
	TargetDir  string `json:"target_dir"`
}

// PathResult is returned by rename, move and create-folder.
type PathResult struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Path    string `json:"path,omitempty"`
	NewPath string `json:"new_path,omitempty"`
}

// ErrorResponse is the {error} body the backend sends on failure.
type ErrorResponse struct {
	Error string `json:"error"`
}
