package handlers

import (
	"fmt"
	"mime"
	"net/http"
	"path"

	"github.com/google/uuid"

	"github.com/dmitrijs2005/gophdrive/internal/common"
	"github.com/dmitrijs2005/gophdrive/internal/server/storage"
)

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	l, err := s.store.List(r.URL.Query().Get("path"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, l)
}

func (s *Server) handleCreateFolder(w http.ResponseWriter, r *http.Request) {
	var req createFolderRequest
	if err := s.decode(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	p, err := s.store.CreateFolder(req.Path, req.Name)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Success: true, Message: "folder created", Path: p})
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	var req deleteRequest
	if err := s.decode(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	rel, err := storage.CleanPath(req.FilePath)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	isDir, err := s.store.Delete(rel)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	msg := "file deleted"
	if isDir {
		msg = "folder deleted"
	} else {
		s.mirror.FileDeleted(rel)
	}
	s.log.Info(r.Context(), msg, "path", rel)
	writeJSON(w, http.StatusOK, messageResponse{Success: true, Message: msg})
}

func (s *Server) handleRename(w http.ResponseWriter, r *http.Request) {
	var req renameRequest
	if err := s.decode(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	p, err := s.store.Rename(req.OldPath, req.NewName)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Success: true, Message: "renamed", NewPath: p})
}

func (s *Server) handleMove(w http.ResponseWriter, r *http.Request) {
	var req moveRequest
	if err := s.decode(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	p, err := s.store.Move(req.SourcePath, req.TargetDir)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Success: true, Message: "moved", NewPath: p})
}

// handleDownload sends a file as an attachment, or a folder as a zip
// archive named after it.
func (s *Server) handleDownload(w http.ResponseWriter, r *http.Request) {
	rel, st, err := s.store.Stat(r.PathValue("path"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	if st.IsDir() {
		name := path.Base(rel)
		if rel == "" {
			name = "root"
		}
		w.Header().Set("Content-Type", "application/zip")
		w.Header().Set("Content-Disposition", attachment(name+".zip"))
		if err := s.store.WriteZip(rel, w); err != nil {
			s.log.Error(r.Context(), "zip stream failed", "path", rel, "error", err)
		}
		return
	}

	f, st, err := s.store.Open(rel)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	defer f.Close()

	w.Header().Set("Content-Type", "application/octet-stream")
	w.Header().Set("Content-Disposition", attachment(st.Name()))
	http.ServeContent(w, r, st.Name(), st.ModTime(), f)
}

// handleBatchDownload streams the selected files and folders as one zip.
// Selected items that no longer exist are left out.
func (s *Server) handleBatchDownload(w http.ResponseWriter, r *http.Request) {
	var req batchDownloadRequest
	if err := s.decode(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	if len(req.Files)+len(req.Folders) == 0 {
		s.writeError(w, r, fmt.Errorf("%w: nothing selected", common.ErrValidation))
		return
	}

	items := make([]storage.ZipItem, 0, len(req.Files)+len(req.Folders))
	for _, group := range [][]archiveItem{req.Files, req.Folders} {
		for _, it := range group {
			items = append(items, storage.ZipItem{Path: it.Path, Name: it.Name})
		}
	}
	sel, err := s.store.Select(items)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	name := fmt.Sprintf("batch_download_%s.zip", uuid.NewString()[:8])
	w.Header().Set("Content-Type", "application/zip")
	w.Header().Set("Content-Disposition", attachment(name))
	if err := sel.WriteZip(w); err != nil {
		s.log.Error(r.Context(), "zip stream failed", "items", sel.Len(), "error", err)
		return
	}
	s.log.Info(r.Context(), "batch download sent", "items", sel.Len(), "current_path", req.CurrentPath)
}

func attachment(name string) string {
	return mime.FormatMediaType("attachment", map[string]string{"filename": name})
}
