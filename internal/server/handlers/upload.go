package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/dmitrijs2005/gophdrive/internal/common"
	"github.com/dmitrijs2005/gophdrive/internal/server/storage"
)

const multipartMemory = 32 << 20

func (s *Server) handleCheck(w http.ResponseWriter, r *http.Request) {
	var req checkRequest
	if err := s.decode(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	dest, err := storage.CleanPath(destination(req.TargetPath, req.FilePath, req.FileName))
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	d, err := s.store.Destination(dest)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if d.Exists {
		writeJSON(w, http.StatusOK, checkResponse{Exists: true, IsFolder: d.IsFolder, Size: d.Size})
		return
	}

	sess, err := s.store.Session(req.Hash)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	names := make([]string, 0, len(sess.Chunks))
	for _, idx := range sess.Chunks {
		names = append(names, common.ChunkName(idx))
	}
	writeJSON(w, http.StatusOK, checkResponse{UploadedChunks: names, ChunkCount: len(names)})
}

func (s *Server) handleChunk(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxBody)
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			s.writeError(w, r, fmt.Errorf("%w: request exceeds %d bytes", storage.ErrTooLarge, tooLarge.Limit))
			return
		}
		s.writeError(w, r, fmt.Errorf("%w: %w", common.ErrValidation, err))
		return
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	form, err := s.parseChunkForm(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if dest := destination(form.TargetPath, form.FilePath, form.FileName); dest != "" {
		if _, err := storage.CleanPath(dest); err != nil {
			s.writeError(w, r, err)
			return
		}
	}

	file, _, err := r.FormFile("chunk")
	if err != nil {
		s.writeError(w, r, fmt.Errorf("%w: missing chunk data", common.ErrValidation))
		return
	}
	defer file.Close()

	n, err := s.store.SaveChunk(form.Hash, form.ChunkIndex, form.TotalChunks, file)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.log.Debug(r.Context(), "chunk stored", "hash", form.Hash, "index", form.ChunkIndex, "total", form.TotalChunks, "bytes", n)
	writeJSON(w, http.StatusOK, chunkResponse{
		Success: true,
		Chunk:   form.ChunkIndex,
		Message: fmt.Sprintf("chunk %d/%d stored", form.ChunkIndex+1, form.TotalChunks),
	})
}

func (s *Server) parseChunkForm(r *http.Request) (chunkForm, error) {
	form := chunkForm{
		Hash:       r.FormValue("hash"),
		FilePath:   r.FormValue("filepath"),
		FileName:   r.FormValue("filename"),
		TargetPath: r.FormValue("target_path"),
	}

	var err error
	if form.ChunkIndex, err = strconv.Atoi(r.FormValue("chunkIndex")); err != nil {
		return form, fmt.Errorf("%w: chunkIndex must be an integer", common.ErrValidation)
	}
	if form.TotalChunks, err = strconv.Atoi(r.FormValue("totalChunks")); err != nil {
		return form, fmt.Errorf("%w: totalChunks must be an integer", common.ErrValidation)
	}
	return form, s.check(&form)
}

func (s *Server) handleMerge(w http.ResponseWriter, r *http.Request) {
	var req mergeRequest
	if err := s.decode(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	m, err := s.store.Merge(req.Hash, destination(req.TargetPath, req.FilePath, req.FileName), req.TotalChunks)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.log.Info(r.Context(), "file merged", "path", m.FilePath, "size", m.Size, "chunks", req.TotalChunks)
	s.mirror.FileStored(m.FilePath)

	writeJSON(w, http.StatusOK, mergeResponse{
		Success:  true,
		FileName: m.FileName,
		FilePath: m.FilePath,
		Size:     m.Size,
		Message:  "file merged",
	})
}

func (s *Server) handleCancel(w http.ResponseWriter, r *http.Request) {
	var req cancelRequest
	if err := s.decode(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := s.store.Cancel(req.Hash); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Success: true, Message: "upload cancelled"})
}
