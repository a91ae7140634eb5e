package client

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/gophdrive/internal/client/models"
	"github.com/dmitrijs2005/gophdrive/internal/common"
)

func newTestClient(t *testing.T, h http.Handler) *HTTPClient {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	c, err := NewHTTPClient(srv.URL, 5*time.Second)
	require.NoError(t, err)
	return c
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func TestNewHTTPClient(t *testing.T) {
	c, err := NewHTTPClient("localhost:5000/", 0)
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:5000", c.baseURL.String())

	_, err = NewHTTPClient("http://", 0)
	assert.Error(t, err)
}

func TestHTTPClient_Check(t *testing.T) {
	var got models.CheckRequest
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/check", r.URL.Path)
		assert.NotEmpty(t, r.Header.Get(common.RequestIDHeaderName))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		writeJSON(w, http.StatusOK, map[string]any{
			"exists":          false,
			"uploaded_chunks": []string{"chunk_0", "chunk_2"},
		})
	}))

	req := models.CheckRequest{Hash: "h1", FilePath: "a/x.txt", FileName: "x.txt", TargetPath: "docs"}
	res, err := c.Check(context.Background(), req)
	require.NoError(t, err)

	if diff := cmp.Diff(req, got); diff != "" {
		t.Fatalf("request mismatch (-want +got):\n%s", diff)
	}
	assert.False(t, res.Exists)
	assert.Equal(t, []int{0, 2}, res.ChunkIndices())
}

func TestHTTPClient_UploadChunk_Multipart(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/upload/chunk", r.URL.Path)
		require.NoError(t, r.ParseMultipartForm(1<<20))
		assert.Equal(t, "h1", r.FormValue("hash"))
		assert.Equal(t, "2", r.FormValue("chunkIndex"))
		assert.Equal(t, "3", r.FormValue("totalChunks"))
		assert.Equal(t, "x.txt", r.FormValue("filename"))
		assert.Equal(t, "a/x.txt", r.FormValue("filepath"))
		assert.Equal(t, "docs", r.FormValue("target_path"))

		f, _, err := r.FormFile("chunk")
		require.NoError(t, err)
		defer f.Close()
		data, _ := io.ReadAll(f)
		assert.Equal(t, "payload", string(data))
		writeJSON(w, http.StatusOK, map[string]any{"success": true})
	}))

	err := c.UploadChunk(context.Background(), models.ChunkUpload{
		Hash: "h1", ChunkIndex: 2, TotalChunks: 3,
		FileName: "x.txt", FilePath: "a/x.txt", TargetPath: "docs",
		Data: []byte("payload"),
	})
	require.NoError(t, err)
}

func TestHTTPClient_ErrorMapping(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		want   error
		msg    string
	}{
		{"bad request", http.StatusBadRequest, `{"error":"Missing parameters"}`, ErrBadRequest, "Missing parameters"},
		{"not found", http.StatusNotFound, `{"error":"File not found"}`, common.ErrNotFound, "File not found"},
		{"server", http.StatusInternalServerError, `{"error":"boom"}`, ErrServer, "boom"},
		{"unavailable", http.StatusServiceUnavailable, `down`, ErrUnavailable, "down"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = io.WriteString(w, tt.body)
			}))
			_, err := c.Merge(context.Background(), models.MergeRequest{Hash: "h"})
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.want)

			var apiErr *APIError
			require.ErrorAs(t, err, &apiErr)
			assert.Equal(t, tt.status, apiErr.Status)
			assert.Equal(t, tt.msg, apiErr.Message)
		})
	}
}

func TestHTTPClient_TransportErrorIsUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c, err := NewHTTPClient(url, time.Second)
	require.NoError(t, err)
	err = c.Ping(context.Background())
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestHTTPClient_CancelledContext(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{})
	}))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := c.Cancel(ctx, "h")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestHTTPClient_CreateFolder(t *testing.T) {
	var got models.CreateFolderRequest
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		if got.Name == "dup" {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Folder already exists"})
			return
		}
		if got.Name == "bad" {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid folder name"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"success": true})
	}))
	ctx := context.Background()

	require.NoError(t, c.CreateFolder(ctx, "/docs/", "new"))
	assert.Equal(t, models.CreateFolderRequest{Path: "docs", Name: "new"}, got)

	err := c.CreateFolder(ctx, "docs", "dup")
	assert.ErrorIs(t, err, common.ErrAlreadyExists)

	err = c.CreateFolder(ctx, "docs", "bad")
	assert.ErrorIs(t, err, ErrBadRequest)
	assert.NotErrorIs(t, err, common.ErrAlreadyExists)
}

func TestHTTPClient_ListFiles(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "docs/a", r.URL.Query().Get("path"))
		writeJSON(w, http.StatusOK, models.Listing{
			Success: true,
			Path:    "docs/a",
			Files: []models.FileEntry{
				{Name: "sub", Path: "docs/a/sub", Type: models.EntryTypeFolder, FileCount: 2},
				{Name: "x.txt", Path: "docs/a/x.txt", Type: models.EntryTypeFile, Size: 3},
			},
			Breadcrumbs: []models.Breadcrumb{{Name: "docs", Path: "docs"}, {Name: "a", Path: "docs/a"}},
		})
	}))

	l, err := c.ListFiles(context.Background(), "/docs/a/")
	require.NoError(t, err)
	require.Len(t, l.Files, 2)
	assert.True(t, l.Files[0].IsFolder())
	assert.Equal(t, int64(3), l.Files[1].Size)
	assert.Len(t, l.Breadcrumbs, 2)
}

func TestHTTPClient_FileManagement(t *testing.T) {
	var paths []string
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.URL.Path)
		switch r.URL.Path {
		case "/api/files/rename":
			var req models.RenameRequest
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			assert.Equal(t, "docs/a.txt", req.OldPath)
			writeJSON(w, http.StatusOK, models.PathResult{Success: true, NewPath: "docs/" + req.NewName})
		case "/api/files/move":
			var req models.MoveRequest
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			writeJSON(w, http.StatusOK, models.PathResult{Success: true, NewPath: req.TargetDir + "/b.txt"})
		default:
			writeJSON(w, http.StatusOK, map[string]any{"success": true})
		}
	}))
	ctx := context.Background()

	newPath, err := c.Rename(ctx, "docs/a.txt", "b.txt")
	require.NoError(t, err)
	assert.Equal(t, "docs/b.txt", newPath)

	newPath, err = c.Move(ctx, "docs/b.txt", "archive")
	require.NoError(t, err)
	assert.Equal(t, "archive/b.txt", newPath)

	require.NoError(t, c.Delete(ctx, "archive/b.txt"))
	assert.Equal(t, []string{"/api/files/rename", "/api/files/move", "/api/files/delete"}, paths)
}

func TestHTTPClient_Download(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/download/docs/my file.txt" {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "File not found"})
			return
		}
		_, _ = io.WriteString(w, "content")
	}))
	ctx := context.Background()

	var buf bytes.Buffer
	n, err := c.Download(ctx, "docs/my file.txt", &buf)
	require.NoError(t, err)
	assert.Equal(t, int64(7), n)
	assert.Equal(t, "content", buf.String())

	_, err = c.Download(ctx, "docs/missing", &buf)
	assert.ErrorIs(t, err, common.ErrNotFound)

	_, err = c.Download(ctx, "/", &buf)
	assert.ErrorIs(t, err, common.ErrInvalidPath)
}

func TestHTTPClient_DownloadArchive(t *testing.T) {
	var got models.BatchDownloadRequest
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/files/batch-download", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		if len(got.Files) > 0 && got.Files[0].Path == "gone.txt" {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "none of the selected items exist"})
			return
		}
		w.Header().Set("Content-Type", "application/zip")
		_, _ = io.WriteString(w, "PK-zip")
	}))
	ctx := context.Background()

	req := models.BatchDownloadRequest{
		Files:       []models.ArchiveItem{{Path: "docs/a.txt"}},
		Folders:     []models.ArchiveItem{{Path: "docs/photos", Name: "photos"}},
		CurrentPath: "docs",
	}
	var buf bytes.Buffer
	n, err := c.DownloadArchive(ctx, req, &buf)
	require.NoError(t, err)
	assert.Equal(t, int64(6), n)
	assert.Equal(t, "PK-zip", buf.String())
	if diff := cmp.Diff(req, got); diff != "" {
		t.Fatalf("request mismatch (-want +got):\n%s", diff)
	}

	_, err = c.DownloadArchive(ctx, models.BatchDownloadRequest{Files: []models.ArchiveItem{{Path: "gone.txt"}}}, &buf)
	assert.ErrorIs(t, err, common.ErrNotFound)

	_, err = c.DownloadArchive(ctx, models.BatchDownloadRequest{}, &buf)
	assert.ErrorIs(t, err, common.ErrValidation)
}
