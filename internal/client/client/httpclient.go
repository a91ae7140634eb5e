package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrijs2005/gophdrive/internal/client/models"
	"github.com/dmitrijs2005/gophdrive/internal/common"
)

// HTTPClient talks to the backend over its JSON/HTTP API.
type HTTPClient struct {
	baseURL *url.URL
	http    *http.Client
}

var _ Client = (*HTTPClient)(nil)

// NewHTTPClient returns a client for the backend at endpointURL. A zero
// timeout means no per-request limit.
func NewHTTPClient(endpointURL string, timeout time.Duration) (*HTTPClient, error) {
	if !strings.Contains(endpointURL, "://") {
		endpointURL = "http://" + endpointURL
	}
	u, err := url.Parse(endpointURL)
	if err != nil {
		return nil, fmt.Errorf("invalid server url %q: %w", endpointURL, err)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("invalid server url %q: missing host", endpointURL)
	}
	u.Path = strings.TrimSuffix(u.Path, "/")
	return &HTTPClient{
		baseURL: u,
		http:    &http.Client{Timeout: timeout},
	}, nil
}

func (c *HTTPClient) Ping(ctx context.Context) error {
	_, err := c.ListFiles(ctx, "")
	return err
}

func (c *HTTPClient) Check(ctx context.Context, req models.CheckRequest) (*models.CheckResult, error) {
	var res models.CheckResult
	if err := c.postJSON(ctx, "/api/check", req, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *HTTPClient) UploadChunk(ctx context.Context, chunk models.ChunkUpload) error {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)

	fields := [][2]string{
		{"hash", chunk.Hash},
		{"chunkIndex", strconv.Itoa(chunk.ChunkIndex)},
		{"totalChunks", strconv.Itoa(chunk.TotalChunks)},
		{"filename", chunk.FileName},
		{"filepath", chunk.FilePath},
		{"target_path", chunk.TargetPath},
	}
	for _, f := range fields {
		if err := mw.WriteField(f[0], f[1]); err != nil {
			return err
		}
	}
	part, err := mw.CreateFormFile("chunk", "blob")
	if err != nil {
		return err
	}
	if _, err := part.Write(chunk.Data); err != nil {
		return err
	}
	if err := mw.Close(); err != nil {
		return err
	}

	req, err := c.newRequest(ctx, http.MethodPost, "/api/upload/chunk", nil, &body)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return c.do(req, nil)
}

func (c *HTTPClient) Merge(ctx context.Context, req models.MergeRequest) (*models.MergeResult, error) {
	var res models.MergeResult
	if err := c.postJSON(ctx, "/api/upload/merge", req, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *HTTPClient) Cancel(ctx context.Context, hash string) error {
	return c.postJSON(ctx, "/api/upload/cancel", models.CancelRequest{Hash: hash}, nil)
}

func (c *HTTPClient) ListFiles(ctx context.Context, path string) (*models.Listing, error) {
	q := url.Values{}
	q.Set("path", common.CleanRemote(path))
	req, err := c.newRequest(ctx, http.MethodGet, "/api/files", q, nil)
	if err != nil {
		return nil, err
	}
	var res models.Listing
	if err := c.do(req, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// CreateFolder creates parent/name. An existing folder yields an error
// matching common.ErrAlreadyExists.
func (c *HTTPClient) CreateFolder(ctx context.Context, parent, name string) error {
	err := c.postJSON(ctx, "/api/files/create-folder",
		models.CreateFolderRequest{Path: common.CleanRemote(parent), Name: name}, nil)

	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Status == http.StatusBadRequest &&
		strings.Contains(strings.ToLower(apiErr.Message), "already exists") {
		return fmt.Errorf("%w: %s", common.ErrAlreadyExists, common.JoinRemote(parent, name))
	}
	return err
}

func (c *HTTPClient) Delete(ctx context.Context, path string) error {
	return c.postJSON(ctx, "/api/files/delete", models.DeleteRequest{FilePath: common.CleanRemote(path)}, nil)
}

func (c *HTTPClient) Rename(ctx context.Context, oldPath, newName string) (string, error) {
	var res models.PathResult
	err := c.postJSON(ctx, "/api/files/rename",
		models.RenameRequest{OldPath: common.CleanRemote(oldPath), NewName: newName}, &res)
	if err != nil {
		return "", err
	}
	return res.NewPath, nil
}

func (c *HTTPClient) Move(ctx context.Context, sourcePath, targetDir string) (string, error) {
	var res models.PathResult
	err := c.postJSON(ctx, "/api/files/move",
		models.MoveRequest{SourcePath: common.CleanRemote(sourcePath), TargetDir: common.CleanRemote(targetDir)}, &res)
	if err != nil {
		return "", err
	}
	return res.NewPath, nil
}

// Download streams a remote file (or a zip of a remote folder) into w.
func (c *HTTPClient) Download(ctx context.Context, path string, w io.Writer) (int64, error) {
	p := common.CleanRemote(path)
	if p == "" {
		return 0, fmt.Errorf("%w: empty path", common.ErrInvalidPath)
	}
	req, err := c.newRequest(ctx, http.MethodGet, "/download/"+p, nil, nil)
	if err != nil {
		return 0, err
	}
	return c.stream(req, w)
}

// DownloadArchive streams one zip of the selected files and folders into w.
func (c *HTTPClient) DownloadArchive(ctx context.Context, in models.BatchDownloadRequest, w io.Writer) (int64, error) {
	if len(in.Files)+len(in.Folders) == 0 {
		return 0, fmt.Errorf("%w: nothing selected", common.ErrValidation)
	}
	data, err := json.Marshal(in)
	if err != nil {
		return 0, err
	}
	req, err := c.newRequest(ctx, http.MethodPost, "/api/files/batch-download", nil, bytes.NewReader(data))
	if err != nil {
		return 0, err
	}
	req.Header.Set("Content-Type", "application/json")
	return c.stream(req, w)
}

func (c *HTTPClient) stream(req *http.Request, w io.Writer) (int64, error) {
	resp, err := c.http.Do(req)
	if err != nil {
		return 0, c.mapTransportError(req.Context(), err)
	}
	defer resp.Body.Close()
	if resp.StatusCode/100 != 2 {
		return 0, responseError(resp)
	}
	return io.Copy(w, resp.Body)
}

func (c *HTTPClient) postJSON(ctx context.Context, path string, in, out any) error {
	data, err := json.Marshal(in)
	if err != nil {
		return err
	}
	req, err := c.newRequest(ctx, http.MethodPost, path, nil, bytes.NewReader(data))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, out)
}

func (c *HTTPClient) newRequest(ctx context.Context, method, path string, query url.Values, body io.Reader) (*http.Request, error) {
	u := *c.baseURL
	u.Path += path
	if query != nil {
		u.RawQuery = query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, method, u.String(), body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set(common.RequestIDHeaderName, uuid.NewString())
	return req, nil
}

func (c *HTTPClient) do(req *http.Request, out any) error {
	resp, err := c.http.Do(req)
	if err != nil {
		return c.mapTransportError(req.Context(), err)
	}
	defer resp.Body.Close()

	if resp.StatusCode/100 != 2 {
		return responseError(resp)
	}
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: decode %s response: %w", ErrServer, req.URL.Path, err)
	}
	return nil
}

func (c *HTTPClient) mapTransportError(ctx context.Context, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}
	return fmt.Errorf("%w: %w", ErrUnavailable, err)
}

func responseError(resp *http.Response) error {
	var body models.ErrorResponse
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	msg := strings.TrimSpace(string(raw))
	if json.Unmarshal(raw, &body) == nil && body.Error != "" {
		msg = body.Error
	}

	e := &APIError{Status: resp.StatusCode, Message: msg}
	switch {
	case resp.StatusCode == http.StatusNotFound:
		e.kind = common.ErrNotFound
	case resp.StatusCode == http.StatusBadGateway,
		resp.StatusCode == http.StatusServiceUnavailable,
		resp.StatusCode == http.StatusGatewayTimeout:
		e.kind = ErrUnavailable
	case resp.StatusCode >= 500:
		e.kind = ErrServer
	default:
		e.kind = ErrBadRequest
	}
	return e
}
