// Package handlers serves the GophDrive HTTP API on top of a storage.Store.
//
// Upload endpoints implement the chunked protocol (check, chunk, merge,
// cancel); file endpoints list, create, delete, rename, move and download.
// Every response to a failed request is a JSON {"error": "..."} body.
package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/dmitrijs2005/gophdrive/internal/logging"
	"github.com/dmitrijs2005/gophdrive/internal/server/storage"
	"github.com/go-playground/validator/v10"
)

// DefaultMaxRequestSize bounds one request body, which for uploads is one
// chunk plus its form fields.
const DefaultMaxRequestSize = 1 << 30

// Mirror is told about files that appear in or leave the store.
type Mirror interface {
	FileStored(path string)
	FileDeleted(path string)
}

type noMirror struct{}

func (noMirror) FileStored(string)  {}
func (noMirror) FileDeleted(string) {}

type Server struct {
	addr     string
	store    *storage.Store
	mirror   Mirror
	log      logging.Logger
	validate *validator.Validate
	maxBody  int64
}

// New builds a server for store. mirror may be nil.
func New(addr string, store *storage.Store, mirror Mirror, log logging.Logger) *Server {
	if mirror == nil {
		mirror = noMirror{}
	}
	return &Server{
		addr:     addr,
		store:    store,
		mirror:   mirror,
		log:      log.With("module", "http_server"),
		validate: newValidator(),
		maxBody:  DefaultMaxRequestSize,
	}
}

// Handler returns the API routes wrapped in request-id and access-log
// middleware.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /api/check", s.handleCheck)
	mux.HandleFunc("POST /api/upload/chunk", s.handleChunk)
	mux.HandleFunc("POST /api/upload/merge", s.handleMerge)
	mux.HandleFunc("POST /api/upload/cancel", s.handleCancel)

	mux.HandleFunc("GET /api/files", s.handleList)
	mux.HandleFunc("POST /api/files/create-folder", s.handleCreateFolder)
	mux.HandleFunc("POST /api/files/delete", s.handleDelete)
	mux.HandleFunc("POST /api/files/rename", s.handleRename)
	mux.HandleFunc("POST /api/files/move", s.handleMove)
	mux.HandleFunc("POST /api/files/batch-download", s.handleBatchDownload)
	mux.HandleFunc("GET /download/{path...}", s.handleDownload)

	return s.withRequestID(s.withLogging(mux))
}

// Run serves until ctx is cancelled, then shuts down gracefully, giving
// in-flight requests up to shutdownTimeout.
func (s *Server) Run(ctx context.Context, shutdownTimeout time.Duration) error {
	srv := &http.Server{
		Addr:              s.addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info(ctx, "Starting HTTP server", "address", s.addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.log.Info(ctx, "Stopping HTTP server...")
	sctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(sctx)
}
