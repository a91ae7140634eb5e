// Package server initializes and runs the GophDrive backend.
// It prepares the file store, starts the HTTP API, the stale chunk janitor
// and the optional S3 replica, and shuts them down on a signal.
package server

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/dmitrijs2005/gophdrive/internal/logging"
	"github.com/dmitrijs2005/gophdrive/internal/server/config"
	"github.com/dmitrijs2005/gophdrive/internal/server/handlers"
	"github.com/dmitrijs2005/gophdrive/internal/server/janitor"
	"github.com/dmitrijs2005/gophdrive/internal/server/replica"
	"github.com/dmitrijs2005/gophdrive/internal/server/storage"
)

type App struct {
	config  *config.Config
	logger  logging.Logger
	store   *storage.Store
	janitor *janitor.Janitor
	replica *replica.Replica
	http    *handlers.Server
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	logger := logging.NewJSONLogger(os.Stdout, c.LogLevel)

	store, err := storage.New(c.UploadDir, c.ChunkDir, c.MaxFileSize)
	if err != nil {
		return nil, fmt.Errorf("storage init error: %w", err)
	}

	j, err := janitor.New(store, c.StaleChunkTTL, c.JanitorSchedule, logger)
	if err != nil {
		return nil, err
	}

	app := &App{config: c, logger: logger, store: store, janitor: j}

	var mirror handlers.Mirror
	if c.ReplicaEnabled() {
		r, err := replica.New(ctx, c, store.Root(), logger)
		if err != nil {
			return nil, fmt.Errorf("replica init error: %w", err)
		}
		app.replica = r
		mirror = r
	}

	app.http = handlers.New(c.EndpointAddr, store, mirror, logger)
	return app, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {
	if err := app.http.Run(ctx, app.config.ShutdownTimeout); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

func (app *App) Run(ctx context.Context) {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...", "upload_dir", app.store.Root(), "replica", app.replica != nil)

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.janitor.Run(ctx)
	}()

	if app.replica != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			app.replica.Run(ctx)
		}()
	}

	wg.Wait()
	app.logger.Info(context.Background(), "App stopped")
}
