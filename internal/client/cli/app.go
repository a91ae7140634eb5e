package cli

import (
	"bufio"
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/dmitrijs2005/gophdrive/internal/client/client"
	"github.com/dmitrijs2005/gophdrive/internal/client/config"
	"github.com/dmitrijs2005/gophdrive/internal/client/services"
	"github.com/dmitrijs2005/gophdrive/internal/client/upload"
	"github.com/dmitrijs2005/gophdrive/internal/logging"
	"golang.org/x/term"
)

type Mode string

const (
	ModeOffline Mode = "offline"
	ModeOnline  Mode = "online"
)

type App struct {
	config  *config.Config
	log     logging.Logger
	db      *sql.DB
	api     client.Client
	browse  services.BrowseService
	uploads services.UploadService
	out     io.Writer

	mu   sync.Mutex
	Mode Mode
}

// NewApp opens the local database, connects the HTTP client and wires the
// upload queue to both.
func NewApp(ctx context.Context, c *config.Config, log logging.Logger) (*App, error) {
	db, err := client.InitDatabase(ctx, c.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("error initializing database: %w", err)
	}

	api, err := client.NewHTTPClient(c.ServerURL, c.RequestTimeout)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	repos := client.NewRepositories(db)
	browse := services.NewBrowseService(api, repos.Metadata, log)

	tty := term.IsTerminal(int(os.Stdout.Fd()))
	width := 80
	if tty {
		if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 0 {
			width = w
		}
	}
	p := newProgress(os.Stdout, tty, width)

	q := upload.NewQueue(api, upload.Options{
		Plan:     c.Plan(),
		Journal:  repos.Tasks,
		Listener: p.Handle,
		Logger:   log,
	})
	r := upload.NewRunner(q, browse)
	uploads := services.NewUploadService(q, r, api, browse, repos.Tasks, log)

	return &App{
		config:  c,
		log:     log,
		db:      db,
		api:     api,
		browse:  browse,
		uploads: uploads,
		out:     os.Stdout,
	}, nil
}

// Close releases the local database.
func (a *App) Close() error {
	if a.db == nil {
		return nil
	}
	return a.db.Close()
}

func (a *App) setMode(mode Mode) {
	a.mu.Lock()
	changed := a.Mode != mode
	a.Mode = mode
	a.mu.Unlock()

	if changed {
		a.log.Info(context.Background(), "switched mode", "mode", string(mode))
	}
}

func (a *App) mode() Mode {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.Mode
}

func (a *App) getStatus() string {
	s := "/" + a.browse.Cwd()
	if m := a.mode(); m != "" {
		s = fmt.Sprintf("%s (%s)", s, m)
	}
	return s
}

// start loads the persisted state shared by interactive and batch runs.
func (a *App) start(ctx context.Context) {
	if err := a.browse.Load(ctx); err != nil {
		a.log.Warn(ctx, "cannot restore current directory", "error", err)
	}
	if n, err := a.uploads.Restore(ctx, false); err != nil {
		a.log.Warn(ctx, "cannot restore uploads", "error", err)
	} else if n > 0 {
		a.log.Info(ctx, "restored unfinished uploads", "count", n)
	}
}

// Run starts the interactive shell and blocks until the user exits or ctx
// is cancelled.
func (a *App) Run(ctx context.Context) {
	a.start(ctx)

	go a.StartOnlineStatusWatcher(ctx, a.config.OnlineCheckInterval)

	printlnFn("Welcome to GophDrive (type 'help' for commands)")
	runREPL(ctx, a, a.getStatus, bufio.NewScanner(os.Stdin))

	a.uploads.Pause()
	a.uploads.Wait()
}

// Batch uploads paths into the current remote directory and waits for the
// queue to drain.
func (a *App) Batch(ctx context.Context, paths []string) error {
	a.start(ctx)

	ids, err := a.uploads.Put(ctx, paths...)
	if err != nil {
		a.log.Warn(ctx, "some paths were not queued", "error", err)
	}
	a.uploads.Wait()

	failed := 0
	for _, t := range a.uploads.Tasks() {
		failed++
		a.log.Error(ctx, "upload not finished", "id", t.ID, "path", t.DestinationPath, "status", string(t.Status), "error", t.Err)
	}
	a.log.Info(ctx, "batch finished", "queued", len(ids), "unfinished", failed)

	if ctx.Err() != nil {
		return ctx.Err()
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d uploads did not finish", failed, len(ids))
	}
	return err
}

func (a *App) StartOnlineStatusWatcher(ctx context.Context, interval time.Duration) {
	a.checkOnline(ctx)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			a.checkOnline(ctx)
		case <-ctx.Done():
			return
		}
	}
}

func (a *App) checkOnline(ctx context.Context) {
	pctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	err := a.api.Ping(pctx)
	cancel()

	if err != nil {
		a.setMode(ModeOffline)
	} else {
		a.setMode(ModeOnline)
	}
}
