// Package janitor periodically removes abandoned chunk sessions.
package janitor

import (
	"context"
	"fmt"
	"time"

	"github.com/dmitrijs2005/gophdrive/internal/logging"
	"github.com/robfig/cron/v3"
)

// Sweeper removes chunk sessions idle for longer than ttl and returns the
// session hashes it dropped.
type Sweeper interface {
	RemoveStale(ttl time.Duration) ([]string, error)
}

type Janitor struct {
	store Sweeper
	ttl   time.Duration
	cron  *cron.Cron
	log   logging.Logger
}

// New schedules sweeps of store. schedule is a cron expression or a descriptor
// such as "@every 10m".
func New(store Sweeper, ttl time.Duration, schedule string, log logging.Logger) (*Janitor, error) {
	j := &Janitor{
		store: store,
		ttl:   ttl,
		cron:  cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		log:   log.With("module", "janitor"),
	}
	if _, err := j.cron.AddFunc(schedule, j.Sweep); err != nil {
		return nil, fmt.Errorf("invalid janitor schedule %q: %w", schedule, err)
	}
	return j, nil
}

// Run starts the schedule and blocks until ctx is cancelled and a running
// sweep has finished.
func (j *Janitor) Run(ctx context.Context) {
	j.log.Info(ctx, "Starting janitor", "ttl", j.ttl)
	j.cron.Start()
	<-ctx.Done()
	<-j.cron.Stop().Done()
	j.log.Info(ctx, "Janitor stopped")
}

// Sweep removes stale sessions once.
func (j *Janitor) Sweep() {
	ctx := context.Background()
	removed, err := j.store.RemoveStale(j.ttl)
	if err != nil {
		j.log.Error(ctx, "stale chunk cleanup failed", "error", err)
	}
	if len(removed) > 0 {
		j.log.Info(ctx, "removed stale chunk sessions", "count", len(removed), "sessions", removed)
	}
}
