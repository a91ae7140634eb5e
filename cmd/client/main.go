package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrijs2005/gophdrive/internal/client/cli"
	"github.com/dmitrijs2005/gophdrive/internal/client/config"
	"github.com/dmitrijs2005/gophdrive/internal/flagx"
	"github.com/dmitrijs2005/gophdrive/internal/logging"
)

func main() {
	cfg := config.LoadConfig()
	logger := logging.NewTextLogger(os.Stderr, cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app, err := cli.NewApp(ctx, cfg, logger)
	if err != nil {
		logger.Error(ctx, "startup failed", "error", err)
		os.Exit(1)
	}

	code := 0
	if paths := flagx.Positional(os.Args[1:], config.Flags); len(paths) > 0 {
		if err := app.Batch(ctx, paths); err != nil {
			logger.Error(ctx, "upload failed", "error", err)
			code = 1
		}
	} else {
		app.Run(ctx)
	}

	if err := app.Close(); err != nil {
		logger.Warn(ctx, "closing database", "error", err)
	}
	stop()
	os.Exit(code)
}
