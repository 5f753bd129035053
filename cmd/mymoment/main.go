package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrijs2005/mymoment/internal/buildinfo"
	"github.com/dmitrijs2005/mymoment/internal/client/cli"
	"github.com/dmitrijs2005/mymoment/internal/client/config"
	"github.com/dmitrijs2005/mymoment/internal/logging"
	"go.uber.org/zap/zapcore"
)

func main() {

	buildinfo.PrintBuildData(os.Stdout)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := config.LoadConfig()

	logger := logging.NewFileLogger(cfg.LogPath(), zapcore.InfoLevel)
	defer func() { _ = logger.Sync() }()

	app, err := cli.NewApp(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("%v", err)
	}

	app.Run(ctx)
}
