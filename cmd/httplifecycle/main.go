// cmd/httplifecycle/main.go
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/YaganovValera/httplifecycle/internal/app"
	"github.com/YaganovValera/httplifecycle/internal/config"
	"github.com/YaganovValera/httplifecycle/pkg/configloader"
	"github.com/YaganovValera/httplifecycle/pkg/logger"
	"github.com/YaganovValera/httplifecycle/pkg/shutdown"
)

func main() {
	var configPath string
	pflag.StringVar(&configPath, "config", "", "path to config file (empty → defaults + ENV)")
	pflag.Parse()

	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config load error: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.Logging)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger init error: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	if cfg.Logging.DevMode {
		_ = configloader.PrintConfig(os.Stdout, cfg)
	}

	log.Info("starting httplifecycle",
		zap.String("service.name", cfg.ServiceName),
		zap.String("service.version", cfg.ServiceVersion),
		zap.String("config.path", configPath),
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go shutdown.WaitForSignals(ctx, cancel, log)

	if err := app.Run(ctx, cfg, log); err != nil {
		log.Error("httplifecycle exited with error", zap.Error(err))
		log.Sync()
		os.Exit(1)
	}

	log.Info("httplifecycle shut down cleanly")
}
