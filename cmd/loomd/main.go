// Command loomd runs the loom backend daemon: it opens the project store,
// takes the single-instance lock, and serves the HTTP API until interrupted.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofrs/flock"

	"loom/internal/api"
	"loom/internal/config"
	"loom/internal/ingest"
	"loom/internal/logging"
	"loom/internal/server"
	"loom/internal/store"
)

func main() {
	configFlag := flag.String("config", "", "configuration file path")
	flag.Parse()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg, _, _, err := config.Load(*configFlag)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	if err := cfg.EnsureDirectories(); err != nil {
		log.Fatalf("prepare directories: %v", err)
	}

	logger, err := logging.NewFromConfig(cfg)
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}

	lock := flock.New(cfg.LockPath())
	locked, err := lock.TryLock()
	if err != nil {
		logger.Error("acquire daemon lock", logging.Error(err))
		os.Exit(1)
	}
	if !locked {
		logger.Error("another loomd instance is already running", logging.String("lock", cfg.LockPath()))
		os.Exit(1)
	}
	defer lock.Unlock() //nolint:errcheck

	st, err := store.Open(cfg)
	if err != nil {
		logger.Error("open store", logging.Error(err))
		os.Exit(1)
	}
	defer st.Close()

	projects := api.NewProjectService(st, ingest.New(cfg), logger)
	srv := server.New(cfg, projects, logger)
	if err := srv.Start(ctx); err != nil {
		logger.Error("start api server", logging.Error(err))
		os.Exit(1)
	}

	<-ctx.Done()
	srv.Stop()
	logger.Info("loomd shutting down")
}
