package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"fieldnote/internal/artifacts"
	"fieldnote/internal/config"
	"fieldnote/internal/logging"
	"fieldnote/internal/preflight"
	"fieldnote/internal/server"
	"fieldnote/internal/store"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg, _, _, err := config.Load("")
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

	results := preflight.RunAll(ctx, cfg)
	for _, result := range results {
		if !result.Passed {
			logger.Error("preflight check failed",
				logging.String("check", result.Name),
				logging.String("detail", result.Detail))
		}
	}
	if !preflight.Passed(results) {
		log.Fatal("preflight checks failed; fix the configuration and retry")
	}

	st, err := store.Open(cfg)
	if err != nil {
		logger.Error("open store", logging.Error(err))
		return
	}
	defer st.Close()

	art, err := artifacts.NewStore(cfg.Paths.UploadsDir, logger)
	if err != nil {
		logger.Error("open artifact store", logging.Error(err))
		return
	}

	srv, err := server.New(cfg, st, art, logger)
	if err != nil {
		logger.Error("create server", logging.Error(err))
		return
	}
	if err := srv.Start(ctx); err != nil {
		logger.Error("start server", logging.Error(err))
		return
	}

	<-ctx.Done()
	srv.Stop()
	logger.Info("fieldnoted shutting down")
}
