package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/hupe1980/agentgate"
	"github.com/hupe1980/agentgate/config"
	"github.com/hupe1980/agentgate/logging"
	"github.com/hupe1980/agentgate/server"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "agentgate: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := logging.NewSlogLogger(logging.ParseLevel(cfg.LogLevel), cfg.LogFormat)

	gate, err := agentgate.New(cfg, func(o *agentgate.Options) {
		o.Logger = logger
	})
	if err != nil {
		return err
	}

	srv := server.New(gate, ":"+cfg.Port, func(o *server.Options) {
		o.RequestTimeout = cfg.RequestTimeout
		o.MetricsEnabled = cfg.MetricsEnabled
		o.Logger = logger
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("starting agentgate", "port", cfg.Port, "llm_provider", cfg.LLMProvider)

	return srv.ListenAndServe(ctx)
}
