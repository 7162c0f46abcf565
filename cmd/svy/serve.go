package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"github.com/surveyorhq/surveyor/internal/chat"
	"github.com/surveyorhq/surveyor/internal/config"
	"github.com/surveyorhq/surveyor/internal/db"
	"github.com/surveyorhq/surveyor/internal/gateway"
	"github.com/surveyorhq/surveyor/internal/inspection"
	"github.com/surveyorhq/surveyor/internal/metrics"
	"github.com/surveyorhq/surveyor/internal/session"
)

func newServeCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the inspection chat engine",
		Long:  "Starts the webhook gateway and the chat engine, and blocks until interrupted.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, configPath)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "surveyor.yaml", "path to Surveyor config file")
	return cmd
}

func runServe(cmd *cobra.Command, configPath string) error {
	out := cmd.OutOrStdout()

	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	gormDB, err := db.Connect(cfg.Database)
	if err != nil {
		return fmt.Errorf("connect to %s: %w", cfg.Database.Database, err)
	}
	fmt.Fprintf(out, "Connected to %s:%d/%s\n", cfg.Database.Host, cfg.Database.Port, cfg.Database.Database)

	store, err := inspection.NewStore(gormDB)
	if err != nil {
		return err
	}

	sessions, err := session.NewRedisStore(session.RedisStoreOpts{
		Addr:   cfg.Redis.Addr,
		Prefix: cfg.Redis.Prefix,
	})
	if err != nil {
		return err
	}
	defer sessions.Close()

	merger, err := session.NewMerger(session.MergerOpts{
		Store: sessions,
		TTL:   time.Duration(cfg.Redis.SessionTTLSec) * time.Second,
	})
	if err != nil {
		return err
	}

	registry := prometheus.NewRegistry()
	recorder := metrics.NewRecorder(registry)

	adapter, err := gateway.New(gateway.Opts{
		Config:   cfg.Gateway,
		Registry: registry,
		Out:      out,
	})
	if err != nil {
		return err
	}

	engine, err := chat.NewEngine(chat.EngineOpts{
		Adapter:  adapter,
		Merger:   merger,
		Store:    store,
		Config:   cfg,
		Recorder: recorder,
		Out:      out,
	})
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	// Handle OS signals for graceful shutdown.
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		cancel()
	}()

	if err := engine.Run(ctx); err != nil && err != context.Canceled {
		return err
	}
	return nil
}
