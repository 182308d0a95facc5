package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dgallion1/stylechunk/internal/api"
	"github.com/dgallion1/stylechunk/internal/config"
	"github.com/dgallion1/stylechunk/internal/logging"
	"github.com/dgallion1/stylechunk/internal/pathstore"
	"github.com/dgallion1/stylechunk/internal/pipeline"
	"github.com/dgallion1/stylechunk/internal/score"
	"github.com/dgallion1/stylechunk/internal/stats"
)

func main() {
	boot := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	cfg, err := config.Load()
	if err != nil {
		boot.Error("load configuration", "error", err)
		os.Exit(1)
	}
	log, err := logging.New(os.Stdout, cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		boot.Error("invalid logging configuration", "error", err)
		os.Exit(1)
	}
	if err := cfg.ValidateServer(); err != nil {
		log.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	table, err := score.LoadTable(cfg.ScoreTable)
	if err != nil {
		log.Error("load score table", "path", cfg.ScoreTable, "error", err)
		os.Exit(1)
	}
	scorer, err := score.NewScorer(table)
	if err != nil {
		log.Error("invalid score table", "path", cfg.ScoreTable, "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize the optional pathstore sink.
	var sink *pathstore.Sink
	var ps *pathstore.Client
	if cfg.SinkEnabled() {
		ps = pathstore.NewClient(cfg.PathstoreURL, cfg.PathstoreAPIKey)
		sink = pathstore.NewSink(ps, "stylechunk")
	}

	// Initialize pipeline.
	proc := pipeline.NewProcessor(scorer, cfg.ParserOptions())
	orch := pipeline.NewOrchestrator(cfg, proc, sink, stats.NewWindow(time.Hour), log)
	orch.Start(ctx)

	// Initialize HTTP server.
	srv := api.NewServer(orch, log, cfg)

	httpServer := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      srv,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown.
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		log.Info("shutting down...")

		orch.Stop()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		httpServer.Shutdown(shutdownCtx)

		if ps != nil {
			ps.Close()
		}
	}()

	log.Info("starting stylechunk", "port", cfg.Port, "sink", cfg.SinkEnabled(), "cutoff", cfg.Cutoff, "auto_cutoff", cfg.AutoCutoff)
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Error("server error", "error", err)
		os.Exit(1)
	}
}
