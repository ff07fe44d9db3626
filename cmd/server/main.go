package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"math/rand/v2"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/playperu/tunequiz/internal/bank"
	"github.com/playperu/tunequiz/internal/config"
	"github.com/playperu/tunequiz/internal/database"
	"github.com/playperu/tunequiz/internal/definition"
	"github.com/playperu/tunequiz/internal/migrations"
	"github.com/playperu/tunequiz/internal/preload"
	"github.com/playperu/tunequiz/internal/quiz"
	"github.com/playperu/tunequiz/internal/server"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, stdout io.Writer) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger := slog.New(slog.NewJSONHandler(stdout, &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}))

	// --- SQLite question bank ---
	db, err := database.Open(ctx, cfg.DBPath)
	if err != nil {
		return fmt.Errorf("connecting to sqlite: %w", err)
	}
	defer db.Close()

	if err := migrations.Run(db); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}
	logger.Info("connected to sqlite", "path", cfg.DBPath)

	questionBank := bank.New(db)

	// --- Media cache ---
	cache := preload.NewCache()
	fetcher := preload.NewFetcher(cfg.CacheDir, cache, logger)

	// --- Sessions ---
	broker := server.NewBroker()
	reactions := server.NewReactions()
	loader := definition.Loader{Bank: questionBank}
	settings := quiz.Settings{
		StartupDuration:  cfg.StartupDuration,
		VoteDuration:     cfg.VoteDuration,
		WagerDuration:    cfg.WagerDuration,
		QuestionDuration: cfg.QuestionDuration,
		CooldownDuration: cfg.CooldownDuration,
		MaxVoteOptions:   cfg.MaxVoteOptions,
	}

	pool := quiz.NewPool(func(venue string) *quiz.Game {
		sink := server.NewSink(venue, broker, reactions)
		gameLogger := logger.With("venue", venue)
		rng := rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
		return quiz.NewGame(sink, fetcher, loader, settings, gameLogger, rng)
	}, logger)

	// --- HTTP server ---
	srv := server.New(cfg.HTTPAddr, logger, server.Deps{
		Pool:      pool,
		Broker:    broker,
		Reactions: reactions,
		Bank:      questionBank,
		DB:        db,
	})

	// --- Run ---
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("starting http server", "addr", cfg.HTTPAddr)
		return srv.Run(gctx)
	})

	g.Go(func() error {
		logger.Info("starting session clock", "interval", cfg.TickInterval)
		return pool.Run(gctx, cfg.TickInterval)
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down http server")
		return srv.Shutdown(context.Background())
	})

	return g.Wait()
}
