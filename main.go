package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"puzzletrainer/internal/config"
	"puzzletrainer/internal/engine"
	"puzzletrainer/internal/handlers"
	"puzzletrainer/internal/logging"
	"puzzletrainer/internal/puzzle"
	"puzzletrainer/internal/storage"
	"puzzletrainer/internal/templates"
	"puzzletrainer/internal/trainer"
	"puzzletrainer/web"
)

func main() {
	cfg, err := config.Load(os.Args[1:], os.Getenv)
	if errors.Is(err, flag.ErrHelp) {
		return
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	if err := logging.Init(cfg.Debug); err != nil {
		fmt.Fprintln(os.Stderr, "logger:", err)
		os.Exit(1)
	}
	defer logging.Sync()
	log := logging.L()

	templates.SetCommit(commit)

	list, err := loadPuzzles(cfg)
	if err != nil {
		var fe *puzzle.FetchError
		if errors.As(err, &fe) {
			log.Error("puzzle list unavailable", zap.String("source", fe.Source), zap.Int("status", fe.Status), zap.Error(fe.Err))
		} else {
			log.Error("puzzle list unusable", zap.Error(err))
		}
		os.Exit(1)
	}

	hub, err := trainer.NewHub(list, trainer.Options{
		RevertDelay: cfg.RevertDelay,
		IdleTTL:     cfg.IdleTTL,
	})
	if err != nil {
		log.Error("hub", zap.Error(err))
		os.Exit(1)
	}
	defer hub.Stop()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var eng *engine.Worker
	if cfg.EngineBin != "" {
		eng = engine.Start(ctx, cfg.EngineBin, nil)
		defer eng.Close()
		go func() {
			if err := eng.Wait(ctx); err != nil && !errors.Is(err, context.Canceled) {
				log.Warn("engine unavailable", zap.String("path", cfg.EngineBin), zap.Error(err))
			}
		}()
	}

	h := handlers.NewHandler(hub)
	h.Engine = eng
	mux := http.NewServeMux()
	h.Register(mux)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           handlers.LogRequests(mux),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	log.Info("puzzle trainer listening",
		zap.String("addr", cfg.Addr),
		zap.Int("puzzles", len(list)),
		zap.String("commit", commit),
		zap.String("built", buildDate),
	)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Error("server", zap.Error(err))
		os.Exit(1)
	}
}

// loadPuzzles reads the list from the configured source, going through
// Postgres when a DSN is set.
func loadPuzzles(cfg config.Config) ([]puzzle.Puzzle, error) {
	ctx, cancel := context.WithTimeout(context.Background(), cfg.FetchTimeout)
	defer cancel()

	var src puzzle.Source = puzzle.BytesSource{Name: "embedded", Data: web.DefaultPuzzles}
	if cfg.PuzzleSource != "" {
		src = puzzle.SourceFor(cfg.PuzzleSource, &http.Client{Timeout: cfg.FetchTimeout})
	}

	if cfg.DSN != "" {
		db, err := storage.New(cfg.DSN)
		if err != nil {
			return nil, err
		}
		st := storage.NewStore(db)
		seeded, err := st.SeedIfEmpty(ctx, src)
		if err != nil {
			return nil, err
		}
		if seeded {
			logging.L().Info("seeded puzzle table")
		}
		src = st
	}

	store, err := puzzle.LoadStore(ctx, src)
	if err != nil {
		return nil, err
	}
	return store.All(), nil
}
