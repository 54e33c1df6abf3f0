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
	"golang.org/x/sync/errgroup"

	"github.com/1123antman/battle-super-z/internal/config"
	gamenet "github.com/1123antman/battle-super-z/internal/net"
	"github.com/1123antman/battle-super-z/internal/room"
	"github.com/1123antman/battle-super-z/internal/web"
)

const shutdownTimeout = 5 * time.Second

func main() {
	configPath := flag.String("config", "config.yaml", "path to the YAML config file (optional)")
	addr := flag.String("addr", "", "listen address, overrides server.addr")
	aiDelay := flag.Duration("ai-delay", -1, "AI thinking delay, overrides server.ai_delay")
	decks := flag.String("decks", "", "YAML decks file, overrides game.decks_file")
	dev := flag.Bool("dev", false, "human-readable debug logging")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if *addr != "" {
		cfg.Server.Addr = *addr
	}
	if *aiDelay >= 0 {
		cfg.Server.AIDelay = *aiDelay
	}
	if *decks != "" {
		cfg.Game.DecksFile = *decks
	}
	if *dev {
		cfg.Server.Dev = true
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	logger, err := newLogger(cfg.Server)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("server failed", zap.Error(err))
		os.Exit(1)
	}
}

func newLogger(cfg config.Server) (*zap.Logger, error) {
	if cfg.Dev {
		return zap.NewDevelopment()
	}
	zc := zap.NewProductionConfig()
	if cfg.LogLevel != "" {
		lvl, err := zap.ParseAtomicLevel(cfg.LogLevel)
		if err != nil {
			return nil, err
		}
		zc.Level = lvl
	}
	return zc.Build()
}

func run(ctx context.Context, cfg *config.Config, logger *zap.Logger) error {
	lib, err := cfg.Library()
	if err != nil {
		return fmt.Errorf("load decks: %w", err)
	}
	store := room.NewStore(room.Options{
		Logger:          logger,
		Library:         lib,
		MaxPlayers:      cfg.Server.MaxPlayers,
		DefaultDeckSize: cfg.Game.DefaultDeckSize,
		ReconnectGrace:  cfg.Server.ReconnectGrace,
	})
	hub := gamenet.NewHub(store, logger, cfg.Server.AIDelay)
	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           web.NewServer(hub, logger),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("listening",
			zap.String("addr", cfg.Server.Addr),
			zap.Duration("ai_delay", cfg.Server.AIDelay),
			zap.Strings("presets", lib.PresetNames()),
		)
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down", zap.Int("rooms", store.Len()))
		hub.Close()
		sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(sctx)
	})
	return g.Wait()
}
