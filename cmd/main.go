package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"revere/internal/app/registry"
	"revere/internal/app/server"
	"revere/internal/config"
	"revere/internal/core/contracts"
	"revere/internal/core/domain"
	"revere/internal/core/services"
	"revere/internal/platform/logger"
	"revere/internal/platform/telemetry"
	"revere/internal/plugins/memory"
	"revere/internal/plugins/postgres"
	redisPlugin "revere/internal/plugins/redis"
	"syscall"
	"time"
)

// backend is the set of adapters the core services run on.
type backend struct {
	threads  domain.ThreadRepository
	messages domain.MessageRepository
	profiles domain.ProfileRepository
	cache    contracts.ProfileCache
	notifier contracts.ChangeNotifier
	closers  []func() error
}

func (b *backend) close(log *slog.Logger) {
	for i := len(b.closers) - 1; i >= 0; i-- {
		if err := b.closers[i](); err != nil {
			log.Warn("backend - close - failed", "err", err)
		}
	}
}

func main() {
	// Context
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Config
	cfg := config.Load()

	// Logger
	log := logger.NewLogger(*cfg)
	log.Info("starting application", "backend", cfg.Messaging.Backend)

	if cfg.SecretToken == "" {
		log.Error("JWT_SECRET is not set")
		return
	}

	otelShutdown, err := telemetry.InitTelemetry(ctx, *cfg)
	if err != nil {
		log.Error("failed to initialize telemetry", "err", err)
	}
	defer func() {
		log.Info("flushing telemetry...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if otelShutdown == nil {
			return
		}
		if err := otelShutdown(shutdownCtx); err != nil {
			log.Error("telemetry shutdown failed", "err", err)
		}
	}()

	// Infra
	be, err := newBackend(ctx, log, cfg)
	if err != nil {
		log.Error("backend init failed", "err", err)
		return
	}
	defer be.close(log)

	// Core Services
	threadSvc := services.NewThreadService(log, be.threads, be.notifier)
	messageSvc := services.NewMessageService(log, be.messages, threadSvc, be.notifier)
	inboxSvc := services.NewInboxService(log, threadSvc, be.notifier)
	profileSvc := services.NewProfileService(log, be.profiles, be.cache, cfg.Messaging.ProfileCacheTTL)
	messenger := services.NewMessenger(log, threadSvc, messageSvc, inboxSvc, profileSvc, cfg.Messaging.OpTimeout)
	tokenSvc := services.NewTokenService(cfg.SecretToken)

	// Server
	hub := registry.NewRegistry()
	srv := server.NewServer(log, *cfg, tokenSvc, messenger, hub)
	errCh := make(chan error, 1)
	go func() { errCh <- srv.Start() }()

	select {
	case <-ctx.Done():
		log.Info("shutdown signal received")
	case err := <-errCh:
		if err != nil {
			log.Error("server stopped", "err", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("server shutdown failed", "err", err)
	}
	log.Info("server stopped")
}

func newBackend(ctx context.Context, log *slog.Logger, cfg *config.Config) (*backend, error) {
	switch cfg.Messaging.Backend {
	case config.BackendMemory:
		log.Warn("memory backend selected: state is lost on restart and not shared between nodes")
		return newMemoryBackend(), nil

	case config.BackendPostgres:
		pdb, err := postgres.New(ctx, *cfg.Postgres)
		if err != nil {
			return nil, fmt.Errorf("postgres: %w", err)
		}
		log.Info("postgres connected")
		rdb, err := redisPlugin.NewRedisClient(ctx, *cfg.Redis)
		if err != nil {
			pdb.Close()
			return nil, fmt.Errorf("redis: %w", err)
		}
		log.Info("redis connected")

		txManager := postgres.NewTxManager(pdb)
		notifier := redisPlugin.NewNotifier(ctx, log, rdb)
		return &backend{
			threads:  postgres.NewThreadRepo(pdb, txManager),
			messages: postgres.NewMessageRepo(pdb),
			profiles: postgres.NewUserRepository(pdb),
			cache:    redisPlugin.NewProfileCache(rdb),
			notifier: notifier,
			closers:  []func() error{pdb.Close, rdb.Close, notifier.Close},
		}, nil
	}
	return nil, fmt.Errorf("unknown messaging backend %q", cfg.Messaging.Backend)
}

// newMemoryBackend shares one Profiles as profile source and cache. It starts
// empty, so lookups fall back to the default display name until profiles are
// stored with Put.
func newMemoryBackend() *backend {
	store := memory.NewStore()
	profiles := memory.NewProfiles()
	return &backend{
		threads:  store,
		messages: store,
		profiles: memory.ProfileSource{Profiles: profiles},
		cache:    profiles,
		notifier: memory.NewNotifier(),
	}
}
