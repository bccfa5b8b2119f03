package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	router "github.com/avask/greenroom/internal/adapters/http"
	"github.com/avask/greenroom/internal/app"
	"github.com/avask/greenroom/internal/config"
	"github.com/avask/greenroom/internal/store"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// Initialize zerolog global logger early so config.Load can use it.
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	// Human-friendly output for terminal; in production you may want JSON only.
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	zerolog.SetGlobalLevel(zerolog.InfoLevel)

	cfg, err := config.Load()
	if err != nil {
		log.Error().Err(err).Msg("failed to load config")
	}

	gateway := openGateway(cfg)
	defer gateway.Close()

	writer := store.NewAsyncWriter(cfg.PersistQueueSize)
	go writer.Run(ctx)

	coord := app.NewCoordinator(
		app.NewRegistry(),
		app.NewRoomManager(),
		app.SimplePolicy{},
		gateway,
		writer,
	)

	r := router.SetupRouter(ctx, cfg, coord)
	addr := fmt.Sprintf(":%d", cfg.Port)

	srv := &http.Server{
		Addr:    addr,
		Handler: r,
	}

	go func() {
		log.Info().Str("addr", addr).Msg("greenroom server started")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error().Err(err).Msg("server error")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("Shutting down")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}
	log.Info().Msg("Server exited gracefully")
}

func openGateway(cfg *config.Config) store.Gateway {
	switch cfg.Storage.Driver {
	case "postgres":
		gw, err := store.NewPostgresGateway(cfg.Storage.PostgresDSN)
		if err != nil {
			log.Error().Err(err).Msg("postgres unavailable, persistence disabled")
			return store.NoopGateway{}
		}
		return gw
	case "redis":
		gw, err := store.NewRedisGateway(cfg.Storage.RedisAddr)
		if err != nil {
			log.Error().Err(err).Msg("redis unavailable, persistence disabled")
			return store.NoopGateway{}
		}
		return gw
	default:
		log.Info().Msg("running without a persistence store")
		return store.NoopGateway{}
	}
}
