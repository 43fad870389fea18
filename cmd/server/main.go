package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/framesync/framesync/internal/auth"
	"github.com/framesync/framesync/internal/config"
	httpHandler "github.com/framesync/framesync/internal/delivery/http"
	"github.com/framesync/framesync/internal/delivery/ws"
	"github.com/framesync/framesync/internal/logger"
	"github.com/framesync/framesync/internal/middleware"
	"github.com/framesync/framesync/internal/repository"
)

func main() {
	// Load .env file (ignore error if not exists, e.g. in production)
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		l := logger.L()
		l.Fatal().Err(err).Msg("failed to load config")
	}

	logger.Init(cfg.Log)
	log := logger.L()

	db, err := repository.Open(cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	if err := repository.AutoMigrate(db); err != nil {
		log.Fatal().Err(err).Msg("failed to auto-migrate")
	}
	log.Info().Str("driver", cfg.Database.Driver).Msg("database ready")

	users := repository.NewGormUserRepository(db)
	resolver := auth.NewResolver(cfg.Auth.JWTSecret, users, log)

	hub := ws.NewHub(ws.Deps{
		Resolver:       resolver,
		Friends:        repository.NewGormFriendRepository(db),
		Rooms:          repository.NewGormRoomRepository(db),
		Stats:          repository.NewGormStatsRepository(db),
		PersistTimeout: cfg.Sync.PersistTimeout,
		DriftInterval:  cfg.Sync.DriftInterval,
		MaxMessageSize: cfg.WebSocket.MaxMessageSize,
		Log:            log,
	})
	go hub.Run()

	handler := httpHandler.NewHandler(hub, cfg.Server.Origins(), log)
	wsLimiter := middleware.NewIPRateLimiter(rate.Limit(cfg.RateLimit.WS), cfg.RateLimit.WS*2)
	apiLimiter := middleware.NewIPRateLimiter(rate.Limit(cfg.RateLimit.API), cfg.RateLimit.API*2)

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", middleware.RateLimitFunc(wsLimiter, handler.HandleWebSocket))
	mux.HandleFunc("/healthz", middleware.RateLimitFunc(apiLimiter, handler.HandleHealth))

	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      middleware.SecurityHeaders(mux),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info().Str("port", cfg.Server.Port).Msg("framesync server running")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		err := hub.RunDriftPulse(gctx)
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	})

	g.Go(func() error {
		<-gctx.Done()
		log.Info().Msg("shutting down server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Fatal().Err(err).Msg("server exited with error")
	}
	log.Info().Msg("server exited gracefully")
}
