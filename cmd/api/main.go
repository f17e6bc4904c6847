// Package main is the entry point for the Carrylink API server.
// Its sole responsibility is wiring dependencies together and starting the server.
// No business logic belongs here.
package main

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib" // registers "pgx" driver for database/sql
	"github.com/redis/go-redis/v9"

	"github.com/pkordes/carrylink/internal/cache"
	"github.com/pkordes/carrylink/internal/config"
	"github.com/pkordes/carrylink/internal/events"
	"github.com/pkordes/carrylink/internal/handler"
	"github.com/pkordes/carrylink/internal/matching"
	"github.com/pkordes/carrylink/internal/middleware"
	"github.com/pkordes/carrylink/internal/repo"
	"github.com/pkordes/carrylink/internal/service"
	"github.com/pkordes/carrylink/migrations"
	"github.com/pkordes/carrylink/spec"
)

func main() {
	// --- Config -----------------------------------------------------------
	cfg, err := config.Load()
	if err != nil {
		// Use plain stderr before the logger is configured.
		slog.Error("configuration error", "error", err)
		os.Exit(1)
	}

	// --- Logger -----------------------------------------------------------
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.SlogLevel(),
	}))
	slog.SetDefault(logger)

	ctx := context.Background()

	// --- Database ---------------------------------------------------------
	if cfg.MigrateOnStart {
		if err := migrate(ctx, cfg.DatabaseURL); err != nil {
			slog.Error("failed to apply migrations", "error", err)
			os.Exit(1)
		}
	}

	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		slog.Error("failed to create database pool", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	// Verify the DB is reachable before accepting traffic.
	if err := pool.Ping(ctx); err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	slog.Info("database connection established")

	// --- Matching ---------------------------------------------------------
	regions := matching.MustDefaultRegionTable()
	if cfg.Matching.RegionsFile != "" {
		regions, err = matching.LoadRegionTable(cfg.Matching.RegionsFile)
		if err != nil {
			slog.Error("failed to load region table", "error", err, "path", cfg.Matching.RegionsFile)
			os.Exit(1)
		}
	}
	classifier := matching.NewClassifier(regions, cfg.Matching.DateThresholdDays)
	slog.Info("classifier ready",
		"regions", len(regions.Regions()),
		"date_threshold_days", classifier.Threshold(),
	)

	// --- Repositories, cache and events -------------------------------------
	trips := repo.NewTripRepo(pool)
	matches := repo.NewMatchRepo(pool)
	var requests repo.ShipmentRequestRepo = repo.NewShipmentRequestRepo(pool)
	var notifier events.Notifier = events.NewLogNotifier(logger)

	if cfg.RedisURL != "" {
		rdb, err := newRedis(ctx, cfg.RedisURL)
		if err != nil {
			slog.Error("failed to connect to redis", "error", err)
			os.Exit(1)
		}
		defer rdb.Close()

		cached := cache.NewShipmentRequests(requests, rdb, cfg.CacheTTL, logger)
		requests = cached
		notifier = events.Fanout{
			events.NewLogNotifier(logger),
			events.NewRedisPublisher(rdb, events.DefaultChannel),
			// A completed match closes its request, which drops it from
			// every cached open listing.
			events.NotifierFunc(func(ctx context.Context, e events.Event) error {
				if e.Type != events.MatchCompleted {
					return nil
				}
				return cached.Invalidate(ctx)
			}),
		}
		slog.Info("redis enabled", "cache_ttl", cfg.CacheTTL.String(), "channel", events.DefaultChannel)
	}

	// --- Services ---------------------------------------------------------
	retry := service.RetryPolicy{Attempts: cfg.ReadRetryAttempts, Base: service.DefaultRetryPolicy().Base}

	tripSvc := service.NewTripService(trips, matches, regions, retry)
	shipmentSvc := service.NewShipmentService(requests, regions, retry)
	matchSvc := service.NewMatchService(service.MatchServiceDeps{
		Trips:      trips,
		Requests:   requests,
		Matches:    matches,
		Classifier: classifier,
		Notifier:   notifier,
		Logger:     logger,
		Retry:      retry,
	})

	// --- Router -----------------------------------------------------------
	// Middleware is applied in order: RequestID → RealIP → CORS → MaxBodySize
	// → Actor → Logger → Recoverer. The actor runs before the logger so every
	// request line carries the acting user.
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.NewCORSHandler(cfg.CORSOrigins))
	r.Use(middleware.NewMaxBodySizeHandler(cfg.MaxBodyBytes))
	r.Use(middleware.NewActorHandler())
	r.Use(middleware.NewSlogLogger(logger))
	r.Use(chimiddleware.Recoverer)

	r.Get("/openapi.yaml", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/yaml")
		_, _ = w.Write(spec.OpenAPI)
	})
	handler.NewServer(tripSvc, shipmentSvc, matchSvc).Register(r)

	// --- HTTP Server ------------------------------------------------------
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown: wait for OS signal, then give in-flight requests
	// up to 15 seconds to complete before forcefully closing.
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		slog.Info("server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-stop
	slog.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("shutdown error", "error", err)
		os.Exit(1)
	}
	slog.Info("server stopped")
}

// migrate applies pending goose migrations over a short-lived database/sql
// connection, which goose requires.
func migrate(ctx context.Context, dsn string) error {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return err
	}
	defer db.Close()

	results, err := migrations.Up(ctx, db)
	if err != nil {
		return err
	}
	slog.Info("migrations applied", "count", len(results))
	return nil
}

func newRedis(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, err
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, err
	}
	return client, nil
}
