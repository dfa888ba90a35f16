// Package main is the entry point for the recommendation API server.
package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/debbielamxy/WanderTogether/internal/api"
	"github.com/debbielamxy/WanderTogether/internal/config"
	"github.com/debbielamxy/WanderTogether/internal/health"
	"github.com/debbielamxy/WanderTogether/internal/journey"
	"github.com/debbielamxy/WanderTogether/internal/match"
	"github.com/debbielamxy/WanderTogether/internal/middleware"
	"github.com/debbielamxy/WanderTogether/internal/profile"
)

func main() {
	help := flag.Bool("help", false, "display help message")
	configFile := flag.String("config", "", "path to optional YAML config file")
	flag.Parse()

	if *help {
		fmt.Println("WanderTogether API Server")
		fmt.Println()
		fmt.Println("Usage: api [options]")
		fmt.Println()
		fmt.Println("Options:")
		flag.PrintDefaults()
		os.Exit(0)
	}

	cfg, errs := config.Load(*configFile)
	if len(errs) > 0 {
		for _, err := range errs {
			fmt.Fprintln(os.Stderr, "config:", err)
		}
		os.Exit(1)
	}

	logger := middleware.NewLogger(cfg.Env)
	slog.SetDefault(logger)
	logger.Info("configuration loaded", "config", cfg.LogSummary())

	// Database
	db, err := sql.Open("postgres", cfg.DatabaseURL)
	if err != nil {
		logger.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer db.Close()
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	pingCtx, cancelPing := context.WithTimeout(context.Background(), 5*time.Second)
	if err := db.PingContext(pingCtx); err != nil {
		logger.Warn("database not reachable at startup", "error", err)
	}
	cancelPing()

	profiles := profile.NewPostgresRepository(db, logger)
	journeys := journey.NewPostgresRepository(db, logger)

	// Redis is optional: without it the candidate pool is read straight
	// from Postgres on every ranking call.
	var redisClient *redis.Client
	var pool api.PoolSource = profiles
	if cfg.RedisAddr != "" {
		redisClient = redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		defer redisClient.Close()
		ttl := time.Duration(cfg.SnapshotTTLSeconds) * time.Second
		pool = profile.NewSnapshotCache(redisClient, profiles, ttl, logger)
		logger.Info("profile snapshot cache enabled", "addr", cfg.RedisAddr, "ttl", ttl)
	}

	// Ranking strategy
	strategy, err := match.PresetByName(cfg.Strategy)
	if err != nil {
		logger.Error("unknown strategy", "error", err)
		os.Exit(1)
	}
	if strategy.Gate != nil {
		strategy.Gate = &match.TrustGate{Threshold: cfg.GateThreshold}
	}

	weights, err := match.LoadCalibration(cfg.CalibrationPath, strategy.Weights)
	if err != nil {
		logger.Error("failed to load weight calibration", "error", err, "path", cfg.CalibrationPath)
		os.Exit(1)
	}

	// Metrics
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	httpMetrics := middleware.NewMetrics()
	if err := httpMetrics.Register(registry); err != nil {
		logger.Error("failed to register HTTP metrics", "error", err)
		os.Exit(1)
	}
	rankMetrics := match.NewMetrics()
	if err := rankMetrics.Register(registry); err != nil {
		logger.Error("failed to register ranking metrics", "error", err)
		os.Exit(1)
	}

	// Handlers and routes
	handlers := api.NewHandlers(api.HandlersConfig{
		Strategy: strategy,
		Weights:  weights,
		TopK:     cfg.TopK,
		Metrics:  rankMetrics,
		Pool:     pool,
		Journeys: journeys,
		Logger:   logger,
	})

	healthConfig := api.HealthHandlersConfig{
		DBChecker: health.NewDBChecker(db),
	}
	if redisClient != nil {
		healthConfig.RedisChecker = health.NewRedisChecker(redisClient)
	}
	healthHandlers := api.NewHealthHandlers(healthConfig)

	mux := http.NewServeMux()
	handlers.Routes(mux)
	mux.HandleFunc("/health", healthHandlers.Health)
	mux.HandleFunc("/ready", healthHandlers.Ready)
	mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))

	// Apply middleware: RequestID -> Logging -> HTTPMetrics
	handler := middleware.RequestID(middleware.Logging(logger)(middleware.HTTPMetrics(httpMetrics)(mux)))

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		logger.Info("starting server", "port", cfg.Port, "strategy", strategy.Name)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	logger.Info("server stopped")
}
