// Package main is the entry point for the rentware API server.
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"rentware/internal/config"
	"rentware/internal/domain/auth"
	v1 "rentware/internal/infrastructure/http/v1"
	"rentware/internal/infrastructure/storage/postgres"
	"rentware/pkg/codegen"
	"rentware/pkg/logger"
)

var version = "dev"

func main() {
	configPath := flag.String("config", "", "path to config file (optional)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(logger.Config{
		Level:       cfg.App.LogLevel,
		Development: cfg.App.Env == "development",
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "init logger: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()
	log.Infow("starting rentware server", "version", version, "env", cfg.App.Env)

	poolCfg := postgres.DefaultPoolConfig(cfg.Postgres.DSN)
	if cfg.Postgres.MaxConns > 0 {
		poolCfg.MaxConns = cfg.Postgres.MaxConns
	}
	if cfg.Postgres.MinConns > 0 {
		poolCfg.MinConns = cfg.Postgres.MinConns
	}
	pool, err := postgres.NewPool(ctx, poolCfg)
	if err != nil {
		log.Fatalw("connect to database", "error", err)
	}
	defer pool.Close()
	log.Info("database connection established")

	statsCtx, stopStats := context.WithCancel(logger.WithLogger(ctx, log))
	defer stopStats()
	go func() {
		ticker := time.NewTicker(5 * time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-statsCtx.Done():
				return
			case <-ticker.C:
				postgres.LogPoolStats(statsCtx, pool.Unwrap())
			}
		}
	}()

	txManager := postgres.NewTxManager(pool)

	jwtConfig := auth.DefaultJWTConfig(cfg.JWT.Secret)
	if cfg.JWT.TTL > 0 {
		jwtConfig.AccessTokenTTL = cfg.JWT.TTL
	}
	jwtService := auth.NewJWTService(jwtConfig)

	codes := codegen.New(pool.Unwrap())

	router := v1.NewRouter(v1.RouterConfig{
		Pool:       pool,
		TxManager:  txManager,
		Logger:     log,
		JWTService: jwtService,
		AuthConfig: auth.DefaultServiceConfig(),
		Codes:      codes,
		Version:    version,
	})

	server := &http.Server{
		Addr:         cfg.HTTP.Addr,
		Handler:      router,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
	}

	go func() {
		log.Infow("server listening", "addr", cfg.HTTP.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalw("server failed", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalw("forced shutdown", "error", err)
	}

	log.Info("server stopped")
}
