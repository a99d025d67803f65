package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"pos_sales/api"
	"pos_sales/internal/auth"
	"pos_sales/internal/catalog"
	"pos_sales/internal/config"
	"pos_sales/internal/customers"
	"pos_sales/internal/finance"
	"pos_sales/internal/gateway"
	"pos_sales/internal/sales"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger := newLogger(cfg)
	defer func() { _ = logger.Sync() }()

	closers := make([]func() error, 0, 2)

	gw := gateway.New(gateway.Config{
		BaseURL:       cfg.BaseURL(),
		Timeout:       cfg.Backend.Timeout,
		RatePerSecond: cfg.Backend.RatePerSecond,
		Burst:         cfg.Backend.Burst,
	}, logger)
	closers = append(closers, gw.Close)
	logger.Info("backend configured", zap.String("url", cfg.BaseURL()), zap.String("env", cfg.App.Env))

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	cacheStore := catalog.Cache(catalog.NoopCache{})
	if cfg.Redis.Addr != "" {
		redisCache := catalog.NewRedisCache(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err := redisCache.Ping(ctx); err != nil {
			logger.Warn("redis unavailable, using noop cache", zap.Error(err))
			_ = redisCache.Close()
		} else {
			cacheStore = redisCache
			closers = append(closers, redisCache.Close)
			logger.Info("catalog cache: redis", zap.String("addr", cfg.Redis.Addr))
		}
	} else {
		logger.Info("catalog cache: noop")
	}
	cancel()

	store := catalog.NewStore(gw, cacheStore, cfg.Redis.CatalogTTL, logger)
	salesService := sales.NewService(sales.NewLocalStorage(), store, gw, logger, cfg.Sales.Compensate)
	if !cfg.Sales.Compensate {
		logger.Warn("sale compensation disabled, failed submissions may leave partial records")
	}

	var verifier *auth.Verifier
	if cfg.Auth.Secret != "" {
		verifier = auth.NewVerifier(cfg.Auth.Secret)
	}

	if !cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	api.InitRoutes(router, api.Dependencies{
		Sales:          salesService,
		Catalog:        store,
		Customers:      customers.NewService(gw, logger),
		Finance:        finance.NewService(gw, logger),
		Verifier:       verifier,
		AuthRequired:   cfg.Auth.Required,
		AllowedOrigins: cfg.CORS.AllowedOrigins,
		Logger:         logger,
	})

	server := &http.Server{
		Addr:              cfg.Address(),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      2 * time.Minute,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		logger.Info("server listening", zap.String("app", cfg.App.Name), zap.String("addr", cfg.Address()))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("error trying to start server", zap.Error(err))
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown error", zap.Error(err))
	}
	for _, closeFn := range closers {
		if err := closeFn(); err != nil {
			logger.Error("close error", zap.Error(err))
		}
	}
	logger.Info("server stopped")
}

func newLogger(cfg *config.Config) *zap.Logger {
	var logger *zap.Logger
	var err error
	if cfg.IsDevelopment() {
		logger, err = zap.NewDevelopment()
	} else {
		logger, err = zap.NewProduction()
	}
	if err != nil {
		panic(err)
	}
	return logger.With(zap.String("app", cfg.App.Name))
}
