package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Dan9191/deposit-service/internal/config"
	"github.com/Dan9191/deposit-service/internal/handler"
	"github.com/Dan9191/deposit-service/internal/integrations/cbr"
	"github.com/Dan9191/deposit-service/internal/middleware"
	"github.com/Dan9191/deposit-service/internal/repository"
	"github.com/Dan9191/deposit-service/internal/selector"
	"github.com/Dan9191/deposit-service/internal/service"
	"github.com/Dan9191/deposit-service/internal/tool"
	"github.com/Dan9191/deposit-service/internal/utils/email"
	_ "github.com/lib/pq"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

func main() {
	// Load configuration
	cfg, err := config.NewConfig()
	if err != nil {
		logrus.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logLevel, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		logLevel = logrus.InfoLevel
	}
	logger.SetLevel(logLevel)

	// Catalog source
	var catalog repository.CatalogSource
	switch cfg.CatalogSource {
	case config.CatalogSourcePostgres:
		db, err := sql.Open("postgres", cfg.DBConn)
		if err != nil {
			logger.Fatalf("Failed to connect to database: %v", err)
		}
		defer db.Close()
		if err := db.Ping(); err != nil {
			logger.Fatalf("Failed to ping database: %v", err)
		}
		catalog = repository.NewPostgresCatalog(db)
	default:
		catalog = repository.NewCSVCatalog(cfg.CatalogPath)
	}

	policy, err := selector.PolicyByName(cfg.TermPolicy)
	if err != nil {
		logger.Fatalf("Invalid TERM_POLICY: %v", err)
	}
	sel := selector.New(selector.WithTermPolicy(policy), selector.WithSelectionIndex(cfg.SelectionIndex))
	logger.Infof("Deposit selector: term policy %s, selection index %d", policy.Name(), sel.Index())

	// Key rate cache
	var cache repository.CacheRepository = repository.NewMemoryCache()
	if cfg.RedisAddr != "" {
		redisCache := repository.NewRedisCache(cfg.RedisAddr)
		defer redisCache.Close()
		cache = redisCache
	}

	// Initialize layers
	sender := email.NewSender(cfg, logger)
	deposits := service.NewDepositService(catalog, sel, sender, logger)
	rates := service.NewRateService(cbr.NewClient(cfg.CBRURL, logger), cache, logger)
	auth := service.NewAuthService(cfg.OperatorUser, cfg.OperatorPasswordHash, cfg.JWTSecret)
	if cfg.OperatorPasswordHash == "" {
		logger.Warn("OPERATOR_PASSWORD_HASH is empty, operator login is disabled")
	}

	tools := tool.NewRegistry()
	tools.Register(tool.NewChooseDepositTool(deposits))

	scheduler := cron.New()
	if _, err := rates.ScheduleRefresh(scheduler, cfg.KeyRateRefresh); err != nil {
		logger.Fatalf("Failed to schedule key rate refresh: %v", err)
	}
	scheduler.Start()
	defer scheduler.Stop()

	h := handler.NewHandler(tools, rates, deposits, auth, logger)
	r := handler.NewRouter(h, middleware.AuthMiddleware(auth), middleware.RequestLogger(logger))

	// Start server
	addr := fmt.Sprintf(":%s", cfg.Port)
	server := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Infof("Starting server on %s", addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErr:
		logger.Fatalf("Server failed: %v", err)
	case <-quit:
		logger.Info("Shutting down server...")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Errorf("Error during server shutdown: %v", err)
	}
}
