package main

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	_ "github.com/go-sql-driver/mysql"
	"go.uber.org/zap"

	"github.com/ndquoc/inventory-api/internal/adapter/events"
	"github.com/ndquoc/inventory-api/internal/adapter/handler"
	"github.com/ndquoc/inventory-api/internal/adapter/storage"
	"github.com/ndquoc/inventory-api/internal/config"
	"github.com/ndquoc/inventory-api/internal/core/service"
)

func main() {
	cfg := config.Load()

	logger, err := newLogger(cfg.LogMode)
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer logger.Sync()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// MySQL
	db, err := sql.Open("mysql", cfg.MySQLDSN)
	if err != nil {
		logger.Fatal("failed to open mysql", zap.Error(err))
	}
	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	if err := db.PingContext(ctx); err != nil {
		logger.Fatal("failed to ping mysql", zap.Error(err))
	}
	logger.Info("connected to mysql")

	store := storage.NewMySQLStore(db)
	if err := store.InitSchema(ctx); err != nil {
		logger.Fatal("failed to initialize schema", zap.Error(err))
	}
	logger.Info("database schema ready")

	// Wiring
	publisher := events.NewLocalPublisher(store, logger)
	inventoryService := service.NewInventoryService(store, store, publisher, logger)
	httpHandler := handler.NewHTTPHandler(inventoryService)
	router := handler.NewRouter(httpHandler, logger, cfg.CORSOrigins)

	httpServer := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: router,
	}

	go func() {
		logger.Info("HTTP server listening", zap.String("addr", cfg.HTTPAddr))
		if err := httpServer.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			logger.Error("HTTP server error", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer shutdownCancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server shutdown error", zap.Error(err))
	}
	logger.Info("HTTP server stopped")

	db.Close()
	logger.Info("connections closed")
}

func newLogger(mode string) (*zap.Logger, error) {
	switch strings.ToLower(mode) {
	case "prod", "production":
		return zap.NewProduction()
	default:
		return zap.NewDevelopment()
	}
}
