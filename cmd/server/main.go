// Command server runs the timetabling HTTP API: catalog storage, schedule
// runs and schedule exports.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"coursetable/config"
	"coursetable/internal/httpapi"
	"coursetable/internal/scheduler"
	"coursetable/internal/store"
	"coursetable/pkg/logger"
)

func main() {
	configPath := flag.String("config", "", "path to a YAML config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	zapLogger, err := logger.New(cfg.Log)
	if err != nil {
		log.Fatalf("build logger: %v", err)
	}
	defer zapLogger.Sync()

	apiStore, err := store.Open(cfg.Store.Path)
	if err != nil {
		zapLogger.Fatal("open store", zap.String("path", cfg.Store.Path), zap.Error(err))
	}
	defer apiStore.Close()

	gin.SetMode(gin.ReleaseMode)
	engine := scheduler.New(cfg.EngineOptions(), zapLogger)
	router := httpapi.NewRouter(
		httpapi.NewCatalogHandler(apiStore, zapLogger),
		httpapi.NewScheduleHandler(engine, apiStore, zapLogger),
		zapLogger,
	)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		zapLogger.Info("server listening",
			zap.String("addr", server.Addr),
			zap.String("store", cfg.Store.Path))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zapLogger.Fatal("server stopped", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	zapLogger.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		zapLogger.Error("shutdown", zap.Error(err))
	}
}
