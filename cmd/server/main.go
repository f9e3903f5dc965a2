package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"calmspot/config"
	"calmspot/internal/calm"
	"calmspot/internal/database"
	"calmspot/internal/observability"
	"calmspot/internal/repository"
	"calmspot/internal/router"
	"calmspot/pkg/cloudinary"
	"calmspot/pkg/logx"
	"calmspot/pkg/overpass"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("config", logx.Error(err))
		os.Exit(1)
	}
	logger := logx.New(os.Stderr, cfg.Log.Level, cfg.Log.NoColor)
	slog.SetDefault(logger)

	db, err := database.NewDB(&cfg.Database)
	if err != nil {
		fatal("database", err)
	}
	if err := database.AutoMigrate(db); err != nil {
		fatal("migrate", err)
	}
	if err := database.Seed(db, &cfg.Admin); err != nil {
		fatal("seed", err)
	}

	metrics := observability.NewMetrics()
	locator := calm.NewCachedLocator(
		calm.NewOverpassLocator(overpass.NewClient(cfg.Overpass.URL, cfg.Overpass.Timeout), metrics, logger),
		cfg.Overpass.CacheTTL,
		metrics,
	)
	calc := calm.NewCalculator(repository.NewNoiseCategoryRepository(db), locator,
		calm.WithLogger(logger),
		calm.WithMetrics(metrics),
		calm.WithProjector(calm.UTM(cfg.Calm.UTMZone)),
		calm.WithDefaultRadius(cfg.Calm.SearchRadiusMeters),
	)
	loadCtx, cancelLoad := context.WithTimeout(context.Background(), 10*time.Second)
	err = calc.LoadCategoryConfig(loadCtx)
	cancelLoad()
	if err != nil {
		fatal("noise categories", err)
	}

	var cloud cloudinary.Client
	if cfg.CloudinaryEnabled() {
		cloud, err = cloudinary.NewClientFromParams(cfg.Cloudinary.CloudName, cfg.Cloudinary.APIKey, cfg.Cloudinary.APISecret)
		if err != nil {
			fatal("cloudinary", err)
		}
		logger.Info("image uploads enabled", "folder", cfg.Cloudinary.Folder)
	} else {
		logger.Warn("image uploads disabled: set CLOUDINARY_CLOUD_NAME, CLOUDINARY_API_KEY and CLOUDINARY_API_SECRET to enable")
	}

	appCtx, stopApp := context.WithCancel(context.Background())
	defer stopApp()
	engine := router.Setup(appCtx, cfg, db, calc, cloud, logger)
	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      engine,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}
	go func() {
		logger.Info("server listening", "port", cfg.Server.Port, "env", cfg.Server.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			fatal("listen", err)
		}
	}()
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down")
	stopApp()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server shutdown", logx.Error(err))
	}
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
	logger.Info("server stopped")
}

func fatal(msg string, err error) {
	slog.Error(msg, logx.Error(err))
	os.Exit(1)
}
