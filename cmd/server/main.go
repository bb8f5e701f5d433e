package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"studio8/config"
	"studio8/internal/database"
	"studio8/internal/logging"
	"studio8/internal/middleware"
	"studio8/internal/router"
	"studio8/internal/service"
	"studio8/pkg/cloudinary"
)

func main() {
	cfg := config.Load()
	logger := logging.New(cfg.Server.Env, cfg.Log.Level)

	db, err := database.NewDB(&cfg.Database)
	if err != nil {
		logger.WithError(err).Fatal("database")
	}
	if err := database.AutoMigrate(db); err != nil {
		logger.WithError(err).Fatal("migrate")
	}
	if err := database.RunMigrations(context.Background(), db, cfg.Database.MigrationsDir, cfg.Admin); err != nil {
		logger.WithError(err).Fatal("seed migrations")
	}

	var cloud cloudinary.Uploader
	if cfg.Cloudinary.Configured() {
		cloud, err = cloudinary.NewUploader(cfg.Cloudinary.CloudName, cfg.Cloudinary.APIKey, cfg.Cloudinary.APISecret)
		if err != nil {
			logger.WithError(err).Fatal("cloudinary")
		}
	} else {
		logger.Warn("cloudinary not configured, uploads disabled")
	}

	fcm := service.NewFCMService(context.Background(), cfg.Firebase.ServiceAccountPath, logger)
	if fcm == nil {
		logger.Info("FCM push notifications disabled")
	} else {
		logger.Info("FCM push notifications enabled")
	}

	limiter := middleware.NewIPRateLimiter(cfg.Server.PublicRateLimit)
	stop := make(chan struct{})
	go limiter.Run(stop)

	app := router.Setup(cfg, db, router.Deps{Log: logger, Cloud: cloud, FCM: fcm, Limiter: limiter})
	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      app.Engine,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}
	go func() {
		logger.WithField("port", cfg.Server.Port).Info("server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.WithError(err).Fatal("listen")
		}
	}()
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down...")
	close(stop)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.WithError(err).Fatal("server shutdown")
	}
	app.Notifier.Wait()
	logger.Info("server stopped")
}
