package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/dfryer1193/inkwell/blog/application"
	"github.com/dfryer1193/inkwell/blog/persistence"
	"github.com/dfryer1193/inkwell/blog/storage"
	"github.com/dfryer1193/inkwell/internal/config"
	"github.com/dfryer1193/inkwell/internal/middleware"
	"github.com/dfryer1193/inkwell/internal/rest"
	"github.com/dfryer1193/inkwell/shared/db/sqlite"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const shutdownTimeout = 5 * time.Second

func main() {
	configPath := flag.String("config", "", "path to config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load config")
	}

	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		log.Fatal().Err(err).Str("level", cfg.LogLevel).Msg("Invalid log level")
	}
	zerolog.SetGlobalLevel(level)

	// Initialize dependencies
	database := sqlite.NewSQLiteDB(&sqlite.SQLiteConfig{Path: cfg.DatabasePath})
	if err := database.Connect(); err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer func() {
		if err := database.Close(); err != nil {
			log.Error().Err(err).Msg("Failed to close database")
		}
	}()

	imageStore := storage.NewDiskStore(cfg.ImageDir, cfg.MaxUploadBytes)

	postRepo := persistence.NewPostRepository(database.DB())
	subscriberRepo := persistence.NewSubscriberRepository(database.DB())
	postService := application.NewPostService(database.DB(), postRepo, imageStore)

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(middleware.RequestLog())
	r.Use(gin.CustomRecovery(middleware.HandlePanics()))

	rest.NewApi(
		r,
		rest.NewPostHandler(postService, cfg.MaxUploadBytes),
		rest.NewSubscriberHandler(subscriberRepo),
		imageStore.Dir(),
		func(ctx context.Context) error { return database.DB().PingContext(ctx) },
	)

	srv := &http.Server{
		Addr:    cfg.ListenAddr,
		Handler: r,
	}

	go func() {
		log.Info().Str("addr", cfg.ListenAddr).Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt)
	<-quit

	log.Info().Msg("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("Failed to shutdown server")
	}

	log.Info().Msg("Server stopped")
}
