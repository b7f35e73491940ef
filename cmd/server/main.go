package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/Skotchmaster/movie_catalog/internal/config"
	"github.com/Skotchmaster/movie_catalog/internal/es"
	"github.com/Skotchmaster/movie_catalog/internal/handlers"
	"github.com/Skotchmaster/movie_catalog/internal/logging"
	loggingmw "github.com/Skotchmaster/movie_catalog/internal/middleware/logging"
	"github.com/Skotchmaster/movie_catalog/internal/mykafka"
	httpserver "github.com/Skotchmaster/movie_catalog/internal/transport/http"
)

const movieIndex = "movie"

func main() {
	configuration, err := config.LoadConfig()
	if err != nil {
		log.Fatal(err)
	}

	logger := logging.New(configuration.LOG_LEVEL)

	db, err := config.InitDB(context.Background(), configuration)
	if err != nil {
		log.Fatalf("db init: %v", err)
	}

	jwtSecret := []byte(configuration.JWT_SECRET)

	var prod *mykafka.Producer
	if configuration.KAFKA_ADDRESS != "" {
		prod, err = mykafka.NewProducer([]string{configuration.KAFKA_ADDRESS})
		if err != nil {
			log.Fatalf("kafka init: %v", err)
		}
	} else {
		logger.Warn("KAFKA_ADDRESS not set, events disabled")
	}

	var searchHandler *handlers.SearchHandler
	var movieHandler *handlers.MovieHandler
	if configuration.ES_URL != "" {
		client, err := es.NewClient(configuration)
		if err != nil {
			log.Fatalf("elasticsearch init: %v", err)
		}
		searchHandler = &handlers.SearchHandler{ES: client, Index: movieIndex}
		movieHandler = &handlers.MovieHandler{DB: db, Producer: prod, ES: client, Index: movieIndex}
	} else {
		logger.Warn("ES_URL not set, search disabled")
		searchHandler = &handlers.SearchHandler{Index: movieIndex}
		movieHandler = &handlers.MovieHandler{DB: db, Producer: prod, Index: movieIndex}
	}

	e := echo.New()
	e.HideBanner = true
	e.Pre(middleware.RemoveTrailingSlash())
	e.Use(middleware.Recover(), middleware.RequestID())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{http.MethodGet, http.MethodHead, http.MethodPut, http.MethodPatch, http.MethodPost, http.MethodDelete},
		AllowHeaders: []string{echo.HeaderContentType, echo.HeaderAuthorization},
	}))
	e.Use(loggingmw.RequestLogger(logger))

	deps := httpserver.Deps{
		DB:            db,
		JWTSecret:     jwtSecret,
		AuthHandler:   &handlers.AuthHandler{DB: db, JWTSecret: jwtSecret, Producer: prod},
		MovieHandler:  movieHandler,
		ReviewHandler: &handlers.ReviewHandler{DB: db, Producer: prod},
		SearchHandler: searchHandler,
	}
	httpserver.Register(e, &deps)

	srv := &http.Server{
		Addr:         ":" + configuration.PORT,
		Handler:      e,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server shutdown error", "error", err)
	}

	if sqlDB, err := db.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			logger.Error("db close error", "error", err)
		}
	} else {
		logger.Error("db() error", "error", err)
	}

	if prod != nil {
		if err := prod.Close(); err != nil {
			logger.Error("kafka close error", "error", err)
		}
	}

	logger.Info("shutdown complete")
}
