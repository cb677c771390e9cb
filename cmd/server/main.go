package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/MKovalyov/food_delivery/internal/cart"
	"github.com/MKovalyov/food_delivery/internal/cartstore"
	"github.com/MKovalyov/food_delivery/internal/config"
	"github.com/MKovalyov/food_delivery/internal/es"
	"github.com/MKovalyov/food_delivery/internal/handlers"
	"github.com/MKovalyov/food_delivery/internal/logging"
	"github.com/MKovalyov/food_delivery/internal/mykafka"
	"github.com/MKovalyov/food_delivery/internal/service"
	httpserver "github.com/MKovalyov/food_delivery/internal/transport/http"
)

func main() {
	configuration, err := config.LoadConfig()
	if err != nil {
		log.Fatal(err)
	}

	logger := logging.New(configuration.LogLevel)
	slog.SetDefault(logger)

	initCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	db, err := config.InitDB(initCtx, configuration)
	cancel()
	if err != nil {
		log.Fatalf("db init error: %v", err)
	}

	jwtSecret := []byte(configuration.JWTSecret)
	refreshSecret := []byte(configuration.RefreshSecret)

	prod := mykafka.NewProducer([]string{configuration.KafkaAddress})

	esClient, err := es.NewClient(configuration)
	if err != nil {
		log.Fatal(err)
	}

	store := cartstore.New(db)
	cartService := cart.NewService(store, store)

	e := echo.New()
	e.HideBanner = true
	e.Pre(middleware.RemoveTrailingSlash())
	e.Use(middleware.Recover(), middleware.RequestID())

	deps := httpserver.Deps{
		DB:                db,
		Logger:            logger,
		AuthHandler:       &handlers.AuthHandler{DB: db, JWTSecret: jwtSecret, RefreshSecret: refreshSecret, Producer: prod},
		CartHandler:       &handlers.CartHandler{Svc: cartService, Producer: prod},
		RestaurantHandler: &handlers.RestaurantHandler{DB: db, Producer: prod},
		OrderHandler:      &handlers.OrderHandler{DB: db, Producer: prod},
		SearchHandler:     handlers.NewSearchHandler(esClient, "restaurants"),
		TokenService:      &service.TokenService{DB: db, RefreshSecret: refreshSecret, JWTSecret: jwtSecret},
	}

	httpserver.Register(e, &deps)

	srv := &http.Server{
		Addr:         ":" + configuration.ServerPort,
		Handler:      e,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("http server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("server shutdown error: %v", err)
	}

	if sqlDB, err := db.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			log.Printf("db close error: %v", err)
		}
	} else {
		log.Printf("db() error: %v", err)
	}

	if err := prod.Close(); err != nil {
		log.Printf("kafka close error: %v", err)
	}

	log.Println("shutdown complete")
}
