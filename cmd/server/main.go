package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/jkx4r/techify/internal/config"
	"github.com/jkx4r/techify/internal/httpserver"
	"github.com/jkx4r/techify/internal/logging"
	authmw "github.com/jkx4r/techify/internal/middleware/auth"
	loggingmw "github.com/jkx4r/techify/internal/middleware/logging"
	"github.com/jkx4r/techify/internal/mykafka"
	"github.com/jkx4r/techify/internal/repo"
	"github.com/jkx4r/techify/internal/service"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("config load error: %v", err)
	}

	logger := logging.New(cfg.LOG_LEVEL)

	initCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	db, err := config.InitDB(initCtx, cfg)
	cancel()
	if err != nil {
		log.Fatalf("db init error: %v", err)
	}

	gormRepo := &repo.GormRepo{DB: db}

	authSvc := &service.AuthService{
		Repo:          gormRepo,
		JWTSecret:     []byte(cfg.JWT_SECRET),
		RefreshSecret: []byte(cfg.REFRESH_SECRET),
	}
	catalogSvc := &service.CatalogService{Repo: gormRepo}
	cartSvc := &service.CartService{Repo: gormRepo, Catalog: catalogSvc}
	addressSvc := &service.AddressBook{Repo: gormRepo}

	seedCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	err = authSvc.SeedAdmin(seedCtx, cfg.ADMIN_PASSWORD)
	cancel()
	if err != nil {
		log.Fatalf("admin seed error: %v", err)
	}

	producer := mykafka.NewProducer(cfg.KAFKA_ADDRESS)
	defer producer.Close()

	e := echo.New()
	e.HideBanner = true

	e.Server.ReadTimeout = 10 * time.Second
	e.Server.WriteTimeout = 15 * time.Second
	e.Server.ReadHeaderTimeout = 3 * time.Second

	e.Pre(middleware.RemoveTrailingSlash())
	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(middleware.CORS())
	e.Use(loggingmw.RequestLogger(logger))

	httpserver.Register(e, &httpserver.Deps{
		Auth:      &httpserver.AuthHTTP{Svc: authSvc, Producer: producer},
		Products:  &httpserver.ProductHTTP{Svc: catalogSvc, Producer: producer},
		Cart:      &httpserver.CartHTTP{Svc: cartSvc, Producer: producer},
		Addresses: &httpserver.AddressHTTP{Svc: addressSvc},
		AuthMW:    authmw.New(authSvc),
	})

	port := cfg.SERVER_PORT
	if port == "" {
		port = "8080"
	}

	go func() {
		logger.Info("starting server", "port", port)
		if err := e.Start(":" + port); err != nil && err != http.ErrServerClosed {
			log.Fatalf("echo start: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop
	logger.Info("shutting down server")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("echo shutdown", "error", err)
	}

	if sqlDB, err := db.DB(); err == nil {
		sqlDB.Close()
	}

	logger.Info("server stopped")
}
