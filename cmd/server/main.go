package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/elastic/go-elasticsearch/v9"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/ovolkov/marketplace/internal/config"
	"github.com/ovolkov/marketplace/internal/events"
	"github.com/ovolkov/marketplace/internal/httpserver"
	"github.com/ovolkov/marketplace/internal/repo"
	"github.com/ovolkov/marketplace/internal/search"
	"github.com/ovolkov/marketplace/internal/service"
	pkgdb "github.com/ovolkov/marketplace/pkg/db"
	"github.com/ovolkov/marketplace/pkg/logging"
	loggingmw "github.com/ovolkov/marketplace/pkg/middleware/logging"
)

func main() {
	cfg := config.Load()
	config.MustNonEmpty(cfg.DatabaseURL, "DATABASE_URL")
	config.MustNonEmptyBytes(cfg.JWTSecret, "JWT_SECRET")

	logger := logging.New(cfg.LogLevel).With("service", "marketplace")
	slog.SetDefault(logger)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	db, err := pkgdb.Open(ctx, cfg.DatabaseURL)
	cancel()
	if err != nil {
		log.Fatalf("db open: %v", err)
	}
	if err := pkgdb.Migrate(db); err != nil {
		log.Fatalf("db migrate: %v", err)
	}

	producer := events.NewProducer(cfg.KafkaBrokers)
	if producer == nil {
		logger.Warn("KAFKA_BROKERS not set, domain events disabled")
	}

	es, err := newSearchClient(cfg)
	if err != nil {
		log.Fatalf("elasticsearch: %v", err)
	}
	if es == nil {
		logger.Warn("ES_URL not set, product search disabled")
	}

	r := repo.New(db)
	orderSvc := &service.OrderService{Repo: r}
	catalogSvc := &service.CatalogService{Repo: r, Orders: orderSvc}
	productSvc := &service.ProductService{Repo: r}
	authSvc := &service.AuthService{Repo: r, JWTSecret: cfg.JWTSecret}

	e := echo.New()
	e.Pre(echomw.RemoveTrailingSlash())
	e.Use(echomw.Recover())
	e.Use(echomw.RequestID())
	e.Use(loggingmw.RequestLogger(logger))
	e.Use(echomw.CORS())

	httpserver.Register(e, &httpserver.Deps{
		AuthHandler:    &httpserver.AuthHTTP{Svc: authSvc},
		ProductHandler: &httpserver.ProductHTTP{Svc: productSvc, Catalog: catalogSvc, Producer: producer, ES: es},
		OrderHandler:   &httpserver.OrderHTTP{Svc: orderSvc, Catalog: catalogSvc, Producer: producer},
		JWTSecret:      cfg.JWTSecret,
	})

	srv := &http.Server{
		Addr:              ":" + strconv.Itoa(cfg.ServerPort),
		Handler:           e,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      15 * time.Second,
		ReadHeaderTimeout: 3 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Printf("marketplace listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("listen: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	log.Println("shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("server shutdown error: %v", err)
	}

	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}

	if err := producer.Close(); err != nil {
		log.Printf("kafka close error: %v", err)
	}

	log.Println("shutdown complete")
}

func newSearchClient(cfg config.Config) (*elasticsearch.Client, error) {
	if cfg.ESURL == "" {
		return nil, nil
	}
	return search.NewClient(cfg.ESURL, cfg.ESUser, cfg.ESPassword)
}
