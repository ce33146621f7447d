package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/Skotchmaster/shop_cart/pkg/config"
	pkgdb "github.com/Skotchmaster/shop_cart/pkg/db"
	"github.com/Skotchmaster/shop_cart/pkg/logging"
	loggingmw "github.com/Skotchmaster/shop_cart/pkg/middleware/logging"

	catalogcfg "github.com/Skotchmaster/shop_cart/services/catalog/internal/config"
	"github.com/Skotchmaster/shop_cart/services/catalog/internal/httpserver"
	"github.com/Skotchmaster/shop_cart/services/catalog/internal/repo"
	"github.com/Skotchmaster/shop_cart/services/catalog/internal/seed"
	"github.com/Skotchmaster/shop_cart/services/catalog/internal/service"
)

func main() {
	config.LoadDotEnv("services/catalog/.env", ".env")
	cfg := catalogcfg.Load()

	logger := logging.New(logging.Options{Service: cfg.ServiceName, Level: cfg.LogLevel, Format: cfg.LogFormat})
	slog.SetDefault(logger)

	ctx, cancel := context.WithTimeout(logging.IntoContext(context.Background(), logger), 30*time.Second)
	db, err := pkgdb.Open(ctx, cfg.DatabaseDriver, cfg.DatabaseURL)
	if err != nil {
		cancel()
		log.Fatalf("db open: %v", err)
	}

	repo := &repo.GormRepo{DB: db}
	if err := repo.Migrate(ctx); err != nil {
		cancel()
		log.Fatalf("db migrate: %v", err)
	}
	if cfg.SeedFile != "" {
		fixture, err := seed.LoadFile(cfg.SeedFile)
		if err != nil {
			cancel()
			log.Fatalf("seed: %v", err)
		}
		if err := seed.Apply(ctx, repo, fixture); err != nil {
			cancel()
			log.Fatalf("seed: %v", err)
		}
	}
	cancel()

	svc := &service.CatalogService{Repo: repo}
	handler := &httpserver.CatalogHTTP{Svc: svc}

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Recover())
	e.Use(echomw.RequestID())
	e.Use(loggingmw.RequestLogger(logger))
	e.Use(echomw.CORS())

	httpserver.Register(e, &httpserver.Deps{CatalogHandler: handler})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:           e,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      15 * time.Second,
		ReadHeaderTimeout: 3 * time.Second,
	}

	go func() {
		logger.Info("catalog_listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	_ = srv.Shutdown(shutdownCtx)
	_ = pkgdb.Close(db)

	logger.Info("catalog_stopped")
}
