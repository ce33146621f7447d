package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/shop_cart/gateway/internal/config"
	"github.com/Skotchmaster/shop_cart/gateway/internal/httpserver"
	"github.com/Skotchmaster/shop_cart/gateway/internal/middleware"
	pkgconfig "github.com/Skotchmaster/shop_cart/pkg/config"
	"github.com/Skotchmaster/shop_cart/pkg/logging"
)

func main() {
	pkgconfig.LoadDotEnv("gateway/.env", ".env")
	cfg := config.Load()

	logger := logging.New(logging.Options{Service: "gateway", Level: cfg.LogLevel, Format: cfg.LogFormat})
	slog.SetDefault(logger)

	e := echo.New()
	e.HideBanner = true
	e.Server.ReadTimeout = 10 * time.Second
	e.Server.WriteTimeout = 15 * time.Second
	e.Server.ReadHeaderTimeout = 3 * time.Second

	if err := httpserver.Register(e, &httpserver.Deps{
		CatalogURL: cfg.CatalogURL,
		CartURL:    cfg.CartURL,
		Middleware: middleware.Common(logger, cfg.AllowOrigins),
	}); err != nil {
		log.Fatal(err)
	}

	go func() {
		logger.Info("gateway_listening", "addr", cfg.ListenAddr)
		if err := e.Start(cfg.ListenAddr); err != nil && err != http.ErrServerClosed {
			log.Fatalf("start: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		log.Fatalf("shutdown: %v", err)
	}
}
