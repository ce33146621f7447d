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
	"github.com/labstack/echo/v4/middleware"
	"gorm.io/gorm"

	"github.com/Skotchmaster/shop_cart/pkg/config"
	"github.com/Skotchmaster/shop_cart/pkg/db"
	"github.com/Skotchmaster/shop_cart/pkg/logging"
	loggingmw "github.com/Skotchmaster/shop_cart/pkg/middleware/logging"
	"github.com/Skotchmaster/shop_cart/pkg/mykafka"
	"github.com/Skotchmaster/shop_cart/services/cart/internal/catalog"
	cartconfig "github.com/Skotchmaster/shop_cart/services/cart/internal/config"
	"github.com/Skotchmaster/shop_cart/services/cart/internal/events"
	"github.com/Skotchmaster/shop_cart/services/cart/internal/httpserver"
	"github.com/Skotchmaster/shop_cart/services/cart/internal/notify"
	"github.com/Skotchmaster/shop_cart/services/cart/internal/service"
	"github.com/Skotchmaster/shop_cart/services/cart/internal/storage"
)

func main() {
	config.LoadDotEnv()
	cfg := cartconfig.Load()

	logger := logging.New(logging.Options{Service: cfg.ServiceName, Level: cfg.LogLevel, Format: cfg.LogFormat})
	slog.SetDefault(logger)

	initCtx, cancel := context.WithTimeout(logging.IntoContext(context.Background(), logger), 15*time.Second)
	store, ready, closeStore, err := openStore(initCtx, cfg)
	cancel()
	if err != nil {
		log.Fatalf("store init error: %v", err)
	}

	var (
		notifier  notify.Notifier = notify.LogNotifier{}
		publisher service.Publisher
		producer  *mykafka.Producer
	)
	if len(cfg.KafkaBrokers) > 0 {
		producer, err = mykafka.NewProducer(cfg.KafkaBrokers)
		if err != nil {
			log.Fatalf("kafka producer error: %v", err)
		}
		pub := &events.Publisher{Producer: producer, Topic: cfg.EventsTopic}
		notifier = notify.Multi{notify.LogNotifier{}, pub}
		publisher = pub
	}

	carts := service.NewRegistry(service.RegistryOptions{
		Store:     store,
		Catalog:   catalog.NewClient(cfg.CatalogURL, cfg.CatalogTimeout),
		Notifier:  notifier,
		Publisher: publisher,
		Locale:    notify.ParseLocale(cfg.Locale),
		MaxCarts:  cfg.MaxCarts,
	})

	e := echo.New()
	e.HideBanner = true

	e.Server.ReadTimeout = 10 * time.Second
	e.Server.WriteTimeout = 15 * time.Second
	e.Server.ReadHeaderTimeout = 3 * time.Second

	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(loggingmw.RequestLogger(logger))

	httpserver.Register(e, &httpserver.Deps{
		CartHandler: &httpserver.CartHTTP{Carts: carts, Locale: notify.ParseLocale(cfg.Locale)},
		JWTSecret:   cfg.JWTAccessSecret,
		Ready:       ready,
	})

	go func() {
		logger.Info("cart_service_starting", "port", cfg.ServerPort, "store", cfg.Store)
		if err := e.Start(fmt.Sprintf(":%d", cfg.ServerPort)); err != nil && err != http.ErrServerClosed {
			log.Fatalf("echo start: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop
	logger.Info("cart_service_stopping")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("echo_shutdown_error", "error", err)
	}
	if producer != nil {
		if err := producer.Close(); err != nil {
			logger.Error("kafka_close_error", "error", err)
		}
	}
	if err := closeStore(); err != nil {
		logger.Error("store_close_error", "error", err)
	}

	logger.Info("cart_service_stopped")
}

func openStore(ctx context.Context, cfg cartconfig.ServiceConfig) (storage.Store, func() error, func() error, error) {
	noop := func() error { return nil }

	switch cfg.Store {
	case cartconfig.StoreRedis:
		rs, err := storage.NewRedisStore(cfg.RedisURL)
		if err != nil {
			return nil, nil, nil, err
		}
		if err := rs.Initialize(ctx, 5); err != nil {
			_ = rs.Close()
			return nil, nil, nil, err
		}
		ready := func() error {
			pingCtx, cancel := context.WithTimeout(context.Background(), time.Second)
			defer cancel()
			return rs.Ping(pingCtx)
		}
		return rs, ready, rs.Close, nil

	case cartconfig.StoreSQL:
		gdb, err := db.Open(ctx, cfg.DatabaseDriver, cfg.DatabaseURL)
		if err != nil {
			return nil, nil, nil, err
		}
		gs := &storage.GormStore{DB: gdb}
		if err := gs.Migrate(ctx); err != nil {
			_ = db.Close(gdb)
			return nil, nil, nil, fmt.Errorf("migrate cart store: %w", err)
		}
		return gs, sqlReady(gdb), func() error { return db.Close(gdb) }, nil

	default:
		return storage.NewMemoryStore(), noop, noop, nil
	}
}

func sqlReady(gdb *gorm.DB) func() error {
	return func() error {
		sqlDB, err := gdb.DB()
		if err != nil {
			return err
		}
		pingCtx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		return sqlDB.PingContext(pingCtx)
	}
}
