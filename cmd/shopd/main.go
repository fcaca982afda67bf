package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/shopcore-lab/shopcore/internal/cache"
	"github.com/shopcore-lab/shopcore/internal/catalog"
	corecfg "github.com/shopcore-lab/shopcore/internal/core/config"
	"github.com/shopcore-lab/shopcore/internal/core/storage/postgres"
	"github.com/shopcore-lab/shopcore/internal/dashboard"
	"github.com/shopcore-lab/shopcore/internal/media"
	"github.com/shopcore-lab/shopcore/internal/migrations"
	"github.com/shopcore-lab/shopcore/internal/orders"
	"github.com/shopcore-lab/shopcore/internal/payments"
	"github.com/shopcore-lab/shopcore/internal/server"
	"github.com/shopcore-lab/shopcore/internal/users"
)

func main() {
	configPath := flag.String("config", "shopcore.yaml", "Path to configuration file")
	flag.Parse()

	// 0. Initialize Logger
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	// 1. Load Configuration
	cfg, err := corecfg.Load(*configPath)
	if err != nil {
		slog.Error("Failed to load config", "error", err)
		os.Exit(1)
	}

	defaultTTL, err := cfg.Cache.EffectiveDefaultTTL()
	if err != nil {
		slog.Error("Invalid cache default TTL", "value", cfg.Cache.DefaultTTL, "error", err)
		os.Exit(1)
	}
	listingTTL, err := cfg.Cache.EffectiveListingTTL()
	if err != nil {
		slog.Error("Invalid cache listing TTL", "value", cfg.Cache.ListingTTL, "error", err)
		os.Exit(1)
	}

	// 2. Initialize Storage (PostgreSQL)
	dbAdapter, err := postgres.NewAdapter(
		cfg.Database.DSN,
		cfg.Database.MaxOpenConns,
		cfg.Database.MaxIdleConns,
	)
	if err != nil {
		slog.Error("Failed to initialize database", "error", err)
		os.Exit(1)
	}
	defer dbAdapter.Close()

	// 2.1. Run Database Migrations
	if err := migrations.RunMigrations(dbAdapter.DB(), cfg.Database.AutoMigrate); err != nil {
		slog.Error("Failed to run database migrations", "error", err)
		os.Exit(1)
	}

	// Catches auto_migrate=false deployments pointed at an empty database.
	if err := dbAdapter.ValidateSchema(); err != nil {
		slog.Error("Schema validation failed", "error", err)
		os.Exit(1)
	}

	// 3. Initialize Cache (Redis)
	cacheStore, err := cache.NewRedisStore(cfg.Cache.Addr, cfg.Cache.Password, cfg.Cache.DB)
	if err != nil {
		slog.Error("Failed to initialize cache store", "error", err)
		os.Exit(1)
	}
	defer cacheStore.Close()

	cacheClient := cache.NewClient(cacheStore, defaultTTL, listingTTL)
	invalidator := cache.NewInvalidator(cacheStore)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 4. Initialize Media Storage (S3)
	var mediaStore media.Storage = media.Disabled{}
	if cfg.Media.Bucket != "" {
		mediaStore, err = media.NewS3Storage(ctx, cfg.Media.Bucket, cfg.Media.Region, cfg.Media.URLPrefix)
		if err != nil {
			slog.Error("Failed to initialize media storage", "error", err)
			os.Exit(1)
		}
	} else {
		slog.Warn("No media bucket configured, photo uploads disabled")
	}

	// 5. Initialize Entity Adapters
	productStore := postgres.NewProductAdapter(dbAdapter.DB())
	userStore := postgres.NewUserAdapter(dbAdapter.DB())
	orderStore := postgres.NewOrderAdapter(dbAdapter.DB())
	reviewStore := postgres.NewReviewAdapter(dbAdapter.DB())
	couponStore := postgres.NewCouponAdapter(dbAdapter.DB())

	// 6. Initialize Services
	userSvc := users.NewService(userStore)
	adminOnly := userSvc.AdminOnly()

	catalogSvc := catalog.NewService(
		productStore, reviewStore, orderStore, userStore,
		mediaStore, cacheClient, invalidator,
		cfg.Catalog.PageSize, cfg.Catalog.MaxPhotos,
	)
	orderSvc := orders.NewService(orderStore, productStore, cacheClient, invalidator)
	paymentSvc := payments.NewService(couponStore, payments.NewStripeGateway(cfg.Payments.StripeKey), cfg.Payments.Currency)
	dashboardSvc := dashboard.NewService(productStore, userStore, orderStore, cacheClient)

	// 7. Initialize Server
	srv := server.New(fmtAddr(cfg.Server.Host, cfg.Server.Port), dbAdapter.DB(), cacheStore, cfg.Server.Mode)
	srv.Engine.MaxMultipartMemory = int64(cfg.Server.MaxBodySizeMB) << 20
	userSvc.RegisterRoutes(srv.Engine)
	catalogSvc.RegisterRoutes(srv.Engine, adminOnly)
	orderSvc.RegisterRoutes(srv.Engine, adminOnly)
	paymentSvc.RegisterRoutes(srv.Engine, adminOnly)
	dashboardSvc.RegisterRoutes(srv.Engine, adminOnly)

	// 8. Start dashboard warmer in background if enabled
	if cfg.Dashboard.WarmEnabled {
		interval, err := cfg.Dashboard.EffectiveWarmInterval()
		if err != nil {
			slog.Error("Invalid warm interval", "value", cfg.Dashboard.WarmInterval, "error", err)
			os.Exit(1)
		}
		warmer := dashboard.NewWarmer(interval, dashboardSvc)
		go func() {
			if err := warmer.Start(ctx); err != nil {
				slog.Error("Warmer stopped with error", "error", err)
			}
		}()
	} else {
		slog.Info("Dashboard warmer disabled by config")
	}

	// Signal handler triggers the shutdown sequence below.
	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
		<-quit
		slog.Info("Signal received, shutting down...")
		cancel()
	}()

	// HTTP server blocks until ctx is cancelled.
	if err := srv.Run(ctx); err != nil {
		slog.Error("Server stopped with error", "error", err)
	}

	slog.Info("Shutdown complete")
}

func fmtAddr(host string, port int) string {
	return fmt.Sprintf("%s:%d", host, port)
}
