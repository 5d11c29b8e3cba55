// ABOUTME: Entry point for the migration advisor backend service
// ABOUTME: Serves cost, strategy, and timeline advice over an on-premise inventory

package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/markalston/migration-advisor/cache"
	"github.com/markalston/migration-advisor/config"
	"github.com/markalston/migration-advisor/handlers"
	"github.com/markalston/migration-advisor/logger"
	"github.com/markalston/migration-advisor/metrics"
	"github.com/markalston/migration-advisor/middleware"
	"github.com/markalston/migration-advisor/services"
	"github.com/markalston/migration-advisor/store"
)

func main() {
	// Initialize structured logging
	logger.Init()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	slog.Info("Starting Migration Advisor Backend")

	// Open inventory store
	db, err := store.Open(cfg.DSN())
	if err != nil {
		slog.Error("Failed to open inventory store", "error", err)
		os.Exit(1)
	}
	defer db.Close()
	slog.Info("Inventory store opened", "driver", db.Driver())

	if cfg.InventorySeed != "" {
		seed, err := store.LoadSeed(cfg.InventorySeed)
		if err == nil {
			err = db.ApplySeed(ctx, seed)
		}
		if err != nil {
			slog.Error("Failed to seed inventory", "seed", cfg.InventorySeed, "error", err)
			os.Exit(1)
		}
		slog.Info("Inventory seeded", "seed", cfg.InventorySeed,
			"servers", len(seed.Servers), "databases", len(seed.Databases), "file_shares", len(seed.FileShares))
	}

	// Price table
	prices := services.DefaultPriceTable()
	if cfg.PricingFile != "" {
		prices, err = services.LoadPriceTable(cfg.PricingFile)
		if err != nil {
			slog.Error("Failed to load price table", "file", cfg.PricingFile, "error", err)
			os.Exit(1)
		}
		slog.Info("Price table loaded", "file", cfg.PricingFile)
	}

	// Model provider (optional)
	var provider services.Provider
	if cfg.ProviderConfigured() {
		provider = services.NewBedrockProvider(ctx, services.ProviderConfig{
			Region:          cfg.ProviderRegion,
			AccessKeyID:     cfg.ProviderAccessKey,
			SecretAccessKey: cfg.ProviderSecretKey,
			ModelIdentifier: cfg.ModelIdentifier,
			Timeout:         cfg.ProviderTimeout(),
			AllProxy:        cfg.ProviderAllProxy,
		})
	} else {
		slog.Warn("Model provider not configured, running rule-based only")
		metrics.SetProviderUsable(false)
	}

	if cfg.VSphereConfigured() {
		slog.Info("vSphere configured", "host", cfg.VSphereHost, "datacenter", cfg.VSphereDatacenter)
	} else {
		slog.Info("vSphere not configured, store-only inventory")
	}

	projector := services.NewInventoryProjector(db)
	advisor := services.NewAdvisor(projector, services.NewRuleAdvisor(prices), provider)

	c := cache.New(time.Duration(cfg.VSphereCacheTTL) * time.Second)
	defer c.Close()
	h := handlers.NewHandler(cfg, c, advisor, projector, db)

	// CORS: allow list when configured, otherwise any origin for the local tool
	cors := middleware.CORS
	if len(cfg.CORSAllowedOrigins) > 0 {
		cors = middleware.CORSWithConfig(cfg.CORSAllowedOrigins)
	}

	var limiter *middleware.RateLimiter
	if cfg.RateLimitEnabled {
		limiter = middleware.NewRateLimiter(cfg.RateLimitAdvise, time.Minute)
		slog.Info("Rate limiting enabled", "advise_per_minute", cfg.RateLimitAdvise)
	}

	if cfg.MetricsEnabled {
		metrics.Register(db)
	}
	mux := h.Router(handlers.RouterOptions{
		CORS:    cors,
		Limiter: limiter,
		Metrics: cfg.MetricsEnabled,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Error("Graceful shutdown failed", "error", err)
		}
	}()

	slog.Info("Server listening", "addr", srv.Addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("Server failed", "error", err)
		os.Exit(1)
	}
	slog.Info("Server stopped")
}
