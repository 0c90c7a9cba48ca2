package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/israelgrowthventure-cloud/igv-site-sub000/internal/catalog"
	"github.com/israelgrowthventure-cloud/igv-site-sub000/internal/checkout"
	"github.com/israelgrowthventure-cloud/igv-site-sub000/internal/geo"
	"github.com/israelgrowthventure-cloud/igv-site-sub000/internal/handlers"
	"github.com/israelgrowthventure-cloud/igv-site-sub000/internal/payments"
	"github.com/israelgrowthventure-cloud/igv-site-sub000/internal/platform/config"
	"github.com/israelgrowthventure-cloud/igv-site-sub000/internal/platform/observability"
	"github.com/israelgrowthventure-cloud/igv-site-sub000/internal/pricing"
)

func main() {
	baseLogger, err := observability.NewLogger()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialise logger: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = baseLogger.Sync()
	}()

	logger := baseLogger.Named("api")

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("failed to load configuration", zap.Error(err))
	}

	cat, err := catalog.Load(cfg.Catalog.File)
	if err != nil {
		logger.Fatal("failed to load pack catalog", zap.Error(err))
	}

	geoLookup := geo.NewHTTPLookup(cfg.Geo.Endpoint)
	resolver := geo.NewResolver(geo.ResolverDeps{
		Lookup:  geoLookup,
		Timeout: cfg.Geo.Timeout,
		Logger:  observability.EventLogger(logger.Named("geo")),
	})

	engine, err := pricing.NewEngine(pricing.EngineDeps{
		Catalog:  cat,
		Upstream: pricing.NewUpstreamClient(cfg.Pricing.Endpoint),
		Timeout:  cfg.Pricing.Timeout,
		Logger:   observability.EventLogger(logger.Named("pricing")),
	})
	if err != nil {
		logger.Fatal("failed to initialise pricing engine", zap.Error(err))
	}

	paymentManager, err := buildPaymentManager(cfg, logger.Named("payments"))
	if err != nil {
		logger.Fatal("failed to initialise payment manager", zap.Error(err))
	}

	orchestrator, err := checkout.New(checkout.Deps{
		Catalog:    cat,
		Quotes:     engine,
		Payments:   paymentManager,
		SuccessURL: cfg.Payments.SuccessURL,
		CancelURL:  cfg.Payments.CancelURL,
		Provider:   cfg.Payments.DefaultProvider,
		Logger:     observability.EventLogger(logger.Named("checkout")),
	})
	if err != nil {
		logger.Fatal("failed to initialise checkout orchestrator", zap.Error(err))
	}

	secureCookies := cfg.Server.SecureCookies
	zoneHandlers := handlers.NewZoneHandlers(resolver, cat, secureCookies)
	pricingHandlers := handlers.NewPricingHandlers(engine, cat, resolver, secureCookies)
	checkoutHandlers := handlers.NewCheckoutHandlers(orchestrator, resolver, secureCookies)

	middlewares := []func(http.Handler) http.Handler{
		observability.InjectLoggerMiddleware(logger.Named("http")),
		observability.TraceMiddleware(),
		observability.RecoveryMiddleware(logger.Named("http")),
		observability.RequestLoggerMiddleware(),
	}

	router := handlers.NewRouter(
		handlers.WithMiddlewares(middlewares...),
		handlers.WithHealthHandlers(handlers.NewHealthHandlers(buildVersion())),
		handlers.WithZoneRoutes(zoneHandlers.Routes),
		handlers.WithPricingRoutes(pricingHandlers.Routes),
		handlers.WithCheckoutRoutes(checkoutHandlers.Routes),
		handlers.WithCORSOrigins(cfg.CORS.AllowedOrigins),
	)

	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)

	serverLogger := logger.Named("http").With(zap.String("addr", server.Addr))
	go func() {
		serverLogger.Info("igv pricing api listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverLogger.Fatal("http server error", zap.Error(err))
		}
	}()

	<-shutdown
	logger.Info("shutdown signal received; draining requests")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", zap.Error(err))
	}
}

func buildPaymentManager(cfg config.Config, logger *zap.Logger) (*payments.Manager, error) {
	providers := make(map[string]payments.Provider, 2)

	if endpoint := strings.TrimSpace(cfg.Payments.SessionEndpoint); endpoint != "" {
		sessions, err := payments.NewHTTPProvider(payments.HTTPProviderConfig{
			Endpoint: endpoint,
			APIKey:   cfg.Payments.SessionAPIKey,
			Logger:   observability.EventLogger(logger),
		})
		if err != nil {
			return nil, err
		}
		providers["sessions"] = sessions
	}

	if apiKey := strings.TrimSpace(cfg.Payments.StripeAPIKey); apiKey != "" {
		stripeProvider, err := payments.NewStripeProvider(payments.StripeProviderConfig{
			APIKey: apiKey,
			Logger: observability.EventLogger(logger),
		})
		if err != nil {
			return nil, err
		}
		providers["stripe"] = stripeProvider
	}

	return payments.NewManager(providers, payments.WithDefaultProvider(cfg.Payments.DefaultProvider))
}

func buildVersion() string {
	if version := strings.TrimSpace(os.Getenv("IGV_BUILD_VERSION")); version != "" {
		return version
	}
	return "dev"
}
