package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"storefront-admin/api"
	"storefront-admin/internal/config"
	"storefront-admin/internal/contentstore"
	"storefront-admin/internal/domain"
	"storefront-admin/internal/handler"
	"storefront-admin/internal/messaging"
	"storefront-admin/internal/middleware"
	"storefront-admin/internal/observability"
	"storefront-admin/internal/repository/sanity"
	"storefront-admin/internal/security"
	"storefront-admin/internal/service"
	"storefront-admin/internal/session"
)

func main() {
	cfg := config.Load()

	observability.InitLogger(cfg.LogLevel, cfg.LogFormat)

	slog.Info("starting admin server", slog.String("environment", cfg.Environment))

	codec, err := session.NewCodec([]byte(cfg.JWTSecretKey))
	if err != nil {
		slog.Error("failed to create session codec", slog.String("error", err.Error()))
		os.Exit(1)
	}
	sessions := session.NewCookieStore(codec, session.WithSecureCookie(cfg.IsProduction()))

	authService, err := service.NewAuthService(cfg.AdminEmail, cfg.AdminPassword, cfg.AdminPasswordHash)
	if err != nil {
		slog.Error("failed to configure admin credentials", slog.String("error", err.Error()))
		os.Exit(1)
	}

	store := contentstore.NewClient(cfg.ContentStore)

	pingCtx, pingCancel := context.WithTimeout(context.Background(), 10*time.Second)
	if err := store.Ping(pingCtx); err != nil {
		// The store may come up later; readiness reports it until then.
		slog.Warn("content store ping failed", slog.String("error", err.Error()))
	} else {
		slog.Info("connected to content store", slog.String("dataset", store.Dataset()))
	}
	pingCancel()

	var (
		events domain.EventPublisher = messaging.NopPublisher{}
		broker handler.Pinger
	)
	if cfg.RabbitMQURL != "" {
		rmqCtx, rmqCancel := context.WithTimeout(context.Background(), 60*time.Second)
		rmq, err := messaging.NewRabbitMQWithRetry(rmqCtx, cfg.RabbitMQURL, 10, 2*time.Second)
		rmqCancel()
		if err != nil {
			slog.Error("failed to connect to rabbitmq", slog.String("error", err.Error()))
			os.Exit(1)
		}
		defer rmq.Close()

		if err := rmq.Setup(); err != nil {
			slog.Error("failed to declare catalog exchange", slog.String("error", err.Error()))
			os.Exit(1)
		}
		events, broker = rmq, rmq
		slog.Info("publishing catalog events", slog.String("exchange", messaging.CatalogExchange))
	} else {
		slog.Info("RABBITMQ_URL not set, catalog events disabled")
	}

	products := sanity.NewProductRepository(store)
	categories := sanity.NewCategoryRepository(store)
	orders := sanity.NewOrderRepository(store)
	customers := sanity.NewCustomerRepository(store)
	reviews := sanity.NewReviewRepository(store)
	assets := sanity.NewAssetRepository(store)

	catalogService := service.NewCatalogService(products, categories, assets, events)
	orderService := service.NewOrderService(orders, products, customers, events)
	customerService := service.NewCustomerService(customers)
	reviewService := service.NewReviewService(reviews, events)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	router := handler.NewRouter(handler.RouterConfig{
		Auth:           handler.NewAuthHandler(authService, sessions),
		Catalog:        handler.NewCatalogHandler(catalogService),
		Orders:         handler.NewOrderHandler(orderService),
		Customers:      handler.NewCustomerHandler(customerService, reviewService),
		Pages:          handler.NewPages(cfg.StaticDir),
		Sessions:       sessions,
		Tokens:         security.NewTokenManager(),
		Store:          store,
		Broker:         broker,
		AllowedOrigins: middleware.ParseOrigins(cfg.AllowedOrigins),
		OpenAPI: middleware.OpenAPIValidatorConfig{
			Enabled:           cfg.OpenAPIValidationEnabled(),
			SpecData:          api.Spec,
			ValidateResponses: cfg.IsDevelopment(),
		},
		AuthLimiter: middleware.NewRateLimiter(ctx, 5, 10),
		APILimiter:  middleware.NewRateLimiter(ctx, 20, 50),
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		slog.Info("admin server listening", slog.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	slog.Info("shutting down server")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server shutdown error", slog.String("error", err.Error()))
	}

	cancel()

	slog.Info("server stopped gracefully")
}
