package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/codexmed/t2a-assistant/internal/adapters/cache"
	"github.com/codexmed/t2a-assistant/internal/adapters/database"
	"github.com/codexmed/t2a-assistant/internal/api/handlers"
	"github.com/codexmed/t2a-assistant/internal/api/routes"
	"github.com/codexmed/t2a-assistant/internal/catalog"
	"github.com/codexmed/t2a-assistant/internal/domain/providers"
	"github.com/codexmed/t2a-assistant/internal/infrastructure/clients/postgres"
	"github.com/codexmed/t2a-assistant/internal/infrastructure/clients/redis"
	"github.com/codexmed/t2a-assistant/internal/infrastructure/observability"
	queryservices "github.com/codexmed/t2a-assistant/internal/query/services"
	"github.com/codexmed/t2a-assistant/pkg/config"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	observability.InitLogger(cfg.OTEL.ServiceName, os.Getenv("APP_ENV"))

	// Set up context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize OpenTelemetry if enabled
	if cfg.OTEL.Enabled && cfg.OTEL.Endpoint != "" {
		shutdown, err := observability.Setup(
			ctx,
			cfg.OTEL.ServiceName,
			cfg.OTEL.ServiceVersion,
			cfg.OTEL.Endpoint,
		)
		if err != nil {
			log.Printf("Warning: Failed to set up OpenTelemetry: %v", err)
		} else {
			defer func() {
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := shutdown(ctx); err != nil {
					log.Printf("Error shutting down OpenTelemetry: %v", err)
				}
			}()
			log.Println("OpenTelemetry initialized successfully")
		}
	}

	// Initialize metrics
	metrics, err := observability.InitMetrics()
	if err != nil {
		log.Fatalf("Failed to initialize metrics: %v", err)
	}

	// Initialize database client
	pgClient, err := postgres.NewClient(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to initialize PostgreSQL client: %v", err)
	}
	defer pgClient.Close()
	log.Println("PostgreSQL client initialized successfully")

	// Initialize Redis client. The API works without it, just uncached.
	var cacheProvider providers.CacheProvider
	redisClient, err := redis.NewClient(&cfg.Redis)
	if err != nil {
		log.Printf("Warning: Failed to initialize Redis client: %v", err)
	} else {
		defer redisClient.Close()
		cacheProvider = cache.NewRedisAdapter(redisClient)
		log.Println("Redis client initialized successfully")
	}

	// Load the catalog snapshot into memory
	catalogAdapter := database.NewCatalogAdapter(pgClient)
	snap, err := catalog.Load(ctx, catalogAdapter)
	if err != nil {
		log.Fatalf("Failed to load catalog snapshot: %v", err)
	}
	store := catalog.NewStore(snap)
	log.Printf("Catalog snapshot loaded: %d codes", snap.Len())

	// Initialize services
	searchService := queryservices.NewSearchService(store, metrics)
	catalogService := queryservices.NewCatalogQueryService(store)
	compatService := queryservices.NewCompatibilityService(store)
	billingService := queryservices.NewBillingService(store, cacheProvider, metrics)

	// Initialize handlers
	searchHandler := handlers.NewSearchHandler(searchService)
	codeHandler := handlers.NewCodeHandler(catalogService)
	compatibilityHandler := handlers.NewCompatibilityHandler(compatService)
	billingHandler := handlers.NewBillingHandler(billingService)

	// Set up router
	router := routes.NewRouter(
		searchHandler,
		codeHandler,
		compatibilityHandler,
		billingHandler,
		store,
		metrics,
	)
	handler := router.SetupRoutes()

	// Create HTTP server
	serverAddr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	server := &http.Server{
		Addr:         serverAddr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Printf("Server starting on %s", serverAddr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Server shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Error during server shutdown: %v", err)
	}

	log.Println("Server stopped")
}
