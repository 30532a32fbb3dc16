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

	"github.com/nutriscan/backend/config"
	httpDelivery "github.com/nutriscan/backend/internal/delivery/http"
	"github.com/nutriscan/backend/internal/domain"
	"github.com/nutriscan/backend/internal/infrastructure/cache"
	"github.com/nutriscan/backend/internal/infrastructure/openfoodfacts"
	"github.com/nutriscan/backend/internal/scanner"
	"github.com/nutriscan/backend/internal/usecase"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	log.Printf("Starting NutriScan Backend v1.0.0")
	log.Printf("Environment: %s", cfg.Server.Environment)
	log.Printf("Port: %s", cfg.Server.Port)
	log.Printf("Cache: type=%s ttl=%s", cfg.Cache.Type, cfg.Cache.TTL)

	// Open the product cache once for the whole process; it closes on
	// shutdown, after the HTTP server has drained.
	productCache, err := openCache(cfg)
	if err != nil {
		log.Fatalf("Failed to open product cache: %v", err)
	}

	// Opportunistic purge at startup, then a periodic sweep.
	if purged, err := productCache.PurgeExpired(context.Background()); err != nil {
		log.Printf("[Cache] startup purge failed: %v", err)
	} else if purged > 0 {
		log.Printf("[Cache] purged %d expired entries at startup", purged)
	}

	sweepDone := make(chan struct{})
	go sweepLoop(productCache, cfg.Cache.SweepInterval, sweepDone)

	lookupClient := openfoodfacts.NewClient(openfoodfacts.ClientConfig{
		BaseURL:       cfg.Lookup.BaseURL,
		Timeout:       cfg.Lookup.Timeout,
		RatePerSecond: cfg.Lookup.RatePerSecond,
		Burst:         cfg.Lookup.Burst,
	})
	log.Printf("Lookup API configured: %s", cfg.Lookup.BaseURL)

	// Initialize usecase layer
	resolver := usecase.NewResolver(productCache, lookupClient)
	scaler := usecase.NewQuantityScaler()

	// Create HTTP handler with dependencies. Barcode readers are built per
	// request; a shared one would race across concurrent scans.
	handler := httpDelivery.NewHandler(resolver, scaler, productCache, func() scanner.SymbolReader {
		return scanner.NewZXingReader()
	})

	// Setup router
	router := httpDelivery.SetupRouter(cfg, handler)

	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	server := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	go func() {
		log.Printf("Server listening on %s", addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Block until shutdown is requested, then drain the server and release
	// the cache.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()

	log.Printf("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server shutdown: %v", err)
	}

	close(sweepDone)
	if err := productCache.Close(); err != nil {
		log.Printf("Cache close: %v", err)
	}
}

// openCache constructs the configured ProductCache implementation.
func openCache(cfg *config.Config) (domain.ProductCache, error) {
	switch cfg.Cache.Type {
	case "bolt":
		return cache.NewBoltCache(cfg.Cache.Path, cfg.Cache.TTL)
	default:
		return cache.NewMemoryCache(cfg.Cache.TTL), nil
	}
}

// sweepLoop purges expired cache entries on a schedule until done is closed.
func sweepLoop(productCache domain.ProductCache, interval time.Duration, done <-chan struct{}) {
	if interval <= 0 {
		interval = 6 * time.Hour
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if purged, err := productCache.PurgeExpired(context.Background()); err != nil {
				log.Printf("[Cache] sweep failed: %v", err)
			} else if purged > 0 {
				log.Printf("[Cache] sweep purged %d expired entries", purged)
			}
		case <-done:
			return
		}
	}
}

func init() {
	// Set log flags for better debugging
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)
	log.SetOutput(os.Stdout)
}
