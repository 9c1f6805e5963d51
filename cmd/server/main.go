package main

import (
	"context"
	"log"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/codyseavey/card-vault/internal/api"
	"github.com/codyseavey/card-vault/internal/config"
	"github.com/codyseavey/card-vault/internal/database"
	"github.com/codyseavey/card-vault/internal/metrics"
	"github.com/codyseavey/card-vault/internal/mockgen"
	"github.com/codyseavey/card-vault/internal/scanner"
	"github.com/codyseavey/card-vault/internal/stats"
	"github.com/codyseavey/card-vault/internal/storage"
	"github.com/codyseavey/card-vault/internal/vault"
)

func main() {
	cfg := config.Load()

	// Initialize database
	if err := database.Initialize(cfg.DBPath); err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}

	// Initialize the vault over the blob store
	store := storage.NewBlobStore(database.GetDB())
	vaultService := vault.NewService(store)

	// Keep the collection gauges in step with the vault
	updateCollectionMetrics := func() {
		st := stats.Compute(vaultService.Entries())
		metrics.CollectionCardsTotal.Set(float64(st.TotalCards))
		metrics.CollectionValueUSD.Set(st.TotalValue)
	}
	vaultService.Subscribe(func(ev vault.Event) {
		metrics.VaultMutationsTotal.WithLabelValues(string(ev.Op)).Inc()
		updateCollectionMetrics()
	})
	updateCollectionMetrics()

	// Separate generators so the market worker and scan fallbacks never
	// contend on one rand source
	marketGen := mockgen.New(rand.New(rand.NewSource(time.Now().UnixNano())))
	scanGen := mockgen.New(rand.New(rand.NewSource(time.Now().UnixNano() + 1)))

	marketWorker := mockgen.NewMarketWorker(marketGen, cfg.MarketRefreshInterval)
	scanService := scanner.NewService(cfg.ScannerBackendURL, scanGen)
	if cfg.ScannerBackendURL == "" {
		log.Println("No identification backend configured; scans will use mock data")
	}

	// Create a cancellable context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Start market worker in background with panic recovery
	go func() {
		for {
			func() {
				defer func() {
					if r := recover(); r != nil {
						log.Printf("PANIC in market worker: %v - restarting in 30 seconds", r)
					}
				}()
				marketWorker.Start(ctx)
			}()

			select {
			case <-ctx.Done():
				return // Graceful shutdown
			case <-time.After(30 * time.Second):
				log.Println("Market worker restarting after panic recovery...")
			}
		}
	}()

	// Setup router
	router := api.SetupRouter(vaultService, marketWorker, scanService, cfg.CORSAllowedOrigins)

	// Create HTTP server for graceful shutdown
	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	// Start server in a goroutine
	go func() {
		log.Printf("Starting server on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	// Cancel the context to stop the market worker
	cancel()

	// Give outstanding requests a deadline to complete
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exited")
}
