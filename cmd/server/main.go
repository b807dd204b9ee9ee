package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/joho/godotenv"

	"github.com/RahilBhavan/Quantum-Matrix-sub000/internal/api"
	"github.com/RahilBhavan/Quantum-Matrix-sub000/internal/config"
	"github.com/RahilBhavan/Quantum-Matrix-sub000/internal/database"
	"github.com/RahilBhavan/Quantum-Matrix-sub000/internal/engine"
	"github.com/RahilBhavan/Quantum-Matrix-sub000/internal/kafka"
	"github.com/RahilBhavan/Quantum-Matrix-sub000/internal/marketdata"
	"github.com/RahilBhavan/Quantum-Matrix-sub000/internal/portfolio"
	"github.com/RahilBhavan/Quantum-Matrix-sub000/internal/redis"
	"github.com/RahilBhavan/Quantum-Matrix-sub000/internal/workers"
)

// amountWriteDelay debounces balance snapshot writes per wallet+asset.
const amountWriteDelay = 3 * time.Second

func main() {
	// Load .env if present, real env wins
	if err := godotenv.Load(); err == nil {
		log.Println("Loaded configuration from .env")
	}

	// Load configuration
	cfg := config.Load()

	// Connect to database
	db, err := database.New(cfg.Database.ConnectionString())
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Run migrations
	if err := runMigrations(cfg.Database.ConnectionString()); err != nil {
		log.Fatalf("Failed to run database migrations: %v", err)
	}
	log.Println("Connected to PostgreSQL database")

	// Connect to Redis
	redisClient, err := redis.New(cfg.Redis)
	if err != nil {
		log.Printf("Warning: Failed to connect to Redis: %v (continuing without cache)", err)
		redisClient = nil
	} else {
		defer redisClient.Close()
		log.Println("Connected to Redis cache")
	}

	// Market data provider and synthesizer. With Redis up, reference price
	// reads go through the cache and the default-context sentiment is cached.
	baseProvider := marketdata.NewClient(cfg.MarketData)
	var provider engine.DataProvider = baseProvider
	var cache engine.SentimentCache
	if redisClient != nil {
		cache = redisClient
		provider = marketdata.NewCachedPrices(baseProvider, redisClient, cfg.MarketData.PriceCacheTTL)
	}
	synth := engine.NewSynthesizer(provider, cache, cfg.Engine.CacheTTL, cfg.Engine.SignalTimeout, cfg.MarketData.ReferenceAsset)

	// Create Kafka producer for rebalance events
	producer := kafka.NewProducer(cfg.Kafka.Brokers, cfg.Kafka.RebalanceTopic)
	defer producer.Close()
	log.Printf("Kafka producer initialized (brokers: %v, topic: %s)", cfg.Kafka.Brokers, cfg.Kafka.RebalanceTopic)

	// Create context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Debounced balance writes fed by the balances consumer
	coalescer := portfolio.NewAmountCoalescer(db, amountWriteDelay)
	defer coalescer.Flush()

	balancesConsumer := kafka.NewBalancesConsumer(
		cfg.Kafka.Brokers,
		cfg.Kafka.BalancesTopic,
		cfg.Kafka.ConsumerGroup,
		coalescer,
	)
	go func() {
		log.Printf("Starting Kafka balances consumer for topic: %s (group: %s)",
			cfg.Kafka.BalancesTopic, cfg.Kafka.ConsumerGroup)
		if err := balancesConsumer.Start(ctx); err != nil {
			log.Printf("Kafka balances consumer error: %v", err)
		}
	}()

	// Background jobs: rebalance orchestrator and feedback loop
	scheduler := workers.NewScheduler()
	scheduler.Register(workers.NewRebalanceWorker(synth, db, producer, cfg.Engine.RebalanceInterval))
	scheduler.Register(workers.NewFeedbackWorker(db, provider, cfg.Engine, cfg.MarketData.ReferenceAsset))
	scheduler.Start(ctx)

	// Set up HTTP handler and routes
	allocations := portfolio.NewService(db)
	handler := api.NewHandler(db, synth, allocations, producer, redisClient)
	router := api.SetupRoutes(handler)

	// Create HTTP server
	addr := cfg.Server.Host + ":" + cfg.Server.Port
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Printf("Starting server on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	// Cancel context to stop consumer and workers
	cancel()
	scheduler.Stop()

	// Graceful shutdown with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	// Close Kafka consumer
	if err := balancesConsumer.Close(); err != nil {
		log.Printf("Error closing Kafka balances consumer: %v", err)
	}

	log.Println("Server stopped")
}

func runMigrations(databaseUrl string) error {
	m, err := migrate.New("file://./db/migrations", databaseUrl)
	if err != nil {
		return err
	}

	// Apply all available migrations up to the latest version
	if err := m.Up(); err != nil {
		if err == migrate.ErrNoChange {
			log.Println("No migrations to apply; database is up to date.")
			return nil
		}
		return err
	}

	return nil
}
