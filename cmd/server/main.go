package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/purva-labs/sahayak-api/internal/api"
	"github.com/purva-labs/sahayak-api/internal/config"
	"github.com/purva-labs/sahayak-api/internal/repository/firestore"
	"github.com/purva-labs/sahayak-api/internal/repository/mongo"
	"github.com/purva-labs/sahayak-api/internal/repository/redis"
	"github.com/purva-labs/sahayak-api/internal/session"
)

func main() {
	// Load .env file - try multiple locations
	envPaths := []string{".env", "../.env", "../../.env"}
	for _, p := range envPaths {
		if err := godotenv.Load(p); err == nil {
			fmt.Printf("Loaded .env from: %s\n", p)
			break
		}
	}

	// Setup logger
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	if os.Getenv("ENV") != "production" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	log.Info().
		Str("host", cfg.Server.Host).
		Int("port", cfg.Server.Port).
		Str("store", cfg.Store.Driver).
		Msg("Starting Sahayak API server")

	ctx := context.Background()

	// Initialize the session store
	var store api.Store
	switch cfg.Store.Driver {
	case "mongo":
		mongoStore, err := mongo.NewStore(ctx, cfg.Store.Mongo)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to connect to MongoDB")
		}
		defer mongoStore.Close(ctx)
		store = mongoStore
	case "firestore":
		firestoreStore, err := firestore.NewStore(ctx, cfg.Store.Firestore.ProjectID)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to connect to Firestore")
		}
		defer firestoreStore.Close()
		store = firestoreStore
	default:
		log.Fatal().Str("driver", cfg.Store.Driver).Msg("Unknown store driver")
	}

	// Initialize the session cache: Redis when enabled, in-process otherwise
	var cache session.Cache
	var redisClient *redis.Client
	if cfg.Redis.Enabled {
		redisClient, err = redis.NewClient(cfg.Redis)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to connect to Redis")
		}
		defer redisClient.Close()
		cache = redis.NewSessionCache(redisClient, cfg.Cache.TTL)
	} else {
		cache = session.NewMemoryCache(cfg.Cache.MaxEntries, cfg.Cache.TTL)
	}

	// Initialize router
	router, err := api.NewRouter(cfg, store, cache, redisClient)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize router")
	}

	// Create HTTP server
	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// Start server in goroutine
	go func() {
		log.Info().Msgf("Server listening on %s", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server stopped")
}
