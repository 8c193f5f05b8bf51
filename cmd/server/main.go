package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/Rrens/hospital-chat/internal/api"
	"github.com/Rrens/hospital-chat/internal/config"
	"github.com/Rrens/hospital-chat/internal/ingest"
	"github.com/Rrens/hospital-chat/internal/repository/postgres"
	"github.com/Rrens/hospital-chat/internal/repository/redis"
	"github.com/Rrens/hospital-chat/internal/repository/sqlite"
	"github.com/Rrens/hospital-chat/internal/retrieval/embed"
	"github.com/Rrens/hospital-chat/internal/retrieval/memory"
	"github.com/Rrens/hospital-chat/internal/retrieval/mongo"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	// Load .env file - try multiple locations
	envPaths := []string{".env", "../.env", "../../.env"}
	for _, p := range envPaths {
		if err := godotenv.Load(p); err == nil {
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

	if level, err := zerolog.ParseLevel(cfg.Logging.Level); err == nil {
		zerolog.SetGlobalLevel(level)
	}

	log.Info().
		Str("host", cfg.Server.Host).
		Int("port", cfg.Server.Port).
		Str("hospital", cfg.Hospital.Name).
		Msg("Starting hospital chat API server")

	ctx := context.Background()

	// Initialize database for chat logs
	db, err := postgres.NewDB(ctx, cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer db.Close()

	// Initialize Redis for rate limiting and the context cache
	redisClient, err := redis.NewClient(cfg.Redis)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer redisClient.Close()

	// Initialize the local appointment request store
	appointmentRepo, err := sqlite.NewAppointmentRepository(cfg.SQLite.Path)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open appointment store")
	}
	defer appointmentRepo.Close()

	// Initialize the retrieval backend
	kb, cleanup, err := newKnowledgeBase(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize retrieval backend")
	}
	if cleanup != nil {
		defer cleanup()
	}

	// Index the knowledge base from disk. A missing document directory is
	// tolerated so the server can start before documents are provisioned.
	if err := indexDocuments(ctx, cfg, kb); err != nil {
		log.Warn().Err(err).Str("dir", cfg.DocumentDir).Msg("Knowledge base indexing failed, retrieval will be empty")
	}

	// Initialize router
	router := api.NewRouter(cfg, db, redisClient, kb, appointmentRepo)

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

// newKnowledgeBase selects the retrieval backend from configuration. The
// in-memory index embeds with Gemini; the mongo backend uses text search and
// needs no embedder.
func newKnowledgeBase(ctx context.Context, cfg *config.Config) (api.KnowledgeBase, func(), error) {
	switch cfg.Retrieval.Backend {
	case "mongo":
		retriever, err := mongo.NewRetriever(ctx, cfg.Retrieval.MongoURI, cfg.Retrieval.MongoDatabase)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to connect to mongo: %w", err)
		}
		cleanup := func() {
			if err := retriever.Close(context.Background()); err != nil {
				log.Warn().Err(err).Msg("failed to close mongo retriever")
			}
		}
		return retriever, cleanup, nil
	case "memory":
		embedder := embed.NewGeminiEmbedder(cfg.LLM.Gemini)
		return memory.NewIndex(embedder), nil, nil
	default:
		return nil, nil, fmt.Errorf("unknown retrieval backend: %q", cfg.Retrieval.Backend)
	}
}

func indexDocuments(ctx context.Context, cfg *config.Config, kb api.KnowledgeBase) error {
	docs, err := ingest.LoadDir(cfg.DocumentDir)
	if err != nil {
		return fmt.Errorf("failed to load documents: %w", err)
	}
	if len(docs) == 0 {
		log.Warn().Str("dir", cfg.DocumentDir).Msg("No documents found")
		return nil
	}

	splitter := ingest.NewSplitter(
		cfg.Retrieval.ChunkSize,
		cfg.Retrieval.ChunkOverlap,
		cfg.Retrieval.MaxChunks,
	)
	chunks := splitter.Split(docs)

	if err := kb.Index(ctx, chunks); err != nil {
		return fmt.Errorf("failed to index documents: %w", err)
	}

	log.Info().Int("documents", len(docs)).Int("chunks", len(chunks)).Msg("Knowledge base indexed")
	return nil
}
