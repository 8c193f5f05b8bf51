package api

import (
	"net/http"

	"github.com/Rrens/hospital-chat/internal/api/handler"
	customMiddleware "github.com/Rrens/hospital-chat/internal/api/middleware"
	"github.com/Rrens/hospital-chat/internal/appointment"
	"github.com/Rrens/hospital-chat/internal/config"
	"github.com/Rrens/hospital-chat/internal/domain"
	"github.com/Rrens/hospital-chat/internal/ingest"
	"github.com/Rrens/hospital-chat/internal/llm"
	"github.com/Rrens/hospital-chat/internal/llm/gemini"
	"github.com/Rrens/hospital-chat/internal/llm/ollama"
	"github.com/Rrens/hospital-chat/internal/llm/openai"
	"github.com/Rrens/hospital-chat/internal/repository/postgres"
	"github.com/Rrens/hospital-chat/internal/repository/redis"
	"github.com/Rrens/hospital-chat/internal/retrieval"
	"github.com/Rrens/hospital-chat/internal/security"
	"github.com/Rrens/hospital-chat/internal/service"
	"github.com/Rrens/hospital-chat/internal/session"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog/log"
)

// KnowledgeBase is the retrieval backend the router wires in: searchable for
// chat, reindexable for document management.
type KnowledgeBase interface {
	retrieval.Retriever
	retrieval.Indexer
}

// NewRouter creates and configures the HTTP router
func NewRouter(
	cfg *config.Config,
	db *postgres.DB,
	redisClient *redis.Client,
	kb KnowledgeBase,
	appointmentRepo domain.AppointmentRepository,
) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(customMiddleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(cfg.Server.MiddlewareTimeout))

	// CORS
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Initialize security components
	jwtManager := security.NewJWTManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTL)

	// Initialize rate limiter and context cache
	rateLimiter := redis.NewRateLimiter(
		redisClient,
		cfg.Security.RateLimit.RequestsPerMinute,
		cfg.Security.RateLimit.Burst,
	)
	contextCache := redis.NewContextCache(redisClient, cfg.Retrieval.CacheTTL)

	// Initialize LLM Router with providers
	llmRouter := llm.NewRouter(cfg.LLM.DefaultProvider, cfg.LLM.RequestTimeout)

	log.Info().Msgf("Initializing LLM providers. Default: %s", cfg.LLM.DefaultProvider)

	if cfg.LLM.Gemini.APIKey != "" {
		llmRouter.RegisterProvider(gemini.NewProvider(cfg.LLM.Gemini))
	} else {
		log.Warn().Msg("Gemini API key is empty, skipping registration")
	}
	if cfg.LLM.OpenAI.APIKey != "" {
		llmRouter.RegisterProvider(openai.NewProvider(cfg.LLM.OpenAI))
	}
	if cfg.LLM.Ollama.Host != "" {
		llmRouter.RegisterProvider(ollama.NewProvider(cfg.LLM.Ollama.Host, cfg.LLM.Ollama.DefaultModel))
	}

	// Initialize the retrieval pipeline and chat engine
	orchestrator := retrieval.NewOrchestrator(kb, cfg.Retrieval.MaxSnippets)
	gatherer := retrieval.NewCachedOrchestrator(orchestrator, contextCache)
	sessions := session.NewStore(cfg.Session.Timeout)
	detector := appointment.NewRegexDetector(appointmentRepo)
	chatLogRepo := postgres.NewChatLogRepository(db)

	chatService := service.NewChatService(
		sessions,
		gatherer,
		llmRouter,
		detector,
		chatLogRepo,
		cfg.Hospital,
	)

	splitter := ingest.NewSplitter(
		cfg.Retrieval.ChunkSize,
		cfg.Retrieval.ChunkOverlap,
		cfg.Retrieval.MaxChunks,
	)

	// Initialize handlers
	chatHandler := handler.NewChatHandler(chatService)
	authHandler := handler.NewAuthHandler(jwtManager, cfg.Auth)
	documentHandler := handler.NewDocumentHandler(cfg.DocumentDir, splitter, kb, contextCache)
	appointmentHandler := handler.NewAppointmentHandler(appointmentRepo)
	chatLogHandler := handler.NewChatLogHandler(chatLogRepo)

	// Auth middleware
	authMiddleware := customMiddleware.NewAuthMiddleware(jwtManager)
	rateLimitMiddleware := customMiddleware.NewRateLimitMiddleware(rateLimiter)

	r.Route("/api/v1", func(r chi.Router) {
		// Health check
		r.Get("/health", handler.HealthCheck)
		r.Get("/ready", handler.ReadyCheck(db, kb))
		r.Get("/system/status", handler.SystemStatus(kb, sessions, llmRouter))

		// Auth routes (public)
		r.Post("/auth/token", authHandler.Token)

		// Chat: open to anonymous visitors, token identity wins when present
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.Identify)
			r.Use(rateLimitMiddleware.Limit)

			r.Post("/chat", chatHandler.Message)
		})

		// Admin routes
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.Identify)
			r.Use(authMiddleware.RequireRole(domain.RoleAdmin))

			r.Get("/appointments", appointmentHandler.List)
			r.Get("/chat-logs", chatLogHandler.ListByUser)

			r.Route("/documents", func(r chi.Router) {
				r.Get("/", documentHandler.List)
				r.Post("/", documentHandler.Upload)
				r.Post("/reload", documentHandler.Reload)
			})
		})
	})

	return r
}
