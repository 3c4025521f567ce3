package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog/log"

	"github.com/purva-labs/sahayak-api/internal/api/handler"
	customMiddleware "github.com/purva-labs/sahayak-api/internal/api/middleware"
	"github.com/purva-labs/sahayak-api/internal/config"
	"github.com/purva-labs/sahayak-api/internal/domain"
	"github.com/purva-labs/sahayak-api/internal/llm/gemini"
	"github.com/purva-labs/sahayak-api/internal/repository/redis"
	"github.com/purva-labs/sahayak-api/internal/service"
	"github.com/purva-labs/sahayak-api/internal/session"
)

// Store bundles session persistence, the user directory and the
// readiness probe. Both the Firestore and Mongo stores satisfy it.
type Store interface {
	domain.SessionRepository
	domain.UserRepository
	handler.HealthChecker
}

// NewRouter creates and configures the HTTP router
func NewRouter(cfg *config.Config, store Store, cache session.Cache, redisClient *redis.Client) (http.Handler, error) {
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
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	logger := log.Logger

	// Initialize session manager and model provider
	sessions := session.NewManager(store, store, cache, logger)
	provider := gemini.NewProvider(cfg.Gemini)
	if !provider.IsConfigured() {
		log.Warn().Msg("Gemini API key is empty, generation endpoints will report errors")
	}

	// Initialize services
	contentService := service.NewContentService(provider, logger)
	agentService := service.NewAgentService(contentService, provider, sessions, logger)
	analysisService := service.NewAnalysisService(provider, sessions, logger)
	worksheetService, err := service.NewWorksheetService(provider, sessions, cfg.Assets, logger)
	if err != nil {
		return nil, err
	}
	visualAidService, err := service.NewVisualAidService(provider, sessions, cfg.Assets, logger)
	if err != nil {
		return nil, err
	}

	// Initialize handlers
	userHandler := handler.NewUserHandler(store)
	sessionHandler := handler.NewSessionHandler(sessions)
	agentHandler := handler.NewAgentHandler(agentService, contentService)
	contentHandler := handler.NewContentHandler(analysisService)
	worksheetHandler := handler.NewWorksheetHandler(worksheetService)
	visualAidHandler := handler.NewVisualAidHandler(visualAidService)

	// The limiter stays nil without Redis, which makes the middleware
	// a pass-through.
	var rateLimiter *redis.RateLimiter
	if redisClient != nil {
		rateLimiter = redis.NewRateLimiter(redisClient, cfg.Security.RateLimit)
	}
	rateLimitMiddleware := customMiddleware.NewRateLimitMiddleware(rateLimiter)

	r.Route("/api/v1", func(r chi.Router) {
		// Health check
		r.Get("/health", handler.HealthCheck)
		r.Get("/ready", handler.ReadyCheck(store))

		// User registration
		r.Route("/users", func(r chi.Router) {
			r.Post("/register", userHandler.Register)
		})

		// Session inspection
		r.Route("/sessions", func(r chi.Router) {
			r.Get("/history/{userID}", sessionHandler.History)
			r.Delete("/clear/{userID}", sessionHandler.Clear)
			r.Get("/info/{userID}", sessionHandler.Info)
			r.Get("/all/{userID}", sessionHandler.ListAll)
			r.Post("/by-id", sessionHandler.ByID)
			r.Get("/by-id/{sessionID}/{userID}", sessionHandler.ByIDPath)
		})

		// Generation routes, rate limited per client IP
		r.Group(func(r chi.Router) {
			r.Use(rateLimitMiddleware.Limit)

			r.Route("/agent", func(r chi.Router) {
				r.Post("/query", agentHandler.Query)
				r.Post("/hyper-local-content", agentHandler.HyperLocalContent)
				r.Get("/health", handler.AgentHealth(provider))
			})

			r.Post("/content/generate", contentHandler.GenerateFromUpload)
			r.Post("/content/generate-from-base64", contentHandler.GenerateFromBase64)

			r.Route("/worksheets", func(r chi.Router) {
				r.Post("/generate", worksheetHandler.Generate)
				r.Get("/types", worksheetHandler.Types)
			})

			r.Post("/visual-aids", visualAidHandler.Generate)
		})
	})

	// Serve generated artifacts
	r.Handle("/generated_pdfs/*", http.StripPrefix("/generated_pdfs/", http.FileServer(http.Dir(cfg.Assets.PDFDir))))
	r.Handle("/generated_images/*", http.StripPrefix("/generated_images/", http.FileServer(http.Dir(cfg.Assets.ImageDir))))

	return r, nil
}
