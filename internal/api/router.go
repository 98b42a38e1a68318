package api

import (
	"log/slog"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"
	"github.com/thabo/boardwise/internal/actions"
	"github.com/thabo/boardwise/internal/api/handlers"
	"github.com/thabo/boardwise/internal/api/middleware"
	"github.com/thabo/boardwise/internal/audit"
	"github.com/thabo/boardwise/internal/auth"
	"github.com/thabo/boardwise/internal/directors"
	"github.com/thabo/boardwise/internal/drafting"
	"github.com/thabo/boardwise/internal/meetings"
	"github.com/thabo/boardwise/internal/repository"
	"github.com/thabo/boardwise/internal/voting"
	"github.com/thabo/boardwise/pkg/crypto"
	"gorm.io/gorm"
)

type Router struct {
	chi.Router
}

type RouterConfig struct {
	DB             *gorm.DB
	Redis          *redis.Client
	Logger         *slog.Logger
	JWTService     *auth.JWTService
	AuthService    *auth.Service
	Encryptor      *crypto.Encryptor
	AsynqClient    *asynq.Client
	DraftingClient *drafting.Client
	AllowedOrigins []string
	RateLimitReqs  int
	RateLimitSecs  int
}

func NewRouter(cfg RouterConfig) *Router {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Recovery(cfg.Logger))
	r.Use(middleware.Logging(cfg.Logger))

	if cfg.RateLimitReqs > 0 {
		r.Use(middleware.RateLimit(cfg.RateLimitReqs, cfg.RateLimitSecs))
	}

	allowedOrigins := cfg.AllowedOrigins
	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{"http://localhost:3000", "http://localhost:8080"}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"X-RateLimit-Limit", "X-RateLimit-Remaining", "X-RateLimit-Reset"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Shared collaborators
	issuer := crypto.NewSecretIssuer()
	recorder := audit.NewRecorder(cfg.DB, cfg.Logger, issuer)
	sessions := voting.NewSessions(recorder)

	// Services
	directorService := directors.NewService(cfg.DB, cfg.Logger, recorder, cfg.Encryptor, issuer)
	actionService := actions.NewService(cfg.DB, cfg.Logger, recorder)
	documentService := repository.NewService(cfg.DB, cfg.Logger, recorder)
	var enqueuer meetings.Enqueuer
	if cfg.AsynqClient != nil {
		enqueuer = cfg.AsynqClient
	}
	meetingService := meetings.NewService(cfg.DB, cfg.Logger, recorder, sessions, enqueuer)

	// Handlers
	healthHandler := handlers.NewHealthHandler(cfg.DB, cfg.Redis)
	authHandler := handlers.NewAuthHandler(cfg.AuthService, directorService)
	directorHandler := handlers.NewDirectorHandler(directorService)
	actionHandler := handlers.NewActionHandler(actionService)
	documentHandler := handlers.NewDocumentHandler(documentService)
	meetingHandler := handlers.NewMeetingHandler(meetingService, cfg.DraftingClient)
	voteHandler := handlers.NewVoteHandler(sessions)
	auditHandler := handlers.NewAuditHandler(recorder)

	// Health endpoints (no auth required)
	r.Get("/health", healthHandler.Health)
	r.Get("/ready", healthHandler.Ready)

	// Inbound channel webhook (WhatsApp/email simulation)
	r.Post("/webhooks/actions/{id}", actionHandler.InboundUpdate)

	r.Route("/api/v1", func(r chi.Router) {
		// Public auth endpoints
		r.Post("/auth/register", authHandler.Register)
		r.Post("/auth/login", authHandler.Login)
		r.Post("/auth/logout", authHandler.Logout)
		r.Post("/auth/forgot-password", authHandler.ForgotPassword)

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWTService))
			r.Use(middleware.LoadUser(cfg.AuthService))

			r.Get("/me", authHandler.Me)
			r.Get("/audit", auditHandler.List)

			r.Route("/directors", func(r chi.Router) {
				r.Get("/", directorHandler.List)
				r.Get("/{id}", directorHandler.Get)
				r.Put("/{id}", directorHandler.UpdateProfile)
				r.Post("/{id}/approve", directorHandler.ApproveOnboarding)
				r.Post("/{id}/terminate", directorHandler.InitiateTermination)
				r.Post("/{id}/terminate/approve", directorHandler.VoteTermination)
				r.Post("/{id}/freeze", directorHandler.ToggleFreeze)
				r.Post("/{id}/password-reset", directorHandler.RequestPasswordReset)
				r.Post("/{id}/password-reset/approve", directorHandler.ApprovePasswordReset)
			})

			r.Route("/actions", func(r chi.Router) {
				r.Get("/", actionHandler.List)
				r.Post("/", actionHandler.Create)
				r.Get("/{id}", actionHandler.Get)
				r.Post("/{id}/edit", actionHandler.RequestEdit)
				r.Post("/{id}/edit/approve", actionHandler.ApproveEdit)
			})

			r.Route("/documents", func(r chi.Router) {
				r.Get("/", documentHandler.List)
				r.Post("/", documentHandler.Upload)
				r.Get("/{id}", documentHandler.Get)
				r.Post("/{id}/delete", documentHandler.RequestDeletion)
				r.Post("/{id}/delete/approve", documentHandler.ApproveDeletion)
			})

			r.Route("/meetings", func(r chi.Router) {
				r.Get("/", meetingHandler.List)
				r.Post("/", meetingHandler.Schedule)
				r.Get("/{id}", meetingHandler.Get)
				r.Put("/{id}", meetingHandler.Update)
				r.Post("/{id}/start", meetingHandler.Start)
				r.Post("/{id}/close", meetingHandler.Close)
				r.Post("/{id}/join", meetingHandler.Join)
				r.Post("/{id}/leave", meetingHandler.Leave)
				r.Post("/{id}/declare", meetingHandler.DeclareInterests)
				r.Post("/{id}/compliance", meetingHandler.ReviewCompliance)

				r.Get("/{id}/resolution", voteHandler.CurrentResolution)
				r.Post("/{id}/resolution", voteHandler.TableResolution)
				r.Post("/{id}/resolution/vote", voteHandler.CastVote)
			})
		})
	})

	return &Router{r}
}
