package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/hlog"

	"github.com/err0rre/Task-management/internal/api/handlers"
	"github.com/err0rre/Task-management/internal/auth"
	"github.com/err0rre/Task-management/internal/services"
	"github.com/err0rre/Task-management/internal/websocket"
)

// Dependencies groups everything the router wires into handlers.
type Dependencies struct {
	Logger         zerolog.Logger
	AllowedOrigins []string
	DB             handlers.Pinger
	Verifier       auth.Verifier
	Auth           services.AuthServiceProvider
	Users          services.UserServiceProvider
	Tasks          services.TaskServiceProvider
	Events         services.EventServiceProvider
	Hub            *websocket.Hub
}

// NewRouter creates and configures a new Chi router.
func NewRouter(deps Dependencies) *chi.Mux {
	r := chi.NewRouter()

	// Basic middleware stack
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(hlog.NewHandler(deps.Logger))
	r.Use(hlog.AccessHandler(func(r *http.Request, status, size int, duration time.Duration) {
		hlog.FromRequest(r).Info().
			Str("req_id", middleware.GetReqID(r.Context())).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", status).
			Int("size", size).
			Dur("duration", duration).
			Msg("Request handled")
	}))
	r.Use(middleware.Recoverer)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   deps.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	// Initialize handlers
	healthHandler := handlers.NewHealthHandler(deps.DB)
	authHandler := handlers.NewAuthHandler(deps.Auth)
	userHandler := handlers.NewUserHandler(deps.Users)
	taskHandler := handlers.NewTaskHandler(deps.Tasks)
	eventHandler := handlers.NewEventHandler(deps.Events)
	wsHandler := handlers.NewWebSocketHandler(deps.Hub, deps.AllowedOrigins)

	r.Get("/", handlers.Welcome)
	r.Get("/health", healthHandler.Live)
	r.Get("/health/ready", healthHandler.Ready)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Post("/register", authHandler.Register)
		r.Post("/login", authHandler.Login)

		// Everything below requires a valid bearer token.
		r.Group(func(r chi.Router) {
			r.Use(auth.Middleware(deps.Verifier))

			r.Get("/me", userHandler.GetMe)
			r.Get("/events", eventHandler.GetRecent)
			r.Get("/ws", wsHandler.Serve)

			r.Route("/tasks", func(r chi.Router) {
				r.Get("/", taskHandler.List)
				r.Post("/", taskHandler.Create)
				r.Put("/{id}", taskHandler.Update)
				r.Delete("/{id}", taskHandler.Delete)
			})
		})
	})

	return r
}
