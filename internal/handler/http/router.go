package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/utafrali/authcore/internal/service"
	"github.com/utafrali/authcore/pkg/health"
	"github.com/utafrali/authcore/pkg/middleware"
)

// TokenVerifier resolves a bearer token to the user id it was issued for.
type TokenVerifier interface {
	VerifyToken(token string) (int64, error)
}

// RouterDeps groups what NewRouter wires together.
type RouterDeps struct {
	ServiceName string
	Users       *service.UserService
	Tokens      TokenVerifier
	Errors      *ErrorTranslator
	Health      *health.Handler
	Metrics     *middleware.HTTPMetrics
	Gatherer    prometheus.Gatherer
	CORS        middleware.CORSConfig
	Logger      *slog.Logger
}

// NewRouter creates a chi router with all routes registered.
func NewRouter(deps RouterDeps) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.RequestLogging(deps.Logger))
	r.Use(middleware.Recovery(deps.Logger))
	r.Use(middleware.Tracing(deps.ServiceName))
	r.Use(middleware.RequestLogger(deps.Logger))
	r.Use(deps.Metrics.Middleware)
	r.Use(middleware.CORS(deps.CORS))

	// Health check and metrics endpoints
	r.Get("/health/live", deps.Health.LivenessHandler())
	r.Get("/health/ready", deps.Health.ReadinessHandler())
	r.Handle("/metrics", promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{}))

	validate := func(token string) (*middleware.Claims, error) {
		id, err := deps.Tokens.VerifyToken(token)
		if err != nil {
			return nil, err
		}
		return &middleware.Claims{UserID: id}, nil
	}

	h := NewAuthHandler(deps.Users, deps.Errors)
	r.Route("/auth", func(r chi.Router) {
		r.Use(middleware.RequireJSON)

		r.Post("/create-user", h.CreateUser)
		r.Post("/login", h.Login)

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(validate, deps.Errors.WriteError))

			r.Post("/get-user", h.GetUser)
			r.Post("/update-user", h.UpdateUser)
		})
	})

	return r
}
