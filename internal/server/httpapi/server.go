// Package httpapi exposes the auth service over HTTP.
package httpapi

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/dmitrijs2005/learnpoke/internal/logging"
	"github.com/dmitrijs2005/learnpoke/internal/server/auth"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const shutdownTimeout = 10 * time.Second

// AuthService is the subset of services.AuthService used by the handlers.
type AuthService interface {
	Register(ctx context.Context, username, password, recoveryAnswer string) error
	Login(ctx context.Context, username, password string) (string, error)
	ResetPassword(ctx context.Context, username, recoveryAnswer, newPassword, confirmPassword string) error
}

// TokenValidator checks bearer tokens on protected routes.
type TokenValidator interface {
	Validate(token string) (*auth.Claims, error)
}

type HTTPServer struct {
	address  string
	auth     AuthService
	tokens   TokenValidator
	gatherer prometheus.Gatherer
	logger   logging.Logger
}

// NewHTTPServer builds the server. gatherer backs /metrics; a nil gatherer
// disables the endpoint.
func NewHTTPServer(a string, l logging.Logger, as AuthService, tv TokenValidator, g prometheus.Gatherer) *HTTPServer {
	return &HTTPServer{
		address:  a,
		auth:     as,
		tokens:   tv,
		gatherer: g,
		logger:   l.With("module", "http_server"),
	}
}

// Routes returns the application router.
func (s *HTTPServer) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)

	r.Get("/", s.handleHealth)

	r.Route("/api/auth", func(r chi.Router) {
		r.Post("/register", s.handleRegister)
		r.Post("/login", s.handleLogin)
		r.Post("/reset", s.handleResetPassword)

		r.Group(func(r chi.Router) {
			r.Use(s.requireBearerToken)
			r.Get("/session", s.handleSession)
		})
	})

	if s.gatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
	}

	return r
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *HTTPServer) Run(ctx context.Context) error {

	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Handler:           s.Routes(),
		ReadHeaderTimeout: 5 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	go func() {
		<-ctx.Done()
		s.logger.Info(context.Background(), "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Error(shutdownCtx, "HTTP server shutdown failed", "error", err)
		}
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", listen.Addr().String())

	if err := srv.Serve(listen); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}
