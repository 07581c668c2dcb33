// Package fakeapi is an in-memory implementation of the Mytherion REST
// API. It backs the client's end-to-end tests and the serve-fake command.
package fakeapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/mytherion/client/internal/logger"
)

// Options configures a Server.
type Options struct {
	// Addr is the listen address used by Start, e.g. ":8080".
	Addr string
	// Secret signs session tokens. A random secret is used when empty.
	Secret string
	// Now overrides the clock.
	Now    func() time.Time
	Logger *logger.Logger
}

// Server wraps the HTTP server and router.
type Server struct {
	httpServer *http.Server
	router     *chi.Mux
	mem        *memory
}

// New constructs a Server with every route mounted under /api.
func New(opts Options) *Server {
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	secret := opts.Secret
	if secret == "" {
		secret = uuid.NewString()
	}
	log := opts.Logger
	if log == nil {
		log = logger.Nop()
	}
	log = log.Child(logger.Fields{"component": "fakeapi"})

	mem := newMemory()
	auth := newAuthHandler(mem, []byte(secret), now, log)
	projects := &ProjectHandler{mem: mem, now: now}
	entities := &EntityHandler{mem: mem, now: now}

	router := chi.NewRouter()
	router.Use(
		middleware.RequestID,
		middleware.RealIP,
		middleware.Recoverer,
		requestLogger(log),
	)
	router.Get("/healthz", Healthz)
	router.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			authRouter(r, auth)
		})
		r.Group(func(r chi.Router) {
			r.Use(auth.RequireAuth)
			r.Route("/projects", func(r chi.Router) {
				projectRouter(r, projects, entities)
			})
			r.Route("/entities", func(r chi.Router) {
				entityRouter(r, entities)
			})
		})
	})

	addr := opts.Addr
	if addr == "" {
		addr = ":8080"
	}

	return &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      router,
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		router: router,
		mem:    mem,
	}
}

// Healthz reports liveness.
func Healthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Handler exposes the router, e.g. for httptest.NewServer.
func (s *Server) Handler() http.Handler {
	return s.router
}

// VerificationToken returns the pending verification token of email, as
// the verification mail would carry it.
func (s *Server) VerificationToken(email string) (string, bool) {
	return s.mem.pendingToken(email)
}

// Start runs the HTTP server until Shutdown.
func (s *Server) Start() error {
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown attempts a graceful shutdown.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

func requestLogger(log *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)
			log.Debug("Handled request", logger.Fields{
				"method":     r.Method,
				"path":       r.URL.Path,
				"status":     ww.Status(),
				"durationMs": time.Since(start).Milliseconds(),
				"requestId":  middleware.GetReqID(r.Context()),
			})
		})
	}
}
