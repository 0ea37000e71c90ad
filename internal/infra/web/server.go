package web

import (
	"context"
	"crypto/subtle"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"telegram-promo-gate/internal/domain"
	"telegram-promo-gate/internal/infra/logging"
	"telegram-promo-gate/internal/infra/metrics"
	"telegram-promo-gate/internal/usecase"
)

// Server exposes the health check, Prometheus metrics and the admin
// broadcast endpoint.
type Server struct {
	broadcastUC usecase.BroadcastUseCase
	adminToken  string
	log         *zerolog.Logger
	server      *http.Server
}

func NewServer(broadcastUC usecase.BroadcastUseCase, adminToken string, logger *zerolog.Logger) *Server {
	return &Server{
		broadcastUC: broadcastUC,
		adminToken:  adminToken,
		log:         logging.Component(logger, "WebServer"),
	}
}

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/ping", pingHandler)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/admin", func(r chi.Router) {
		r.Use(s.authMiddleware)
		r.Post("/broadcast", broadcastHandler(s.broadcastUC, s.log))
	})

	return r
}

func (s *Server) Start(port int) error {
	s.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	s.log.Info().Str("addr", s.server.Addr).Msg("http server listening")
	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

// authMiddleware matches the shared admin secret from the X-Admin-Token
// header or the admin_token query parameter. An empty configured secret
// disables the whole admin surface (fail-closed), and rejection happens
// before any request body is read.
func (s *Server) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		presented := r.Header.Get("X-Admin-Token")
		if presented == "" {
			presented = r.URL.Query().Get("admin_token")
		}
		if s.adminToken == "" || subtle.ConstantTimeCompare([]byte(presented), []byte(s.adminToken)) != 1 {
			metrics.IncAdminRequest("unauthorized")
			writeJSON(w, http.StatusForbidden, errorResponse{Error: domain.ErrForbidden.Error()})
			return
		}
		metrics.IncAdminRequest("authorized")
		next.ServeHTTP(w, r)
	})
}
