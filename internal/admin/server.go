// Package admin exposes the HTTP interface for searching the corpus and
// curating domain lists.
package admin

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/pybash1/provoke/internal/search"
	"github.com/pybash1/provoke/internal/store"
)

// Server wires HTTP handlers to the stores and the search engine.
type Server struct {
	router  chi.Router
	pages   store.PageStore
	domains store.DomainLists
	labels  store.LabelCorpus
	engine  *search.Engine
	logger  *zap.Logger
}

// NewServer constructs a Server with middleware and routes.
func NewServer(
	pages store.PageStore,
	domains store.DomainLists,
	labels store.LabelCorpus,
	engine *search.Engine,
	logger *zap.Logger,
) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{
		pages:   pages,
		domains: domains,
		labels:  labels,
		engine:  engine,
		logger:  logger,
	}

	r := chi.NewRouter()
	r.Use(requestIDMiddleware)
	r.Use(s.loggingMiddleware)
	r.Use(s.recoverMiddleware)
	r.Use(timeoutMiddleware(60 * time.Second))

	r.Get("/healthz", s.healthz)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/v1", func(r chi.Router) {
		r.Get("/stats", s.getStats)
		r.Get("/search", s.searchPages)
		r.Get("/pages", s.getPage)
		r.Delete("/pages", s.deletePage)
		r.Route("/domains", func(r chi.Router) {
			r.Get("/", s.listDomains)
			r.Post("/blacklist", s.addDomain(s.domains.AddToBlacklist))
			r.Delete("/blacklist/{domain}", s.removeDomain(s.domains.RemoveFromBlacklist))
			r.Post("/whitelist", s.addDomain(s.domains.AddToWhitelist))
			r.Delete("/whitelist/{domain}", s.removeDomain(s.domains.RemoveFromWhitelist))
		})
	})

	s.router = r
	return s
}

// Handler returns the Router for use with http.Server.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) healthz(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) getStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.pages.Stats(r.Context())
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, "failed to load stats")
		s.logger.Error("stats query failed", zap.Error(err))
		return
	}
	s.writeJSON(w, http.StatusOK, stats)
}

func (s *Server) searchPages(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	if query == "" {
		s.writeError(w, http.StatusBadRequest, "missing query parameter q")
		return
	}
	results := s.engine.Search(r.Context(), query)
	s.writeJSON(w, http.StatusOK, map[string]any{
		"query":   query,
		"count":   len(results),
		"results": results,
	})
}

func (s *Server) getPage(w http.ResponseWriter, r *http.Request) {
	url := r.URL.Query().Get("url")
	if url == "" {
		s.writeError(w, http.StatusBadRequest, "missing query parameter url")
		return
	}
	page, err := s.pages.GetPage(r.Context(), url)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			s.writeError(w, http.StatusNotFound, "page not found")
			return
		}
		s.writeError(w, http.StatusInternalServerError, "failed to load page")
		s.logger.Error("page lookup failed", zap.String("url", url), zap.Error(err))
		return
	}
	s.writeJSON(w, http.StatusOK, page)
}

// deletePage removes a page from the corpus and records it as a labeled
// example so the classifier can learn from the curation decision.
func (s *Server) deletePage(w http.ResponseWriter, r *http.Request) {
	url := r.URL.Query().Get("url")
	if url == "" {
		s.writeError(w, http.StatusBadRequest, "missing query parameter url")
		return
	}
	label := r.URL.Query().Get("label")
	if label == "" {
		label = "bad"
	}
	page, err := s.pages.DeletePage(r.Context(), url)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			s.writeError(w, http.StatusNotFound, "page not found")
			return
		}
		s.writeError(w, http.StatusInternalServerError, "failed to delete page")
		s.logger.Error("page delete failed", zap.String("url", url), zap.Error(err))
		return
	}
	if s.labels != nil {
		if err := s.labels.AppendLabel(r.Context(), page, label); err != nil {
			s.logger.Warn("failed to append label", zap.String("url", url), zap.Error(err))
		}
	}
	s.writeJSON(w, http.StatusOK, map[string]string{"url": url, "label": label})
}

func (s *Server) listDomains(w http.ResponseWriter, r *http.Request) {
	blacklist, whitelist, err := s.domains.LoadDomainLists(r.Context())
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, "failed to load domain lists")
		s.logger.Error("domain list query failed", zap.Error(err))
		return
	}
	s.writeJSON(w, http.StatusOK, map[string][]string{
		"blacklist": setToSlice(blacklist),
		"whitelist": setToSlice(whitelist),
	})
}

type domainRequest struct {
	Domain string `json:"domain"`
}

func (s *Server) addDomain(add func(context.Context, string) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req domainRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Domain == "" {
			s.writeError(w, http.StatusBadRequest, "missing domain")
			return
		}
		if err := add(r.Context(), req.Domain); err != nil {
			s.writeError(w, http.StatusInternalServerError, "failed to add domain")
			s.logger.Error("domain add failed", zap.String("domain", req.Domain), zap.Error(err))
			return
		}
		s.writeJSON(w, http.StatusOK, map[string]string{"domain": req.Domain})
	}
}

func (s *Server) removeDomain(remove func(context.Context, string) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		domain := chi.URLParam(r, "domain")
		if domain == "" {
			s.writeError(w, http.StatusBadRequest, "missing domain")
			return
		}
		if err := remove(r.Context(), domain); err != nil {
			s.writeError(w, http.StatusInternalServerError, "failed to remove domain")
			s.logger.Error("domain remove failed", zap.String("domain", domain), zap.Error(err))
			return
		}
		s.writeJSON(w, http.StatusOK, map[string]string{"domain": domain})
	}
}

func setToSlice(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	return out
}

type requestIDKey struct{}

func requestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reqID := uuid.NewString()
		ctx := context.WithValue(r.Context(), requestIDKey{}, reqID)
		w.Header().Set("X-Request-ID", reqID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(ww, r)
		s.logger.Info("request completed",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.status),
			zap.Int64("duration_ms", time.Since(start).Milliseconds()),
		)
	})
}

func (s *Server) recoverMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				s.logger.Error("panic recovered", zap.Any("error", rec))
				s.writeError(w, http.StatusInternalServerError, "internal server error")
			}
		}()
		next.ServeHTTP(w, r)
	})
}

func timeoutMiddleware(d time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.TimeoutHandler(next, d, "request timed out")
	}
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (sw *statusWriter) WriteHeader(code int) {
	sw.status = code
	sw.ResponseWriter.WriteHeader(code)
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.logger.Error("write JSON failed", zap.Error(err))
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, msg string) {
	s.writeJSON(w, status, map[string]string{"error": msg})
}
