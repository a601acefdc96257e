package http

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/vibin/crop-advisor/config"
	"github.com/vibin/crop-advisor/internal/core/services"
	"github.com/vibin/crop-advisor/internal/logger"
)

type ctxKey string

const loggerKey ctxKey = "logger"

// Handler is the HTTP handler for the advisor API
type Handler struct {
	service *services.AdvisorService
	logger  logger.Logger
	router  *chi.Mux
	config  *config.Config
}

// NewHandler creates a new HTTP handler
func NewHandler(service *services.AdvisorService, cfg *config.Config, log logger.Logger) *Handler {
	h := &Handler{
		service: service,
		logger:  log,
		config:  cfg,
	}

	h.setupRouter()
	return h
}

// setupRouter sets up the Chi router with middleware and routes
func (h *Handler) setupRouter() {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(LoggerMiddleware(h.logger))
	r.Use(middleware.Recoverer)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	r.Post("/check-plant", h.CheckPlant)
	r.Post("/chat", h.Chat)

	r.Get("/health", h.Health)
	r.Get("/api/model", h.GetModelInfo)

	h.router = r
}

// ServeHTTP implements the http.Handler interface
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.router.ServeHTTP(w, r)
}

// Health reports that the process is serving
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	h.respondWithJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"service": "crop-advisor",
	})
}

// GetModelInfo handles the get model info request
func (h *Handler) GetModelInfo(w http.ResponseWriter, r *http.Request) {
	info, err := h.service.GetModelInfo(r.Context())
	if err != nil {
		h.respondWithFailure(w, r, err)
		return
	}

	h.respondWithJSON(w, http.StatusOK, info)
}

// respondWithJSON sends a JSON response
func (h *Handler) respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		h.logger.Error("Failed to marshal JSON response", "error", err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	w.Write(response)
}

// LoggerMiddleware is a middleware that logs HTTP requests
func LoggerMiddleware(log logger.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			reqLog := log.WithContext(r.Context()).WithField("request_id", middleware.GetReqID(r.Context()))
			ctx := context.WithValue(r.Context(), loggerKey, reqLog)

			defer func() {
				reqLog.Debug("HTTP request",
					"method", r.Method,
					"path", r.URL.Path,
					"status", ww.Status(),
					"bytes", ww.BytesWritten(),
					"duration", time.Since(start),
				)
			}()

			next.ServeHTTP(ww, r.WithContext(ctx))
		})
	}
}

// requestLogger returns the request scoped logger set by LoggerMiddleware
func (h *Handler) requestLogger(r *http.Request) logger.Logger {
	if l, ok := r.Context().Value(loggerKey).(logger.Logger); ok {
		return l
	}
	return h.logger
}
