package web

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/ozsupport/triaged/internal/config"
	"github.com/ozsupport/triaged/internal/dataset"
	"github.com/ozsupport/triaged/internal/llm"
	"github.com/ozsupport/triaged/internal/matching"
	"github.com/ozsupport/triaged/internal/storage"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const metricsNamespace = "triaged"

// getClientIP extracts the real client IP from the request.
// It checks X-Forwarded-For and X-Real-IP headers (set by reverse proxies like traefik),
// falling back to RemoteAddr if no proxy headers are present.
func getClientIP(r *http.Request) string {
	// X-Forwarded-For may contain multiple IPs: "client, proxy1, proxy2"
	// The first one is the original client IP
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		if idx := strings.Index(xff, ","); idx != -1 {
			return strings.TrimSpace(xff[:idx])
		}
		return strings.TrimSpace(xff)
	}

	// X-Real-IP is typically set by nginx/traefik
	if xrip := r.Header.Get("X-Real-IP"); xrip != "" {
		return xrip
	}

	// Fallback to RemoteAddr (strips port if present)
	addr := r.RemoteAddr
	if idx := strings.LastIndex(addr, ":"); idx != -1 {
		return addr[:idx]
	}
	return addr
}

type Server struct {
	cfg       *config.Config
	logger    *slog.Logger
	cache     *dataset.Cache
	matcher   *matching.Service
	llm       llm.Client
	enquiries storage.EnquiryRepository
	now       func() time.Time
	wg        sync.WaitGroup
}

func NewServer(logger *slog.Logger, cfg *config.Config, cache *dataset.Cache, matcher *matching.Service, llmClient llm.Client, enquiries storage.EnquiryRepository) *Server {
	return &Server{
		cfg:       cfg,
		logger:    logger.With("component", "web_server"),
		cache:     cache,
		matcher:   matcher,
		llm:       llmClient,
		enquiries: enquiries,
		now:       time.Now,
	}
}

func (s *Server) Start(ctx context.Context) error {
	// Check and generate password if needed
	if s.cfg.Server.Auth.Enabled && s.cfg.Server.Auth.Password == "" {
		bytes := make([]byte, 6) // 12 hex chars
		if _, err := rand.Read(bytes); err != nil {
			return fmt.Errorf("failed to generate random password: %w", err)
		}
		s.cfg.Server.Auth.Password = hex.EncodeToString(bytes)
		fmt.Printf("\n⚠️  History endpoint password not set, generated: %s\n\n", s.cfg.Server.Auth.Password)
		s.logger.Info("History endpoint password auto-generated (see console output)")
	}

	mux := http.NewServeMux()

	mux.HandleFunc("/api/analyse", instrumentHandler("analyse", s.analyseHandler))

	// History is a debug/operator surface, not part of the public API.
	if s.cfg.Server.DebugMode {
		mux.HandleFunc("/api/history", instrumentHandler("history", s.historyHandler))
		s.logger.Info("Debug endpoint enabled at /api/history")
	}

	mux.HandleFunc("/healthz", instrumentHandler("healthz", s.healthzHandler))
	mux.Handle("/metrics", promhttp.Handler())

	// Wrap the mux with middlewares
	// Chain: Logging -> Auth -> CORS -> Mux
	handler := s.corsMiddleware(mux)
	handler = s.basicAuthMiddleware(handler)
	handler = s.loggingMiddleware(handler)

	server := &http.Server{
		Addr:              ":" + s.cfg.Server.ListenPort,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			s.logger.Error("web server shutdown failed", "error", err)
		}
	}()

	s.logger.Info("Starting web server", "port", s.cfg.Server.ListenPort)
	err := server.ListenAndServe()
	if err != http.ErrServerClosed {
		return err
	}
	s.wg.Wait() // Wait for in-flight audit writes to finish
	return nil
}

func (s *Server) healthzHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}

// historyHandler returns recent audit-log entries. GET /api/history?limit=N.
func (s *Server) historyHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}

	limit := 50
	if lStr := r.URL.Query().Get("limit"); lStr != "" {
		if _, err := fmt.Sscanf(lStr, "%d", &limit); err != nil || limit < 1 {
			limit = 50
		}
	}

	logs, err := s.enquiries.GetRecentEnquiries(limit)
	if err != nil {
		s.logger.Error("failed to get enquiry history", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "Failed to get history", Details: err.Error()})
		return
	}
	total, err := s.enquiries.CountEnquiries()
	if err != nil {
		s.logger.Error("failed to count enquiries", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "Failed to get history", Details: err.Error()})
		return
	}

	type historyEntry struct {
		ID              int64   `json:"id"`
		EnquiryText     string  `json:"enquiryText"`
		DetectedProduct *string `json:"detectedProduct"`
		MatchedModel    *string `json:"matchedModel"`
		WarrantyYears   *int    `json:"warrantyYears"`
		MatchedCases    int     `json:"matchedCases"`
		DebugMode       bool    `json:"debugMode"`
		DurationMs      int     `json:"durationMs"`
		InputTokens     int64   `json:"inputTokens"`
		OutputTokens    int64   `json:"outputTokens"`
		CreatedAt       string  `json:"createdAt"`
	}

	entries := make([]historyEntry, 0, len(logs))
	for _, l := range logs {
		entries = append(entries, historyEntry{
			ID:              l.ID,
			EnquiryText:     l.EnquiryText,
			DetectedProduct: l.DetectedProduct,
			MatchedModel:    l.MatchedModel,
			WarrantyYears:   l.WarrantyYears,
			MatchedCases:    l.MatchedCases,
			DebugMode:       l.DebugMode,
			DurationMs:      l.DurationMs,
			InputTokens:     l.InputTokens,
			OutputTokens:    l.OutputTokens,
			CreatedAt:       l.CreatedAt.UTC().Format(time.RFC3339),
		})
	}

	writeJSON(w, http.StatusOK, struct {
		Total     int            `json:"total"`
		Enquiries []historyEntry `json:"enquiries"`
	}{Total: total, Enquiries: entries})
}

func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path := r.URL.Path

		// Log healthz and metrics at debug level, other requests at info level
		if path == "/healthz" || path == "/metrics" {
			s.logger.Debug("Received HTTP request",
				"method", r.Method,
				"path", path,
				"client_ip", getClientIP(r),
			)
		} else {
			s.logger.Info("Received HTTP request",
				"method", r.Method,
				"path", path,
				"client_ip", getClientIP(r),
				"user_agent", r.UserAgent(),
			)
		}
		next.ServeHTTP(w, r)
	})
}

// corsMiddleware sets the permissive CORS headers the browser front-end
// expects and answers OPTIONS preflights directly.
func (s *Server) corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(r.URL.Path, "/api/") {
			w.Header().Set("Access-Control-Allow-Origin", "*")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type,Authorization")
			w.Header().Set("Access-Control-Allow-Methods", "POST,OPTIONS")

			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusOK)
				return
			}
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) basicAuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Only protect the history endpoint
		if strings.HasPrefix(r.URL.Path, "/api/history") {
			if !s.cfg.Server.Auth.Enabled {
				next.ServeHTTP(w, r)
				return
			}

			user, pass, ok := r.BasicAuth()
			if !ok || user != s.cfg.Server.Auth.Username || pass != s.cfg.Server.Auth.Password {
				w.Header().Set("WWW-Authenticate", `Basic realm="Restricted"`)
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}
		}
		next.ServeHTTP(w, r)
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
