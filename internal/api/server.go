package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/kurpanel/kurpanel-backend/internal/dashboard"
)

var dateRegexp = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

type Server struct {
	dash       *dashboard.Service
	httpServer *http.Server
	apiKey     string
}

func NewServer(dash *dashboard.Service, port int, apiKey, corsOrigin string) *Server {
	s := &Server{
		dash:   dash,
		apiKey: apiKey,
	}

	mux := http.NewServeMux()

	// Rate routes
	mux.HandleFunc("GET /v1/rates/latest", s.handleRatesLatest)
	mux.HandleFunc("GET /v1/rates/convert", s.handleConvert)

	// Gold routes
	mux.HandleFunc("GET /v1/gold/latest", s.handleGoldLatest)
	mux.HandleFunc("GET /v1/gold/{code}/history", s.handleGoldHistory)

	// Portfolio routes
	mux.HandleFunc("GET /v1/portfolio/summary", s.handlePortfolioSummary)
	mux.HandleFunc("GET /v1/portfolio/{category}", s.handlePortfolioList)
	mux.HandleFunc("POST /v1/portfolio/{category}", s.handlePortfolioAdd)
	mux.HandleFunc("DELETE /v1/portfolio/{category}/{code}", s.handlePortfolioRemove)
	mux.HandleFunc("PUT /v1/portfolio/{category}/{code}/amount", s.handlePortfolioSetAmount)
	mux.HandleFunc("GET /v1/portfolio/{category}/{code}/history", s.handlePortfolioSparkline)

	// Simulation
	mux.HandleFunc("POST /v1/simulate", s.handleSimulate)

	// Notification routes
	mux.HandleFunc("GET /v1/notifications", s.handleNotificationsList)
	mux.HandleFunc("POST /v1/notifications/{id}/read", s.handleNotificationRead)
	mux.HandleFunc("DELETE /v1/notifications", s.handleNotificationsClear)

	// Health check (no auth required)
	mux.HandleFunc("GET /health", s.handleHealth)

	handler := s.authMiddleware(corsMiddleware(mux, corsOrigin))

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", port),
		Handler:      handler,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	return s
}

func (s *Server) Start() error {
	fmt.Printf("[API] REST API server started on http://localhost%s\n", s.httpServer.Addr)
	fmt.Printf("[API] Health check: http://localhost%s/health\n", s.httpServer.Addr)
	if s.apiKey != "" {
		fmt.Println("[API] Authentication: enabled (Bearer token)")
	} else {
		fmt.Println("[API] Authentication: disabled (no API_KEY configured)")
	}
	return s.httpServer.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// --- middleware ---

func (s *Server) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.apiKey == "" || r.URL.Path == "/health" {
			next.ServeHTTP(w, r)
			return
		}

		auth := r.Header.Get("Authorization")
		if auth == "" {
			writeError(w, http.StatusUnauthorized, "missing Authorization header")
			return
		}

		token := strings.TrimPrefix(auth, "Bearer ")
		if token == auth || token != s.apiKey {
			writeError(w, http.StatusUnauthorized, "invalid API key")
			return
		}

		next.ServeHTTP(w, r)
	})
}

func corsMiddleware(next http.Handler, allowOrigin string) http.Handler {
	if allowOrigin == "" {
		allowOrigin = "*"
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", allowOrigin)
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// --- validation helpers ---

func validateDate(date string) bool {
	if !dateRegexp.MatchString(date) {
		return false
	}
	_, err := time.Parse("2006-01-02", date)
	return err == nil
}

// --- response helpers ---

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
