package server

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/aptisure/aptisure-api/internal/auth"
	"github.com/aptisure/aptisure-api/internal/config"
	"github.com/aptisure/aptisure-api/internal/exam"
	"github.com/aptisure/aptisure-api/internal/practice"
	"github.com/aptisure/aptisure-api/internal/question"
)

// Handlers bundles the per-domain HTTP handlers wired into the router.
type Handlers struct {
	Auth     *auth.HTTPHandlers
	Question *question.HTTPHandlers
	Practice *practice.HTTPHandlers
	Exam     *exam.HTTPHandlers
}

// NewHTTPServer wires all routes for the API service.
func NewHTTPServer(cfg *config.App, logger zerolog.Logger, pool *pgxpool.Pool, rdb *redis.Client, authSvc *auth.Service, h Handlers) *http.Server {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	mux.Handle("GET /metrics", promhttp.Handler())

	mux.HandleFunc("GET /v1/ping", func(w http.ResponseWriter, r *http.Request) {
		if err := pingDependencies(r.Context(), pool, rdb); err != nil {
			logger.Error().Err(err).Msg("dependency ping failed")
			http.Error(w, "upstream error", http.StatusBadGateway)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"pong":true}`))
	})

	// Auth + profile
	mux.HandleFunc("POST /v1/auth/register", h.Auth.Register)
	mux.HandleFunc("POST /v1/auth/login", h.Auth.Login)
	mux.HandleFunc("POST /v1/auth/refresh", h.Auth.RefreshToken)
	mux.HandleFunc("GET /v1/oauth/{provider}/start", h.Auth.OAuthStart)
	mux.HandleFunc("GET /v1/oauth/{provider}/callback", h.Auth.OAuthCallback)
	mux.Handle("GET /v1/users/me", auth.RequireAuth(http.HandlerFunc(h.Auth.GetMe)))
	mux.Handle("GET /v1/users/me/stats", auth.RequireAuth(http.HandlerFunc(h.Auth.GetStats)))
	mux.Handle("GET /v1/users/me/results", auth.RequireAuth(http.HandlerFunc(h.Exam.RecentResults)))

	// Questions
	mux.HandleFunc("GET /v1/questions/random", h.Question.GetRandom)
	mux.HandleFunc("POST /v1/questions/generate-set", h.Question.GenerateSet)
	mux.HandleFunc("GET /v1/questions/{id}", h.Question.GetByID)

	// Practice attempts
	mux.Handle("POST /v1/attempts", auth.RequireAuth(http.HandlerFunc(h.Practice.SubmitAttempt)))

	// Tests
	mux.HandleFunc("GET /v1/tests", h.Exam.List)
	mux.HandleFunc("GET /v1/tests/{id}/start", h.Exam.Start)
	mux.Handle("POST /v1/tests/{id}/submit", auth.RequireAuth(http.HandlerFunc(h.Exam.Submit)))
	mux.HandleFunc("GET /v1/tests/{id}/questions", h.Exam.Questions)

	var handler http.Handler = mux
	handler = auth.Middleware(authSvc, logger)(handler)
	handler = corsMiddleware(cfg.CORS)(handler)
	handler = metricsMiddleware(mux, handler)

	return &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: handler,
	}
}

func pingDependencies(ctx context.Context, pool *pgxpool.Pool, rdb *redis.Client) error {
	if err := pool.Ping(ctx); err != nil {
		return err
	}
	return rdb.Ping(ctx).Err()
}

func corsMiddleware(cfg config.CORS) func(http.Handler) http.Handler {
	allowedOrigins := make(map[string]bool, len(cfg.AllowedOrigins))
	for _, origin := range cfg.AllowedOrigins {
		allowedOrigins[origin] = true
	}
	methods := strings.Join(cfg.AllowedMethods, ", ")
	headers := strings.Join(cfg.AllowedHeaders, ", ")
	maxAge := strconv.Itoa(cfg.MaxAge)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")
			if origin != "" && allowedOrigins[origin] {
				w.Header().Set("Access-Control-Allow-Origin", origin)
				w.Header().Set("Access-Control-Allow-Methods", methods)
				w.Header().Set("Access-Control-Allow-Headers", headers)
				w.Header().Set("Access-Control-Max-Age", maxAge)
				if cfg.AllowCredentials {
					w.Header().Set("Access-Control-Allow-Credentials", "true")
				}
			}
			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
