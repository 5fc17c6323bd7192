package api

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	graphql "github.com/graph-gophers/graphql-go"
	"github.com/graph-gophers/graphql-go/relay"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/piranimarcos/bookApp/auth"
)

const requestIDHeader = "X-Request-Id"

// NewHandler routes the single GraphQL endpoint plus health and metrics.
func NewHandler(schema *graphql.Schema, gatherer prometheus.Gatherer, logger *zap.Logger) http.Handler {
	mux := http.NewServeMux()
	mux.Handle("POST /graphql", withRequestContext(&relay.Handler{Schema: schema}, logger))
	mux.Handle("GET /metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	return mux
}

// withRequestContext hands the authorization header to the guard through
// the request context and logs the request.
func withRequestContext(next http.Handler, logger *zap.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(requestIDHeader, id)

		ctx := auth.WithAuthorization(r.Context(), r.Header.Get("Authorization"))
		start := time.Now()
		next.ServeHTTP(w, r.WithContext(ctx))

		logger.Info("graphql request",
			zap.String("request_id", id),
			zap.String("remote", r.RemoteAddr),
			zap.Duration("elapsed", time.Since(start)),
		)
	})
}
