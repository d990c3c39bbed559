package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

// HealthHandler reports whether the backing stores are reachable. Redis
// is optional; when it is not configured its check is omitted from the
// report instead of being marked down.
type HealthHandler struct {
	pool  *pgxpool.Pool
	redis *redis.Client
}

func NewHealthHandler(pool *pgxpool.Pool, redisClient *redis.Client) *HealthHandler {
	return &HealthHandler{pool: pool, redis: redisClient}
}

type healthReport struct {
	Status   string `json:"status"`
	Database string `json:"database"`
	Redis    string `json:"redis,omitempty"`
}

func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	report := healthReport{Status: "ok", Database: "ok"}
	if err := h.pool.Ping(ctx); err != nil {
		report.Status = "degraded"
		report.Database = err.Error()
	}
	if h.redis != nil {
		report.Redis = "ok"
		if err := h.redis.Ping(ctx).Err(); err != nil {
			report.Status = "degraded"
			report.Redis = err.Error()
		}
	}

	code := http.StatusOK
	if report.Status != "ok" {
		code = http.StatusServiceUnavailable
	}
	writeJSON(w, code, report)
}
