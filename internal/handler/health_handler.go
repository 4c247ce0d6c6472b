package handler

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"time"

	"infoco-backoffice/internal/messaging"
	"infoco-backoffice/internal/observability"
)

// Health returns basic liveness.
func Health(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{
		"status": "ok",
	})
}

// HealthCheckResult represents one dependency probe.
type HealthCheckResult struct {
	Status    string         `json:"status"`
	LatencyMs int64          `json:"latency_ms,omitempty"`
	Metadata  map[string]any `json:"metadata,omitempty"`
	Error     string         `json:"error,omitempty"`
}

// Pinger is a reachable dependency, satisfied by the session store.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Ready probes every hard dependency in parallel. The broker is optional:
// when it was never configured the check reads "disabled" and does not fail
// readiness.
func Ready(db *sql.DB, sessions Pinger, rmq *messaging.RabbitMQ) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		dbResult := make(chan HealthCheckResult, 1)
		redisResult := make(chan HealthCheckResult, 1)
		rmqResult := make(chan HealthCheckResult, 1)

		go func() { dbResult <- checkDatabase(ctx, db) }()
		go func() { redisResult <- checkSessionStore(ctx, sessions) }()
		go func() { rmqResult <- checkRabbitMQ(rmq) }()

		dbCheck := <-dbResult
		redisCheck := <-redisResult
		rmqCheck := <-rmqResult

		response := map[string]any{
			"timestamp": time.Now().Format(time.RFC3339),
			"checks": map[string]HealthCheckResult{
				"database":      dbCheck,
				"session_store": redisCheck,
				"rabbitmq":      rmqCheck,
			},
		}

		ready := dbCheck.Status == "up" &&
			redisCheck.Status == "up" &&
			rmqCheck.Status != "down"

		w.Header().Set("Content-Type", "application/json")
		if ready {
			response["status"] = "ready"
			w.WriteHeader(http.StatusOK)
		} else {
			response["status"] = "not_ready"
			w.WriteHeader(http.StatusServiceUnavailable)
		}
		json.NewEncoder(w).Encode(response)
	}
}

func checkDatabase(ctx context.Context, db *sql.DB) HealthCheckResult {
	start := time.Now()
	err := db.PingContext(ctx)
	latency := time.Since(start)

	stats := db.Stats()
	observability.DBConnectionsOpen.Set(float64(stats.OpenConnections))
	observability.DBConnectionsInUse.Set(float64(stats.InUse))
	observability.DBConnectionsIdle.Set(float64(stats.Idle))

	if err != nil {
		return HealthCheckResult{
			Status:    "down",
			LatencyMs: latency.Milliseconds(),
			Error:     err.Error(),
		}
	}

	return HealthCheckResult{
		Status:    "up",
		LatencyMs: latency.Milliseconds(),
		Metadata: map[string]any{
			"connections_open":   stats.OpenConnections,
			"connections_in_use": stats.InUse,
			"connections_idle":   stats.Idle,
			"max_open":           stats.MaxOpenConnections,
		},
	}
}

func checkSessionStore(ctx context.Context, sessions Pinger) HealthCheckResult {
	start := time.Now()
	if err := sessions.Ping(ctx); err != nil {
		return HealthCheckResult{
			Status:    "down",
			LatencyMs: time.Since(start).Milliseconds(),
			Error:     err.Error(),
		}
	}
	return HealthCheckResult{
		Status:    "up",
		LatencyMs: time.Since(start).Milliseconds(),
	}
}

func checkRabbitMQ(rmq *messaging.RabbitMQ) HealthCheckResult {
	if rmq == nil {
		return HealthCheckResult{Status: "disabled"}
	}
	if rmq.IsClosed() {
		return HealthCheckResult{
			Status: "down",
			Error:  "connection closed",
		}
	}
	return HealthCheckResult{Status: "up"}
}
