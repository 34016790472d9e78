// Package handlers provides HTTP request handlers for the meterexporter API.
// This file implements the liveness endpoint.
package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"
)

// Counter reports the size of a piece of in-memory exporter state.
type Counter interface {
	Len() int
}

// Health check keys.
const (
	CheckGaugeFamilies = "gauge_families"
	CheckTanks         = "tanks"
)

// StatusHealthy is the only status the exporter reports; it has no
// dependencies that can fail.
const StatusHealthy = "healthy"

// HealthHandler handles the liveness endpoint.
type HealthHandler struct {
	counters  map[string]Counter
	logger    *slog.Logger
	startTime time.Time
}

// NewHealthHandler creates a new health handler that reports each counter
// under its key.
func NewHealthHandler(counters map[string]Counter, logger *slog.Logger) *HealthHandler {
	return &HealthHandler{
		counters:  counters,
		logger:    logger.With("handler", "health"),
		startTime: time.Now(),
	}
}

// HealthResponse represents a health check response.
type HealthResponse struct {
	Status    string            `json:"status"`
	Timestamp time.Time         `json:"timestamp"`
	Uptime    string            `json:"uptime"`
	Checks    map[string]string `json:"checks"`
}

// Health reports liveness, uptime and the size of the exporter's state.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	h.logger.Debug("Health check requested", "remote_addr", r.RemoteAddr)

	checks := make(map[string]string, len(h.counters))
	for key, counter := range h.counters {
		if counter != nil {
			checks[key] = strconv.Itoa(counter.Len())
		}
	}

	response := HealthResponse{
		Status:    StatusHealthy,
		Timestamp: time.Now().UTC(),
		Uptime:    time.Since(h.startTime).Round(time.Millisecond).String(),
		Checks:    checks,
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(response); err != nil {
		h.logger.Error("Failed to encode health response", "error", err)
	}
}
