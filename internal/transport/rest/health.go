package rest

import (
	"context"
	"net/http"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
)

const checkTimeout = 3 * time.Second

// Dependency is one external system reported by /ready and /health.
type Dependency struct {
	Name string
	// Optional dependencies degrade the report instead of failing readiness.
	Optional bool
	Check    func(ctx context.Context) error
}

type pinger interface {
	Ping(ctx context.Context) error
}

// PingDependency wraps anything with a Ping method, such as a pgx pool.
func PingDependency(name string, p pinger, optional bool) Dependency {
	return Dependency{Name: name, Optional: optional, Check: p.Ping}
}

// HealthHandler serves health check endpoints.
type HealthHandler struct {
	deps    []Dependency
	version string
}

// NewHealthHandler creates a HealthHandler.
func NewHealthHandler(version string, deps ...Dependency) *HealthHandler {
	return &HealthHandler{deps: deps, version: version}
}

// HealthResponse is the JSON response for /health and /ready.
type HealthResponse struct {
	Status     string                `json:"status"`
	Version    string                `json:"version,omitempty"`
	Components map[string]CompStatus `json:"components,omitempty"`
	Timestamp  time.Time             `json:"timestamp"`
}

// CompStatus is the status of an individual component.
type CompStatus struct {
	Status  string `json:"status"`
	Latency string `json:"latency,omitempty"`
	Error   string `json:"error,omitempty"`
}

// Live is the liveness check. Always returns 200.
func (h *HealthHandler) Live(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{
		Status:    "ok",
		Timestamp: time.Now(),
	})
}

// Ready is the readiness check: 503 when any required dependency fails.
func (h *HealthHandler) Ready(w http.ResponseWriter, r *http.Request) {
	overall, _ := h.run(r.Context())

	status := http.StatusOK
	if overall == "down" {
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, HealthResponse{
		Status:    overall,
		Timestamp: time.Now(),
	})
}

// Health reports every dependency with its latency, plus the build version.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	overall, components := h.run(r.Context())

	status := http.StatusOK
	if overall == "down" {
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, HealthResponse{
		Status:     overall,
		Version:    h.version,
		Components: components,
		Timestamp:  time.Now(),
	})
}

// run checks all dependencies concurrently. Overall status is "down" if a required
// dependency failed, "degraded" if only optional ones did.
func (h *HealthHandler) run(ctx context.Context) (string, map[string]CompStatus) {
	ctx, cancel := context.WithTimeout(ctx, checkTimeout)
	defer cancel()

	var (
		mu         sync.Mutex
		components = make(map[string]CompStatus, len(h.deps))
		overall    = "ok"
		g          errgroup.Group
	)

	for _, p := range h.deps {
		g.Go(func() error {
			start := time.Now()
			err := p.Check(ctx)
			latency := time.Since(start)

			mu.Lock()
			defer mu.Unlock()

			if err != nil {
				components[p.Name] = CompStatus{Status: "down", Error: err.Error()}
				switch {
				case !p.Optional:
					overall = "down"
				case overall == "ok":
					overall = "degraded"
				}
				return nil
			}
			components[p.Name] = CompStatus{Status: "ok", Latency: latency.String()}
			return nil
		})
	}
	_ = g.Wait()

	return overall, components
}
