package handlers

import (
	"net/http"
	"runtime"

	"media-catalog/internal/startup"
)

const (
	statusHealthy = "healthy"
	statusBusy    = "busy"
)

// HealthResponse contains the health check response
type HealthResponse struct {
	Status      string `json:"status"`
	Version     string `json:"version"`
	Reconciling bool   `json:"reconciling"`
	Phase       string `json:"phase"`

	GoVersion    string `json:"goVersion"`
	NumCPU       int    `json:"numCpu"`
	NumGoroutine int    `json:"numGoroutine"`

	TotalFiles int `json:"totalFiles"`
	TotalTags  int `json:"totalTags"`
}

// HealthCheck returns the health status of the service
func (h *Handlers) HealthCheck(w http.ResponseWriter, _ *http.Request) {
	st := h.runner.Status()
	stats := h.store.GetStats()

	response := HealthResponse{
		Status:       statusHealthy,
		Version:      startup.Version,
		Reconciling:  st.Running,
		Phase:        st.Phase,
		GoVersion:    runtime.Version(),
		NumCPU:       runtime.NumCPU(),
		NumGoroutine: runtime.NumGoroutine(),
		TotalFiles:   stats.TotalFiles,
		TotalTags:    stats.TotalTags,
	}
	if st.Running {
		response.Status = statusBusy
	}

	w.Header().Set("Content-Type", "application/json")
	writeJSON(w, response)
}

// LivenessCheck reports that the process is up.
func (h *Handlers) LivenessCheck(w http.ResponseWriter, _ *http.Request) {
	writeJSONStatus(w, "alive")
}

// ReadinessCheck reports whether the catalog is reachable.
func (h *Handlers) ReadinessCheck(w http.ResponseWriter, r *http.Request) {
	if _, err := h.store.AllPaths(r.Context()); err != nil {
		writeJSONError(w, "catalog unavailable", http.StatusServiceUnavailable)
		return
	}
	writeJSONStatus(w, "ready")
}
