package handlers

import (
	"errors"
	"net/http"

	"media-catalog/internal/runner"
)

// TriggerReconcile starts a background reconcile+generate batch over
// the media root. Replies 409 while a batch is already in flight.
func (h *Handlers) TriggerReconcile(w http.ResponseWriter, _ *http.Request) {
	err := h.runner.TriggerBackground(h.mediaDir)
	if errors.Is(err, runner.ErrBusy) {
		writeJSONError(w, "A batch is already running", http.StatusConflict)
		return
	}
	if err != nil {
		writeJSONError(w, "Failed to start batch", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusAccepted)
	writeJSON(w, map[string]string{"status": "started"})
}

// GetRunnerStatus returns the runner snapshot: whether a batch is
// running, the engine phase, and the last pass summary.
func (h *Handlers) GetRunnerStatus(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	writeJSON(w, h.runner.Status())
}
