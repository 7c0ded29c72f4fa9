package handlers

import (
	"media-catalog/internal/catalog"
	"media-catalog/internal/runner"
	"media-catalog/internal/startup"

	"github.com/gorilla/mux"
)

type Handlers struct {
	store    *catalog.Catalog
	runner   *runner.Runner
	mediaDir string
	thumbDir string
}

func New(store *catalog.Catalog, run *runner.Runner, config *startup.Config) *Handlers {
	return &Handlers{
		store:    store,
		runner:   run,
		mediaDir: config.MediaDir,
		thumbDir: config.ThumbnailDir,
	}
}

// RegisterRoutes attaches all API routes to the router.
func (h *Handlers) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/health", h.HealthCheck).Methods("GET")
	r.HandleFunc("/healthz", h.HealthCheck).Methods("GET")
	r.HandleFunc("/livez", h.LivenessCheck).Methods("GET")
	r.HandleFunc("/readyz", h.ReadinessCheck).Methods("GET")
	r.HandleFunc("/version", h.GetVersion).Methods("GET")

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/files", h.ListFiles).Methods("GET")
	api.HandleFunc("/files/search", h.SearchFiles).Methods("GET")
	api.HandleFunc("/files/by-tags", h.FilesByTags).Methods("GET")
	api.HandleFunc("/file", h.GetFile).Methods("GET")
	api.HandleFunc("/thumbnail/{name}", h.GetThumbnail).Methods("GET")
	api.HandleFunc("/description", h.GetDescription).Methods("GET")
	api.HandleFunc("/description", h.SetDescription).Methods("PUT")
	api.HandleFunc("/stats", h.GetStats).Methods("GET")

	api.HandleFunc("/tags", h.GetAllTags).Methods("GET")
	api.HandleFunc("/tags", h.CreateTag).Methods("POST")
	api.HandleFunc("/tags/{tag}", h.DeleteTag).Methods("DELETE")
	api.HandleFunc("/tags/file", h.GetFileTags).Methods("GET")
	api.HandleFunc("/tags/file", h.AssignTags).Methods("POST")
	api.HandleFunc("/tags/file", h.RemoveTags).Methods("DELETE")

	api.HandleFunc("/reconcile", h.TriggerReconcile).Methods("POST")
	api.HandleFunc("/status", h.GetRunnerStatus).Methods("GET")
}
