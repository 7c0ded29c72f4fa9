package handlers

import (
	"errors"
	"net/http"
	"strings"

	"media-catalog/internal/catalog"
	"media-catalog/internal/pathutil"

	"github.com/gorilla/mux"
)

// ListFiles returns all cataloged files, or the direct children of a
// folder when the folder query parameter is set.
func (h *Handlers) ListFiles(w http.ResponseWriter, r *http.Request) {
	var files []catalog.MediaFile
	var err error

	if folder := r.URL.Query().Get("folder"); folder != "" {
		files, err = h.store.FilesInFolder(r.Context(), folder)
	} else {
		files, err = h.store.AllFiles(r.Context())
	}
	if err != nil {
		writeJSONError(w, "Failed to list files", http.StatusInternalServerError)
		return
	}

	if files == nil {
		files = []catalog.MediaFile{}
	}

	w.Header().Set("Content-Type", "application/json")
	writeJSON(w, files)
}

// SearchFiles returns files whose name or description matches the q
// parameter, case-insensitively. An empty query returns everything.
func (h *Handlers) SearchFiles(w http.ResponseWriter, r *http.Request) {
	files, err := h.store.FilesByText(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		writeJSONError(w, "Search failed", http.StatusInternalServerError)
		return
	}

	if files == nil {
		files = []catalog.MediaFile{}
	}

	w.Header().Set("Content-Type", "application/json")
	writeJSON(w, files)
}

// FilesByTags returns files carrying every tag in the comma-separated
// tags parameter.
func (h *Handlers) FilesByTags(w http.ResponseWriter, r *http.Request) {
	raw := r.URL.Query().Get("tags")
	var tags []string
	for _, t := range strings.Split(raw, ",") {
		if t = strings.TrimSpace(t); t != "" {
			tags = append(tags, t)
		}
	}
	if len(tags) == 0 {
		writeJSONError(w, "At least one tag is required", http.StatusBadRequest)
		return
	}

	files, err := h.store.FilesByTags(r.Context(), tags)
	if err != nil {
		writeJSONError(w, "Tag search failed", http.StatusInternalServerError)
		return
	}

	if files == nil {
		files = []catalog.MediaFile{}
	}

	w.Header().Set("Content-Type", "application/json")
	writeJSON(w, files)
}

// GetFile returns one file by path or by name. Name lookup returns the
// first match when multiple folders hold a file with that name.
func (h *Handlers) GetFile(w http.ResponseWriter, r *http.Request) {
	path := r.URL.Query().Get("path")
	name := r.URL.Query().Get("name")

	var file *catalog.MediaFile
	var err error

	switch {
	case path != "":
		file, err = h.store.GetFileByPath(r.Context(), path)
	case name != "":
		file, err = h.store.GetFileByName(r.Context(), name)
	default:
		writeJSONError(w, "path or name is required", http.StatusBadRequest)
		return
	}

	if errors.Is(err, catalog.ErrNotFound) {
		writeJSONError(w, "File not found", http.StatusNotFound)
		return
	}
	if err != nil {
		writeJSONError(w, "Failed to get file", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	writeJSON(w, file)
}

// GetThumbnail serves the preview artifact for a file by name.
func (h *Handlers) GetThumbnail(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]
	if name == "" {
		writeJSONError(w, "Name is required", http.StatusBadRequest)
		return
	}

	previewPath, err := h.store.PreviewPathFor(r.Context(), name)
	if errors.Is(err, catalog.ErrNotFound) {
		writeJSONError(w, "File not found", http.StatusNotFound)
		return
	}
	if err != nil {
		writeJSONError(w, "Failed to resolve thumbnail", http.StatusInternalServerError)
		return
	}

	// Artifacts only ever live under the thumbnail directory.
	if !pathutil.HasPrefix(previewPath, h.thumbDir) {
		writeJSONError(w, "Thumbnail unavailable", http.StatusNotFound)
		return
	}

	w.Header().Set("Cache-Control", "public, max-age=86400")
	http.ServeFile(w, r, previewPath)
}

type descriptionRequest struct {
	Name string `json:"name"`
	Text string `json:"text"`
}

// GetDescription returns the description for a file by name.
func (h *Handlers) GetDescription(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("name")
	if name == "" {
		writeJSONError(w, "Name is required", http.StatusBadRequest)
		return
	}

	text, err := h.store.DescriptionFor(r.Context(), name)
	if errors.Is(err, catalog.ErrNotFound) {
		writeJSONError(w, "File not found", http.StatusNotFound)
		return
	}
	if err != nil {
		writeJSONError(w, "Failed to get description", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	writeJSON(w, map[string]string{"name": name, "text": text})
}

// SetDescription replaces the description for a file by name.
func (h *Handlers) SetDescription(w http.ResponseWriter, r *http.Request) {
	var req descriptionRequest
	if err := decodeJSONBody(w, r, &req); err != nil {
		return
	}
	if req.Name == "" {
		writeJSONError(w, "Name is required", http.StatusBadRequest)
		return
	}

	err := h.store.SetDescription(r.Context(), req.Name, req.Text)
	if errors.Is(err, catalog.ErrNotFound) {
		writeJSONError(w, "File not found", http.StatusNotFound)
		return
	}
	if err != nil {
		writeJSONError(w, "Failed to set description", http.StatusInternalServerError)
		return
	}

	writeJSONStatus(w, "updated")
}

// GetStats returns catalog row counts.
func (h *Handlers) GetStats(w http.ResponseWriter, _ *http.Request) {
	stats := h.store.GetStats()
	w.Header().Set("Content-Type", "application/json")
	writeJSON(w, stats)
}
