package handlers

import (
	"errors"
	"net/http"

	"media-catalog/internal/catalog"

	"github.com/gorilla/mux"
)

// TagRequest represents a request to manage tags for a file
type TagRequest struct {
	Path string   `json:"path"`
	Tags []string `json:"tags"`
}

// GetAllTags returns all tags with their file counts.
func (h *Handlers) GetAllTags(w http.ResponseWriter, r *http.Request) {
	tags, err := h.store.AllTags(r.Context())
	if err != nil {
		writeJSONError(w, "Failed to get tags", http.StatusInternalServerError)
		return
	}

	if tags == nil {
		tags = []catalog.Tag{}
	}

	w.Header().Set("Content-Type", "application/json")
	writeJSON(w, tags)
}

// CreateTag registers a new tag. Creating an existing tag is a no-op.
func (h *Handlers) CreateTag(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name string `json:"name"`
	}
	if err := decodeJSONBody(w, r, &req); err != nil {
		return
	}
	if req.Name == "" {
		writeJSONError(w, "Tag name is required", http.StatusBadRequest)
		return
	}

	if err := h.store.CreateTag(r.Context(), req.Name); err != nil {
		writeJSONError(w, "Failed to create tag", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusCreated)
	writeJSON(w, map[string]string{"name": req.Name})
}

// DeleteTag removes a tag and all its file associations. The reserved
// classification tags cannot be deleted.
func (h *Handlers) DeleteTag(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["tag"]

	err := h.store.DeleteTag(r.Context(), name)
	switch {
	case errors.Is(err, catalog.ErrReservedTag):
		writeJSONError(w, "Reserved tags cannot be deleted", http.StatusConflict)
	case errors.Is(err, catalog.ErrNotFound):
		writeJSONError(w, "Tag not found", http.StatusNotFound)
	case err != nil:
		writeJSONError(w, "Failed to delete tag", http.StatusInternalServerError)
	default:
		writeJSONStatus(w, "deleted")
	}
}

// GetFileTags returns the tags assigned to one file.
func (h *Handlers) GetFileTags(w http.ResponseWriter, r *http.Request) {
	path := r.URL.Query().Get("path")
	if path == "" {
		writeJSONError(w, "Path is required", http.StatusBadRequest)
		return
	}

	tags, err := h.store.TagsFor(r.Context(), path)
	if err != nil {
		writeJSONError(w, "Failed to get tags", http.StatusInternalServerError)
		return
	}

	if tags == nil {
		tags = []string{}
	}

	w.Header().Set("Content-Type", "application/json")
	writeJSON(w, tags)
}

// AssignTags attaches tags to a file, creating unknown tags on the fly.
// A file holds at most one classification tag; a conflicting assignment
// is refused.
func (h *Handlers) AssignTags(w http.ResponseWriter, r *http.Request) {
	var req TagRequest
	if err := decodeJSONBody(w, r, &req); err != nil {
		return
	}
	if req.Path == "" || len(req.Tags) == 0 {
		writeJSONError(w, "Path and tags are required", http.StatusBadRequest)
		return
	}

	err := h.store.AssignTags(r.Context(), req.Path, req.Tags)
	switch {
	case errors.Is(err, catalog.ErrNotFound):
		writeJSONError(w, "File not found", http.StatusNotFound)
	case errors.Is(err, catalog.ErrReservedConflict):
		writeJSONError(w, "File already has a classification tag", http.StatusConflict)
	case err != nil:
		writeJSONError(w, "Failed to assign tags", http.StatusInternalServerError)
	default:
		writeJSONStatus(w, "assigned")
	}
}

// RemoveTags detaches tags from a file. Unassigned tags are ignored;
// classification tags refuse removal.
func (h *Handlers) RemoveTags(w http.ResponseWriter, r *http.Request) {
	var req TagRequest
	if err := decodeJSONBody(w, r, &req); err != nil {
		return
	}
	if req.Path == "" || len(req.Tags) == 0 {
		writeJSONError(w, "Path and tags are required", http.StatusBadRequest)
		return
	}

	err := h.store.RemoveTags(r.Context(), req.Path, req.Tags)
	switch {
	case errors.Is(err, catalog.ErrReservedTag):
		writeJSONError(w, "Classification tags cannot be removed", http.StatusConflict)
	case err != nil:
		writeJSONError(w, "Failed to remove tags", http.StatusInternalServerError)
	default:
		writeJSONStatus(w, "removed")
	}
}
