package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"media-catalog/internal/catalog"
	"media-catalog/internal/mediatypes"
	"media-catalog/internal/reconcile"
	"media-catalog/internal/runner"
	"media-catalog/internal/startup"
	"media-catalog/internal/thumbs"

	"github.com/gorilla/mux"
)

type testServer struct {
	router   *mux.Router
	store    *catalog.Catalog
	mediaDir string
	thumbDir string
}

func setupTestServer(t *testing.T) *testServer {
	t.Helper()

	dir := t.TempDir()
	store, err := catalog.New(context.Background(), filepath.Join(dir, "catalog.db"))
	if err != nil {
		t.Fatalf("failed to open catalog: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	mediaDir := filepath.Join(dir, "media")
	thumbDir := filepath.Join(mediaDir, "thumbnails")
	if err := os.MkdirAll(thumbDir, 0o755); err != nil {
		t.Fatalf("failed to create dirs: %v", err)
	}

	engine := reconcile.New(store, thumbDir)
	pipeline := thumbs.New(store, thumbDir)
	run := runner.New(engine, pipeline)

	h := New(store, run, &startup.Config{
		MediaDir:     mediaDir,
		ThumbnailDir: thumbDir,
	})
	router := mux.NewRouter()
	h.RegisterRoutes(router)

	return &testServer{
		router:   router,
		store:    store,
		mediaDir: mediaDir,
		thumbDir: thumbDir,
	}
}

// seedFile registers a row with an artifact on disk.
func (ts *testServer) seedFile(t *testing.T, name, description string, tags ...string) string {
	t.Helper()

	path := filepath.Join(ts.mediaDir, name)
	artifact := thumbs.ArtifactPath(ts.thumbDir, path)
	if err := os.WriteFile(artifact, []byte("jpeg bytes"), 0o644); err != nil {
		t.Fatalf("failed to write artifact: %v", err)
	}

	ctx := context.Background()
	if err := ts.store.InsertFile(ctx, name, path, artifact); err != nil {
		t.Fatalf("failed to insert %s: %v", name, err)
	}
	if description != "" {
		if err := ts.store.SetDescription(ctx, name, description); err != nil {
			t.Fatalf("failed to set description: %v", err)
		}
	}
	if len(tags) > 0 {
		if err := ts.store.AssignTags(ctx, path, tags); err != nil {
			t.Fatalf("failed to assign tags: %v", err)
		}
	}
	return path
}

func (ts *testServer) do(t *testing.T, method, target string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reqBody *bytes.Buffer
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("failed to marshal body: %v", err)
		}
		reqBody = bytes.NewBuffer(data)
	} else {
		reqBody = &bytes.Buffer{}
	}

	req := httptest.NewRequest(method, target, reqBody)
	rec := httptest.NewRecorder()
	ts.router.ServeHTTP(rec, req)
	return rec
}

func decodeFiles(t *testing.T, rec *httptest.ResponseRecorder) []catalog.MediaFile {
	t.Helper()

	var files []catalog.MediaFile
	if err := json.Unmarshal(rec.Body.Bytes(), &files); err != nil {
		t.Fatalf("failed to decode response: %v (body: %s)", err, rec.Body.String())
	}
	return files
}

func TestListFiles(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping handler test in short mode")
	}

	ts := setupTestServer(t)
	ts.seedFile(t, "alpha.jpg", "")
	ts.seedFile(t, "beta.mp4", "")

	rec := ts.do(t, http.MethodGet, "/api/files", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if files := decodeFiles(t, rec); len(files) != 2 {
		t.Errorf("expected 2 files, got %d", len(files))
	}
}

func TestListFilesEmptyCatalog(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping handler test in short mode")
	}

	ts := setupTestServer(t)

	rec := ts.do(t, http.MethodGet, "/api/files", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if files := decodeFiles(t, rec); files == nil || len(files) != 0 {
		t.Errorf("expected empty array, got %v (body: %s)", files, rec.Body.String())
	}
}

func TestSearchFiles(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping handler test in short mode")
	}

	ts := setupTestServer(t)
	ts.seedFile(t, "vacation.jpg", "")
	ts.seedFile(t, "report.pdf.png", "photos from the VACation")
	ts.seedFile(t, "unrelated.jpg", "")

	rec := ts.do(t, http.MethodGet, "/api/files/search?q=vac", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if files := decodeFiles(t, rec); len(files) != 2 {
		t.Errorf("expected 2 matches, got %d", len(files))
	}

	rec = ts.do(t, http.MethodGet, "/api/files/search", nil)
	if files := decodeFiles(t, rec); len(files) != 3 {
		t.Errorf("empty query should return all, got %d", len(files))
	}
}

func TestFilesByTags(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping handler test in short mode")
	}

	ts := setupTestServer(t)
	ts.seedFile(t, "both.jpg", "", "sunset", "beach")
	ts.seedFile(t, "one.jpg", "", "sunset")

	rec := ts.do(t, http.MethodGet, "/api/files/by-tags?tags=sunset,beach", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	files := decodeFiles(t, rec)
	if len(files) != 1 || files[0].Name != "both.jpg" {
		t.Errorf("intersection = %v", files)
	}

	rec = ts.do(t, http.MethodGet, "/api/files/by-tags", nil)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("missing tags should 400, got %d", rec.Code)
	}
}

func TestGetFile(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping handler test in short mode")
	}

	ts := setupTestServer(t)
	path := ts.seedFile(t, "lookup.jpg", "")

	rec := ts.do(t, http.MethodGet, "/api/file?name=lookup.jpg", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("name lookup status = %d", rec.Code)
	}

	var file catalog.MediaFile
	if err := json.Unmarshal(rec.Body.Bytes(), &file); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if file.Path != path {
		t.Errorf("path = %q, want %q", file.Path, path)
	}

	rec = ts.do(t, http.MethodGet, "/api/file?name=missing.jpg", nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("missing file status = %d, want 404", rec.Code)
	}

	rec = ts.do(t, http.MethodGet, "/api/file", nil)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("no selector status = %d, want 400", rec.Code)
	}
}

func TestGetThumbnail(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping handler test in short mode")
	}

	ts := setupTestServer(t)
	ts.seedFile(t, "pic.jpg", "")

	rec := ts.do(t, http.MethodGet, "/api/thumbnail/pic.jpg", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if rec.Body.String() != "jpeg bytes" {
		t.Errorf("unexpected artifact body: %q", rec.Body.String())
	}

	rec = ts.do(t, http.MethodGet, "/api/thumbnail/nope.jpg", nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("missing thumbnail status = %d, want 404", rec.Code)
	}
}

func TestDescriptionRoundTrip(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping handler test in short mode")
	}

	ts := setupTestServer(t)
	ts.seedFile(t, "annotated.jpg", "")

	rec := ts.do(t, http.MethodPut, "/api/description", descriptionRequest{Name: "annotated.jpg", Text: "my note"})
	if rec.Code != http.StatusOK {
		t.Fatalf("set status = %d (body: %s)", rec.Code, rec.Body.String())
	}

	rec = ts.do(t, http.MethodGet, "/api/description?name=annotated.jpg", nil)
	var resp map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp["text"] != "my note" {
		t.Errorf("text = %q", resp["text"])
	}

	rec = ts.do(t, http.MethodPut, "/api/description", descriptionRequest{Name: "missing.jpg", Text: "x"})
	if rec.Code != http.StatusNotFound {
		t.Errorf("missing file status = %d, want 404", rec.Code)
	}
}

func TestTagLifecycle(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping handler test in short mode")
	}

	ts := setupTestServer(t)
	path := ts.seedFile(t, "tagged.jpg", "")

	rec := ts.do(t, http.MethodPost, "/api/tags", map[string]string{"name": "holiday"})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create status = %d", rec.Code)
	}

	rec = ts.do(t, http.MethodPost, "/api/tags/file", TagRequest{Path: path, Tags: []string{"holiday", "family"}})
	if rec.Code != http.StatusOK {
		t.Fatalf("assign status = %d", rec.Code)
	}

	rec = ts.do(t, http.MethodGet, "/api/tags/file?path="+path, nil)
	var tags []string
	if err := json.Unmarshal(rec.Body.Bytes(), &tags); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(tags) != 2 {
		t.Errorf("tags = %v", tags)
	}

	rec = ts.do(t, http.MethodDelete, "/api/tags/file", TagRequest{Path: path, Tags: []string{"family"}})
	if rec.Code != http.StatusOK {
		t.Fatalf("remove status = %d", rec.Code)
	}

	rec = ts.do(t, http.MethodDelete, "/api/tags/holiday", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("delete status = %d", rec.Code)
	}

	rec = ts.do(t, http.MethodDelete, "/api/tags/holiday", nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("double delete status = %d, want 404", rec.Code)
	}
}

func TestDeleteReservedTagRefused(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping handler test in short mode")
	}

	ts := setupTestServer(t)

	rec := ts.do(t, http.MethodDelete, "/api/tags/"+mediatypes.TagImage, nil)
	if rec.Code != http.StatusConflict {
		t.Errorf("reserved delete status = %d, want 409", rec.Code)
	}
}

func TestClassificationTagGuards(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping handler test in short mode")
	}

	ts := setupTestServer(t)
	path := ts.seedFile(t, "guarded.jpg", "", mediatypes.TagImage)

	// A second classification tag is refused.
	rec := ts.do(t, http.MethodPost, "/api/tags/file", TagRequest{Path: path, Tags: []string{mediatypes.TagVideo}})
	if rec.Code != http.StatusConflict {
		t.Fatalf("conflicting assign status = %d, want 409", rec.Code)
	}

	// So is removing the one the file holds.
	rec = ts.do(t, http.MethodDelete, "/api/tags/file", TagRequest{Path: path, Tags: []string{mediatypes.TagImage}})
	if rec.Code != http.StatusConflict {
		t.Fatalf("classification remove status = %d, want 409", rec.Code)
	}

	rec = ts.do(t, http.MethodGet, "/api/tags/file?path="+path, nil)
	var tags []string
	if err := json.Unmarshal(rec.Body.Bytes(), &tags); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(tags) != 1 || tags[0] != mediatypes.TagImage {
		t.Errorf("tags = %v, want only %s", tags, mediatypes.TagImage)
	}
}

func TestTriggerReconcileAndStatus(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping handler test in short mode")
	}

	ts := setupTestServer(t)

	rec := ts.do(t, http.MethodPost, "/api/reconcile", nil)
	if rec.Code != http.StatusAccepted {
		t.Fatalf("trigger status = %d (body: %s)", rec.Code, rec.Body.String())
	}

	rec = ts.do(t, http.MethodGet, "/api/status", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status endpoint = %d", rec.Code)
	}
	var st runner.Status
	if err := json.Unmarshal(rec.Body.Bytes(), &st); err != nil {
		t.Fatalf("decode: %v", err)
	}
}

func TestHealthEndpoints(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping handler test in short mode")
	}

	ts := setupTestServer(t)

	for _, target := range []string{"/healthz", "/livez", "/readyz", "/version"} {
		rec := ts.do(t, http.MethodGet, target, nil)
		if rec.Code != http.StatusOK {
			t.Errorf("%s status = %d", target, rec.Code)
		}
	}
}
