package pathutil

import (
	"os"
	"path/filepath"
	"testing"
)

func TestNormalizeIdempotent(t *testing.T) {
	paths := []string{
		"/media/photos/cat.jpg",
		"relative/file.png",
		"./a/../b/c.mp4",
		"/media//double//separators.mp3",
	}

	for _, p := range paths {
		t.Run(p, func(t *testing.T) {
			once, err := Normalize(p)
			if err != nil {
				t.Fatalf("Normalize(%q) failed: %v", p, err)
			}
			twice, err := Normalize(once)
			if err != nil {
				t.Fatalf("Normalize(%q) failed: %v", once, err)
			}
			if once != twice {
				t.Errorf("Normalize is not idempotent: %q -> %q -> %q", p, once, twice)
			}
			if !filepath.IsAbs(once) {
				t.Errorf("Normalize(%q) = %q, expected absolute path", p, once)
			}
		})
	}
}

func TestNormalizeEquivalentInputs(t *testing.T) {
	a, err := Normalize("/media/photos/../photos/cat.jpg")
	if err != nil {
		t.Fatalf("Normalize failed: %v", err)
	}
	b, err := Normalize("/media/photos/./cat.jpg")
	if err != nil {
		t.Fatalf("Normalize failed: %v", err)
	}
	if a != b {
		t.Errorf("equivalent paths normalized differently: %q vs %q", a, b)
	}
}

func TestNormalizeRelative(t *testing.T) {
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("Getwd failed: %v", err)
	}

	got, err := Normalize("file.jpg")
	if err != nil {
		t.Fatalf("Normalize failed: %v", err)
	}
	want := filepath.Join(wd, "file.jpg")
	if got != want {
		t.Errorf("Normalize(\"file.jpg\") = %q, want %q", got, want)
	}
}

func TestNormalizeNonexistent(t *testing.T) {
	// Normalization must not require the path to exist.
	got, err := Normalize("/does/not/exist/anywhere.bin")
	if err != nil {
		t.Fatalf("Normalize failed on nonexistent path: %v", err)
	}
	if got != filepath.Clean("/does/not/exist/anywhere.bin") {
		t.Errorf("unexpected normalization: %q", got)
	}
}

func TestHasPrefix(t *testing.T) {
	tests := []struct {
		path, dir string
		expected  bool
	}{
		{"/media/photos/cat.jpg", "/media/photos", true},
		{"/media/photos", "/media/photos", true},
		{"/media/photos2/cat.jpg", "/media/photos", false},
		{"/other/cat.jpg", "/media/photos", false},
	}

	for _, tt := range tests {
		if got := HasPrefix(tt.path, tt.dir); got != tt.expected {
			t.Errorf("HasPrefix(%q, %q) = %v, want %v", tt.path, tt.dir, got, tt.expected)
		}
	}
}
