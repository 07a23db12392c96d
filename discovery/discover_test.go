package discovery

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func touch(t *testing.T, path string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("Failed to create dir: %v", err)
	}
	if err := os.WriteFile(path, []byte("x"), 0644); err != nil {
		t.Fatalf("Failed to write file: %v", err)
	}
}

func TestIsSupported(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{"a.jpg", true},
		{"a.JPG", true},
		{"a.jpeg", true},
		{"a.JpEg", true},
		{"a.heic", true},
		{"a.HEIC", true},
		{"a.heif", true},
		{"a.png", true},
		{"a.PNG", true},
		{"a.bmp", true},
		{"a.txt", false},
		{"a.gif", false},
		{"a.webp", false},
		{"png", false},
		{"a.png.bak", false},
	}

	for _, tt := range tests {
		if got := IsSupported(tt.name); got != tt.want {
			t.Errorf("IsSupported(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestExtensions(t *testing.T) {
	want := []string{".bmp", ".heic", ".heif", ".jpeg", ".jpg", ".png"}
	if got := Extensions(); !reflect.DeepEqual(got, want) {
		t.Errorf("Extensions() = %v, want %v", got, want)
	}
}

func TestDiscover(t *testing.T) {
	tmpDir := t.TempDir()
	touch(t, filepath.Join(tmpDir, "a.png"))
	touch(t, filepath.Join(tmpDir, "b.JPG"))
	touch(t, filepath.Join(tmpDir, "nested", "deeper", "c.heic"))
	touch(t, filepath.Join(tmpDir, "notes.txt"))
	touch(t, filepath.Join(tmpDir, "anim.gif"))

	files, err := Discover(tmpDir)
	if err != nil {
		t.Fatalf("Discover failed: %v", err)
	}

	want := []string{
		filepath.Join(tmpDir, "a.png"),
		filepath.Join(tmpDir, "b.JPG"),
		filepath.Join(tmpDir, "nested", "deeper", "c.heic"),
	}
	if !reflect.DeepEqual(files, want) {
		t.Errorf("Discover() = %v, want %v", files, want)
	}
}

func TestDiscover_ReturnsAbsolutePaths(t *testing.T) {
	tmpDir := t.TempDir()
	touch(t, filepath.Join(tmpDir, "a.png"))

	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("Getwd failed: %v", err)
	}
	rel, err := filepath.Rel(wd, tmpDir)
	if err != nil {
		t.Skipf("temp dir not reachable relatively: %v", err)
	}

	files, err := Discover(rel)
	if err != nil {
		t.Fatalf("Discover failed: %v", err)
	}
	if len(files) != 1 || !filepath.IsAbs(files[0]) {
		t.Errorf("Expected one absolute path, got %v", files)
	}
}

func TestDiscover_EmptyDir(t *testing.T) {
	files, err := Discover(t.TempDir())
	if err != nil {
		t.Fatalf("Discover failed: %v", err)
	}
	if len(files) != 0 {
		t.Errorf("Expected no files, got %v", files)
	}
}

func TestDiscover_MissingDir(t *testing.T) {
	_, err := Discover(filepath.Join(t.TempDir(), "missing"))
	if err == nil {
		t.Fatal("Expected error for missing directory, got nil")
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("Expected os.ErrNotExist, got %v", err)
	}
}

func TestDiscover_FileInsteadOfDir(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a.png")
	touch(t, path)

	_, err := Discover(path)
	if !errors.Is(err, ErrNotDirectory) {
		t.Errorf("Expected ErrNotDirectory, got %v", err)
	}
}
