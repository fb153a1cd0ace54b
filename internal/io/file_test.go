package ioutils

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func TestSanitizeFileName(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"normal-file.mp3", "normal-file.mp3"},
		{"file:with:colons.mp3", "file_with_colons.mp3"},
		{"file<with>brackets.mp3", "file_with_brackets.mp3"},
		{"file|with|pipes.mp3", "file_with_pipes.mp3"},
		{"trailing dots...", "trailing dots"},
		{"multiple   spaces", "multiple spaces"},
		{"trailing spaces   ", "trailing spaces"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := SanitizeFileName(tt.input); got != tt.want {
				t.Errorf("SanitizeFileName(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestURLBaseName(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"https://example.org/audio/012.mp3", "012.mp3"},
		{"https://example.org/audio/tlh%20012.mp3?x=1", "tlh 012.mp3"},
		{"https://example.org/", ""},
		{"012.mp3", "012.mp3"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := URLBaseName(tt.input); got != tt.want {
				t.Errorf("URLBaseName(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestCopyFile(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src.json")
	dst := filepath.Join(dir, "dst.json")
	content := []byte("{\r\n  \"hymn1\": {}\n}\x00")

	if err := os.WriteFile(src, content, 0644); err != nil {
		t.Fatal(err)
	}
	if err := CopyFile(context.Background(), src, dst); err != nil {
		t.Fatalf("CopyFile failed: %v", err)
	}

	got, err := os.ReadFile(dst)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != string(content) {
		t.Errorf("copy = %q, want %q", got, content)
	}
}

func TestCopyFile_MissingSource(t *testing.T) {
	dir := t.TempDir()
	if err := CopyFile(context.Background(), filepath.Join(dir, "nope"), filepath.Join(dir, "dst")); err == nil {
		t.Error("expected error for missing source")
	}
}

func TestFileSize(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "f")

	if got := FileSize(path); got != -1 {
		t.Errorf("FileSize(missing) = %d, want -1", got)
	}
	if err := os.WriteFile(path, []byte("abc"), 0644); err != nil {
		t.Fatal(err)
	}
	if got := FileSize(path); got != 3 {
		t.Errorf("FileSize = %d, want 3", got)
	}
}
