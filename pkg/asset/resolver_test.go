package asset

import (
	"path/filepath"
	"testing"
)

func TestExtensionFor(t *testing.T) {
	tests := []struct {
		mime string
		want string
	}{
		{"image/png", ".png"},
		{"image/jpeg", ".jpg"},
		{"IMAGE/JPEG; charset=binary", ".jpg"},
		{"image/webp", ".webp"},
		{"", ".png"},
		{"application/octet-stream", ".png"},
	}
	for _, tt := range tests {
		t.Run(tt.mime, func(t *testing.T) {
			if got := ExtensionFor(tt.mime); got != tt.want {
				t.Errorf("ExtensionFor(%q) = %q, want %q", tt.mime, got, tt.want)
			}
		})
	}
}

func TestSceneFileName_InvalidNumber(t *testing.T) {
	if _, err := SceneFileName(0, "image/png"); err == nil {
		t.Fatal("expected error for scene number 0")
	}
}

func TestReplaceExt(t *testing.T) {
	if got := ReplaceExt("out/story.md", ".html"); got != "out/story.html" {
		t.Errorf("ReplaceExt() = %q", got)
	}
}

func TestSceneFileName(t *testing.T) {
	got, err := SceneFileName(3, "image/jpeg")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "scene_3.jpg" {
		t.Errorf("SceneFileName() = %q, want scene_3.jpg", got)
	}
}

func TestResolvePath(t *testing.T) {
	tests := []struct {
		name    string
		baseDir string
		file    string
		want    string
	}{
		{"local", "out", "story.md", filepath.Join("out", "story.md")},
		{"local nested", filepath.Join("out", "images"), "scene_1.png", filepath.Join("out", "images", "scene_1.png")},
		{"gcs", "gs://bucket/out", "story.md", "gs://bucket/out/story.md"},
		{"gcs trailing slash", "gs://bucket/out/", "story.md", "gs://bucket/out/story.md"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ResolvePath(tt.baseDir, tt.file)
			if err != nil {
				t.Fatalf("ResolvePath() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("ResolvePath(%q, %q) = %q, want %q", tt.baseDir, tt.file, got, tt.want)
			}
		})
	}
}

func TestResolveBaseDir(t *testing.T) {
	sep := string(filepath.Separator)
	tests := []struct {
		raw  string
		want string
	}{
		{filepath.Join("in", "story.json"), "in" + sep},
		{"story.json", "." + sep},
		{"gs://bucket/in/story.json", "gs://bucket/in/"},
		{"", ""},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			if got := ResolveBaseDir(tt.raw); got != tt.want {
				t.Errorf("ResolveBaseDir(%q) = %q, want %q", tt.raw, got, tt.want)
			}
		})
	}
}
