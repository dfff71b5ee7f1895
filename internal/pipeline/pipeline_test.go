package pipeline

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/shouni/go-storybook-kit/examples"
	"github.com/shouni/go-storybook-kit/internal/config"
	"github.com/shouni/go-storybook-kit/pkg/domain"
	"github.com/shouni/go-storybook-kit/pkg/workflow"
)

type stubText struct{ calls int }

func (s *stubText) GenerateJSON(context.Context, string) (string, error) {
	s.calls++
	return string(examples.StoryJSON), nil
}

type stubImage struct{ calls int }

func (s *stubImage) GenerateImage(_ context.Context, prompt string) (*domain.Image, error) {
	s.calls++
	if strings.HasPrefix(prompt, "Four moon phases") {
		return nil, errors.New("rejected")
	}
	return &domain.Image{Data: []byte("jpeg"), MimeType: "image/jpeg"}, nil
}

func newManager(t *testing.T, text *stubText, image *stubImage) *workflow.Manager {
	t.Helper()
	cfg := config.LoadConfig()
	mgr, err := workflow.New(context.Background(), workflow.ManagerArgs{
		Config:         cfg.LibraryConfig(),
		TextGenerator:  text,
		ImageGenerator: image,
	})
	if err != nil {
		t.Fatalf("workflow.New() error = %v", err)
	}
	return mgr
}

func validOptions(outputDir string) config.GenerateOptions {
	return config.GenerateOptions{
		Interests: "a brave kitten and a genius mouse",
		Age:       6,
		Theme:     "curiosity",
		Style:     "watercolor",
		OutputDir: outputDir,
	}
}

func TestExecute(t *testing.T) {
	dir := t.TempDir()
	text, image := &stubText{}, &stubImage{}

	result, err := Execute(context.Background(), newManager(t, text, image), validOptions(dir))
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if text.calls != 1 || image.calls != 4 {
		t.Errorf("calls: text=%d image=%d", text.calls, image.calls)
	}

	saved := 0
	for _, p := range result.ImagePaths {
		if p != "" {
			saved++
		}
	}
	if saved != 3 {
		t.Errorf("saved images = %d, want 3", saved)
	}
	for _, name := range []string{"story.md", "story.html", "story.json", "images/scene_1.jpg"} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Errorf("%s not written: %v", name, err)
		}
	}
}

func TestExecute_InvalidRequestMakesNoCalls(t *testing.T) {
	text, image := &stubText{}, &stubImage{}
	opts := validOptions(t.TempDir())
	opts.Age = 42

	_, err := Execute(context.Background(), newManager(t, text, image), opts)
	var vErr *domain.ValidationError
	if !errors.As(err, &vErr) || vErr.Field != "age" {
		t.Fatalf("err = %v, want age ValidationError", err)
	}
	if text.calls != 0 || image.calls != 0 {
		t.Errorf("no remote calls expected: text=%d image=%d", text.calls, image.calls)
	}
}

func TestExecutePromptOnly(t *testing.T) {
	cfg := config.LoadConfig()
	cfg.Options = validOptions("")

	var buf bytes.Buffer
	if err := ExecutePromptOnly(cfg, &buf); err != nil {
		t.Fatalf("ExecutePromptOnly() error = %v", err)
	}
	for _, want := range []string{"6", "Curiosity", "watercolor", "kitten"} {
		if !strings.Contains(buf.String(), want) {
			t.Errorf("prompt should contain %q", want)
		}
	}
}

func TestExecuteIllustrateOnly(t *testing.T) {
	dir := t.TempDir()
	storyPath := filepath.Join(dir, "input", "story.json")
	if err := os.MkdirAll(filepath.Dir(storyPath), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(storyPath, examples.StoryJSON, 0o644); err != nil {
		t.Fatal(err)
	}

	text, image := &stubText{}, &stubImage{}
	outDir := filepath.Join(dir, "out")
	result, err := ExecuteIllustrateOnly(context.Background(), newManager(t, text, image), config.GenerateOptions{
		StoryFile: storyPath,
		OutputDir: outDir,
	})
	if err != nil {
		t.Fatalf("ExecuteIllustrateOnly() error = %v", err)
	}
	if text.calls != 0 {
		t.Errorf("text calls = %d, want 0", text.calls)
	}
	if image.calls != 4 {
		t.Errorf("image calls = %d, want 4", image.calls)
	}
	if !strings.HasPrefix(result.HTMLPath, outDir) {
		t.Errorf("HTMLPath = %q, want under %q", result.HTMLPath, outDir)
	}
}

func TestExecuteIllustrateOnly_DefaultsToStoryDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "input")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	storyPath := filepath.Join(dir, "mystory.json")
	if err := os.WriteFile(storyPath, examples.StoryJSON, 0o644); err != nil {
		t.Fatal(err)
	}

	result, err := ExecuteIllustrateOnly(context.Background(), newManager(t, &stubText{}, &stubImage{}), config.GenerateOptions{
		StoryFile: storyPath,
	})
	if err != nil {
		t.Fatalf("ExecuteIllustrateOnly() error = %v", err)
	}
	if want := filepath.Join(dir, "story.html"); result.HTMLPath != want {
		t.Errorf("HTMLPath = %q, want %q", result.HTMLPath, want)
	}
	if _, err := os.Stat(filepath.Join(dir, "images", "scene_1.jpg")); err != nil {
		t.Errorf("image not written next to the story file: %v", err)
	}
}

func TestExecuteIllustrateOnly_MissingFile(t *testing.T) {
	_, err := ExecuteIllustrateOnly(context.Background(), newManager(t, &stubText{}, &stubImage{}), config.GenerateOptions{
		StoryFile: filepath.Join(t.TempDir(), "missing.json"),
		OutputDir: t.TempDir(),
	})
	if err == nil {
		t.Fatal("expected error for missing story file")
	}
}

func TestNewManager_RequiresAPIKey(t *testing.T) {
	cfg := config.LoadConfig()
	cfg.GeminiAPIKey = ""
	if _, err := NewManager(context.Background(), cfg); !errors.Is(err, config.ErrMissingAPIKey) {
		t.Errorf("err = %v, want ErrMissingAPIKey", err)
	}
}
