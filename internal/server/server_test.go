package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"

	"github.com/shouni/go-storybook-kit/pkg/config"
	"github.com/shouni/go-storybook-kit/pkg/domain"
	"github.com/shouni/go-storybook-kit/pkg/workflow"

	"github.com/google/uuid"
)

const kittenStoryJSON = `{
  "title": "Whiskers and Pip Look Up",
  "scenes": [
    {"text": "Whiskers met Pip.", "image_prompt": "kitten and mouse, watercolor"},
    {"text": "Pip asked about the moon.", "image_prompt": "moon, watercolor"},
    {"text": "They built a telescope.", "image_prompt": "telescope, watercolor"},
    {"text": "They learned the moon phases.", "image_prompt": "moon phases, watercolor"}
  ],
  "moral": "Curious questions lead to wonderful discoveries."
}`

type stubText struct {
	mu       sync.Mutex
	response string
	err      error
	calls    int
}

func (s *stubText) GenerateJSON(context.Context, string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	return s.response, s.err
}

type stubImage struct {
	mu     sync.Mutex
	failOn string
	calls  int
}

func (s *stubImage) GenerateImage(_ context.Context, prompt string) (*domain.Image, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	if prompt == s.failOn {
		return nil, errors.New("image service error")
	}
	return &domain.Image{Data: []byte("png:" + prompt), MimeType: "image/png"}, nil
}

func newTestServer(t *testing.T, text *stubText, image *stubImage, opts Options) *Server {
	t.Helper()
	mgr, err := workflow.New(context.Background(), workflow.ManagerArgs{
		Config:         config.DefaultConfig(),
		TextGenerator:  text,
		ImageGenerator: image,
	})
	if err != nil {
		t.Fatalf("workflow.New() error = %v", err)
	}
	session, err := mgr.NewSession()
	if err != nil {
		t.Fatalf("NewSession() error = %v", err)
	}
	srv, err := New(session, opts)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return srv
}

func postStory(t *testing.T, srv http.Handler, form url.Values) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/stories", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	return rec
}

func kittenForm() url.Values {
	return url.Values{
		"interests": {"a brave kitten and a genius mouse"},
		"age":       {"6"},
		"theme":     {"curiosity"},
		"style":     {"children's watercolor"},
	}
}

func TestServer_Form(t *testing.T) {
	srv := newTestServer(t, &stubText{}, &stubImage{}, Options{})
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	body := rec.Body.String()
	for _, want := range []string{`name="interests"`, `type="range"`, `min="3"`, `max="12"`, `value="curiosity"`, "Pixar-style 3D"} {
		if !strings.Contains(body, want) {
			t.Errorf("form should contain %q", want)
		}
	}
	if _, err := uuid.Parse(rec.Header().Get(requestIDHeader)); err != nil {
		t.Errorf("X-Request-Id should be a UUID: %q", rec.Header().Get(requestIDHeader))
	}
}

func TestServer_Health(t *testing.T) {
	srv := newTestServer(t, &stubText{}, &stubImage{}, Options{})
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if body["status"] != "ok" {
		t.Errorf("status = %q", body["status"])
	}
}

func TestServer_CreateStory_EndToEnd(t *testing.T) {
	text := &stubText{response: kittenStoryJSON}
	image := &stubImage{failOn: "moon phases, watercolor"}
	srv := newTestServer(t, text, image, Options{})

	rec := postStory(t, srv, kittenForm())
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	body := rec.Body.String()

	if got := strings.Count(body, `src="data:image/png;base64,`); got != 3 {
		t.Errorf("images = %d, want 3", got)
	}
	if got := strings.Count(body, `class="warning" role="alert"`); got != 1 {
		t.Errorf("scene warnings = %d, want 1", got)
	}
	prev := -1
	for _, id := range []string{`id="scene-1"`, `id="scene-2"`, `id="scene-3"`, `id="scene-4"`} {
		idx := strings.Index(body, id)
		if idx <= prev {
			t.Fatalf("%s missing or out of order", id)
		}
		prev = idx
	}
	if idx := strings.Index(body, `class="warning" role="alert"`); idx < strings.Index(body, `id="scene-4"`) {
		t.Error("warning placeholder should belong to scene 4")
	}
	if !strings.Contains(body, "Curious questions lead to wonderful discoveries.") {
		t.Error("moral should be rendered")
	}

	// 同じ物語の再描画では挿絵を再生成しないのだ
	postStory(t, srv, kittenForm())
	if image.calls != 5 {
		t.Errorf("image calls = %d, want 5 (4 first time, only the failed scene retried)", image.calls)
	}
}

func TestServer_CreateStory_ValidationErrors(t *testing.T) {
	tests := []struct {
		name  string
		edit  func(url.Values)
		field string
	}{
		{"empty interests", func(v url.Values) { v.Set("interests", "  ") }, "interests"},
		{"age too high", func(v url.Values) { v.Set("age", "13") }, "age"},
		{"age not a number", func(v url.Values) { v.Set("age", "six") }, "age"},
		{"unknown theme", func(v url.Values) { v.Set("theme", "greed") }, "theme"},
		{"empty style", func(v url.Values) { v.Set("style", "") }, "illustration_style"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			text, image := &stubText{response: kittenStoryJSON}, &stubImage{}
			srv := newTestServer(t, text, image, Options{})
			form := kittenForm()
			tt.edit(form)

			rec := postStory(t, srv, form)
			if rec.Code != http.StatusUnprocessableEntity {
				t.Errorf("status = %d, want 422", rec.Code)
			}
			if !strings.Contains(rec.Body.String(), `id="error-`+tt.field+`"`) {
				t.Errorf("inline error for %s missing", tt.field)
			}
			if text.calls != 0 || image.calls != 0 {
				t.Errorf("no remote calls expected: text=%d image=%d", text.calls, image.calls)
			}
		})
	}
}

func TestServer_CreateStory_CustomStyle(t *testing.T) {
	text := &stubText{response: kittenStoryJSON}
	srv := newTestServer(t, text, &stubImage{}, Options{})
	form := kittenForm()
	form.Set("style", "")
	form.Set("custom_style", "paper collage")

	if rec := postStory(t, srv, form); rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
}

func TestServer_CreateStory_GenerationError(t *testing.T) {
	text := &stubText{response: `Sorry, I can only write {"title": "half a story"}`}
	image := &stubImage{}
	srv := newTestServer(t, text, image, Options{})

	rec := postStory(t, srv, kittenForm())
	if rec.Code != http.StatusBadGateway {
		t.Fatalf("status = %d, want 502", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "<strong>parse</strong>") {
		t.Error("error page should name the failed stage")
	}
	if !strings.Contains(body, `id="error-detail"`) {
		t.Error("error page should show the full detail")
	}
	if image.calls != 0 {
		t.Errorf("image calls = %d, want 0", image.calls)
	}
}

func TestServer_RateLimit(t *testing.T) {
	srv := newTestServer(t, &stubText{response: kittenStoryJSON}, &stubImage{}, Options{RateLimit: 1})
	form := kittenForm()
	form.Set("age", "99")

	if rec := postStory(t, srv, form); rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("first status = %d", rec.Code)
	}
	if rec := postStory(t, srv, form); rec.Code != http.StatusTooManyRequests {
		t.Errorf("second status = %d, want 429", rec.Code)
	}
}

func TestNew_RequiresSession(t *testing.T) {
	if _, err := New(nil, Options{}); err == nil {
		t.Fatal("expected error for nil session")
	}
}
