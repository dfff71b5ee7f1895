package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/shouni/go-storybook-kit/pkg/domain"
	"github.com/shouni/go-storybook-kit/pkg/publisher"
	"github.com/shouni/go-storybook-kit/pkg/runner"
)

// formValues はフォームの入力値なのだ。
type formValues struct {
	Interests   string
	Age         int
	Theme       string
	Style       string
	CustomStyle string
}

type themeOption struct {
	Value string
	Label string
}

type formView struct {
	Values    formValues
	Errors    map[string]string
	Themes    []themeOption
	Styles    []string
	MinAge    int
	MaxAge    int
	RequestID string
}

type errorView struct {
	Title     string
	Stage     string
	Detail    string
	Excerpt   string
	RequestID string
}

type resultView struct {
	Title     string
	Story     any
	Warnings  []int
	RequestID string
}

func newFormView(values formValues, requestID string) formView {
	themes := make([]themeOption, 0, len(domain.Themes()))
	for _, t := range domain.Themes() {
		themes = append(themes, themeOption{Value: strings.ToLower(t.String()), Label: t.String()})
	}
	return formView{
		Values:    values,
		Errors:    map[string]string{},
		Themes:    themes,
		Styles:    domain.IllustrationStyles,
		MinAge:    domain.MinAge,
		MaxAge:    domain.MaxAge,
		RequestID: requestID,
	}
}

func defaultFormValues() formValues {
	return formValues{
		Age:   domain.DefaultAge,
		Theme: strings.ToLower(domain.ThemeFriendship.String()),
		Style: domain.IllustrationStyles[0],
	}
}

func (s *Server) handleForm(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, http.StatusOK, "form", newFormView(defaultFormValues(), RequestIDFromContext(r.Context())))
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

func (s *Server) handleCreateStory(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	reqID := RequestIDFromContext(ctx)

	if err := r.ParseForm(); err != nil {
		http.Error(w, "フォームの読み込みに失敗しました", http.StatusBadRequest)
		return
	}
	values := readForm(r)

	// 1. 入力検証。失敗した場合は外部サービスを呼ばずにフォームを再表示するのだ
	req, err := buildRequest(values)
	if err != nil {
		view := newFormView(values, reqID)
		var vErr *domain.ValidationError
		if errors.As(err, &vErr) {
			view.Errors[vErr.Field] = vErr.Message
		} else {
			view.Errors["form"] = err.Error()
		}
		slog.InfoContext(ctx, "Form validation failed", "request_id", reqID, "error", err)
		s.render(w, r, http.StatusUnprocessableEntity, "form", view)
		return
	}

	// 2. 物語と挿絵の生成
	result, err := s.session.Generate(ctx, req)
	if err != nil {
		slog.ErrorContext(ctx, "Story generation failed", "request_id", reqID, "error", err)
		s.render(w, r, http.StatusBadGateway, "error", newErrorView(err, reqID))
		return
	}

	// 3. 描画
	page := result.Page()
	s.render(w, r, http.StatusOK, "result", resultView{
		Title:     page.Title,
		Story:     publisher.ViewData(page),
		Warnings:  page.Warnings(),
		RequestID: reqID,
	})
}

func readForm(r *http.Request) formValues {
	values := formValues{
		Interests:   strings.TrimSpace(r.PostFormValue("interests")),
		Theme:       strings.TrimSpace(r.PostFormValue("theme")),
		Style:       strings.TrimSpace(r.PostFormValue("style")),
		CustomStyle: strings.TrimSpace(r.PostFormValue("custom_style")),
	}
	age, err := strconv.Atoi(strings.TrimSpace(r.PostFormValue("age")))
	if err != nil {
		age = 0
	}
	values.Age = age
	return values
}

func buildRequest(values formValues) (domain.StoryRequest, error) {
	theme, err := domain.ParseTheme(values.Theme)
	if err != nil {
		return domain.StoryRequest{}, err
	}
	style := values.Style
	if values.CustomStyle != "" {
		style = values.CustomStyle
	}
	return domain.NewStoryRequest(values.Interests, values.Age, theme, style)
}

func newErrorView(err error, reqID string) errorView {
	view := errorView{
		Title:     "The story could not be written",
		Detail:    err.Error(),
		RequestID: reqID,
	}
	var sgErr *runner.StoryGenerationError
	if errors.As(err, &sgErr) {
		view.Stage = string(sgErr.Stage)
	}
	var mErr *domain.MalformedStoryError
	if errors.As(err, &mErr) {
		view.Excerpt = mErr.Excerpt
	}
	return view
}

func (s *Server) render(w http.ResponseWriter, r *http.Request, status int, name string, data any) {
	var buf bytes.Buffer
	if err := s.tmpl.ExecuteTemplate(&buf, name, data); err != nil {
		slog.ErrorContext(r.Context(), "Template rendering failed", "template", name, "error", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}
