package server

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"time"

	"github.com/shouni/go-storybook-kit/pkg/publisher"
	"github.com/shouni/go-storybook-kit/pkg/workflow"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httprate"
)

//go:embed templates/*.html
var templateFS embed.FS

const (
	defaultRateLimit  = 10
	defaultRateWindow = time.Minute
	shutdownTimeout   = 10 * time.Second
)

// Options は HTTP サーバーの動作設定なのだ。
type Options struct {
	RateLimit  int           // RateWindow あたりの POST /stories の上限 (IP 単位)
	RateWindow time.Duration
}

// Server はフォームの表示と物語の生成結果の描画を担う HTTP ハンドラーなのだ。
// 1つのプロセスにつき1つの Session を持ち、同じプロンプトの挿絵は再生成しないのだ。
type Server struct {
	router  chi.Router
	session *workflow.Session
	tmpl    *template.Template
	opts    Options
}

// New は Session を使う Server を組み立てるのだ。
func New(session *workflow.Session, opts Options) (*Server, error) {
	if session == nil {
		return nil, errors.New("Session は必須です")
	}
	if opts.RateLimit <= 0 {
		opts.RateLimit = defaultRateLimit
	}
	if opts.RateWindow <= 0 {
		opts.RateWindow = defaultRateWindow
	}

	tmpl, err := publisher.NewStoryTemplate()
	if err != nil {
		return nil, fmt.Errorf("物語テンプレートの読み込みに失敗したのだ: %w", err)
	}
	if _, err := tmpl.ParseFS(templateFS, "templates/*.html"); err != nil {
		return nil, fmt.Errorf("画面テンプレートの読み込みに失敗したのだ: %w", err)
	}

	s := &Server{
		router:  chi.NewRouter(),
		session: session,
		tmpl:    tmpl,
		opts:    opts,
	}
	s.setupRoutes()
	return s, nil
}

func (s *Server) setupRoutes() {
	s.router.Use(middleware.RealIP)
	s.router.Use(requestID)
	s.router.Use(requestLogger)
	s.router.Use(middleware.Recoverer)

	s.router.Get("/", s.handleForm)
	s.router.Get("/healthz", s.handleHealth)
	s.router.With(httprate.LimitByIP(s.opts.RateLimit, s.opts.RateWindow)).Post("/stories", s.handleCreateStory)
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Run は addr で待ち受け、ctx がキャンセルされたらグレースフルに停止するのだ。
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("Server starting", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		slog.Info("Server shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
