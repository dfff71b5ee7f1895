package pipeline

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/shouni/go-storybook-kit/examples"
	"github.com/shouni/go-storybook-kit/internal/config"
	"github.com/shouni/go-storybook-kit/pkg/asset"
	"github.com/shouni/go-storybook-kit/pkg/domain"
	"github.com/shouni/go-storybook-kit/pkg/parser"
	"github.com/shouni/go-storybook-kit/pkg/prompts"
	"github.com/shouni/go-storybook-kit/pkg/publisher"
	"github.com/shouni/go-storybook-kit/pkg/workflow"
)

// NewManager は環境設定から Gemini を使う workflow.Manager を組み立てるのだ。
func NewManager(ctx context.Context, cfg *config.Config) (*workflow.Manager, error) {
	if err := cfg.RequireAPIKey(); err != nil {
		return nil, err
	}
	mgr, err := workflow.New(ctx, workflow.ManagerArgs{
		Config: cfg.LibraryConfig(),
		Writer: publisher.NewLocalWriter(),
	})
	if err != nil {
		return nil, fmt.Errorf("ワークフローの初期化に失敗したのだ: %w", err)
	}
	return mgr, nil
}

// BuildRequest は CLI の入力値から StoryRequest を作るのだ。
func BuildRequest(opts config.GenerateOptions) (domain.StoryRequest, error) {
	theme, err := domain.ParseTheme(opts.Theme)
	if err != nil {
		return domain.StoryRequest{}, err
	}
	return domain.NewStoryRequest(opts.Interests, opts.Age, theme, opts.Style)
}

// Execute は物語生成、挿絵生成、公開処理を順に実行するのだ。
func Execute(ctx context.Context, mgr *workflow.Manager, opts config.GenerateOptions) (publisher.PublishResult, error) {
	req, err := BuildRequest(opts)
	if err != nil {
		return publisher.PublishResult{}, err
	}

	session, err := mgr.NewSession()
	if err != nil {
		return publisher.PublishResult{}, err
	}

	// --- Phase 1 & 2: Story + Illustration ---
	slog.InfoContext(ctx, "Phase 1: 物語の生成を開始するのだ...", "age", req.Age(), "theme", req.Theme().String())
	result, err := session.Generate(ctx, req)
	if err != nil {
		return publisher.PublishResult{}, err
	}

	// --- Phase 3: Publish ---
	return runPublishStep(ctx, mgr, result, opts.OutputDir)
}

// ExecutePromptOnly はテキスト生成に送る指示文だけを w に書き出すのだ。外部サービスは呼ばないのだ。
func ExecutePromptOnly(cfg *config.Config, w io.Writer) error {
	req, err := BuildRequest(cfg.Options)
	if err != nil {
		return err
	}
	pb, err := prompts.NewTextPromptBuilder(cfg.StoryLanguage)
	if err != nil {
		return err
	}
	prompt, err := pb.Compile(req)
	if err != nil {
		return fmt.Errorf("プロンプトの構築に失敗したのだ: %w", err)
	}
	_, err = fmt.Fprintln(w, prompt)
	return err
}

// ExecuteIllustrateOnly は JSON ファイルの物語を読み込み、挿絵生成と公開処理を実行するのだ。
// ファイルが指定されていない場合は同梱のサンプル物語を使うのだ。
func ExecuteIllustrateOnly(ctx context.Context, mgr *workflow.Manager, opts config.GenerateOptions) (publisher.PublishResult, error) {
	story, err := loadStory(opts.StoryFile)
	if err != nil {
		return publisher.PublishResult{}, err
	}

	outputDir := opts.OutputDir
	if outputDir == "" {
		outputDir = config.DefaultOutputDir
		if opts.StoryFile != "" && opts.StoryFile != "-" {
			outputDir = asset.ResolveBaseDir(opts.StoryFile)
		}
	}

	session, err := mgr.NewSession()
	if err != nil {
		return publisher.PublishResult{}, err
	}

	slog.InfoContext(ctx, "Phase 2: 挿絵生成を開始するのだ...", "title", story.Title)
	result := session.Illustrate(ctx, story)

	return runPublishStep(ctx, mgr, result, outputDir)
}

func loadStory(path string) (*domain.Story, error) {
	switch path {
	case "":
		slog.Info("物語ファイルの指定がないのでサンプルを使うのだ")
		return examples.LoadStory()
	case "-":
		return parser.ParseStoryReader(os.Stdin)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("JSONファイル '%s' の読み込みに失敗しました: %w", path, err)
	}
	defer f.Close()

	story, err := parser.ParseStoryReader(f)
	if err != nil {
		return nil, fmt.Errorf("JSONファイル '%s' の解析に失敗しました: %w", path, err)
	}
	return story, nil
}

// runPublishStep は PublishRunner を使って最終成果物を保存するのだ
func runPublishStep(ctx context.Context, mgr *workflow.Manager, result *workflow.Result, outputDir string) (publisher.PublishResult, error) {
	slog.InfoContext(ctx, "Phase 3: 公開処理を開始するのだ...", "output", outputDir)
	published, err := mgr.BuildPublishRunner().Run(ctx, result.Story, result.Scenes, outputDir)
	if err != nil {
		return published, fmt.Errorf("公開処理に失敗したのだ: %w", err)
	}
	if failed := result.Failed(); len(failed) > 0 {
		slog.WarnContext(ctx, "挿絵を生成できなかったシーンがあるのだ", "scenes", failed)
	}
	slog.InfoContext(ctx, "物語の出力が完了したのだ！", "html", published.HTMLPath)
	return published, nil
}
