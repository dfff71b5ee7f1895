package workflow

import (
	"context"
	"errors"
	"fmt"

	"github.com/shouni/go-storybook-kit/pkg/adapters"
	"github.com/shouni/go-storybook-kit/pkg/config"
	"github.com/shouni/go-storybook-kit/pkg/prompts"
	"github.com/shouni/go-storybook-kit/pkg/publisher"
	"github.com/shouni/go-storybook-kit/pkg/runner"
)

// ErrMissingAPIKey は Gemini アダプターを構築するための APIキーが設定されていない場合のエラーです。
var ErrMissingAPIKey = errors.New("GEMINI_API_KEY が設定されていません")

// ManagerArgs は Manager の初期化に必要な依存関係です。
// TextGenerator と ImageGenerator が nil の場合は Config の APIキーから Gemini アダプターを構築します。
type ManagerArgs struct {
	Config         config.Config
	TextGenerator  adapters.TextGenerator
	ImageGenerator adapters.ImageGenerator
	StoryPrompt    prompts.StoryPrompt
	Writer         publisher.OutputWriter
}

// Manager は、ワークフローの各工程を担う Runner 群を構築・管理します。
type Manager struct {
	cfg         config.Config
	textGen     adapters.TextGenerator
	imageGen    adapters.ImageGenerator
	storyPrompt prompts.StoryPrompt
	writer      publisher.OutputWriter
}

// New は設定と外部サービスのクライアントを基に新しい Manager を初期化します。
func New(ctx context.Context, args ManagerArgs) (*Manager, error) {
	cfg := withDefaults(args.Config)

	textGen, imageGen, err := initializeGenerators(ctx, cfg, args.TextGenerator, args.ImageGenerator)
	if err != nil {
		return nil, err
	}

	sp, err := initializeStoryPrompt(args.StoryPrompt, cfg.StoryLanguage)
	if err != nil {
		return nil, err
	}

	writer := args.Writer
	if writer == nil {
		writer = publisher.NewLocalWriter()
	}

	return &Manager{
		cfg:         cfg,
		textGen:     textGen,
		imageGen:    imageGen,
		storyPrompt: sp,
		writer:      writer,
	}, nil
}

// Config は補完済みの設定を返します。
func (m *Manager) Config() config.Config {
	return m.cfg
}

// NewSession は独立した画像キャッシュを持つ Session を作成します。
func (m *Manager) NewSession() (*Session, error) {
	return newSession(m)
}

// BuildStoryRunner は、物語生成を担当する Runner を作成します。
func (m *Manager) BuildStoryRunner() StoryRunner {
	return runner.NewStoryRunner(m.cfg, m.storyPrompt, m.textGen)
}

// BuildPublishRunner は、成果物のパブリッシュを担当する Runner を作成します。
func (m *Manager) BuildPublishRunner() PublishRunner {
	return runner.NewStoryPublishRunner(m.writer)
}

// initializeGenerators は未指定のジェネレーターを Gemini アダプターで補完します。
func initializeGenerators(ctx context.Context, cfg config.Config, textGen adapters.TextGenerator, imageGen adapters.ImageGenerator) (adapters.TextGenerator, adapters.ImageGenerator, error) {
	if textGen != nil && imageGen != nil {
		return textGen, imageGen, nil
	}
	if cfg.GeminiAPIKey == "" {
		return nil, nil, ErrMissingAPIKey
	}

	client, err := adapters.NewGeminiClient(ctx, cfg.GeminiAPIKey)
	if err != nil {
		return nil, nil, err
	}

	if textGen == nil {
		ta, err := adapters.NewGeminiTextAdapter(client.Models, cfg.GeminiModel, cfg.Temperature)
		if err != nil {
			return nil, nil, fmt.Errorf("テキスト生成アダプターの初期化に失敗しました: %w", err)
		}
		textGen = ta
	}
	if imageGen == nil {
		imageClient, err := adapters.NewImageClient(ctx, cfg.GeminiAPIKey, cfg.Temperature)
		if err != nil {
			return nil, nil, err
		}
		ia, err := adapters.NewGeminiImageAdapter(imageClient, client.Models, cfg.ImageModel)
		if err != nil {
			return nil, nil, fmt.Errorf("画像生成アダプターの初期化に失敗しました: %w", err)
		}
		imageGen = ia
	}
	return textGen, imageGen, nil
}

// initializeStoryPrompt は StoryPrompt ビルダーを初期化します。
// 引数として既存のビルダーが渡された場合はそれを返し、nil の場合は新規作成します。
func initializeStoryPrompt(sp prompts.StoryPrompt, language string) (prompts.StoryPrompt, error) {
	if sp != nil {
		return sp, nil
	}
	pb, err := prompts.NewTextPromptBuilder(language)
	if err != nil {
		return nil, fmt.Errorf("TextPromptBuilder の新規作成に失敗しました: %w", err)
	}
	return pb, nil
}

func withDefaults(cfg config.Config) config.Config {
	def := config.DefaultConfig()
	if cfg.GeminiModel == "" {
		cfg.GeminiModel = def.GeminiModel
	}
	if cfg.ImageModel == "" {
		cfg.ImageModel = def.ImageModel
	}
	if cfg.StoryLanguage == "" {
		cfg.StoryLanguage = def.StoryLanguage
	}
	if cfg.Temperature == 0 {
		cfg.Temperature = def.Temperature
	}
	if cfg.Concurrency < 1 {
		cfg.Concurrency = def.Concurrency
	}
	return cfg
}
