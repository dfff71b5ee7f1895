package runner

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/shouni/go-storybook-kit/pkg/adapters"
	"github.com/shouni/go-storybook-kit/pkg/config"
	"github.com/shouni/go-storybook-kit/pkg/domain"
	"github.com/shouni/go-storybook-kit/pkg/parser"
	"github.com/shouni/go-storybook-kit/pkg/prompts"
)

// StoryRunner は StoryRequest から検証済みの Story を生成します。
type StoryRunner struct {
	cfg           config.Config
	promptBuilder prompts.StoryPrompt
	textGen       adapters.TextGenerator
}

// NewStoryRunner は依存関係を注入して初期化します。
func NewStoryRunner(cfg config.Config, pb prompts.StoryPrompt, textGen adapters.TextGenerator) *StoryRunner {
	return &StoryRunner{
		cfg:           cfg,
		promptBuilder: pb,
		textGen:       textGen,
	}
}

// Run はプロンプト構築、テキスト生成、JSON の解析を順に行います。
// 失敗時は *StoryGenerationError を返し、部分的な Story は返しません。
func (sr *StoryRunner) Run(ctx context.Context, req domain.StoryRequest) (*domain.Story, error) {
	// 1. プロンプト構築
	prompt, err := sr.promptBuilder.Compile(req)
	if err != nil {
		return nil, &StoryGenerationError{Stage: StagePrompt, Err: err}
	}

	// 2. テキスト生成
	slog.InfoContext(ctx, "StoryRunner: Calling text model",
		"model", sr.cfg.GeminiModel,
		"age", req.Age(),
		"theme", req.Theme().String(),
		"style", req.IllustrationStyle(),
	)
	startTime := time.Now()
	raw, err := sr.generate(ctx, prompt)
	if err != nil {
		return nil, &StoryGenerationError{Stage: StageGenerate, Err: err}
	}

	// 3. 応答の解析と検証
	story, err := parser.ParseStory(raw)
	if err != nil {
		return nil, &StoryGenerationError{Stage: StageParse, Err: err}
	}

	slog.InfoContext(ctx, "StoryRunner: Story generated",
		"title", story.Title,
		"scenes", len(story.Scenes),
		"duration", time.Since(startTime).Round(time.Millisecond),
	)
	return story, nil
}

func (sr *StoryRunner) generate(ctx context.Context, prompt string) (string, error) {
	if sr.cfg.RequestTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, sr.cfg.RequestTimeout)
		defer cancel()
	}
	raw, err := sr.textGen.GenerateJSON(ctx, prompt)
	if err != nil {
		return "", fmt.Errorf("テキスト生成の呼び出しに失敗しました: %w", err)
	}
	return raw, nil
}
