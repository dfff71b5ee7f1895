package runner

import (
	"context"
	"iter"
	"log/slog"

	"github.com/shouni/go-storybook-kit/pkg/domain"
	"github.com/shouni/go-storybook-kit/pkg/generator"
)

// StoryIllustrationRunner は検証済みの Story のシーンに挿絵を付けます。
type StoryIllustrationRunner struct {
	illustrator *generator.SceneIllustrator
}

// NewStoryIllustrationRunner は依存関係を注入して初期化します。
func NewStoryIllustrationRunner(illustrator *generator.SceneIllustrator) *StoryIllustrationRunner {
	return &StoryIllustrationRunner{illustrator: illustrator}
}

// Run は全シーンの挿絵を生成し、シーン順のスライスで返します。失敗したシーンも結果に含まれます。
func (r *StoryIllustrationRunner) Run(ctx context.Context, story *domain.Story) []domain.IllustratedScene {
	slog.InfoContext(ctx, "Starting scene illustration", "title", story.Title, "count", len(story.Scenes))

	results := r.illustrator.IllustrateAll(ctx, story.Scenes)

	failed := 0
	for _, s := range results {
		if s.Result.Status == domain.IllustrationFailed {
			failed++
		}
	}
	slog.InfoContext(ctx, "Scene illustration finished", "total", len(results), "failed", failed)
	return results
}

// Stream はシーンを1つずつ挿絵付きにして返す遅延シーケンスを返します。
func (r *StoryIllustrationRunner) Stream(ctx context.Context, story *domain.Story) iter.Seq[domain.IllustratedScene] {
	return r.illustrator.Illustrate(ctx, story.Scenes)
}
