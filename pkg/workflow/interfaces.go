package workflow

import (
	"context"
	"iter"

	"github.com/shouni/go-storybook-kit/pkg/domain"
	"github.com/shouni/go-storybook-kit/pkg/publisher"
)

// StoryRunner は StoryRequest から検証済みの物語を生成する責務を持ちます。
type StoryRunner interface {
	Run(ctx context.Context, req domain.StoryRequest) (*domain.Story, error)
}

// IllustrationRunner は物語の各シーンに挿絵を付ける責務を持ちます。
type IllustrationRunner interface {
	Run(ctx context.Context, story *domain.Story) []domain.IllustratedScene
	Stream(ctx context.Context, story *domain.Story) iter.Seq[domain.IllustratedScene]
}

// PublishRunner は挿絵付きの物語を指定された形式で出力する責務を持ちます。
type PublishRunner interface {
	Run(ctx context.Context, story *domain.Story, scenes []domain.IllustratedScene, outputDir string) (publisher.PublishResult, error)
}
