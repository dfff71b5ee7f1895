package runner

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/shouni/go-storybook-kit/pkg/domain"
	"github.com/shouni/go-storybook-kit/pkg/publisher"
)

// StoryPublishRunner は物語と挿絵を Markdown、HTML、JSON として出力します。
type StoryPublishRunner struct {
	publisher *publisher.StoryPublisher
}

// NewStoryPublishRunner は依存関係を注入して初期化します。
func NewStoryPublishRunner(writer publisher.OutputWriter) *StoryPublishRunner {
	return &StoryPublishRunner{publisher: publisher.NewStoryPublisher(writer)}
}

// Run は挿絵付きの物語を outputDir に書き出します。失敗したシーンは警告付きで出力されます。
func (pr *StoryPublishRunner) Run(ctx context.Context, story *domain.Story, scenes []domain.IllustratedScene, outputDir string) (publisher.PublishResult, error) {
	if story == nil {
		return publisher.PublishResult{}, fmt.Errorf("出力する物語がありません")
	}
	page := publisher.NewPage(story, scenes)

	result, err := pr.publisher.Publish(ctx, page, publisher.Options{OutputDir: outputDir})
	if err != nil {
		return result, fmt.Errorf("成果物の出力に失敗しました: %w", err)
	}

	slog.InfoContext(ctx, "Story published",
		"markdown", result.MarkdownPath,
		"html", result.HTMLPath,
		"images", page.ImageCount(),
		"warnings", len(page.Warnings()),
	)
	return result, nil
}
