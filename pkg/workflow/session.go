package workflow

import (
	"context"
	"fmt"
	"iter"
	"log/slog"

	"github.com/shouni/go-storybook-kit/pkg/domain"
	"github.com/shouni/go-storybook-kit/pkg/generator"
	"github.com/shouni/go-storybook-kit/pkg/publisher"
	"github.com/shouni/go-storybook-kit/pkg/runner"
)

// Result は1回の送信で生成された物語と挿絵の結果です。Scenes はシーン順に並びます。
type Result struct {
	Story  *domain.Story
	Scenes []domain.IllustratedScene
}

// Failed は挿絵生成に失敗したシーンの番号 (1 始まり) を返します。
func (r *Result) Failed() []int {
	var nums []int
	for _, s := range r.Scenes {
		if s.Result.Status != domain.IllustrationSucceeded {
			nums = append(nums, s.Index+1)
		}
	}
	return nums
}

// Page は描画用の Page を返します。
func (r *Result) Page() publisher.Page {
	return publisher.NewPage(r.Story, r.Scenes)
}

// Session は1人の利用者の操作単位です。画像キャッシュは Session の生存期間中のみ保持されます。
type Session struct {
	cache        generator.ImageCache
	story        StoryRunner
	illustration IllustrationRunner
}

func newSession(m *Manager) (*Session, error) {
	cache := generator.NewMemoryImageCache()
	ill, err := generator.NewSceneIllustrator(m.imageGen, cache, generator.IllustratorOptions{
		RateInterval: m.cfg.RateInterval,
		Timeout:      m.cfg.RequestTimeout,
		Concurrency:  m.cfg.Concurrency,
	})
	if err != nil {
		return nil, fmt.Errorf("挿絵生成エンジンの初期化に失敗しました: %w", err)
	}

	return &Session{
		cache:        cache,
		story:        m.BuildStoryRunner(),
		illustration: runner.NewStoryIllustrationRunner(ill),
	}, nil
}

// Generate は物語を生成し、続けて全シーンの挿絵を生成します。
// 物語生成に失敗した場合は *runner.StoryGenerationError を返し、挿絵生成は行いません。
func (s *Session) Generate(ctx context.Context, req domain.StoryRequest) (*Result, error) {
	story, err := s.story.Run(ctx, req)
	if err != nil {
		return nil, err
	}
	return s.Illustrate(ctx, story), nil
}

// Illustrate は既存の物語に挿絵を付けます。キャッシュ済みのプロンプトは再生成しません。
func (s *Session) Illustrate(ctx context.Context, story *domain.Story) *Result {
	scenes := s.illustration.Run(ctx, story)
	result := &Result{Story: story, Scenes: scenes}
	if failed := result.Failed(); len(failed) > 0 {
		slog.WarnContext(ctx, "Some scenes were not illustrated", "failed", failed, "cached", s.cache.Len())
	}
	return result
}

// Stream は既存の物語のシーンを1つずつ挿絵付きで返します。返されたシーケンスは1回のみ反復できます。
func (s *Session) Stream(ctx context.Context, story *domain.Story) iter.Seq[domain.IllustratedScene] {
	return s.illustration.Stream(ctx, story)
}

// CachedImages はこの Session のキャッシュに保存されている画像数を返します。
func (s *Session) CachedImages() int {
	return s.cache.Len()
}
