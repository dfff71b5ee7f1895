package generator

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"log/slog"
	"slices"
	"strings"
	"sync/atomic"
	"time"

	"github.com/shouni/go-storybook-kit/pkg/adapters"
	"github.com/shouni/go-storybook-kit/pkg/domain"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
	"golang.org/x/time/rate"
)

const defaultRateBurst = 2

var (
	// ErrEmptyPrompt はシーンの画像プロンプトが空の場合のエラーです。
	ErrEmptyPrompt = errors.New("画像プロンプトが空です")
	// ErrEmptyImage は画像生成サービスが空の結果を返した場合のエラーです。
	ErrEmptyImage = errors.New("画像生成サービスが空の結果を返しました")
)

// IllustratorOptions は SceneIllustrator の動作設定です。
type IllustratorOptions struct {
	RateInterval time.Duration // 0 の場合は制限なし
	Timeout      time.Duration // 呼び出し1回あたり。0 の場合は親 context に従う
	Concurrency  int           // IllustrateAll の同時実行数。1 以下で逐次実行
}

// SceneIllustrator はシーンごとに1回ずつ画像生成を呼び出し、結果をシーン順に返します。
// 1シーンの失敗は他のシーンに影響しません。
type SceneIllustrator struct {
	imageGen    adapters.ImageGenerator
	cache       ImageCache
	limiter     *rate.Limiter
	timeout     time.Duration
	concurrency int
	group       singleflight.Group
}

// NewSceneIllustrator は SceneIllustrator を初期化します。cache が nil の場合は新しいメモリキャッシュを使います。
func NewSceneIllustrator(imageGen adapters.ImageGenerator, cache ImageCache, opts IllustratorOptions) (*SceneIllustrator, error) {
	if imageGen == nil {
		return nil, fmt.Errorf("ImageGenerator は必須です")
	}
	if cache == nil {
		cache = NewMemoryImageCache()
	}

	limiter := rate.NewLimiter(rate.Inf, 0)
	if opts.RateInterval > 0 {
		limiter = rate.NewLimiter(rate.Every(opts.RateInterval), defaultRateBurst)
	}

	concurrency := opts.Concurrency
	if concurrency < 1 {
		concurrency = 1
	}

	return &SceneIllustrator{
		imageGen:    imageGen,
		cache:       cache,
		limiter:     limiter,
		timeout:     opts.Timeout,
		concurrency: concurrency,
	}, nil
}

// Cache はこの Illustrator が使うキャッシュを返します。
func (si *SceneIllustrator) Cache() ImageCache {
	return si.cache
}

// Illustrate はシーンを順番に1つずつ挿絵付きにして返す遅延シーケンスを返します。
// 画像生成は yield の直前に1件ずつ実行されます。シーケンスは1回しか走査できず、
// 2回目以降の range は何も返しません。
func (si *SceneIllustrator) Illustrate(ctx context.Context, scenes []domain.Scene) iter.Seq[domain.IllustratedScene] {
	scenes = slices.Clone(scenes)
	var consumed atomic.Bool

	return func(yield func(domain.IllustratedScene) bool) {
		if !consumed.CompareAndSwap(false, true) {
			slog.WarnContext(ctx, "Illustration sequence was already consumed")
			return
		}
		for i, scene := range scenes {
			if !yield(si.illustrateOne(ctx, i, scene)) {
				return
			}
		}
	}
}

// IllustrateAll は全シーンの挿絵を生成し、入力と同じ順序のスライスで返します。
// Concurrency が 2 以上の場合は並列に呼び出しますが、結果の順序は変わりません。
func (si *SceneIllustrator) IllustrateAll(ctx context.Context, scenes []domain.Scene) []domain.IllustratedScene {
	results := make([]domain.IllustratedScene, len(scenes))

	if si.concurrency <= 1 {
		for s := range si.Illustrate(ctx, scenes) {
			results[s.Index] = s
		}
		return results
	}

	var eg errgroup.Group
	eg.SetLimit(si.concurrency)
	for i, scene := range scenes {
		eg.Go(func() error {
			results[i] = si.illustrateOne(ctx, i, scene)
			return nil
		})
	}
	// 各シーンの失敗は結果に格納済みなので、Wait は常に nil を返します。
	_ = eg.Wait()

	return results
}

func (si *SceneIllustrator) illustrateOne(ctx context.Context, index int, scene domain.Scene) domain.IllustratedScene {
	result := domain.IllustratedScene{Index: index, Scene: scene}
	logger := slog.With("scene_index", index+1)

	prompt := scene.ImagePrompt
	if strings.TrimSpace(prompt) == "" {
		result.Result = domain.Failed(fmt.Errorf("scene %d: %w", index+1, ErrEmptyPrompt))
		return result
	}

	if img, ok := si.cache.Get(prompt); ok {
		logger.InfoContext(ctx, "Using cached illustration")
		result.Result = domain.Succeeded(img)
		return result
	}

	if err := ctx.Err(); err != nil {
		result.Result = domain.Failed(fmt.Errorf("scene %d の挿絵生成を中断しました: %w", index+1, err))
		return result
	}

	// 共有された呼び出しは最初の呼び出し元の context から切り離して実行し、
	// 各呼び出し元は自分の context の終了だけを待ちます。
	startTime := time.Now()
	ch := si.group.DoChan(prompt, func() (any, error) {
		return si.generate(context.WithoutCancel(ctx), prompt)
	})

	var res singleflight.Result
	select {
	case <-ctx.Done():
		logger.WarnContext(ctx, "Illustration canceled, skipping scene", "error", ctx.Err())
		result.Result = domain.Failed(fmt.Errorf("scene %d の挿絵生成を中断しました: %w", index+1, ctx.Err()))
		return result
	case res = <-ch:
	}
	v, err, shared := res.Val, res.Err, res.Shared
	if err != nil {
		logger.WarnContext(ctx, "Illustration failed, skipping scene", "error", err)
		result.Result = domain.Failed(fmt.Errorf("scene %d の挿絵生成に失敗しました: %w", index+1, err))
		return result
	}

	img, ok := v.(*domain.Image)
	if !ok || img == nil {
		result.Result = domain.Failed(fmt.Errorf("scene %d: unexpected return type from singleflight: %T", index+1, v))
		return result
	}

	logger.InfoContext(ctx, "Illustration completed", "duration", time.Since(startTime).Round(time.Millisecond), "shared", shared)
	result.Result = domain.Succeeded(img)
	return result
}

// generate は1つのプロンプトについて画像生成を1回呼び出し、成功した結果をキャッシュします。
func (si *SceneIllustrator) generate(ctx context.Context, prompt string) (*domain.Image, error) {
	// singleflight の待機中に他の呼び出しがキャッシュへ格納している可能性があります。
	if img, ok := si.cache.Get(prompt); ok {
		return img, nil
	}
	if err := si.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("レートリミットの待機中に中断されました: %w", err)
	}

	callCtx, cancel := si.callContext(ctx)
	defer cancel()

	img, err := si.imageGen.GenerateImage(callCtx, prompt)
	if err != nil {
		return nil, err
	}
	if img == nil || len(img.Data) == 0 {
		return nil, ErrEmptyImage
	}
	si.cache.Set(prompt, img)
	return img, nil
}

func (si *SceneIllustrator) callContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if si.timeout > 0 {
		return context.WithTimeout(ctx, si.timeout)
	}
	return context.WithCancel(ctx)
}
