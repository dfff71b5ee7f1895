package generator

import (
	"github.com/shouni/go-storybook-kit/pkg/domain"

	"github.com/patrickmn/go-cache"
)

// ImageCache は画像プロンプト文字列をキーに生成済みの挿絵を保持します。
type ImageCache interface {
	Get(prompt string) (*domain.Image, bool)
	Set(prompt string, img *domain.Image)
	Len() int
}

// MemoryImageCache は go-cache を使ったプロセス内の ImageCache 実装です。
// 有効期限もクリーンアップも持たず、セッションが破棄されるまで保持し続けます。
type MemoryImageCache struct {
	c *cache.Cache
}

// NewMemoryImageCache は期限なしの MemoryImageCache を生成します。
func NewMemoryImageCache() *MemoryImageCache {
	// cleanupInterval が 0 の場合、go-cache は janitor を起動しません。
	return &MemoryImageCache{c: cache.New(cache.NoExpiration, 0)}
}

func (m *MemoryImageCache) Get(prompt string) (*domain.Image, bool) {
	v, ok := m.c.Get(prompt)
	if !ok {
		return nil, false
	}
	img, ok := v.(*domain.Image)
	return img, ok
}

func (m *MemoryImageCache) Set(prompt string, img *domain.Image) {
	m.c.Set(prompt, img, cache.NoExpiration)
}

func (m *MemoryImageCache) Len() int {
	return m.c.ItemCount()
}
