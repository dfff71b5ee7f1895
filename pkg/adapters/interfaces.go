package adapters

import (
	"context"

	"github.com/shouni/go-storybook-kit/pkg/domain"
)

// TextGenerator は指示文を受け取り、JSON 形式のテキストを返すテキスト生成サービスです。
type TextGenerator interface {
	GenerateJSON(ctx context.Context, prompt string) (string, error)
}

// ImageGenerator は1つの画像説明文から1枚の画像を生成するサービスです。
type ImageGenerator interface {
	GenerateImage(ctx context.Context, prompt string) (*domain.Image, error)
}
