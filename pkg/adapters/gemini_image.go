package adapters

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/shouni/go-gemini-client/gemini"
	"github.com/shouni/go-storybook-kit/pkg/domain"

	"google.golang.org/genai"
)

const (
	imagenModelPrefix = "imagen"
	defaultImageMIME  = "image/png"
)

// GeminiImageAdapter は1つの画像プロンプトから挿絵を1枚生成するアダプターです。
// imagen 系モデルは GenerateImages、それ以外の Gemini 画像モデルは
// gemini.Client の GenerateWithParts が返す画像を使います。
type GeminiImageAdapter struct {
	parts     PartsGenerator
	imagen    ImagenModel
	modelName string
}

// NewGeminiImageAdapter は GeminiImageAdapter を初期化します。
// parts には通常 *gemini.Client、imagen には *genai.Models を渡します。
func NewGeminiImageAdapter(parts PartsGenerator, imagen ImagenModel, modelName string) (*GeminiImageAdapter, error) {
	if modelName == "" {
		return nil, fmt.Errorf("モデル名は必須です")
	}
	a := &GeminiImageAdapter{parts: parts, imagen: imagen, modelName: modelName}
	if a.usesImagen() && imagen == nil {
		return nil, fmt.Errorf("imagen モデル %s には ImagenModel が必要です", modelName)
	}
	if !a.usesImagen() && parts == nil {
		return nil, fmt.Errorf("モデル %s には PartsGenerator が必要です", modelName)
	}
	return a, nil
}

// GenerateImage は prompt をそのまま唯一の指示として画像を生成します。
func (a *GeminiImageAdapter) GenerateImage(ctx context.Context, prompt string) (*domain.Image, error) {
	slog.DebugContext(ctx, "Calling Gemini image model", "model", a.modelName, "imagen", a.usesImagen())
	if a.usesImagen() {
		return a.generateWithImagen(ctx, prompt)
	}
	return a.generateWithParts(ctx, prompt)
}

func (a *GeminiImageAdapter) usesImagen() bool {
	return strings.HasPrefix(a.modelName, imagenModelPrefix)
}

func (a *GeminiImageAdapter) generateWithImagen(ctx context.Context, prompt string) (*domain.Image, error) {
	resp, err := a.imagen.GenerateImages(ctx, a.modelName, prompt, &genai.GenerateImagesConfig{
		NumberOfImages: 1,
	})
	if err != nil {
		return nil, fmt.Errorf("画像生成に失敗しました (model: %s): %w", a.modelName, err)
	}
	if resp == nil {
		return nil, ErrNoImage
	}
	for _, gi := range resp.GeneratedImages {
		if gi == nil || gi.Image == nil || len(gi.Image.ImageBytes) == 0 {
			continue
		}
		return &domain.Image{Data: gi.Image.ImageBytes, MimeType: mimeOrDefault(gi.Image.MIMEType)}, nil
	}
	return nil, ErrNoImage
}

func (a *GeminiImageAdapter) generateWithParts(ctx context.Context, prompt string) (*domain.Image, error) {
	parts := []*genai.Part{{Text: prompt}}
	resp, err := a.parts.GenerateWithParts(ctx, a.modelName, parts, gemini.GenerateOptions{})
	if err != nil {
		return nil, fmt.Errorf("画像生成に失敗しました (model: %s): %w", a.modelName, err)
	}
	if resp == nil {
		return nil, ErrNoImage
	}
	for i, data := range resp.Images {
		if len(data) > 0 {
			return &domain.Image{Data: data, MimeType: inlineMIME(resp.RawResponse, i)}, nil
		}
	}
	return nil, ErrNoImage
}

// inlineMIME は Response.Images には含まれない MIME タイプを生の応答から引き当てます。
// Images は先頭候補の InlineData を出現順に並べたものなので、index 番目の InlineData が対応します。
func inlineMIME(raw *genai.GenerateContentResponse, index int) string {
	if raw == nil || len(raw.Candidates) == 0 || raw.Candidates[0] == nil || raw.Candidates[0].Content == nil {
		return defaultImageMIME
	}
	n := 0
	for _, part := range raw.Candidates[0].Content.Parts {
		if part == nil || part.InlineData == nil {
			continue
		}
		if n == index {
			return mimeOrDefault(part.InlineData.MIMEType)
		}
		n++
	}
	return defaultImageMIME
}

func mimeOrDefault(mime string) string {
	if mime == "" {
		return defaultImageMIME
	}
	return mime
}
