package adapters

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"google.golang.org/genai"
)

const jsonMIMEType = "application/json"

// GeminiTextAdapter は Gemini の JSON モードで物語を生成するアダプターです。
type GeminiTextAdapter struct {
	model       ContentModel
	modelName   string
	temperature float32
}

// NewGeminiTextAdapter は GeminiTextAdapter を初期化します。
func NewGeminiTextAdapter(model ContentModel, modelName string, temperature float32) (*GeminiTextAdapter, error) {
	if model == nil {
		return nil, fmt.Errorf("ContentModel は必須です")
	}
	if modelName == "" {
		return nil, fmt.Errorf("モデル名は必須です")
	}
	return &GeminiTextAdapter{
		model:       model,
		modelName:   modelName,
		temperature: temperature,
	}, nil
}

// GenerateJSON は JSON のみを返すように指示してテキストを生成します。
func (a *GeminiTextAdapter) GenerateJSON(ctx context.Context, prompt string) (string, error) {
	cfg := &genai.GenerateContentConfig{
		Temperature:      genai.Ptr(a.temperature),
		ResponseMIMEType: jsonMIMEType,
	}

	slog.DebugContext(ctx, "Calling Gemini text model", "model", a.modelName, "prompt_length", len(prompt))
	resp, err := a.model.GenerateContent(ctx, a.modelName, genai.Text(prompt), cfg)
	if err != nil {
		return "", fmt.Errorf("テキスト生成に失敗しました (model: %s): %w", a.modelName, err)
	}
	if resp == nil {
		return "", ErrEmptyResponse
	}

	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return "", ErrEmptyResponse
	}
	return text, nil
}
