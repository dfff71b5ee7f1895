package adapters

import (
	"context"
	"errors"
	"fmt"

	"github.com/shouni/go-gemini-client/gemini"
	"google.golang.org/genai"
)

var (
	// ErrEmptyResponse はテキスト生成の応答が空だった場合のエラーです。
	ErrEmptyResponse = errors.New("テキスト生成の応答が空です")
	// ErrNoImage は画像生成の応答に画像が含まれていなかった場合のエラーです。
	ErrNoImage = errors.New("画像生成の応答に画像が含まれていません")
)

// ContentModel は genai の GenerateContent 呼び出しを抽象化します。*genai.Models が満たします。
type ContentModel interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// ImagenModel は genai の GenerateImages 呼び出しを抽象化します。*genai.Models が満たします。
type ImagenModel interface {
	GenerateImages(ctx context.Context, model string, prompt string, config *genai.GenerateImagesConfig) (*genai.GenerateImagesResponse, error)
}

// PartsGenerator はマルチモーダルパーツによる生成を抽象化します。*gemini.Client が満たします。
type PartsGenerator interface {
	GenerateWithParts(ctx context.Context, modelName string, parts []*genai.Part, opts gemini.GenerateOptions) (*gemini.Response, error)
}

// NewImageClient は挿絵生成に使う gemini.Client を初期化します。
// 一時的な失敗は gemini.Client の有限回リトライに委ねます。
func NewImageClient(ctx context.Context, apiKey string, temperature float32) (*gemini.Client, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("APIキーが指定されていません")
	}
	client, err := gemini.NewClient(ctx, gemini.Config{
		APIKey:      apiKey,
		Temperature: genai.Ptr(temperature),
	})
	if err != nil {
		return nil, fmt.Errorf("画像生成クライアントの初期化に失敗しました: %w", err)
	}
	return client, nil
}

// NewGeminiClient は APIキーに紐づいた genai クライアントを初期化します。
func NewGeminiClient(ctx context.Context, apiKey string) (*genai.Client, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("APIキーが指定されていません")
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("AIクライアントの初期化に失敗しました: %w", err)
	}
	return client, nil
}
