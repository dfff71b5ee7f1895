package config

import (
	"time"
)

// デフォルト値の定義
const (
	DefaultGeminiModel    = "gemini-3-flash-preview"
	DefaultImageModel     = "gemini-3-pro-image-preview"
	DefaultStoryLanguage  = "English"
	DefaultTemperature    = float32(0.7)
	DefaultRateInterval   = time.Duration(0)
	DefaultRequestTimeout = 2 * time.Minute
	DefaultConcurrency    = 1
)

// Config は Go Storybook Kit の各 Runner を動作させるための基本設定です。
type Config struct {
	// --- AI Model Settings ---
	GeminiAPIKey string
	GeminiModel  string
	ImageModel   string
	Temperature  float32

	// --- Generation Settings ---
	StoryLanguage string
	RateInterval  time.Duration // 画像生成リクエストの最小間隔。0 の場合は制限しません。
	Concurrency   int           // 画像生成の同時実行数。1 で逐次実行します。

	// --- Timeout ---
	RequestTimeout time.Duration // 外部呼び出し1回あたりのタイムアウト
}

// NewConfig はデフォルト値で初期化された Config を作成し、APIキーをセットして返します。
func NewConfig(apiKey string) Config {
	cfg := DefaultConfig()
	cfg.GeminiAPIKey = apiKey
	return cfg
}

// DefaultConfig は推奨されるデフォルト設定を返すヘルパー関数です。
func DefaultConfig() Config {
	return Config{
		GeminiModel:    DefaultGeminiModel,
		ImageModel:     DefaultImageModel,
		Temperature:    DefaultTemperature,
		StoryLanguage:  DefaultStoryLanguage,
		RateInterval:   DefaultRateInterval,
		Concurrency:    DefaultConcurrency,
		RequestTimeout: DefaultRequestTimeout,
	}
}
