package config

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	libcfg "github.com/shouni/go-storybook-kit/pkg/config"

	"github.com/shouni/go-utils/envutil"
)

// デフォルト値の定義なのだ
const (
	DefaultPort      = "8080"
	DefaultOutputDir = "output"
)

// ErrMissingAPIKey は GEMINI_API_KEY が設定されていないときのエラーなのだ。
var ErrMissingAPIKey = errors.New("環境変数 GEMINI_API_KEY が設定されていません。Gemini APIの利用には必須なのだ")

// Config はアプリケーション全体の環境設定（APIキーやモデル名）を保持する構造体なのだ。
type Config struct {
	GeminiAPIKey     string
	GeminiModel      string
	GeminiImageModel string
	StoryLanguage    string
	RateInterval     time.Duration
	RequestTimeout   time.Duration
	Concurrency      int
	Port             string

	Options GenerateOptions
}

// GenerateOptions は CLI フラグから渡される実行時のパラメータなのだ。
type GenerateOptions struct {
	// 物語の入力
	Interests string // --interests
	Age       int    // --age
	Theme     string // --theme
	Style     string // --style

	// 入出力
	StoryFile string // --file
	OutputDir string // --output-dir
}

// LoadConfig は環境変数から設定を読み込み、構造体を返すのだ！
// 数値や時間の形式が不正な場合はデフォルト値を使って警告を出すのだ。
func LoadConfig() *Config {
	return &Config{
		GeminiAPIKey:     envutil.GetEnv("GEMINI_API_KEY", ""),
		GeminiModel:      envutil.GetEnv("GEMINI_MODEL", libcfg.DefaultGeminiModel),
		GeminiImageModel: envutil.GetEnv("IMAGE_GEMINI_MODEL", libcfg.DefaultImageModel),
		StoryLanguage:    envutil.GetEnv("STORY_LANGUAGE", libcfg.DefaultStoryLanguage),
		RateInterval:     durationEnv("IMAGE_RATE_INTERVAL", libcfg.DefaultRateInterval),
		RequestTimeout:   durationEnv("REQUEST_TIMEOUT", libcfg.DefaultRequestTimeout),
		Concurrency:      intEnv("ILLUSTRATION_CONCURRENCY", libcfg.DefaultConcurrency),
		Port:             envutil.GetEnv("PORT", DefaultPort),
	}
}

// RequireAPIKey は APIキーが設定されているか確認するのだ。
func (c *Config) RequireAPIKey() error {
	if c.GeminiAPIKey == "" {
		return ErrMissingAPIKey
	}
	return nil
}

// LibraryConfig は pkg/config 向けの設定に変換するのだ。
func (c *Config) LibraryConfig() libcfg.Config {
	cfg := libcfg.NewConfig(c.GeminiAPIKey)
	cfg.GeminiModel = c.GeminiModel
	cfg.ImageModel = c.GeminiImageModel
	cfg.StoryLanguage = c.StoryLanguage
	cfg.RateInterval = c.RateInterval
	cfg.RequestTimeout = c.RequestTimeout
	cfg.Concurrency = c.Concurrency
	return cfg
}

// Addr は HTTP サーバーの待ち受けアドレスを返すのだ。
func (c *Config) Addr() string {
	return fmt.Sprintf(":%s", c.Port)
}

func durationEnv(key string, def time.Duration) time.Duration {
	raw := envutil.GetEnv(key, "")
	if raw == "" {
		return def
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d < 0 {
		slog.Warn("環境変数の形式が不正なのでデフォルト値を使うのだ", "key", key, "value", raw, "default", def)
		return def
	}
	return d
}

func intEnv(key string, def int) int {
	n := envutil.GetEnvAsInt(key, def)
	if n < 1 {
		slog.Warn("環境変数の値が1未満なのでデフォルト値を使うのだ", "key", key, "value", n, "default", def)
		return def
	}
	return n
}
