package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/shouni/go-storybook-kit/internal/config"

	"github.com/spf13/cobra"
)

// appFlags は全コマンド共通のフラグなのだ。
type appFlags struct {
	verbose    bool
	model      string
	imageModel string
}

var (
	flags appFlags
	cfg   *config.Config
)

var rootCmd = &cobra.Command{
	Use:               "storybook",
	Short:             "子ども向けの4場面の絵本を AI で作るのだ。",
	Long:              `興味・年齢・テーマ・挿絵スタイルから4場面の物語を生成し、場面ごとに挿絵を付けるのだ。`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: preRunAppE,
}

// addAppFlags は、アプリケーション全般に適用されるグローバルフラグを定義するのだ。
func addAppFlags(rootCmd *cobra.Command) {
	rootCmd.PersistentFlags().BoolVarP(&flags.verbose, "verbose", "v", false, "デバッグログを出力するのだ。")
	rootCmd.PersistentFlags().StringVar(&flags.model, "model", "", "テキスト生成に使う Gemini モデル名なのだ (GEMINI_MODEL より優先)。")
	rootCmd.PersistentFlags().StringVar(&flags.imageModel, "image-model", "", "画像生成に使うモデル名なのだ (IMAGE_GEMINI_MODEL より優先)。")
}

// addStoryFlags は物語の入力フラグを cmd に定義するのだ。
func addStoryFlags(cmd *cobra.Command, opts *config.GenerateOptions) {
	cmd.Flags().StringVar(&opts.Interests, "interests", "", "主人公や好きなもの（例: \"a brave kitten and a genius mouse\"）なのだ。")
	cmd.Flags().IntVar(&opts.Age, "age", 6, "対象年齢 (3〜12) なのだ。")
	cmd.Flags().StringVar(&opts.Theme, "theme", "friendship", "伝えたい価値観 (friendship, courage, empathy, generosity, curiosity) なのだ。")
	cmd.Flags().StringVar(&opts.Style, "style", "children's watercolor", "挿絵のスタイルなのだ。")
}

// preRunAppE は、ログの設定と環境変数の読み込みを行うのだ。
func preRunAppE(cmd *cobra.Command, args []string) error {
	level := slog.LevelInfo
	if flags.verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	cfg = config.LoadConfig()
	if flags.model != "" {
		cfg.GeminiModel = flags.model
	}
	if flags.imageModel != "" {
		cfg.GeminiImageModel = flags.imageModel
	}
	return nil
}

// requireAPIKey は Gemini APIを使うコマンドの実行前に APIキーの存在をチェックするのだ。
func requireAPIKey(cmd *cobra.Command, args []string) error {
	return cfg.RequireAPIKey()
}

// Execute は、アプリケーションのメインエントリポイントなのだ。
// main.go から呼び出されて、cobra のコマンドライン解析を開始するのだよ。
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	addAppFlags(rootCmd)
	rootCmd.AddCommand(serveCmd, generateCmd, promptCmd, illustrateCmd)

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "エラー: %v\n", err)
		stop()
		os.Exit(1)
	}
}
