package cmd

import (
	"fmt"
	"log/slog"

	"github.com/shouni/go-storybook-kit/internal/config"
	"github.com/shouni/go-storybook-kit/internal/pipeline"

	"github.com/spf13/cobra"
)

var generateOpts config.GenerateOptions

// generateCmd は、物語の生成から挿絵、出力までを一括で実行するのだ。
var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "物語と挿絵を生成してファイルに出力するのだ。",
	Long: `入力された条件から4場面の物語を生成し、場面ごとに挿絵を生成するのだ。
出力は story.md、story.html、story.json と images/ 以下の挿絵になるのだよ。`,
	PreRunE: requireAPIKey,
	RunE:    generateCommand,
}

func init() {
	addStoryFlags(generateCmd, &generateOpts)
	generateCmd.Flags().StringVarP(&generateOpts.OutputDir, "output-dir", "o", config.DefaultOutputDir, "出力先のディレクトリなのだ。")
}

func generateCommand(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	cfg.Options = generateOpts

	mgr, err := pipeline.NewManager(ctx, cfg)
	if err != nil {
		return err
	}

	slog.Info("絵本生成パイプラインを起動するのだ！",
		"text_model", cfg.GeminiModel,
		"image_model", cfg.GeminiImageModel,
		"output", generateOpts.OutputDir)

	result, err := pipeline.Execute(ctx, mgr, cfg.Options)
	if err != nil {
		return fmt.Errorf("パイプライン実行中にエラーが発生したのだ: %w", err)
	}

	slog.Info("すべての生成工程が完了したのだ！", "html", result.HTMLPath, "markdown", result.MarkdownPath)
	return nil
}
