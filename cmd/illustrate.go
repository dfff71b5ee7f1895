package cmd

import (
	"fmt"
	"log/slog"

	"github.com/shouni/go-storybook-kit/internal/pipeline"

	"github.com/spf13/cobra"
)

var illustrateOpts struct {
	storyFile string
	outputDir string
}

// illustrateCmd は、既存の物語 JSON に挿絵を付けて出力するのだ。
var illustrateCmd = &cobra.Command{
	Use:   "illustrate",
	Short: "物語 JSON の各場面に挿絵を生成して出力するのだ。",
	Long: `story.json 形式の物語を読み込み、場面ごとに挿絵を生成するのだ。
--file を省略すると同梱のサンプル物語を使い、'-' で標準入力から読むのだよ。`,
	PreRunE: requireAPIKey,
	RunE:    illustrateCommand,
}

func init() {
	illustrateCmd.Flags().StringVarP(&illustrateOpts.storyFile, "file", "f", "", "物語 JSON のパスなのだ。")
	illustrateCmd.Flags().StringVarP(&illustrateOpts.outputDir, "output-dir", "o", "", "出力先のディレクトリなのだ（省略時は JSON と同じ場所）。")
}

func illustrateCommand(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	cfg.Options.StoryFile = illustrateOpts.storyFile
	cfg.Options.OutputDir = illustrateOpts.outputDir

	mgr, err := pipeline.NewManager(ctx, cfg)
	if err != nil {
		return err
	}

	result, err := pipeline.ExecuteIllustrateOnly(ctx, mgr, cfg.Options)
	if err != nil {
		return fmt.Errorf("挿絵生成中にエラーが発生したのだ: %w", err)
	}

	slog.Info("挿絵付きの物語を出力したのだ！", "html", result.HTMLPath)
	return nil
}
