package cmd

import (
	"github.com/shouni/go-storybook-kit/internal/config"
	"github.com/shouni/go-storybook-kit/internal/pipeline"

	"github.com/spf13/cobra"
)

var promptOpts config.GenerateOptions

// promptCmd は、テキスト生成に送る指示文を表示するだけなのだ。APIキーは不要なのだ。
var promptCmd = &cobra.Command{
	Use:   "prompt",
	Short: "物語生成の指示文を表示するのだ（外部サービスは呼ばないのだ）。",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg.Options = promptOpts
		return pipeline.ExecutePromptOnly(cfg, cmd.OutOrStdout())
	},
}

func init() {
	addStoryFlags(promptCmd, &promptOpts)
}
