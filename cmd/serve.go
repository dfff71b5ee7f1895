package cmd

import (
	"fmt"
	"log/slog"

	"github.com/shouni/go-storybook-kit/internal/pipeline"
	"github.com/shouni/go-storybook-kit/internal/server"

	"github.com/spf13/cobra"
)

var serveOpts server.Options

// serveCmd は、フォームから絵本を作る Web 画面を起動するのだ。
var serveCmd = &cobra.Command{
	Use:     "serve",
	Short:   "絵本作成フォームの Web サーバーを起動するのだ。",
	PreRunE: requireAPIKey,
	RunE:    serveCommand,
}

func init() {
	serveCmd.Flags().IntVar(&serveOpts.RateLimit, "rate-limit", 10, "1分あたりに受け付ける物語作成の回数 (IP 単位) なのだ。")
}

func serveCommand(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	mgr, err := pipeline.NewManager(ctx, cfg)
	if err != nil {
		return err
	}
	session, err := mgr.NewSession()
	if err != nil {
		return err
	}
	srv, err := server.New(session, serveOpts)
	if err != nil {
		return err
	}

	slog.Info("絵本サーバーを起動するのだ！",
		"addr", cfg.Addr(),
		"text_model", cfg.GeminiModel,
		"image_model", cfg.GeminiImageModel)

	if err := srv.Run(ctx, cfg.Addr()); err != nil {
		return fmt.Errorf("サーバーの実行中にエラーが発生したのだ: %w", err)
	}
	return nil
}
