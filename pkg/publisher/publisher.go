package publisher

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"path"
	"strings"

	"github.com/shouni/go-storybook-kit/pkg/asset"
)

// Options はパブリッシュ動作を制御する設定項目です。
type Options struct {
	OutputDir string
}

// PublishResult はパブリッシュ処理の結果として生成されたファイルの情報を保持します。
type PublishResult struct {
	MarkdownPath string   // 生成された story.md のパス
	HTMLPath     string   // 生成された story.html のパス
	JSONPath     string   // 生成された story.json のパス
	ImagePaths   []string // 保存された画像のパス。失敗したシーンは空文字列です。
}

// StoryPublisher は成果物の永続化とフォーマット変換を担います。
type StoryPublisher struct {
	writer OutputWriter
}

// NewStoryPublisher は writer を使う StoryPublisher を返します。
func NewStoryPublisher(writer OutputWriter) *StoryPublisher {
	return &StoryPublisher{writer: writer}
}

// Publish は画像の保存、Markdown と HTML と JSON の書き出しを一括して実行します。
func (p *StoryPublisher) Publish(ctx context.Context, page Page, opts Options) (PublishResult, error) {
	result := PublishResult{}
	if opts.OutputDir == "" {
		return result, fmt.Errorf("出力ディレクトリが指定されていません")
	}

	// 1. 出力パスの解決
	markdownPath, err := asset.ResolvePath(opts.OutputDir, asset.DefaultStoryMarkdown)
	if err != nil {
		return result, err
	}
	jsonPath, err := asset.ResolvePath(opts.OutputDir, asset.DefaultStoryJSON)
	if err != nil {
		return result, err
	}
	imgDir, err := asset.ResolvePath(opts.OutputDir, asset.DefaultImageDir)
	if err != nil {
		return result, err
	}

	// 2. 画像の保存
	savedPaths, relativePaths, err := p.saveImages(ctx, page, imgDir)
	if err != nil {
		return result, fmt.Errorf("画像の書き込みに失敗しました: %w", err)
	}
	result.ImagePaths = savedPaths

	// 3. Markdown の書き出し
	content := BuildMarkdown(page, relativePaths)
	if err := p.writer.Write(ctx, markdownPath, strings.NewReader(content), "text/markdown; charset=utf-8"); err != nil {
		return result, fmt.Errorf("markdownファイルの書き込みに失敗しました: %w", err)
	}
	result.MarkdownPath = markdownPath

	// 4. HTML の書き出し (story.md と同じ相対パスで画像を参照します)
	slog.InfoContext(ctx, "Rendering story HTML", "title", page.Title)
	htmlBuf, err := RenderMarkdownHTML(page.Title, content)
	if err != nil {
		return result, err
	}
	htmlPath := asset.ReplaceExt(markdownPath, ".html")
	if err := p.writer.Write(ctx, htmlPath, htmlBuf, "text/html; charset=utf-8"); err != nil {
		return result, fmt.Errorf("HTMLファイルの書き込みに失敗しました: %w", err)
	}
	result.HTMLPath = htmlPath

	// 5. JSON の書き出し
	data, err := json.MarshalIndent(page.Story(), "", "  ")
	if err != nil {
		return result, fmt.Errorf("物語のJSON変換に失敗しました: %w", err)
	}
	if err := p.writer.Write(ctx, jsonPath, bytes.NewReader(data), "application/json"); err != nil {
		return result, fmt.Errorf("JSONファイルの書き込みに失敗しました: %w", err)
	}
	result.JSONPath = jsonPath

	return result, nil
}

// saveImages は成功したシーンの画像を保存し、保存先パスと Markdown 用の相対パスをシーン順で返します。
func (p *StoryPublisher) saveImages(ctx context.Context, page Page, baseDir string) ([]string, []string, error) {
	paths := make([]string, len(page.Scenes))
	relPaths := make([]string, len(page.Scenes))
	for i, scene := range page.Scenes {
		img := scene.Image
		if img == nil || len(img.Data) == 0 {
			continue
		}
		name, err := asset.SceneFileName(scene.Number, img.MimeType)
		if err != nil {
			return nil, nil, err
		}
		fullPath, err := asset.ResolvePath(baseDir, name)
		if err != nil {
			return nil, nil, fmt.Errorf("出力パスの解決に失敗しました: %w", err)
		}

		mimeType := img.MimeType
		if mimeType == "" {
			mimeType = "image/png"
		}
		if err := p.writer.Write(ctx, fullPath, bytes.NewReader(img.Data), mimeType); err != nil {
			return nil, nil, fmt.Errorf("画像の書き込みに失敗しました %s: %w", fullPath, err)
		}
		paths[i] = fullPath
		relPaths[i] = path.Join(asset.DefaultImageDir, name)
	}
	return paths, relPaths, nil
}
