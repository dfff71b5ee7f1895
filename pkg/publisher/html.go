package publisher

import (
	"bytes"
	"embed"
	"encoding/base64"
	"fmt"
	"html/template"
	"sync"

	"github.com/shouni/go-prompt-kit/md/builder"
	"github.com/shouni/go-prompt-kit/md/ports"
)

//go:embed templates/*.html
var templateFS embed.FS

// markdownRunner は story.md から story.html を作る変換器です。生の HTML は出力しません。
var markdownRunner = sync.OnceValues(func() (ports.Runner, error) {
	b, err := builder.New(builder.WithEnableUnsafeHTML(false), builder.WithHTMLMode())
	if err != nil {
		return nil, err
	}
	return b.BuildRunner()
})

type htmlScene struct {
	Number      int
	Text        string
	ImagePrompt string
	ImageURI    template.URL
	Warning     string
}

type htmlPage struct {
	Title  string
	Moral  string
	Scenes []htmlScene
}

// RenderMarkdownHTML は story.md の内容を完全な HTML 文書に変換します。
// 画像は Markdown と同じ相対パスで参照するため、出力ディレクトリごと配布します。
func RenderMarkdownHTML(title, markdown string) (*bytes.Buffer, error) {
	runner, err := markdownRunner()
	if err != nil {
		return nil, fmt.Errorf("Markdown 変換器の初期化に失敗しました: %w", err)
	}
	buf, err := runner.Run(title, []byte(markdown))
	if err != nil {
		return nil, fmt.Errorf("HTMLの描画に失敗しました: %w", err)
	}
	return buf, nil
}

// NewStoryTemplate は物語ページのテンプレートを新しく解析して返します。
// 画像を data URI で埋め込むため、ファイルを書き出さない Web 画面で使います。
// 他のレイアウトから "story_style" と "story_body" を呼び出せます。
func NewStoryTemplate() (*template.Template, error) {
	return template.ParseFS(templateFS, "templates/story.html")
}

// ViewData は NewStoryTemplate のテンプレートに渡すデータを作ります。
func ViewData(page Page) any {
	return toHTMLPage(page)
}

func toHTMLPage(page Page) htmlPage {
	hp := htmlPage{
		Title:  page.Title,
		Moral:  page.Moral,
		Scenes: make([]htmlScene, 0, len(page.Scenes)),
	}
	for _, s := range page.Scenes {
		hs := htmlScene{
			Number:      s.Number,
			Text:        s.Text,
			ImagePrompt: s.ImagePrompt,
			Warning:     s.Warning,
		}
		if s.Image != nil && len(s.Image.Data) > 0 {
			hs.ImageURI = dataURI(s.Image.MimeType, s.Image.Data)
		}
		hp.Scenes = append(hp.Scenes, hs)
	}
	return hp
}

func dataURI(mimeType string, data []byte) template.URL {
	if mimeType == "" {
		mimeType = "image/png"
	}
	return template.URL("data:" + mimeType + ";base64," + base64.StdEncoding.EncodeToString(data))
}
