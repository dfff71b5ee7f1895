package prompts

import (
	"fmt"
	"strings"

	promptkit "github.com/shouni/go-prompt-kit/prompts"
	"github.com/shouni/go-storybook-kit/pkg/domain"
)

const (
	defaultLanguage = "English"
	storyMode       = "story"
)

// TextPromptBuilder は物語プロンプトのテンプレートを保持し、StoryRequest から指示文を生成します。
// ユーザー入力はエスケープせずにそのまま埋め込みます。
type TextPromptBuilder struct {
	builder  *promptkit.Builder
	language string
}

// NewTextPromptBuilder は埋め込みテンプレートを解析して TextPromptBuilder を初期化します。
// language が空の場合は英語で物語を書かせます。
func NewTextPromptBuilder(language string) (*TextPromptBuilder, error) {
	if StoryPromptTemplate == "" {
		return nil, fmt.Errorf("プロンプトテンプレート (go:embed) の読み込みに失敗しました: 内容が空です")
	}
	builder, err := promptkit.NewBuilder(map[string]string{storyMode: StoryPromptTemplate})
	if err != nil {
		return nil, fmt.Errorf("プロンプトテンプレートの解析に失敗: %w", err)
	}
	if strings.TrimSpace(language) == "" {
		language = defaultLanguage
	}
	return &TextPromptBuilder{builder: builder, language: language}, nil
}

// Compile は StoryRequest を指示文に変換します。同じ入力には常に同じ文字列を返します。
func (b *TextPromptBuilder) Compile(req domain.StoryRequest) (string, error) {
	if req.IsZero() {
		return "", fmt.Errorf("StoryRequest が初期化されていません")
	}
	return b.Build(NewTemplateData(req, b.language))
}

// Build はテンプレートデータを直接流し込んでプロンプトを生成します。
func (b *TextPromptBuilder) Build(data TemplateData) (string, error) {
	prompt, err := b.builder.Build(storyMode, data)
	if err != nil {
		return "", fmt.Errorf("物語プロンプトの生成に失敗しました: %w", err)
	}
	return prompt, nil
}
