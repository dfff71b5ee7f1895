package parser

import (
	"encoding/json"
	"fmt"
	"io"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/shouni/go-storybook-kit/pkg/domain"
)

const excerptLength = 200

var jsonBlockRegex = regexp.MustCompile("(?s)```(?:json)?\\s*(.*?\\S)\\s*```")

// rawStory はモデル応答のデコード用の中間表現です。
// 正式なキーに加えて、imagePrompt とスペイン語版のキー (titulo, escenas, moraleja) も受け付けます。
type rawStory struct {
	Title    *string    `json:"title"`
	Titulo   *string    `json:"titulo"`
	Scenes   []rawScene `json:"scenes"`
	Escenas  []rawScene `json:"escenas"`
	Moral    *string    `json:"moral"`
	Moraleja *string    `json:"moraleja"`
}

type rawScene struct {
	Text         *string `json:"text"`
	Texto        *string `json:"texto"`
	ImagePrompt  *string `json:"image_prompt"`
	ImagePromptC *string `json:"imagePrompt"`
	PromptImagen *string `json:"prompt_imagen"`
}

// ParseStory はテキスト生成モデルの応答から物語を取り出し、スキーマを検証します。
// 検証に失敗した場合は *domain.MalformedStoryError を返し、Story は返しません。
func ParseStory(raw string) (*domain.Story, error) {
	raw = strings.TrimSpace(raw)
	rawJSON := extractJSON(raw)

	var rs rawStory
	if err := json.Unmarshal([]byte(rawJSON), &rs); err != nil {
		return nil, malformed("JSONのデコードに失敗しました", raw, err)
	}

	story, reason := rs.toStory()
	if reason != "" {
		return nil, malformed(reason, raw, nil)
	}
	return story, nil
}

// ParseStoryReader は r の内容を読み込んで ParseStory に渡します。
func ParseStoryReader(r io.Reader) (*domain.Story, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("物語データの読み込みに失敗しました: %w", err)
	}
	return ParseStory(string(b))
}

// extractJSON は Markdown のコードブロックや前後の説明文を取り除き、JSON 部分を返します。
func extractJSON(raw string) string {
	if matches := jsonBlockRegex.FindStringSubmatch(raw); len(matches) > 1 {
		return matches[1]
	}
	// 最も外側の JSON オブジェクトを探します。
	first := strings.Index(raw, "{")
	last := strings.LastIndex(raw, "}")
	if first != -1 && last > first {
		return raw[first : last+1]
	}
	return raw
}

func (rs rawStory) toStory() (*domain.Story, string) {
	title := firstNonEmpty(rs.Title, rs.Titulo)
	if title == "" {
		return nil, "title がありません"
	}
	moral := firstNonEmpty(rs.Moral, rs.Moraleja)
	if moral == "" {
		return nil, "moral がありません"
	}

	scenes := rs.Scenes
	if scenes == nil {
		scenes = rs.Escenas
	}
	if scenes == nil {
		return nil, "scenes がありません"
	}
	if len(scenes) != domain.SceneCount {
		return nil, fmt.Sprintf("scenes の数が %d ではありません (got %d)", domain.SceneCount, len(scenes))
	}

	story := &domain.Story{
		Title:  title,
		Scenes: make([]domain.Scene, 0, len(scenes)),
		Moral:  moral,
	}
	for i, s := range scenes {
		text := firstNonEmpty(s.Text, s.Texto)
		if text == "" {
			return nil, fmt.Sprintf("scene %d の text がありません", i+1)
		}
		prompt := firstNonEmpty(s.ImagePrompt, s.ImagePromptC, s.PromptImagen)
		if prompt == "" {
			return nil, fmt.Sprintf("scene %d の image_prompt がありません", i+1)
		}
		story.Scenes = append(story.Scenes, domain.Scene{Text: text, ImagePrompt: prompt})
	}
	return story, ""
}

func firstNonEmpty(values ...*string) string {
	for _, v := range values {
		if v == nil {
			continue
		}
		if s := strings.TrimSpace(*v); s != "" {
			return s
		}
	}
	return ""
}

func malformed(reason, raw string, err error) *domain.MalformedStoryError {
	return &domain.MalformedStoryError{
		Reason:  reason,
		Excerpt: truncateString(raw, excerptLength),
		Err:     err,
	}
}

// truncateString は s を maxLen バイト以内に切り詰めます。マルチバイト文字の途中では切りません。
func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	cut := maxLen
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + "..."
}
