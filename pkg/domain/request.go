package domain

import (
	"fmt"
	"strings"
)

const (
	// MinAge は対象年齢の下限です。
	MinAge = 3
	// MaxAge は対象年齢の上限です。
	MaxAge = 12
	// DefaultAge はフォームの初期値として使う対象年齢です。
	DefaultAge = 6
)

// Theme は物語を通して伝える価値観です。
type Theme int

const (
	ThemeFriendship Theme = iota + 1
	ThemeCourage
	ThemeEmpathy
	ThemeGenerosity
	ThemeCuriosity
)

var themeLabels = map[Theme]string{
	ThemeFriendship: "Friendship",
	ThemeCourage:    "Courage",
	ThemeEmpathy:    "Empathy",
	ThemeGenerosity: "Generosity",
	ThemeCuriosity:  "Curiosity",
}

// themeAliases はフォームや CLI から受け取るラベルの別名です。スペイン語版のラベルも受け付けます。
var themeAliases = map[string]Theme{
	"friendship":  ThemeFriendship,
	"amistad":     ThemeFriendship,
	"courage":     ThemeCourage,
	"valentía":    ThemeCourage,
	"valentia":    ThemeCourage,
	"empathy":     ThemeEmpathy,
	"empatía":     ThemeEmpathy,
	"empatia":     ThemeEmpathy,
	"generosity":  ThemeGenerosity,
	"generosidad": ThemeGenerosity,
	"curiosity":   ThemeCuriosity,
	"curiosidad":  ThemeCuriosity,
}

// Themes はフォームに表示する順序でテーマを返します。
func Themes() []Theme {
	return []Theme{ThemeFriendship, ThemeCourage, ThemeEmpathy, ThemeGenerosity, ThemeCuriosity}
}

func (t Theme) String() string {
	if label, ok := themeLabels[t]; ok {
		return label
	}
	return fmt.Sprintf("Theme(%d)", int(t))
}

// Valid は t が定義済みのテーマかどうかを返します。
func (t Theme) Valid() bool {
	_, ok := themeLabels[t]
	return ok
}

// ParseTheme はラベルからテーマを解決します。大文字小文字は区別しません。
func ParseTheme(s string) (Theme, error) {
	if t, ok := themeAliases[strings.ToLower(strings.TrimSpace(s))]; ok {
		return t, nil
	}
	return 0, &ValidationError{Field: "theme", Message: fmt.Sprintf("不明なテーマです: %q", s)}
}

// IllustrationStyles はフォームで提示する挿絵スタイルのプリセットです。自由入力も受け付けます。
var IllustrationStyles = []string{
	"children's watercolor",
	"2D cartoon",
	"Pixar-style 3D",
	"colored pencils",
	"soft pastel",
}

// StoryRequest は1回の送信で受け取る物語のパラメータです。
// NewStoryRequest でのみ生成され、生成後は変更できません。
type StoryRequest struct {
	interests         string
	age               int
	theme             Theme
	illustrationStyle string
}

// NewStoryRequest は入力値を検証して StoryRequest を生成します。
// 入力が不正な場合は *ValidationError を返します。
func NewStoryRequest(interests string, age int, theme Theme, illustrationStyle string) (StoryRequest, error) {
	interests = strings.TrimSpace(interests)
	illustrationStyle = strings.TrimSpace(illustrationStyle)

	if interests == "" {
		return StoryRequest{}, &ValidationError{Field: "interests", Message: "興味やキャラクターを入力してください"}
	}
	if age < MinAge || age > MaxAge {
		return StoryRequest{}, &ValidationError{Field: "age", Message: fmt.Sprintf("年齢は %d から %d の範囲で指定してください (got %d)", MinAge, MaxAge, age)}
	}
	if !theme.Valid() {
		return StoryRequest{}, &ValidationError{Field: "theme", Message: fmt.Sprintf("不明なテーマです: %s", theme)}
	}
	if illustrationStyle == "" {
		return StoryRequest{}, &ValidationError{Field: "illustration_style", Message: "挿絵のスタイルを指定してください"}
	}

	return StoryRequest{
		interests:         interests,
		age:               age,
		theme:             theme,
		illustrationStyle: illustrationStyle,
	}, nil
}

func (r StoryRequest) Interests() string         { return r.interests }
func (r StoryRequest) Age() int                  { return r.age }
func (r StoryRequest) Theme() Theme              { return r.theme }
func (r StoryRequest) IllustrationStyle() string { return r.illustrationStyle }

// IsZero は r が NewStoryRequest を経由せずに作られたゼロ値かどうかを返します。
func (r StoryRequest) IsZero() bool {
	return r.interests == "" && r.age == 0
}
