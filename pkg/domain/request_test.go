package domain

import (
	"errors"
	"testing"
)

func TestNewStoryRequest(t *testing.T) {
	tests := []struct {
		name      string
		interests string
		age       int
		theme     Theme
		style     string
		wantField string
	}{
		{name: "正常系", interests: "a brave kitten", age: 6, theme: ThemeCuriosity, style: "watercolor"},
		{name: "年齢の下限", interests: "dragons", age: MinAge, theme: ThemeCourage, style: "2D cartoon"},
		{name: "年齢の上限", interests: "dragons", age: MaxAge, theme: ThemeCourage, style: "2D cartoon"},
		{name: "興味が空", interests: "   ", age: 6, theme: ThemeCuriosity, style: "watercolor", wantField: "interests"},
		{name: "年齢が小さすぎる", interests: "robots", age: 2, theme: ThemeEmpathy, style: "watercolor", wantField: "age"},
		{name: "年齢が大きすぎる", interests: "robots", age: 13, theme: ThemeEmpathy, style: "watercolor", wantField: "age"},
		{name: "未定義のテーマ", interests: "robots", age: 6, theme: Theme(99), style: "watercolor", wantField: "theme"},
		{name: "スタイルが空", interests: "robots", age: 6, theme: ThemeEmpathy, style: "", wantField: "illustration_style"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, err := NewStoryRequest(tt.interests, tt.age, tt.theme, tt.style)
			if tt.wantField == "" {
				if err != nil {
					t.Fatalf("予期しないエラー: %v", err)
				}
				if req.Age() != tt.age || req.Theme() != tt.theme {
					t.Errorf("値が保持されていません: %+v", req)
				}
				return
			}

			var vErr *ValidationError
			if !errors.As(err, &vErr) {
				t.Fatalf("ValidationError を期待しましたが %v でした", err)
			}
			if vErr.Field != tt.wantField {
				t.Errorf("Field: 期待値 %q, 実際の値 %q", tt.wantField, vErr.Field)
			}
			if !req.IsZero() {
				t.Error("エラー時はゼロ値を返すべきです")
			}
		})
	}
}

func TestNewStoryRequest_TrimsInput(t *testing.T) {
	req, err := NewStoryRequest("  a genius mouse ", 8, ThemeFriendship, " soft pastel ")
	if err != nil {
		t.Fatalf("予期しないエラー: %v", err)
	}
	if req.Interests() != "a genius mouse" {
		t.Errorf("Interests がトリムされていません: %q", req.Interests())
	}
	if req.IllustrationStyle() != "soft pastel" {
		t.Errorf("IllustrationStyle がトリムされていません: %q", req.IllustrationStyle())
	}
}

func TestParseTheme(t *testing.T) {
	cases := map[string]Theme{
		"Curiosity":  ThemeCuriosity,
		"courage":    ThemeCourage,
		"Amistad":    ThemeFriendship,
		"Valentía":   ThemeCourage,
		" EMPATHY ":  ThemeEmpathy,
		"generosity": ThemeGenerosity,
	}
	for in, want := range cases {
		got, err := ParseTheme(in)
		if err != nil {
			t.Errorf("ParseTheme(%q) でエラー: %v", in, err)
			continue
		}
		if got != want {
			t.Errorf("ParseTheme(%q) = %v, want %v", in, got, want)
		}
	}

	if _, err := ParseTheme("bravery"); err == nil {
		t.Error("未知のテーマでエラーが返りませんでした")
	}
}

func TestTheme_String(t *testing.T) {
	for _, th := range Themes() {
		if !th.Valid() {
			t.Errorf("%v が Valid ではありません", th)
		}
	}
	if ThemeCuriosity.String() != "Curiosity" {
		t.Errorf("期待値 'Curiosity', 実際の値 %q", ThemeCuriosity.String())
	}
	if Theme(0).Valid() {
		t.Error("ゼロ値のテーマは無効であるべきです")
	}
}
