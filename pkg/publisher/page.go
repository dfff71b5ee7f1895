package publisher

import (
	"fmt"

	"github.com/shouni/go-storybook-kit/pkg/domain"
)

// PageScene は描画用に整形された1シーン分のデータです。Image と Warning はどちらか一方のみが設定されます。
type PageScene struct {
	Number      int
	Text        string
	ImagePrompt string
	Image       *domain.Image
	Warning     string
}

// Page は物語本文と挿絵を並べて描画するためのモデルです。
type Page struct {
	Title  string
	Moral  string
	Scenes []PageScene
}

// NewPage は Story と挿絵生成結果から Page を組み立てます。
// 結果が存在しないシーンは失敗として扱い、警告を表示します。
func NewPage(story *domain.Story, illustrated []domain.IllustratedScene) Page {
	byIndex := make(map[int]domain.IllustrationResult, len(illustrated))
	for _, is := range illustrated {
		byIndex[is.Index] = is.Result
	}

	page := Page{
		Title:  story.Title,
		Moral:  story.Moral,
		Scenes: make([]PageScene, 0, len(story.Scenes)),
	}
	for i, scene := range story.Scenes {
		ps := PageScene{
			Number:      i + 1,
			Text:        scene.Text,
			ImagePrompt: scene.ImagePrompt,
		}

		result, ok := byIndex[i]
		if !ok {
			ps.Warning = fmt.Sprintf("Illustration for scene %d was not generated.", ps.Number)
			page.Scenes = append(page.Scenes, ps)
			continue
		}

		switch result.Status {
		case domain.IllustrationSucceeded:
			ps.Image = result.Image
		case domain.IllustrationFailed:
			ps.Warning = failureWarning(ps.Number, result.Reason)
		default:
			ps.Warning = fmt.Sprintf("Illustration for scene %d has an unknown status (%d).", ps.Number, result.Status)
		}
		page.Scenes = append(page.Scenes, ps)
	}
	return page
}

func failureWarning(number int, reason error) string {
	if reason == nil {
		return fmt.Sprintf("Illustration for scene %d could not be generated.", number)
	}
	return fmt.Sprintf("Illustration for scene %d could not be generated: %v", number, reason)
}

// ImageCount は画像付きシーンの数を返します。
func (p Page) ImageCount() int {
	n := 0
	for _, s := range p.Scenes {
		if s.Image != nil {
			n++
		}
	}
	return n
}

// Warnings は警告付きシーンの番号を順に返します。
func (p Page) Warnings() []int {
	var nums []int
	for _, s := range p.Scenes {
		if s.Warning != "" {
			nums = append(nums, s.Number)
		}
	}
	return nums
}

// Story は Page から物語本文のみを取り出します。
func (p Page) Story() domain.Story {
	scenes := make([]domain.Scene, 0, len(p.Scenes))
	for _, s := range p.Scenes {
		scenes = append(scenes, domain.Scene{Text: s.Text, ImagePrompt: s.ImagePrompt})
	}
	return domain.Story{Title: p.Title, Scenes: scenes, Moral: p.Moral}
}
