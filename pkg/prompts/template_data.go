package prompts

import (
	_ "embed"

	"github.com/shouni/go-storybook-kit/pkg/domain"
)

//go:embed story.md
var StoryPromptTemplate string

// TemplateData は物語プロンプトのテンプレートに渡すデータ構造です。
type TemplateData struct {
	Interests         string
	Age               int
	Theme             string
	IllustrationStyle string
	Language          string
	SceneCount        int
	SceneNumbers      []int
}

// NewTemplateData は StoryRequest からテンプレートデータを組み立てます。
func NewTemplateData(req domain.StoryRequest, language string) TemplateData {
	numbers := make([]int, domain.SceneCount)
	for i := range numbers {
		numbers[i] = i + 1
	}
	return TemplateData{
		Interests:         req.Interests(),
		Age:               req.Age(),
		Theme:             req.Theme().String(),
		IllustrationStyle: req.IllustrationStyle(),
		Language:          language,
		SceneCount:        domain.SceneCount,
		SceneNumbers:      numbers,
	}
}
