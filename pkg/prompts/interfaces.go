package prompts

import "github.com/shouni/go-storybook-kit/pkg/domain"

// StoryPrompt は、物語生成用のプロンプトを構築する契約です。
type StoryPrompt interface {
	// Compile は、リクエストの全項目を埋め込んだ指示文を生成します。
	Compile(req domain.StoryRequest) (string, error)
}
