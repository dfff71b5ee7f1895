package runner

import "fmt"

// StoryStage は物語生成のどの工程で失敗したかを表します。
type StoryStage string

const (
	StagePrompt   StoryStage = "prompt"
	StageGenerate StoryStage = "generate"
	StageParse    StoryStage = "parse"
)

// StoryGenerationError は物語生成の失敗です。この送信に対する処理は中断され、挿絵生成は行われません。
type StoryGenerationError struct {
	Stage StoryStage
	Err   error
}

func (e *StoryGenerationError) Error() string {
	return fmt.Sprintf("物語の生成に失敗しました (stage: %s): %v", e.Stage, e.Err)
}

func (e *StoryGenerationError) Unwrap() error { return e.Err }
