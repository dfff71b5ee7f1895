package domain

import (
	"errors"
	"fmt"
)

// ErrMalformedStory は MalformedStoryError に対して errors.Is で一致するセンチネルです。
var ErrMalformedStory = errors.New("malformed story")

// ValidationError はユーザー入力の検証エラーです。リモート呼び出しの前に返されます。
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("入力エラー (%s): %s", e.Field, e.Message)
}

// MalformedStoryError はテキスト生成モデルの応答が物語のスキーマを満たさない場合のエラーです。
type MalformedStoryError struct {
	Reason  string
	Excerpt string
	Err     error
}

func (e *MalformedStoryError) Error() string {
	msg := "物語のJSONが不正です: " + e.Reason
	if e.Excerpt != "" {
		msg += fmt.Sprintf(" (応答抜粋: %q)", e.Excerpt)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *MalformedStoryError) Unwrap() error { return e.Err }

func (e *MalformedStoryError) Is(target error) bool { return target == ErrMalformedStory }
