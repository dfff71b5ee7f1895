package publisher

import (
	"fmt"
	"strings"
)

// BuildMarkdown は Page を Markdown に変換します。
// imagePaths はシーン順の画像パスで、空文字列のシーンには画像を出力しません。
func BuildMarkdown(page Page, imagePaths []string) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("# %s\n\n", page.Title))

	for i, scene := range page.Scenes {
		sb.WriteString(fmt.Sprintf("## Scene %d\n\n", scene.Number))

		if i < len(imagePaths) && imagePaths[i] != "" {
			sb.WriteString(fmt.Sprintf("![Scene %d](%s)\n\n", scene.Number, imagePaths[i]))
		} else if scene.Warning != "" {
			sb.WriteString(fmt.Sprintf("> ⚠️ %s\n\n", scene.Warning))
		}

		sb.WriteString(strings.TrimSpace(scene.Text))
		sb.WriteString("\n\n")
	}

	if page.Moral != "" {
		sb.WriteString("---\n\n")
		sb.WriteString(fmt.Sprintf("**Moral:** %s\n", strings.TrimSpace(page.Moral)))
	}
	return sb.String()
}
