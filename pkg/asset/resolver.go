package asset

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/shouni/go-utils/urlpath"
)

const (
	// DefaultImageDir は生成された挿絵を格納するデフォルトのディレクトリ名です。
	DefaultImageDir = "images"
	// DefaultStoryJSON は検証済み Story のデフォルト JSON ファイル名です。
	DefaultStoryJSON = "story.json"
	// DefaultStoryMarkdown は物語ページのデフォルト Markdown ファイル名です。
	DefaultStoryMarkdown = "story.md"
	// DefaultStoryHTML は物語ページのデフォルト HTML ファイル名です。
	DefaultStoryHTML = "story.html"
	// DefaultSceneBaseName はシーン画像の共通のベース名です。
	DefaultSceneBaseName = "scene"
)

// ResolvePath は、ベースとなるディレクトリパスとファイル名から、
// GCS/ローカルを考慮した最終的な出力パスを生成します。
func ResolvePath(baseDir, fileName string) (string, error) {
	return urlpath.ResolvePath(baseDir, fileName)
}

// ResolveBaseDir は、入力パス（URLまたはローカルパス）から
// 親ディレクトリのパスを解決し、末尾がセパレータで終わるように正規化します。
func ResolveBaseDir(rawPath string) string {
	return urlpath.ResolveBaseDir(rawPath)
}

// SceneFileName は 1 始まりのシーン番号と MIME タイプから画像ファイル名を生成します。
// 例: 2, "image/jpeg" -> "scene_2.jpg"
func SceneFileName(number int, mimeType string) (string, error) {
	if number < 1 {
		return "", fmt.Errorf("シーン番号は1以上である必要があります: %d", number)
	}
	return urlpath.GenerateIndexedPath(DefaultSceneBaseName+ExtensionFor(mimeType), number)
}

// ExtensionFor は MIME タイプに対応する拡張子を返します。不明な場合は ".png" です。
func ExtensionFor(mimeType string) string {
	mt, _, _ := strings.Cut(strings.ToLower(mimeType), ";")
	switch strings.TrimSpace(mt) {
	case "image/jpeg", "image/jpg":
		return ".jpg"
	case "image/webp":
		return ".webp"
	case "image/gif":
		return ".gif"
	default:
		return ".png"
	}
}

// ReplaceExt は path の拡張子を ext に置き換えます。
func ReplaceExt(path, ext string) string {
	return strings.TrimSuffix(path, filepath.Ext(path)) + ext
}
