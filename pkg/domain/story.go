package domain

// SceneCount は1つの物語に含まれるシーン数です。
const SceneCount = 4

// Scene は物語の1場面です。本文と、挿絵生成用の画像プロンプトを持ちます。
type Scene struct {
	Text        string `json:"text"`
	ImagePrompt string `json:"image_prompt"`
}

// Story はテキスト生成モデルの応答から組み立てられた物語全体です。
// parser パッケージが検証済みの値のみを返すため、生成後は読み取り専用として扱います。
type Story struct {
	Title  string  `json:"title"`
	Scenes []Scene `json:"scenes"`
	Moral  string  `json:"moral"`
}
