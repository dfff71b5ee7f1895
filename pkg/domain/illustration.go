package domain

// Image は画像生成サービスから返された画像データです。
// 具体的なエンコードはサービス依存で、MimeType で判別します。
type Image struct {
	Data     []byte
	MimeType string
}

// IllustrationStatus は1シーン分の挿絵生成の結果種別です。
type IllustrationStatus int

const (
	IllustrationSucceeded IllustrationStatus = iota + 1
	IllustrationFailed
)

func (s IllustrationStatus) String() string {
	switch s {
	case IllustrationSucceeded:
		return "succeeded"
	case IllustrationFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// IllustrationResult は挿絵生成の成功（画像あり）か失敗（理由あり）のどちらかを表します。
type IllustrationResult struct {
	Status IllustrationStatus
	Image  *Image
	Reason error
}

// Succeeded は画像付きの成功結果を作ります。
func Succeeded(img *Image) IllustrationResult {
	return IllustrationResult{Status: IllustrationSucceeded, Image: img}
}

// Failed は理由付きの失敗結果を作ります。
func Failed(reason error) IllustrationResult {
	return IllustrationResult{Status: IllustrationFailed, Reason: reason}
}

// IllustratedScene はシーンとその挿絵生成結果の組です。Index は 0 始まりのシーン位置です。
type IllustratedScene struct {
	Index  int
	Scene  Scene
	Result IllustrationResult
}

// Image は成功時の画像を返します。失敗時は nil です。
func (s IllustratedScene) Image() *Image {
	if s.Result.Status != IllustrationSucceeded {
		return nil
	}
	return s.Result.Image
}
