// internal/service/shipping/domain/size.go
package domain

// SizeClass 是按包裹总重划分的尺寸档位
type SizeClass string

const (
	SizeXS SizeClass = "XS"
	SizeS  SizeClass = "S"
	SizeM  SizeClass = "M"
	SizeL  SizeClass = "L"
)

// 各档位的重量上限（克，含边界）
const (
	maxGramsXS int64 = 1000
	maxGramsS  int64 = 3000
	maxGramsM  int64 = 5000
)

// ClassifyWeight 把总重（克）映射到尺寸档位。调用方保证 grams >= 0。
func ClassifyWeight(grams int64) SizeClass {
	switch {
	case grams <= maxGramsXS:
		return SizeXS
	case grams <= maxGramsS:
		return SizeS
	case grams <= maxGramsM:
		return SizeM
	default:
		return SizeL
	}
}

func isKnownSize(s SizeClass) bool {
	return s == SizeXS || s == SizeS || s == SizeM || s == SizeL
}
