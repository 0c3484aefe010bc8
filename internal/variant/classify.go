package variant

import (
	"sort"
	"strings"

	"github.com/bioshop-next/internal/constants"
)

var colorKeywords = []string{"顏色", "颜色", "色", "color", "colour"}

var sizeKeywords = []string{"尺碼", "尺码", "尺寸", "碼", "码", "size"}

// ClassifyDimension 根据维度名推断维度类别，仅用于展示排序
func ClassifyDimension(name string) string {
	normalized := strings.ToLower(strings.TrimSpace(name))
	if normalized == "" {
		return constants.DimensionKindOther
	}
	for _, keyword := range colorKeywords {
		if strings.Contains(normalized, keyword) {
			return constants.DimensionKindColor
		}
	}
	for _, keyword := range sizeKeywords {
		if strings.Contains(normalized, keyword) {
			return constants.DimensionKindSize
		}
	}
	return constants.DimensionKindOther
}

// DisplayDimensions 返回展示顺序（颜色、尺码、其他），不影响组合键编码
func (v *View) DisplayDimensions() []string {
	if v == nil {
		return nil
	}
	return displayOrder(v.Dimensions)
}

func displayOrder(dims []string) []string {
	ordered := make([]string, len(dims))
	copy(ordered, dims)
	sort.SliceStable(ordered, func(i, j int) bool {
		return dimensionRank(ordered[i]) < dimensionRank(ordered[j])
	})
	return ordered
}

func dimensionRank(name string) int {
	switch ClassifyDimension(name) {
	case constants.DimensionKindColor:
		return 0
	case constants.DimensionKindSize:
		return 1
	default:
		return 2
	}
}
