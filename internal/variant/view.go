package variant

import (
	"strings"

	"github.com/bioshop-next/internal/constants"

	"github.com/shopspring/decimal"
)

// Combination 单个规格组合的库存与可见状态
type Combination struct {
	Qty    int    `json:"qty"`
	Status string `json:"status"`
}

// Available 组合是否可选（可见且有库存）
func (c Combination) Available() bool {
	return c.Qty > 0 && c.Status == constants.CombinationStatusVisible
}

// Meta 组合对应的规格记录信息
type Meta struct {
	VariantID uint
	Label     string
	Price     *decimal.Decimal
}

// View 归一化后的规格视图
//
// View 构建完成后只读，可在多个 goroutine 间共享；需要变更时重新构建整个视图。
type View struct {
	Dimensions   []string               `json:"dimensions"`
	Options      map[string][]string    `json:"options"`
	Combinations map[string]Combination `json:"combinations"`
	OptionImages map[string]int         `json:"optionImages,omitempty"`
	// Skipped 归一化时因数据残缺被丢弃的规格记录数
	Skipped int `json:"-"`

	meta map[string]Meta
}

func newView() *View {
	return &View{
		Options:      make(map[string][]string),
		Combinations: make(map[string]Combination),
		meta:         make(map[string]Meta),
	}
}

// IsEmpty 视图是否没有任何可用维度（应回退到商品库存）
func (v *View) IsEmpty() bool {
	return v == nil || len(v.Dimensions) == 0 || len(v.Combinations) == 0
}

// Lookup 按组合键查询，不存在的组合视为库存 0
func (v *View) Lookup(key string) (Combination, bool) {
	if v == nil {
		return Combination{Status: constants.CombinationStatusHidden}, false
	}
	combo, ok := v.Combinations[key]
	if !ok {
		return Combination{Status: constants.CombinationStatusHidden}, false
	}
	return combo, true
}

// Selectable 组合是否可加入购物车
func (v *View) Selectable(key string) bool {
	combo, _ := v.Lookup(key)
	return combo.Available()
}

// Meta 返回组合对应的规格记录信息
func (v *View) Meta(key string) (Meta, bool) {
	if v == nil || v.meta == nil {
		return Meta{}, false
	}
	m, ok := v.meta[key]
	return m, ok
}

// TotalAvailable 所有可见组合的库存合计
func (v *View) TotalAvailable() int {
	if v == nil {
		return 0
	}
	total := 0
	for _, combo := range v.Combinations {
		if combo.Status != constants.CombinationStatusVisible || combo.Qty <= 0 {
			continue
		}
		total += combo.Qty
	}
	return total
}

// MinAvailable 可见且有库存组合中的最小库存
func (v *View) MinAvailable() (int, bool) {
	if v == nil {
		return 0, false
	}
	min := 0
	found := false
	for _, combo := range v.Combinations {
		if !combo.Available() {
			continue
		}
		if !found || combo.Qty < min {
			min = combo.Qty
			found = true
		}
	}
	return min, found
}

// EncodeKey 按存储维度顺序拼接组合键
func EncodeKey(values ...string) string {
	return strings.Join(values, constants.CombinationKeySeparator)
}

// DecodeKey 拆分组合键
func DecodeKey(key string, dimensions int) []string {
	if dimensions <= 1 {
		return []string{key}
	}
	return strings.SplitN(key, constants.CombinationKeySeparator, dimensions)
}
