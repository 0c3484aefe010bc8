package variant

import (
	"errors"
	"strings"
)

var (
	// ErrNoVariants 商品没有可选规格
	ErrNoVariants = errors.New("product has no variants")
	// ErrIncompleteSelection 未选完所有维度
	ErrIncompleteSelection = errors.New("variant selection incomplete")
	// ErrUnknownOption 选择了不存在的选项
	ErrUnknownOption = errors.New("variant option unknown")
)

// Selection 用户选择：维度名 -> 选项取值，与展示顺序无关
type Selection map[string]string

// KeyFor 按存储维度顺序构造组合键
//
// 展示层可能颜色在前、尺码在后，但组合键永远按 Dimensions 的顺序编码。
func (v *View) KeyFor(selection Selection) (string, error) {
	if v.IsEmpty() {
		return "", ErrNoVariants
	}
	values := make([]string, 0, len(v.Dimensions))
	for _, dim := range v.Dimensions {
		value := strings.TrimSpace(selection[dim])
		if value == "" {
			return "", ErrIncompleteSelection
		}
		if !containsString(v.Options[dim], value) {
			return "", ErrUnknownOption
		}
		values = append(values, value)
	}
	return EncodeKey(values...), nil
}

// SelectionFromKey 把组合键还原为维度选择
func (v *View) SelectionFromKey(key string) (Selection, bool) {
	if v.IsEmpty() {
		return nil, false
	}
	values := DecodeKey(key, len(v.Dimensions))
	if len(values) != len(v.Dimensions) {
		return nil, false
	}
	selection := make(Selection, len(values))
	for i, dim := range v.Dimensions {
		selection[dim] = values[i]
	}
	return selection, true
}

// OptionSelectable 判断在已选部分条件下某个选项是否还有可选组合（用于置灰）
func (v *View) OptionSelectable(dimension, value string, partial Selection) bool {
	if v.IsEmpty() {
		return false
	}
	dimIndex := -1
	for i, dim := range v.Dimensions {
		if dim == dimension {
			dimIndex = i
			break
		}
	}
	if dimIndex < 0 {
		return false
	}
	for key, combo := range v.Combinations {
		if !combo.Available() {
			continue
		}
		values := DecodeKey(key, len(v.Dimensions))
		if len(values) != len(v.Dimensions) || values[dimIndex] != value {
			continue
		}
		if matchesPartial(v.Dimensions, values, partial, dimIndex) {
			return true
		}
	}
	return false
}

func matchesPartial(dims, values []string, partial Selection, skip int) bool {
	for i, dim := range dims {
		if i == skip {
			continue
		}
		want := strings.TrimSpace(partial[dim])
		if want == "" {
			continue
		}
		if values[i] != want {
			return false
		}
	}
	return true
}
