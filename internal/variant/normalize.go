package variant

import (
	"encoding/json"
	"strings"

	"github.com/bioshop-next/internal/constants"

	"github.com/spf13/cast"
)

// Source 规格归一化输入
type Source struct {
	// Dimensions 商品声明的维度顺序，为空时按规格记录中首次出现的顺序
	Dimensions []string
	// Sizes 历史尺码表 JSON（尺码 -> 数量）
	Sizes json.RawMessage
	// Variants 按排序权重排好的规格记录
	Variants []Record
	// DroppedVariants 解析失败被调用方丢弃的规格记录数，大于 0 时仍按规格商品处理
	DroppedVariants int
	// OptionImages 选项取值 -> 图片下标 JSON
	OptionImages json.RawMessage
}

// Normalize 把商品的原始规格数据归一化为 View
//
// 既无规格记录也无尺码表时返回 nil；数据残缺时返回空视图（IsEmpty 为 true），
// 调用方应回退到商品自身库存。同时存在时以规格记录为准。
func Normalize(src Source) *View {
	var view *View
	switch {
	case len(src.Variants) > 0 || src.DroppedVariants > 0:
		view = fromVariants(src.Dimensions, src.Variants)
		view.Skipped += src.DroppedVariants
	case !isBlankJSON(src.Sizes):
		view = fromSizes(src.Sizes)
	default:
		return nil
	}
	if view != nil && !view.IsEmpty() {
		view.OptionImages = parseOptionImages(src.OptionImages)
	}
	return view
}

func fromVariants(declared []string, records []Record) *View {
	view := newView()
	dims := resolveDimensions(declared, records)
	synthetic := len(dims) == 0
	if synthetic {
		dims = []string{constants.DefaultVariantDimension}
	}

	for _, record := range records {
		values, extras, ok := recordValues(record, dims, synthetic)
		if !ok {
			view.Skipped++
			continue
		}
		key := EncodeKey(values...)
		for i, dim := range dims {
			view.Options[dim] = appendDistinct(view.Options[dim], values[i])
		}

		qty := record.Stock
		if qty < 0 {
			qty = 0
		}
		status := constants.CombinationStatusHidden
		if record.Active {
			status = constants.CombinationStatusVisible
		}

		existing, seen := view.Combinations[key]
		if !seen {
			view.Combinations[key] = Combination{Qty: qty, Status: status}
			view.meta[key] = Meta{
				VariantID: record.ID,
				Label:     buildLabel(dims, values, extras),
				Price:     record.Price,
			}
			continue
		}
		view.Combinations[key] = mergeCombination(existing, qty, status)
		if existing.Status != constants.CombinationStatusVisible && status == constants.CombinationStatusVisible {
			view.meta[key] = Meta{
				VariantID: record.ID,
				Label:     buildLabel(dims, values, extras),
				Price:     record.Price,
			}
		}
	}

	if len(view.Combinations) == 0 {
		return &View{Skipped: view.Skipped}
	}
	view.Dimensions = dims
	fillCrossProduct(view)
	return view
}

func fromSizes(raw json.RawMessage) *View {
	pairs, err := decodeOrderedObject(raw)
	if err != nil {
		return &View{}
	}
	if len(pairs) == 0 {
		return nil
	}
	view := newView()
	dim := constants.LegacySizeDimension
	for _, pair := range pairs {
		size := strings.TrimSpace(pair.key)
		if size == "" {
			view.Skipped++
			continue
		}
		qty, err := cast.ToIntE(pair.value)
		if err != nil || qty < 0 {
			qty = 0
		}
		status := constants.CombinationStatusVisible
		if qty == 0 {
			status = constants.CombinationStatusHidden
		}
		view.Options[dim] = appendDistinct(view.Options[dim], size)
		if existing, ok := view.Combinations[size]; ok {
			view.Combinations[size] = mergeCombination(existing, qty, status)
			continue
		}
		view.Combinations[size] = Combination{Qty: qty, Status: status}
		view.meta[size] = Meta{Label: size}
	}
	if len(view.Combinations) == 0 {
		return &View{Skipped: view.Skipped}
	}
	view.Dimensions = []string{dim}
	return view
}

// resolveDimensions 先取声明顺序中实际出现的维度，再按首次出现补齐，最多两个
func resolveDimensions(declared []string, records []Record) []string {
	observed := make(map[string]bool)
	var firstSeen []string
	for _, record := range records {
		for _, opt := range record.Options {
			if observed[opt.Dimension] {
				continue
			}
			observed[opt.Dimension] = true
			firstSeen = append(firstSeen, opt.Dimension)
		}
	}

	dims := make([]string, 0, constants.MaxVariantDimensions)
	used := make(map[string]bool)
	for _, name := range declared {
		name = strings.TrimSpace(name)
		if name == "" || used[name] || !observed[name] {
			continue
		}
		used[name] = true
		dims = append(dims, name)
	}
	for _, name := range firstSeen {
		if used[name] {
			continue
		}
		used[name] = true
		dims = append(dims, name)
	}
	if len(dims) > constants.MaxVariantDimensions {
		dims = dims[:constants.MaxVariantDimensions]
	}
	return dims
}

// recordValues 按维度顺序取值，超出的维度取值并入展示名
func recordValues(record Record, dims []string, synthetic bool) ([]string, []string, bool) {
	if synthetic {
		name := strings.TrimSpace(record.Name)
		if name == "" || strings.Contains(name, constants.CombinationKeySeparator) {
			return nil, nil, false
		}
		return []string{name}, nil, true
	}
	values := make([]string, 0, len(dims))
	for _, dim := range dims {
		value, ok := record.Options.Get(dim)
		if !ok || value == "" {
			return nil, nil, false
		}
		if len(dims) > 1 && strings.Contains(value, constants.CombinationKeySeparator) {
			return nil, nil, false
		}
		values = append(values, value)
	}
	var extras []string
	for _, opt := range record.Options {
		if containsString(dims, opt.Dimension) {
			continue
		}
		extras = append(extras, opt.Value)
	}
	return values, extras, true
}

// buildLabel 展示名按展示顺序（颜色在前）拼接，与组合键顺序无关
func buildLabel(dims, values, extras []string) string {
	ordered := displayOrder(dims)
	parts := make([]string, 0, len(values)+len(extras))
	for _, dim := range ordered {
		for i, d := range dims {
			if d == dim {
				parts = append(parts, values[i])
			}
		}
	}
	parts = append(parts, extras...)
	return strings.Join(parts, constants.CombinationKeySeparator)
}

// fillCrossProduct 双维度时补齐缺失组合，缺失即库存 0 且隐藏
func fillCrossProduct(view *View) {
	if len(view.Dimensions) != 2 {
		return
	}
	for _, a := range view.Options[view.Dimensions[0]] {
		for _, b := range view.Options[view.Dimensions[1]] {
			key := EncodeKey(a, b)
			if _, ok := view.Combinations[key]; ok {
				continue
			}
			view.Combinations[key] = Combination{Qty: 0, Status: constants.CombinationStatusHidden}
		}
	}
}

// mergeCombination 维度截断后同键的多条记录：可见库存累加，任一可见即可见
func mergeCombination(existing Combination, qty int, status string) Combination {
	if status != constants.CombinationStatusVisible {
		return existing
	}
	if existing.Status != constants.CombinationStatusVisible {
		return Combination{Qty: qty, Status: status}
	}
	return Combination{Qty: existing.Qty + qty, Status: status}
}

func parseOptionImages(raw json.RawMessage) map[string]int {
	pairs, err := decodeOrderedObject(raw)
	if err != nil || len(pairs) == 0 {
		return nil
	}
	images := make(map[string]int, len(pairs))
	for _, pair := range pairs {
		idx, err := cast.ToIntE(pair.value)
		if err != nil || idx < 0 {
			continue
		}
		images[strings.TrimSpace(pair.key)] = idx
	}
	if len(images) == 0 {
		return nil
	}
	return images
}

func appendDistinct(list []string, value string) []string {
	if containsString(list, value) {
		return list
	}
	return append(list, value)
}

func containsString(list []string, value string) bool {
	for _, item := range list {
		if item == value {
			return true
		}
	}
	return false
}
