package service

import (
	"github.com/bioshop-next/internal/availability"
	"github.com/bioshop-next/internal/logger"
	"github.com/bioshop-next/internal/models"
	"github.com/bioshop-next/internal/pricing"
	"github.com/bioshop-next/internal/variant"

	"github.com/shopspring/decimal"
)

// ProductCard 商品卡片
type ProductCard struct {
	ID                uint               `json:"id"`
	Slug              string             `json:"slug"`
	Name              string             `json:"name"`
	Image             string             `json:"image,omitempty"`
	Currency          string             `json:"currency"`
	Price             models.Money       `json:"price"`
	PriceText         string             `json:"price_text"`
	OriginalPrice     *models.Money      `json:"original_price,omitempty"`
	OriginalPriceText string             `json:"original_price_text,omitempty"`
	HasVariants       bool               `json:"has_variants"`
	Availability      availability.State `json:"availability"`
}

// ProductDetail 商品详情
type ProductDetail struct {
	ProductCard
	Images   []string        `json:"images"`
	Variants *VariantPayload `json:"variants,omitempty"`
}

// VariantPayload 规格选择器数据
type VariantPayload struct {
	Dimensions        []string                      `json:"dimensions"`
	DisplayDimensions []string                      `json:"display_dimensions"`
	Options           map[string][]string           `json:"options"`
	Combinations      map[string]CombinationPayload `json:"combinations"`
	OptionImages      map[string]int                `json:"option_images,omitempty"`
}

// CombinationPayload 单个组合
type CombinationPayload struct {
	Qty       int           `json:"qty"`
	Status    string        `json:"status"`
	Available bool          `json:"available"`
	Label     string        `json:"label,omitempty"`
	VariantID uint          `json:"variant_id,omitempty"`
	Price     *models.Money `json:"price,omitempty"`
	PriceText string        `json:"price_text,omitempty"`
}

func buildVariantPayload(view *variant.View, product *models.Product, currency string) *VariantPayload {
	payload := &VariantPayload{
		Dimensions:        view.Dimensions,
		DisplayDimensions: view.DisplayDimensions(),
		Options:           view.Options,
		Combinations:      make(map[string]CombinationPayload, len(view.Combinations)),
		OptionImages:      view.OptionImages,
	}
	for key, combo := range view.Combinations {
		item := CombinationPayload{
			Qty:       combo.Qty,
			Status:    combo.Status,
			Available: combo.Available(),
		}
		if meta, ok := view.Meta(key); ok {
			item.Label = meta.Label
			item.VariantID = meta.VariantID
			price := pricing.RoundForDisplay(unitPrice(product, meta), currency)
			money := models.NewMoneyFromDecimal(price)
			item.Price = &money
			item.PriceText = formatMoney(price, currency)
		}
		payload.Combinations[key] = item
	}
	return payload
}

// variantSource 商品表字段转换为归一化输入
func variantSource(product *models.Product) variant.Source {
	src := variant.Source{
		Dimensions:   []string(product.VariantDimensions),
		Sizes:        product.SizesJSON.Raw(),
		OptionImages: product.OptionImagesJSON.Raw(),
	}
	if len(product.Variants) == 0 {
		return src
	}
	records := make([]variant.Record, 0, len(product.Variants))
	for _, v := range product.Variants {
		options, err := variant.ParseOptions(v.OptionsJSON)
		if err != nil {
			logger.Warnw("product_variant_options_invalid", "product_id", product.ID, "variant_id", v.ID, "error", err)
			src.DroppedVariants++
			continue
		}
		records = append(records, variant.Record{
			ID:        v.ID,
			Name:      v.Name,
			Options:   options,
			Price:     v.PriceAmount.DecimalPtr(),
			Stock:     v.Stock,
			Active:    v.IsActive,
			SortOrder: v.SortOrder,
		})
	}
	src.Variants = records
	return src
}

// unitPrice 规格价优先，否则使用商品价
func unitPrice(product *models.Product, meta variant.Meta) decimal.Decimal {
	if meta.Price != nil {
		return *meta.Price
	}
	return product.PriceAmount.Decimal
}

func formatMoney(amount decimal.Decimal, currency string) string {
	return pricing.FormatPrice(amount, currency)
}
