package recipe

import (
	"fmt"

	"recipe-finder/internal/pkg/common"

	"go.uber.org/zap"
)

// DebugReport 單筆原始文件的解讀結果
type DebugReport struct {
	ID                string   `json:"id"`
	Name              string   `json:"name"`
	ValidImages       int      `json:"valid_images"`
	ImageURLs         []string `json:"image_urls"`
	IngredientsMatch  string   `json:"ingredients_match"`
	QuantityCount     int      `json:"quantity_count"`
	PartCount         int      `json:"part_count"`
	InstructionsCount int      `json:"instructions_count"`
}

// NewDebugReport 從正規化結果產生報告
func NewDebugReport(r Recipe) DebugReport {
	match := "Yes"
	if !r.IngredientsMatch() {
		match = fmt.Sprintf("No (Quantities: %d, Parts: %d)", len(r.Ingredients.Quantities), len(r.Ingredients.Parts))
	}
	return DebugReport{
		ID:                r.ID,
		Name:              r.Name,
		ValidImages:       len(r.Images),
		ImageURLs:         r.Images,
		IngredientsMatch:  match,
		QuantityCount:     len(r.Ingredients.Quantities),
		PartCount:         len(r.Ingredients.Parts),
		InstructionsCount: len(r.Instructions),
	}
}

// Debug 正規化並將解讀結果寫入日誌，回傳值與 Normalize 相同
func Debug(raw *RawRecipe) Recipe {
	sanitized := Normalize(raw)
	report := NewDebugReport(sanitized)

	common.LogInfo("Recipe debug info",
		zap.String("id", report.ID),
		zap.String("name", report.Name),
		zap.Int("valid_images", report.ValidImages),
		zap.Strings("image_urls", report.ImageURLs),
		zap.String("ingredients_match", report.IngredientsMatch),
		zap.String("instructions", fmt.Sprintf("%d steps", report.InstructionsCount)),
	)

	return sanitized
}
