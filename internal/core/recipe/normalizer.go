package recipe

import (
	"encoding/json"
	"math"
	"strings"
	"unicode/utf8"

	"github.com/spf13/cast"
)

const (
	caloriesKey = "calories"

	// 時間欄位缺值或為 NA 時的輸出
	zeroDuration = "0"
	notAvailable = "NA"

	durationPrefix    = "PT"
	hourMarker        = "H"
	minuteMarker      = "M"
	hourReplacement   = " hours  "
	minuteReplacement = " minutes "

	minImageURLLength = 10
)

// Normalize 將原始文件轉為完整的 Recipe
// 缺少或型別錯誤的欄位一律回退為預設值，不會回傳錯誤
func Normalize(raw *RawRecipe) Recipe {
	if raw == nil {
		raw = &RawRecipe{}
	}

	timing := raw.Timing
	if timing == nil {
		timing = &RawTiming{}
	}

	return Recipe{
		ID:           stringOr(raw.ID, ""),
		Name:         stringOr(raw.Name, ""),
		Description:  stringOr(raw.Description, ""),
		Category:     stringOr(raw.Category, DefaultCategory),
		Images:       sanitizeImages(raw.Images),
		Ingredients:  sanitizeIngredients(raw.Ingredients),
		Instructions: sanitizeInstructions(raw.Instructions),
		Timing: Timing{
			CookTime:  sanitizeTiming(timing.CookTime),
			PrepTime:  sanitizeTiming(timing.PrepTime),
			TotalTime: sanitizeTiming(timing.TotalTime),
		},
		Servings:  numberOr(raw.Servings, 1),
		Nutrition: sanitizeNutrition(raw.Nutrition),
	}
}

// NormalizeDocument 直接正規化已解析的搜尋文件
func NormalizeDocument(doc map[string]any) Recipe {
	return Normalize(NewRawRecipe(doc))
}

// IsValidImageURL 粗略檢查圖片網址，不保證可連線
func IsValidImageURL(url string) bool {
	return strings.HasPrefix(url, "http") && utf8.RuneCountInString(url) > minImageURLLength
}

func sanitizeImages(v any) []string {
	images := []string{}
	items, ok := v.([]any)
	if !ok {
		if strs, isStrings := v.([]string); isStrings {
			items = make([]any, len(strs))
			for i, s := range strs {
				items[i] = s
			}
		}
	}
	for _, item := range items {
		if url, isString := item.(string); isString && IsValidImageURL(url) {
			images = append(images, url)
		}
	}
	return images
}

func sanitizeIngredients(raw *RawIngredients) Ingredients {
	if raw == nil {
		return Ingredients{Quantities: []string{}, Parts: []string{}}
	}

	quantities, _ := toStringSlice(raw.Quantities)
	for i, q := range quantities {
		// "2, diced" 只保留逗號前的份量
		quantities[i], _, _ = strings.Cut(q, ",")
	}

	parts, _ := toStringSlice(raw.Parts)

	return Ingredients{Quantities: quantities, Parts: parts}
}

func sanitizeInstructions(v any) []string {
	if s, ok := v.(string); ok {
		return []string{s}
	}
	steps, _ := toStringSlice(v)
	return steps
}

// sanitizeTiming 僅做文字替換，不解析 ISO-8601；每個標記只替換第一次出現
func sanitizeTiming(v any) string {
	if isFalsy(v) {
		return zeroDuration
	}
	s, err := toString(v)
	if err != nil || s == notAvailable {
		return zeroDuration
	}
	s = strings.Replace(s, durationPrefix, "", 1)
	s = strings.Replace(s, hourMarker, hourReplacement, 1)
	s = strings.Replace(s, minuteMarker, minuteReplacement, 1)
	return s
}

func sanitizeNutrition(raw map[string]any) Nutrition {
	n := Nutrition{Calories: numberOr(raw[caloriesKey], 0)}
	for k, v := range raw {
		if k == caloriesKey {
			continue
		}
		if n.Extra == nil {
			n.Extra = make(map[string]any, len(raw))
		}
		n.Extra[k] = v
	}
	return n
}

// stringOr 空值、false、0 與無法轉換的值皆使用預設值
func stringOr(v any, def string) string {
	if isFalsy(v) {
		return def
	}
	s, err := toString(v)
	if err != nil {
		return def
	}
	return s
}

// numberOr 轉換失敗、NaN、無限大或 0 時使用預設值
func numberOr(v any, def float64) float64 {
	f, ok := toNumber(v)
	if !ok || f == 0 {
		return def
	}
	return f
}

func toString(v any) (string, error) {
	if n, ok := v.(json.Number); ok {
		return n.String(), nil
	}
	return cast.ToStringE(v)
}

func toNumber(v any) (float64, bool) {
	var (
		f   float64
		err error
	)
	switch x := v.(type) {
	case nil:
		return 0, false
	case json.Number:
		f, err = x.Float64()
	case string:
		s := strings.TrimSpace(x)
		if s == "" {
			return 0, false
		}
		f, err = cast.ToFloat64E(s)
	default:
		f, err = cast.ToFloat64E(x)
	}
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// toStringSlice 非序列輸入回傳空切片；nil 元素轉為空字串
func toStringSlice(v any) ([]string, bool) {
	out := []string{}
	switch items := v.(type) {
	case []string:
		return append(out, items...), true
	case []any:
		for _, item := range items {
			if item == nil {
				out = append(out, "")
				continue
			}
			s, err := toString(item)
			if err != nil {
				s = ""
			}
			out = append(out, s)
		}
		return out, true
	default:
		return out, false
	}
}

func isFalsy(v any) bool {
	switch x := v.(type) {
	case nil:
		return true
	case bool:
		return !x
	case string:
		return x == ""
	case json.Number, int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64, float32, float64:
		f, ok := toNumber(x)
		return !ok || f == 0
	default:
		return false
	}
}
