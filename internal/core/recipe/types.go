package recipe

import (
	"bytes"
	"encoding/json"
	"sort"

	"recipe-finder/internal/pkg/common"
)

// DefaultCategory 缺少分類時使用
const DefaultCategory = "Uncategorized"

// RawRecipe 搜尋服務回傳的原始文件
// 所有欄位皆可省略，型別不固定的欄位以 any 保存
type RawRecipe struct {
	ID           any
	Name         any
	Description  any
	Category     any
	Images       any
	Ingredients  *RawIngredients
	Instructions any
	Timing       *RawTiming
	Servings     any
	Nutrition    map[string]any
}

// RawIngredients 原始食材欄位
type RawIngredients struct {
	Quantities any
	Parts      any
}

// RawTiming 原始時間欄位（ISO-8601 風格字串，如 PT1H30M）
type RawTiming struct {
	CookTime  any
	PrepTime  any
	TotalTime any
}

// NewRawRecipe 從已解析的文件建立 RawRecipe，不會失敗
// 非物件的 ingredients / timing / nutrition 視為不存在
func NewRawRecipe(doc map[string]any) *RawRecipe {
	raw := &RawRecipe{
		ID:           doc["id"],
		Name:         doc["name"],
		Description:  doc["description"],
		Category:     doc["category"],
		Images:       doc["images"],
		Instructions: doc["instructions"],
		Servings:     doc["servings"],
	}

	if ing, ok := doc["ingredients"].(map[string]any); ok {
		raw.Ingredients = &RawIngredients{
			Quantities: ing["quantities"],
			Parts:      ing["parts"],
		}
	}

	if timing, ok := doc["timing"].(map[string]any); ok {
		raw.Timing = &RawTiming{
			CookTime:  timing["cookTime"],
			PrepTime:  timing["prepTime"],
			TotalTime: timing["totalTime"],
		}
	}

	if nutrition, ok := doc["nutrition"].(map[string]any); ok {
		raw.Nutrition = nutrition
	}

	return raw
}

// Recipe 正規化後的食譜，可直接顯示
type Recipe struct {
	ID           string      `json:"id"`
	Name         string      `json:"name"`
	Description  string      `json:"description"`
	Category     string      `json:"category"`
	Images       []string    `json:"images"`
	Ingredients  Ingredients `json:"ingredients"`
	Instructions []string    `json:"instructions"`
	Timing       Timing      `json:"timing"`
	Servings     float64     `json:"servings"`
	Nutrition    Nutrition   `json:"nutrition"`
}

// Ingredients 食材份量與名稱，兩者以索引對應
type Ingredients struct {
	Quantities []string `json:"quantities"`
	Parts      []string `json:"parts"`
}

// Timing 可讀的時間字串
type Timing struct {
	CookTime  string `json:"cookTime"`
	PrepTime  string `json:"prepTime"`
	TotalTime string `json:"totalTime"`
}

// Nutrition 營養資訊
// calories 必定存在，其餘欄位原樣保留於 Extra，序列化時攤平為同一物件
type Nutrition struct {
	Calories float64
	Extra    map[string]any
}

// MarshalJSON 將 Extra 與 calories 合併輸出
func (n Nutrition) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(n.Extra)+1)
	for k, v := range n.Extra {
		out[k] = v
	}
	out[caloriesKey] = n.Calories
	return json.Marshal(out)
}

// UnmarshalJSON 讀回 calories 與其餘欄位
func (n *Nutrition) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*n = Nutrition{}
		return nil
	}
	var m map[string]any
	if err := common.ParseJSONBytes(data, &m); err != nil {
		return err
	}
	*n = sanitizeNutrition(m)
	return nil
}

// ExtraKeys 回傳排序後的額外欄位名稱
func (n Nutrition) ExtraKeys() []string {
	keys := make([]string, 0, len(n.Extra))
	for k := range n.Extra {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// IngredientsMatch 份量與食材數量是否一致
func (r Recipe) IngredientsMatch() bool {
	return len(r.Ingredients.Quantities) == len(r.Ingredients.Parts)
}
