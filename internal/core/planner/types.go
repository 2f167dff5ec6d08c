package planner

import (
	"fmt"
	"strings"

	"recipe-finder/internal/core/recipe"
	"recipe-finder/internal/pkg/common"
)

// DateLayout 週計畫日期格式 (yyyy-MM-dd)
const DateLayout = "2006-01-02"

// MealType 餐別
type MealType string

const (
	Breakfast MealType = "breakfast"
	Lunch     MealType = "lunch"
	Dinner    MealType = "dinner"
)

// MealTypes 依一天順序排列的餐別
var MealTypes = []MealType{Breakfast, Lunch, Dinner}

// ParseMealType 解析餐別，大小寫不拘
func ParseMealType(s string) (MealType, error) {
	switch m := MealType(strings.ToLower(strings.TrimSpace(s))); m {
	case Breakfast, Lunch, Dinner:
		return m, nil
	default:
		return "", common.ErrInvalidMealSlot.Wrap(fmt.Errorf("unknown meal type %q", s))
	}
}

// PlannedMeal 存入週計畫的食譜投影
type PlannedMeal struct {
	ID          string           `json:"id"`
	Title       string           `json:"title"`
	Name        string           `json:"name"`
	Description string           `json:"description"`
	Images      []string         `json:"images"`
	Category    string           `json:"category"`
	Timing      recipe.Timing    `json:"timing"`
	Servings    float64          `json:"servings"`
	Nutrition   recipe.Nutrition `json:"nutrition"`
}

// NewPlannedMeal 複製食譜需要保存的欄位，不與原食譜共用切片或 map
func NewPlannedMeal(r recipe.Recipe) PlannedMeal {
	images := make([]string, len(r.Images))
	copy(images, r.Images)

	nutrition := recipe.Nutrition{Calories: r.Nutrition.Calories}
	if len(r.Nutrition.Extra) > 0 {
		nutrition.Extra = make(map[string]any, len(r.Nutrition.Extra))
		for k, v := range r.Nutrition.Extra {
			nutrition.Extra[k] = v
		}
	}

	return PlannedMeal{
		ID:          r.ID,
		Title:       r.Name,
		Name:        r.Name,
		Description: r.Description,
		Images:      images,
		Category:    r.Category,
		Timing:      r.Timing,
		Servings:    r.Servings,
		Nutrition:   nutrition,
	}
}

// Summary 描述前 100 字，供列表顯示
func (m PlannedMeal) Summary() string {
	return common.Truncate(m.Description, 100)
}

// DayMeals 一天的三個餐別，未安排時為 null
type DayMeals struct {
	Breakfast *PlannedMeal `json:"breakfast"`
	Lunch     *PlannedMeal `json:"lunch"`
	Dinner    *PlannedMeal `json:"dinner"`
}

// Get 取得餐別內容
func (d *DayMeals) Get(slot MealType) *PlannedMeal {
	switch slot {
	case Breakfast:
		return d.Breakfast
	case Lunch:
		return d.Lunch
	case Dinner:
		return d.Dinner
	}
	return nil
}

// Set 設定餐別內容，nil 代表移除
func (d *DayMeals) Set(slot MealType, meal *PlannedMeal) {
	switch slot {
	case Breakfast:
		d.Breakfast = meal
	case Lunch:
		d.Lunch = meal
	case Dinner:
		d.Dinner = meal
	}
}

// WeeklyMeals 以日期為鍵的週計畫，與儲存格式一致
type WeeklyMeals map[string]*DayMeals

// Day 週計畫中的一天
type Day struct {
	DayName string   `json:"day_name"`
	Date    string   `json:"date"`
	Meals   DayMeals `json:"meals"`
}

// Week 從週一開始的七天
type Week struct {
	Start string `json:"start"`
	Days  []Day  `json:"days"`
	Reset bool   `json:"reset,omitempty"`
}
