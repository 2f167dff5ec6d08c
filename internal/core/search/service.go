package search

import (
	"context"
	"fmt"
	"time"

	"recipe-finder/internal/core/recipe"
	"recipe-finder/internal/pkg/common"

	"go.uber.org/zap"
)

// DefaultPageSize 每頁食譜數量
const DefaultPageSize = 12

// Page 一頁搜尋結果
type Page struct {
	Term       string          `json:"term"`
	Recipes    []recipe.Recipe `json:"recipes"`
	Page       int             `json:"page"`
	PageSize   int             `json:"page_size"`
	TotalPages int             `json:"total_pages"`
	Count      int             `json:"count"`
	Skipped    int             `json:"skipped,omitempty"`
}

// Service 食譜搜尋服務
type Service struct {
	searcher Searcher
	pageSize int
}

// NewService 創建搜尋服務，searcher 為 nil 時所有操作回傳未設定錯誤
func NewService(searcher Searcher, pageSize int) *Service {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return &Service{
		searcher: searcher,
		pageSize: pageSize,
	}
}

// Offset 計算分頁起點
func Offset(page, pageSize int) int {
	return (page - 1) * pageSize
}

// TotalPages 計算總頁數（無條件進位）
func TotalPages(count, pageSize int) int {
	if count <= 0 || pageSize <= 0 {
		return 0
	}
	return (count + pageSize - 1) / pageSize
}

// Search 搜尋食譜並正規化每筆結果
func (s *Service) Search(ctx context.Context, term string, page int) (*Page, error) {
	if s.searcher == nil {
		return nil, common.ErrSearchNotConfigured
	}
	if page < 1 {
		page = 1
	}

	start := time.Now()
	res, err := s.searcher.Search(ctx, Query{
		Term:   term,
		Mode:   ModeFullText,
		Limit:  s.pageSize,
		Offset: Offset(page, s.pageSize),
	})
	common.LogSearchCall(term, page, time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("search recipes: %w", err)
	}

	result := &Page{
		Term:     term,
		Recipes:  []recipe.Recipe{},
		Page:     page,
		PageSize: s.pageSize,
	}
	if res == nil {
		return result, nil
	}

	result.Count = res.Count
	result.TotalPages = TotalPages(res.Count, s.pageSize)
	result.Recipes, result.Skipped = normalizeHits(res.Hits)

	return result, nil
}

// GetRecipe 依 id 查詢單筆食譜，找不到時以名稱再搜尋一次
func (s *Service) GetRecipe(ctx context.Context, id, name string) (*recipe.Recipe, error) {
	if s.searcher == nil {
		return nil, common.ErrSearchNotConfigured
	}
	if id == "" {
		return nil, common.ErrRecipeNotFound
	}

	queries := []Query{{
		Term:       id,
		Mode:       ModeFullText,
		Limit:      s.pageSize,
		Properties: []string{"id"},
	}}
	if name != "" {
		queries = append(queries, Query{
			Term:  name,
			Mode:  ModeFullText,
			Limit: s.pageSize,
		})
	}

	for _, q := range queries {
		res, err := s.searcher.Search(ctx, q)
		if err != nil {
			return nil, fmt.Errorf("lookup recipe %s: %w", id, err)
		}
		if res == nil {
			continue
		}
		recipes, _ := normalizeHits(res.Hits)
		for i := range recipes {
			if recipes[i].ID == id {
				return &recipes[i], nil
			}
		}
	}

	return nil, common.ErrRecipeNotFound
}

// normalizeHits 略過 document 缺失或不是物件的結果
func normalizeHits(hits []Hit) ([]recipe.Recipe, int) {
	recipes := make([]recipe.Recipe, 0, len(hits))
	skipped := 0
	for _, hit := range hits {
		doc, ok := hit.Document.(map[string]any)
		if !ok {
			skipped++
			common.LogWarn("Skipping search hit without document",
				zap.String("hit_id", hit.ID),
				zap.String("document_type", fmt.Sprintf("%T", hit.Document)),
			)
			continue
		}
		recipes = append(recipes, recipe.NormalizeDocument(doc))
	}
	return recipes, skipped
}
