package search

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
	"time"

	"recipe-finder/internal/infrastructure/config"
	"recipe-finder/internal/pkg/common"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

// ModeFullText Orama 全文搜尋模式
const ModeFullText = "fulltext"

// Query Orama 搜尋參數
type Query struct {
	Term       string         `json:"term"`
	Mode       string         `json:"mode,omitempty"`
	Limit      int            `json:"limit,omitempty"`
	Offset     int            `json:"offset,omitempty"`
	Properties []string       `json:"properties,omitempty"`
	Where      map[string]any `json:"where,omitempty"`
}

// Hit 單筆搜尋結果，document 保留原始結構交給正規化處理
type Hit struct {
	ID       string  `json:"id"`
	Score    float64 `json:"score"`
	Document any     `json:"document"`
}

// Results Orama 搜尋回應
type Results struct {
	Count   int   `json:"count"`
	Hits    []Hit `json:"hits"`
	Elapsed struct {
		Raw       int64  `json:"raw"`
		Formatted string `json:"formatted"`
	} `json:"elapsed"`
}

// Searcher 全文搜尋介面
type Searcher interface {
	Search(ctx context.Context, q Query) (*Results, error)
}

// Client Orama Cloud 客戶端
type Client struct {
	client *resty.Client
	apiKey string
}

// NewClient 創建 Orama Cloud 客戶端
func NewClient(cfg config.SearchConfig) *Client {
	client := resty.New().
		SetBaseURL(strings.TrimRight(cfg.Endpoint, "/")).
		SetTimeout(cfg.Timeout).
		SetHeader("Accept", "application/json")

	return &Client{
		client: client,
		apiKey: cfg.APIKey,
	}
}

// Search 執行搜尋，query 以 form 欄位 q 傳送 JSON
func (c *Client) Search(ctx context.Context, q Query) (*Results, error) {
	if q.Mode == "" {
		q.Mode = ModeFullText
	}

	body, err := json.Marshal(q)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal query: %w", err)
	}

	start := time.Now()
	resp, err := c.client.R().
		SetContext(ctx).
		SetQueryParam("api-key", c.apiKey).
		SetHeader("Content-Type", "application/x-www-form-urlencoded").
		SetBody(url.Values{"q": {string(body)}}.Encode()).
		Post("/search")
	if err != nil {
		common.LogError("Failed to send request to search service",
			zap.Error(err),
			zap.String("term", q.Term),
		)
		return nil, common.ErrSearchUnavailable.Wrap(fmt.Errorf("failed to send request: %w", err))
	}

	if resp.IsError() {
		common.LogError("Search service returned error status",
			zap.Int("status_code", resp.StatusCode()),
			zap.String("term", q.Term),
			zap.String("response", common.Truncate(resp.String(), 200)),
		)
		return nil, common.ErrSearchUnavailable.Wrap(fmt.Errorf("search service error (status %d)", resp.StatusCode()))
	}

	var results Results
	if err := common.ParseJSONBytes(resp.Body(), &results); err != nil {
		common.LogError("Failed to parse search service response",
			zap.Error(err),
			zap.String("term", q.Term),
		)
		return nil, common.ErrSearchUnavailable.Wrap(fmt.Errorf("failed to parse response: %w", err))
	}

	common.LogDebug("Search service responded",
		zap.String("term", q.Term),
		zap.Int("count", results.Count),
		zap.Int("hits", len(results.Hits)),
		zap.Duration("latency", time.Since(start)),
	)

	return &results, nil
}
