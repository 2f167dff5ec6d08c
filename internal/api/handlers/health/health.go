package health

import (
	"context"
	"net/http"
	"runtime"
	"time"

	"recipe-finder/internal/infrastructure/config"
	"recipe-finder/internal/pkg/common"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// readyTimeout 就緒檢查中單一依賴的逾時
const readyTimeout = 2 * time.Second

// Pinger 可檢查連線的依賴
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthResponse 健康檢查響應
type HealthResponse struct {
	Status    string                 `json:"status"`
	Timestamp time.Time              `json:"timestamp"`
	Version   string                 `json:"version"`
	Runtime   map[string]interface{} `json:"runtime"`
}

// CheckResult 單一依賴的檢查結果
type CheckResult struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

// ReadinessResponse 就緒檢查響應
type ReadinessResponse struct {
	Status string                 `json:"status"`
	Checks map[string]CheckResult `json:"checks"`
}

// Handler 健康檢查處理器
type Handler struct {
	cfg     *config.Config
	planner Pinger
}

// NewHandler 創建健康檢查處理器
func NewHandler(cfg *config.Config, planner Pinger) *Handler {
	return &Handler{
		cfg:     cfg,
		planner: planner,
	}
}

// HealthCheck 健康檢查處理器
func (h *Handler) HealthCheck(c *gin.Context) {
	// 獲取運行時信息
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	response := HealthResponse{
		Status:    "ok",
		Timestamp: time.Now(),
		Version:   h.cfg.App.Version,
		Runtime: map[string]interface{}{
			"goroutines": runtime.NumGoroutine(),
			"memory": map[string]interface{}{
				"alloc":       m.Alloc,
				"total_alloc": m.TotalAlloc,
				"sys":         m.Sys,
				"num_gc":      m.NumGC,
			},
		},
	}

	common.LogDebug("Health check request",
		zap.String("client_ip", c.ClientIP()),
		zap.String("path", c.Request.URL.Path),
	)

	c.JSON(http.StatusOK, response)
}

// ReadinessCheck 就緒檢查處理器：週計畫儲存可連線且搜尋服務已設定
func (h *Handler) ReadinessCheck(c *gin.Context) {
	resp := ReadinessResponse{
		Status: "ready",
		Checks: map[string]CheckResult{},
	}

	planner := CheckResult{Status: "ok"}
	if h.planner == nil {
		planner = CheckResult{Status: "unavailable", Error: "planner store not configured"}
	} else {
		ctx, cancel := context.WithTimeout(c.Request.Context(), readyTimeout)
		err := h.planner.Ping(ctx)
		cancel()
		if err != nil {
			planner = CheckResult{Status: "unavailable", Error: err.Error()}
		}
	}
	resp.Checks["planner_store"] = planner

	searchCheck := CheckResult{Status: "ok"}
	if !h.cfg.SearchConfigured() {
		searchCheck = CheckResult{Status: "unavailable", Error: common.ErrSearchNotConfigured.Message}
	}
	resp.Checks["search"] = searchCheck

	status := http.StatusOK
	for name, check := range resp.Checks {
		if check.Status != "ok" {
			resp.Status = "not_ready"
			status = http.StatusServiceUnavailable
			common.LogWarn("Readiness check failed",
				zap.String("dependency", name),
				zap.String("error", check.Error),
			)
		}
	}

	c.JSON(status, resp)
}

// LivenessCheck 存活檢查處理器
func (h *Handler) LivenessCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "alive",
	})
}
