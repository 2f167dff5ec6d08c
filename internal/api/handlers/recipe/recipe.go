package recipe

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"recipe-finder/internal/api/handlers"
	recipeCore "recipe-finder/internal/core/recipe"
	"recipe-finder/internal/core/search"
	"recipe-finder/internal/pkg/common"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RecipeFinder 食譜查詢介面
type RecipeFinder interface {
	Search(ctx context.Context, term string, page int) (*search.Page, error)
	GetRecipe(ctx context.Context, id, name string) (*recipeCore.Recipe, error)
}

// DebugResponse 除錯端點回應
type DebugResponse struct {
	Recipe recipeCore.Recipe      `json:"recipe"`
	Report recipeCore.DebugReport `json:"report"`
}

// Handler 食譜處理程序
type Handler struct {
	finder RecipeFinder
	debug  bool
}

// NewHandler 創建新的食譜處理程序
func NewHandler(finder RecipeFinder, debug bool) *Handler {
	return &Handler{
		finder: finder,
		debug:  debug,
	}
}

// HandleSearch 全文搜尋食譜
func (h *Handler) HandleSearch(c *gin.Context) {
	requestID := handlers.RequestID(c)
	term := strings.TrimSpace(c.Query("q"))
	// 小於 1 的頁碼交給服務層修正為第 1 頁
	page := 1
	if raw := c.Query("page"); raw != "" {
		p, err := strconv.Atoi(strings.TrimSpace(raw))
		if err != nil {
			handlers.BadRequest(c, err, h.debug)
			return
		}
		page = p
	}

	common.LogInfo("開始處理食譜搜尋請求",
		zap.String("request_id", requestID),
		zap.String("term", term),
		zap.Int("page", page),
	)

	result, err := h.finder.Search(c.Request.Context(), term, page)
	if err != nil {
		handlers.RespondError(c, err, h.debug)
		return
	}

	c.JSON(http.StatusOK, result)
}

// HandleGetRecipe 依 id 取得單筆食譜
func (h *Handler) HandleGetRecipe(c *gin.Context) {
	requestID := handlers.RequestID(c)
	id := c.Param("id")
	name := strings.TrimSpace(c.Query("name"))

	common.LogInfo("開始處理食譜查詢請求",
		zap.String("request_id", requestID),
		zap.String("recipe_id", id),
	)

	r, err := h.finder.GetRecipe(c.Request.Context(), id, name)
	if err != nil {
		handlers.RespondError(c, err, h.debug)
		return
	}

	c.JSON(http.StatusOK, r)
}

// HandleNormalize 正規化任意原始文件
func (h *Handler) HandleNormalize(c *gin.Context) {
	doc, err := common.DecodeObject(c.Request.Body)
	if err != nil {
		handlers.BadRequest(c, err, h.debug)
		return
	}

	c.JSON(http.StatusOK, recipeCore.NormalizeDocument(doc))
}

// HandleDebug 正規化並回傳解讀報告，同時寫入日誌
func (h *Handler) HandleDebug(c *gin.Context) {
	doc, err := common.DecodeObject(c.Request.Body)
	if err != nil {
		handlers.BadRequest(c, err, h.debug)
		return
	}

	sanitized := recipeCore.Debug(recipeCore.NewRawRecipe(doc))
	c.JSON(http.StatusOK, DebugResponse{
		Recipe: sanitized,
		Report: recipeCore.NewDebugReport(sanitized),
	})
}
