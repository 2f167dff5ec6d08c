package planner

import (
	"net/http"

	"recipe-finder/internal/api/handlers"
	plannerCore "recipe-finder/internal/core/planner"
	recipeCore "recipe-finder/internal/core/recipe"
	"recipe-finder/internal/pkg/common"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Handler 週計畫處理程序
type Handler struct {
	service *plannerCore.Service
	debug   bool
}

// NewHandler 創建週計畫處理程序
func NewHandler(service *plannerCore.Service, debug bool) *Handler {
	return &Handler{
		service: service,
		debug:   debug,
	}
}

// HandleWeek 取得本週計畫
func (h *Handler) HandleWeek(c *gin.Context) {
	week, err := h.service.Week(c.Request.Context())
	if err != nil {
		handlers.RespondError(c, err, h.debug)
		return
	}
	c.JSON(http.StatusOK, week)
}

// HandleAddMeal 將食譜放入指定日期與餐別
func (h *Handler) HandleAddMeal(c *gin.Context) {
	requestID := handlers.RequestID(c)

	slot, err := plannerCore.ParseMealType(c.Param("meal"))
	if err != nil {
		handlers.RespondError(c, err, h.debug)
		return
	}
	date, err := plannerCore.ParseDate(c.Param("date"))
	if err != nil {
		handlers.RespondError(c, err, h.debug)
		return
	}

	doc, err := common.DecodeObject(c.Request.Body)
	if err != nil {
		handlers.BadRequest(c, err, h.debug)
		return
	}
	r := recipeCore.NormalizeDocument(doc)

	day, err := h.service.AddMeal(c.Request.Context(), date, slot, r)
	if err != nil {
		handlers.RespondError(c, err, h.debug)
		return
	}

	common.LogDebug("Planner slot updated",
		zap.String("request_id", requestID),
		zap.String("date", date),
		zap.String("meal", string(slot)),
	)

	c.JSON(http.StatusOK, gin.H{
		"date":  date,
		"meals": day,
	})
}

// HandleRemoveMeal 清空指定日期與餐別
func (h *Handler) HandleRemoveMeal(c *gin.Context) {
	slot, err := plannerCore.ParseMealType(c.Param("meal"))
	if err != nil {
		handlers.RespondError(c, err, h.debug)
		return
	}

	removed, err := h.service.RemoveMeal(c.Request.Context(), c.Param("date"), slot)
	if err != nil {
		handlers.RespondError(c, err, h.debug)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"date":    c.Param("date"),
		"meal":    slot,
		"removed": removed,
	})
}
