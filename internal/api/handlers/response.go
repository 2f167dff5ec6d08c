package handlers

import (
	"errors"
	"net/http"

	"recipe-finder/internal/pkg/common"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RequestID 取得請求 ID，middleware 未設定時自行產生並寫回標頭
func RequestID(c *gin.Context) string {
	if id := requestid.Get(c); id != "" {
		return id
	}
	id := c.GetHeader("X-Request-ID")
	if id == "" {
		id = common.GenerateUUID()
		c.Header("X-Request-ID", id)
	}
	return id
}

// RespondError 將錯誤轉為統一的 JSON 響應
// debug 為 true 時附帶原始錯誤訊息
func RespondError(c *gin.Context, err error, debug bool) {
	ce := common.AsCustomError(err)

	var mbe *http.MaxBytesError
	if errors.As(err, &mbe) {
		ce = common.NewError(common.ErrCodeInvalidRequest, "請求體過大", http.StatusRequestEntityTooLarge, err)
	}

	fields := []zap.Field{
		zap.String("request_id", RequestID(c)),
		zap.String("code", ce.Code),
		zap.String("path", c.Request.URL.Path),
		zap.Error(err),
	}
	if ce.Status >= http.StatusInternalServerError {
		common.LogError("請求處理失敗", fields...)
	} else {
		common.LogWarn("請求處理失敗", fields...)
	}

	c.AbortWithStatusJSON(ce.Status, ce.Response(debug))
}

// BadRequest 以 INVALID_REQUEST 回應並附上原因
func BadRequest(c *gin.Context, err error, debug bool) {
	RespondError(c, common.ErrInvalidRequest.Wrap(err), debug)
}
