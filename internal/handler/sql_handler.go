package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"olist-chat-go/internal/service"
)

// runSQLSampleLimit 是 /run_sql 返回样本行的上限。
const runSQLSampleLimit = 200

// SQLHandler 处理直接执行 SQL 的请求，绕过缓存、会话与合成。
type SQLHandler struct {
	sqlService service.SQLService
}

// NewSQLHandler 创建一个新的 SQLHandler。
func NewSQLHandler(sqlService service.SQLService) *SQLHandler {
	return &SQLHandler{sqlService: sqlService}
}

// RunSQLRequest 是 /run_sql 的请求体。
type RunSQLRequest struct {
	SQL string `json:"sql" binding:"required"`
}

// RunSQLResponse 是 /run_sql 的响应体。
type RunSQLResponse struct {
	SQL      string           `json:"sql"`
	RowCount int              `json:"row_count"`
	Sample   []map[string]any `json:"sample"`
	Columns  []string         `json:"columns"`
}

// RunSQL 处理 POST /run_sql：校验并执行单条只读查询。
// 任何校验/执行失败 → 400，透传原始错误消息。
func (h *SQLHandler) RunSQL(c *gin.Context) {
	var req RunSQLRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "invalid request body: " + err.Error()})
		return
	}

	sqlText := strings.TrimSpace(req.SQL)
	result, err := h.sqlService.Run(c.Request.Context(), sqlText)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}

	c.JSON(http.StatusOK, RunSQLResponse{
		SQL:      sqlText,
		RowCount: result.RowCount(),
		Sample:   result.Sample(runSQLSampleLimit),
		Columns:  result.Columns,
	})
}
