package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"olist-chat-go/internal/service"
	"olist-chat-go/pkg/log"
)

// SessionHandler 处理会话记录查询请求。
type SessionHandler struct {
	sessionService service.SessionService
}

// NewSessionHandler 创建一个新的 SessionHandler。
func NewSessionHandler(sessionService service.SessionService) *SessionHandler {
	return &SessionHandler{sessionService: sessionService}
}

// GetSession 处理 GET /session/:session_id，返回完整会话记录；
// 会话不存在时返回 {"messages": []}。
func (h *SessionHandler) GetSession(c *gin.Context) {
	sessionID := c.Param("session_id")

	transcript, err := h.sessionService.GetTranscript(c.Request.Context(), sessionID)
	if err != nil {
		log.Error("获取会话记录失败", err)
		c.JSON(http.StatusInternalServerError, gin.H{"detail": err.Error()})
		return
	}
	c.JSON(http.StatusOK, transcript)
}
