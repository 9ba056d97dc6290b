// Package handler 包含了处理 HTTP 请求的控制器逻辑。
package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"olist-chat-go/internal/service"
	"olist-chat-go/pkg/log"
)

// ChatHandler 处理问答请求。
type ChatHandler struct {
	chatService service.ChatService
}

// NewChatHandler 创建一个新的 ChatHandler。
func NewChatHandler(chatService service.ChatService) *ChatHandler {
	return &ChatHandler{chatService: chatService}
}

// ChatRequest 是 /chat 的请求体。
// Question 不加 required：空问题照常进入流水线的分类阶段。
type ChatRequest struct {
	SessionID string `json:"session_id" binding:"required"`
	Question  string `json:"question"`
}

// Chat 处理 POST /chat。
// 错误映射：合成失败 → 500 "LLM error: ..."；校验/执行失败 → 400
// "SQL execution error: ..."；存储不可达 → 500。
func (h *ChatHandler) Chat(c *gin.Context) {
	var req ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "invalid request body: " + err.Error()})
		return
	}

	resp, err := h.chatService.Ask(c.Request.Context(), req.SessionID, req.Question)
	if err != nil {
		h.writeChatError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// writeChatError 按错误分类映射 HTTP 状态码与消息。
func (h *ChatHandler) writeChatError(c *gin.Context, err error) {
	var synthErr *service.SynthesisError
	if errors.As(err, &synthErr) {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "LLM error: " + synthErr.Err.Error()})
		return
	}

	var guardErr *service.GuardRejection
	if errors.As(err, &guardErr) {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "SQL execution error: " + guardErr.Error()})
		return
	}

	var execErr *service.ExecutionError
	if errors.As(err, &execErr) {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "SQL execution error: " + execErr.Error()})
		return
	}

	var storeErr *service.StoreUnavailable
	if errors.As(err, &storeErr) {
		log.Error("存储不可达，请求中止", storeErr.Err)
		c.JSON(http.StatusInternalServerError, gin.H{"detail": storeErr.Error()})
		return
	}

	log.Error("处理问答请求失败", err)
	c.JSON(http.StatusInternalServerError, gin.H{"detail": err.Error()})
}
