package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"olist-chat-go/internal/model"
	"olist-chat-go/internal/service"
	"olist-chat-go/pkg/log"
)

// stubChatService 返回预置的响应或错误。
type stubChatService struct {
	resp *model.ChatResponse
	err  error
}

func (s *stubChatService) Ask(_ context.Context, _, _ string) (*model.ChatResponse, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.resp, nil
}

func setupChatRouter(svc service.ChatService) *gin.Engine {
	log.Init("error", "console", "")
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/chat", NewChatHandler(svc).Chat)
	return r
}

func postJSON(t *testing.T, r *gin.Engine, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	payload, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("failed to marshal request body: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	return resp
}

func TestChatSuccess(t *testing.T) {
	r := setupChatRouter(&stubChatService{resp: &model.ChatResponse{
		Type:       model.ResponseTypeChitchat,
		AnswerText: "hello there",
		CacheHit:   true,
	}})

	resp := postJSON(t, r, "/chat", map[string]string{"session_id": "s1", "question": "hello"})
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.Code, resp.Body.String())
	}

	var body map[string]any
	if err := json.Unmarshal(resp.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid response json: %v", err)
	}
	if body["type"] != "chitchat" || body["answer_text"] != "hello there" {
		t.Fatalf("unexpected body: %v", body)
	}
	if body["cache_hit"] != true {
		t.Fatalf("cache_hit marker missing or wrong: %v", body["cache_hit"])
	}
}

func TestChatSynthesisErrorMapsTo500(t *testing.T) {
	r := setupChatRouter(&stubChatService{err: &service.SynthesisError{Err: errors.New("model timed out")}})

	resp := postJSON(t, r, "/chat", map[string]string{"session_id": "s1", "question": "anything"})
	if resp.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", resp.Code)
	}
	if !strings.Contains(resp.Body.String(), "LLM error: model timed out") {
		t.Fatalf("unexpected error body: %s", resp.Body.String())
	}
}

func TestChatGuardRejectionMapsTo400(t *testing.T) {
	r := setupChatRouter(&stubChatService{err: &service.GuardRejection{
		SQL:     "DROP TABLE orders",
		Message: service.GuardRejectionMessage,
	}})

	resp := postJSON(t, r, "/chat", map[string]string{"session_id": "s1", "question": "drop it"})
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.Code)
	}
	if !strings.Contains(resp.Body.String(), "SQL execution error: Only single SELECT queries are allowed") {
		t.Fatalf("unexpected error body: %s", resp.Body.String())
	}
}

func TestChatExecutionErrorMapsTo400(t *testing.T) {
	r := setupChatRouter(&stubChatService{err: &service.ExecutionError{Err: errors.New("Catalog Error: Table with name foo does not exist")}})

	resp := postJSON(t, r, "/chat", map[string]string{"session_id": "s1", "question": "query foo"})
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.Code)
	}
	if !strings.Contains(resp.Body.String(), "SQL execution error: Catalog Error") {
		t.Fatalf("unexpected error body: %s", resp.Body.String())
	}
}

func TestChatStoreUnavailableMapsTo500(t *testing.T) {
	r := setupChatRouter(&stubChatService{err: &service.StoreUnavailable{Err: errors.New("connection refused")}})

	resp := postJSON(t, r, "/chat", map[string]string{"session_id": "s1", "question": "hello"})
	if resp.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", resp.Code)
	}
}

func TestChatRejectsInvalidBody(t *testing.T) {
	r := setupChatRouter(&stubChatService{resp: &model.ChatResponse{}})

	resp := postJSON(t, r, "/chat", map[string]string{"question": "no session id"})
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for missing session_id, got %d", resp.Code)
	}
}
