package service

import (
	"context"

	"olist-chat-go/internal/model"
	"olist-chat-go/internal/repository"
)

// SessionService 定义了会话记录查询的接口。
type SessionService interface {
	GetTranscript(ctx context.Context, sessionID string) (*model.SessionTranscript, error)
}

type sessionService struct {
	repo repository.SessionRepository
}

// NewSessionService 创建一个新的 SessionService。
func NewSessionService(repo repository.SessionRepository) SessionService {
	return &sessionService{repo: repo}
}

// GetTranscript 获取会话的完整消息记录，不存在时返回空记录。
func (s *sessionService) GetTranscript(ctx context.Context, sessionID string) (*model.SessionTranscript, error) {
	transcript, err := s.repo.GetTranscript(ctx, sessionID)
	if err != nil {
		return nil, &StoreUnavailable{Err: err}
	}
	return transcript, nil
}
