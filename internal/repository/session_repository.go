package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"olist-chat-go/internal/model"
)

// SessionTTL 是会话记录的过期时间，每次 append 时重置。
const SessionTTL = 24 * time.Hour

// SessionRepository 定义了会话消息记录的操作接口。
type SessionRepository interface {
	// GetTranscript 返回会话的完整消息记录；会话不存在时返回空记录，从不返回"缺失"。
	GetTranscript(ctx context.Context, sessionID string) (*model.SessionTranscript, error)
	// AppendMessage 读取-修改-写回完整记录并把 TTL 重置为 24 小时。
	// 同一会话的并发 append 之间不保证原子性，以最后写入者为准（单用户会话假设）。
	AppendMessage(ctx context.Context, sessionID, role, text string) error
}

type redisSessionRepository struct {
	redisClient *redis.Client
}

// NewSessionRepository 创建一个新的 SessionRepository 实例。
func NewSessionRepository(redisClient *redis.Client) SessionRepository {
	return &redisSessionRepository{redisClient: redisClient}
}

func sessionKey(sessionID string) string {
	return fmt.Sprintf("session:%s", sessionID)
}

// GetTranscript 从 Redis 获取会话消息记录。
func (r *redisSessionRepository) GetTranscript(ctx context.Context, sessionID string) (*model.SessionTranscript, error) {
	jsonData, err := r.redisClient.Get(ctx, sessionKey(sessionID)).Result()
	if err == redis.Nil {
		return &model.SessionTranscript{Messages: []model.ChatMessage{}}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get session transcript: %w", err)
	}
	var transcript model.SessionTranscript
	if err := json.Unmarshal([]byte(jsonData), &transcript); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session transcript: %w", err)
	}
	if transcript.Messages == nil {
		transcript.Messages = []model.ChatMessage{}
	}
	return &transcript, nil
}

// AppendMessage 将一条消息追加到会话记录末尾。
func (r *redisSessionRepository) AppendMessage(ctx context.Context, sessionID, role, text string) error {
	transcript, err := r.GetTranscript(ctx, sessionID)
	if err != nil {
		return err
	}
	transcript.Messages = append(transcript.Messages, model.ChatMessage{Role: role, Text: text})

	jsonData, err := json.Marshal(transcript)
	if err != nil {
		return fmt.Errorf("failed to marshal session transcript: %w", err)
	}
	if err := r.redisClient.Set(ctx, sessionKey(sessionID), jsonData, SessionTTL).Err(); err != nil {
		return fmt.Errorf("failed to set session transcript: %w", err)
	}
	return nil
}
