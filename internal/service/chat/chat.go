// Package chat 提供会话历史管理
package chat

import (
	"context"
	"fmt"

	"github.com/Luizhcrs/orb/internal/model"
	"github.com/Luizhcrs/orb/internal/repository"
	"github.com/Luizhcrs/orb/internal/service/memory"
)

// 默认返回的会话数上限
const defaultSessionLimit = 50

// MessageView 对外的消息视图，附加数据展开为显式字段
type MessageView struct {
	ID        string `json:"id"`
	SessionID string `json:"session_id"`
	Role      string `json:"role"`
	Content   string `json:"content"`
	HasImage  bool   `json:"has_image"`
	ToolUsed  string `json:"tool_used,omitempty"`
	CreatedAt string `json:"created_at"`
}

// SessionDetail 会话元数据及其消息
type SessionDetail struct {
	Session  *model.ChatSession `json:"session"`
	Messages []MessageView      `json:"messages"`
}

// Stats 历史统计
type Stats struct {
	TotalSessions int64 `json:"total_sessions"`
	TotalMessages int64 `json:"total_messages"`
}

// Service 会话历史服务
type Service struct {
	chatRepo repository.ChatRepository
	cache    *memory.Cache
}

// NewService 创建会话历史服务
func NewService(chatRepo repository.ChatRepository, cache *memory.Cache) *Service {
	return &Service{chatRepo: chatRepo, cache: cache}
}

// ListSessions 列出会话（最近更新优先）
func (s *Service) ListSessions(limit int) ([]*model.ChatSession, error) {
	if limit <= 0 || limit > defaultSessionLimit {
		limit = defaultSessionLimit
	}
	sessions, err := s.chatRepo.ListSessions(limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}
	return sessions, nil
}

// GetSession 获取会话元数据，不存在时返回 (nil, nil)
func (s *Service) GetSession(id string) (*model.ChatSession, error) {
	return s.chatRepo.GetSessionInfo(id)
}

// GetMessages 获取会话消息，limit <= 0 返回全部
func (s *Service) GetMessages(sessionID string, limit int) ([]MessageView, error) {
	messages, err := s.chatRepo.GetMessages(sessionID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to load messages: %w", err)
	}
	views := make([]MessageView, len(messages))
	for i, m := range messages {
		extra := m.Extra()
		views[i] = MessageView{
			ID:        m.ID,
			SessionID: m.SessionID,
			Role:      m.Role,
			Content:   m.Content,
			HasImage:  extra.ImageData != "",
			ToolUsed:  extra.ToolUsed,
			CreatedAt: m.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
		}
	}
	return views, nil
}

// GetSessionDetail 获取会话及其全部消息，不存在时返回 (nil, nil)
func (s *Service) GetSessionDetail(sessionID string) (*SessionDetail, error) {
	session, err := s.chatRepo.GetSessionInfo(sessionID)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, nil
	}
	messages, err := s.GetMessages(sessionID, 0)
	if err != nil {
		return nil, err
	}
	return &SessionDetail{Session: session, Messages: messages}, nil
}

// DeleteSession 删除会话及其消息，并清除进程内缓存
func (s *Service) DeleteSession(ctx context.Context, sessionID string) error {
	if err := s.chatRepo.DeleteSession(sessionID); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	s.cache.Clear(ctx, sessionID)
	return nil
}

// ClearSession 清空会话消息，保留会话本身
func (s *Service) ClearSession(ctx context.Context, sessionID string) error {
	if err := s.chatRepo.ClearSession(sessionID); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	s.cache.Clear(ctx, sessionID)
	return nil
}

// GetStats 历史统计
func (s *Service) GetStats() (*Stats, error) {
	sessions, err := s.chatRepo.CountSessions()
	if err != nil {
		return nil, fmt.Errorf("failed to count sessions: %w", err)
	}
	messages, err := s.chatRepo.CountMessages()
	if err != nil {
		return nil, fmt.Errorf("failed to count messages: %w", err)
	}
	return &Stats{TotalSessions: sessions, TotalMessages: messages}, nil
}
