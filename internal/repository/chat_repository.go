package repository

import (
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Luizhcrs/orb/internal/model"
)

// chatRepositoryImpl 会话数据访问
type chatRepositoryImpl struct {
	db *gorm.DB
}

// NewChatRepository 创建会话仓库
func NewChatRepository(db *gorm.DB) ChatRepository {
	return &chatRepositoryImpl{db: db}
}

// CreateSession 创建会话（幂等：已存在时为 no-op）
func (r *chatRepositoryImpl) CreateSession(session *model.ChatSession) error {
	return r.db.Clauses(clause.OnConflict{DoNothing: true}).Create(session).Error
}

// GetSessionInfo 获取会话信息，不存在时返回 (nil, nil)
func (r *chatRepositoryImpl) GetSessionInfo(id string) (*model.ChatSession, error) {
	var session model.ChatSession
	err := r.db.Where("id = ?", id).First(&session).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &session, nil
}

// ListSessions 列出会话（最近更新优先）
func (r *chatRepositoryImpl) ListSessions(limit int) ([]*model.ChatSession, error) {
	var sessions []*model.ChatSession
	err := r.db.Order("updated_at DESC").Limit(limit).Find(&sessions).Error
	return sessions, err
}

// SetTitle 更新会话标题
func (r *chatRepositoryImpl) SetTitle(id, title string) error {
	return r.db.Model(&model.ChatSession{}).Where("id = ?", id).
		Update("title", title).Error
}

// DeleteSession 删除会话及其所有消息
func (r *chatRepositoryImpl) DeleteSession(id string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&model.ChatMessage{}, "session_id = ?", id).Error; err != nil {
			return err
		}
		return tx.Delete(&model.ChatSession{}, "id = ?", id).Error
	})
}

// ClearSession 清空会话消息（保留会话，计数归零）
func (r *chatRepositoryImpl) ClearSession(id string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&model.ChatMessage{}, "session_id = ?", id).Error; err != nil {
			return err
		}
		return tx.Model(&model.ChatSession{}).Where("id = ?", id).
			Update("message_count", 0).Error
	})
}

// AppendMessage 追加消息并维护会话计数与更新时间
func (r *chatRepositoryImpl) AppendMessage(msg *model.ChatMessage) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(msg).Error; err != nil {
			return err
		}
		return tx.Model(&model.ChatSession{}).Where("id = ?", msg.SessionID).
			Updates(map[string]interface{}{
				"message_count": gorm.Expr("message_count + 1"),
				"updated_at":    time.Now().Local(),
			}).Error
	})
}

// GetMessages 获取会话消息（时间升序），limit <= 0 时返回全部
func (r *chatRepositoryImpl) GetMessages(sessionID string, limit int) ([]*model.ChatMessage, error) {
	if limit > 0 {
		return r.GetRecentMessages(sessionID, limit)
	}
	var messages []*model.ChatMessage
	err := r.db.Where("session_id = ?", sessionID).
		Order("created_at ASC, id ASC").
		Find(&messages).Error
	return messages, err
}

// CountSessions 会话总数
func (r *chatRepositoryImpl) CountSessions() (int64, error) {
	var count int64
	err := r.db.Model(&model.ChatSession{}).Count(&count).Error
	return count, err
}

// CountMessages 消息总数
func (r *chatRepositoryImpl) CountMessages() (int64, error) {
	var count int64
	err := r.db.Model(&model.ChatMessage{}).Count(&count).Error
	return count, err
}

// GetRecentMessages 获取会话最近的 N 条消息
// 按时间降序取 N 条后反转，返回结果仍为时间升序
func (r *chatRepositoryImpl) GetRecentMessages(sessionID string, limit int) ([]*model.ChatMessage, error) {
	var messages []*model.ChatMessage
	err := r.db.Where("session_id = ?", sessionID).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Find(&messages).Error
	if err != nil {
		return nil, err
	}
	for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
		messages[i], messages[j] = messages[j], messages[i]
	}
	return messages, nil
}
