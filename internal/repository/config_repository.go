package repository

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Luizhcrs/orb/internal/model"
)

// configRepositoryImpl 配置数据访问
type configRepositoryImpl struct {
	db *gorm.DB
}

// NewConfigRepository 创建配置仓库
func NewConfigRepository(db *gorm.DB) ConfigRepository {
	return &configRepositoryImpl{db: db}
}

// GetSetting 获取键值配置，未找到时返回 gorm.ErrRecordNotFound
func (r *configRepositoryImpl) GetSetting(key string) (string, error) {
	var setting model.Setting
	if err := r.db.Where("key = ?", key).First(&setting).Error; err != nil {
		return "", err
	}
	return setting.Value, nil
}

// SetSetting 写入键值配置（upsert）
func (r *configRepositoryImpl) SetSetting(key, value string) error {
	setting := &model.Setting{Key: key, Value: value}
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(setting).Error
}

// GetAllSettings 获取全部键值配置
func (r *configRepositoryImpl) GetAllSettings() (map[string]string, error) {
	var settings []model.Setting
	if err := r.db.Find(&settings).Error; err != nil {
		return nil, err
	}
	result := make(map[string]string, len(settings))
	for _, s := range settings {
		result[s.Key] = s.Value
	}
	return result, nil
}

// SaveLLMConfig 保存 LLM 配置：停用旧记录后追加新的激活记录
func (r *configRepositoryImpl) SaveLLMConfig(cfg *model.LLMConfig) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&model.LLMConfig{}).Where("is_active = ?", true).
			Update("is_active", false).Error; err != nil {
			return err
		}
		cfg.IsActive = true
		return tx.Create(cfg).Error
	})
}

// GetActiveLLMConfig 获取当前激活的 LLM 配置
// 按 id 降序取最近一条，未配置时返回 gorm.ErrRecordNotFound
func (r *configRepositoryImpl) GetActiveLLMConfig() (*model.LLMConfig, error) {
	var cfg model.LLMConfig
	err := r.db.Where("is_active = ?", true).Order("id DESC").First(&cfg).Error
	if err != nil {
		return nil, err
	}
	return &cfg, nil
}
