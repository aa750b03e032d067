package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Tag 名称统一存小写，保证大小写不敏感的唯一性
type Tag struct {
	ID          string    `gorm:"type:uuid;primaryKey" json:"id"`
	Name        string    `gorm:"uniqueIndex;not null" json:"name"`
	Description string    `json:"description"`
	UsageCount  int       `gorm:"not null;default:0" json:"usageCount"` // 挂到问题上时 +1，移除时不回减
	CreatedAt   time.Time `json:"createdAt"`
}

func (t *Tag) BeforeCreate(tx *gorm.DB) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	return nil
}

// QuestionTag 问题与标签的多对多关联表
type QuestionTag struct {
	QuestionID string `gorm:"type:uuid;primaryKey" json:"question_id"`
	TagID      string `gorm:"type:uuid;primaryKey" json:"tag_id"`
}
