package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Comment 挂在问题或回答上（二选一），ParentCommentID 支持楼中楼回复
type Comment struct {
	ID              string     `gorm:"type:uuid;primaryKey" json:"id"`
	Body            string     `gorm:"type:text;not null" json:"body"`
	AuthorID        string     `gorm:"type:uuid;not null;index" json:"authorId"`
	Author          *User      `gorm:"foreignKey:AuthorID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"author,omitempty"`
	QuestionID      *string    `gorm:"type:uuid;index" json:"questionId"`
	AnswerID        *string    `gorm:"type:uuid;index" json:"answerId"`
	ParentCommentID *string    `gorm:"type:uuid;index" json:"parentCommentId"`
	IsDeleted       bool       `gorm:"not null;default:false;index" json:"isDeleted"`
	DeletedAt       *time.Time `json:"deletedAt"`
	CreatedAt       time.Time  `json:"createdAt"`
	UpdatedAt       time.Time  `json:"updatedAt"`

	// 非数据库字段：树形结构组装时填充，不用数据库层面的自引用
	BodyHTML string     `gorm:"-" json:"bodyHtml,omitempty"`
	Replies  []*Comment `gorm:"-" json:"replies"`
}

func (c *Comment) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}
