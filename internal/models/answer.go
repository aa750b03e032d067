package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Answer struct {
	ID         string     `gorm:"type:uuid;primaryKey" json:"id"`
	QuestionID string     `gorm:"type:uuid;not null;index" json:"questionId"`
	AuthorID   string     `gorm:"type:uuid;not null;index" json:"authorId"`
	Author     *User      `gorm:"foreignKey:AuthorID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"author,omitempty"`
	Body       string     `gorm:"type:text;not null" json:"body"`
	VoteScore  int        `gorm:"not null;default:0" json:"voteScore"`
	IsAccepted bool       `gorm:"not null;default:false" json:"isAccepted"` // 每个问题至多一个 true，由采纳操作保证
	IsDeleted  bool       `gorm:"not null;default:false;index" json:"isDeleted"`
	DeletedAt  *time.Time `json:"deletedAt"`
	CreatedAt  time.Time  `json:"createdAt"`
	UpdatedAt  time.Time  `json:"updatedAt"`

	// 非数据库字段
	BodyHTML string     `gorm:"-" json:"bodyHtml,omitempty"`
	Comments []*Comment `gorm:"-" json:"comments,omitempty"`
}

func (a *Answer) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	return nil
}
