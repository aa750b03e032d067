package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ReputationAction string

const (
	ActionQuestionUpvoted       ReputationAction = "question_upvoted"
	ActionQuestionDownvoted     ReputationAction = "question_downvoted"
	ActionAnswerUpvoted         ReputationAction = "answer_upvoted"
	ActionAnswerDownvoted       ReputationAction = "answer_downvoted"
	ActionAnswerAccepted        ReputationAction = "answer_accepted"
	ActionAnswerPosted          ReputationAction = "answer_posted"
	ActionDocumentationApproved ReputationAction = "documentation_approved"
)

// ReputationLog 声望流水，只追加不修改
type ReputationLog struct {
	ID          string           `gorm:"type:uuid;primaryKey" json:"id"`
	UserID      string           `gorm:"type:uuid;not null;index" json:"userId"`
	Action      ReputationAction `gorm:"type:varchar(40);not null" json:"action"`
	Points      int              `gorm:"not null" json:"points"` // 正数为增加，负数为扣除
	ReferenceID *string          `gorm:"type:uuid" json:"referenceId"`
	CreatedAt   time.Time        `json:"createdAt"`
}

func (l *ReputationLog) BeforeCreate(tx *gorm.DB) error {
	if l.ID == "" {
		l.ID = uuid.NewString()
	}
	return nil
}
