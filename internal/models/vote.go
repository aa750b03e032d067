package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type VoteType string

const (
	VoteTypeUp   VoteType = "upvote"
	VoteTypeDown VoteType = "downvote"
)

// ValidVoteType reports whether t is upvote or downvote.
func ValidVoteType(t VoteType) bool {
	return t == VoteTypeUp || t == VoteTypeDown
}

// Vote 每个 (user, question) / (user, answer) 组合至多一条记录。
// 复合唯一索引在 NULL 列上互不冲突，PG 和 SQLite 行为一致。
type Vote struct {
	ID         string    `gorm:"type:uuid;primaryKey" json:"id"`
	UserID     string    `gorm:"type:uuid;not null;index;uniqueIndex:idx_vote_user_question;uniqueIndex:idx_vote_user_answer" json:"userId"`
	VoteType   VoteType  `gorm:"type:varchar(10);not null" json:"voteType"`
	QuestionID *string   `gorm:"type:uuid;uniqueIndex:idx_vote_user_question" json:"questionId"`
	AnswerID   *string   `gorm:"type:uuid;uniqueIndex:idx_vote_user_answer" json:"answerId"`
	CreatedAt  time.Time `json:"createdAt"`
}

func (v *Vote) BeforeCreate(tx *gorm.DB) error {
	if v.ID == "" {
		v.ID = uuid.NewString()
	}
	return nil
}
