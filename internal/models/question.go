package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type QuestionStatus string

const (
	QuestionStatusOpen       QuestionStatus = "open"
	QuestionStatusInReview   QuestionStatus = "in_review"
	QuestionStatusSolved     QuestionStatus = "solved"
	QuestionStatusDocumented QuestionStatus = "documented"
)

// ValidQuestionStatus reports whether s is one of the known statuses.
func ValidQuestionStatus(s QuestionStatus) bool {
	switch s {
	case QuestionStatusOpen, QuestionStatusInReview, QuestionStatusSolved, QuestionStatusDocumented:
		return true
	}
	return false
}

type Question struct {
	ID               string         `gorm:"type:uuid;primaryKey" json:"id"`
	Title            string         `gorm:"not null" json:"title"`
	Body             string         `gorm:"type:text;not null" json:"body"`
	AuthorID         string         `gorm:"type:uuid;not null;index" json:"authorId"`
	Author           *User          `gorm:"foreignKey:AuthorID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"author,omitempty"`
	DepartmentID     *string        `gorm:"type:uuid;index" json:"departmentId"`
	Department       *Department    `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"department,omitempty"`
	Status           QuestionStatus `gorm:"type:varchar(20);not null;default:'open'" json:"status"`
	AcceptedAnswerID *string        `gorm:"type:uuid" json:"acceptedAnswerId"`
	ViewCount        int            `gorm:"not null;default:0" json:"viewCount"`
	VoteScore        int            `gorm:"not null;default:0" json:"voteScore"` // 缓存的净票数，投票事务内同步更新
	AnswerCount      int            `gorm:"not null;default:0" json:"answerCount"`
	IsDeleted        bool           `gorm:"not null;default:false;index" json:"isDeleted"`
	DeletedAt        *time.Time     `json:"deletedAt"`
	Tags             []Tag          `gorm:"many2many:question_tags;" json:"tags"`
	CreatedAt        time.Time      `json:"createdAt"`
	UpdatedAt        time.Time      `json:"updatedAt"`

	// 非数据库字段，详情接口组装时填充
	BodyHTML string     `gorm:"-" json:"bodyHtml,omitempty"`
	Answers  []Answer   `gorm:"-" json:"answers,omitempty"`
	Comments []*Comment `gorm:"-" json:"comments,omitempty"`
}

func (q *Question) BeforeCreate(tx *gorm.DB) error {
	if q.ID == "" {
		q.ID = uuid.NewString()
	}
	return nil
}
