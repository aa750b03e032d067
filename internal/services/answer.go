package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"answerhub/internal/models"

	"gorm.io/gorm"
)

type AnswerService struct {
	db         *gorm.DB
	reputation *ReputationService
}

func NewAnswerService(db *gorm.DB) *AnswerService {
	return &AnswerService{db: db, reputation: NewReputationService(db)}
}

// ListForQuestion 回答列表：被采纳的置顶，其余按分数降序、同分按时间升序
func (s *AnswerService) ListForQuestion(questionID string) ([]models.Answer, error) {
	var answers []models.Answer
	err := s.db.Preload("Author").
		Where("question_id = ? AND is_deleted = ?", questionID, false).
		Order("is_accepted DESC, vote_score DESC, created_at ASC").
		Find(&answers).Error
	return answers, err
}

// Get 查询单个回答，软删的视同不存在
func (s *AnswerService) Get(id string) (*models.Answer, error) {
	var answer models.Answer
	err := s.db.Preload("Author").
		Where("id = ? AND is_deleted = ?", id, false).
		First(&answer).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("answer %w", ErrNotFound)
		}
		return nil, err
	}
	return &answer, nil
}

// Create 发表回答：插入回答、问题 answer_count +1、作者 answer_posted 奖励，
// 三步一个事务
func (s *AnswerService) Create(auth AuthContext, questionID, body string) (*models.Answer, error) {
	if strings.TrimSpace(body) == "" {
		return nil, fmt.Errorf("%w: body is required", ErrValidation)
	}

	var question models.Question
	if err := s.db.Where("id = ? AND is_deleted = ?", questionID, false).First(&question).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("question %w", ErrNotFound)
		}
		return nil, err
	}

	answer := models.Answer{
		QuestionID: questionID,
		AuthorID:   auth.UserID,
		Body:       body,
	}
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&answer).Error; err != nil {
			return err
		}

		if err := tx.Model(&models.Question{}).
			Where("id = ?", questionID).
			UpdateColumn("answer_count", gorm.Expr("answer_count + 1")).
			Error; err != nil {
			return err
		}

		_, err := s.reputation.AwardTx(tx, auth.UserID, models.ActionAnswerPosted, answer.ID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return &answer, nil
}

// Update 仅作者可编辑
func (s *AnswerService) Update(auth AuthContext, answerID, body string) (*models.Answer, error) {
	if strings.TrimSpace(body) == "" {
		return nil, fmt.Errorf("%w: body is required", ErrValidation)
	}

	var answer models.Answer
	if err := s.db.Where("id = ? AND is_deleted = ?", answerID, false).First(&answer).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("answer %w", ErrNotFound)
		}
		return nil, err
	}

	if answer.AuthorID != auth.UserID {
		return nil, fmt.Errorf("%w: only the author can edit this answer", ErrForbidden)
	}

	answer.Body = body
	if err := s.db.Model(&answer).Update("body", body).Error; err != nil {
		return nil, err
	}
	return &answer, nil
}

// Delete 仅作者可删，软删除并回减问题的 answer_count。
// 被采纳的回答删除后问题的 accepted_answer_id 一并清空。
func (s *AnswerService) Delete(auth AuthContext, answerID string) error {
	var answer models.Answer
	if err := s.db.Where("id = ? AND is_deleted = ?", answerID, false).First(&answer).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("answer %w", ErrNotFound)
		}
		return err
	}

	if answer.AuthorID != auth.UserID {
		return fmt.Errorf("%w: only the author can delete this answer", ErrForbidden)
	}

	now := time.Now()
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&answer).Updates(map[string]interface{}{
			"is_deleted": true,
			"deleted_at": &now,
		}).Error; err != nil {
			return err
		}

		if err := tx.Model(&models.Question{}).
			Where("id = ?", answer.QuestionID).
			UpdateColumn("answer_count", gorm.Expr("answer_count - 1")).
			Error; err != nil {
			return err
		}

		if answer.IsAccepted {
			if err := tx.Model(&models.Question{}).
				Where("id = ?", answer.QuestionID).
				Update("accepted_answer_id", nil).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// Accept 问题作者采纳回答：
// 先取消此前的采纳标记，再落新采纳，问题置为 solved，
// 回答作者得 answer_accepted 声望，整体一个事务。
// 一个问题同一时刻最多一个被采纳回答。
func (s *AnswerService) Accept(auth AuthContext, answerID string) (*models.Answer, error) {
	var answer models.Answer
	if err := s.db.Where("id = ? AND is_deleted = ?", answerID, false).First(&answer).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("answer %w", ErrNotFound)
		}
		return nil, err
	}

	var question models.Question
	if err := s.db.Where("id = ? AND is_deleted = ?", answer.QuestionID, false).First(&question).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("question %w", ErrNotFound)
		}
		return nil, err
	}

	if question.AuthorID != auth.UserID {
		return nil, fmt.Errorf("%w: only the question author can accept an answer", ErrForbidden)
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		// 取消同一问题下其它已采纳回答
		if err := tx.Model(&models.Answer{}).
			Where("question_id = ? AND is_accepted = ?", question.ID, true).
			Update("is_accepted", false).Error; err != nil {
			return err
		}

		if err := tx.Model(&models.Answer{}).
			Where("id = ?", answer.ID).
			Update("is_accepted", true).Error; err != nil {
			return err
		}

		if err := tx.Model(&models.Question{}).
			Where("id = ?", question.ID).
			Updates(map[string]interface{}{
				"accepted_answer_id": answer.ID,
				"status":             models.QuestionStatusSolved,
			}).Error; err != nil {
			return err
		}

		_, err := s.reputation.AwardTx(tx, answer.AuthorID, models.ActionAnswerAccepted, answer.ID)
		return err
	})
	if err != nil {
		return nil, err
	}

	answer.IsAccepted = true
	return &answer, nil
}
