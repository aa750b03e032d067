package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"answerhub/internal/models"

	"gorm.io/gorm"
)

type CommentService struct {
	db *gorm.DB
}

func NewCommentService(db *gorm.DB) *CommentService {
	return &CommentService{db: db}
}

// ListForQuestion 返回问题下的评论树（根评论 + 逐层回复）
func (s *CommentService) ListForQuestion(questionID string) ([]*models.Comment, error) {
	flat, err := s.listFlat("question_id", questionID)
	if err != nil {
		return nil, err
	}
	return BuildCommentTree(flat), nil
}

// ListForAnswer 返回回答下的评论树
func (s *CommentService) ListForAnswer(answerID string) ([]*models.Comment, error) {
	flat, err := s.listFlat("answer_id", answerID)
	if err != nil {
		return nil, err
	}
	return BuildCommentTree(flat), nil
}

func (s *CommentService) listFlat(targetColumn, targetID string) ([]*models.Comment, error) {
	var comments []*models.Comment
	err := s.db.Preload("Author").
		Where(targetColumn+" = ? AND is_deleted = ?", targetID, false).
		Order("created_at ASC").
		Find(&comments).Error
	return comments, err
}

// BuildCommentTree 一趟线性扫描把平铺评论组装成树。
// 父评论不在同一批结果里（已删除或归属别处）的评论按根评论处理，
// 这是刻意的策略：软删父评论后回复仍然可见。
func BuildCommentTree(flat []*models.Comment) []*models.Comment {
	byID := make(map[string]*models.Comment, len(flat))
	for _, c := range flat {
		c.Replies = []*models.Comment{}
		byID[c.ID] = c
	}

	roots := make([]*models.Comment, 0, len(flat))
	for _, c := range flat {
		if c.ParentCommentID != nil {
			if parent, ok := byID[*c.ParentCommentID]; ok {
				parent.Replies = append(parent.Replies, c)
				continue
			}
		}
		roots = append(roots, c)
	}
	return roots
}

// CreateForQuestion 在问题下发表评论
func (s *CommentService) CreateForQuestion(auth AuthContext, questionID, body string, parentCommentID *string) (*models.Comment, error) {
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

	comment := models.Comment{
		Body:            body,
		AuthorID:        auth.UserID,
		QuestionID:      &question.ID,
		ParentCommentID: parentCommentID,
	}
	if err := s.db.Create(&comment).Error; err != nil {
		return nil, err
	}
	return &comment, nil
}

// CreateForAnswer 在回答下发表评论
func (s *CommentService) CreateForAnswer(auth AuthContext, answerID, body string, parentCommentID *string) (*models.Comment, error) {
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

	comment := models.Comment{
		Body:            body,
		AuthorID:        auth.UserID,
		AnswerID:        &answer.ID,
		ParentCommentID: parentCommentID,
	}
	if err := s.db.Create(&comment).Error; err != nil {
		return nil, err
	}
	return &comment, nil
}

// Update 仅作者可编辑
func (s *CommentService) Update(auth AuthContext, commentID, body string) (*models.Comment, error) {
	if strings.TrimSpace(body) == "" {
		return nil, fmt.Errorf("%w: body is required", ErrValidation)
	}

	var comment models.Comment
	if err := s.db.Where("id = ? AND is_deleted = ?", commentID, false).First(&comment).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("comment %w", ErrNotFound)
		}
		return nil, err
	}

	if comment.AuthorID != auth.UserID {
		return nil, fmt.Errorf("%w: only the author can edit this comment", ErrForbidden)
	}

	comment.Body = body
	if err := s.db.Model(&comment).Updates(map[string]interface{}{"body": body}).Error; err != nil {
		return nil, err
	}
	return &comment, nil
}

// Delete 仅作者可删，软删除
func (s *CommentService) Delete(auth AuthContext, commentID string) error {
	var comment models.Comment
	if err := s.db.Where("id = ? AND is_deleted = ?", commentID, false).First(&comment).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("comment %w", ErrNotFound)
		}
		return err
	}

	if comment.AuthorID != auth.UserID {
		return fmt.Errorf("%w: only the author can delete this comment", ErrForbidden)
	}

	now := time.Now()
	return s.db.Model(&comment).Updates(map[string]interface{}{
		"is_deleted": true,
		"deleted_at": &now,
	}).Error
}
