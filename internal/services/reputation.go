package services

import (
	"fmt"

	"answerhub/internal/models"

	"gorm.io/gorm"
)

// 声望分值常量表，动作与分值一一对应
var reputationPoints = map[models.ReputationAction]int{
	models.ActionQuestionUpvoted:       5,
	models.ActionQuestionDownvoted:     -2,
	models.ActionAnswerUpvoted:         10,
	models.ActionAnswerDownvoted:       -2,
	models.ActionAnswerAccepted:        25,
	models.ActionAnswerPosted:          10,
	models.ActionDocumentationApproved: 15,
}

// PointsFor returns the signed delta for a reputation action.
func PointsFor(action models.ReputationAction) int {
	return reputationPoints[action]
}

type ReputationService struct {
	db *gorm.DB
}

func NewReputationService(db *gorm.DB) *ReputationService {
	return &ReputationService{db: db}
}

// Award 使用事务记录声望流水并更新用户声望余额，返回本次变动分值
func (s *ReputationService) Award(userID string, action models.ReputationAction, referenceID string) (int, error) {
	var points int
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var err error
		points, err = s.AwardTx(tx, userID, action, referenceID)
		return err
	})
	return points, err
}

// AwardTx 在已开启的事务内记账，供投票/采纳等多步操作复用同一事务
func (s *ReputationService) AwardTx(tx *gorm.DB, userID string, action models.ReputationAction, referenceID string) (int, error) {
	points := reputationPoints[action]

	// 1. 追加流水
	entry := models.ReputationLog{
		UserID: userID,
		Action: action,
		Points: points,
	}
	if referenceID != "" {
		entry.ReferenceID = &referenceID
	}
	if err := tx.Create(&entry).Error; err != nil {
		return 0, fmt.Errorf("record reputation log: %w", err)
	}

	// 2. 更新用户声望余额
	if err := tx.Model(&models.User{}).
		Where("id = ?", userID).
		UpdateColumn("reputation", gorm.Expr("reputation + ?", points)).
		Error; err != nil {
		return 0, fmt.Errorf("update reputation balance: %w", err)
	}

	return points, nil
}

// Recalculate 以流水之和为准重算并覆盖缓存的声望值（对账/修复用）
func (s *ReputationService) Recalculate(userID string) (int, error) {
	var total int
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.ReputationLog{}).
			Where("user_id = ?", userID).
			Select("COALESCE(SUM(points), 0)").
			Scan(&total).Error; err != nil {
			return fmt.Errorf("sum reputation logs: %w", err)
		}

		if err := tx.Model(&models.User{}).
			Where("id = ?", userID).
			Update("reputation", total).Error; err != nil {
			return fmt.Errorf("overwrite reputation balance: %w", err)
		}
		return nil
	})
	return total, err
}

// History 最近的声望流水，按时间倒序
func (s *ReputationService) History(userID string, limit int) ([]models.ReputationLog, error) {
	if limit <= 0 {
		limit = 50
	}
	var logs []models.ReputationLog
	err := s.db.Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Find(&logs).Error
	return logs, err
}
