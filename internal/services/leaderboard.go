package services

import (
	"errors"
	"fmt"

	"answerhub/internal/models"

	"gorm.io/gorm"
)

// LeaderboardEntry 榜单一行：名次 + 用户 + 答题统计
type LeaderboardEntry struct {
	Rank            int         `json:"rank"`
	User            models.User `json:"user"`
	Reputation      int         `json:"reputation"`
	AnswerCount     int64       `json:"answerCount"`
	AcceptedAnswers int64       `json:"acceptedAnswers"`
}

type LeaderboardService struct {
	db *gorm.DB
}

func NewLeaderboardService(db *gorm.DB) *LeaderboardService {
	return &LeaderboardService{db: db}
}

// Top 全组织声望榜，声望降序、同分按注册时间先来者在前
func (s *LeaderboardService) Top(limit int) ([]LeaderboardEntry, error) {
	return s.top(limit, "")
}

// TopByDepartment 部门内声望榜，部门不存在时报 ErrNotFound
func (s *LeaderboardService) TopByDepartment(departmentID string, limit int) ([]LeaderboardEntry, error) {
	var dept models.Department
	if err := s.db.Where("id = ?", departmentID).First(&dept).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("department %w", ErrNotFound)
		}
		return nil, err
	}
	return s.top(limit, departmentID)
}

func (s *LeaderboardService) top(limit int, departmentID string) ([]LeaderboardEntry, error) {
	if limit < 1 || limit > 100 {
		limit = 10
	}

	query := s.db.Preload("Department").Where("is_active = ?", true)
	if departmentID != "" {
		query = query.Where("department_id = ?", departmentID)
	}

	var users []models.User
	err := query.Order("reputation DESC, created_at ASC").Limit(limit).Find(&users).Error
	if err != nil {
		return nil, err
	}

	entries := make([]LeaderboardEntry, 0, len(users))
	if len(users) == 0 {
		return entries, nil
	}

	userIDs := make([]string, 0, len(users))
	for _, u := range users {
		userIDs = append(userIDs, u.ID)
	}

	answerCounts, err := s.countAnswers(userIDs, false)
	if err != nil {
		return nil, err
	}
	acceptedCounts, err := s.countAnswers(userIDs, true)
	if err != nil {
		return nil, err
	}

	for i, u := range users {
		entries = append(entries, LeaderboardEntry{
			Rank:            i + 1,
			User:            u,
			Reputation:      u.Reputation,
			AnswerCount:     answerCounts[u.ID],
			AcceptedAnswers: acceptedCounts[u.ID],
		})
	}
	return entries, nil
}

// countAnswers 一条 GROUP BY 批量拿回每个作者的回答数，避免 N+1
func (s *LeaderboardService) countAnswers(userIDs []string, acceptedOnly bool) (map[string]int64, error) {
	type row struct {
		AuthorID string
		Cnt      int64
	}

	query := s.db.Model(&models.Answer{}).
		Select("author_id, COUNT(*) AS cnt").
		Where("author_id IN ? AND is_deleted = ?", userIDs, false)
	if acceptedOnly {
		query = query.Where("is_accepted = ?", true)
	}

	var rows []row
	if err := query.Group("author_id").Scan(&rows).Error; err != nil {
		return nil, err
	}

	counts := make(map[string]int64, len(rows))
	for _, r := range rows {
		counts[r.AuthorID] = r.Cnt
	}
	return counts, nil
}
