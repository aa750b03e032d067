package services

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"answerhub/internal/models"

	"gorm.io/gorm"
)

type QuestionFilters struct {
	DepartmentID string
	Status       models.QuestionStatus
	TagID        string
	AuthorID     string
	Search       string
}

type Pagination struct {
	Page  int
	Limit int
}

type PageInfo struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"totalPages"`
}

type QuestionPage struct {
	Data       []models.Question `json:"data"`
	Pagination PageInfo          `json:"pagination"`
}

type CreateQuestionInput struct {
	Title        string
	Body         string
	DepartmentID string
	TagIDs       []string
}

type UpdateQuestionInput struct {
	Title        *string
	Body         *string
	DepartmentID *string
	TagIDs       []string // nil 表示不动标签
}

type SimilarQuestion struct {
	ID         string  `json:"id"`
	Title      string  `json:"title"`
	Similarity float64 `json:"similarity"`
}

type QuestionService struct {
	db         *gorm.DB
	reputation *ReputationService
}

func NewQuestionService(db *gorm.DB) *QuestionService {
	return &QuestionService{db: db, reputation: NewReputationService(db)}
}

// List 按过滤条件分页查询，最新的在前
func (s *QuestionService) List(filters QuestionFilters, p Pagination) (*QuestionPage, error) {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.Limit < 1 || p.Limit > 100 {
		p.Limit = 20
	}

	query := s.db.Model(&models.Question{}).Where("is_deleted = ?", false)

	if filters.DepartmentID != "" {
		query = query.Where("department_id = ?", filters.DepartmentID)
	}
	if filters.Status != "" {
		if !models.ValidQuestionStatus(filters.Status) {
			return nil, fmt.Errorf("%w: invalid status %q", ErrValidation, filters.Status)
		}
		query = query.Where("status = ?", filters.Status)
	}
	if filters.AuthorID != "" {
		query = query.Where("author_id = ?", filters.AuthorID)
	}
	if filters.TagID != "" {
		query = query.Where("EXISTS (SELECT 1 FROM question_tags qt WHERE qt.question_id = questions.id AND qt.tag_id = ?)", filters.TagID)
	}
	if filters.Search != "" {
		// LOWER + LIKE 在 PG 和 SQLite 下行为一致
		pattern := "%" + strings.ToLower(filters.Search) + "%"
		query = query.Where("LOWER(title) LIKE ? OR LOWER(body) LIKE ?", pattern, pattern)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, err
	}

	totalPages := int(math.Ceil(float64(total) / float64(p.Limit)))
	if totalPages == 0 {
		totalPages = 1
	}

	var questions []models.Question
	err := query.
		Preload("Author").Preload("Department").Preload("Tags").
		Order("created_at DESC").
		Limit(p.Limit).
		Offset((p.Page - 1) * p.Limit).
		Find(&questions).Error
	if err != nil {
		return nil, err
	}

	return &QuestionPage{
		Data: questions,
		Pagination: PageInfo{
			Page:       p.Page,
			Limit:      p.Limit,
			Total:      total,
			TotalPages: totalPages,
		},
	}, nil
}

// Get 查询单个问题，incrementViews 为真时浏览量 +1
func (s *QuestionService) Get(id string, incrementViews bool) (*models.Question, error) {
	var question models.Question
	err := s.db.Preload("Author").Preload("Department").Preload("Tags").
		Where("id = ? AND is_deleted = ?", id, false).
		First(&question).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("question %w", ErrNotFound)
		}
		return nil, err
	}

	if incrementViews {
		if err := s.db.Model(&models.Question{}).
			Where("id = ?", id).
			UpdateColumn("view_count", gorm.Expr("view_count + 1")).
			Error; err != nil {
			return nil, err
		}
		question.ViewCount++
	}

	return &question, nil
}

// Create 建问题 + 挂标签 + 标签使用数 +1，整体一个事务
func (s *QuestionService) Create(auth AuthContext, input CreateQuestionInput) (*models.Question, error) {
	if strings.TrimSpace(input.Title) == "" || strings.TrimSpace(input.Body) == "" {
		return nil, fmt.Errorf("%w: title and body are required", ErrValidation)
	}

	question := models.Question{
		Title:    input.Title,
		Body:     input.Body,
		AuthorID: auth.UserID,
		Status:   models.QuestionStatusOpen,
	}
	switch {
	case input.DepartmentID != "":
		deptID := input.DepartmentID
		question.DepartmentID = &deptID
	case auth.DepartmentID != "":
		deptID := auth.DepartmentID
		question.DepartmentID = &deptID
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := verifyTagsExist(tx, input.TagIDs); err != nil {
			return err
		}
		if err := tx.Omit("Tags").Create(&question).Error; err != nil {
			return err
		}

		for _, tagID := range input.TagIDs {
			if err := tx.Create(&models.QuestionTag{QuestionID: question.ID, TagID: tagID}).Error; err != nil {
				return err
			}
			if err := tx.Model(&models.Tag{}).
				Where("id = ?", tagID).
				UpdateColumn("usage_count", gorm.Expr("usage_count + 1")).
				Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if err := s.loadTags(&question); err != nil {
		return nil, err
	}
	return &question, nil
}

// Update 仅作者可编辑；传了 TagIDs 则整体替换标签集合。
// 替换时不回减旧标签的 usage_count，沿用既有口径。
func (s *QuestionService) Update(auth AuthContext, questionID string, input UpdateQuestionInput) (*models.Question, error) {
	var question models.Question
	if err := s.db.Where("id = ? AND is_deleted = ?", questionID, false).First(&question).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("question %w", ErrNotFound)
		}
		return nil, err
	}

	if question.AuthorID != auth.UserID {
		return nil, fmt.Errorf("%w: only the author can edit this question", ErrForbidden)
	}

	updates := map[string]interface{}{}
	if input.Title != nil {
		if strings.TrimSpace(*input.Title) == "" {
			return nil, fmt.Errorf("%w: title cannot be empty", ErrValidation)
		}
		updates["title"] = *input.Title
	}
	if input.Body != nil {
		if strings.TrimSpace(*input.Body) == "" {
			return nil, fmt.Errorf("%w: body cannot be empty", ErrValidation)
		}
		updates["body"] = *input.Body
	}
	if input.DepartmentID != nil {
		updates["department_id"] = *input.DepartmentID
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if len(updates) > 0 {
			if err := tx.Model(&question).Updates(updates).Error; err != nil {
				return err
			}
		}

		if input.TagIDs != nil {
			if err := verifyTagsExist(tx, input.TagIDs); err != nil {
				return err
			}
			if err := tx.Where("question_id = ?", questionID).Delete(&models.QuestionTag{}).Error; err != nil {
				return err
			}
			for _, tagID := range input.TagIDs {
				if err := tx.Create(&models.QuestionTag{QuestionID: questionID, TagID: tagID}).Error; err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.Get(questionID, false)
}

// Delete 仅作者可删，软删除
func (s *QuestionService) Delete(auth AuthContext, questionID string) error {
	var question models.Question
	if err := s.db.Where("id = ? AND is_deleted = ?", questionID, false).First(&question).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("question %w", ErrNotFound)
		}
		return err
	}

	if question.AuthorID != auth.UserID {
		return fmt.Errorf("%w: only the author can delete this question", ErrForbidden)
	}

	now := time.Now()
	return s.db.Model(&question).Updates(map[string]interface{}{
		"is_deleted": true,
		"deleted_at": &now,
	}).Error
}

// UpdateStatus 仅作者可改，状态必须在枚举内
func (s *QuestionService) UpdateStatus(auth AuthContext, questionID string, status models.QuestionStatus) (*models.Question, error) {
	if !models.ValidQuestionStatus(status) {
		return nil, fmt.Errorf("%w: invalid status %q", ErrValidation, status)
	}

	var question models.Question
	if err := s.db.Where("id = ? AND is_deleted = ?", questionID, false).First(&question).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("question %w", ErrNotFound)
		}
		return nil, err
	}

	if question.AuthorID != auth.UserID {
		return nil, fmt.Errorf("%w: only the author can change question status", ErrForbidden)
	}

	if err := s.db.Model(&question).Update("status", status).Error; err != nil {
		return nil, err
	}
	return s.Get(questionID, false)
}

// Similar 按标题/正文的词重叠度找相似问题，取前 limit 条
func (s *QuestionService) Similar(searchText string, limit int) ([]SimilarQuestion, error) {
	if limit <= 0 {
		limit = 5
	}

	terms := strings.Fields(strings.ToLower(searchText))
	if len(terms) == 0 {
		return []SimilarQuestion{}, nil
	}

	// 先用 LIKE 捞一批候选，再在内存里按命中词数打分
	query := s.db.Model(&models.Question{}).Where("is_deleted = ?", false)
	likes := s.db
	for i, term := range terms {
		cond := "LOWER(title) LIKE ? OR LOWER(body) LIKE ?"
		pattern := "%" + term + "%"
		if i == 0 {
			likes = s.db.Where(cond, pattern, pattern)
		} else {
			likes = likes.Or(cond, pattern, pattern)
		}
	}
	query = query.Where(likes)

	var candidates []models.Question
	if err := query.Select("id", "title", "body").Limit(200).Find(&candidates).Error; err != nil {
		return nil, err
	}

	results := make([]SimilarQuestion, 0, len(candidates))
	for _, q := range candidates {
		haystack := strings.ToLower(q.Title + " " + q.Body)
		matched := 0
		for _, term := range terms {
			if strings.Contains(haystack, term) {
				matched++
			}
		}
		if matched == 0 {
			continue
		}
		results = append(results, SimilarQuestion{
			ID:         q.ID,
			Title:      q.Title,
			Similarity: float64(matched) / float64(len(terms)),
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Similarity > results[j].Similarity
	})
	if len(results) > limit {
		results = results[:limit]
	}
	return results, nil
}

// verifyTagsExist 挂标签前确认每个 id 都有对应标签，
// 防止写出悬空的 question_tags 关联
func verifyTagsExist(tx *gorm.DB, tagIDs []string) error {
	if len(tagIDs) == 0 {
		return nil
	}
	var count int64
	if err := tx.Model(&models.Tag{}).Where("id IN ?", tagIDs).Count(&count).Error; err != nil {
		return err
	}
	if count != int64(len(tagIDs)) {
		return fmt.Errorf("%w: one or more tag ids do not exist", ErrValidation)
	}
	return nil
}

func (s *QuestionService) loadTags(question *models.Question) error {
	return s.db.Model(question).Association("Tags").Find(&question.Tags)
}
