package services

import (
	"errors"
	"fmt"
	"strings"

	"answerhub/internal/models"

	"gorm.io/gorm"
)

type TagService struct {
	db *gorm.DB
}

func NewTagService(db *gorm.DB) *TagService {
	return &TagService{db: db}
}

// All 全部标签按名称升序
func (s *TagService) All() ([]models.Tag, error) {
	var tags []models.Tag
	err := s.db.Order("name ASC").Find(&tags).Error
	return tags, err
}

// Popular 使用数最高的前 limit 个标签
func (s *TagService) Popular(limit int) ([]models.Tag, error) {
	if limit < 1 || limit > 100 {
		limit = 20
	}
	var tags []models.Tag
	err := s.db.Order("usage_count DESC, name ASC").Limit(limit).Find(&tags).Error
	return tags, err
}

// Search 按名称前缀/子串匹配
func (s *TagService) Search(keyword string) ([]models.Tag, error) {
	keyword = strings.TrimSpace(strings.ToLower(keyword))
	if keyword == "" {
		return []models.Tag{}, nil
	}
	var tags []models.Tag
	err := s.db.Where("name LIKE ?", "%"+keyword+"%").
		Order("usage_count DESC, name ASC").
		Limit(50).
		Find(&tags).Error
	return tags, err
}

// GetOrCreate 按名称取标签，名称统一小写去空白，不存在则新建
func (s *TagService) GetOrCreate(name, description string) (*models.Tag, error) {
	name = strings.TrimSpace(strings.ToLower(name))
	if name == "" {
		return nil, fmt.Errorf("%w: tag name is required", ErrValidation)
	}

	var tag models.Tag
	err := s.db.Where("name = ?", name).First(&tag).Error
	if err == nil {
		return &tag, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	tag = models.Tag{Name: name, Description: description}
	if err := s.db.Create(&tag).Error; err != nil {
		return nil, err
	}
	return &tag, nil
}

type DepartmentService struct {
	db *gorm.DB
}

func NewDepartmentService(db *gorm.DB) *DepartmentService {
	return &DepartmentService{db: db}
}

// All 全部部门按名称升序
func (s *DepartmentService) All() ([]models.Department, error) {
	var departments []models.Department
	err := s.db.Order("name ASC").Find(&departments).Error
	return departments, err
}

// Get 单个部门
func (s *DepartmentService) Get(id string) (*models.Department, error) {
	var dept models.Department
	if err := s.db.Where("id = ?", id).First(&dept).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("department %w", ErrNotFound)
		}
		return nil, err
	}
	return &dept, nil
}
