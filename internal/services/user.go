package services

import (
	"errors"
	"fmt"

	"answerhub/internal/models"

	"gorm.io/gorm"
)

// AuthContext 是上游身份源（开发环境为可信请求头）解析出来的请求者信息
type AuthContext struct {
	UserID       string
	Email        string
	DisplayName  string
	DepartmentID string
}

type UserService struct {
	db *gorm.DB
}

func NewUserService(db *gorm.DB) *UserService {
	return &UserService{db: db}
}

// Get 查询在职用户，停用账号视同不存在
func (s *UserService) Get(id string) (*models.User, error) {
	var user models.User
	err := s.db.Preload("Department").
		Where("id = ? AND is_active = ?", id, true).
		First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("user %w", ErrNotFound)
		}
		return nil, err
	}
	return &user, nil
}

// GetOrProvision 按认证上下文取用户，不存在时自动建档（开发模式行为）。
// 用 auth.UserID 作为主键建档，保证后续归属判断与头里的 ID 一致。
func (s *UserService) GetOrProvision(auth AuthContext) (*models.User, error) {
	var user models.User
	err := s.db.Where("id = ? AND is_active = ?", auth.UserID, true).First(&user).Error
	if err == nil {
		return &user, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	user = models.User{
		ID:          auth.UserID,
		Email:       auth.Email,
		DisplayName: auth.DisplayName,
		IsActive:    true,
	}
	if auth.DepartmentID != "" {
		deptID := auth.DepartmentID
		user.DepartmentID = &deptID
	}
	if err := s.db.Create(&user).Error; err != nil {
		return nil, fmt.Errorf("provision user: %w", err)
	}
	return &user, nil
}
