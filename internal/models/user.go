package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type User struct {
	ID           string      `gorm:"type:uuid;primaryKey" json:"id"`
	Email        string      `gorm:"uniqueIndex;not null" json:"email"`
	DisplayName  string      `gorm:"not null" json:"displayName"`
	AvatarURL    string      `json:"avatarUrl"`
	DepartmentID *string     `gorm:"type:uuid;index" json:"departmentId"`
	Department   *Department `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"department,omitempty"`
	Reputation   int         `gorm:"not null;default:0" json:"reputation"` // 缓存值，与 reputation_logs 之和保持一致
	IsActive     bool        `gorm:"not null;default:true" json:"isActive"`
	CreatedAt    time.Time   `json:"createdAt"`
	UpdatedAt    time.Time   `json:"updatedAt"`
	// No DeletedAt: users are deactivated via IsActive, never removed
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return nil
}
