package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type UserModel struct {
	UserID uuid.UUID `gorm:"type:uuid;primaryKey;column:user_id" json:"user_id"`

	UserFullName string `gorm:"type:varchar(200);not null;column:user_full_name" json:"user_full_name"`
	UserEmail    string `gorm:"type:varchar(200);not null;uniqueIndex:uq_users_email;column:user_email" json:"user_email"`
	UserPhone    string `gorm:"type:varchar(40);not null;column:user_phone" json:"user_phone"`

	// role ∈ constants.AllRoles, validated at the service boundary
	UserRole        string `gorm:"type:varchar(20);not null;column:user_role" json:"user_role"`
	UserGroupNumber int    `gorm:"not null;column:user_group_number" json:"user_group_number"`

	UserPasswordHash string `gorm:"type:varchar(200);not null;column:user_password_hash" json:"-"`
	UserIsActive     bool   `gorm:"not null;default:true;column:user_is_active" json:"user_is_active"`

	UserCreatedAt time.Time  `gorm:"column:user_created_at;autoCreateTime" json:"user_created_at"`
	UserUpdatedAt *time.Time `gorm:"column:user_updated_at;autoUpdateTime" json:"user_updated_at,omitempty"`
}

func (UserModel) TableName() string { return "users" }

func (m *UserModel) BeforeCreate(tx *gorm.DB) error {
	if m.UserID == uuid.Nil {
		m.UserID = uuid.New()
	}
	return nil
}
