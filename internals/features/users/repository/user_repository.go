package repository

import (
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"ebivilapaula_backend/internals/features/users/model"
)

// GetUserByID is the identity lookup the lifecycle engine validates actors
// against. Returns gorm.ErrRecordNotFound untouched so callers can tell
// "absent" apart from "wrong role".
func GetUserByID(db *gorm.DB, id uuid.UUID) (*model.UserModel, error) {
	var user model.UserModel
	if err := db.Where("user_id = ?", id).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func GetUserByEmail(db *gorm.DB, email string) (*model.UserModel, error) {
	var user model.UserModel
	if err := db.Where("user_email = ?", strings.ToLower(strings.TrimSpace(email))).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func ListUsers(db *gorm.DB, search string, limit, offset int) ([]model.UserModel, int64, error) {
	var (
		users []model.UserModel
		total int64
	)

	q := db.Model(&model.UserModel{})
	if s := strings.TrimSpace(search); s != "" {
		like := "%" + strings.ToLower(s) + "%"
		q = q.Where("LOWER(user_full_name) LIKE ? OR LOWER(user_email) LIKE ?", like, like)
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if err := q.Order("user_full_name ASC").Limit(limit).Offset(offset).Find(&users).Error; err != nil {
		return nil, 0, err
	}
	return users, total, nil
}

func CreateUser(db *gorm.DB, user *model.UserModel) error {
	return db.Create(user).Error
}
