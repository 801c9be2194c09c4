package repository

import (
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"ebivilapaula_backend/internals/features/children/model"
)

// GetChildByID is the registry lookup the lifecycle engine validates presence
// subjects against.
func GetChildByID(db *gorm.DB, id uuid.UUID) (*model.ChildModel, error) {
	var child model.ChildModel
	if err := db.Where("child_id = ?", id).First(&child).Error; err != nil {
		return nil, err
	}
	return &child, nil
}

func GetChildWithGuardians(db *gorm.DB, id uuid.UUID) (*model.ChildModel, error) {
	var child model.ChildModel
	if err := db.Preload("Guardians").Where("child_id = ?", id).First(&child).Error; err != nil {
		return nil, err
	}
	return &child, nil
}

func ListChildren(db *gorm.DB, search string, limit, offset int) ([]model.ChildModel, int64, error) {
	var (
		children []model.ChildModel
		total    int64
	)

	q := db.Model(&model.ChildModel{})
	if s := strings.TrimSpace(search); s != "" {
		like := "%" + strings.ToLower(s) + "%"
		q = q.Where("LOWER(child_name) LIKE ?", like)
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if err := q.Preload("Guardians").Order("child_name ASC").Limit(limit).Offset(offset).Find(&children).Error; err != nil {
		return nil, 0, err
	}
	return children, total, nil
}

func CreateChild(db *gorm.DB, child *model.ChildModel) error {
	return db.Create(child).Error
}
