package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ChildModel struct {
	ChildID uuid.UUID `gorm:"type:uuid;primaryKey;column:child_id" json:"child_id"`

	ChildName string `gorm:"type:varchar(200);not null;index;column:child_name" json:"child_name"`

	// primary guardian on file; extra guardians live in child_guardians
	ChildGuardianName  string `gorm:"type:varchar(200);not null;column:child_guardian_name" json:"child_guardian_name"`
	ChildGuardianPhone string `gorm:"type:varchar(40);not null;column:child_guardian_phone" json:"child_guardian_phone"`

	ChildCreatedAt time.Time  `gorm:"column:child_created_at;autoCreateTime" json:"child_created_at"`
	ChildUpdatedAt *time.Time `gorm:"column:child_updated_at;autoUpdateTime" json:"child_updated_at,omitempty"`

	Guardians []ChildGuardianModel `gorm:"foreignKey:ChildGuardianChildID;references:ChildID;constraint:OnDelete:CASCADE" json:"guardians,omitempty"`
}

func (ChildModel) TableName() string { return "children" }

func (m *ChildModel) BeforeCreate(tx *gorm.DB) error {
	if m.ChildID == uuid.Nil {
		m.ChildID = uuid.New()
	}
	return nil
}

type ChildGuardianModel struct {
	ChildGuardianID      uuid.UUID `gorm:"type:uuid;primaryKey;column:child_guardian_id" json:"child_guardian_id"`
	ChildGuardianChildID uuid.UUID `gorm:"type:uuid;not null;index;column:child_guardian_child_id" json:"child_guardian_child_id"`

	ChildGuardianFullName string `gorm:"type:varchar(200);not null;column:child_guardian_full_name" json:"child_guardian_full_name"`
	ChildGuardianPhone    string `gorm:"type:varchar(40);not null;column:child_guardian_phone" json:"child_guardian_phone"`

	ChildGuardianCreatedAt time.Time `gorm:"column:child_guardian_created_at;autoCreateTime" json:"child_guardian_created_at"`
}

func (ChildGuardianModel) TableName() string { return "child_guardians" }

func (m *ChildGuardianModel) BeforeCreate(tx *gorm.DB) error {
	if m.ChildGuardianID == uuid.Nil {
		m.ChildGuardianID = uuid.New()
	}
	return nil
}
