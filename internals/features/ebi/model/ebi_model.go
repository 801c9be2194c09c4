package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Session status. A session is ABERTO from creation until close; reopen puts
// it back to ABERTO and leaves an audit row behind.
const (
	StatusAberto    = "ABERTO"
	StatusEncerrado = "ENCERRADO"
)

type EbiModel struct {
	EbiID uuid.UUID `gorm:"type:uuid;primaryKey;column:ebi_id" json:"ebi_id"`

	EbiDate        datatypes.Date `gorm:"type:date;not null;index:ix_ebi_date_group;column:ebi_date" json:"ebi_date"`
	EbiGroupNumber int            `gorm:"not null;index:ix_ebi_date_group;column:ebi_group_number" json:"ebi_group_number"`

	EbiCoordinatorID uuid.UUID `gorm:"type:uuid;not null;column:ebi_coordinator_id" json:"ebi_coordinator_id"`

	EbiStatus     string     `gorm:"type:varchar(10);not null;default:ABERTO;column:ebi_status" json:"ebi_status"`
	EbiFinishedAt *time.Time `gorm:"column:ebi_finished_at" json:"ebi_finished_at,omitempty"`

	EbiCreatedAt time.Time  `gorm:"column:ebi_created_at;autoCreateTime" json:"ebi_created_at"`
	EbiUpdatedAt *time.Time `gorm:"column:ebi_updated_at;autoUpdateTime" json:"ebi_updated_at,omitempty"`

	Collaborators []EbiCollaboratorModel `gorm:"foreignKey:EbiCollaboratorEbiID;references:EbiID;constraint:OnDelete:CASCADE" json:"collaborators,omitempty"`
	Presences     []EbiPresenceModel     `gorm:"foreignKey:EbiPresenceEbiID;references:EbiID;constraint:OnDelete:CASCADE" json:"presences,omitempty"`
	Audits        []EbiAuditModel        `gorm:"foreignKey:EbiAuditEbiID;references:EbiID;constraint:OnDelete:CASCADE" json:"audits,omitempty"`
}

func (EbiModel) TableName() string { return "ebi" }

func (m *EbiModel) BeforeCreate(tx *gorm.DB) error {
	if m.EbiID == uuid.Nil {
		m.EbiID = uuid.New()
	}
	return nil
}

func (m *EbiModel) IsClosed() bool { return m.EbiStatus == StatusEncerrado }

// Join table: collaborators assigned to one session. Unique per (ebi, user).
type EbiCollaboratorModel struct {
	EbiCollaboratorID     uuid.UUID `gorm:"type:uuid;primaryKey;column:ebi_collaborator_id" json:"ebi_collaborator_id"`
	EbiCollaboratorEbiID  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_ebi_collaborator;column:ebi_collaborator_ebi_id" json:"ebi_collaborator_ebi_id"`
	EbiCollaboratorUserID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_ebi_collaborator;column:ebi_collaborator_user_id" json:"ebi_collaborator_user_id"`

	EbiCollaboratorCreatedAt time.Time `gorm:"column:ebi_collaborator_created_at;autoCreateTime" json:"ebi_collaborator_created_at"`
}

func (EbiCollaboratorModel) TableName() string { return "ebi_colaboradoras" }

func (m *EbiCollaboratorModel) BeforeCreate(tx *gorm.DB) error {
	if m.EbiCollaboratorID == uuid.Nil {
		m.EbiCollaboratorID = uuid.New()
	}
	return nil
}

// One child inside one session, entry → exit. The (ebi_id, child_id) unique
// index is what makes a double registration impossible even under a race.
type EbiPresenceModel struct {
	EbiPresenceID uuid.UUID `gorm:"type:uuid;primaryKey;column:ebi_presence_id" json:"ebi_presence_id"`

	EbiPresenceEbiID   uuid.UUID `gorm:"type:uuid;not null;index:ix_presence_ebi;uniqueIndex:uq_presence_ebi_child;column:ebi_presence_ebi_id" json:"ebi_presence_ebi_id"`
	EbiPresenceChildID uuid.UUID `gorm:"type:uuid;not null;index:ix_presence_child;uniqueIndex:uq_presence_ebi_child;column:ebi_presence_child_id" json:"ebi_presence_child_id"`

	// guardian of the day, captured at entry; may differ from the child's
	// registered guardians
	EbiPresenceGuardianNameDay  string `gorm:"type:varchar(200);not null;column:ebi_presence_guardian_name_day" json:"ebi_presence_guardian_name_day"`
	EbiPresenceGuardianPhoneDay string `gorm:"type:varchar(40);not null;column:ebi_presence_guardian_phone_day" json:"ebi_presence_guardian_phone_day"`

	EbiPresenceEntryAt time.Time  `gorm:"not null;column:ebi_presence_entry_at" json:"ebi_presence_entry_at"`
	EbiPresenceExitAt  *time.Time `gorm:"column:ebi_presence_exit_at" json:"ebi_presence_exit_at,omitempty"`

	EbiPresencePinCode       string  `gorm:"type:varchar(4);not null;column:ebi_presence_pin_code" json:"-"`
	EbiPresenceJustification *string `gorm:"type:varchar(500);column:ebi_presence_justification" json:"ebi_presence_justification,omitempty"`

	EbiPresenceCreatedAt time.Time  `gorm:"column:ebi_presence_created_at;autoCreateTime" json:"ebi_presence_created_at"`
	EbiPresenceUpdatedAt *time.Time `gorm:"column:ebi_presence_updated_at;autoUpdateTime" json:"ebi_presence_updated_at,omitempty"`
}

func (EbiPresenceModel) TableName() string { return "ebi_presence" }

func (m *EbiPresenceModel) BeforeCreate(tx *gorm.DB) error {
	if m.EbiPresenceID == uuid.Nil {
		m.EbiPresenceID = uuid.New()
	}
	return nil
}

func (m *EbiPresenceModel) IsCheckedOut() bool { return m.EbiPresenceExitAt != nil }

// Audit actions
const (
	AuditActionReopen = "REOPEN"
)

// Append-only trail of sensitive session transitions.
type EbiAuditModel struct {
	EbiAuditID    uuid.UUID `gorm:"type:uuid;primaryKey;column:ebi_audit_id" json:"ebi_audit_id"`
	EbiAuditEbiID uuid.UUID `gorm:"type:uuid;not null;index:ix_audit_ebi;column:ebi_audit_ebi_id" json:"ebi_audit_ebi_id"`

	EbiAuditAction      string    `gorm:"type:varchar(50);not null;column:ebi_audit_action" json:"ebi_audit_action"`
	EbiAuditPerformedBy uuid.UUID `gorm:"type:uuid;not null;column:ebi_audit_performed_by" json:"ebi_audit_performed_by"`

	EbiAuditCreatedAt time.Time `gorm:"column:ebi_audit_created_at;autoCreateTime" json:"ebi_audit_created_at"`
}

func (EbiAuditModel) TableName() string { return "ebi_audit" }

func (m *EbiAuditModel) BeforeCreate(tx *gorm.DB) error {
	if m.EbiAuditID == uuid.Nil {
		m.EbiAuditID = uuid.New()
	}
	return nil
}
