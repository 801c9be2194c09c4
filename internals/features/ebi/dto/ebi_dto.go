package dto

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"ebivilapaula_backend/internals/features/ebi/model"
)

const dateLayout = "2006-01-02"

type CreateEbiRequest struct {
	Date            string      `json:"ebi_date" validate:"required,datetime=2006-01-02"`
	GroupNumber     int         `json:"group_number" validate:"required,min=1,max=4"`
	CoordinatorID   uuid.UUID   `json:"coordinator_id" validate:"required"`
	CollaboratorIDs []uuid.UUID `json:"collaborator_ids"`
}

func (r *CreateEbiRequest) ParsedDate() (datatypes.Date, error) {
	t, err := time.Parse(dateLayout, r.Date)
	if err != nil {
		return datatypes.Date{}, err
	}
	return datatypes.Date(t), nil
}

type UpdateEbiRequest struct {
	Date            *string      `json:"ebi_date" validate:"omitempty,datetime=2006-01-02"`
	GroupNumber     *int         `json:"group_number" validate:"omitempty,min=1,max=4"`
	CoordinatorID   *uuid.UUID   `json:"coordinator_id"`
	CollaboratorIDs *[]uuid.UUID `json:"collaborator_ids"`
}

func (r *UpdateEbiRequest) ParsedDate() (datatypes.Date, error) {
	t, err := time.Parse(dateLayout, *r.Date)
	if err != nil {
		return datatypes.Date{}, err
	}
	return datatypes.Date(t), nil
}

type AddPresenceRequest struct {
	ChildID          uuid.UUID `json:"child_id" validate:"required"`
	GuardianNameDay  string    `json:"guardian_name_day" validate:"required,min=2,max=200"`
	GuardianPhoneDay string    `json:"guardian_phone_day" validate:"required,min=8,max=40"`
}

// Checkout goes one of two ways: PIN, or a written justification when the
// guardian cannot present the PIN.
type CheckoutRequest struct {
	PinCode       *string `json:"pin_code" validate:"omitempty,len=4,numeric"`
	Justification *string `json:"justification" validate:"omitempty,max=500"`
}

type EbiResponse struct {
	EbiID           uuid.UUID   `json:"ebi_id"`
	Date            string      `json:"ebi_date"`
	GroupNumber     int         `json:"group_number"`
	CoordinatorID   uuid.UUID   `json:"coordinator_id"`
	Status          string      `json:"status"`
	FinishedAt      *time.Time  `json:"finished_at,omitempty"`
	CollaboratorIDs []uuid.UUID `json:"collaborator_ids"`
}

type EbiDetailResponse struct {
	EbiResponse
	Presences []PresenceResponse `json:"presences"`
	Audits    []AuditResponse    `json:"audits"`
}

// PinCode is only ever populated on the add-presence response; reads after
// that never echo the secret back.
type PresenceResponse struct {
	PresenceID       uuid.UUID  `json:"presence_id"`
	ChildID          uuid.UUID  `json:"child_id"`
	ChildName        string     `json:"child_name,omitempty"`
	GuardianNameDay  string     `json:"guardian_name_day"`
	GuardianPhoneDay string     `json:"guardian_phone_day"`
	EntryAt          time.Time  `json:"entry_at"`
	ExitAt           *time.Time `json:"exit_at,omitempty"`
	Justification    *string    `json:"justification,omitempty"`
	PinCode          string     `json:"pin_code,omitempty"`
}

type AuditResponse struct {
	AuditID     uuid.UUID `json:"audit_id"`
	Action      string    `json:"action"`
	PerformedBy uuid.UUID `json:"performed_by"`
	CreatedAt   time.Time `json:"created_at"`
}

func ToEbiResponse(m *model.EbiModel) EbiResponse {
	collaboratorIDs := make([]uuid.UUID, 0, len(m.Collaborators))
	for _, col := range m.Collaborators {
		collaboratorIDs = append(collaboratorIDs, col.EbiCollaboratorUserID)
	}
	return EbiResponse{
		EbiID:           m.EbiID,
		Date:            time.Time(m.EbiDate).Format(dateLayout),
		GroupNumber:     m.EbiGroupNumber,
		CoordinatorID:   m.EbiCoordinatorID,
		Status:          m.EbiStatus,
		FinishedAt:      m.EbiFinishedAt,
		CollaboratorIDs: collaboratorIDs,
	}
}

func ToEbiResponses(ms []model.EbiModel) []EbiResponse {
	out := make([]EbiResponse, 0, len(ms))
	for i := range ms {
		out = append(out, ToEbiResponse(&ms[i]))
	}
	return out
}

// ToPresenceResponse never exposes the PIN; add-presence sets it explicitly
// on its one-time response.
func ToPresenceResponse(m *model.EbiPresenceModel, childName string) PresenceResponse {
	return PresenceResponse{
		PresenceID:       m.EbiPresenceID,
		ChildID:          m.EbiPresenceChildID,
		ChildName:        childName,
		GuardianNameDay:  m.EbiPresenceGuardianNameDay,
		GuardianPhoneDay: m.EbiPresenceGuardianPhoneDay,
		EntryAt:          m.EbiPresenceEntryAt,
		ExitAt:           m.EbiPresenceExitAt,
		Justification:    m.EbiPresenceJustification,
	}
}

func ToAuditResponses(ms []model.EbiAuditModel) []AuditResponse {
	out := make([]AuditResponse, 0, len(ms))
	for _, a := range ms {
		out = append(out, AuditResponse{
			AuditID:     a.EbiAuditID,
			Action:      a.EbiAuditAction,
			PerformedBy: a.EbiAuditPerformedBy,
			CreatedAt:   a.EbiAuditCreatedAt,
		})
	}
	return out
}

func ToEbiDetailResponse(m *model.EbiModel, childNames map[uuid.UUID]string) EbiDetailResponse {
	detail := EbiDetailResponse{
		EbiResponse: ToEbiResponse(m),
		Presences:   make([]PresenceResponse, 0, len(m.Presences)),
		Audits:      ToAuditResponses(m.Audits),
	}
	for i := range m.Presences {
		p := &m.Presences[i]
		detail.Presences = append(detail.Presences, ToPresenceResponse(p, childNames[p.EbiPresenceChildID]))
	}
	return detail
}
