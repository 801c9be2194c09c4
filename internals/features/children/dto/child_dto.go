package dto

import (
	"time"

	"github.com/google/uuid"

	"ebivilapaula_backend/internals/features/children/model"
)

type CreateChildRequest struct {
	Name          string                 `json:"name" validate:"required,min=2,max=200"`
	GuardianName  string                 `json:"guardian_name" validate:"required,min=2,max=200"`
	GuardianPhone string                 `json:"guardian_phone" validate:"required,min=8,max=40"`
	Guardians     []GuardianRequestEntry `json:"guardians" validate:"omitempty,dive"`
}

type GuardianRequestEntry struct {
	FullName string `json:"full_name" validate:"required,min=2,max=200"`
	Phone    string `json:"phone" validate:"required,min=8,max=40"`
}

func (r *CreateChildRequest) ToModel() *model.ChildModel {
	child := &model.ChildModel{
		ChildName:          r.Name,
		ChildGuardianName:  r.GuardianName,
		ChildGuardianPhone: r.GuardianPhone,
	}
	for _, g := range r.Guardians {
		child.Guardians = append(child.Guardians, model.ChildGuardianModel{
			ChildGuardianFullName: g.FullName,
			ChildGuardianPhone:    g.Phone,
		})
	}
	return child
}

type ChildResponse struct {
	ChildID       uuid.UUID          `json:"child_id"`
	Name          string             `json:"name"`
	GuardianName  string             `json:"guardian_name"`
	GuardianPhone string             `json:"guardian_phone"`
	Guardians     []GuardianResponse `json:"guardians,omitempty"`
	CreatedAt     time.Time          `json:"created_at"`
}

type GuardianResponse struct {
	GuardianID uuid.UUID `json:"guardian_id"`
	FullName   string    `json:"full_name"`
	Phone      string    `json:"phone"`
}

func ToChildResponse(m *model.ChildModel) ChildResponse {
	resp := ChildResponse{
		ChildID:       m.ChildID,
		Name:          m.ChildName,
		GuardianName:  m.ChildGuardianName,
		GuardianPhone: m.ChildGuardianPhone,
		CreatedAt:     m.ChildCreatedAt,
	}
	for _, g := range m.Guardians {
		resp.Guardians = append(resp.Guardians, GuardianResponse{
			GuardianID: g.ChildGuardianID,
			FullName:   g.ChildGuardianFullName,
			Phone:      g.ChildGuardianPhone,
		})
	}
	return resp
}

func ToChildResponses(ms []model.ChildModel) []ChildResponse {
	out := make([]ChildResponse, 0, len(ms))
	for i := range ms {
		out = append(out, ToChildResponse(&ms[i]))
	}
	return out
}
