package dto

import (
	"strings"
	"time"

	"github.com/google/uuid"

	orgModel "certivo_backend/internals/features/organizations/organization/model"
)

/* =======================================================
   REQUEST DTOs
   ======================================================= */

type CreateOrganizationRequest struct {
	Name          string  `json:"name" validate:"required,min=2,max=255"`
	Type          string  `json:"type" validate:"required,oneof=college company tpo other"`
	ContactEmail  *string `json:"contact_email,omitempty" validate:"omitempty,email,max=255"`
	ContactPerson *string `json:"contact_person,omitempty" validate:"omitempty,max=255"`
}

func (r *CreateOrganizationRequest) Normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.Type = strings.ToLower(strings.TrimSpace(r.Type))
	if r.ContactEmail != nil {
		v := strings.TrimSpace(strings.ToLower(*r.ContactEmail))
		if v == "" {
			r.ContactEmail = nil
		} else {
			r.ContactEmail = &v
		}
	}
	if r.ContactPerson != nil {
		v := strings.TrimSpace(*r.ContactPerson)
		if v == "" {
			r.ContactPerson = nil
		} else {
			r.ContactPerson = &v
		}
	}
}

func (r *CreateOrganizationRequest) ToModel() *orgModel.OrganizationModel {
	return &orgModel.OrganizationModel{
		OrganizationName:          r.Name,
		OrganizationType:          r.Type,
		OrganizationContactEmail:  r.ContactEmail,
		OrganizationContactPerson: r.ContactPerson,
		OrganizationIsActive:      true,
	}
}

// UpdateOrganizationRequest — partial update (pointers distinguish omit from null)
type UpdateOrganizationRequest struct {
	Name          *string `json:"name,omitempty" validate:"omitempty,min=2,max=255"`
	Type          *string `json:"type,omitempty" validate:"omitempty,oneof=college company tpo other"`
	ContactEmail  *string `json:"contact_email,omitempty" validate:"omitempty,email,max=255"`
	ContactPerson *string `json:"contact_person,omitempty" validate:"omitempty,max=255"`
	IsActive      *bool   `json:"is_active,omitempty"`
}

func (r *UpdateOrganizationRequest) Normalize() {
	if r.Name != nil {
		v := strings.TrimSpace(*r.Name)
		r.Name = &v
	}
	if r.Type != nil {
		v := strings.ToLower(strings.TrimSpace(*r.Type))
		r.Type = &v
	}
	if r.ContactEmail != nil {
		v := strings.TrimSpace(strings.ToLower(*r.ContactEmail))
		r.ContactEmail = &v
	}
	if r.ContactPerson != nil {
		v := strings.TrimSpace(*r.ContactPerson)
		r.ContactPerson = &v
	}
}

func (r *UpdateOrganizationRequest) ApplyToModel(m *orgModel.OrganizationModel) {
	if r.Name != nil {
		m.OrganizationName = *r.Name
	}
	if r.Type != nil {
		m.OrganizationType = *r.Type
	}
	if r.ContactEmail != nil {
		m.OrganizationContactEmail = r.ContactEmail
	}
	if r.ContactPerson != nil {
		m.OrganizationContactPerson = r.ContactPerson
	}
	if r.IsActive != nil {
		m.OrganizationIsActive = *r.IsActive
	}
}

/* =======================================================
   RESPONSE DTOs
   ======================================================= */

type OrganizationResponse struct {
	OrganizationID uuid.UUID `json:"organization_id"`
	Name           string    `json:"name"`
	Type           string    `json:"type"`
	ContactEmail   *string   `json:"contact_email,omitempty"`
	ContactPerson  *string   `json:"contact_person,omitempty"`
	IsActive       bool      `json:"is_active"`
	CreatedAt      time.Time `json:"created_at"`
}

func NewOrganizationResponse(m *orgModel.OrganizationModel) OrganizationResponse {
	return OrganizationResponse{
		OrganizationID: m.OrganizationID,
		Name:           m.OrganizationName,
		Type:           m.OrganizationType,
		ContactEmail:   m.OrganizationContactEmail,
		ContactPerson:  m.OrganizationContactPerson,
		IsActive:       m.OrganizationIsActive,
		CreatedAt:      m.CreatedAt,
	}
}
