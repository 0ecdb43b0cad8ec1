package dto

import (
	"strings"
	"time"

	"github.com/google/uuid"

	certModel "certivo_backend/internals/features/certificates/certificate/model"
)

/* =======================================================
   REQUEST DTOs
   ======================================================= */

// CreateCertificateRequest — single interactive issuance by an admin.
type CreateCertificateRequest struct {
	Name           string  `json:"name" validate:"required,min=1,max=255"`
	Domain         string  `json:"domain" validate:"required,min=1,max=255"`
	IssuedAt       string  `json:"issued_at" validate:"required"`
	OrganizationID *string `json:"organization_id,omitempty" validate:"omitempty,uuid4"`
	Email          *string `json:"email,omitempty" validate:"omitempty,email,max=255"`
	UserID         *string `json:"user_id,omitempty" validate:"omitempty,uuid4"`
	DurationText   *string `json:"duration_text,omitempty" validate:"omitempty,max=100"`
}

// Normalize — trim and basic normalization before validation.
func (r *CreateCertificateRequest) Normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.Domain = strings.TrimSpace(r.Domain)
	r.IssuedAt = strings.TrimSpace(r.IssuedAt)
	if r.Email != nil {
		v := strings.TrimSpace(strings.ToLower(*r.Email))
		if v == "" {
			r.Email = nil
		} else {
			r.Email = &v
		}
	}
	if r.OrganizationID != nil {
		v := strings.TrimSpace(*r.OrganizationID)
		if v == "" {
			r.OrganizationID = nil
		} else {
			r.OrganizationID = &v
		}
	}
	if r.UserID != nil {
		v := strings.TrimSpace(*r.UserID)
		if v == "" {
			r.UserID = nil
		} else {
			r.UserID = &v
		}
	}
	if r.DurationText != nil {
		v := strings.TrimSpace(*r.DurationText)
		if v == "" {
			r.DurationText = nil
		} else {
			r.DurationText = &v
		}
	}
}

// ParseIssuedAt — "2006-01-02" first, RFC3339 as fallback. An unparsable date
// is treated as absent: the store defaults issued_at to now.
func (r *CreateCertificateRequest) ParseIssuedAt() time.Time {
	if t, err := time.Parse("2006-01-02", r.IssuedAt); err == nil {
		return t
	}
	if t, err := time.Parse(time.RFC3339, r.IssuedAt); err == nil {
		return t
	}
	return time.Time{}
}

// UpdateStatusRequest — admin-driven status change.
type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=verified pending rejected"`
}

func (r *UpdateStatusRequest) Normalize() {
	r.Status = strings.ToLower(strings.TrimSpace(r.Status))
}

// VerifyRequest — public lookup payload.
type VerifyRequest struct {
	Code string `json:"code" validate:"required,min=1,max=30"`
}

func (r *VerifyRequest) Normalize() {
	r.Code = strings.ToUpper(strings.TrimSpace(r.Code))
}

/* =======================================================
   IMPORT DTOs
   ======================================================= */

// ImportRow is one parsed spreadsheet row. RowNumber is the sheet position
// in the original file, header row included, so error strings line up with
// what the operator sees in their spreadsheet.
type ImportRow struct {
	RowNumber        int
	Name             string
	Email            string
	Program          string
	OrganizationName string
	DurationText     string
}

// ImportSummary mirrors the counters the import screen shows.
type ImportSummary struct {
	TotalRows           int `json:"total_rows"`
	CreatedUsers        int `json:"created_users"`
	ExistingUsers       int `json:"existing_users"`
	CreatedCertificates int `json:"created_certificates"`
	ErrorCount          int `json:"error_count"`
}

/* =======================================================
   RESPONSE DTOs
   ======================================================= */

// CertificateResponse is the projection returned to authenticated callers.
type CertificateResponse struct {
	CertificateID    uuid.UUID  `json:"certificate_id"`
	Code             string     `json:"code"`
	HolderName       string     `json:"holder_name"`
	Program          string     `json:"program"`
	OrganizationName *string    `json:"organization_name,omitempty"`
	DurationText     *string    `json:"duration_text,omitempty"`
	Status           string     `json:"status"`
	IssuedAt         time.Time  `json:"issued_at"`
	VerifiedAt       *time.Time `json:"verified_at,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
}

func NewCertificateResponse(m *certModel.CertificateModel) CertificateResponse {
	return CertificateResponse{
		CertificateID:    m.CertificateID,
		Code:             m.CertificateCode,
		HolderName:       m.CertificateHolderName,
		Program:          m.CertificateProgram,
		OrganizationName: m.CertificateOrganizationName,
		DurationText:     m.CertificateDurationText,
		Status:           m.CertificateStatus,
		IssuedAt:         m.CertificateIssuedAt,
		VerifiedAt:       m.CertificateVerifiedAt,
		CreatedAt:        m.CreatedAt,
	}
}

// PublicCertificateResponse is the redaction-aware projection for the public
// verify endpoint. OrganizationName is nil when the portal settings hide it;
// the stored value is untouched.
type PublicCertificateResponse struct {
	Code             string     `json:"code"`
	HolderName       string     `json:"holder_name"`
	Program          string     `json:"program"`
	OrganizationName *string    `json:"organization_name"`
	DurationText     *string    `json:"duration_text,omitempty"`
	Status           string     `json:"status"`
	IssuedAt         time.Time  `json:"issued_at"`
	VerifiedAt       *time.Time `json:"verified_at,omitempty"`
}

func NewPublicCertificateResponse(m *certModel.CertificateModel, showOrgName bool) PublicCertificateResponse {
	resp := PublicCertificateResponse{
		Code:         m.CertificateCode,
		HolderName:   m.CertificateHolderName,
		Program:      m.CertificateProgram,
		DurationText: m.CertificateDurationText,
		Status:       m.CertificateStatus,
		IssuedAt:     m.CertificateIssuedAt,
		VerifiedAt:   m.CertificateVerifiedAt,
	}
	if showOrgName {
		resp.OrganizationName = m.CertificateOrganizationName
	}
	return resp
}
