package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	StatusVerified = "verified"
	StatusPending  = "pending"
	StatusRejected = "rejected"
)

// CertificateModel represents the certificates table.
//
// CertificateOrganizationName is a denormalized snapshot of the organization
// name at issuance time. Later organization renames must not retroactively
// change issued certificates, so there is deliberately no foreign key here.
type CertificateModel struct {
	CertificateID               uuid.UUID  `gorm:"column:certificate_id;type:uuid;primaryKey" json:"certificate_id"`
	CertificateCode             string     `gorm:"column:certificate_code;size:30;unique;not null" json:"certificate_code"`
	CertificateUserID           uuid.UUID  `gorm:"column:certificate_user_id;type:uuid;not null" json:"certificate_user_id"`
	CertificateIssuedBy         *uuid.UUID `gorm:"column:certificate_issued_by;type:uuid" json:"certificate_issued_by,omitempty"`
	CertificateHolderName       string     `gorm:"column:certificate_holder_name;size:255;not null" json:"certificate_holder_name"`
	CertificateProgram          string     `gorm:"column:certificate_program;size:255;not null" json:"certificate_program"`
	CertificateOrganizationName *string    `gorm:"column:certificate_organization_name;size:255" json:"certificate_organization_name,omitempty"`
	CertificateDurationText     *string    `gorm:"column:certificate_duration_text;size:100" json:"certificate_duration_text,omitempty"`
	CertificateStatus           string     `gorm:"column:certificate_status;type:varchar(20);not null" json:"certificate_status"`
	CertificateIssuedAt         time.Time  `gorm:"column:certificate_issued_at;not null" json:"certificate_issued_at"`
	CertificateVerifiedAt       *time.Time `gorm:"column:certificate_verified_at" json:"certificate_verified_at,omitempty"`
	CreatedAt                   time.Time  `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt                   time.Time  `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (CertificateModel) TableName() string {
	return "certificates"
}

func (m *CertificateModel) BeforeCreate(tx *gorm.DB) error {
	if m.CertificateID == uuid.Nil {
		m.CertificateID = uuid.New()
	}
	if m.CertificateStatus == "" {
		m.CertificateStatus = StatusPending
	}
	if m.CertificateIssuedAt.IsZero() {
		m.CertificateIssuedAt = time.Now()
	}
	return nil
}
