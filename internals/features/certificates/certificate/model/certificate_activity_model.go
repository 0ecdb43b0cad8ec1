package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	ActivityIssued        = "issued"
	ActivityImported      = "imported"
	ActivityLookup        = "lookup"
	ActivityStatusChanged = "status_changed"
)

// CertificateActivityModel is the append-only audit trail. One row is written
// per certificate-affecting action; rows are never updated or deleted.
type CertificateActivityModel struct {
	CertActivityID            uuid.UUID  `gorm:"column:cert_activity_id;type:uuid;primaryKey" json:"cert_activity_id"`
	CertActivityCertificateID uuid.UUID  `gorm:"column:cert_activity_certificate_id;type:uuid;not null" json:"cert_activity_certificate_id"`
	// AdminID is nil for anonymous actions such as a public lookup.
	CertActivityAdminID     *uuid.UUID `gorm:"column:cert_activity_admin_id;type:uuid" json:"cert_activity_admin_id,omitempty"`
	CertActivityType        string     `gorm:"column:cert_activity_type;type:varchar(30);not null" json:"cert_activity_type"`
	CertActivityDescription string     `gorm:"column:cert_activity_description;type:text;not null" json:"cert_activity_description"`
	CreatedAt               time.Time  `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (CertificateActivityModel) TableName() string {
	return "certificate_activities"
}

func (m *CertificateActivityModel) BeforeCreate(tx *gorm.DB) error {
	if m.CertActivityID == uuid.Nil {
		m.CertActivityID = uuid.New()
	}
	return nil
}
