package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	OrgTypeCollege = "college"
	OrgTypeCompany = "company"
	OrgTypeTPO     = "tpo"
	OrgTypeOther   = "other"
)

// OrganizationModel represents the organizations table. Certificates reference
// organizations by denormalized name, never by foreign key, so renaming an
// organization does not rewrite issued certificates.
type OrganizationModel struct {
	OrganizationID            uuid.UUID `gorm:"column:organization_id;type:uuid;primaryKey" json:"organization_id"`
	OrganizationName          string    `gorm:"column:organization_name;size:255;not null" json:"organization_name"`
	OrganizationType          string    `gorm:"column:organization_type;type:varchar(20);not null" json:"organization_type"`
	OrganizationContactEmail  *string   `gorm:"column:organization_contact_email;size:255" json:"organization_contact_email,omitempty"`
	OrganizationContactPerson *string   `gorm:"column:organization_contact_person;size:255" json:"organization_contact_person,omitempty"`
	OrganizationIsActive      bool      `gorm:"column:organization_is_active;not null" json:"organization_is_active"`
	CreatedAt                 time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt                 time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (OrganizationModel) TableName() string {
	return "organizations"
}

func (o *OrganizationModel) BeforeCreate(tx *gorm.DB) error {
	if o.OrganizationID == uuid.Nil {
		o.OrganizationID = uuid.New()
	}
	return nil
}
