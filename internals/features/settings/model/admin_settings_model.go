package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// AdminSettingsModel is a single-row table holding the verification and
// public-portal defaults. The `settings_singleton` column carries a unique
// constraint on `true` so a second row can never be inserted.
type AdminSettingsModel struct {
	SettingsID                     uuid.UUID      `gorm:"column:settings_id;type:uuid;primaryKey" json:"settings_id"`
	SettingsSingleton              bool           `gorm:"column:settings_singleton;unique;not null" json:"-"`
	SettingsAutoVerifyImports      bool           `gorm:"column:settings_auto_verify_imports;not null" json:"settings_auto_verify_imports"`
	SettingsRequireReviewForManual bool           `gorm:"column:settings_require_review_for_manual;not null" json:"settings_require_review_for_manual"`
	SettingsShowOrgNameOnPublic    bool           `gorm:"column:settings_show_org_name_on_public;not null" json:"settings_show_org_name_on_public"`
	SettingsAllowPublicPdfDownload bool           `gorm:"column:settings_allow_public_pdf_download;not null" json:"settings_allow_public_pdf_download"`
	SettingsPortalMeta             datatypes.JSON `gorm:"column:settings_portal_meta;type:jsonb" json:"settings_portal_meta,omitempty"`
	CreatedAt                      time.Time      `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt                      time.Time      `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (AdminSettingsModel) TableName() string {
	return "admin_settings"
}

func (m *AdminSettingsModel) BeforeCreate(tx *gorm.DB) error {
	if m.SettingsID == uuid.Nil {
		m.SettingsID = uuid.New()
	}
	m.SettingsSingleton = true
	return nil
}

// DefaultAdminSettings is what the application behaves like before an admin
// has ever saved the settings form: imports auto-verify, manual entries do not
// require review, the public page shows the organization name.
func DefaultAdminSettings() AdminSettingsModel {
	return AdminSettingsModel{
		SettingsSingleton:              true,
		SettingsAutoVerifyImports:      true,
		SettingsRequireReviewForManual: false,
		SettingsShowOrgNameOnPublic:    true,
		SettingsAllowPublicPdfDownload: true,
	}
}
