package service

import (
	"errors"

	"gorm.io/gorm"

	settingsModel "certivo_backend/internals/features/settings/model"
)

// GetAdminSettings fetches the singleton row, falling back to the defaults
// when the admin has never saved the form. Callers fetch once per request and
// pass the value down; nothing reads ambient global state.
func GetAdminSettings(db *gorm.DB) (settingsModel.AdminSettingsModel, error) {
	var st settingsModel.AdminSettingsModel
	err := db.First(&st, "settings_singleton = ?", true).Error
	if err == nil {
		return st, nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return settingsModel.DefaultAdminSettings(), nil
	}
	return settingsModel.AdminSettingsModel{}, err
}

// SaveAdminSettings creates the singleton row on first save, updates it after.
func SaveAdminSettings(db *gorm.DB, st *settingsModel.AdminSettingsModel) error {
	var existing settingsModel.AdminSettingsModel
	err := db.First(&existing, "settings_singleton = ?", true).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return db.Create(st).Error
	}
	if err != nil {
		return err
	}

	st.SettingsID = existing.SettingsID
	st.SettingsSingleton = true
	st.CreatedAt = existing.CreatedAt
	return db.Model(&existing).Updates(map[string]interface{}{
		"settings_auto_verify_imports":       st.SettingsAutoVerifyImports,
		"settings_require_review_for_manual": st.SettingsRequireReviewForManual,
		"settings_show_org_name_on_public":   st.SettingsShowOrgNameOnPublic,
		"settings_allow_public_pdf_download": st.SettingsAllowPublicPdfDownload,
		"settings_portal_meta":               st.SettingsPortalMeta,
	}).Error
}
