package dto

import (
	"gorm.io/datatypes"

	settingsModel "certivo_backend/internals/features/settings/model"
)

// UpdateSettingsRequest — full replacement of the settings form. Pointers let
// the handler treat omitted flags as "keep current value".
type UpdateSettingsRequest struct {
	AutoVerifyImports      *bool          `json:"auto_verify_imports,omitempty"`
	RequireReviewForManual *bool          `json:"require_review_for_manual,omitempty"`
	ShowOrgNameOnPublic    *bool          `json:"show_org_name_on_public,omitempty"`
	AllowPublicPdfDownload *bool          `json:"allow_public_pdf_download,omitempty"`
	PortalMeta             datatypes.JSON `json:"portal_meta,omitempty"`
}

func (r *UpdateSettingsRequest) ApplyToModel(m *settingsModel.AdminSettingsModel) {
	if r.AutoVerifyImports != nil {
		m.SettingsAutoVerifyImports = *r.AutoVerifyImports
	}
	if r.RequireReviewForManual != nil {
		m.SettingsRequireReviewForManual = *r.RequireReviewForManual
	}
	if r.ShowOrgNameOnPublic != nil {
		m.SettingsShowOrgNameOnPublic = *r.ShowOrgNameOnPublic
	}
	if r.AllowPublicPdfDownload != nil {
		m.SettingsAllowPublicPdfDownload = *r.AllowPublicPdfDownload
	}
	if len(r.PortalMeta) > 0 {
		m.SettingsPortalMeta = r.PortalMeta
	}
}

type SettingsResponse struct {
	AutoVerifyImports      bool           `json:"auto_verify_imports"`
	RequireReviewForManual bool           `json:"require_review_for_manual"`
	ShowOrgNameOnPublic    bool           `json:"show_org_name_on_public"`
	AllowPublicPdfDownload bool           `json:"allow_public_pdf_download"`
	PortalMeta             datatypes.JSON `json:"portal_meta,omitempty"`
}

func NewSettingsResponse(m *settingsModel.AdminSettingsModel) SettingsResponse {
	return SettingsResponse{
		AutoVerifyImports:      m.SettingsAutoVerifyImports,
		RequireReviewForManual: m.SettingsRequireReviewForManual,
		ShowOrgNameOnPublic:    m.SettingsShowOrgNameOnPublic,
		AllowPublicPdfDownload: m.SettingsAllowPublicPdfDownload,
		PortalMeta:             m.SettingsPortalMeta,
	}
}
