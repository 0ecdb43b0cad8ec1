package service

import (
	"errors"
	"fmt"
	"log"
	"time"

	"gorm.io/gorm"

	certDTO "certivo_backend/internals/features/certificates/certificate/dto"
	certModel "certivo_backend/internals/features/certificates/certificate/model"
	settingsModel "certivo_backend/internals/features/settings/model"
)

// VerificationService is the public read path: lookup by code, stamp
// verified_at, append one anonymous `lookup` activity, apply the portal
// redaction policy to the response only.
type VerificationService struct {
	DB *gorm.DB
}

func NewVerificationService(db *gorm.DB) *VerificationService {
	return &VerificationService{DB: db}
}

// VerifyByCode looks up a certificate by its normalized public code.
// A miss is a normal negative result, not an error: (nil, false, nil).
// A hit updates verified_at/updated_at (never status) and logs the lookup.
func (s *VerificationService) VerifyByCode(rawCode string, st settingsModel.AdminSettingsModel) (*certDTO.PublicCertificateResponse, bool, error) {
	code := NormalizeCode(rawCode)
	if code == "" {
		return nil, false, nil
	}

	var cert certModel.CertificateModel
	if err := s.DB.First(&cert, "certificate_code = ?", code).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, false, nil
		}
		return nil, false, err
	}

	now := time.Now()
	if err := s.DB.Model(&cert).Updates(map[string]interface{}{
		"certificate_verified_at": now,
		"updated_at":              now,
	}).Error; err != nil {
		return nil, false, err
	}
	cert.CertificateVerifiedAt = &now
	cert.UpdatedAt = now

	// Every lookup is logged, duplicates included. Anonymous action: admin nil.
	act := certModel.CertificateActivityModel{
		CertActivityCertificateID: cert.CertificateID,
		CertActivityAdminID:       nil,
		CertActivityType:          certModel.ActivityLookup,
		CertActivityDescription:   fmt.Sprintf("Public verification lookup for %s", cert.CertificateCode),
	}
	if err := s.DB.Create(&act).Error; err != nil {
		log.Printf("[ERROR] lookup activity write failed (code=%s): %v", cert.CertificateCode, err)
	}

	resp := certDTO.NewPublicCertificateResponse(&cert, st.SettingsShowOrgNameOnPublic)
	return &resp, true, nil
}
