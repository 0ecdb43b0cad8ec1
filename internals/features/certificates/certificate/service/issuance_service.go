package service

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"certivo_backend/internals/constants"
	certDTO "certivo_backend/internals/features/certificates/certificate/dto"
	certModel "certivo_backend/internals/features/certificates/certificate/model"
	orgModel "certivo_backend/internals/features/organizations/organization/model"
	settingsModel "certivo_backend/internals/features/settings/model"
	userModel "certivo_backend/internals/features/users/user/model"
	helper "certivo_backend/internals/helpers"
)

var (
	ErrOrganizationNotFound = errors.New("organization not found")
)

var validate = validator.New()

// IssuanceService owns certificate creation: single interactive issuance and
// the bulk spreadsheet import. Both paths share the subject resolver and the
// code generator with its bounded collision retry.
type IssuanceService struct {
	DB *gorm.DB
}

func NewIssuanceService(db *gorm.DB) *IssuanceService {
	return &IssuanceService{DB: db}
}

/* =======================================================
   SINGLE ISSUE
   ======================================================= */

// IssueSingle creates exactly one certificate from an admin form entry.
// Side effects: at most one subject is created, one certificate and one
// `issued` activity row are written.
func (s *IssuanceService) IssueSingle(req certDTO.CreateCertificateRequest, adminID uuid.UUID, st settingsModel.AdminSettingsModel) (*certModel.CertificateModel, error) {
	// Organization display-name snapshot. Deliberately denormalized: later
	// renames must not touch issued certificates.
	var orgName *string
	if req.OrganizationID != nil {
		orgID, err := uuid.Parse(*req.OrganizationID)
		if err != nil {
			return nil, ErrOrganizationNotFound
		}
		var org orgModel.OrganizationModel
		if err := s.DB.First(&org, "organization_id = ?", orgID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrOrganizationNotFound
			}
			return nil, err
		}
		orgName = &org.OrganizationName
	}

	// The first code candidate doubles as the placeholder-email seed when the
	// request carries neither email nor explicit subject id.
	seedCode := GenerateCertificateCode()

	var explicitID *uuid.UUID
	if req.UserID != nil {
		id, err := uuid.Parse(*req.UserID)
		if err != nil {
			return nil, ErrSubjectNotFound
		}
		explicitID = &id
	}

	subject, created, err := ResolveSubject(s.DB, ResolveSubjectInput{
		Name:            req.Name,
		Email:           req.Email,
		UserID:          explicitID,
		PlaceholderSeed: seedCode,
	})
	if err != nil {
		return nil, err
	}

	status := certModel.StatusVerified
	if st.SettingsRequireReviewForManual {
		status = certModel.StatusPending
	}

	cert := &certModel.CertificateModel{
		CertificateUserID:           subject.ID,
		CertificateIssuedBy:         &adminID,
		CertificateHolderName:       req.Name,
		CertificateProgram:          req.Domain,
		CertificateOrganizationName: orgName,
		CertificateDurationText:     req.DurationText,
		CertificateStatus:           status,
		CertificateIssuedAt:         req.ParseIssuedAt(),
	}

	first := true
	code, err := insertWithCodeRetry(maxCodeAttempts, func() string {
		if first {
			first = false
			return seedCode
		}
		return GenerateCertificateCode()
	}, func(code string) error {
		cert.CertificateCode = code
		return s.DB.Create(cert).Error
	})
	if err != nil {
		return nil, err
	}

	// A placeholder subject is seeded from the first code candidate. When a
	// collision forced a regeneration, rewrite the address from the code that
	// stuck so the synthesized email always matches the certificate.
	if created && req.Email == nil && explicitID == nil && code != seedCode {
		subject.Email = PlaceholderEmail(code)
		if err := s.DB.Model(subject).Update("email", subject.Email).Error; err != nil {
			log.Printf("[ERROR] placeholder email rewrite failed (user=%s code=%s): %v", subject.ID, code, err)
		}
	}

	s.logActivity(cert.CertificateID, &adminID, certModel.ActivityIssued,
		fmt.Sprintf("Certificate %s issued to %s for %s", cert.CertificateCode, cert.CertificateHolderName, cert.CertificateProgram))

	return cert, nil
}

/* =======================================================
   BATCH IMPORT
   ======================================================= */

// ImportBatch processes parsed spreadsheet rows with per-row isolation: one
// row failing never aborts the batch, and every skipped or failed row yields
// exactly one row-numbered error string. Successfully processed rows stay
// committed regardless of later failures.
func (s *IssuanceService) ImportBatch(rows []certDTO.ImportRow, adminID uuid.UUID, st settingsModel.AdminSettingsModel) (certDTO.ImportSummary, []string) {
	summary := certDTO.ImportSummary{TotalRows: len(rows)}
	rowErrors := make([]string, 0)

	status := certModel.StatusVerified
	if !st.SettingsAutoVerifyImports {
		status = certModel.StatusPending
	}

	for _, row := range rows {
		name := strings.TrimSpace(row.Name)
		email := strings.ToLower(strings.TrimSpace(row.Email))
		program := strings.TrimSpace(row.Program)

		if name == "" || email == "" || program == "" {
			rowErrors = append(rowErrors, fmt.Sprintf("Row %d: Name, Email and Program are required", row.RowNumber))
			continue
		}
		if err := validate.Var(email, "email"); err != nil {
			rowErrors = append(rowErrors, fmt.Sprintf("Row %d: invalid email %q", row.RowNumber, email))
			continue
		}

		subject, created, err := s.findOrCreateImportSubject(name, email)
		if err != nil {
			rowErrors = append(rowErrors, fmt.Sprintf("Row %d: could not resolve user: %v", row.RowNumber, err))
			continue
		}
		if created {
			summary.CreatedUsers++
		} else {
			summary.ExistingUsers++
		}

		var orgName *string
		if v := strings.TrimSpace(row.OrganizationName); v != "" {
			orgName = &v
		}
		var duration *string
		if v := strings.TrimSpace(row.DurationText); v != "" {
			duration = &v
		}

		cert := &certModel.CertificateModel{
			CertificateUserID:           subject.ID,
			CertificateIssuedBy:         &adminID,
			CertificateHolderName:       name,
			CertificateProgram:          program,
			CertificateOrganizationName: orgName,
			CertificateDurationText:     duration,
			CertificateStatus:           status,
			CertificateIssuedAt:         time.Now(),
		}

		if _, err := insertWithCodeRetry(maxCodeAttempts, GenerateCertificateCode, func(code string) error {
			cert.CertificateCode = code
			return s.DB.Create(cert).Error
		}); err != nil {
			rowErrors = append(rowErrors, fmt.Sprintf("Row %d: could not create certificate: %v", row.RowNumber, err))
			continue
		}

		s.logActivity(cert.CertificateID, &adminID, certModel.ActivityImported,
			fmt.Sprintf("Certificate %s imported for %s (%s)", cert.CertificateCode, name, program))

		summary.CreatedCertificates++
	}

	summary.ErrorCount = len(rowErrors)
	return summary, rowErrors
}

// findOrCreateImportSubject is the simplified resolver the import path uses:
// find-or-create restricted to role `user`, keyed by email. A second
// occurrence of the same email within one batch reuses the row created for
// the first and counts as existing.
func (s *IssuanceService) findOrCreateImportSubject(name, email string) (*userModel.UserModel, bool, error) {
	var u userModel.UserModel
	err := s.DB.First(&u, "lower(email) = ? AND role = ?", email, constants.RoleUser).Error
	if err == nil {
		return &u, false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, err
	}

	u = userModel.UserModel{
		UserName: name,
		Email:    email,
		Role:     constants.RoleUser,
		IsActive: true,
	}
	if err := s.DB.Create(&u).Error; err != nil {
		if helper.IsUniqueViolation(err) {
			var existing userModel.UserModel
			if err2 := s.DB.First(&existing, "lower(email) = ?", email).Error; err2 == nil {
				return &existing, false, nil
			}
		}
		return nil, false, err
	}
	return &u, true, nil
}

/* =======================================================
   STATUS CHANGE + ACTIVITY
   ======================================================= */

// UpdateStatus is the admin-driven status transition. Writes one
// `status_changed` activity row.
func (s *IssuanceService) UpdateStatus(certID uuid.UUID, status string, adminID uuid.UUID) (*certModel.CertificateModel, error) {
	var cert certModel.CertificateModel
	if err := s.DB.First(&cert, "certificate_id = ?", certID).Error; err != nil {
		return nil, err
	}

	previous := cert.CertificateStatus
	if err := s.DB.Model(&cert).Update("certificate_status", status).Error; err != nil {
		return nil, err
	}
	cert.CertificateStatus = status

	s.logActivity(cert.CertificateID, &adminID, certModel.ActivityStatusChanged,
		fmt.Sprintf("Status of %s changed from %s to %s", cert.CertificateCode, previous, status))

	return &cert, nil
}

// logActivity appends one audit row. The triggering write is already
// committed at this point, so a failed audit insert is logged, not surfaced.
func (s *IssuanceService) logActivity(certID uuid.UUID, adminID *uuid.UUID, activityType, description string) {
	act := certModel.CertificateActivityModel{
		CertActivityCertificateID: certID,
		CertActivityAdminID:       adminID,
		CertActivityType:          activityType,
		CertActivityDescription:   description,
	}
	if err := s.DB.Create(&act).Error; err != nil {
		log.Printf("[ERROR] activity log write failed (cert=%s type=%s): %v", certID, activityType, err)
	}
}
