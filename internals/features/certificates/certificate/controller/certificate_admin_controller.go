package controller

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	certDTO "certivo_backend/internals/features/certificates/certificate/dto"
	certModel "certivo_backend/internals/features/certificates/certificate/model"
	certService "certivo_backend/internals/features/certificates/certificate/service"
	settingsService "certivo_backend/internals/features/settings/service"
	helper "certivo_backend/internals/helpers"
)

var validate = validator.New()

type CertificateAdminController struct {
	DB       *gorm.DB
	Issuance *certService.IssuanceService
}

func NewCertificateAdminController(db *gorm.DB) *CertificateAdminController {
	return &CertificateAdminController{
		DB:       db,
		Issuance: certService.NewIssuanceService(db),
	}
}

/* =======================================================
   CREATE (single issue)
   ======================================================= */

// POST /api/a/certificates
func (ctrl *CertificateAdminController) Create(c *fiber.Ctx) error {
	adminID, err := helper.GetUserUUID(c)
	if err != nil {
		return err
	}

	var req certDTO.CreateCertificateRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	req.Normalize()
	if err := validate.Struct(req); err != nil {
		return helper.JsonValidationError(c, err)
	}

	st, err := settingsService.GetAdminSettings(ctrl.DB)
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to load settings")
	}

	cert, err := ctrl.Issuance.IssueSingle(req, adminID, st)
	if err != nil {
		switch {
		case errors.Is(err, certService.ErrOrganizationNotFound):
			return helper.JsonError(c, fiber.StatusNotFound, "Organization not found")
		case errors.Is(err, certService.ErrSubjectNotFound):
			return helper.JsonError(c, fiber.StatusNotFound, "User not found")
		case errors.Is(err, certService.ErrCodeGenerationExhausted):
			return helper.JsonError(c, fiber.StatusConflict, "Could not generate a unique certificate code, please retry")
		default:
			return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to create certificate")
		}
	}

	return helper.JsonCreated(c, "Certificate issued", certDTO.NewCertificateResponse(cert))
}

/* =======================================================
   IMPORT (bulk spreadsheet)
   ======================================================= */

// POST /api/a/certificates/import  (multipart field "file")
func (ctrl *CertificateAdminController) Import(c *fiber.Ctx) error {
	adminID, err := helper.GetUserUUID(c)
	if err != nil {
		return err
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Missing import file")
	}
	f, err := fileHeader.Open()
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Could not read import file")
	}
	defer f.Close()

	rows, err := certService.ParseImportFile(fileHeader.Filename, f)
	if err != nil {
		switch {
		case errors.Is(err, certService.ErrUnsupportedImportFormat),
			errors.Is(err, certService.ErrEmptyImportFile),
			errors.Is(err, certService.ErrMissingImportColumns):
			return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
		default:
			return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to parse import file")
		}
	}

	st, err := settingsService.GetAdminSettings(ctrl.DB)
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to load settings")
	}

	summary, rowErrors := ctrl.Issuance.ImportBatch(rows, adminID, st)

	return helper.JsonOK(c, "Import processed", fiber.Map{
		"summary": summary,
		"errors":  rowErrors,
	})
}

/* =======================================================
   READ / STATUS
   ======================================================= */

// GET /api/a/certificates?search=&status=&page=&per_page=
func (ctrl *CertificateAdminController) List(c *fiber.Ctx) error {
	paging := helper.ResolvePaging(c, 20, 100)

	q := ctrl.DB.Model(&certModel.CertificateModel{})
	if search := c.Query("search"); search != "" {
		like := "%" + search + "%"
		q = q.Where("certificate_code ILIKE ? OR certificate_holder_name ILIKE ? OR certificate_program ILIKE ?", like, like, like)
	}
	if status := c.Query("status"); status != "" {
		q = q.Where("certificate_status = ?", status)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to count certificates")
	}

	var certs []certModel.CertificateModel
	if err := q.Order("created_at DESC").Offset(paging.Offset).Limit(paging.Limit).Find(&certs).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to load certificates")
	}

	items := make([]certDTO.CertificateResponse, 0, len(certs))
	for i := range certs {
		items = append(items, certDTO.NewCertificateResponse(&certs[i]))
	}

	return helper.JsonList(c, "Certificates loaded", items, helper.BuildPagination(total, paging, len(items)))
}

// GET /api/a/certificates/:id
func (ctrl *CertificateAdminController) GetByID(c *fiber.Ctx) error {
	certID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid certificate ID")
	}

	var cert certModel.CertificateModel
	if err := ctrl.DB.First(&cert, "certificate_id = ?", certID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "Certificate not found")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to load certificate")
	}

	return helper.JsonOK(c, "Certificate loaded", certDTO.NewCertificateResponse(&cert))
}

// PATCH /api/a/certificates/:id/status
func (ctrl *CertificateAdminController) UpdateStatus(c *fiber.Ctx) error {
	adminID, err := helper.GetUserUUID(c)
	if err != nil {
		return err
	}

	certID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid certificate ID")
	}

	var req certDTO.UpdateStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	req.Normalize()
	if err := validate.Struct(req); err != nil {
		return helper.JsonValidationError(c, err)
	}

	cert, err := ctrl.Issuance.UpdateStatus(certID, req.Status, adminID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "Certificate not found")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to update status")
	}

	return helper.JsonOK(c, "Status updated", certDTO.NewCertificateResponse(cert))
}

// GET /api/a/certificates/:id/activities
func (ctrl *CertificateAdminController) Activities(c *fiber.Ctx) error {
	certID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid certificate ID")
	}

	var activities []certModel.CertificateActivityModel
	if err := ctrl.DB.
		Where("cert_activity_certificate_id = ?", certID).
		Order("created_at DESC").
		Find(&activities).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to load activities")
	}

	return helper.JsonOK(c, "Activities loaded", activities)
}
