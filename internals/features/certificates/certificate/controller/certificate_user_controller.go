package controller

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	certDTO "certivo_backend/internals/features/certificates/certificate/dto"
	certModel "certivo_backend/internals/features/certificates/certificate/model"
	helper "certivo_backend/internals/helpers"
)

type CertificateUserController struct {
	DB *gorm.DB
}

func NewCertificateUserController(db *gorm.DB) *CertificateUserController {
	return &CertificateUserController{DB: db}
}

// GET /api/u/certificates — the signed-in student's own certificates
func (ctrl *CertificateUserController) ListMine(c *fiber.Ctx) error {
	userID, err := helper.GetUserUUID(c)
	if err != nil {
		return err
	}

	paging := helper.ResolvePaging(c, 20, 100)

	q := ctrl.DB.Model(&certModel.CertificateModel{}).Where("certificate_user_id = ?", userID)

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

// GET /api/u/certificates/:id — ownership enforced in the query
func (ctrl *CertificateUserController) GetMine(c *fiber.Ctx) error {
	userID, err := helper.GetUserUUID(c)
	if err != nil {
		return err
	}

	certID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid certificate ID")
	}

	var cert certModel.CertificateModel
	if err := ctrl.DB.First(&cert, "certificate_id = ? AND certificate_user_id = ?", certID, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "Certificate not found")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to load certificate")
	}

	return helper.JsonOK(c, "Certificate loaded", certDTO.NewCertificateResponse(&cert))
}
