package controller

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	certDTO "certivo_backend/internals/features/certificates/certificate/dto"
	certService "certivo_backend/internals/features/certificates/certificate/service"
	settingsService "certivo_backend/internals/features/settings/service"
	helper "certivo_backend/internals/helpers"
)

type VerifyController struct {
	DB           *gorm.DB
	Verification *certService.VerificationService
}

func NewVerifyController(db *gorm.DB) *VerifyController {
	return &VerifyController{
		DB:           db,
		Verification: certService.NewVerificationService(db),
	}
}

// POST /api/public/certificates/verify
//
// A missing certificate is a normal negative result for this endpoint:
// HTTP 200 with found=false, never a 404.
func (ctrl *VerifyController) Verify(c *fiber.Ctx) error {
	var req certDTO.VerifyRequest
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

	cert, found, err := ctrl.Verification.VerifyByCode(req.Code, st)
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Verification failed, please try again")
	}
	if !found {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"found":   false,
			"message": "No certificate matches this code. Check the code and try again.",
		})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"found":       true,
		"certificate": cert,
	})
}
