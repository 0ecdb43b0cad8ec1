package controller

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	settingsDTO "certivo_backend/internals/features/settings/dto"
	settingsService "certivo_backend/internals/features/settings/service"
	helper "certivo_backend/internals/helpers"
)

type SettingsController struct {
	DB *gorm.DB
}

func NewSettingsController(db *gorm.DB) *SettingsController {
	return &SettingsController{DB: db}
}

// GET /api/a/settings
func (ctrl *SettingsController) Get(c *fiber.Ctx) error {
	st, err := settingsService.GetAdminSettings(ctrl.DB)
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to load settings")
	}
	return helper.JsonOK(c, "Settings loaded", settingsDTO.NewSettingsResponse(&st))
}

// PUT /api/a/settings
func (ctrl *SettingsController) Update(c *fiber.Ctx) error {
	var req settingsDTO.UpdateSettingsRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}

	st, err := settingsService.GetAdminSettings(ctrl.DB)
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to load settings")
	}

	req.ApplyToModel(&st)
	if err := settingsService.SaveAdminSettings(ctrl.DB, &st); err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to save settings")
	}

	return helper.JsonOK(c, "Settings saved", settingsDTO.NewSettingsResponse(&st))
}
