package details

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	certController "certivo_backend/internals/features/certificates/certificate/controller"
	orgController "certivo_backend/internals/features/organizations/organization/controller"
	settingsController "certivo_backend/internals/features/settings/controller"
	userController "certivo_backend/internals/features/users/user/controller"
	"certivo_backend/internals/middlewares"
)

// AdminRoutes — the admin dashboard surface. The group already carries the
// auth middleware and the admin role check.
func AdminRoutes(admin fiber.Router, db *gorm.DB) {
	certs := certController.NewCertificateAdminController(db)
	orgs := orgController.NewOrganizationController(db)
	users := userController.NewUserAdminController(db)
	settings := settingsController.NewSettingsController(db)

	// certificates
	admin.Post("/certificates", certs.Create)
	admin.Post("/certificates/import", middlewares.ImportRateLimiter(), certs.Import)
	admin.Get("/certificates", certs.List)
	admin.Get("/certificates/:id", certs.GetByID)
	admin.Patch("/certificates/:id/status", certs.UpdateStatus)
	admin.Get("/certificates/:id/activities", certs.Activities)

	// organizations
	admin.Post("/organizations", orgs.Create)
	admin.Get("/organizations", orgs.List)
	admin.Get("/organizations/:id", orgs.GetByID)
	admin.Put("/organizations/:id", orgs.Update)

	// users
	admin.Get("/users", users.List)
	admin.Patch("/users/:id/active", users.SetActive)

	// settings
	admin.Get("/settings", settings.Get)
	admin.Put("/settings", settings.Update)
}
