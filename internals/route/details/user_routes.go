package details

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	certController "certivo_backend/internals/features/certificates/certificate/controller"
)

// UserRoutes — signed-in students: their own certificates.
func UserRoutes(user fiber.Router, db *gorm.DB) {
	certs := certController.NewCertificateUserController(db)

	user.Get("/certificates", certs.ListMine)
	user.Get("/certificates/:id", certs.GetMine)
}
