package details

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	certController "certivo_backend/internals/features/certificates/certificate/controller"
	"certivo_backend/internals/middlewares"
)

// PublicRoutes — unauthenticated surface: the certificate code lookup.
func PublicRoutes(public fiber.Router, db *gorm.DB) {
	verify := certController.NewVerifyController(db)

	public.Post("/certificates/verify", middlewares.VerifyRateLimiter(), verify.Verify)
}
