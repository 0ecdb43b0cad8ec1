package details

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	authController "certivo_backend/internals/features/users/auth/controller"
	"certivo_backend/internals/middlewares"
	authMiddleware "certivo_backend/internals/middlewares/auth"
)

func AuthRoutes(app *fiber.App, db *gorm.DB) {
	ctrl := authController.NewAuthController(db)

	auth := app.Group("/api/auth")
	auth.Post("/register", middlewares.RegisterRateLimiter(), ctrl.Register)
	auth.Post("/login", middlewares.LoginRateLimiter(), ctrl.Login)
	auth.Post("/login-google", middlewares.LoginRateLimiter(), ctrl.LoginGoogle)
	auth.Post("/logout", ctrl.Logout)
	auth.Get("/me", authMiddleware.AuthMiddleware(db), ctrl.Me)
}
