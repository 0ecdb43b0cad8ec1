package service

import (
	"errors"
	"strings"
	"time"

	googleAuthIDTokenVerifier "github.com/futurenda/google-auth-id-token-verifier"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"gorm.io/gorm"

	"certivo_backend/internals/configs"
	"certivo_backend/internals/constants"
	authDTO "certivo_backend/internals/features/users/auth/dto"
	authHelper "certivo_backend/internals/features/users/auth/helper"
	userDTO "certivo_backend/internals/features/users/user/dto"
	userModel "certivo_backend/internals/features/users/user/model"
	helpers "certivo_backend/internals/helpers"
)

const accessTTL = 24 * time.Hour

var validate = validator.New()

func getJWTSecret() (string, error) {
	secret := strings.TrimSpace(configs.JWTSecret)
	if secret == "" {
		return "", errors.New("JWT_SECRET is not set")
	}
	return secret, nil
}

func signAccessToken(user *userModel.UserModel) (string, error) {
	secret, err := getJWTSecret()
	if err != nil {
		return "", err
	}
	now := time.Now().UTC()
	claims := jwt.MapClaims{
		"sub":       user.ID.String(),
		"user_name": user.UserName,
		"role":      user.Role,
		"iat":       now.Unix(),
		"exp":       now.Add(accessTTL).Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}

/* ==========================
   REGISTER
========================== */

func Register(db *gorm.DB, c *fiber.Ctx) error {
	var req authDTO.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return helpers.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	req.Normalize()
	if err := validate.Struct(req); err != nil {
		return helpers.JsonValidationError(c, err)
	}

	passwordHash, err := authHelper.HashPassword(req.Password)
	if err != nil {
		return helpers.JsonError(c, fiber.StatusInternalServerError, "Password hashing failed")
	}

	user := userModel.UserModel{
		UserName: req.UserName,
		Email:    req.Email,
		Password: &passwordHash,
		Role:     constants.RoleUser,
		IsActive: true,
	}
	if err := db.Create(&user).Error; err != nil {
		if helpers.IsUniqueViolation(err) {
			return helpers.JsonError(c, fiber.StatusConflict, "Email is already registered")
		}
		return helpers.JsonError(c, fiber.StatusInternalServerError, "Registration failed")
	}

	return helpers.JsonCreated(c, "Registration successful", userDTO.NewUserResponse(&user))
}

/* ==========================
   LOGIN
========================== */

func Login(db *gorm.DB, c *fiber.Ctx) error {
	var req authDTO.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return helpers.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	req.Normalize()
	if err := validate.Struct(req); err != nil {
		return helpers.JsonValidationError(c, err)
	}

	var user userModel.UserModel
	if err := db.First(&user, "lower(email) = ?", req.Email).Error; err != nil {
		// do not reveal whether the email exists
		return helpers.JsonError(c, fiber.StatusUnauthorized, "Invalid email or password")
	}
	if user.Password == nil || !authHelper.CheckPassword(*user.Password, req.Password) {
		return helpers.JsonError(c, fiber.StatusUnauthorized, "Invalid email or password")
	}
	if !user.IsActive {
		return helpers.JsonError(c, fiber.StatusForbidden, "Your account has been deactivated")
	}

	return respondWithToken(c, &user)
}

/* ==========================
   GOOGLE LOGIN
========================== */

func LoginGoogle(db *gorm.DB, c *fiber.Ctx) error {
	clientID := strings.TrimSpace(configs.GoogleClientID)
	if clientID == "" {
		return helpers.JsonError(c, fiber.StatusServiceUnavailable, "Google sign-in is not configured")
	}

	var req authDTO.GoogleLoginRequest
	if err := c.BodyParser(&req); err != nil {
		return helpers.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := validate.Struct(req); err != nil {
		return helpers.JsonValidationError(c, err)
	}

	v := googleAuthIDTokenVerifier.Verifier{}
	if err := v.VerifyIDToken(req.IDToken, []string{clientID}); err != nil {
		return helpers.JsonError(c, fiber.StatusUnauthorized, "Invalid Google token")
	}
	claimSet, err := googleAuthIDTokenVerifier.Decode(req.IDToken)
	if err != nil || claimSet.Email == "" {
		return helpers.JsonError(c, fiber.StatusUnauthorized, "Invalid Google token")
	}

	email := strings.ToLower(strings.TrimSpace(claimSet.Email))
	googleID := claimSet.Sub

	var user userModel.UserModel
	err = db.First(&user, "lower(email) = ?", email).Error
	switch {
	case err == nil:
		// link the Google subject on first Google sign-in
		if user.GoogleID == nil {
			if err := db.Model(&user).Update("google_id", googleID).Error; err != nil {
				return helpers.JsonError(c, fiber.StatusInternalServerError, "Login failed")
			}
			user.GoogleID = &googleID
		}
	case errors.Is(err, gorm.ErrRecordNotFound):
		user = userModel.UserModel{
			UserName: strings.TrimSpace(claimSet.Name),
			Email:    email,
			GoogleID: &googleID,
			Role:     constants.RoleUser,
			IsActive: true,
		}
		if err := db.Create(&user).Error; err != nil {
			return helpers.JsonError(c, fiber.StatusInternalServerError, "Login failed")
		}
	default:
		return helpers.JsonError(c, fiber.StatusInternalServerError, "Login failed")
	}

	if !user.IsActive {
		return helpers.JsonError(c, fiber.StatusForbidden, "Your account has been deactivated")
	}

	return respondWithToken(c, &user)
}

/* ==========================
   LOGOUT / ME
========================== */

// Logout clears the cookie; access tokens are short-lived and stateless.
func Logout(c *fiber.Ctx) error {
	c.Cookie(&fiber.Cookie{
		Name:     "access_token",
		Value:    "",
		Expires:  time.Now().Add(-time.Hour),
		HTTPOnly: true,
	})
	return helpers.JsonOK(c, "Logged out", nil)
}

func Me(db *gorm.DB, c *fiber.Ctx) error {
	userID, err := helpers.GetUserUUID(c)
	if err != nil {
		return err
	}

	var user userModel.UserModel
	if err := db.First(&user, "id = ?", userID).Error; err != nil {
		return helpers.JsonError(c, fiber.StatusNotFound, "User not found")
	}

	return helpers.JsonOK(c, "Profile loaded", userDTO.NewUserResponse(&user))
}

func respondWithToken(c *fiber.Ctx, user *userModel.UserModel) error {
	token, err := signAccessToken(user)
	if err != nil {
		return helpers.JsonError(c, fiber.StatusInternalServerError, "Could not sign token")
	}

	c.Cookie(&fiber.Cookie{
		Name:     "access_token",
		Value:    token,
		Expires:  time.Now().Add(accessTTL),
		HTTPOnly: true,
		Secure:   true,
		SameSite: "Lax",
	})

	return helpers.JsonOK(c, "Login successful", fiber.Map{
		"access_token": token,
		"user":         userDTO.NewUserResponse(user),
	})
}
