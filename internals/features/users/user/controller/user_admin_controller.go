package controller

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	userDTO "certivo_backend/internals/features/users/user/dto"
	userModel "certivo_backend/internals/features/users/user/model"
	helper "certivo_backend/internals/helpers"
)

var validate = validator.New()

type UserAdminController struct {
	DB *gorm.DB
}

func NewUserAdminController(db *gorm.DB) *UserAdminController {
	return &UserAdminController{DB: db}
}

// GET /api/a/users?search=&role=&page=&per_page=
func (ctrl *UserAdminController) List(c *fiber.Ctx) error {
	paging := helper.ResolvePaging(c, 20, 100)

	q := ctrl.DB.Model(&userModel.UserModel{})
	if search := strings.TrimSpace(c.Query("search")); search != "" {
		like := "%" + search + "%"
		q = q.Where("user_name ILIKE ? OR email ILIKE ?", like, like)
	}
	if role := strings.TrimSpace(c.Query("role")); role != "" {
		q = q.Where("role = ?", role)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to count users")
	}

	var users []userModel.UserModel
	if err := q.Order("created_at DESC").Offset(paging.Offset).Limit(paging.Limit).Find(&users).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to load users")
	}

	items := make([]userDTO.UserResponse, 0, len(users))
	for i := range users {
		items = append(items, userDTO.NewUserResponse(&users[i]))
	}

	return helper.JsonList(c, "Users loaded", items, helper.BuildPagination(total, paging, len(items)))
}

// PATCH /api/a/users/:id/active — soft activate/deactivate, never delete
func (ctrl *UserAdminController) SetActive(c *fiber.Ctx) error {
	userID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid user ID")
	}

	var req userDTO.SetActiveRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := validate.Struct(req); err != nil {
		return helper.JsonValidationError(c, err)
	}

	var user userModel.UserModel
	if err := ctrl.DB.First(&user, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "User not found")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to load user")
	}

	if err := ctrl.DB.Model(&user).Update("is_active", *req.IsActive).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to update user")
	}
	user.IsActive = *req.IsActive

	return helper.JsonOK(c, "User updated", userDTO.NewUserResponse(&user))
}
