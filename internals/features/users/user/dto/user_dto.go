package dto

import (
	"time"

	"github.com/google/uuid"

	userModel "certivo_backend/internals/features/users/user/model"
)

// UserResponse never exposes the password hash or Google subject id.
type UserResponse struct {
	ID        uuid.UUID `json:"id"`
	UserName  string    `json:"user_name"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}

func NewUserResponse(m *userModel.UserModel) UserResponse {
	return UserResponse{
		ID:        m.ID,
		UserName:  m.UserName,
		Email:     m.Email,
		Role:      m.Role,
		IsActive:  m.IsActive,
		CreatedAt: m.CreatedAt,
	}
}

// SetActiveRequest — soft activate/deactivate toggle; users are never deleted.
type SetActiveRequest struct {
	IsActive *bool `json:"is_active" validate:"required"`
}
