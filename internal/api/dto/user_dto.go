package dto

import (
	"time"

	"github.com/spec-kit/helpdesk/internal/domain"
)

// UserRegisterRequest payload for new users.
type UserRegisterRequest struct {
	Email      string   `json:"email" validate:"required,email"`
	Password   string   `json:"password" validate:"required,min=6,max=72"`
	Name       string   `json:"name" validate:"required,max=120"`
	Interest   []string `json:"interest" validate:"omitempty,dive,required"`
	Language   string   `json:"language" validate:"omitempty,oneof=English Hindi French"`
	ProfilePic string   `json:"profilePic" validate:"omitempty,url"`
}

// UserLoginRequest payload for login.
type UserLoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// ProfileUpdateRequest lists the editable profile fields. Absent fields are kept.
type ProfileUpdateRequest struct {
	Name       *string  `json:"name" validate:"omitempty,min=1,max=120"`
	Interest   []string `json:"interest" validate:"omitempty,dive,required"`
	Language   *string  `json:"language" validate:"omitempty,oneof=English Hindi French"`
	ProfilePic *string  `json:"profilePic" validate:"omitempty,url"`
}

// PasswordChangeRequest payload for authenticated password changes.
type PasswordChangeRequest struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword" validate:"required,min=6,max=72"`
}

// RoleChangeRequest asks for a different role.
type RoleChangeRequest struct {
	RequestedRole string `json:"requestedRole" validate:"required"`
}

// UserResponse is the public view of an account.
type UserResponse struct {
	ID         string    `json:"id"`
	Email      string    `json:"email"`
	Name       string    `json:"name"`
	Role       string    `json:"role"`
	Interest   []string  `json:"interest"`
	Language   string    `json:"language,omitempty"`
	ProfilePic string    `json:"profilePic,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
}

// LoginResponse carries the issued credential.
type LoginResponse struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expiresAt"`
	User      UserResponse `json:"user"`
}

// NewUserResponse maps an account, never exposing its password hash.
func NewUserResponse(user *domain.User) UserResponse {
	interest := user.Interest
	if interest == nil {
		interest = []string{}
	}
	return UserResponse{
		ID:         user.ID,
		Email:      user.Email,
		Name:       user.Name,
		Role:       string(user.Role),
		Interest:   interest,
		Language:   string(user.Language),
		ProfilePic: user.ProfilePic,
		CreatedAt:  user.CreatedAt,
	}
}
