package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/helpdesk/internal/api/dto"
	"github.com/spec-kit/helpdesk/internal/domain"
	"github.com/spec-kit/helpdesk/internal/service"
)

// UsersHandler exposes account endpoints.
type UsersHandler struct {
	auth  *service.AuthService
	roles *service.RoleService
}

// NewUsersHandler constructs handler.
func NewUsersHandler(authService *service.AuthService, roleService *service.RoleService) *UsersHandler {
	return &UsersHandler{auth: authService, roles: roleService}
}

// Register handles POST /users/register.
func (h *UsersHandler) Register(c *fiber.Ctx) error {
	var req dto.UserRegisterRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	user, err := h.auth.Register(c.UserContext(), service.RegisterInput{
		Email:      req.Email,
		Password:   req.Password,
		Name:       req.Name,
		Interest:   req.Interest,
		Language:   domain.Language(req.Language),
		ProfilePic: req.ProfilePic,
	})
	if err != nil {
		return err
	}
	return data(c, http.StatusCreated, dto.NewUserResponse(user))
}

// Login handles POST /users/login.
func (h *UsersHandler) Login(c *fiber.Ctx) error {
	var req dto.UserLoginRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	result, err := h.auth.Login(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return err
	}
	return data(c, http.StatusOK, dto.LoginResponse{
		Token:     result.Token,
		ExpiresAt: result.ExpiresAt,
		User:      dto.NewUserResponse(result.User),
	})
}

// Profile handles GET /users/profile.
func (h *UsersHandler) Profile(c *fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	user, err := h.auth.GetProfile(c.UserContext(), p.UserID)
	if err != nil {
		return err
	}
	return data(c, http.StatusOK, dto.NewUserResponse(user))
}

// UpdateProfile handles PUT /users/profile.
func (h *UsersHandler) UpdateProfile(c *fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	var req dto.ProfileUpdateRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	update := service.ProfileUpdate{
		Name:       req.Name,
		Interest:   req.Interest,
		ProfilePic: req.ProfilePic,
	}
	if req.Language != nil {
		lang := domain.Language(*req.Language)
		update.Language = &lang
	}
	user, err := h.auth.UpdateProfile(c.UserContext(), p.UserID, update)
	if err != nil {
		return err
	}
	return data(c, http.StatusOK, dto.NewUserResponse(user))
}

// ChangePassword handles POST /users/changePassword.
func (h *UsersHandler) ChangePassword(c *fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	var req dto.PasswordChangeRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	if err := h.auth.ChangePassword(c.UserContext(), p.UserID, req.CurrentPassword, req.NewPassword); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

// ChangeRole handles POST /users/changerole.
func (h *UsersHandler) ChangeRole(c *fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	var req dto.RoleChangeRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	request, err := h.roles.Request(c.UserContext(), p, req.RequestedRole)
	if err != nil {
		return err
	}
	return data(c, http.StatusCreated, dto.NewRoleRequestResponse(request))
}
