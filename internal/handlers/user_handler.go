package handlers

import (
	"net/url"

	"pasar/internal/apperror"
	"pasar/internal/middleware"
	"pasar/internal/models"
	"pasar/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

type changeRoleRequest struct {
	Role models.Role `json:"role" validate:"required"`
}

type changePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword" validate:"required,min=8,max=72"`
}

// UserHandler handles HTTP requests for user accounts.
type UserHandler struct {
	service  *services.UserService
	guard    *middleware.Guard
	validate *validator.Validate
}

func NewUserHandler(service *services.UserService, guard *middleware.Guard) *UserHandler {
	return &UserHandler{service: service, guard: guard, validate: validator.New()}
}

// RegisterRoutes registers the user routes with the Fiber app.
func (h *UserHandler) RegisterRoutes(router fiber.Router) {
	users := router.Group("/users")
	users.Get("/me", h.guard.Require(middleware.OpUsersMe), h.HandleMe)
	users.Patch("/me", h.guard.Require(middleware.OpUsersUpdateProfile), h.HandleUpdateProfile)
	users.Post("/", h.guard.Require(middleware.OpUsersCreate), h.HandleCreate)
	users.Get("/", h.guard.Require(middleware.OpUsersList), h.HandleList)
	users.Get("/email/:email", h.guard.Require(middleware.OpUsersGetByEmail), h.HandleGetByEmail)
	users.Get("/:id", h.guard.Require(middleware.OpUsersGet), h.HandleGet)
	users.Patch("/:id/role", h.guard.Require(middleware.OpUsersChangeRole), h.HandleChangeRole)
	users.Patch("/:id/password", h.guard.Require(middleware.OpUsersChangePassword), h.HandleChangePassword)
	users.Delete("/:id", h.guard.Require(middleware.OpUsersDelete), h.HandleDelete)
}

// HandleMe returns the profile of the caller.
func (h *UserHandler) HandleMe(c *fiber.Ctx) error {
	identity, err := caller(c)
	if err != nil {
		return err
	}
	user, err := h.service.Get(c.UserContext(), identity.Subject)
	if err != nil {
		return err
	}
	return c.JSON(user)
}

// HandleUpdateProfile changes the caller's name or email.
func (h *UserHandler) HandleUpdateProfile(c *fiber.Ctx) error {
	identity, err := caller(c)
	if err != nil {
		return err
	}
	var req services.ProfileUpdate
	if err := bind(c, h.validate, &req); err != nil {
		return err
	}
	user, err := h.service.UpdateProfile(c.UserContext(), identity, req)
	if err != nil {
		return err
	}
	return c.JSON(user)
}

// HandleCreate provisions an account with any role.
func (h *UserHandler) HandleCreate(c *fiber.Ctx) error {
	var req services.NewUser
	if err := bind(c, h.validate, &req); err != nil {
		return err
	}
	user, err := h.service.Create(c.UserContext(), req)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(user)
}

// HandleList returns a page of users (?page=&limit=).
func (h *UserHandler) HandleList(c *fiber.Ctx) error {
	page, err := h.service.List(c.UserContext(), c.QueryInt("page", 1), c.QueryInt("limit", services.DefaultPageSize))
	if err != nil {
		return err
	}
	return c.JSON(page)
}

func (h *UserHandler) HandleGet(c *fiber.Ctx) error {
	user, err := h.service.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(user)
}

func (h *UserHandler) HandleGetByEmail(c *fiber.Ctx) error {
	email, err := url.PathUnescape(c.Params("email"))
	if err != nil {
		return apperror.BadRequest("Invalid email")
	}
	user, err := h.service.GetByEmail(c.UserContext(), email)
	if err != nil {
		return err
	}
	return c.JSON(user)
}

func (h *UserHandler) HandleChangeRole(c *fiber.Ctx) error {
	var req changeRoleRequest
	if err := bind(c, h.validate, &req); err != nil {
		return err
	}
	user, err := h.service.ChangeRole(c.UserContext(), c.Params("id"), req.Role)
	if err != nil {
		return err
	}
	return c.JSON(user)
}

func (h *UserHandler) HandleChangePassword(c *fiber.Ctx) error {
	identity, err := caller(c)
	if err != nil {
		return err
	}
	var req changePasswordRequest
	if err := bind(c, h.validate, &req); err != nil {
		return err
	}
	user, err := h.service.ChangePassword(c.UserContext(), identity, c.Params("id"), req.CurrentPassword, req.NewPassword)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "Password changed successfully", "user": user})
}

func (h *UserHandler) HandleDelete(c *fiber.Ctx) error {
	identity, err := caller(c)
	if err != nil {
		return err
	}
	if err := h.service.Delete(c.UserContext(), identity, c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}
