package handlers

import (
	"pasar/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

type registerRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6,max=72"`
	Name     string `json:"name" validate:"required,min=2,max=100"`
}

type verifyEmailRequest struct {
	Email string `json:"email" validate:"required,email"`
	Token string `json:"token" validate:"required,len=6,numeric"`
}

type emailRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type resetPasswordRequest struct {
	Email       string `json:"email" validate:"required,email"`
	Token       string `json:"token" validate:"required,len=6,numeric"`
	NewPassword string `json:"newPassword" validate:"required,min=8,max=72"`
}

type manualResetRequest struct {
	Email       string `json:"email" validate:"required,email"`
	NewPassword string `json:"newPassword" validate:"required,min=8,max=72"`
}

// AuthHandler handles HTTP requests for authentication.
type AuthHandler struct {
	authService *services.AuthService
	validate    *validator.Validate
	devRoutes   bool
}

// NewAuthHandler creates a new AuthHandler. devRoutes mounts the
// verification and reset helpers that skip the emailed code.
func NewAuthHandler(authService *services.AuthService, devRoutes bool) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		validate:    validator.New(),
		devRoutes:   devRoutes,
	}
}

// RegisterRoutes registers the authentication routes with the Fiber app.
func (h *AuthHandler) RegisterRoutes(router fiber.Router) {
	authRoutes := router.Group("/auth")
	authRoutes.Post("/register", h.HandleRegister)
	authRoutes.Post("/verify-email", h.HandleVerifyEmail)
	authRoutes.Post("/resend-verification", h.HandleResendVerification)
	authRoutes.Post("/login", h.HandleLogin)
	authRoutes.Post("/forgot-password", h.HandleForgotPassword)
	authRoutes.Post("/reset-password", h.HandleResetPassword)

	if h.devRoutes {
		authRoutes.Post("/dev/verify-email", h.HandleManualVerify)
		authRoutes.Post("/dev/reset-password", h.HandleManualReset)
	}
}

// HandleRegister handles new user registration.
func (h *AuthHandler) HandleRegister(c *fiber.Ctx) error {
	var req registerRequest
	if err := bind(c, h.validate, &req); err != nil {
		return err
	}
	res, err := h.authService.Register(c.UserContext(), req.Email, req.Password, req.Name)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(res)
}

func (h *AuthHandler) HandleVerifyEmail(c *fiber.Ctx) error {
	var req verifyEmailRequest
	if err := bind(c, h.validate, &req); err != nil {
		return err
	}
	res, err := h.authService.VerifyEmail(c.UserContext(), req.Email, req.Token)
	if err != nil {
		return err
	}
	return c.JSON(res)
}

func (h *AuthHandler) HandleResendVerification(c *fiber.Ctx) error {
	var req emailRequest
	if err := bind(c, h.validate, &req); err != nil {
		return err
	}
	res, err := h.authService.ResendVerification(c.UserContext(), req.Email)
	if err != nil {
		return err
	}
	return c.JSON(res)
}

// HandleLogin handles user login and returns a JWT token.
func (h *AuthHandler) HandleLogin(c *fiber.Ctx) error {
	var req loginRequest
	if err := bind(c, h.validate, &req); err != nil {
		return err
	}
	res, err := h.authService.Login(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return err
	}
	return c.JSON(res)
}

func (h *AuthHandler) HandleForgotPassword(c *fiber.Ctx) error {
	var req emailRequest
	if err := bind(c, h.validate, &req); err != nil {
		return err
	}
	res, err := h.authService.ForgotPassword(c.UserContext(), req.Email)
	if err != nil {
		return err
	}
	return c.JSON(res)
}

func (h *AuthHandler) HandleResetPassword(c *fiber.Ctx) error {
	var req resetPasswordRequest
	if err := bind(c, h.validate, &req); err != nil {
		return err
	}
	res, err := h.authService.ResetPassword(c.UserContext(), req.Email, req.Token, req.NewPassword)
	if err != nil {
		return err
	}
	return c.JSON(res)
}

func (h *AuthHandler) HandleManualVerify(c *fiber.Ctx) error {
	var req emailRequest
	if err := bind(c, h.validate, &req); err != nil {
		return err
	}
	res, err := h.authService.ManuallyVerifyEmail(c.UserContext(), req.Email)
	if err != nil {
		return err
	}
	return c.JSON(res)
}

func (h *AuthHandler) HandleManualReset(c *fiber.Ctx) error {
	var req manualResetRequest
	if err := bind(c, h.validate, &req); err != nil {
		return err
	}
	res, err := h.authService.ResetPasswordManually(c.UserContext(), req.Email, req.NewPassword)
	if err != nil {
		return err
	}
	return c.JSON(res)
}
