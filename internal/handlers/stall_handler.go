package handlers

import (
	"pasar/internal/middleware"
	"pasar/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// StallHandler handles HTTP requests for stalls.
type StallHandler struct {
	service  *services.StallService
	guard    *middleware.Guard
	validate *validator.Validate
}

func NewStallHandler(service *services.StallService, guard *middleware.Guard) *StallHandler {
	return &StallHandler{service: service, guard: guard, validate: validator.New()}
}

// RegisterRoutes registers the stall routes with the Fiber app. Reading a
// single stall is public.
func (h *StallHandler) RegisterRoutes(router fiber.Router) {
	stalls := router.Group("/stalls")
	stalls.Post("/", h.guard.Require(middleware.OpStallsCreate), h.HandleCreate)
	stalls.Get("/", h.guard.Require(middleware.OpStallsList), h.HandleList)
	stalls.Get("/:id", h.HandleGet)
	stalls.Patch("/:id", h.guard.Require(middleware.OpStallsUpdate), h.HandleUpdate)
	stalls.Delete("/:id", h.guard.Require(middleware.OpStallsDelete), h.HandleDelete)
}

func (h *StallHandler) HandleCreate(c *fiber.Ctx) error {
	identity, err := caller(c)
	if err != nil {
		return err
	}
	var in services.StallInput
	if err := bind(c, h.validate, &in); err != nil {
		return err
	}
	stall, err := h.service.Create(c.UserContext(), identity, in)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(stall)
}

func (h *StallHandler) HandleList(c *fiber.Ctx) error {
	stalls, err := h.service.List(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(stalls)
}

func (h *StallHandler) HandleGet(c *fiber.Ctx) error {
	stall, err := h.service.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(stall)
}

func (h *StallHandler) HandleUpdate(c *fiber.Ctx) error {
	identity, err := caller(c)
	if err != nil {
		return err
	}
	var in services.StallInput
	if err := bind(c, h.validate, &in); err != nil {
		return err
	}
	stall, err := h.service.Update(c.UserContext(), identity, c.Params("id"), in)
	if err != nil {
		return err
	}
	return c.JSON(stall)
}

func (h *StallHandler) HandleDelete(c *fiber.Ctx) error {
	identity, err := caller(c)
	if err != nil {
		return err
	}
	if err := h.service.Delete(c.UserContext(), identity, c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}
