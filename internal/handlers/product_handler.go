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

type productStatusRequest struct {
	Status models.ProductStatus `json:"status" validate:"required"`
}

// ProductHandler handles HTTP requests for products.
type ProductHandler struct {
	service  *services.ProductService
	guard    *middleware.Guard
	validate *validator.Validate
}

// NewProductHandler creates a new ProductHandler.
func NewProductHandler(service *services.ProductService, guard *middleware.Guard) *ProductHandler {
	return &ProductHandler{service: service, guard: guard, validate: validator.New()}
}

// RegisterRoutes registers the product routes with the Fiber app.
func (h *ProductHandler) RegisterRoutes(router fiber.Router) {
	products := router.Group("/products")
	products.Get("/", h.guard.Require(middleware.OpProductsList), h.HandleGetProducts)
	products.Get("/name/:name", h.guard.Require(middleware.OpProductsGetByName), h.HandleGetProductByName)
	products.Get("/:id", h.guard.Require(middleware.OpProductsGet), h.HandleGetProductByID)
	products.Post("/", h.guard.Require(middleware.OpProductsCreate), h.HandleCreateProduct)
	products.Put("/:id", h.guard.Require(middleware.OpProductsUpdate), h.HandleUpdateProduct)
	products.Delete("/:id", h.guard.Require(middleware.OpProductsDelete), h.HandleDeleteProduct)
	products.Patch("/:id/status", h.guard.Require(middleware.OpProductsUpdateStatus), h.HandleUpdateStatus)
}

// HandleGetProducts retrieves all products.
func (h *ProductHandler) HandleGetProducts(c *fiber.Ctx) error {
	products, err := h.service.GetAllProducts(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(products)
}

// HandleGetProductByID retrieves a single product by its ID.
func (h *ProductHandler) HandleGetProductByID(c *fiber.Ctx) error {
	product, err := h.service.GetProductByID(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(product)
}

// HandleGetProductByName retrieves a product by its exact name.
func (h *ProductHandler) HandleGetProductByName(c *fiber.Ctx) error {
	name, err := url.PathUnescape(c.Params("name"))
	if err != nil {
		return apperror.BadRequest("Invalid product name")
	}
	product, err := h.service.GetProductByName(c.UserContext(), name)
	if err != nil {
		return err
	}
	return c.JSON(product)
}

// HandleCreateProduct creates a new product in PENDING state.
func (h *ProductHandler) HandleCreateProduct(c *fiber.Ctx) error {
	identity, err := caller(c)
	if err != nil {
		return err
	}
	var in services.ProductInput
	if err := bind(c, h.validate, &in); err != nil {
		return err
	}
	product, err := h.service.CreateProduct(c.UserContext(), identity, in)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(product)
}

// HandleUpdateProduct updates an existing product.
func (h *ProductHandler) HandleUpdateProduct(c *fiber.Ctx) error {
	var in services.ProductInput
	if err := bind(c, h.validate, &in); err != nil {
		return err
	}
	product, err := h.service.UpdateProduct(c.UserContext(), c.Params("id"), in)
	if err != nil {
		return err
	}
	return c.JSON(product)
}

// HandleDeleteProduct deletes a product by its ID.
func (h *ProductHandler) HandleDeleteProduct(c *fiber.Ctx) error {
	if err := h.service.DeleteProduct(c.UserContext(), c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *ProductHandler) HandleUpdateStatus(c *fiber.Ctx) error {
	var req productStatusRequest
	if err := bind(c, h.validate, &req); err != nil {
		return err
	}
	product, err := h.service.UpdateStatus(c.UserContext(), c.Params("id"), req.Status)
	if err != nil {
		return err
	}
	return c.JSON(product)
}
