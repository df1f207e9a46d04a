package product

import (
	"errors"

	"github.com/gofiber/fiber/v2"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterPublicRoutes(app fiber.Router) {
	app.Get("/api/v1/categories", h.getCategories)
	app.Get("/api/v1/products", h.getProducts)
	app.Get("/api/v1/products/:id", h.getProduct)
}

func (h *Handler) getCategories(c *fiber.Ctx) error {
	return c.JSON(AllowedCategories)
}

// getProducts lists the catalog. `category` narrows to one category and
// `featured=true` returns only featured products.
func (h *Handler) getProducts(c *fiber.Ctx) error {
	ctx := c.UserContext()
	category := c.Query("category")

	var (
		products []Product
		err      error
	)
	switch {
	case category != "":
		if !IsAllowedCategory(category) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "unknown category"})
		}
		products, err = h.service.ListByCategory(ctx, category)
	case c.QueryBool("featured"):
		products, err = h.service.ListFeatured(ctx)
	default:
		products, err = h.service.List(ctx)
	}
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": err.Error()})
	}
	return c.JSON(products)
}

func (h *Handler) getProduct(c *fiber.Ctx) error {
	p, err := h.service.GetByID(c.UserContext(), c.Params("id"))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "product not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": err.Error()})
	}
	return c.JSON(p)
}
