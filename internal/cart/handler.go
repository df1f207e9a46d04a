package cart

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/wichananm65/storefront-backend/internal/pricing"
)

// Handler exposes cart pricing. The cart itself lives in the browser, so
// there is nothing to persist here.
type Handler struct {
	service *Service
}

func NewHandler(s *Service) *Handler {
	return &Handler{service: s}
}

func (h *Handler) RegisterPublicRoutes(app fiber.Router) {
	app.Post("/api/v1/cart/quote", h.quote)
}

type quoteRequest struct {
	Items          []LineInput `json:"items"`
	DeliveryMethod string      `json:"deliveryMethod"`
}

func (h *Handler) quote(c *fiber.Ctx) error {
	payload := new(quoteRequest)
	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}

	summary, err := h.service.Summarize(c.UserContext(), payload.Items, payload.DeliveryMethod)
	if err != nil {
		status, msg := StatusFor(err)
		return c.Status(status).JSON(fiber.Map{"message": msg})
	}
	return c.JSON(summary)
}

// StatusFor maps cart and pricing errors onto HTTP responses.
func StatusFor(err error) (int, string) {
	var unknown *pricing.UnknownItemError
	switch {
	case errors.As(err, &unknown):
		return fiber.StatusBadRequest, unknown.Error()
	case errors.Is(err, ErrInvalidLine), errors.Is(err, ErrInvalidDeliveryMethod), errors.Is(err, pricing.ErrInvalidQuantity),
		errors.Is(err, pricing.ErrAmountTooLarge):
		return fiber.StatusBadRequest, err.Error()
	default:
		return fiber.StatusInternalServerError, err.Error()
	}
}
