package checkout

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/wichananm65/storefront-backend/internal/cart"
	"github.com/wichananm65/storefront-backend/internal/user"
)

type Handler struct {
	service *Service
}

func NewHandler(s *Service) *Handler {
	return &Handler{service: s}
}

// RegisterPublicRoutes mounts checkout behind identify, which should resolve
// an optional session so guests can still pay.
func (h *Handler) RegisterPublicRoutes(app fiber.Router, identify fiber.Handler) {
	app.Post("/api/v1/checkout/payment-intent", identify, h.createPaymentIntent)
}

type paymentIntentRequest struct {
	Items          []cart.LineInput `json:"items"`
	DeliveryMethod string           `json:"deliveryMethod"`
	CustomerEmail  string           `json:"customerEmail"`
	CustomerName   string           `json:"customerName"`
}

func (h *Handler) createPaymentIntent(c *fiber.Ctx) error {
	payload := new(paymentIntentRequest)
	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}

	req := Request{
		Lines:          payload.Items,
		DeliveryMethod: payload.DeliveryMethod,
		CustomerEmail:  payload.CustomerEmail,
		CustomerName:   payload.CustomerName,
	}
	if id, ok := user.IdentityFromCtx(c); ok {
		req.IdentityUserID = id.UserID
		req.IdentityEmail = id.Email
		req.IdentityName = id.Name
	}

	res, err := h.service.Authorize(c.UserContext(), req)
	if err != nil {
		if errors.Is(err, ErrEmptyCart) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Your cart is empty"})
		}
		var perr *ProcessorError
		if errors.As(err, &perr) {
			return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
				"message":   "We could not start the payment. Please try again.",
				"retryable": true,
			})
		}
		status, msg := cart.StatusFor(err)
		return c.Status(status).JSON(fiber.Map{"message": msg})
	}

	return c.JSON(fiber.Map{
		"clientSecret":    res.Authorization.ClientSecret,
		"paymentIntentId": res.Authorization.ExternalReference,
		"totals":          res.Quote,
	})
}
