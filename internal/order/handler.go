package order

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/wichananm65/storefront-backend/internal/payment"
	"github.com/wichananm65/storefront-backend/internal/user"
)

const signatureHeader = "Stripe-Signature"

type Handler struct {
	service    *Service
	reconciler *Reconciler
}

func NewHandler(s *Service, rec *Reconciler) *Handler {
	return &Handler{service: s, reconciler: rec}
}

func (h *Handler) RegisterPublicRoutes(app fiber.Router) {
	app.Post("/api/v1/stripe/webhook", h.webhook)
}

func (h *Handler) RegisterProtectedRoutes(app fiber.Router) {
	app.Get("/api/v1/orders", h.getOrders)
	app.Get("/api/v1/orders/:number", h.getOrder)
}

// webhook answers 2xx only once the payment is safely recorded, so the
// processor keeps redelivering until then.
func (h *Handler) webhook(c *fiber.Ctx) error {
	payload := append([]byte(nil), c.Body()...)

	out, err := h.reconciler.HandleEvent(c.UserContext(), payload, c.Get(signatureHeader))
	if err != nil {
		var authErr *payment.AuthenticityError
		var transient *TransientStorageError
		switch {
		case errors.As(err, &authErr):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Webhook Error: " + authErr.Reason})
		case errors.As(err, &transient):
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "Error processing webhook"})
		default:
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
		}
	}

	resp := fiber.Map{"received": true}
	if out.Reconciled {
		if out.Result.AlreadyProcessed {
			resp["message"] = "Order already processed"
		}
		if out.Result.Order.OrderNumber != "" {
			resp["orderNumber"] = out.Result.Order.OrderNumber
		}
	}
	return c.JSON(resp)
}

func (h *Handler) getOrders(c *fiber.Ctx) error {
	id, ok := user.IdentityFromCtx(c)
	if !ok || id.UserID <= 0 {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
	}

	orders, err := h.service.ListForCustomer(c.UserContext(), id.UserID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": err.Error()})
	}
	return c.JSON(orders)
}

func (h *Handler) getOrder(c *fiber.Ctx) error {
	id, ok := user.IdentityFromCtx(c)
	if !ok || id.UserID <= 0 {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
	}

	ord, err := h.service.GetForCustomer(c.UserContext(), c.Params("number"), id.UserID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "order not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": err.Error()})
	}
	return c.JSON(ord)
}
