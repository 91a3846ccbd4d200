package handlers

import (
	"github.com/gofiber/fiber/v2"

	"warehouse/internal/domain"
	applog "warehouse/internal/log"
	"warehouse/internal/services"
)

// CheckoutHandler exposes the checkout journal for reconciliation.
type CheckoutHandler struct {
	Sales *services.SaleService
}

// GET /api/v1/checkouts?status=
func (h *CheckoutHandler) List(c *fiber.Ctx) error {
	status := domain.IntentStatus(c.Query("status"))
	switch status {
	case "", domain.IntentPending, domain.IntentCommitted, domain.IntentReverted, domain.IntentReconcile:
	default:
		return respondError(c, "checkouts.list", domain.Invalid("status", "unknown checkout status"))
	}
	list, err := h.Sales.ListIntents(c.UserContext(), status)
	if err != nil {
		return respondError(c, "checkouts.list", err)
	}
	return c.JSON(list)
}

// POST /api/v1/checkouts/recover
func (h *CheckoutHandler) Recover(c *fiber.Ctx) error {
	n, err := h.Sales.Recover(c.UserContext())
	if err != nil {
		return respondError(c, "checkouts.recover", err)
	}
	applog.Audit(c, "checkouts.recover", map[string]any{"settled": n})
	return c.JSON(fiber.Map{"revertidos": n})
}
