package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"warehouse/internal/domain"
	applog "warehouse/internal/log"
	"warehouse/internal/services"
	"warehouse/internal/validate"
)

type InventoryHandler struct {
	Inv *services.InventoryService
}

type adjustRequest struct {
	Direction domain.Direction `json:"direcao"`
	Quantity  decimal.Decimal  `json:"quantidade"`
	Reason    string           `json:"motivo"`
}

// GET /api/v1/inventory
func (h *InventoryHandler) Overview(c *fiber.Ctx) error {
	ov, err := h.Inv.Overview(c.UserContext())
	if err != nil {
		return respondError(c, "inventory.overview", err)
	}
	return c.JSON(ov)
}

// GET /api/v1/availability?productId=
func (h *InventoryHandler) Check(c *fiber.Ctx) error {
	productID, ok := validate.ID(c.Query("productId"))
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "missing productId",
			"kind":  "validation",
		})
	}
	avail, err := h.Inv.CheckAvailability(c.UserContext(), productID)
	if err != nil {
		return respondError(c, "inventory.availability", err)
	}
	return c.JSON(avail)
}

// POST /api/v1/inventory/:id/adjust
func (h *InventoryHandler) Adjust(c *fiber.Ctx) error {
	id, err := pathID(c)
	if err != nil {
		return respondError(c, "inventory.adjust", err)
	}
	var req adjustRequest
	if err := c.BodyParser(&req); err != nil {
		return badBody(c, "inventory.adjust", err)
	}
	res, err := h.Inv.AdjustStock(c.UserContext(), id, req.Direction, req.Quantity, req.Reason)
	if err != nil {
		return respondError(c, "inventory.adjust", err)
	}
	applog.Audit(c, "inventory.adjust", map[string]any{
		"product_id": id,
		"direction":  req.Direction,
		"qty":        req.Quantity,
		"before":     res.Before,
		"after":      res.After,
		"reason":     res.Adjustment.Reason,
	})
	return c.JSON(res)
}

// GET /api/v1/inventory/adjustments?productId=
func (h *InventoryHandler) Adjustments(c *fiber.Ctx) error {
	productID := strings.TrimSpace(c.Query("productId"))
	if productID != "" {
		var ok bool
		if productID, ok = validate.ID(productID); !ok {
			return respondError(c, "inventory.adjustments", domain.Invalid("productId", "malformed id"))
		}
	}
	log, err := h.Inv.ListAdjustments(c.UserContext(), productID)
	if err != nil {
		return respondError(c, "inventory.adjustments", err)
	}
	return c.JSON(log)
}
