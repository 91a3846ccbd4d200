package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"warehouse/internal/domain"
	applog "warehouse/internal/log"
	"warehouse/internal/services"
	"warehouse/internal/validate"
)

type CartHandler struct {
	Cart *services.CartService
}

type addItemRequest struct {
	ProductID string          `json:"produtoId"`
	Quantity  decimal.Decimal `json:"quantidade"`
}

// GET /api/v1/cart
func (h *CartHandler) View(c *fiber.Ctx) error {
	return c.JSON(h.Cart.View(ensureSID(c)))
}

// POST /api/v1/cart/items
func (h *CartHandler) Add(c *fiber.Ctx) error {
	sid := ensureSID(c)
	var req addItemRequest
	if err := c.BodyParser(&req); err != nil {
		return badBody(c, "cart.add", err)
	}
	productID, ok := validate.ID(req.ProductID)
	if !ok {
		return respondError(c, "cart.add", domain.Invalid("produtoId", "missing productId"))
	}
	cv, err := h.Cart.Add(c.UserContext(), sid, productID, req.Quantity)
	if err != nil {
		return respondError(c, "cart.add", err)
	}
	return c.JSON(cv)
}

// DELETE /api/v1/cart/items/:id
func (h *CartHandler) Remove(c *fiber.Ctx) error {
	id, err := pathID(c)
	if err != nil {
		return respondError(c, "cart.remove", err)
	}
	cv, err := h.Cart.Remove(ensureSID(c), id)
	if err != nil {
		return respondError(c, "cart.remove", err)
	}
	return c.JSON(cv)
}

// DELETE /api/v1/cart
func (h *CartHandler) Clear(c *fiber.Ctx) error {
	cv, err := h.Cart.Clear(ensureSID(c))
	if err != nil {
		return respondError(c, "cart.clear", err)
	}
	return c.JSON(cv)
}

// POST /api/v1/cart/checkout
func (h *CartHandler) Checkout(c *fiber.Ctx) error {
	sid := ensureSID(c)
	rc, err := h.Cart.Checkout(c.UserContext(), sid)
	if err != nil {
		return respondError(c, "sale.checkout", err)
	}
	applog.Audit(c, "sale.checkout", map[string]any{
		"sale_id": rc.Sale.ID,
		"total":   rc.Sale.Total,
		"lines":   rc.Sale.LineCount,
	})
	return c.Status(fiber.StatusCreated).JSON(rc)
}
