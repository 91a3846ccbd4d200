package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"warehouse/internal/domain"
	applog "warehouse/internal/log"
	"warehouse/internal/services"
	"warehouse/internal/validate"
)

type ProductHandler struct {
	Catalog *services.CatalogService
}

// pathID validates :id; a malformed id is reported as not found.
func pathID(c *fiber.Ctx) (string, error) {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		applog.Warn(c, "validation.fail", map[string]any{"field": "id"})
		return "", domain.ErrNotFound
	}
	return id, nil
}

// GET /api/v1/products?q=
func (h *ProductHandler) List(c *fiber.Ctx) error {
	raw := strings.TrimSpace(c.Query("q"))
	if raw == "" {
		ps, err := h.Catalog.ListProducts(c.UserContext())
		if err != nil {
			return respondError(c, "products.list", err)
		}
		return c.JSON(ps)
	}
	q, ok := validate.Q(raw)
	if !ok {
		return respondError(c, "products.search", domain.Invalid("q", "search allows letters, digits and spaces (max 50)"))
	}
	ps, err := h.Catalog.Search(c.UserContext(), q)
	if err != nil {
		return respondError(c, "products.search", err)
	}
	return c.JSON(ps)
}

// GET /api/v1/products/:id
func (h *ProductHandler) Get(c *fiber.Ctx) error {
	id, err := pathID(c)
	if err != nil {
		return respondError(c, "products.get", err)
	}
	p, err := h.Catalog.GetProduct(c.UserContext(), id)
	if err != nil {
		return respondError(c, "products.get", err)
	}
	return c.JSON(p)
}

// POST /api/v1/products
func (h *ProductHandler) Create(c *fiber.Ctx) error {
	var in services.ProductInput
	if err := c.BodyParser(&in); err != nil {
		return badBody(c, "products.create", err)
	}
	p, err := h.Catalog.CreateProduct(c.UserContext(), in)
	if err != nil {
		return respondError(c, "products.create", err)
	}
	applog.Audit(c, "products.create", map[string]any{"product_id": p.ID, "code": p.Code})
	return c.Status(fiber.StatusCreated).JSON(p)
}

// PUT /api/v1/products/:id
func (h *ProductHandler) Update(c *fiber.Ctx) error {
	id, err := pathID(c)
	if err != nil {
		return respondError(c, "products.update", err)
	}
	var in services.ProductInput
	if err := c.BodyParser(&in); err != nil {
		return badBody(c, "products.update", err)
	}
	p, err := h.Catalog.UpdateProduct(c.UserContext(), id, in)
	if err != nil {
		return respondError(c, "products.update", err)
	}
	applog.Audit(c, "products.update", map[string]any{"product_id": p.ID, "code": p.Code, "stock": p.Stock})
	return c.JSON(p)
}

// DELETE /api/v1/products/:id
func (h *ProductHandler) Delete(c *fiber.Ctx) error {
	id, err := pathID(c)
	if err != nil {
		return respondError(c, "products.delete", err)
	}
	if err := h.Catalog.DeleteProduct(c.UserContext(), id); err != nil {
		return respondError(c, "products.delete", err)
	}
	applog.Audit(c, "products.delete", map[string]any{"product_id": id})
	return c.SendStatus(fiber.StatusNoContent)
}
