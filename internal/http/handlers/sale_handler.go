package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"warehouse/internal/domain"
	applog "warehouse/internal/log"
	"warehouse/internal/services"
)

type SaleHandler struct {
	Sales   *services.SaleService
	Catalog *services.CatalogService
}

// GET /api/v1/sales?limit=
func (h *SaleHandler) List(c *fiber.Ctx) error {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			return respondError(c, "sales.list", domain.Invalid("limit", "limit must be a non-negative integer"))
		}
		limit = n
	}
	sales, err := h.Sales.ListSales(c.UserContext(), limit)
	if err != nil {
		return respondError(c, "sales.list", err)
	}
	return c.JSON(sales)
}

// GET /api/v1/sales/:id
func (h *SaleHandler) Get(c *fiber.Ctx) error {
	id, err := pathID(c)
	if err != nil {
		return respondError(c, "sales.get", err)
	}
	sale, lines, err := h.Sales.GetSale(c.UserContext(), id)
	if err != nil {
		return respondError(c, "sales.get", err)
	}
	return c.JSON(fiber.Map{"venda": sale, "linhas": lines})
}

type receiptRow struct {
	Name      string
	Code      string
	Unit      domain.Unit
	Quantity  decimal.Decimal
	UnitPrice decimal.Decimal
	Subtotal  decimal.Decimal
}

// GET /sales/:id/receipt
func (h *SaleHandler) Receipt(c *fiber.Ctx) error {
	id, err := pathID(c)
	if err != nil {
		return notFoundPage(c, "Sale not found")
	}
	sale, lines, err := h.Sales.GetSale(c.UserContext(), id)
	if err != nil {
		if domain.Kind(err) == "not_found" {
			return notFoundPage(c, "Sale not found")
		}
		applog.Error(c, "sales.receipt.fail", err, map[string]any{"sale_id": id})
		return c.Status(statusFor(domain.Kind(err))).Render("notfound", fiber.Map{"Message": "Could not load this sale"})
	}
	products, err := h.Catalog.ListProducts(c.UserContext())
	if err != nil {
		applog.Error(c, "sales.receipt.fail", err, map[string]any{"sale_id": id})
		return c.Status(statusFor(domain.Kind(err))).Render("notfound", fiber.Map{"Message": "Could not load this sale"})
	}
	byID := make(map[string]domain.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}

	rows := make([]receiptRow, 0, len(lines))
	for _, l := range lines {
		r := receiptRow{
			Name: "Produto não encontrado", Code: "N/A", Unit: domain.UnitPiece,
			Quantity: l.Quantity, UnitPrice: l.UnitPrice, Subtotal: l.Subtotal,
		}
		if p, ok := byID[l.ProductID]; ok {
			r.Name, r.Code, r.Unit = p.Name, p.Code, p.Unit
		}
		rows = append(rows, r)
	}
	return render(c, "receipt", fiber.Map{"Sale": sale, "Rows": rows})
}
