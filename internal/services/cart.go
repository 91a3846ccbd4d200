package services

import (
	"fmt"
	"slices"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"warehouse/internal/domain"
	"warehouse/internal/validate"
)

type Phase string

const (
	PhaseEmpty      Phase = "empty"
	PhaseBuilding   Phase = "building"
	PhaseCommitting Phase = "committing"
)

// Cart accumulates prospective sale lines. It is not safe for concurrent
// use; CartSessions serializes access per session.
type Cart struct {
	items      []domain.CartItem
	committing bool
}

func NewCart() *Cart { return &Cart{} }

func (c *Cart) Phase() Phase {
	switch {
	case c.committing:
		return PhaseCommitting
	case len(c.items) == 0:
		return PhaseEmpty
	default:
		return PhaseBuilding
	}
}

func (c *Cart) Items() []domain.CartItem { return slices.Clone(c.items) }

func (c *Cart) Len() int { return len(c.items) }

func (c *Cart) Total() decimal.Decimal {
	total := decimal.Zero
	for _, it := range c.items {
		total = total.Add(it.Subtotal)
	}
	return total
}

// Add puts qty of p in the cart, merging with an existing line for the same
// product. The merged quantity may not exceed p's stock; on any error the
// cart is left as it was.
func (c *Cart) Add(p domain.Product, qty decimal.Decimal) (domain.CartItem, error) {
	if c.committing {
		return domain.CartItem{}, domain.Invalid("carrinho", "checkout in progress")
	}
	if !qty.IsPositive() {
		return domain.CartItem{}, domain.Invalid("quantidade", "quantity must be greater than zero")
	}
	if !validate.Quantity(qty, p.Unit) {
		return domain.CartItem{}, domain.Invalid("quantidade", "products sold by unidade take whole quantities")
	}

	idx := slices.IndexFunc(c.items, func(it domain.CartItem) bool { return it.ProductID == p.ID })
	want := qty
	if idx >= 0 {
		want = c.items[idx].Quantity.Add(qty)
	}
	if want.GreaterThan(p.Stock) {
		return domain.CartItem{}, &domain.ValidationError{
			Field: "quantidade",
			Msg:   fmt.Sprintf("only %s %s of %s in stock", p.Stock, p.Unit, p.Code),
			Cause: domain.ErrStockExceeded,
		}
	}

	if idx >= 0 {
		it := &c.items[idx]
		it.Quantity = want
		it.Subtotal = want.Mul(it.UnitPrice)
		return *it, nil
	}
	it := domain.CartItem{
		ID:          uuid.NewString(),
		ProductID:   p.ID,
		ProductName: p.Name,
		ProductCode: p.Code,
		Unit:        p.Unit,
		Quantity:    qty,
		UnitPrice:   p.Price,
		Subtotal:    qty.Mul(p.Price),
	}
	c.items = append(c.items, it)
	return it, nil
}

func (c *Cart) Remove(itemID string) error {
	if c.committing {
		return domain.Invalid("carrinho", "checkout in progress")
	}
	idx := slices.IndexFunc(c.items, func(it domain.CartItem) bool { return it.ID == itemID })
	if idx < 0 {
		return fmt.Errorf("cart item %s: %w", itemID, domain.ErrNotFound)
	}
	c.items = slices.Delete(c.items, idx, idx+1)
	return nil
}

func (c *Cart) Clear() error {
	if c.committing {
		return domain.Invalid("carrinho", "checkout in progress")
	}
	c.items = nil
	return nil
}

// beginCommit freezes the cart and hands out its lines.
func (c *Cart) beginCommit() ([]domain.CartItem, error) {
	if c.committing {
		return nil, domain.Invalid("carrinho", "checkout in progress")
	}
	if len(c.items) == 0 {
		return nil, domain.Invalid("carrinho", "cart is empty")
	}
	c.committing = true
	return slices.Clone(c.items), nil
}

// endCommit empties the cart after a committed sale, or returns it to
// Building so the user can retry.
func (c *Cart) endCommit(committed bool) {
	c.committing = false
	if committed {
		c.items = nil
	}
}
