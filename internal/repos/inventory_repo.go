package repos

import (
	"context"
	"slices"

	"github.com/shopspring/decimal"

	"warehouse/internal/domain"
	"warehouse/internal/store"
)

type InventoryRepo struct {
	products    *store.Collection[domain.Product]
	adjustments *store.Collection[domain.StockAdjustment]
}

func NewInventoryRepo(s store.CollectionStore) *InventoryRepo {
	return &InventoryRepo{
		products:    store.NewCollection[domain.Product](s, store.Products),
		adjustments: store.NewCollection[domain.StockAdjustment](s, store.Adjustments),
	}
}

// Qty returns the current stock of a product straight from the store.
func (r *InventoryRepo) Qty(ctx context.Context, productID string) (domain.Product, error) {
	return r.products.Get(ctx, productID)
}

// SetStock re-fetches the product and writes it back with stock = qty, so
// the rest of the record is whatever the store holds now.
func (r *InventoryRepo) SetStock(ctx context.Context, productID string, qty decimal.Decimal) (domain.Product, error) {
	p, err := r.products.Get(ctx, productID)
	if err != nil {
		return domain.Product{}, err
	}
	p.Stock = qty
	return r.products.Update(ctx, p.ID, p)
}

func (r *InventoryRepo) LogAdjustment(ctx context.Context, a domain.StockAdjustment) error {
	_, err := r.adjustments.Create(ctx, a)
	return err
}

// Adjustments lists logged adjustments, newest first; productID "" means all.
func (r *InventoryRepo) Adjustments(ctx context.Context, productID string) ([]domain.StockAdjustment, error) {
	var (
		out []domain.StockAdjustment
		err error
	)
	if productID == "" {
		out, err = r.adjustments.All(ctx)
	} else {
		out, err = r.adjustments.Where(ctx, "produtoId", productID)
	}
	if err != nil {
		return nil, err
	}
	slices.Reverse(out)
	return out, nil
}
