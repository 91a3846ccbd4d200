package repos

import (
	"context"
	"slices"
	"strings"

	"warehouse/internal/domain"
	"warehouse/internal/store"
)

type SaleRepo struct {
	sales *store.Collection[domain.Sale]
	lines *store.Collection[domain.SaleLine]
}

func NewSaleRepo(s store.CollectionStore) *SaleRepo {
	return &SaleRepo{
		sales: store.NewCollection[domain.Sale](s, store.Sales),
		lines: store.NewCollection[domain.SaleLine](s, store.SaleLines),
	}
}

// Create inserts a sale header.
func (r *SaleRepo) Create(ctx context.Context, s domain.Sale) error {
	_, err := r.sales.Create(ctx, s)
	return err
}

// InsertLine inserts a single line item.
func (r *SaleRepo) InsertLine(ctx context.Context, l domain.SaleLine) error {
	_, err := r.lines.Create(ctx, l)
	return err
}

func (r *SaleRepo) Delete(ctx context.Context, saleID string) error {
	return r.sales.Delete(ctx, saleID)
}

func (r *SaleRepo) DeleteLine(ctx context.Context, lineID string) error {
	return r.lines.Delete(ctx, lineID)
}

// Get returns a sale with its lines.
func (r *SaleRepo) Get(ctx context.Context, saleID string) (domain.Sale, []domain.SaleLine, error) {
	s, err := r.sales.Get(ctx, saleID)
	if err != nil {
		return domain.Sale{}, nil, err
	}
	lines, err := r.lines.Where(ctx, "vendaId", saleID)
	if err != nil {
		return domain.Sale{}, nil, err
	}
	return s, lines, nil
}

// ListLatest returns sales newest first; limit <= 0 means all.
func (r *SaleRepo) ListLatest(ctx context.Context, limit int) ([]domain.Sale, error) {
	all, err := r.sales.All(ctx)
	if err != nil {
		return nil, err
	}
	// RFC3339 UTC timestamps sort lexically.
	slices.SortStableFunc(all, func(a, b domain.Sale) int { return strings.Compare(b.Timestamp, a.Timestamp) })
	if limit > 0 && len(all) > limit {
		all = all[:limit]
	}
	return all, nil
}

func (r *SaleRepo) All(ctx context.Context) ([]domain.Sale, error) { return r.sales.All(ctx) }

func (r *SaleRepo) AllLines(ctx context.Context) ([]domain.SaleLine, error) { return r.lines.All(ctx) }
