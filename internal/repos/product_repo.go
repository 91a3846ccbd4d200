package repos

import (
	"context"
	"strings"

	"warehouse/internal/domain"
	"warehouse/internal/store"
)

type ProductRepo struct {
	col *store.Collection[domain.Product]
}

func NewProductRepo(s store.CollectionStore) *ProductRepo {
	return &ProductRepo{col: store.NewCollection[domain.Product](s, store.Products)}
}

func (r *ProductRepo) List(ctx context.Context) ([]domain.Product, error) { return r.col.All(ctx) }

func (r *ProductRepo) Get(ctx context.Context, id string) (domain.Product, error) {
	return r.col.Get(ctx, id)
}

// Search matches q against name or code, case-insensitively.
func (r *ProductRepo) Search(ctx context.Context, q string) ([]domain.Product, error) {
	all, err := r.col.All(ctx)
	if err != nil {
		return nil, err
	}
	q = strings.ToLower(q)
	out := []domain.Product{}
	for _, p := range all {
		if strings.Contains(strings.ToLower(p.Name), q) || strings.Contains(strings.ToLower(p.Code), q) {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *ProductRepo) Create(ctx context.Context, p domain.Product) (domain.Product, error) {
	return r.col.Create(ctx, p)
}

// Update replaces the full record.
func (r *ProductRepo) Update(ctx context.Context, p domain.Product) (domain.Product, error) {
	return r.col.Update(ctx, p.ID, p)
}

func (r *ProductRepo) Delete(ctx context.Context, id string) error { return r.col.Delete(ctx, id) }
