package repos

import (
	"context"

	"warehouse/internal/domain"
	"warehouse/internal/store"
)

// CheckoutRepo is the checkout intent journal.
type CheckoutRepo struct {
	col *store.Collection[domain.CheckoutIntent]
}

func NewCheckoutRepo(s store.CollectionStore) *CheckoutRepo {
	return &CheckoutRepo{col: store.NewCollection[domain.CheckoutIntent](s, store.Checkouts)}
}

func (r *CheckoutRepo) Open(ctx context.Context, in domain.CheckoutIntent) error {
	_, err := r.col.Create(ctx, in)
	return err
}

func (r *CheckoutRepo) Save(ctx context.Context, in domain.CheckoutIntent) error {
	_, err := r.col.Update(ctx, in.ID, in)
	return err
}

func (r *CheckoutRepo) Get(ctx context.Context, id string) (domain.CheckoutIntent, error) {
	return r.col.Get(ctx, id)
}

// ByStatus lists intents in a status; "" lists all.
func (r *CheckoutRepo) ByStatus(ctx context.Context, status domain.IntentStatus) ([]domain.CheckoutIntent, error) {
	if status == "" {
		return r.col.All(ctx)
	}
	return r.col.Where(ctx, "status", string(status))
}
