package repos

import (
	"context"

	"warehouse/internal/domain"
	"warehouse/internal/store"
)

type ReportRepo struct {
	col *store.Collection[domain.DailyClosing]
}

func NewReportRepo(s store.CollectionStore) *ReportRepo {
	return &ReportRepo{col: store.NewCollection[domain.DailyClosing](s, store.Reports)}
}

func (r *ReportRepo) Save(ctx context.Context, c domain.DailyClosing) (domain.DailyClosing, error) {
	return r.col.Create(ctx, c)
}

func (r *ReportRepo) List(ctx context.Context) ([]domain.DailyClosing, error) { return r.col.All(ctx) }
