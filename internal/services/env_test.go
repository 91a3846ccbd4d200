package services_test

import (
	"context"
	"encoding/json"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"warehouse/internal/config"
	"warehouse/internal/domain"
	"warehouse/internal/repos"
	"warehouse/internal/services"
	"warehouse/internal/store"
)

type env struct {
	store   store.CollectionStore
	prods   *repos.ProductRepo
	sales   *repos.SaleRepo
	journal *repos.CheckoutRepo
	catalog *services.CatalogService
	inv     *services.InventoryService
	sale    *services.SaleService
	cart    *services.CartService
	reports *services.ReportService
}

func localStore(t *testing.T) store.CollectionStore {
	t.Helper()
	s, closer, err := repos.OpenStore(context.Background(), config.Config{StoreBackend: "local", KVBackend: "sqlite", DBDSN: ":memory:"})
	require.NoError(t, err)
	t.Cleanup(func() { closer.Close() })
	return s
}

// newEnv wires the services over s, the seeded local store when s is nil.
func newEnv(t *testing.T, s store.CollectionStore) *env {
	t.Helper()
	if s == nil {
		s = localStore(t)
	}
	var stock sync.Mutex
	e := &env{
		store:   s,
		prods:   repos.NewProductRepo(s),
		sales:   repos.NewSaleRepo(s),
		journal: repos.NewCheckoutRepo(s),
	}
	e.catalog = services.NewCatalogService(e.prods)
	e.inv = services.NewInventoryService(repos.NewInventoryRepo(s), e.prods, &stock)
	e.sale = services.NewSaleService(e.sales, e.prods, e.journal, &stock)
	e.cart = services.NewCartService(services.NewCartSessions(), e.prods, e.sale)
	e.reports = services.NewReportService(e.sales, e.prods, repos.NewReportRepo(s), nil)
	return e
}

func (e *env) stockOf(t *testing.T, id string) decimal.Decimal {
	t.Helper()
	p, err := e.prods.Get(context.Background(), id)
	require.NoError(t, err)
	return p.Stock
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

// flakyStore fails chosen writes so checkout compensation can be observed.
type flakyStore struct {
	store.CollectionStore
	failUpdate map[string]string // collection -> id
	failDelete map[string]bool   // collection
}

func (f *flakyStore) Update(ctx context.Context, collection, id string, rec json.RawMessage) (json.RawMessage, error) {
	if f.failUpdate[collection] == id {
		return nil, domain.ErrTransport
	}
	return f.CollectionStore.Update(ctx, collection, id, rec)
}

func (f *flakyStore) Delete(ctx context.Context, collection, id string) error {
	if f.failDelete[collection] {
		return domain.ErrTransport
	}
	return f.CollectionStore.Delete(ctx, collection, id)
}

// gatedStore parks the first product update until release is closed.
type gatedStore struct {
	store.CollectionStore
	once    sync.Once
	reached chan struct{}
	release chan struct{}
}

func newGatedStore(s store.CollectionStore) *gatedStore {
	return &gatedStore{CollectionStore: s, reached: make(chan struct{}), release: make(chan struct{})}
}

func (g *gatedStore) Update(ctx context.Context, collection, id string, rec json.RawMessage) (json.RawMessage, error) {
	if collection == store.Products {
		g.once.Do(func() {
			close(g.reached)
			<-g.release
		})
	}
	return g.CollectionStore.Update(ctx, collection, id, rec)
}
