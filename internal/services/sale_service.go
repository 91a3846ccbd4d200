package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"warehouse/internal/domain"
	applog "warehouse/internal/log"
	"warehouse/internal/metrics"
	"warehouse/internal/repos"
)

// SaleService commits carts as sales. The document store has no
// transactions, so every checkout is journaled in the checkouts collection
// and undone step by step when it fails part way.
type SaleService struct {
	Sales   *repos.SaleRepo
	Prods   *repos.ProductRepo
	Journal *repos.CheckoutRepo

	stock *sync.Mutex // shared with InventoryService
	now   func() time.Time
	newID func() string
}

func NewSaleService(sales *repos.SaleRepo, prods *repos.ProductRepo, journal *repos.CheckoutRepo, stock *sync.Mutex) *SaleService {
	return &SaleService{
		Sales: sales, Prods: prods, Journal: journal,
		stock: stock, now: time.Now, newID: uuid.NewString,
	}
}

type Receipt struct {
	Sale  domain.Sale       `json:"venda"`
	Lines []domain.SaleLine `json:"linhas"`
	Items []domain.CartItem `json:"itens"`
}

// Checkout persists the cart as one sale: header, then for each line the
// line record and the product's stock decrement. On success the cart is
// emptied. On failure the completed writes are undone in reverse, the cart
// goes back to Building and the cause is returned; if undoing fails too the
// error is a *domain.PartialCommitError.
func (s *SaleService) Checkout(ctx context.Context, cart *Cart) (Receipt, error) {
	items, err := cart.beginCommit()
	if err != nil {
		metrics.Checkouts.WithLabelValues("rejected").Inc()
		return Receipt{}, err
	}
	committed := false
	defer func() { cart.endCommit(committed) }()

	// Once started the sequence runs to the end or is compensated.
	ctx = context.WithoutCancel(ctx)

	s.stock.Lock()
	defer s.stock.Unlock()

	start := time.Now()
	defer func() { metrics.CheckoutDuration.Observe(time.Since(start).Seconds()) }()

	stamp := s.now().UTC().Format(time.RFC3339)
	sale := domain.Sale{ID: s.newID(), Timestamp: stamp, Total: decimal.Zero, LineCount: len(items)}
	lines := make([]domain.SaleLine, 0, len(items))
	for _, it := range items {
		sale.Total = sale.Total.Add(it.Subtotal)
		lines = append(lines, domain.SaleLine{
			ID:        s.newID(),
			SaleID:    sale.ID,
			ProductID: it.ProductID,
			Quantity:  it.Quantity,
			UnitPrice: it.UnitPrice,
			Subtotal:  it.Subtotal,
		})
	}

	intent := domain.CheckoutIntent{
		ID: sale.ID, Status: domain.IntentPending, Total: sale.Total,
		Lines: lines, Steps: []domain.CheckoutStep{}, CreatedAt: stamp, UpdatedAt: stamp,
	}
	if err := s.Journal.Open(ctx, intent); err != nil {
		metrics.Checkouts.WithLabelValues("rejected").Inc()
		return Receipt{}, fmt.Errorf("open checkout %s: %w", sale.ID, err)
	}

	if err := s.apply(ctx, &intent, sale, lines); err != nil {
		return Receipt{}, s.fail(ctx, &intent, err)
	}

	intent.Status = domain.IntentCommitted
	s.save(ctx, &intent)
	committed = true
	metrics.Checkouts.WithLabelValues("committed").Inc()
	metrics.SaleRevenue.Add(sale.Total.InexactFloat64())
	applog.Audit(nil, "checkout.commit", map[string]any{"sale_id": sale.ID, "total": sale.Total, "lines": len(lines)})
	return Receipt{Sale: sale, Lines: lines, Items: items}, nil
}

func (s *SaleService) apply(ctx context.Context, in *domain.CheckoutIntent, sale domain.Sale, lines []domain.SaleLine) error {
	if err := s.Sales.Create(ctx, sale); err != nil {
		return fmt.Errorf("persist sale: %w", err)
	}
	s.record(ctx, in, domain.CheckoutStep{Kind: domain.StepSaleHeader, RecordID: sale.ID})

	for _, l := range lines {
		if err := s.Sales.InsertLine(ctx, l); err != nil {
			return fmt.Errorf("persist line %s: %w", l.ID, err)
		}
		s.record(ctx, in, domain.CheckoutStep{Kind: domain.StepSaleLine, RecordID: l.ID, ProductID: l.ProductID})

		p, err := s.Prods.Get(ctx, l.ProductID)
		if err != nil {
			return fmt.Errorf("reload product %s: %w", l.ProductID, err)
		}
		left := p.Stock.Sub(l.Quantity)
		if left.IsNegative() {
			return fmt.Errorf("%w: %s has %s in stock, sale needs %s", domain.ErrInvariant, p.Code, p.Stock, l.Quantity)
		}
		p.Stock = left
		if _, err := s.Prods.Update(ctx, p); err != nil {
			return fmt.Errorf("decrement stock of %s: %w", p.ID, err)
		}
		s.record(ctx, in, domain.CheckoutStep{Kind: domain.StepStockUpdate, RecordID: p.ID, ProductID: p.ID, Quantity: l.Quantity})
	}
	return nil
}

// record appends a completed step and rewrites the journal entry.
func (s *SaleService) record(ctx context.Context, in *domain.CheckoutIntent, step domain.CheckoutStep) {
	in.Steps = append(in.Steps, step)
	s.save(ctx, in)
}

func (s *SaleService) save(ctx context.Context, in *domain.CheckoutIntent) {
	in.UpdatedAt = s.now().UTC().Format(time.RFC3339)
	if err := s.Journal.Save(ctx, *in); err != nil {
		applog.Error(nil, "checkout.journal.fail", err, map[string]any{"sale_id": in.ID, "status": in.Status, "steps": len(in.Steps)})
	}
}

func (s *SaleService) fail(ctx context.Context, in *domain.CheckoutIntent, cause error) error {
	left, cerr := s.compensate(ctx, in.Steps)
	if cerr == nil {
		in.Status = domain.IntentReverted
		in.Error = cause.Error()
		in.Steps = []domain.CheckoutStep{}
		s.save(ctx, in)
		metrics.Checkouts.WithLabelValues("reverted").Inc()
		applog.Warn(nil, "checkout.reverted", map[string]any{"sale_id": in.ID, "cause": cause.Error()})
		return fmt.Errorf("checkout %s reverted: %w", in.ID, cause)
	}

	in.Status = domain.IntentReconcile
	in.Error = fmt.Sprintf("%v; compensation: %v", cause, cerr)
	in.Steps = left
	s.save(ctx, in)
	metrics.Checkouts.WithLabelValues("partial").Inc()
	pc := &domain.PartialCommitError{SaleID: in.ID, Steps: left, Err: errors.Join(cause, cerr)}
	applog.Error(nil, "checkout.partial", pc, map[string]any{
		"sale_id":      in.ID,
		"total":        in.Total,
		"steps":        left,
		"cause":        cause.Error(),
		"compensation": cerr.Error(),
	})
	return pc
}

// compensate undoes steps last to first and returns the ones it could not
// undo. Records that are already gone count as undone.
func (s *SaleService) compensate(ctx context.Context, steps []domain.CheckoutStep) ([]domain.CheckoutStep, error) {
	var (
		left []domain.CheckoutStep
		errs []error
	)
	for i := len(steps) - 1; i >= 0; i-- {
		st := steps[i]
		if err := s.undo(ctx, st); err != nil && !errors.Is(err, domain.ErrNotFound) {
			left = append([]domain.CheckoutStep{st}, left...)
			errs = append(errs, fmt.Errorf("undo %s %s: %w", st.Kind, st.RecordID, err))
		}
	}
	return left, errors.Join(errs...)
}

func (s *SaleService) undo(ctx context.Context, st domain.CheckoutStep) error {
	switch st.Kind {
	case domain.StepStockUpdate:
		p, err := s.Prods.Get(ctx, st.ProductID)
		if err != nil {
			return err
		}
		p.Stock = p.Stock.Add(st.Quantity)
		_, err = s.Prods.Update(ctx, p)
		return err
	case domain.StepSaleLine:
		return s.Sales.DeleteLine(ctx, st.RecordID)
	case domain.StepSaleHeader:
		return s.Sales.Delete(ctx, st.RecordID)
	default:
		return fmt.Errorf("unknown step kind %q", st.Kind)
	}
}

// Recover undoes checkouts a crash left pending. Planned lines and the
// header are deleted even when their step was never journaled; stock is
// restored only for journaled decrements. It holds the stock lock, so a
// checkout still running in this process is never taken for a crashed one.
// It returns how many intents it settled.
func (s *SaleService) Recover(ctx context.Context) (int, error) {
	s.stock.Lock()
	defer s.stock.Unlock()

	pending, err := s.Journal.ByStatus(ctx, domain.IntentPending)
	if err != nil {
		return 0, fmt.Errorf("list pending checkouts: %w", err)
	}

	settled := 0
	for _, p := range pending {
		cur, err := s.Journal.Get(ctx, p.ID)
		if err != nil {
			return settled, fmt.Errorf("reload checkout %s: %w", p.ID, err)
		}
		if cur.Status != domain.IntentPending {
			continue
		}
		in := &cur
		steps := []domain.CheckoutStep{{Kind: domain.StepSaleHeader, RecordID: in.ID}}
		for _, l := range in.Lines {
			steps = append(steps, domain.CheckoutStep{Kind: domain.StepSaleLine, RecordID: l.ID, ProductID: l.ProductID})
		}
		for _, st := range in.Steps {
			if st.Kind == domain.StepStockUpdate {
				steps = append(steps, st)
			}
		}

		left, cerr := s.compensate(ctx, steps)
		if cerr != nil {
			in.Status = domain.IntentReconcile
			in.Error = fmt.Sprintf("interrupted; compensation: %v", cerr)
			in.Steps = left
			s.save(ctx, in)
			applog.Error(nil, "checkout.recover.partial", cerr, map[string]any{"sale_id": in.ID, "steps": left})
			continue
		}
		in.Status = domain.IntentReverted
		in.Error = "interrupted before completion"
		in.Steps = []domain.CheckoutStep{}
		s.save(ctx, in)
		settled++
		applog.Warn(nil, "checkout.recovered", map[string]any{"sale_id": in.ID})
	}
	return settled, nil
}

// ListSales returns sales newest first; limit <= 0 means all.
func (s *SaleService) ListSales(ctx context.Context, limit int) ([]domain.Sale, error) {
	return s.Sales.ListLatest(ctx, limit)
}

func (s *SaleService) GetSale(ctx context.Context, id string) (domain.Sale, []domain.SaleLine, error) {
	return s.Sales.Get(ctx, id)
}

func (s *SaleService) ListIntents(ctx context.Context, status domain.IntentStatus) ([]domain.CheckoutIntent, error) {
	return s.Journal.ByStatus(ctx, status)
}
