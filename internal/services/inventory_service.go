package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"warehouse/internal/domain"
	applog "warehouse/internal/log"
	"warehouse/internal/metrics"
	"warehouse/internal/repos"
	"warehouse/internal/validate"
)

type InventoryService struct {
	Inv   *repos.InventoryRepo
	Prods *repos.ProductRepo

	stock *sync.Mutex // shared with SaleService
	now   func() time.Time
}

func NewInventoryService(inv *repos.InventoryRepo, prods *repos.ProductRepo, stock *sync.Mutex) *InventoryService {
	return &InventoryService{Inv: inv, Prods: prods, stock: stock, now: time.Now}
}

type AdjustResult struct {
	Product    domain.Product         `json:"produto"`
	Before     decimal.Decimal        `json:"estoqueAnterior"`
	After      decimal.Decimal        `json:"estoqueNovo"`
	Adjustment domain.StockAdjustment `json:"ajuste"`
}

// AdjustStock applies a reasoned manual correction. Bad input is a
// validation error and a decrease below zero an invariant violation; in both
// cases nothing is written.
func (s *InventoryService) AdjustStock(ctx context.Context, productID string, dir domain.Direction, qty decimal.Decimal, reason string) (AdjustResult, error) {
	res, err := s.adjust(ctx, productID, dir, qty, reason)
	outcome := "ok"
	if err != nil {
		outcome = "rejected"
	}
	metrics.StockAdjustments.WithLabelValues(string(dir), outcome).Inc()
	return res, err
}

func (s *InventoryService) adjust(ctx context.Context, productID string, dir domain.Direction, qty decimal.Decimal, reason string) (AdjustResult, error) {
	if dir != domain.DirectionIncrease && dir != domain.DirectionDecrease {
		return AdjustResult{}, domain.Invalid("direcao", "direction must be entrada or saida")
	}
	if !qty.IsPositive() {
		return AdjustResult{}, domain.Invalid("quantidade", "quantity must be greater than zero")
	}
	reason, ok := validate.Reason(reason)
	if !ok {
		return AdjustResult{}, domain.Invalid("motivo", "reason is required")
	}

	s.stock.Lock()
	defer s.stock.Unlock()

	p, err := s.Inv.Qty(ctx, productID)
	if err != nil {
		return AdjustResult{}, err
	}
	if !validate.Quantity(qty, p.Unit) {
		return AdjustResult{}, domain.Invalid("quantidade", "products sold by unidade take whole quantities")
	}

	before := p.Stock
	after := before.Add(qty)
	if dir == domain.DirectionDecrease {
		after = before.Sub(qty)
		if after.IsNegative() {
			return AdjustResult{}, fmt.Errorf("%w: stock of %s cannot go below zero (have %s, remove %s)",
				domain.ErrInvariant, p.Code, before, qty)
		}
	}

	saved, err := s.Inv.SetStock(ctx, p.ID, after)
	if err != nil {
		return AdjustResult{}, err
	}

	adj := domain.StockAdjustment{
		ID: uuid.NewString(), ProductID: p.ID, Direction: dir, Quantity: qty,
		Before: before, After: after, Reason: reason,
		Timestamp: s.now().UTC().Format(time.RFC3339),
	}
	// The stock write already happened; a lost log entry must not undo it.
	if err := s.Inv.LogAdjustment(ctx, adj); err != nil {
		applog.Error(nil, "stock.adjust.log.fail", err, map[string]any{"product": p.ID, "before": before, "after": after, "reason": reason})
	}
	return AdjustResult{Product: saved, Before: before, After: after, Adjustment: adj}, nil
}

func (s *InventoryService) ListAdjustments(ctx context.Context, productID string) ([]domain.StockAdjustment, error) {
	return s.Inv.Adjustments(ctx, productID)
}

// CheckAvailability converts stock into IN_STOCK / LOW_STOCK / OUT_OF_STOCK.
func (s *InventoryService) CheckAvailability(ctx context.Context, productID string) (domain.Availability, error) {
	p, err := s.Inv.Qty(ctx, productID)
	if err != nil {
		return domain.Availability{}, err
	}
	return domain.Availability{Status: stockStatus(p.Stock), Qty: p.Stock, Unit: p.Unit}, nil
}

func stockStatus(qty decimal.Decimal) string {
	switch {
	case !qty.IsPositive():
		return "OUT_OF_STOCK"
	case qty.LessThanOrEqual(domain.LowStockThreshold):
		return "LOW_STOCK"
	default:
		return "IN_STOCK"
	}
}

type InventoryRow struct {
	Product domain.Product  `json:"produto"`
	Status  string          `json:"status"`
	Value   decimal.Decimal `json:"valor"`
}

type InventoryOverview struct {
	TotalProducts int             `json:"totalProdutos"`
	OutOfStock    int             `json:"semEstoque"`
	LowStock      int             `json:"baixoEstoque"`
	StockValue    decimal.Decimal `json:"valorTotal"`
	Rows          []InventoryRow  `json:"itens"`
}

// Overview summarizes stock levels and the value held (price x stock).
func (s *InventoryService) Overview(ctx context.Context) (InventoryOverview, error) {
	products, err := s.Prods.List(ctx)
	if err != nil {
		return InventoryOverview{}, err
	}
	ov := InventoryOverview{TotalProducts: len(products), StockValue: decimal.Zero, Rows: make([]InventoryRow, 0, len(products))}
	for _, p := range products {
		st := stockStatus(p.Stock)
		switch st {
		case "OUT_OF_STOCK":
			ov.OutOfStock++
		case "LOW_STOCK":
			ov.LowStock++
		}
		v := p.Price.Mul(p.Stock)
		ov.StockValue = ov.StockValue.Add(v)
		ov.Rows = append(ov.Rows, InventoryRow{Product: p, Status: st, Value: v})
	}
	return ov, nil
}
