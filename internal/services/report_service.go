package services

import (
	"context"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"warehouse/internal/domain"
	"warehouse/internal/repos"
)

const (
	dayLayout      = "2006-01-02"
	topProductsMax = 10

	missingProductName = "Produto não encontrado"
	missingProductCode = "N/A"
)

type ProductRanking struct {
	ProductID string          `json:"produtoId"`
	Name      string          `json:"nome"`
	Code      string          `json:"codigo"`
	Unit      domain.Unit     `json:"unidade"`
	Quantity  decimal.Decimal `json:"quantidade"`
	Revenue   decimal.Decimal `json:"faturamento"`
}

type DaySummary struct {
	Date       string          `json:"data"`
	SalesCount int             `json:"vendas"`
	Revenue    decimal.Decimal `json:"faturamento"`
}

type PeriodReport struct {
	Start         string           `json:"inicio"`
	End           string           `json:"fim"`
	SalesCount    int              `json:"vendas"`
	Revenue       decimal.Decimal  `json:"faturamento"`
	AverageTicket decimal.Decimal  `json:"ticketMedio"`
	TopProducts   []ProductRanking `json:"maisVendidos"`
	SalesByDay    []DaySummary     `json:"vendasPorDia"`
}

type Dashboard struct {
	TotalProducts int             `json:"totalProdutos"`
	SalesToday    int             `json:"vendasHoje"`
	RevenueToday  decimal.Decimal `json:"faturamentoHoje"`
	LowStock      int             `json:"baixoEstoque"`
}

// saleDay is the calendar day of a sale in loc; unparseable timestamps are
// left out of every report.
func saleDay(s domain.Sale, loc *time.Location) (string, bool) {
	t, err := time.Parse(time.RFC3339, s.Timestamp)
	if err != nil {
		return "", false
	}
	return t.In(loc).Format(dayLayout), true
}

func averageTicket(revenue decimal.Decimal, n int) decimal.Decimal {
	if n == 0 {
		return decimal.Zero
	}
	return revenue.Div(decimal.NewFromInt(int64(n))).Round(2)
}

// BuildPeriodReport aggregates the sales whose day in loc falls in
// [start, end]. start and end are read as calendar days in their own zone.
func BuildPeriodReport(sales []domain.Sale, lines []domain.SaleLine, products []domain.Product, start, end time.Time, loc *time.Location) PeriodReport {
	from, to := start.Format(dayLayout), end.Format(dayLayout)
	rep := PeriodReport{Start: from, End: to, Revenue: decimal.Zero}

	inRange := make(map[string]bool)
	byDay := make(map[string]*DaySummary)
	for _, s := range sales {
		day, ok := saleDay(s, loc)
		if !ok || day < from || day > to {
			continue
		}
		inRange[s.ID] = true
		rep.SalesCount++
		rep.Revenue = rep.Revenue.Add(s.Total)
		d := byDay[day]
		if d == nil {
			d = &DaySummary{Date: day, Revenue: decimal.Zero}
			byDay[day] = d
		}
		d.SalesCount++
		d.Revenue = d.Revenue.Add(s.Total)
	}
	rep.AverageTicket = averageTicket(rep.Revenue, rep.SalesCount)

	rep.SalesByDay = make([]DaySummary, 0, len(byDay))
	for _, d := range byDay {
		rep.SalesByDay = append(rep.SalesByDay, *d)
	}
	slices.SortFunc(rep.SalesByDay, func(a, b DaySummary) int { return strings.Compare(a.Date, b.Date) })

	rep.TopProducts = topProducts(lines, products, inRange)
	return rep
}

func topProducts(lines []domain.SaleLine, products []domain.Product, inRange map[string]bool) []ProductRanking {
	byID := make(map[string]domain.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}
	agg := make(map[string]*ProductRanking)
	for _, l := range lines {
		if !inRange[l.SaleID] {
			continue
		}
		r := agg[l.ProductID]
		if r == nil {
			r = &ProductRanking{
				ProductID: l.ProductID, Name: missingProductName, Code: missingProductCode,
				Unit: domain.UnitPiece, Quantity: decimal.Zero, Revenue: decimal.Zero,
			}
			if p, ok := byID[l.ProductID]; ok {
				r.Name, r.Code, r.Unit = p.Name, p.Code, p.Unit
			}
			agg[l.ProductID] = r
		}
		r.Quantity = r.Quantity.Add(l.Quantity)
		r.Revenue = r.Revenue.Add(l.Subtotal)
	}

	out := make([]ProductRanking, 0, len(agg))
	for _, r := range agg {
		out = append(out, *r)
	}
	slices.SortFunc(out, func(a, b ProductRanking) int {
		if c := b.Quantity.Cmp(a.Quantity); c != 0 {
			return c
		}
		if c := strings.Compare(a.Code, b.Code); c != 0 {
			return c
		}
		return strings.Compare(a.ProductID, b.ProductID)
	})
	if len(out) > topProductsMax {
		out = out[:topProductsMax]
	}
	return out
}

// BuildDailyClosing summarizes the sales of now's day in loc.
func BuildDailyClosing(sales []domain.Sale, now time.Time, loc *time.Location) domain.DailyClosing {
	today := now.In(loc).Format(dayLayout)
	dc := domain.DailyClosing{Kind: domain.ReportKindDailyClosing, Date: today, Revenue: decimal.Zero}
	for _, s := range sales {
		if day, ok := saleDay(s, loc); ok && day == today {
			dc.SalesCount++
			dc.Revenue = dc.Revenue.Add(s.Total)
		}
	}
	dc.AverageTicket = averageTicket(dc.Revenue, dc.SalesCount)
	return dc
}

func BuildDashboard(products []domain.Product, sales []domain.Sale, now time.Time, loc *time.Location) Dashboard {
	dc := BuildDailyClosing(sales, now, loc)
	d := Dashboard{TotalProducts: len(products), SalesToday: dc.SalesCount, RevenueToday: dc.Revenue}
	for _, p := range products {
		if p.Stock.LessThanOrEqual(domain.LowStockThreshold) {
			d.LowStock++
		}
	}
	return d
}

type ReportService struct {
	Sales   *repos.SaleRepo
	Prods   *repos.ProductRepo
	Reports *repos.ReportRepo

	loc *time.Location
	now func() time.Time
}

func NewReportService(sales *repos.SaleRepo, prods *repos.ProductRepo, reports *repos.ReportRepo, loc *time.Location) *ReportService {
	if loc == nil {
		loc = time.UTC
	}
	return &ReportService{Sales: sales, Prods: prods, Reports: reports, loc: loc, now: time.Now}
}

func (s *ReportService) Location() *time.Location { return s.loc }

func (s *ReportService) Period(ctx context.Context, start, end time.Time) (PeriodReport, error) {
	if end.Before(start) {
		return PeriodReport{}, domain.Invalid("fim", "end date is before start date")
	}
	sales, err := s.Sales.All(ctx)
	if err != nil {
		return PeriodReport{}, err
	}
	lines, err := s.Sales.AllLines(ctx)
	if err != nil {
		return PeriodReport{}, err
	}
	products, err := s.Prods.List(ctx)
	if err != nil {
		return PeriodReport{}, err
	}
	return BuildPeriodReport(sales, lines, products, start, end, s.loc), nil
}

func (s *ReportService) DailyClosing(ctx context.Context) (domain.DailyClosing, error) {
	sales, err := s.Sales.All(ctx)
	if err != nil {
		return domain.DailyClosing{}, err
	}
	return BuildDailyClosing(sales, s.now(), s.loc), nil
}

// SaveDailyClosing computes today's closing and stores it in relatorios.
func (s *ReportService) SaveDailyClosing(ctx context.Context) (domain.DailyClosing, error) {
	dc, err := s.DailyClosing(ctx)
	if err != nil {
		return domain.DailyClosing{}, err
	}
	dc.ID = uuid.NewString()
	dc.GeneratedAt = s.now().UTC().Format(time.RFC3339)
	return s.Reports.Save(ctx, dc)
}

func (s *ReportService) ListReports(ctx context.Context) ([]domain.DailyClosing, error) {
	return s.Reports.List(ctx)
}

func (s *ReportService) Dashboard(ctx context.Context) (Dashboard, error) {
	products, err := s.Prods.List(ctx)
	if err != nil {
		return Dashboard{}, err
	}
	sales, err := s.Sales.All(ctx)
	if err != nil {
		return Dashboard{}, err
	}
	return BuildDashboard(products, sales, s.now(), s.loc), nil
}
