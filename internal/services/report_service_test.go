package services_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"warehouse/internal/domain"
	"warehouse/internal/services"
)

var reportProducts = []domain.Product{
	{ID: "p1", Name: "Arroz", Code: "ARR001", Unit: domain.UnitPiece, Stock: dec("50")},
	{ID: "p2", Name: "Feijão", Code: "FEI001", Unit: domain.UnitPiece, Stock: dec("5")},
}

func day(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestBuildPeriodReport_TopProductsAndDays(t *testing.T) {
	sales := []domain.Sale{
		{ID: "v1", Timestamp: "2025-09-21T10:30:00Z", Total: dec("25.90"), LineCount: 1},
		{ID: "v2", Timestamp: "2025-09-22T18:00:00Z", Total: dec("60.30"), LineCount: 2},
		{ID: "v3", Timestamp: "2025-10-01T08:00:00Z", Total: dec("100"), LineCount: 1},
		{ID: "v4", Timestamp: "not a date", Total: dec("1"), LineCount: 1},
	}
	lines := []domain.SaleLine{
		{SaleID: "v1", ProductID: "p1", Quantity: dec("1"), Subtotal: dec("25.90")},
		{SaleID: "v2", ProductID: "p1", Quantity: dec("2"), Subtotal: dec("51.80")},
		{SaleID: "v2", ProductID: "gone", Quantity: dec("1"), Subtotal: dec("8.50")},
		{SaleID: "v3", ProductID: "p2", Quantity: dec("10"), Subtotal: dec("100")},
	}

	rep := services.BuildPeriodReport(sales, lines, reportProducts, day("2025-09-21"), day("2025-09-30"), time.UTC)

	assert.Equal(t, 2, rep.SalesCount)
	assert.True(t, rep.Revenue.Equal(dec("86.20")))
	assert.True(t, rep.AverageTicket.Equal(dec("43.10")))

	require.Len(t, rep.TopProducts, 2)
	assert.Equal(t, "ARR001", rep.TopProducts[0].Code)
	assert.True(t, rep.TopProducts[0].Quantity.Equal(dec("3")))
	assert.True(t, rep.TopProducts[0].Revenue.Equal(dec("77.70")))
	assert.Equal(t, "Produto não encontrado", rep.TopProducts[1].Name)
	assert.Equal(t, "N/A", rep.TopProducts[1].Code)
	assert.Equal(t, domain.UnitPiece, rep.TopProducts[1].Unit)

	require.Len(t, rep.SalesByDay, 2)
	assert.Equal(t, "2025-09-21", rep.SalesByDay[0].Date)
	assert.Equal(t, "2025-09-22", rep.SalesByDay[1].Date)
	assert.Equal(t, 1, rep.SalesByDay[1].SalesCount)
}

func TestBuildPeriodReport_NoSales(t *testing.T) {
	rep := services.BuildPeriodReport(nil, nil, reportProducts, day("2025-01-01"), day("2025-01-31"), time.UTC)
	assert.Zero(t, rep.SalesCount)
	assert.True(t, rep.Revenue.IsZero())
	assert.True(t, rep.AverageTicket.IsZero())
	assert.Empty(t, rep.TopProducts)
	assert.Empty(t, rep.SalesByDay)
}

func TestBuildPeriodReport_DayFollowsLocation(t *testing.T) {
	sp := time.FixedZone("BRT", -3*3600)
	sales := []domain.Sale{{ID: "v1", Timestamp: "2025-09-22T01:00:00Z", Total: dec("10")}}

	rep := services.BuildPeriodReport(sales, nil, nil, day("2025-09-21"), day("2025-09-21"), sp)
	assert.Equal(t, 1, rep.SalesCount, "01:00Z is still the 21st in UTC-3")
	rep = services.BuildPeriodReport(sales, nil, nil, day("2025-09-21"), day("2025-09-21"), time.UTC)
	assert.Zero(t, rep.SalesCount)
}

func TestBuildDailyClosingAndDashboard(t *testing.T) {
	now := time.Date(2025, 9, 22, 20, 0, 0, 0, time.UTC)
	sales := []domain.Sale{
		{ID: "v1", Timestamp: "2025-09-21T10:30:00Z", Total: dec("47.70")},
		{ID: "v2", Timestamp: "2025-09-22T09:00:00Z", Total: dec("10")},
		{ID: "v3", Timestamp: "2025-09-22T19:00:00Z", Total: dec("5")},
	}

	dc := services.BuildDailyClosing(sales, now, time.UTC)
	assert.Equal(t, "2025-09-22", dc.Date)
	assert.Equal(t, domain.ReportKindDailyClosing, dc.Kind)
	assert.Equal(t, 2, dc.SalesCount)
	assert.True(t, dc.Revenue.Equal(dec("15")))
	assert.True(t, dc.AverageTicket.Equal(dec("7.5")))

	d := services.BuildDashboard(reportProducts, sales, now, time.UTC)
	assert.Equal(t, 2, d.TotalProducts)
	assert.Equal(t, 2, d.SalesToday)
	assert.Equal(t, 1, d.LowStock)
}

func TestReportService_SeededData(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t, nil)

	rep, err := e.reports.Period(ctx, day("2025-09-01"), day("2025-09-30"))
	require.NoError(t, err)
	assert.Equal(t, 1, rep.SalesCount)
	assert.True(t, rep.Revenue.Equal(dec("47.70")))
	require.Len(t, rep.TopProducts, 3)
	assert.Equal(t, "FEI001", rep.TopProducts[0].Code)
	assert.Equal(t, "ARR001", rep.TopProducts[1].Code)
	assert.Equal(t, "LEI001", rep.TopProducts[2].Code)

	_, err = e.reports.Period(ctx, day("2025-09-30"), day("2025-09-01"))
	assert.ErrorIs(t, err, domain.ErrValidation)

	saved, err := e.reports.SaveDailyClosing(ctx)
	require.NoError(t, err)
	assert.NotEmpty(t, saved.ID)
	list, err := e.reports.ListReports(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, saved.ID, list[0].ID)

	dash, err := e.reports.Dashboard(ctx)
	require.NoError(t, err)
	assert.Equal(t, 5, dash.TotalProducts)
	assert.Equal(t, 1, dash.LowStock)
}

func TestBuildPeriodReport_TopProductsCappedAtTen(t *testing.T) {
	// PRD11 ties PRD10 at 10 and PRD12 ties PRD03 at 3; PRD02 and PRD01 fall off.
	qty := map[string]int64{
		"PRD01": 1, "PRD02": 2, "PRD03": 3, "PRD04": 4, "PRD05": 5, "PRD06": 6,
		"PRD07": 7, "PRD08": 8, "PRD09": 9, "PRD10": 10, "PRD11": 10, "PRD12": 3,
	}
	sales := []domain.Sale{{ID: "v1", Timestamp: "2025-09-21T10:00:00Z", Total: dec("100")}}
	var (
		products []domain.Product
		lines    []domain.SaleLine
	)
	for i := 12; i >= 1; i-- {
		code := fmt.Sprintf("PRD%02d", i)
		id := "p" + code
		products = append(products, domain.Product{ID: id, Name: code, Code: code, Unit: domain.UnitPiece})
		lines = append(lines, domain.SaleLine{SaleID: "v1", ProductID: id, Quantity: decimal.NewFromInt(qty[code]), Subtotal: dec("1")})
	}

	want := []string{"PRD10", "PRD11", "PRD09", "PRD08", "PRD07", "PRD06", "PRD05", "PRD04", "PRD03", "PRD12"}
	for n := 0; n < 3; n++ {
		rep := services.BuildPeriodReport(sales, lines, products, day("2025-09-21"), day("2025-09-21"), time.UTC)
		require.Len(t, rep.TopProducts, 10)
		got := make([]string, 0, len(rep.TopProducts))
		for i, r := range rep.TopProducts {
			got = append(got, r.Code)
			if i > 0 {
				assert.False(t, r.Quantity.GreaterThan(rep.TopProducts[i-1].Quantity), "quantities must not increase")
			}
		}
		assert.Equal(t, want, got)
	}
}
