package store

import (
	"github.com/shopspring/decimal"

	"warehouse/internal/domain"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

// seedOrder writes products last: its key doubles as the "already seeded"
// marker, so a crash mid-seed retries the whole set.
var seedOrder = []string{Sales, SaleLines, Reports, Products}

var seedData = map[string]any{
	Products: []domain.Product{
		{ID: "prod001", Name: "Arroz Branco 5kg", Code: "ARR001", Price: d("25.90"), Stock: d("50"), Category: domain.CategoryFood, Unit: domain.UnitPiece},
		{ID: "prod002", Name: "Feijão Preto 1kg", Code: "FEI001", Price: d("8.50"), Stock: d("30"), Category: domain.CategoryFood, Unit: domain.UnitPiece},
		{ID: "prod003", Name: "Carne Bovina", Code: "CAR001", Price: d("32.90"), Stock: d("15"), Category: domain.CategoryFood, Unit: domain.UnitKilogram},
		{ID: "prod004", Name: "Detergente Líquido", Code: "DET001", Price: d("3.50"), Stock: d("8"), Category: domain.CategoryCleaning, Unit: domain.UnitPiece},
		{ID: "prod005", Name: "Leite Integral 1L", Code: "LEI001", Price: d("4.80"), Stock: d("25"), Category: domain.CategoryBeverages, Unit: domain.UnitPiece},
	},
	Sales: []domain.Sale{
		{ID: "venda001", Timestamp: "2025-09-21T10:30:00Z", Total: d("47.70"), LineCount: 3},
	},
	SaleLines: []domain.SaleLine{
		{ID: "item001", SaleID: "venda001", ProductID: "prod001", Quantity: d("1"), UnitPrice: d("25.90"), Subtotal: d("25.90")},
		{ID: "item002", SaleID: "venda001", ProductID: "prod002", Quantity: d("2"), UnitPrice: d("8.50"), Subtotal: d("17.00")},
		{ID: "item003", SaleID: "venda001", ProductID: "prod005", Quantity: d("1"), UnitPrice: d("4.80"), Subtotal: d("4.80")},
	},
	Reports: []domain.DailyClosing{},
}
