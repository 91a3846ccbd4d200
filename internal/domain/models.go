package domain

import "github.com/shopspring/decimal"

func init() {
	// Records travel as plain JSON numbers, the same shape the document server stores.
	decimal.MarshalJSONWithoutQuotes = true
}

type Category string

const (
	CategoryFood        Category = "Alimentos"
	CategoryBeverages   Category = "Bebidas"
	CategoryCleaning    Category = "Limpeza"
	CategoryHygiene     Category = "Higiene"
	CategoryElectronics Category = "Eletronicos"
	CategoryOther       Category = "Outros"
)

// Categories lists the accepted product categories in display order.
var Categories = []Category{
	CategoryFood, CategoryBeverages, CategoryCleaning,
	CategoryHygiene, CategoryElectronics, CategoryOther,
}

type Unit string

const (
	UnitPiece    Unit = "unidade"
	UnitKilogram Unit = "kg"
)

// LowStockThreshold is the stock level at or below which a product is flagged.
var LowStockThreshold = decimal.NewFromInt(10)

type Product struct {
	ID       string          `json:"id"`
	Name     string          `json:"nome"`
	Code     string          `json:"codigo"`
	Price    decimal.Decimal `json:"preco"`
	Stock    decimal.Decimal `json:"estoque"`
	Category Category        `json:"categoria"`
	Unit     Unit            `json:"unidade"`
}

type Sale struct {
	ID        string          `json:"id"`
	Timestamp string          `json:"data"` // RFC3339, UTC
	Total     decimal.Decimal `json:"total"`
	LineCount int             `json:"itens"`
}

type SaleLine struct {
	ID        string          `json:"id"`
	SaleID    string          `json:"vendaId"`
	ProductID string          `json:"produtoId"`
	Quantity  decimal.Decimal `json:"quantidade"`
	UnitPrice decimal.Decimal `json:"preco"`
	Subtotal  decimal.Decimal `json:"subtotal"`
}

// CartItem is a prospective SaleLine plus the product fields shown at the till.
type CartItem struct {
	ID          string          `json:"id"`
	ProductID   string          `json:"produtoId"`
	ProductName string          `json:"nome"`
	ProductCode string          `json:"codigo"`
	Unit        Unit            `json:"unidade"`
	Quantity    decimal.Decimal `json:"quantidade"`
	UnitPrice   decimal.Decimal `json:"preco"`
	Subtotal    decimal.Decimal `json:"subtotal"`
}

type Availability struct {
	Status string          `json:"status"` // IN_STOCK | LOW_STOCK | OUT_OF_STOCK
	Qty    decimal.Decimal `json:"qty"`
	Unit   Unit            `json:"unit,omitempty"`
}
