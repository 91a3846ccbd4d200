package domain

import "github.com/shopspring/decimal"

type Direction string

const (
	DirectionIncrease Direction = "entrada"
	DirectionDecrease Direction = "saida"
)

// StockAdjustment records one manual stock correction and why it was made.
type StockAdjustment struct {
	ID        string          `json:"id"`
	ProductID string          `json:"produtoId"`
	Direction Direction       `json:"direcao"`
	Quantity  decimal.Decimal `json:"quantidade"`
	Before    decimal.Decimal `json:"estoqueAnterior"`
	After     decimal.Decimal `json:"estoqueNovo"`
	Reason    string          `json:"motivo"`
	Timestamp string          `json:"data"`
}

type IntentStatus string

const (
	IntentPending   IntentStatus = "pendente"
	IntentCommitted IntentStatus = "concluido"
	IntentReverted  IntentStatus = "revertido"
	IntentReconcile IntentStatus = "reconciliar"
)

type StepKind string

const (
	StepSaleHeader  StepKind = "venda"
	StepSaleLine    StepKind = "item"
	StepStockUpdate StepKind = "estoque"
)

// CheckoutStep is one write the checkout completed; enough to undo it.
type CheckoutStep struct {
	Kind      StepKind        `json:"tipo"`
	RecordID  string          `json:"registroId"`
	ProductID string          `json:"produtoId,omitempty"`
	Quantity  decimal.Decimal `json:"quantidade"`
}

// CheckoutIntent journals a checkout so an interrupted one can be undone.
type CheckoutIntent struct {
	ID        string          `json:"id"` // same as the sale id
	Status    IntentStatus    `json:"status"`
	Total     decimal.Decimal `json:"total"`
	Lines     []SaleLine      `json:"linhas"`
	Steps     []CheckoutStep  `json:"passos"`
	Error     string          `json:"erro,omitempty"`
	CreatedAt string          `json:"criadoEm"`
	UpdatedAt string          `json:"atualizadoEm"`
}

// DailyClosing is the "today" summary; also persisted as a report snapshot.
type DailyClosing struct {
	ID            string          `json:"id,omitempty"`
	Kind          string          `json:"tipo"`
	Date          string          `json:"data"`
	SalesCount    int             `json:"vendas"`
	Revenue       decimal.Decimal `json:"faturamento"`
	AverageTicket decimal.Decimal `json:"ticketMedio"`
	GeneratedAt   string          `json:"geradoEm,omitempty"`
}

const ReportKindDailyClosing = "fechamento_diario"
