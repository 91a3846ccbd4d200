package handlers_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"warehouse/internal/domain"
	"warehouse/internal/services"
)

func TestCart_CheckoutFlow(t *testing.T) {
	c := newClient(t)

	var cv services.CartView
	require.Equal(t, 200, c.json("POST", "/api/v1/cart/items", map[string]any{"produtoId": "prod001", "quantidade": 1}, &cv))
	require.NotNil(t, c.sid, "first cart call issues a session cookie")
	require.Equal(t, 200, c.json("POST", "/api/v1/cart/items", map[string]any{"produtoId": "prod002", "quantidade": 2}, &cv))
	assert.Len(t, cv.Items, 2)
	assert.Equal(t, "42.9", cv.Total.String())
	assert.Equal(t, services.PhaseBuilding, cv.Phase)

	var rc services.Receipt
	require.Equal(t, 201, c.json("POST", "/api/v1/cart/checkout", nil, &rc))
	assert.Equal(t, "42.9", rc.Sale.Total.String())
	assert.Equal(t, 2, rc.Sale.LineCount)
	_, err := time.Parse(time.RFC3339, rc.Sale.Timestamp)
	assert.NoError(t, err)

	var p domain.Product
	require.Equal(t, 200, c.json("GET", "/api/v1/products/prod001", nil, &p))
	assert.Equal(t, "49", p.Stock.String())
	require.Equal(t, 200, c.json("GET", "/api/v1/products/prod002", nil, &p))
	assert.Equal(t, "28", p.Stock.String())

	require.Equal(t, 200, c.json("GET", "/api/v1/cart", nil, &cv))
	assert.Empty(t, cv.Items)
	assert.Equal(t, services.PhaseEmpty, cv.Phase)

	var sales []domain.Sale
	require.Equal(t, 200, c.json("GET", "/api/v1/sales?limit=1", nil, &sales))
	require.Len(t, sales, 1)
	assert.Equal(t, rc.Sale.ID, sales[0].ID)

	var detail struct {
		Sale  domain.Sale       `json:"venda"`
		Lines []domain.SaleLine `json:"linhas"`
	}
	require.Equal(t, 200, c.json("GET", "/api/v1/sales/"+rc.Sale.ID, nil, &detail))
	assert.Len(t, detail.Lines, 2)

	status, html := c.do("GET", "/sales/"+rc.Sale.ID+"/receipt", nil)
	require.Equal(t, 200, status)
	assert.Contains(t, string(html), "Arroz Branco 5kg")
	assert.Contains(t, string(html), "R$ 42.90")

	var intents []domain.CheckoutIntent
	require.Equal(t, 200, c.json("GET", "/api/v1/checkouts?status=concluido", nil, &intents))
	assert.Len(t, intents, 1)
}

func TestCart_Rejections(t *testing.T) {
	c := newClient(t)

	var e apiError
	assert.Equal(t, 400, c.json("POST", "/api/v1/cart/checkout", nil, &e), "empty cart")
	assert.Equal(t, "validation", e.Kind)

	var cv services.CartView
	require.Equal(t, 200, c.json("POST", "/api/v1/cart/items", map[string]any{"produtoId": "prod004", "quantidade": 6}, &cv))
	assert.Equal(t, 400, c.json("POST", "/api/v1/cart/items", map[string]any{"produtoId": "prod004", "quantidade": 3}, &e))
	assert.Equal(t, "stock_exceeded", e.Kind)

	assert.Equal(t, 400, c.json("POST", "/api/v1/cart/items", map[string]any{"produtoId": "prod004", "quantidade": 0.5}, &e))
	assert.Equal(t, 404, c.json("POST", "/api/v1/cart/items", map[string]any{"produtoId": "nope", "quantidade": 1}, &e))
	assert.Equal(t, 404, c.json("DELETE", "/api/v1/cart/items/nope", nil, &e))

	require.Equal(t, 200, c.json("GET", "/api/v1/cart", nil, &cv))
	require.Len(t, cv.Items, 1)
	assert.Equal(t, "6", cv.Items[0].Quantity.String())

	require.Equal(t, 200, c.json("DELETE", "/api/v1/cart/items/"+cv.Items[0].ID, nil, &cv))
	assert.Equal(t, services.PhaseEmpty, cv.Phase)
}

func TestCart_SessionsAreIsolated(t *testing.T) {
	a := newClient(t)
	var cv services.CartView
	require.Equal(t, 200, a.json("POST", "/api/v1/cart/items", map[string]any{"produtoId": "prod001", "quantidade": 1}, &cv))

	// Same app, no cookie.
	b := &client{t: t, app: a.app}
	require.Equal(t, 200, b.json("GET", "/api/v1/cart", nil, &cv))
	assert.Empty(t, cv.Items)
}

func TestCheckouts_StatusFilterAndRecover(t *testing.T) {
	c := newClient(t)

	var e apiError
	assert.Equal(t, 400, c.json("GET", "/api/v1/checkouts?status=bogus", nil, &e))

	var out map[string]int
	require.Equal(t, 200, c.json("POST", "/api/v1/checkouts/recover", nil, &out))
	assert.Equal(t, 0, out["revertidos"])
}
