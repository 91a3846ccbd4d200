package handlers_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"warehouse/internal/domain"
	"warehouse/internal/services"
)

func TestInventory_AdjustAndLog(t *testing.T) {
	c := newClient(t)

	var res services.AdjustResult
	var status int
	entries := captureLogs(t, func() {
		status = c.json("POST", "/api/v1/inventory/prod004/adjust",
			map[string]any{"direcao": "entrada", "quantidade": 12, "motivo": "reposição"}, &res)
	})
	require.Equal(t, 200, status)
	assert.Equal(t, "8", res.Before.String())
	assert.Equal(t, "20", res.After.String())

	audit := findAction(entries, "inventory.adjust")
	require.NotNil(t, audit, "adjustment must be audited")
	assert.Equal(t, "audit", audit.Level)
	assert.Equal(t, "reposição", audit.Fields["reason"])

	var log []domain.StockAdjustment
	require.Equal(t, 200, c.json("GET", "/api/v1/inventory/adjustments?productId=prod004", nil, &log))
	require.Len(t, log, 1)
	assert.Equal(t, "reposição", log[0].Reason)
}

func TestInventory_DecreaseBelowZeroIsConflict(t *testing.T) {
	c := newClient(t)

	var e apiError
	status := c.json("POST", "/api/v1/inventory/prod004/adjust",
		map[string]any{"direcao": "saida", "quantidade": 9, "motivo": "perda"}, &e)
	assert.Equal(t, 409, status)
	assert.Equal(t, "invariant_violation", e.Kind)

	var p domain.Product
	require.Equal(t, 200, c.json("GET", "/api/v1/products/prod004", nil, &p))
	assert.Equal(t, "8", p.Stock.String())

	status = c.json("POST", "/api/v1/inventory/prod004/adjust",
		map[string]any{"direcao": "saida", "quantidade": 1, "motivo": ""}, &e)
	assert.Equal(t, 400, status)
	assert.Equal(t, "validation", e.Kind)

	status = c.json("POST", "/api/v1/inventory/nope/adjust",
		map[string]any{"direcao": "saida", "quantidade": 1, "motivo": "x"}, &e)
	assert.Equal(t, 404, status)
}

func TestInventory_AvailabilityAndOverview(t *testing.T) {
	c := newClient(t)

	var a domain.Availability
	require.Equal(t, 200, c.json("GET", "/api/v1/availability?productId=prod004", nil, &a))
	assert.Equal(t, "LOW_STOCK", a.Status)

	var e apiError
	assert.Equal(t, 400, c.json("GET", "/api/v1/availability", nil, &e))

	var ov services.InventoryOverview
	require.Equal(t, 200, c.json("GET", "/api/v1/inventory", nil, &ov))
	assert.Equal(t, 5, ov.TotalProducts)
	assert.Equal(t, 1, ov.LowStock)
}
