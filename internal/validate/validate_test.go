package validate_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"warehouse/internal/domain"
	"warehouse/internal/validate"
)

func TestProductCode(t *testing.T) {
	for _, ok := range []string{"ARR001", "ABC", "A1B2C3D4E5"} {
		assert.True(t, validate.ProductCode(ok), ok)
	}
	for _, bad := range []string{"ab1", "AB", "ABCDEFGHIJK", "", "AB-1", " ABC"} {
		assert.False(t, validate.ProductCode(bad), bad)
	}
}

func TestQuantityRespectsUnit(t *testing.T) {
	half := decimal.RequireFromString("0.5")
	assert.True(t, validate.Quantity(half, domain.UnitKilogram))
	assert.False(t, validate.Quantity(half, domain.UnitPiece))
	assert.True(t, validate.Quantity(decimal.NewFromInt(2), domain.UnitPiece))
	assert.False(t, validate.Quantity(decimal.Zero, domain.UnitKilogram))
	assert.False(t, validate.Quantity(decimal.NewFromInt(-1), domain.UnitKilogram))

	assert.True(t, validate.Stock(decimal.Zero, domain.UnitPiece))
	assert.False(t, validate.Stock(decimal.NewFromInt(-1), domain.UnitPiece))
}

func TestReasonAndQuery(t *testing.T) {
	_, ok := validate.Reason("   ")
	assert.False(t, ok)
	r, ok := validate.Reason("  quebra  ")
	assert.True(t, ok)
	assert.Equal(t, "quebra", r)

	q, ok := validate.Q("Feijão")
	assert.True(t, ok)
	assert.Equal(t, "Feijão", q)
	_, ok = validate.Q("<script>")
	assert.False(t, ok)
}

func TestCategoryUnitDate(t *testing.T) {
	_, ok := validate.Category("Bebidas")
	assert.True(t, ok)
	_, ok = validate.Category("bebidas")
	assert.False(t, ok)

	u, ok := validate.Unit("kg")
	assert.True(t, ok)
	assert.Equal(t, domain.UnitKilogram, u)
	_, ok = validate.Unit("litro")
	assert.False(t, ok)

	d, ok := validate.Date("2025-09-21", time.UTC)
	assert.True(t, ok)
	assert.Equal(t, 21, d.Day())
	_, ok = validate.Date("21/09/2025", time.UTC)
	assert.False(t, ok)
}
