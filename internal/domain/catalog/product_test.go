package catalog

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewProduct(t *testing.T) {
	t.Run("creates available product", func(t *testing.T) {
		p, err := NewProduct(" P-001 ", " Áo sơ mi ", decimal.NewFromInt(199000))
		require.NoError(t, err)
		assert.Equal(t, "P-001", p.ID)
		assert.Equal(t, "Áo sơ mi", p.Name)
		assert.Equal(t, SaleStatusAvailable, p.SaleStatus)
	})

	t.Run("rejects long ID", func(t *testing.T) {
		_, err := NewProduct(strings.Repeat("A", 21), "Product", decimal.Zero)
		require.Error(t, err)
	})

	t.Run("rejects ID with spaces", func(t *testing.T) {
		_, err := NewProduct("P 001", "Product", decimal.Zero)
		require.Error(t, err)
	})

	t.Run("rejects negative price", func(t *testing.T) {
		_, err := NewProduct("P-001", "Product", decimal.NewFromInt(-1))
		require.Error(t, err)
	})
}

func TestProduct_SetSaleStatus(t *testing.T) {
	p, err := NewProduct("P-001", "Product", decimal.Zero)
	require.NoError(t, err)

	require.NoError(t, p.SetSaleStatus(SaleStatusDiscontinued))
	assert.Equal(t, SaleStatusDiscontinued, p.SaleStatus)
	assert.Error(t, p.SetSaleStatus(SaleStatus(7)))
}

func TestProduct_Update(t *testing.T) {
	p, err := NewProduct("P-001", "Product", decimal.Zero)
	require.NoError(t, err)

	require.NoError(t, p.Update("Renamed", decimal.NewFromInt(5), "desc"))
	assert.Equal(t, "Renamed", p.Name)
	assert.True(t, p.Price.Equal(decimal.NewFromInt(5)))

	assert.Error(t, p.Update("", decimal.Zero, ""))
}
