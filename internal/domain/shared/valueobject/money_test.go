package valueobject

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMoney(t *testing.T) {
	t.Run("creates money with amount and currency", func(t *testing.T) {
		m, err := NewMoney(decimal.NewFromInt(100), USD)

		require.NoError(t, err)
		assert.True(t, m.Amount().Equal(decimal.NewFromInt(100)))
		assert.Equal(t, USD, m.Currency())
	})

	t.Run("fails with empty currency", func(t *testing.T) {
		_, err := NewMoney(decimal.NewFromInt(100), "")

		assert.Error(t, err)
	})

	t.Run("preserves fractional amounts", func(t *testing.T) {
		m, err := NewMoney(decimal.RequireFromString("1234.56"), ILS)

		require.NoError(t, err)
		assert.Equal(t, "1234.56", m.Amount().StringFixed(2))
	})
}
