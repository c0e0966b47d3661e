package models

import (
	"testing"
	"time"

	"github.com/commtrack/backend/internal/domain/commission"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestEntry(t *testing.T) *commission.Entry {
	t.Helper()
	entry, err := commission.NewEntry(commission.NewEntryInput{
		OwnerID:         uuid.New(),
		InvoiceNumber:   "INV-7001",
		Customer:        "Acme Ltd",
		AmountBeforeVAT: decimal.RequireFromString("100.01"),
		CommissionRate:  decimal.NewFromInt(33),
		InvoiceMonth:    time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	return entry
}

func TestEntryModel_RoundTrip(t *testing.T) {
	t.Run("preserves fields and identity", func(t *testing.T) {
		entry := newTestEntry(t)

		model := EntryModelFromDomain(entry)
		restored := model.ToDomain()

		assert.Equal(t, entry.ID, restored.ID)
		assert.Equal(t, entry.OwnerID, restored.OwnerID)
		assert.Equal(t, entry.InvoiceNumber, restored.InvoiceNumber)
		assert.Equal(t, entry.Status, restored.Status)
		assert.True(t, entry.AmountBeforeVAT.Equal(restored.AmountBeforeVAT))
		assert.True(t, entry.NetToPay.Equal(restored.NetToPay))
	})

	t.Run("recomputes derived fields on load", func(t *testing.T) {
		entry := newTestEntry(t)
		require.Equal(t, "33.0033", entry.NetToPay.String())

		model := EntryModelFromDomain(entry)
		// A column with two fractional digits hands back a rounded value.
		model.NetTotal = model.NetTotal.Round(2)
		model.NetToPay = model.NetToPay.Round(2)

		restored := model.ToDomain()

		assert.Equal(t, "100.01", restored.NetTotal.String())
		assert.Equal(t, "33.0033", restored.NetToPay.String())
	})
}
