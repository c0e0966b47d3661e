package commission

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildEntry(t *testing.T, invoice, receipt, customer, project string, month time.Time, netToPay int64) *Entry {
	t.Helper()
	e, err := NewEntry(NewEntryInput{
		OwnerID:         uuid.New(),
		InvoiceNumber:   invoice,
		ReceiptNumber:   receipt,
		Customer:        customer,
		Project:         project,
		AmountBeforeVAT: decimal.NewFromInt(netToPay * 10),
		CommissionRate:  decimal.NewFromInt(10),
		InvoiceMonth:    month,
	})
	require.NoError(t, err)
	return e
}

func TestFilter_Match(t *testing.T) {
	nov := time.Date(2023, 11, 15, 0, 0, 0, 0, time.UTC)
	oct := time.Date(2023, 10, 1, 0, 0, 0, 0, time.UTC)

	e1 := buildEntry(t, "INV-100", "RCP-7", "Acme Corp", "Website", nov, 100)
	e2 := buildEntry(t, "INV-200", "", "Globex", "Backend API", oct, 50)

	t.Run("month prefix matches year-month", func(t *testing.T) {
		got := ApplyFilter([]*Entry{e1, e2}, Filter{MonthPrefix: "2023-11"})

		require.Len(t, got, 1)
		assert.Equal(t, "INV-100", got[0].InvoiceNumber)
	})

	t.Run("month prefix matches year only", func(t *testing.T) {
		got := ApplyFilter([]*Entry{e1, e2}, Filter{MonthPrefix: "2023"})

		assert.Len(t, got, 2)
	})

	t.Run("text search is case-insensitive across fields", func(t *testing.T) {
		assert.Len(t, ApplyFilter([]*Entry{e1, e2}, Filter{Search: "acme"}), 1)
		assert.Len(t, ApplyFilter([]*Entry{e1, e2}, Filter{Search: "inv-2"}), 1)
		assert.Len(t, ApplyFilter([]*Entry{e1, e2}, Filter{Search: "rcp"}), 1)
		assert.Len(t, ApplyFilter([]*Entry{e1, e2}, Filter{Search: "backend"}), 1)
		assert.Len(t, ApplyFilter([]*Entry{e1, e2}, Filter{Search: "nomatch"}), 0)
	})

	t.Run("status filter", func(t *testing.T) {
		status := StatusEligible
		paidDate := nov
		e1.SetClientPaidDate(&paidDate)

		got := ApplyFilter([]*Entry{e1, e2}, Filter{Status: &status})

		require.Len(t, got, 1)
		assert.Equal(t, "INV-100", got[0].InvoiceNumber)
	})

	t.Run("owner filter", func(t *testing.T) {
		got := ApplyFilter([]*Entry{e1, e2}, Filter{OwnerID: &e2.OwnerID})

		require.Len(t, got, 1)
		assert.Equal(t, "INV-200", got[0].InvoiceNumber)
	})
}

func TestApplySort(t *testing.T) {
	nov := time.Date(2023, 11, 1, 0, 0, 0, 0, time.UTC)

	t.Run("numeric descending", func(t *testing.T) {
		low := buildEntry(t, "A", "", "c1", "p", nov, 10)
		high := buildEntry(t, "B", "", "c2", "p", nov, 90)
		mid := buildEntry(t, "C", "", "c3", "p", nov, 40)
		entries := []*Entry{low, high, mid}

		ApplySort(entries, Sort{Key: SortByNetToPay, Desc: true})

		assert.Equal(t, []string{"B", "C", "A"}, invoiceNumbers(entries))
	})

	t.Run("undefined values trail in both directions", func(t *testing.T) {
		withReceipt := buildEntry(t, "A", "RCP-1", "c", "p", nov, 10)
		noReceipt := buildEntry(t, "B", "", "c", "p", nov, 10)
		withLater := buildEntry(t, "C", "RCP-9", "c", "p", nov, 10)

		asc := []*Entry{noReceipt, withLater, withReceipt}
		ApplySort(asc, Sort{Key: SortByReceiptNumber})
		assert.Equal(t, []string{"A", "C", "B"}, invoiceNumbers(asc))

		desc := []*Entry{noReceipt, withLater, withReceipt}
		ApplySort(desc, Sort{Key: SortByReceiptNumber, Desc: true})
		assert.Equal(t, []string{"C", "A", "B"}, invoiceNumbers(desc))
	})

	t.Run("stable for equal keys", func(t *testing.T) {
		first := buildEntry(t, "A", "", "Same", "p", nov, 10)
		second := buildEntry(t, "B", "", "Same", "p", nov, 10)
		third := buildEntry(t, "C", "", "Same", "p", nov, 10)
		entries := []*Entry{first, second, third}

		ApplySort(entries, Sort{Key: SortByCustomer})

		assert.Equal(t, []string{"A", "B", "C"}, invoiceNumbers(entries))
	})

	t.Run("empty key leaves order untouched", func(t *testing.T) {
		a := buildEntry(t, "A", "", "z", "p", nov, 10)
		b := buildEntry(t, "B", "", "a", "p", nov, 10)
		entries := []*Entry{a, b}

		ApplySort(entries, Sort{})

		assert.Equal(t, []string{"A", "B"}, invoiceNumbers(entries))
	})
}

func TestSort_Toggle(t *testing.T) {
	var s Sort

	s = s.Toggle(SortByCustomer)
	assert.Equal(t, Sort{Key: SortByCustomer, Desc: false}, s)

	s = s.Toggle(SortByCustomer)
	assert.Equal(t, Sort{Key: SortByCustomer, Desc: true}, s)

	s = s.Toggle(SortByNetToPay)
	assert.Equal(t, Sort{Key: SortByNetToPay, Desc: false}, s)
}

func invoiceNumbers(entries []*Entry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.InvoiceNumber
	}
	return out
}
