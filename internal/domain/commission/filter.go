package commission

import (
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Filter narrows the displayed subset of commission entries
type Filter struct {
	Search      string     // case-insensitive substring, OR across text fields
	Status      *Status    // nil means all
	MonthPrefix string     // prefix match on the ISO invoice month, "2023" or "2023-11"
	OwnerID     *uuid.UUID // nil means all visible owners
}

// Match reports whether the entry passes the filter
func (f Filter) Match(e *Entry) bool {
	if f.OwnerID != nil && e.OwnerID != *f.OwnerID {
		return false
	}
	if f.Status != nil && e.Status != *f.Status {
		return false
	}
	if f.MonthPrefix != "" && !strings.HasPrefix(e.InvoiceMonth.Format("2006-01-02"), f.MonthPrefix) {
		return false
	}
	if f.Search != "" {
		needle := strings.ToLower(f.Search)
		if !strings.Contains(strings.ToLower(e.Customer), needle) &&
			!strings.Contains(strings.ToLower(e.InvoiceNumber), needle) &&
			!(e.ReceiptNumber != "" && strings.Contains(strings.ToLower(e.ReceiptNumber), needle)) &&
			!strings.Contains(strings.ToLower(e.Project), needle) {
			return false
		}
	}
	return true
}

// ApplyFilter returns the entries passing the filter, preserving input order
func ApplyFilter(entries []*Entry, f Filter) []*Entry {
	out := make([]*Entry, 0, len(entries))
	for _, e := range entries {
		if f.Match(e) {
			out = append(out, e)
		}
	}
	return out
}

// SortKey identifies the single sortable column
type SortKey string

const (
	SortByInvoiceNumber   SortKey = "invoice_number"
	SortByReceiptNumber   SortKey = "receipt_number"
	SortByCustomer        SortKey = "customer"
	SortByProject         SortKey = "project"
	SortByAmount          SortKey = "amount_before_vat"
	SortByCost            SortKey = "cost_before_vat"
	SortByTax             SortKey = "tax"
	SortByCommissionRate  SortKey = "commission_rate"
	SortByNetTotal        SortKey = "net_total"
	SortByNetToPay        SortKey = "net_to_pay"
	SortByInvoiceMonth    SortKey = "invoice_month"
	SortByClientPaidDate  SortKey = "client_paid_date"
	SortByCompanyPaidDate SortKey = "company_paid_date"
	SortByStatus          SortKey = "status"
)

// Sort holds the single-column sort state
type Sort struct {
	Key  SortKey
	Desc bool
}

// Toggle returns the sort state after selecting a column: the same key flips
// direction, a new key resets to ascending.
func (s Sort) Toggle(key SortKey) Sort {
	if s.Key == key {
		return Sort{Key: key, Desc: !s.Desc}
	}
	return Sort{Key: key}
}

// sortValue extracts the comparable value for the key.
// ok is false when the entry has no value for the key; such entries sort
// last regardless of direction.
func sortValue(e *Entry, key SortKey) (text string, num decimal.Decimal, numeric, ok bool) {
	switch key {
	case SortByInvoiceNumber:
		return e.InvoiceNumber, decimal.Zero, false, e.InvoiceNumber != ""
	case SortByReceiptNumber:
		return e.ReceiptNumber, decimal.Zero, false, e.ReceiptNumber != ""
	case SortByCustomer:
		return e.Customer, decimal.Zero, false, e.Customer != ""
	case SortByProject:
		return e.Project, decimal.Zero, false, e.Project != ""
	case SortByAmount:
		return "", e.AmountBeforeVAT, true, true
	case SortByCost:
		return "", e.CostBeforeVAT, true, true
	case SortByTax:
		return "", e.Tax, true, true
	case SortByCommissionRate:
		return "", e.CommissionRate, true, true
	case SortByNetTotal:
		return "", e.NetTotal, true, true
	case SortByNetToPay:
		return "", e.NetToPay, true, true
	case SortByInvoiceMonth:
		return e.InvoiceMonth.Format("2006-01-02"), decimal.Zero, false, true
	case SortByClientPaidDate:
		if e.ClientPaidDate == nil {
			return "", decimal.Zero, false, false
		}
		return e.ClientPaidDate.Format("2006-01-02"), decimal.Zero, false, true
	case SortByCompanyPaidDate:
		if e.CompanyPaidDate == nil {
			return "", decimal.Zero, false, false
		}
		return e.CompanyPaidDate.Format("2006-01-02"), decimal.Zero, false, true
	case SortByStatus:
		return string(e.Status), decimal.Zero, false, true
	default:
		return "", decimal.Zero, false, false
	}
}

// ApplySort sorts the entries in place by the single sort key.
// The sort is stable: entries with equal keys keep their original relative
// order. Entries without a value for the key trail the result in both
// directions; direction only flips the order of defined values.
func ApplySort(entries []*Entry, s Sort) {
	if s.Key == "" {
		return
	}
	sort.SliceStable(entries, func(i, j int) bool {
		aText, aNum, aNumeric, aOK := sortValue(entries[i], s.Key)
		bText, bNum, _, bOK := sortValue(entries[j], s.Key)

		if !aOK || !bOK {
			// undefined sorts last regardless of direction
			return aOK && !bOK
		}

		var cmp int
		if aNumeric {
			cmp = aNum.Cmp(bNum)
		} else {
			cmp = strings.Compare(aText, bText)
		}
		if cmp == 0 {
			return false
		}
		if s.Desc {
			return cmp > 0
		}
		return cmp < 0
	})
}
