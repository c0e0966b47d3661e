package commission

import (
	"strings"

	"github.com/commtrack/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// Conversion records how a foreign-currency amount was converted to the
// local currency. It is retained for display during invoice review and is
// not persisted to the final entry.
type Conversion struct {
	Original valueobject.Money
	Rate     decimal.Decimal
}

// RateTable is a fixed lookup of conversion rates into the local currency
type RateTable map[valueobject.Currency]decimal.Decimal

// DefaultRates converts the supported foreign currencies into ILS
var DefaultRates = RateTable{
	valueobject.USD: decimal.NewFromFloat(3.65),
	valueobject.EUR: decimal.NewFromFloat(3.95),
	valueobject.GBP: decimal.NewFromFloat(4.60),
}

// Convert converts an extracted amount into the local currency.
// An empty or local currency code means no conversion and no metadata.
// An unrecognized code leaves the amount unconverted with no metadata.
// A known foreign code yields round(original * rate, 2) plus metadata.
func (t RateTable) Convert(amount decimal.Decimal, currencyCode string) (decimal.Decimal, *Conversion) {
	code := valueobject.Currency(strings.ToUpper(strings.TrimSpace(currencyCode)))
	if code == "" || code == valueobject.DefaultCurrency {
		return amount, nil
	}

	rate, ok := t[code]
	if !ok {
		return amount, nil
	}

	original, err := valueobject.NewMoney(amount, code)
	if err != nil {
		return amount, nil
	}

	converted := amount.Mul(rate).Round(2)
	return converted, &Conversion{Original: original, Rate: rate}
}
