package listings

import (
	"github.com/shopspring/decimal"

	"cpu-listings/internal/models"
)

// CentsToEuros divides cents by 100 exactly: 101 -> 1.01.
func CentsToEuros(cents int64) decimal.Decimal {
	return decimal.New(cents, -2)
}

// Normalize converts the monetary fields of rows to euros. Order and the
// remaining fields are unchanged.
func Normalize(rows []models.Row) []models.Listing {
	out := make([]models.Listing, len(rows))
	for i, r := range rows {
		out[i] = models.Listing{
			ID:           r.ID,
			Name:         r.Name,
			Price:        CentsToEuros(r.PriceCents),
			ShippingCost: CentsToEuros(r.ShippingCents),
			Supplier:     r.Supplier,
			URL:          r.URL,
		}
	}
	return out
}
