// internal/models/listing.go
package models

import (
	"encoding/json"
	"math"

	"github.com/shopspring/decimal"
)

// Row is a validated listing as stored, monetary fields in cents.
type Row struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	PriceCents    int64  `json:"price"`
	ShippingCents int64  `json:"shippingCost"`
	Supplier      string `json:"supplier"`
	URL           string `json:"url"`
}

// Listing is a Row with monetary fields in euros.
type Listing struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	Price        decimal.Decimal `json:"price"`
	ShippingCost decimal.Decimal `json:"shippingCost"`
	Supplier     string          `json:"supplier"`
	URL          string          `json:"url"`
}

// MarshalJSON writes prices as JSON numbers (2.5, not "2.5").
func (l Listing) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		ID           string      `json:"id"`
		Name         string      `json:"name"`
		Price        json.Number `json:"price"`
		ShippingCost json.Number `json:"shippingCost"`
		Supplier     string      `json:"supplier"`
		URL          string      `json:"url"`
	}{
		ID:           l.ID,
		Name:         l.Name,
		Price:        json.Number(l.Price.String()),
		ShippingCost: json.Number(l.ShippingCost.String()),
		Supplier:     l.Supplier,
		URL:          l.URL,
	})
}

// Budget is a parsed budget request value. Valid is false when Raw did not
// coerce to a number, in which case Value is NaN.
type Budget struct {
	Value float64
	Valid bool
	Raw   string
}

// MarshalJSON encodes NaN and infinities as null.
func (b Budget) MarshalJSON() ([]byte, error) {
	if math.IsNaN(b.Value) || math.IsInf(b.Value, 0) {
		return []byte("null"), nil
	}
	if b.Value == 0 {
		// -0 prints as 0
		return []byte("0"), nil
	}
	return json.Marshal(b.Value)
}
