package listings

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cpu-listings/internal/models"
)

func TestCentsToEuros(t *testing.T) {
	tests := []struct {
		cents int64
		want  string
	}{
		{250, "2.5"},
		{0, "0"},
		{101, "1.01"},
		{1, "0.01"},
		{99999, "999.99"},
	}
	for _, tt := range tests {
		got := CentsToEuros(tt.cents)
		assert.Equal(t, tt.want, got.String(), "cents %d", tt.cents)
	}
}

func TestNormalize_KeepsFieldsAndOrder(t *testing.T) {
	rows := []models.Row{
		{ID: "a", Name: "CPU-B", PriceCents: 50, ShippingCents: 500, Supplier: "S2", URL: "u1"},
		{ID: "b", Name: "CPU-A", PriceCents: 150, ShippingCents: 1000, Supplier: "S1", URL: "u2"},
	}

	got := Normalize(rows)
	require.Len(t, got, 2)
	assert.Equal(t, "a", got[0].ID)
	assert.Equal(t, "CPU-B", got[0].Name)
	assert.Equal(t, "S2", got[0].Supplier)
	assert.Equal(t, "u1", got[0].URL)
	assert.Equal(t, "0.5", got[0].Price.String())
	assert.Equal(t, "10", got[1].ShippingCost.String())

	raw, err := json.Marshal(got[0])
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"a","name":"CPU-B","price":0.5,"shippingCost":5,"supplier":"S2","url":"u1"}`, string(raw))
}

func TestParseBudget(t *testing.T) {
	tests := []struct {
		raw   string
		valid bool
		want  float64
	}{
		{"10", true, 10},
		{"10.00", true, 10},
		{" 7.5\n", true, 7.5},
		{"", true, 0},
		{"   ", true, 0},
		{".5", true, 0.5},
		{"5.", true, 5},
		{"-3", true, -3},
		{"+3", true, 3},
		{"1e2", true, 100},
		{"1E-2", true, 0.01},
		{"0x1F", true, 31},
		{"0b101", true, 5},
		{"0o17", true, 15},
		{"Infinity", true, math.Inf(1)},
		{"-Infinity", true, math.Inf(-1)},
		{"1e400", true, math.Inf(1)},
		{"abc", false, 0},
		{"10abc", false, 0},
		{"1,5", false, 0},
		{"0x", false, 0},
		{"-0x10", false, 0},
		{"0x-10", false, 0},
		{"infinity", false, 0},
		{"NaN", false, 0},
		{"1_000", false, 0},
		{".", false, 0},
		{"e5", false, 0},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			b := ParseBudget(tt.raw)
			assert.Equal(t, tt.raw, b.Raw)
			assert.Equal(t, tt.valid, b.Valid)
			if tt.valid {
				assert.Equal(t, tt.want, b.Value)
			} else {
				assert.True(t, math.IsNaN(b.Value))
			}
		})
	}
}

func TestFilterByBudget(t *testing.T) {
	listings := Normalize([]models.Row{
		{ID: "cheap", PriceCents: 50, ShippingCents: 100000},
		{ID: "exact", PriceCents: 1000, ShippingCents: 500},
		{ID: "over", PriceCents: 1001, ShippingCents: 0},
	})

	t.Run("inclusive and ignores shipping", func(t *testing.T) {
		got := FilterByBudget(listings, ParseBudget("10.00"))
		require.Len(t, got, 2)
		assert.Equal(t, "cheap", got[0].ID)
		assert.Equal(t, "exact", got[1].ID)
	})

	t.Run("unparsable budget keeps nothing", func(t *testing.T) {
		got := FilterByBudget(listings, ParseBudget("ten euros"))
		assert.NotNil(t, got)
		assert.Empty(t, got)
	})

	t.Run("infinite budget keeps all", func(t *testing.T) {
		assert.Len(t, FilterByBudget(listings, ParseBudget("Infinity")), 3)
	})

	t.Run("empty budget is zero", func(t *testing.T) {
		assert.Empty(t, FilterByBudget(listings, ParseBudget("")))
	})

	t.Run("nil input", func(t *testing.T) {
		got := FilterByBudget(nil, ParseBudget("5"))
		assert.NotNil(t, got)
		assert.Empty(t, got)
	})
}

func TestBudget_MarshalJSON(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"12.5", "12.5"},
		{"", "0"},
		{"-0", "0"},
		{"abc", "null"},
		{"Infinity", "null"},
	}
	for _, tt := range tests {
		raw, err := json.Marshal(ParseBudget(tt.raw))
		require.NoError(t, err)
		assert.Equal(t, tt.want, string(raw), "raw %q", tt.raw)
	}
}
