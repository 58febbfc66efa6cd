package listings

import (
	"errors"
	"math"
	"math/big"
	"regexp"
	"strconv"
	"strings"

	"cpu-listings/internal/models"
)

var decimalLiteral = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?$`)

// ParseBudget coerces a request string to a number the way browsers coerce
// form values: surrounding whitespace is ignored, an empty string is 0,
// decimal, 0x/0o/0b and Infinity literals are accepted. Anything else yields
// an invalid budget whose Value is NaN.
func ParseBudget(raw string) models.Budget {
	s := strings.TrimFunc(raw, isWhitespace)
	if s == "" {
		return models.Budget{Value: 0, Valid: true, Raw: raw}
	}

	if v, ok := parseNumber(s); ok {
		return models.Budget{Value: v, Valid: true, Raw: raw}
	}
	return models.Budget{Value: math.NaN(), Valid: false, Raw: raw}
}

func parseNumber(s string) (float64, bool) {
	switch s {
	case "Infinity", "+Infinity":
		return math.Inf(1), true
	case "-Infinity":
		return math.Inf(-1), true
	}

	if len(s) > 2 && s[0] == '0' {
		base := 0
		switch s[1] {
		case 'x', 'X':
			base = 16
		case 'o', 'O':
			base = 8
		case 'b', 'B':
			base = 2
		}
		if base != 0 {
			return parseInteger(s[2:], base)
		}
	}

	if !decimalLiteral.MatchString(s) {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		var numErr *strconv.NumError
		// out of range still yields +-Inf or 0
		if errors.As(err, &numErr) && errors.Is(numErr.Err, strconv.ErrRange) {
			return v, true
		}
		return 0, false
	}
	return v, true
}

func parseInteger(digits string, base int) (float64, bool) {
	if digits == "" || digits[0] == '+' || digits[0] == '-' {
		return 0, false
	}
	n, ok := new(big.Int).SetString(digits, base)
	if !ok {
		return 0, false
	}
	f, _ := new(big.Float).SetInt(n).Float64()
	return f, true
}

func isWhitespace(r rune) bool {
	switch r {
	case '\t', '\n', '\v', '\f', '\r', ' ',
		'\u00a0', '\u1680', '\u2028', '\u2029', '\u202f', '\u205f', '\u3000', '\ufeff':
		return true
	}
	return r >= '\u2000' && r <= '\u200a'
}

// FilterByBudget keeps listings priced at or below the budget. Shipping is
// not counted. An invalid budget keeps nothing.
func FilterByBudget(listings []models.Listing, budget models.Budget) []models.Listing {
	out := make([]models.Listing, 0, len(listings))
	if !budget.Valid {
		return out
	}
	for _, l := range listings {
		if l.Price.InexactFloat64() <= budget.Value {
			out = append(out, l)
		}
	}
	return out
}
