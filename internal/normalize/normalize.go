// Package normalize turns heterogeneous spreadsheet and CSV cells into
// canonical order ids and 2-place decimal amounts.
//
// Amount normalization never fails. A cell that cannot be read as a number
// is logged at warn level and counts as zero, so one corrupt cell does not
// abort a whole file.
package normalize

import (
	"math"
	"strings"
	"unicode"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Places is the number of decimal places every amount is rounded to.
const Places = 2

// Text amounts with an exponent or digit count beyond these bounds are
// rejected; rounding them would expand to an arbitrarily large integer.
const (
	maxExponent = 20
	maxDigits   = 40
)

// Normalizer converts raw cell values to amounts.
type Normalizer struct {
	log zerolog.Logger
}

// New creates a Normalizer that reports unparsable cells to log.
func New(log zerolog.Logger) *Normalizer {
	return &Normalizer{log: log}
}

// Value converts raw into an amount rounded to Places.
// nil, empty and unparsable values yield zero.
func (n *Normalizer) Value(raw any) decimal.Decimal {
	switch v := raw.(type) {
	case nil:
		return decimal.Zero
	case decimal.Decimal:
		return v.Round(Places)
	case float64:
		return n.float(v)
	case float32:
		return n.float(float64(v))
	case int:
		return decimal.NewFromInt(int64(v))
	case int32:
		return decimal.NewFromInt32(v)
	case int64:
		return decimal.NewFromInt(v)
	case string:
		return n.text(v)
	case []byte:
		return n.text(string(v))
	default:
		n.log.Warn().Interface("value", raw).Msg("unsupported amount type, using 0")
		return decimal.Zero
	}
}

func (n *Normalizer) float(f float64) decimal.Decimal {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		n.log.Warn().Float64("value", f).Msg("non-finite amount, using 0")
		return decimal.Zero
	}
	return decimal.NewFromFloat(f).Round(Places)
}

func (n *Normalizer) text(raw string) decimal.Decimal {
	s := Clean(raw)
	if s == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		n.log.Warn().Str("value", raw).Msg("failed to convert value, using 0")
		return decimal.Zero
	}
	if exp := d.Exponent(); exp > maxExponent || exp < -maxExponent || d.NumDigits() > maxDigits {
		n.log.Warn().Str("value", raw).Msg("amount out of range, using 0")
		return decimal.Zero
	}
	return d.Round(Places)
}

// Clean strips whitespace (including non-breaking and thin spaces used as
// thousands separators) and rewrites the decimal separator to '.'.
// When both ',' and '.' occur, the rightmost one is the decimal separator
// and the other is dropped. A lone ',' is a decimal separator.
func Clean(raw string) string {
	s := strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, raw)

	comma := strings.LastIndexByte(s, ',')
	dot := strings.LastIndexByte(s, '.')
	if comma >= 0 && dot >= 0 {
		if dot < comma {
			s = strings.ReplaceAll(s, ".", "")
		} else {
			s = strings.ReplaceAll(s, ",", "")
		}
	}
	return strings.ReplaceAll(s, ",", ".")
}

// ID canonicalizes an order id: surrounding whitespace is trimmed and the
// result is lower-cased with Unicode case mapping.
func ID(raw string) string {
	return cases.Lower(language.Und).String(strings.TrimSpace(raw))
}
