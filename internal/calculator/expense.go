// Package calculator implements the expense sheet math: totals, the
// per-person split, and the lenient parsing applied to typed-in numbers.
package calculator

import (
	"math"
	"strconv"
	"strings"
)

// Totals computes the derived totals for an expense sheet.
//
// total is the sum of all prices rounded half-up to cents. perPerson is
// total divided by the attendee count, also rounded half-up to cents.
// With no attendees the divisor is 1, so the full total is reported as
// the cost for a single payer.
//
// Rounding happens here, at every recompute, not just at display time, so
// a sheet that is saved and reloaded reports the same numbers.
func Totals(prices []float64, attendees int) (total, perPerson float64) {
	var sum float64
	for _, p := range prices {
		sum += p
	}
	total = Round2(sum)

	n := attendees
	if n < 1 {
		n = 1
	}
	perPerson = Round2(total / float64(n))
	return total, perPerson
}

// Round2 rounds half-up to two decimal places. The scaled value gets a
// tiny relative nudge before flooring: a price on a half-cent boundary
// often decodes slightly below it (1.005 is stored as 1.00499...), and
// without the nudge it would round down instead of up.
func Round2(v float64) float64 {
	return math.Floor(v*100*(1+1e-12)+0.5) / 100
}

// ParsePrice parses a typed-in price. Malformed or negative input is
// coerced to 0 rather than rejected.
func ParsePrice(text string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(text), 64)
	if err != nil || v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

// ParseDivideBy parses a typed-in headcount. Malformed or non-positive
// input is coerced to 1.
func ParseDivideBy(text string) int {
	n, err := strconv.Atoi(strings.TrimSpace(text))
	if err != nil || n < 1 {
		return 1
	}
	return n
}
