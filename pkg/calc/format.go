package calc

import (
	"math"
	"strconv"
	"strings"
)

// Format renders a result for display.
//
// Non-finite values are spelled Infinity, -Infinity and NaN. Ordinary values
// use the shortest decimal that round-trips, switching to exponent form for
// very large or very small magnitudes. Exponents carry no leading zeros, so
// 1e-7 prints as "1e-7" rather than "1e-07".
func Format(v float64) string {
	switch {
	case math.IsNaN(v):
		return "NaN"
	case math.IsInf(v, 1):
		return "Infinity"
	case math.IsInf(v, -1):
		return "-Infinity"
	}

	abs := math.Abs(v)
	if abs >= 1e21 || (abs != 0 && abs < 1e-6) {
		return trimExponent(strconv.FormatFloat(v, 'e', -1, 64))
	}
	if v == 0 {
		// Avoid printing negative zero.
		return "0"
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// trimExponent drops the zero padding strconv adds to two-digit exponents.
func trimExponent(s string) string {
	mantissa, exp, ok := strings.Cut(s, "e")
	if !ok || len(exp) < 2 {
		return s
	}
	sign, digits := exp[:1], strings.TrimLeft(exp[1:], "0")
	if digits == "" {
		digits = "0"
	}
	return mantissa + "e" + sign + digits
}
