package jsonnum

import (
	"math"
	"strconv"

	"github.com/lattice-substrate/gojson/jsonerr"
)

// matchSpecialLiteral recognizes the case-sensitive NaN/±Infinity literals
// (spec.md §4.2 step 2). "NaN" has no signed spelling; "Infinity" may be
// preceded by a bare '-'.
func matchSpecialLiteral(data []byte) (float64, bool) {
	s := string(data)
	switch s {
	case "NaN":
		return math.NaN(), true
	case "Infinity":
		return math.Inf(1), true
	case "-Infinity":
		return math.Inf(-1), true
	default:
		return 0, false
	}
}

// parseReal converts a validated decimal lexeme to binary64. It delegates to
// strconv.ParseFloat, which Go guarantees to be correctly rounded (0 ULP
// error) for all inputs — the same "strtod"-class guarantee spec.md §4.3
// requires, and it never consults the process locale (spec.md's locale
// independence requirement), unlike C's strtod.
//
// A numeral that rounds to ±Infinity is a failure unless allowInfAndNaN is
// set, in which case it succeeds as a real Infinity value (spec.md §4.3;
// matches test_number.c's test_real_read, which accepts an overflowing
// numeral only under YYJSON_READ_ALLOW_INF_AND_NAN).
func parseReal(data []byte, allowInfAndNaN bool) (float64, *jsonerr.Error) {
	f, err := strconv.ParseFloat(string(data), 64)
	// ParseFloat reports overflow as a range error alongside ±Inf.
	if err != nil && !math.IsInf(f, 0) {
		return 0, jsonerr.Wrap(jsonerr.BadFraction, -1, "invalid real numeral", err)
	}
	if math.IsInf(f, 0) && !allowInfAndNaN {
		return 0, jsonerr.New(jsonerr.BadExponent, -1, "numeral overflows to infinity")
	}
	return f, nil
}
