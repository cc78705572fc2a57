// Package jsonnum implements the number codec: classification and parsing of
// decimal numerals into unsigned/signed 64-bit integers and IEEE-754 binary64
// doubles, and formatting them back to their shortest round-tripping decimal
// form.
//
// This mirrors the "number converter" tested by
// original_source/test/test_number.c (yyjson): a byte slice classifies into
// exactly one of {uint, sint, real, raw, fail}.
package jsonnum

import "github.com/lattice-substrate/gojson/jsonerr"

// Kind identifies which variant a scanned numeral produced.
type Kind int

const (
	// KindUint is a non-negative integer that fits in 64 unsigned bits.
	KindUint Kind = iota
	// KindSint is a negative integer that fits in 64 signed bits.
	KindSint
	// KindReal is an IEEE-754 binary64 (used for fractional/exponent forms,
	// integer overflow, and the NaN/Infinity literals).
	KindReal
	// KindRaw is the original lexeme, verbatim, requested via Flags.NumberAsRaw.
	KindRaw
)

// Flags controls scanner behavior.
type Flags uint

const (
	// AllowInfAndNaN permits the non-standard NaN/Infinity/-Infinity literals.
	AllowInfAndNaN Flags = 1 << iota
	// NumberAsRaw requests the original lexeme back regardless of magnitude.
	NumberAsRaw
)

// Result is the outcome of a successful Scan.
type Result struct {
	Kind Kind
	Uint uint64
	Sint int64
	Real float64
	Raw  []byte // original lexeme; populated for KindRaw, and always valid
}

// Scan classifies and parses data (a complete numeric lexeme, no surrounding
// whitespace) per the algorithm in spec.md §4.2:
//
//  1. optional leading '-'
//  2. if AllowInfAndNaN and the remainder is "Infinity"/"NaN", return KindReal
//  3. consume digits (at least one, no leading zero followed by a digit)
//  4. optional fractional part, optional exponent
//  5. if NumberAsRaw, return KindRaw regardless of magnitude
//  6. no fraction/exponent: integer (uint if unsigned, sint if negative;
//     overflow promotes to real)
//  7. otherwise: delegate to the real parser
func Scan(data []byte, flags Flags) (Result, *jsonerr.Error) {
	if len(data) == 0 {
		return Result{}, jsonerr.New(jsonerr.NoDigit, 0, "empty numeric lexeme")
	}

	if f, ok := matchSpecialLiteral(data); ok {
		if flags&AllowInfAndNaN == 0 {
			return Result{}, jsonerr.New(jsonerr.LiteralNotAllowed, 0,
				"NaN/Infinity literal seen without AllowInfAndNaN")
		}
		return Result{Kind: KindReal, Real: f, Raw: data}, nil
	}

	neg := false
	i := 0
	if data[0] == '-' {
		neg = true
		i = 1
	}

	shape, err := scanDigits(data, i)
	if err != nil {
		return Result{}, err
	}

	if flags&NumberAsRaw != 0 {
		return Result{Kind: KindRaw, Raw: data}, nil
	}

	if !shape.hasFraction && !shape.hasExponent {
		return scanInteger(data, neg, flags&AllowInfAndNaN != 0)
	}

	f, perr := parseReal(data, flags&AllowInfAndNaN != 0)
	if perr != nil {
		return Result{}, perr
	}
	return Result{Kind: KindReal, Real: f, Raw: data}, nil
}

type numShape struct {
	hasFraction bool
	hasExponent bool
}

// scanDigits validates and walks the integer/fraction/exponent parts
// starting at offset i (just past an optional sign), per the JSON number
// grammar (spec.md §6).
func scanDigits(data []byte, i int) (numShape, *jsonerr.Error) {
	start := i
	if i >= len(data) {
		return numShape{}, jsonerr.New(jsonerr.NoDigit, i, "no digit in numeral")
	}

	if data[i] == '0' {
		i++
		if i < len(data) && isDigit(data[i]) {
			return numShape{}, jsonerr.New(jsonerr.LeadingZero, start, "leading zero followed by digit")
		}
	} else if isDigit(data[i]) {
		for i < len(data) && isDigit(data[i]) {
			i++
		}
	} else {
		return numShape{}, jsonerr.New(jsonerr.NoDigit, i, "expected digit")
	}

	var shape numShape
	if i < len(data) && data[i] == '.' {
		shape.hasFraction = true
		i++
		fracStart := i
		for i < len(data) && isDigit(data[i]) {
			i++
		}
		if i == fracStart {
			return numShape{}, jsonerr.New(jsonerr.BadFraction, fracStart, "expected digit after decimal point")
		}
	}

	if i < len(data) && (data[i] == 'e' || data[i] == 'E') {
		shape.hasExponent = true
		i++
		if i < len(data) && (data[i] == '+' || data[i] == '-') {
			i++
		}
		expStart := i
		for i < len(data) && isDigit(data[i]) {
			i++
		}
		if i == expStart {
			return numShape{}, jsonerr.New(jsonerr.BadExponent, expStart, "expected digit in exponent")
		}
	}

	if i != len(data) {
		return numShape{}, jsonerr.New(jsonerr.TrailingGarbage, i, "trailing content after numeral")
	}
	return shape, nil
}

func scanInteger(data []byte, neg bool, allowInfAndNaN bool) (Result, *jsonerr.Error) {
	digits := data
	if neg {
		digits = data[1:]
	}

	u, overflowed := parseDigitsUint64(digits)
	if !overflowed {
		if !neg {
			return Result{Kind: KindUint, Uint: u, Raw: data}, nil
		}
		if u <= 1<<63 {
			// -u fits in int64 (handles math.MinInt64 == -(1<<63)).
			return Result{Kind: KindSint, Sint: negateToInt64(u), Raw: data}, nil
		}
	}

	// Overflows the requested integer width: promote to real (lossy),
	// matching spec.md §3's invariant.
	f, perr := parseReal(data, allowInfAndNaN)
	if perr != nil {
		return Result{}, perr
	}
	return Result{Kind: KindReal, Real: f, Raw: data}, nil
}

// parseDigitsUint64 parses an all-digit byte slice, reporting overflow
// instead of wrapping, so the caller can fall back to real.
func parseDigitsUint64(digits []byte) (val uint64, overflowed bool) {
	const maxBeforeMul = (1<<64 - 1) / 10
	for _, b := range digits {
		d := uint64(b - '0')
		if val > maxBeforeMul {
			return 0, true
		}
		val *= 10
		if val > (1<<64-1)-d {
			return 0, true
		}
		val += d
	}
	return val, false
}

// negateToInt64 computes -u on the unsigned domain (two's complement), per
// spec.md §4.6, avoiding signed overflow for u == 1<<63 (math.MinInt64).
func negateToInt64(u uint64) int64 {
	return int64(^u + 1)
}

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}
