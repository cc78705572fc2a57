package jsonnum

import (
	"math"
	"math/big"
)

var tenConst = big.NewInt(10)

// FormatReal renders f as the shortest decimal string that reads back to
// exactly f (spec.md §4.4), using JSON's own notation-selection rule rather
// than ECMAScript's: fixed notation with at least one fractional digit when
// the decimal exponent puts the value in [1e-4, 1e21), scientific notation
// (lowercase 'e', explicit sign) otherwise. Zero of either sign is a special
// case and always renders as the bare digit "0"; the sign of a negative
// zero is not recoverable from the formatted text, only from f itself.
//
// NaN and ±Infinity are only representable via their literal spellings
// ("NaN", "Infinity", "-Infinity"), gated by allowInfAndNaN; without the
// flag FormatReal reports ok=false and the caller must fail the encode.
func FormatReal(f float64, allowInfAndNaN bool) (s string, ok bool) {
	if math.IsNaN(f) {
		if !allowInfAndNaN {
			return "", false
		}
		return "NaN", true
	}
	if math.IsInf(f, 1) {
		if !allowInfAndNaN {
			return "", false
		}
		return "Infinity", true
	}
	if math.IsInf(f, -1) {
		if !allowInfAndNaN {
			return "", false
		}
		return "-Infinity", true
	}
	if f == 0 {
		return "0", true
	}

	negative := false
	if f < 0 {
		negative = true
		f = -f
	}

	digits, n := shortestDigits(f)
	return formatJSON(negative, digits, n), true
}

// formatJSON applies spec.md §4.4's range rule: digits is the shortest
// significand, n its decimal exponent (value == 0.<digits> * 10^n).
func formatJSON(negative bool, digits string, n int) string {
	var buf []byte
	if negative {
		buf = append(buf, '-')
	}

	switch {
	case n > -4 && n <= 21:
		buf = appendFixed(buf, digits, n)
	default:
		buf = appendScientific(buf, digits, n)
	}
	return string(buf)
}

// appendFixed renders digits in plain decimal notation, padding with zeros
// as needed and always leaving at least one fractional digit (spec.md §4.4:
// "1" must format as "1.0", never bare "1").
func appendFixed(buf []byte, digits string, n int) []byte {
	k := len(digits)
	switch {
	case n <= 0:
		buf = append(buf, '0', '.')
		for i := 0; i < -n; i++ {
			buf = append(buf, '0')
		}
		buf = append(buf, digits...)
	case n >= k:
		buf = append(buf, digits...)
		for i := 0; i < n-k; i++ {
			buf = append(buf, '0')
		}
		buf = append(buf, '.', '0')
	default:
		buf = append(buf, digits[:n]...)
		buf = append(buf, '.')
		buf = append(buf, digits[n:]...)
	}
	return buf
}

// appendScientific renders digits as d[.ddd]e±NN.
func appendScientific(buf []byte, digits string, n int) []byte {
	k := len(digits)
	buf = append(buf, digits[0])
	buf = append(buf, '.')
	if k > 1 {
		buf = append(buf, digits[1:]...)
	} else {
		buf = append(buf, '0')
	}
	buf = append(buf, 'e')
	exp := n - 1
	if exp >= 0 {
		buf = append(buf, '+')
	}
	return appendSignedInt(buf, exp)
}

func appendSignedInt(buf []byte, v int) []byte {
	if v < 0 {
		buf = append(buf, '-')
		v = -v
	}
	if v == 0 {
		return append(buf, '0')
	}
	var tmp [20]byte
	i := len(tmp)
	for v > 0 {
		i--
		tmp[i] = byte('0' + v%10)
		v /= 10
	}
	return append(buf, tmp[i:]...)
}

// fpSplit decomposes a positive finite double into its integral significand
// and binary exponent (value == sigBits * 2^sigExp), plus the two facts the
// Dragon4/Burger-Dybvig digit generator needs about the double's position in
// the binary64 grid: whether it sits exactly on a power-of-two boundary
// (where the gap to the next-smaller representable value is half the gap to
// the next-larger one) and whether its mantissa is an even integer (which
// relaxes the rounding boundary from strict to inclusive).
type fpSplit struct {
	rawMantissa    uint64
	rawExp         int
	sigBits        uint64
	sigExp         int
	nearPowerOfTwo bool
	evenRounding   bool
}

// ratio holds the scaled numerator/denominator and the two rounding-gap
// widths (in the same scale) that the shortest-digit loop narrows on each
// iteration: num/den is the remaining value still to emit digits for, and
// upperGap/lowerGap bound how far it may drift from the true value before
// the next digit would no longer round-trip.
type ratio struct {
	num      *big.Int
	den      *big.Int
	upperGap *big.Int
	lowerGap *big.Int
}

func splitFloat(f float64) fpSplit {
	bits := math.Float64bits(f)
	mantissa := bits & ((uint64(1) << 52) - 1)
	expBits := rawExponentField(bits)
	rawExp := int(expBits)

	sigBits := mantissa
	sigExp := 1 - 1023 - 52
	if rawExp != 0 {
		sigBits = (uint64(1) << 52) | mantissa
		sigExp = rawExp - 1023 - 52
	}

	return fpSplit{
		rawMantissa:    mantissa,
		rawExp:         rawExp,
		sigBits:        sigBits,
		sigExp:         sigExp,
		nearPowerOfTwo: rawExp > 1 && mantissa == 0,
		evenRounding:   sigBits%2 == 0,
	}
}

// shortestDigits implements the Burger-Dybvig "free-format" shortest-output
// algorithm over exact big.Int arithmetic: it narrows a num/den ratio,
// tracking how far it may drift (upperGap/lowerGap) before the next emitted
// digit would stop round-tripping, and stops the instant that slack is
// exhausted. The digit-generation core is notation-agnostic; only the final
// rendering (formatJSON, above) differs from an ECMAScript-style formatter.
//
// Returns (digits, n) where value = 0.<digits> * 10^n.
func shortestDigits(f float64) (string, int) {
	split := splitFloat(f)
	r := newRatio(split)

	n := guessExponent(f)
	applyExponentGuess(r, n)
	n = settleExponent(r, split.evenRounding, n)

	return collectDigits(r, split.evenRounding, n)
}

func newRatio(split fpSplit) *ratio {
	r := &ratio{num: new(big.Int), den: new(big.Int), upperGap: new(big.Int), lowerGap: new(big.Int)}
	if split.sigExp >= 0 {
		seedNonNegativeExp(r, split)
	} else {
		seedNegativeExp(r, split)
	}
	return r
}

func seedNonNegativeExp(r *ratio, split fpSplit) {
	if !split.nearPowerOfTwo {
		r.num.SetUint64(split.sigBits)
		shiftLeftBy(r.num, split.sigExp+1)
		r.den.SetInt64(2)
		r.upperGap.SetInt64(1)
		shiftLeftBy(r.upperGap, split.sigExp)
		r.lowerGap.Set(r.upperGap)
		return
	}

	r.num.SetUint64(split.sigBits)
	shiftLeftBy(r.num, split.sigExp+2)
	r.den.SetInt64(4)
	r.upperGap.SetInt64(1)
	shiftLeftBy(r.upperGap, split.sigExp+1)
	r.lowerGap.SetInt64(1)
	shiftLeftBy(r.lowerGap, split.sigExp)
}

func seedNegativeExp(r *ratio, split fpSplit) {
	if !split.nearPowerOfTwo {
		r.num.SetUint64(split.sigBits)
		shiftLeftBy(r.num, 1)
		r.den.SetInt64(1)
		shiftLeftBy(r.den, -split.sigExp+1)
		r.upperGap.SetInt64(1)
		r.lowerGap.SetInt64(1)
		return
	}

	r.num.SetUint64(split.sigBits)
	shiftLeftBy(r.num, 2)
	r.den.SetInt64(1)
	shiftLeftBy(r.den, -split.sigExp+2)
	r.upperGap.SetInt64(2)
	r.lowerGap.SetInt64(1)
}

// applyExponentGuess scales the ratio by 10^n (n may be negative), bringing
// num/den into the neighborhood of a single decimal digit so digit
// extraction can begin from the right magnitude.
func applyExponentGuess(r *ratio, n int) {
	switch {
	case n > 0:
		p := tenPower(n)
		r.den.Mul(r.den, p)
	case n < 0:
		p := tenPower(-n)
		r.num.Mul(r.num, p)
		r.upperGap.Mul(r.upperGap, p)
		r.lowerGap.Mul(r.lowerGap, p)
	}
}

// settleExponent corrects guessExponent's estimate: first checking whether
// the upper rounding boundary has
// already spilled past the current decimal place (pushing the exponent up
// by one), then repeatedly checking whether it instead undershoots (pulling
// the exponent down, possibly more than once for very small ratios).
func settleExponent(r *ratio, evenRounding bool, n int) int {
	high := new(big.Int).Add(r.num, r.upperGap)
	if ratioAtOrAbove(high, r.den, evenRounding) {
		r.den.Mul(r.den, tenConst)
		n++
	}

	for {
		scaledNum := new(big.Int).Mul(r.num, tenConst)
		if !ratioBelow(scaledNum, r.den, evenRounding) {
			return n
		}
		scaledHigh := new(big.Int).Mul(new(big.Int).Add(r.num, r.upperGap), tenConst)
		if !ratioBelow(scaledHigh, r.den, evenRounding) {
			return n
		}

		r.num.Mul(r.num, tenConst)
		r.upperGap.Mul(r.upperGap, tenConst)
		r.lowerGap.Mul(r.lowerGap, tenConst)
		n--
	}
}

// ratioBelow reports lhs/rhs < 1 when evenRounding makes the boundary
// inclusive (reaching it does not count as below), or <= 1 otherwise.
func ratioBelow(lhs, rhs *big.Int, evenRounding bool) bool {
	if evenRounding {
		return lhs.Cmp(rhs) < 0
	}
	return lhs.Cmp(rhs) <= 0
}

// ratioAtOrAbove reports lhs/rhs >= 1 when evenRounding makes the boundary
// inclusive, or > 1 otherwise (the mirror image of ratioBelow).
func ratioAtOrAbove(lhs, rhs *big.Int, evenRounding bool) bool {
	if evenRounding {
		return lhs.Cmp(rhs) >= 0
	}
	return lhs.Cmp(rhs) > 0
}

func collectDigits(r *ratio, evenRounding bool, n int) (string, int) {
	var digitBuf [30]byte
	count := 0
	quot := new(big.Int)
	rem := new(big.Int)

	for {
		d := nextDigit(r, quot, rem)
		low, high := stopConditions(r, evenRounding)

		if !low && !high {
			digitBuf[count] = byte('0' + d)
			count++
			continue
		}

		digitBuf[count] = pickFinalDigit(d, low, high, r.num, r.den)
		count++
		break
	}

	n = carryAndTrimDigits(digitBuf[:], count, &count, n)
	return string(digitBuf[:count]), n
}

// nextDigit advances the ratio by one decimal place (scaling num and both
// gaps by ten) and peels off the resulting integer digit via exact division,
// leaving the remainder as the new numerator.
func nextDigit(r *ratio, quot, rem *big.Int) int {
	r.num.Mul(r.num, tenConst)
	r.upperGap.Mul(r.upperGap, tenConst)
	r.lowerGap.Mul(r.lowerGap, tenConst)

	quot.DivMod(r.num, r.den, rem)
	d := int(quot.Int64())
	r.num.Set(rem)
	return d
}

// stopConditions reports whether the remaining ratio has drifted within
// lowerGap of zero (low) or within upperGap of den (high) — either means one
// more digit would be enough to uniquely identify the original double, so
// digit extraction should stop after this one.
func stopConditions(r *ratio, evenRounding bool) (low, high bool) {
	low = closeBelow(r.num, r.lowerGap, evenRounding)
	above := new(big.Int).Add(r.num, r.upperGap)
	high = ratioAtOrAbove(above, r.den, evenRounding)
	return low, high
}

func closeBelow(lhs, rhs *big.Int, evenRounding bool) bool {
	if evenRounding {
		return lhs.Cmp(rhs) <= 0
	}
	return lhs.Cmp(rhs) < 0
}

func pickFinalDigit(d int, low, high bool, num, den *big.Int) byte {
	switch {
	case low && !high:
		return byte('0' + d)
	case !low && high:
		return byte('0' + d + 1)
	default:
		return breakMidpointTie(d, num, den)
	}
}

// breakMidpointTie resolves the case where both stop conditions hold at
// once: round to the digit that lands closest to num/den, breaking an exact
// tie toward the even digit.
func breakMidpointTie(d int, num, den *big.Int) byte {
	twiceNum := new(big.Int).Lsh(num, 1)
	cmp := twiceNum.Cmp(den)
	if cmp < 0 {
		return byte('0' + d)
	}
	if cmp > 0 {
		return byte('0' + d + 1)
	}
	if d%2 == 0 {
		return byte('0' + d)
	}
	return byte('0' + d + 1)
}

// carryAndTrimDigits propagates any digit overflow ('0'+10 from
// pickFinalDigit's "+1" rounding) leftward through the buffer, handles the
// case where the carry ripples past the first digit (shifting the whole
// buffer right and bumping the decimal exponent), and trims trailing zeros
// left behind by the carry.
func carryAndTrimDigits(digitBuf []byte, count int, countPtr *int, n int) int {
	for i := count - 1; i > 0; i-- {
		if digitBuf[i] > '9' {
			digitBuf[i] = '0'
			digitBuf[i-1]++
		}
	}

	if count > 0 && digitBuf[0] > '9' {
		copy(digitBuf[1:count+1], digitBuf[0:count])
		digitBuf[0] = '1'
		digitBuf[1] = '0'
		count++
		n++
	}

	for count > 1 && digitBuf[count-1] == '0' {
		count--
	}
	*countPtr = count
	return n
}

func rawExponentField(bits uint64) uint16 {
	hi := byte((bits >> 56) & 0xFF)
	lo := byte((bits >> 48) & 0xFF)
	return (uint16(hi&0x7F) << 4) | uint16(lo>>4)
}

func shiftLeftBy(z *big.Int, n int) {
	for i := 0; i < n; i++ {
		z.Lsh(z, 1)
	}
}

// guessExponent returns an estimate of ceil(log10(f)) for f > 0, used as the
// starting point settleExponent then corrects by at most a couple of steps.
func guessExponent(f float64) int {
	bits := math.Float64bits(f)
	expBits := rawExponentField(bits)
	rawExp := int(expBits)

	var log2f float64
	if rawExp == 0 {
		log2f = math.Log2(f)
	} else {
		log2f = float64(rawExp-1023) + math.Log2(1.0+float64(bits&((1<<52)-1))/float64(uint64(1)<<52))
	}

	return int(math.Ceil(log2f / math.Log2(10)))
}

// tenPowers caches computed powers of ten up to the largest exponent a
// binary64 can scale through during digit generation.
var tenPowers [700]*big.Int

func init() {
	tenPowers[0] = big.NewInt(1)
	for i := 1; i < len(tenPowers); i++ {
		tenPowers[i] = new(big.Int).Mul(tenPowers[i-1], tenConst)
	}
}

// tenPower returns 10^n as a *big.Int. The returned value MUST NOT be
// mutated by the caller.
func tenPower(n int) *big.Int {
	if n >= 0 && n < len(tenPowers) {
		return tenPowers[n]
	}
	return new(big.Int).Exp(tenConst, big.NewInt(int64(n)), nil)
}
