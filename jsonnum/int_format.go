package jsonnum

// FormatUint renders u in base 10 with no leading zeros, except the single
// digit "0" for zero itself (spec.md §4.6).
func FormatUint(u uint64) string {
	if u == 0 {
		return "0"
	}
	var tmp [20]byte
	i := len(tmp)
	for u > 0 {
		i--
		tmp[i] = byte('0' + u%10)
		u /= 10
	}
	return string(tmp[i:])
}

// FormatSint renders i in base 10, prefixing "-" for negative values. The
// magnitude is computed on the unsigned domain via two's-complement
// negation so math.MinInt64 (whose absolute value overflows int64) formats
// correctly.
func FormatSint(i int64) string {
	if i >= 0 {
		return FormatUint(uint64(i))
	}
	mag := negateToUint64(i)
	return "-" + FormatUint(mag)
}

// negateToUint64 computes the unsigned magnitude of a negative int64,
// mirroring negateToInt64's use of two's complement in the other direction.
func negateToUint64(i int64) uint64 {
	return ^uint64(i) + 1
}
