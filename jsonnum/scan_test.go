package jsonnum_test

import (
	"math"
	"strings"
	"testing"

	"github.com/lattice-substrate/gojson/jsonerr"
	"github.com/lattice-substrate/gojson/jsonnum"
)

func scan(t *testing.T, s string, flags jsonnum.Flags) jsonnum.Result {
	t.Helper()
	r, err := jsonnum.Scan([]byte(s), flags)
	if err != nil {
		t.Fatalf("Scan(%q) unexpected error: %v", s, err)
	}
	return r
}

func TestScanUint(t *testing.T) {
	r := scan(t, "0", 0)
	if r.Kind != jsonnum.KindUint || r.Uint != 0 {
		t.Fatalf("got %+v", r)
	}

	r = scan(t, "18446744073709551615", 0) // math.MaxUint64
	if r.Kind != jsonnum.KindUint || r.Uint != math.MaxUint64 {
		t.Fatalf("got %+v", r)
	}
}

func TestScanSint(t *testing.T) {
	r := scan(t, "-1", 0)
	if r.Kind != jsonnum.KindSint || r.Sint != -1 {
		t.Fatalf("got %+v", r)
	}

	r = scan(t, "-9223372036854775808", 0) // math.MinInt64
	if r.Kind != jsonnum.KindSint || r.Sint != math.MinInt64 {
		t.Fatalf("got %+v", r)
	}
}

func TestScanUintOverflowPromotesToReal(t *testing.T) {
	r := scan(t, "18446744073709551616", 0) // MaxUint64 + 1
	if r.Kind != jsonnum.KindReal {
		t.Fatalf("expected promotion to real, got %+v", r)
	}
}

func TestScanNegativeOverflowPromotesToReal(t *testing.T) {
	r := scan(t, "-9223372036854775809", 0) // MinInt64 - 1
	if r.Kind != jsonnum.KindReal {
		t.Fatalf("expected promotion to real, got %+v", r)
	}
}

func TestScanReal(t *testing.T) {
	cases := []string{"1.5", "-1.5", "1e10", "1.5e-10", "0.0", "-0.0", "1E+5"}
	for _, c := range cases {
		r := scan(t, c, 0)
		if r.Kind != jsonnum.KindReal {
			t.Fatalf("Scan(%q): expected real, got %+v", c, r)
		}
	}
}

func TestScanNanAndInfinity(t *testing.T) {
	r := scan(t, "NaN", jsonnum.AllowInfAndNaN)
	if r.Kind != jsonnum.KindReal || !math.IsNaN(r.Real) {
		t.Fatalf("got %+v", r)
	}

	r = scan(t, "Infinity", jsonnum.AllowInfAndNaN)
	if r.Kind != jsonnum.KindReal || !math.IsInf(r.Real, 1) {
		t.Fatalf("got %+v", r)
	}

	r = scan(t, "-Infinity", jsonnum.AllowInfAndNaN)
	if r.Kind != jsonnum.KindReal || !math.IsInf(r.Real, -1) {
		t.Fatalf("got %+v", r)
	}
}

func TestScanNanRejectedWithoutFlag(t *testing.T) {
	_, err := jsonnum.Scan([]byte("NaN"), 0)
	if err == nil {
		t.Fatal("expected failure: NaN literal without AllowInfAndNaN")
	}
	if err.Class != jsonerr.LiteralNotAllowed {
		t.Fatalf("class = %v, want LiteralNotAllowed", err.Class)
	}
}

func TestScanInfinityRejectedWithoutFlag(t *testing.T) {
	_, err := jsonnum.Scan([]byte("Infinity"), 0)
	if err == nil {
		t.Fatal("expected failure: Infinity literal without AllowInfAndNaN")
	}
	if err.Class != jsonerr.LiteralNotAllowed {
		t.Fatalf("class = %v, want LiteralNotAllowed", err.Class)
	}

	_, err = jsonnum.Scan([]byte("-Infinity"), 0)
	if err == nil {
		t.Fatal("expected failure: -Infinity literal without AllowInfAndNaN")
	}
	if err.Class != jsonerr.LiteralNotAllowed {
		t.Fatalf("class = %v, want LiteralNotAllowed", err.Class)
	}
}

func TestScanOverflowingNumeralToInfinity(t *testing.T) {
	// A syntactically valid but unrepresentable-in-float64 numeral rounds to
	// +Inf via strconv.ParseFloat; it fails by default and succeeds only
	// under AllowInfAndNaN, per test_number.c's test_real_read.
	overflowing := "1" + strings.Repeat("0", 400)

	_, err := jsonnum.Scan([]byte(overflowing), 0)
	if err == nil {
		t.Fatal("expected failure: numeral overflows to infinity without AllowInfAndNaN")
	}
	if err.Class != jsonerr.BadExponent {
		t.Fatalf("class = %v, want BadExponent", err.Class)
	}

	r := scan(t, overflowing, jsonnum.AllowInfAndNaN)
	if r.Kind != jsonnum.KindReal || !math.IsInf(r.Real, 1) {
		t.Fatalf("expected +Inf under AllowInfAndNaN, got %+v", r)
	}
}

func TestScanNegativeNanIsNotALiteral(t *testing.T) {
	// "-NaN" is not one of the three recognized spellings; it must fail
	// grammar validation rather than silently match "NaN" with a sign.
	_, err := jsonnum.Scan([]byte("-NaN"), jsonnum.AllowInfAndNaN)
	if err == nil {
		t.Fatal("expected \"-NaN\" to be rejected")
	}
}

func TestScanNumberAsRaw(t *testing.T) {
	r := scan(t, "123.456", jsonnum.NumberAsRaw)
	if r.Kind != jsonnum.KindRaw || string(r.Raw) != "123.456" {
		t.Fatalf("got %+v", r)
	}
}

func TestScanFailures(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want jsonerr.FailureClass
	}{
		{"empty", "", jsonerr.NoDigit},
		{"bare sign", "-", jsonerr.NoDigit},
		{"leading zero", "01", jsonerr.LeadingZero},
		{"empty fraction", "1.", jsonerr.BadFraction},
		{"empty exponent", "1e", jsonerr.BadExponent},
		{"exponent sign only", "1e+", jsonerr.BadExponent},
		{"trailing garbage", "1.0x", jsonerr.TrailingGarbage},
		{"leading plus", "+1", jsonerr.NoDigit},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, err := jsonnum.Scan([]byte(c.in), 0)
			if err == nil {
				t.Fatalf("Scan(%q): expected failure", c.in)
			}
			if err.Class != c.want {
				t.Fatalf("Scan(%q): class = %v, want %v", c.in, err.Class, c.want)
			}
		})
	}
}

func TestScanLeadingZeroAllowsBareZero(t *testing.T) {
	if _, err := jsonnum.Scan([]byte("0"), 0); err != nil {
		t.Fatalf("bare \"0\" should be valid: %v", err)
	}
	if _, err := jsonnum.Scan([]byte("0.5"), 0); err != nil {
		t.Fatalf("\"0.5\" should be valid: %v", err)
	}
}
