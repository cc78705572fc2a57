package jsonnum_test

import (
	"math"
	"strconv"
	"testing"

	"github.com/lattice-substrate/gojson/jsonnum"
)

func TestFormatRealFixedNotation(t *testing.T) {
	cases := map[float64]string{
		0.0:    "0",
		1.0:    "1.0",
		1.5:    "1.5",
		100.0:  "100.0",
		0.1:    "0.1",
		0.0001: "0.0001",
		123.456: "123.456",
	}
	for in, want := range cases {
		got, ok := jsonnum.FormatReal(in, false)
		if !ok {
			t.Fatalf("FormatReal(%v): unexpected failure", in)
		}
		if got != want {
			t.Fatalf("FormatReal(%v) = %q, want %q", in, got, want)
		}
	}
}

func TestFormatRealNegativeZero(t *testing.T) {
	got, ok := jsonnum.FormatReal(math.Copysign(0, -1), false)
	if !ok || got != "0" {
		t.Fatalf("FormatReal(-0.0) = %q, %v", got, ok)
	}
	back, err := strconv.ParseFloat(got, 64)
	if err != nil || math.Signbit(back) {
		t.Fatalf("negative zero must parse back to +0.0, got %v (err %v)", back, err)
	}
}

func TestFormatRealScientificNotation(t *testing.T) {
	got, ok := jsonnum.FormatReal(1e22, false)
	if !ok {
		t.Fatal("unexpected failure")
	}
	if got != "1.0e+22" {
		t.Fatalf("FormatReal(1e22) = %q", got)
	}

	got, ok = jsonnum.FormatReal(1e-7, false)
	if !ok {
		t.Fatal("unexpected failure")
	}
	if got != "1.0e-7" {
		t.Fatalf("FormatReal(1e-7) = %q", got)
	}
}

func TestFormatRealNonFiniteRequiresFlag(t *testing.T) {
	if _, ok := jsonnum.FormatReal(math.NaN(), false); ok {
		t.Fatal("NaN should fail to format without AllowInfAndNaN")
	}
	if _, ok := jsonnum.FormatReal(math.Inf(1), false); ok {
		t.Fatal("+Inf should fail to format without AllowInfAndNaN")
	}
	if _, ok := jsonnum.FormatReal(math.Inf(-1), false); ok {
		t.Fatal("-Inf should fail to format without AllowInfAndNaN")
	}

	s, ok := jsonnum.FormatReal(math.NaN(), true)
	if !ok || s != "NaN" {
		t.Fatalf("got %q, %v", s, ok)
	}
	s, ok = jsonnum.FormatReal(math.Inf(1), true)
	if !ok || s != "Infinity" {
		t.Fatalf("got %q, %v", s, ok)
	}
	s, ok = jsonnum.FormatReal(math.Inf(-1), true)
	if !ok || s != "-Infinity" {
		t.Fatalf("got %q, %v", s, ok)
	}
}

func TestFormatRealRoundTripsExactly(t *testing.T) {
	vals := []float64{
		0, 1, -1, 0.5, 3.14159265358979, 1e300, 1e-300,
		math.MaxFloat64, 4.9e-324, 2.2250738585072014e-308,
		123456789.123456789, 100000000000000000000.0,
	}
	for _, v := range vals {
		s, ok := jsonnum.FormatReal(v, false)
		if !ok {
			t.Fatalf("FormatReal(%v): unexpected failure", v)
		}
		back, err := strconv.ParseFloat(s, 64)
		if err != nil {
			t.Fatalf("formatted %q does not parse: %v", s, err)
		}
		if back != v && !(math.IsNaN(back) && math.IsNaN(v)) {
			t.Fatalf("round trip mismatch: %v -> %q -> %v", v, s, back)
		}
	}
}
