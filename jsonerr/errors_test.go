package jsonerr_test

import (
	"errors"
	"testing"

	"github.com/lattice-substrate/gojson/jsonerr"
)

func TestFailureClassExitCodes(t *testing.T) {
	cases := []struct {
		class    jsonerr.FailureClass
		wantExit int
	}{
		{jsonerr.NoDigit, 2},
		{jsonerr.LeadingZero, 2},
		{jsonerr.BadFraction, 2},
		{jsonerr.BadExponent, 2},
		{jsonerr.LiteralNotAllowed, 2},
		{jsonerr.TrailingGarbage, 2},
		{jsonerr.BoundExceeded, 2},
		{jsonerr.InvalidValueType, 2},
		{jsonerr.NanOrInf, 2},
		{jsonerr.MemoryAllocation, 2},
		{jsonerr.InvalidParameter, 2},
		{jsonerr.InvalidUTF8, 2},
		{jsonerr.CLIUsage, 2},
		{jsonerr.FileOpen, 10},
		{jsonerr.FileWrite, 10},
		{jsonerr.InternalError, 10},
	}
	for _, tc := range cases {
		if got := tc.class.ExitCode(); got != tc.wantExit {
			t.Errorf("%s.ExitCode() = %d, want %d", tc.class, got, tc.wantExit)
		}
	}
}

func TestErrorFormat(t *testing.T) {
	e := jsonerr.New(jsonerr.InvalidUTF8, 42, "bad byte 0xFF")
	if e.Error() != "jsonerr: INVALID_UTF8 at byte 42: bad byte 0xFF" {
		t.Fatalf("unexpected error string: %s", e.Error())
	}
}

func TestErrorFormatNoOffset(t *testing.T) {
	e := jsonerr.New(jsonerr.InternalError, -1, "unexpected state")
	if e.Error() != "jsonerr: INTERNAL_ERROR: unexpected state" {
		t.Fatalf("unexpected error string: %s", e.Error())
	}
}

func TestErrorUnwrap(t *testing.T) {
	cause := errors.New("underlying")
	e := jsonerr.Wrap(jsonerr.FileWrite, -1, "write failed", cause)
	if !errors.Is(e, cause) {
		t.Fatal("Unwrap did not return cause")
	}
	if got := e.Error(); got != "jsonerr: FILE_WRITE: write failed: underlying" {
		t.Fatalf("unexpected wrapped error string: %s", got)
	}
}

func TestErrorAs(t *testing.T) {
	e := jsonerr.New(jsonerr.NanOrInf, 10, "value is not finite")
	var target *jsonerr.Error
	if !errors.As(e, &target) {
		t.Fatal("errors.As failed")
	}
	if target.Class != jsonerr.NanOrInf {
		t.Fatalf("class = %s, want NAN_OR_INF", target.Class)
	}
}
