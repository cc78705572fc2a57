package jsonwriter_test

import (
	"bytes"
	"testing"

	"github.com/lattice-substrate/gojson/jsonalloc"
	"github.com/lattice-substrate/gojson/jsonvalue"
	"github.com/lattice-substrate/gojson/jsonwriter"
)

// FuzzParseWriteRoundTrip: parse -> write -> parse -> write idempotence.
// A value that parses must reserialize to bytes that parse again to a value
// that reserializes identically, under both compact and pretty output.
func FuzzParseWriteRoundTrip(f *testing.F) {
	seeds := [][]byte{
		[]byte(`null`),
		[]byte(`true`),
		[]byte(`{"a":1,"a":2,"z":[3,2,1]}`),
		[]byte(`"a\/bA"`),
		[]byte(`1e21`),
		[]byte(`-0.0`),
		[]byte(`[1,2,3,[4,5,[6]]]`),
	}
	for _, seed := range seeds {
		f.Add(seed)
	}

	f.Fuzz(func(t *testing.T, in []byte) {
		if len(in) > 1<<20 {
			return
		}

		v, perr := jsonvalue.Parse(in)
		if perr != nil {
			return
		}

		for _, flags := range []jsonwriter.Flags{0, jsonwriter.Pretty} {
			var alloc jsonalloc.System
			out1, werr := jsonwriter.Write(&v, flags, &alloc)
			if werr != nil {
				t.Fatalf("write parsed value (flags=%d): %v", flags, werr)
			}

			v2, perr2 := jsonvalue.Parse(out1)
			if perr2 != nil {
				t.Fatalf("reparse written output (flags=%d): %v", flags, perr2)
			}
			var alloc2 jsonalloc.System
			out2, werr2 := jsonwriter.Write(&v2, flags, &alloc2)
			if werr2 != nil {
				t.Fatalf("rewrite reparsed value (flags=%d): %v", flags, werr2)
			}
			if !bytes.Equal(out1, out2) {
				t.Fatalf("non-idempotent output (flags=%d): %q vs %q", flags, out1, out2)
			}
		}
	})
}
