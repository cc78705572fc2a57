// Package jsonwriter serializes a jsonvalue.Value tree to JSON text, in
// compact or pretty form, against a pluggable jsonalloc.Allocator.
package jsonwriter

import (
	"os"

	"github.com/lattice-substrate/gojson/jsonalloc"
	"github.com/lattice-substrate/gojson/jsonerr"
	"github.com/lattice-substrate/gojson/jsonnum"
	"github.com/lattice-substrate/gojson/jsonvalue"
)

// Flags controls serialization behavior.
type Flags uint

const (
	// Pretty requests 4-space indented, multi-line output. Without it,
	// output is compact: no insignificant whitespace at all.
	Pretty Flags = 1 << iota
	// AllowInfAndNaN permits writing NaN/Infinity/-Infinity as bare
	// literals for KindReal values holding a non-finite double. Without it,
	// a non-finite KindReal value fails the write.
	AllowInfAndNaN
)

const indentUnit = "    "

// Write serializes v using alloc for all intermediate buffer growth. The
// returned byte slice is owned by the caller; on failure, any buffer
// obtained from alloc during the attempt is returned to alloc via Free
// before Write returns, so a failed write leaks nothing.
func Write(v *jsonvalue.Value, flags Flags, alloc jsonalloc.Allocator) ([]byte, *jsonerr.Error) {
	if v == nil {
		return nil, jsonerr.New(jsonerr.InvalidParameter, -1, "nil value")
	}
	if err := Validate(v, flags&AllowInfAndNaN != 0); err != nil {
		return nil, err
	}

	w := &writer{
		alloc:  alloc,
		pretty: flags&Pretty != 0,
		nan:    flags&AllowInfAndNaN != 0,
		buf:    alloc.Alloc(defaultBufferSize),
	}
	if w.buf == nil {
		return nil, jsonerr.New(jsonerr.MemoryAllocation, -1, "allocator refused initial buffer")
	}

	if err := w.writeValue(v, 0); err != nil {
		alloc.Free(w.buf)
		return nil, err
	}
	return w.buf, nil
}

// WriteToFile serializes v the same way Write does, then creates (or
// truncates) path and writes the result to it — the plain, non-atomic file
// commit spec.md §4.5/§7 calls for (matching yyjson_mut_write_file: create,
// write, close; no temp-file-plus-rename envelope). Opening the file is
// classified as jsonerr.FileOpen; any failure to write or close it once open
// is classified as jsonerr.FileWrite.
func WriteToFile(path string, v *jsonvalue.Value, flags Flags, alloc jsonalloc.Allocator) *jsonerr.Error {
	out, err := Write(v, flags, alloc)
	if err != nil {
		return err
	}

	f, oerr := os.Create(path)
	if oerr != nil {
		return jsonerr.Wrap(jsonerr.FileOpen, -1, "open file for writing", oerr)
	}

	if _, werr := f.Write(out); werr != nil {
		_ = f.Close()
		return jsonerr.Wrap(jsonerr.FileWrite, -1, "write file contents", werr)
	}
	if cerr := f.Close(); cerr != nil {
		return jsonerr.Wrap(jsonerr.FileWrite, -1, "close file after writing", cerr)
	}
	return nil
}

const defaultBufferSize = 256

type writer struct {
	alloc  jsonalloc.Allocator
	buf    []byte
	pretty bool
	nan    bool
}

// grow ensures at least n more bytes of spare capacity, reallocating
// through the allocator (and failing the whole write) if it cannot.
func (w *writer) grow(n int) *jsonerr.Error {
	if len(w.buf)+n <= cap(w.buf) {
		return nil
	}
	need := len(w.buf) + n
	newCap := cap(w.buf) * 2
	if newCap < need {
		newCap = need
	}
	next := w.alloc.Realloc(w.buf, newCap)
	if next == nil {
		return jsonerr.New(jsonerr.MemoryAllocation, -1, "allocator refused to grow buffer")
	}
	w.buf = next
	return nil
}

func (w *writer) appendByte(b byte) *jsonerr.Error {
	if err := w.grow(1); err != nil {
		return err
	}
	w.buf = append(w.buf, b)
	return nil
}

func (w *writer) appendString(s string) *jsonerr.Error {
	if err := w.grow(len(s)); err != nil {
		return err
	}
	w.buf = append(w.buf, s...)
	return nil
}

func (w *writer) appendIndent(depth int) *jsonerr.Error {
	if !w.pretty {
		return nil
	}
	if err := w.appendByte('\n'); err != nil {
		return err
	}
	for i := 0; i < depth; i++ {
		if err := w.appendString(indentUnit); err != nil {
			return err
		}
	}
	return nil
}

func (w *writer) writeValue(v *jsonvalue.Value, depth int) *jsonerr.Error {
	switch v.Kind {
	case jsonvalue.KindNull:
		return w.appendString("null")
	case jsonvalue.KindBool:
		if v.Bool {
			return w.appendString("true")
		}
		return w.appendString("false")
	case jsonvalue.KindUint:
		return w.appendString(jsonnum.FormatUint(v.Uint))
	case jsonvalue.KindSint:
		return w.appendString(jsonnum.FormatSint(v.Sint))
	case jsonvalue.KindReal:
		s, ok := jsonnum.FormatReal(v.Real, w.nan)
		if !ok {
			return jsonerr.New(jsonerr.NanOrInf, -1, "non-finite real without AllowInfAndNaN")
		}
		return w.appendString(s)
	case jsonvalue.KindRaw:
		return w.appendString(string(v.Raw))
	case jsonvalue.KindString:
		return w.writeString(v.Str)
	case jsonvalue.KindArray:
		return w.writeArray(v, depth)
	case jsonvalue.KindObject:
		return w.writeObject(v, depth)
	default:
		return jsonerr.New(jsonerr.InvalidValueType, -1, "unknown value kind")
	}
}

func (w *writer) writeArray(v *jsonvalue.Value, depth int) *jsonerr.Error {
	if err := w.appendByte('['); err != nil {
		return err
	}
	for i := range v.Elems {
		if i > 0 {
			if err := w.appendByte(','); err != nil {
				return err
			}
		}
		if err := w.appendIndent(depth + 1); err != nil {
			return err
		}
		if err := w.writeValue(&v.Elems[i], depth+1); err != nil {
			return err
		}
	}
	if len(v.Elems) > 0 {
		if err := w.appendIndent(depth); err != nil {
			return err
		}
	}
	return w.appendByte(']')
}

// writeObject walks members in insertion order, emitting duplicate keys
// exactly as stored — no sorting, no deduplication.
func (w *writer) writeObject(v *jsonvalue.Value, depth int) *jsonerr.Error {
	if err := w.appendByte('{'); err != nil {
		return err
	}
	for i := range v.Members {
		if i > 0 {
			if err := w.appendByte(','); err != nil {
				return err
			}
		}
		if err := w.appendIndent(depth + 1); err != nil {
			return err
		}
		if err := w.writeString(v.Members[i].Key); err != nil {
			return err
		}
		if err := w.appendByte(':'); err != nil {
			return err
		}
		if w.pretty {
			if err := w.appendByte(' '); err != nil {
				return err
			}
		}
		if err := w.writeValue(&v.Members[i].Value, depth+1); err != nil {
			return err
		}
	}
	if len(v.Members) > 0 {
		if err := w.appendIndent(depth); err != nil {
			return err
		}
	}
	return w.appendByte('}')
}

// writeString applies JSON's mandatory string escaping: control characters,
// '"', and '\\' are escaped; the solidus '/' is emitted raw.
func (w *writer) writeString(s string) *jsonerr.Error {
	if err := w.appendByte('"'); err != nil {
		return err
	}
	for i := 0; i < len(s); {
		consumed, err := w.appendEscapedByte(s[i])
		if err != nil {
			return err
		}
		if consumed {
			i++
			continue
		}
		size := byteSpanForCopy(s, i)
		if err := w.appendString(s[i : i+size]); err != nil {
			return err
		}
		i += size
	}
	return w.appendByte('"')
}

// appendEscapedByte writes the escape sequence for b if one applies, and
// reports whether b was consumed this way.
func (w *writer) appendEscapedByte(b byte) (consumed bool, err *jsonerr.Error) {
	switch b {
	case '"':
		return true, w.appendString(`\"`)
	case '\\':
		return true, w.appendString(`\\`)
	case '\b':
		return true, w.appendString(`\b`)
	case '\t':
		return true, w.appendString(`\t`)
	case '\n':
		return true, w.appendString(`\n`)
	case '\f':
		return true, w.appendString(`\f`)
	case '\r':
		return true, w.appendString(`\r`)
	default:
		if b < 0x20 {
			return true, w.appendString(string([]byte{'\\', 'u', '0', '0', hexDigit(b >> 4), hexDigit(b & 0x0F)}))
		}
		return false, nil
	}
}

func byteSpanForCopy(s string, i int) int {
	b := s[i]
	if b < 0x80 {
		return 1
	}
	size := utf8SeqLen(b)
	if i+size > len(s) {
		return len(s) - i
	}
	return size
}

func hexDigit(b byte) byte {
	if b < 10 {
		return '0' + b
	}
	return 'a' + (b - 10)
}

func utf8SeqLen(b byte) int {
	switch {
	case b < 0x80:
		return 1
	case b < 0xE0:
		return 2
	case b < 0xF0:
		return 3
	default:
		return 4
	}
}
