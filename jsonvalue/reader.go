package jsonvalue

import (
	"fmt"
	"strconv"
	"unicode/utf16"
	"unicode/utf8"

	"github.com/lattice-substrate/gojson/jsonerr"
	"github.com/lattice-substrate/gojson/jsonnum"
)

// DefaultMaxDepth bounds object/array nesting during Parse.
const DefaultMaxDepth = 1000

// DefaultMaxInputSize bounds the input accepted by Parse (64 MiB).
const DefaultMaxInputSize = 64 * 1024 * 1024

// ReadFlags controls reader behavior; it mirrors jsonnum.Flags for the
// number-specific bits so callers only need to learn one flag vocabulary.
type ReadFlags uint

const (
	// AllowInfAndNaN permits the "NaN"/"Infinity"/"-Infinity" literals in
	// place of a number.
	AllowInfAndNaN ReadFlags = 1 << iota
	// NumberAsRaw stores every number's lexeme verbatim (KindRaw) instead of
	// classifying and converting it.
	NumberAsRaw
)

func (f ReadFlags) numFlags() jsonnum.Flags {
	var out jsonnum.Flags
	if f&AllowInfAndNaN != 0 {
		out |= jsonnum.AllowInfAndNaN
	}
	if f&NumberAsRaw != 0 {
		out |= jsonnum.NumberAsRaw
	}
	return out
}

// ReadOptions configures Parse's resource limits.
type ReadOptions struct {
	MaxDepth     int // 0 means DefaultMaxDepth
	MaxInputSize int // 0 means DefaultMaxInputSize
	Flags        ReadFlags
}

func (o *ReadOptions) maxDepth() int {
	if o != nil && o.MaxDepth > 0 {
		return o.MaxDepth
	}
	return DefaultMaxDepth
}

func (o *ReadOptions) maxInputSize() int {
	if o != nil && o.MaxInputSize > 0 {
		return o.MaxInputSize
	}
	return DefaultMaxInputSize
}

func (o *ReadOptions) flags() ReadFlags {
	if o == nil {
		return 0
	}
	return o.Flags
}

// Parse reads a complete JSON text into a Value tree. Unlike a strict
// canonicalizing reader, it does not reject duplicate object keys (they are
// preserved, in order, as repeated Members), lone surrogate escapes,
// Unicode noncharacters, or the "-0"/underflow-to-zero numeric tokens — all
// of those are valid JSON and are passed through to the caller.
func Parse(data []byte) (Value, *jsonerr.Error) {
	return ParseWithOptions(data, nil)
}

// ParseWithOptions is like Parse but accepts explicit limits and flags.
func ParseWithOptions(data []byte, opts *ReadOptions) (Value, *jsonerr.Error) {
	maxInput := opts.maxInputSize()
	if len(data) > maxInput {
		return Value{}, jsonerr.New(jsonerr.BoundExceeded, 0,
			fmt.Sprintf("input size %d exceeds maximum %d", len(data), maxInput))
	}

	p := &parser{
		data:     data,
		maxDepth: opts.maxDepth(),
		numFlags: opts.flags().numFlags(),
	}

	p.skipWhitespace()
	v, err := p.parseValue()
	if err != nil {
		return Value{}, err
	}
	p.skipWhitespace()
	if p.pos != len(p.data) {
		return Value{}, p.errorf(jsonerr.InvalidValueType, "trailing content after JSON value")
	}
	return v, nil
}

type parser struct {
	data     []byte
	pos      int
	depth    int
	maxDepth int
	numFlags jsonnum.Flags
}

func (p *parser) errorf(class jsonerr.FailureClass, format string, args ...any) *jsonerr.Error {
	return jsonerr.New(class, p.pos, fmt.Sprintf(format, args...))
}

func (p *parser) peek() (byte, bool) {
	if p.pos >= len(p.data) {
		return 0, false
	}
	return p.data[p.pos], true
}

func (p *parser) next() (byte, bool) {
	if p.pos >= len(p.data) {
		return 0, false
	}
	b := p.data[p.pos]
	p.pos++
	return b, true
}

func (p *parser) expect(b byte) *jsonerr.Error {
	c, ok := p.next()
	if !ok {
		return p.errorf(jsonerr.InvalidValueType, "unexpected end of input, expected %q", string(b))
	}
	if c != b {
		return p.errorf(jsonerr.InvalidValueType, "expected %q, got %q", string(b), string(c))
	}
	return nil
}

func (p *parser) skipWhitespace() {
	for p.pos < len(p.data) {
		switch p.data[p.pos] {
		case ' ', '\t', '\n', '\r':
			p.pos++
		default:
			return
		}
	}
}

func (p *parser) pushDepth() *jsonerr.Error {
	p.depth++
	if p.depth > p.maxDepth {
		return p.errorf(jsonerr.BoundExceeded, "nesting depth %d exceeds maximum %d", p.depth, p.maxDepth)
	}
	return nil
}

func (p *parser) popDepth() {
	p.depth--
}

func (p *parser) parseValue() (Value, *jsonerr.Error) {
	c, ok := p.peek()
	if !ok {
		return Value{}, p.errorf(jsonerr.InvalidValueType, "unexpected end of input")
	}

	switch c {
	case '{':
		return p.parseObject()
	case '[':
		return p.parseArray()
	case '"':
		return p.parseString()
	case 't', 'f':
		return p.parseBool()
	case 'n':
		return p.parseNull()
	default:
		return p.parseNumber()
	}
}

func (p *parser) parseObject() (Value, *jsonerr.Error) {
	if err := p.pushDepth(); err != nil {
		return Value{}, err
	}
	defer p.popDepth()

	if err := p.expect('{'); err != nil {
		return Value{}, err
	}
	p.skipWhitespace()

	v := NewObject()

	c, ok := p.peek()
	if !ok {
		return Value{}, p.errorf(jsonerr.InvalidValueType, "unexpected end of input in object")
	}
	if c == '}' {
		p.pos++
		return v, nil
	}

	for {
		p.skipWhitespace()
		key, err := p.parseString()
		if err != nil {
			return Value{}, err
		}

		p.skipWhitespace()
		if err := p.expect(':'); err != nil {
			return Value{}, err
		}
		p.skipWhitespace()

		val, err := p.parseValue()
		if err != nil {
			return Value{}, err
		}
		v.AddMember(key.Str, val)

		p.skipWhitespace()
		c, ok := p.peek()
		if !ok {
			return Value{}, p.errorf(jsonerr.InvalidValueType, "unexpected end of input in object")
		}
		if c == '}' {
			p.pos++
			return v, nil
		}
		if c == ',' {
			p.pos++
			continue
		}
		return Value{}, p.errorf(jsonerr.InvalidValueType, "expected ',' or '}' in object, got %q", string(c))
	}
}

func (p *parser) parseArray() (Value, *jsonerr.Error) {
	if err := p.pushDepth(); err != nil {
		return Value{}, err
	}
	defer p.popDepth()

	if err := p.expect('['); err != nil {
		return Value{}, err
	}
	p.skipWhitespace()

	v := NewArray()

	c, ok := p.peek()
	if !ok {
		return Value{}, p.errorf(jsonerr.InvalidValueType, "unexpected end of input in array")
	}
	if c == ']' {
		p.pos++
		return v, nil
	}

	for {
		p.skipWhitespace()
		elem, err := p.parseValue()
		if err != nil {
			return Value{}, err
		}
		v.AddElem(elem)

		p.skipWhitespace()
		c, ok := p.peek()
		if !ok {
			return Value{}, p.errorf(jsonerr.InvalidValueType, "unexpected end of input in array")
		}
		if c == ']' {
			p.pos++
			return v, nil
		}
		if c == ',' {
			p.pos++
			continue
		}
		return Value{}, p.errorf(jsonerr.InvalidValueType, "expected ',' or ']' in array, got %q", string(c))
	}
}

// parseString parses a JSON string and decodes all escapes. Lone surrogates
// decode to the Unicode replacement character rather than failing — this
// reader does not enforce the stricter well-formed-UTF-16 requirement some
// JSON profiles impose.
func (p *parser) parseString() (Value, *jsonerr.Error) {
	if err := p.expect('"'); err != nil {
		return Value{}, err
	}

	var buf []byte
	for {
		done, err := p.consumeStringChunk(&buf)
		if err != nil {
			return Value{}, err
		}
		if done {
			return NewString(string(buf)), nil
		}
	}
}

func (p *parser) consumeStringChunk(buf *[]byte) (bool, *jsonerr.Error) {
	if p.pos >= len(p.data) {
		return false, p.errorf(jsonerr.InvalidValueType, "unterminated string")
	}
	b := p.data[p.pos]
	if b == '"' {
		p.pos++
		return true, nil
	}
	if b == '\\' {
		return false, p.consumeEscapedRune(buf)
	}
	if b < 0x20 {
		return false, p.errorf(jsonerr.InvalidValueType, "unescaped control character 0x%02X in string", b)
	}
	return false, p.consumeUTF8Chunk(buf)
}

func (p *parser) consumeEscapedRune(buf *[]byte) *jsonerr.Error {
	p.pos++
	r, err := p.parseEscape()
	if err != nil {
		return err
	}
	var tmp [4]byte
	n := utf8.EncodeRune(tmp[:], r)
	*buf = append(*buf, tmp[:n]...)
	return nil
}

func (p *parser) parseEscape() (rune, *jsonerr.Error) {
	if p.pos >= len(p.data) {
		return 0, p.errorf(jsonerr.InvalidValueType, "unterminated escape sequence")
	}
	b := p.data[p.pos]
	p.pos++

	if b == 'u' {
		return p.parseUnicodeEscape()
	}
	r, ok := escapedRune(b)
	if !ok {
		return 0, p.errorf(jsonerr.InvalidValueType, "invalid escape character %q", string(b))
	}
	return r, nil
}

// parseUnicodeEscape parses \uXXXX, combining a following \uXXXX low
// surrogate into a single supplementary-plane rune when present. A lone
// surrogate (high with no following low, or a bare low) decodes to the
// Unicode replacement character instead of failing.
func (p *parser) parseUnicodeEscape() (rune, *jsonerr.Error) {
	r1, err := p.readHex4()
	if err != nil {
		return 0, err
	}

	if !utf16.IsSurrogate(r1) {
		return r1, nil
	}
	if r1 >= 0xDC00 {
		return utf8.RuneError, nil
	}
	if p.pos+1 >= len(p.data) || p.data[p.pos] != '\\' || p.data[p.pos+1] != 'u' {
		return utf8.RuneError, nil
	}

	mark := p.pos
	p.pos += 2
	r2, err := p.readHex4()
	if err != nil {
		p.pos = mark
		return utf8.RuneError, nil
	}
	decoded := utf16.DecodeRune(r1, r2)
	if decoded == utf8.RuneError {
		p.pos = mark
		return utf8.RuneError, nil
	}
	return decoded, nil
}

func escapedRune(b byte) (rune, bool) {
	switch b {
	case '"':
		return '"', true
	case '\\':
		return '\\', true
	case '/':
		return '/', true
	case 'b':
		return '\b', true
	case 'f':
		return '\f', true
	case 'n':
		return '\n', true
	case 'r':
		return '\r', true
	case 't':
		return '\t', true
	default:
		return 0, false
	}
}

func (p *parser) readHex4() (rune, *jsonerr.Error) {
	if p.pos+4 > len(p.data) {
		return 0, p.errorf(jsonerr.InvalidValueType, "incomplete \\u escape")
	}
	hex := string(p.data[p.pos : p.pos+4])
	p.pos += 4
	val, err := strconv.ParseUint(hex, 16, 16)
	if err != nil {
		return 0, p.errorf(jsonerr.InvalidValueType, "invalid hex in \\u escape: %q", hex)
	}
	return rune(val), nil
}

func (p *parser) consumeUTF8Chunk(buf *[]byte) *jsonerr.Error {
	b := p.data[p.pos]
	r, size := utf8.DecodeRune(p.data[p.pos:])
	if r == utf8.RuneError && size <= 1 {
		return p.errorf(jsonerr.InvalidUTF8, "invalid UTF-8 byte 0x%02X in string", b)
	}
	*buf = append(*buf, p.data[p.pos:p.pos+size]...)
	p.pos += size
	return nil
}

func (p *parser) parseNumber() (Value, *jsonerr.Error) {
	start := p.pos
	if p.pos < len(p.data) && p.data[p.pos] == '-' {
		p.pos++
	}

	// AllowInfAndNaN literals don't follow the digit grammar at all; try
	// them before walking digits.
	if p.numFlags&jsonnum.AllowInfAndNaN != 0 {
		if n := p.matchLiteralTail(start); n > 0 {
			p.pos = start + n
			r, numErr := jsonnum.Scan(p.data[start:p.pos], p.numFlags)
			if numErr != nil {
				return Value{}, jsonerr.Wrap(numErr.Class, start, "invalid number literal", numErr)
			}
			return numberResultToValue(r), nil
		}
	}
	p.pos = start
	if p.pos < len(p.data) && p.data[p.pos] == '-' {
		p.pos++
	}

	if err := p.scanIntegerPart(); err != nil {
		return Value{}, err
	}
	p.scanFractionPart()
	p.scanExponentPart()

	lexeme := p.data[start:p.pos]
	r, numErr := jsonnum.Scan(lexeme, p.numFlags)
	if numErr != nil {
		return Value{}, jsonerr.Wrap(numErr.Class, start, "invalid number", numErr)
	}
	return numberResultToValue(r), nil
}

// matchLiteralTail reports how many bytes starting at start (which may
// already include a leading '-') spell "NaN" or "Infinity"/"-Infinity", or 0
// if none match.
func (p *parser) matchLiteralTail(start int) int {
	for _, lit := range [...]string{"-Infinity", "Infinity", "NaN"} {
		end := start + len(lit)
		if end <= len(p.data) && string(p.data[start:end]) == lit {
			return len(lit)
		}
	}
	return 0
}

func (p *parser) scanIntegerPart() *jsonerr.Error {
	if p.pos >= len(p.data) {
		return p.errorf(jsonerr.NoDigit, "unexpected end of input in number")
	}
	if p.data[p.pos] == '0' {
		p.pos++
		return nil
	}
	if !isDigit(p.data[p.pos]) {
		return p.errorf(jsonerr.NoDigit, "invalid number character %q", string(p.data[p.pos]))
	}
	for p.pos < len(p.data) && isDigit(p.data[p.pos]) {
		p.pos++
	}
	return nil
}

func (p *parser) scanFractionPart() {
	if p.pos >= len(p.data) || p.data[p.pos] != '.' {
		return
	}
	mark := p.pos
	p.pos++
	if p.pos >= len(p.data) || !isDigit(p.data[p.pos]) {
		p.pos = mark
		return
	}
	for p.pos < len(p.data) && isDigit(p.data[p.pos]) {
		p.pos++
	}
}

func (p *parser) scanExponentPart() {
	if p.pos >= len(p.data) || (p.data[p.pos] != 'e' && p.data[p.pos] != 'E') {
		return
	}
	mark := p.pos
	i := p.pos + 1
	if i < len(p.data) && (p.data[i] == '+' || p.data[i] == '-') {
		i++
	}
	if i >= len(p.data) || !isDigit(p.data[i]) {
		p.pos = mark
		return
	}
	for i < len(p.data) && isDigit(p.data[i]) {
		i++
	}
	p.pos = i
}

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}

func (p *parser) parseBool() (Value, *jsonerr.Error) {
	if p.pos+4 <= len(p.data) && string(p.data[p.pos:p.pos+4]) == "true" {
		p.pos += 4
		return NewBool(true), nil
	}
	if p.pos+5 <= len(p.data) && string(p.data[p.pos:p.pos+5]) == "false" {
		p.pos += 5
		return NewBool(false), nil
	}
	return Value{}, p.errorf(jsonerr.InvalidValueType, "invalid literal")
}

func (p *parser) parseNull() (Value, *jsonerr.Error) {
	if p.pos+4 <= len(p.data) && string(p.data[p.pos:p.pos+4]) == "null" {
		p.pos += 4
		return NewNull(), nil
	}
	return Value{}, p.errorf(jsonerr.InvalidValueType, "invalid literal")
}
