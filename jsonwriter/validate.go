package jsonwriter

import (
	"math"
	"unicode/utf8"

	"github.com/lattice-substrate/gojson/jsonerr"
	"github.com/lattice-substrate/gojson/jsonvalue"
)

// DefaultMaxDepth bounds the nesting depth Validate will accept.
const DefaultMaxDepth = 1000

// Validate walks v depth-first and reports the first structural problem
// that would prevent serialization: an unrecognized Kind, invalid UTF-8 in
// a string or object key, or (unless allowInfAndNaN is set) a non-finite
// KindReal value. It does not reject duplicate object keys — the data model
// permits them.
func Validate(v *jsonvalue.Value, allowInfAndNaN bool) *jsonerr.Error {
	return validateValue(v, 0, allowInfAndNaN)
}

func validateValue(v *jsonvalue.Value, depth int, allowInfAndNaN bool) *jsonerr.Error {
	if depth > DefaultMaxDepth {
		return jsonerr.New(jsonerr.BoundExceeded, -1, "value nesting depth exceeds maximum")
	}

	switch v.Kind {
	case jsonvalue.KindNull, jsonvalue.KindBool, jsonvalue.KindUint, jsonvalue.KindSint, jsonvalue.KindRaw:
		return nil
	case jsonvalue.KindReal:
		return validateReal(v, allowInfAndNaN)
	case jsonvalue.KindString:
		return validateString(v.Str)
	case jsonvalue.KindArray:
		for i := range v.Elems {
			if err := validateValue(&v.Elems[i], depth+1, allowInfAndNaN); err != nil {
				return err
			}
		}
		return nil
	case jsonvalue.KindObject:
		for i := range v.Members {
			if err := validateString(v.Members[i].Key); err != nil {
				return err
			}
			if err := validateValue(&v.Members[i].Value, depth+1, allowInfAndNaN); err != nil {
				return err
			}
		}
		return nil
	default:
		return jsonerr.New(jsonerr.InvalidValueType, -1, "unknown value kind")
	}
}

func validateReal(v *jsonvalue.Value, allowInfAndNaN bool) *jsonerr.Error {
	if allowInfAndNaN {
		return nil
	}
	if isNonFinite(v.Real) {
		return jsonerr.New(jsonerr.NanOrInf, -1, "non-finite real without AllowInfAndNaN")
	}
	return nil
}

func isNonFinite(f float64) bool {
	return math.IsNaN(f) || math.IsInf(f, 0)
}

func validateString(s string) *jsonerr.Error {
	if !utf8.ValidString(s) {
		return jsonerr.New(jsonerr.InvalidUTF8, -1, "string is not valid UTF-8")
	}
	return nil
}
