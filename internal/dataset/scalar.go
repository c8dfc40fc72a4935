package dataset

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Kind tags the variant held by a Scalar.
type Kind uint8

const (
	KindNull Kind = iota
	KindNumber
	KindText
)

func (k Kind) String() string {
	switch k {
	case KindNumber:
		return "number"
	case KindText:
		return "text"
	default:
		return "null"
	}
}

// Scalar is a single cell value: a number, a piece of text, or null.
// The zero value is Null.
type Scalar struct {
	kind Kind
	num  float64
	text string
}

// Null returns the null scalar.
func Null() Scalar { return Scalar{} }

// Number wraps a float64. NaN and ±Inf carry no value and become Null.
func Number(f float64) Scalar {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return Null()
	}
	return Scalar{kind: KindNumber, num: f}
}

// Text wraps a string. Text values are never re-parsed as numbers.
func Text(s string) Scalar { return Scalar{kind: KindText, text: s} }

func (s Scalar) Kind() Kind     { return s.kind }
func (s Scalar) IsNull() bool   { return s.kind == KindNull }
func (s Scalar) IsNumber() bool { return s.kind == KindNumber }
func (s Scalar) IsText() bool   { return s.kind == KindText }

// Float returns the numeric payload and whether the scalar is a number.
func (s Scalar) Float() (float64, bool) {
	if s.kind != KindNumber {
		return 0, false
	}
	return s.num, true
}

// Str returns the text payload and whether the scalar is text.
func (s Scalar) Str() (string, bool) {
	if s.kind != KindText {
		return "", false
	}
	return s.text, true
}

// Key returns the trimmed text used as a grouping key. Non-text and blank
// text values yield "" and are not usable as keys.
func (s Scalar) Key() string {
	if s.kind != KindText {
		return ""
	}
	return strings.TrimSpace(s.text)
}

func (s Scalar) String() string {
	switch s.kind {
	case KindNumber:
		return strconv.FormatFloat(s.num, 'g', -1, 64)
	case KindText:
		return s.text
	default:
		return ""
	}
}

// MarshalJSON encodes numbers as JSON numbers, text as strings and null as null.
func (s Scalar) MarshalJSON() ([]byte, error) {
	switch s.kind {
	case KindNumber:
		return json.Marshal(s.num)
	case KindText:
		return json.Marshal(s.text)
	default:
		return []byte("null"), nil
	}
}

// UnmarshalJSON keeps the JSON type: numbers stay numbers and strings stay text.
func (s *Scalar) UnmarshalJSON(b []byte) error {
	var v any
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()
	if err := dec.Decode(&v); err != nil {
		return err
	}
	*s = FromAny(v)
	return nil
}

// FromAny converts a decoded JSON value into a Scalar. Booleans become text,
// nested arrays and objects become their compact JSON text.
func FromAny(v any) Scalar {
	switch t := v.(type) {
	case nil:
		return Null()
	case json.Number:
		f, err := t.Float64()
		if err != nil {
			return Text(t.String())
		}
		return Number(f)
	case float64:
		return Number(t)
	case int:
		return Number(float64(t))
	case int64:
		return Number(float64(t))
	case string:
		return Text(t)
	case bool:
		return Text(strconv.FormatBool(t))
	default:
		b, err := json.Marshal(t)
		if err != nil {
			return Null()
		}
		return Text(string(b))
	}
}
