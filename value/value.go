// Package value defines the typed value model carried by a document: a closed
// set of variants (Boolean, Decimal, Date, Time, Timestamp, String, Binary and
// Object) forming a recursive tree.
//
// A Value is immutable once constructed. Constructors copy mutable payloads
// (decimals, byte slices, object maps) and accessors hand out copies, so a
// Value can be shared freely between documents.
package value

import (
	"bytes"
	"fmt"
	"sort"
	"strings"
	"time"

	"cloud.google.com/go/civil"
	"github.com/cockroachdb/apd/v3"
)

// Kind identifies the variant held by a Value.
type Kind uint8

const (
	// Invalid is the kind of the zero Value. It is not a variant and cannot be encoded.
	Invalid Kind = iota
	KindBoolean
	KindDecimal
	KindDate
	KindTime
	KindTimestamp
	KindString
	KindBinary
	KindObject
)

// String returns the variant name.
func (k Kind) String() string {
	switch k {
	case KindBoolean:
		return "Boolean"
	case KindDecimal:
		return "Decimal"
	case KindDate:
		return "Date"
	case KindTime:
		return "Time"
	case KindTimestamp:
		return "Timestamp"
	case KindString:
		return "String"
	case KindBinary:
		return "Binary"
	case KindObject:
		return "Object"
	default:
		return "Invalid"
	}
}

// Kinds lists every variant in declaration order.
func Kinds() []Kind {
	return []Kind{
		KindBoolean, KindDecimal, KindDate, KindTime,
		KindTimestamp, KindString, KindBinary, KindObject,
	}
}

// Value is one node of the typed tree. Exactly one payload field is
// meaningful, selected by kind.
type Value struct {
	kind Kind

	boolVal   bool
	decVal    *apd.Decimal
	dateVal   civil.Date
	timeVal   civil.Time
	tsVal     time.Time
	strVal    string
	binVal    []byte
	objectVal map[string]Value
}

// Boolean creates a boolean value.
func Boolean(b bool) Value {
	return Value{kind: KindBoolean, boolVal: b}
}

// Decimal creates a decimal value from a finite apd decimal. The argument is
// copied; negative zero is normalised to zero.
func Decimal(d *apd.Decimal) (Value, error) {
	if d == nil {
		return Value{}, fmt.Errorf("value: nil decimal")
	}
	if d.Form != apd.Finite {
		return Value{}, fmt.Errorf("value: decimal %s is not finite", d.String())
	}
	c := new(apd.Decimal).Set(d)
	if c.IsZero() {
		c.Negative = false
	}
	return Value{kind: KindDecimal, decVal: c}, nil
}

// DecimalFromString parses decimal text such as "1234.5678" or "-1E-3".
func DecimalFromString(s string) (Value, error) {
	d, _, err := apd.NewFromString(s)
	if err != nil {
		return Value{}, fmt.Errorf("value: invalid decimal %q: %w", s, err)
	}
	return Decimal(d)
}

// MustDecimal is like DecimalFromString but panics on malformed input.
// It is intended for literals in tests and static tables.
func MustDecimal(s string) Value {
	v, err := DecimalFromString(s)
	if err != nil {
		panic(err)
	}
	return v
}

// Years with a four-digit textual form. Dates and timestamps outside this
// range can be held but not serialized.
const (
	MinYear = 0
	MaxYear = 9999
)

// Date creates a calendar date value.
func Date(d civil.Date) Value {
	return Value{kind: KindDate, dateVal: d}
}

// Time creates a time-of-day value. Sub-second precision is dropped since the
// textual form carries whole seconds only.
func Time(t civil.Time) Value {
	t.Nanosecond = 0
	return Value{kind: KindTime, timeVal: t}
}

// Timestamp creates an instant value normalised to UTC. Only instants whose
// UTC year lies within MinYear and MaxYear can be serialized.
func Timestamp(t time.Time) Value {
	return Value{kind: KindTimestamp, tsVal: t.UTC()}
}

// String creates a text value.
func String(s string) Value {
	return Value{kind: KindString, strVal: s}
}

// Binary creates a byte sequence value. The slice is copied.
func Binary(b []byte) Value {
	c := make([]byte, len(b))
	copy(c, b)
	return Value{kind: KindBinary, binVal: c}
}

// Object creates a nested object value. The map is copied shallowly; member
// values are immutable so this is sufficient.
func Object(members map[string]Value) Value {
	c := make(map[string]Value, len(members))
	for k, v := range members {
		c[k] = v
	}
	return Value{kind: KindObject, objectVal: c}
}

// Kind returns the variant of v.
func (v Value) Kind() Kind {
	return v.kind
}

// IsValid reports whether v holds a variant, i.e. it is not the zero Value.
func (v Value) IsValid() bool {
	return v.kind != Invalid
}

func (v Value) expect(k Kind) error {
	if v.kind != k {
		return fmt.Errorf("value: expected %s, got %s", k, v.kind)
	}
	return nil
}

// AsBoolean returns the boolean payload.
func (v Value) AsBoolean() (bool, error) {
	if err := v.expect(KindBoolean); err != nil {
		return false, err
	}
	return v.boolVal, nil
}

// AsDecimal returns a copy of the decimal payload.
func (v Value) AsDecimal() (*apd.Decimal, error) {
	if err := v.expect(KindDecimal); err != nil {
		return nil, err
	}
	return new(apd.Decimal).Set(v.decVal), nil
}

// AsDate returns the date payload.
func (v Value) AsDate() (civil.Date, error) {
	if err := v.expect(KindDate); err != nil {
		return civil.Date{}, err
	}
	return v.dateVal, nil
}

// AsTime returns the time-of-day payload.
func (v Value) AsTime() (civil.Time, error) {
	if err := v.expect(KindTime); err != nil {
		return civil.Time{}, err
	}
	return v.timeVal, nil
}

// AsTimestamp returns the instant payload, always in UTC.
func (v Value) AsTimestamp() (time.Time, error) {
	if err := v.expect(KindTimestamp); err != nil {
		return time.Time{}, err
	}
	return v.tsVal, nil
}

// AsString returns the text payload.
func (v Value) AsString() (string, error) {
	if err := v.expect(KindString); err != nil {
		return "", err
	}
	return v.strVal, nil
}

// AsBinary returns a copy of the byte payload.
func (v Value) AsBinary() ([]byte, error) {
	if err := v.expect(KindBinary); err != nil {
		return nil, err
	}
	c := make([]byte, len(v.binVal))
	copy(c, v.binVal)
	return c, nil
}

// AsObject returns a copy of the member map.
func (v Value) AsObject() (map[string]Value, error) {
	if err := v.expect(KindObject); err != nil {
		return nil, err
	}
	c := make(map[string]Value, len(v.objectVal))
	for k, m := range v.objectVal {
		c[k] = m
	}
	return c, nil
}

// Member looks up a direct member of an Object value. It reports false for
// missing keys and for values that are not objects.
func (v Value) Member(key string) (Value, bool) {
	if v.kind != KindObject {
		return Value{}, false
	}
	m, ok := v.objectVal[key]
	return m, ok
}

// Len returns the number of members of an Object or bytes of a Binary, and 0
// for every other variant.
func (v Value) Len() int {
	switch v.kind {
	case KindObject:
		return len(v.objectVal)
	case KindBinary:
		return len(v.binVal)
	case KindString:
		return len(v.strVal)
	}
	return 0
}

// Equal reports whether v and other hold the same variant and payload.
// Decimals compare numerically, so 1.50 equals 1.5; timestamps compare as
// instants; objects compare member by member regardless of order.
func (v Value) Equal(other Value) bool {
	if v.kind != other.kind {
		return false
	}
	switch v.kind {
	case Invalid:
		return true
	case KindBoolean:
		return v.boolVal == other.boolVal
	case KindDecimal:
		return v.decVal.Cmp(other.decVal) == 0
	case KindDate:
		return v.dateVal == other.dateVal
	case KindTime:
		return v.timeVal == other.timeVal
	case KindTimestamp:
		return v.tsVal.Equal(other.tsVal)
	case KindString:
		return v.strVal == other.strVal
	case KindBinary:
		return bytes.Equal(v.binVal, other.binVal)
	case KindObject:
		if len(v.objectVal) != len(other.objectVal) {
			return false
		}
		for k, m := range v.objectVal {
			o, ok := other.objectVal[k]
			if !ok || !m.Equal(o) {
				return false
			}
		}
		return true
	}
	return false
}

// String renders v for debugging, e.g. Decimal(1234.5678) or
// Object{a: Boolean(true)}. Object members are listed in key order.
func (v Value) String() string {
	switch v.kind {
	case KindBoolean:
		return fmt.Sprintf("Boolean(%t)", v.boolVal)
	case KindDecimal:
		return fmt.Sprintf("Decimal(%s)", v.decVal.Text('f'))
	case KindDate:
		return fmt.Sprintf("Date(%s)", v.dateVal)
	case KindTime:
		return fmt.Sprintf("Time(%02d:%02d:%02d)", v.timeVal.Hour, v.timeVal.Minute, v.timeVal.Second)
	case KindTimestamp:
		return fmt.Sprintf("Timestamp(%s)", v.tsVal.Format(time.RFC3339Nano))
	case KindString:
		return fmt.Sprintf("String(%q)", v.strVal)
	case KindBinary:
		return fmt.Sprintf("Binary(%v)", v.binVal)
	case KindObject:
		keys := make([]string, 0, len(v.objectVal))
		for k := range v.objectVal {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		var sb strings.Builder
		sb.WriteString("Object{")
		for i, k := range keys {
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(k)
			sb.WriteString(": ")
			sb.WriteString(v.objectVal[k].String())
		}
		sb.WriteString("}")
		return sb.String()
	}
	return "Invalid"
}
