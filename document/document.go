// Package document provides Document, a key to typed value mapping that
// round-trips through JSON while keeping richer types than JSON has:
// decimals, dates, times, timestamps and binary blobs.
//
// Deserialization infers each value's variant from its wire form; see
// Deserialize for the rules. Serialization writes every variant in a
// canonical textual form that the same rules read back.
//
// A Document has no internal locking. Callers that share one between
// goroutines must guard it externally, for example with a sync.RWMutex.
package document

import (
	"io"
	"sort"

	"github.com/mcncl/typedjson/internal/analyzer"
	"github.com/mcncl/typedjson/internal/errors"
	"github.com/mcncl/typedjson/internal/generator"
	"github.com/mcncl/typedjson/internal/models"
	"github.com/mcncl/typedjson/internal/parser"
	"github.com/mcncl/typedjson/value"
)

// Errors reported by Deserialize and Serialize. Returned errors wrap one of
// these and can be matched with errors.Is.
var (
	ErrEmptyInput      = errors.ErrEmptyInput
	ErrInvalidJSON     = errors.ErrInvalidJSON
	ErrMultipleJSON    = errors.ErrMultipleJSON
	ErrNotObject       = errors.ErrNotObject
	ErrUnsupportedType = errors.ErrUnsupportedType
	ErrInvalidDecimal  = errors.ErrInvalidDecimal
	ErrInvalidValue    = errors.ErrInvalidValue
)

// Document maps unique string keys to typed values. The zero Document is
// empty and ready to use.
type Document struct {
	entries map[string]value.Value
}

// New returns an empty Document.
func New() *Document {
	return &Document{entries: make(map[string]value.Value)}
}

// Deserialize parses text as a JSON object and classifies every member.
//
// Booleans stay Boolean and numbers become Decimal. Strings are tried, in
// order, as standard padded base64 (Binary), YYYY-MM-DD (Date), HH:MM:SS
// (Time) and RFC 3339 (Timestamp, normalised to UTC); anything else is a
// String. Objects are classified recursively. Null and arrays are rejected.
//
// The whole document either classifies or an error is returned.
func Deserialize(text string) (*Document, error) {
	return DeserializeBytes([]byte(text))
}

// DeserializeBytes is Deserialize for text held in a byte slice.
func DeserializeBytes(data []byte) (*Document, error) {
	obj, err := parser.ParseObject(data)
	if err != nil {
		return nil, err
	}
	return fromObject(obj)
}

// Decode reads a single JSON object from r and classifies it like
// Deserialize. Anything but whitespace after the object is an error.
func Decode(r io.Reader) (*Document, error) {
	obj, err := parser.DecodeObject(r)
	if err != nil {
		return nil, err
	}
	return fromObject(obj)
}

func fromObject(obj models.JSONObject) (*Document, error) {
	entries, err := analyzer.NewAnalyzer().AnalyzeDocument(obj)
	if err != nil {
		return nil, err
	}
	return &Document{entries: entries}, nil
}

// Serialize renders the document as compact JSON with keys in sorted order.
// Decimals, dates, times, timestamps and binaries are written as strings.
// It fails only if a stored value is the zero value.Value.
func (d *Document) Serialize() (string, error) {
	g := generator.NewGenerator()
	obj, err := g.GenerateDocument(d.entries)
	if err != nil {
		return "", err
	}
	return g.Render(obj)
}

// Get returns the value stored under key.
func (d *Document) Get(key string) (value.Value, bool) {
	v, ok := d.entries[key]
	return v, ok
}

// Set stores v under key, replacing any previous value. Nested objects are
// replaced, not merged.
func (d *Document) Set(key string, v value.Value) {
	if d.entries == nil {
		d.entries = make(map[string]value.Value)
	}
	d.entries[key] = v
}

// Remove deletes key and returns the value it held, if any.
func (d *Document) Remove(key string) (value.Value, bool) {
	v, ok := d.entries[key]
	if ok {
		delete(d.entries, key)
	}
	return v, ok
}

// Len returns the number of top-level keys.
func (d *Document) Len() int {
	return len(d.entries)
}

// Keys returns the top-level keys in sorted order.
func (d *Document) Keys() []string {
	keys := make([]string, 0, len(d.entries))
	for k := range d.entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Equal reports whether d and other hold the same keys with equal values.
// A nil Document equals only another nil Document.
func (d *Document) Equal(other *Document) bool {
	if d == nil || other == nil {
		return d == other
	}
	if d.Len() != other.Len() {
		return false
	}
	for k, v := range d.entries {
		o, ok := other.entries[k]
		if !ok || !v.Equal(o) {
			return false
		}
	}
	return true
}

// MarshalJSON implements json.Marshaler using Serialize.
func (d *Document) MarshalJSON() ([]byte, error) {
	text, err := d.Serialize()
	if err != nil {
		return nil, err
	}
	return []byte(text), nil
}

// UnmarshalJSON implements json.Unmarshaler using Deserialize. On error the
// receiver is left unchanged.
func (d *Document) UnmarshalJSON(data []byte) error {
	parsed, err := DeserializeBytes(data)
	if err != nil {
		return err
	}
	d.entries = parsed.entries
	return nil
}
