package generator

import (
	"encoding/base64"
	"fmt"
	"time"

	"github.com/goccy/go-json"
	"github.com/mcncl/typedjson/internal/errors"
	"github.com/mcncl/typedjson/internal/models"
	"github.com/mcncl/typedjson/value"
)

// Textual layouts of the non-native variants on the wire.
const (
	DateLayout      = "2006-01-02"
	TimeLayout      = "15:04:05"
	TimestampLayout = time.RFC3339Nano
)

// Generator renders typed values back to the wire format
type Generator struct{}

// NewGenerator creates a new Generator instance
func NewGenerator() *Generator {
	return &Generator{}
}

// GenerateDocument encodes every member of a document into a wire object.
func (g *Generator) GenerateDocument(entries map[string]value.Value) (models.JSONObject, error) {
	obj := make(models.JSONObject, len(entries))
	for key, v := range entries {
		wire, err := g.Generate(v)
		if err != nil {
			return nil, errors.NewEncodingError(fmt.Sprintf("cannot encode member '%s'", key), err)
		}
		obj[key] = wire
	}
	return obj, nil
}

// Generate encodes one value into its canonical wire form. Every variant has
// exactly one encoding. The zero Value is rejected, as are dates and
// timestamps outside the four-digit years.
func (g *Generator) Generate(v value.Value) (models.JSONValue, error) {
	switch v.Kind() {
	case value.KindBoolean:
		b, _ := v.AsBoolean()
		return b, nil
	case value.KindObject:
		members, _ := v.AsObject()
		obj := make(models.JSONObject, len(members))
		for key, m := range members {
			wire, err := g.Generate(m)
			if err != nil {
				return nil, err
			}
			obj[key] = wire
		}
		return obj, nil
	case value.KindDate:
		d, _ := v.AsDate()
		if !d.IsValid() || d.Year < value.MinYear || d.Year > value.MaxYear {
			return nil, fmt.Errorf("date %s has no RFC 3339 form: %w", d, errors.ErrInvalidValue)
		}
		return Text(v), nil
	case value.KindTimestamp:
		ts, _ := v.AsTimestamp()
		if y := ts.Year(); y < value.MinYear || y > value.MaxYear {
			return nil, fmt.Errorf("timestamp in year %d has no RFC 3339 form: %w", y, errors.ErrInvalidValue)
		}
		return Text(v), nil
	case value.KindDecimal, value.KindTime, value.KindString, value.KindBinary:
		return Text(v), nil
	default:
		return nil, errors.ErrInvalidValue
	}
}

// Text returns the wire string of a scalar value. Decimals are rendered as
// text, never as wire numbers, so they keep their precision. Booleans render
// as "true"/"false"; Objects and the zero Value render as "".
func Text(v value.Value) string {
	switch v.Kind() {
	case value.KindBoolean:
		b, _ := v.AsBoolean()
		if b {
			return "true"
		}
		return "false"
	case value.KindDecimal:
		d, _ := v.AsDecimal()
		return d.Text('f')
	case value.KindDate:
		d, _ := v.AsDate()
		return d.In(time.UTC).Format(DateLayout)
	case value.KindTime:
		t, _ := v.AsTime()
		return fmt.Sprintf("%02d:%02d:%02d", t.Hour, t.Minute, t.Second)
	case value.KindTimestamp:
		ts, _ := v.AsTimestamp()
		return ts.UTC().Format(TimestampLayout)
	case value.KindString:
		s, _ := v.AsString()
		return s
	case value.KindBinary:
		b, _ := v.AsBinary()
		return base64.StdEncoding.EncodeToString(b)
	}
	return ""
}

// Render prints a wire tree as compact text. Map keys are emitted in sorted
// order and HTML characters are left unescaped.
func (g *Generator) Render(tree models.JSONValue) (string, error) {
	out, err := json.MarshalWithOption(tree, json.DisableHTMLEscape())
	if err != nil {
		return "", errors.NewEncodingError("failed to render JSON", err)
	}
	return string(out), nil
}
