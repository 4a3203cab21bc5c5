package analyzer

import (
	"testing"
	"time"

	stderrors "errors"

	"cloud.google.com/go/civil"
	"github.com/goccy/go-json"
	"github.com/mcncl/typedjson/internal/errors"
	"github.com/mcncl/typedjson/internal/models"
	"github.com/mcncl/typedjson/internal/parser"
	"github.com/mcncl/typedjson/value"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func analyze(t *testing.T, jsonInput string) map[string]value.Value {
	t.Helper()
	obj, err := parser.ParseObject([]byte(jsonInput))
	require.NoError(t, err)
	members, err := NewAnalyzer().AnalyzeDocument(obj)
	require.NoError(t, err)
	return members
}

func TestAnalyze_SimpleObject(t *testing.T) {
	members := analyze(t, `{"is_active": true, "notes": "hello", "file_data": "SGVsbG8gd29ybGQ="}`)

	require.Len(t, members, 3)
	assert.True(t, value.Boolean(true).Equal(members["is_active"]))
	assert.True(t, value.String("hello").Equal(members["notes"]))
	assert.True(t, value.Binary([]byte{72, 101, 108, 108, 111, 32, 119, 111, 114, 108, 100}).Equal(members["file_data"]))
}

func TestAnalyze_NestedObject(t *testing.T) {
	members := analyze(t, `{
		"is_active": true,
		"balance": 1234.5678,
		"profile": {
			"created_date": "2024-11-02",
			"created_time": "14:30:00",
			"last_login": "2024-11-02T14:30:00Z",
			"username": "user123",
			"address": {"city": "Anytown"}
		}
	}`)

	profile := members["profile"]
	require.Equal(t, value.KindObject, profile.Kind())
	assert.Equal(t, 5, profile.Len())

	expected := value.Object(map[string]value.Value{
		"created_date": value.Date(civil.Date{Year: 2024, Month: time.November, Day: 2}),
		"created_time": value.Time(civil.Time{Hour: 14, Minute: 30}),
		"last_login":   value.Timestamp(time.Date(2024, 11, 2, 14, 30, 0, 0, time.UTC)),
		"username":     value.String("user123"),
		"address":      value.Object(map[string]value.Value{"city": value.String("Anytown")}),
	})
	assert.True(t, expected.Equal(profile), "got %s", profile)
	assert.True(t, value.MustDecimal("1234.5678").Equal(members["balance"]))
}

func TestAnalyzeString_PriorityOrder(t *testing.T) {
	a := NewAnalyzer()
	tests := []struct {
		name  string
		input string
		kind  value.Kind
	}{
		{"padded base64", "SGVsbG8gd29ybGQ=", value.KindBinary},
		{"short word that is valid base64", "user", value.KindBinary},
		{"digits that are valid base64", "20240101", value.KindBinary},
		{"the word true", "true", value.KindBinary},
		{"empty string decodes to no bytes", "", value.KindBinary},
		{"odd length word", "hello", value.KindString},
		{"non-canonical trailing bits", "SGl=", value.KindString},
		{"url-safe alphabet", "ab-_", value.KindString},
		{"base64 split by newline", "SGVs\nbG8=", value.KindString},
		{"date", "2024-11-02", value.KindDate},
		{"leap day", "2024-02-29", value.KindDate},
		{"impossible date", "2023-02-29", value.KindString},
		{"single digit month", "2024-1-02", value.KindString},
		{"time", "14:30:00", value.KindTime},
		{"time with fraction", "14:30:00.5", value.KindString},
		{"hour out of range", "25:00:00", value.KindString},
		{"timestamp utc", "2024-11-02T14:30:00Z", value.KindTimestamp},
		{"timestamp with offset", "2024-11-02T16:30:00+02:00", value.KindTimestamp},
		{"timestamp with fraction", "2024-11-02T14:30:00.123456789Z", value.KindTimestamp},
		{"timestamp without zone", "2024-11-02T14:30:00", value.KindString},
		{"sentence", "This is a test", value.KindString},
		{"decimal text", "1234.5678", value.KindString},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := a.AnalyzeString(tt.input)
			assert.Equal(t, tt.kind, got.Kind(), "classified %q as %s", tt.input, got)
		})
	}
}

func TestAnalyzeString_BinaryWinsOverText(t *testing.T) {
	// "1234" reads like a number and "abcd" like a word; both are valid base64
	// and the binary rule is checked before any textual rule.
	a := NewAnalyzer()

	got := a.AnalyzeString("1234")
	b, err := got.AsBinary()
	require.NoError(t, err)
	assert.Equal(t, []byte{0xd7, 0x6d, 0xf8}, b)

	assert.Equal(t, value.KindBinary, a.AnalyzeString("abcd").Kind())
}

func TestAnalyzeString_TimestampNormalisedToUTC(t *testing.T) {
	got := NewAnalyzer().AnalyzeString("2024-11-02T16:30:00+02:00")
	ts, err := got.AsTimestamp()
	require.NoError(t, err)
	assert.Equal(t, time.UTC, ts.Location())
	assert.Equal(t, time.Date(2024, 11, 2, 14, 30, 0, 0, time.UTC), ts)
}

func TestAnalyzeString_TimestampLeavingFourDigitYearsIsText(t *testing.T) {
	for _, s := range []string{"0000-01-01T00:30:00+01:00", "9999-12-31T23:30:00-01:00"} {
		assert.Equal(t, value.KindString, NewAnalyzer().AnalyzeString(s).Kind(), s)
	}
	assert.Equal(t, value.KindTimestamp, NewAnalyzer().AnalyzeString("0000-01-01T01:30:00+01:00").Kind())
}

func TestAnalyze_Numbers(t *testing.T) {
	a := NewAnalyzer()
	tests := []struct {
		name string
		num  string
		want string
	}{
		{"fraction", "1234.5678", "1234.5678"},
		{"integer", "100", "100"},
		{"negative", "-42.5", "-42.5"},
		{"trailing zeros dropped by float", "1.50", "1.5"},
		{"exponent form", "1e3", "1000"},
		{"large integer", "1e20", "100000000000000000000"},
		{"small fraction", "0.000001", "0.000001"},
		{"negative zero", "-0.0", "0"},
		{"float rounding", "0.1", "0.1"},
		{"beyond float precision", "3.14159265358979323846", "3.141592653589793"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := a.Analyze(json.Number(tt.num))
			require.NoError(t, err)
			d, err := got.AsDecimal()
			require.NoError(t, err)
			assert.Equal(t, tt.want, d.Text('f'))
		})
	}
}

func TestAnalyze_TinyNumberRoundedToScale(t *testing.T) {
	got, err := NewAnalyzer().Analyze(json.Number("1e-30"))
	require.NoError(t, err)
	d, err := got.AsDecimal()
	require.NoError(t, err)
	assert.True(t, d.IsZero())
	assert.Equal(t, int32(-MaxDecimalScale), d.Exponent)
}

func TestAnalyze_NumberConversionFailures(t *testing.T) {
	a := NewAnalyzer()
	for _, num := range []string{"1e400", "-1e400", "1e29", "79228162514264337593543950336000"} {
		t.Run(num, func(t *testing.T) {
			_, err := a.Analyze(json.Number(num))
			require.Error(t, err)
			assert.True(t, stderrors.Is(err, errors.ErrInvalidDecimal))
			assert.True(t, stderrors.Is(err, &errors.AppError{Type: errors.ErrorTypeConversion}))
		})
	}
}

func TestAnalyze_NumberNearRangeLimit(t *testing.T) {
	got, err := NewAnalyzer().Analyze(json.Number("7.9e28"))
	require.NoError(t, err)
	assert.Equal(t, value.KindDecimal, got.Kind())
}

func TestAnalyze_Float64Input(t *testing.T) {
	got, err := NewAnalyzer().Analyze(1234.5678)
	require.NoError(t, err)
	assert.True(t, value.MustDecimal("1234.5678").Equal(got))
}

func TestAnalyze_UnsupportedTypes(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		wantPath string
	}{
		{"null member", `{"city": null}`, "'city'"},
		{"array member", `{"tags": ["go"]}`, "'tags'"},
		{"nested array", `{"profile": {"tags": []}}`, "'profile.tags'"},
		{"deeply nested null", `{"a": {"b": {"c": null}}}`, "'a.b.c'"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			obj, err := parser.ParseObject([]byte(tt.input))
			require.NoError(t, err)

			members, err := NewAnalyzer().AnalyzeDocument(obj)
			require.Error(t, err)
			assert.Nil(t, members, "no partial document is returned")
			assert.True(t, stderrors.Is(err, errors.ErrUnsupportedType))
			assert.True(t, stderrors.Is(err, &errors.AppError{Type: errors.ErrorTypeClassification}))
			assert.Contains(t, err.Error(), tt.wantPath)
		})
	}
}

func TestAnalyze_UntypedGoMaps(t *testing.T) {
	got, err := NewAnalyzer().Analyze(map[string]interface{}{"ok": true})
	require.NoError(t, err)
	assert.True(t, value.Object(map[string]value.Value{"ok": value.Boolean(true)}).Equal(got))

	got, err = NewAnalyzer().Analyze(map[string]interface{}{
		"inner": map[string]interface{}{"day": "2024-11-02"},
	})
	require.NoError(t, err)
	inner, ok := got.Member("inner")
	require.True(t, ok)
	day, ok := inner.Member("day")
	require.True(t, ok)
	assert.Equal(t, value.KindDate, day.Kind())

	_, err = NewAnalyzer().Analyze(map[string]interface{}{"tags": []interface{}{"a"}})
	assert.True(t, stderrors.Is(err, errors.ErrUnsupportedType))

	_, err = NewAnalyzer().Analyze([]interface{}{})
	assert.True(t, stderrors.Is(err, errors.ErrUnsupportedType))

	_, err = NewAnalyzer().Analyze(42)
	assert.True(t, stderrors.Is(err, errors.ErrUnsupportedType))
}

func TestAnalyze_EmptyObject(t *testing.T) {
	got, err := NewAnalyzer().Analyze(models.JSONObject{})
	require.NoError(t, err)
	assert.Equal(t, value.KindObject, got.Kind())
	assert.Equal(t, 0, got.Len())
}
