package analyzer

import (
	"encoding/base64"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"cloud.google.com/go/civil"
	"github.com/cockroachdb/apd/v3"
	"github.com/goccy/go-json"
	"github.com/mcncl/typedjson/internal/errors"
	"github.com/mcncl/typedjson/internal/models"
	"github.com/mcncl/typedjson/value"
)

// MaxDecimalScale is the largest number of fractional digits a classified
// number keeps; longer fractions are rounded half-even.
const MaxDecimalScale = 28

// Regex patterns for the textual variants. The layouts alone are lenient
// (time.Parse accepts fractional seconds after any seconds field), so the
// exact shape is pinned here first.
var (
	dateOnlyRegex = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`) // 2006-01-02
	timeOnlyRegex = regexp.MustCompile(`^\d{2}:\d{2}:\d{2}$`) // 15:04:05
)

// maxDecimal is the largest magnitude a classified number may have (2^96 - 1).
var maxDecimal = mustDecimal("79228162514264337593543950335")

func mustDecimal(s string) *apd.Decimal {
	d, _, err := apd.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

// base64Encoding is the standard alphabet with padding and no tolerance for
// non-zero trailing bits, so every accepted string re-encodes to itself.
var base64Encoding = base64.StdEncoding.Strict()

// Analyzer classifies untyped wire trees into typed values.
type Analyzer struct {
	// rounding is used to clamp decimal scale; it is read-only after construction.
	rounding *apd.Context
}

// NewAnalyzer creates a new Analyzer instance.
func NewAnalyzer() *Analyzer {
	ctx := apd.BaseContext.WithPrecision(40)
	ctx.Rounding = apd.RoundHalfEven
	return &Analyzer{rounding: ctx}
}

// AnalyzeDocument classifies every member of a wire object. Either every leaf
// classifies or an error is returned; no partial result is produced.
func (a *Analyzer) AnalyzeDocument(obj models.JSONObject) (map[string]value.Value, error) {
	return a.analyzeObject(obj, nil)
}

// Analyze classifies a single wire value.
func (a *Analyzer) Analyze(node models.JSONValue) (value.Value, error) {
	return a.analyzeNode(node, nil)
}

// analyzeNode is the core recursive function that picks the variant for a
// given wire node. The order of the cases is the classification priority.
func (a *Analyzer) analyzeNode(node models.JSONValue, path models.Path) (value.Value, error) {
	switch v := node.(type) {
	case bool:
		return value.Boolean(v), nil
	case json.Number:
		return a.analyzeNumber(v, path)
	case float64:
		return a.analyzeFloat(v, strconv.FormatFloat(v, 'g', -1, 64), path)
	case string:
		return a.AnalyzeString(v), nil
	case models.JSONObject:
		members, err := a.analyzeObject(v, path)
		if err != nil {
			return value.Value{}, err
		}
		return value.Object(members), nil
	case map[string]interface{}:
		obj := make(models.JSONObject, len(v))
		for key, member := range v {
			obj[key] = member
		}
		return a.analyzeNode(obj, path)
	case nil:
		return value.Value{}, errors.NewClassificationError(
			fmt.Sprintf("null at '%s' has no typed representation", path),
			errors.ErrUnsupportedType,
		)
	case models.JSONArray, []interface{}:
		return value.Value{}, errors.NewClassificationError(
			fmt.Sprintf("array at '%s' has no typed representation", path),
			errors.ErrUnsupportedType,
		)
	default:
		return value.Value{}, errors.NewClassificationError(
			fmt.Sprintf("unexpected json value type %T at '%s'", v, path),
			errors.ErrUnsupportedType,
		)
	}
}

func (a *Analyzer) analyzeObject(obj models.JSONObject, path models.Path) (map[string]value.Value, error) {
	members := make(map[string]value.Value, len(obj))
	for key, val := range obj {
		typed, err := a.analyzeNode(val, path.Child(key))
		if err != nil {
			return nil, err
		}
		members[key] = typed
	}
	return members, nil
}

// analyzeNumber converts a wire number to a Decimal by way of float64. A
// number that cannot survive that conversion is an error, never a String.
func (a *Analyzer) analyzeNumber(num json.Number, path models.Path) (value.Value, error) {
	f, err := strconv.ParseFloat(string(num), 64)
	if err != nil {
		return value.Value{}, errors.NewConversionError(
			fmt.Sprintf("number %s at '%s' does not fit a 64-bit float", num, path),
			errors.ErrInvalidDecimal,
		)
	}
	return a.analyzeFloat(f, string(num), path)
}

func (a *Analyzer) analyzeFloat(f float64, text string, path models.Path) (value.Value, error) {
	d, err := a.ToDecimal(f)
	if err != nil {
		return value.Value{}, errors.NewConversionError(
			fmt.Sprintf("number %s at '%s' %v", text, path, err),
			errors.ErrInvalidDecimal,
		)
	}
	v, err := value.Decimal(d)
	if err != nil {
		return value.Value{}, errors.NewConversionError(
			fmt.Sprintf("number %s at '%s' is not a valid decimal", text, path),
			errors.ErrInvalidDecimal,
		)
	}
	return v, nil
}

// ToDecimal converts f to the shortest decimal that round-trips to the same
// float64, clamped to MaxDecimalScale fractional digits.
func (a *Analyzer) ToDecimal(f float64) (*apd.Decimal, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil, fmt.Errorf("is not finite")
	}
	d, err := new(apd.Decimal).SetFloat64(f)
	if err != nil {
		return nil, fmt.Errorf("cannot be converted: %w", err)
	}
	if d.Exponent < -MaxDecimalScale {
		if _, err := a.rounding.Quantize(d, d, -MaxDecimalScale); err != nil {
			return nil, fmt.Errorf("cannot be rounded to %d places: %w", MaxDecimalScale, err)
		}
	}
	if new(apd.Decimal).Abs(d).Cmp(maxDecimal) > 0 {
		return nil, fmt.Errorf("exceeds the decimal range")
	}
	if d.IsZero() {
		d.Negative = false
	}
	return d, nil
}

// AnalyzeString classifies wire text. Rules are tried in a fixed order and
// the first match wins; text matching none of them stays a String.
func (a *Analyzer) AnalyzeString(s string) value.Value {
	if b, ok := decodeBase64(s); ok {
		return value.Binary(b)
	}
	if d, ok := parseDate(s); ok {
		return value.Date(d)
	}
	if t, ok := parseTime(s); ok {
		return value.Time(t)
	}
	if ts, ok := parseTimestamp(s); ok {
		return value.Timestamp(ts)
	}
	return value.String(s)
}

func decodeBase64(s string) ([]byte, bool) {
	// The stdlib decoder silently skips CR and LF; those strings are text.
	if strings.ContainsAny(s, "\r\n") {
		return nil, false
	}
	b, err := base64Encoding.DecodeString(s)
	if err != nil {
		return nil, false
	}
	return b, true
}

func parseDate(s string) (civil.Date, bool) {
	if !dateOnlyRegex.MatchString(s) {
		return civil.Date{}, false
	}
	d, err := civil.ParseDate(s)
	if err != nil {
		return civil.Date{}, false
	}
	return d, true
}

func parseTime(s string) (civil.Time, bool) {
	if !timeOnlyRegex.MatchString(s) {
		return civil.Time{}, false
	}
	t, err := time.Parse("15:04:05", s)
	if err != nil {
		return civil.Time{}, false
	}
	return civil.TimeOf(t), true
}

func parseTimestamp(s string) (time.Time, bool) {
	ts, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, false
	}
	// An offset can push the UTC year out of the four-digit range.
	ts = ts.UTC()
	if ts.Year() < value.MinYear || ts.Year() > value.MaxYear {
		return time.Time{}, false
	}
	return ts, true
}
