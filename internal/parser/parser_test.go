package parser

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	stderrors "errors"

	"github.com/goccy/go-json"
	"github.com/mcncl/typedjson/internal/errors"
	"github.com/mcncl/typedjson/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_SimpleObject(t *testing.T) {
	jsonStr := `{"is_active": true, "balance": 1234.5678, "notes": "hello", "city": null}`
	root, err := Parse(strings.NewReader(jsonStr))
	require.NoError(t, err)

	expectedRoot := models.JSONObject{
		"is_active": true,
		"balance":   json.Number("1234.5678"),
		"notes":     "hello",
		"city":      nil,
	}
	assert.Equal(t, expectedRoot, root)
}

func TestParse_NestedObject(t *testing.T) {
	jsonStr := `{"profile": {"created_date": "2024-11-02", "logins": 3}, "tags": ["go", "json"]}`
	root, err := Parse(strings.NewReader(jsonStr))
	require.NoError(t, err)

	expectedRoot := models.JSONObject{
		"profile": models.JSONObject{
			"created_date": "2024-11-02",
			"logins":       json.Number("3"),
		},
		"tags": models.JSONArray{"go", "json"},
	}
	assert.Equal(t, expectedRoot, root)
}

func TestParse_NumbersKeepTheirText(t *testing.T) {
	root, err := ParseBytes([]byte(`{"a": 1200.50, "b": 1e3, "c": -0.000001}`))
	require.NoError(t, err)

	obj := root.(models.JSONObject)
	assert.Equal(t, json.Number("1200.50"), obj["a"])
	assert.Equal(t, json.Number("1e3"), obj["b"])
	assert.Equal(t, json.Number("-0.000001"), obj["c"])
}

func TestParse_EmptyInput(t *testing.T) {
	_, err := Parse(strings.NewReader(""))
	require.Error(t, err)
	assert.True(t, stderrors.Is(err, errors.ErrEmptyInput))
	assert.Contains(t, err.Error(), "input is empty")
}

func TestParseBytes_WhitespaceOnly(t *testing.T) {
	for _, input := range []string{"", "   ", "\n\t"} {
		_, err := ParseBytes([]byte(input))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "input is empty or contains only whitespace")
		assert.True(t, stderrors.Is(err, errors.ErrEmptyInput))
	}
}

func TestParse_MalformedJSON(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"missing closing brace", `{"name": "John Doe", "age": 30`},
		{"missing closing bracket", `["item1", "item2",`},
		{"bare word", `hello`},
		{"single quotes", `{'a': 1}`},
		{"trailing brace", `{"a": 1}}`},
		{"trailing bracket", `{"a": true}]`},
		{"many trailing braces", `{"a": true}}}}`},
		{"trailing comma", `{"a": true},`},
		{"trailing word", `{"a": true} nope`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseBytes([]byte(tt.input))
			require.Error(t, err)
			assert.True(t, stderrors.Is(err, errors.ErrInvalidJSON), "got %v", err)
			assert.True(t, stderrors.Is(err, &errors.AppError{Type: errors.ErrorTypeParsing}))
		})
	}
}

func TestParse_MultipleValues(t *testing.T) {
	_, err := ParseBytes([]byte(`{"a": true} {"b": false}`))
	require.Error(t, err)
	assert.True(t, stderrors.Is(err, errors.ErrMultipleJSON))
}

func TestParse_TrailingWhitespaceAllowed(t *testing.T) {
	root, err := ParseBytes([]byte("{\"a\": true}\n\n  "))
	require.NoError(t, err)
	assert.Equal(t, models.JSONObject{"a": true}, root)
}

func TestParse_RootPrimitives(t *testing.T) {
	testCases := []struct {
		name        string
		jsonStr     string
		expectedVal interface{}
	}{
		{"RootString", `"hello world"`, "hello world"},
		{"RootNumber", `123.45`, json.Number("123.45")},
		{"RootBooleanTrue", `true`, true},
		{"RootBooleanFalse", `false`, false},
		{"RootNull", `null`, nil},
		{"RootArray", `[1, "a"]`, models.JSONArray{json.Number("1"), "a"}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			root, err := ParseBytes([]byte(tc.jsonStr))
			require.NoError(t, err)
			assert.Equal(t, tc.expectedVal, root)
		})
	}
}

func TestParseObject(t *testing.T) {
	obj, err := ParseObject([]byte(`{"notes": "hello"}`))
	require.NoError(t, err)
	assert.Equal(t, models.JSONObject{"notes": "hello"}, obj)

	for _, input := range []string{`[]`, `"text"`, `42`, `null`, `true`} {
		_, err := ParseObject([]byte(input))
		require.Error(t, err, input)
		assert.True(t, stderrors.Is(err, errors.ErrNotObject), input)
	}
}

func TestDescribe(t *testing.T) {
	assert.Equal(t, "null", Describe(nil))
	assert.Equal(t, "boolean", Describe(true))
	assert.Equal(t, "number", Describe(json.Number("1")))
	assert.Equal(t, "string", Describe("x"))
	assert.Equal(t, "object", Describe(models.JSONObject{}))
	assert.Equal(t, "array", Describe(models.JSONArray{}))
}

func TestParse_OutOfRangeNumber(t *testing.T) {
	for _, input := range []string{`{"a": 1e400}`, `{"a": -1e309}`, `{"a": {"b": 2e308}}`} {
		t.Run(input, func(t *testing.T) {
			_, err := ParseBytes([]byte(input))
			require.Error(t, err)
			assert.True(t, stderrors.Is(err, errors.ErrInvalidDecimal), "got %v", err)
			assert.False(t, stderrors.Is(err, errors.ErrInvalidJSON))
			assert.True(t, stderrors.Is(err, &errors.AppError{Type: errors.ErrorTypeConversion}))
		})
	}
}

func TestDecodeObject(t *testing.T) {
	obj, err := DecodeObject(strings.NewReader(`{"product": "Laptop", "price": 1200.50}`))
	require.NoError(t, err)
	assert.Equal(t, models.JSONObject{
		"product": "Laptop",
		"price":   json.Number("1200.50"),
	}, obj)

	_, err = DecodeObject(strings.NewReader(`["Laptop"]`))
	require.Error(t, err)
	assert.True(t, stderrors.Is(err, errors.ErrNotObject))

	_, err = DecodeObject(strings.NewReader(`{"a": 1}]`))
	require.Error(t, err)
	assert.True(t, stderrors.Is(err, errors.ErrInvalidJSON))
}

func TestReadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "simple.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"product": "Laptop"}`), 0o644))

	data, err := ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, `{"product": "Laptop"}`, string(data))
}

func TestReadFile_NonExistentFile(t *testing.T) {
	_, err := ReadFile(filepath.Join(t.TempDir(), "nonexistentfile.json"))
	require.Error(t, err)
	assert.True(t, stderrors.Is(err, errors.ErrFileNotFound))
	assert.Contains(t, err.Error(), "not found")
}

func TestReadFile_EmptyPath(t *testing.T) {
	_, err := ReadFile("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "file path is empty")
	assert.True(t, stderrors.Is(err, errors.ErrInvalidFilePath))
}

func TestReadFile_EmptyFileContent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.json")
	require.NoError(t, os.WriteFile(path, nil, 0o644))

	_, err := ReadFile(path)
	require.Error(t, err)
	assert.True(t, stderrors.Is(err, errors.ErrFileEmpty))
}
