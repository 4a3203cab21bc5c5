package parser

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	stderrors "errors" // Standard errors package

	"github.com/goccy/go-json"
	"github.com/mcncl/typedjson/internal/errors" // Custom errors package
	"github.com/mcncl/typedjson/internal/models"
)

// Parse reads a single wire document from an io.Reader into an untyped tree.
// Numbers are kept as json.Number so no precision is lost before classification.
func Parse(reader io.Reader) (models.JSONValue, error) {
	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, errors.NewInputError("failed to read input", err)
	}
	return ParseBytes(data)
}

// ParseBytes parses a single wire document held in memory.
func ParseBytes(data []byte) (models.JSONValue, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, errors.NewParsingError("input is empty or contains only whitespace", errors.ErrEmptyInput)
	}

	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.UseNumber() // Ensure numbers are read as json.Number

	var rootValue models.JSONValue
	if err := decoder.Decode(&rootValue); err != nil {
		var syntaxError *json.SyntaxError
		var unmarshalTypeError *json.UnmarshalTypeError
		if stderrors.As(err, &syntaxError) {
			// The decoder range-checks numbers even when keeping their text.
			if strings.Contains(syntaxError.Error(), strconv.ErrRange.Error()) {
				return nil, errors.NewConversionError(
					fmt.Sprintf("number ending at offset %d does not fit a 64-bit float", syntaxError.Offset),
					errors.ErrInvalidDecimal,
				)
			}
			return nil, errors.NewParsingError(
				fmt.Sprintf("JSON syntax error at offset %d", syntaxError.Offset),
				errors.ErrInvalidJSON,
			)
		}
		if stderrors.As(err, &unmarshalTypeError) {
			return nil, errors.NewParsingError(
				fmt.Sprintf("JSON type error at offset %d for type %s", unmarshalTypeError.Offset, unmarshalTypeError.Type),
				errors.ErrInvalidJSON,
			)
		}
		if stderrors.Is(err, io.EOF) || stderrors.Is(err, io.ErrUnexpectedEOF) {
			return nil, errors.NewParsingError("unexpected end of JSON input", errors.ErrInvalidJSON)
		}
		return nil, errors.NewParsingError("failed to decode JSON", stderrors.Join(errors.ErrInvalidJSON, err))
	}

	// Only whitespace may follow the first value. More() reports false on a
	// stray '}' or ']', so a second Decode always runs and must hit EOF.
	var trailingValue interface{}
	err := decoder.Decode(&trailingValue)
	if err == nil {
		return nil, errors.NewParsingError("multiple JSON values found at the root", errors.ErrMultipleJSON)
	}
	if !stderrors.Is(err, io.EOF) {
		return nil, errors.NewParsingError(
			fmt.Sprintf("invalid trailing data after first JSON value at offset %d", decoder.InputOffset()),
			errors.ErrInvalidJSON,
		)
	}

	return normalizeJSONValue(rootValue), nil
}

// ParseObject parses data and requires the root to be a wire object.
func ParseObject(data []byte) (models.JSONObject, error) {
	root, err := ParseBytes(data)
	if err != nil {
		return nil, err
	}
	return asObject(root)
}

// DecodeObject reads a wire document from reader and requires the root to be
// a wire object.
func DecodeObject(reader io.Reader) (models.JSONObject, error) {
	root, err := Parse(reader)
	if err != nil {
		return nil, err
	}
	return asObject(root)
}

func asObject(root models.JSONValue) (models.JSONObject, error) {
	obj, ok := root.(models.JSONObject)
	if !ok {
		return nil, errors.NewParsingError(
			fmt.Sprintf("expected an object at the root, found %s", Describe(root)),
			errors.ErrNotObject,
		)
	}
	return obj, nil
}

// Describe names the wire kind of an untyped value.
func Describe(val models.JSONValue) string {
	switch val.(type) {
	case nil:
		return "null"
	case bool:
		return "boolean"
	case json.Number:
		return "number"
	case string:
		return "string"
	case models.JSONObject:
		return "object"
	case models.JSONArray:
		return "array"
	default:
		return fmt.Sprintf("%T", val)
	}
}

// normalizeJSONValue converts raw decoder types into our model types
func normalizeJSONValue(val models.JSONValue) models.JSONValue {
	switch v := val.(type) {
	case map[string]interface{}:
		obj := make(models.JSONObject, len(v))
		for key, value := range v {
			obj[key] = normalizeJSONValue(value)
		}
		return obj
	case []interface{}:
		arr := make(models.JSONArray, len(v))
		for i, value := range v {
			arr[i] = normalizeJSONValue(value)
		}
		return arr
	default:
		return v // Primitives (string, json.Number, bool, nil) are returned as is
	}
}

// ReadFile loads the raw bytes of a document file, rejecting missing and empty files.
func ReadFile(filePath string) ([]byte, error) {
	if strings.TrimSpace(filePath) == "" {
		return nil, errors.NewInputError("file path is empty", errors.ErrInvalidFilePath)
	}
	data, err := os.ReadFile(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NewInputError(
				fmt.Sprintf("file '%s' not found", filePath),
				errors.ErrFileNotFound,
			)
		}
		return nil, errors.NewInputError(
			fmt.Sprintf("failed to open file '%s'", filePath),
			err,
		)
	}
	if len(data) == 0 {
		return nil, errors.NewInputError(
			fmt.Sprintf("input file '%s' is empty", filePath),
			errors.ErrFileEmpty,
		)
	}
	return data, nil
}
