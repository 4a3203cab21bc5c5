package formatter

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/goccy/go-json"
)

// Formatter lays out serialized documents for output
type Formatter struct {
	// Indent is the per-level indentation; empty means compact output.
	Indent string
	// TrailingNewline appends a single newline to non-empty output.
	TrailingNewline bool
}

// NewFormatter creates a new Formatter producing compact output
func NewFormatter() *Formatter {
	return &Formatter{}
}

// NewIndentFormatter creates a Formatter that indents each level with indent
func NewIndentFormatter(indent string) *Formatter {
	return &Formatter{Indent: indent}
}

// Format takes serialized text and returns it re-laid out. Only whitespace
// between tokens changes; key order and string contents are preserved.
func (f *Formatter) Format(text string) (string, error) {
	// Handle empty input
	if strings.TrimSpace(text) == "" {
		return "", nil
	}

	var buf bytes.Buffer
	var err error
	if f.Indent == "" {
		err = json.Compact(&buf, []byte(text))
	} else {
		err = json.Indent(&buf, []byte(text), "", f.Indent)
	}
	if err != nil {
		return "", fmt.Errorf("failed to lay out JSON: %w", err)
	}

	result := strings.TrimRight(buf.String(), "\n")
	if f.TrailingNewline {
		result += "\n"
	}
	return result, nil
}
