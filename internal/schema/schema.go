// Package schema describes a document as a flat list of typed columns
package schema

import (
	"bytes"
	"fmt"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/goccy/go-json"
	"github.com/iancoleman/strcase"
	"github.com/mcncl/typedjson/document"
	"github.com/mcncl/typedjson/internal/errors"
	"github.com/mcncl/typedjson/value"
	"gopkg.in/yaml.v3"
)

// Default size limits above which text and bytes get the large-object tags.
const (
	DefaultClobThreshold = 4000
	DefaultBlobThreshold = 65535
)

// Report formats accepted by Render.
const (
	FormatTable = "table"
	FormatYAML  = "yaml"
	FormatJSON  = "json"
)

// Column name cases accepted in Options.Case.
const (
	CaseSnake          = "snake"
	CaseScreamingSnake = "screaming_snake"
	CaseCamel          = "camel"
	CaseLowerCamel     = "lower_camel"
	CaseKebab          = "kebab"
)

// Options control how values map onto columns.
type Options struct {
	// Flatten expands nested objects into one column per leaf, named by the
	// joined key path. Otherwise an object is a single JSON column.
	Flatten bool
	// Case is the naming convention for column names; empty means snake.
	Case string
	// ClobThreshold is the string length above which VARCHAR becomes CLOB.
	ClobThreshold int
	// BlobThreshold is the byte length above which VARBINARY becomes BLOB.
	BlobThreshold int
}

// DefaultOptions returns options with the default thresholds and no flattening.
func DefaultOptions() Options {
	return Options{
		ClobThreshold: DefaultClobThreshold,
		BlobThreshold: DefaultBlobThreshold,
		Case:          CaseSnake,
	}
}

// ValidCase reports whether name is a supported column name case.
func ValidCase(name string) bool {
	switch name {
	case "", CaseSnake, CaseScreamingSnake, CaseCamel, CaseLowerCamel, CaseKebab:
		return true
	}
	return false
}

func columnName(path []string, nameCase string) string {
	joined := strings.Join(path, "_")
	switch nameCase {
	case CaseScreamingSnake:
		return strcase.ToScreamingSnake(joined)
	case CaseCamel:
		return strcase.ToCamel(joined)
	case CaseLowerCamel:
		return strcase.ToLowerCamel(joined)
	case CaseKebab:
		return strcase.ToKebab(joined)
	default:
		return strcase.ToSnake(joined)
	}
}

// Column is one described key.
type Column struct {
	Name   string     `json:"name" yaml:"name"`
	Type   ColumnType `json:"type" yaml:"type"`
	Source string     `json:"source" yaml:"source"`
	Size   int        `json:"size,omitempty" yaml:"size,omitempty"`
}

// Describe maps each key of doc to a column, sorted by column name. Two keys
// whose names convert to the same column are an error.
func Describe(doc *document.Document, opts Options) ([]Column, error) {
	if !ValidCase(opts.Case) {
		return nil, errors.NewFormatError(fmt.Sprintf("unknown column name case '%s'", opts.Case), nil)
	}
	d := describer{opts: opts, seen: make(map[string]string)}
	for _, key := range doc.Keys() {
		v, _ := doc.Get(key)
		if err := d.add([]string{key}, v); err != nil {
			return nil, err
		}
	}

	sort.Slice(d.columns, func(i, j int) bool {
		return d.columns[i].Name < d.columns[j].Name
	})
	return d.columns, nil
}

type describer struct {
	opts    Options
	columns []Column
	seen    map[string]string
}

func (d *describer) add(path []string, v value.Value) error {
	source := strings.Join(path, ".")

	if v.Kind() == value.KindObject && d.opts.Flatten && v.Len() > 0 {
		members, _ := v.AsObject()
		keys := make([]string, 0, len(members))
		for k := range members {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			child := append(append([]string(nil), path...), k)
			if err := d.add(child, members[k]); err != nil {
				return err
			}
		}
		return nil
	}

	ct, err := d.columnType(v)
	if err != nil {
		return errors.NewFormatError(fmt.Sprintf("cannot describe '%s'", source), err)
	}

	name := columnName(path, d.opts.Case)
	if prev, dup := d.seen[name]; dup {
		return errors.NewFormatError(
			fmt.Sprintf("keys '%s' and '%s' both map to column '%s'", prev, source, name), nil)
	}
	d.seen[name] = source

	col := Column{Name: name, Type: ct, Source: source}
	switch v.Kind() {
	case value.KindString, value.KindBinary:
		col.Size = v.Len()
	}
	d.columns = append(d.columns, col)
	return nil
}

func (d *describer) columnType(v value.Value) (ColumnType, error) {
	switch v.Kind() {
	case value.KindBoolean:
		return Boolean, nil
	case value.KindDecimal:
		return Decimal, nil
	case value.KindDate:
		return Date, nil
	case value.KindTime:
		return Time, nil
	case value.KindTimestamp:
		return Timestamp, nil
	case value.KindString:
		if v.Len() > d.opts.ClobThreshold {
			return Clob, nil
		}
		return Varchar, nil
	case value.KindBinary:
		if v.Len() > d.opts.BlobThreshold {
			return Blob, nil
		}
		return Varbinary, nil
	case value.KindObject:
		return JSON, nil
	default:
		return 0, errors.ErrInvalidValue
	}
}

// Render writes columns in the given report format.
func Render(columns []Column, format string) (string, error) {
	switch format {
	case "", FormatTable:
		return renderTable(columns)
	case FormatYAML:
		out, err := yaml.Marshal(columns)
		if err != nil {
			return "", errors.NewFormatError("failed to render YAML report", err)
		}
		return string(out), nil
	case FormatJSON:
		if columns == nil {
			columns = []Column{}
		}
		out, err := json.MarshalIndent(columns, "", "  ")
		if err != nil {
			return "", errors.NewFormatError("failed to render JSON report", err)
		}
		return string(out) + "\n", nil
	default:
		return "", errors.NewFormatError(fmt.Sprintf("unknown report format '%s'", format), nil)
	}
}

func renderTable(columns []Column) (string, error) {
	var buf bytes.Buffer
	w := tabwriter.NewWriter(&buf, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "COLUMN\tTYPE\tSOURCE")
	for _, c := range columns {
		fmt.Fprintf(w, "%s\t%s\t%s\n", c.Name, c.Type, c.Source)
	}
	if err := w.Flush(); err != nil {
		return "", errors.NewFormatError("failed to render table report", err)
	}
	return buf.String(), nil
}
