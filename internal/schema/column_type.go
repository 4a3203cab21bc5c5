package schema

import (
	"fmt"
	"strings"
)

// ColumnType is a named primitive column type tag. The list is closed.
type ColumnType int

const (
	Boolean ColumnType = iota
	Decimal
	Float
	Integer
	Long
	Date
	Time
	Timestamp
	Varchar
	Clob
	Varbinary
	Blob
	JSON
)

var columnTypeNames = [...]string{
	Boolean:   "BOOLEAN",
	Decimal:   "DECIMAL",
	Float:     "FLOAT",
	Integer:   "INTEGER",
	Long:      "LONG",
	Date:      "DATE",
	Time:      "TIME",
	Timestamp: "TIMESTAMP",
	Varchar:   "VARCHAR",
	Clob:      "CLOB",
	Varbinary: "VARBINARY",
	Blob:      "BLOB",
	JSON:      "JSON",
}

// AllColumnTypes returns every column type in declaration order.
func AllColumnTypes() []ColumnType {
	types := make([]ColumnType, len(columnTypeNames))
	for i := range columnTypeNames {
		types[i] = ColumnType(i)
	}
	return types
}

// String returns the upper-case tag name.
func (c ColumnType) String() string {
	if c < 0 || int(c) >= len(columnTypeNames) {
		return fmt.Sprintf("ColumnType(%d)", int(c))
	}
	return columnTypeNames[c]
}

// ParseColumnType looks up a tag by name, ignoring case and surrounding space.
func ParseColumnType(name string) (ColumnType, error) {
	want := strings.ToUpper(strings.TrimSpace(name))
	for i, n := range columnTypeNames {
		if n == want {
			return ColumnType(i), nil
		}
	}
	return 0, fmt.Errorf("unknown column type %q", name)
}

// MarshalText renders the tag name, so YAML and JSON reports show names.
func (c ColumnType) MarshalText() ([]byte, error) {
	if c < 0 || int(c) >= len(columnTypeNames) {
		return nil, fmt.Errorf("invalid column type %d", int(c))
	}
	return []byte(columnTypeNames[c]), nil
}

// UnmarshalText parses a tag name.
func (c *ColumnType) UnmarshalText(text []byte) error {
	parsed, err := ParseColumnType(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}
