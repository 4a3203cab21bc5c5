package models

// JSONValue is a generic type to represent any untyped wire value.
// This can be a string, json.Number, boolean, nil, JSONObject, or JSONArray.
type JSONValue interface{}

// JSONObject represents a wire object, which is a map of strings to JSONValues.
type JSONObject map[string]JSONValue

// JSONArray represents a wire array, which is a slice of JSONValues.
type JSONArray []JSONValue

// Path is the chain of object keys leading to a nested wire value.
// It is used to point at the offending leaf in error messages.
type Path []string

// Child returns a new path extended by key, leaving p untouched.
func (p Path) Child(key string) Path {
	child := make(Path, len(p), len(p)+1)
	copy(child, p)
	return append(child, key)
}

// String joins the path with dots; the root path renders as "$".
func (p Path) String() string {
	if len(p) == 0 {
		return "$"
	}
	s := p[0]
	for _, k := range p[1:] {
		s += "." + k
	}
	return s
}
