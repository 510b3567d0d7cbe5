package tooldoc

import "strings"

// DefaultPrefix is the canonical ID prefix used when none is configured.
const DefaultPrefix = "ak"

// DefaultParamType is assigned to parameters whose row has no type column.
const DefaultParamType = "string"

// Param is one row of an input parameter table.
type Param struct {
	Name string `json:"name" yaml:"name"`
	Type string `json:"type" yaml:"type"`
}

// Record is one parsed interface block.
type Record struct {
	// Name is the identifier as it appears in the provider namespace.
	Name string `json:"name" yaml:"name"`
	// ID is the canonical, prefixed identifier exposed to callers.
	ID string `json:"full_name" yaml:"full_name"`
	// Category is the document the record was parsed from.
	Category string `json:"category" yaml:"category"`
	// Description is the one-line summary; may be empty.
	Description string `json:"description" yaml:"description"`
	// Params lists the input parameters in table order.
	Params []Param `json:"params" yaml:"params"`
	// Source points at the document (and line) the block started on.
	Source string `json:"source" yaml:"source"`
}

// ParamNames returns the parameter names in table order.
func (r Record) ParamNames() []string {
	names := make([]string, len(r.Params))
	for i, p := range r.Params {
		names[i] = p.Name
	}
	return names
}

// Clone returns a copy of r that shares no slices with it.
func (r Record) Clone() Record {
	out := r
	if r.Params != nil {
		out.Params = make([]Param, len(r.Params))
		copy(out.Params, r.Params)
	}
	return out
}

// CanonicalID derives the canonical ID for a bare name in a category.
//
// A name that already carries the "<category>_" prefix is joined to the
// prefix directly so the category segment never appears twice.
func CanonicalID(prefix, category, name string) string {
	id := category + "_" + name
	if strings.HasPrefix(name, category+"_") {
		id = name
	}
	if prefix == "" {
		return id
	}
	return prefix + "_" + id
}

// DisplayName strips the leading "<prefix>_" from a canonical ID.
func DisplayName(prefix, id string) string {
	if prefix == "" {
		return id
	}
	return strings.TrimPrefix(id, prefix+"_")
}
