// Package field defines the field model consumed by the Crouton
// generator: the closed set of field kinds, the free-form meta block,
// and the normalized field spec emitters operate on.
package field

import "fmt"

// A Kind represents a declared field type. The set is closed: the
// loader rejects any value outside of it before generation starts.
type Kind int

// Supported field kinds.
const (
	KindInvalid Kind = iota
	KindString
	KindText
	KindNumber
	KindDecimal
	KindBoolean
	KindDate
	KindJSON
	KindArray
	KindRepeater
	KindReference
	endKinds
)

var kindNames = [...]string{
	KindInvalid:   "invalid",
	KindString:    "string",
	KindText:      "text",
	KindNumber:    "number",
	KindDecimal:   "decimal",
	KindBoolean:   "boolean",
	KindDate:      "date",
	KindJSON:      "json",
	KindArray:     "array",
	KindRepeater:  "repeater",
	KindReference: "reference",
}

// String returns the schema-file name of the kind.
func (k Kind) String() string {
	if k < endKinds && k > KindInvalid {
		return kindNames[k]
	}
	return kindNames[KindInvalid]
}

// Valid reports if the kind is one of the supported kinds.
func (k Kind) Valid() bool {
	return k > KindInvalid && k < endKinds
}

// AllowsRefTarget reports if a refTarget is meaningful for this kind.
// Only string, array and reference fields may point at another collection.
func (k Kind) AllowsRefTarget() bool {
	switch k {
	case KindString, KindArray, KindReference:
		return true
	default:
		return false
	}
}

// Numeric reports if the kind maps to a numeric column.
func (k Kind) Numeric() bool {
	return k == KindNumber || k == KindDecimal
}

// ParseKind parses a schema-file type name into a Kind.
func ParseKind(s string) (Kind, error) {
	for k := KindInvalid + 1; k < endKinds; k++ {
		if kindNames[k] == s {
			return k, nil
		}
	}
	return KindInvalid, fmt.Errorf("unknown field type %q", s)
}

// Meta holds the free-form per-field options declared in a schema file.
// All entries are optional.
type Meta struct {
	Required            bool   `json:"required,omitempty"`
	Unique              bool   `json:"unique,omitempty"`
	MaxLength           int    `json:"maxLength,omitempty"`
	Default             any    `json:"default,omitempty"`
	Label               string `json:"label,omitempty"`
	Area                string `json:"area,omitempty"`
	Group               string `json:"group,omitempty"`
	DisplayAs           string `json:"displayAs,omitempty"`
	DependsOn           string `json:"dependsOn,omitempty"`
	DependsOnCollection string `json:"dependsOnCollection,omitempty"`
	DependsOnField      string `json:"dependsOnField,omitempty"`
	Translatable        bool   `json:"translatable,omitempty"`
	ReadOnly            bool   `json:"readOnly,omitempty"`
	Precision           int    `json:"precision,omitempty"`
	Scale               int    `json:"scale,omitempty"`
}

// Spec is one normalized field: the unit the emitters consume.
// Specs are built once by the loader and never mutated afterwards.
type Spec struct {
	// Name is the declared field name, a valid identifier.
	Name string
	// Kind holds the declared field type.
	Kind Kind
	// RefTarget names the referenced collection for reference-like
	// kinds. Empty otherwise.
	RefTarget string
	// Meta holds the declared per-field options.
	Meta Meta
	// Reserved marks fields injected by the generator (id, audit
	// timestamps, team columns, hierarchy columns) rather than
	// declared by the user.
	Reserved bool
}

// Required reports if the field must be present on create.
// Reserved fields are always required.
func (s *Spec) Required() bool {
	return s.Reserved || s.Meta.Required
}

// Nullable reports if the field's column accepts NULL. This is the
// single source of truth shared by the table and validation emitters.
func (s *Spec) Nullable() bool {
	return !s.Required()
}

// Unique reports if the field carries a unique constraint.
func (s *Spec) Unique() bool {
	return s.Meta.Unique
}

// Translatable reports if the field participates in the per-collection
// translations column.
func (s *Spec) Translatable() bool {
	return s.Meta.Translatable
}

// Dependent reports if the field's options are conditioned on another
// field's selected value.
func (s *Spec) Dependent() bool {
	return s.Meta.DependsOn != "" || s.Meta.DependsOnField != ""
}

// HasDefault reports if the field declares a default value.
func (s *Spec) HasDefault() bool {
	return s.Meta.Default != nil
}

// Label returns the display label, falling back to the field name.
func (s *Spec) Label() string {
	if s.Meta.Label != "" {
		return s.Meta.Label
	}
	return s.Name
}
