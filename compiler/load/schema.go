// Package load reads schema files and project configuration from disk
// and produces the normalized, immutable inputs the generator consumes.
//
// Loading is strict: any malformed input (unknown field type, invalid
// identifier, misplaced refTarget) aborts the whole run before a single
// file is written.
package load

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"unicode"

	"github.com/croutondev/crouton/schema/field"
)

// rawField mirrors one entry of the schema file format:
// {"fieldName": {"type": ..., "refTarget": ..., "meta": {...}}}.
type rawField struct {
	Type      string      `json:"type"`
	RefTarget string      `json:"refTarget,omitempty"`
	Meta      *field.Meta `json:"meta,omitempty"`
}

// Fields is the parsed content of one schema file, normalized into a
// deterministic order. JSON objects carry no order, so fields are
// sorted by name to keep regenerated output diff-stable.
type Fields []*field.Spec

// ParseFields parses schema-file content into a normalized field list.
// The file argument is used in error messages only.
func ParseFields(data []byte, file string) (Fields, error) {
	var raw map[string]rawField
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, &SchemaFileError{File: file, Message: "malformed JSON", Cause: err}
	}
	if len(raw) == 0 {
		return nil, &SchemaFileError{File: file, Message: "schema declares no fields"}
	}
	specs := make(Fields, 0, len(raw))
	for name, rf := range raw {
		spec, err := newSpec(name, rf)
		if err != nil {
			return nil, &SchemaFileError{File: file, Field: name, Message: "invalid field", Cause: err}
		}
		specs = append(specs, spec)
	}
	sort.Slice(specs, func(i, j int) bool { return specs[i].Name < specs[j].Name })
	if err := resolveDependencies(specs); err != nil {
		return nil, &SchemaFileError{File: file, Message: "invalid dependency", Cause: err}
	}
	return specs, nil
}

// LoadFields reads and parses one schema file.
func LoadFields(path string) (Fields, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &SchemaFileError{File: path, Message: "read schema file", Cause: err}
	}
	return ParseFields(data, path)
}

func newSpec(name string, rf rawField) (*field.Spec, error) {
	if err := ValidIdent(name); err != nil {
		return nil, err
	}
	kind, err := field.ParseKind(rf.Type)
	if err != nil {
		return nil, err
	}
	if rf.RefTarget != "" {
		if !kind.AllowsRefTarget() {
			return nil, fmt.Errorf("refTarget is not allowed on %s fields", kind)
		}
		if err := ValidIdent(rf.RefTarget); err != nil {
			return nil, fmt.Errorf("refTarget: %w", err)
		}
	}
	if kind == field.KindReference && rf.RefTarget == "" {
		return nil, fmt.Errorf("reference field requires a refTarget")
	}
	spec := &field.Spec{Name: name, Kind: kind, RefTarget: rf.RefTarget}
	if rf.Meta != nil {
		spec.Meta = *rf.Meta
	}
	if spec.Meta.Precision < 0 || spec.Meta.Scale < 0 || spec.Meta.MaxLength < 0 {
		return nil, fmt.Errorf("precision, scale and maxLength must not be negative")
	}
	return spec, nil
}

// resolveDependencies verifies that every dependsOn points at a
// declared field of the same collection. Cross-collection dependencies
// (dependsOnCollection/dependsOnField) are resolved at render time by
// the generated application and are only checked for well-formed names.
func resolveDependencies(specs Fields) error {
	byName := make(map[string]*field.Spec, len(specs))
	for _, s := range specs {
		byName[s.Name] = s
	}
	for _, s := range specs {
		if dep := s.Meta.DependsOn; dep != "" {
			if _, ok := byName[dep]; !ok {
				return fmt.Errorf("field %q depends on undeclared field %q", s.Name, dep)
			}
			if dep == s.Name {
				return fmt.Errorf("field %q depends on itself", s.Name)
			}
		}
		if s.Meta.DependsOnCollection != "" {
			if err := ValidIdent(s.Meta.DependsOnCollection); err != nil {
				return fmt.Errorf("field %q: dependsOnCollection: %w", s.Name, err)
			}
		}
		if s.Meta.DependsOnField != "" {
			if err := ValidIdent(s.Meta.DependsOnField); err != nil {
				return fmt.Errorf("field %q: dependsOnField: %w", s.Name, err)
			}
		}
	}
	return nil
}

// ValidIdent reports if the name is a usable identifier: a letter
// followed by letters, digits or underscores. Names flow into column
// names, Go identifiers and file paths, so anything else is rejected
// up front.
func ValidIdent(name string) error {
	if name == "" {
		return fmt.Errorf("empty identifier")
	}
	for i, r := range name {
		switch {
		case unicode.IsLetter(r):
		case r == '_' && i > 0:
		case unicode.IsDigit(r) && i > 0:
		default:
			return fmt.Errorf("invalid identifier %q", name)
		}
	}
	return nil
}
