package gen

import (
	"sort"

	"github.com/croutondev/crouton/compiler/load"
	"github.com/croutondev/crouton/schema/field"
)

// Graph is the normalized input shared by all emitters: the config
// plus every collection resolved into derived-name form. It is built
// once per run and never mutated afterwards.
type Graph struct {
	Config      *Config
	Collections []*Collection
}

// NewGraph normalizes loaded collections into a graph. Reserved-name
// collisions are fatal here, before anything is emitted.
func NewGraph(c *Config, cols []*load.Collection) (*Graph, error) {
	if c == nil {
		return nil, NewConfigError("Config", nil, "nil config")
	}
	g := &Graph{Config: c, Collections: make([]*Collection, 0, len(cols))}
	for _, lc := range cols {
		col, err := NewCollection(c, lc)
		if err != nil {
			return nil, err
		}
		g.Collections = append(g.Collections, col)
	}
	sort.Slice(g.Collections, func(i, j int) bool {
		if g.Collections[i].Layer != g.Collections[j].Layer {
			return g.Collections[i].Layer < g.Collections[j].Layer
		}
		return g.Collections[i].Name < g.Collections[j].Name
	})
	return g, nil
}

// Collection is one generated CRUD entity with its derived names.
type Collection struct {
	Config *Config
	// Name is the declared collection name, e.g. "tasks".
	Name string
	// Layer is the owning layer directory.
	Layer string
	// Fields holds the user-declared fields, sorted by name.
	Fields []*Field
	// Hierarchy enables materialized-path tree support.
	Hierarchy bool
	// Sortable adds an order column and a reorder endpoint.
	Sortable bool
	// TranslationFields lists fields stored in the translations column.
	TranslationFields []string
	// Locales restricts accepted translation locales. Empty means any.
	Locales []string
}

// NewCollection normalizes one loaded collection.
func NewCollection(c *Config, lc *load.Collection) (*Collection, error) {
	col := &Collection{
		Config:            c,
		Name:              lc.Name,
		Layer:             lc.Layer,
		Hierarchy:         lc.Hierarchy,
		Sortable:          lc.Sortable,
		TranslationFields: lc.TranslationFields,
		Locales:           lc.Locales,
	}
	reserved := col.reservedColumns()
	for _, spec := range lc.Fields {
		f := &Field{Spec: spec}
		if _, clash := reserved[f.Column()]; clash {
			return nil, &ReservedNameError{Collection: lc.Name, Field: spec.Name}
		}
		col.Fields = append(col.Fields, f)
	}
	return col, nil
}

// reservedColumns returns the column names the generator owns for this
// collection. User fields may not shadow them.
func (c *Collection) reservedColumns() map[string]struct{} {
	reserved := map[string]struct{}{"id": {}}
	if c.Config.UseMetadata {
		reserved["created_at"] = struct{}{}
		reserved["updated_at"] = struct{}{}
	}
	if c.Config.UseTeams {
		reserved["team_id"] = struct{}{}
		reserved["owner_id"] = struct{}{}
	}
	if c.Hierarchy {
		reserved["parent_id"] = struct{}{}
		reserved["path"] = struct{}{}
		reserved["depth"] = struct{}{}
		reserved["order"] = struct{}{}
	} else if c.Sortable {
		reserved["order"] = struct{}{}
	}
	if len(c.TranslationFields) > 0 {
		reserved["translations"] = struct{}{}
	}
	return reserved
}

// Singular returns the singular snake_case name, e.g. "task".
func (c *Collection) Singular() string {
	return singular(snake(c.Name))
}

// TypeName returns the generated Go type name, e.g. "Task".
func (c *Collection) TypeName() string {
	return pascal(c.Singular())
}

// Table returns the SQL table name, e.g. "tasks".
func (c *Collection) Table() string {
	return TableName(c.Name)
}

// TableName derives the SQL table name for a collection name. Emitters
// use it to name foreign tables they only know by reference.
func TableName(name string) string {
	return snake(plural(singular(snake(name))))
}

// PluralPascal returns the pluralized type name, e.g. "Tasks".
func (c *Collection) PluralPascal() string {
	return pascal(c.Table())
}

// Camel returns the camelCase singular name, e.g. "task".
func (c *Collection) Camel() string {
	return camel(c.Singular())
}

// Receiver returns the receiver name for generated methods.
func (c *Collection) Receiver() string {
	return receiver(c.TypeName())
}

// PackageDir returns the per-collection directory name in the layer.
func (c *Collection) PackageDir() string {
	return c.Table()
}

// Translatable reports if the collection carries a translations column.
func (c *Collection) Translatable() bool {
	return len(c.TranslationFields) > 0
}

// HierarchyFields returns the four columns injected for tree support.
// parent_id is nullable (roots have no parent); the rest are required.
func (c *Collection) HierarchyFields() []*Field {
	if !c.Hierarchy {
		return nil
	}
	return []*Field{
		{Spec: &field.Spec{Name: "parent_id", Kind: field.KindString, RefTarget: c.Name}},
		{Spec: &field.Spec{Name: "path", Kind: field.KindString, Meta: field.Meta{Required: true}}},
		{Spec: &field.Spec{Name: "depth", Kind: field.KindNumber, Meta: field.Meta{Required: true}}},
		{Spec: &field.Spec{Name: "order", Kind: field.KindNumber, Meta: field.Meta{Required: true}}},
	}
}

// OrderField returns the injected order column for sortable (non-tree)
// collections.
func (c *Collection) OrderField() *Field {
	if !c.Sortable || c.Hierarchy {
		return nil
	}
	return &Field{Spec: &field.Spec{Name: "order", Kind: field.KindNumber, Meta: field.Meta{Required: true}}}
}

// FieldByName returns a user-declared field by name.
func (c *Collection) FieldByName(name string) (*Field, bool) {
	for _, f := range c.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return nil, false
}

// ReferenceFields returns the fields pointing at other collections.
func (c *Collection) ReferenceFields() []*Field {
	var out []*Field
	for _, f := range c.Fields {
		if f.RefTarget != "" {
			out = append(out, f)
		}
	}
	return out
}

// DependentFields returns the fields whose options depend on another
// field's selected value.
func (c *Collection) DependentFields() []*Field {
	var out []*Field
	for _, f := range c.Fields {
		if f.Dependent() {
			out = append(out, f)
		}
	}
	return out
}

// DateFields returns the date-kinded fields; handlers convert their
// request values from RFC 3339 strings before writing.
func (c *Collection) DateFields() []*Field {
	var out []*Field
	for _, f := range c.Fields {
		if f.Kind == field.KindDate {
			out = append(out, f)
		}
	}
	return out
}

// RequiredFields returns the user fields that must be present on create.
func (c *Collection) RequiredFields() []*Field {
	var out []*Field
	for _, f := range c.Fields {
		if f.Required() {
			out = append(out, f)
		}
	}
	return out
}

// TranslatableFields resolves the translation field list against the
// declared fields, preserving schema order.
func (c *Collection) TranslatableFields() []*Field {
	if !c.Translatable() {
		return nil
	}
	listed := make(map[string]struct{}, len(c.TranslationFields))
	for _, name := range c.TranslationFields {
		listed[name] = struct{}{}
	}
	var out []*Field
	for _, f := range c.Fields {
		if _, ok := listed[f.Name]; ok {
			out = append(out, f)
		}
	}
	return out
}

// Field wraps a field spec with its derived naming variants. The same
// variants feed every emitter, so independently emitted files cannot
// disagree on a name.
type Field struct {
	*field.Spec
}

// Column returns the snake_case column name.
func (f *Field) Column() string {
	return snake(f.Name)
}

// StructField returns the exported Go field name.
func (f *Field) StructField() string {
	return pascal(f.Name)
}

// Camel returns the camelCase name used in JSON and request bodies.
func (f *Field) Camel() string {
	return camel(f.Name)
}
