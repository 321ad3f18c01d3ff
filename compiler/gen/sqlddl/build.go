package sqlddl

import (
	"github.com/croutondev/crouton/compiler/gen"
	"github.com/croutondev/crouton/schema/field"
)

// Build turns a normalized collection into its table definition. The
// column order is fixed: id, user fields in schema order, feature
// columns, translations, team columns, audit columns. Regeneration
// from an unchanged schema therefore yields an identical Table.
func Build(c *gen.Collection) *Table {
	t := &Table{
		Name:       c.Table(),
		PrimaryKey: "id",
		Columns: []*Column{
			{Name: "id", Kind: field.KindString},
		},
	}
	for _, f := range c.Fields {
		t.Columns = append(t.Columns, userColumn(f))
		if f.RefTarget != "" && f.Kind == field.KindReference {
			t.ForeignKeys = append(t.ForeignKeys, &ForeignKey{
				Column:    f.Column(),
				RefTable:  refTable(f.RefTarget),
				RefColumn: "id",
			})
		}
	}
	if c.Hierarchy {
		buildHierarchy(c, t)
	} else if of := c.OrderField(); of != nil {
		t.Columns = append(t.Columns, &Column{
			Name: of.Column(), Kind: field.KindNumber, Default: 0,
		})
	}
	if c.Translatable() {
		t.Columns = append(t.Columns, &Column{
			Name: "translations", Kind: field.KindJSON, Nullable: true,
		})
	}
	if c.Config.UseTeams {
		t.Columns = append(t.Columns,
			&Column{Name: "team_id", Kind: field.KindString},
			&Column{Name: "owner_id", Kind: field.KindString},
		)
		t.Indexes = append(t.Indexes, &Index{
			Name:    t.Name + "_team_id_idx",
			Columns: []string{"team_id"},
		})
	}
	if c.Config.UseMetadata {
		t.Columns = append(t.Columns,
			&Column{Name: "created_at", Kind: field.KindDate},
			&Column{Name: "updated_at", Kind: field.KindDate},
		)
	}
	return t
}

func userColumn(f *gen.Field) *Column {
	col := &Column{
		Name:      f.Column(),
		Kind:      f.Kind,
		Nullable:  f.Nullable(),
		Unique:    f.Unique(),
		MaxLength: f.Meta.MaxLength,
		Precision: f.Meta.Precision,
		Scale:     f.Meta.Scale,
		Default:   f.Meta.Default,
	}
	// Booleans default to false so list filters never see NULL flags.
	if f.Kind == field.KindBoolean && col.Default == nil {
		col.Default = false
		col.Nullable = false
	}
	return col
}

// buildHierarchy appends the four tree columns. parent_id is nullable
// for roots and references the table itself; path carries the
// materialized ancestor chain and is indexed for prefix scans.
func buildHierarchy(c *gen.Collection, t *Table) {
	for _, f := range c.HierarchyFields() {
		col := &Column{Name: f.Column(), Kind: f.Kind, Nullable: f.Nullable()}
		if f.Kind == field.KindNumber {
			col.Default = 0
		}
		t.Columns = append(t.Columns, col)
	}
	t.ForeignKeys = append(t.ForeignKeys, &ForeignKey{
		Column:          "parent_id",
		RefTable:        t.Name,
		RefColumn:       "id",
		OnDeleteCascade: true,
	})
	t.Indexes = append(t.Indexes, &Index{
		Name:    t.Name + "_path_idx",
		Columns: []string{"path"},
	})
}

func refTable(target string) string {
	return gen.TableName(target)
}
