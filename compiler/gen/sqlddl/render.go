package sqlddl

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/croutondev/crouton/dialect"
	"github.com/croutondev/crouton/schema/field"
)

// Render serializes a table definition for the given dialect. The
// output is byte-stable: the same Table always renders to the same
// text.
func Render(t *Table, d dialect.Dialect) (string, error) {
	r, err := rendererFor(d)
	if err != nil {
		return "", err
	}
	var b strings.Builder
	b.WriteString("CREATE TABLE IF NOT EXISTS ")
	b.WriteString(quote(t.Name))
	b.WriteString(" (\n")
	for _, c := range t.Columns {
		b.WriteString("    ")
		if err := renderColumn(&b, r, t, c); err != nil {
			return "", err
		}
		b.WriteString(",\n")
	}
	for i, fk := range t.ForeignKeys {
		b.WriteString("    FOREIGN KEY (")
		b.WriteString(quote(fk.Column))
		b.WriteString(") REFERENCES ")
		b.WriteString(quote(fk.RefTable))
		b.WriteString(" (")
		b.WriteString(quote(fk.RefColumn))
		b.WriteString(")")
		if fk.OnDeleteCascade {
			b.WriteString(" ON DELETE CASCADE")
		}
		if i < len(t.ForeignKeys)-1 {
			b.WriteString(",")
		}
		b.WriteString("\n")
	}
	trimTrailingComma(&b)
	b.WriteString(");\n")
	for _, idx := range t.Indexes {
		b.WriteString("\nCREATE ")
		if idx.Unique {
			b.WriteString("UNIQUE ")
		}
		b.WriteString("INDEX IF NOT EXISTS ")
		b.WriteString(quote(idx.Name))
		b.WriteString(" ON ")
		b.WriteString(quote(t.Name))
		b.WriteString(" (")
		for i, col := range idx.Columns {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(quote(col))
		}
		b.WriteString(");\n")
	}
	return b.String(), nil
}

// renderer maps the IR onto one dialect's type and literal syntax.
type renderer interface {
	columnType(c *Column) (string, error)
	literal(c *Column, v any) (string, error)
}

func rendererFor(d dialect.Dialect) (renderer, error) {
	switch d {
	case dialect.SQLite:
		return sqlite{}, nil
	case dialect.Postgres:
		return postgres{}, nil
	default:
		return nil, fmt.Errorf("sqlddl: unsupported dialect %q", d)
	}
}

func renderColumn(b *strings.Builder, r renderer, t *Table, c *Column) error {
	typ, err := r.columnType(c)
	if err != nil {
		return fmt.Errorf("sqlddl: column %s.%s: %w", t.Name, c.Name, err)
	}
	b.WriteString(quote(c.Name))
	b.WriteString(" ")
	b.WriteString(typ)
	if c.Name == t.PrimaryKey {
		b.WriteString(" PRIMARY KEY")
		return nil
	}
	if !c.Nullable {
		b.WriteString(" NOT NULL")
	}
	if c.Unique {
		b.WriteString(" UNIQUE")
	}
	if c.Default != nil {
		lit, err := r.literal(c, c.Default)
		if err != nil {
			return fmt.Errorf("sqlddl: column %s.%s: %w", t.Name, c.Name, err)
		}
		b.WriteString(" DEFAULT ")
		b.WriteString(lit)
	}
	return nil
}

type sqlite struct{}

func (sqlite) columnType(c *Column) (string, error) {
	switch c.Kind {
	case field.KindString, field.KindReference:
		if c.MaxLength > 0 {
			return fmt.Sprintf("VARCHAR(%d)", c.MaxLength), nil
		}
		return "TEXT", nil
	case field.KindText:
		return "TEXT", nil
	case field.KindNumber:
		return "INTEGER", nil
	case field.KindDecimal:
		return "REAL", nil
	case field.KindBoolean:
		return "INTEGER", nil
	case field.KindDate:
		return "TEXT", nil
	case field.KindJSON, field.KindArray, field.KindRepeater:
		return "TEXT", nil
	default:
		return "", fmt.Errorf("no sqlite type for kind %s", c.Kind)
	}
}

func (sqlite) literal(c *Column, v any) (string, error) {
	if b, ok := v.(bool); ok {
		if b {
			return "1", nil
		}
		return "0", nil
	}
	return plainLiteral(v)
}

type postgres struct{}

func (postgres) columnType(c *Column) (string, error) {
	switch c.Kind {
	case field.KindString, field.KindReference:
		if c.MaxLength > 0 {
			return fmt.Sprintf("VARCHAR(%d)", c.MaxLength), nil
		}
		return "TEXT", nil
	case field.KindText:
		return "TEXT", nil
	case field.KindNumber:
		return "BIGINT", nil
	case field.KindDecimal:
		if c.Precision > 0 {
			return fmt.Sprintf("NUMERIC(%d, %d)", c.Precision, c.Scale), nil
		}
		return "NUMERIC", nil
	case field.KindBoolean:
		return "BOOLEAN", nil
	case field.KindDate:
		return "TIMESTAMPTZ", nil
	case field.KindJSON, field.KindArray, field.KindRepeater:
		return "JSONB", nil
	default:
		return "", fmt.Errorf("no postgres type for kind %s", c.Kind)
	}
}

func (postgres) literal(c *Column, v any) (string, error) {
	if b, ok := v.(bool); ok {
		if b {
			return "TRUE", nil
		}
		return "FALSE", nil
	}
	return plainLiteral(v)
}

func plainLiteral(v any) (string, error) {
	switch v := v.(type) {
	case string:
		return "'" + strings.ReplaceAll(v, "'", "''") + "'", nil
	case int:
		return strconv.Itoa(v), nil
	case float64:
		return strconv.FormatFloat(v, 'g', -1, 64), nil
	default:
		return "", fmt.Errorf("unsupported default %T", v)
	}
}

// quote wraps an identifier in double quotes. Every identifier is
// quoted so reserved words like "order" are safe in both dialects.
func quote(ident string) string {
	return `"` + ident + `"`
}

func trimTrailingComma(b *strings.Builder) {
	s := b.String()
	if strings.HasSuffix(s, ",\n") {
		b.Reset()
		b.WriteString(s[:len(s)-2])
		b.WriteString("\n")
	}
}
