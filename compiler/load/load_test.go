package load

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/croutondev/crouton/dialect"
	"github.com/croutondev/crouton/schema/field"
)

func TestParseFields(t *testing.T) {
	t.Run("valid schema", func(t *testing.T) {
		data := []byte(`{
			"title": {"type": "string", "meta": {"required": true, "maxLength": 255}},
			"done": {"type": "boolean"},
			"due": {"type": "date"},
			"category": {"type": "reference", "refTarget": "categories"}
		}`)
		fields, err := ParseFields(data, "tasks.json")
		require.NoError(t, err)
		require.Len(t, fields, 4)
		// Sorted by name for deterministic output.
		assert.Equal(t, []string{"category", "done", "due", "title"}, fieldNames(fields))
		byName := indexFields(fields)
		assert.Equal(t, field.KindString, byName["title"].Kind)
		assert.True(t, byName["title"].Required())
		assert.Equal(t, 255, byName["title"].Meta.MaxLength)
		assert.Equal(t, "categories", byName["category"].RefTarget)
	})

	t.Run("parsing is deterministic", func(t *testing.T) {
		data := []byte(`{"b": {"type": "string"}, "a": {"type": "text"}, "c": {"type": "json"}}`)
		first, err := ParseFields(data, "x.json")
		require.NoError(t, err)
		second, err := ParseFields(data, "x.json")
		require.NoError(t, err)
		assert.Equal(t, fieldNames(first), fieldNames(second))
	})

	t.Run("unknown type", func(t *testing.T) {
		_, err := ParseFields([]byte(`{"a": {"type": "varchar"}}`), "x.json")
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrInvalidSchema)
		assert.Contains(t, err.Error(), "varchar")
	})

	t.Run("invalid identifier", func(t *testing.T) {
		_, err := ParseFields([]byte(`{"my field": {"type": "string"}}`), "x.json")
		require.Error(t, err)
		assert.True(t, IsSchemaFileError(err))
	})

	t.Run("refTarget on boolean rejected", func(t *testing.T) {
		_, err := ParseFields([]byte(`{"a": {"type": "boolean", "refTarget": "b"}}`), "x.json")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "refTarget")
	})

	t.Run("reference without refTarget rejected", func(t *testing.T) {
		_, err := ParseFields([]byte(`{"a": {"type": "reference"}}`), "x.json")
		require.Error(t, err)
	})

	t.Run("dependsOn must resolve", func(t *testing.T) {
		_, err := ParseFields([]byte(`{"city": {"type": "string", "meta": {"dependsOn": "country"}}}`), "x.json")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "undeclared")

		fields, err := ParseFields([]byte(`{
			"country": {"type": "string"},
			"city": {"type": "string", "meta": {"dependsOn": "country"}}
		}`), "x.json")
		require.NoError(t, err)
		assert.True(t, indexFields(fields)["city"].Dependent())
	})

	t.Run("empty schema rejected", func(t *testing.T) {
		_, err := ParseFields([]byte(`{}`), "x.json")
		require.Error(t, err)
	})
}

func TestValidIdent(t *testing.T) {
	for _, ok := range []string{"title", "dueDate", "a", "field_2", "Título"} {
		assert.NoError(t, ValidIdent(ok), ok)
	}
	for _, bad := range []string{"", "2fast", "_x", "a-b", "a b", "a.b"} {
		assert.Error(t, ValidIdent(bad), bad)
	}
}

func TestParseConfig(t *testing.T) {
	valid := []byte(`
dialect: sqlite
flags:
  useTeamUtility: true
  useMetadata: true
collections:
  - name: tasks
    fieldsFile: tasks.json
  - name: categories
    fieldsFile: categories.json
    translationFields: [name]
    locales: [en, de, pt-BR]
targets:
  - layer: todo
    collections: [tasks, categories]
`)

	t.Run("valid config", func(t *testing.T) {
		cfg, err := ParseConfig(valid, "crouton.yaml")
		require.NoError(t, err)
		assert.Equal(t, dialect.SQLite, cfg.Dialect)
		assert.True(t, cfg.Flags.UseTeamUtility)
		assert.True(t, cfg.Flags.UseMetadata)
		require.Len(t, cfg.Targets, 1)
		cc, ok := cfg.CollectionByName("categories")
		require.True(t, ok)
		assert.True(t, cc.Translatable())
	})

	t.Run("unknown dialect", func(t *testing.T) {
		_, err := ParseConfig([]byte("dialect: mysql\ncollections: [{name: a, fieldsFile: a.json}]\n"), "crouton.yaml")
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrInvalidConfig)
	})

	t.Run("invalid locale", func(t *testing.T) {
		bad := []byte(`
dialect: postgres
collections:
  - name: pages
    fieldsFile: pages.json
    translationFields: [title]
    locales: ["not a locale!"]
`)
		_, err := ParseConfig(bad, "crouton.yaml")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "locale")
	})

	t.Run("undeclared collection in target", func(t *testing.T) {
		bad := []byte(`
dialect: sqlite
collections:
  - name: tasks
    fieldsFile: tasks.json
targets:
  - layer: todo
    collections: [bookings]
`)
		_, err := ParseConfig(bad, "crouton.yaml")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "bookings")
	})

	t.Run("duplicate collection in layer", func(t *testing.T) {
		bad := []byte(`
dialect: sqlite
collections:
  - name: tasks
    fieldsFile: tasks.json
targets:
  - layer: todo
    collections: [tasks, tasks]
`)
		_, err := ParseConfig(bad, "crouton.yaml")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "twice")
	})
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "tasks.json"), `{
		"title": {"type": "string", "meta": {"required": true}},
		"done": {"type": "boolean"}
	}`)
	writeFile(t, filepath.Join(dir, "crouton.yaml"), `
dialect: sqlite
collections:
  - name: tasks
    fieldsFile: tasks.json
targets:
  - layer: todo
    collections: [tasks]
`)

	cfg, err := LoadConfig(filepath.Join(dir, "crouton.yaml"))
	require.NoError(t, err)
	cols, err := cfg.Load()
	require.NoError(t, err)
	require.Len(t, cols, 1)
	assert.Equal(t, "tasks", cols[0].Name)
	assert.Equal(t, "todo", cols[0].Layer)
	assert.Equal(t, []string{"done", "title"}, fieldNames(cols[0].Fields))
}

func TestLoadRejectsUnknownTranslationField(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "pages.json"), `{"title": {"type": "string"}}`)
	writeFile(t, filepath.Join(dir, "crouton.yaml"), `
dialect: sqlite
collections:
  - name: pages
    fieldsFile: pages.json
    translationFields: [body]
targets:
  - layer: site
    collections: [pages]
`)
	cfg, err := LoadConfig(filepath.Join(dir, "crouton.yaml"))
	require.NoError(t, err)
	_, err = cfg.Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "body")
}

func fieldNames(fields Fields) []string {
	names := make([]string, len(fields))
	for i, f := range fields {
		names[i] = f.Name
	}
	return names
}

func indexFields(fields Fields) map[string]*field.Spec {
	m := make(map[string]*field.Spec, len(fields))
	for _, f := range fields {
		m[f.Name] = f
	}
	return m
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}
