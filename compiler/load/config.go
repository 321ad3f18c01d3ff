package load

import (
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"

	"github.com/croutondev/crouton/dialect"
)

// ProjectConfig is the parsed crouton.yaml: dialect, global flags,
// collection declarations and the layer targets that group them.
type ProjectConfig struct {
	// Dialect selects the column-type mapping. Required.
	Dialect dialect.Dialect `yaml:"dialect"`
	// Flags hold the global generation switches.
	Flags Flags `yaml:"flags"`
	// Collections declares every known collection.
	Collections []*CollectionConfig `yaml:"collections"`
	// Targets maps layers to the collections generated into them.
	Targets []*Target `yaml:"targets"`

	// dir is the directory of the config file; fieldsFile paths are
	// resolved relative to it.
	dir string
}

// Flags are the project-level generation switches.
type Flags struct {
	// UseTeamUtility turns on multi-tenant row ownership: team/owner
	// columns on every table and membership checks in every handler.
	UseTeamUtility bool `yaml:"useTeamUtility"`
	// UseMetadata adds created_at/updated_at audit columns.
	UseMetadata bool `yaml:"useMetadata"`
}

// CollectionConfig declares one collection and its source schema file.
type CollectionConfig struct {
	Name       string `yaml:"name"`
	FieldsFile string `yaml:"fieldsFile"`
	// Hierarchy turns on materialized-path tree support; the generator
	// injects parent_id/path/depth/order columns and move/reorder
	// endpoints.
	Hierarchy bool `yaml:"hierarchy,omitempty"`
	// Sortable adds an order column and a reorder endpoint without the
	// full tree machinery.
	Sortable bool `yaml:"sortable,omitempty"`
	// TranslationFields lists the fields stored per-locale in the
	// translations column. Non-empty implies translations support.
	TranslationFields []string `yaml:"translationFields,omitempty"`
	// Locales restricts the locale keys accepted for translations.
	// Validated as BCP-47 tags.
	Locales []string `yaml:"locales,omitempty"`
}

// Translatable reports if the collection carries a translations column.
func (c *CollectionConfig) Translatable() bool {
	return len(c.TranslationFields) > 0
}

// Target maps one layer to its collections.
type Target struct {
	Layer       string   `yaml:"layer"`
	Collections []string `yaml:"collections"`
}

// Collection is a fully loaded collection: its config joined with the
// parsed field list and the owning layer.
type Collection struct {
	*CollectionConfig
	Layer  string
	Fields Fields
}

// ParseConfig parses project configuration content. The path argument
// locates relative fieldsFile entries and names the file in errors.
func ParseConfig(data []byte, path string) (*ProjectConfig, error) {
	cfg := &ProjectConfig{dir: filepath.Dir(path)}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, &ConfigFileError{File: path, Message: "malformed YAML", Cause: err}
	}
	if err := cfg.validate(path); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadConfig reads and parses the project configuration file.
func LoadConfig(path string) (*ProjectConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &ConfigFileError{File: path, Message: "read config file", Cause: err}
	}
	return ParseConfig(data, path)
}

func (cfg *ProjectConfig) validate(path string) error {
	if !cfg.Dialect.Valid() {
		return &ConfigFileError{File: path, Message: fmt.Sprintf("unsupported dialect %q", cfg.Dialect)}
	}
	if len(cfg.Collections) == 0 {
		return &ConfigFileError{File: path, Message: "no collections declared"}
	}
	byName := make(map[string]*CollectionConfig, len(cfg.Collections))
	for _, c := range cfg.Collections {
		if err := ValidIdent(c.Name); err != nil {
			return &ConfigFileError{File: path, Message: "collection name", Cause: err}
		}
		if _, dup := byName[c.Name]; dup {
			return &ConfigFileError{File: path, Message: fmt.Sprintf("duplicate collection %q", c.Name)}
		}
		if c.FieldsFile == "" {
			return &ConfigFileError{File: path, Message: fmt.Sprintf("collection %q has no fieldsFile", c.Name)}
		}
		for _, loc := range c.Locales {
			if _, err := language.Parse(loc); err != nil {
				return &ConfigFileError{File: path, Message: fmt.Sprintf("collection %q: invalid locale %q", c.Name, loc), Cause: err}
			}
		}
		byName[c.Name] = c
	}
	seenLayer := make(map[string]map[string]bool, len(cfg.Targets))
	for _, t := range cfg.Targets {
		if err := ValidIdent(t.Layer); err != nil {
			return &ConfigFileError{File: path, Message: "layer name", Cause: err}
		}
		if seenLayer[t.Layer] == nil {
			seenLayer[t.Layer] = make(map[string]bool)
		}
		for _, name := range t.Collections {
			if _, ok := byName[name]; !ok {
				return &ConfigFileError{File: path, Message: fmt.Sprintf("target layer %q references undeclared collection %q", t.Layer, name)}
			}
			// Collection names must be unique within a layer.
			if seenLayer[t.Layer][name] {
				return &ConfigFileError{File: path, Message: fmt.Sprintf("collection %q listed twice in layer %q", name, t.Layer)}
			}
			seenLayer[t.Layer][name] = true
		}
	}
	return nil
}

// CollectionByName returns the declared collection config.
func (cfg *ProjectConfig) CollectionByName(name string) (*CollectionConfig, bool) {
	for _, c := range cfg.Collections {
		if c.Name == name {
			return c, true
		}
	}
	return nil, false
}

// Load resolves every target into loaded collections, reading and
// validating each schema file. Translation field lists are checked
// against the declared fields here, once both sides are known.
func (cfg *ProjectConfig) Load() ([]*Collection, error) {
	var out []*Collection
	cache := make(map[string]Fields)
	for _, t := range cfg.Targets {
		for _, name := range t.Collections {
			cc, _ := cfg.CollectionByName(name)
			path := cc.FieldsFile
			if !filepath.IsAbs(path) {
				path = filepath.Join(cfg.dir, path)
			}
			fields, ok := cache[path]
			if !ok {
				var err error
				if fields, err = LoadFields(path); err != nil {
					return nil, err
				}
				cache[path] = fields
			}
			if err := checkTranslationFields(cc, fields); err != nil {
				return nil, err
			}
			out = append(out, &Collection{CollectionConfig: cc, Layer: t.Layer, Fields: fields})
		}
	}
	return out, nil
}

func checkTranslationFields(cc *CollectionConfig, fields Fields) error {
	byName := make(map[string]bool, len(fields))
	for _, f := range fields {
		byName[f.Name] = true
	}
	for _, name := range cc.TranslationFields {
		if !byName[name] {
			return &ConfigFileError{
				File:    cc.FieldsFile,
				Message: fmt.Sprintf("collection %q: translation field %q is not declared in the schema", cc.Name, name),
			}
		}
	}
	return nil
}
