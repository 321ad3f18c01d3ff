package gen

import "path"

// Category groups artifacts for preview and tooling.
type Category string

// Artifact categories.
const (
	CategoryConfig Category = "config"
	CategoryApp    Category = "app"
	CategoryServer Category = "server"
	CategorySchema Category = "schema"
	CategorySeed   Category = "seed"
)

// Artifact is one emitted file. Artifacts are produced fully in
// memory; nothing touches the output tree until every emitter has
// succeeded.
type Artifact struct {
	// Path is relative to the configured output root.
	Path string
	// Content is the rendered file body.
	Content []byte
	// Category tags the artifact for grouping.
	Category Category
	// Layer and Collection identify the owner for manifests/rollback.
	Layer      string
	Collection string
}

// LayerDir returns the conventional directory of a layer.
func LayerDir(layer string) string {
	return layer
}

// DatabaseDir returns the database directory of a layer.
func DatabaseDir(layer string) string {
	return path.Join(layer, "server", "database")
}

// APIDir returns the API directory of a collection.
func APIDir(c *Collection) string {
	return path.Join(c.Layer, "server", "api", c.PackageDir())
}

// ComponentsDir returns the view-component directory of a collection.
func ComponentsDir(c *Collection) string {
	return path.Join(c.Layer, "app", "components", c.PackageDir())
}

// SeedDir returns the seed directory of a layer.
func SeedDir(layer string) string {
	return path.Join(layer, "server", "database", "seed")
}
