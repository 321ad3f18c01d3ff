package gen

import "fmt"

// A Feature is an optional generation capability toggled per run.
type Feature struct {
	// Name is the flag name used on the CLI.
	Name string
	// Description is printed by the CLI help.
	Description string
	// Default reports if the feature is enabled when nothing is passed.
	Default bool
}

var (
	// FeatureUI emits the form/list/dependent view components.
	FeatureUI = Feature{
		Name:        "ui",
		Description: "emit form, list and dependent-field view components",
		Default:     true,
	}

	// FeatureHandlers emits the REST handler files.
	FeatureHandlers = Feature{
		Name:        "handlers",
		Description: "emit REST handlers for every collection",
		Default:     true,
	}

	// FeatureSeed emits deterministic development fixtures.
	FeatureSeed = Feature{
		Name:        "seed",
		Description: "emit seed fixtures for development databases",
		Default:     false,
	}
)

// AllFeatures lists every known feature.
var AllFeatures = []Feature{FeatureUI, FeatureHandlers, FeatureSeed}

// ParseFeature resolves a feature by CLI name.
func ParseFeature(name string) (Feature, error) {
	for _, f := range AllFeatures {
		if f.Name == name {
			return f, nil
		}
	}
	return Feature{}, fmt.Errorf("unknown feature %q", name)
}

// DefaultFeatures returns the features enabled by default.
func DefaultFeatures() []Feature {
	var out []Feature
	for _, f := range AllFeatures {
		if f.Default {
			out = append(out, f)
		}
	}
	return out
}
