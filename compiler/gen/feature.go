package gen

import (
	"os"
	"path/filepath"
)

var (
	// FeatureUUID enables the uuid.UUID storage category.
	FeatureUUID = Feature{
		Name:        "uuid",
		Stage:       Stable,
		Default:     true,
		Description: "Allows uuid.UUID (github.com/google/uuid) fields stored as UUID columns",
	}

	// FeatureArrays enables []T fields stored as PostgreSQL arrays.
	FeatureArrays = Feature{
		Name:        "sql/arrays",
		Stage:       Stable,
		Default:     true,
		Description: "Allows []T fields stored as PostgreSQL arrays and bound with pq.Array",
	}

	// FeatureTemplates exports the synthesized SQL templates of every record
	// in a generated <Record>Templates variable, for tooling and tests that
	// assert on query text.
	FeatureTemplates = Feature{
		Name:        "sql/templates",
		Stage:       Beta,
		Default:     false,
		Description: "Exports the synthesized SQL templates of each repository as a map keyed by operation",
	}

	// AllFeatures holds a list of all feature-flags.
	AllFeatures = []Feature{
		FeatureUUID,
		FeatureArrays,
		FeatureTemplates,
	}
)

// FeatureStage describes the stage of the codegen feature.
type FeatureStage int

const (
	_ FeatureStage = iota

	// Experimental features are in development, and actively being tested.
	Experimental

	// Alpha features are features whose initial development was finished, but
	// breaking-changes to their output are expected.
	Alpha

	// Beta features are Alpha features that were documented, and no
	// breaking-changes are expected for them.
	Beta

	// Stable features are Beta features that were running for a while.
	Stable
)

// String implements fmt.Stringer.
func (s FeatureStage) String() string {
	switch s {
	case Experimental:
		return "experimental"
	case Alpha:
		return "alpha"
	case Beta:
		return "beta"
	case Stable:
		return "stable"
	default:
		return "unknown"
	}
}

// A Feature of the repogen codegen.
type Feature struct {
	// Name of the feature.
	Name string

	// Stage of the feature.
	Stage FeatureStage

	// Default values indicates if this feature is enabled by default.
	Default bool

	// A Description of this feature.
	Description string
}

// FeatureByName returns the feature with the given name.
func FeatureByName(name string) (Feature, bool) {
	for _, f := range AllFeatures {
		if f.Name == name {
			return f, true
		}
	}
	return Feature{}, false
}

// remove file (if exists) and its dir if it's empty.
func remove(dir, file string) error {
	if err := os.Remove(filepath.Join(dir, file)); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	infos, err := os.ReadDir(dir)
	if err != nil {
		return err
	}
	if len(infos) == 0 {
		return os.Remove(dir)
	}
	return nil
}
