package config

import (
	"context"

	"github.com/zclconf/go-cty/cty"
)

// Loader is the interface for a format-specific configuration loader.
type Loader interface {
	// Load reads one experiment document from path, validates it against
	// the schema, and translates it into the unified model.
	Load(ctx context.Context, path string) (*Experiment, error)

	// Parse turns raw document bytes into the cty value the validator
	// operates on, without validating or translating. Filename selects
	// the syntax (.json vs native) and scopes diagnostics.
	Parse(src []byte, filename string) (cty.Value, error)

	// Marshal serializes an experiment back into document bytes such
	// that Load(Marshal(e)) is identical to e.
	Marshal(e *Experiment) ([]byte, error)
}
