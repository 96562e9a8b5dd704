package config

import "context"

// Loader is the interface for a format-specific pulse-definition loader.
type Loader interface {
	// Load reads every definition reachable from the given paths and
	// translates it into the format-agnostic model.
	Load(ctx context.Context, paths ...string) (*Model, error)
}
