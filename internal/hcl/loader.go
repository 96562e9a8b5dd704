package hcl

import (
	"context"
	"fmt"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"

	"github.com/qdlab/pulsec/internal/config"
	"github.com/qdlab/pulsec/internal/ctxlog"
	"github.com/qdlab/pulsec/internal/fsutil"
	"github.com/qdlab/pulsec/internal/schema"
)

// Loader is the HCL-specific implementation of the config.Loader interface.
type Loader struct{}

// NewLoader creates a new HCL pulse-definition loader.
func NewLoader() *Loader {
	return &Loader{}
}

// Load discovers, parses, and translates every .hcl file reachable from the
// given paths into one merged model.
func (l *Loader) Load(ctx context.Context, paths ...string) (*config.Model, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("HCL loader started.", "path_count", len(paths))

	model := config.NewModel()
	parser := hclparse.NewParser()

	for _, path := range paths {
		files, err := fsutil.FindFilesByExtension(path, ".hcl")
		if err != nil {
			return nil, fmt.Errorf("error accessing path %s: %w", path, err)
		}
		logger.Debug("Discovered HCL files.", "path", path, "count", len(files))

		for _, file := range files {
			hclFile, diags := parser.ParseHCLFile(file)
			if diags.HasErrors() {
				return nil, fmt.Errorf("failed to parse HCL file %s: %w", file, diags)
			}

			var root schema.Root
			diags = gohcl.DecodeBody(hclFile.Body, nil, &root)
			if diags.HasErrors() {
				return nil, fmt.Errorf("failed to decode HCL file %s: %w", file, diags)
			}

			for _, p := range root.Pulses {
				def, err := translatePulse(p)
				if err != nil {
					return nil, fmt.Errorf("%s: %w", file, err)
				}
				if err := model.Add(def); err != nil {
					return nil, fmt.Errorf("%s: %w", file, err)
				}
			}
		}
	}

	logger.Debug("HCL loading complete.", "pulses", len(model.Pulses))
	return model, nil
}
