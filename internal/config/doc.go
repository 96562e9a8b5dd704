// Package config defines the format-agnostic model of pulse definitions,
// along with the Loader interface for reading them from a source format.
//
// The model is the single source of truth for the builder; concrete loaders,
// such as the HCL one, live in separate packages.
package config
