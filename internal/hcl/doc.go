// Package hcl provides the concrete HCL implementation of the config.Loader
// interface: file discovery, parsing, and translation of pulse definition
// files into the format-agnostic config model.
package hcl
