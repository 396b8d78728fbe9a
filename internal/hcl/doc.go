// Package hcl provides the HCL implementation of the config.Loader
// interface. It parses `job` blocks with hcl/v2, evaluates their arguments
// into cty values and translates them into the format-agnostic config model.
package hcl
