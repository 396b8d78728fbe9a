// Package yaml provides the YAML implementation of the config.Loader
// interface. Job arguments are decoded generically by yaml.v3 and converted
// into cty values so job kinds see the same data regardless of the format.
package yaml
