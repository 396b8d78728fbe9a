// Package config defines the format-agnostic model of a job-graph file,
// along with the Loader interface implemented by the format-specific
// packages (hcl, yaml).
//
// The config.Model is the single source of truth for the app package, which
// turns it into scheduled jobs. Concrete loaders live in separate packages so
// the model never depends on a parser.
package config
