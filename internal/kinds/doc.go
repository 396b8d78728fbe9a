// Package kinds is the glue between job-graph files and Go code.
//
// A Registry maps the kind label of a `job` block (e.g. "sum") to a Go
// handler together with the struct its arguments decode into. Registry.Build
// validates and decodes a config.Job's arguments up front, so a graph with a
// misspelled argument fails at load time rather than halfway through a run.
// The resulting Task is the job.Work executed by the scheduler; it collects
// the outputs of its prerequisites and exposes its own output to dependents.
package kinds
