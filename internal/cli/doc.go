// Package cli wires the jobgrid command line onto the app package with
// cobra. It owns flag parsing, validation of user input and the mapping of
// failures onto process exit codes via ExitError.
package cli
