// Package app contains the core application logic. It defines the main App
// struct, its configuration, and the primary execution lifecycle: load a job
// graph, build scheduler jobs from it, run them on a manager and report.
// It is decoupled from any specific entrypoint like a CLI or server.
package app
