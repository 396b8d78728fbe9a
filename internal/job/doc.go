// Package job defines the unit of schedulable work and its dependency
// bookkeeping.
//
// A Job wraps caller-supplied Work together with a counter of unfinished
// prerequisites, the list of jobs that depend on it and a manual-reset
// completion event. The graph is built with AddDependency before any of its
// participants is scheduled; afterwards the dependents list is only read, by
// the single worker that runs the job.
//
// The pending counter starts at one: an "unscheduled hold" released by
// Admit. A prerequisite that finishes before its dependent is scheduled
// therefore cannot push the dependent onto the ready queue early, and
// exactly one goroutine (the one whose decrement reaches zero) observes the
// job becoming ready.
//
// Lifecycle:
//
//	Created -> Waiting -> Ready -> Running -> Finished
//
// Jobs built with WithAutoDestroy are released by the worker once their
// completion has been signaled and their dependents notified. All other jobs
// belong to their creator, who calls Release after Sync returns.
package job
