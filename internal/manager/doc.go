// Package manager runs job graphs on a fixed pool of worker goroutines.
//
// A Manager owns a ready queue and its workers. Schedule admits a job; jobs
// with no outstanding prerequisites go straight onto the ready queue, the
// rest wait until the last prerequisite to finish pushes them. Each worker
// repeatedly pops the highest-priority ready job and, in order:
//
//  1. runs its work (panics are recovered and recorded on the job),
//  2. signals the job's completion event, releasing Sync callers,
//  3. decrements every dependent's pending counter and enqueues the ones
//     that reached zero,
//  4. releases the job if it was built with auto-destroy.
//
// Close stops the pool once the ready queue is drained; Abort additionally
// cancels the job context, so queued jobs finish without running. Either
// way, jobs still waiting on prerequisites are abandoned.
//
// The Manager never owns jobs. It references them only while they are
// queued or running.
package manager
