package metrics

/*
Names of the instruments recorded by the job manager. Add new instruments
here so the /stats output stays discoverable.
*/

const (
	/*
		number of jobs accepted by Manager.Schedule
	*/
	ScheduledCounter = "jobs/scheduled"

	/*
		number of jobs whose work has returned (successfully or not)
	*/
	ExecutedCounter = "jobs/executed"

	/*
		number of jobs whose work returned an error or panicked
	*/
	FailedCounter = "jobs/failed"

	/*
		number of auto-destroy jobs released by workers
	*/
	ReleasedCounter = "jobs/released"

	/*
		number of jobs sitting in the ready queue, updated by the queue under
		its own lock on every push and pop
	*/
	QueuedGauge = "queue/ready"

	/*
		number of jobs currently being executed by a worker
	*/
	RunningCounter = "workers/running"

	/*
		time spent inside a job's work, in nanoseconds
	*/
	ExecLatency_ns = "jobs/execLatency_ns"
)
