// Package metrics records runtime statistics of the job manager. It wraps
// go-metrics so callers see a small, fixed set of instruments instead of the
// whole go-metrics API.
package metrics

import (
	"encoding/json"
	"time"

	gometrics "github.com/rcrowley/go-metrics"
)

// latencySampleSize bounds the reservoir used for the latency histogram.
const latencySampleSize = 1028

// Registry holds the manager's instruments.
type Registry struct {
	reg gometrics.Registry

	scheduled gometrics.Counter
	executed  gometrics.Counter
	failed    gometrics.Counter
	released  gometrics.Counter
	queued    gometrics.Gauge
	running   gometrics.Counter
	latency   gometrics.Histogram
}

// New creates a registry with every instrument registered.
func New() *Registry {
	reg := gometrics.NewRegistry()
	return &Registry{
		reg:       reg,
		scheduled: gometrics.GetOrRegisterCounter(ScheduledCounter, reg),
		executed:  gometrics.GetOrRegisterCounter(ExecutedCounter, reg),
		failed:    gometrics.GetOrRegisterCounter(FailedCounter, reg),
		released:  gometrics.GetOrRegisterCounter(ReleasedCounter, reg),
		queued:    gometrics.GetOrRegisterGauge(QueuedGauge, reg),
		running:   gometrics.GetOrRegisterCounter(RunningCounter, reg),
		latency: gometrics.GetOrRegisterHistogram(ExecLatency_ns, reg,
			gometrics.NewExpDecaySample(latencySampleSize, 0.015)),
	}
}

// JobScheduled counts an accepted job.
func (r *Registry) JobScheduled() {
	r.scheduled.Inc(1)
}

// JobStarted marks a worker as busy.
func (r *Registry) JobStarted() {
	r.running.Inc(1)
}

// JobFinished records the outcome and duration of a job's work and marks
// the worker idle again.
func (r *Registry) JobFinished(d time.Duration, failed bool) {
	r.running.Dec(1)
	r.executed.Inc(1)
	if failed {
		r.failed.Inc(1)
	}
	r.latency.Update(d.Nanoseconds())
}

// JobReleased counts an auto-destroy release.
func (r *Registry) JobReleased() {
	r.released.Inc(1)
}

// SetQueued records the current ready-queue length.
func (r *Registry) SetQueued(n int) {
	r.queued.Update(int64(n))
}

// Each calls f for every registered instrument.
func (r *Registry) Each(f func(name string, metric any)) {
	r.reg.Each(f)
}

// Snapshot is a point-in-time copy of the instruments.
type Snapshot struct {
	Scheduled   int64         `json:"scheduled"`
	Executed    int64         `json:"executed"`
	Failed      int64         `json:"failed"`
	Released    int64         `json:"released"`
	Queued      int64         `json:"queued"`
	Running     int64         `json:"running"`
	LatencyMean time.Duration `json:"latency_mean_ns"`
	LatencyP99  time.Duration `json:"latency_p99_ns"`
	LatencyMax  time.Duration `json:"latency_max_ns"`
}

// Snapshot captures the current values of every instrument.
func (r *Registry) Snapshot() Snapshot {
	lat := r.latency.Snapshot()
	return Snapshot{
		Scheduled:   r.scheduled.Count(),
		Executed:    r.executed.Count(),
		Failed:      r.failed.Count(),
		Released:    r.released.Count(),
		Queued:      r.queued.Value(),
		Running:     r.running.Count(),
		LatencyMean: time.Duration(lat.Mean()),
		LatencyP99:  time.Duration(lat.Percentile(0.99)),
		LatencyMax:  time.Duration(lat.Max()),
	}
}

// MarshalJSON renders the snapshot of the registry.
func (r *Registry) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.Snapshot())
}
