package app

import (
	"time"

	"github.com/vk/jobgrid/internal/job"
	"github.com/vk/jobgrid/internal/kinds"
	"github.com/vk/jobgrid/internal/metrics"
	"github.com/zclconf/go-cty/cty"
)

// Result is the outcome of one configured job.
type Result struct {
	Name     string
	Kind     string
	State    job.State
	Err      error
	Duration time.Duration
	Output   cty.Value
}

// OK reports whether the job finished without error.
func (r Result) OK() bool {
	return r.State == job.Finished && r.Err == nil
}

// Report is the outcome of a Run, in file order.
type Report struct {
	Results []Result
	Stats   metrics.Snapshot
}

// Failed returns the results of jobs that failed or never finished.
func (r *Report) Failed() []Result {
	var failed []Result
	for _, res := range r.Results {
		if !res.OK() {
			failed = append(failed, res)
		}
	}
	return failed
}

// Lookup returns the result for the named job.
func (r *Report) Lookup(name string) (Result, bool) {
	for _, res := range r.Results {
		if res.Name == name {
			return res, true
		}
	}
	return Result{}, false
}

func newResult(j *job.Job, t *kinds.Task) Result {
	res := Result{
		Name:   j.Name(),
		Kind:   t.Kind(),
		State:  j.State(),
		Output: cty.NullVal(cty.DynamicPseudoType),
	}
	if j.Finished() {
		res.Err = j.Err()
		res.Duration = j.Duration()
		res.Output = t.Output()
	}
	return res
}
