package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/vk/jobgrid/internal/ctxlog"
	"github.com/vk/jobgrid/internal/kinds"
	"github.com/vk/jobgrid/internal/manager"
)

// Run loads the job graph, executes it on a worker pool and waits for every
// job. It returns ErrJobsFailed (wrapped) when a job failed or the run timed
// out; the report is returned in both cases.
func (a *App) Run(ctx context.Context) (*Report, error) {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.")

	if a.config.HealthcheckPort > 0 {
		if err := a.startHealthcheckServer(ctx, a.config.HealthcheckPort); err != nil {
			return nil, err
		}
		defer a.closeHealthcheckServer(ctx)
	}

	g, err := a.load(ctx)
	if err != nil {
		return nil, err
	}
	if len(g.jobs) == 0 {
		a.logger.Warn("No jobs found in graph, execution not required.")
		return &Report{Stats: a.metrics.Snapshot()}, nil
	}

	waitCtx := ctx
	if a.config.Timeout > 0 {
		var cancel context.CancelFunc
		waitCtx, cancel = context.WithTimeout(ctx, a.config.Timeout)
		defer cancel()
	}

	// Jobs are cancelled only through Abort, once the queue is closed.
	mgr := manager.New(context.WithoutCancel(ctx), manager.Config{
		Workers: a.config.WorkerCount,
		Metrics: a.metrics,
	})
	defer mgr.Close()

	a.logger.Info("🚀 Starting concurrent execution...", "jobs", len(g.jobs), "workers", mgr.Workers())
	if err := mgr.ScheduleAll(g.jobs...); err != nil {
		return nil, fmt.Errorf("failed to schedule jobs: %w", err)
	}

	var waitErr error
	for _, j := range g.jobs {
		if err := j.SyncContext(waitCtx); err != nil && !j.Finished() {
			waitErr = fmt.Errorf("stopped waiting for job '%s': %w", j.Name(), err)
			a.logger.Error("Run interrupted before all jobs finished.", "job", j.Name(), "error", err)
			break
		}
	}
	if waitErr != nil {
		mgr.Abort()
	} else {
		mgr.Close()
	}

	report := &Report{Stats: a.metrics.Snapshot()}
	for i, j := range g.jobs {
		res := newResult(j, g.tasks[i])
		report.Results = append(report.Results, res)
		if res.OK() {
			a.logger.Info("Job finished.", "job", res.Name, "kind", res.Kind, "duration", res.Duration, "output", kinds.Render(res.Output))
		} else {
			a.logger.Error("Job did not succeed.", "job", res.Name, "kind", res.Kind, "state", res.State, "error", res.Err)
		}
	}

	failed := report.Failed()
	a.logger.Info("🏁 Execution finished.",
		"jobs", len(report.Results),
		"failed", len(failed),
		"released", report.Stats.Released,
	)

	if waitErr != nil {
		return report, errors.Join(fmt.Errorf("%w: %d of %d", ErrJobsFailed, len(failed), len(report.Results)), waitErr)
	}
	if len(failed) > 0 {
		return report, fmt.Errorf("%w: %d of %d", ErrJobsFailed, len(failed), len(report.Results))
	}
	return report, nil
}
