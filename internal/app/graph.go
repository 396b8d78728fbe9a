package app

import (
	"context"
	"fmt"

	"github.com/vk/jobgrid/internal/config"
	"github.com/vk/jobgrid/internal/ctxlog"
	"github.com/vk/jobgrid/internal/job"
	"github.com/vk/jobgrid/internal/kinds"
)

// graph is a wired set of jobs ready to be scheduled, in file order.
type graph struct {
	jobs  []*job.Job
	tasks []*kinds.Task
}

// buildGraph turns a validated model into scheduler jobs: one Task per
// configured job, one dependency edge per depends_on entry, and the same
// edge on the Task so it can read its prerequisite's output.
func buildGraph(ctx context.Context, model *config.Model, reg *kinds.Registry) (*graph, error) {
	logger := ctxlog.FromContext(ctx)

	g := &graph{}
	byName := make(map[string]int, len(model.Jobs))

	for _, cj := range model.Jobs {
		task, err := reg.Build(cj)
		if err != nil {
			return nil, err
		}
		prio, err := job.ParsePriority(cj.Priority)
		if err != nil {
			return nil, err
		}
		task.OnRelease(func(t *kinds.Task) {
			logger.Debug("Job released.", "job", t.Name())
		})

		j := job.New(task,
			job.WithName(cj.Name),
			job.WithPriority(prio),
			job.WithAutoDestroy(cj.AutoDestroy),
		)
		byName[cj.Name] = len(g.jobs)
		g.jobs = append(g.jobs, j)
		g.tasks = append(g.tasks, task)
	}

	for i, cj := range model.Jobs {
		for _, dep := range cj.DependsOn {
			d, ok := byName[dep]
			if !ok {
				return nil, fmt.Errorf("%s: job '%s' depends on unknown job '%s'", cj.Source, cj.Name, dep)
			}
			if err := g.jobs[i].AddDependency(g.jobs[d]); err != nil {
				return nil, err
			}
			g.tasks[i].AddInput(g.tasks[d])
		}
	}

	if err := job.DetectCycles(g.jobs...); err != nil {
		return nil, err
	}

	logger.Debug("Job graph built.", "jobs", len(g.jobs))
	return g, nil
}
