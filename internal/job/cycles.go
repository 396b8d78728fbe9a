package job

import "fmt"

// DetectCycles checks the graph reachable from jobs through dependency
// edges. It returns an error wrapping ErrCycle naming a job on the first
// cycle found. The scheduler itself never checks for cycles; callers that
// build graphs from untrusted input run this before scheduling.
func DetectCycles(jobs ...*Job) error {
	// Classic depth-first search with three sets of nodes:
	// permanent: fully visited and not part of a cycle.
	// temporary: on the current recursion stack.
	permanent := make(map[*Job]bool)
	temporary := make(map[*Job]bool)

	var visit func(n *Job) error
	visit = func(n *Job) error {
		if permanent[n] {
			return nil
		}
		if temporary[n] {
			return fmt.Errorf("%w involving job '%s'", ErrCycle, n)
		}

		temporary[n] = true
		for _, dependent := range n.Dependents() {
			if err := visit(dependent); err != nil {
				return err
			}
		}
		delete(temporary, n)
		permanent[n] = true
		return nil
	}

	for _, n := range jobs {
		if n == nil {
			return ErrNilJob
		}
		if !permanent[n] {
			if err := visit(n); err != nil {
				return err
			}
		}
	}
	return nil
}
