package integration_tests

import (
	"fmt"
	"strings"
)

// sleeperJobs renders one HCL "sleeper" job per id, each depending on deps.
func sleeperJobs(ids []string, deps ...string) string {
	var b strings.Builder
	for _, id := range ids {
		fmt.Fprintf(&b, "job \"sleeper\" %q {\n", id)
		if len(deps) > 0 {
			fmt.Fprintf(&b, "  depends_on = [\"%s\"]\n", strings.Join(deps, `", "`))
		}
		fmt.Fprintf(&b, "  arguments {\n    id = %q\n  }\n}\n", id)
	}
	return b.String()
}
