package hcl

import "github.com/hashicorp/hcl/v2"

// fileRoot decodes all top-level blocks from any file.
type fileRoot struct {
	Jobs   []*JobBlock `hcl:"job,block"`
	Remain hcl.Body    `hcl:",remain"`
}

// JobBlock is the raw shape of a `job "<kind>" "<name>" { ... }` block.
type JobBlock struct {
	Kind        string          `hcl:"kind,label"`
	Name        string          `hcl:"name,label"`
	Priority    *string         `hcl:"priority,optional"`
	AutoDestroy *bool           `hcl:"auto_destroy,optional"`
	DependsOn   []string        `hcl:"depends_on,optional"`
	Arguments   *ArgumentsBlock `hcl:"arguments,block"`
	DeclRange   hcl.Range       `hcl:",def_range"`
}

// ArgumentsBlock holds the free-form attributes of a job's `arguments`.
type ArgumentsBlock struct {
	Body hcl.Body `hcl:",remain"`
}
