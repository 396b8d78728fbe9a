package app

import (
	"github.com/vk/jobgrid/internal/kinds"
	"github.com/vk/jobgrid/modules/env_vars"
	"github.com/vk/jobgrid/modules/fail"
	"github.com/vk/jobgrid/modules/http_request"
	"github.com/vk/jobgrid/modules/print"
	"github.com/vk/jobgrid/modules/sleep"
	"github.com/vk/jobgrid/modules/sum"
)

// coreModules is the definitive list of all job kinds that are compiled
// into the jobgrid binary.
var coreModules = []kinds.Module{
	&env_vars.Module{},
	&fail.Module{},
	&http_request.Module{},
	&print.Module{},
	&sleep.Module{},
	&sum.Module{},
}
