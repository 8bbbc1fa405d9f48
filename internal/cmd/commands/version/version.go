package version

import (
	"fmt"

	"github.com/xnat/docsync/internal/cmd/base"
	docsyncversion "github.com/xnat/docsync/internal/version"
)

type Command struct {
	*base.Command
}

func (c *Command) Synopsis() string {
	return "Print the docsync version"
}

func (c *Command) Help() string {
	return `Usage: docsync version

  Print the docsync version.`
}

func (c *Command) Run(args []string) int {
	c.UI.Output(fmt.Sprintf("docsync v%s", docsyncversion.Version))
	return 0
}
