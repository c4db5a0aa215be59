package commands

import (
	"fmt"

	"github.com/pegsh/pegsh/core/vos"
)

// Make reports a missing makefile for every invocation, the most common
// outcome on a box with no source tree.
func Make(virtOS vos.VOS) int {
	cmd := &SimpleCommand{
		Use:   "make [options] [target] ...",
		Short: "Run a dependency graph of commands.",

		NeverBail: true,
	}

	return cmd.Run(virtOS, func() int {
		fmt.Fprintln(virtOS.Stderr(), "make: *** No rule to make target. Stop.")
		return 1
	})
}

var _ vos.ProcessFunc = Make

func init() {
	mustAddBinCmd("make", Make)
}
