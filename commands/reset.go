package commands

import (
	"fmt"

	"github.com/pegsh/pegsh/core/vos"
)

// Reset implements the UNIX reset command.
func Reset(virtOS vos.VOS) int {
	if virtOS.GetPTY().IsPTY {
		// Assumes VT100 compatibility.
		fmt.Fprintf(virtOS.Stdout(), "\033c")
	}
	return 0
}

var _ vos.ProcessFunc = Reset

func init() {
	mustAddBinCmd("reset", Reset)
}
