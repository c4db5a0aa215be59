package commands

import (
	"fmt"

	"github.com/pegsh/pegsh/core/vos"
)

// Clear implements the UNIX clear command.
func Clear(virtOS vos.VOS) int {
	if virtOS.GetPTY().IsPTY {
		// Assumes VT100 compatibility.
		fmt.Fprintf(virtOS.Stdout(), "\033[H\033[2J")
	}
	return 0
}

var _ vos.ProcessFunc = Clear

func init() {
	mustAddBinCmd("clear", Clear)
}
