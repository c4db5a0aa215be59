package commands

import (
	"fmt"

	"github.com/pegsh/pegsh/core/vos"
)

// Segfault fails. It stands in for executables the sandbox has no
// program for, so running an opaque binary "crashes" it.
func Segfault(virtOS vos.VOS) int {
	name := virtOS.Args()[0]
	fmt.Fprintf(virtOS.Stdout(), "%s: Segmentation fault\n", name)

	return 1
}

var SegfaultCommand vos.ProcessFunc = Segfault
