package commands

import (
	"github.com/pegsh/pegsh/core/vos"
)

// Screen pretends to start a terminal multiplexer and immediately
// returns.
func Screen(virtOS vos.VOS) int {
	cmd := &SimpleCommand{
		Use:   "screen [-opts] [cmd [args]]",
		Short: "Screen manager with VT100/ANSI terminal emulation.",

		NeverBail: true,
	}

	return cmd.Run(virtOS, func() int {
		return 0
	})
}

var _ vos.ProcessFunc = Screen

func init() {
	mustAddBinCmd("screen", Screen)
}
