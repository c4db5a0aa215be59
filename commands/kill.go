package commands

import (
	"github.com/pegsh/pegsh/core/vos"
)

// Kill accepts kill's syntax and quietly succeeds; the sandbox has no
// processes worth signaling.
func Kill(virtOS vos.VOS) int {
	cmd := &SimpleCommand{
		Use:   "kill [-s sigspec | -n signum | -sigspec] pid | jobspec ... or kill -l [sigspec]",
		Short: "Send a signal to a job.",

		NeverBail: true,
	}

	return cmd.Run(virtOS, func() int {
		return 0
	})
}

// Killall is a no-op killall command.
func Killall(virtOS vos.VOS) int {
	cmd := &SimpleCommand{
		Use:   "killall [OPTION]... [--] NAME...",
		Short: "Kill a process by name.",

		NeverBail: true,
	}

	return cmd.Run(virtOS, func() int {
		return 0
	})
}

// Pkill is a no-op pkill command.
func Pkill(virtOS vos.VOS) int {
	cmd := &SimpleCommand{
		Use:   "pkill [OPTION]... PATTERN",
		Short: "Signal a process by pattern.",

		NeverBail: true,
	}

	return cmd.Run(virtOS, func() int {
		return 0
	})
}

var (
	_ vos.ProcessFunc = Kill
	_ vos.ProcessFunc = Killall
	_ vos.ProcessFunc = Pkill
)

func init() {
	mustAddBinCmd("kill", Kill)
	mustAddBinCmd("killall", Killall)
	mustAddBinCmd("pkill", Pkill)
}
