package commands

import (
	"fmt"

	"github.com/pegsh/pegsh/core/vos"
)

// Reboot terminates the session like a reboot would.
func Reboot(virtOS vos.VOS) int {
	cmd := &SimpleCommand{
		Use:   "reboot [options] [arg] ...",
		Short: "Reboot the system.",
	}

	return cmd.Run(virtOS, func() int {
		hostname, err := virtOS.Hostname()
		if err != nil {
			hostname = "localhost"
		}

		fmt.Fprintf(virtOS.Stdout(), "Broadcast message from root@%s:\n", hostname)
		fmt.Fprintln(virtOS.Stdout(), "The system is going down for reboot NOW!")
		virtOS.Exit(0)
		return 0
	})
}

var _ vos.ProcessFunc = Reboot

func init() {
	mustAddSbinCmd("reboot", Reboot)
}
