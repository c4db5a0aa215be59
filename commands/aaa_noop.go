package commands

import (
	"fmt"

	"github.com/pegsh/pegsh/core/vos"
)

// No-op commands.
type NoOpCommand struct {
	Name     string
	Use      string
	Short    string
	Stdout   string
	ExitCode int
}

// Convert the no-op command description to a functioning command.
func (c *NoOpCommand) ToCommand() vos.ProcessFunc {
	return func(virtOS vos.VOS) int {
		cmd := &SimpleCommand{
			Use:   c.Use,
			Short: c.Short,
			// Never bail, even if args are bad.
			NeverBail: true,
		}

		return cmd.Run(virtOS, func() int {
			if c.Stdout != "" {
				w := virtOS.Stdout()
				fmt.Fprintln(w, c.Stdout)
			}

			return c.ExitCode
		})
	}
}

var noOpBinCommands = []NoOpCommand{
	{
		Name:  "lspci",
		Use:   "lspci [OPTION...]",
		Short: "List PCI devices.",
		Stdout: mustDedent(`
        00:00.0 Host bridge: Intel Corporation 440FX - 82441FX PMC [Natoma] (rev 02)
        00:01.0 ISA bridge: Intel Corporation 82371SB PIIX3 ISA [Natoma/Triton II]
        00:01.1 IDE interface: Intel Corporation 82371SB PIIX3 IDE [Natoma/Triton II]
        00:01.2 USB controller: Intel Corporation 82371SB PIIX3 USB [Natoma/Triton II] (rev 01)
        00:01.3 Bridge: Intel Corporation 82371AB/EB/MB PIIX4 ACPI (rev 03)
        00:02.0 VGA compatible controller: Red Hat, Inc. Virtio 1.0 GPU (rev 01)
        00:03.0 Ethernet controller: Red Hat, Inc. Virtio network device
        00:04.0 SCSI storage controller: Red Hat, Inc. Virtio SCSI
        00:05.0 SCSI storage controller: Red Hat, Inc. Virtio block device
        00:06.0 Unclassified device [00ff]: Red Hat, Inc. Virtio memory balloon`),
	},
	{
		Name:  "nohup",
		Use:   "nohup COMMAND [ARG]...",
		Short: "Run COMMAND, ignoring hangup signals.",
	},
}

func init() {
	for i := range noOpBinCommands {
		cmd := noOpBinCommands[i]
		mustAddBinCmd(cmd.Name, cmd.ToCommand())
	}
}
