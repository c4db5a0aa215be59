package commands

import (
	"fmt"

	"github.com/pegsh/pegsh/core/vos"
)

// unameInfo is the fixed kernel identity the sandbox reports. The
// nodename comes from the virtual OS at run time.
var unameInfo = struct {
	sysname string
	release string
	version string
	machine string
}{
	sysname: "Linux",
	release: "4.15.0-147-generic",
	version: "#151-Ubuntu SMP Fri Jun 18 19:21:19 UTC 2021",
	machine: "x86_64",
}

// Uname implements the POSIX command by the same name.
func Uname(virtOS vos.VOS) int {
	cmd := &SimpleCommand{
		Use:   "uname [OPTION]...",
		Short: "Print system information.",
		// Never bail, even if args are bad.
		NeverBail: true,
	}

	opts := cmd.Flags()
	showAll := opts.BoolLong("all", 'a', "print all information")
	showKernelName := opts.BoolLong("kernel-name", 's', "print the kernel name")
	showNodename := opts.BoolLong("nodename", 'n', "print the network node name")
	showRelease := opts.BoolLong("kernel-release", 'r', "print the kernel release")
	showVersion := opts.BoolLong("kernel-version", 'v', "print the kernel version")
	showMachine := opts.BoolLong("machine", 'm', "print the machine name")

	return cmd.Run(virtOS, func() int {
		w := virtOS.Stdout()

		nodename, err := virtOS.Hostname()
		if err != nil {
			nodename = "localhost"
		}

		anyPrinted := false
		for _, entry := range []struct {
			flag     *bool
			property string
		}{
			{showKernelName, unameInfo.sysname},
			{showNodename, nodename},
			{showRelease, unameInfo.release},
			{showVersion, unameInfo.version},
			{showMachine, unameInfo.machine},
		} {
			if *entry.flag || *showAll {
				if anyPrinted {
					fmt.Fprint(w, " ")
				}
				fmt.Fprint(w, entry.property)
				anyPrinted = true
			}
		}

		if !anyPrinted {
			fmt.Fprint(w, unameInfo.sysname)
		}

		fmt.Fprintln(w)

		return 0
	})
}

var _ vos.ProcessFunc = Uname

func init() {
	mustAddBinCmd("uname", Uname)
}
