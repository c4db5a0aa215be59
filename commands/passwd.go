package commands

import (
	"fmt"

	"github.com/abiosoft/readline"
	"github.com/pegsh/pegsh/core/vos"
)

// Passwd implements a fake passwd command. Nothing is updated, the
// sandbox checks passwords against its configuration only.
func Passwd(virtOS vos.VOS) int {
	cmd := &SimpleCommand{
		Use:   "passwd [OPTION] [LOGIN]",
		Short: "Change user password.",

		// Never bail, even if args are bad.
		NeverBail: true,
	}

	return cmd.Run(virtOS, func() int {
		cfg := &readline.Config{
			Stdin:  readline.NewCancelableStdin(virtOS.Stdin()),
			Stdout: virtOS.Stdout(),
			Stderr: virtOS.Stderr(),
			FuncGetWidth: func() int {
				return virtOS.GetPTY().Width
			},
			FuncIsTerminal: func() bool {
				return virtOS.GetPTY().IsPTY
			},
		}
		if err := cfg.Init(); err != nil {
			return 1
		}
		readline, err := readline.NewEx(cfg)
		if err != nil {
			return 1
		}
		defer readline.Close()

		newPass1, err1 := readline.ReadPassword("Enter new UNIX password: ")
		if err1 != nil {
			return 1
		}
		newPass2, err2 := readline.ReadPassword("Retype new UNIX password: ")
		if err2 != nil {
			return 1
		}

		if string(newPass1) != string(newPass2) {
			fmt.Fprintln(virtOS.Stdout(), "Sorry, passwords don't match.")
			fmt.Fprintln(virtOS.Stdout(), "passwd: password unchanged")
			return 0
		}
		fmt.Fprintln(virtOS.Stdout(), "passwd: password updated successfully")

		return 0
	})
}

var _ vos.ProcessFunc = Passwd

func init() {
	mustAddBinCmd("passwd", Passwd)
}
