package commands

import (
	"io"

	"github.com/pegsh/pegsh/core/vos"
)

// Cat implements the POSIX cat command. Without arguments it copies
// stdin, which is what makes it useful in pipelines.
func Cat(virtOS vos.VOS) int {
	cmd := &SimpleCommand{
		Use:   "cat [FILE]...",
		Short: "Concatenate FILE(s) to standard output.",
		// Never bail, even if args are bad.
		NeverBail: true,
	}

	return cmd.Run(virtOS, func() int {
		return cmd.RunEachFileOrStdin(virtOS, cmd.Flags().Args(), func(name string, fd io.Reader) error {
			_, err := io.Copy(virtOS.Stdout(), fd)
			return err
		})
	})
}

var _ vos.ProcessFunc = Cat

func init() {
	mustAddBinCmd("cat", Cat)
}
