package commands

import (
	"fmt"
	"io"
	"strings"

	"github.com/benhoyt/goawk/interp"
	"github.com/benhoyt/goawk/parser"
	"github.com/pegsh/pegsh/core/vos"
)

// Awk implements awk on top of the goawk interpreter. The interpreter
// is locked down: no exec and no direct file access, so the only data
// it sees comes through the virtual filesystem and streams.
func Awk(virtOS vos.VOS) int {
	cmd := &SimpleCommand{
		Use:   "awk [OPTION]... 'PROGRAM' [FILE]...",
		Short: "Pattern scanning and processing language.",
		// Never bail, even if args are bad.
		NeverBail: true,
	}

	opts := cmd.Flags()
	fieldSep := opts.String('F', "", "field separator")
	progFile := opts.String('f', "", "read the program from a file")
	assignments := opts.List('v', "assign a variable before execution (VAR=VALUE)")

	return cmd.Run(virtOS, func() int {
		args := opts.Args()

		var program string
		switch {
		case *progFile != "":
			fd, err := virtOS.Open(*progFile)
			if err != nil {
				fmt.Fprintf(virtOS.Stderr(), "awk: can't open file %s\n", *progFile)
				return 2
			}
			contents, err := io.ReadAll(fd)
			fd.Close()
			if err != nil {
				fmt.Fprintf(virtOS.Stderr(), "awk: can't read file %s\n", *progFile)
				return 2
			}
			program = string(contents)
		case len(args) > 0:
			program, args = args[0], args[1:]
		default:
			cmd.PrintHelp(virtOS.Stderr())
			return 2
		}

		prog, err := parser.ParseProgram([]byte(program), nil)
		if err != nil {
			fmt.Fprintf(virtOS.Stderr(), "awk: %v\n", err)
			return 2
		}

		// Input files are opened here so they come from the virtual
		// filesystem; the interpreter never opens any itself.
		var input io.Reader = virtOS.Stdin()
		if len(args) > 0 {
			var readers []io.Reader
			var closers []io.Closer
			defer func() {
				for _, c := range closers {
					c.Close()
				}
			}()

			for _, name := range args {
				fd, err := virtOS.Open(name)
				if err != nil {
					fmt.Fprintf(virtOS.Stderr(), "awk: can't open file %s\n", name)
					return 2
				}
				readers = append(readers, fd)
				closers = append(closers, fd)
			}
			input = io.MultiReader(readers...)
		}

		config := &interp.Config{
			Argv0:        "awk",
			Stdin:        input,
			Output:       virtOS.Stdout(),
			Error:        virtOS.Stderr(),
			NoExec:       true,
			NoFileReads:  true,
			NoFileWrites: true,
		}

		for _, entry := range virtOS.Environ() {
			if key, value, ok := strings.Cut(entry, "="); ok {
				config.Environ = append(config.Environ, key, value)
			}
		}
		for _, def := range *assignments {
			key, value, ok := strings.Cut(def, "=")
			if !ok {
				fmt.Fprintf(virtOS.Stderr(), "awk: invalid assignment: %s\n", def)
				return 2
			}
			config.Vars = append(config.Vars, key, value)
		}
		if *fieldSep != "" {
			config.Vars = append(config.Vars, "FS", *fieldSep)
		}

		status, err := interp.ExecProgram(prog, config)
		if err != nil {
			fmt.Fprintf(virtOS.Stderr(), "awk: %v\n", err)
			return 2
		}
		return status
	})
}

var _ vos.ProcessFunc = Awk

func init() {
	mustAddBinCmd("awk", Awk)
}
