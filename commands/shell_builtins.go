package commands

import (
	"errors"
	"fmt"
	"io/fs"
	"sort"
	"strconv"
	"strings"

	"github.com/pborman/getopt/v2"
)

// AllBuiltins holds a list of all registered shell builtins
var AllBuiltins = make(map[string]ShellBuiltin)

type ShellBuiltin interface {
	Main(s *Shell, args []string) int
}

type ShellBuiltinFunc func(s *Shell, args []string) int

func (f ShellBuiltinFunc) Main(s *Shell, args []string) int {
	return f(s, args)
}

var _ ShellBuiltin = (ShellBuiltinFunc)(nil)

// Cd is the cd shell builtin
func Cd(s *Shell, args []string) int {
	switch len(args) {
	case 1:
		args = append(args, s.VirtualOS.Getenv(EnvHome))
		fallthrough
	case 2:
		if err := s.VirtualOS.Chdir(args[1]); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				fmt.Fprintf(s.VirtualOS.Stderr(), "%s: %s: No such file or directory\n", args[0], args[1])
			} else {
				fmt.Fprintf(s.VirtualOS.Stderr(), "%s: %v\n", args[0], err)
			}
			return 1
		}
	default:
		fmt.Fprintf(s.VirtualOS.Stderr(), "%s: too many arguments\n", args[0])
		return 1
	}

	if pwd, err := s.VirtualOS.Getwd(); err == nil {
		s.VirtualOS.Setenv(EnvPWD, pwd)
	}
	return 0
}

// Exit quits the shell. Codes wrap at 256 like a real one.
func Exit(s *Shell, args []string) int {
	code := s.lastRet
	if len(args) > 1 {
		parsed, err := strconv.Atoi(args[1])
		if err != nil {
			fmt.Fprintf(s.VirtualOS.Stderr(), "%s: %s: numeric argument required\n", args[0], args[1])
			parsed = 2
		}
		code = int(uint8(parsed))
	}

	s.Quit = true
	s.VirtualOS.Exit(code)
	return code
}

func History(s *Shell, args []string) int {
	// parse -c to clear

	opts := getopt.New()
	clear := opts.Bool('c', "clear the history by deleting all entries")
	append := opts.Bool('a', "append all history to the history file")
	helpOpt := opts.BoolLong("help", 'h', "show help and exit")

	if err := opts.Getopt(args, nil); err != nil || *helpOpt {
		w := s.VirtualOS.Stderr()
		if err != nil {
			fmt.Fprintln(w, err)
		}
		fmt.Fprintln(w, "Display or manipulate the history list")
		fmt.Fprintln(w, "Display the history list with line numbers.")
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Options:")
		opts.PrintOptions(w)
		return 1
	}

	optionChosen := false
	if *clear {
		s.Readline.Operation.ResetHistory()
		s.history = nil
		optionChosen = true
	}
	if *append {
		// nop
		optionChosen = true
	}

	if !optionChosen {
		for i, line := range s.history {
			fmt.Fprintf(s.VirtualOS.Stdout(), "% 5d  %s\n", i, line)
		}
	}
	return 0
}

func Help(s *Shell, args []string) int {
	w := s.VirtualOS.Stdout()
	fmt.Fprintln(w, "sh version 4.31.20")
	fmt.Fprintln(w, "These shell commands are defined internally.  Type `help' to see this list.")
	fmt.Fprintln(w, "Type `help name' to find out more about the function `name'.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Builtins:")
	fmt.Fprintln(w)

	var builtins []string
	for k := range AllBuiltins {
		builtins = append(builtins, k)
	}
	sort.Strings(builtins)

	fmt.Fprintln(w, strings.Join(builtins, "\n"))

	return 0
}

func init() {
	AllBuiltins["cd"] = ShellBuiltinFunc(Cd)
	AllBuiltins["exit"] = ShellBuiltinFunc(Exit)
	AllBuiltins["help"] = ShellBuiltinFunc(Help)
	AllBuiltins["history"] = ShellBuiltinFunc(History)
}
