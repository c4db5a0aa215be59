package commands

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"path"
	"sort"
	"strconv"
	"strings"

	"github.com/fatih/color"
	getopt "github.com/pborman/getopt/v2"
	"github.com/pegsh/pegsh/core/logger"
	"github.com/pegsh/pegsh/core/vos"
)

// BuiltinCommand is one program installed in the virtual filesystem.
type BuiltinCommand struct {
	// Names holds the names the program is installed under, canonical
	// name first.
	Names []string
	Proc  vos.ProcessFunc
}

var (
	commandsByName = make(map[string]*BuiltinCommand)
	commandsByPath = make(map[string]vos.ProcessFunc)
)

// mustAddBinCmd registers a command under /bin and /usr/bin. Duplicate
// names are a registration bug and panic at init time.
func mustAddBinCmd(name string, proc vos.ProcessFunc) {
	mustAdd(name, proc, "/bin", "/usr/bin")
}

// mustAddSbinCmd registers a command under /sbin and /usr/sbin.
func mustAddSbinCmd(name string, proc vos.ProcessFunc) {
	mustAdd(name, proc, "/sbin", "/usr/sbin")
}

func mustAdd(name string, proc vos.ProcessFunc, dirs ...string) {
	if _, ok := commandsByName[name]; ok {
		panic(fmt.Sprintf("duplicate command: %q", name))
	}
	commandsByName[name] = &BuiltinCommand{
		Names: []string{name},
		Proc:  proc,
	}
	for _, dir := range dirs {
		commandsByPath[path.Join(dir, name)] = proc
	}
}

// BuiltinProcessResolver maps an absolute executable path to the builtin
// installed there, or nil if the path doesn't name one.
func BuiltinProcessResolver(path string) vos.ProcessFunc {
	return commandsByPath[path]
}

var _ vos.ProcessResolver = BuiltinProcessResolver

// ListBuiltinCommands returns the registered commands sorted by
// canonical name.
func ListBuiltinCommands() []*BuiltinCommand {
	var out []*BuiltinCommand
	for _, cmd := range commandsByName {
		out = append(out, cmd)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Names[0] < out[j].Names[0]
	})
	return out
}

// SeedVFS installs a stub executable in vfs for every registered command
// path so $PATH lookups and directory listings see real files.
func SeedVFS(vfs vos.VFS) error {
	byDir := make(map[string][]string)
	for p := range commandsByPath {
		dir, name := path.Split(p)
		byDir[dir] = append(byDir[dir], name)
	}

	for dir, names := range byDir {
		if err := vos.SeedPrograms(vfs, dir, names); err != nil {
			return err
		}
	}
	return nil
}

// logInvalidInvocation records arguments a command rejected.
func logInvalidInvocation(virtOS vos.VOS, err error) {
	vos.LogEvent(virtOS, &logger.InvalidInvocation{
		Command: virtOS.Args(),
		Error:   err.Error(),
	})
}

// commandName is the program name as invoked, for error prefixes.
func commandName(virtOS vos.VOS) string {
	if args := virtOS.Args(); len(args) > 0 {
		return path.Base(args[0])
	}
	return "?"
}

func BytesToHuman(bytes int64) string {
	for _, e := range []struct {
		unit  string
		power int64
	}{
		{"P", 1e15},
		{"T", 1e12},
		{"G", 1e9},
		{"M", 1e6},
		{"K", 1e3},
	} {
		quotient := bytes / e.power
		switch {
		case quotient == 0:
			continue
		case quotient > 10:
			return fmt.Sprintf("%d%s", quotient, e.unit)
		default:
			return fmt.Sprintf("%0.1f%s", float64(bytes)/float64(e.power), e.unit)
		}
	}

	return fmt.Sprintf("%d", bytes)
}

// UidResolver builds a uid to username mapping from the virtual
// /etc/passwd. Unknown uids render as bare numbers.
func UidResolver(virtOS vos.VOS) (resolver func(int) string) {
	mapping := map[int]string{
		0: "root", // seed in case we don't see any others.
	}

	resolver = func(uid int) string {
		if resolved, ok := mapping[uid]; ok {
			return resolved
		}
		return fmt.Sprintf("%d", uid)
	}

	fd, err := virtOS.Open("/etc/passwd")
	if err != nil {
		return
	}
	defer fd.Close()

	passwdBytes, err := io.ReadAll(fd)
	if err != nil {
		// can't do anything
		return
	}
	for _, line := range strings.Split(string(passwdBytes), "\n") {
		entry := strings.Split(line, ":")
		if len(entry) < 3 {
			continue
		}
		// name:X:uid:
		name := entry[0]
		if uid, err := strconv.Atoi(entry[2]); err == nil {
			mapping[uid] = name
		}
	}

	return
}

// mustDedent strips the leading margin of a multiline literal so canned
// output can be indented alongside the code. The margin is taken from
// the first non-blank line; a line without it panics at init time.
func mustDedent(s string) string {
	s = strings.TrimPrefix(s, "\n")

	margin := ""
	for _, r := range s {
		if r != ' ' && r != '\t' {
			break
		}
		margin += string(r)
	}

	var out []string
	for _, line := range strings.Split(s, "\n") {
		switch {
		case strings.TrimSpace(line) == "":
			out = append(out, "")
		case strings.HasPrefix(line, margin):
			out = append(out, strings.TrimPrefix(line, margin))
		default:
			panic(fmt.Sprintf("line %q missing margin %q", line, margin))
		}
	}
	return strings.Join(out, "\n")
}

type SimpleCommand struct {
	// Use holds a one line usage string
	Use string
	// Short holds a one line description of the command.
	Short string
	// ShowHelp sets whether help is displayed or not.
	// If this is non-nil when Run() is called, then the default help flag isn't
	// added.
	ShowHelp *bool
	// NeverBail skips interacting with stdout/stderr on failure and
	// always runs the callback.
	NeverBail bool

	flags *getopt.Set
}

// Flags gets the command's flag set.
func (s *SimpleCommand) Flags() *getopt.Set {
	if s.flags == nil {
		s.flags = getopt.New()
	}

	return s.flags
}

// PrintHelp writes help for the command to the given writer.
func (s *SimpleCommand) PrintHelp(w io.Writer) {
	fmt.Fprint(w, "usage: ")
	fmt.Fprintln(w, s.Use)
	fmt.Fprintln(w, s.Short)
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Flags:")
	s.Flags().PrintOptions(w)
}

// Run the command, if flag parsing was successful call the callback.
func (s *SimpleCommand) Run(virtOS vos.VOS, callback func() int) int {
	opts := s.Flags()

	// Add help flag if not overridden.
	if s.ShowHelp == nil {
		s.ShowHelp = opts.BoolLong("help", 'h', "show this help and exit")
	}

	err := opts.Getopt(virtOS.Args(), nil)
	if err != nil {
		logInvalidInvocation(virtOS, err)
	}

	if err != nil && !s.NeverBail {
		fmt.Fprintf(virtOS.Stderr(), "error: %s\n\n", err)

		s.PrintHelp(virtOS.Stdout())
		return 1
	}

	if *s.ShowHelp {
		s.PrintHelp(virtOS.Stdout())
		return 0
	}

	return callback()
}

// RunE runs the command. An error from the callback is reported on
// stderr prefixed with the program name and exits 1.
func (s *SimpleCommand) RunE(virtOS vos.VOS, callback func() error) int {
	return s.Run(virtOS, func() int {
		if err := callback(); err != nil {
			fmt.Fprintf(virtOS.Stderr(), "%s: %v\n", commandName(virtOS), err)
			return 1
		}
		return 0
	})
}

// RunEachArg runs the callback once per positional argument. Errors are
// reported per argument and any failure makes the exit status 1.
func (s *SimpleCommand) RunEachArg(virtOS vos.VOS, callback func(arg string) error) int {
	return s.Run(virtOS, func() int {
		exitCode := 0
		for _, arg := range s.Flags().Args() {
			if err := callback(arg); err != nil {
				fmt.Fprintf(virtOS.Stderr(), "%s: %v\n", commandName(virtOS), err)
				exitCode = 1
			}
		}
		return exitCode
	})
}

// RunEachFileOrStdin runs the callback once per named file, or once with
// stdin when no files are given. Stdin is named "-" in the callback.
func (s *SimpleCommand) RunEachFileOrStdin(virtOS vos.VOS, files []string, callback func(name string, fd io.Reader) error) int {
	if len(files) == 0 {
		if err := callback("-", virtOS.Stdin()); err != nil {
			fmt.Fprintf(virtOS.Stderr(), "%s: %v\n", commandName(virtOS), err)
			return 1
		}
		return 0
	}

	exitCode := 0
	for _, name := range files {
		fd, err := virtOS.Open(name)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				fmt.Fprintf(virtOS.Stderr(), "%s: %s: No such file or directory\n", commandName(virtOS), name)
			} else {
				fmt.Fprintf(virtOS.Stderr(), "%s: %s: %v\n", commandName(virtOS), name, err)
			}
			exitCode = 1
			continue
		}

		err = callback(name, fd)
		fd.Close()
		if err != nil {
			fmt.Fprintf(virtOS.Stderr(), "%s: %v\n", commandName(virtOS), err)
			exitCode = 1
		}
	}
	return exitCode
}

// LogProgramError reports an error the way the program would: on stderr
// with the program name prefixed, recording the invocation that caused
// it. The caller picks the exit code.
func (s *SimpleCommand) LogProgramError(virtOS vos.VOS, err error) {
	logInvalidInvocation(virtOS, err)
	fmt.Fprintf(virtOS.Stderr(), "%s: %v\n", commandName(virtOS), err)
}

const (
	colorAlways = "always"
	colorAuto   = "auto"
	colorNever  = "never"
)

var (
	ColorBoldBlue  = color.New(color.FgBlue, color.Bold)
	ColorBoldGreen = color.New(color.FgGreen, color.Bold)
	ColorBoldCyan  = color.New(color.FgCyan, color.Bold)
	ColorBoldRed   = color.New(color.FgRed, color.Bold)
)

type ColorPrinter struct {
	value  *string
	virtOS vos.VOS
}

// Init sets up the flag and virtual OS to determine the color output.
func (c *ColorPrinter) Init(flags *getopt.Set, virtOS vos.VOS) {
	c.virtOS = virtOS
	c.value = flags.EnumLong(
		"color",
		rune(0), // No short flag.
		[]string{colorAlways, colorAuto, colorNever},
		colorAuto,
		"colorize the output (always|auto|never)")
}

func (c *ColorPrinter) ShouldColor() bool {
	switch {
	case *c.value == colorNever:
		return false
	case *c.value == colorAlways:
		return true
	default:
		return c.virtOS.GetPTY().IsPTY
	}
}

func (c *ColorPrinter) Sprintf(color *color.Color, format string, a ...interface{}) string {
	if c.ShouldColor() {
		return color.Sprintf(format, a...)
	}
	return fmt.Sprintf(format, a...)
}
