package cmd

import (
	"fmt"
	"io"
	"log"
	"net"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pegsh/pegsh/commands"
	"github.com/pegsh/pegsh/core"
	"github.com/pegsh/pegsh/core/config"
	"github.com/pegsh/pegsh/core/logger"
	"github.com/pegsh/pegsh/core/vos"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// localConn stands in for an SSH connection when the sandbox runs in the
// current terminal.
type localConn struct {
	user string
}

func (c *localConn) User() string {
	return c.user
}

func (c *localConn) RemoteAddr() net.Addr {
	return &net.TCPAddr{IP: net.IPv4(127, 0, 0, 1), Port: 22}
}

func (c *localConn) Exit(code int) error {
	// The shell quits on its own; there is no connection to hang up.
	return nil
}

var _ vos.Conn = (*localConn)(nil)

type osVIO struct {
}

func (c *osVIO) Stderr() io.WriteCloser {
	return os.Stderr
}

func (c *osVIO) Stdout() io.WriteCloser {
	return os.Stdout
}

func (c *osVIO) Stdin() io.ReadCloser {
	return os.Stdin
}

var _ vos.VIO = (*osVIO)(nil)

var runCommandString string

// runCmd runs the sandbox shell over the local OS for testing
var runCmd = &cobra.Command{
	Use:     "run [SCRIPT]",
	Aliases: []string{"playground"},
	Short:   "Run the sandbox shell in the current terminal without a server.",
	Args:    cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true

		dir, err := os.MkdirTemp("", "pegsh-run")
		if err != nil {
			return err
		}
		defer os.RemoveAll(dir)

		runLogger := log.New(cmd.ErrOrStderr(), "[run] ", 0)
		cfg, err := config.Initialize(dir, runLogger)
		if err != nil {
			return err
		}

		// Tag the hostname to help differentiate the fake shell from a real
		// one -- it's surprisingly convincing.
		cfg.OS.Hostname = "sandbox🍯"

		baseFS, err := core.NewBaseFS(cfg)
		if err != nil {
			return err
		}

		logFd, err := cfg.OpenAppLog()
		if err != nil {
			return err
		}
		defer logFd.Close()
		events := logger.NewJSONLinesLogRecorder(logFd)

		runLogger.Printf("Logging to: file://%s\n", dir)
		runLogger.Printf("See logs with: tail -f %s\n", filepath.Join(dir, config.AppLogName))
		runLogger.Println(strings.Repeat("=", 80))

		system := vos.NewSystem(baseFS, cfg.OS.Hostname, commands.BuiltinProcessResolver, time.Now)
		system.SetDownloadSink(cfg.CreateDownload)

		session := vos.NewSession(system, events.NewSession(), &localConn{user: "root"})
		session.SetPTY(localPTY())

		script := runCommandString
		if len(args) == 1 {
			contents, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			script = string(contents)
		}

		argv := []string{cfg.OS.DefaultShell}
		if script != "" {
			argv = append(argv, "-c", script)
		}

		runner, err := session.InitProc().StartProcess(cfg.OS.DefaultShell, argv, &vos.ProcAttr{
			Dir:   "/",
			Env:   []string{"PATH=" + cfg.OS.DefaultPath},
			Files: &osVIO{},
		})
		if err != nil {
			return err
		}

		exitCode := runner.Run()
		fmt.Fprintf(cmd.OutOrStdout(), "Exit code: %d\n", exitCode)
		return nil
	},
}

// localPTY describes the terminal the command was started from.
func localPTY() vos.PTY {
	pty := vos.PTY{
		Width:  80,
		Height: 40,
		Term:   os.Getenv("TERM"),
		IsPTY:  term.IsTerminal(int(os.Stdin.Fd())),
	}
	if width, height, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		pty.Width = width
		pty.Height = height
	}
	if pty.Term == "" {
		pty.Term = "xterm"
	}
	return pty
}

func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().StringVarP(&runCommandString, "command", "c", "", "Run a command string instead of starting interactively.")
}
