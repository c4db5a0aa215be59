package commands

import (
	"bytes"
	"fmt"
	"io"
	"log"
	"path"
	"strings"
	"sync"

	"github.com/abiosoft/readline"
	"github.com/pegsh/pegsh/core/logger"
	"github.com/pegsh/pegsh/core/shell"
	"github.com/pegsh/pegsh/core/vos"
	"github.com/spf13/afero"
)

const (
	EnvHome            = "HOME"
	EnvPWD             = "PWD"
	EnvPath            = "PATH"
	EnvPrompt          = "PS1"
	EnvHostname        = "HOSTNAME"
	EnvUser            = "USER"
	EnvUID             = "UID"
	DefaultPath        = "/usr/local/bin:/usr/bin:/bin"
	DefaultColorPrompt = `\033[01;32m\u@\h\033[00m:\033[01;34m\w\033[00m\$ `
	DefaultPrompt      = `\u@\h:\w\$ `
)

type Shell struct {
	VirtualOS vos.VOS
	Readline  *readline.Instance

	lastRet   int
	history   []string
	jobNumber int

	// background tracks pipelines running without the shell waiting;
	// the shell drains it before it returns.
	background sync.WaitGroup

	// Set to true to quit the shell
	Quit bool
}

func RunShell(virtualOS vos.VOS) int {
	s, err := NewShell(virtualOS)
	if err != nil {
		fmt.Fprintf(virtualOS.Stderr(), "sh: %s\n", err)
		return 1
	}

	cmd := &SimpleCommand{
		Use:       "sh [options] ...",
		Short:     "Standard command interpreter for the system. Currently being changed to conform with the POSIX 1003.2 standard.",
		NeverBail: true,
	}
	commandFlag := cmd.Flags().String('c', "", "Command")

	return cmd.Run(virtualOS, func() int {
		defer s.background.Wait()

		if *commandFlag != "" {
			s.RunScript(*commandFlag)
			return s.lastRet
		}

		if args := cmd.Flags().Args(); len(args) > 0 {
			return s.runScriptFile(args[0])
		}

		return s.runInteractive()
	})
}

func NewShell(virtualOS vos.VOS) (*Shell, error) {
	cfg := &readline.Config{
		Stdin:  readline.NewCancelableStdin(virtualOS.Stdin()),
		Stdout: virtualOS.Stdout(),
		Stderr: virtualOS.Stderr(),
		FuncGetWidth: func() int {
			return virtualOS.GetPTY().Width
		},
		FuncIsTerminal: func() bool {
			return virtualOS.GetPTY().IsPTY
		},
	}

	if err := cfg.Init(); err != nil {
		return nil, err
	}

	readline, err := readline.NewEx(cfg)
	if err != nil {
		return nil, err
	}

	shell := &Shell{
		VirtualOS: virtualOS,
		Readline:  readline,
	}

	shell.Init(virtualOS.User())

	return shell, nil
}

// Init sets up the environment similar to login + source ~/.bashrc.
func (s *Shell) Init(username string) {
	var homedir string
	if s.VirtualOS.Getuid() == 0 {
		homedir = "/root"
	} else {
		homedir = fmt.Sprintf("/home/%s", username)
	}
	s.VirtualOS.Setenv(EnvHome, homedir)

	// Use chdir in case the dir doesn't exist.
	_ = s.VirtualOS.Chdir(homedir)
	if host, err := s.VirtualOS.Hostname(); err == nil {
		s.VirtualOS.Setenv(EnvHostname, host)
	}
	if s.VirtualOS.GetPTY().IsPTY {
		s.VirtualOS.Setenv(EnvPrompt, DefaultColorPrompt)
	} else {
		s.VirtualOS.Setenv(EnvPrompt, DefaultPrompt)
	}
	if pwd, err := s.VirtualOS.Getwd(); err == nil {
		s.VirtualOS.Setenv(EnvPWD, pwd)
	}
	if _, ok := s.VirtualOS.LookupEnv(EnvPath); !ok {
		s.VirtualOS.Setenv(EnvPath, DefaultPath)
	}
	s.VirtualOS.Setenv(EnvUser, username)
	s.VirtualOS.Setenv(EnvUID, fmt.Sprintf("%d", s.VirtualOS.Getuid()))
}

func (s *Shell) prompt() string {
	prompt := s.VirtualOS.Getenv(EnvPrompt)
	if prompt == "" {
		prompt = DefaultPrompt
	}
	prompt = strings.ReplaceAll(prompt, `\u`, s.VirtualOS.Getenv(EnvUser))
	prompt = strings.ReplaceAll(prompt, `\h`, s.VirtualOS.Getenv(EnvHostname))

	pwd, _ := s.VirtualOS.Getwd()
	home := s.VirtualOS.Getenv(EnvHome)
	if home != "" && strings.HasPrefix(pwd, home) {
		pwd = "~" + strings.TrimPrefix(pwd, home)
	}

	prompt = strings.ReplaceAll(prompt, `\w`, pwd)

	if s.VirtualOS.Getuid() == 0 {
		prompt = strings.ReplaceAll(prompt, `\$`, "#")
	} else {
		prompt = strings.ReplaceAll(prompt, `\$`, "$")
	}

	return unescape(prompt)
}

func (s *Shell) runInteractive() int {
	for !s.Quit {
		s.Readline.SetPrompt(s.prompt())
		line, err := s.Readline.Readline()

		// This doesn't make sense for shell, but it needs to be kept in line with
		// the readline history.
		s.history = append(s.history, line)

		switch {
		case err == io.EOF:
			return s.lastRet // Input closed, quit.

		case err == readline.ErrInterrupt:
			// Interrupt clears line.
			continue
		case err != nil:
			log.Printf("Error readline: %v", err)
			continue

		case len(line) == 0:
			continue // empty line

		default:
			s.RunScript(line)
		}
	}
	return s.lastRet
}

func (s *Shell) runScriptFile(name string) int {
	fd, err := s.VirtualOS.Open(name)
	if err != nil {
		fmt.Fprintf(s.VirtualOS.Stderr(), "sh: can't open %s\n", name)
		return 127
	}
	defer fd.Close()

	contents, err := io.ReadAll(fd)
	if err != nil {
		fmt.Fprintf(s.VirtualOS.Stderr(), "sh: can't read %s\n", name)
		return 1
	}

	s.RunScript(string(contents))
	return s.lastRet
}

// RunScript parses and executes src, a complete script. Input the
// grammar rejects produces a one line message; the full text only lands
// in the event log.
func (s *Shell) RunScript(src string) {
	pipelines, err := shell.ParseStrict(src)
	if err != nil {
		vos.LogEvent(s.VirtualOS, &logger.ParseFailure{Input: src})
		fmt.Fprintln(s.Readline, "sh: syntax error")
		s.lastRet = 2
		return
	}

	for _, pl := range pipelines {
		s.runPipeline(pl)
		if s.Quit {
			return
		}
	}
}

// globber glob-expands against the process's filesystem view, so
// relative patterns are relative to the working directory.
func (s *Shell) globber() shell.Globber {
	return shell.GlobberFunc(func(pattern string) ([]string, error) {
		return afero.Glob(s.VirtualOS, pattern)
	})
}

func (s *Shell) runPipeline(pl shell.Pipeline) {
	pl.ExpandGlobs(s.globber())

	var closers []io.Closer
	closeAll := func() {
		for _, c := range closers {
			c.Close()
		}
	}

	var stdin io.Reader = s.VirtualOS.Stdin()
	var stdout io.Writer = s.VirtualOS.Stdout()

	if pl.StdinFile != "" {
		fd, err := s.VirtualOS.Open(pl.StdinFile)
		if err != nil {
			fmt.Fprintf(s.Readline, "sh: cannot open %s\n", pl.StdinFile)
			s.lastRet = 2
			return
		}
		closers = append(closers, fd)
		stdin = fd
	}

	if pl.StdoutFile != "" {
		fd, err := s.VirtualOS.Create(pl.StdoutFile)
		if err != nil {
			fmt.Fprintf(s.Readline, "sh: cannot create %s\n", pl.StdoutFile)
			closeAll()
			s.lastRet = 2
			return
		}
		closers = append(closers, fd)
		stdout = fd
	}

	stages, ok := s.startPipeline(pl, stdin, stdout)
	if !ok {
		closeAll()
		s.lastRet = 127
		return
	}

	run := func() int {
		defer closeAll()
		ret := 0
		for _, stage := range stages {
			ret = stage.run()
		}
		return ret
	}

	if pl.Background() {
		// The job tag mimics an interactive shell; there is no job table
		// behind it.
		fmt.Fprintf(s.Readline, "[%d] %d\n", s.nextJobNumber(), stages[len(stages)-1].pid)
		s.background.Add(1)
		go func() {
			defer s.background.Done()
			run()
		}()
		s.lastRet = 0
		return
	}

	s.lastRet = run()
}

func (s *Shell) nextJobNumber() int {
	s.jobNumber++
	return s.jobNumber
}

// pipelineStage is one job of a pipeline bound to its streams and ready
// to run.
type pipelineStage struct {
	run func() int
	pid int
}

// startPipeline binds every job of pl to its streams. Adjacent jobs are
// connected through buffers and run in order, so each stage sees its
// predecessor's complete output. It reports false if any program word
// failed to resolve; no stage runs in that case.
func (s *Shell) startPipeline(pl shell.Pipeline, stdin io.Reader, stdout io.Writer) ([]pipelineStage, bool) {
	background := pl.Background()
	last := len(pl.Jobs) - 1

	var stages []pipelineStage
	var prev *bytes.Buffer
	for i, job := range pl.Jobs {
		jobStdin := stdin
		if i > 0 {
			jobStdin = prev
		}
		var jobStdout io.Writer = stdout
		if i < last {
			prev = &bytes.Buffer{}
			jobStdout = prev
		}

		stage, ok := s.startJob(job, jobStdin, jobStdout, background)
		if !ok {
			return nil, false
		}
		stages = append(stages, stage)
	}
	return stages, true
}

func (s *Shell) startJob(job shell.Job, stdin io.Reader, stdout io.Writer, background bool) (pipelineStage, bool) {
	args := job.Args

	// Builtins run inside the shell process against its own streams.
	if builtin, ok := AllBuiltins[args[0]]; ok {
		return pipelineStage{
			pid: s.VirtualOS.Getpid(),
			run: func() int { return builtin.Main(s, args) },
		}, true
	}

	cmd := job.Command()
	execPath, err := vos.LookPath(s.VirtualOS, cmd.Path)
	if err != nil {
		return s.commandNotFound(args, err)
	}
	// The resolver works on rooted paths; LookPath may hand back one
	// relative to the working directory.
	if !path.IsAbs(execPath) {
		wd, _ := s.VirtualOS.Getwd()
		execPath = path.Join(wd, execPath)
	}

	proc, err := s.VirtualOS.StartProcess(execPath, cmd.Argv(), &vos.ProcAttr{
		Files: vos.NewIO(stdin, stdout, s.VirtualOS.Stderr()),
	})
	if err != nil {
		return s.commandNotFound(args, err)
	}

	vos.LogEvent(s.VirtualOS, &logger.RunCommand{
		Command:      args,
		ResolvedPath: execPath,
		Background:   background,
	})

	return pipelineStage{pid: proc.Getpid(), run: proc.Run}, true
}

func (s *Shell) commandNotFound(args []string, err error) (pipelineStage, bool) {
	vos.LogEvent(s.VirtualOS, &logger.UnknownCommand{
		Command: args,
		Reason:  err.Error(),
	})
	fmt.Fprintf(s.Readline, "sh: %s: command not found\n", args[0])
	return pipelineStage{}, false
}

func init() {
	mustAddBinCmd("sh", RunShell)
}
