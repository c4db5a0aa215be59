package vostest

import (
	"bytes"
	"io"
	"net"
	"time"

	"github.com/pegsh/pegsh/core/logger"
	"github.com/pegsh/pegsh/core/vos"
)

type NopEventRecorder struct{}

func (*NopEventRecorder) Record(event logger.EventPayload) error {
	return nil
}

// FakeConn is a canned client connection for tests.
type FakeConn struct {
}

func (f *FakeConn) User() string {
	return "root"
}

func (f *FakeConn) RemoteAddr() net.Addr {
	return &net.TCPAddr{IP: net.IPv4(203, 0, 113, 7), Port: 40122}
}

func (f *FakeConn) Exit(code int) error {
	return nil
}

func SingleProcessResolver(process vos.ProcessFunc) vos.ProcessResolver {
	return func(path string) vos.ProcessFunc {
		return process
	}
}

func NewDeterministicOS(resolver vos.ProcessResolver) vos.VOS {
	timeSource := func() time.Time {
		// Go's reference timestamp with a different value in each position.
		return time.Date(2006, 1, 2, 3, 4, 5, 0, time.UTC)
	}

	system := vos.NewSystem(vos.NewEmptyRootFS(nil), "localhost", resolver, timeSource)

	session := vos.NewSession(system, &NopEventRecorder{}, &FakeConn{})
	session.SetPTY(vos.PTY{})

	return session.InitProc()
}

// Cmd is similar to exec.Cmd.
type Cmd struct {
	// Process function
	Process vos.ProcessFunc
	// Process arguments, the first argument should be the process name.
	Argv []string
	// If Dir is non-empty, the child changes into the directory before
	// creating the process.
	Dir string
	// If Env is non-empty, it gives the environment variables for the
	// new process in the form returned by Environ.
	// If it is nil, the result of Environ will be used.
	Env []string

	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer

	ExitStatus int

	// Setup prepares the process before it runs, e.g. seeding files.
	Setup func(vos.VOS) error

	// VOS is the deterministic OS the command runs on. It's shared across
	// runs so tests can adjust the environment or write files in between.
	VOS vos.VOS
}

func Command(process vos.ProcessFunc, name string, arg ...string) *Cmd {
	return &Cmd{
		Process: process,
		Argv:    append([]string{name}, arg...),
		VOS:     NewDeterministicOS(SingleProcessResolver(process)),
	}
}

func (c *Cmd) CombinedOutput() ([]byte, error) {
	// stdout, stderr
	buf := &bytes.Buffer{}
	c.Stdout = buf
	c.Stderr = buf

	err := c.Run()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Run starts the command and waits for it to complete.
func (c *Cmd) Run() error {
	if c.VOS == nil {
		c.VOS = NewDeterministicOS(SingleProcessResolver(c.Process))
	}

	runner, err := c.VOS.StartProcess(c.Argv[0], c.Argv, &vos.ProcAttr{
		Dir:   c.Dir,
		Env:   c.Env,
		Files: vos.NewIO(c.Stdin, c.Stdout, c.Stderr),
	})
	if err != nil {
		return err
	}

	if c.Setup != nil {
		if err := c.Setup(runner); err != nil {
			return err
		}
	}

	c.ExitStatus = runner.Run()
	return nil
}
