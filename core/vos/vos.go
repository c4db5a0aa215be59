// Package vos is the virtual operating system shell sessions run against:
// an in-memory filesystem, environment, process table, and standard
// streams, fully isolated from the host. Commands are plain Go functions
// that receive a VOS instead of talking to package os.
package vos

import (
	"net"
	"time"

	"github.com/spf13/afero"
)

// PTY describes the terminal attached to a session.
type PTY struct {
	Width  int
	Height int
	Term   string
	IsPTY  bool
}

// VProc exposes a process's identity: what started it, where it runs, and
// whose clock it sees.
type VProc interface {
	// Executable returns the path of the executable that started the
	// process.
	Executable() (string, error)

	// Args returns the process's argument vector, program name first.
	Args() []string

	// Getpid returns the process ID.
	Getpid() int

	// Getuid returns the numeric user ID the process runs as.
	Getuid() int

	// Getwd returns the rooted path of the working directory.
	Getwd() (dir string, err error)

	// Chdir changes the working directory.
	Chdir(dir string) error

	// Hostname returns the name of the virtual host.
	Hostname() (string, error)

	// Now returns the system's idea of the current time.
	Now() time.Time
}

// VOS is everything a process can see of the system.
type VOS interface {
	VEnv
	VIO
	VFS
	VProc

	// SetPTY records the dimensions and kind of the controlling terminal.
	SetPTY(PTY)
	GetPTY() PTY

	// User returns the username the session was established as.
	User() string

	// RemoteAddr returns the client side of the session's connection.
	RemoteAddr() net.Addr

	// LoginTime reports when the session was established.
	LoginTime() time.Time

	// BootTime reports when the virtual host came up.
	BootTime() time.Time

	// Exit hangs up the session's connection.
	Exit(code int) error

	// DownloadPath opens a capture file for content fetched from source.
	// Closing the file records a download event with the bytes written.
	DownloadPath(source string) (afero.File, error)

	// StartProcess creates a child process running the program resolved
	// for name. The argv slice becomes the child's Args, so it normally
	// starts with the program name.
	StartProcess(name string, argv []string, attr *ProcAttr) (VOS, error)

	// Run executes the process body and returns its exit code. A panic in
	// the body is recovered, recorded, and reported as exit code 1.
	Run() int
}
