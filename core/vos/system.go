package vos

import (
	"errors"
	"fmt"
	"net"
	"path"
	"runtime/debug"
	"sync"
	"sync/atomic"
	"time"

	"github.com/pegsh/pegsh/core/logger"
	"github.com/spf13/afero"
)

// TimeSource provides the current time. Swap it out to pin the clock in
// tests.
type TimeSource func() time.Time

// EventRecorder receives the structured events a session produces.
type EventRecorder interface {
	Record(event logger.EventPayload) error
}

// EventLogger is implemented by processes that can record structured
// session events. Commands should reach it through the LogEvent helper so
// they also run on bare test OSes.
type EventLogger interface {
	LogEvent(event logger.EventPayload)
}

// LogEvent records event if v supports event logging.
func LogEvent(v VOS, event logger.EventPayload) {
	if l, ok := v.(EventLogger); ok {
		l.LogEvent(event)
	}
}

// DownloadSink opens a file outside the virtual filesystem to capture
// content a session fetched from the network. The name is unique per
// download.
type DownloadSink func(name string) (afero.File, error)

// System is the shared base of the virtual OS: the pristine root
// filesystem, the host identity, the program table, and the clock.
// Everything handed out from here is immutable or copy-on-write, so any
// number of sessions can share one System.
type System struct {
	baseFS    VFS
	hostname  string
	resolver  ProcessResolver
	now       TimeSource
	bootTime  time.Time
	downloads DownloadSink
	nextPID   int32
}

// NewSystem assembles a System. A nil now defaults to the wall clock.
func NewSystem(baseFS VFS, hostname string, resolver ProcessResolver, now TimeSource) *System {
	if now == nil {
		now = time.Now
	}
	return &System{
		baseFS:   baseFS,
		hostname: hostname,
		resolver: resolver,
		now:      now,
		bootTime: now(),
	}
}

// Hostname returns the virtual host's name.
func (s *System) Hostname() string {
	return s.hostname
}

// ReadOnlyFS returns a read-only view of the base filesystem.
func (s *System) ReadOnlyFS() VFS {
	return afero.NewReadOnlyFs(s.baseFS)
}

// Resolve looks up the program implementing an executable path.
func (s *System) Resolve(path string) ProcessFunc {
	if s.resolver == nil {
		return nil
	}
	return s.resolver(path)
}

// SetDownloadSink routes captured downloads to sink. Without one,
// DownloadPath fails and commands report the fetch as unwritable.
func (s *System) SetDownloadSink(sink DownloadSink) {
	s.downloads = sink
}

// NextPID returns a monotonically increasing process ID.
func (s *System) NextPID() int {
	return int(atomic.AddInt32(&s.nextPID, 1))
}

// BootTime reports when the System was assembled.
func (s *System) BootTime() time.Time {
	return s.bootTime
}

// Now returns the system clock's current time.
func (s *System) Now() time.Time {
	return s.now()
}

// Conn is the user connection a session serves. SSH sessions satisfy it
// directly; local terminals use an adapter.
type Conn interface {
	User() string
	RemoteAddr() net.Addr
	Exit(code int) error
}

// Session is one user's view of a System: a private copy-on-write overlay
// of the root filesystem plus the connection's identity. One session runs
// many processes, all sharing the overlay.
type Session struct {
	system     *System
	fs         VFS
	events     EventRecorder
	pty        PTY
	loginTime  time.Time
	user       string
	remoteAddr net.Addr
	exit       func(int) error
}

// NewSession starts a session for conn on system. Writes made by the
// session land in its private overlay and vanish with it.
func NewSession(system *System, events EventRecorder, conn Conn) *Session {
	return &Session{
		system:     system,
		fs:         NewOverlayFS(system.baseFS),
		events:     events,
		loginTime:  system.Now(),
		user:       conn.User(),
		remoteAddr: conn.RemoteAddr(),
		exit:       conn.Exit,
	}
}

// LogEvent records a structured event against the session. Recording
// failures are dropped; logging never breaks a session.
func (s *Session) LogEvent(event logger.EventPayload) {
	if s.events != nil {
		_ = s.events.Record(event)
	}
}

// SetPTY implements VOS.SetPTY, recording the change.
func (s *Session) SetPTY(pty PTY) {
	s.LogEvent(&logger.TerminalUpdate{
		Width:  pty.Width,
		Height: pty.Height,
		Term:   pty.Term,
		IsPTY:  pty.IsPTY,
	})
	s.pty = pty
}

// GetPTY implements VOS.GetPTY.
func (s *Session) GetPTY() PTY {
	return s.pty
}

// User returns the username the session was established as.
func (s *Session) User() string {
	return s.user
}

// RemoteAddr returns the client side of the connection.
func (s *Session) RemoteAddr() net.Addr {
	if s.remoteAddr == nil {
		return &net.TCPAddr{IP: net.IPv4(127, 0, 0, 1)}
	}
	return s.remoteAddr
}

// LoginTime reports when the session was established.
func (s *Session) LoginTime() time.Time {
	return s.loginTime
}

// BootTime reports when the system came up.
func (s *Session) BootTime() time.Time {
	return s.system.BootTime()
}

// Now implements VOS.Now.
func (s *Session) Now() time.Time {
	return s.system.Now()
}

// Exit hangs up the session's connection.
func (s *Session) Exit(code int) error {
	if s.exit == nil {
		return nil
	}
	return s.exit(code)
}

// InitProc creates the session's first process. It has an empty
// environment and null streams; callers set both up before starting real
// programs from it.
func (s *Session) InitProc() *Proc {
	p := &Proc{
		Session:        s,
		VEnv:           NewMapEnv(),
		VIO:            NewNullIO(),
		ExecutablePath: "/sbin/init",
		ProcArgs:       []string{"/sbin/init"},
		PID:            s.system.NextPID(),
		UID:            0,
		Dir:            "/",
		Exec: func(VOS) int {
			return 0
		},
	}
	p.VFS = NewProcFS(s.fs, p.Getwd)
	return p
}

// Proc is one process in a session: its environment, streams, working
// directory, and identity. It implements VOS.
type Proc struct {
	*Session

	VEnv
	VFS
	VIO

	// ExecutablePath is the path of the executable that started the
	// process.
	ExecutablePath string
	// ProcArgs holds the argument vector including the program as
	// ProcArgs[0].
	ProcArgs []string
	// PID is the process ID.
	PID int
	// UID is the user ID the process runs as.
	UID int
	// Dir is the working directory.
	Dir string
	// Exec is the process body Run invokes.
	Exec ProcessFunc
}

var _ VOS = (*Proc)(nil)

// Executable implements VOS.Executable.
func (p *Proc) Executable() (string, error) {
	if p.ExecutablePath == "" {
		return "", ErrNotFound
	}
	return p.ExecutablePath, nil
}

// Args implements VOS.Args.
func (p *Proc) Args() []string {
	return p.ProcArgs
}

// Getpid implements VOS.Getpid.
func (p *Proc) Getpid() int {
	return p.PID
}

// Getuid implements VOS.Getuid.
func (p *Proc) Getuid() int {
	return p.UID
}

// Getwd implements VOS.Getwd.
func (p *Proc) Getwd() (string, error) {
	return p.Dir, nil
}

// Hostname implements VOS.Hostname.
func (p *Proc) Hostname() (string, error) {
	return p.system.Hostname(), nil
}

// Chdir implements VOS.Chdir.
func (p *Proc) Chdir(dir string) error {
	if !path.IsAbs(dir) {
		dir = path.Clean(path.Join(p.Dir, dir))
	}

	stat, err := p.Stat(dir)
	switch {
	case err != nil:
		return fmt.Errorf("%s: %w", dir, err)
	case !stat.IsDir():
		return fmt.Errorf("%s: Not a directory", dir)
	default:
		p.Dir = dir
		return nil
	}
}

// StartProcess implements VOS.StartProcess. The child shares the
// session's filesystem overlay but gets its own environment, streams, and
// working directory.
func (p *Proc) StartProcess(name string, argv []string, attr *ProcAttr) (VOS, error) {
	if attr == nil {
		attr = &ProcAttr{}
	}
	if argv == nil {
		argv = []string{name}
	}

	exec := p.system.Resolve(name)
	if exec == nil {
		return nil, fmt.Errorf("fork/exec %s: %w", name, ErrNotFound)
	}

	var env VEnv
	if attr.Env == nil {
		env = NewMapEnvFrom(p.VEnv)
	} else {
		env = NewMapEnvFromEnvList(attr.Env)
	}

	child := &Proc{
		Session:        p.Session,
		VEnv:           env,
		ExecutablePath: name,
		ProcArgs:       argv,
		PID:            p.system.NextPID(),
		UID:            p.UID,
		Dir:            p.Dir,
		Exec:           exec,
	}
	child.VFS = NewProcFS(p.Session.fs, child.Getwd)

	if attr.Files == nil {
		child.VIO = NewNullIO()
	} else {
		child.VIO = attr.Files
	}

	if attr.Dir != "" {
		if err := child.Chdir(attr.Dir); err != nil {
			return nil, err
		}
	}

	return child, nil
}

// DownloadPath implements VOS.DownloadPath. The capture file is named
// after the time of the fetch so concurrent sessions never collide.
func (p *Proc) DownloadPath(source string) (afero.File, error) {
	sink := p.system.downloads
	if sink == nil {
		return nil, errors.New("downloads are not captured on this system")
	}

	name := p.Now().Format(time.RFC3339Nano)
	fd, err := sink(name)
	if err != nil {
		return nil, err
	}

	return &downloadCapture{
		File:   fd,
		proc:   p,
		source: source,
		name:   name,
	}, nil
}

// downloadCapture counts the bytes written to a capture file and records
// the download once the file is closed.
type downloadCapture struct {
	afero.File
	proc    *Proc
	source  string
	name    string
	written int64
	once    sync.Once
}

func (d *downloadCapture) Write(p []byte) (int, error) {
	n, err := d.File.Write(p)
	d.written += int64(n)
	return n, err
}

func (d *downloadCapture) WriteString(s string) (int, error) {
	return d.Write([]byte(s))
}

func (d *downloadCapture) Close() error {
	err := d.File.Close()
	d.once.Do(func() {
		d.proc.LogEvent(&logger.Download{
			Source:       d.source,
			Path:         d.name,
			BytesWritten: d.written,
			Command:      d.proc.ProcArgs,
		})
	})
	return err
}

// Run implements VOS.Run.
func (p *Proc) Run() (code int) {
	defer func() {
		if r := recover(); r != nil {
			p.LogEvent(&logger.Panic{
				Context:    fmt.Sprintf("%s: %v", p.ExecutablePath, r),
				Stacktrace: string(debug.Stack()),
			})
			fmt.Fprintf(p.Stderr(), "%s: internal error\n", path.Base(p.ExecutablePath))
			code = 1
		}
	}()
	return p.Exec(p)
}
