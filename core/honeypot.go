package core

import (
	"context"
	"fmt"
	"io"
	"log"
	"strings"
	"time"

	"github.com/gliderlabs/ssh"
	"github.com/pegsh/pegsh/commands"
	"github.com/pegsh/pegsh/core/config"
	"github.com/pegsh/pegsh/core/logger"
	"github.com/pegsh/pegsh/core/ttylog"
	"github.com/pegsh/pegsh/core/vos"
	gossh "golang.org/x/crypto/ssh"
)

type sshContextKey struct {
	name string
}

var (
	// ContextAuthPublicKey holds the SHA256 fingerprint of the public key
	// the client offered, if it offered one.
	ContextAuthPublicKey = sshContextKey{"auth-public-key"}
	// ContextAuthPassword holds the password the client authenticated with.
	ContextAuthPassword = sshContextKey{"auth-password"}
)

// Honeypot is the SSH server wrapped around one shared virtual OS. Every
// connection gets its own session with a private filesystem overlay; the
// shared base system is never modified.
type Honeypot struct {
	config    *config.Configuration
	system    *vos.System
	events    *logger.Logger
	ops       *log.Logger
	toClose   listCloser
	sshServer *ssh.Server
}

// NewBaseFS builds the shared base filesystem from the configuration's
// image, with a stub installed for every builtin so $PATH lookups and
// directory listings agree about which programs exist.
func NewBaseFS(cfg *config.Configuration) (vos.VFS, error) {
	fsFd, err := cfg.OpenFilesystemTarGz()
	if err != nil {
		return nil, fmt.Errorf("opening root filesystem image: %v", err)
	}
	defer fsFd.Close()

	baseFS, err := vos.NewRootFS(fsFd)
	if err != nil {
		return nil, err
	}
	if err := commands.SeedVFS(baseFS); err != nil {
		return nil, err
	}
	return baseFS, nil
}

// NewHoneypot assembles a honeypot from its configuration. Operational
// messages go to logDest; structured events go to the configuration's
// application log.
func NewHoneypot(cfg *config.Configuration, logDest io.Writer) (*Honeypot, error) {
	var toClose listCloser

	baseFS, err := NewBaseFS(cfg)
	if err != nil {
		return nil, err
	}

	appLog, err := cfg.OpenAppLog()
	if err != nil {
		return nil, err
	}
	toClose = append(toClose, appLog)

	honeypot := &Honeypot{
		config:  cfg,
		system:  vos.NewSystem(baseFS, cfg.OS.Hostname, commands.BuiltinProcessResolver, time.Now),
		events:  logger.NewJSONLinesLogRecorder(appLog),
		ops:     log.New(logDest, "", log.LstdFlags),
		toClose: toClose,
	}
	honeypot.system.SetDownloadSink(cfg.CreateDownload)

	honeypot.sshServer = &ssh.Server{
		Addr:    fmt.Sprintf(":%d", cfg.SSH.Port),
		Version: cfg.SSH.Banner,
		Handler: func(s ssh.Session) {
			if err := honeypot.HandleConnection(s); err != nil {
				honeypot.ops.Printf("Session from %s failed: %v", s.RemoteAddr(), err)
			}
		},
		PublicKeyHandler: func(ctx ssh.Context, key ssh.PublicKey) bool {
			fingerprint := gossh.FingerprintSHA256(key)
			ctx.SetValue(ContextAuthPublicKey, fingerprint)

			// Keys are never accepted, but the attempt is worth keeping.
			honeypot.recordLoginFailure(&logger.LoginAttempt{
				Username:             ctx.User(),
				PublicKeyFingerprint: fingerprint,
				RemoteAddr:           ctx.RemoteAddr().String(),
			})
			return false
		},
		PasswordHandler: func(ctx ssh.Context, password string) bool {
			ctx.SetValue(ContextAuthPassword, password)

			if !cfg.CheckPassword(ctx.User(), password) {
				honeypot.recordLoginFailure(&logger.LoginAttempt{
					Username:   ctx.User(),
					Password:   password,
					RemoteAddr: ctx.RemoteAddr().String(),
				})
				return false
			}
			return true
		},
	}

	keyPem, err := cfg.PrivateKeyPem()
	if err != nil {
		toClose.Close()
		return nil, fmt.Errorf("reading host key: %v", err)
	}
	if err := honeypot.sshServer.SetOption(ssh.HostKeyPEM(keyPem)); err != nil {
		toClose.Close()
		return nil, err
	}

	return honeypot, nil
}

func (h *Honeypot) recordLoginFailure(attempt *logger.LoginAttempt) {
	attempt.Result = logger.LoginFailure
	if err := h.events.Sessionless().Record(attempt); err != nil {
		h.ops.Printf("Couldn't record login attempt: %v", err)
	}
}

func (h *Honeypot) Close() error {
	return h.toClose.Close()
}

// HandleConnection serves one authenticated SSH session until its shell
// exits.
func (h *Honeypot) HandleConnection(s ssh.Session) error {
	sessionLogger := h.events.NewSession()

	password, _ := s.Context().Value(ContextAuthPassword).(string)
	fingerprint, _ := s.Context().Value(ContextAuthPublicKey).(string)
	sessionLogger.Record(&logger.LoginAttempt{
		Username:             s.User(),
		Password:             password,
		PublicKeyFingerprint: fingerprint,
		RemoteAddr:           s.RemoteAddr().String(),
		Result:               logger.LoginSuccess,
	})

	// Record the terminal under the session's ID so the transcript and the
	// event log can be matched up afterwards.
	logFd, err := h.config.CreateSessionLog(sessionLogger.SessionID() + ".log")
	if err != nil {
		return err
	}
	defer logFd.Close()
	vio := ttylog.NewRecorder(vos.NewIO(s, s, s), ttylog.NewUMLLogSink(logFd))

	session := vos.NewSession(h.system, sessionLogger, s)

	ptyInfo, winch, isPTY := s.Pty()
	session.SetPTY(vos.PTY{
		Width:  ptyInfo.Window.Width,
		Height: ptyInfo.Window.Height,
		Term:   ptyInfo.Term,
		IsPTY:  isPTY,
	})
	go func() {
		for window := range winch {
			session.SetPTY(vos.PTY{
				Width:  window.Width,
				Height: window.Height,
				Term:   ptyInfo.Term,
				IsPTY:  isPTY,
			})
		}
	}()

	user := h.sessionUser(s.User())
	initProc := session.InitProc()
	initProc.UID = user.UID

	argv := []string{user.Shell}
	if raw := s.RawCommand(); raw != "" {
		argv = append(argv, "-c", raw)
	} else if h.config.Motd != "" {
		motd := h.config.Motd
		if isPTY {
			motd = strings.ReplaceAll(motd, "\n", "\r\n")
		}
		io.WriteString(vio.Stdout(), motd)
	}

	shellOS, err := initProc.StartProcess(user.Shell, argv, &vos.ProcAttr{
		Env:   append(s.Environ(), "PATH="+h.config.OS.DefaultPath),
		Files: vio,
	})
	if err != nil {
		s.Exit(1)
		return err
	}

	exitCode := shellOS.Run()
	s.Exit(exitCode)
	return nil
}

// sessionUser resolves the connection's username to a configured user,
// inventing a plausible one when the configuration doesn't name it.
func (h *Honeypot) sessionUser(username string) config.User {
	if user, ok := h.config.GetUser(username); ok {
		return user
	}

	user := config.User{
		Username: username,
		UID:      1000,
		Home:     "/home/" + username,
		Shell:    h.config.OS.DefaultShell,
	}
	if username == "root" {
		user.UID = 0
		user.Home = "/root"
	}
	return user
}

func (h *Honeypot) ListenAndServe() error {
	h.ops.Printf("Starting SSH server on %s", h.sshServer.Addr)
	return h.sshServer.ListenAndServe()
}

func (h *Honeypot) Shutdown(ctx context.Context) error {
	defer h.Close()
	return h.sshServer.Shutdown(ctx)
}

type listCloser []io.Closer

func (lc listCloser) Close() error {
	var lastErr error
	for _, v := range lc {
		if err := v.Close(); err != nil {
			lastErr = err
		}
	}

	return lastErr
}
