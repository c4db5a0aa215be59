package logger

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
)

// LogEntry is one line of the event log: a timestamp, the session it
// belongs to, and exactly one event payload.
type LogEntry struct {
	// TimestampMicros is the event time in microseconds since the Unix
	// epoch.
	TimestampMicros int64 `json:"timestamp_micros"`
	// SessionID ties the entry to one user session, or is empty for
	// system-level events.
	SessionID string `json:"session_id,omitempty"`
	// Event names the payload kind, so logs are filterable without
	// probing which field is set.
	Event string `json:"event"`

	LoginAttempt      *LoginAttempt      `json:"login_attempt,omitempty"`
	TerminalUpdate    *TerminalUpdate    `json:"terminal_update,omitempty"`
	RunCommand        *RunCommand        `json:"run_command,omitempty"`
	UnknownCommand    *UnknownCommand    `json:"unknown_command,omitempty"`
	InvalidInvocation *InvalidInvocation `json:"invalid_invocation,omitempty"`
	ParseFailure      *ParseFailure      `json:"parse_failure,omitempty"`
	Download          *Download          `json:"download,omitempty"`
	Panic             *Panic             `json:"panic,omitempty"`
}

// Payload returns the single payload set on the entry, or nil for entries
// written by a different version of the schema.
func (le *LogEntry) Payload() EventPayload {
	switch {
	case le.LoginAttempt != nil:
		return le.LoginAttempt
	case le.TerminalUpdate != nil:
		return le.TerminalUpdate
	case le.RunCommand != nil:
		return le.RunCommand
	case le.UnknownCommand != nil:
		return le.UnknownCommand
	case le.InvalidInvocation != nil:
		return le.InvalidInvocation
	case le.ParseFailure != nil:
		return le.ParseFailure
	case le.Download != nil:
		return le.Download
	case le.Panic != nil:
		return le.Panic
	}
	return nil
}

// EventPayload is one loggable occurrence; the implementations are the
// event structs in this package.
type EventPayload interface {
	// eventName returns the stable name recorded in LogEntry.Event.
	eventName() string
	// attach sets the payload's field on the entry.
	attach(le *LogEntry)
}

// LoginResult describes how a login attempt concluded.
type LoginResult string

const (
	LoginSuccess LoginResult = "success"
	LoginFailure LoginResult = "failure"
)

// LoginAttempt records a credential presented to the server.
type LoginAttempt struct {
	Username string `json:"username"`
	Password string `json:"password,omitempty"`
	// PublicKeyFingerprint is the SHA256 fingerprint of the presented
	// key, if the attempt used one.
	PublicKeyFingerprint string      `json:"public_key_fingerprint,omitempty"`
	RemoteAddr           string      `json:"remote_addr"`
	Result               LoginResult `json:"result"`
}

func (*LoginAttempt) eventName() string { return "login_attempt" }
func (e *LoginAttempt) attach(le *LogEntry) { le.LoginAttempt = e }

// TerminalUpdate records the terminal attached to a session changing size
// or kind.
type TerminalUpdate struct {
	Width  int    `json:"width"`
	Height int    `json:"height"`
	Term   string `json:"term"`
	IsPTY  bool   `json:"is_pty"`
}

func (*TerminalUpdate) eventName() string { return "terminal_update" }
func (e *TerminalUpdate) attach(le *LogEntry) { le.TerminalUpdate = e }

// RunCommand records a command the shell resolved and executed.
type RunCommand struct {
	// Command is the argument vector as typed, program word first.
	Command []string `json:"command"`
	// ResolvedPath is the executable the program word resolved to.
	ResolvedPath string `json:"resolved_path"`
	Background   bool   `json:"background,omitempty"`
}

func (*RunCommand) eventName() string { return "run_command" }
func (e *RunCommand) attach(le *LogEntry) { le.RunCommand = e }

// UnknownCommand records a command word that didn't resolve to any
// executable.
type UnknownCommand struct {
	Command []string `json:"command"`
	Reason  string   `json:"reason,omitempty"`
}

func (*UnknownCommand) eventName() string { return "unknown_command" }
func (e *UnknownCommand) attach(le *LogEntry) { le.UnknownCommand = e }

// InvalidInvocation records a command invoked with arguments it rejected.
type InvalidInvocation struct {
	Command []string `json:"command"`
	Error   string   `json:"error"`
}

func (*InvalidInvocation) eventName() string { return "invalid_invocation" }
func (e *InvalidInvocation) attach(le *LogEntry) { le.InvalidInvocation = e }

// ParseFailure records input the shell grammar could not parse. The shell
// quietly drops such input, so the log is the only place it surfaces.
type ParseFailure struct {
	Input string `json:"input"`
}

func (*ParseFailure) eventName() string { return "parse_failure" }
func (e *ParseFailure) attach(le *LogEntry) { le.ParseFailure = e }

// Download records a file fetched over the network into the session's
// filesystem.
type Download struct {
	Source       string   `json:"source"`
	Path         string   `json:"path"`
	BytesWritten int64    `json:"bytes_written"`
	Command      []string `json:"command,omitempty"`
}

func (*Download) eventName() string { return "download" }
func (e *Download) attach(le *LogEntry) { le.Download = e }

// Panic records a command implementation crashing.
type Panic struct {
	Context    string `json:"context"`
	Stacktrace string `json:"stacktrace"`
}

func (*Panic) eventName() string { return "panic" }
func (e *Panic) attach(le *LogEntry) { le.Panic = e }

// LogRecorder is a callback that stores finished entries in an external
// datastore.
type LogRecorder func(le *LogEntry) error

// Logger stamps events into LogEntry records and hands them to a
// LogRecorder.
type Logger struct {
	Record LogRecorder
	// Now provides timestamps, defaulting to the wall clock.
	Now func() time.Time
}

// NewJSONLinesLogRecorder creates a Logger that writes entries to w in
// newline delimited JSON format.
func NewJSONLinesLogRecorder(w io.Writer) *Logger {
	return &Logger{
		Record: func(le *LogEntry) error {
			entry, err := json.Marshal(le)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(w, string(entry))
			return err
		},
	}
}

func (l *Logger) record(sessionID string, event EventPayload) error {
	now := l.Now
	if now == nil {
		now = time.Now
	}

	le := &LogEntry{
		TimestampMicros: now().UnixMicro(),
		SessionID:       sessionID,
		Event:           event.eventName(),
	}
	event.attach(le)

	return l.Record(le)
}

// NewSession creates a logger whose entries share a fresh session ID.
func (l *Logger) NewSession() *SessionLogger {
	return &SessionLogger{Logger: l, sessionID: uuid.NewString()}
}

// Sessionless creates a logger for events not tied to any session.
func (l *Logger) Sessionless() *SessionLogger {
	return &SessionLogger{Logger: l, sessionID: ""}
}

// SessionLogger records events under one session ID.
type SessionLogger struct {
	*Logger
	sessionID string
}

// SessionID returns the ID stamped on this logger's entries.
func (l *SessionLogger) SessionID() string {
	return l.sessionID
}

// Record stamps and stores a single event.
func (l *SessionLogger) Record(event EventPayload) error {
	return l.record(l.sessionID, event)
}
