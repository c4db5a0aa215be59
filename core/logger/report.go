package logger

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"
)

// ReadJSONLinesLog parses a newline delimited JSON log.
func ReadJSONLinesLog(r io.Reader, handler func(le *LogEntry)) error {
	decoder := json.NewDecoder(r)
	for decoder.More() {
		var logEntry LogEntry
		if err := decoder.Decode(&logEntry); err != nil {
			return err
		}

		handler(&logEntry)
	}
	return nil
}

func NewBugReport() *BugReport {
	return &BugReport{
		InvalidInvocations: NewPathCounter("command", "error"),
		UnknownCommands:    NewPathCounter("command", "reason"),
	}
}

// BugReport pulls events that point at gaps in the shell: commands users
// wanted that don't exist, commands that rejected their arguments, input
// the grammar couldn't parse, and outright crashes.
type BugReport struct {
	LogEntries int

	InvalidInvocations *PathCounter `json:"invalid_invocations"`
	UnknownCommands    *PathCounter `json:"unknown_commands"`
	ParseFailures      StrCounter   `json:"parse_failures"`
	Panics             []*Panic     `json:"panics"`
}

func (r *BugReport) Update(le *LogEntry) {
	r.LogEntries++

	switch event := le.Payload().(type) {
	case *Panic:
		r.Panics = append(r.Panics, event)
	case *UnknownCommand:
		if len(event.Command) > 0 {
			r.UnknownCommands.Increment(event.Command[0], event.Reason)
		}
	case *InvalidInvocation:
		if len(event.Command) > 0 {
			r.InvalidInvocations.Increment(event.Command[0], event.Error)
		}
	case *ParseFailure:
		r.ParseFailures.Increment(event.Input)
	}
}

type InteractionReport struct {
	// Map of sessionID -> interactions
	interactions map[string]*InteractiveSession
}

type InteractiveSession struct {
	Login struct {
		Username             string `json:"username"`
		Password             string `json:"password,omitempty"`
		PublicKeyFingerprint string `json:"public_key_fingerprint,omitempty"`
		RemoteAddr           string `json:"remote_addr,omitempty"`
	} `json:"login"`
	LogEntries   int    `json:"log_entries"`
	TerminalName string `json:"terminal_name"`
	IsPTY        bool   `json:"is_pty"`

	Commands      []string `json:"commands"`
	ParseFailures []string `json:"parse_failures,omitempty"`
	Downloads     []string `json:"downloads,omitempty"`
}

func (i *InteractiveSession) Update(le *LogEntry) {
	i.LogEntries++

	switch event := le.Payload().(type) {
	case *LoginAttempt:
		i.Login.Username = event.Username
		i.Login.Password = event.Password
		i.Login.PublicKeyFingerprint = event.PublicKeyFingerprint
		i.Login.RemoteAddr = event.RemoteAddr
	case *RunCommand:
		i.Commands = append(i.Commands, strings.Join(event.Command, " "))
	case *UnknownCommand:
		i.Commands = append(i.Commands, strings.Join(event.Command, " "))
	case *ParseFailure:
		i.ParseFailures = append(i.ParseFailures, event.Input)
	case *Download:
		i.Downloads = append(i.Downloads, fmt.Sprintf("%q -> %q", event.Source, event.Path))
	case *TerminalUpdate:
		i.TerminalName = event.Term
		i.IsPTY = event.IsPTY
	}
}

func (i *InteractionReport) init() {
	if i.interactions == nil {
		i.interactions = make(map[string]*InteractiveSession)
	}
}

// MarshalJSON implements custom JSON marshaling.
func (i *InteractionReport) MarshalJSON() ([]byte, error) {
	i.init()

	return json.Marshal(i.interactions)
}

func (i *InteractionReport) Update(le *LogEntry) {
	i.init()

	sessionID := le.SessionID
	if sessionID == "" {
		return
	}
	report, ok := i.interactions[sessionID]
	if !ok {
		report = &InteractiveSession{}
		i.interactions[sessionID] = report
	}

	report.Update(le)
}

// Report holds statistics about the logged events.
type Report struct {
	LogEntries     int        `json:"log_entries"`
	InvalidEntries StrCounter `json:"unknown_log_entries,omitempty"`

	LoginAttempt      LoginAttemptReport      `json:"login_attempt_report"`
	RunCommand        RunCommandReport        `json:"run_command_report"`
	UnknownCommand    UnknownCommandReport    `json:"unknown_command_report"`
	InvalidInvocation InvalidInvocationReport `json:"invalid_invocation_report"`
	ParseFailure      ParseFailureReport      `json:"parse_failure_report"`
	Download          DownloadReport          `json:"download_report"`
	Panic             PanicReport             `json:"panic_report"`
}

func (r *Report) Update(le *LogEntry) {
	r.LogEntries++

	switch event := le.Payload().(type) {
	case *LoginAttempt:
		r.LoginAttempt.update(event)
	case *RunCommand:
		r.RunCommand.update(event)
	case *Panic:
		r.Panic.update(event)
	case *Download:
		r.Download.update(event)
	case *UnknownCommand:
		r.UnknownCommand.update(event)
	case *InvalidInvocation:
		r.InvalidInvocation.update(event)
	case *ParseFailure:
		r.ParseFailure.update(event)
	case *TerminalUpdate:
		// Ignore
	default:
		r.InvalidEntries.Increment(le.Event)
	}
}

type LoginAttemptReport struct {
	// List of passwords and their counts.
	Passwords StrCounter `json:"passwords"`
	// List of usernames and their counts.
	Usernames StrCounter `json:"usernames"`
	// List of login attempt results and their counts.
	Results StrCounter `json:"results"`
}

func (r *LoginAttemptReport) update(la *LoginAttempt) {
	r.Passwords.Increment(la.Password)
	r.Usernames.Increment(la.Username)
	r.Results.Increment(string(la.Result))
}

type RunCommandReport struct {
	// Path each command resolved to.
	ResolvedCommandPaths StrCounter `json:"resolved_command_names"`
	// Name of the command as typed.
	CommandNames StrCounter `json:"command_names"`
	// Number of commands sent to the background.
	BackgroundCount int `json:"background_count"`
}

func (r *RunCommandReport) update(rc *RunCommand) {
	r.ResolvedCommandPaths.Increment(rc.ResolvedPath)
	if len(rc.Command) > 0 {
		r.CommandNames.Increment(rc.Command[0])
	}
	if rc.Background {
		r.BackgroundCount++
	}
}

type UnknownCommandReport struct {
	CommandNames StrCounter `json:"command_names"`
	Reasons      StrCounter `json:"reasons"`
}

func (r *UnknownCommandReport) update(logEntry *UnknownCommand) {
	if len(logEntry.Command) > 0 {
		r.CommandNames.Increment(logEntry.Command[0])
	}

	r.Reasons.Increment(logEntry.Reason)
}

type InvalidInvocationReport struct {
	CommandNames StrCounter `json:"command_counts"`
}

func (r *InvalidInvocationReport) update(logEntry *InvalidInvocation) {
	if len(logEntry.Command) > 0 {
		r.CommandNames.Increment(logEntry.Command[0])
	}
}

type ParseFailureReport struct {
	Count  int        `json:"count"`
	Inputs StrCounter `json:"inputs"`
}

func (r *ParseFailureReport) update(pf *ParseFailure) {
	r.Count++
	r.Inputs.Increment(pf.Input)
}

type DownloadReport struct {
	Count        int        `json:"count"`
	Sources      StrCounter `json:"sources"`
	CommandNames StrCounter `json:"command_counts"`
}

func (r *DownloadReport) update(d *Download) {
	r.Count++
	r.Sources.Increment(d.Source)
	if len(d.Command) > 0 {
		r.CommandNames.Increment(d.Command[0])
	}
}

type PanicReport struct {
	Contexts []string `json:"contexts"`
}

func (r *PanicReport) update(p *Panic) {
	r.Contexts = append(r.Contexts, p.Context)
}

// StrCounter counts the number of strings seen.
type StrCounter struct {
	internal map[string]int
}

// Increment adds one to the given key.
func (s *StrCounter) Increment(toAdd string) {
	if s.internal == nil {
		s.internal = make(map[string]int)
	}

	s.internal[toAdd]++
}

// MarshalJSON implements custom JSON marshaling.
func (s StrCounter) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.internal)
}

func NewPathCounter(cols ...string) *PathCounter {
	return &PathCounter{
		cols:     cols,
		internal: make(map[string]int),
	}
}

// PathCounter counts tuples of strings seen.
type PathCounter struct {
	cols     []string
	internal map[string]int
}

// Increment adds one to the given key.
func (ctr *PathCounter) Increment(toAdd ...string) {
	if len(toAdd) != len(ctr.cols) {
		panic("wrong number of columns to add")
	}

	ctr.internal[toKey(toAdd...)]++
}

// MarshalJSON implements custom JSON marshaling.
func (ctr *PathCounter) MarshalJSON() ([]byte, error) {
	type Count struct {
		Count  int               `json:"count"`
		Fields map[string]string `json:"event"`
		Path   string            `json:"-"`
	}

	var out []Count
	for k, v := range ctr.internal {
		count := Count{
			Count:  v,
			Path:   k,
			Fields: make(map[string]string),
		}

		splitPath := fromKey(k)
		for colNum, colVal := range ctr.cols {
			count.Fields[colVal] = splitPath[colNum]
		}

		out = append(out, count)
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Count == out[j].Count {
			return out[i].Path < out[j].Path
		}
		return out[i].Count > out[j].Count
	})

	return json.Marshal(out)
}

func toKey(vals ...string) string {
	key, _ := json.Marshal(vals)
	return string(key)
}

func fromKey(key string) (out []string) {
	json.Unmarshal([]byte(key), &out)
	return
}
