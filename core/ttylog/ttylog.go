package ttylog

// FD identifies the standard stream a terminal event belongs to.
type FD int32

const (
	FDStdin  FD = 0
	FDStdout FD = 1
	FDStderr FD = 2
)

// TTYLogEntry is one recorded terminal event: a timestamp and exactly
// one event payload.
type TTYLogEntry struct {
	// TimestampMicros is the event time in microseconds since the Unix
	// epoch.
	TimestampMicros int64

	IO    *IOEvent
	Close *CloseEvent
}

// IOEvent is data crossing one of the session's streams.
type IOEvent struct {
	Fd   FD
	Data []byte
}

// CloseEvent records one of the session's streams closing.
type CloseEvent struct {
	Fd FD
}
