package ttylog

import (
	"bytes"
	"strings"
	"testing"

	"github.com/pegsh/pegsh/core/vos"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecorder(t *testing.T) {
	var stdout, stderr bytes.Buffer
	var recorded []*TTYLogEntry

	recorder := NewRecorder(
		vos.NewIO(strings.NewReader("whoami\r"), &stdout, &stderr),
		func(entry *TTYLogEntry) error {
			recorded = append(recorded, entry)
			return nil
		},
	)

	_, err := recorder.Stdout().Write([]byte("root\r\n"))
	require.NoError(t, err)
	_, err = recorder.Stderr().Write([]byte("oops\r\n"))
	require.NoError(t, err)

	buf := make([]byte, 32)
	n, err := recorder.Stdin().Read(buf)
	require.NoError(t, err)
	assert.Equal(t, "whoami\r", string(buf[:n]))

	// The wrapped streams still see the traffic.
	assert.Equal(t, "root\r\n", stdout.String())
	assert.Equal(t, "oops\r\n", stderr.String())

	require.Len(t, recorded, 3)
	assert.Equal(t, FDStdout, recorded[0].IO.Fd)
	assert.Equal(t, []byte("root\r\n"), recorded[0].IO.Data)
	assert.Equal(t, FDStderr, recorded[1].IO.Fd)
	assert.Equal(t, FDStdin, recorded[2].IO.Fd)
	assert.Equal(t, []byte("whoami\r"), recorded[2].IO.Data)
}

func TestNewClientOutput(t *testing.T) {
	var out bytes.Buffer
	sink := NewClientOutput(&out)

	entries := []*TTYLogEntry{
		{IO: &IOEvent{Fd: FDStdin, Data: []byte("typed, not shown")}},
		{IO: &IOEvent{Fd: FDStdout, Data: []byte("out")}},
		{IO: &IOEvent{Fd: FDStderr, Data: []byte("err")}},
		{Close: &CloseEvent{Fd: FDStdout}},
	}
	for _, entry := range entries {
		require.NoError(t, sink(entry))
	}

	assert.Equal(t, "outerr", out.String())
}

func TestNewKippoQuirksAdapter(t *testing.T) {
	cases := map[string]struct {
		input string
		want  string
	}{
		"bare newlines": {
			input: "line one\nline two\n",
			want:  "line one\r\nline two\r\n",
		},
		"already terminated": {
			input: "line one\r\n",
			want:  "line one\r\n",
		},
	}

	for tn, tc := range cases {
		t.Run(tn, func(t *testing.T) {
			var got string
			sink := NewKippoQuirksAdapter(func(entry *TTYLogEntry) error {
				got = string(entry.IO.Data)
				return nil
			})

			err := sink(&TTYLogEntry{IO: &IOEvent{Fd: FDStdout, Data: []byte(tc.input)}})
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestAsciicastRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	sink := NewAsciicastLogSink(&buf)

	require.NoError(t, sink(&TTYLogEntry{
		TimestampMicros: 1624044079000000,
		IO:              &IOEvent{Fd: FDStdout, Data: []byte("$ ")},
	}))
	require.NoError(t, sink(&TTYLogEntry{
		TimestampMicros: 1624044081000000,
		IO:              &IOEvent{Fd: FDStdin, Data: []byte("ls\r")},
	}))

	// The header is a JSON object, each event a JSON array.
	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[0], "{"))

	source := NewAsciicastLogSource(&buf)

	first, err := source.Next()
	require.NoError(t, err)
	require.NotNil(t, first.IO)
	// Timestamps come back relative to the start of the recording.
	assert.Equal(t, int64(0), first.TimestampMicros)
	assert.Equal(t, FDStdout, first.IO.Fd)
	assert.Equal(t, []byte("$ "), first.IO.Data)

	second, err := source.Next()
	require.NoError(t, err)
	require.NotNil(t, second.IO)
	assert.Equal(t, int64(2000000), second.TimestampMicros)
	assert.Equal(t, FDStdin, second.IO.Fd)
}

func TestReplay(t *testing.T) {
	var buf bytes.Buffer
	sink := NewUMLLogSink(&buf)
	require.NoError(t, sink(&TTYLogEntry{IO: &IOEvent{Fd: FDStdout, Data: []byte("one")}}))
	require.NoError(t, sink(&TTYLogEntry{IO: &IOEvent{Fd: FDStdout, Data: []byte("two")}}))

	var out bytes.Buffer
	require.NoError(t, Replay(NewUMLLogSource(&buf), NewClientOutput(&out)))
	assert.Equal(t, "onetwo", out.String())
}
