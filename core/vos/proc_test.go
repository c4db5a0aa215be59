package vos

import (
	"io/fs"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lookPathOS(t *testing.T, programs ...string) VOS {
	t.Helper()

	system := NewSystem(NewEmptyRootFS(programs), "localhost", nil, testClock)
	proc := NewSession(system, nil, &testConn{user: "alice"}).InitProc()
	require.NoError(t, proc.Setenv("PATH", "/usr/bin:/bin"))
	return proc
}

func TestLookPath(t *testing.T) {
	v := lookPathOS(t, "ls", "cat")

	got, err := LookPath(v, "ls")
	require.NoError(t, err)
	assert.Equal(t, "/bin/ls", got)

	_, err = LookPath(v, "nope")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestLookPathDirect(t *testing.T) {
	v := lookPathOS(t, "ls")

	// A slash skips the PATH search entirely.
	got, err := LookPath(v, "/bin/ls")
	require.NoError(t, err)
	assert.Equal(t, "/bin/ls", got)

	_, err = LookPath(v, "/bin/nope")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestLookPathNotExecutable(t *testing.T) {
	v := lookPathOS(t, "ls")
	require.NoError(t, afero.WriteFile(v, "/bin/data", []byte("x"), 0644))

	// Non-executable files are passed over during the search...
	_, err := LookPath(v, "data")
	assert.ErrorIs(t, err, ErrNotFound)

	// ...but named directly they surface a permission error.
	_, err = LookPath(v, "/bin/data")
	assert.ErrorIs(t, err, fs.ErrPermission)
}

func TestLookPathEmptyElement(t *testing.T) {
	v := lookPathOS(t, "ls")

	// An empty PATH element means the current directory.
	require.NoError(t, v.Chdir("/bin"))
	require.NoError(t, v.Setenv("PATH", ":"))

	got, err := LookPath(v, "ls")
	require.NoError(t, err)
	assert.Equal(t, "ls", got)
}

func TestLookPathDirectory(t *testing.T) {
	v := lookPathOS(t, "ls")

	// Directories never match.
	_, err := LookPath(v, "/bin")
	assert.ErrorIs(t, err, fs.ErrPermission)
}
