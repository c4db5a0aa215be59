package vos

import (
	"errors"
	"os"
	"path"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func jailFs(base VFS) VFS {
	return NewPathMappingFs(base, func(op FsOp, name string) (string, error) {
		return path.Join("/jail", name), nil
	})
}

func TestPathMappingFs(t *testing.T) {
	base := afero.NewMemMapFs()
	mapped := jailFs(base)

	require.NoError(t, mapped.MkdirAll("/home/jdoe", 0755))
	require.NoError(t, afero.WriteFile(mapped, "/home/jdoe/a.txt", []byte("a"), 0644))

	// The write landed at the mapped location on the base.
	got, err := afero.ReadFile(base, "/jail/home/jdoe/a.txt")
	require.NoError(t, err)
	assert.Equal(t, "a", string(got))

	// Reads through the mapping see it too.
	got, err = afero.ReadFile(mapped, "/home/jdoe/a.txt")
	require.NoError(t, err)
	assert.Equal(t, "a", string(got))

	require.NoError(t, mapped.Rename("/home/jdoe/a.txt", "/home/jdoe/b.txt"))
	exists, err := afero.Exists(base, "/jail/home/jdoe/b.txt")
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestPathMappingFsFileName(t *testing.T) {
	mapped := jailFs(afero.NewMemMapFs())

	fd, err := mapped.Create("/b.txt")
	require.NoError(t, err)
	defer fd.Close()

	// Files report the caller's spelling, not the mapped one.
	assert.Equal(t, "/b.txt", fd.Name())
}

func TestPathMappingFsError(t *testing.T) {
	mapErr := errors.New("no working directory")
	mapped := NewPathMappingFs(afero.NewMemMapFs(), func(op FsOp, name string) (string, error) {
		return "", mapErr
	})

	_, err := mapped.Stat("x")
	require.Error(t, err)
	assert.ErrorIs(t, err, mapErr)

	var pathErr *os.PathError
	require.ErrorAs(t, err, &pathErr)
	assert.Equal(t, FsOpStat, pathErr.Op)
	assert.Equal(t, "x", pathErr.Path)
}
