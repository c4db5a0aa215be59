package commands

import (
	"archive/zip"
	"bytes"
	"testing"

	"github.com/pegsh/pegsh/core/vos/vostest"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnzip(t *testing.T) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	fd, err := zw.Create("docs/readme.txt")
	require.NoError(t, err)
	_, err = fd.Write([]byte("hello zip\n"))
	require.NoError(t, err)
	require.NoError(t, zw.Close())

	cmd := vostest.Command(Unzip, "unzip", "/bundle.zip")
	require.NoError(t, afero.WriteFile(cmd.VOS, "/bundle.zip", buf.Bytes(), 0644))

	out, runErr := cmd.CombinedOutput()

	assert.Nil(t, runErr)
	assert.Equal(t, 0, cmd.ExitStatus, "exit code")
	assert.Equal(t, "Archive: /bundle.zip\n extracting: docs/readme.txt\n", string(out))

	got, readErr := afero.ReadFile(cmd.VOS, "/docs/readme.txt")
	assert.NoError(t, readErr)
	assert.Equal(t, "hello zip\n", string(got))
}

func TestUnzip_missingArchive(t *testing.T) {
	cmd := vostest.Command(Unzip, "unzip", "/nope.zip")

	out, err := cmd.CombinedOutput()

	assert.Nil(t, err)
	assert.Equal(t, 1, cmd.ExitStatus, "exit code")
	assert.Contains(t, string(out), "Archive: /nope.zip\n")
	assert.Contains(t, string(out), "unzip: ")
}
