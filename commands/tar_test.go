package commands

import (
	"archive/tar"
	"bytes"
	"compress/gzip"
	"testing"

	"github.com/pegsh/pegsh/core/vos/vostest"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func gzippedTar(t *testing.T, name string, content []byte) []byte {
	t.Helper()

	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	tw := tar.NewWriter(gz)
	require.NoError(t, tw.WriteHeader(&tar.Header{
		Name: name,
		Mode: 0755,
		Size: int64(len(content)),
	}))
	_, err := tw.Write(content)
	require.NoError(t, err)
	require.NoError(t, tw.Close())
	require.NoError(t, gz.Close())
	return buf.Bytes()
}

func TestTar_extract(t *testing.T) {
	content := []byte("#!/bin/sh\necho pwned\n")
	cmd := vostest.Command(Tar, "tar", "-xzvf", "/bundle.tar.gz")
	require.NoError(t, afero.WriteFile(cmd.VOS, "/bundle.tar.gz", gzippedTar(t, "payload/run.sh", content), 0644))

	out, err := cmd.CombinedOutput()

	assert.Nil(t, err)
	assert.Equal(t, 0, cmd.ExitStatus, "exit code")
	assert.Equal(t, "payload/run.sh\n", string(out))

	got, readErr := afero.ReadFile(cmd.VOS, "/payload/run.sh")
	assert.NoError(t, readErr)
	assert.Equal(t, string(content), string(got))
}

func TestTar_list(t *testing.T) {
	// Without -x the entries are listed but nothing is written.
	cmd := vostest.Command(Tar, "tar", "-zvf", "/bundle.tar.gz")
	require.NoError(t, afero.WriteFile(cmd.VOS, "/bundle.tar.gz", gzippedTar(t, "payload/run.sh", []byte("hi\n")), 0644))

	out, err := cmd.CombinedOutput()

	assert.Nil(t, err)
	assert.Equal(t, 0, cmd.ExitStatus, "exit code")
	assert.Equal(t, "payload/run.sh\n", string(out))

	exists, existsErr := afero.Exists(cmd.VOS, "/payload/run.sh")
	assert.NoError(t, existsErr)
	assert.False(t, exists)
}

func TestTar_missingArchive(t *testing.T) {
	cmd := vostest.Command(Tar, "tar", "-x")

	out, err := cmd.CombinedOutput()

	assert.Nil(t, err)
	assert.Equal(t, 1, cmd.ExitStatus, "exit code")
	assert.Equal(t, "tar: no archive supplied, use -f\n", string(out))
}
