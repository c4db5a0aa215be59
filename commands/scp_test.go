package commands

import (
	"archive/tar"
	"io"
	"testing"
	"time"

	"github.com/pegsh/pegsh/core/vos"
	"github.com/pegsh/pegsh/core/vos/vostest"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScp_download(t *testing.T) {
	cmd := vostest.Command(Scp, "scp", "user@host:/etc/passwd", ".")

	out, err := cmd.CombinedOutput()

	assert.Nil(t, err)
	assert.Equal(t, 1, cmd.ExitStatus, "exit code")
	assert.Equal(t, "scp: couldn't connect\n", string(out))
}

func TestScp_upload(t *testing.T) {
	captures := afero.NewMemMapFs()
	clock := func() time.Time { return time.Date(2006, 1, 2, 3, 4, 5, 0, time.UTC) }

	system := vos.NewSystem(vos.NewEmptyRootFS(nil), "localhost", vostest.SingleProcessResolver(Scp), clock)
	system.SetDownloadSink(func(name string) (afero.File, error) {
		return captures.Create(name)
	})
	session := vos.NewSession(system, &vostest.NopEventRecorder{}, &vostest.FakeConn{})
	session.SetPTY(vos.PTY{})

	stdin, clientOut := io.Pipe()
	clientIn, stdout := io.Pipe()

	cmd := vostest.Command(Scp, "scp", "-t", "/root/payload")
	cmd.VOS = session.InitProc()
	cmd.Stdin = stdin
	cmd.Stdout = stdout
	cmd.Stderr = io.Discard

	// Play the sending client. Every message waits for its ACK, as the
	// real protocol does.
	clientErr := make(chan error, 1)
	go func() {
		clientErr <- func() error {
			readAck := func() error {
				ack := make([]byte, 1)
				_, err := io.ReadFull(clientIn, ack)
				return err
			}

			if err := readAck(); err != nil { // session open
				return err
			}
			if _, err := io.WriteString(clientOut, "C0644 5 hello.txt\n"); err != nil {
				return err
			}
			if err := readAck(); err != nil { // header accepted
				return err
			}
			if _, err := io.WriteString(clientOut, "hello"); err != nil {
				return err
			}
			if err := readAck(); err != nil { // content accepted
				return err
			}
			if _, err := clientOut.Write([]byte{0}); err != nil { // transfer OK
				return err
			}
			if err := readAck(); err != nil {
				return err
			}
			return clientOut.Close()
		}()
	}()

	require.NoError(t, cmd.Run())
	assert.Equal(t, 0, cmd.ExitStatus, "exit code")
	assert.NoError(t, <-clientErr)

	// The upload lands in the capture area as a tar named by the clock.
	fd, err := captures.Open("2006-01-02T03:04:05Z")
	require.NoError(t, err)
	defer fd.Close()

	tr := tar.NewReader(fd)
	hdr, err := tr.Next()
	require.NoError(t, err)
	assert.Equal(t, "hello.txt", hdr.Name)
	assert.Equal(t, int64(0644), hdr.Mode)
	assert.Equal(t, int64(5), hdr.Size)

	content, err := io.ReadAll(tr)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(content))
}
