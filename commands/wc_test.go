package commands

import (
	"testing"

	"github.com/pegsh/pegsh/core/vos"
	"github.com/pegsh/pegsh/core/vos/vostest"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
)

func TestWc(t *testing.T) {
	seed := func(virtOS vos.VOS) error {
		return afero.WriteFile(virtOS, "/foo.txt", []byte("Hello,\nworld !"), 0600)
	}

	cases := goldenTestSuite{
		"no-arg":  {Args: []string{"wc"}},
		"missing": {Args: []string{"wc", "/does-not-exist.txt"}},
		"counts":  {Args: []string{"wc", "/foo.txt"}, Setup: seed},
		"lines":   {Args: []string{"wc", "-l", "/foo.txt"}, Setup: seed},
		"bytes":   {Args: []string{"wc", "-c", "/foo.txt"}, Setup: seed},
		"total": {
			Args: []string{"wc", "/a.txt", "/b.txt"},
			Setup: func(virtOS vos.VOS) error {
				if err := afero.WriteFile(virtOS, "/a.txt", []byte("one\n"), 0600); err != nil {
					return err
				}
				return afero.WriteFile(virtOS, "/b.txt", []byte("two words\n"), 0600)
			},
		},
	}

	cases.Run(t, Wc)
}

func TestWc_single_file(t *testing.T) {
	cmd := vostest.Command(Wc, "wc", "/foo.txt")

	// Test with missing file
	{
		assert.Nil(t, cmd.Run())

		assert.NotEqual(t, 0, cmd.ExitStatus, "exit code")
	}
	{
		// Create file and count again.
		helloWorld := []byte("Hello,\nworld !")
		assert.Nil(t, afero.WriteFile(cmd.VOS, "/foo.txt", helloWorld, 0600))

		out, err := cmd.CombinedOutput()

		assert.Equal(t, 0, cmd.ExitStatus, "exit code")
		assert.Nil(t, err)
		assert.Equal(t, "1 3 14 /foo.txt\n", string(out))
	}
}
