package commands

import (
	"testing"

	"github.com/pegsh/pegsh/core/vos"
	"github.com/pegsh/pegsh/core/vos/vostest"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
)

func TestCat(t *testing.T) {
	cases := goldenTestSuite{
		"missing": {Args: []string{"cat", "does-not-exist.txt"}},
		"concatenates": {
			Args: []string{"cat", "/a.txt", "/b.txt"},
			Setup: func(virtOS vos.VOS) error {
				if err := afero.WriteFile(virtOS, "/a.txt", []byte("first\n"), 0600); err != nil {
					return err
				}
				return afero.WriteFile(virtOS, "/b.txt", []byte("second\n"), 0600)
			},
		},
	}

	cases.Run(t, Cat)
}

func TestCat_files(t *testing.T) {
	cmd := vostest.Command(Cat, "cat", "/foo.txt")

	// Test with missing file
	{
		assert.Nil(t, cmd.Run())

		assert.NotEqual(t, 0, cmd.ExitStatus, "exit code")
	}
	{
		// Create file and read it back.
		helloWorld := []byte("Hello, world!")
		assert.Nil(t, afero.WriteFile(cmd.VOS, "/foo.txt", helloWorld, 0600))

		out, err := cmd.CombinedOutput()

		assert.Equal(t, 0, cmd.ExitStatus, "exit code")
		assert.Nil(t, err)
		assert.Equal(t, string(helloWorld), string(out))
	}
}
