package commands

import (
	"testing"

	"github.com/pegsh/pegsh/core/vos/vostest"
	"github.com/stretchr/testify/assert"
)

func TestEnv(t *testing.T) {
	cases := goldenTestSuite{
		"empty":     {Args: []string{"env"}},
		"populated": {Args: []string{"env"}, Env: []string{"USER=root", "HOME=/root"}},
	}

	cases.Run(t, Env)
}

func TestEnv_contents(t *testing.T) {
	cmd := vostest.Command(Env, "env")
	cmd.VOS.Setenv("C", "charlie")
	cmd.VOS.Setenv("A", "alpha")
	cmd.VOS.Setenv("B", "bravo")

	out, err := cmd.CombinedOutput()

	assert.Equal(t, 0, cmd.ExitStatus, "exit code")
	assert.Nil(t, err)
	assert.Equal(t, "A=alpha\nB=bravo\nC=charlie\n", string(out))
}
