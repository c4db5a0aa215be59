package shell

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func ExampleJob_Command() {
	job := Parse("grep -i error messages.log")[0].Jobs[0]
	cmd := job.Command()
	fmt.Println(cmd.Path, cmd.Args)
	// Output: grep [-i error messages.log]
}

func TestJobCommand(t *testing.T) {
	cmd := jobOf("grep", "-i", "err").Command()
	assert.Equal(t, "grep", cmd.Path)
	assert.Equal(t, []string{"-i", "err"}, cmd.Args)
}

func TestJobCommandNoArgs(t *testing.T) {
	cmd := jobOf("ls").Command()
	assert.Equal(t, "ls", cmd.Path)
	assert.Empty(t, cmd.Args)
}

func TestJobCommandCopiesArgs(t *testing.T) {
	j := jobOf("tar", "-x")
	cmd := j.Command()
	j.Args[1] = "-c"
	assert.Equal(t, []string{"-x"}, cmd.Args)
}

func TestCommandArgv(t *testing.T) {
	cmd := jobOf("tail", "-n", "5", "log").Command()
	assert.Equal(t, []string{"tail", "-n", "5", "log"}, cmd.Argv())

	// Each call builds a fresh vector.
	argv := cmd.Argv()
	argv[0] = "head"
	assert.Equal(t, []string{"tail", "-n", "5", "log"}, cmd.Argv())
}
