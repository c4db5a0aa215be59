package commands

import (
	"testing"
)

func TestReboot(t *testing.T) {
	cases := goldenTestSuite{
		"no-arg": {Args: []string{"reboot"}},
	}

	cases.Run(t, Reboot)
}
