package commands

import (
	"testing"
)

func TestWhoami(t *testing.T) {
	cases := goldenTestSuite{
		"no-arg": {Args: []string{"whoami"}},
	}

	cases.Run(t, Whoami)
}
