package commands

import (
	"testing"
)

func TestApt(t *testing.T) {
	// The install path sleeps and invents versions, so only the
	// deterministic paths are covered here.
	cases := goldenTestSuite{
		"no-args":            {Args: []string{"apt"}},
		"update-locked":      {Args: []string{"apt", "update"}},
		"install-no-package": {Args: []string{"apt-get", "install"}},
	}

	cases.Run(t, Apt)
}
