package commands

import (
	"testing"
)

func TestLs(t *testing.T) {
	cases := goldenTestSuite{
		"plain":     {Args: []string{"ls", "/"}},
		"long-root": {Args: []string{"ls", "-l", "/"}},
		"missing":   {Args: []string{"ls", "/nope"}},
	}

	cases.Run(t, Ls)
}
