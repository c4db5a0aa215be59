package commands

import (
	"testing"
)

func TestFree(t *testing.T) {
	cases := goldenTestSuite{
		"no-arg": {Args: []string{"free"}},
		"human":  {Args: []string{"free", "-h"}},
	}

	cases.Run(t, Free)
}
