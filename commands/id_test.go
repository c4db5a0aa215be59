package commands

import (
	"testing"
)

func TestId(t *testing.T) {
	cases := goldenTestSuite{
		"no-arg": {Args: []string{"id"}},
	}

	cases.Run(t, Id)
}
