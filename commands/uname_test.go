package commands

import (
	"testing"
)

func TestUname(t *testing.T) {
	cases := goldenTestSuite{
		"no-arg":  {Args: []string{"uname"}},
		"all":     {Args: []string{"uname", "-a"}},
		"kernel":  {Args: []string{"uname", "-srv"}},
		"node":    {Args: []string{"uname", "-n"}},
		"machine": {Args: []string{"uname", "-m"}},
	}

	cases.Run(t, Uname)
}
