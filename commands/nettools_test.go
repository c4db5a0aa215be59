package commands

import (
	"testing"
)

func TestIfconfig(t *testing.T) {
	cases := goldenTestSuite{
		"default": {Args: []string{"ifconfig"}},
	}

	cases.Run(t, Ifconfig)
}

func TestIp(t *testing.T) {
	cases := goldenTestSuite{
		"default": {Args: []string{"ip"}},
		"address": {Args: []string{"ip", "address"}},
		"link":    {Args: []string{"ip", "link"}},
		"route":   {Args: []string{"ip", "route"}},
		"rule":    {Args: []string{"ip", "rule"}},
	}

	cases.Run(t, Ip)
}
