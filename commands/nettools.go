package commands

import (
	"fmt"
	"strings"

	"github.com/pegsh/pegsh/core/vos"
)

// The canned outputs below agree with each other: one loopback plus one
// ethernet device at 10.128.0.2 with MAC 42:01:0a:80:00:02.
var (
	ifconfigText = strings.TrimSpace(`
lo: flags=73<UP,LOOPBACK,RUNNING>  mtu 65536
        inet 127.0.0.1  netmask 255.0.0.0
        inet6 ::1  prefixlen 128  scopeid 0x10<host>
        loop  txqueuelen 1000  (Local Loopback)
        RX packets 687175  bytes 67648738 (67.6 MB)
        RX errors 0  dropped 0  overruns 0  frame 0
        TX packets 687175  bytes 67648738 (67.6 MB)
        TX errors 0  dropped 0 overruns 0  carrier 0  collisions 0

ens4: flags=4163<BROADCAST,MULTICAST,UP,LOWER_UP>  mtu 1500
        inet 10.128.0.2   netmask 255.255.255.0  broadcast 10.128.0.2
        inet6 fe80::4001:aff:fe80:2  prefixlen 64  scopeid 0x20<link>
        ether 42:01:0a:80:00:02  txqueuelen 1000  (Ethernet)
        RX packets 44923709  bytes 57490779806 (57.4 GB)
        RX errors 0  dropped 0  overruns 0  frame 0
        TX packets 12923339  bytes 2665088356 (2.6 GB)
        TX errors 0  dropped 0 overruns 0  carrier 0  collisions 0
`)

	ipAddressText = strings.TrimSpace(`
1: lo: <LOOPBACK,UP,LOWER_UP> mtu 65536 qdisc noqueue state UNKNOWN group default qlen 1000
    link/loopback 00:00:00:00:00:00 brd 00:00:00:00:00:00
    inet 127.0.0.1/8 scope host lo
       valid_lft forever preferred_lft forever
    inet6 ::1/128 scope host
       valid_lft forever preferred_lft forever
2: ens4: <BROADCAST,MULTICAST,UP,LOWER_UP> mtu 1460 qdisc mq state UP group default qlen 1000
    link/ether 42:01:0a:80:00:02 brd ff:ff:ff:ff:ff:ff
    inet 10.128.0.2/32 brd 10.128.0.2 scope global dynamic ens4
       valid_lft 86099sec preferred_lft 86099sec
    inet6 fe80::4001:aff:fe80:2/64 scope link
       valid_lft forever preferred_lft forever
`)

	ipLinkText = strings.TrimSpace(`
1: lo: <LOOPBACK,UP,LOWER_UP> mtu 65536 qdisc noqueue state UNKNOWN mode DEFAULT group default qlen 1000
    link/loopback 00:00:00:00:00:00 brd 00:00:00:00:00:00
2: ens4: <BROADCAST,MULTICAST,UP,LOWER_UP> mtu 1460 qdisc mq state UP mode DEFAULT group default qlen 1000
    link/ether 42:01:0a:80:00:02 brd ff:ff:ff:ff:ff:ff
`)

	ipRouteText = strings.TrimSpace(`
default via 10.128.0.1 dev ens4
10.128.0.1 dev ens4 scope link
`)

	ipRuleText = strings.TrimSpace(`
0:      from all lookup local
32766:  from all lookup main
32767:  from all lookup default
`)
)

// Ifconfig prints the canned interface table.
func Ifconfig(virtOS vos.VOS) int {
	cmd := &SimpleCommand{
		Use:   "ifconfig [OPTION...]",
		Short: "Configure a network interface.",

		NeverBail: true,
	}

	return cmd.Run(virtOS, func() int {
		fmt.Fprintln(virtOS.Stdout(), ifconfigText)
		return 0
	})
}

// Ip answers the handful of ip objects attackers probe for; anything it
// doesn't know falls back to the address listing, which is what bare
// "ip" scrapes expect.
func Ip(virtOS vos.VOS) int {
	cmd := &SimpleCommand{
		Use:   "ip [ OPTIONS ] ( link | address | route | rule )",
		Short: "Configure routing, devices, interfaces, and tunnels.",

		NeverBail: true,
	}

	return cmd.Run(virtOS, func() int {
		obj := ""
		if args := cmd.Flags().Args(); len(args) > 0 {
			obj = args[0]
		}

		switch obj {
		case "link":
			fmt.Fprintln(virtOS.Stdout(), ipLinkText)
		case "route":
			fmt.Fprintln(virtOS.Stdout(), ipRouteText)
		case "rule":
			fmt.Fprintln(virtOS.Stdout(), ipRuleText)
		default:
			fmt.Fprintln(virtOS.Stdout(), ipAddressText)
		}
		return 0
	})
}

var (
	_ vos.ProcessFunc = Ifconfig
	_ vos.ProcessFunc = Ip
)

func init() {
	mustAddSbinCmd("ifconfig", Ifconfig)
	mustAddSbinCmd("ip", Ip)
}
