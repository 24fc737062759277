package unreliable

import (
	"net"
	"net/netip"
	"strconv"

	"github.com/pkg/errors"
)

// AddrSet is a message's destination, one or more socket addresses.
// Every chunk of the message is transmitted to each address.
type AddrSet struct {
	addrs []netip.AddrPort
}

func Addrs(addrs ...netip.AddrPort) AddrSet {
	return AddrSet{addrs: addrs}
}

// ResolveAddrs resolves dst ("host:port" or "ip:port") into an address
// set, a hostname may yield several addresses.
func ResolveAddrs(dst string) (AddrSet, error) {
	host, port, err := net.SplitHostPort(dst)
	if err != nil {
		return AddrSet{}, errors.WithStack(err)
	}
	p, err := strconv.ParseUint(port, 10, 16)
	if err != nil {
		return AddrSet{}, errors.WithStack(err)
	}

	if a, err := netip.ParseAddr(host); err == nil {
		return Addrs(netip.AddrPortFrom(a, uint16(p))), nil
	}

	ips, err := net.LookupIP(host)
	if err != nil {
		return AddrSet{}, errors.WithStack(err)
	}
	var set AddrSet
	for _, ip := range ips {
		if a, ok := netip.AddrFromSlice(ip); ok {
			set.addrs = append(set.addrs, netip.AddrPortFrom(a.Unmap(), uint16(p)))
		}
	}
	if len(set.addrs) == 0 {
		return AddrSet{}, errors.Errorf("can't resolve %s", dst)
	}
	return set, nil
}

func (s AddrSet) Addrs() []netip.AddrPort { return s.addrs }

func (s AddrSet) Len() int { return len(s.addrs) }
