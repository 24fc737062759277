// Package conn is the datagram transport, address-preserving sockets on
// netip.AddrPort.
package conn

import (
	"net"
	"net/netip"
	"strconv"

	"github.com/lysShub/netkit/packet"
	"github.com/pkg/errors"
)

// datagram connect, refer net.UDPConn
type Conn interface {
	ReadFromAddrPort(*packet.Packet) (netip.AddrPort, error)
	WriteToAddrPort(*packet.Packet, netip.AddrPort) error

	LocalAddr() netip.AddrPort
	Close() error
}

// Bind listen a datagram socket on addr, empty host means the
// unspecified address, empty addr or port means an ephemeral port.
func Bind(network, addr string) (Conn, error) {
	laddr, err := resolveAddr(addr)
	if err != nil {
		return nil, err
	}

	switch network {
	case "udp", "udp4", "udp6":
		return bindUDP(network, laddr)
	default:
		return nil, errors.Errorf("not support network %s", network)
	}
}

func resolveAddr(addr string) (netip.AddrPort, error) {
	if addr == "" {
		return netip.AddrPortFrom(netip.IPv4Unspecified(), 0), nil
	}

	host, port, err := net.SplitHostPort(addr)
	if err != nil {
		return netip.AddrPort{}, errors.WithStack(err)
	}

	var p uint16
	if port != "" {
		n, err := strconv.ParseUint(port, 10, 16)
		if err != nil {
			return netip.AddrPort{}, errors.WithStack(err)
		}
		p = uint16(n)
	}

	if host == "" {
		return netip.AddrPortFrom(netip.IPv4Unspecified(), p), nil
	}
	if a, err := netip.ParseAddr(host); err == nil {
		return netip.AddrPortFrom(a, p), nil
	}

	ips, err := net.LookupIP(host)
	if err != nil {
		return netip.AddrPort{}, errors.WithStack(err)
	} else if len(ips) == 0 {
		return netip.AddrPort{}, errors.Errorf("can't resolve %s", addr)
	}
	for _, ip := range ips {
		if ip4 := ip.To4(); ip4 != nil {
			return netip.AddrPortFrom(netip.AddrFrom4([4]byte(ip4)), p), nil
		}
	}
	a, _ := netip.AddrFromSlice(ips[0])
	return netip.AddrPortFrom(a, p), nil
}
