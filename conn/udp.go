package conn

import (
	"log/slog"
	"net"
	"net/netip"
	"syscall"

	"github.com/lysShub/netkit/debug"
	"github.com/lysShub/netkit/errorx"
	"github.com/lysShub/netkit/packet"
	"github.com/pkg/errors"
)

type udpConn struct {
	conn *net.UDPConn
}

var _ Conn = (*udpConn)(nil)

func bindUDP(network string, laddr netip.AddrPort) (*udpConn, error) {
	conn, err := net.ListenUDP(network, &net.UDPAddr{IP: laddr.Addr().AsSlice(), Port: int(laddr.Port())})
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return &udpConn{conn}, nil
}

func (c *udpConn) ReadFromAddrPort(b *packet.Packet) (netip.AddrPort, error) {
	n, addr, err := c.conn.ReadFromUDPAddrPort(b.Bytes())
	if err != nil {
		return netip.AddrPort{}, errors.WithStack(err)
	}
	if debug.Debug() && n == b.Data() {
		slog.Warn("too short warning", errorx.Trace(nil))
	}
	b.SetData(n)
	return addr, nil
}

func (c *udpConn) WriteToAddrPort(b *packet.Packet, dst netip.AddrPort) error {
	_, err := c.conn.WriteToUDPAddrPort(b.Bytes(), dst)
	return errors.WithStack(err)
}

func (c *udpConn) LocalAddr() netip.AddrPort {
	return netip.MustParseAddrPort(c.conn.LocalAddr().String())
}

func (c *udpConn) Close() error { return c.conn.Close() }

func (c *udpConn) SyscallConn() (syscall.RawConn, error) { return c.conn.SyscallConn() }
