//go:build linux
// +build linux

package unreliable

import (
	"log/slog"
	"syscall"

	"github.com/lysShub/netkit/errorx"
	"github.com/lysShub/unreliable/conn"
)

// kernelFilter mirrors a whitelist into the socket so rejected sources
// are dropped before userspace. Best effort, the userspace filter stays
// authoritative.
func (r *Receiver) kernelFilter() {
	if r.config.Filter.Mode() != Whitelist {
		return
	}
	sc, ok := r.conn.(interface {
		SyscallConn() (syscall.RawConn, error)
	})
	if !ok {
		return
	}

	addrs := r.config.Filter.Addrs()
	for _, a := range addrs {
		if !a.Addr().Unmap().Is4() {
			return
		}
	}

	if err := conn.SetRawBPF(sc, conn.FilterSources(addrs)); err != nil {
		r.config.logger.Warn(err.Error(), errorx.Trace(err))
	} else {
		r.config.logger.Info("kernel filter", slog.Int("sources", len(addrs)))
	}
}
