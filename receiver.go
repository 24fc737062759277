package unreliable

import (
	"log/slog"
	"net/netip"

	"github.com/lysShub/netkit/packet"
	"github.com/lysShub/unreliable/chunk"
	"github.com/lysShub/unreliable/conn"
	"github.com/lysShub/unreliable/msgq"
)

// Receiver reassembles inbound chunks into messages, per-peer state keyed
// by source address. Driven by a single reader, see the package doc.
type Receiver struct {
	config *ReceiverConfig
	conn   conn.Conn

	peers map[netip.AddrPort]*peer
	tick  uint64

	pkt *packet.Packet // reused across reads

	stats Stats
}

type peer struct {
	q    *msgq.Queue
	tick uint64
}

func NewReceiver(conn conn.Conn, config *ReceiverConfig) *Receiver {
	var r = &Receiver{
		config: config.init(),
		conn:   conn,
		peers:  map[netip.AddrPort]*peer{},
	}
	r.pkt = packet.Make(64, r.config.DatagramLength)

	r.config.logger.Info("receiver",
		slog.String("local", conn.LocalAddr().String()),
		slog.String("filter", r.config.Filter.Mode().String()))
	r.kernelFilter()
	return r
}

// Poll blocks until one message completes, returning it with the
// originating address. Filtered, stale and duplicate datagrams are
// dropped silently; a read or decode failure returns, the caller polls
// again to keep listening.
func (r *Receiver) Poll() (netip.AddrPort, msgq.Message, error) {
	for {
		src, err := r.conn.ReadFromAddrPort(r.pkt.Sets(64, r.config.DatagramLength))
		if err != nil {
			return netip.AddrPort{}, msgq.Message{}, err
		}
		r.stats.Received += 1

		if !r.config.Filter.Admit(src) {
			r.stats.Filtered += 1
			r.config.logger.Debug("filtered", slog.String("src", src.String()))
			continue
		}

		var hdr chunk.Fields
		if err := hdr.Decode(r.pkt); err != nil {
			r.stats.Malformed += 1
			return netip.AddrPort{}, msgq.Message{}, err
		}

		msg, complete := r.peer(src).Insert(hdr, r.pkt.Bytes())
		if complete {
			r.stats.Completed += 1
			return src, msg, nil
		}
	}
}

// Clear drops all reassembly state of addr, the next message restarts
// supersession tracking from scratch.
func (r *Receiver) Clear(addr netip.AddrPort) {
	if p, has := r.peers[addr]; has {
		r.stats.fold(p.q.Drops())
		delete(r.peers, addr)
	}
}

// Stats snapshots the receiver's counters.
func (r *Receiver) Stats() Stats {
	out := r.stats
	for _, p := range r.peers {
		out.fold(p.q.Drops())
	}
	out.Peers = len(r.peers)
	return out
}

func (r *Receiver) LocalAddr() netip.AddrPort { return r.conn.LocalAddr() }

func (r *Receiver) peer(src netip.AddrPort) *msgq.Queue {
	r.tick += 1

	p, has := r.peers[src]
	if !has {
		if n := r.config.MaxPeers; n > 0 && len(r.peers) >= n {
			r.evict()
		}
		p = &peer{q: msgq.NewQueue(r.config.MaxStages)}
		r.peers[src] = p
	}
	p.tick = r.tick
	return p.q
}

// evict drops the peer with the oldest activity.
func (r *Receiver) evict() {
	var (
		addr  netip.AddrPort
		min   uint64
		first = true
	)
	for a, p := range r.peers {
		if first || p.tick < min {
			addr, min = a, p.tick
			first = false
		}
	}
	if !first {
		r.stats.fold(r.peers[addr].q.Drops())
		r.stats.EvictedPeers += 1
		delete(r.peers, addr)
		r.config.logger.Debug("evict peer", slog.String("peer", addr.String()))
	}
}
