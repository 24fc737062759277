package unreliable

import (
	"log/slog"
	"net/netip"

	"github.com/lysShub/netkit/packet"
	"github.com/lysShub/unreliable/chunk"
	"github.com/lysShub/unreliable/conn"
	"github.com/lysShub/unreliable/internal/ring"
	"github.com/pkg/errors"
)

// Sender fragments messages into chunks and drains them to the network.
// Driven by a single writer, see the package doc.
type Sender struct {
	config *SenderConfig
	conn   conn.Conn

	lastID uint64
	queue  *ring.Ring[outChunk]

	pkt *packet.Packet // scratch, rebuilt per drain
}

type outChunk struct {
	hdr     chunk.Fields
	payload []byte
	to      AddrSet
}

func NewSender(conn conn.Conn, config *SenderConfig) *Sender {
	var s = &Sender{
		config: config.init(),
		conn:   conn,
	}
	s.queue = ring.NewRing[outChunk](s.config.QueueCap)
	s.pkt = packet.Make(64, s.config.DatagramLength)

	s.config.logger.Info("sender", slog.String("local", conn.LocalAddr().String()))
	return s
}

// Enqueue numbers msg with the next id, splits it into chunks sized
// DatagramLength-Overhead and queues the whole set Replication times,
// identical ids and indices. An empty msg still queues one chunk. msg is
// copied, the caller may reuse it.
func (s *Sender) Enqueue(msg []byte, to AddrSet) error {
	if to.Len() == 0 {
		return errors.Errorf("empty address set")
	}

	size := s.config.DatagramLength - s.config.Overhead
	total := (len(msg) + size - 1) / size
	if total == 0 {
		total = 1
	}
	if total > chunk.MaxTotal {
		return errors.WithStack(&chunk.TooLargeError{Size: len(msg), Bound: size * chunk.MaxTotal})
	}

	buf := make([]byte, len(msg))
	copy(buf, msg)

	s.lastID += 1
	for range s.config.Replication {
		for i := 0; i < total; i++ {
			lo := i * size
			hi := min(lo+size, len(buf))
			s.queue.Push(outChunk{
				hdr:     chunk.Fields{MsgID: s.lastID, Index: uint16(i + 1), Total: uint16(total)},
				payload: buf[lo:hi],
				to:      to,
			})
		}
	}

	s.config.logger.Debug("enqueue",
		slog.Uint64("msg", s.lastID), slog.Int("size", len(msg)), slog.Int("chunks", total))
	return nil
}

// SendOne transmits the oldest queued chunk to every address of its set
// and reports whether the queue is still non-empty. A failed chunk is
// not requeued.
func (s *Sender) SendOne() (more bool, err error) {
	c, ok := s.queue.Pop()
	if ok {
		s.pkt.Sets(64, 0).Append(c.payload...)
		if err := c.hdr.Encode(s.pkt); err != nil {
			return s.queue.Len() > 0, err
		}
		if n := s.pkt.Data(); n > s.config.DatagramLength {
			err := &chunk.TooLargeError{Size: n, Bound: s.config.DatagramLength}
			return s.queue.Len() > 0, errors.WithStack(err)
		}

		for _, dst := range c.to.Addrs() {
			if err := s.conn.WriteToAddrPort(s.pkt, dst); err != nil {
				return s.queue.Len() > 0, err
			}
		}
	}
	return s.queue.Len() > 0, nil
}

// SendAll drains the queue, a tight loop of SendOne.
func (s *Sender) SendAll() error {
	for {
		more, err := s.SendOne()
		if err != nil {
			return err
		} else if !more {
			return nil
		}
	}
}

func (s *Sender) QueueLen() int { return s.queue.Len() }

func (s *Sender) LocalAddr() netip.AddrPort { return s.conn.LocalAddr() }
