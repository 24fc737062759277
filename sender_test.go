package unreliable

import (
	"math/rand"
	"net/netip"
	"testing"

	"github.com/lysShub/unreliable/chunk"
	"github.com/stretchr/testify/require"
)

func Test_Enqueue_Chunks(t *testing.T) {
	// default capacity 1472-32=1440
	var suits = []struct {
		payload int
		chunks  int
	}{
		{payload: 0, chunks: 1},
		{payload: 1, chunks: 1},
		{payload: 1439, chunks: 1},
		{payload: 1440, chunks: 1},
		{payload: 1441, chunks: 2},
		{payload: 2880, chunks: 2},
		{payload: 2881, chunks: 3},
		{payload: 1440 * 7, chunks: 7},
	}

	to := Addrs(netip.MustParseAddrPort("127.0.0.1:19986"))
	for _, suit := range suits {
		s := NewSender(newFakeConn(), &SenderConfig{})

		require.NoError(t, s.Enqueue(make([]byte, suit.payload), to))
		require.Equal(t, suit.chunks, s.QueueLen(), "payload %d", suit.payload)
	}
}

func Test_Send(t *testing.T) {
	var r = rand.New(rand.NewSource(0))
	to := Addrs(netip.MustParseAddrPort("127.0.0.1:19986"))

	t.Run("datagram layout", func(t *testing.T) {
		c := newFakeConn()
		s := NewSender(c, &SenderConfig{})

		msg := make([]byte, 2000)
		r.Read(msg)
		require.NoError(t, s.Enqueue(msg, to))

		more, err := s.SendOne()
		require.NoError(t, err)
		require.True(t, more)
		more, err = s.SendOne()
		require.NoError(t, err)
		require.False(t, more)

		require.Equal(t, 2, len(c.out))
		var got []byte
		for i, d := range c.out {
			ck := chunk.Chunk(d.b)
			require.Equal(t, uint64(1), ck.MsgID())
			require.Equal(t, uint16(i+1), ck.Index())
			require.Equal(t, uint16(2), ck.Total())
			got = append(got, ck.Payload()...)
		}
		require.Equal(t, msg, got)
	})

	t.Run("id sequence", func(t *testing.T) {
		c := newFakeConn()
		s := NewSender(c, &SenderConfig{})

		require.NoError(t, s.Enqueue([]byte("a"), to))
		require.NoError(t, s.Enqueue([]byte("b"), to))
		require.NoError(t, s.SendAll())

		require.Equal(t, 2, len(c.out))
		require.Equal(t, uint64(1), chunk.Chunk(c.out[0].b).MsgID())
		require.Equal(t, uint64(2), chunk.Chunk(c.out[1].b).MsgID())
	})

	t.Run("replication", func(t *testing.T) {
		c := newFakeConn()
		s := NewSender(c, &SenderConfig{Replication: 3})

		require.NoError(t, s.Enqueue(make([]byte, 2000), to))
		require.Equal(t, 6, s.QueueLen())
		require.NoError(t, s.SendAll())

		require.Equal(t, 6, len(c.out))
		require.Equal(t, c.out[0].b, c.out[2].b)
		require.Equal(t, c.out[0].b, c.out[4].b)
		require.Equal(t, c.out[1].b, c.out[5].b)
	})

	t.Run("fan out", func(t *testing.T) {
		c := newFakeConn()
		s := NewSender(c, &SenderConfig{})

		a1 := netip.MustParseAddrPort("10.0.0.1:80")
		a2 := netip.MustParseAddrPort("10.0.0.2:80")
		require.NoError(t, s.Enqueue([]byte("x"), Addrs(a1, a2)))

		more, err := s.SendOne()
		require.NoError(t, err)
		require.False(t, more)

		require.Equal(t, 2, len(c.out))
		require.Equal(t, a1, c.out[0].addr)
		require.Equal(t, a2, c.out[1].addr)
		require.Equal(t, c.out[0].b, c.out[1].b)
	})

	t.Run("empty address set", func(t *testing.T) {
		s := NewSender(newFakeConn(), &SenderConfig{})

		require.Error(t, s.Enqueue([]byte("x"), AddrSet{}))
		require.Zero(t, s.QueueLen())
	})

	t.Run("too many chunks", func(t *testing.T) {
		s := NewSender(newFakeConn(), &SenderConfig{DatagramLength: 44}) // capacity 12

		err := s.Enqueue(make([]byte, 12*chunk.MaxTotal+1), to)
		var tl *chunk.TooLargeError
		require.ErrorAs(t, err, &tl)
		require.Zero(t, s.QueueLen())

		require.NoError(t, s.Enqueue(make([]byte, 12*chunk.MaxTotal), to))
		require.Equal(t, chunk.MaxTotal, s.QueueLen())
	})

	t.Run("datagram overflow", func(t *testing.T) {
		// overhead understates the header, the oversize shows up at send
		c := newFakeConn()
		s := NewSender(c, &SenderConfig{DatagramLength: 64, Overhead: 4})

		require.NoError(t, s.Enqueue(make([]byte, 60), to))
		_, err := s.SendOne()
		var tl *chunk.TooLargeError
		require.ErrorAs(t, err, &tl)
		require.Equal(t, 72, tl.Size)
		require.Zero(t, len(c.out))
		require.Zero(t, s.QueueLen()) // not retried
	})

	t.Run("send empty queue", func(t *testing.T) {
		s := NewSender(newFakeConn(), &SenderConfig{})

		more, err := s.SendOne()
		require.NoError(t, err)
		require.False(t, more)
		require.NoError(t, s.SendAll())
	})
}
