package chunk

import (
	"math/rand"
	"testing"

	"bou.ke/monkey"
	"github.com/lysShub/netkit/debug"
	"github.com/lysShub/netkit/packet"
	"github.com/stretchr/testify/require"
)

func Test_Chunk(t *testing.T) {
	monkey.Patch(debug.Debug, func() bool { return false })

	var r = rand.New(rand.NewSource(0))

	t.Run("round trip", func(t *testing.T) {
		msg := "hello world"

		var pkt = packet.From([]byte(msg))
		var h1 = Fields{
			MsgID: r.Uint64(),
			Index: 3,
			Total: 7,
		}
		require.NoError(t, h1.Encode(pkt))
		require.Equal(t, HeaderSize+len(msg), pkt.Data())

		var h2 Fields
		require.NoError(t, h2.Decode(pkt))
		require.Equal(t, h1, h2)
		require.Equal(t, msg, string(pkt.Bytes()))
	})

	t.Run("accessors", func(t *testing.T) {
		var pkt = packet.From([]byte("abc"))
		h := Fields{MsgID: 0x1122334455667788, Index: 1, Total: 2}
		require.NoError(t, h.Encode(pkt))

		c := Chunk(pkt.Bytes())
		require.Equal(t, uint64(0x1122334455667788), c.MsgID())
		require.Equal(t, uint16(1), c.Index())
		require.Equal(t, uint16(2), c.Total())
		require.Equal(t, "abc", string(c.Payload()))

		c.SetMsgID(1)
		c.SetIndex(2)
		c.SetTotal(3)
		require.Equal(t, uint64(1), c.MsgID())
		require.Equal(t, uint16(2), c.Index())
		require.Equal(t, uint16(3), c.Total())
	})

	t.Run("big endian", func(t *testing.T) {
		var pkt = packet.Make(HeaderSize, 0)
		h := Fields{MsgID: 1, Index: 1, Total: 1}
		require.NoError(t, h.Encode(pkt))

		require.Equal(t, []byte{
			0, 0, 0, 0, 0, 0, 0, 1, // msg id
			0, 1, // index
			0, 1, // total
		}, pkt.Bytes())
	})

	t.Run("empty payload", func(t *testing.T) {
		var pkt = packet.Make(HeaderSize, 0)
		h1 := Fields{MsgID: 1, Index: 1, Total: 1}
		require.NoError(t, h1.Encode(pkt))
		require.Equal(t, HeaderSize, pkt.Data())

		var h2 Fields
		require.NoError(t, h2.Decode(pkt))
		require.Equal(t, h1, h2)
		require.Zero(t, pkt.Data())
	})
}

func Test_Fields_Valid(t *testing.T) {
	var suits = []struct {
		h  Fields
		ok bool
	}{
		{Fields{MsgID: 1, Index: 1, Total: 1}, true},
		{Fields{MsgID: 0, Index: 1, Total: 1}, true}, // id 0 legal on the wire
		{Fields{MsgID: 1, Index: 0xffff, Total: 0xffff}, true},
		{Fields{MsgID: 1, Index: 0, Total: 1}, false},
		{Fields{MsgID: 1, Index: 2, Total: 1}, false},
		{Fields{MsgID: 1, Index: 0, Total: 0}, false},
		{Fields{MsgID: 1, Index: 1, Total: 0}, false},
	}

	for _, suit := range suits {
		err := suit.h.Valid()
		if suit.ok {
			require.NoError(t, err, suit.h.String())
		} else {
			require.Error(t, err, suit.h.String())
		}
	}
}

func Test_Decode_Malformed(t *testing.T) {
	t.Run("too short", func(t *testing.T) {
		var pkt = packet.From([]byte{1, 2, 3})

		var h Fields
		err := h.Decode(pkt)
		require.Error(t, err)

		var me *MalformedError
		require.ErrorAs(t, err, &me)
		require.Equal(t, 3, me.Size)
	})

	t.Run("invalid header", func(t *testing.T) {
		var pkt = packet.Make(0, HeaderSize)
		// index 2 of total 1
		Chunk(pkt.Bytes()).SetMsgID(1)
		Chunk(pkt.Bytes()).SetIndex(2)
		Chunk(pkt.Bytes()).SetTotal(1)

		var h Fields
		err := h.Decode(pkt)
		require.Error(t, err)

		var me *MalformedError
		require.ErrorAs(t, err, &me)
		require.Equal(t, uint16(2), me.Hdr.Index)

		// header not consumed on failure
		require.Equal(t, HeaderSize, pkt.Data())
	})
}
