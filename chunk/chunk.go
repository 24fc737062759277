package chunk

import (
	"encoding/binary"
	"fmt"

	"github.com/lysShub/netkit/packet"
	"github.com/pkg/errors"
)

// A Chunk is one datagram payload: a fixed header followed by a slice of the
// original message. Index is 1-based, Total counts the chunks of the message;
// a chunk with Total==1 carries the whole message.
type Chunk []byte

const (
	// HeaderSize is the encoded header length.
	HeaderSize = 12

	// MaxTotal is the chunk count limit of one message.
	MaxTotal = 0xffff
)

func (c Chunk) MsgID() uint64 {
	return binary.BigEndian.Uint64(c[0:8])
}
func (c Chunk) SetMsgID(id uint64) {
	binary.BigEndian.PutUint64(c[0:8], id)
}
func (c Chunk) Index() uint16 {
	return binary.BigEndian.Uint16(c[8:10])
}
func (c Chunk) SetIndex(idx uint16) {
	binary.BigEndian.PutUint16(c[8:10], idx)
}
func (c Chunk) Total() uint16 {
	return binary.BigEndian.Uint16(c[10:12])
}
func (c Chunk) SetTotal(total uint16) {
	binary.BigEndian.PutUint16(c[10:12], total)
}
func (c Chunk) Payload() []byte {
	return c[HeaderSize:]
}

type Fields struct {
	MsgID uint64 // message the chunk belongs to
	Index uint16 // 1-based position in the message
	Total uint16 // chunk count of the message
}

func (h Fields) Valid() error {
	if h.Total == 0 {
		return errors.Errorf("zero total")
	}
	if h.Index == 0 || h.Index > h.Total {
		return errors.Errorf("index %d of %d", h.Index, h.Total)
	}
	return nil
}

func (h Fields) String() string {
	return fmt.Sprintf("{MsgID:%d, Index:%d/%d}", h.MsgID, h.Index, h.Total)
}

func (h *Fields) Encode(to *packet.Packet) error {
	if err := h.Valid(); err != nil {
		return err
	}

	to.Attach(binary.BigEndian.AppendUint16(nil, h.Total)...)
	to.Attach(binary.BigEndian.AppendUint16(nil, h.Index)...)
	to.Attach(binary.BigEndian.AppendUint64(nil, h.MsgID)...)
	return nil
}

func (h *Fields) Decode(from *packet.Packet) error {
	b := from.Bytes()
	if len(b) < HeaderSize {
		return errors.WithStack(&MalformedError{Size: len(b)})
	}

	h.MsgID = binary.BigEndian.Uint64(b[0:8])
	h.Index = binary.BigEndian.Uint16(b[8:10])
	h.Total = binary.BigEndian.Uint16(b[10:12])
	if h.Valid() != nil {
		return errors.WithStack(&MalformedError{Size: len(b), Hdr: *h})
	}

	from.DetachN(HeaderSize)
	return nil
}

// MalformedError reports a datagram that does not decode as a chunk.
type MalformedError struct {
	Size int    // datagram bytes
	Hdr  Fields // decoded header, zero when Size < HeaderSize
}

func (e *MalformedError) Error() string {
	if e.Size < HeaderSize {
		return fmt.Sprintf("chunk too short %d", e.Size)
	}
	return fmt.Sprintf("invalid chunk header %s", e.Hdr.String())
}

// TooLargeError reports a message that would fragment into more than
// MaxTotal chunks at the configured payload capacity.
type TooLargeError struct {
	Size  int // message bytes
	Bound int // bytes representable at the capacity
}

func (e *TooLargeError) Error() string {
	return fmt.Sprintf("message too large %d, bound %d", e.Size, e.Bound)
}
