// Package msgq reassembles chunked messages of one peer and keeps only
// the newest: completing a message discards every older in-flight stage,
// later chunks of discarded messages are dropped as stale.
package msgq

import (
	"github.com/lysShub/netkit/debug"
	"github.com/lysShub/rawsock/test"
	"github.com/lysShub/unreliable/chunk"
	"github.com/stretchr/testify/require"
)

// Message is a fully reassembled message.
type Message struct {
	ID      uint64
	Payload []byte
}

// Queue is the reassembly state of one peer. Not safe for concurrent use,
// the owner serializes Insert/Clear calls.
type Queue struct {
	lastReleased uint64
	released     bool

	stages map[uint64]*stage
	cap    int    // open stage limit, 0 unbounded
	tick   uint64 // activity clock

	drops Drops
}

// Drops counts silently discarded input, monotonic.
type Drops struct {
	Stale     uint64 // chunk id not greater than the last released id
	Duplicate uint64 // index already buffered
	Mismatch  uint64 // index outside the stage's range
	Purged    uint64 // stages discarded by a newer completion
	Evicted   uint64 // stages discarded by the MaxStages cap
}

func NewQueue(maxStages int) *Queue {
	return &Queue{
		stages: map[uint64]*stage{},
		cap:    maxStages,
	}
}

// Insert feeds one decoded chunk, hdr already validated. Returns the
// reassembled message with complete=true when this chunk finishes one,
// otherwise a zero Message; the payload is copied, the caller may reuse
// its buffer.
func (q *Queue) Insert(hdr chunk.Fields, payload []byte) (msg Message, complete bool) {
	q.tick += 1

	if q.released && hdr.MsgID <= q.lastReleased {
		q.drops.Stale += 1
		return Message{}, false
	}

	if hdr.Total == 1 {
		q.markReleased(hdr.MsgID)

		p := make([]byte, len(payload))
		copy(p, payload)
		return Message{ID: hdr.MsgID, Payload: p}, true
	}

	if s, has := q.stages[hdr.MsgID]; has {
		s.tick = q.tick
		if !s.inRange(hdr.Index) {
			q.drops.Mismatch += 1
			return Message{}, false
		}
		if s.has(hdr.Index) {
			q.drops.Duplicate += 1
			return Message{}, false
		}

		s.set(hdr.Index, payload)
		if !s.ready() {
			return Message{}, false
		}

		delete(q.stages, hdr.MsgID)
		q.markReleased(hdr.MsgID)
		return Message{ID: hdr.MsgID, Payload: s.merge()}, true
	}

	if q.cap > 0 && len(q.stages) >= q.cap {
		q.evict()
	}
	s := newStage(hdr.Total, q.tick)
	s.set(hdr.Index, payload)
	q.stages[hdr.MsgID] = s
	return Message{}, false
}

// markReleased records id as delivered and purges the stages it
// supersedes.
func (q *Queue) markReleased(id uint64) {
	q.lastReleased = id
	q.released = true

	for sid := range q.stages {
		if sid <= id {
			delete(q.stages, sid)
			q.drops.Purged += 1
		}
	}

	if debug.Debug() {
		for sid := range q.stages {
			require.Greater(test.T(), sid, q.lastReleased)
		}
	}
}

// evict drops the stage with the oldest activity.
func (q *Queue) evict() {
	var (
		id    uint64
		min   uint64
		first = true
	)
	for sid, s := range q.stages {
		if first || s.tick < min {
			id, min = sid, s.tick
			first = false
		}
	}
	if !first {
		delete(q.stages, id)
		q.drops.Evicted += 1
	}
}

// Len reports open stage count.
func (q *Queue) Len() int { return len(q.stages) }

// LastReleased reports the newest delivered id, ok=false before the
// first delivery.
func (q *Queue) LastReleased() (id uint64, ok bool) {
	return q.lastReleased, q.released
}

func (q *Queue) Drops() Drops { return q.drops }
