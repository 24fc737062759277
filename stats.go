package unreliable

import "github.com/lysShub/unreliable/msgq"

// Stats are a Receiver's monotonic counters, owned by the Poll caller.
type Stats struct {
	Received  uint64 // datagrams read
	Filtered  uint64 // rejected by the filter
	Malformed uint64 // decode failures
	Completed uint64 // messages delivered

	Stale         uint64 // chunks of already-released ids
	Duplicate     uint64 // chunks with an already-buffered index
	Mismatch      uint64 // chunks outside their stage's range
	PurgedStages  uint64 // stages discarded by a newer completion
	EvictedStages uint64 // stages discarded by the MaxStages cap
	EvictedPeers  uint64 // peers discarded by the MaxPeers cap

	Peers int // currently tracked peers
}

func (s *Stats) fold(d msgq.Drops) {
	s.Stale += d.Stale
	s.Duplicate += d.Duplicate
	s.Mismatch += d.Mismatch
	s.PurgedStages += d.Purged
	s.EvictedStages += d.Evicted
}
