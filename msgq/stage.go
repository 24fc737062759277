package msgq

// stage assembles one in-flight message, chunk payloads addressed by
// their 1-based index. The first chunk fixes total, later chunks with an
// index outside [1, total] are rejected by the queue.
type stage struct {
	total uint16
	parts [][]byte // nil element = missing
	count int
	size  int
	tick  uint64 // last activity, orders eviction
}

func newStage(total uint16, tick uint64) *stage {
	return &stage{
		total: total,
		parts: make([][]byte, total),
		tick:  tick,
	}
}

func (s *stage) inRange(idx uint16) bool {
	return 0 < idx && idx <= s.total
}

func (s *stage) has(idx uint16) bool {
	return s.parts[idx-1] != nil
}

// set stores a copy of b; empty payload stored as a non-nil slice so
// presence survives.
func (s *stage) set(idx uint16, b []byte) {
	p := make([]byte, len(b))
	copy(p, b)

	s.parts[idx-1] = p
	s.count += 1
	s.size += len(b)
}

func (s *stage) ready() bool {
	return s.count == int(s.total)
}

// merge concatenates the parts ascending, consuming the stage.
func (s *stage) merge() []byte {
	var b = make([]byte, 0, s.size)
	for _, p := range s.parts {
		b = append(b, p...)
	}
	s.parts = nil
	return b
}
