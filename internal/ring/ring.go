// Package ring is a growable FIFO over a circular buffer. Not safe for
// concurrent use, the owner serializes access.
package ring

type Ring[T any] struct {
	s           []T
	start, size int
}

func NewRing[T any](cap int) *Ring[T] {
	if cap <= 0 {
		panic("require greater than 0")
	}
	return &Ring[T]{s: make([]T, cap)}
}

func (r *Ring[T]) Push(t T) {
	if r.size == len(r.s) {
		r.grow()
	}

	i := r.start + r.size
	if i >= len(r.s) {
		i = i - len(r.s)
	}

	r.s[i] = t
	r.size += 1
}

func (r *Ring[T]) Pop() (val T, ok bool) {
	if r.size == 0 {
		return val, false
	}

	val = r.s[r.start]
	r.s[r.start] = *new(T) // release the slot

	r.size -= 1
	r.start = r.start + 1
	if r.start >= len(r.s) {
		r.start = r.start - len(r.s)
	}
	return val, true
}

func (r *Ring[T]) Len() int { return r.size }

func (r *Ring[T]) grow() {
	s := make([]T, len(r.s)*2)

	n := copy(s, r.s[r.start:])
	copy(s[n:], r.s[:r.start])

	r.s = s
	r.start = 0
}
