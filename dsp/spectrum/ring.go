package spectrum

import (
	"math/bits"
	"sync/atomic"
)

// Ring is a lock-free single-producer single-consumer sample FIFO.
//
// Exactly one goroutine may call Write and exactly one may call Read.
type Ring struct {
	buf  []float64
	mask uint64

	head    atomic.Uint64 // total samples written
	tail    atomic.Uint64 // total samples read
	dropped atomic.Uint64
}

// NewRing returns a ring holding at least capacity samples. The capacity is
// rounded up to a power of two.
func NewRing(capacity int) *Ring {
	if capacity < 1 {
		capacity = 1
	}

	size := 1 << bits.Len(uint(capacity-1))

	return &Ring{
		buf:  make([]float64, size),
		mask: uint64(size - 1),
	}
}

// Write appends as many samples of x as fit and returns that count. The rest
// are dropped. It never blocks or allocates.
func (r *Ring) Write(x []float64) int {
	head := r.head.Load()
	tail := r.tail.Load()

	free := uint64(len(r.buf)) - (head - tail)
	n := min(uint64(len(x)), free)

	if dropped := uint64(len(x)) - n; dropped > 0 {
		r.dropped.Add(dropped)
	}

	if n == 0 {
		return 0
	}

	start := head & r.mask
	first := min(n, uint64(len(r.buf))-start)
	copy(r.buf[start:start+first], x[:first])
	copy(r.buf, x[first:n])

	r.head.Store(head + n)

	return int(n)
}

// Read moves up to len(dst) samples into dst and returns the count.
func (r *Ring) Read(dst []float64) int {
	tail := r.tail.Load()
	head := r.head.Load()

	n := min(uint64(len(dst)), head-tail)
	if n == 0 {
		return 0
	}

	start := tail & r.mask
	first := min(n, uint64(len(r.buf))-start)
	copy(dst[:first], r.buf[start:start+first])
	copy(dst[first:n], r.buf)

	r.tail.Store(tail + n)

	return int(n)
}

// Len returns the number of samples waiting to be read.
func (r *Ring) Len() int {
	return int(r.head.Load() - r.tail.Load())
}

// Cap returns the ring capacity.
func (r *Ring) Cap() int { return len(r.buf) }

// Dropped returns the number of samples discarded because the ring was full.
func (r *Ring) Dropped() uint64 { return r.dropped.Load() }
