// Package heap provides fail-fast allocation primitives. Allocation never
// returns an absent block: failure goes through the crash reporter.
package heap

import (
	"sync/atomic"

	"github.com/silt-lang/silt/pkg/crash"
)

// Heap hands out raw byte blocks and keeps usage counters.
type Heap struct {
	reporter *crash.Reporter

	limit  atomic.Int64
	live   atomic.Int64
	allocs atomic.Int64
	frees  atomic.Int64
}

// Snapshot of a Heap's counters.
type Stats struct {
	Live   int64 // bytes currently allocated
	Allocs int64
	Frees  int64
}

// Shared block returned for zero-size allocations.
var zerobase [1]byte

var Default = New(crash.Default)

func New(reporter *crash.Reporter) *Heap {
	if reporter == nil {
		reporter = crash.Default
	}
	return &Heap{reporter: reporter}
}

// SetLimit caps the number of live bytes. Zero or less removes the cap.
func (h *Heap) SetLimit(n int64) {
	h.limit.Store(n)
}

func (h *Heap) Limit() int64 {
	return h.limit.Load()
}

// Alloc returns a zeroed block of exactly n bytes.
func (h *Heap) Alloc(n int) []byte {
	if n < 0 {
		h.fail(n)
	}

	h.reserve(n)
	h.allocs.Add(1)
	if n == 0 {
		return zerobase[:0:0]
	}

	out := grab(n)
	if out == nil {
		h.live.Add(-int64(n))
		h.fail(n)
	}
	return out
}

// Free releases a block obtained from Alloc. Foreign blocks and double
// frees are not detected.
func (h *Heap) Free(b []byte) {
	h.frees.Add(1)
	h.live.Add(-int64(len(b)))
}

func (h *Heap) Stats() Stats {
	return Stats{
		Live:   h.live.Load(),
		Allocs: h.allocs.Load(),
		Frees:  h.frees.Load(),
	}
}

func (h *Heap) reserve(n int) {
	size := int64(n)
	for {
		cur := h.live.Load()
		if limit := h.limit.Load(); limit > 0 && cur+size > limit {
			h.fail(n)
		}
		if h.live.CompareAndSwap(cur, cur+size) {
			return
		}
	}
}

func (h *Heap) fail(n int) {
	h.reporter.Fatalf("heap: failed to allocate %d bytes", n)
}

// The Go runtime refuses impossible sizes with a recoverable panic.
func grab(n int) (out []byte) {
	defer func() {
		if recover() != nil {
			out = nil
		}
	}()
	return make([]byte, n)
}

func Alloc(n int) []byte {
	return Default.Alloc(n)
}

func Free(b []byte) {
	Default.Free(b)
}
