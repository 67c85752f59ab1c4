package types

import "sync/atomic"

// Op names a witness operation.
type Op uint8

const (
	OpCopy Op = iota
	OpMove
	OpDestroy
)

func (op Op) String() string {
	switch op {
	case OpCopy:
		return "copy"
	case OpMove:
		return "move"
	case OpDestroy:
		return "destroy"
	}
	return "?"
}

type instrumented struct {
	inner Witness
	fn    func(op Op, t *Descriptor)
}

// Instrument returns a Witness that calls fn before each operation of w.
func Instrument(w Witness, fn func(op Op, t *Descriptor)) Witness {
	return &instrumented{w, fn}
}

func (w *instrumented) Copy(t *Descriptor, dst, src []byte) {
	w.fn(OpCopy, t)
	w.inner.Copy(t, dst, src)
}

func (w *instrumented) Move(t *Descriptor, dst, src []byte) {
	w.fn(OpMove, t)
	w.inner.Move(t, dst, src)
}

func (w *instrumented) Destroy(t *Descriptor, v []byte) {
	w.fn(OpDestroy, t)
	w.inner.Destroy(t, v)
}

// Counts tallies witness operations per kind. It is safe for concurrent
// use and must not be copied after first use.
type Counts [3]atomic.Int64

func (c *Counts) Record(op Op, t *Descriptor) {
	c[op].Add(1)
}

func (c *Counts) Copies() int   { return int(c[OpCopy].Load()) }
func (c *Counts) Moves() int    { return int(c[OpMove].Load()) }
func (c *Counts) Destroys() int { return int(c[OpDestroy].Load()) }
