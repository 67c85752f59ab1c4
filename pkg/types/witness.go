package types

// Witness is the capability set through which every erased value is
// copied, moved and destroyed. Storage layout is known only to the
// implementation.
//
// Move must leave src in a state whose Destroy releases nothing: the
// caller always destroys the source of a move.
type Witness interface {
	Copy(t *Descriptor, dst, src []byte)
	Move(t *Descriptor, dst, src []byte)
	Destroy(t *Descriptor, v []byte)
}

type (
	CopyFn    = func(t *Descriptor, dst, src []byte)
	MoveFn    = func(t *Descriptor, dst, src []byte)
	DestroyFn = func(t *Descriptor, v []byte)
)

// Table is the shared per-type form of a Witness.
type Table struct {
	CopyFn    CopyFn
	MoveFn    MoveFn
	DestroyFn DestroyFn
}

func (w *Table) Copy(t *Descriptor, dst, src []byte) {
	w.CopyFn(t, dst, src)
}

func (w *Table) Move(t *Descriptor, dst, src []byte) {
	w.MoveFn(t, dst, src)
}

func (w *Table) Destroy(t *Descriptor, v []byte) {
	w.DestroyFn(t, v)
}

func (w *Table) complete() bool {
	return w.CopyFn != nil && w.MoveFn != nil && w.DestroyFn != nil
}

// Trivial is shared by every type without internal resources.
var Trivial = &Table{
	CopyFn:    trivialCopy,
	MoveFn:    trivialMove,
	DestroyFn: trivialDestroy,
}

// IsTrivial reports whether w is the shared trivial table.
func IsTrivial(w Witness) bool {
	table, ok := w.(*Table)
	return ok && table == Trivial
}

func trivialCopy(t *Descriptor, dst, src []byte) {
	size := t.Size()
	copy(dst[:size], src[:size])
}

// The source keeps its bytes; destroying it afterwards is a no-op.
func trivialMove(t *Descriptor, dst, src []byte) {
	size := t.Size()
	copy(dst[:size], src[:size])
}

func trivialDestroy(t *Descriptor, v []byte) {}
