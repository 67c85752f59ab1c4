package core

import (
	"github.com/silt-lang/silt/pkg/crash"
	"github.com/silt-lang/silt/pkg/heap"
	"github.com/silt-lang/silt/pkg/types"
)

type (
	CopyFunc[T any]    func(v T) T
	DestroyFunc[T any] func(v T)
)

// Box exclusively owns one value together with the closures that copy and
// destroy it. Copies share the closures and the descriptor.
type Box[T any] struct {
	copyFn    CopyFunc[T]
	destroyFn DestroyFunc[T]
	typ       *types.Descriptor
	value     T
	eternal   bool
	live      bool
}

// Opaque is the boxed form handed across the runtime boundary.
type Opaque = Box[[]byte]

func NewBox[T any](copyFn CopyFunc[T], destroyFn DestroyFunc[T], typ *types.Descriptor, v T) *Box[T] {
	return &Box[T]{
		copyFn:    copyFn,
		destroyFn: destroyFn,
		typ:       typ,
		value:     v,
		live:      true,
	}
}

func (b *Box[T]) Type() *types.Descriptor {
	return b.typ
}

func (b *Box[T]) Value() T {
	return b.value
}

func (b *Box[T]) Live() bool {
	return b.live
}

// Eternal reports whether b is a shared singleton that is never destroyed.
func (b *Box[T]) Eternal() bool {
	return b.eternal
}

// Copy returns a sibling box owning a freshly copied value.
func (b *Box[T]) Copy() *Box[T] {
	b.check("copy")
	if b.eternal {
		return b
	}
	return NewBox(b.copyFn, b.destroyFn, b.typ, b.copyFn(b.value))
}

// Destroy releases the owned value. The box must not be used afterwards.
func (b *Box[T]) Destroy() {
	b.check("destroy")
	if b.eternal {
		return
	}
	b.destroyFn(b.value)

	var zero T
	b.value = zero
	b.live = false
}

func (b *Box[T]) check(op string) {
	if checks.Load() && !b.live {
		crash.Fatalf("core: %s of a destroyed box of `%s`", op, b.typ)
	}
}

// BoxStorage boxes heap storage holding a value of typ. The closures are
// derived from the type's witness: copies are allocated from h and
// destroys return the block to h.
func BoxStorage(typ *types.Descriptor, w types.Witness, h *heap.Heap, storage []byte) *Opaque {
	copyFn := func(src []byte) []byte {
		dst := h.Alloc(typ.Size())
		w.Copy(typ, dst, src)
		return dst
	}
	destroyFn := func(v []byte) {
		w.Destroy(typ, v)
		h.Free(v)
	}
	return NewBox(copyFn, destroyFn, typ, storage[:typ.Size():typ.Size()])
}

// BoxValue moves v into a fresh block from h and boxes it. v is terminated.
func BoxValue(v *Value, h *heap.Heap) *Opaque {
	typ, w := v.Type(), v.Witness()
	moved := v.MoveInto(h.Alloc(typ.Size()))
	return BoxStorage(typ, w, h, moved.Bytes())
}

// The empty-payload singleton is eternal and exempt from reference
// counting: acquiring it takes no reference, copying it yields itself and
// destroying it does nothing.
var emptyBox = Opaque{
	typ:     types.Builtin(types.TypeUnit),
	value:   []byte{},
	eternal: true,
	live:    true,
}

// EmptyBox returns the shared box for zero-size payloads.
func EmptyBox() *Opaque {
	return &emptyBox
}
