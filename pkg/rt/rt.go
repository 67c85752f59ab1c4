// Package rt is the boundary between generated code and the value layer.
// Every entry point takes and returns untyped handles; they are converted
// back to typed references on entry and never escape the package typed.
package rt

import (
	"unsafe"

	"github.com/silt-lang/silt/pkg/core"
	"github.com/silt-lang/silt/pkg/crash"
	"github.com/silt-lang/silt/pkg/heap"
	"github.com/silt-lang/silt/pkg/types"
)

// Handle is an opaque reference to a value or a box.
type Handle = unsafe.Pointer

// TypeHandle identifies a registered type.
type TypeHandle = types.TypeId

// Runtime binds the boundary to a registry and a heap.
type Runtime struct {
	types *types.Registry
	heap  *heap.Heap
}

var Default = New(types.Default, heap.Default)

func New(reg *types.Registry, h *heap.Heap) *Runtime {
	return &Runtime{types: reg, heap: h}
}

func (r *Runtime) Types() *types.Registry {
	return r.types
}

func (r *Runtime) Heap() *heap.Heap {
	return r.heap
}

// valueCell is what a value Handle points to.
type valueCell struct {
	value *core.Value
	owned bool // storage came from the runtime heap
}

func cellOf(h Handle) *valueCell {
	return (*valueCell)(h)
}

func boxOf(h Handle) *core.Opaque {
	return (*core.Opaque)(h)
}

func (r *Runtime) lookup(t TypeHandle) types.Entry {
	entry, ok := r.types.Lookup(t)
	if !ok {
		crash.Fatalf("rt: unknown type handle %d", t)
	}
	return entry
}

// CreateValue binds a value of type t over caller-owned storage.
func (r *Runtime) CreateValue(init []byte, t TypeHandle) Handle {
	entry := r.lookup(t)
	cell := &valueCell{value: core.NewValue(entry.Type, entry.Witness, init)}
	return Handle(cell)
}

// CreateEmptyValue allocates uninitialized storage for a value of type t.
func (r *Runtime) CreateEmptyValue(t TypeHandle) Handle {
	entry := r.lookup(t)
	storage := r.heap.Alloc(entry.Type.Size())
	cell := &valueCell{
		value: core.NewValue(entry.Type, entry.Witness, storage),
		owned: true,
	}
	return Handle(cell)
}

// CopyValue initializes dst with a copy of src and returns dst.
func (r *Runtime) CopyValue(dst, src Handle) Handle {
	cellOf(dst).value.InitializeWithCopy(cellOf(src).value)
	return dst
}

// MoveValue moves src into dst and returns dst. src is terminated and any
// storage it owned is released.
func (r *Runtime) MoveValue(dst, src Handle) Handle {
	from := cellOf(src)
	storage := from.value.Bytes()
	cellOf(dst).value.InitializeWithTake(from.value)
	r.release(from, storage)
	return dst
}

// DestroyValue destroys the value and releases its handle.
func (r *Runtime) DestroyValue(h Handle) {
	cell := cellOf(h)
	storage := cell.value.Bytes()
	cell.value.Destroy()
	r.release(cell, storage)
}

func (r *Runtime) release(cell *valueCell, storage []byte) {
	if cell.owned {
		r.heap.Free(storage)
		cell.owned = false
	}
}

// TypeOf returns the type handle of a value.
func (r *Runtime) TypeOf(h Handle) TypeHandle {
	return cellOf(h).value.Type().Id()
}

// Bytes exposes the storage of a value.
func (r *Runtime) Bytes(h Handle) []byte {
	return cellOf(h).value.Bytes()
}

// AcquireEmptyBox returns the shared empty-payload box.
func (r *Runtime) AcquireEmptyBox() Handle {
	return Handle(core.EmptyBox())
}

// BoxValue moves a value into heap storage owned by a new box. The value
// handle is terminated.
func (r *Runtime) BoxValue(h Handle) Handle {
	cell := cellOf(h)
	storage := cell.value.Bytes()
	box := core.BoxValue(cell.value, r.heap)
	r.release(cell, storage)
	return Handle(box)
}

func (r *Runtime) CopyBox(h Handle) Handle {
	return Handle(boxOf(h).Copy())
}

func (r *Runtime) DestroyBox(h Handle) {
	boxOf(h).Destroy()
}

// BoxType returns the type handle of a box's payload.
func (r *Runtime) BoxType(h Handle) TypeHandle {
	return boxOf(h).Type().Id()
}

// BoxBytes exposes the payload storage of a box.
func (r *Runtime) BoxBytes(h Handle) []byte {
	return boxOf(h).Value()
}

func CreateValue(init []byte, t TypeHandle) Handle { return Default.CreateValue(init, t) }
func CreateEmptyValue(t TypeHandle) Handle         { return Default.CreateEmptyValue(t) }
func CopyValue(dst, src Handle) Handle             { return Default.CopyValue(dst, src) }
func MoveValue(dst, src Handle) Handle             { return Default.MoveValue(dst, src) }
func DestroyValue(h Handle)                        { Default.DestroyValue(h) }
func AcquireEmptyBox() Handle                      { return Default.AcquireEmptyBox() }
func BoxValue(h Handle) Handle                     { return Default.BoxValue(h) }
func CopyBox(h Handle) Handle                      { return Default.CopyBox(h) }
func DestroyBox(h Handle)                          { Default.DestroyBox(h) }
func TypeOf(h Handle) TypeHandle                   { return Default.TypeOf(h) }
