// Package core holds type-erased values: storage bound to a type
// descriptor and a witness, and closure-bound boxes.
package core

import (
	"fmt"
	"sync/atomic"

	"github.com/silt-lang/silt/pkg/crash"
	"github.com/silt-lang/silt/pkg/types"
)

var checks atomic.Bool

// EnableChecks turns contract checks on or off. When off, violations
// (use after destroy, type mismatch, short storage) are undefined.
func EnableChecks(on bool) {
	checks.Store(on)
}

func ChecksEnabled() bool {
	return checks.Load()
}

// Value owns a storage region whose layout only its witness understands.
//
// A Value terminated by Destroy or by being moved from drops its storage,
// descriptor and witness; it must not be used again.
type Value struct {
	typ     *types.Descriptor
	witness types.Witness
	storage []byte
}

// NewValue binds a Value over caller-owned storage. It does not allocate
// and does not initialize the storage.
func NewValue(typ *types.Descriptor, w types.Witness, storage []byte) *Value {
	size := typ.Size()
	if checks.Load() {
		crash.Assert(typ != nil, "core: value without a type")
		crash.Assert(w != nil, crash.Msg("core: value of `%s` without a witness", typ))
		crash.Assert(len(storage) >= size,
			crash.Msg("core: storage of %d bytes for `%s` of size %d", len(storage), typ, size))
	}
	return &Value{typ, w, storage[:size:size]}
}

func (v *Value) Type() *types.Descriptor {
	return v.typ
}

func (v *Value) Witness() types.Witness {
	return v.witness
}

// Bytes returns the storage owned by v.
func (v *Value) Bytes() []byte {
	return v.storage
}

func (v *Value) Live() bool {
	return v.typ != nil
}

// CopyInto initializes dst as an independent copy of v.
func (v *Value) CopyInto(dst []byte) *Value {
	v.check("copy")
	out := NewValue(v.typ, v.witness, dst)
	v.witness.Copy(v.typ, out.storage, v.storage)
	return out
}

// MoveInto transfers v into dst and terminates v.
func (v *Value) MoveInto(dst []byte) *Value {
	v.check("move")
	out := NewValue(v.typ, v.witness, dst)
	v.witness.Move(v.typ, out.storage, v.storage)
	v.Destroy()
	return out
}

// InitializeWithCopy fills v, whose storage is uninitialized, with a copy
// of src.
func (v *Value) InitializeWithCopy(src *Value) {
	v.checkPair("copy", src)
	src.witness.Copy(src.typ, v.storage, src.storage)
}

// InitializeWithTake fills v, whose storage is uninitialized, by moving
// src into it. src is terminated.
func (v *Value) InitializeWithTake(src *Value) {
	v.checkPair("move", src)
	src.witness.Move(src.typ, v.storage, src.storage)
	src.Destroy()
}

// Destroy releases whatever the value's representation owns and
// terminates v.
func (v *Value) Destroy() {
	v.check("destroy")
	v.witness.Destroy(v.typ, v.storage)
	*v = Value{}
}

func (v *Value) String() string {
	if !v.Live() {
		return "(terminated)"
	}
	return fmt.Sprintf("<%s>(%x)", v.typ, v.storage)
}

func (v *Value) check(op string) {
	if checks.Load() && !v.Live() {
		crash.Fatalf("core: %s of a terminated value", op)
	}
}

func (v *Value) checkPair(op string, src *Value) {
	if !checks.Load() {
		return
	}
	src.check(op)
	if !v.Live() {
		crash.Fatalf("core: %s into a terminated value", op)
	}
	if v.typ != src.typ {
		crash.Fatalf("core: %s from `%s` into `%s`", op, src.typ, v.typ)
	}
}
