// Package types holds the process-wide, read-only metadata of the runtime:
// type descriptors, their witness tables and the registry pairing them.
package types

import (
	"errors"
	"fmt"
	"sync"

	"golang.org/x/exp/slices"

	"github.com/silt-lang/silt/pkg/crash"
)

const (
	typeInvalid TypeId = iota
	TypeUnit
	TypeBool
	TypeInt8
	TypeInt16
	TypeInt32
	TypeInt64
	TypeUInt8
	TypeUInt16
	TypeUInt32
	TypeUInt64
	TypeInt
	TypeFloat32
	TypeFloat64

	// counter
	typeBuiltinMax
)

var builtinInfo = [typeBuiltinMax]struct {
	name string
	size int
}{
	TypeUnit:    {"Unit", 0},
	TypeBool:    {"Bool", 1},
	TypeInt8:    {"Int8", 1},
	TypeInt16:   {"Int16", 2},
	TypeInt32:   {"Int32", 4},
	TypeInt64:   {"Int64", 8},
	TypeUInt8:   {"UInt8", 1},
	TypeUInt16:  {"UInt16", 2},
	TypeUInt32:  {"UInt32", 4},
	TypeUInt64:  {"UInt64", 8},
	TypeInt:     {"Int", 8},
	TypeFloat32: {"Float32", 4},
	TypeFloat64: {"Float64", 8},
}

var builtinTypes = [typeBuiltinMax]Descriptor{}

func init() {
	for i := range builtinTypes {
		id := TypeId(i)
		if id == typeInvalid {
			continue
		}
		typ := &builtinTypes[i]
		typ.id = id
		typ.name = builtinInfo[i].name
		typ.size = builtinInfo[i].size
		typ.kind = KindPrimitive
	}
}

// Builtin returns the shared descriptor of a builtin type, or nil.
func Builtin(id TypeId) *Descriptor {
	if id == typeInvalid || id >= typeBuiltinMax {
		return nil
	}
	return &builtinTypes[id]
}

var (
	ErrSealed    = errors.New("registry is sealed")
	ErrDuplicate = errors.New("duplicate type name")
	ErrInvalid   = errors.New("invalid type")
)

// Entry pairs a descriptor with its witness.
type Entry struct {
	Type    *Descriptor
	Witness Witness
}

func (e Entry) IsZero() bool {
	return e.Type == nil
}

func (e Entry) IsTrivial() bool {
	return IsTrivial(e.Witness)
}

// Registry is an append-only table of types. Builtin types are always
// present; custom types are registered during initialization, after which
// the registry is sealed and only read.
type Registry struct {
	mu     sync.RWMutex
	sealed bool
	custom []Entry
	byName map[string]TypeId
}

// Process-wide registry.
var Default = NewRegistry()

func NewRegistry() *Registry {
	r := &Registry{byName: make(map[string]TypeId)}
	for i := range builtinTypes {
		if id := TypeId(i); id != typeInvalid {
			r.byName[builtinTypes[i].name] = id
		}
	}
	return r
}

func (r *Registry) Register(name string, size int, kind Kind, w Witness) (*Descriptor, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: empty name", ErrInvalid)
	}
	if size < 0 {
		return nil, fmt.Errorf("%w: `%s` has negative size %d", ErrInvalid, name, size)
	}
	if w == nil {
		return nil, fmt.Errorf("%w: `%s` has no witness", ErrInvalid, name)
	}
	if table, ok := w.(*Table); ok && (table == nil || !table.complete()) {
		return nil, fmt.Errorf("%w: `%s` has an incomplete witness table", ErrInvalid, name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.sealed {
		return nil, fmt.Errorf("register `%s`: %w", name, ErrSealed)
	}
	if _, ok := r.byName[name]; ok {
		return nil, fmt.Errorf("register `%s`: %w", name, ErrDuplicate)
	}

	typ := &Descriptor{
		id:   TypeId(len(r.custom)) + typeBuiltinMax,
		name: name,
		size: size,
		kind: kind,
	}
	r.custom = append(r.custom, Entry{typ, w})
	r.byName[name] = typ.id
	return typ, nil
}

// MustRegister is Register for static initialization: errors are fatal.
func (r *Registry) MustRegister(name string, size int, kind Kind, w Witness) *Descriptor {
	typ, err := r.Register(name, size, kind, w)
	if err != nil {
		crash.Fatalf("types: %v", err)
	}
	return typ
}

// Seal ends the registration phase.
func (r *Registry) Seal() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sealed = true
}

func (r *Registry) Sealed() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.sealed
}

func (r *Registry) Lookup(id TypeId) (Entry, bool) {
	if typ := Builtin(id); typ != nil {
		return Entry{typ, Trivial}, true
	}
	if id < typeBuiltinMax {
		return Entry{}, false
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	index := int(id - typeBuiltinMax)
	if index >= len(r.custom) {
		return Entry{}, false
	}
	return r.custom[index], true
}

func (r *Registry) ByName(name string) (Entry, bool) {
	r.mu.RLock()
	id, ok := r.byName[name]
	r.mu.RUnlock()
	if !ok {
		return Entry{}, false
	}
	return r.Lookup(id)
}

// Len returns the number of types, builtins included.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return int(typeBuiltinMax) - 1 + len(r.custom)
}

// Entries lists every type ordered by id.
func (r *Registry) Entries() []Entry {
	r.mu.RLock()
	custom := slices.Clone(r.custom)
	r.mu.RUnlock()

	out := make([]Entry, 0, int(typeBuiltinMax)+len(custom))
	for i := range builtinTypes {
		if id := TypeId(i); id != typeInvalid {
			out = append(out, Entry{&builtinTypes[i], Trivial})
		}
	}
	out = append(out, custom...)
	slices.SortFunc(out, func(a, b Entry) int {
		switch {
		case a.Type.id < b.Type.id:
			return -1
		case a.Type.id > b.Type.id:
			return +1
		}
		return 0
	})
	return out
}
