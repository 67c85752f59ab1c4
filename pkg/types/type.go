package types

import "fmt"

// Stable runtime identifier for a registered type.
type TypeId uint32

// Kind of type a Descriptor describes.
type Kind uint8

const (
	KindPrimitive Kind = iota
	KindRecord
	KindUnion
	KindEnum
	KindFunction
	KindMetadata
)

var kindNames = map[Kind]string{
	KindPrimitive: "primitive",
	KindRecord:    "record",
	KindUnion:     "union",
	KindEnum:      "enum",
	KindFunction:  "function",
	KindMetadata:  "metadata",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Kind(%d)", uint8(k))
}

// Descriptor is the immutable record shared by every value of a type.
type Descriptor struct {
	id   TypeId
	name string
	size int
	kind Kind
}

func (t *Descriptor) Id() TypeId {
	if t == nil {
		return 0
	}
	return t.id
}

func (t *Descriptor) Name() string {
	if t == nil {
		return ""
	}
	return t.name
}

// Size of the type's storage in bytes.
func (t *Descriptor) Size() int {
	if t == nil {
		return 0
	}
	return t.size
}

func (t *Descriptor) Kind() Kind {
	if t == nil {
		return KindPrimitive
	}
	return t.kind
}

func (t *Descriptor) IsBuiltin() bool {
	return t != nil && t.id < typeBuiltinMax
}

func (t *Descriptor) String() string {
	if t == nil {
		return "<?>"
	}
	return t.name
}
