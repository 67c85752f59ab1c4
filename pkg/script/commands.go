package script

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/silt-lang/silt/pkg/rt"
	"github.com/silt-lang/silt/pkg/types"
)

// type NAME SIZE [WIDTH]
func (in *Interpreter) declare(args []string) error {
	if len(args) < 2 || len(args) > 3 {
		return fmt.Errorf("%w: type NAME SIZE [WIDTH]", ErrSyntax)
	}

	size, err := strconv.Atoi(args[1])
	if err != nil {
		return fmt.Errorf("%w: size `%s`", ErrSyntax, args[1])
	}
	width := size
	if len(args) == 3 {
		if width, err = strconv.Atoi(args[2]); err != nil {
			return fmt.Errorf("%w: width `%s`", ErrSyntax, args[2])
		}
	}
	if size > 0 && (!validWidth(width) || size%width != 0) {
		return fmt.Errorf("%w: `%s` of size %d cannot hold %d-byte fields", ErrType, args[0], size, width)
	}

	typ, err := in.types.Register(args[0], size, types.KindRecord, in.instrument(types.Trivial))
	if err != nil {
		return err
	}
	in.widths[typ.Id()] = width
	return nil
}

func (in *Interpreter) typeNamed(name string) (*types.Descriptor, error) {
	entry, ok := in.types.ByName(name)
	if !ok {
		return nil, fmt.Errorf("%w: no type `%s`", ErrName, name)
	}
	return entry.Type, nil
}

func (in *Interpreter) width(typ *types.Descriptor) int {
	if width, ok := in.widths[typ.Id()]; ok {
		return width
	}
	return typ.Size()
}

// new VAR TYPE [INT...]
func (in *Interpreter) create(args []string) error {
	if len(args) < 2 {
		return fmt.Errorf("%w: new VAR TYPE [INT...]", ErrSyntax)
	}
	name, fields := args[0], args[2:]
	typ, err := in.typeNamed(args[1])
	if err != nil {
		return err
	}
	if _, ok := in.vars[name]; ok {
		return fmt.Errorf("%w: `%s`", ErrDefined, name)
	}

	if typ == in.handle {
		if len(fields) > 0 {
			return fmt.Errorf("%w: Handle takes no fields", ErrSyntax)
		}
		h := in.rt.CreateEmptyValue(typ.Id())
		putHandle(in.rt.Bytes(h), in.refs.acquire())
		return in.define(name, slot{handle: h})
	}

	width := in.width(typ)
	if width == 0 && len(fields) > 0 || width > 0 && len(fields) > typ.Size()/width {
		return fmt.Errorf("%w: too many fields for `%s`", ErrType, typ)
	}
	values := make([]int64, len(fields))
	for i, it := range fields {
		if values[i], err = strconv.ParseInt(it, 0, 64); err != nil {
			return fmt.Errorf("%w: field `%s`", ErrSyntax, it)
		}
	}

	h := in.rt.CreateEmptyValue(typ.Id())
	storage := in.rt.Bytes(h)
	for i, it := range values {
		putField(storage[i*width:], width, it)
	}
	return in.define(name, slot{handle: h})
}

// copy SRC DST, move SRC DST
func (in *Interpreter) transfer(cmd string, args []string) error {
	if err := arity(args, 2); err != nil {
		return err
	}
	src, err := in.lookup(args[0], false)
	if err != nil {
		return err
	}
	if _, ok := in.vars[args[1]]; ok {
		return fmt.Errorf("%w: `%s`", ErrDefined, args[1])
	}

	dst := in.rt.CreateEmptyValue(in.rt.TypeOf(src))
	if cmd == "copy" {
		in.rt.CopyValue(dst, src)
	} else {
		in.rt.MoveValue(dst, src)
		delete(in.vars, args[0])
	}
	return in.define(args[1], slot{handle: dst})
}

// destroy VAR
func (in *Interpreter) destroy(args []string) error {
	if err := arity(args, 1); err != nil {
		return err
	}
	h, err := in.lookup(args[0], false)
	if err != nil {
		return err
	}
	in.rt.DestroyValue(h)
	delete(in.vars, args[0])
	return nil
}

// print VAR
func (in *Interpreter) print(args []string) error {
	if err := arity(args, 1); err != nil {
		return err
	}
	s, ok := in.vars[args[0]]
	if !ok {
		return fmt.Errorf("%w: `%s`", ErrName, args[0])
	}

	var (
		id      rt.TypeHandle
		storage []byte
		prefix  string
	)
	if s.box {
		id, storage, prefix = in.rt.BoxType(s.handle), in.rt.BoxBytes(s.handle), "box "
	} else {
		id, storage = in.rt.TypeOf(s.handle), in.rt.Bytes(s.handle)
	}

	entry, _ := in.types.Lookup(id)
	fmt.Fprintf(in.out, "%s = %s%s\n", args[0], prefix, in.display(entry.Type, storage))
	return nil
}

func (in *Interpreter) display(typ *types.Descriptor, storage []byte) string {
	if typ == in.handle {
		return fmt.Sprintf("Handle(#%d)", getHandle(storage))
	}

	width := in.width(typ)
	var fields []string
	for i := 0; width > 0 && i+width <= len(storage); i += width {
		fields = append(fields, strconv.FormatInt(getField(storage[i:], width), 10))
	}
	return fmt.Sprintf("%s(%s)", typ, strings.Join(fields, ", "))
}

// box VAR BOX
func (in *Interpreter) box(args []string) error {
	if err := arity(args, 2); err != nil {
		return err
	}
	h, err := in.lookup(args[0], false)
	if err != nil {
		return err
	}
	if _, ok := in.vars[args[1]]; ok {
		return fmt.Errorf("%w: `%s`", ErrDefined, args[1])
	}

	box := in.rt.BoxValue(h)
	delete(in.vars, args[0])
	return in.define(args[1], slot{handle: box, box: true})
}

// boxcopy BOX BOX2
func (in *Interpreter) boxCopy(args []string) error {
	if err := arity(args, 2); err != nil {
		return err
	}
	h, err := in.lookup(args[0], true)
	if err != nil {
		return err
	}
	if _, ok := in.vars[args[1]]; ok {
		return fmt.Errorf("%w: `%s`", ErrDefined, args[1])
	}
	return in.define(args[1], slot{handle: in.rt.CopyBox(h), box: true})
}

// boxdestroy BOX
func (in *Interpreter) boxDestroy(args []string) error {
	if err := arity(args, 1); err != nil {
		return err
	}
	h, err := in.lookup(args[0], true)
	if err != nil {
		return err
	}
	in.rt.DestroyBox(h)
	delete(in.vars, args[0])
	return nil
}

// emptybox BOX
func (in *Interpreter) emptyBox(args []string) error {
	if err := arity(args, 1); err != nil {
		return err
	}
	return in.define(args[0], slot{handle: in.rt.AcquireEmptyBox(), box: true})
}
