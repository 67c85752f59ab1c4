// Package script drives the runtime boundary from line-oriented trace
// scripts. Each script gets its own registry and heap, so its output
// (values, reference counts, op counts, heap usage) is deterministic.
package script

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/silt-lang/silt/pkg/heap"
	"github.com/silt-lang/silt/pkg/rt"
	"github.com/silt-lang/silt/pkg/types"
)

var (
	ErrSyntax  = errors.New("syntax error")
	ErrCommand = errors.New("unknown command")
	ErrName    = errors.New("unknown name")
	ErrDefined = errors.New("name already defined")
	ErrType    = errors.New("bad type")
)

type slot struct {
	handle rt.Handle
	box    bool
}

// Interpreter executes script commands against a private runtime.
type Interpreter struct {
	out    io.Writer
	heap   *heap.Heap
	types  *types.Registry
	rt     *rt.Runtime
	counts types.Counts
	trace  bool

	widths map[types.TypeId]int
	vars   map[string]slot
	refs   resources
	handle *types.Descriptor
}

// New creates an interpreter writing to out and allocating from h. A nil
// heap gets a fresh one.
func New(out io.Writer, h *heap.Heap) *Interpreter {
	if h == nil {
		h = heap.New(nil)
	}
	in := &Interpreter{
		out:    out,
		heap:   h,
		types:  types.NewRegistry(),
		widths: make(map[types.TypeId]int),
		vars:   make(map[string]slot),
		refs:   resources{live: make(map[uint64]int)},
	}
	in.rt = rt.New(in.types, in.heap)
	in.handle = in.types.MustRegister("Handle", handleSize, types.KindRecord, in.instrument(in.refs.witness()))
	in.widths[in.handle.Id()] = handleSize
	return in
}

// Run executes a whole script. Execution stops at the first error, which
// carries the line number.
func Run(input io.Reader, out io.Writer, h *heap.Heap) error {
	return New(out, h).Run(input)
}

func (in *Interpreter) Run(input io.Reader) error {
	scanner := bufio.NewScanner(input)
	for num := 1; scanner.Scan(); num++ {
		if err := in.Exec(scanner.Text()); err != nil {
			return fmt.Errorf("line %d: %w", num, err)
		}
	}
	return scanner.Err()
}

// Exec runs a single command line.
func (in *Interpreter) Exec(line string) error {
	if index := strings.Index(line, "#"); index >= 0 {
		line = line[:index]
	}
	args := strings.Fields(line)
	if len(args) == 0 {
		return nil
	}

	cmd, args := args[0], args[1:]
	switch cmd {
	case "type":
		return in.declare(args)
	case "new":
		return in.create(args)
	case "copy", "move":
		return in.transfer(cmd, args)
	case "destroy":
		return in.destroy(args)
	case "print":
		return in.print(args)
	case "box":
		return in.box(args)
	case "boxcopy":
		return in.boxCopy(args)
	case "boxdestroy":
		return in.boxDestroy(args)
	case "emptybox":
		return in.emptyBox(args)
	case "refs":
		return in.report(args, "refs: %d", in.refs.count())
	case "ops":
		return in.report(args, "ops: copy=%d move=%d destroy=%d",
			in.counts.Copies(), in.counts.Moves(), in.counts.Destroys())
	case "heap":
		stats := in.heap.Stats()
		return in.report(args, "heap: live=%d allocs=%d frees=%d", stats.Live, stats.Allocs, stats.Frees)
	case "trace":
		return in.setTrace(args)
	}
	return fmt.Errorf("%w `%s`", ErrCommand, cmd)
}

// Stats of a finished script, for callers that check leaks.
func (in *Interpreter) Counts() *types.Counts {
	return &in.counts
}

func (in *Interpreter) Heap() *heap.Heap {
	return in.heap
}

// Types returns the script's private registry.
func (in *Interpreter) Types() *types.Registry {
	return in.types
}

// SetTrace switches printing of dispatched witness operations.
func (in *Interpreter) SetTrace(on bool) {
	in.trace = on
}

// LiveRefs returns the outstanding counted-handle references.
func (in *Interpreter) LiveRefs() int {
	return in.refs.count()
}

func (in *Interpreter) instrument(w types.Witness) types.Witness {
	return types.Instrument(w, in.record)
}

func (in *Interpreter) record(op types.Op, t *types.Descriptor) {
	in.counts.Record(op, t)
	if in.trace {
		fmt.Fprintf(in.out, "  > %s %s\n", op, t)
	}
}

func (in *Interpreter) report(args []string, format string, values ...any) error {
	if err := arity(args, 0); err != nil {
		return err
	}
	fmt.Fprintf(in.out, format+"\n", values...)
	return nil
}

func (in *Interpreter) setTrace(args []string) error {
	if err := arity(args, 1); err != nil {
		return err
	}
	switch args[0] {
	case "on":
		in.SetTrace(true)
	case "off":
		in.SetTrace(false)
	default:
		return fmt.Errorf("%w: trace expects on or off, got `%s`", ErrSyntax, args[0])
	}
	return nil
}

func arity(args []string, n int) error {
	if len(args) != n {
		return fmt.Errorf("%w: expected %d arguments, got %d", ErrSyntax, n, len(args))
	}
	return nil
}

func (in *Interpreter) define(name string, s slot) error {
	if _, ok := in.vars[name]; ok {
		return fmt.Errorf("%w: `%s`", ErrDefined, name)
	}
	in.vars[name] = s
	return nil
}

func (in *Interpreter) lookup(name string, box bool) (rt.Handle, error) {
	s, ok := in.vars[name]
	if !ok || s.box != box {
		kind := "value"
		if box {
			kind = "box"
		}
		return nil, fmt.Errorf("%w: no %s `%s`", ErrName, kind, name)
	}
	return s.handle, nil
}
