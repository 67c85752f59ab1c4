package types_test

import (
	"encoding/binary"
	"sync"
	"testing"

	"github.com/silt-lang/silt/pkg/types"
	"github.com/stretchr/testify/require"
)

func TestTrivialWitness(t *testing.T) {
	test := require.New(t)
	reg := types.NewRegistry()
	pair := reg.MustRegister("Pair", 16, types.KindRecord, types.Trivial)

	src := make([]byte, 16)
	binary.LittleEndian.PutUint64(src[0:], 3)
	binary.LittleEndian.PutUint64(src[8:], 4)

	dst := make([]byte, 16)
	types.Trivial.Copy(pair, dst, src)
	test.Equal(src, dst)

	dst[0] = 9
	test.Equal(uint64(3), binary.LittleEndian.Uint64(src), "copies must not alias")

	moved := make([]byte, 16)
	types.Trivial.Move(pair, moved, src)
	test.Equal(uint64(3), binary.LittleEndian.Uint64(moved[0:]))
	test.Equal(uint64(4), binary.LittleEndian.Uint64(moved[8:]))

	test.NotPanics(func() { types.Trivial.Destroy(pair, src) })

	test.True(types.IsTrivial(types.Trivial))
	test.False(types.IsTrivial(&types.Table{}))
	test.False(types.IsTrivial(types.Instrument(types.Trivial, func(types.Op, *types.Descriptor) {})))
}

func TestTrivialCopyUsesTypeSize(t *testing.T) {
	test := require.New(t)
	i16 := types.Builtin(types.TypeInt16)

	src := []byte{1, 2, 3, 4}
	dst := []byte{0, 0, 9, 9}
	types.Trivial.Copy(i16, dst, src)
	test.Equal([]byte{1, 2, 9, 9}, dst)
}

func TestInstrument(t *testing.T) {
	test := require.New(t)
	i32 := types.Builtin(types.TypeInt32)

	var log []string
	counts := types.Counts{}
	w := types.Instrument(types.Trivial, func(op types.Op, typ *types.Descriptor) {
		log = append(log, op.String()+" "+typ.Name())
		counts.Record(op, typ)
	})

	a, b := []byte{1, 2, 3, 4}, make([]byte, 4)
	w.Copy(i32, b, a)
	w.Move(i32, a, b)
	w.Destroy(i32, b)
	w.Destroy(i32, a)

	test.Equal([]string{"copy Int32", "move Int32", "destroy Int32", "destroy Int32"}, log)
	test.Equal(1, counts.Copies())
	test.Equal(1, counts.Moves())
	test.Equal(2, counts.Destroys())
	test.Equal([]byte{1, 2, 3, 4}, a)
}

func TestCountsConcurrent(t *testing.T) {
	test := require.New(t)
	reg := types.NewRegistry()
	counts := &types.Counts{}
	typ := reg.MustRegister("Shared", 8, types.KindRecord, types.Instrument(types.Trivial, counts.Record))
	reg.Seal()

	entry, ok := reg.Lookup(typ.Id())
	test.True(ok)

	wg := sync.WaitGroup{}
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			v := make([]byte, 8)
			for j := 0; j < 1000; j++ {
				entry.Witness.Destroy(typ, v)
			}
		}()
	}
	wg.Wait()

	test.Equal(8000, counts.Destroys())
	test.Equal(0, counts.Copies())
}
