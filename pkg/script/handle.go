package script

import (
	"encoding/binary"

	"github.com/silt-lang/silt/pkg/types"
)

const handleSize = 8

// resources backs the counted Handle type: storage holds a resource id
// and every live copy holds one reference to it. Id 0 is a moved-from
// handle and owns nothing.
type resources struct {
	next uint64
	live map[uint64]int
}

func (r *resources) acquire() uint64 {
	r.next++
	r.live[r.next] = 1
	return r.next
}

func (r *resources) count() (out int) {
	for _, refs := range r.live {
		out += refs
	}
	return out
}

func (r *resources) witness() *types.Table {
	return &types.Table{
		CopyFn: func(t *types.Descriptor, dst, src []byte) {
			id := getHandle(src)
			putHandle(dst, id)
			if id != 0 {
				r.live[id]++
			}
		},
		MoveFn: func(t *types.Descriptor, dst, src []byte) {
			putHandle(dst, getHandle(src))
			putHandle(src, 0)
		},
		DestroyFn: func(t *types.Descriptor, v []byte) {
			id := getHandle(v)
			if id == 0 {
				return
			}
			if r.live[id]--; r.live[id] <= 0 {
				delete(r.live, id)
			}
			putHandle(v, 0)
		},
	}
}

func getHandle(v []byte) uint64 {
	return binary.LittleEndian.Uint64(v)
}

func putHandle(v []byte, id uint64) {
	binary.LittleEndian.PutUint64(v, id)
}
