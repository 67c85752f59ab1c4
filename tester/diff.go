package tester

import "github.com/pmezard/go-difflib/difflib"

// Line diff between two texts.
type Diff struct {
	blocks []DiffBlock
}

// DiffBlock is a run of lines. Kind is 0 for lines common to both texts,
// -1 for lines only in the source and +1 for lines only in the destination.
type DiffBlock struct {
	Kind int
	Src  int
	Dst  int
	Len  int
}

func (diff Diff) Empty() bool {
	for _, it := range diff.blocks {
		if it.Kind != 0 {
			return false
		}
	}
	return true
}

func (diff Diff) Blocks() []DiffBlock {
	return diff.blocks
}

// Compare computes a line diff from src to dst. No line is treated as
// junk. A replaced range becomes a deletion followed by an insertion.
func Compare(src, dst []string) (out Diff) {
	for _, op := range difflib.NewMatcherWithJunk(src, dst, false, nil).GetOpCodes() {
		switch op.Tag {
		case 'e':
			out.push(0, op.I1, op.J1, op.I2-op.I1)
		case 'd':
			out.push(-1, op.I1, op.J1, op.I2-op.I1)
		case 'i':
			out.push(+1, op.I1, op.J1, op.J2-op.J1)
		case 'r':
			out.push(-1, op.I1, op.J1, op.I2-op.I1)
			out.push(+1, op.I2, op.J1, op.J2-op.J1)
		}
	}
	return out
}

func (diff *Diff) push(kind, src, dst, size int) {
	if size > 0 {
		diff.blocks = append(diff.blocks, DiffBlock{Kind: kind, Src: src, Dst: dst, Len: size})
	}
}
