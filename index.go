package sparse

import "sort"

// blockIndexAt returns the index of the block containing addr. It returns
// false if addr falls in a gap or outside the content.
func (m *Memory) blockIndexAt(addr int64) (int, bool) {
	i := m.blockIndexStart(addr)
	if i < len(m.blocks) && m.blocks[i].Start <= addr {
		return i, true
	}
	return 0, false
}

// blockIndexStart returns the index of the first block that is not entirely
// before addr, i.e. the first block with endex > addr. A block containing
// addr is included. It returns the list length if no such block exists.
func (m *Memory) blockIndexStart(addr int64) int {
	return sort.Search(len(m.blocks), func(i int) bool {
		return m.blocks[i].Endex() > addr
	})
}

// blockIndexEndex returns the index one past the last block that starts
// before addr, i.e. the number of blocks with start < addr.
func (m *Memory) blockIndexEndex(addr int64) int {
	return sort.Search(len(m.blocks), func(i int) bool {
		return m.blocks[i].Start >= addr
	})
}
