package sparse

import (
	"slices"
	"sort"
)

// erase removes the byte range [start, endex) from the block list.
//
// With shiftAfter, every block at or after endex is translated left to
// close the gap and the blocks flanking the closed gap are merged if they
// end up touching (delete semantics). Without shiftAfter the range becomes
// a permanent gap, no block moves and no merge is attempted (clear
// semantics).
func (m *Memory) erase(start, endex int64, shiftAfter bool) {
	if endex <= start {
		return
	}

	lo := m.blockIndexStart(start)
	hi := m.blockIndexEndex(endex)

	if lo < hi {
		first, last := m.blocks[lo], m.blocks[hi-1]

		if lo == hi-1 && first.Start < start && endex < first.Endex() {
			// the range lies strictly inside a single block
			if shiftAfter {
				m.blocks[lo].Data = slices.Delete(first.Data, int(start-first.Start), int(endex-first.Start))
			} else {
				tail := slices.Clone(first.Data[endex-first.Start:])
				m.blocks[lo].Data = first.Data[:start-first.Start]
				m.blocks = slices.Insert(m.blocks, lo+1, Block{Start: endex, Data: tail})
			}
		} else {
			if first.Start < start { // trim the tail of the first block
				m.blocks[lo].Data = first.Data[:start-first.Start]
				lo++
			}
			if endex < last.Endex() { // trim the head of the last block
				m.blocks[hi-1].Start = endex
				m.blocks[hi-1].Data = last.Data[endex-last.Start:]
				hi--
			}
			if lo < hi { // drop the fully covered blocks
				m.blocks = slices.Delete(m.blocks, lo, hi)
			}
		}
	}

	if shiftAfter {
		size := endex - start
		j := sort.Search(len(m.blocks), func(i int) bool {
			return m.blocks[i].Start >= endex
		})
		for i := j; i < len(m.blocks); i++ {
			m.blocks[i].Start -= size
		}
		if j > 0 && j < len(m.blocks) && m.blocks[j-1].Endex() == m.blocks[j].Start {
			m.blocks[j-1].Data = append(m.blocks[j-1].Data, m.blocks[j].Data...)
			m.blocks = slices.Delete(m.blocks, j, j+1)
		}
	}
}

// place splices data into the block list at addr. The data buffer is
// copied, never aliased.
//
// With shiftAfter, every block at or after addr is first translated right
// by len(data) (insert semantics). Without shiftAfter the gap at addr is
// assumed to be large enough and no block moves (write semantics). In both
// modes blocks that end up touching are merged.
func (m *Memory) place(addr int64, data []byte, shiftAfter bool) {
	if len(data) == 0 {
		return
	}
	size := int64(len(data))
	i := m.blockIndexStart(addr)

	// extend the predecessor when it ends exactly at addr
	if i > 0 && m.blocks[i-1].Endex() == addr {
		m.blocks[i-1].Data = append(m.blocks[i-1].Data, data...)
		if shiftAfter {
			for k := i; k < len(m.blocks); k++ {
				m.blocks[k].Start += size
			}
		}
		m.mergeAt(i)
		return
	}

	if i < len(m.blocks) {
		b := &m.blocks[i]
		if shiftAfter && b.Start < addr {
			// splice into the middle of an existing block
			b.Data = slices.Insert(b.Data, int(addr-b.Start), data...)
			for k := i + 1; k < len(m.blocks); k++ {
				m.blocks[k].Start += size
			}
			return
		}
		if !shiftAfter && b.Start == addr+size {
			// prepend to the successor
			b.Start = addr
			b.Data = slices.Insert(b.Data, 0, data...)
			return
		}
	}

	m.blocks = slices.Insert(m.blocks, i, Block{Start: addr, Data: slices.Clone(data)})
	if shiftAfter {
		for k := i + 1; k < len(m.blocks); k++ {
			m.blocks[k].Start += size
		}
		m.mergeAt(i + 1)
	}
}

// mergeAt merges blocks i-1 and i when they touch.
func (m *Memory) mergeAt(i int) {
	if i > 0 && i < len(m.blocks) && m.blocks[i-1].Endex() == m.blocks[i].Start {
		m.blocks[i-1].Data = append(m.blocks[i-1].Data, m.blocks[i].Data...)
		m.blocks = slices.Delete(m.blocks, i, i+1)
	}
}
