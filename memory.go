package sparse

import (
	"bytes"
	"fmt"
	"slices"
)

// Memory is a sparse byte-addressable store. It owns an ordered list of
// non-overlapping, non-touching blocks plus an optional bound window which
// clips all content.
//
// A Memory is not safe for concurrent use; callers must serialise access.
type Memory struct {
	blocks []Block

	boundStart, boundEndex       int64
	hasBoundStart, hasBoundEndex bool
}

// New creates an empty store.
func New() *Memory {
	return &Memory{}
}

// FromBytes creates a store holding a copy of data at offset.
func FromBytes(data []byte, offset int64) *Memory {
	m := New()
	if len(data) != 0 {
		m.blocks = []Block{{Start: offset, Data: slices.Clone(data)}}
	}
	return m
}

// FromBlocks creates a store from an explicit block list. The block
// buffers are copied and the list is validated.
func FromBlocks(blocks []Block) (*Memory, error) {
	m := New()
	for _, b := range blocks {
		m.blocks = append(m.blocks, Block{Start: b.Start, Data: slices.Clone(b.Data)})
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return m, nil
}

// Copy returns a deep copy; the new store shares no buffers with m.
func (m *Memory) Copy() *Memory {
	out := &Memory{
		blocks:        make([]Block, 0, len(m.blocks)),
		boundStart:    m.boundStart,
		boundEndex:    m.boundEndex,
		hasBoundStart: m.hasBoundStart,
		hasBoundEndex: m.hasBoundEndex,
	}
	for _, b := range m.blocks {
		out.blocks = append(out.blocks, Block{Start: b.Start, Data: slices.Clone(b.Data)})
	}
	return out
}

// Blocks returns a deep copy of the block list.
func (m *Memory) Blocks() []Block {
	out := make([]Block, 0, len(m.blocks))
	for _, b := range m.blocks {
		out = append(out, Block{Start: b.Start, Data: slices.Clone(b.Data)})
	}
	return out
}

// NumBlocks returns the number of stored blocks.
func (m *Memory) NumBlocks() int { return len(m.blocks) }

// IsEmpty reports whether the store holds no data.
func (m *Memory) IsEmpty() bool { return len(m.blocks) == 0 }

// ContentLen returns the number of defined byte values.
func (m *Memory) ContentLen() int64 {
	var n int64
	for _, b := range m.blocks {
		n += int64(len(b.Data))
	}
	return n
}

// --------------------------------------------------------------------

// Start returns the inclusive start address of the store: the lower bound
// if set, else the first block start, else 0.
func (m *Memory) Start() int64 {
	if m.hasBoundStart {
		return m.boundStart
	}
	if len(m.blocks) != 0 {
		return m.blocks[0].Start
	}
	return 0
}

// Endex returns the exclusive end address of the store: the upper bound if
// set, else the last block endex, else Start.
func (m *Memory) Endex() int64 {
	if m.hasBoundEndex {
		return m.boundEndex
	}
	if len(m.blocks) != 0 {
		return m.blocks[len(m.blocks)-1].Endex()
	}
	return m.Start()
}

// Span returns [Start, Endex).
func (m *Memory) Span() (start, endex int64) {
	return m.Start(), m.Endex()
}

// ContentStart returns the start address of the actual data, ignoring the
// bound window unless the store is empty.
func (m *Memory) ContentStart() int64 {
	if len(m.blocks) != 0 {
		return m.blocks[0].Start
	}
	return m.Start()
}

// ContentEndex returns the end address of the actual data, ignoring the
// bound window unless the store is empty.
func (m *Memory) ContentEndex() int64 {
	if len(m.blocks) != 0 {
		return m.blocks[len(m.blocks)-1].Endex()
	}
	return m.Start()
}

// ContentSpan returns [ContentStart, ContentEndex).
func (m *Memory) ContentSpan() (start, endex int64) {
	return m.ContentStart(), m.ContentEndex()
}

// --------------------------------------------------------------------

// BoundStart returns the lower bound address, if set.
func (m *Memory) BoundStart() (int64, bool) { return m.boundStart, m.hasBoundStart }

// BoundEndex returns the upper bound address, if set.
func (m *Memory) BoundEndex() (int64, bool) { return m.boundEndex, m.hasBoundEndex }

// SetBoundStart sets the lower bound and crops any content below it. An
// upper bound below addr is raised to addr.
func (m *Memory) SetBoundStart(addr int64) {
	m.boundStart, m.hasBoundStart = addr, true
	if m.hasBoundEndex && m.boundEndex < addr {
		m.boundEndex = addr
	}
	if len(m.blocks) != 0 {
		m.erase(m.blocks[0].Start, addr, false)
	}
}

// SetBoundEndex sets the upper bound and crops any content at or above it.
// A lower bound above addr is lowered to addr.
func (m *Memory) SetBoundEndex(addr int64) {
	m.boundEndex, m.hasBoundEndex = addr, true
	if m.hasBoundStart && m.boundStart > addr {
		m.boundStart = addr
	}
	if len(m.blocks) != 0 {
		m.erase(addr, m.blocks[len(m.blocks)-1].Endex(), false)
	}
}

// UnsetBoundStart removes the lower bound.
func (m *Memory) UnsetBoundStart() { m.boundStart, m.hasBoundStart = 0, false }

// UnsetBoundEndex removes the upper bound.
func (m *Memory) UnsetBoundEndex() { m.boundEndex, m.hasBoundEndex = 0, false }

// bound clamps a range to the active bound window.
func (m *Memory) bound(start, endex int64) (int64, int64) {
	if m.hasBoundStart && start < m.boundStart {
		start = m.boundStart
	}
	if m.hasBoundEndex && endex > m.boundEndex {
		endex = m.boundEndex
	}
	if endex < start {
		endex = start
	}
	return start, endex
}

// pretrimStart erases the content that a translation of size addresses
// towards the start would push below the lower bound.
func (m *Memory) pretrimStart(size int64) {
	if !m.hasBoundStart || size <= 0 || len(m.blocks) == 0 {
		return
	}
	m.erase(m.blocks[0].Start, m.boundStart+size, false)
}

// pretrimEndex erases the content at or after startMin that a translation
// of size addresses towards the end would push past the upper bound.
func (m *Memory) pretrimEndex(startMin, size int64) {
	if !m.hasBoundEndex || size <= 0 || len(m.blocks) == 0 {
		return
	}
	start := m.boundEndex - size
	if start < startMin {
		start = startMin
	}
	m.erase(start, m.blocks[len(m.blocks)-1].Endex(), false)
}

// --------------------------------------------------------------------

// Validate checks the block list invariant: blocks must be non-empty,
// address-ascending, non-overlapping, separated by at least one empty
// address, and confined to the bound window.
func (m *Memory) Validate() error {
	for i, b := range m.blocks {
		if len(b.Data) == 0 {
			return fmt.Errorf("sparse: invalid block %d at %d: zero length", i, b.Start)
		}
		if i > 0 {
			if prev := m.blocks[i-1]; b.Start <= prev.Endex() {
				return fmt.Errorf("sparse: invalid block %d at %d: overlaps or touches block ending at %d", i, b.Start, prev.Endex())
			}
		}
	}
	if len(m.blocks) != 0 {
		if m.hasBoundStart && m.blocks[0].Start < m.boundStart {
			return fmt.Errorf("sparse: content at %d below lower bound %d", m.blocks[0].Start, m.boundStart)
		}
		if last := m.blocks[len(m.blocks)-1]; m.hasBoundEndex && last.Endex() > m.boundEndex {
			return fmt.Errorf("sparse: content up to %d past upper bound %d", last.Endex(), m.boundEndex)
		}
	}
	return nil
}

// Equal reports whether two stores hold the same content. Bound windows
// are not compared.
func (m *Memory) Equal(other *Memory) bool {
	if len(m.blocks) != len(other.blocks) {
		return false
	}
	for i, b := range m.blocks {
		o := other.blocks[i]
		if b.Start != o.Start || !bytes.Equal(b.Data, o.Data) {
			return false
		}
	}
	return true
}

// --------------------------------------------------------------------

// View returns a zero-copy look at the contiguous sub-range
// [start, endex). It fails with ErrNonContiguous if the range spans a gap.
// The returned slice aliases the store and must not be used across
// mutations.
func (m *Memory) View(start, endex int64) ([]byte, error) {
	if endex <= start {
		return nil, nil
	}
	if i, ok := m.blockIndexAt(start); ok {
		if b := m.blocks[i]; endex <= b.Endex() {
			return b.Data[start-b.Start : endex-b.Start], nil
		}
	}
	return nil, ErrNonContiguous
}

// ToBytes returns a copy of the contiguous sub-range [start, endex).
// It fails with ErrNonContiguous if the range spans a gap.
func (m *Memory) ToBytes(start, endex int64) ([]byte, error) {
	v, err := m.View(start, endex)
	if err != nil {
		return nil, err
	}
	return slices.Clone(v), nil
}

// gapsWithin collects the empty spans inside [start, endex).
func (m *Memory) gapsWithin(start, endex int64) []span {
	var out []span
	cursor := start
	for i := m.blockIndexStart(start); i < len(m.blocks) && cursor < endex; i++ {
		b := m.blocks[i]
		if b.Start >= endex {
			break
		}
		if b.Start > cursor {
			out = append(out, span{cursor, b.Start})
		}
		if b.Endex() > cursor {
			cursor = b.Endex()
		}
	}
	if cursor < endex {
		out = append(out, span{cursor, endex})
	}
	return out
}
