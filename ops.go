package sparse

import (
	"bytes"
	"fmt"
	"slices"
)

// Write overwrites the destination range [addr, addr+len(data)) with data.
// The portion falling outside the bound window is dropped.
func (m *Memory) Write(addr int64, data []byte) {
	if len(data) == 0 {
		return
	}
	start, endex := m.bound(addr, addr+int64(len(data)))
	if start >= endex {
		return
	}
	data = data[start-addr : endex-addr]
	m.erase(start, endex, false)
	m.place(start, data, false)
}

// WriteMemory overwrites the destination with a sparse source. Each source
// block is written at its own address translated by addr, so destination
// content under the source's gaps is preserved. With clear, the whole
// destination span matching the source's span is cleared first.
func (m *Memory) WriteMemory(addr int64, src *Memory, clear bool) {
	if src == m {
		src = src.Copy()
	}
	if clear {
		m.Clear(src.Start()+addr, src.Endex()+addr)
	}
	for _, b := range src.blocks {
		m.Write(b.Start+addr, b.Data)
	}
}

// Insert reserves len(data) addresses at addr, shifting the content at or
// after addr towards the end, and writes data into the opened range.
func (m *Memory) Insert(addr int64, data []byte) {
	m.Reserve(addr, int64(len(data)))
	m.Write(addr, data)
}

// Delete removes [start, endex) and shifts the content after it towards
// the start to close the gap.
func (m *Memory) Delete(start, endex int64) {
	start, endex = m.bound(start, endex)
	m.erase(start, endex, true)
}

// Clear empties [start, endex), leaving a permanent gap. No content moves.
func (m *Memory) Clear(start, endex int64) {
	start, endex = m.bound(start, endex)
	m.erase(start, endex, false)
}

// Fill overwrites the whole range [start, endex) with pattern repeated
// cyclically. The pattern phase is anchored at the start argument, before
// any bound clamping.
func (m *Memory) Fill(start, endex int64, pattern []byte) error {
	if len(pattern) == 0 {
		return fmt.Errorf("sparse: empty pattern")
	}
	anchor := start
	start, endex = m.bound(start, endex)
	if start >= endex {
		return nil
	}
	m.erase(start, endex, false)
	m.place(start, tile(pattern, anchor, start, endex), false)
	return nil
}

// Flood fills only the gaps inside [start, endex) with pattern repeated
// cyclically; existing data is untouched. The pattern phase is anchored at
// the start argument, before any bound clamping.
func (m *Memory) Flood(start, endex int64, pattern []byte) error {
	if len(pattern) == 0 {
		return fmt.Errorf("sparse: empty pattern")
	}
	anchor := start
	start, endex = m.bound(start, endex)
	for _, g := range m.gapsWithin(start, endex) {
		m.place(g.start, tile(pattern, anchor, g.start, g.endex), false)
	}
	return nil
}

// Align floods around every content interval touching [start, endex) so
// that the interval's start and endex become multiples of modulo. It is a
// no-op when modulo is 1 or the intervals are already aligned.
func (m *Memory) Align(modulo, start, endex int64, pattern []byte) error {
	if modulo < 1 {
		return fmt.Errorf("sparse: non-positive align modulo %d", modulo)
	}
	if len(pattern) == 0 {
		return fmt.Errorf("sparse: empty pattern")
	}
	if modulo == 1 {
		return nil
	}
	anchor := start
	start, endex = m.bound(start, endex)

	spans := m.alignSpans(modulo, start, endex)
	for _, s := range spans {
		for _, g := range m.gapsWithin(s.start, s.endex) {
			m.place(g.start, tile(pattern, anchor, g.start, g.endex), false)
		}
	}
	return nil
}

// alignSpans returns the modulo-extended spans of the content intervals
// overlapping [start, endex), clamped to the bound window.
func (m *Memory) alignSpans(modulo, start, endex int64) []span {
	var out []span
	for i := m.blockIndexStart(start); i < len(m.blocks); i++ {
		b := m.blocks[i]
		if b.Start >= endex {
			break
		}
		s, e := m.bound(alignDown(b.Start, modulo), alignUp(b.Endex(), modulo))
		out = append(out, span{s, e})
	}
	return out
}

// Crop discards the content outside [start, endex). Unlike the bound
// window, the crop is a one-shot operation and is not persisted.
func (m *Memory) Crop(start, endex int64) {
	if len(m.blocks) == 0 {
		return
	}
	if endex < start {
		endex = start
	}
	if cs := m.blocks[0].Start; cs < start {
		m.erase(cs, start, false)
	}
	if len(m.blocks) == 0 {
		return
	}
	if ce := m.blocks[len(m.blocks)-1].Endex(); endex < ce {
		m.erase(endex, ce, false)
	}
}

// Shift translates every block by offset, dropping the content that the
// translation would push outside the bound window.
func (m *Memory) Shift(offset int64) {
	if offset == 0 || len(m.blocks) == 0 {
		return
	}
	if offset < 0 {
		m.pretrimStart(-offset)
	} else {
		m.pretrimEndex(m.blocks[0].Start, offset)
	}
	for i := range m.blocks {
		m.blocks[i].Start += offset
	}
}

// Reserve inserts size addresses of emptiness at addr, splitting any block
// containing addr and shifting the content at or after addr towards the
// end. Tail overflow past the upper bound is dropped beforehand.
func (m *Memory) Reserve(addr, size int64) {
	if size <= 0 || len(m.blocks) == 0 {
		return
	}
	addr, _ = m.bound(addr, addr)
	m.pretrimEndex(addr, size)

	i := m.blockIndexStart(addr)
	if i < len(m.blocks) && m.blocks[i].Start < addr {
		// split the block containing addr
		b := &m.blocks[i]
		tail := slices.Clone(b.Data[addr-b.Start:])
		b.Data = b.Data[:addr-b.Start]
		m.blocks = slices.Insert(m.blocks, i+1, Block{Start: addr + size, Data: tail})
		i += 2
	}
	for ; i < len(m.blocks); i++ {
		m.blocks[i].Start += size
	}
}

// Extract returns a new store holding a copy of [start, endex). With a
// step greater than 1, every step-th value starting at start is sampled
// and re-packed from start, with a gap wherever the sampled value was
// empty. A non-empty pattern floods the gaps of the result, phase-anchored
// at start. With bound, the result's own bound window is set to the
// extracted span so that edge emptiness is remembered.
func (m *Memory) Extract(start, endex int64, pattern []byte, step int64, bound bool) *Memory {
	out := New()
	if endex < start {
		endex = start
	}

	if step > 1 {
		pos := start
		for addr := start; addr < endex; addr += step {
			if v, ok := m.Peek(addr); ok {
				out.place(pos, []byte{v}, false)
			}
			pos++
		}
		endex = pos
	} else {
		hi := m.blockIndexEndex(endex)
		for i := m.blockIndexStart(start); i < hi; i++ {
			b := m.blocks[i]
			cs, ce := max(b.Start, start), min(b.Endex(), endex)
			if cs < ce {
				out.blocks = append(out.blocks, Block{Start: cs, Data: slices.Clone(b.Data[cs-b.Start : ce-b.Start])})
			}
		}
	}

	if len(pattern) != 0 {
		_ = out.Flood(start, endex, pattern)
	}
	if bound {
		out.boundStart, out.hasBoundStart = start, true
		out.boundEndex, out.hasBoundEndex = endex, true
	}
	return out
}

// Cut extracts [start, endex) and clears the source over the same span, as
// a single atomic move-out.
func (m *Memory) Cut(start, endex int64, bound bool) *Memory {
	out := m.Extract(start, endex, nil, 1, bound)
	m.Clear(start, endex)
	return out
}

// --------------------------------------------------------------------

// Peek returns the value at addr, or false if the address is empty.
func (m *Memory) Peek(addr int64) (byte, bool) {
	if i, ok := m.blockIndexAt(addr); ok {
		b := m.blocks[i]
		return b.Data[addr-b.Start], true
	}
	return 0, false
}

// Poke sets the value at addr, following the same merge rules as a write.
// Addresses outside the bound window are dropped.
func (m *Memory) Poke(addr int64, value byte) {
	if i, ok := m.blockIndexAt(addr); ok {
		b := m.blocks[i]
		b.Data[addr-b.Start] = value
		return
	}
	m.Write(addr, []byte{value})
}

// PokeNone erases the single address addr, leaving a gap.
func (m *Memory) PokeNone(addr int64) {
	m.Clear(addr, addr+1)
}

// --------------------------------------------------------------------

// Find returns the address of the first occurrence of needle inside
// [start, endex), or -1 if absent. Gaps are never matched: the needle must
// lie entirely within one block.
func (m *Memory) Find(needle []byte, start, endex int64) int64 {
	if len(needle) == 0 || endex <= start {
		return -1
	}
	hi := m.blockIndexEndex(endex)
	for i := m.blockIndexStart(start); i < hi; i++ {
		b := m.blocks[i]
		cs, ce := max(b.Start, start), min(b.Endex(), endex)
		if ce-cs < int64(len(needle)) {
			continue
		}
		if n := bytes.Index(b.Data[cs-b.Start:ce-b.Start], needle); n >= 0 {
			return cs + int64(n)
		}
	}
	return -1
}

// RFind returns the address of the last occurrence of needle inside
// [start, endex), or -1 if absent.
func (m *Memory) RFind(needle []byte, start, endex int64) int64 {
	if len(needle) == 0 || endex <= start {
		return -1
	}
	lo := m.blockIndexStart(start)
	for i := m.blockIndexEndex(endex) - 1; i >= lo; i-- {
		b := m.blocks[i]
		cs, ce := max(b.Start, start), min(b.Endex(), endex)
		if ce-cs < int64(len(needle)) {
			continue
		}
		if n := bytes.LastIndex(b.Data[cs-b.Start:ce-b.Start], needle); n >= 0 {
			return cs + int64(n)
		}
	}
	return -1
}

// Index is like Find but fails with ErrNotFound if needle is absent.
func (m *Memory) Index(needle []byte, start, endex int64) (int64, error) {
	if p := m.Find(needle, start, endex); p >= 0 {
		return p, nil
	}
	return 0, ErrNotFound
}

// RIndex is like RFind but fails with ErrNotFound if needle is absent.
func (m *Memory) RIndex(needle []byte, start, endex int64) (int64, error) {
	if p := m.RFind(needle, start, endex); p >= 0 {
		return p, nil
	}
	return 0, ErrNotFound
}

// Count returns the number of non-overlapping occurrences of needle inside
// [start, endex). Occurrences never span gaps.
func (m *Memory) Count(needle []byte, start, endex int64) int64 {
	if len(needle) == 0 || endex <= start {
		return 0
	}
	var n int64
	hi := m.blockIndexEndex(endex)
	for i := m.blockIndexStart(start); i < hi; i++ {
		b := m.blocks[i]
		cs, ce := max(b.Start, start), min(b.Endex(), endex)
		if ce-cs < int64(len(needle)) {
			continue
		}
		n += int64(bytes.Count(b.Data[cs-b.Start:ce-b.Start], needle))
	}
	return n
}

// --------------------------------------------------------------------

// BlockSpan returns the bounds of the whole block or gap containing addr,
// together with the value at addr when inside a block. Gap edges at the
// extremes of content are reported as open.
func (m *Memory) BlockSpan(addr int64) (Span, byte, bool) {
	if i, ok := m.blockIndexAt(addr); ok {
		b := m.blocks[i]
		return Span{Start: b.Start, Endex: b.Endex()}, b.Data[addr-b.Start], true
	}

	var sp Span
	j := m.blockIndexStart(addr)
	if j > 0 {
		sp.Start = m.blocks[j-1].Endex()
	} else {
		sp.OpenStart = true
	}
	if j < len(m.blocks) {
		sp.Endex = m.blocks[j].Start
	} else {
		sp.OpenEndex = true
	}
	return sp, 0, false
}

// EqualSpan returns the maximal homogeneous run containing addr when addr
// is inside a block, or the maximal empty run when addr is in a gap.
func (m *Memory) EqualSpan(addr int64) (Span, byte, bool) {
	i, ok := m.blockIndexAt(addr)
	if !ok {
		return m.BlockSpan(addr)
	}

	b := m.blocks[i]
	off := int(addr - b.Start)
	v := b.Data[off]
	lo, hi := off, off+1
	for lo > 0 && b.Data[lo-1] == v {
		lo--
	}
	for hi < len(b.Data) && b.Data[hi] == v {
		hi++
	}
	return Span{Start: b.Start + int64(lo), Endex: b.Start + int64(hi)}, v, true
}

// --------------------------------------------------------------------

// Append sets the value one past the current content end.
func (m *Memory) Append(value byte) {
	m.Write(m.ContentEndex(), []byte{value})
}

// Extend writes data offset addresses past the current content end.
func (m *Memory) Extend(data []byte, offset int64) error {
	if offset < 0 {
		return fmt.Errorf("sparse: negative extension offset %d", offset)
	}
	m.Write(m.ContentEndex()+offset, data)
	return nil
}

// Pop removes the last value of the content and returns it. It fails with
// ErrEmpty when the store holds no data.
func (m *Memory) Pop() (byte, error) {
	if len(m.blocks) == 0 {
		return 0, ErrEmpty
	}
	b := m.blocks[len(m.blocks)-1]
	v := b.Data[len(b.Data)-1]
	m.erase(b.Endex()-1, b.Endex(), true)
	return v, nil
}

// PopAt removes the address addr, shifting the content after it towards
// the start, and returns the removed value. An empty address is reported
// as false, not as an error.
func (m *Memory) PopAt(addr int64) (byte, bool) {
	v, ok := m.Peek(addr)
	m.erase(addr, addr+1, true)
	return v, ok
}

// PopItem removes the last value of the content and returns it together
// with its address. It fails with ErrEmpty when the store holds no data.
func (m *Memory) PopItem() (int64, byte, error) {
	if len(m.blocks) == 0 {
		return 0, 0, ErrEmpty
	}
	b := m.blocks[len(m.blocks)-1]
	addr, v := b.Endex()-1, b.Data[len(b.Data)-1]
	m.erase(addr, addr+1, false)
	return addr, v, nil
}

// Remove deletes the first occurrence of needle, shifting the content
// after it towards the start. It fails with ErrNotFound if absent.
func (m *Memory) Remove(needle []byte) error {
	p := m.Find(needle, m.ContentStart(), m.ContentEndex())
	if p < 0 {
		return ErrNotFound
	}
	m.Delete(p, p+int64(len(needle)))
	return nil
}

// SetDefault returns the value at addr, setting it to value first when the
// address is empty.
func (m *Memory) SetDefault(addr int64, value byte) byte {
	if v, ok := m.Peek(addr); ok {
		return v
	}
	m.Poke(addr, value)
	return value
}
