package sparse

// Backups capture the minimal state destroyed by a mutating operation,
// before the operation runs; the paired restore reapplies exactly that
// state. The store keeps no history itself: callers chaining several
// operations must keep their own stack of backups and restore them in
// reverse chronological order.

// snapshot captures [start, endex) with the span remembered as the bound
// window of the result, so edge emptiness restores exactly.
func (m *Memory) snapshot(start, endex int64) *Memory {
	return m.Extract(start, endex, nil, 1, true)
}

// restoreSpan clears the backup's span and writes its content back.
func (m *Memory) restoreSpan(backup *Memory) {
	start, endex := backup.Span()
	m.Clear(start, endex)
	m.WriteMemory(0, backup, false)
}

// --------------------------------------------------------------------

// WriteBackup captures the span that Write(addr, data) with len(data) ==
// size will overwrite.
func (m *Memory) WriteBackup(addr, size int64) *Memory {
	return m.snapshot(addr, addr+size)
}

// WriteRestore reverts the paired Write.
func (m *Memory) WriteRestore(backup *Memory) {
	m.restoreSpan(backup)
}

// WriteMemoryBackup captures the spans that WriteMemory(addr, src, clear)
// will overwrite: the whole matching span with clear, else one span per
// source block.
func (m *Memory) WriteMemoryBackup(addr int64, src *Memory, clear bool) []*Memory {
	if clear {
		return []*Memory{m.snapshot(src.Start()+addr, src.Endex()+addr)}
	}
	out := make([]*Memory, 0, len(src.blocks))
	for _, b := range src.blocks {
		out = append(out, m.snapshot(b.Start+addr, b.Endex()+addr))
	}
	return out
}

// WriteMemoryRestore reverts the paired WriteMemory.
func (m *Memory) WriteMemoryRestore(backups []*Memory) {
	for i := len(backups) - 1; i >= 0; i-- {
		m.restoreSpan(backups[i])
	}
}

// InsertBackup captures the state Insert(addr, data) with len(data) ==
// size destroys: the tail content that the upper bound forces out.
func (m *Memory) InsertBackup(addr, size int64) *Memory {
	if _, ok := m.BoundEndex(); !ok || size <= 0 || len(m.blocks) == 0 {
		return nil
	}
	start := m.boundEndex - size
	if start < addr {
		start = addr
	}
	return m.snapshot(start, m.ContentEndex())
}

// InsertRestore reverts the paired Insert of size bytes at addr.
func (m *Memory) InsertRestore(addr, size int64, backup *Memory) {
	m.erase(addr, addr+size, true)
	if backup != nil {
		m.restoreSpan(backup)
	}
}

// DeleteBackup captures the span that Delete(start, endex) removes.
func (m *Memory) DeleteBackup(start, endex int64) *Memory {
	start, endex = m.bound(start, endex)
	return m.snapshot(start, endex)
}

// DeleteRestore reverts the paired Delete.
func (m *Memory) DeleteRestore(backup *Memory) {
	start, endex := backup.Span()
	m.Reserve(start, endex-start)
	m.WriteMemory(0, backup, false)
}

// ClearBackup captures the span that Clear(start, endex) empties.
func (m *Memory) ClearBackup(start, endex int64) *Memory {
	start, endex = m.bound(start, endex)
	return m.snapshot(start, endex)
}

// ClearRestore reverts the paired Clear.
func (m *Memory) ClearRestore(backup *Memory) {
	m.restoreSpan(backup)
}

// FillBackup captures the span that Fill(start, endex, pattern)
// overwrites.
func (m *Memory) FillBackup(start, endex int64) *Memory {
	start, endex = m.bound(start, endex)
	return m.snapshot(start, endex)
}

// FillRestore reverts the paired Fill.
func (m *Memory) FillRestore(backup *Memory) {
	m.restoreSpan(backup)
}

// FloodBackup captures the gaps inside [start, endex) that
// Flood(start, endex, pattern) will fill.
func (m *Memory) FloodBackup(start, endex int64) []Span {
	start, endex = m.bound(start, endex)
	gaps := m.gapsWithin(start, endex)
	out := make([]Span, 0, len(gaps))
	for _, g := range gaps {
		out = append(out, Span{Start: g.start, Endex: g.endex})
	}
	return out
}

// FloodRestore reverts the paired Flood by re-clearing exactly the gaps
// that existed before it.
func (m *Memory) FloodRestore(gaps []Span) {
	for _, g := range gaps {
		m.Clear(g.Start, g.Endex)
	}
}

// AlignBackup captures the gaps that Align(modulo, start, endex, pattern)
// will fill.
func (m *Memory) AlignBackup(modulo, start, endex int64) []Span {
	if modulo < 2 {
		return nil
	}
	start, endex = m.bound(start, endex)
	var out []Span
	for _, s := range m.alignSpans(modulo, start, endex) {
		for _, g := range m.gapsWithin(s.start, s.endex) {
			out = append(out, Span{Start: g.start, Endex: g.endex})
		}
	}
	return out
}

// AlignRestore reverts the paired Align.
func (m *Memory) AlignRestore(gaps []Span) {
	m.FloodRestore(gaps)
}

// CropBackup captures the two edge spans that Crop(start, endex) discards.
func (m *Memory) CropBackup(start, endex int64) (head, tail *Memory) {
	if len(m.blocks) == 0 {
		return nil, nil
	}
	if endex < start {
		endex = start
	}
	if cs := m.blocks[0].Start; cs < start {
		head = m.snapshot(cs, start)
	}
	if ce := m.blocks[len(m.blocks)-1].Endex(); endex < ce {
		tail = m.snapshot(endex, ce)
	}
	return head, tail
}

// CropRestore reverts the paired Crop.
func (m *Memory) CropRestore(head, tail *Memory) {
	if head != nil {
		m.WriteMemory(0, head, false)
	}
	if tail != nil {
		m.WriteMemory(0, tail, false)
	}
}

// ShiftBackup captures the content that Shift(offset) trims against the
// bound window before translating.
func (m *Memory) ShiftBackup(offset int64) *Memory {
	if len(m.blocks) == 0 {
		return nil
	}
	if offset < 0 {
		if m.hasBoundStart {
			return m.snapshot(m.blocks[0].Start, m.boundStart-offset)
		}
	} else if offset > 0 {
		if m.hasBoundEndex {
			start := m.boundEndex - offset
			if cs := m.blocks[0].Start; start < cs {
				start = cs
			}
			return m.snapshot(start, m.blocks[len(m.blocks)-1].Endex())
		}
	}
	return nil
}

// ShiftRestore reverts the paired Shift.
func (m *Memory) ShiftRestore(offset int64, backup *Memory) {
	if offset != 0 && len(m.blocks) != 0 {
		for i := range m.blocks {
			m.blocks[i].Start -= offset
		}
	}
	if backup != nil {
		m.WriteMemory(0, backup, false)
	}
}

// ReserveBackup captures the tail content that Reserve(addr, size) trims
// against the upper bound.
func (m *Memory) ReserveBackup(addr, size int64) *Memory {
	addr, _ = m.bound(addr, addr)
	if !m.hasBoundEndex || size <= 0 || len(m.blocks) == 0 {
		return nil
	}
	start := m.boundEndex - size
	if start < addr {
		start = addr
	}
	return m.snapshot(start, m.ContentEndex())
}

// ReserveRestore reverts the paired Reserve of size addresses at addr.
func (m *Memory) ReserveRestore(addr, size int64, backup *Memory) {
	addr, _ = m.bound(addr, addr)
	m.erase(addr, addr+size, true)
	if backup != nil {
		m.restoreSpan(backup)
	}
}

// PokeBackup captures the previous value at addr.
func (m *Memory) PokeBackup(addr int64) (byte, bool) {
	return m.Peek(addr)
}

// PokeRestore reverts the paired Poke or PokeNone at addr.
func (m *Memory) PokeRestore(addr int64, value byte, ok bool) {
	if ok {
		m.Poke(addr, value)
	} else {
		m.PokeNone(addr)
	}
}

// PopBackup captures the address and value that Pop removes.
func (m *Memory) PopBackup() (int64, byte, bool) {
	if len(m.blocks) == 0 {
		return 0, 0, false
	}
	b := m.blocks[len(m.blocks)-1]
	return b.Endex() - 1, b.Data[len(b.Data)-1], true
}

// PopRestore reverts the paired Pop.
func (m *Memory) PopRestore(addr int64, value byte, ok bool) {
	if ok {
		m.Poke(addr, value)
	}
}

// PopAtBackup captures the previous value at addr.
func (m *Memory) PopAtBackup(addr int64) (byte, bool) {
	return m.Peek(addr)
}

// PopAtRestore reverts the paired PopAt by re-opening the address and
// writing the previous value back.
func (m *Memory) PopAtRestore(addr int64, value byte, ok bool) {
	m.Reserve(addr, 1)
	if ok {
		m.Poke(addr, value)
	}
}

// PopItemRestore reverts the paired PopItem.
func (m *Memory) PopItemRestore(addr int64, value byte) {
	m.Poke(addr, value)
}

// RemoveBackup captures the span that Remove(needle) deletes, or nil when
// the needle is absent.
func (m *Memory) RemoveBackup(needle []byte) *Memory {
	p := m.Find(needle, m.ContentStart(), m.ContentEndex())
	if p < 0 {
		return nil
	}
	return m.snapshot(p, p+int64(len(needle)))
}

// RemoveRestore reverts the paired Remove.
func (m *Memory) RemoveRestore(backup *Memory) {
	if backup != nil {
		m.DeleteRestore(backup)
	}
}

// SetDefaultBackup captures the previous value at addr.
func (m *Memory) SetDefaultBackup(addr int64) (byte, bool) {
	return m.Peek(addr)
}

// SetDefaultRestore reverts the paired SetDefault.
func (m *Memory) SetDefaultRestore(addr int64, value byte, ok bool) {
	if !ok {
		m.PokeNone(addr)
	}
}

// AppendBackup captures the content endex before an Append.
func (m *Memory) AppendBackup() int64 {
	return m.ContentEndex()
}

// AppendRestore reverts the paired Append by clearing everything from the
// captured content endex on.
func (m *Memory) AppendRestore(contentEndex int64) {
	m.Clear(contentEndex, m.ContentEndex())
}

// ExtendBackup captures the content endex before an Extend.
func (m *Memory) ExtendBackup() int64 {
	return m.ContentEndex()
}

// ExtendRestore reverts the paired Extend by clearing everything from the
// captured content endex on.
func (m *Memory) ExtendRestore(contentEndex int64) {
	m.Clear(contentEndex, m.ContentEndex())
}
