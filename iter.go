package sparse

// End marks the terminating address of a value iteration.
type End struct {
	addr      int64
	unbounded bool
}

// Bounded returns an End stopping the iteration at addr (exclusive).
func Bounded(addr int64) End { return End{addr: addr} }

// Unbounded is an End that never stops the iteration. Unbounded sequences
// are meant for streaming into a bounded buffer; they can only be
// restarted by constructing a new iterator.
var Unbounded = End{unbounded: true}

// --------------------------------------------------------------------

// ValueIterator lazily walks one value per address in ascending order.
// Mutating the store while an iteration is in progress is undefined
// behaviour.
type ValueIterator struct {
	m       *Memory
	next    int64
	end     End
	pattern []byte
	anchor  int64
	hint    int

	addr int64
	val  byte
	ok   bool
}

// Values returns an iterator over the values from start up to end. With a
// non-empty pattern, empty addresses yield the pattern value instead of an
// empty marker; the pattern phase is anchored at start.
func (m *Memory) Values(start int64, end End, pattern []byte) *ValueIterator {
	return &ValueIterator{
		m:       m,
		next:    start,
		end:     end,
		pattern: pattern,
		anchor:  start,
		hint:    m.blockIndexStart(start),
	}
}

// More returns true if more addresses can be iterated.
func (it *ValueIterator) More() bool {
	return it.end.unbounded || it.next < it.end.addr
}

// Next advances the cursor to the next address and returns true if
// successful.
func (it *ValueIterator) Next() bool {
	if !it.More() {
		return false
	}
	it.addr = it.next
	it.next++

	blocks := it.m.blocks
	for it.hint < len(blocks) && blocks[it.hint].Endex() <= it.addr {
		it.hint++
	}
	if it.hint < len(blocks) && blocks[it.hint].Start <= it.addr {
		b := blocks[it.hint]
		it.val, it.ok = b.Data[it.addr-b.Start], true
	} else if len(it.pattern) != 0 {
		p := int64(len(it.pattern))
		off := (it.addr - it.anchor) % p
		if off < 0 {
			off += p
		}
		it.val, it.ok = it.pattern[off], true
	} else {
		it.val, it.ok = 0, false
	}
	return true
}

// Addr returns the address of the current entry.
func (it *ValueIterator) Addr() int64 { return it.addr }

// Value returns the value of the current entry, or false if the address is
// empty and no pattern was given.
func (it *ValueIterator) Value() (byte, bool) { return it.val, it.ok }

// --------------------------------------------------------------------

// SpanIterator lazily walks the content intervals, or the gaps between
// them, inside a range. Mutating the store while an iteration is in
// progress is undefined behaviour.
type SpanIterator struct {
	m      *Memory
	gaps   bool
	i      int
	cursor int64
	endex  int64
	done   bool

	cur Span
}

// Intervals returns an iterator over the content intervals overlapping
// [start, endex), clipped to that range.
func (m *Memory) Intervals(start, endex int64) *SpanIterator {
	return &SpanIterator{
		m:      m,
		i:      m.blockIndexStart(start),
		cursor: start,
		endex:  endex,
	}
}

// Gaps returns an iterator over the empty spans inside [start, endex).
func (m *Memory) Gaps(start, endex int64) *SpanIterator {
	return &SpanIterator{
		m:      m,
		gaps:   true,
		i:      m.blockIndexStart(start),
		cursor: start,
		endex:  endex,
	}
}

// Next advances the cursor to the next span and returns true if
// successful.
func (it *SpanIterator) Next() bool {
	if it.done || it.cursor >= it.endex {
		return false
	}

	blocks := it.m.blocks
	if it.gaps {
		for ; it.i <= len(blocks); it.i++ {
			gapEndex := it.endex
			if it.i < len(blocks) && blocks[it.i].Start < it.endex {
				gapEndex = blocks[it.i].Start
			}
			if it.cursor < gapEndex {
				it.cur = Span{Start: it.cursor, Endex: gapEndex}
				if it.i < len(blocks) {
					it.cursor = blocks[it.i].Endex()
					it.i++
				} else {
					it.done = true
				}
				return true
			}
			if it.i >= len(blocks) || blocks[it.i].Start >= it.endex {
				break
			}
			if e := blocks[it.i].Endex(); e > it.cursor {
				it.cursor = e
			}
		}
		it.done = true
		return false
	}

	if it.i < len(blocks) && blocks[it.i].Start < it.endex {
		b := blocks[it.i]
		it.i++
		it.cur = Span{Start: max(b.Start, it.cursor), Endex: min(b.Endex(), it.endex)}
		return true
	}
	it.done = true
	return false
}

// Span returns the current span.
func (it *SpanIterator) Span() Span { return it.cur }
