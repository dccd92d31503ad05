package sparse

import "fmt"

// Slice selects a range of the store for Get, Set and Del. Omitted edges
// default to the store's own Start and Endex. A Step greater than 1
// decimates the range, sampling every Step-th address; a non-empty Pattern
// instead fills the gaps of a read, and cannot be combined with a stride.
type Slice struct {
	Start, Stop       int64
	HasStart, HasStop bool
	Step              int64
	Pattern           []byte
}

// Range returns a Slice over [start, stop).
func Range(start, stop int64) Slice {
	return Slice{Start: start, Stop: stop, HasStart: true, HasStop: true}
}

// Full returns a Slice over the whole store.
func Full() Slice { return Slice{} }

func (m *Memory) resolve(s Slice) (start, stop int64) {
	start, stop = m.Start(), m.Endex()
	if s.HasStart {
		start = s.Start
	}
	if s.HasStop {
		stop = s.Stop
	}
	if stop < start {
		stop = start
	}
	return start, stop
}

func (s Slice) strided() int64 {
	if s.Step > 1 {
		return s.Step
	}
	return 1
}

// Get returns a sub-store over the selected range. The result's bound
// window is set to the selected span, so edge emptiness is remembered.
// Packing a decimated result into a flat buffer via ToBytes fails with
// ErrNonContiguous if any sampled address was empty.
func (m *Memory) Get(s Slice) (*Memory, error) {
	if s.Step > 1 && len(s.Pattern) != 0 {
		return nil, fmt.Errorf("sparse: pattern not allowed with a stride")
	}
	start, stop := m.resolve(s)
	return m.Extract(start, stop, s.Pattern, s.strided(), true), nil
}

// Set assigns data to the selected range. With a unit stride, a mismatched
// buffer resizes the store: the excess is inserted or deleted past the
// written part. With a stride, the buffer length must match the number of
// sampled addresses exactly.
func (m *Memory) Set(s Slice, data []byte) error {
	start, stop := m.resolve(s)

	if step := s.Step; step > 1 {
		var count int64
		if stop > start {
			count = (stop - start + step - 1) / step
		}
		if int64(len(data)) != count {
			return fmt.Errorf("sparse: attempted to assign %d values to %d strided addresses", len(data), count)
		}
		for i, v := range data {
			m.Poke(start+int64(i)*step, v)
		}
		return nil
	}

	size := stop - start
	switch n := int64(len(data)); {
	case n < size:
		m.Delete(start+n, stop)
	case n > size:
		m.Reserve(stop, n-size)
	}
	m.Write(start, data)
	return nil
}

// Del removes the selected range, shifting the content after it towards
// the start. With a stride, the sampled addresses are deleted one by one,
// from the highest to the lowest.
func (m *Memory) Del(s Slice) {
	start, stop := m.resolve(s)

	if step := s.Step; step > 1 {
		if stop <= start {
			return
		}
		count := (stop - start + step - 1) / step
		for i := count - 1; i >= 0; i-- {
			addr := start + i*step
			m.Delete(addr, addr+1)
		}
		return
	}
	m.Delete(start, stop)
}
