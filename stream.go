package sparse

import (
	"fmt"
	"io"
)

// Stream adapts a store to the io reader/writer/seeker interfaces. The
// cursor starts at the store's start address. Reads only return defined
// data: a cursor inside a gap fails with ErrNonContiguous, a cursor at or
// past the store's endex with io.EOF. Writes overwrite, filling gaps.
//
// A Stream does not own the store; mutating the store through other means
// moves its content under the cursor.
type Stream struct {
	m   *Memory
	pos int64
}

// NewStream returns a stream over m, positioned at its start address.
func NewStream(m *Memory) *Stream {
	return &Stream{m: m, pos: m.Start()}
}

// Memory returns the underlying store.
func (s *Stream) Memory() *Memory { return s.m }

// Seek implements io.Seeker. Offsets are absolute addresses with
// io.SeekStart; negative positions are valid, the address space is signed.
func (s *Stream) Seek(offset int64, whence int) (int64, error) {
	switch whence {
	case io.SeekStart:
		s.pos = offset
	case io.SeekCurrent:
		s.pos += offset
	case io.SeekEnd:
		s.pos = s.m.Endex() + offset
	default:
		return s.pos, fmt.Errorf("sparse: invalid seek whence %d", whence)
	}
	return s.pos, nil
}

// Read implements io.Reader. It reads up to the end of the contiguous
// block under the cursor.
func (s *Stream) Read(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	if s.pos >= s.m.Endex() {
		return 0, io.EOF
	}
	sp, _, ok := s.m.BlockSpan(s.pos)
	if !ok {
		return 0, ErrNonContiguous
	}
	n := min(int64(len(p)), sp.Endex-s.pos)
	v, err := s.m.View(s.pos, s.pos+n)
	if err != nil {
		return 0, err
	}
	copy(p, v)
	s.pos += n
	return int(n), nil
}

// ReadByte implements io.ByteReader.
func (s *Stream) ReadByte() (byte, error) {
	if s.pos >= s.m.Endex() {
		return 0, io.EOF
	}
	v, ok := s.m.Peek(s.pos)
	if !ok {
		return 0, ErrNonContiguous
	}
	s.pos++
	return v, nil
}

// Write implements io.Writer. Data clipped by the store's bound window is
// reported as a short write.
func (s *Stream) Write(p []byte) (int, error) {
	start, endex := s.pos, s.pos+int64(len(p))
	cs, ce := s.m.bound(start, endex)
	s.m.Write(s.pos, p)
	s.pos = endex
	if cs != start || ce != endex {
		return int(ce - cs), io.ErrShortWrite
	}
	return len(p), nil
}

// WriteByte implements io.ByteWriter.
func (s *Stream) WriteByte(v byte) error {
	if cs, ce := s.m.bound(s.pos, s.pos+1); ce-cs != 1 {
		s.pos++
		return io.ErrShortWrite
	}
	s.m.Poke(s.pos, v)
	s.pos++
	return nil
}

// ReadFrom implements io.ReaderFrom, writing everything read from r at
// the cursor.
func (s *Stream) ReadFrom(r io.Reader) (int64, error) {
	var total int64
	buf := make([]byte, 32*1024)
	for {
		n, err := r.Read(buf)
		if n > 0 {
			total += int64(n)
			if _, werr := s.Write(buf[:n]); werr != nil {
				return total, werr
			}
		}
		if err == io.EOF {
			return total, nil
		} else if err != nil {
			return total, err
		}
	}
}

// Truncate discards all content at or after addr, leaving the cursor
// unchanged.
func (s *Stream) Truncate(addr int64) {
	if ce := s.m.ContentEndex(); addr < ce {
		s.m.Clear(addr, ce)
	}
}
