package sparse

import "errors"

var magic = []byte{137, 83, 80, 82, 13, 10, 26, 10}

const (
	blockNoCompression     = 0
	blockSnappyCompression = 1
)

// ErrNotFound is returned when a value cannot be found within a range.
var ErrNotFound = errors.New("sparse: not found")

// ErrNonContiguous is returned by operations which require a single packed
// buffer when the requested range spans a gap.
var ErrNonContiguous = errors.New("sparse: non-contiguous data within range")

// ErrEmpty is returned when popping from a store that holds no data.
var ErrEmpty = errors.New("sparse: empty store")

var (
	errClosed         = errors.New("sparse: is closed")
	errBadMagic       = errors.New("sparse: bad magic byte sequence")
	errBadCompression = errors.New("sparse: bad compression codec")
	errBadChecksum    = errors.New("sparse: bad block checksum")
	errReleased       = errors.New("sparse: iterator was released")
)

type blockInfo struct {
	MaxEndex int64 // maximum run endex in the block
	Offset   int64 // block offset position
}

// --------------------------------------------------------------------

// Block is a contiguous run of defined byte values anchored at a start
// address. Blocks inside a Memory are always non-empty, address-ascending
// and separated by at least one empty address.
type Block struct {
	Start int64
	Data  []byte
}

// Endex returns the address one past the last value of the block.
func (b Block) Endex() int64 { return b.Start + int64(len(b.Data)) }

// Span marks an address range. An open edge means the range extends past
// the tracked content on that side.
type Span struct {
	Start, Endex         int64
	OpenStart, OpenEndex bool
}

type span struct{ start, endex int64 }

// --------------------------------------------------------------------

// Compression is the compression codec used by dump blocks.
type Compression byte

func (c Compression) isValid() bool {
	return c < unknownCompression
}

// Supported compression codecs
const (
	SnappyCompression Compression = iota
	NoCompression
	unknownCompression
)

// --------------------------------------------------------------------

// tile repeats pattern across [start, endex) with its phase anchored at
// anchor, so that address a always receives pattern[(a-anchor) % len].
func tile(pattern []byte, anchor, start, endex int64) []byte {
	out := make([]byte, endex-start)
	p := int64(len(pattern))
	off := (start - anchor) % p
	if off < 0 {
		off += p
	}
	for i := range out {
		out[i] = pattern[off]
		off++
		if off == p {
			off = 0
		}
	}
	return out
}

func alignDown(addr, modulo int64) int64 {
	r := addr % modulo
	if r < 0 {
		r += modulo
	}
	return addr - r
}

func alignUp(addr, modulo int64) int64 {
	return alignDown(addr+modulo-1, modulo)
}
