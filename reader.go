package sparse

import (
	"bytes"
	"encoding/binary"
	"io"
	"sort"
	"sync"

	"github.com/cespare/xxhash/v2"
	"github.com/golang/snappy"
)

// Reader instances can seek and iterate across runs in dumps.
type Reader struct {
	r io.ReaderAt

	index     []blockInfo
	maxOffset int64
}

// NewReader opens a dump reader.
func NewReader(r io.ReaderAt, size int64) (*Reader, error) {
	tmp := make([]byte, 16+binary.MaxVarintLen64)

	// read footer
	footerOffset := size - 16
	if footerOffset < 0 {
		return nil, errBadMagic
	}
	if _, err := r.ReadAt(tmp[:16], footerOffset); err != nil {
		return nil, err
	}

	// parse footer
	if !bytes.Equal(tmp[8:16], magic) {
		return nil, errBadMagic
	}
	indexOffset := int64(binary.LittleEndian.Uint64(tmp[:8]))

	// read index
	var index []blockInfo
	var info blockInfo

	for pos := indexOffset; pos < footerOffset; {
		tmp = tmp[:2*binary.MaxVarintLen64]
		if x := footerOffset - pos; x < int64(len(tmp)) {
			tmp = tmp[:int(x)]
		}

		_, err := r.ReadAt(tmp, pos)
		if err != nil {
			return nil, err
		}

		d1, n := binary.Varint(tmp[0:])
		pos += int64(n)

		u2, n2 := binary.Uvarint(tmp[n:])
		pos += int64(n2)

		info.MaxEndex += d1
		info.Offset += int64(u2)
		index = append(index, info)
	}

	return &Reader{
		r: r,

		index:     index, // block offsets
		maxOffset: indexOffset,
	}, nil
}

// NumBlocks returns the number of stored dump blocks.
func (r *Reader) NumBlocks() int {
	return len(r.index)
}

// ReadMemory loads the whole dump into a fresh, validated store.
func (r *Reader) ReadMemory() (*Memory, error) {
	m := New()
	for bpos := 0; bpos < len(r.index); bpos++ {
		b, err := r.readBlock(bpos)
		if err != nil {
			return nil, err
		}
		for b.Next() {
			m.blocks = append(m.blocks, Block{Start: b.Addr(), Data: append([]byte(nil), b.Data()...)})
		}
		b.Release()
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return m, nil
}

// Seek returns an iterator positioned before the first run that is not
// entirely below addr.
func (r *Reader) Seek(addr int64) (*Iterator, error) {
	b, err := r.SeekBlock(addr)
	if err != nil {
		return nil, err
	}

	iter := &Iterator{r: r, b: b}
	for b.Next() {
		if b.Addr()+int64(len(b.Data())) > addr {
			iter.pending = true
			break
		}
	}
	return iter, nil
}

// GetBlock returns a reader for the n-th dump block.
func (r *Reader) GetBlock(bpos int) (*BlockReader, error) {
	if len(r.index) == 0 {
		return &BlockReader{}, nil
	}
	if bpos < 0 {
		bpos = 0
	}
	if bpos >= len(r.index) {
		return &BlockReader{
			bpos: len(r.index),
		}, nil
	}
	return r.readBlock(bpos)
}

// SeekBlock seeks the dump block holding the runs around addr.
func (r *Reader) SeekBlock(addr int64) (*BlockReader, error) {
	bpos := sort.Search(len(r.index), func(i int) bool {
		return r.index[i].MaxEndex > addr
	})
	return r.GetBlock(bpos)
}

func (r *Reader) readBlock(bpos int) (*BlockReader, error) {
	min := r.index[bpos].Offset
	max := r.maxOffset
	if next := bpos + 1; next < len(r.index) {
		max = r.index[next].Offset
	}

	raw := fetchBuffer(int(max - min))
	if _, err := r.r.ReadAt(raw, min); err != nil {
		releaseBuffer(raw)
		return nil, err
	}
	if len(raw) < 10 {
		releaseBuffer(raw)
		return nil, errBadChecksum
	}

	// verify the stored payload against its checksum
	sumPos := len(raw) - 9
	if binary.LittleEndian.Uint64(raw[sumPos:]) != xxhash.Sum64(raw[:sumPos]) {
		releaseBuffer(raw)
		return nil, errBadChecksum
	}

	var block []byte
	switch cBitPos := len(raw) - 1; raw[cBitPos] {
	case blockNoCompression:
		block = raw[:sumPos]
	case blockSnappyCompression:
		defer releaseBuffer(raw)

		sz, err := snappy.DecodedLen(raw[:sumPos])
		if err != nil {
			return nil, err
		}

		plain := fetchBuffer(sz)
		if block, err = snappy.Decode(plain, raw[:sumPos]); err != nil {
			releaseBuffer(plain)
			return nil, err
		}
	default:
		releaseBuffer(raw)
		return nil, errBadCompression
	}

	return &BlockReader{
		block: block,
		bpos:  bpos,
	}, nil
}

// --------------------------------------------------------------------

// BlockReader iterates the runs of a single dump block.
type BlockReader struct {
	block []byte
	bpos  int // the current block position
	read  int // bytes read

	addr int64  // current run start
	data []byte // current run bytes
}

// Pos returns the index position of the current block within the dump.
func (r *BlockReader) Pos() int { return r.bpos }

// More returns true if more runs can be read in the block.
func (r *BlockReader) More() bool { return r.read < len(r.block) }

// Next advances the cursor to the next run within the block and returns
// true if successful.
func (r *BlockReader) Next() bool {
	if !r.More() {
		return false
	}

	delta, n := binary.Varint(r.block[r.read:])
	r.read += n
	base := r.addr + int64(len(r.data))
	if r.data == nil {
		base = 0 // the first run address of a block is absolute
	}
	r.addr = base + delta

	size, n := binary.Uvarint(r.block[r.read:])
	r.read += n
	r.data = r.block[r.read : r.read+int(size)]
	r.read += int(size)
	return true
}

// Addr returns the start address of the current run.
func (r *BlockReader) Addr() int64 { return r.addr }

// Data returns the bytes of the current run. Please note that run bytes
// are temporary buffers and must be copied if used beyond the next cursor
// move.
func (r *BlockReader) Data() []byte { return r.data }

// Release releases the block reader and frees up resources. The reader
// must not be used after this method is called.
func (r *BlockReader) Release() { bufPool.Put(r.block) }

// --------------------------------------------------------------------

// Iterator is a convenience wrapper around BlockReader which can
// (forward-) iterate over runs across dump block boundaries.
type Iterator struct {
	r *Reader
	b *BlockReader

	pending bool
	err     error
}

// Addr returns the start address of the current run.
func (i *Iterator) Addr() int64 { return i.b.Addr() }

// Data returns the bytes of the current run. Please note that run bytes
// are temporary buffers and must be copied if used beyond the next cursor
// move.
func (i *Iterator) Data() []byte { return i.b.Data() }

// More returns true if more runs can be read.
func (i *Iterator) More() bool {
	if i.err != nil {
		return false
	}

	return i.pending || i.b.More() || i.b.Pos()+1 < i.r.NumBlocks()
}

// Next advances the cursor to the next run and returns true if successful.
func (i *Iterator) Next() bool {
	if i.err != nil {
		return false
	}

	// a run already decoded by a seek
	if i.pending {
		i.pending = false
		return true
	}

	// more runs in the block
	if i.b.More() {
		return i.b.Next()
	}

	// more blocks
	if n := i.b.Pos() + 1; n < i.r.NumBlocks() {
		i.b.Release()
		i.b, i.err = i.r.GetBlock(n)
		if i.err != nil {
			return false
		}
		return i.b.Next()
	}

	return false
}

// Err exposes iterator errors, if any.
func (i *Iterator) Err() error {
	return i.err
}

// Release releases the iterator and frees up resources. The iterator must
// not be used after this method is called.
func (i *Iterator) Release() {
	i.b.Release()
	i.err = errReleased
}

// --------------------------------------------------------------------

var bufPool sync.Pool

func fetchBuffer(sz int) []byte {
	if v := bufPool.Get(); v != nil {
		if p := v.([]byte); sz <= cap(p) {
			return p[:sz]
		}
	}
	return make([]byte, sz)
}

func releaseBuffer(p []byte) {
	if cap(p) != 0 {
		bufPool.Put(p)
	}
}
