package sparse

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/cespare/xxhash/v2"
	"github.com/golang/snappy"
)

// DumpOptions define dump writer specific options.
type DumpOptions struct {
	// BlockSize is the minimum uncompressed size in bytes of each dump
	// block. Default: 4KiB.
	BlockSize int

	// The compression codec to use.
	// Default: SnappyCompression.
	Compression Compression
}

func (o *DumpOptions) norm() *DumpOptions {
	var oo DumpOptions
	if o != nil {
		oo = *o
	}

	if oo.BlockSize < 1 {
		oo.BlockSize = 1 << 12
	}
	if !oo.Compression.isValid() {
		oo.Compression = SnappyCompression
	}

	return &oo
}

// Writer instances serialise sparse runs into a dump.
type Writer struct {
	w io.Writer
	o *DumpOptions

	block blockInfo // the current block info
	blen  int       // the number of runs in the current block
	prev  int64     // endex of the last run within the current block

	buf []byte // plain buffer
	snp []byte // snappy buffer
	tmp []byte // scratch buffer

	index []blockInfo
}

// NewWriter wraps a writer and returns a Writer.
func NewWriter(w io.Writer, o *DumpOptions) *Writer {
	return &Writer{
		w:   w,
		o:   o.norm(),
		tmp: make([]byte, 2*binary.MaxVarintLen64),
	}
}

// Append appends a run of defined bytes to the dump. Runs must be appended
// in address order and must not overlap or touch the previous run.
func (w *Writer) Append(addr int64, data []byte) error {
	if w.tmp == nil {
		return errClosed
	}
	if len(data) == 0 {
		return nil
	}

	if addr <= w.block.MaxEndex && (w.blen != 0 || len(w.index) != 0) {
		return fmt.Errorf("sparse: attempted an out-of-order append, %v must be > %v", addr, w.block.MaxEndex)
	}

	if len(w.buf) != 0 && len(w.buf)+len(data)+2*binary.MaxVarintLen64 > w.o.BlockSize {
		if err := w.flush(); err != nil {
			return err
		}
	}

	base := w.prev // delta-encode against the previous run within the block
	if w.blen == 0 {
		base = 0 // the first run address of a block is absolute
	}

	n := binary.PutVarint(w.tmp[0:], addr-base)
	n += binary.PutUvarint(w.tmp[n:], uint64(len(data)))
	w.buf = append(w.buf, w.tmp[:n]...)
	w.buf = append(w.buf, data...)

	w.blen++
	w.prev = addr + int64(len(data))
	w.block.MaxEndex = w.prev

	return nil
}

// AppendMemory appends every block of a store to the dump.
func (w *Writer) AppendMemory(m *Memory) error {
	for _, b := range m.blocks {
		if err := w.Append(b.Start, b.Data); err != nil {
			return err
		}
	}
	return nil
}

// Close closes the writer
func (w *Writer) Close() error {
	if w.tmp == nil {
		return errClosed
	}
	if err := w.flush(); err != nil {
		return err
	}

	indexOffset := w.block.Offset
	if err := w.writeIndex(); err != nil {
		return err
	}

	if err := w.writeFooter(indexOffset); err != nil {
		return err
	}
	w.tmp = nil
	return nil
}

func (w *Writer) writeIndex() error {
	var prev blockInfo

	for i, ent := range w.index {
		endex := ent.MaxEndex
		off := ent.Offset
		if i != 0 { // delta-encode
			endex -= prev.MaxEndex
			off -= prev.Offset
		}
		prev = ent

		n := binary.PutVarint(w.tmp[0:], endex)
		n += binary.PutUvarint(w.tmp[n:], uint64(off))

		if err := w.writeRaw(w.tmp[:n]); err != nil {
			return err
		}
	}
	return nil
}

func (w *Writer) writeFooter(indexOffset int64) error {
	binary.LittleEndian.PutUint64(w.tmp[0:], uint64(indexOffset))
	if err := w.writeRaw(w.tmp[:8]); err != nil {
		return err
	}
	if err := w.writeRaw(magic); err != nil {
		return err
	}
	return nil
}

func (w *Writer) writeRaw(p []byte) error {
	n, err := w.w.Write(p)
	w.block.Offset += int64(n)
	return err
}

func (w *Writer) flush() error {
	if len(w.buf) == 0 {
		return nil
	}

	var block []byte
	switch w.o.Compression {
	case SnappyCompression:
		w.snp = snappy.Encode(w.snp[:cap(w.snp)], w.buf)
		if len(w.snp) < len(w.buf)-len(w.buf)/4 {
			block = append(w.snp, blockSnappyCompression)
		} else {
			block = append(w.buf, blockNoCompression)
		}
	default:
		block = append(w.buf, blockNoCompression)
	}

	// insert the checksum of the stored payload before the compression tag
	tag := block[len(block)-1]
	binary.LittleEndian.PutUint64(w.tmp, xxhash.Sum64(block[:len(block)-1]))
	block = append(block[:len(block)-1], w.tmp[:8]...)
	block = append(block, tag)

	w.index = append(w.index, w.block)
	w.buf = w.buf[:0]
	w.blen = 0
	w.prev = 0

	return w.writeRaw(block)
}
