package section

import (
	"fmt"
	"math"

	"github.com/arloliu/tidemux/endian"
	"github.com/arloliu/tidemux/errs"
)

// Block is a loaded MUX2 data block: a flat run of float32 slots.
//
// The block does not own its bytes; decode buffers are reused between
// sources within a single merge.
type Block struct {
	data   []byte
	engine endian.EndianEngine
}

// NewBlock wraps raw data block bytes.
//
// Trailing bytes that do not form a whole float32 are ignored.
func NewBlock(data []byte, engine endian.EndianEngine) Block {
	return Block{data: data[:len(data)-len(data)%ValueSize], engine: engine}
}

// Len returns the number of float32 slots in the block.
func (b Block) Len() int {
	return len(b.data) / ValueSize
}

// At returns the raw float32 at slot i.
func (b Block) At(i int) (float32, bool) {
	if i < 0 || i >= b.Len() {
		return 0, false
	}
	off := i * ValueSize

	return math.Float32frombits(b.engine.Uint32(b.data[off : off+ValueSize])), true
}

// Cursor returns a forward-only cursor positioned at slot 0.
func (b Block) Cursor() *Cursor {
	return &Cursor{block: b}
}

// Cursor walks a Block one slot at a time and reports overruns as
// ErrCorruptDataBlock instead of reading past the end.
type Cursor struct {
	block Block
	pos   int
}

// Pos returns the index of the next slot.
func (c *Cursor) Pos() int {
	return c.pos
}

// Skip advances over n slots without reading them.
//
// Skipping may move the cursor up to the end of the block; the overrun is
// reported by the next read, or immediately when the skip itself passes the end.
func (c *Cursor) Skip(n int) error {
	if n < 0 || c.pos+n > c.block.Len() {
		return fmt.Errorf("%w: skip %d slots at %d of %d", errs.ErrCorruptDataBlock, n, c.pos, c.block.Len())
	}
	c.pos += n

	return nil
}

// Next reads the slot under the cursor and advances.
func (c *Cursor) Next() (float32, error) {
	v, ok := c.block.At(c.pos)
	if !ok {
		return 0, fmt.Errorf("%w: read at slot %d of %d", errs.ErrCorruptDataBlock, c.pos, c.block.Len())
	}
	c.pos++

	return v, nil
}

// NextSample reads the slot under the cursor as a Sample.
func (c *Cursor) NextSample() (Sample, error) {
	v, err := c.Next()
	if err != nil {
		return Missing, err
	}

	return SampleFromWire(v), nil
}
