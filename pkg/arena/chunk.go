package arena

import (
	"unsafe"

	"github.com/tetsuo/arena/internal/debug"
	"github.com/tetsuo/arena/pkg/opt"
	"github.com/tetsuo/arena/pkg/xunsafe"
	"github.com/tetsuo/arena/pkg/xunsafe/layout"
)

// chunk is a single contiguous span of bytes owned by an [Arena]. Chunks
// bump-allocate downward: off starts at len(buf) and decreases towards zero
// as bytes are handed out, so the live region of a chunk is buf[off:].
//
// A chunk never shrinks except through reset, and its prev link threads it
// onto the older chunks allocated before it.
type chunk struct {
	buf  []byte
	off  int
	prev opt.Option[*chunk]
}

func newChunk(size int, prev opt.Option[*chunk]) *chunk {
	return &chunk{buf: make([]byte, size), off: size, prev: prev}
}

func (c *chunk) cap() int  { return len(c.buf) }
func (c *chunk) used() int { return len(c.buf) - c.off }

// basePtr returns a pointer to the first byte of the chunk's backing array.
//
// This must only be called on a chunk with a non-empty buf; a zero-capacity
// chunk has no addressable byte zero.
func (c *chunk) basePtr() *byte {
	return unsafe.SliceData(c.buf)
}

// base returns the address of the first byte of the chunk's backing array.
func (c *chunk) base() uintptr {
	return uintptr(unsafe.Pointer(c.basePtr()))
}

// alloc attempts to satisfy a request for size bytes aligned to align (a
// power of two, already widened to account for the arena's minimum
// alignment) from the chunk's remaining space. It reports false without
// mutating the chunk if the chunk cannot satisfy the request.
//
// align must be a power of two; this is the caller's responsibility to
// enforce, see [validateLayout].
func (c *chunk) alloc(size, align int) (unsafe.Pointer, bool) {
	if size > c.off {
		// Not enough room, even ignoring alignment padding. Comparing against
		// off rather than subtracting avoids ever computing a negative or
		// wrapped offset.
		return nil, false
	}

	base := c.basePtr()
	bump := xunsafe.ByteAdd[byte](base, c.off)
	unaligned := xunsafe.ByteAdd[byte](bump, -size)

	alignedAddr := layout.RoundDown(uintptr(unsafe.Pointer(unaligned)), uintptr(align))
	aligned := (*byte)(unsafe.Pointer(alignedAddr))

	off := xunsafe.ByteSub(aligned, base)
	if off < 0 {
		return nil, false
	}

	c.off = off
	debug.Log(nil, "chunk.alloc", "size=%d align=%d -> %#x (off=%d/%d)", size, align, alignedAddr, c.off, len(c.buf))

	return unsafe.Pointer(aligned), true
}

// resetOffset makes the chunk's entire capacity available again, as if it
// had just been allocated.
func (c *chunk) resetOffset() {
	c.off = len(c.buf)
}

// prevChunk returns the chunk allocated before c, if any.
func (c *chunk) prevChunk() (*chunk, bool) {
	if c.prev.IsNone() {
		return nil, false
	}
	return c.prev.Unwrap(), true
}
