// Package arena implements a bump allocator: a memory arena that serves many
// small allocations from large pre-reserved chunks by advancing a single
// bump pointer, and frees everything it holds in one O(1) [Arena.Reset] or
// garbage collection instead of one object at a time.
//
// # Usage
//
//	a := arena.New()
//	p := arena.Alloc(a, MyStruct{X: 1})
//	s := arena.AllocSliceCopy(a, []int{1, 2, 3})
//
//	// Reclaim everything allocated so far in O(1):
//	a.Reset()
//
// # Design
//
// Each chunk bump-allocates downward: its free pointer starts at the end of
// its backing array and decreases towards the base as allocations are
// carved off. This makes aligning the free pointer a single AND-mask
// instead of an add-then-mask, and keeps the hot path to a comparison, a
// subtraction, and a pointer write (see chunk.alloc).
//
// When the head chunk can't satisfy a request, the growth policy
// (see growth.go) sizes a new chunk as
// max(2*previous capacity, bytes needed, a 512-byte floor), links it in
// front of the old head, and the allocation is retried there — which must
// succeed by construction.
//
// # What this package does not do
//
// There is no way to free a single allocation; only [Arena.Reset] (which
// keeps one chunk for reuse) or letting the whole [Arena] become
// unreachable reclaims memory. Arenas are single-owner: nothing here is
// safe to call concurrently from more than one goroutine against the same
// [Arena] without external synchronization.
//
// Arenas are designed to only return pointers to data with pointer-free
// shape: a chunk's backing store is a plain []byte, which the garbage
// collector treats as containing no pointers. The typed helpers in
// alloc.go ([Alloc], [AllocWith], [AllocSliceCopy], and the rest) enforce
// this at the call site — T may not itself be, or contain, a pointer,
// slice, string, map, channel, func, or interface, since writing one into
// the arena's backing array would hide it from the collector.
package arena

import (
	"unsafe"

	"github.com/tetsuo/arena/internal/debug"
	"github.com/tetsuo/arena/pkg/opt"
	"github.com/tetsuo/arena/pkg/res"
)

// Arena is a chunked bump allocator. The zero value is an empty, ready to
// use allocator with minimum alignment 1, matching [New]().
//
// Arena is not safe for concurrent use; callers needing concurrent arenas
// must provide their own synchronization or use one Arena per goroutine.
type Arena struct {
	head opt.Option[*chunk]

	// minAlign is M from spec.md §3: every pointer this arena returns is
	// aligned to at least minAlign, regardless of what the caller asked for.
	// Go has no compile-time const generics, so unlike bumpalo's const M
	// parameter this is a runtime field set at construction; see
	// NewWithMinAlign and DESIGN.md.
	minAlign int
}

// New returns an empty Arena with minimum alignment 1. Constructing an
// Arena never fails; no chunk is allocated until the first allocation.
func New() *Arena {
	return &Arena{minAlign: 1}
}

// NewWithCapacity returns an Arena with one chunk already allocated, whose
// capacity is at least n bytes.
func NewWithCapacity(n int) *Arena {
	a := New()
	a.reserve(n)
	return a
}

// NewWithMinAlign returns an empty Arena whose minimum alignment is
// minAlign, which must be a power of two. Every pointer this Arena returns,
// including from [Arena.AllocLayout] calls that request a smaller alignment, is
// aligned to at least minAlign.
func NewWithMinAlign(minAlign int) *Arena {
	if minAlign < 1 || !isPow2(minAlign) {
		panic("arena: minimum alignment must be a power of two")
	}

	return &Arena{minAlign: minAlign}
}

// NewWithMinAlignAndCapacity combines [NewWithMinAlign] and
// [NewWithCapacity].
func NewWithMinAlignAndCapacity(minAlign, n int) *Arena {
	a := NewWithMinAlign(minAlign)
	a.reserve(n)
	return a
}

func (a *Arena) effMinAlign() int {
	if a.minAlign < 1 {
		return 1
	}
	return a.minAlign
}

func (a *Arena) headChunk() (*chunk, bool) {
	if a.head.IsNone() {
		return nil, false
	}
	return a.head.Unwrap(), true
}

// reserve eagerly installs a head chunk of at least n bytes, used by the
// with-capacity constructors.
func (a *Arena) reserve(n int) {
	if n < 0 {
		n = 0
	}
	capacity, err := nextChunkCapacity(0, n)
	if err != nil {
		panic("out of memory")
	}
	if _, err := a.growInto(capacity); err != nil {
		panic("out of memory")
	}
}

// TryAllocLayout attempts to allocate size bytes aligned to align (a power
// of two), returning a [res.Result] instead of panicking on failure.
//
// A zero size still returns a uniquely-valid, correctly-aligned,
// dereferenceable (for zero bytes) pointer; distinct pointers are not
// guaranteed across different zero-sized allocations, matching spec.md §9's
// open question.
func (a *Arena) TryAllocLayout(size, align int) res.Result[unsafe.Pointer] {
	if err := validateLayout(size, align); err != nil {
		return res.Err[unsafe.Pointer](&LayoutError{size, align, err})
	}

	effAlign := align
	if m := a.effMinAlign(); m > effAlign {
		effAlign = m
	}

	need, err := neededBytes(size, effAlign)
	if err != nil {
		return res.Err[unsafe.Pointer](&LayoutError{size, align, err})
	}

	if h, ok := a.headChunk(); ok {
		if p, ok := h.alloc(size, effAlign); ok {
			return res.Ok(p)
		}
	}

	prevCap := 0
	if h, ok := a.headChunk(); ok {
		prevCap = h.cap()
	}

	newCap, err := nextChunkCapacity(prevCap, need)
	if err != nil {
		return res.Err[unsafe.Pointer](&LayoutError{size, align, err})
	}

	nc, err := a.growInto(newCap)
	if err != nil {
		return res.Err[unsafe.Pointer](&LayoutError{size, align, err})
	}

	p, ok := nc.alloc(size, effAlign)
	debug.Assert(ok, "freshly grown chunk of capacity %d could not satisfy size=%d align=%d", newCap, size, effAlign)

	return res.Ok(p)
}

// AllocLayout allocates size bytes aligned to align (a power of two) and
// returns a pointer to them. It panics with "out of memory" if the
// allocation cannot be satisfied, matching spec.md §7.
func (a *Arena) AllocLayout(size, align int) unsafe.Pointer {
	r := a.TryAllocLayout(size, align)
	if r.IsErr() {
		panic("out of memory")
	}
	return r.Unwrap()
}

// growInto allocates a new chunk of the given capacity and installs it at
// the head of the chunk list, linking the old head (if any) as its
// predecessor. It converts a panic from the system allocator (e.g. a
// makeslice length that can't be satisfied) into ErrOutOfMemory rather than
// letting it escape.
func (a *Arena) growInto(capacity int) (c *chunk, err error) {
	defer func() {
		if r := recover(); r != nil {
			c, err = nil, ErrOutOfMemory
		}
	}()

	nc := newChunk(capacity, a.head)
	a.head = opt.Some(nc)
	debug.Log(nil, "arena.grow", "capacity=%d", capacity)

	return nc, nil
}

// Reset reclaims every allocation made so far. It retains the head chunk
// (which, by the growth policy's monotone capacities, is the largest one
// this arena has ever held) and drops every older chunk, so repeated
// alloc/reset cycles converge on allocating exactly one chunk sized to the
// arena's high-water mark.
//
// Any pointer returned by an allocation made before Reset must not be used
// afterwards.
func (a *Arena) Reset() {
	h, ok := a.headChunk()
	if !ok {
		return
	}

	h.prev = opt.None[*chunk]()
	h.resetOffset()
}

// ChunkCapacity returns the number of bytes still free in the head chunk.
// It strictly decreases across any allocation that is satisfied without
// growing the arena.
func (a *Arena) ChunkCapacity() int {
	h, ok := a.headChunk()
	if !ok {
		return 0
	}
	return h.off
}

func validateLayout(size, align int) error {
	if size < 0 {
		return ErrInvalidLayout
	}
	if align <= 0 || !isPow2(align) {
		return ErrInvalidLayout
	}
	return nil
}

func isPow2(n int) bool { return n > 0 && n&(n-1) == 0 }
