package arena

import (
	"iter"
	"unsafe"
)

// IterAllocatedChunks returns a lazy, non-restartable sequence of
// (pointer, length) pairs, one per chunk, newest chunk first. Each pair
// covers only the used portion of its chunk — from the chunk's current
// bump pointer to the end of its backing array.
//
// Because chunks bump-allocate downward and this walks newest-first,
// reading each span low-to-high (e.g. as a []T via [unsafe.Slice]) visits
// every live allocation in the reverse of the order it was made. The
// sequence reflects the arena's state at the moment iteration starts; the
// arena must not be allocated into while the sequence is being consumed.
func (a *Arena) IterAllocatedChunks() iter.Seq2[unsafe.Pointer, int] {
	return func(yield func(unsafe.Pointer, int) bool) {
		cur, ok := a.headChunk()
		for ok {
			n := cur.used()
			ptr := unsafe.Add(unsafe.Pointer(unsafe.SliceData(cur.buf)), cur.off)

			if !yield(ptr, n) {
				return
			}

			cur, ok = cur.prevChunk()
		}
	}
}
