package arena

import "math"

// minChunkCapacity is FLOOR from the growth policy: the smallest chunk the
// allocator will ever request, so that a sequence of tiny first allocations
// doesn't produce a string of microscopic chunks.
const minChunkCapacity = 512

// nextChunkCapacity computes S_new = max(2*S_prev, need, FLOOR).
//
// It reports an error instead of wrapping if 2*prevCap overflows, per the
// growth policy in spec.md §4.4.
func nextChunkCapacity(prevCap, need int) (int, error) {
	if need < 0 {
		return 0, ErrOutOfMemory
	}

	doubled := prevCap
	if prevCap > math.MaxInt/2 {
		return 0, ErrOutOfMemory
	}
	doubled *= 2

	size := doubled
	if need > size {
		size = need
	}
	if minChunkCapacity > size {
		size = minChunkCapacity
	}

	return size, nil
}

// neededBytes computes the worst-case bytes a chunk must provide to satisfy
// an allocation of size bytes aligned to align, accounting for the padding
// that downward-aligning the bump pointer might discard.
//
// It reports an error if size+align-1 is not representable.
func neededBytes(size, align int) (int, error) {
	if size < 0 || align <= 0 {
		return 0, ErrInvalidLayout
	}
	if size > math.MaxInt-align+1 {
		return 0, ErrInvalidLayout
	}

	return size + align - 1, nil
}
