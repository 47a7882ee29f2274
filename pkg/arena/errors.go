package arena

import (
	"errors"
	"fmt"

	"github.com/tetsuo/arena/pkg/xerrors"
)

// ErrOutOfMemory is returned (wrapped in a [LayoutError]) by the fallible
// allocation variants when the system allocator refuses to grow the arena,
// or when a requested chunk size exceeds what the runtime can provide.
var ErrOutOfMemory = errors.New("arena: out of memory")

// ErrInvalidLayout is returned (wrapped in a [LayoutError]) when a requested
// (size, align) pair cannot possibly be represented — e.g. size+align-1
// overflows — before any chunk state is touched.
var ErrInvalidLayout = errors.New("arena: invalid layout")

// LayoutError describes a failed call to [Arena.TryAllocLayout], carrying
// the size and alignment that were requested alongside the underlying
// [ErrOutOfMemory] or [ErrInvalidLayout].
type LayoutError struct {
	Size, Align int
	Err         error
}

func (e *LayoutError) Error() string {
	return fmt.Sprintf("arena: alloc_layout(size=%d, align=%d): %v", e.Size, e.Align, e.Err)
}

func (e *LayoutError) Unwrap() error { return e.Err }

// IsOutOfMemory reports whether err is a [LayoutError] wrapping
// [ErrOutOfMemory]. It uses [xerrors.AsA] to pull the [LayoutError] out of
// err's chain before inspecting which sentinel it wraps, so callers can
// distinguish a failed allocation from a caller bug without a type
// assertion of their own.
func IsOutOfMemory(err error) bool {
	le, ok := xerrors.AsA[*LayoutError](err)
	return ok && errors.Is(le.Err, ErrOutOfMemory)
}

// IsInvalidLayout reports whether err is a [LayoutError] wrapping
// [ErrInvalidLayout].
func IsInvalidLayout(err error) bool {
	le, ok := xerrors.AsA[*LayoutError](err)
	return ok && errors.Is(le.Err, ErrInvalidLayout)
}
