package arena

import (
	"math"
	"unsafe"

	"github.com/tetsuo/arena/pkg/res"
	"github.com/tetsuo/arena/pkg/xunsafe"
	"github.com/tetsuo/arena/pkg/xunsafe/layout"
)

// Alloc copies v into the arena and returns a pointer to the copy.
//
// T must be pointer-free; see the package doc comment. Alloc panics if T
// contains a pointer, slice, string, map, channel, func, or interface
// anywhere in its layout.
func Alloc[T any](a *Arena, v T) *T {
	requirePointerFree[T]()
	l := layout.Of[T]()
	p := xunsafe.Cast[T]((*byte)(a.AllocLayout(l.Size, l.Align)))
	*p = v
	return p
}

// TryAlloc is the fallible counterpart of [Alloc]. T must be pointer-free.
func TryAlloc[T any](a *Arena, v T) res.Result[*T] {
	requirePointerFree[T]()
	l := layout.Of[T]()
	r := a.TryAllocLayout(l.Size, l.Align)
	if r.IsErr() {
		return res.Err[*T](r.UnwrapErr())
	}
	p := xunsafe.Cast[T]((*byte)(r.Unwrap()))
	*p = v
	return res.Ok(p)
}

// AllocWith reserves space for a T in the arena and calls f to produce the
// value, avoiding a stack copy of large values that [Alloc] would otherwise
// make when passing v by value. T must be pointer-free.
func AllocWith[T any](a *Arena, f func() T) *T {
	requirePointerFree[T]()
	l := layout.Of[T]()
	p := xunsafe.Cast[T]((*byte)(a.AllocLayout(l.Size, l.Align)))
	*p = f()
	return p
}

// TryAllocWith is the fallible counterpart of [AllocWith]. T must be
// pointer-free.
func TryAllocWith[T any](a *Arena, f func() T) res.Result[*T] {
	requirePointerFree[T]()
	l := layout.Of[T]()
	r := a.TryAllocLayout(l.Size, l.Align)
	if r.IsErr() {
		return res.Err[*T](r.UnwrapErr())
	}
	p := xunsafe.Cast[T]((*byte)(r.Unwrap()))
	*p = f()
	return res.Ok(p)
}

// AllocSliceCopy allocates len(src) elements in the arena and copies src
// into them, returning a slice backed by the arena. T must be pointer-free.
func AllocSliceCopy[T any](a *Arena, src []T) []T {
	requirePointerFree[T]()
	l := layout.Of[T]()
	total := mulLayout(len(src), l.Size)
	p := a.AllocLayout(total, l.Align)
	dst := unsafe.Slice(xunsafe.Cast[T]((*byte)(p)), len(src))
	copy(dst, src)
	return dst
}

// AllocSliceClone allocates len(src) elements in the arena and fills them
// by calling clone on each element of src, in order, returning a slice
// backed by the arena. T must be pointer-free.
//
// If clone fails partway through, the elements already constructed are left
// in the arena — they are reclaimed the same way any other allocation is,
// by [Arena.Reset] or by the arena becoming unreachable.
func AllocSliceClone[T any](a *Arena, src []T, clone func(T) (T, error)) ([]T, error) {
	requirePointerFree[T]()
	l := layout.Of[T]()
	total := mulLayout(len(src), l.Size)
	p := a.AllocLayout(total, l.Align)
	dst := unsafe.Slice(xunsafe.Cast[T]((*byte)(p)), len(src))

	for i, v := range src {
		cloned, err := clone(v)
		if err != nil {
			return nil, err
		}
		dst[i] = cloned
	}

	return dst, nil
}

// AllocSliceFill allocates n elements in the arena, each set to v. T must
// be pointer-free.
func AllocSliceFill[T any](a *Arena, n int, v T) []T {
	return AllocSliceFillWith(a, n, func(int) T { return v })
}

// AllocSliceFillWith allocates n elements in the arena, setting element i
// to f(i). T must be pointer-free.
func AllocSliceFillWith[T any](a *Arena, n int, f func(i int) T) []T {
	requirePointerFree[T]()
	l := layout.Of[T]()
	total := mulLayout(n, l.Size)
	p := a.AllocLayout(total, l.Align)
	dst := unsafe.Slice(xunsafe.Cast[T]((*byte)(p)), n)

	for i := range dst {
		dst[i] = f(i)
	}

	return dst
}

// AllocString copies s into the arena and returns an arena-backed string
// sharing its storage, avoiding the extra copy a plain
// `string(AllocSliceCopy(a, []byte(s)))` would make.
func AllocString(a *Arena, s string) string {
	if len(s) == 0 {
		return ""
	}

	p := a.AllocLayout(len(s), 1)
	dst := unsafe.Slice((*byte)(p), len(s))
	copy(dst, s)

	return xunsafe.SliceToString(dst)
}

// mulLayout computes n*size, panicking with "out of memory" if the product
// overflows rather than wrapping to a too-small allocation.
func mulLayout(n, size int) int {
	if n == 0 || size == 0 {
		return 0
	}
	if n > math.MaxInt/size {
		panic("out of memory")
	}
	return n * size
}
