//go:build go1.22

package arena

import (
	"math"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestNextChunkCapacity(t *testing.T) {
	Convey("Given the growth policy", t, func() {
		Convey("A fresh arena with a small request is floored", func() {
			n, err := nextChunkCapacity(0, 1)
			So(err, ShouldBeNil)
			So(n, ShouldEqual, minChunkCapacity)
		})

		Convey("Doubling wins when it exceeds both the need and the floor", func() {
			n, err := nextChunkCapacity(1024, 100)
			So(err, ShouldBeNil)
			So(n, ShouldEqual, 2048)
		})

		Convey("The requirement wins when it exceeds doubling", func() {
			n, err := nextChunkCapacity(512, 100_001)
			So(err, ShouldBeNil)
			So(n, ShouldEqual, 100_001)
		})

		Convey("Doubling an overflowing previous capacity reports out of memory", func() {
			_, err := nextChunkCapacity(math.MaxInt, 1)
			So(err, ShouldEqual, ErrOutOfMemory)
		})

		Convey("A negative need reports out of memory rather than underflow", func() {
			_, err := nextChunkCapacity(512, -1)
			So(err, ShouldEqual, ErrOutOfMemory)
		})
	})
}

func TestNeededBytes(t *testing.T) {
	Convey("Given a size and alignment", t, func() {
		Convey("The usual case adds align-1 bytes of worst-case padding", func() {
			n, err := neededBytes(100, 8)
			So(err, ShouldBeNil)
			So(n, ShouldEqual, 107)
		})

		Convey("A size that can't fit alongside its padding is invalid", func() {
			_, err := neededBytes(math.MaxInt, 2)
			So(err, ShouldEqual, ErrInvalidLayout)
		})

		Convey("A negative size is invalid", func() {
			_, err := neededBytes(-1, 8)
			So(err, ShouldEqual, ErrInvalidLayout)
		})

		Convey("A non-positive alignment is invalid", func() {
			_, err := neededBytes(8, 0)
			So(err, ShouldEqual, ErrInvalidLayout)
		})
	})
}
