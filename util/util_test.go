package util

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestQuantify(t *testing.T) {
	Convey("Quantify", t, func() {
		So(Quantify(1, "item", "items"), ShouldEqual, "1 item")
		So(Quantify(0, "item", "items"), ShouldEqual, "0 items")
		So(Quantify(5, "item", "items"), ShouldEqual, "5 items")
	})
}

func TestMinMax(t *testing.T) {
	Convey("Min and Max", t, func() {
		So(Max(1, 3, 2), ShouldEqual, 3)
		So(Min(1, 3, 2), ShouldEqual, 1)
		So(Max[int](), ShouldEqual, 0)
		So(Min[int](), ShouldEqual, 0)
	})
}

func TestResolveBinary(t *testing.T) {
	Convey("ResolveBinary", t, func() {
		Convey("Absolute paths pass through", func() {
			So(ResolveBinary("/usr/bin/mpv"), ShouldEqual, "/usr/bin/mpv")
		})

		Convey("Unresolvable names are returned untouched", func() {
			So(ResolveBinary("definitely-not-a-binary-9000"), ShouldEqual, "definitely-not-a-binary-9000")
		})
	})
}
