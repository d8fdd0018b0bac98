package normalize_test

import (
	"math"
	"testing"

	"github.com/okian/fantaprice/internal/domain/normalize"
	. "github.com/smartystreets/goconvey/convey"
)

func TestBounds(t *testing.T) {
	Convey("Given the bounding helpers", t, func() {
		Convey("Clip should bound both sides and swallow NaN", func() {
			So(normalize.Clip(5, 0, 1), ShouldEqual, 1)
			So(normalize.Clip(-5, 0, 1), ShouldEqual, 0)
			So(normalize.Clip(0.4, 0, 1), ShouldEqual, 0.4)
			So(normalize.Clip(math.NaN(), 0, 1), ShouldEqual, 0)
		})

		Convey("Affine should map the range onto [0,1]", func() {
			So(normalize.Affine(4.5, 4.5, 7.0), ShouldEqual, 0)
			So(normalize.Affine(7.0, 4.5, 7.0), ShouldEqual, 1)
			So(normalize.Affine(5.75, 4.5, 7.0), ShouldAlmostEqual, 0.5, 1e-9)
			So(normalize.Affine(9, 4.5, 7.0), ShouldEqual, 1)
			So(normalize.Affine(3, 7, 7), ShouldEqual, 0)
		})

		Convey("PerMatch should floor the denominator at one", func() {
			So(normalize.PerMatch(3, 0), ShouldEqual, 3)
			So(normalize.PerMatch(10, 20), ShouldEqual, 0.5)
		})

		Convey("Ratio should cap and reject non-positive targets", func() {
			So(normalize.Ratio(1.0, 0.5, 2), ShouldEqual, 2)
			So(normalize.Ratio(0.25, 0.5, 2), ShouldEqual, 0.5)
			So(normalize.Ratio(1, 0, 2), ShouldEqual, 0)
		})

		Convey("Mean of nothing should be zero", func() {
			So(normalize.Mean(nil), ShouldEqual, 0)
			So(normalize.Mean([]float64{50, 70}), ShouldEqual, 60)
		})
	})
}

func TestSteps(t *testing.T) {
	Convey("Given an appearance schedule listed out of order", t, func() {
		s := normalize.Steps{{Min: 10, Value: 0.35}, {Min: 30, Value: 1}, {Min: 20, Value: 0.75}}

		Convey("Then the highest breakpoint not above v should win", func() {
			So(s.Eval(35, 0), ShouldEqual, 1)
			So(s.Eval(30, 0), ShouldEqual, 1)
			So(s.Eval(29, 0), ShouldEqual, 0.75)
			So(s.Eval(10, 0), ShouldEqual, 0.35)
			So(s.Eval(9, 0.01), ShouldEqual, 0.01)
		})

		Convey("Then the input slice should be left untouched", func() {
			s.Eval(15, 0)
			So(s[0].Min, ShouldEqual, 10)
		})
	})
}

func TestCells(t *testing.T) {
	Convey("Given raw cells", t, func() {
		Convey("Float should accept comma decimals and reject blanks", func() {
			v, ok := normalize.Float("6,5")
			So(ok, ShouldBeTrue)
			So(v, ShouldEqual, 6.5)

			v, ok = normalize.Float(" 7.25 ")
			So(ok, ShouldBeTrue)
			So(v, ShouldEqual, 7.25)

			for _, raw := range []string{"", "nan", "NaN", "-", "abc"} {
				_, ok = normalize.Float(raw)
				So(ok, ShouldBeFalse)
			}
			So(normalize.FloatOr("", 3), ShouldEqual, 3)
		})

		Convey("Bool should read common flag spellings", func() {
			for _, raw := range []string{"True", "1", "yes", "si", "x"} {
				So(normalize.Bool(raw), ShouldBeTrue)
			}
			for _, raw := range []string{"", "False", "0", "no"} {
				So(normalize.Bool(raw), ShouldBeFalse)
			}
		})

		Convey("Tags should parse list literals and plain lists", func() {
			So(normalize.Tags("['Rigorista', 'Titolare']"), ShouldResemble, []string{"Rigorista", "Titolare"})
			So(normalize.Tags(`["Goleador"]`), ShouldResemble, []string{"Goleador"})
			So(normalize.Tags("Assistman, Piazzati"), ShouldResemble, []string{"Assistman", "Piazzati"})
			So(normalize.Tags("['Falloso'"), ShouldResemble, []string{"Falloso"})
			So(normalize.Tags("[]"), ShouldBeNil)
			So(normalize.Tags(""), ShouldBeNil)
		})
	})
}
