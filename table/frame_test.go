// Copyright 2022 Stock Parfait

// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at

//     http://www.apache.org/licenses/LICENSE-2.0

// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package table

import (
	"bytes"
	"math"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
)

func TestFrame(t *testing.T) {
	t.Parallel()

	day := func(d int) time.Time { return time.Date(2024, 1, d, 0, 0, 0, 0, time.UTC) }

	Convey("Frame methods work", t, func() {
		f := NewFrame("time", []Value{day(1), day(2), day(3)})
		So(f.AddColumn(Key{Inner: "A"}, []Value{1.0, 2.0, 3.0}), ShouldBeNil)
		So(f.AddColumn(Key{Inner: "B"}, []Value{4.0, nil, 6.0}), ShouldBeNil)

		Convey("AddColumn checks length and uniqueness", func() {
			So(f.AddColumn(Key{Inner: "C"}, []Value{1.0}), ShouldNotBeNil)
			So(f.AddColumn(Key{Inner: "A"}, []Value{1.0, 2.0, 3.0}), ShouldNotBeNil)
			So(f.NumColumns(), ShouldEqual, 2)
		})

		Convey("Column and At", func() {
			col, ok := f.Column(Key{Inner: "B"})
			So(ok, ShouldBeTrue)
			So(col, ShouldResemble, []Value{4.0, nil, 6.0})
			v, ok := f.At(2, Key{Inner: "A"})
			So(ok, ShouldBeTrue)
			So(v, ShouldEqual, 3.0)
			_, ok = f.At(3, Key{Inner: "A"})
			So(ok, ShouldBeFalse)
			_, ok = f.Column(Key{Inner: "Z"})
			So(ok, ShouldBeFalse)
		})

		Convey("Filter", func() {
			g := f.Filter(func(l Value) bool { return !l.(time.Time).Before(day(2)) })
			So(g.Index(), ShouldResemble, []Value{day(2), day(3)})
			col, _ := g.Column(Key{Inner: "A"})
			So(col, ShouldResemble, []Value{2.0, 3.0})
			So(f.NumRows(), ShouldEqual, 3) // the original is intact
			So(f.Filter(func(Value) bool { return true }), ShouldPointTo, f)
		})

		Convey("Concat with aligned indexes and SwapLevels", func() {
			g := NewFrame("time", []Value{day(1), day(2), day(3)})
			So(g.AddColumn(Key{Inner: "A"}, []Value{7.0, 8.0, 9.0}), ShouldBeNil)
			c, err := Concat([]string{"close", "open"}, [2]string{"fields", "codes"}, f, g)
			So(err, ShouldBeNil)
			So(c.IndexName, ShouldEqual, "time")
			So(c.NumRows(), ShouldEqual, 3)
			So(c.Columns(), ShouldResemble, []Key{
				{"close", "A"}, {"close", "B"}, {"open", "A"}})
			s := c.SwapLevels()
			So(s.Levels, ShouldResemble, [2]string{"codes", "fields"})
			So(s.Columns(), ShouldResemble, []Key{
				{"A", "close"}, {"B", "close"}, {"A", "open"}})
			col, ok := s.Column(Key{"A", "open"})
			So(ok, ShouldBeTrue)
			So(col, ShouldResemble, []Value{7.0, 8.0, 9.0})
		})

		Convey("Concat joins different indexes in first-seen order", func() {
			a := NewFrame("ranks", []Value{1.0, 2.0})
			So(a.AddColumn(Key{Inner: "x"}, []Value{"a1", "a2"}), ShouldBeNil)
			b := NewFrame("ranks", []Value{2.0, 3.0})
			So(b.AddColumn(Key{Inner: "x"}, []Value{"b2", "b3"}), ShouldBeNil)
			c, err := Concat([]string{"d1", "d2"}, [2]string{"time", "fields"}, a, b)
			So(err, ShouldBeNil)
			So(c.Index(), ShouldResemble, []Value{1.0, 2.0, 3.0})
			col, _ := c.Column(Key{"d2", "x"})
			So(col, ShouldResemble, []Value{nil, "b2", "b3"})
		})

		Convey("Concat rejects duplicate labels when joining", func() {
			a := NewFrame("ranks", []Value{1.0, 1.0})
			So(a.AddColumn(Key{Inner: "x"}, []Value{"a", "b"}), ShouldBeNil)
			b := NewFrame("ranks", []Value{2.0})
			So(b.AddColumn(Key{Inner: "x"}, []Value{"c"}), ShouldBeNil)
			_, err := Concat([]string{"d1", "d2"}, [2]string{}, a, b)
			So(err, ShouldNotBeNil)
		})

		Convey("Concat checks the number of keys", func() {
			_, err := Concat([]string{"one"}, [2]string{}, f, f)
			So(err, ShouldNotBeNil)
			c, err := Concat(nil, [2]string{"a", "b"})
			So(err, ShouldBeNil)
			So(c.NumRows(), ShouldEqual, 0)
		})

		Convey("Table prints", func() {
			var buf bytes.Buffer
			So(f.Table().WriteCSV(&buf, Params{}), ShouldBeNil)
			So("\n"+buf.String(), ShouldEqual, `
time,A,B
2024-01-01,1,4
2024-01-02,2,
2024-01-03,3,6
`)
		})
	})

	Convey("FormatValue", t, func() {
		So(FormatValue(nil), ShouldEqual, "")
		So(FormatValue(1.5), ShouldEqual, "1.5")
		So(FormatValue(math.NaN()), ShouldEqual, "NaN")
		So(FormatValue(true), ShouldEqual, "TRUE")
		So(FormatValue("x"), ShouldEqual, "x")
		So(FormatValue(time.Date(2024, 1, 2, 9, 30, 0, 0, time.UTC)), ShouldEqual,
			"2024-01-02 09:30:00")
		So(FormatValue(Key{"A", "close"}), ShouldEqual, "A|close")
		So(FormatValue(3), ShouldEqual, "3")
	})

	Convey("record number labels join like any other label", t, func() {
		f1 := NewFrame("record", []Value{0, 1})
		So(f1.AddColumn(Key{Inner: "code"}, []Value{"A", "B"}), ShouldBeNil)
		f2 := NewFrame("record", []Value{1})
		So(f2.AddColumn(Key{Inner: "code"}, []Value{"C"}), ShouldBeNil)

		res, err := Concat([]string{"x", "y"}, [2]string{"reports", "fields"}, f1, f2)
		So(err, ShouldBeNil)
		So(res.Index(), ShouldResemble, []Value{0, 1})
		col, ok := res.Column(Key{"y", "code"})
		So(ok, ShouldBeTrue)
		So(col, ShouldResemble, []Value{nil, "C"})

		var buf bytes.Buffer
		So(res.Table().WriteCSV(&buf, Params{}), ShouldBeNil)
		So("\n"+buf.String(), ShouldEqual, `
record,x|code,y|code
0,A,
1,B,C
`)
	})
}
