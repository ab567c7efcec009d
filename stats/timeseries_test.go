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

package stats

import (
	"bytes"
	"math"
	"testing"
	"time"

	"github.com/stockparfait/testutil"
	"github.com/stockparfait/windframe/table"

	. "github.com/smartystreets/goconvey/convey"
)

func TestTimeseries(t *testing.T) {
	t.Parallel()

	d := func(day int) time.Time { return time.Date(2021, 1, day, 0, 0, 0, 0, time.UTC) }
	times := func() []time.Time {
		return []time.Time{d(1), d(2), d(3), d(4), d(5)}
	}
	data := func() []float64 { return []float64{1.0, 2.0, 3.0, 4.0, 5.0} }

	Convey("Timeseries methods work", t, func() {
		ts := NewTimeseries(times(), data())

		Convey("Init initializes correctly", func() {
			So(ts.Times(), ShouldResemble, times())
			So(ts.Data(), ShouldResemble, data())
			So(ts.Check(), ShouldBeNil)
		})

		Convey("Check catches unordered times", func() {
			bad := times()
			bad[3] = d(1)
			So(NewTimeseries(bad, data()).Check(), ShouldNotBeNil)
		})

		Convey("Range", func() {
			r := ts.Range(d(2), d(4))
			So(r.Times(), ShouldResemble, times()[1:4])
			So(r.Data(), ShouldResemble, data()[1:4])

			r = ts.Range(time.Date(2020, 12, 31, 0, 0, 0, 0, time.UTC), d(6))
			So(r, ShouldPointTo, ts)

			r = ts.Range(d(5), d(4))
			So(len(r.Times()), ShouldEqual, 0)

			r = ts.Range(d(7), d(9))
			So(len(r.Times()), ShouldEqual, 0)
		})

		Convey("LogProfits", func() {
			dts := ts.LogProfits(1)
			So(ts.Data(), ShouldResemble, data()) // the original ts is not modified
			So(dts.Times(), ShouldResemble, ts.Times()[1:])
			So(testutil.RoundSlice(dts.Data(), 5), ShouldResemble,
				testutil.RoundSlice([]float64{
					math.Log(2.0),
					math.Log(3.0 / 2.0),
					math.Log(4.0 / 3.0),
					math.Log(5.0 / 4.0),
				}, 5))
			So(len(ts.LogProfits(len(data())).Data()), ShouldEqual, 0)
		})
	})

	Convey("FromFrame", t, func() {
		f := table.NewFrame("time", []table.Value{d(1), d(2), d(3), d(4)})
		So(f.AddColumn(table.Key{Outer: "A", Inner: "close"}, []table.Value{1.0, nil, math.NaN(), 4.0}), ShouldBeNil)
		So(f.AddColumn(table.Key{Outer: "A", Inner: "name"}, []table.Value{"x", "x", "x", "x"}), ShouldBeNil)

		ts, err := FromFrame(f, table.Key{Outer: "A", Inner: "close"})
		So(err, ShouldBeNil)
		So(ts.Times(), ShouldResemble, []time.Time{d(1), d(4)})
		So(ts.Data(), ShouldResemble, []float64{1.0, 4.0})

		_, err = FromFrame(f, table.Key{Outer: "B", Inner: "close"})
		So(err, ShouldNotBeNil)

		g := table.NewFrame("codes", []table.Value{"A"})
		So(g.AddColumn(table.Key{Inner: "close"}, []table.Value{1.0}), ShouldBeNil)
		_, err = FromFrame(g, table.Key{Inner: "close"})
		So(err, ShouldNotBeNil)
	})
}

func TestSummary(t *testing.T) {
	t.Parallel()

	Convey("Summarize", t, func() {
		s := Summarize("x", []float64{4.0, 1.0, 3.0, 2.0, 5.0})
		So(s.Count, ShouldEqual, 5)
		So(s.Mean, ShouldEqual, 3.0)
		So(testutil.Round(s.StdDev, 5), ShouldEqual, testutil.Round(math.Sqrt(2.5), 5))
		So(s.Min, ShouldEqual, 1.0)
		So(s.Median, ShouldEqual, 3.0)
		So(s.Max, ShouldEqual, 5.0)

		one := Summarize("y", []float64{7.0})
		So(math.IsNaN(one.StdDev), ShouldBeTrue)
		So(one.Mean, ShouldEqual, 7.0)

		empty := Summarize("z", nil)
		So(empty.Count, ShouldEqual, 0)
		So(math.IsNaN(empty.Mean), ShouldBeTrue)
	})

	Convey("DescribeReturns", t, func() {
		d := func(day int) time.Time { return time.Date(2021, 1, day, 0, 0, 0, 0, time.UTC) }
		f := table.NewFrame("time", []table.Value{d(1), d(2), d(3), d(4)})
		So(f.AddColumn(table.Key{Outer: "A", Inner: "close"}, []table.Value{1.0, 2.0, 4.0, 100.0}), ShouldBeNil)
		So(f.AddColumn(table.Key{Outer: "A", Inner: "name"}, []table.Value{"a", "b", "c", "d"}), ShouldBeNil)

		Convey("within the window", func() {
			tbl, err := DescribeReturns(f, 1, d(1), d(3))
			So(err, ShouldBeNil)
			var buf bytes.Buffer
			So(tbl.WriteCSV(&buf, table.Params{}), ShouldBeNil)
			So("\n"+buf.String(), ShouldEqual, `
Column,Count,Mean,StdDev,Min,Median,Max
A|close,2,0.693147,0,0.693147,0.693147,0.693147
A|name,0,,,,,
`)
		})

		Convey("period longer than the window", func() {
			tbl, err := DescribeReturns(f, 3, d(2), d(4))
			So(err, ShouldBeNil)
			So(tbl.Rows[0].CSV()[1], ShouldEqual, "0")
		})

		Convey("bad period", func() {
			_, err := DescribeReturns(f, 0, d(1), d(4))
			So(err, ShouldNotBeNil)
		})

		Convey("unordered index", func() {
			g := table.NewFrame("time", []table.Value{d(2), d(1)})
			So(g.AddColumn(table.Key{Outer: "A", Inner: "close"}, []table.Value{1.0, 2.0}), ShouldBeNil)
			_, err := DescribeReturns(g, 1, d(1), d(2))
			So(err, ShouldNotBeNil)
		})

		Convey("non-time index", func() {
			g := table.NewFrame("codes", []table.Value{"A"})
			So(g.AddColumn(table.Key{Inner: "close"}, []table.Value{1.0}), ShouldBeNil)
			_, err := DescribeReturns(g, 1, d(1), d(2))
			So(err, ShouldNotBeNil)
		})
	})

	Convey("Describe", t, func() {
		f := table.NewFrame("time", []table.Value{1, 2})
		So(f.AddColumn(table.Key{Outer: "A", Inner: "close"}, []table.Value{1.0, 3.0}), ShouldBeNil)
		So(f.AddColumn(table.Key{Outer: "A", Inner: "name"}, []table.Value{"a", "b"}), ShouldBeNil)
		var buf bytes.Buffer
		So(Describe(f).WriteCSV(&buf, table.Params{}), ShouldBeNil)
		So("\n"+buf.String(), ShouldEqual, `
Column,Count,Mean,StdDev,Min,Median,Max
A|close,2,2,1.41421,1,1,3
A|name,0,,,,,
`)
	})
}
