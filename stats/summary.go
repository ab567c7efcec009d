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
	"math"
	"strconv"
	"time"

	"github.com/stockparfait/errors"
	"github.com/stockparfait/windframe/table"

	"golang.org/x/exp/slices"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Summary of a numeric sample.
type Summary struct {
	Column string
	Count  int
	Mean   float64
	StdDev float64 // NaN for fewer than 2 values
	Min    float64
	Median float64
	Max    float64
}

// Summarize the sample. An empty sample has Count 0 and NaN statistics.
func Summarize(column string, data []float64) Summary {
	s := Summary{Column: column, Count: len(data)}
	if len(data) == 0 {
		nan := math.NaN()
		s.Mean, s.StdDev, s.Min, s.Median, s.Max = nan, nan, nan, nan, nan
		return s
	}
	sorted := slices.Clone(data)
	slices.Sort(sorted)
	s.Mean = stat.Mean(data, nil)
	s.StdDev = math.NaN()
	if len(data) > 1 {
		s.StdDev = stat.StdDev(data, nil)
	}
	s.Min = floats.Min(data)
	s.Max = floats.Max(data)
	s.Median = stat.Quantile(0.5, stat.Empirical, sorted, nil)
	return s
}

var _ table.Row = Summary{}

func formatFloat(x float64) string {
	if math.IsNaN(x) {
		return ""
	}
	return strconv.FormatFloat(x, 'g', 6, 64)
}

// CSV implements table.Row.
func (s Summary) CSV() []string {
	return []string{
		s.Column,
		strconv.Itoa(s.Count),
		formatFloat(s.Mean),
		formatFloat(s.StdDev),
		formatFloat(s.Min),
		formatFloat(s.Median),
		formatFloat(s.Max),
	}
}

// SummaryHeader is the table header matching Summary.CSV().
func SummaryHeader() []string {
	return []string{"Column", "Count", "Mean", "StdDev", "Min", "Median", "Max"}
}

// Describe summarizes every column of the Frame. Non-numeric and NaN cells
// are ignored, so text columns summarize to Count 0.
func Describe(f *table.Frame) *table.Table {
	t := table.NewTable(SummaryHeader()...)
	for _, k := range f.Columns() {
		col, _ := f.Column(k)
		var data []float64
		for _, v := range col {
			if x, ok := v.(float64); ok && !math.IsNaN(x) {
				data = append(data, x)
			}
		}
		t.AddRow(Summarize(k.String(), data))
	}
	return t
}

// DescribeReturns summarizes the n-period log-profits of every column of a
// time-indexed Frame, restricted to the inclusive [start, end] window.
// Non-numeric columns summarize to Count 0.
func DescribeReturns(f *table.Frame, n int, start, end time.Time) (*table.Table, error) {
	if n < 1 {
		return nil, errors.Reason("returns period n=%d must be >= 1", n)
	}
	t := table.NewTable(SummaryHeader()...)
	for _, k := range f.Columns() {
		ts, err := FromFrame(f, k)
		if err != nil {
			return nil, errors.Annotate(err, "failed to extract column %s", k)
		}
		if err := ts.Check(); err != nil {
			return nil, errors.Annotate(err, "column %s", k)
		}
		t.AddRow(Summarize(k.String(), ts.Range(start, end).LogProfits(n).Data()))
	}
	return t, nil
}
