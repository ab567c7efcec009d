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

// Package stats extracts numeric series from Frames and summarizes them.
package stats

import (
	"math"
	"time"

	"github.com/stockparfait/errors"
	"github.com/stockparfait/windframe/table"
)

// Timeseries stores numeric values along with timestamps. The timestamps are
// always sorted in ascending order.
type Timeseries struct {
	times []time.Time
	data  []float64
}

// NewTimeseries creates a new Timeseries. The times are expected to be sorted
// in ascending order (not checked). It panics if times and data have different
// lengths. The argument slices are used as is, not copied.
func NewTimeseries(times []time.Time, data []float64) *Timeseries {
	if len(times) != len(data) {
		panic(errors.Reason("len(times) [%d] != len(data) [%d]",
			len(times), len(data)))
	}
	return &Timeseries{times: times, data: data}
}

// FromFrame extracts the column k of a time-indexed Frame. Rows where the cell
// is missing, not a number or NaN are skipped.
func FromFrame(f *table.Frame, k table.Key) (*Timeseries, error) {
	col, ok := f.Column(k)
	if !ok {
		return nil, errors.Reason("no column %s", k)
	}
	var times []time.Time
	var data []float64
	for i, l := range f.Index() {
		t, ok := l.(time.Time)
		if !ok {
			return nil, errors.Reason("row %d is indexed by %T, not time", i, l)
		}
		v, ok := col[i].(float64)
		if !ok || math.IsNaN(v) {
			continue
		}
		times = append(times, t)
		data = append(data, v)
	}
	return NewTimeseries(times, data), nil
}

// Times of the Timeseries.
func (t *Timeseries) Times() []time.Time { return t.times }

// Data of the Timeseries.
func (t *Timeseries) Data() []float64 { return t.data }

// Check that Timeseries is consistent: the lengths of times and data are the
// same and the times are strictly ascending.
func (t *Timeseries) Check() error {
	if len(t.times) != len(t.data) {
		return errors.Reason("len(times) [%d] != len(data) [%d]",
			len(t.times), len(t.data))
	}
	for i := 1; i < len(t.times); i++ {
		if !t.times[i-1].Before(t.times[i]) {
			return errors.Reason("times[%d] = %s >= times[%d] = %s",
				i-1, t.times[i-1], i, t.times[i])
		}
	}
	return nil
}

// Range extracts the sub-series from the inclusive time interval. It may
// return an empty Timeseries, but never nil.
func (t *Timeseries) Range(start, end time.Time) *Timeseries {
	if start.After(end) {
		return NewTimeseries(nil, nil)
	}
	s := len(t.times)
	for i, tm := range t.times {
		if !tm.Before(start) {
			s = i
			break
		}
	}
	e := s
	for e < len(t.times) && !t.times[e].After(end) {
		e++
	}
	if s == 0 && e == len(t.times) {
		return t
	}
	return NewTimeseries(t.times[s:e], t.data[s:e])
}

// LogProfits computes a new Timeseries of log-profits {log(x[t+n]) -
// log(x[t])}. The associated log-profit time is t+n.
func (t *Timeseries) LogProfits(n int) *Timeseries {
	if n < 1 {
		panic(errors.Reason("n=%d must be >= 1", n))
	}
	if n >= len(t.data) {
		return NewTimeseries(nil, nil)
	}
	deltas := make([]float64, 0, len(t.data)-n)
	for i := n; i < len(t.data); i++ {
		deltas = append(deltas, math.Log(t.data[i])-math.Log(t.data[i-n]))
	}
	return NewTimeseries(t.times[n:], deltas)
}
