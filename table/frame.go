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
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/stockparfait/errors"
	"github.com/stockparfait/windframe/db"
)

// Value of a Frame cell or index label: nil (missing), float64, string, bool
// or time.Time. Index labels may also be int record numbers (see WSet).
type Value = any

// Key of a Frame column on two levels, e.g. (code, field). Single-level frames
// leave Outer empty.
type Key struct {
	Outer string
	Inner string
}

// Swap the levels of the key.
func (k Key) Swap() Key { return Key{Outer: k.Inner, Inner: k.Outer} }

func (k Key) String() string {
	if k.Outer == "" {
		return k.Inner
	}
	return k.Outer + "|" + k.Inner
}

// Frame is a labeled table: a named row index and columns keyed by Key. Cells
// are stored column by column. The index is kept in the order it was built
// in; Frame never sorts it.
type Frame struct {
	IndexName string
	Levels    [2]string // names of the outer and inner column levels
	index     []Value
	columns   []Key
	data      [][]Value // data[column][row]
	positions map[Key]int
}

// NewFrame creates a Frame with the given row index and no columns.
func NewFrame(indexName string, index []Value) *Frame {
	return &Frame{
		IndexName: indexName,
		index:     index,
		positions: make(map[Key]int),
	}
}

// Index labels of the rows.
func (f *Frame) Index() []Value { return f.index }

// Columns in their insertion order.
func (f *Frame) Columns() []Key { return f.columns }

func (f *Frame) NumRows() int    { return len(f.index) }
func (f *Frame) NumColumns() int { return len(f.columns) }

// AddColumn appends a column. The number of values must match the index
// length, and the key must be new.
func (f *Frame) AddColumn(k Key, values []Value) error {
	if len(values) != len(f.index) {
		return errors.Reason("column %s has %d values, index has %d",
			k, len(values), len(f.index))
	}
	if _, ok := f.positions[k]; ok {
		return errors.Reason("duplicate column %s", k)
	}
	f.positions[k] = len(f.columns)
	f.columns = append(f.columns, k)
	f.data = append(f.data, values)
	return nil
}

// Column returns the values of the column, if present.
func (f *Frame) Column(k Key) ([]Value, bool) {
	j, ok := f.positions[k]
	if !ok {
		return nil, false
	}
	return f.data[j], true
}

// At returns the cell at the row number and column key.
func (f *Frame) At(row int, k Key) (Value, bool) {
	col, ok := f.Column(k)
	if !ok || row < 0 || row >= len(col) {
		return nil, false
	}
	return col[row], true
}

// SwapLevels returns a new Frame with the outer and inner column levels
// exchanged. Column order is kept; cell data is shared with the original.
func (f *Frame) SwapLevels() *Frame {
	res := NewFrame(f.IndexName, f.index)
	res.Levels = [2]string{f.Levels[1], f.Levels[0]}
	for j, k := range f.columns {
		sk := k.Swap()
		res.positions[sk] = j
		res.columns = append(res.columns, sk)
	}
	res.data = f.data
	return res
}

// Filter returns a new Frame with only the rows for which keep returns true.
func (f *Frame) Filter(keep func(label Value) bool) *Frame {
	var rows []int
	for i, l := range f.index {
		if keep(l) {
			rows = append(rows, i)
		}
	}
	if len(rows) == len(f.index) {
		return f
	}
	index := make([]Value, len(rows))
	for i, r := range rows {
		index[i] = f.index[r]
	}
	res := NewFrame(f.IndexName, index)
	res.Levels = f.Levels
	for j, k := range f.columns {
		col := make([]Value, len(rows))
		for i, r := range rows {
			col[i] = f.data[j][r]
		}
		// Keys are unique in f, AddColumn cannot fail.
		res.AddColumn(k, col)
	}
	return res
}

// labelKey converts an index label into a map key. Times compare by instant.
func labelKey(v Value) any {
	type timeKey int64
	switch x := v.(type) {
	case nil, float64, string, bool, int, int64:
		return x
	case time.Time:
		return timeKey(x.UnixNano())
	}
	return fmt.Sprintf("%T:%v", v, v)
}

func sameIndex(a, b []Value) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if labelKey(a[i]) != labelKey(b[i]) {
			return false
		}
	}
	return true
}

// Concat places frames side by side. The columns of frames[i] become
// Key{keys[i], c.Inner}, and the resulting column levels are named by levels.
// When the row indexes differ, rows are joined by label in the order labels
// are first seen, and missing cells are nil.
func Concat(keys []string, levels [2]string, frames ...*Frame) (*Frame, error) {
	if len(keys) != len(frames) {
		return nil, errors.Reason("%d keys for %d frames", len(keys), len(frames))
	}
	if len(frames) == 0 {
		res := NewFrame("", nil)
		res.Levels = levels
		return res, nil
	}
	index := frames[0].index
	aligned := true
	for _, f := range frames[1:] {
		if !sameIndex(index, f.index) {
			aligned = false
			break
		}
	}
	var rowOf map[any]int
	if !aligned {
		index = nil
		rowOf = make(map[any]int)
		for _, f := range frames {
			for _, l := range f.index {
				k := labelKey(l)
				if _, ok := rowOf[k]; !ok {
					rowOf[k] = len(index)
					index = append(index, l)
				}
			}
		}
	}
	res := NewFrame(frames[0].IndexName, index)
	res.Levels = levels
	for i, f := range frames {
		if !aligned {
			seen := make(map[any]struct{}, len(f.index))
			for _, l := range f.index {
				k := labelKey(l)
				if _, ok := seen[k]; ok {
					return nil, errors.Reason("duplicate index label %s in frame %s",
						FormatValue(l), keys[i])
				}
				seen[k] = struct{}{}
			}
		}
		for j, c := range f.columns {
			col := f.data[j]
			if !aligned {
				col = make([]Value, len(index))
				for r, l := range f.index {
					col[rowOf[labelKey(l)]] = f.data[j][r]
				}
			}
			if err := res.AddColumn(Key{Outer: keys[i], Inner: c.Inner}, col); err != nil {
				return nil, errors.Annotate(err, "failed to concatenate frame %s", keys[i])
			}
		}
	}
	return res, nil
}

// FormatValue prints a cell for text and CSV output.
func FormatValue(v Value) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case float64:
		if math.IsNaN(x) {
			return "NaN"
		}
		return strconv.FormatFloat(x, 'g', -1, 64)
	case bool:
		if x {
			return "TRUE"
		}
		return "FALSE"
	case time.Time:
		if x.Hour() == 0 && x.Minute() == 0 && x.Second() == 0 && x.Nanosecond() == 0 {
			return x.Format(db.DateFormat)
		}
		return x.Format(db.TimeFormat)
	}
	return fmt.Sprint(v)
}

// Table flattens the Frame for printing: the first column is the index, the
// remaining headers are the column keys.
func (f *Frame) Table() *Table {
	header := make([]string, len(f.columns)+1)
	header[0] = f.IndexName
	for j, k := range f.columns {
		header[j+1] = k.String()
	}
	t := NewTable(header...)
	for i, l := range f.index {
		row := make(StringRow, len(f.columns)+1)
		row[0] = FormatValue(l)
		for j := range f.columns {
			row[j+1] = FormatValue(f.data[j][i])
		}
		t.AddRow(row)
	}
	return t
}
