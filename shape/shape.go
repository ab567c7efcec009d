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

// Package shape turns terminal responses into Frames.
//
// Every function issues one or more sequential calls through the Session in
// the context (see wind.UseSource), fails on the first non-zero terminal error
// code with the unwrapped *wind.Error, and never returns a partial result.
//
// Frames come in a few canonical shapes:
//
//   - time index, columns (code, field): WSD, WSI, WST;
//   - code index, columns (field): WSS;
//   - rank index, columns (date, field): RankedGroups, FutureOIR, FutureVIR;
//   - record number index, columns (field): WSet, FutureCC.
package shape

import (
	"context"
	"strings"
	"time"

	"github.com/stockparfait/errors"
	"github.com/stockparfait/windframe/table"
	"github.com/stockparfait/windframe/wind"
)

// Names is an ordered list of codes or fields. The order is preserved in all
// calls and determines the column order of the result.
type Names []string

// Split a comma-joined list such as "600000.SH,000001.SZ". Blanks around
// names are trimmed and empty names are dropped.
func Split(s string) Names {
	var res Names
	for _, n := range strings.Split(s, ",") {
		n = strings.TrimSpace(n)
		if n != "" {
			res = append(res, n)
		}
	}
	return res
}

// String joins the names back with commas.
func (n Names) String() string { return strings.Join(n, ",") }

// call executes q and checks the terminal error code. A terminal error is
// returned as is, so the caller can inspect *wind.Error.
func call(ctx context.Context, q *wind.Query) (*wind.Response, error) {
	s := wind.GetSession(ctx)
	if s == nil {
		return nil, errors.Reason("no Wind session in context")
	}
	r, err := s.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	if err := r.Err(); err != nil {
		return nil, err
	}
	return r, nil
}

func timeIndex(times []time.Time) []table.Value {
	index := make([]table.Value, len(times))
	for i, t := range times {
		index[i] = t
	}
	return index
}

// seriesFrame builds a time-indexed Frame with one column per name. With more
// than one timestamp, data[i] is the series of names[i]. With a single
// timestamp the terminal returns one row, and data[0][i] is the value for
// names[i]. Both produce the same columns.
func seriesFrame(times []time.Time, names []string, data [][]wind.Value) (*table.Frame, error) {
	f := table.NewFrame("time", timeIndex(times))
	switch {
	case len(times) == 0:
		for _, n := range names {
			if err := f.AddColumn(table.Key{Inner: n}, []table.Value{}); err != nil {
				return nil, err
			}
		}
	case len(times) == 1:
		if len(data) < 1 || len(data[0]) != len(names) {
			return nil, errors.Reason("expected a single row of %d values, got %d rows",
				len(names), len(data))
		}
		for i, n := range names {
			if err := f.AddColumn(table.Key{Inner: n}, []table.Value{data[0][i]}); err != nil {
				return nil, err
			}
		}
	default:
		if len(data) != len(names) {
			return nil, errors.Reason("expected %d series, got %d", len(names), len(data))
		}
		for i, n := range names {
			if err := f.AddColumn(table.Key{Inner: n}, data[i]); err != nil {
				return nil, err
			}
		}
	}
	return f, nil
}
