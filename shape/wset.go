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

package shape

import (
	"context"
	"strings"
	"time"

	"github.com/stockparfait/errors"
	"github.com/stockparfait/iterator"
	"github.com/stockparfait/logging"
	"github.com/stockparfait/windframe/db"
	"github.com/stockparfait/windframe/table"
	"github.com/stockparfait/windframe/wind"

	"golang.org/x/exp/slices"
)

// Column names of the ranked holdings reports.
const (
	DateField = "date"
	RankField = "ranks"
)

// WSet fetches a report as a flat table: one column per returned field, rows
// indexed by record number.
func WSet(ctx context.Context, report string, opts wind.Options) (*table.Frame, error) {
	r, err := wset(ctx, report, opts)
	if err != nil {
		return nil, err
	}
	if len(r.Data) != len(r.Fields) {
		return nil, errors.Reason("bad wset %s payload: %d fields, %d columns",
			report, len(r.Fields), len(r.Data))
	}
	n := 0
	if len(r.Data) > 0 {
		n = len(r.Data[0])
	}
	index := make([]table.Value, n)
	for i := range index {
		index[i] = i
	}
	f := table.NewFrame("record", index)
	f.Levels = [2]string{"", "fields"}
	for i, field := range r.Fields {
		if err := f.AddColumn(table.Key{Inner: field}, r.Data[i]); err != nil {
			return nil, errors.Annotate(err, "bad wset %s payload", report)
		}
	}
	return f, nil
}

func wset(ctx context.Context, report string, opts wind.Options) (*wind.Response, error) {
	r, err := call(ctx, wind.NewQuery(wind.FuncWSet).Report(report).Options(opts.String()))
	if err != nil {
		return nil, err
	}
	logging.Debugf(ctx, "wset %s: %d fields", report, len(r.Fields))
	return r, nil
}

// FutureCC fetches the chain of futures contracts of a variety (e.g. "IF.CFE")
// listed over the period. When fields are empty, the terminal returns its
// default set of fields.
func FutureCC(ctx context.Context, start, end db.Date, code string, fields Names) (*table.Frame, error) {
	opts := wind.Options{
		"startdate": start,
		"enddate":   end,
		"wind_code": code,
	}
	if len(fields) > 0 {
		opts["field"] = fields.String()
	}
	return WSet(ctx, "futurecc", opts)
}

// RankQuery selects a ranked futures holdings report.
type RankQuery struct {
	Start   db.Date
	End     db.Date
	Variety string // e.g. "IF.CFE"
	Code    string // optional contract code, e.g. "IF2403.CFE"
	OrderBy string // e.g. "long", "short"
}

func (q RankQuery) options() wind.Options {
	opts := wind.Options{
		"startdate": q.Start,
		"enddate":   q.End,
		"varity":    q.Variety,
	}
	if q.Code != "" {
		opts["wind_code"] = q.Code
	}
	if q.OrderBy != "" {
		opts["order_by"] = q.OrderBy
	}
	return opts
}

// FutureOIR fetches the open interest ranking of futures brokers, one group
// of ranks per date. Extra options are passed to the terminal as is.
func FutureOIR(ctx context.Context, q RankQuery, extra wind.Options) (*table.Frame, error) {
	r, err := wset(ctx, "futureoir", q.options().Merge(extra))
	if err != nil {
		return nil, err
	}
	return RankedGroups(r.Fields, r.Data, DateField, RankField)
}

// FutureVIR fetches the volume ranking of futures brokers with all ranks.
func FutureVIR(ctx context.Context, q RankQuery) (*table.Frame, error) {
	r, err := wset(ctx, "futurevir", q.options().Merge(wind.Options{"ranks": "all"}))
	if err != nil {
		return nil, err
	}
	return RankedGroups(r.Fields, r.Data, DateField, RankField)
}

// dateLabel normalizes a date cell so that the same day groups together
// whether the terminal sent "2024-01-02" or "2024-01-02 00:00:00".
func dateLabel(v wind.Value) string {
	switch x := v.(type) {
	case string:
		if d, err := db.NewDateFromString(strings.TrimSpace(x)); err == nil {
			return d.String()
		}
	case time.Time:
		return db.NewDateFromTime(x).String()
	}
	return table.FormatValue(v)
}

type dateGroup struct {
	date string
	rows []int
}

// RankedGroups shapes a flat record set where data[i] is the column of
// fields[i]. Records are grouped by the date column in the order dates are
// first seen; within a group the rank column becomes the row index and the
// remaining fields, including the date, become columns. Groups are placed
// side by side with columns (date, field), and rows are aligned by rank.
//
// Every record must have a rank, and ranks must be unique within a date.
func RankedGroups(fields []string, data [][]wind.Value, dateField, rankField string) (*table.Frame, error) {
	dateCol := slices.Index(fields, dateField)
	if dateCol < 0 {
		return nil, errors.Reason("no %s field in %v", dateField, fields)
	}
	rankCol := slices.Index(fields, rankField)
	if rankCol < 0 {
		return nil, errors.Reason("no %s field in %v", rankField, fields)
	}
	levels := [2]string{"time", "fields"}
	if len(data) == 0 {
		res := table.NewFrame(rankField, nil)
		res.Levels = levels
		return res, nil
	}
	if len(data) != len(fields) {
		return nil, errors.Reason("%d fields, %d columns", len(fields), len(data))
	}
	n := len(data[0])
	for i, col := range data {
		if len(col) != n {
			return nil, errors.Reason("column %s has %d records, expected %d",
				fields[i], len(col), n)
		}
	}

	records := make([]int, n)
	for i := range records {
		records[i] = i
	}
	groupOf := make(map[string]int)
	groups := iterator.Reduce[int, []*dateGroup](iterator.FromSlice(records), nil,
		func(r int, gs []*dateGroup) []*dateGroup {
			d := dateLabel(data[dateCol][r])
			g, ok := groupOf[d]
			if !ok {
				g = len(gs)
				groupOf[d] = g
				gs = append(gs, &dateGroup{date: d})
			}
			gs[g].rows = append(gs[g].rows, r)
			return gs
		})

	keys := make([]string, len(groups))
	frames := make([]*table.Frame, len(groups))
	for gi, g := range groups {
		index := make([]table.Value, len(g.rows))
		seen := make(map[any]struct{}, len(g.rows))
		for i, r := range g.rows {
			rank := data[rankCol][r]
			if rank == nil {
				return nil, errors.Reason("record %d on %s has no %s", r, g.date, rankField)
			}
			if _, ok := seen[rank]; ok {
				return nil, errors.Reason("duplicate %s %s on %s",
					rankField, table.FormatValue(rank), g.date)
			}
			seen[rank] = struct{}{}
			index[i] = rank
		}
		f := table.NewFrame(rankField, index)
		for c, field := range fields {
			if c == rankCol {
				continue
			}
			col := make([]table.Value, len(g.rows))
			for i, r := range g.rows {
				col[i] = data[c][r]
			}
			if err := f.AddColumn(table.Key{Inner: field}, col); err != nil {
				return nil, err
			}
		}
		keys[gi] = g.date
		frames[gi] = f
	}
	res, err := table.Concat(keys, levels, frames...)
	if err != nil {
		return nil, errors.Annotate(err, "failed to combine dates")
	}
	res.IndexName = rankField
	return res, nil
}
