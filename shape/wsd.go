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
	"time"

	"github.com/stockparfait/errors"
	"github.com/stockparfait/logging"
	"github.com/stockparfait/windframe/db"
	"github.com/stockparfait/windframe/table"
	"github.com/stockparfait/windframe/wind"
)

// WSD fetches daily series of several codes over [start, end], one terminal
// call per field. The result is indexed by time, with columns (code, field)
// ordered field by field: (A, close), (B, close), (A, open), ...
//
// The terminal may return a row dated before the requested start when the
// range is truncated at a day boundary; rows strictly before the calendar date
// of start are dropped.
func WSD(ctx context.Context, codes, fields Names, start, end time.Time, opts wind.Options) (*table.Frame, error) {
	q := wind.NewQuery(wind.FuncWSD).Codes(codes...).
		Range(start.Format(db.DateFormat), end.Format(db.DateFormat)).
		Options(opts.String())
	frames := make([]*table.Frame, len(fields))
	for i, field := range fields {
		r, err := call(ctx, q.Fields(field))
		if err != nil {
			return nil, err
		}
		f, err := seriesFrame(r.Timestamps(), codes, r.Data)
		if err != nil {
			return nil, errors.Annotate(err, "bad wsd payload for field %s", field)
		}
		logging.Debugf(ctx, "wsd %s: %d timestamps for %d codes", field, f.NumRows(), len(codes))
		frames[i] = f
	}
	res, err := table.Concat(fields, [2]string{"fields", "codes"}, frames...)
	if err != nil {
		return nil, errors.Annotate(err, "failed to combine fields")
	}
	res = res.SwapLevels()
	res.IndexName = "time"
	startDate := db.NewDateFromTime(start)
	return res.Filter(func(l table.Value) bool {
		t, ok := l.(time.Time)
		return !ok || !db.NewDateFromTime(t).Before(startDate)
	}), nil
}
