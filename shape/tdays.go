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
	"github.com/stockparfait/windframe/wind"
)

func toTime(v wind.Value) (time.Time, error) {
	s, ok := v.(string)
	if !ok {
		return time.Time{}, errors.Reason("expected a date string, got %T: %v", v, v)
	}
	t, err := db.NewTimeFromString(s)
	if err != nil {
		return time.Time{}, err
	}
	return t.ToTime(), nil
}

// TDays lists the trading days in [first, last]. Options such as "Days" or
// "TradingCalendar" select the calendar. Days the terminal reports outside of
// the range are dropped; a zero bound is open.
func TDays(ctx context.Context, first, last db.Date, opts wind.Options) ([]time.Time, error) {
	q := wind.NewQuery(wind.FuncTDays).
		Range(first.String(), last.String()).Options(opts.String())
	r, err := call(ctx, q)
	if err != nil {
		return nil, err
	}
	if len(r.Data) == 0 {
		return []time.Time{}, nil
	}
	res := make([]time.Time, 0, len(r.Data[0]))
	for _, v := range r.Data[0] {
		t, err := toTime(v)
		if err != nil {
			return nil, errors.Annotate(err, "bad tdays payload")
		}
		if !db.NewDateFromTime(t).InRange(first, last) {
			logging.Debugf(ctx, "tdays: skipping %s outside of [%s, %s]",
				t.Format(db.DateFormat), first, last)
			continue
		}
		res = append(res, t)
	}
	return res, nil
}

// TDaysCount is the number of trading days in [first, last].
func TDaysCount(ctx context.Context, first, last db.Date, opts wind.Options) (int, error) {
	q := wind.NewQuery(wind.FuncTDaysCount).
		Range(first.String(), last.String()).Options(opts.String())
	r, err := call(ctx, q)
	if err != nil {
		return 0, err
	}
	if len(r.Data) == 0 || len(r.Data[0]) == 0 {
		return 0, errors.Reason("empty tdayscount payload")
	}
	n, ok := r.Data[0][0].(float64)
	if !ok {
		return 0, errors.Reason("bad tdayscount payload: %v", r.Data[0][0])
	}
	return int(n), nil
}

// TDaysOffset is the trading day offset days away from day; a negative
// offset goes back in time.
func TDaysOffset(ctx context.Context, offset int, day db.Date, opts wind.Options) (time.Time, error) {
	q := wind.NewQuery(wind.FuncTDaysOffset).Offset(offset).
		Range(day.String(), "").Options(opts.String())
	r, err := call(ctx, q)
	if err != nil {
		return time.Time{}, err
	}
	if len(r.Data) == 0 || len(r.Data[0]) == 0 {
		return time.Time{}, errors.Reason("empty tdaysoffset payload")
	}
	t, err := toTime(r.Data[0][0])
	if err != nil {
		return time.Time{}, errors.Annotate(err, "bad tdaysoffset payload")
	}
	return t, nil
}
