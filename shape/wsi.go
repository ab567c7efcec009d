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

// WSI fetches intraday bars of all the fields for each code over [start,
// stop], one terminal call per code. The result is indexed by time, with
// columns (code, field).
func WSI(ctx context.Context, codes, fields Names, start, stop time.Time, opts wind.Options) (*table.Frame, error) {
	return byCode(ctx, wind.FuncWSI, codes, fields, start, stop, opts)
}

// WST is like WSI for tick data.
func WST(ctx context.Context, codes, fields Names, start, stop time.Time, opts wind.Options) (*table.Frame, error) {
	return byCode(ctx, wind.FuncWST, codes, fields, start, stop, opts)
}

func byCode(ctx context.Context, fn wind.Function, codes, fields Names, start, stop time.Time, opts wind.Options) (*table.Frame, error) {
	q := wind.NewQuery(fn).Fields(fields...).
		Range(start.Format(db.TimeFormat), stop.Format(db.TimeFormat)).
		Options(opts.String())
	frames := make([]*table.Frame, len(codes))
	for i, code := range codes {
		r, err := call(ctx, q.Codes(code))
		if err != nil {
			return nil, err
		}
		f, err := seriesFrame(r.Timestamps(), fields, r.Data)
		if err != nil {
			return nil, errors.Annotate(err, "bad %s payload for %s", fn, code)
		}
		logging.Debugf(ctx, "%s %s: %d timestamps", fn, code, f.NumRows())
		frames[i] = f
	}
	res, err := table.Concat(codes, [2]string{"codes", "fields"}, frames...)
	if err != nil {
		return nil, errors.Annotate(err, "failed to combine codes")
	}
	res.IndexName = "time"
	return res, nil
}
