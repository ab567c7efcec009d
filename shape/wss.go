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

	"github.com/stockparfait/errors"
	"github.com/stockparfait/windframe/db"
	"github.com/stockparfait/windframe/table"
	"github.com/stockparfait/windframe/wind"
)

// WSS fetches one value per (code, field) in a single call. The result is
// indexed by code, with one column per field. A zero date lets the terminal
// pick its default (the latest) date; otherwise unadjusted daily values as of
// the date are requested.
func WSS(ctx context.Context, codes, fields Names, date db.Date) (*table.Frame, error) {
	q := wind.NewQuery(wind.FuncWSS).Codes(codes...).Fields(fields...)
	if !date.IsZero() {
		q = q.Options(wind.Options{
			"tradeDate": date,
			"priceAdj":  "U",
			"cycle":     "D",
		}.String())
	}
	r, err := call(ctx, q)
	if err != nil {
		return nil, err
	}
	if len(r.Data) != len(fields) {
		return nil, errors.Reason("bad wss payload: expected %d fields, got %d",
			len(fields), len(r.Data))
	}
	index := make([]table.Value, len(codes))
	for i, c := range codes {
		index[i] = c
	}
	f := table.NewFrame("codes", index)
	f.Levels = [2]string{"", "fields"}
	for i, field := range fields {
		if err := f.AddColumn(table.Key{Inner: field}, r.Data[i]); err != nil {
			return nil, errors.Annotate(err, "bad wss payload")
		}
	}
	return f, nil
}
