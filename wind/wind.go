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

package wind

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/stockparfait/errors"
	"github.com/stockparfait/windframe/db"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// Function is the terminal function a Query calls.
type Function string

// Terminal functions.
const (
	FuncWSD         = Function("wsd")         // daily series across codes, one field
	FuncWSI         = Function("wsi")         // minute bars, one code
	FuncWST         = Function("wst")         // ticks, one code
	FuncWSS         = Function("wss")         // snapshot across codes and fields
	FuncWSet        = Function("wset")        // named reports
	FuncTDays       = Function("tdays")       // trading days in a range
	FuncTDaysCount  = Function("tdayscount")  // number of trading days in a range
	FuncTDaysOffset = Function("tdaysoffset") // trading day at an offset
)

// Query is a builder for a single terminal call. Builder methods always create
// a copy of the query, leaving the original intact.
type Query struct {
	function Function
	report   string // wset report name
	codes    []string
	fields   []string
	begin    string
	end      string
	offset   int
	options  string
}

// NewQuery creates a new query for the terminal function.
func NewQuery(f Function) *Query {
	return &Query{function: f}
}

// Copy creates a deep copy of the query.
func (q *Query) Copy() *Query {
	q2 := *q
	q2.codes = slices.Clone(q.codes)
	q2.fields = slices.Clone(q.fields)
	return &q2
}

// Report sets the report name for wset.
func (q *Query) Report(name string) *Query {
	q2 := q.Copy()
	q2.report = name
	return q2
}

// Codes sets the instrument codes.
func (q *Query) Codes(codes ...string) *Query {
	q2 := q.Copy()
	q2.codes = codes
	return q2
}

// Fields sets the requested fields.
func (q *Query) Fields(fields ...string) *Query {
	q2 := q.Copy()
	q2.fields = fields
	return q2
}

// Range sets the begin and end of the queried period, already formatted the
// way the terminal function expects. Either may be empty.
func (q *Query) Range(begin, end string) *Query {
	q2 := q.Copy()
	q2.begin = begin
	q2.end = end
	return q2
}

// Offset sets the day offset for tdaysoffset.
func (q *Query) Offset(n int) *Query {
	q2 := q.Copy()
	q2.offset = n
	return q2
}

// Options sets the option string, typically produced by Options.String().
func (q *Query) Options(options string) *Query {
	q2 := q.Copy()
	q2.options = options
	return q2
}

// Path returns the URL path to add to the base URL.
func (q *Query) Path() string {
	return string(q.function)
}

// Values returns the query values for the query. Each call creates a new
// object, so the caller is free to modify it without affecting the query.
func (q *Query) Values() url.Values {
	v := make(url.Values)
	if q.report != "" {
		v["report"] = []string{q.report}
	}
	if len(q.codes) > 0 {
		v["codes"] = []string{strings.Join(q.codes, ",")}
	}
	if len(q.fields) > 0 {
		v["fields"] = []string{strings.Join(q.fields, ",")}
	}
	if q.begin != "" {
		v["begin"] = []string{q.begin}
	}
	if q.end != "" {
		v["end"] = []string{q.end}
	}
	if q.function == FuncTDaysOffset {
		v["offset"] = []string{strconv.Itoa(q.offset)}
	}
	if q.options != "" {
		v["options"] = []string{q.options}
	}
	return v
}

func (q *Query) String() string {
	return q.Path() + "?" + q.Values().Encode()
}

// Value is an arbitrary value of a payload cell. Decoded from JSON, it is one
// of nil, float64, string or bool.
type Value = any

// Response is the raw payload of one terminal call. The layout of Data depends
// on the function: Data[i] is the series of the i-th code for wsd and of the
// i-th field for wsi, wst, wss and wset. When the call returns a single
// timestamp, Data holds a single row instead.
type Response struct {
	ErrorCode int       `json:"error_code"`
	Codes     []string  `json:"codes"`
	Fields    []string  `json:"fields"`
	Times     []db.Time `json:"times"`
	Data      [][]Value `json:"data"`
}

// Error is returned by every call whose terminal error code is non-zero.
type Error struct {
	Code    int
	Message string
}

var _ error = &Error{}

func (e *Error) Error() string {
	return fmt.Sprintf("ErrorCode=%d, Message=%s", e.Code, e.Message)
}

// Err returns *Error for a non-zero error code, and nil otherwise. The message
// is taken from the first cell of the payload.
func (r *Response) Err() error {
	if r.ErrorCode == 0 {
		return nil
	}
	var msg string
	if len(r.Data) > 0 && len(r.Data[0]) > 0 && r.Data[0][0] != nil {
		msg = fmt.Sprint(r.Data[0][0])
	}
	return &Error{Code: r.ErrorCode, Message: msg}
}

// Timestamps converts Times to time.Time.
func (r *Response) Timestamps() []time.Time {
	res := make([]time.Time, len(r.Times))
	for i, t := range r.Times {
		res[i] = t.ToTime()
	}
	return res
}

// Options is an open set of terminal options. It serializes into the
// terminal's "key=value;key=value" form with keys in sorted order.
type Options map[string]any

// FormatOption prints a single option value. Date-like values use the compact
// YYYYMMDD form.
func FormatOption(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case db.Date:
		return x.Compact()
	case db.Time:
		return x.Date().Compact()
	case *db.Time:
		if x == nil {
			return ""
		}
		return x.Date().Compact()
	case time.Time:
		return x.Format(db.CompactDateFormat)
	case float64:
		return strconv.FormatFloat(x, 'g', -1, 64)
	case bool:
		if x {
			return "Y"
		}
		return "N"
	}
	return fmt.Sprint(v)
}

func (o Options) String() string {
	keys := maps.Keys(o)
	slices.Sort(keys)
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = k + "=" + FormatOption(o[k])
	}
	return strings.Join(parts, ";")
}

// Merge returns new Options with the values of o overridden by o2.
func (o Options) Merge(o2 Options) Options {
	res := make(Options, len(o)+len(o2))
	for k, v := range o {
		res[k] = v
	}
	for k, v := range o2 {
		res[k] = v
	}
	return res
}

// ParseOptions reads the "key=value;key=value" form. Values stay strings.
func ParseOptions(s string) (Options, error) {
	res := make(Options)
	for _, part := range strings.Split(s, ";") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		kv := strings.SplitN(part, "=", 2)
		if len(kv) != 2 || strings.TrimSpace(kv[0]) == "" {
			return nil, errors.Reason("option '%s' is not of the form key=value", part)
		}
		res[strings.TrimSpace(kv[0])] = strings.TrimSpace(kv[1])
	}
	return res, nil
}
