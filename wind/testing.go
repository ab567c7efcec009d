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
	"context"
	"time"

	"github.com/stockparfait/errors"
	"github.com/stockparfait/windframe/db"
)

// TestSource is a scripted Source for use in tests. Queries are recorded and
// answered with Responses in order; the last response repeats.
type TestSource struct {
	Connected bool
	StartErr  error // returned by Start
	Starts    int   // number of Start calls
	Responses []*Response
	Queries   []*Query
}

var _ Source = &TestSource{}

// IsConnected implements Source.
func (s *TestSource) IsConnected(ctx context.Context) (bool, error) {
	return s.Connected, nil
}

// Start implements Source. It fails with StartErr when set, and connects
// otherwise.
func (s *TestSource) Start(ctx context.Context) error {
	s.Starts++
	if s.StartErr != nil {
		return s.StartErr
	}
	s.Connected = true
	return nil
}

// Query implements Source.
func (s *TestSource) Query(ctx context.Context, q *Query) (*Response, error) {
	if len(s.Responses) == 0 {
		return nil, errors.Reason("TestSource: no responses for %s", q)
	}
	i := len(s.Queries)
	if i >= len(s.Responses) {
		i = len(s.Responses) - 1
	}
	s.Queries = append(s.Queries, q)
	return s.Responses[i], nil
}

// TestResponse creates a successful Response for use in tests.
func TestResponse(times []time.Time, data ...[]Value) *Response {
	ts := make([]db.Time, len(times))
	for i, t := range times {
		ts[i] = db.Time(t)
	}
	return &Response{Times: ts, Data: data}
}

// TestErrorResponse creates a failed Response for use in tests.
func TestErrorResponse(code int, message string) *Response {
	return &Response{ErrorCode: code, Data: [][]Value{{message}}}
}
