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

	"github.com/stockparfait/errors"
	"github.com/stockparfait/logging"
)

type contextKey int

const (
	sessionContextKey contextKey = iota
)

// Session guards the process-wide terminal connection: the first query
// checks the connection and starts it if needed, later queries go straight
// to the Source. A Session is not safe for concurrent use.
type Session struct {
	source Source
	ready  bool
}

// NewSession wraps the Source.
func NewSession(s Source) *Session {
	return &Session{source: s}
}

// Source behind the session.
func (s *Session) Source() Source { return s.source }

// Ensure connects the terminal unless it is already connected. Once it
// succeeds, subsequent calls do nothing. A failed start is retried on the
// next call.
func (s *Session) Ensure(ctx context.Context) error {
	if s.ready {
		return nil
	}
	ok, err := s.source.IsConnected(ctx)
	if err != nil {
		return errors.Annotate(err, "failed to check terminal connection")
	}
	if !ok {
		logging.Infof(ctx, "Wind: starting terminal session")
		if err := s.source.Start(ctx); err != nil {
			return errors.Annotate(err, "failed to start terminal session")
		}
	}
	s.ready = true
	return nil
}

// Query runs q after making sure the terminal is connected. The terminal
// error code is left for the caller to check with Response.Err().
func (s *Session) Query(ctx context.Context, q *Query) (*Response, error) {
	if err := s.Ensure(ctx); err != nil {
		return nil, err
	}
	r, err := s.source.Query(ctx, q)
	if err != nil {
		return nil, errors.Annotate(err, "failed to query %s", q.Path())
	}
	logging.Debugf(ctx, "Wind: %s returned code %d, %d times, %d series",
		q, r.ErrorCode, len(r.Times), len(r.Data))
	return r, nil
}

// UseSource wraps the Source into a new Session and injects it into the
// context.
func UseSource(ctx context.Context, s Source) context.Context {
	return context.WithValue(ctx, sessionContextKey, NewSession(s))
}

// UseClient creates a new bridge client for the API key at the default URL
// and injects it into the context.
func UseClient(ctx context.Context, apiKey string) context.Context {
	return UseSource(ctx, NewClient(URL, apiKey))
}

// GetSession extracts the Session from the context, if any.
func GetSession(ctx context.Context) *Session {
	s, ok := ctx.Value(sessionContextKey).(*Session)
	if !ok {
		return nil
	}
	return s
}
