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
	"net/url"

	"github.com/stockparfait/errors"
	"github.com/stockparfait/fetch"
)

// URL is the default base URL of the terminal bridge. It may be overwritten in
// tests before creating a new client.
var URL = "http://127.0.0.1:8391/api/v1"

// Source is the terminal as seen by the shaping layer: one blocking call per
// query, plus the connection status and start.
type Source interface {
	// IsConnected reports whether the terminal session is up.
	IsConnected(ctx context.Context) (bool, error)
	// Start connects the terminal session.
	Start(ctx context.Context) error
	// Query executes a single call. A transport failure is returned as an
	// error; a terminal failure is reported in Response.ErrorCode.
	Query(ctx context.Context, q *Query) (*Response, error)
}

// Client for the terminal bridge.
type Client struct {
	baseURL string // the base URL of the bridge
	apiKey  string // optional bridge key
}

var _ Source = &Client{}

// NewClient creates a new bridge client.
func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
	}
}

func (c *Client) values() url.Values {
	query := make(url.Values)
	if c.apiKey != "" {
		query["api_key"] = []string{c.apiKey}
	}
	return query
}

type status struct {
	Connected bool `json:"connected"`
}

// IsConnected implements Source.
func (c *Client) IsConnected(ctx context.Context) (bool, error) {
	var s status
	uri := c.baseURL + "/status.json"
	if err := fetch.FetchJSON(ctx, uri, &s, c.values(), nil); err != nil {
		return false, errors.Annotate(err, "failed to fetch URL")
	}
	return s.Connected, nil
}

// Start implements Source. The bridge answers with a payload-less Response.
func (c *Client) Start(ctx context.Context) error {
	var r Response
	uri := c.baseURL + "/start.json"
	if err := fetch.FetchJSON(ctx, uri, &r, c.values(), nil); err != nil {
		return errors.Annotate(err, "failed to fetch URL")
	}
	return r.Err()
}

// Query implements Source.
func (c *Client) Query(ctx context.Context, q *Query) (*Response, error) {
	var r Response
	uri := c.baseURL + "/" + q.Path() + ".json"
	query := q.Values()
	for k, v := range c.values() {
		query[k] = v
	}
	if err := fetch.FetchJSON(ctx, uri, &r, query, nil); err != nil {
		return nil, errors.Annotate(err, "Query %s: failed to fetch URL", q.Path())
	}
	return &r, nil
}
