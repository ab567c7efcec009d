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

// Package wind is the Data Source side of windframe: the query builder, the
// raw response returned by the Wind terminal, its error contract, and the
// Source interface with an HTTP bridge implementation.
//
// The terminal itself is a closed-source desktop service. Client talks to a
// small JSON bridge running next to the terminal, which exposes one endpoint
// per terminal function (wsd.json, wsi.json, ...) and returns responses in
// the format of Response. Any other Source implementation can be injected
// into the context with UseSource.
//
// Each terminal call reports its own error code. A non-zero code is returned
// as *Error carrying the code and the message the terminal put into the first
// cell of the payload.
//
// The connection to the terminal is process-wide and established lazily:
// Session checks the connection and starts it once, before the first query.
package wind
