/*
   Copyright 2026 The DIRPX Authors

   Licensed under the Apache License, Version 2.0 (the "License");
   you may not use this file except in compliance with the License.
   You may obtain a copy of the License at

       http://www.apache.org/licenses/LICENSE-2.0

   Unless required by applicable law or agreed to in writing, software
   distributed under the License is distributed on an "AS IS" BASIS,
   WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
   See the License for the specific language governing permissions and
   limitations under the License.
*/

package problems

import (
	"fmt"
	"strings"

	"dirpx.dev/problems/apis"
	"dirpx.dev/problems/fields"
)

// Map renders the problem into its normalized member map.
//
// When trace capture is active (per-call WithTrace, else the process
// default), the current stack text is captured at this moment and merged as
// the "traceback" extension before normalization, overriding any stored
// extension of that name. The stored problem is never modified.
func (p *Problem) Map(opts ...ConvertOption) map[string]any {
	return p.mapWith(newConvert(opts))
}

func (p *Problem) mapWith(conv convert) map[string]any {
	if p == nil {
		return map[string]any{}
	}
	f := p.view()
	if conv.includeTrace() {
		f = f.Clone()
		if f.Extensions == nil {
			f.Extensions = make(map[string]any, 1)
		}
		f.Extensions[tracebackKey] = conv.cfg.traceFunc()()
	}
	return f.Normalize()
}

// Response renders the problem into the fixed three-key HTTP envelope.
//
// The body is the serialized member map (same trace resolution as Map), the
// status code mirrors the stored Status unchanged, and headers follow the
// content-type rules of HTTPResponse. Serialization failures are returned
// wrapping ErrSerialize; no fallback body is produced.
func (p *Problem) Response(headers map[string]string, opts ...ConvertOption) (apis.Envelope, error) {
	conv := newConvert(opts)
	status := 0
	if p != nil {
		status = p.Status
	}
	return buildEnvelope(status, p.mapWith(conv), headers, conv.cfg)
}

// HTTPResponse renders raw problem members into the fixed three-key HTTP
// envelope without going through a Problem value.
//
// Rules:
//
//   - Body: the serialized normalized member map. A serialization failure
//     is returned wrapping ErrSerialize; there is no fallback.
//   - Headers: the caller's map is copied, never mutated. When no
//     content-type key is present (checked case-insensitively), the
//     problem+json media type is inserted; an existing content type of any
//     casing is preserved verbatim.
//   - StatusCode: mirrors f.Status unchanged, including 0 when no status
//     was provided. The envelope never invents a status; wire adapters
//     apply their own defaults.
//
// Trace capture is a Problem conversion concern and does not apply here:
// callers who want a traceback member go through Problem.Response, or put
// one into f.Extensions themselves.
func HTTPResponse(f fields.Fields, headers map[string]string, opts ...ConvertOption) (apis.Envelope, error) {
	conv := newConvert(opts)
	return buildEnvelope(f.Status, f.Normalize(), headers, conv.cfg)
}

func buildEnvelope(status int, body map[string]any, headers map[string]string, cfg Config) (apis.Envelope, error) {
	raw, err := cfg.serializeFunc()(body)
	if err != nil {
		return apis.Envelope{}, fmt.Errorf("%w: %w", ErrSerialize, err)
	}

	h := make(map[string]string, len(headers)+1)
	hasType := false
	for k, v := range headers {
		h[k] = v
		if strings.EqualFold(k, "Content-Type") {
			hasType = true
		}
	}
	if !hasType {
		h["Content-Type"] = apis.MediaType
	}

	return apis.Envelope{
		StatusCode: status,
		Body:       string(raw),
		Headers:    h,
	}, nil
}
