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

package apis

import "strings"

// MediaType is the media type for JSON problem documents defined by RFC 9457.
//
// Envelope builders insert it as the Content-Type header when the caller did
// not provide one of their own.
const MediaType = "application/problem+json"

// Envelope is the fixed HTTP response shape produced by this module.
//
// The three keys — statusCode, body, headers — are the proxy-integration
// contract used by serverless platforms (AWS API Gateway / Lambda), which is
// why the shape never grows additional keys and why the field names are
// camelCased on the wire.
//
// Envelope is a *view type*: small, transport-friendly, and safe to marshal.
// We keep it in apis so that adapters (net/http, gRPC, Lambda) and the core
// error type can speak about "the response" without importing each other.
type Envelope struct {
	// StatusCode mirrors the status the caller supplied, unchanged. When no
	// status was provided it stays 0; the envelope never invents one. Wire
	// adapters that cannot send "no status" apply their own default.
	StatusCode int `json:"statusCode"`

	// Body is the serialized problem document.
	Body string `json:"body"`

	// Headers carries the response headers. Builders always populate a
	// content type (see MediaType) unless the caller already set one, in
	// any casing.
	Headers map[string]string `json:"headers"`
}

// Header returns the value of the named header using case-insensitive
// matching, along with whether it was present. Header casing in Headers is
// preserved verbatim, so lookups must not assume canonical form.
func (e Envelope) Header(name string) (string, bool) {
	for k, v := range e.Headers {
		if strings.EqualFold(k, name) {
			return v, true
		}
	}
	return "", false
}
