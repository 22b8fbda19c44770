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

package httpx

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"dirpx.dev/problems/apis"
	"dirpx.dev/problems/fields"
)

// IsProblem reports whether the response declares a problem-details body,
// based on its Content-Type (parameters such as charset are ignored).
func IsProblem(resp *http.Response) bool {
	if resp == nil {
		return false
	}
	ct := resp.Header.Get("Content-Type")
	if i := strings.IndexByte(ct, ';'); i >= 0 {
		ct = ct[:i]
	}
	return strings.EqualFold(strings.TrimSpace(ct), apis.MediaType)
}

// Decode reads a problem document from the response body.
//
// The standard members are coerced (the wire may carry the status as a
// number or a string); everything else lands in Extensions. When the body
// carries no status member, the response's own status code fills it in.
//
// Decode neither checks the Content-Type (use IsProblem for that) nor
// closes the body; both stay with the caller.
func Decode(resp *http.Response) (fields.Fields, error) {
	var m map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&m); err != nil {
		return fields.Fields{}, fmt.Errorf("httpx: decode problem: %w", err)
	}

	f, err := fields.FromMap(m)
	if err != nil {
		return fields.Fields{}, fmt.Errorf("httpx: decode problem: %w", err)
	}
	if f.Status == 0 {
		f.Status = resp.StatusCode
	}
	return f, nil
}
