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
	"fmt"
	"net/http"
	"runtime/debug"

	"dirpx.dev/problems"
)

// Recovery returns middleware that converts panics in next into 500 problem
// responses.
//
// Trace capture happens inside the deferred recover, so when the traceback
// policy is on, the document's "traceback" extension shows the frames of
// the panic that is being handled, not just the middleware's own.
//
// The panic value is exposed as the problem detail; apply a redaction layer
// above this middleware when that is not acceptable.
func (w Writer) Recovery(next http.Handler) http.Handler {
	return http.HandlerFunc(func(rw http.ResponseWriter, r *http.Request) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			// http.ErrAbortHandler is the server's own abort signal.
			if err, ok := rec.(error); ok && err == http.ErrAbortHandler {
				panic(rec)
			}

			if w.Log != nil {
				w.Log.Errorw("panic recovered",
					"panic", rec,
					"path", r.URL.Path,
					"stack", string(debug.Stack()),
				)
			}

			p := problems.New(http.StatusInternalServerError,
				problems.WithDetailOption(fmt.Sprint(rec)),
				problems.WithInstanceOption(r.URL.Path),
			)
			w.Write(rw, p)
		}()
		next.ServeHTTP(rw, r)
	})
}
