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
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"

	"dirpx.dev/problems"
	"dirpx.dev/problems/apis"
)

// Writer is a thin adapter that knows how to turn any error into a
// problem+json HTTP response.
//
// Both fields are optional: the zero Writer writes correct responses and
// does nothing else.
type Writer struct {
	// Log receives one entry per written response, classed by status
	// (>=500 error, >=400 warn, otherwise info). nil disables logging.
	Log Logger

	// Metrics counts written responses by status. nil disables counting.
	Metrics *Metrics
}

// Resolve converts an arbitrary error into the *problems.Problem that Write
// would render for it:
//
//   - a *problems.Problem anywhere in the unwrap chain is used as-is;
//   - an apis.FieldsProvider contributes its full problem members, with the
//     original error attached as cause;
//   - an apis.StatusProvider contributes its status, with the error text as
//     detail;
//   - anything else becomes a 500 problem via problems.From.
func Resolve(err error) *problems.Problem {
	if err == nil {
		return nil
	}

	var fp apis.FieldsProvider
	if errors.As(err, &fp) {
		if p, ok := fp.(*problems.Problem); ok {
			return p
		}
		return problems.FromFields(fp.ProblemFields()).WithCause(err)
	}

	var sp apis.StatusProvider
	if errors.As(err, &sp) {
		st := sp.ProblemStatus()
		if st == 0 {
			st = http.StatusInternalServerError
		}
		return problems.New(st,
			problems.WithDetailOption(err.Error()),
			problems.WithCauseOption(err),
		)
	}

	return problems.From(err)
}

// Write renders err as a problem document on rw.
//
// A stored status of 0 is written as 500: a ResponseWriter cannot send "no
// status", so the wire default applies here, while the document body keeps
// whatever members the problem actually has. Conversion options (trace
// capture, config overrides) are forwarded to the rendering.
//
// No automatic redaction or filtering is performed: whatever is present in
// the error is exposed as-is. Higher-level handlers should apply policies
// if needed.
func (w Writer) Write(rw http.ResponseWriter, err error, opts ...problems.ConvertOption) {
	if err == nil {
		return
	}

	p := Resolve(err)
	status := p.Status
	if status <= 0 {
		status = http.StatusInternalServerError
	}

	env, serr := p.Response(nil, opts...)
	if serr != nil {
		// The body cannot be produced; a bare 500 is all that is left.
		if w.Log != nil {
			w.Log.Errorw("problem response failed", "status", status, "error", serr)
		}
		w.Metrics.observe(http.StatusInternalServerError)
		http.Error(rw, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	for k, v := range env.Headers {
		rw.Header().Set(k, v)
	}
	rw.WriteHeader(status)
	_, _ = io.WriteString(rw, env.Body)

	if w.Log != nil {
		kv := []any{"status", status, "type", p.Type, "detail", p.Detail}
		if p.Cause != nil {
			kv = append(kv, "cause", p.Cause)
		}
		switch {
		case status >= 500:
			w.Log.Errorw("problem response", kv...)
		case status >= 400:
			w.Log.Warnw("problem response", kv...)
		default:
			w.Log.Infow("problem response", kv...)
		}
	}
	w.Metrics.observe(status)
}

// Metrics counts problem responses on a Prometheus registry.
type Metrics struct {
	responses *prometheus.CounterVec
}

// NewMetrics builds the response counter and registers it on reg.
// It panics when a collector with the same name is already registered,
// matching prometheus.MustRegister semantics.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	responses := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "problem_responses_total",
		Help: "Count of problem responses written, labelled by HTTP status.",
	}, []string{"status"})

	reg.MustRegister(responses)

	return &Metrics{responses: responses}
}

func (m *Metrics) observe(status int) {
	if m == nil || m.responses == nil {
		return
	}
	m.responses.WithLabelValues(strconv.Itoa(status)).Inc()
}
