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
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"dirpx.dev/problems/apis"
	"dirpx.dev/problems/fields"
)

func TestHTTPResponse_Defaults(t *testing.T) {
	resetConfig(t)

	env, err := HTTPResponse(fields.Fields{Status: 404}, nil)
	if err != nil {
		t.Fatalf("HTTPResponse: %v", err)
	}

	if env.StatusCode != 404 {
		t.Fatalf("StatusCode = %d, want 404", env.StatusCode)
	}
	if env.Body != `{"status":404,"title":"Not Found"}` {
		t.Fatalf("Body = %q", env.Body)
	}
	if ct, ok := env.Header("content-type"); !ok || ct != apis.MediaType {
		t.Fatalf("Content-Type = %q, %v", ct, ok)
	}
}

func TestHTTPResponse_PreservesContentType(t *testing.T) {
	resetConfig(t)

	headers := map[string]string{"content-TYPE": "application/json"}
	env, err := HTTPResponse(fields.Fields{Status: 400}, headers)
	if err != nil {
		t.Fatalf("HTTPResponse: %v", err)
	}

	// The caller's key survives with its exact casing, nothing is added.
	if v, ok := env.Headers["content-TYPE"]; !ok || v != "application/json" {
		t.Fatalf("caller content type lost: %#v", env.Headers)
	}
	if _, ok := env.Headers["Content-Type"]; ok {
		t.Fatalf("default must not be inserted next to an existing one: %#v", env.Headers)
	}
	if len(env.Headers) != 1 {
		t.Fatalf("unexpected headers: %#v", env.Headers)
	}
}

func TestHTTPResponse_DoesNotMutateCallerHeaders(t *testing.T) {
	resetConfig(t)

	headers := map[string]string{"X-Request-Id": "abc"}
	env, err := HTTPResponse(fields.Fields{Status: 500}, headers)
	if err != nil {
		t.Fatalf("HTTPResponse: %v", err)
	}

	if len(headers) != 1 {
		t.Fatalf("caller headers mutated: %#v", headers)
	}
	if v, ok := env.Header("x-request-id"); !ok || v != "abc" {
		t.Fatalf("caller header not copied: %#v", env.Headers)
	}
	if ct, ok := env.Header("Content-Type"); !ok || ct != apis.MediaType {
		t.Fatalf("Content-Type = %q, %v", ct, ok)
	}
}

func TestHTTPResponse_AbsentStatusPassesThrough(t *testing.T) {
	resetConfig(t)

	env, err := HTTPResponse(fields.Fields{}, nil)
	if err != nil {
		t.Fatalf("HTTPResponse: %v", err)
	}
	if env.StatusCode != 0 {
		t.Fatalf("StatusCode = %d, want 0 (absent)", env.StatusCode)
	}
	if env.Body != "{}" {
		t.Fatalf("Body = %q, want empty document", env.Body)
	}
}

func TestHTTPResponse_SerializeFailure(t *testing.T) {
	resetConfig(t)

	boom := errors.New("boom")
	cfg := Config{Serialize: func(map[string]any) ([]byte, error) { return nil, boom }}

	env, err := HTTPResponse(fields.Fields{Status: 404}, nil, WithConfig(cfg))
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.Is(err, ErrSerialize) {
		t.Fatalf("error = %v, want ErrSerialize", err)
	}
	if !errors.Is(err, boom) {
		t.Fatalf("error = %v, want wrapped cause", err)
	}
	if env.StatusCode != 0 || env.Body != "" || env.Headers != nil {
		t.Fatalf("no fallback envelope allowed, got %#v", env)
	}
}

func TestResponse_Traceback(t *testing.T) {
	resetConfig(t)

	p := New(500, WithDetailOption("it broke"))

	env, err := p.Response(nil)
	if err != nil {
		t.Fatalf("Response: %v", err)
	}
	if strings.Contains(env.Body, "traceback") {
		t.Fatalf("traceback must be off by default: %q", env.Body)
	}

	ActivateTraceback()
	env, err = p.Response(nil)
	if err != nil {
		t.Fatalf("Response: %v", err)
	}
	var m map[string]any
	if err := json.Unmarshal([]byte(env.Body), &m); err != nil {
		t.Fatalf("body is not JSON: %v", err)
	}
	trace, ok := m["traceback"].(string)
	if !ok || !strings.Contains(trace, "goroutine") {
		t.Fatalf("traceback missing or malformed: %#v", m["traceback"])
	}

	// The stored problem itself stays clean.
	if _, ok := p.Extensions["traceback"]; ok {
		t.Fatal("conversion leaked the traceback into the stored problem")
	}
}

func TestResponse_CapturedTraceOverridesStoredExtension(t *testing.T) {
	resetConfig(t)

	p := New(500).WithExtension("traceback", "stored")
	cfg := Config{Trace: func() string { return "captured" }}

	m := p.Map(WithConfig(cfg), WithTrace(true))
	if m["traceback"] != "captured" {
		t.Fatalf("capture must win over the stored extension: %#v", m)
	}

	m = p.Map(WithTrace(false))
	if m["traceback"] != "stored" {
		t.Fatalf("stored extension must survive when capture is off: %#v", m)
	}
}

func TestResponse_NilProblem(t *testing.T) {
	resetConfig(t)

	var p *Problem
	env, err := p.Response(nil)
	if err != nil {
		t.Fatalf("Response: %v", err)
	}
	if env.StatusCode != 0 || env.Body != "{}" {
		t.Fatalf("nil problem envelope = %#v", env)
	}
}

func TestResponse_StatusMirrorsStoredValue(t *testing.T) {
	resetConfig(t)

	// Extensions may shadow the "status" member in the body; the envelope
	// status still mirrors the stored field.
	p := New(404, WithExtensionOption("status", "shadowed"))
	env, err := p.Response(nil)
	if err != nil {
		t.Fatalf("Response: %v", err)
	}
	if env.StatusCode != 404 {
		t.Fatalf("StatusCode = %d, want 404", env.StatusCode)
	}
	if !strings.Contains(env.Body, `"status":"shadowed"`) {
		t.Fatalf("extension must win inside the body: %q", env.Body)
	}
}
