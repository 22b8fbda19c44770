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

import (
	"encoding/json"
	"testing"
)

func TestEnvelope_Header(t *testing.T) {
	env := Envelope{Headers: map[string]string{"content-TYPE": MediaType}}

	tests := []struct {
		name   string
		lookup string
		want   string
		ok     bool
	}{
		{"exact casing", "content-TYPE", MediaType, true},
		{"canonical casing", "Content-Type", MediaType, true},
		{"lower casing", "content-type", MediaType, true},
		{"missing", "Retry-After", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := env.Header(tt.lookup)
			if ok != tt.ok || got != tt.want {
				t.Fatalf("Header(%q) = %q, %v; want %q, %v", tt.lookup, got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestEnvelope_WireShape(t *testing.T) {
	env := Envelope{
		StatusCode: 404,
		Body:       `{"status":404}`,
		Headers:    map[string]string{"Content-Type": MediaType},
	}

	b, err := json.Marshal(env)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	want := `{"statusCode":404,"body":"{\"status\":404}","headers":{"Content-Type":"application/problem+json"}}`
	if string(b) != want {
		t.Fatalf("wire shape = %s, want %s", b, want)
	}
}
