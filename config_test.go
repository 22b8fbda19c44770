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
	"bytes"
	"encoding/json"
	"strings"
	"sync"
	"testing"
)

// resetConfig restores the process default after a test that touches it.
func resetConfig(t *testing.T) {
	t.Helper()
	t.Cleanup(func() { SetDefault(Config{}) })
}

func TestDefault_ZeroValue(t *testing.T) {
	resetConfig(t)
	SetDefault(Config{})

	cfg := Default()
	if cfg.Serialize != nil || cfg.Trace != nil || cfg.IncludeTrace {
		t.Fatalf("default config not zero: %+v", cfg)
	}

	// The resolved functions must still work.
	b, err := cfg.serializeFunc()(map[string]any{"status": 404})
	if err != nil {
		t.Fatalf("default serialize: %v", err)
	}
	if string(b) != `{"status":404}` {
		t.Fatalf("default serialize = %s", b)
	}
	if trace := cfg.traceFunc()(); !strings.Contains(trace, "goroutine") {
		t.Fatalf("default trace looks wrong: %q", trace)
	}
}

func TestSetSerializeFunc(t *testing.T) {
	resetConfig(t)

	SetSerializeFunc(func(m map[string]any) ([]byte, error) {
		var buf bytes.Buffer
		enc := json.NewEncoder(&buf)
		enc.SetIndent("", "  ")
		if err := enc.Encode(m); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	})

	env, err := New(404).Response(nil)
	if err != nil {
		t.Fatalf("Response: %v", err)
	}
	if !strings.Contains(env.Body, "\n") {
		t.Fatalf("custom serializer not applied: %q", env.Body)
	}

	// nil restores the JSON default.
	SetSerializeFunc(nil)
	env, err = New(404).Response(nil)
	if err != nil {
		t.Fatalf("Response: %v", err)
	}
	if strings.Contains(env.Body, "\n") {
		t.Fatalf("default serializer not restored: %q", env.Body)
	}
}

func TestActivateDeactivateTraceback(t *testing.T) {
	resetConfig(t)

	if _, ok := New(500).Map()["traceback"]; ok {
		t.Fatal("traceback must be off initially")
	}

	ActivateTraceback()
	m := New(500).Map()
	trace, ok := m["traceback"].(string)
	if !ok || trace == "" {
		t.Fatalf("traceback missing after activation: %#v", m)
	}
	if !strings.Contains(trace, "goroutine") {
		t.Fatalf("traceback does not look like a stack: %q", trace)
	}

	DeactivateTraceback()
	if _, ok := New(500).Map()["traceback"]; ok {
		t.Fatal("traceback must be off after deactivation")
	}
}

func TestWithTrace_OverridesProcessDefault(t *testing.T) {
	resetConfig(t)

	ActivateTraceback()
	if _, ok := New(500).Map(WithTrace(false))["traceback"]; ok {
		t.Fatal("WithTrace(false) must win over activation")
	}

	DeactivateTraceback()
	if _, ok := New(500).Map(WithTrace(true))["traceback"]; !ok {
		t.Fatal("WithTrace(true) must win over deactivation")
	}
}

func TestWithConfig_PerCall(t *testing.T) {
	resetConfig(t)
	SetDefault(Config{})

	cfg := Config{
		Trace:        func() string { return "TRACE" },
		IncludeTrace: true,
	}

	m := New(500).Map(WithConfig(cfg))
	if m["traceback"] != "TRACE" {
		t.Fatalf("per-call config ignored: %#v", m)
	}

	// The process default stays untouched.
	if Default().IncludeTrace {
		t.Fatal("WithConfig leaked into the process default")
	}
	if _, ok := New(500).Map()["traceback"]; ok {
		t.Fatal("conversion without options must follow the process default")
	}
}

func TestErrorString_IgnoresTracePolicy(t *testing.T) {
	resetConfig(t)

	ActivateTraceback()
	if s := New(500).Error(); strings.Contains(s, "traceback") {
		t.Fatalf("Error() must never include a traceback: %q", s)
	}
}

func TestConfig_ConcurrentSwap(t *testing.T) {
	resetConfig(t)

	const workers = 16
	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func(i int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				switch i % 4 {
				case 0:
					ActivateTraceback()
				case 1:
					DeactivateTraceback()
				case 2:
					SetSerializeFunc(nil)
				default:
					_ = New(500).Map()
				}
			}
		}(i)
	}
	wg.Wait()

	// Field-level updates must not lose each other: after the dust settles
	// a serialize swap and a trace toggle both stick.
	SetSerializeFunc(nil)
	ActivateTraceback()
	cfg := Default()
	if cfg.Serialize != nil || !cfg.IncludeTrace {
		t.Fatalf("lost update: %+v", cfg)
	}
}
