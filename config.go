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
	"runtime/debug"
	"sync/atomic"
)

var (
	// ErrSerialize is returned (wrapped) when the configured serialization
	// function fails to render a problem body. There is no fallback
	// representation: a response cannot be built from a body that does not
	// serialize.
	ErrSerialize = errors.New("problems: serialization failed")
)

// SerializeFunc renders a normalized problem member map into a response body.
type SerializeFunc func(map[string]any) ([]byte, error)

// TraceFunc produces the text of the current call stack. It is invoked at
// conversion time, so inside a deferred recover it still sees the frames of
// the panic that is being handled.
type TraceFunc func() string

// tracebackKey is the extension member under which a captured trace is
// exposed. A caller-supplied extension of the same name is overwritten when
// trace capture is active.
const tracebackKey = "traceback"

// Config is an immutable snapshot of conversion behaviour.
//
// The zero value is safe and means: JSON serialization, runtime/debug stack
// traces, trace capture off. Conversions read the process default (see
// Default / SetDefault) unless a per-call override is given via WithConfig.
type Config struct {
	// Serialize renders the normalized member map into the response body.
	// nil means encoding/json.
	Serialize SerializeFunc

	// Trace produces the traceback text attached under the "traceback"
	// extension when trace capture is on. nil means runtime/debug.Stack.
	Trace TraceFunc

	// IncludeTrace decides whether conversions attach a traceback by
	// default. A per-call WithTrace always wins over this field.
	IncludeTrace bool
}

func defaultSerialize(m map[string]any) ([]byte, error) {
	return json.Marshal(m)
}

func defaultTrace() string {
	return string(debug.Stack())
}

// serializeFunc resolves the effective serialization function.
func (c Config) serializeFunc() SerializeFunc {
	if c.Serialize != nil {
		return c.Serialize
	}
	return defaultSerialize
}

// traceFunc resolves the effective trace producer.
func (c Config) traceFunc() TraceFunc {
	if c.Trace != nil {
		return c.Trace
	}
	return defaultTrace
}

// procDefault holds the process-wide default Config. A nil pointer stands
// for the zero Config, so the package works with no setup at all. Readers
// take a snapshot; writers swap the whole pointer, which keeps concurrent
// conversion and reconfiguration safe.
var procDefault atomic.Pointer[Config]

// Default returns a snapshot of the current process-wide Config.
func Default() Config {
	if c := procDefault.Load(); c != nil {
		return *c
	}
	return Config{}
}

// SetDefault replaces the process-wide Config in one step.
func SetDefault(c Config) {
	procDefault.Store(&c)
}

// updateDefault applies mut to the current default under a CAS loop, so
// concurrent field-level updates never lose each other.
func updateDefault(mut func(Config) Config) {
	for {
		old := procDefault.Load()
		var cur Config
		if old != nil {
			cur = *old
		}
		next := mut(cur)
		if procDefault.CompareAndSwap(old, &next) {
			return
		}
	}
}

// SetSerializeFunc replaces the process-wide serialization strategy.
// Passing nil restores the JSON default.
//
// The strategy applies to every subsequent conversion that does not carry
// its own WithConfig override.
func SetSerializeFunc(fn SerializeFunc) {
	updateDefault(func(c Config) Config {
		c.Serialize = fn
		return c
	})
}

// ActivateTraceback turns on traceback capture for subsequent conversions
// that do not carry an explicit WithTrace.
func ActivateTraceback() {
	updateDefault(func(c Config) Config {
		c.IncludeTrace = true
		return c
	})
}

// DeactivateTraceback turns traceback capture back off. This is the initial
// state of the process.
func DeactivateTraceback() {
	updateDefault(func(c Config) Config {
		c.IncludeTrace = false
		return c
	})
}

// convert carries the resolved per-call conversion settings.
type convert struct {
	cfg      Config
	trace    bool
	traceSet bool
}

// newConvert snapshots the process default and applies per-call options.
func newConvert(opts []ConvertOption) convert {
	c := convert{cfg: Default()}
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

// includeTrace resolves the traceback decision: an explicit per-call choice
// wins, otherwise the config default applies.
func (c convert) includeTrace() bool {
	if c.traceSet {
		return c.trace
	}
	return c.cfg.IncludeTrace
}

// ConvertOption adjusts a single conversion (Map, Response, HTTPResponse)
// without touching the process-wide defaults.
type ConvertOption func(*convert)

// WithTrace forces traceback capture on or off for this conversion,
// overriding the process default in either direction.
func WithTrace(on bool) ConvertOption {
	return func(c *convert) {
		c.trace = on
		c.traceSet = true
	}
}

// WithConfig replaces the whole Config snapshot for this conversion.
// An explicit WithTrace still wins over the snapshot's IncludeTrace.
func WithConfig(cfg Config) ConvertOption {
	return func(c *convert) {
		c.cfg = cfg
	}
}
