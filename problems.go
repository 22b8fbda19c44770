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
	"fmt"
	"net/http"

	"github.com/google/uuid"

	"dirpx.dev/problems/apis"
	"dirpx.dev/problems/fields"
)

// Problem is the canonical RFC 9457 problem error for dirpx.
//
// It carries:
//   - Status: HTTP status code of the occurrence (0 = not provided);
//   - Title: short summary of the problem type;
//   - Detail: human-oriented explanation of this occurrence;
//   - Type: problem type URI;
//   - Instance: URI reference identifying this occurrence;
//   - Extensions: arbitrary extra members (for the wire body);
//   - Cause: wrapped underlying error for debugging / unwrapping.
//
// Fields are stored verbatim: no derivation or omission happens at
// construction time. Normalization (derived titles, dropped empty members,
// extension precedence) is applied when the problem is rendered, via Map,
// Response or Error.
//
// All mutation helpers (WithX) return a shallow copy, so Problem instances
// can be safely shared and modified in a functional style.
type Problem struct {
	// Status is the HTTP status code, e.g. 404. 0 means "not provided":
	// rendering produces no "status" member and derives no title.
	Status int

	// Title is the short, human-readable summary. When empty (or the
	// literal "about:blank") and Status has a known reason phrase, the
	// rendered title is derived from the status code.
	Title string

	// Detail is a human-readable explanation specific to this occurrence.
	// This is what should end up in front of API clients and in logs.
	Detail string

	// Type is the problem type URI. Empty means "not provided".
	Type string

	// Instance is the URI reference for this specific occurrence.
	// See NewInstance for generating unique ones.
	Instance string

	// Extensions is an optional, shallow map of extra members. On
	// rendering they are merged last and win over the standard members.
	// The map is treated as immutable: WithExtension(s) always copy it.
	Extensions map[string]any

	// Cause holds the wrapped underlying error (if any). This is used for
	// errors.Is / errors.As and for debugging in lower layers.
	Cause error
}

var _ apis.FieldsProvider = (*Problem)(nil)

// New constructs a Problem for the given status code.
//
// Usage:
//
//	return problems.New(http.StatusNotFound,
//	    problems.WithDetailOption("object 42 does not exist"),
//	    problems.WithExtensionOption("object_id", 42),
//	)
//
// It always returns a *new* Problem and applies all provided options in order.
func New(status int, opts ...Option) *Problem {
	p := &Problem{Status: status}
	for _, opt := range opts {
		p = opt(p)
	}
	return p
}

// From converts an arbitrary error into a *Problem.
//
// Rules:
//   - nil stays nil;
//   - a *Problem anywhere in the unwrap chain is returned as-is;
//   - anything else becomes a 500 problem whose detail is the error text
//     and whose cause is the original error.
//
// From is the single ingestion point for foreign errors; adapters use it so
// that every error leaving the process has a well-formed problem shape.
func From(err error) *Problem {
	if err == nil {
		return nil
	}
	var p *Problem
	if errors.As(err, &p) {
		return p
	}
	return &Problem{
		Status: http.StatusInternalServerError,
		Detail: err.Error(),
		Cause:  err,
	}
}

// FromFields builds a Problem from raw problem members.
//
// The input is cloned, so the caller keeps ownership of its Extensions map.
func FromFields(f fields.Fields) *Problem {
	f = f.Clone()
	return &Problem{
		Status:     f.Status,
		Title:      f.Title,
		Detail:     f.Detail,
		Type:       f.Type,
		Instance:   f.Instance,
		Extensions: f.Extensions,
	}
}

// NewInstance returns a globally unique occurrence identifier in urn:uuid
// form, suitable for the Instance field.
func NewInstance() string {
	return "urn:uuid:" + uuid.NewString()
}

// Error implements the built-in error interface.
//
// The format is the compact JSON rendering of the normalized members, e.g.:
//
//	{"detail":"object 42 does not exist","status":404,"title":"Not Found"}
//
// This makes the error both human- and machine-scannable in logs. Error
// never includes a traceback, regardless of the process trace policy.
func (p *Problem) Error() string {
	if p == nil {
		return "<nil>"
	}
	m := p.view().Normalize()
	b, err := json.Marshal(m)
	if err != nil {
		// Unmarshalable extension values: fall back to fmt rendering.
		return fmt.Sprint(m)
	}
	return string(b)
}

// Unwrap returns the underlying cause, enabling errors.Is / errors.As chains.
func (p *Problem) Unwrap() error { return p.Cause }

// ProblemFields returns a verbatim snapshot of the problem members,
// implementing apis.FieldsProvider. The Extensions map is detached.
func (p *Problem) ProblemFields() fields.Fields {
	if p == nil {
		return fields.Fields{}
	}
	return p.view().Clone()
}

// view returns the members without copying the Extensions map. For internal
// read-only use; anything handed out crosses through Clone.
func (p *Problem) view() fields.Fields {
	return fields.Fields{
		Status:     p.Status,
		Title:      p.Title,
		Detail:     p.Detail,
		Type:       p.Type,
		Instance:   p.Instance,
		Extensions: p.Extensions,
	}
}

// WithTitle returns a shallow copy of p with the given Title set.
// The original problem is not modified.
func (p *Problem) WithTitle(title string) *Problem {
	if p == nil {
		return nil
	}
	cp := *p
	cp.Title = title
	return &cp
}

// WithDetail returns a shallow copy of p with a replaced Detail.
// Useful when the same problem type is reported with occurrence-specific
// explanations.
func (p *Problem) WithDetail(detail string) *Problem {
	if p == nil {
		return nil
	}
	cp := *p
	cp.Detail = detail
	return &cp
}

// WithType returns a shallow copy of p with the given problem type URI set.
func (p *Problem) WithType(typeURI string) *Problem {
	if p == nil {
		return nil
	}
	cp := *p
	cp.Type = typeURI
	return &cp
}

// WithInstance returns a shallow copy of p with the given instance URI set.
func (p *Problem) WithInstance(instance string) *Problem {
	if p == nil {
		return nil
	}
	cp := *p
	cp.Instance = instance
	return &cp
}

// WithExtension returns a shallow copy of p with one extra member in
// Extensions.
//
// The method always copies the map to preserve immutability. This prevents
// surprising modifications across goroutines or shared problem values.
func (p *Problem) WithExtension(k string, v any) *Problem {
	if p == nil {
		return nil
	}
	cp := *p
	// No extensions yet — create a new single-entry map.
	if len(cp.Extensions) == 0 {
		cp.Extensions = map[string]any{k: v}
		return &cp
	}
	// Copy existing extensions and add one more.
	m := make(map[string]any, len(cp.Extensions)+1)
	for k0, v0 := range cp.Extensions {
		m[k0] = v0
	}
	m[k] = v
	cp.Extensions = m
	return &cp
}

// WithExtensions returns a shallow copy of p with all provided kv merged
// into Extensions.
//
// If the Problem already has Extensions, both maps are copied and merged,
// with kv taking precedence on key conflicts.
func (p *Problem) WithExtensions(kv map[string]any) *Problem {
	if p == nil {
		return nil
	}
	if len(kv) == 0 {
		return p
	}
	cp := *p
	// No existing extensions — just copy kv.
	if len(cp.Extensions) == 0 {
		m := make(map[string]any, len(kv))
		for k, v := range kv {
			m[k] = v
		}
		cp.Extensions = m
		return &cp
	}
	// Merge existing + new.
	m := make(map[string]any, len(cp.Extensions)+len(kv))
	for k0, v0 := range cp.Extensions {
		m[k0] = v0
	}
	for k, v := range kv {
		m[k] = v
	}
	cp.Extensions = m
	return &cp
}

// WithCause returns a shallow copy of p with the given underlying cause
// attached. If err is nil, the original problem is returned unchanged.
func (p *Problem) WithCause(err error) *Problem {
	if p == nil {
		return nil
	}
	if err == nil {
		return p
	}
	cp := *p
	cp.Cause = err
	return &cp
}
