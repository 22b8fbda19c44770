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

package fields

import "net/http"

// AboutBlank is the default problem type URI defined by RFC 9457.
//
// A title equal to AboutBlank carries no information, so Normalize treats it
// exactly like an absent title: when the status code is recognized, the
// standard reason phrase is derived in its place.
const AboutBlank = "about:blank"

// Fields holds the five standard problem-details members plus open
// extensions, all in their raw, un-normalized form.
//
// The zero value is valid and means "no fields provided". A Status of 0
// means "not provided": problem documents never legitimately use status 0,
// so no sentinel beyond the zero value is needed.
//
// Fields is a plain value type. Normalize never mutates the receiver, and
// code that hands Fields across API boundaries should use Clone when it
// wants to detach the Extensions map.
type Fields struct {
	// Status is the HTTP status code of the occurrence, e.g. 404.
	// 0 means "not provided" and produces no "status" member.
	Status int

	// Title is the short, human-readable summary of the problem type.
	// When empty (or AboutBlank) and Status has a known reason phrase,
	// Normalize derives the title from the status code.
	Title string

	// Detail is the human-readable explanation specific to this occurrence.
	Detail string

	// Type is the problem type URI. Empty means "not provided"; consumers
	// are expected to assume AboutBlank per RFC 9457.
	Type string

	// Instance is the URI reference identifying this specific occurrence.
	Instance string

	// Extensions carries additional, caller-defined members. On Normalize
	// they are merged last and take precedence over the standard members.
	// The map is treated as immutable; Clone copies it.
	Extensions map[string]any
}

// Normalize renders the fields into the canonical problem-details member
// map. It is pure: the receiver is never modified, calling it twice yields
// equal maps, and feeding the output back through FromMap and Normalize
// again changes nothing.
//
// Member rules, applied in order:
//
//  1. Status 0 produces nothing. A non-zero Status always produces the
//     "status" member.
//  2. When Status is set and Title is empty or AboutBlank, the "title"
//     member is derived from the status code's reason phrase. Unknown
//     status codes (no reason phrase) derive nothing.
//  3. A non-empty Title that was not replaced by rule 2 is used verbatim.
//  4. Non-empty Detail, Type and Instance produce their members verbatim.
//  5. Extensions are merged last and overwrite standard members on key
//     collision. Extensions with a nil value are ignored.
//
// Absent members are omitted entirely: the map never contains a key with a
// nil or empty placeholder value.
func (f Fields) Normalize() map[string]any {
	m := make(map[string]any, 5+len(f.Extensions))

	derived := false
	if f.Status != 0 {
		m["status"] = f.Status
		if f.Title == "" || f.Title == AboutBlank {
			if phrase := http.StatusText(f.Status); phrase != "" {
				m["title"] = phrase
				derived = true
			}
		}
	}
	if f.Title != "" && !derived {
		m["title"] = f.Title
	}
	if f.Detail != "" {
		m["detail"] = f.Detail
	}
	if f.Type != "" {
		m["type"] = f.Type
	}
	if f.Instance != "" {
		m["instance"] = f.Instance
	}

	for k, v := range f.Extensions {
		if v == nil {
			continue
		}
		m[k] = v
	}
	return m
}

// Clone returns a copy of f with a detached Extensions map.
//
// An empty Extensions map normalizes to nil in the copy, so Clone output
// compares cleanly against zero values in tests and callers.
func (f Fields) Clone() Fields {
	cp := f
	if len(f.Extensions) == 0 {
		cp.Extensions = nil
		return cp
	}
	m := make(map[string]any, len(f.Extensions))
	for k, v := range f.Extensions {
		m[k] = v
	}
	cp.Extensions = m
	return cp
}

// IsZero reports whether no field is set at all.
func (f Fields) IsZero() bool {
	return f.Status == 0 &&
		f.Title == "" &&
		f.Detail == "" &&
		f.Type == "" &&
		f.Instance == "" &&
		len(f.Extensions) == 0
}
