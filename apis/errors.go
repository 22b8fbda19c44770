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

import "dirpx.dev/problems/fields"

// FieldsProvider represents an error that can describe itself as a full set
// of problem-details members.
//
// This is the primary contract that transport adapters target: any error
// implementing it can be rendered as a problem document without the adapter
// knowing the concrete error type.
//
// Implementations SHOULD return a snapshot that is safe for the caller to
// normalize and render; in particular the Extensions map of the returned
// Fields must not be shared mutable state.
type FieldsProvider interface {
	error

	// ProblemFields returns the raw problem members of the error.
	// The returned value is un-normalized: derivation of titles and
	// omission rules are applied later, at render time.
	ProblemFields() fields.Fields
}

// StatusProvider represents an error that knows which HTTP status it maps
// to, without carrying full problem members.
//
// Adapters use this as a graceful-degradation contract: when an error is not
// a FieldsProvider but does expose a status, the adapter can still produce a
// correctly classified problem document from the status and the error text.
type StatusProvider interface {
	error

	// ProblemStatus returns the HTTP status code for the error.
	//
	// The returned value MAY be 0, meaning "no opinion"; callers should
	// then fall back to their own default (typically 500).
	ProblemStatus() int
}
