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

// Package fields holds the raw problem-details members and the rules that
// turn them into a canonical member map.
//
// A "problem" in the RFC 9457 sense has five standard members — status,
// title, detail, type, instance — plus arbitrary extension members. This
// package defines:
//
//   - Fields: the raw, un-normalized value carrying all of them;
//   - Normalize: the single place where precedence rules live (derived
//     titles, omission of absent members, extensions winning over standard
//     members);
//   - ParseStatus / FromMap / Text: coercion helpers for the ingestion
//     boundaries, where values arrive loosely typed from JSON decoders or
//     foreign APIs.
//
// Keeping normalization here, in a leaf package, lets transport adapters
// and the error type agree on exactly one set of rules without importing
// each other.
//
// Nothing in this package validates status ranges or type/instance URIs:
// callers own what they put in, this package only decides which members
// appear and which member wins.
package fields
