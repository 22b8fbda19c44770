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

package grpcx

import (
	"context"
	"errors"
	"net/http"

	"google.golang.org/grpc"
	gcodes "google.golang.org/grpc/codes"
	gstatus "google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"dirpx.dev/problems"
	"dirpx.dev/problems/fields"
)

// Code maps an HTTP status code onto the closest gRPC status code.
//
// Exact matches are resolved first; unmatched codes fall back by class
// (5xx -> Internal, 4xx -> InvalidArgument). A status of 0 ("not provided")
// maps to Unknown, and anything below 400 maps to OK.
func Code(status int) gcodes.Code {
	switch status {
	case 0:
		return gcodes.Unknown
	case http.StatusBadRequest:
		return gcodes.InvalidArgument
	case http.StatusUnauthorized:
		return gcodes.Unauthenticated
	case http.StatusForbidden:
		return gcodes.PermissionDenied
	case http.StatusNotFound, http.StatusGone:
		return gcodes.NotFound
	case http.StatusConflict:
		return gcodes.Aborted
	case http.StatusPreconditionFailed, http.StatusTooEarly:
		return gcodes.FailedPrecondition
	case http.StatusTooManyRequests:
		return gcodes.ResourceExhausted
	case http.StatusRequestTimeout, 499:
		return gcodes.Canceled
	case http.StatusNotImplemented:
		return gcodes.Unimplemented
	case http.StatusBadGateway, http.StatusServiceUnavailable:
		return gcodes.Unavailable
	case http.StatusGatewayTimeout:
		return gcodes.DeadlineExceeded
	}
	switch {
	case status >= 500:
		return gcodes.Internal
	case status >= 400:
		return gcodes.InvalidArgument
	default:
		return gcodes.OK
	}
}

// Status converts a problem into a *status.Status carrying the normalized
// problem document as a structpb detail.
//
// Conversion options are forwarded to the rendering, so the process
// traceback policy (or a per-call override) decides whether the detail
// carries a "traceback" member. If the document cannot be represented as a
// structpb value — extensions with non-JSON types — the detail is silently
// dropped and a detail-less status is returned.
func Status(p *problems.Problem, opts ...problems.ConvertOption) *gstatus.Status {
	if p == nil {
		return gstatus.New(gcodes.OK, "")
	}

	m := p.Map(opts...)
	base := gstatus.New(Code(p.Status), statusMessage(p, m))

	// Try to attach the document as a detail. If it fails — return base.
	if detail, err := structpb.NewStruct(m); err == nil {
		if with, err := base.WithDetails(detail); err == nil {
			return with
		}
	}
	return base
}

// statusMessage picks the human text for the gRPC status: the detail when
// present, otherwise the (possibly derived) title.
func statusMessage(p *problems.Problem, m map[string]any) string {
	if p.Detail != "" {
		return p.Detail
	}
	if title, ok := m["title"].(string); ok {
		return title
	}
	return ""
}

// FromError pulls the problem members out of a gRPC error, if present.
// Useful in tests and client code.
func FromError(err error) (fields.Fields, bool) {
	if err == nil {
		return fields.Fields{}, false
	}
	st, ok := gstatus.FromError(err)
	if !ok {
		return fields.Fields{}, false
	}
	for _, d := range st.Details() {
		s, ok := d.(*structpb.Struct)
		if !ok {
			continue
		}
		f, ferr := fields.FromMap(s.AsMap())
		if ferr != nil {
			continue
		}
		return f, true
	}
	return fields.Fields{}, false
}

// UnaryServerInterceptor returns a gRPC UnaryServerInterceptor that maps
// *problems.Problem errors into gRPC statuses with the problem document
// attached as a detail.
//
// Errors that are not problems — including statuses handlers built
// themselves — pass through untouched.
func UnaryServerInterceptor(opts ...problems.ConvertOption) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		resp, err := handler(ctx, req)
		if err == nil {
			return resp, nil
		}

		var p *problems.Problem
		if !errors.As(err, &p) {
			// Not ours — return as-is.
			return nil, err
		}
		return nil, Status(p, opts...).Err()
	}
}
