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

// Package lambdax adapts problem envelopes to the AWS Lambda proxy
// integration types, for functions fronted by API Gateway or an ALB.
package lambdax

import (
	"context"
	"fmt"
	"net/http"

	"github.com/aws/aws-lambda-go/events"

	"dirpx.dev/problems"
	"dirpx.dev/problems/apis"
)

// FromEnvelope converts the module's fixed three-key envelope into the API
// Gateway proxy response shape it was modelled on.
//
// A status of 0 ("not provided") becomes 500 here: API Gateway rejects
// responses without a status code, so the wire default applies at this
// boundary, mirroring the net/http adapter.
func FromEnvelope(env apis.Envelope) events.APIGatewayProxyResponse {
	status := env.StatusCode
	if status <= 0 {
		status = http.StatusInternalServerError
	}
	return events.APIGatewayProxyResponse{
		StatusCode: status,
		Headers:    env.Headers,
		Body:       env.Body,
	}
}

// Response renders err as an API Gateway proxy response.
//
// The error is resolved through problems.From, so foreign errors come out
// as 500 problems. Conversion options (trace capture, config overrides)
// are forwarded to the rendering. Serialization failures are returned
// wrapping problems.ErrSerialize.
func Response(err error, headers map[string]string, opts ...problems.ConvertOption) (events.APIGatewayProxyResponse, error) {
	env, rerr := problems.From(err).Response(headers, opts...)
	if rerr != nil {
		return events.APIGatewayProxyResponse{}, rerr
	}
	return FromEnvelope(env), nil
}

// HandlerFunc is the API Gateway proxy handler signature this package wraps.
type HandlerFunc func(context.Context, events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error)

// Wrap converts errors and panics from h into problem responses, so the
// Lambda runtime never sees a raw error (which it would otherwise report
// as an invocation failure without a usable HTTP body).
//
// When h returns an error, its response value is discarded and the problem
// document wins. Trace capture happens inside the deferred recover, so an
// active traceback policy shows the panicking frames.
func Wrap(h HandlerFunc) HandlerFunc {
	return func(ctx context.Context, req events.APIGatewayProxyRequest) (resp events.APIGatewayProxyResponse, err error) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			p := problems.New(http.StatusInternalServerError,
				problems.WithDetailOption(fmt.Sprint(rec)),
				problems.WithInstanceOption(req.Path),
			)
			resp, err = respond(p)
		}()

		resp, err = h(ctx, req)
		if err != nil {
			resp, err = respond(err)
		}
		return resp, err
	}
}

// respond renders err as a response, falling back to a bare 500 when the
// problem body itself cannot be serialized.
func respond(err error) (events.APIGatewayProxyResponse, error) {
	resp, rerr := Response(err, nil)
	if rerr == nil {
		return resp, nil
	}
	return events.APIGatewayProxyResponse{
		StatusCode: http.StatusInternalServerError,
		Headers:    map[string]string{"Content-Type": "text/plain; charset=utf-8"},
		Body:       http.StatusText(http.StatusInternalServerError),
	}, nil
}
