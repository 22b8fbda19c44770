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

// Package main demonstrates usage of the problems module.
package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"net/http/httptest"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"dirpx.dev/problems"
	"dirpx.dev/problems/fields"
	"dirpx.dev/problems/httpx"
)

func main() {
	// Direct construction.
	p := problems.New(http.StatusNotFound,
		problems.WithDetailOption("customer 42 not found"),
		problems.WithTypeOption("https://example.com/problems/customer-not-found"),
		problems.WithInstanceOption(problems.NewInstance()),
		problems.WithExtensionOption("customer_id", 42),
	)
	fmt.Println(p)

	// Wrapping an unknown cause.
	cause := errors.New("row not found")
	fmt.Println(problems.From(cause).WithTitle("Lookup Failed"))

	// An envelope from loose fields; an absent status passes through as 0.
	env, err := problems.HTTPResponse(fields.Fields{Detail: "no status here"}, nil)
	if err != nil {
		log.Fatalf("render envelope: %v", err)
	}
	fmt.Printf("statusCode=%d body=%s headers=%v\n", env.StatusCode, env.Body, env.Headers)

	// Swapping the process-wide serializer.
	problems.SetSerializeFunc(func(m map[string]any) ([]byte, error) {
		return json.MarshalIndent(m, "", "  ")
	})
	env, err = p.Response(nil)
	if err != nil {
		log.Fatalf("render envelope: %v", err)
	}
	fmt.Println(env.Body)
	problems.SetSerializeFunc(nil)

	// Per-call traceback capture.
	env, err = p.Response(nil, problems.WithTrace(true))
	if err != nil {
		log.Fatalf("render envelope: %v", err)
	}
	var doc map[string]any
	if err := json.Unmarshal([]byte(env.Body), &doc); err != nil {
		log.Fatalf("decode body: %v", err)
	}
	_, traced := doc["traceback"]
	fmt.Println("traceback captured:", traced)

	// Server side: returned errors and panics become problem responses.
	reg := prometheus.NewRegistry()
	w := httpx.Writer{
		Log:     zap.NewExample().Sugar(),
		Metrics: httpx.NewMetrics(reg),
	}
	mux := http.NewServeMux()
	mux.HandleFunc("/customers/42", func(rw http.ResponseWriter, r *http.Request) {
		w.Write(rw, p)
	})
	srv := httptest.NewServer(w.Recovery(mux))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/customers/42")
	if err != nil {
		log.Fatalf("get: %v", err)
	}
	defer resp.Body.Close()

	if httpx.IsProblem(resp) {
		f, derr := httpx.Decode(resp)
		if derr != nil {
			log.Fatalf("decode problem: %v", derr)
		}
		fmt.Printf("decoded: status=%d title=%q customer_id=%v\n",
			f.Status, f.Title, f.Extensions["customer_id"])
	}
}
