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

// Option is a functional option for constructing or transforming a Problem.
// It always takes a *Problem and returns a (possibly new) *Problem.
type Option func(*Problem) *Problem

// WithTitleOption sets the Title on the problem being constructed.
// Intended to be used with New(...).
func WithTitleOption(title string) Option {
	return func(p *Problem) *Problem {
		return p.WithTitle(title)
	}
}

// WithDetailOption sets the Detail on the problem being constructed.
// Intended to be used with New(...).
func WithDetailOption(detail string) Option {
	return func(p *Problem) *Problem {
		return p.WithDetail(detail)
	}
}

// WithTypeOption sets the problem type URI on construction.
// Intended to be used with New(...).
func WithTypeOption(typeURI string) Option {
	return func(p *Problem) *Problem {
		return p.WithType(typeURI)
	}
}

// WithInstanceOption sets the instance URI on construction.
// Intended to be used with New(...).
func WithInstanceOption(instance string) Option {
	return func(p *Problem) *Problem {
		return p.WithInstance(instance)
	}
}

// WithExtensionOption adds a single extension member on construction.
// Intended to be used with New(...).
func WithExtensionOption(k string, v any) Option {
	return func(p *Problem) *Problem {
		return p.WithExtension(k, v)
	}
}

// WithExtensionsOption merges multiple extension members on construction.
// Intended to be used with New(...).
func WithExtensionsOption(kv map[string]any) Option {
	return func(p *Problem) *Problem {
		return p.WithExtensions(kv)
	}
}

// WithCauseOption attaches a cause on construction.
// Intended to be used with New(...).
func WithCauseOption(err error) Option {
	return func(p *Problem) *Problem {
		return p.WithCause(err)
	}
}
