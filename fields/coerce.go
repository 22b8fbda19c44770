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

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

var (
	// ErrStatusInvalid is returned when a value cannot be coerced into an
	// integer status code.
	//
	// Having a dedicated sentinel error makes it easy for callers and tests
	// to detect "this is about status format" vs "this is some other error".
	ErrStatusInvalid = errors.New("problems: invalid status")
)

// ParseStatus coerces an arbitrary decoded value into an integer status.
//
// The typed API of this module takes int statuses directly; ParseStatus
// exists for the ingestion boundaries, where statuses arrive as whatever a
// JSON decoder or a foreign API produced:
//
//   - integers of any width are used as-is;
//   - floats are truncated toward zero (JSON decoding yields float64);
//   - strings are trimmed of surrounding whitespace and parsed in base 10;
//   - booleans map to 1 (true) and 0 (false, i.e. "not provided");
//   - nil means "not provided" and yields 0.
//
// Every other type, a non-numeric string, and numbers that are not finite
// or do not fit in an int return an error wrapping ErrStatusInvalid; a
// value never wraps around silently.
func ParseStatus(v any) (int, error) {
	switch x := v.(type) {
	case nil:
		return 0, nil
	case int:
		return x, nil
	case int8:
		return int(x), nil
	case int16:
		return int(x), nil
	case int32:
		return int(x), nil
	case int64:
		return int(x), nil
	case uint:
		return parseUintStatus(uint64(x))
	case uint8:
		return int(x), nil
	case uint16:
		return int(x), nil
	case uint32:
		return parseUintStatus(uint64(x))
	case uint64:
		return parseUintStatus(x)
	case float32:
		return parseFloatStatus(float64(x))
	case float64:
		return parseFloatStatus(x)
	case bool:
		if x {
			return 1, nil
		}
		return 0, nil
	case json.Number:
		return parseStringStatus(x.String())
	case string:
		return parseStringStatus(x)
	default:
		return 0, fmt.Errorf("%w: unsupported type %T", ErrStatusInvalid, v)
	}
}

func parseUintStatus(u uint64) (int, error) {
	if u > math.MaxInt {
		return 0, fmt.Errorf("%w: %d out of range", ErrStatusInvalid, u)
	}
	return int(u), nil
}

func parseFloatStatus(f float64) (int, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("%w: non-finite number", ErrStatusInvalid)
	}
	// math.MaxInt can round up when converted to float64, so the boundary
	// itself counts as out of range.
	if f >= math.MaxInt || f < math.MinInt {
		return 0, fmt.Errorf("%w: %g out of range", ErrStatusInvalid, f)
	}
	// Truncation toward zero, same as an int() conversion of a float.
	return int(f), nil
}

func parseStringStatus(s string) (int, error) {
	s = strings.TrimSpace(s)
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrStatusInvalid, s)
	}
	return n, nil
}

// FromMap builds Fields from a decoded problem-details member map.
//
// The five standard members are recognized by their RFC 9457 names and
// coerced: "status" through ParseStatus, the text members through Text.
// Every other member lands in Extensions as-is.
//
// FromMap is the inverse of Normalize up to coercion: feeding Normalize
// output back through FromMap reconstructs equivalent Fields.
func FromMap(m map[string]any) (Fields, error) {
	var f Fields
	for k, v := range m {
		switch k {
		case "status":
			st, err := ParseStatus(v)
			if err != nil {
				return Fields{}, err
			}
			f.Status = st
		case "title":
			f.Title = Text(v)
		case "detail":
			f.Detail = Text(v)
		case "type":
			f.Type = Text(v)
		case "instance":
			f.Instance = Text(v)
		default:
			if f.Extensions == nil {
				f.Extensions = make(map[string]any)
			}
			f.Extensions[k] = v
		}
	}
	return f, nil
}

// Text coerces an arbitrary value into its textual form.
//
// Strings pass through unchanged, nil yields the empty string (i.e. "not
// provided"), everything else is rendered with fmt. This mirrors how the
// standard text members accept loosely typed input at ingestion.
func Text(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	default:
		return fmt.Sprint(x)
	}
}
