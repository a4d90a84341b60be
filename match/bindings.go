/* Copyright 2018 Comcast Cable Communications Management, LLC
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 * http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package match

import (
	"strings"

	"github.com/Comcast/patmatch/pattern"

	"github.com/pkg/errors"
)

// Bindings is a map from variables (strings starting with a '?') to
// their values.
//
// Bindings are named Captures: Capture returns a pattern that records
// the value it's tested against under a variable.  As with a Capture,
// a later write overwrites an earlier one.
type Bindings map[string]interface{}

func NewBindings() Bindings {
	return make(Bindings, 8)
}

// Extend adds the property; modifies and returns the Bindings.
//
// The Bindings are modified.
func (bs Bindings) Extend(p string, v interface{}) Bindings {
	bs[p] = v
	return bs
}

// Extendm adds the properties; modifies and returns the Bindings.
//
// The Bindings are modified.
func (bs Bindings) Extendm(pairs ...interface{}) (Bindings, error) {
	for i := 0; i < len(pairs); i += 2 {
		x := pairs[i]
		p, is := x.(string)
		if !is {
			return nil, errors.Errorf("Bindings.Extendm given a non-string key (%T)", x)
		}
		if len(pairs) <= i+1 {
			return nil, errors.New("odd args to Bindings.Extendm")
		}
		bs[p] = pairs[i+1]
	}
	return bs, nil
}

// Remove removes the given keys.
//
// The Bindings are modified.
func (bs Bindings) Remove(ps ...string) Bindings {
	for _, p := range ps {
		delete(bs, p)
	}
	return bs
}

// DeleteExcept removes all but the given properties.
//
// Does not copy.
func (bs Bindings) DeleteExcept(keeps ...string) Bindings {
REM:
	for p := range bs {
		for _, keep := range keeps {
			if keep == p {
				continue REM
			}
		}
		delete(bs, p)
	}

	return bs
}

// Copy makes a shallow copy of the Bindings.
func (bs Bindings) Copy() Bindings {
	acc := make(Bindings, len(bs))
	for k, v := range bs {
		acc[k] = v
	}
	return acc
}

// Capture returns a pattern that always matches and binds the tested
// value to the variable v.
//
// The anonymous variable "?" binds nothing.
func (bs Bindings) Capture(v string) pattern.Pattern[any] {
	return func(x any) bool {
		if !IsAnonymousVariable(v) {
			bs[v] = x
		}
		return true
	}
}

// Bind replaces the variables in x with their bindings.
//
// Maps and arrays are processed recursively, and the result is a new
// structure.  Unbound variables are left as is.
func (bs Bindings) Bind(x interface{}) interface{} {
	switch vv := x.(type) {
	case string:
		if IsVariable(vv) {
			if y, have := bs[vv]; have {
				return y
			}
		}
		return vv
	case map[string]interface{}:
		acc := make(map[string]interface{}, len(vv))
		for k, v := range vv {
			acc[k] = bs.Bind(v)
		}
		return acc
	case []interface{}:
		acc := make([]interface{}, len(vv))
		for i, v := range vv {
			acc[i] = bs.Bind(v)
		}
		return acc
	default:
		return x
	}
}

// IsVariable reports if the string represents a pattern variable.
//
// All pattern variables start with a '?".
func IsVariable(s string) bool {
	return strings.HasPrefix(s, "?")
}

// IsAnonymousVariable detects a variable of the form '?'.  A binding
// for an anonymous variable shouldn't ever make it into bindings.
func IsAnonymousVariable(s string) bool {
	return s == "?"
}

// IsConstant reports if the string represents a constant (and not a
// pattern variable).
func IsConstant(s string) bool {
	return !IsVariable(s)
}
