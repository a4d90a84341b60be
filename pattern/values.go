/* Copyright 2019 Comcast Cable Communications Management, LLC
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

package pattern

import (
	"fmt"
	"reflect"
	"strings"
	"time"
)

// fudge is a hack to cast numbers to float64s.
func fudge(x any) (float64, bool) {
	switch vv := x.(type) {
	case float64:
		return vv, true
	case float32:
		return float64(vv), true
	case int:
		return float64(vv), true
	case int8:
		return float64(vv), true
	case int16:
		return float64(vv), true
	case int32:
		return float64(vv), true
	case int64:
		return float64(vv), true
	case uint:
		return float64(vv), true
	case uint8:
		return float64(vv), true
	case uint16:
		return float64(vv), true
	case uint32:
		return float64(vv), true
	case uint64:
		return float64(vv), true
	default:
		return 0, false
	}
}

// isNil reports whether x is absent: a nil interface or a nil
// pointer, map, slice, channel, or function.
func isNil(x any) bool {
	if x == nil {
		return true
	}
	v := reflect.ValueOf(x)
	switch v.Kind() {
	case reflect.Chan, reflect.Func, reflect.Interface, reflect.Map, reflect.Pointer, reflect.Slice:
		return v.IsNil()
	}
	return false
}

// Equivalent is the value equality used for literals in Split and in
// rule sets.
//
// Numbers are compared by value regardless of their Go types.  Two
// absent values are equivalent.  Slices of interface{} and maps with
// string keys are compared element-wise with Equivalent.  Everything
// else falls back to reflect.DeepEqual.
func Equivalent(a, b any) bool {
	if x, is := fudge(a); is {
		y, is := fudge(b)
		return is && x == y
	}
	if isNil(a) || isNil(b) {
		return isNil(a) && isNil(b)
	}
	switch vv := a.(type) {
	case []any:
		ws, is := b.([]any)
		if !is || len(vv) != len(ws) {
			return false
		}
		for i, v := range vv {
			if !Equivalent(v, ws[i]) {
				return false
			}
		}
		return true
	case map[string]any:
		wm, is := b.(map[string]any)
		if !is || len(vv) != len(wm) {
			return false
		}
		for k, v := range vv {
			w, have := wm[k]
			if !have || !Equivalent(v, w) {
				return false
			}
		}
		return true
	case time.Time:
		t, is := b.(time.Time)
		return is && vv.Equal(t)
	}
	return reflect.DeepEqual(a, b)
}

// Compare orders two values.  Numbers (of any Go types), strings, and
// times can be compared with values of the same sort.  The second
// return value is false if the values can't be ordered.
func Compare(a, b any) (int, bool) {
	if x, is := fudge(a); is {
		y, is := fudge(b)
		if !is {
			return 0, false
		}
		switch {
		case x < y:
			return -1, true
		case x > y:
			return 1, true
		}
		return 0, true
	}
	switch vv := a.(type) {
	case string:
		s, is := b.(string)
		if !is {
			return 0, false
		}
		return strings.Compare(vv, s), true
	case time.Time:
		t, is := b.(time.Time)
		if !is {
			return 0, false
		}
		return vv.Compare(t), true
	}
	return 0, false
}

// Named can be implemented by values that want to choose their own
// type tag.
type Named interface {
	TypeName() string
}

// TypeNames returns the names that x answers to as a type tag.
//
// A Named value answers to its TypeName.  Other values answer to
// their Go type's simple name ("Person"), its package-qualified name
// ("example.Person"), and its full name with the import path
// ("github.com/someone/example.Person").  A pointer also answers to
// the names of the type it points to.  An absent value answers to
// nothing.
func TypeNames(x any) []string {
	if x == nil {
		return nil
	}
	if n, is := x.(Named); is {
		return []string{n.TypeName()}
	}
	t := reflect.TypeOf(x)
	acc := typeNames(t, nil)
	if t.Kind() == reflect.Pointer {
		acc = typeNames(t.Elem(), acc)
	}
	return acc
}

func typeNames(t reflect.Type, acc []string) []string {
	acc = append(acc, t.String())
	if name := t.Name(); name != "" {
		acc = append(acc, name)
		if pkg := t.PkgPath(); pkg != "" {
			acc = append(acc, pkg+"."+name)
		}
	}
	return acc
}

// HasTypeName reports whether x answers to the type tag name.
func HasTypeName(x any, name string) bool {
	for _, n := range TypeNames(x) {
		if n == name {
			return true
		}
	}
	return false
}

func render(x any) string {
	return fmt.Sprint(x)
}
