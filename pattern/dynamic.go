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
	"reflect"
	"unicode/utf8"
)

// The patterns in this file work on values whose types are only
// known at runtime, like the values that come from decoding JSON or
// YAML.

// Is matches values Equivalent to v.
func Is(v any) Pattern[any] {
	return func(x any) bool {
		return Equivalent(x, v)
	}
}

// Ordered matches values that Compare with v such that cmp of the
// comparison is true.  Values that can't be compared with v fail.
func Ordered(v any, cmp func(int) bool) Pattern[any] {
	return func(x any) bool {
		c, ok := Compare(x, v)
		return ok && cmp(c)
	}
}

// Below matches values less than v.
func Below(v any) Pattern[any] {
	return Ordered(v, func(c int) bool { return c < 0 })
}

// AtMost matches values less than or equal to v.
func AtMost(v any) Pattern[any] {
	return Ordered(v, func(c int) bool { return c <= 0 })
}

// Above matches values greater than v.
func Above(v any) Pattern[any] {
	return Ordered(v, func(c int) bool { return 0 < c })
}

// AtLeast matches values greater than or equal to v.
func AtLeast(v any) Pattern[any] {
	return Ordered(v, func(c int) bool { return 0 <= c })
}

// Within matches values between lower and upper (inclusive).
func Within(lower, upper any) Pattern[any] {
	return And(AtLeast(lower), AtMost(upper))
}

// EveryElement matches ordered containers whose elements all match
// p.  A subject that isn't an ordered container fails.
func EveryElement(p Pattern[any]) Pattern[any] {
	return func(x any) bool {
		xs, is := elements(x)
		if !is {
			return false
		}
		for _, y := range xs {
			if !p(y) {
				return false
			}
		}
		return true
	}
}

// SomeElement matches ordered containers with at least one element
// that matches p.
func SomeElement(p Pattern[any]) Pattern[any] {
	return func(x any) bool {
		xs, is := elements(x)
		if !is {
			return false
		}
		for _, y := range xs {
			if p(y) {
				return true
			}
		}
		return false
	}
}

// NoElement matches ordered containers with no element that matches
// p.
func NoElement(p Pattern[any]) Pattern[any] {
	return func(x any) bool {
		xs, is := elements(x)
		return is && !SomeElement(p)(xs)
	}
}

// Size returns the number of elements in a container, the number of
// entries in a map, or the number of runes in a string.
func Size(x any) (int, bool) {
	switch vv := x.(type) {
	case nil:
		return 0, false
	case string:
		return utf8.RuneCountInString(vv), true
	case []any:
		return len(vv), true
	case map[string]any:
		return len(vv), true
	case Sequence:
		return vv.Len(), true
	}
	v := reflect.ValueOf(x)
	switch v.Kind() {
	case reflect.Slice, reflect.Array, reflect.Map:
		return v.Len(), true
	}
	return 0, false
}

// SizeIs matches values whose Size matches p.  Values without a size
// fail.
func SizeIs(p Pattern[int]) Pattern[any] {
	return func(x any) bool {
		n, ok := Size(x)
		return ok && p(n)
	}
}
