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
)

// lifter is implemented by Captures of any type.
type lifter interface {
	Any() Pattern[any]
}

// toPattern interprets an argument to Split or Destructure.
//
// Patterns over any values (including functions of that shape) are
// used as given.  Typed patterns (any func(T) bool) are lifted as by
// Lift, and Captures of any type capture through their Any method.
// Anything else is a literal that matches Equivalent values.
//
// A function of any other shape panics.
func toPattern(x any) Pattern[any] {
	switch vv := x.(type) {
	case Pattern[any]:
		return orAny(vv)
	case func(any) bool:
		return orAny(Pattern[any](vv))
	case *Capture[any]:
		return vv.Pattern()
	case lifter:
		return vv.Any()
	}
	if v := reflect.ValueOf(x); v.Kind() == reflect.Func {
		return liftFunc(v)
	}
	return Equal[any](x)
}

// liftFunc is Lift for a typed pattern known only by reflection.
func liftFunc(f reflect.Value) Pattern[any] {
	t := f.Type()
	if t.NumIn() != 1 || t.NumOut() != 1 || t.Out(0).Kind() != reflect.Bool || t.IsVariadic() {
		panic(fmt.Sprintf("pattern: %s isn't a pattern", t))
	}
	if f.IsNil() {
		return Any[any]()
	}
	in := t.In(0)
	return func(x any) bool {
		var arg reflect.Value
		if x == nil {
			switch in.Kind() {
			case reflect.Ptr, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
				arg = reflect.Zero(in)
			default:
				return false
			}
		} else {
			arg = reflect.ValueOf(x)
			if !arg.Type().AssignableTo(in) {
				return false
			}
		}
		return f.Call([]reflect.Value{arg})[0].Bool()
	}
}

func toPatterns(xs []any) []Pattern[any] {
	acc := make([]Pattern[any], len(xs))
	for i, x := range xs {
		acc[i] = toPattern(x)
	}
	return acc
}

// Split decomposes a composite value and matches its components
// against the given sub-patterns.  Each argument is either a pattern
// (see toPattern) or a literal.
//
// If the subject is an ordered container (a slice, an array, or a
// Sequence), the sub-patterns are paired with elements in order.
// Fewer sub-patterns than elements is fine: the remaining elements
// are ignored.  More sub-patterns than elements is a failure.
//
// Otherwise the subject must implement Components, and the i-th
// sub-pattern (counting from 1) is matched against Component(i).
// A missing component is a failure.
//
// An absent subject never matches.  Split nests: a sub-pattern can
// itself be a Split.
func Split(ps ...any) Pattern[any] {
	return split("", toPatterns(ps))
}

// Destructure is Split that first requires the subject to answer to
// the type tag name (see TypeNames).
func Destructure(name string, ps ...any) Pattern[any] {
	return split(name, toPatterns(ps))
}

func split(name string, ps []Pattern[any]) Pattern[any] {
	return func(x any) bool {
		if isNil(x) {
			return false
		}
		if name != "" && !HasTypeName(x, name) {
			return false
		}
		if xs, is := elements(x); is {
			if len(xs) < len(ps) {
				return false
			}
			for i, p := range ps {
				if !p(xs[i]) {
					return false
				}
			}
			return true
		}
		if len(ps) == 0 {
			return true
		}
		cs, is := x.(Components)
		if !is {
			return false
		}
		for i, p := range ps {
			c, have := cs.Component(i + 1)
			if !have || !p(c) {
				return false
			}
		}
		return true
	}
}
