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
	"strings"
)

// Members is implemented by records that can look up a member by
// name.  The second return value is false if there is no such member.
//
// Maps with string keys are treated as if they implement Members.
type Members interface {
	Member(name string) (any, bool)
}

// Components is implemented by records with positional components.
// Components are numbered from 1.  Component should return false for
// any n outside the record's arity.
type Components interface {
	Component(n int) (any, bool)
}

// Sequence is implemented by ordered containers that aren't Go slices
// or arrays.
type Sequence interface {
	Len() int
	At(i int) any
}

// Lift adapts a typed pattern to a pattern over any values.  A value
// that isn't a T fails to match, except that an absent value is tested
// as T's zero value when that zero value is itself absent (for
// example when T is a pointer or interface type).
func Lift[T any](p Pattern[T]) Pattern[any] {
	nilable := isNilableType[T]()
	return func(x any) bool {
		if x == nil {
			if !nilable {
				return false
			}
			var zero T
			return p(zero)
		}
		v, is := x.(T)
		if !is {
			return false
		}
		return p(v)
	}
}

func isNilableType[T any]() bool {
	switch reflect.TypeOf((*T)(nil)).Elem().Kind() {
	case reflect.Chan, reflect.Func, reflect.Interface, reflect.Map, reflect.Pointer, reflect.Slice:
		return true
	}
	return false
}

// elements returns the elements of an ordered container.  The second
// return value is false if x isn't an ordered container.
//
// Strings are not containers here.
func elements(x any) ([]any, bool) {
	switch vv := x.(type) {
	case nil:
		return nil, false
	case []any:
		return vv, true
	case Sequence:
		acc := make([]any, vv.Len())
		for i := range acc {
			acc[i] = vv.At(i)
		}
		return acc, true
	}
	v := reflect.ValueOf(x)
	switch v.Kind() {
	case reflect.Slice, reflect.Array:
		acc := make([]any, v.Len())
		for i := range acc {
			acc[i] = v.Index(i).Interface()
		}
		return acc, true
	}
	return nil, false
}

// element returns the element at index i of an ordered container or
// the rune at index i of a string.
func element(x any, i int) (any, bool) {
	if i < 0 {
		return nil, false
	}
	switch vv := x.(type) {
	case nil:
		return nil, false
	case []any:
		if len(vv) <= i {
			return nil, false
		}
		return vv[i], true
	case string:
		rs := []rune(vv)
		if len(rs) <= i {
			return nil, false
		}
		return rs[i], true
	case Sequence:
		if vv.Len() <= i {
			return nil, false
		}
		return vv.At(i), true
	}
	v := reflect.ValueOf(x)
	switch v.Kind() {
	case reflect.Slice, reflect.Array:
		if v.Len() <= i {
			return nil, false
		}
		return v.Index(i).Interface(), true
	}
	return nil, false
}

// Index lifts p to ordered containers: the element at index i must
// match p.  Slices, arrays, and Sequences are ordered containers.  A
// string is treated as a sequence of runes.  An index out of bounds,
// a negative index, or a subject that isn't an ordered container is a
// failure.
func Index(p Pattern[any], i int) Pattern[any] {
	return func(x any) bool {
		y, have := element(x, i)
		return have && p(y)
	}
}

// value returns the value for key k in an associative container.
func value(x, k any) (any, bool) {
	switch vv := x.(type) {
	case nil:
		return nil, false
	case map[string]any:
		s, is := k.(string)
		if !is {
			return nil, false
		}
		y, have := vv[s]
		return y, have
	case map[any]any:
		if k == nil || !reflect.ValueOf(k).Comparable() {
			return nil, false
		}
		y, have := vv[k]
		return y, have
	}
	v := reflect.ValueOf(x)
	if v.Kind() != reflect.Map || k == nil {
		return nil, false
	}
	kv := reflect.ValueOf(k)
	// Value.Comparable looks inside interfaces: MapIndex panics on
	// a key holding a slice.
	if !kv.Comparable() || !kv.Type().AssignableTo(v.Type().Key()) {
		return nil, false
	}
	y := v.MapIndex(kv)
	if !y.IsValid() {
		return nil, false
	}
	return y.Interface(), true
}

// Lookup lifts p to associative containers: the value for key k must
// match p.  A missing key, a key of the wrong type, or a subject
// that isn't a map is a failure.
func Lookup(p Pattern[any], k any) Pattern[any] {
	return func(x any) bool {
		y, have := value(x, k)
		return have && p(y)
	}
}

// member resolves a single member name.
func member(x any, name string) (any, bool) {
	if isNil(x) {
		return nil, false
	}
	switch vv := x.(type) {
	case Members:
		return vv.Member(name)
	case map[string]any:
		y, have := vv[name]
		return y, have
	}
	return nil, false
}

// Resolve follows a dot-separated path of member names from x.  The
// second return value is false if any segment can't be resolved,
// including when an intermediate value is absent.
func Resolve(x any, path string) (any, bool) {
	for _, name := range strings.Split(path, ".") {
		y, have := member(x, name)
		if !have {
			return nil, false
		}
		x = y
	}
	return x, true
}

// Member lifts p to records: the member with the given name must
// match p.  An absent subject, or one with no such member, is a
// failure.
func Member(p Pattern[any], name string) Pattern[any] {
	return func(x any) bool {
		y, have := member(x, name)
		return have && p(y)
	}
}

// Path is like Member but follows a dot-separated path of member
// names (like "address.city").
func Path(p Pattern[any], path string) Pattern[any] {
	return func(x any) bool {
		y, have := Resolve(x, path)
		return have && p(y)
	}
}

// Field names one member pattern in a record pattern.
type Field struct {
	Name    string
	Pattern Pattern[any]
}

// Fields builds a record pattern, which is the convention that
// generated per-type pattern functions follow.  The result fails for
// an absent subject and otherwise requires each field's pattern to
// match the value of the corresponding member.  A field with a nil
// pattern only requires that the member exists.
//
// A hand-written (or generated) typed helper looks like
//
//	func PersonPattern(first, last, age Pattern[any]) Pattern[*Person] {
//		return On(Fields(
//			Field{"firstName", first},
//			Field{"lastName", last},
//			Field{"age", age},
//		), func(p *Person) any { return p })
//	}
func Fields(fields ...Field) Pattern[any] {
	return func(x any) bool {
		if isNil(x) {
			return false
		}
		for _, f := range fields {
			y, have := Resolve(x, f.Name)
			if !have {
				return false
			}
			if f.Pattern != nil && !f.Pattern(y) {
				return false
			}
		}
		return true
	}
}
