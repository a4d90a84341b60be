/* Copyright 2018-2019 Comcast Cable Communications Management, LLC
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

// Package pattern implements composable, typed predicates.
//
// A Pattern is just a function from a value to a bool.  Patterns are
// values: build them once, store them, combine them, and test as many
// subjects as you like.  The only patterns with side effects are
// Captures, which record the last value they saw.
//
// A pattern tree that contains a Capture must not be tested against
// two subjects concurrently.  The Capture's slot is overwritten in
// place.  Use a separate Capture per goroutine instead.
package pattern

// Pattern is a predicate over one value.
type Pattern[T any] func(T) bool

// Test reports whether x matches the pattern.
func (p Pattern[T]) Test(x T) bool {
	return p(x)
}

// Not is Not(p).
func (p Pattern[T]) Not() Pattern[T] {
	return Not(p)
}

// And is And(p, q).
func (p Pattern[T]) And(q Pattern[T]) Pattern[T] {
	return And(p, q)
}

// Or is Or(p, q).
func (p Pattern[T]) Or(q Pattern[T]) Pattern[T] {
	return Or(p, q)
}

// Xor is Xor(p, q).
func (p Pattern[T]) Xor(q Pattern[T]) Pattern[T] {
	return Xor(p, q)
}

// ThenRequire is ThenRequire(p, q).
func (p Pattern[T]) ThenRequire(q Pattern[T]) Pattern[T] {
	return ThenRequire(p, q)
}

// orAny returns Any when given a nil pattern.
func orAny[T any](p Pattern[T]) Pattern[T] {
	if p == nil {
		return Any[T]()
	}
	return p
}

// Any matches everything.
func Any[T any]() Pattern[T] {
	return func(T) bool { return true }
}

// None matches nothing.
func None[T any]() Pattern[T] {
	return func(T) bool { return false }
}

// Eq matches values equal (==) to v.
func Eq[T comparable](v T) Pattern[T] {
	return func(x T) bool { return x == v }
}

// Ne matches values not equal (!=) to v.
func Ne[T comparable](v T) Pattern[T] {
	return func(x T) bool { return x != v }
}

// Equal matches values that are Equivalent to v.
//
// Unlike Eq, Equal works for any type.  Numbers of different Go
// types are compared by value, so Equal(27) matches int64(27) and
// 27.0.
func Equal[T any](v T) Pattern[T] {
	return func(x T) bool { return Equivalent(x, v) }
}

// Same matches the pointer p itself.
func Same[T any](p *T) Pattern[*T] {
	return func(x *T) bool { return x == p }
}

// OneOf matches any of the given values.
func OneOf[T comparable](vs ...T) Pattern[T] {
	set := make(map[T]struct{}, len(vs))
	for _, v := range vs {
		set[v] = struct{}{}
	}
	return func(x T) bool {
		_, have := set[x]
		return have
	}
}

// In matches values that are keys of the given set.
//
// The set is not copied.
func In[T comparable, V any](set map[T]V) Pattern[T] {
	return func(x T) bool {
		_, have := set[x]
		return have
	}
}

// IsNil matches absent values: a nil interface, pointer, map, slice,
// channel, or function.
func IsNil[T any]() Pattern[T] {
	return func(x T) bool { return isNil(x) }
}

// NotNil is the negation of IsNil.
func NotNil[T any]() Pattern[T] {
	return func(x T) bool { return !isNil(x) }
}

// NilOr matches nil pointers and pointers to values that match p.
func NilOr[T any](p Pattern[T]) Pattern[*T] {
	return func(x *T) bool { return x == nil || p(*x) }
}

// NotNilAnd matches non-nil pointers to values that match p.
func NotNilAnd[T any](p Pattern[T]) Pattern[*T] {
	return func(x *T) bool { return x != nil && p(*x) }
}

// IsA matches values whose dynamic type is (or implements) Q.
func IsA[Q any]() Pattern[any] {
	return func(x any) bool {
		_, is := x.(Q)
		return is
	}
}

// TypeIs matches values with the given type tag.
//
// See TypeName for the names that a value answers to.
func TypeIs(name string) Pattern[any] {
	return func(x any) bool { return HasTypeName(x, name) }
}

// HasString matches values whose default rendering (as by fmt.Sprint)
// is s.
func HasString[T any](s string) Pattern[T] {
	return func(x T) bool { return render(x) == s }
}
