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

// At lifts a pattern on elements to a pattern on slices: the element
// at index i must match p.  An index outside the slice (including any
// negative index) is a failure.
func At[T any](p Pattern[T], i int) Pattern[[]T] {
	return func(xs []T) bool {
		if i < 0 || len(xs) <= i {
			return false
		}
		return p(xs[i])
	}
}

// ForAll matches slices whose elements all match p.
func ForAll[T any](p Pattern[T]) Pattern[[]T] {
	return func(xs []T) bool {
		for _, x := range xs {
			if !p(x) {
				return false
			}
		}
		return true
	}
}

// ForAny matches slices with at least one element that matches p.
func ForAny[T any](p Pattern[T]) Pattern[[]T] {
	return func(xs []T) bool {
		for _, x := range xs {
			if p(x) {
				return true
			}
		}
		return false
	}
}

// ForNone matches slices with no element that matches p.
func ForNone[T any](p Pattern[T]) Pattern[[]T] {
	return Not(ForAny(p))
}

// Contains matches slices that contain v.
func Contains[T comparable](v T) Pattern[[]T] {
	return ForAny(Eq(v))
}

// ContainsAll matches slices that contain every one of vs.
func ContainsAll[T comparable](vs ...T) Pattern[[]T] {
	return func(xs []T) bool {
		have := setOf(xs)
		for _, v := range vs {
			if _, found := have[v]; !found {
				return false
			}
		}
		return true
	}
}

// ContainsAny matches slices that contain at least one of vs.
func ContainsAny[T comparable](vs ...T) Pattern[[]T] {
	return func(xs []T) bool {
		have := setOf(xs)
		for _, v := range vs {
			if _, found := have[v]; found {
				return true
			}
		}
		return false
	}
}

// ContainsNone matches slices that contain none of vs.
func ContainsNone[T comparable](vs ...T) Pattern[[]T] {
	return Not(ContainsAny(vs...))
}

// HasSize matches slices whose length matches p.
func HasSize[T any](p Pattern[int]) Pattern[[]T] {
	return func(xs []T) bool { return p(len(xs)) }
}

// IsEmpty matches empty (or nil) slices.
func IsEmpty[T any]() Pattern[[]T] {
	return HasSize[T](Eq(0))
}

// IsNotEmpty matches slices with at least one element.
func IsNotEmpty[T any]() Pattern[[]T] {
	return HasSize[T](Gt(0))
}

func setOf[T comparable](xs []T) map[T]struct{} {
	acc := make(map[T]struct{}, len(xs))
	for _, x := range xs {
		acc[x] = struct{}{}
	}
	return acc
}

// Key lifts a pattern on values to a pattern on maps: the value for k
// must match p.  A missing key is a failure.
func Key[K comparable, V any](p Pattern[V], k K) Pattern[map[K]V] {
	return func(m map[K]V) bool {
		v, have := m[k]
		if !have {
			return false
		}
		return p(v)
	}
}

// HasKey matches maps that have k.
func HasKey[K comparable, V any](k K) Pattern[map[K]V] {
	return Key[K, V](Any[V](), k)
}

// MapHasSize matches maps whose size matches p.
func MapHasSize[K comparable, V any](p Pattern[int]) Pattern[map[K]V] {
	return func(m map[K]V) bool { return p(len(m)) }
}

// ForAllValues matches maps whose values all match p.
func ForAllValues[K comparable, V any](p Pattern[V]) Pattern[map[K]V] {
	return func(m map[K]V) bool {
		for _, v := range m {
			if !p(v) {
				return false
			}
		}
		return true
	}
}

// ForAnyValue matches maps with at least one value that matches p.
//
// Map iteration order is random, so a Capture in p might see any of
// the matching values.
func ForAnyValue[K comparable, V any](p Pattern[V]) Pattern[map[K]V] {
	return func(m map[K]V) bool {
		for _, v := range m {
			if p(v) {
				return true
			}
		}
		return false
	}
}
