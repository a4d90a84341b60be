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

// Pair is an ordered pair.
type Pair[A, B any] struct {
	First  A
	Second B
}

// Component implements Components.
func (p Pair[A, B]) Component(n int) (any, bool) {
	switch n {
	case 1:
		return p.First, true
	case 2:
		return p.Second, true
	}
	return nil, false
}

// Triple is an ordered triple.
type Triple[A, B, C any] struct {
	First  A
	Second B
	Third  C
}

// Component implements Components.
func (t Triple[A, B, C]) Component(n int) (any, bool) {
	switch n {
	case 1:
		return t.First, true
	case 2:
		return t.Second, true
	case 3:
		return t.Third, true
	}
	return nil, false
}

// PairOf matches pairs component-wise.  A nil pattern matches
// anything.
func PairOf[A, B any](first Pattern[A], second Pattern[B]) Pattern[Pair[A, B]] {
	first, second = orAny(first), orAny(second)
	return func(p Pair[A, B]) bool {
		return first(p.First) && second(p.Second)
	}
}

// First matches pairs whose first component matches p.
func First[A, B any](p Pattern[A]) Pattern[Pair[A, B]] {
	return PairOf[A, B](p, nil)
}

// Second matches pairs whose second component matches p.
func Second[A, B any](p Pattern[B]) Pattern[Pair[A, B]] {
	return PairOf[A, B](nil, p)
}

// TripleOf matches triples component-wise.  A nil pattern matches
// anything.
func TripleOf[A, B, C any](p1 Pattern[A], p2 Pattern[B], p3 Pattern[C]) Pattern[Triple[A, B, C]] {
	p1, p2, p3 = orAny(p1), orAny(p2), orAny(p3)
	return func(t Triple[A, B, C]) bool {
		return p1(t.First) && p2(t.Second) && p3(t.Third)
	}
}

// Third matches triples whose third component matches p.
func Third[A, B, C any](p Pattern[C]) Pattern[Triple[A, B, C]] {
	return TripleOf[A, B, C](nil, nil, p)
}
