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

// Not matches when p does not.
func Not[T any](p Pattern[T]) Pattern[T] {
	return func(x T) bool { return !p(x) }
}

// And matches when both p and q match.
//
// q is not tested when p fails, so a Capture in q is left alone.
func And[T any](p, q Pattern[T]) Pattern[T] {
	return func(x T) bool { return p(x) && q(x) }
}

// Or matches when p or q matches.
//
// q is not tested when p succeeds.
func Or[T any](p, q Pattern[T]) Pattern[T] {
	return func(x T) bool { return p(x) || q(x) }
}

// Xor matches when exactly one of p and q matches.  Both are always
// tested.
func Xor[T any](p, q Pattern[T]) Pattern[T] {
	return func(x T) bool {
		a := p(x)
		b := q(x)
		return a != b
	}
}

// AllOf matches when every pattern matches.  Patterns are tested in
// order, and testing stops at the first failure.  AllOf() matches
// everything.
func AllOf[T any](ps ...Pattern[T]) Pattern[T] {
	return func(x T) bool {
		for _, p := range ps {
			if !p(x) {
				return false
			}
		}
		return true
	}
}

// AnyOf matches when at least one pattern matches.  Testing stops at
// the first success.  AnyOf() matches nothing.
func AnyOf[T any](ps ...Pattern[T]) Pattern[T] {
	return func(x T) bool {
		for _, p := range ps {
			if p(x) {
				return true
			}
		}
		return false
	}
}

// NoneOf matches when no pattern matches.  Testing stops at the first
// success.  NoneOf() matches everything.
func NoneOf[T any](ps ...Pattern[T]) Pattern[T] {
	return Not(AnyOf(ps...))
}

// On matches when p matches the transformed value.
//
// Whatever transform does (including panicking) is not intercepted.
func On[T, U any](p Pattern[U], transform func(T) U) Pattern[T] {
	return func(x T) bool { return p(transform(x)) }
}

// ThenRequire matches when p fails or when both p and q match.  That
// is, q is a postcondition checked only when p holds.
//
// Example: HasPrefix("mailto:").ThenRequire(ContainsString("@")).
func ThenRequire[T any](p, q Pattern[T]) Pattern[T] {
	return func(x T) bool {
		if p(x) {
			return q(x)
		}
		return true
	}
}

// IfThenElse tests whenTrue if cond matches and whenFalse otherwise.
// Exactly one branch is tested.
func IfThenElse[T any](cond, whenTrue, whenFalse Pattern[T]) Pattern[T] {
	return func(x T) bool {
		if cond(x) {
			return whenTrue(x)
		}
		return whenFalse(x)
	}
}
