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

import "golang.org/x/exp/constraints"

// Lt matches values less than v.
func Lt[T constraints.Ordered](v T) Pattern[T] {
	return func(x T) bool { return x < v }
}

// Le matches values less than or equal to v.
func Le[T constraints.Ordered](v T) Pattern[T] {
	return func(x T) bool { return x <= v }
}

// Gt matches values greater than v.
func Gt[T constraints.Ordered](v T) Pattern[T] {
	return func(x T) bool { return x > v }
}

// Ge matches values greater than or equal to v.
func Ge[T constraints.Ordered](v T) Pattern[T] {
	return func(x T) bool { return x >= v }
}

// Between matches values in the closed interval [lower, upper].
func Between[T constraints.Ordered](lower, upper T) Pattern[T] {
	return func(x T) bool { return lower <= x && x <= upper }
}
