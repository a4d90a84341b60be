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

import "errors"

// ErrUninitialized is the panic value when reading a Capture that has
// never been set.
var ErrUninitialized = errors.New("pattern: no value captured")

// Capture is a single-slot cell that records the last value it
// tested.
//
// Testing a Capture always succeeds.  (The adapter returned by Any is
// the exception: it is a type gate plus a capture, so a value that
// isn't a T fails and isn't captured.)  A Capture distinguishes "never
// set" from "set to a nil value": see IsSet and Get.
//
// A Capture is not safe for concurrent use.
type Capture[T any] struct {
	value T
	set   bool
}

// NewCapture makes an unset Capture.
func NewCapture[T any]() *Capture[T] {
	return &Capture[T]{}
}

// Test stores x and returns true.
func (c *Capture[T]) Test(x T) bool {
	c.value = x
	c.set = true
	return true
}

// Pattern returns the Capture as a Pattern.
func (c *Capture[T]) Pattern() Pattern[T] {
	return c.Test
}

// Any returns the Capture as a Pattern over any values.  Unlike Test,
// this adapter is a type gate plus a capture: a value that isn't a T
// fails to match and is not captured.
func (c *Capture[T]) Any() Pattern[any] {
	return Lift(c.Pattern())
}

// Value returns the captured value.
//
// Value panics with ErrUninitialized if nothing has been captured.
func (c *Capture[T]) Value() T {
	if !c.set {
		panic(ErrUninitialized)
	}
	return c.value
}

// Get returns the captured value and whether there is one.
func (c *Capture[T]) Get() (T, bool) {
	return c.value, c.set
}

// GetOrZero returns the captured value or T's zero value.
//
// Note that a captured value could itself be zero.  Consult IsSet to
// tell the difference.
func (c *Capture[T]) GetOrZero() T {
	return c.value
}

// IsSet reports whether a value has been captured.
func (c *Capture[T]) IsSet() bool {
	return c.set
}

// Reset returns the Capture to its unset state.
func (c *Capture[T]) Reset() {
	var zero T
	c.value = zero
	c.set = false
}
