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
	"errors"
	"testing"
)

func TestCaptureScenario(t *testing.T) {
	c := NewCapture[int]()

	if !Ge(20).And(c.Pattern())(23) {
		t.Fatal("23 should match")
	}
	if got := c.Value(); got != 23 {
		t.Fatalf("captured %d", got)
	}

	if Lt(20).And(c.Pattern())(5) {
		t.Fatal("5 should not match")
	}
	if got := c.Value(); got != 23 {
		t.Fatalf("capture changed to %d", got)
	}

	// The capture on the left is always tested.
	if c.Pattern().And(Lt(20))(30) {
		t.Fatal("30 should not match")
	}
	if got := c.Value(); got != 30 {
		t.Fatalf("capture is %d", got)
	}
}

func TestCaptureUnset(t *testing.T) {
	c := NewCapture[*Person]()
	if c.IsSet() {
		t.Fatal("new capture is set")
	}
	if _, have := c.Get(); have {
		t.Fatal("new capture has a value")
	}
	if c.GetOrZero() != nil {
		t.Fatal("expected nil")
	}

	func() {
		defer func() {
			r := recover()
			err, is := r.(error)
			if !is || !errors.Is(err, ErrUninitialized) {
				t.Fatalf("recovered %#v", r)
			}
		}()
		c.Value()
	}()

	// Capturing nil is different from capturing nothing.
	c.Test(nil)
	if !c.IsSet() {
		t.Fatal("capture should be set")
	}
	if v, have := c.Get(); !have || v != nil {
		t.Fatalf("got %v %v", v, have)
	}

	c.Reset()
	if c.IsSet() {
		t.Fatal("reset capture is set")
	}
}

func TestCaptureOverwrites(t *testing.T) {
	c := NewCapture[int]()
	p := ForAny(Gt(10).And(c.Pattern()))
	if !p([]int{1, 42, 3}) {
		t.Fatal("should match")
	}
	if c.Value() != 42 {
		t.Fatalf("captured %d", c.Value())
	}
	ForAll(c.Pattern())([]int{7, 8, 9})
	if c.Value() != 9 {
		t.Fatalf("captured %d", c.Value())
	}
}

func TestCaptureAny(t *testing.T) {
	c := NewCapture[string]()
	p := c.Any()
	if p(3) {
		t.Fatal("3 isn't a string")
	}
	if c.IsSet() {
		t.Fatal("mismatched type was captured")
	}
	if !p("x") || c.Value() != "x" {
		t.Fatal("x should be captured")
	}
	if p(nil) {
		t.Fatal("nil isn't a string")
	}

	pc := NewCapture[*Person]()
	if !pc.Any()(nil) || !pc.IsSet() || pc.Value() != nil {
		t.Fatal("nil should be captured as a nil *Person")
	}
}
