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
	"testing"
)

func TestLeaves(t *testing.T) {
	n := 3
	tests := []struct {
		name string
		p    Pattern[any]
		x    any
		want bool
	}{
		{"any", Any[any](), 42, true},
		{"any nil", Any[any](), nil, true},
		{"none", None[any](), 42, false},
		{"eq", Lift(Eq(3)), 3, true},
		{"eq other", Lift(Eq(3)), 4, false},
		{"eq wrong type", Lift(Eq(3)), "3", false},
		{"ne", Lift(Ne("a")), "b", true},
		{"equal numbers", Equal[any](27), int64(27), true},
		{"equal float", Equal[any](27), 27.0, true},
		{"equal slices", Equal[any]([]any{1, "a"}), []any{1.0, "a"}, true},
		{"one of", Lift(OneOf("a", "b")), "b", true},
		{"one of miss", Lift(OneOf("a", "b")), "c", false},
		{"in", Lift(In(map[string]bool{"x": true})), "x", true},
		{"is nil", IsNil[any](), nil, true},
		{"is nil pointer", IsNil[any](), (*int)(nil), true},
		{"is nil value", IsNil[any](), 0, false},
		{"not nil", NotNil[any](), &n, true},
		{"is a string", IsA[string](), "s", true},
		{"is a int", IsA[string](), 1, false},
		{"is a stringer", IsA[fmt.Stringer](), Pair[int, int]{}, false},
		{"has string", HasString[any]("[1 2]"), []int{1, 2}, true},
		{"type is", TypeIs("Person"), Person{}, true},
		{"type is qualified", TypeIs("pattern.Person"), Person{}, true},
		{"type is pointer", TypeIs("Person"), &Person{}, true},
		{"type is other", TypeIs("Human"), Person{}, false},
		{"type is nil", TypeIs("Person"), nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.p.Test(tt.x); got != tt.want {
				t.Fatalf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestPointers(t *testing.T) {
	n := 12
	if !NilOr(Gt(10))(nil) {
		t.Fatal("NilOr should match nil")
	}
	if !NilOr(Gt(10))(&n) {
		t.Fatal("NilOr should match 12")
	}
	if NotNilAnd(Gt(10))(nil) {
		t.Fatal("NotNilAnd shouldn't match nil")
	}
	if !NotNilAnd(Gt(10))(&n) {
		t.Fatal("NotNilAnd should match 12")
	}
	m := n
	if Same(&n)(&m) {
		t.Fatal("Same shouldn't match a different pointer")
	}
	if !Same(&n)(&n) {
		t.Fatal("Same should match the same pointer")
	}
}

func TestCompare(t *testing.T) {
	tests := []struct {
		p    Pattern[int]
		x    int
		want bool
	}{
		{Lt(30), 27, true},
		{Lt(30), 30, false},
		{Le(30), 30, true},
		{Gt(30), 31, true},
		{Gt(30), 30, false},
		{Ge(20), 20, true},
		{Ge(20), 12, false},
		{Between(1, 3), 1, true},
		{Between(1, 3), 3, true},
		{Between(1, 3), 4, false},
	}
	for i, tt := range tests {
		if got := tt.p(tt.x); got != tt.want {
			t.Errorf("%d: got %v, want %v", i, got, tt.want)
		}
	}
	if !Lt("b")("a") {
		t.Error("strings should be ordered")
	}
}

func TestShortCircuit(t *testing.T) {
	t.Run("and", func(t *testing.T) {
		c := NewCapture[int]()
		if And(Lt(0), c.Pattern())(5) {
			t.Fatal("should have failed")
		}
		if c.IsSet() {
			t.Fatal("capture was tested after a failed left branch")
		}
	})
	t.Run("or", func(t *testing.T) {
		c := NewCapture[int]()
		if !Or(Gt(0), c.Pattern())(5) {
			t.Fatal("should have matched")
		}
		if c.IsSet() {
			t.Fatal("capture was tested after a successful left branch")
		}
	})
	t.Run("allOf", func(t *testing.T) {
		s := &spy{result: true}
		if AllOf(None[int](), s.Test)(1) {
			t.Fatal("should have failed")
		}
		if s.calls != 0 {
			t.Fatalf("tested %d times after failure", s.calls)
		}
	})
	t.Run("anyOf", func(t *testing.T) {
		s := &spy{}
		if !AnyOf(Any[int](), s.Test)(1) {
			t.Fatal("should have matched")
		}
		if s.calls != 0 {
			t.Fatalf("tested %d times after success", s.calls)
		}
	})
}

func TestXor(t *testing.T) {
	bools := []bool{false, true}
	for _, a := range bools {
		for _, b := range bools {
			l, r := &spy{result: a}, &spy{result: b}
			got := Xor(l.Test, r.Test)(0)
			if got != (a != b) {
				t.Errorf("xor(%v, %v) = %v", a, b, got)
			}
			if l.calls != 1 || r.calls != 1 {
				t.Errorf("xor(%v, %v) tested %d and %d times", a, b, l.calls, r.calls)
			}
		}
	}
}

func TestNary(t *testing.T) {
	yes, no := Any[int](), None[int]()
	tests := []struct {
		name string
		p    Pattern[int]
		want bool
	}{
		{"allOf empty", AllOf[int](), true},
		{"anyOf empty", AnyOf[int](), false},
		{"noneOf empty", NoneOf[int](), true},
		{"allOf", AllOf(yes, yes, yes), true},
		{"allOf one fails", AllOf(yes, no, yes), false},
		{"anyOf", AnyOf(no, no, yes), true},
		{"anyOf all fail", AnyOf(no, no), false},
		{"noneOf", NoneOf(no, no), true},
		{"noneOf one matches", NoneOf(no, yes), false},
		{"not", Not(no), true},
		{"method not", yes.Not(), false},
		{"method and", yes.And(no), false},
		{"method or", no.Or(yes), true},
		{"method xor", yes.Xor(yes), false},
	}
	for _, tt := range tests {
		if got := tt.p(0); got != tt.want {
			t.Errorf("%s: got %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestConditionals(t *testing.T) {
	email := HasPrefix("mailto:").ThenRequire(ContainsString("@"))
	for s, want := range map[string]bool{
		"mailto:a@b.c": true,
		"mailto:abc":   false,
		"http://x":     true,
	} {
		if got := email(s); got != want {
			t.Errorf("%q: got %v, want %v", s, got, want)
		}
	}

	l, r := &spy{result: true}, &spy{result: true}
	p := IfThenElse(Gt(0), l.Test, r.Test)
	p(1)
	p(-1)
	p(2)
	if l.calls != 2 || r.calls != 1 {
		t.Fatalf("branches tested %d and %d times", l.calls, r.calls)
	}
}

func TestOn(t *testing.T) {
	length := On(Gt(3), func(s string) int { return len(s) })
	if !length("tacos") {
		t.Fatal("tacos is longer than 3")
	}
	if length("hi") {
		t.Fatal("hi is not longer than 3")
	}

	defer func() {
		if recover() == nil {
			t.Fatal("a panicking transform should propagate")
		}
	}()
	On(Any[int](), func(xs []int) int { return xs[3] })([]int{1})
}

func TestStrings(t *testing.T) {
	tests := []struct {
		p    Pattern[string]
		x    string
		want bool
	}{
		{EqualFold("HeLLo"), "hello", true},
		{HasPrefix("he"), "hello", true},
		{HasSuffix("lo"), "hello", true},
		{HasSuffix("he"), "hello", false},
		{ContainsString(" "), "Bob", false},
		{ContainsString(" "), "Bob Doe", true},
		{HasLen(Eq(5)), "héllo", true},
		{MustRegexp(`a|ab`), "ab", true},
		{MustRegexp(`[0-9]+`), "123", true},
		{MustRegexp(`[0-9]+`), "123x", false},
	}
	for i, tt := range tests {
		if got := tt.p(tt.x); got != tt.want {
			t.Errorf("%d %q: got %v, want %v", i, tt.x, got, tt.want)
		}
	}
	if _, err := Regexp("("); err == nil {
		t.Fatal("expected an error")
	}
}
