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

package goja

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/Comcast/patmatch/match"
	"github.com/Comcast/patmatch/rules"
	. "github.com/Comcast/patmatch/util/testutil"
)

func exec(t *testing.T, i *Interpreter, timeout time.Duration, bs match.Bindings, x interface{}, code interface{}) (interface{}, error) {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	compiled, err := i.Compile(ctx, code)
	if err != nil {
		t.Fatal(err)
	}

	return i.Exec(ctx, bs, x, code, compiled)
}

func TestPredicate(t *testing.T) {
	i := NewInterpreter()
	code := `return 18 <= x.age;`

	for _, tc := range []struct {
		x    string
		want bool
	}{
		{`{"age":21}`, true},
		{`{"age":17}`, false},
		{`{"age":18}`, true},
	} {
		v, err := exec(t, i, time.Second, nil, Dwimjs(tc.x), code)
		if err != nil {
			t.Fatal(err)
		}
		b, is := v.(bool)
		if !is {
			t.Fatalf("%#v is a %T, not a %T", v, v, b)
		}
		if b != tc.want {
			t.Fatalf("%s: wanted %v", tc.x, tc.want)
		}
	}
}

func TestBindingsResult(t *testing.T) {
	i := NewInterpreter()
	code := `return {likes: x.snack, was: bs["?mood"]};`

	bs := match.NewBindings()
	bs["?mood"] = "hungry"

	v, err := exec(t, i, time.Second, bs, Dwimjs(`{"snack":"chips"}`), code)
	if err != nil {
		t.Fatal(err)
	}
	m, is := v.(map[string]interface{})
	if !is {
		t.Fatalf("%#v is a %T", v, v)
	}
	if m["likes"] != "chips" {
		t.Fatalf("didn't want %#v", m["likes"])
	}
	if m["was"] != "hungry" {
		t.Fatalf("didn't want %#v", m["was"])
	}
}

func TestBindingsNotModified(t *testing.T) {
	i := NewInterpreter()
	code := `bs.spoiled = true; return true;`

	bs := match.NewBindings()
	if _, err := exec(t, i, time.Second, bs, nil, code); err != nil {
		t.Fatal(err)
	}
	if _, have := bs["spoiled"]; have {
		t.Fatal("script modified the caller's bindings")
	}
}

type point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

func TestStructSubject(t *testing.T) {
	i := NewInterpreter()
	v, err := exec(t, i, time.Second, nil, point{1, 2}, `return x.x + x.y == 3;`)
	if err != nil {
		t.Fatal(err)
	}
	if v != true {
		t.Fatalf("didn't want %#v", v)
	}
}

func TestTimeout(t *testing.T) {
	i := NewInterpreter()
	i.Testing = true
	code := `for (;;) { sleep(10); } return true;`

	_, err := exec(t, i, 50*time.Millisecond, nil, nil, code)
	if err == nil {
		t.Fatal("didn't timeout")
	}
	if msg := err.Error(); msg != InterruptedMessage {
		t.Fatalf("surprised by \"%s\"", msg)
	}
}

func TestRuntimeError(t *testing.T) {
	i := NewInterpreter()
	if _, err := exec(t, i, time.Second, nil, nil, `return likes + tacos;`); err == nil {
		t.Fatal("didn't protest")
	}
}

func TestSyntaxError(t *testing.T) {
	i := NewInterpreter()
	if _, err := i.Compile(context.Background(), `return (;`); err == nil {
		t.Fatal("didn't protest")
	}
}

func TestBadSource(t *testing.T) {
	i := NewInterpreter()
	if _, err := i.Compile(context.Background(), 42); err == nil {
		t.Fatal("didn't protest")
	}
}

func TestCronNextGood(t *testing.T) {
	i := NewInterpreter()
	code := `return {next: _.cronNext("* 0 * * *")};`

	v, err := exec(t, i, time.Second, nil, nil, code)
	if err != nil {
		t.Fatal(err)
	}
	m, is := v.(map[string]interface{})
	if !is {
		t.Fatalf("%#v is a %T", v, v)
	}
	s, is := m["next"].(string)
	if !is {
		t.Fatalf("next %#v is a %T", m["next"], m["next"])
	}
	next, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		t.Fatal(err)
	}
	if !next.After(time.Now().Add(-time.Minute)) {
		t.Fatalf("next %s is in the past", next)
	}
}

func TestCronNextBad(t *testing.T) {
	i := NewInterpreter()
	code := `return {next: _.cronNext("bad")};`

	if _, err := exec(t, i, time.Second, nil, nil, code); err == nil {
		t.Fatal("didn't protest")
	}
}

func TestMatchUtility(t *testing.T) {
	i := NewInterpreter()
	code := `
var bs = _.match({"likes":"?x"}, x);
if (!bs) { return false; }
return {liked: bs["?x"]};
`
	v, err := exec(t, i, time.Second, nil, Dwimjs(`{"likes":"queso"}`), code)
	if err != nil {
		t.Fatal(err)
	}
	m, is := v.(map[string]interface{})
	if !is {
		t.Fatalf("%#v is a %T", v, v)
	}
	if m["liked"] != "queso" {
		t.Fatalf("didn't want %#v", m["liked"])
	}

	if v, err = exec(t, i, time.Second, nil, Dwimjs(`{"hates":"queso"}`), code); err != nil {
		t.Fatal(err)
	}
	if v != false {
		t.Fatalf("didn't want %#v", v)
	}
}

func TestRequireSimple(t *testing.T) {
	code := map[string]interface{}{
		"requires": []interface{}{"foo", "bar"},
		"code":     `return {likes: foo(), with: bar()}`,
	}

	i := NewInterpreter()
	i.LibraryProvider = MakeMapLibraryProvider(map[string]string{
		"foo": `
function foo() {
  var acc = [];
  for (var i = 0; i < 10; i++) {
      acc.push(i);
  }
  return "chips";
}
`,
		"bar": `
function bar() { return "queso"}
`,
	})

	v, err := exec(t, i, time.Second, nil, nil, code)
	if err != nil {
		t.Fatal(err)
	}
	m, is := v.(map[string]interface{})
	if !is {
		t.Fatalf("%#v is a %T", v, v)
	}
	if m["likes"] != "chips" || m["with"] != "queso" {
		t.Fatalf("didn't want %#v", m)
	}
}

func TestRequireMissing(t *testing.T) {
	code := map[string]interface{}{
		"requires": "nope",
		"code":     `return true;`,
	}

	i := NewInterpreter()
	i.LibraryProvider = MakeMapLibraryProvider(map[string]string{})

	if _, err := i.Compile(context.Background(), code); err == nil {
		t.Fatal("didn't protest")
	}
}

func TestLibraryCompileError(t *testing.T) {
	code := map[string]interface{}{
		"requires": []interface{}{"broken"},
		"code":     `return true;`,
	}

	i := NewInterpreter()
	i.LibraryProvider = MakeMapLibraryProvider(map[string]string{
		"broken": `function broken( {`,
	})

	if _, err := i.Compile(context.Background(), code); err == nil {
		t.Fatal("didn't protest")
	}
}

func TestFileLibraryProvider(t *testing.T) {
	p := MakeFileLibraryProvider(".")
	if _, err := p(context.Background(), nil, "http://example.com/lib.js"); err == nil {
		t.Fatal("didn't protest about protocol")
	}
	if _, err := p(context.Background(), nil, "lib.js"); err == nil {
		t.Fatal("didn't protest about link")
	}
	src, err := p(context.Background(), nil, "file://goja.go")
	if err != nil {
		t.Fatal(err)
	}
	if len(src) == 0 {
		t.Fatal("empty source")
	}
}

func TestRegistered(t *testing.T) {
	if _, have := rules.DefaultInterpreters["goja"]; !have {
		t.Fatal("goja isn't a default interpreter")
	}
}

func TestRuleSetScript(t *testing.T) {
	rs, err := rules.Parse([]byte(`
name: scripted
clauses:
- when:
    $script: return x.n % 2 == 0;
  then: even
- when:
    $script: 'if (x.n < 20) { return false; } return {"?size": "big"};'
  then: "?size"
default: odd
`))
	if err != nil {
		t.Fatal(err)
	}

	ctx := context.Background()
	if err = rs.Compile(ctx, nil); err != nil {
		t.Fatal(err)
	}

	for _, tc := range []struct {
		n    int
		want interface{}
	}{
		{4, "even"},
		{31, "big"},
		{7, "odd"},
	} {
		r, err := rs.Match(ctx, map[string]interface{}{"n": tc.n}, nil)
		if err != nil {
			t.Fatal(err)
		}
		if r.Value != tc.want {
			t.Fatalf("%d: %#v != %#v", tc.n, r.Value, tc.want)
		}
	}
}

func BenchmarkPredicate(b *testing.B) {
	i := NewInterpreter()
	code := `return 18 <= x.age;`
	ctx := context.Background()
	compiled, err := i.Compile(ctx, code)
	if err != nil {
		b.Fatal(err)
	}
	x := Dwimjs(`{"age":21}`)

	b.ResetTimer()
	for n := 0; n < b.N; n++ {
		if _, err := i.Exec(ctx, nil, x, code, compiled); err != nil {
			b.Fatal(fmt.Sprintf("%s", err))
		}
	}
}
