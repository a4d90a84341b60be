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

package tools

import (
	"bytes"
	"strings"
	"testing"

	"github.com/Comcast/patmatch/rules"
)

var ruleSetSrc = `
name: shipping
version: "2"
doc: Picks a *carrier*.
timeout: 50ms
clauses:
- doc: Heavy things go by freight.
  when: {weight: {$gt: 100}, dest: "?dest"}
  then: {carrier: freight, to: "?dest"}
- when: {$script: "return x.fragile;", $interpreter: noop}
  then: {carrier: courier, for: "?who"}
default: {carrier: post}
checks:
- doc: Needs a destination.
  when: {dest: {}}
- when: {weight: {$between: [0, 1000]}}
  fail: "bad weight"
`

func parse(t *testing.T) *rules.RuleSet {
	rs, err := rules.Parse([]byte(ruleSetSrc))
	if err != nil {
		t.Fatal(err)
	}
	return rs
}

func same(xs, ys []string) bool {
	if len(xs) != len(ys) {
		return false
	}
	for i := range xs {
		if xs[i] != ys[i] {
			return false
		}
	}
	return true
}

func TestAnalysis(t *testing.T) {
	a := Analyze(parse(t))

	if a.Clauses != 2 || a.Checks != 2 || !a.HasDefault {
		t.Fatalf("counts: %#v", a)
	}
	if want := []string{"$between", "$gt", "$interpreter", "$script"}; !same(a.Operators, want) {
		t.Fatalf("operators %v", a.Operators)
	}
	if want := []string{"?dest"}; !same(a.Variables, want) {
		t.Fatalf("variables %v", a.Variables)
	}
	if want := []string{"noop"}; !same(a.Interpreters, want) {
		t.Fatalf("interpreters %v", a.Interpreters)
	}
	if want := []string{"?who"}; !same(a.Unbound, want) {
		t.Fatalf("unbound %v", a.Unbound)
	}
	if len(a.Errors) != 0 {
		t.Fatalf("errors %v", a.Errors)
	}
}

func TestAnalysisBadTimeout(t *testing.T) {
	rs := parse(t)
	rs.Timeout = "soon"
	if a := Analyze(rs); len(a.Errors) != 1 {
		t.Fatalf("errors %v", a.Errors)
	}
}

func TestRenderRuleSetPage(t *testing.T) {
	var buf bytes.Buffer
	if err := RenderRuleSetPage(parse(t), &buf, nil); err != nil {
		t.Fatal(err)
	}
	page := buf.String()
	for _, want := range []string{
		"<title>shipping</title>",
		"<em>carrier</em>",
		"Heavy things go by freight.",
		`class="clauseNum">default`,
		"bad weight",
		"&#34;$gt&#34;",
	} {
		if !strings.Contains(page, want) {
			t.Fatalf("no %q in\n%s", want, page)
		}
	}
}
