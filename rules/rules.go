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

// Package rules compiles declarative rule sets into patterns.
//
// A RuleSet is usually written in YAML (or JSON).  Its clauses are
// dispatched like a match.Matcher: the first clause whose "when"
// pattern matches the subject wins, and its "then" template (with
// variables replaced by their bindings) is the result.  Its checks
// are dispatched like a match.Validator.
//
//	name: greeting
//	clauses:
//	  - when: {name: "?who", age: {$lt: 13}}
//	    then: {greeting: "Hi", to: "?who"}
//	  - when: {name: "?who"}
//	    then: {greeting: "Good day", to: "?who"}
//	default: "Who's there?"
//	checks:
//	  - when: {age: {$ge: 0}}
//	    fail: "age can't be negative"
//
// The pattern language:
//
//   - A string, number, boolean, or null is a literal, which matches
//     equivalent values.  Numbers are compared by value.
//   - A string starting with '?' is a variable, which matches
//     anything and binds the value.  A later binding of the same
//     variable overwrites an earlier one.  "?" alone binds nothing.
//   - An array matches an ordered container (or a record with
//     Components) element by element.  The subject can have more
//     elements than the pattern.
//   - A map whose keys don't start with '$' is a record pattern: each
//     key is a (dotted) member path whose value must match.
//   - A map whose keys start with '$' holds operators: $eq, $ne, $lt,
//     $le, $gt, $ge, $between, $oneOf, $null, $not, $all, $any, $none,
//     $xor, $if (with $then and $else), $when (with $require), $path,
//     $index, and $key (each with $match), $type (with an optional
//     $split), $split, $regex, $prefix, $suffix, $contains, $size,
//     $forAll, $forAny, $forNone, $script (with an optional
//     $interpreter), and $cron.  Several operators in one map must
//     all match.
//
// A compiled RuleSet can be used concurrently: each evaluation has
// its own Bindings.
package rules

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io/ioutil"
	"time"

	"github.com/Comcast/patmatch/match"

	"github.com/jsccast/yaml"
	"github.com/pkg/errors"
)

// RuleSet is a named, ordered set of clauses and checks.
type RuleSet struct {
	// Name is the generic name for this rule set.  Something like
	// "door-open-notification".
	Name string `json:"name,omitempty" yaml:",omitempty"`

	// Version is the version of this rule set.  Something like
	// "1.2".
	Version string `json:"version,omitempty" yaml:",omitempty"`

	// Doc is general documentation about how this rule set works.
	Doc string `json:"doc,omitempty" yaml:",omitempty"`

	// Clauses are considered in order by Match.
	Clauses []*Clause `json:"clauses,omitempty" yaml:",omitempty"`

	// Default is the result template when no clause matches.
	Default interface{} `json:"default,omitempty" yaml:",omitempty"`

	// Checks are all considered by Validate.
	Checks []*Check `json:"checks,omitempty" yaml:",omitempty"`

	// Timeout (like "250ms") bounds each script evaluation.
	Timeout string `json:"timeout,omitempty" yaml:",omitempty"`

	timeout  time.Duration
	compiled bool
}

// Clause pairs a pattern with a result template.
type Clause struct {
	Doc  string      `json:"doc,omitempty" yaml:",omitempty"`
	When interface{} `json:"when"`
	Then interface{} `json:"then,omitempty" yaml:",omitempty"`

	pattern node
}

// Check pairs a pattern with a failure template.
//
// If Fail is nil, the failure is the Doc, or, if that's empty too, a
// generic message.
type Check struct {
	Doc  string      `json:"doc,omitempty" yaml:",omitempty"`
	When interface{} `json:"when"`
	Fail interface{} `json:"fail,omitempty" yaml:",omitempty"`

	pattern node
}

// Parse parses a RuleSet from JSON or YAML.
//
// Input that starts with '{' is parsed as JSON.
func Parse(src []byte) (*RuleSet, error) {
	var rs RuleSet
	if trimmed := bytes.TrimSpace(src); 0 < len(trimmed) && trimmed[0] == '{' {
		if err := json.Unmarshal(trimmed, &rs); err != nil {
			return nil, errors.Wrap(err, "parsing JSON rule set")
		}
		return &rs, nil
	}
	if err := yaml.Unmarshal(src, &rs); err != nil {
		return nil, errors.Wrap(err, "parsing YAML rule set")
	}
	return &rs, nil
}

// ParseFile reads and parses a RuleSet.
func ParseFile(filename string) (*RuleSet, error) {
	src, err := ioutil.ReadFile(filename)
	if err != nil {
		return nil, err
	}
	rs, err := Parse(src)
	if err != nil {
		return nil, errors.Wrap(err, filename)
	}
	return rs, nil
}

// Compile compiles the patterns of all clauses and checks.
//
// Scripts are compiled with the given interpreters, which defaults
// to DefaultInterpreters.
func (rs *RuleSet) Compile(ctx context.Context, interpreters map[string]Interpreter) error {
	c := newCompiler(ctx, interpreters)

	rs.timeout = 0
	if rs.Timeout != "" {
		d, err := time.ParseDuration(rs.Timeout)
		if err != nil {
			return errors.Wrapf(err, "rule set %q timeout", rs.Name)
		}
		rs.timeout = d
	}

	for i, cl := range rs.Clauses {
		if cl == nil {
			return errors.Errorf("rule set %q clause %d is empty", rs.Name, i)
		}
		n, err := c.compile(cl.When)
		if err != nil {
			return errors.Wrapf(err, "rule set %q clause %d", rs.Name, i)
		}
		cl.pattern = n
	}

	for i, ch := range rs.Checks {
		if ch == nil {
			return errors.Errorf("rule set %q check %d is empty", rs.Name, i)
		}
		n, err := c.compile(ch.When)
		if err != nil {
			return errors.Wrapf(err, "rule set %q check %d", rs.Name, i)
		}
		ch.pattern = n
	}

	rs.compiled = true

	return nil
}

// Result is the outcome of RuleSet.Match.
type Result struct {
	// Value is the bound template of the winning clause or the
	// bound default.
	Value interface{} `json:"value"`

	// Clause is the index of the winning clause or -1 for the
	// default.
	Clause int `json:"clause"`

	// Bindings are the bindings established by the winning
	// clause.
	Bindings match.Bindings `json:"bindings,omitempty"`

	Traces *match.Traces `json:"traces,omitempty"`
}

// Matched reports whether a clause (rather than the default) won.
func (r *Result) Matched() bool {
	return 0 <= r.Clause
}

// Match finds the first clause whose pattern matches x.
//
// Each clause is tested with a fresh copy of bs, which can be nil.
func (rs *RuleSet) Match(ctx context.Context, x interface{}, bs match.Bindings) (*Result, error) {
	if !rs.compiled {
		return nil, &NotCompiled{rs}
	}

	if bs == nil {
		bs = match.NewBindings()
	}

	var (
		ts  = match.NewTraces()
		won = bs
		m   = match.Subject[interface{}](x).WithTraces(ts)
	)

	for _, cl := range rs.Clauses {
		var (
			cl = cl
			e  = newEnv(ctx, bs, ts, rs.timeout)
		)
		p := func(x interface{}) bool {
			return cl.pattern(e)(x)
		}
		m.Case(p, func() interface{} {
			won = e.bs
			return e.bs.Bind(cl.Then)
		})
	}

	v := m.Otherwise(func() interface{} {
		return bs.Bind(rs.Default)
	})

	return &Result{
		Value:    v,
		Clause:   m.Winner(),
		Bindings: won,
		Traces:   ts,
	}, nil
}

// Validate considers every check and collects the bound failure
// templates of the checks whose patterns don't match x.
func (rs *RuleSet) Validate(ctx context.Context, x interface{}, bs match.Bindings) (match.ValidationResult[interface{}], error) {
	if !rs.compiled {
		return match.Valid[interface{}](), &NotCompiled{rs}
	}

	v := match.Validate[interface{}](x)
	for i, ch := range rs.Checks {
		var (
			i  = i
			ch = ch
			e  = newEnv(ctx, bs, nil, rs.timeout)
		)
		p := func(x interface{}) bool {
			return ch.pattern(e)(x)
		}
		v.Check(p, func() interface{} {
			switch {
			case ch.Fail != nil:
				return e.bs.Bind(ch.Fail)
			case ch.Doc != "":
				return ch.Doc
			default:
				return fmt.Sprintf("check %d failed", i)
			}
		})
	}

	return v.Result(), nil
}
