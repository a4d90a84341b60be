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

// Package tools has utilities for looking at rule sets.
package tools

import (
	"fmt"
	"sort"
	"time"

	"github.com/Comcast/patmatch/match"
	"github.com/Comcast/patmatch/rules"
)

// RuleSetAnalysis summarizes a rule set without compiling it.
type RuleSetAnalysis struct {
	Clauses int
	Checks  int

	// HasDefault is true when the rule set gives a default value.
	HasDefault bool

	// Operators are the operators used in any pattern.
	Operators []string

	// Variables are the variables captured in any pattern.
	Variables []string

	// Interpreters used by "$script" patterns.
	Interpreters []string

	// Unbound lists template variables that no pattern in the
	// same clause or check captures.  A script could still bind
	// them.
	Unbound []string

	// Errors are problems found without compiling.
	Errors []string
}

// Analyze walks the patterns and templates of a rule set.
func Analyze(rs *rules.RuleSet) *RuleSetAnalysis {
	a := &RuleSetAnalysis{
		Clauses:    len(rs.Clauses),
		Checks:     len(rs.Checks),
		HasDefault: rs.Default != nil,
		Errors:     make([]string, 0, 4),
	}

	ops, vars, interpreters, unbound := make(map[string]bool), make(map[string]bool), make(map[string]bool), make(map[string]bool)

	consider := func(when, then interface{}) {
		captured := make(map[string]bool)
		walkPattern(when, ops, captured, interpreters)
		for v := range captured {
			vars[v] = true
		}
		for _, v := range templateVariables(then, nil) {
			if !captured[v] {
				unbound[v] = true
			}
		}
	}

	for _, cl := range rs.Clauses {
		consider(cl.When, cl.Then)
	}
	for _, ch := range rs.Checks {
		consider(ch.When, ch.Fail)
	}
	if rs.Timeout != "" {
		if _, err := time.ParseDuration(rs.Timeout); err != nil {
			a.Errors = append(a.Errors, fmt.Sprintf("bad timeout: %s", err))
		}
	}

	a.Operators = keysToStringSlice(ops)
	a.Variables = keysToStringSlice(vars)
	a.Interpreters = keysToStringSlice(interpreters)
	a.Unbound = keysToStringSlice(unbound)

	return a
}

func walkPattern(p interface{}, ops, vars, interpreters map[string]bool) {
	switch vv := p.(type) {
	case string:
		if match.IsVariable(vv) && !match.IsAnonymousVariable(vv) {
			vars[vv] = true
		}
	case []interface{}:
		for _, x := range vv {
			walkPattern(x, ops, vars, interpreters)
		}
	case map[string]interface{}:
		if _, has := vv["$script"]; has {
			name := rules.DefaultInterpreter
			if s, is := vv["$interpreter"].(string); is {
				name = s
			}
			interpreters[name] = true
		}
		for k, x := range vv {
			if rules.IsOperator(k) {
				ops[k] = true
				if k == "$script" || k == "$interpreter" {
					continue
				}
			}
			walkPattern(x, ops, vars, interpreters)
		}
	}
}

func templateVariables(x interface{}, acc []string) []string {
	switch vv := x.(type) {
	case string:
		if match.IsVariable(vv) && !match.IsAnonymousVariable(vv) {
			acc = append(acc, vv)
		}
	case []interface{}:
		for _, y := range vv {
			acc = templateVariables(y, acc)
		}
	case map[string]interface{}:
		for _, y := range vv {
			acc = templateVariables(y, acc)
		}
	}
	return acc
}

// keysToStringSlice returns the map's keys in order.
func keysToStringSlice(m map[string]bool) []string {
	list := make([]string, 0, len(m))
	for key := range m {
		list = append(list, key)
	}
	sort.Strings(list)
	return list
}
