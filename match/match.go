/* Copyright 2018-2019 Comcast Cable Communications Management, LLC
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

// Package match dispatches a subject over ordered clauses.
//
// A Matcher considers its clauses in order and produces the result
// of the first clause whose pattern matches.  A Validator considers
// every clause and collects a failure for each pattern that doesn't
// match.
//
// Result producers are functions so that they can read Captures that
// are only valid when their own clause has matched.  A producer is
// called at most once, and only for the winning clause.
package match

import (
	"github.com/Comcast/patmatch/pattern"
	"github.com/Comcast/patmatch/util"
)

// Clause pairs a pattern with the producer of a result.
type Clause[S, R any] struct {
	Pattern pattern.Pattern[S]
	Then    func() R
}

// When makes a Clause.
func When[S, R any](p pattern.Pattern[S], then func() R) Clause[S, R] {
	return Clause[S, R]{
		Pattern: p,
		Then:    then,
	}
}

// WhenEq makes a Clause that matches subjects equivalent to the
// literal v.
func WhenEq[S, R any](v S, then func() R) Clause[S, R] {
	return When(pattern.Equal(v), then)
}

// Const returns a producer that always returns r.
func Const[R any](r R) func() R {
	return func() R {
		return r
	}
}

// Match returns the result of the first clause that matches the
// subject s.  If no clause matches, the result of def is returned.
func Match[S, R any](s S, def func() R, clauses ...Clause[S, R]) R {
	m := Subject[R](s)
	for _, c := range clauses {
		m.Case(c.Pattern, c.Then)
	}
	return m.Otherwise(def)
}

// Matcher is the builder form of Match.
//
//	r := Subject[string](p).
//	        Case(isAdult, Const("adult")).
//	        Case(isChild, Const("child")).
//	        Otherwise(Const("unknown"))
//
// A Matcher is either searching (no clause has matched yet) or
// resolved.  Once resolved, subsequent clauses are ignored.
//
// A Matcher is meant for one subject and one evaluation.
type Matcher[S, R any] struct {
	subject  S
	resolved bool
	result   R

	// considered counts the clauses seen so far.
	considered int

	// winner is the index of the clause that matched or -1.
	winner int

	// Traces, if not nil, accumulates a Step for every clause
	// that was tested.
	Traces *Traces
}

// Subject starts a Matcher for the subject s.
//
// The result type comes first so that it can be given explicitly
// while the subject type is inferred.
func Subject[R, S any](s S) *Matcher[S, R] {
	return &Matcher[S, R]{
		subject: s,
		winner:  -1,
	}
}

// WithTraces turns on tracing.
func (m *Matcher[S, R]) WithTraces(ts *Traces) *Matcher[S, R] {
	m.Traces = ts
	return m
}

// Case adds a clause.
//
// If the Matcher is still searching and p matches the subject, then
// the Matcher resolves to the result of then.
func (m *Matcher[S, R]) Case(p pattern.Pattern[S], then func() R) *Matcher[S, R] {
	i := m.considered
	m.considered++
	if m.resolved {
		return m
	}
	matched := p == nil || p(m.subject)
	if m.Traces != nil {
		m.Traces.Add(Step{
			Clause:  i,
			Matched: matched,
		})
	}
	if !matched {
		return m
	}
	util.Logf("match clause %d", i)
	m.result = then()
	m.resolved = true
	m.winner = i
	return m
}

// CaseEq adds a clause that matches subjects equivalent to v.
func (m *Matcher[S, R]) CaseEq(v S, then func() R) *Matcher[S, R] {
	return m.Case(pattern.Equal(v), then)
}

// Resolved reports whether a clause has matched.
func (m *Matcher[S, R]) Resolved() bool {
	return m.resolved
}

// Winner returns the (zero-based) index of the clause that matched.
// If no clause has matched, Winner returns -1.
func (m *Matcher[S, R]) Winner() int {
	return m.winner
}

// Otherwise finishes the Matcher.
//
// If no clause matched, the result of def is returned.  Otherwise def
// isn't called.
func (m *Matcher[S, R]) Otherwise(def func() R) R {
	if !m.resolved {
		util.Logf("match default after %d clauses", m.considered)
		if m.Traces != nil {
			m.Traces.Add(Step{
				Clause:  -1,
				Matched: true,
			})
		}
		m.result = def()
		m.resolved = true
	}
	return m.result
}

// Result returns the result of the winning clause, if any.
func (m *Matcher[S, R]) Result() (R, bool) {
	return m.result, m.winner >= 0
}
