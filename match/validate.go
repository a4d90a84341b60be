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

package match

import (
	"fmt"
	"strings"

	"github.com/Comcast/patmatch/pattern"
	"github.com/Comcast/patmatch/util"

	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
)

// ValidationResult is an ordered list of failures.
//
// The empty list means "valid".  Results combine by concatenation,
// and Valid is the identity for Combine.
//
// A ValidationResult is immutable: operations that add failures
// return new results.
type ValidationResult[F any] struct {
	failures []F
}

// Valid returns the result with no failures.
func Valid[F any]() ValidationResult[F] {
	return ValidationResult[F]{}
}

// Invalid returns a result with the given failures.
func Invalid[F any](fs ...F) ValidationResult[F] {
	return ValidationResult[F]{}.Plus(fs...)
}

// Plus returns a new result with the given failures appended.
func (r ValidationResult[F]) Plus(fs ...F) ValidationResult[F] {
	if len(fs) == 0 {
		return r
	}
	acc := make([]F, 0, len(r.failures)+len(fs))
	acc = append(acc, r.failures...)
	acc = append(acc, fs...)
	return ValidationResult[F]{
		failures: acc,
	}
}

// Combine returns a new result with the failures of r followed by the
// failures of o.
func (r ValidationResult[F]) Combine(o ValidationResult[F]) ValidationResult[F] {
	return r.Plus(o.failures...)
}

// Combine concatenates results in order.
func Combine[F any](rs ...ValidationResult[F]) ValidationResult[F] {
	acc := Valid[F]()
	for _, r := range rs {
		acc = acc.Combine(r)
	}
	return acc
}

// IsValid reports whether the result has no failures.
func (r ValidationResult[F]) IsValid() bool {
	return len(r.failures) == 0
}

// Failures returns a copy of the failures.
func (r ValidationResult[F]) Failures() []F {
	acc := make([]F, len(r.failures))
	copy(acc, r.failures)
	return acc
}

// OnFailure calls f with the failures if there are any.
func (r ValidationResult[F]) OnFailure(f func(failures []F)) ValidationResult[F] {
	if !r.IsValid() {
		f(r.Failures())
	}
	return r
}

// String renders "Valid()" or "Invalid(f1, f2, ...)".
func (r ValidationResult[F]) String() string {
	if r.IsValid() {
		return "Valid()"
	}
	ss := make([]string, len(r.failures))
	for i, f := range r.failures {
		ss[i] = fmt.Sprint(f)
	}
	return "Invalid(" + strings.Join(ss, ", ") + ")"
}

// Err returns nil if the result is valid.  Otherwise Err returns a
// *multierror.Error with one error per failure.  Failures that are
// already errors are used as is.
func (r ValidationResult[F]) Err() error {
	var err *multierror.Error
	for _, f := range r.failures {
		e, is := any(f).(error)
		if !is {
			e = errors.New(fmt.Sprint(f))
		}
		err = multierror.Append(err, e)
	}
	return err.ErrorOrNil()
}

// Check pairs a pattern with the producer of a failure.
type Check[S, F any] struct {
	Pattern pattern.Pattern[S]
	OnFail  func() F
}

// Require makes a Check.
func Require[S, F any](p pattern.Pattern[S], onFail func() F) Check[S, F] {
	return Check[S, F]{
		Pattern: p,
		OnFail:  onFail,
	}
}

// ValidateAll runs every check against the subject and collects the
// failures in order.
func ValidateAll[S, F any](s S, checks ...Check[S, F]) ValidationResult[F] {
	v := Validate[F](s)
	for _, c := range checks {
		v.Check(c.Pattern, c.OnFail)
	}
	return v.Result()
}

// Validator is the builder form of ValidateAll.
//
// Every check is tested.  There is no short-circuiting.
type Validator[F, S any] struct {
	subject  S
	failures []F
	n        int

	// Traces, if not nil, accumulates a Step for every check.
	Traces *Traces
}

// Validate starts a Validator for the subject s.
func Validate[F, S any](s S) *Validator[F, S] {
	return &Validator[F, S]{
		subject: s,
	}
}

// WithTraces turns on tracing.
func (v *Validator[F, S]) WithTraces(ts *Traces) *Validator[F, S] {
	v.Traces = ts
	return v
}

// Check tests p against the subject.  If p doesn't match, the result
// of onFail is recorded.
func (v *Validator[F, S]) Check(p pattern.Pattern[S], onFail func() F) *Validator[F, S] {
	i := v.n
	v.n++
	matched := p == nil || p(v.subject)
	if v.Traces != nil {
		v.Traces.Add(Step{
			Clause:  i,
			Matched: matched,
		})
	}
	if !matched {
		util.Logf("validate check %d failed", i)
		v.failures = append(v.failures, onFail())
	}
	return v
}

// Result returns the failures collected so far.
func (v *Validator[F, S]) Result() ValidationResult[F] {
	return Invalid(v.failures...)
}
