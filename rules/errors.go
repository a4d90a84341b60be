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

package rules

// These errors are user errors, not internal errors.

import (
	"fmt"

	"github.com/pkg/errors"
)

// InterpreterNotFound occurs when a "$script" names an interpreter
// that isn't in the given map of interpreters.
var InterpreterNotFound = errors.New("interpreter not found")

// NotCompiled occurs when a RuleSet is used before it has been
// Compile()ed.
type NotCompiled struct {
	RuleSet *RuleSet
}

func (e *NotCompiled) Error() string {
	return `rule set "` + e.RuleSet.Name + `" not compiled`
}

// UnknownOperator occurs when a pattern uses a "$" key that isn't an
// operator.
type UnknownOperator struct {
	Op string
}

func (e *UnknownOperator) Error() string {
	return `unknown operator "` + e.Op + `"`
}

// BadOperand occurs when an operator is given something it can't
// use.
type BadOperand struct {
	Op      string
	Operand interface{}

	// Err is the underlying problem, if any.
	Err error
}

func (e *BadOperand) Error() string {
	msg := fmt.Sprintf(`bad operand for "%s": %#v`, e.Op, e.Operand)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *BadOperand) Unwrap() error {
	return e.Err
}

// BadPattern occurs when a pattern has a structure that doesn't make
// sense, like a map with both operators and member names.
type BadPattern struct {
	Pattern interface{}
	Msg     string
}

func (e *BadPattern) Error() string {
	return "bad pattern: " + e.Msg
}
