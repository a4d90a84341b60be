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

import (
	"context"
	"time"

	"github.com/Comcast/patmatch/match"
)

var (
	// DefaultInterpreters will be used by RuleSet.Compile if
	// given nil interpreters.
	//
	// Interpreter packages add themselves here in their init
	// functions.
	DefaultInterpreters = make(map[string]Interpreter)

	// DefaultInterpreter is the interpreter for a "$script" that
	// doesn't give an "$interpreter".
	DefaultInterpreter = "goja"

	// DefaultScriptTimeout bounds each script evaluation when the
	// RuleSet doesn't specify a Timeout.
	DefaultScriptTimeout = time.Second
)

// Interpreter can compile and execute the code for "$script"
// predicates.
type Interpreter interface {
	// Compile can make something that helps when Exec()ing the
	// code later.
	Compile(ctx context.Context, code interface{}) (interface{}, error)

	// Exec executes the code with the subject x and the current
	// bindings.  The result of previous Compile() might be
	// provided.
	//
	// A boolean result is the outcome of the predicate.  A map
	// result means success, and the map's properties are added
	// to the bindings.  Anything else (including nil) is a
	// failure.
	Exec(ctx context.Context, bs match.Bindings, x interface{}, code interface{}, compiled interface{}) (interface{}, error)
}
