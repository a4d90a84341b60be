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

var (
	// TracesInitialCap is the initial capacity for Traces buffers.
	TracesInitialCap = 16
)

// Traces holds trace messages.
type Traces struct {
	Messages []interface{} `json:"messages,omitempty" yaml:",omitempty"`
}

// NewTraces creates an initialized Traces.
//
// The Messages array has TracesInitialCap initial capacity.
func NewTraces() *Traces {
	return &Traces{
		Messages: make([]interface{}, 0, TracesInitialCap),
	}
}

func (ts *Traces) Add(xs ...interface{}) {
	ts.Messages = append(ts.Messages, xs...)
}

// Steps returns the Steps in the Traces in order.
func (ts *Traces) Steps() []Step {
	var acc []Step
	for _, x := range ts.Messages {
		if s, is := x.(Step); is {
			acc = append(acc, s)
		}
	}
	return acc
}

// Step records the test of one clause.
//
// The default of a Matcher is reported with Clause -1.
type Step struct {
	Clause  int  `json:"clause"`
	Matched bool `json:"matched"`
}
