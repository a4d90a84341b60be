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
	"errors"
	"testing"

	"github.com/Comcast/patmatch/match"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// funcs is an Interpreter whose code is the name of a Go function.
type funcs map[string]func(ctx context.Context, bs match.Bindings, x interface{}) (interface{}, error)

func (fs funcs) Compile(ctx context.Context, code interface{}) (interface{}, error) {
	name, is := code.(string)
	if !is {
		return nil, errors.New("code isn't a string")
	}
	f, have := fs[name]
	if !have {
		return nil, errors.New("no function " + name)
	}
	return f, nil
}

func (fs funcs) Exec(ctx context.Context, bs match.Bindings, x interface{}, code interface{}, compiled interface{}) (interface{}, error) {
	return compiled.(func(context.Context, match.Bindings, interface{}) (interface{}, error))(ctx, bs, x)
}

var testFuncs = funcs{
	"positive": func(ctx context.Context, bs match.Bindings, x interface{}) (interface{}, error) {
		n, is := x.(int)
		return is && 0 < n, nil
	},
	"double": func(ctx context.Context, bs match.Bindings, x interface{}) (interface{}, error) {
		n, is := x.(int)
		if !is {
			return nil, nil
		}
		return map[string]interface{}{"?doubled": 2 * n}, nil
	},
	"seen": func(ctx context.Context, bs match.Bindings, x interface{}) (interface{}, error) {
		_, have := bs["?n"]
		return have, nil
	},
	"oops": func(ctx context.Context, bs match.Bindings, x interface{}) (interface{}, error) {
		return nil, errors.New("oops")
	},
	"forever": func(ctx context.Context, bs match.Bindings, x interface{}) (interface{}, error) {
		<-ctx.Done()
		return nil, ctx.Err()
	},
	"number": func(ctx context.Context, bs match.Bindings, x interface{}) (interface{}, error) {
		return 42, nil
	},
}

func TestScripts(t *testing.T) {
	interpreters := map[string]Interpreter{
		"funcs": testFuncs,
	}
	rs, err := Parse([]byte(`
timeout: 20ms
clauses:
  - when: {$script: oops, $interpreter: funcs}
    then: oops
  - when: {$script: forever, $interpreter: funcs}
    then: forever
  - when: {$script: number, $interpreter: funcs}
    then: number
  - when: {$all: ["?n", {$script: seen, $interpreter: funcs}, {$script: positive, $interpreter: funcs}]}
    then: positive
  - when: {$script: double, $interpreter: funcs}
    then: "?doubled"
`))
	require.NoError(t, err)
	require.NoError(t, rs.Compile(context.Background(), interpreters))

	ctx := context.Background()

	r, err := rs.Match(ctx, 3, nil)
	require.NoError(t, err)
	assert.Equal(t, "positive", r.Value)

	r, err = rs.Match(ctx, -3, nil)
	require.NoError(t, err)
	assert.Equal(t, -6, r.Value)
	assert.Equal(t, 4, r.Clause)

	// The failed scripts left traces.
	var msgs []interface{}
	for _, x := range r.Traces.Messages {
		if m, is := x.(map[string]interface{}); is {
			msgs = append(msgs, m["script"])
		}
	}
	require.Len(t, msgs, 2)
	assert.Equal(t, "oops", msgs[0])
	assert.Equal(t, context.DeadlineExceeded.Error(), msgs[1])

	r, err = rs.Match(ctx, "x", nil)
	require.NoError(t, err)
	assert.Equal(t, -1, r.Clause)
}

func TestScriptCompileErrors(t *testing.T) {
	interpreters := map[string]Interpreter{
		"funcs": testFuncs,
	}
	_, err := CompilePattern(context.Background(), map[string]interface{}{
		"$script":      "missing",
		"$interpreter": "funcs",
	}, interpreters)
	var bo *BadOperand
	require.ErrorAs(t, err, &bo)
	assert.Contains(t, err.Error(), "no function missing")

	_, err = CompilePattern(context.Background(), map[string]interface{}{
		"$script":      "positive",
		"$interpreter": 7,
	}, interpreters)
	require.ErrorAs(t, err, &bo)
	assert.Equal(t, "$interpreter", bo.Op)
}
