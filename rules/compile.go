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
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/Comcast/patmatch/match"
	"github.com/Comcast/patmatch/pattern"
	"github.com/Comcast/patmatch/pattern/cron"
	"github.com/Comcast/patmatch/util"

	"github.com/pkg/errors"
)

// env is the state of one evaluation.
type env struct {
	ctx     context.Context
	bs      match.Bindings
	traces  *match.Traces
	timeout time.Duration
}

func newEnv(ctx context.Context, bs match.Bindings, ts *match.Traces, timeout time.Duration) *env {
	if bs == nil {
		bs = match.NewBindings()
	} else {
		bs = bs.Copy()
	}
	if timeout <= 0 {
		timeout = DefaultScriptTimeout
	}
	return &env{
		ctx:     ctx,
		bs:      bs,
		traces:  ts,
		timeout: timeout,
	}
}

func (e *env) trace(x interface{}) {
	if e.traces != nil {
		e.traces.Add(x)
	}
}

// script runs a "$script" predicate.  Errors are failures.
func (e *env) script(interp Interpreter, src, compiled, x interface{}) bool {
	ctx, cancel := context.WithTimeout(e.ctx, e.timeout)
	defer cancel()

	v, err := interp.Exec(ctx, e.bs.Copy(), x, src, compiled)
	if err != nil {
		util.Logf("rules script error: %s", err)
		e.trace(map[string]interface{}{
			"script": err.Error(),
		})
		return false
	}

	switch vv := v.(type) {
	case bool:
		return vv
	case match.Bindings:
		for k, v := range vv {
			e.bs[k] = v
		}
		return true
	case map[string]interface{}:
		for k, v := range vv {
			e.bs[k] = v
		}
		return true
	case nil:
		return false
	default:
		util.Logf("rules script returned a %T", v)
		return false
	}
}

// node makes the pattern for one evaluation.
//
// Patterns that bind variables need the evaluation's Bindings, so a
// compiled pattern is a function that builds the pattern tree for a
// given env.
type node func(e *env) pattern.Pattern[any]

func constant(p pattern.Pattern[any]) node {
	return func(*env) pattern.Pattern[any] {
		return p
	}
}

func instantiate(e *env, ns []node) []pattern.Pattern[any] {
	acc := make([]pattern.Pattern[any], len(ns))
	for i, n := range ns {
		acc[i] = n(e)
	}
	return acc
}

func instantiateAny(e *env, ns []node) []any {
	acc := make([]any, len(ns))
	for i, n := range ns {
		acc[i] = n(e)
	}
	return acc
}

// Pattern is a compiled pattern in the rule language.
type Pattern struct {
	Source interface{}

	// Timeout bounds each script evaluation.  Zero means
	// DefaultScriptTimeout.
	Timeout time.Duration

	n node
}

// CompilePattern compiles a single pattern.
//
// If interpreters is nil, DefaultInterpreters is used.
func CompilePattern(ctx context.Context, src interface{}, interpreters map[string]Interpreter) (*Pattern, error) {
	n, err := newCompiler(ctx, interpreters).compile(src)
	if err != nil {
		return nil, err
	}
	return &Pattern{
		Source: src,
		n:      n,
	}, nil
}

// Match tests x against the pattern.
//
// The pattern's variables are bound in a copy of bs.  If x matches,
// that copy is returned.
func (p *Pattern) Match(ctx context.Context, x interface{}, bs match.Bindings) (match.Bindings, bool) {
	e := newEnv(ctx, bs, nil, p.Timeout)
	if !p.n(e)(x) {
		return nil, false
	}
	return e.bs, true
}

type compiler struct {
	ctx          context.Context
	interpreters map[string]Interpreter
}

func newCompiler(ctx context.Context, interpreters map[string]Interpreter) *compiler {
	if interpreters == nil {
		interpreters = DefaultInterpreters
	}
	return &compiler{
		ctx:          ctx,
		interpreters: interpreters,
	}
}

// IsOperator reports whether a map key is an operator (and not a
// member name).
//
// All operators start with a '$'.
func IsOperator(s string) bool {
	return strings.HasPrefix(s, "$")
}

func (c *compiler) compile(x interface{}) (node, error) {
	switch vv := x.(type) {
	case nil:
		return constant(pattern.IsNil[any]()), nil
	case string:
		if match.IsAnonymousVariable(vv) {
			return constant(pattern.Any[any]()), nil
		}
		if match.IsVariable(vv) {
			return func(e *env) pattern.Pattern[any] {
				return e.bs.Capture(vv)
			}, nil
		}
		return constant(pattern.Is(vv)), nil
	case []interface{}:
		ns, err := c.compileAll(vv)
		if err != nil {
			return nil, err
		}
		return func(e *env) pattern.Pattern[any] {
			return pattern.Split(instantiateAny(e, ns)...)
		}, nil
	case map[string]interface{}:
		return c.compileMap(vv)
	case map[interface{}]interface{}:
		m, err := stringKeys(vv)
		if err != nil {
			return nil, err
		}
		return c.compileMap(m)
	default:
		return constant(pattern.Is(vv)), nil
	}
}

func (c *compiler) compileAll(xs []interface{}) ([]node, error) {
	acc := make([]node, len(xs))
	for i, x := range xs {
		n, err := c.compile(x)
		if err != nil {
			return nil, errors.Wrapf(err, "element %d", i)
		}
		acc[i] = n
	}
	return acc, nil
}

// stringKeys supports YAML parsers that return
// map[interface{}]interface{}.
func stringKeys(m map[interface{}]interface{}) (map[string]interface{}, error) {
	acc := make(map[string]interface{}, len(m))
	for k, v := range m {
		s, is := k.(string)
		if !is {
			return nil, &BadPattern{
				Pattern: m,
				Msg:     fmt.Sprintf("key %#v (%T) isn't a string", k, k),
			}
		}
		acc[s] = v
	}
	return acc, nil
}

func (c *compiler) compileMap(m map[string]interface{}) (node, error) {
	if len(m) == 0 {
		return constant(pattern.NotNil[any]()), nil
	}

	var ops, members []string
	for k := range m {
		if IsOperator(k) {
			ops = append(ops, k)
		} else {
			members = append(members, k)
		}
	}
	sort.Strings(ops)
	sort.Strings(members)

	if 0 < len(ops) && 0 < len(members) {
		return nil, &BadPattern{
			Pattern: m,
			Msg:     `can't mix operators ("` + ops[0] + `") and members ("` + members[0] + `")`,
		}
	}

	if 0 < len(ops) {
		return c.compileOps(m)
	}

	type field struct {
		name string
		n    node
	}

	fs := make([]field, len(members))
	for i, k := range members {
		n, err := c.compile(m[k])
		if err != nil {
			return nil, errors.Wrapf(err, "member %q", k)
		}
		fs[i] = field{k, n}
	}

	return func(e *env) pattern.Pattern[any] {
		acc := make([]pattern.Field, len(fs))
		for i, f := range fs {
			acc[i] = pattern.Field{
				Name:    f.name,
				Pattern: f.n(e),
			}
		}
		return pattern.Fields(acc...)
	}, nil
}

// companions are operators that only make sense along with another
// operator.
var companions = map[string][]string{
	"$then":        {"$if"},
	"$else":        {"$if"},
	"$require":     {"$when"},
	"$match":       {"$path", "$index", "$key"},
	"$interpreter": {"$script"},
}

func (c *compiler) compileOps(m map[string]interface{}) (node, error) {
	rest := make(map[string]interface{}, len(m))
	for k, v := range m {
		rest[k] = v
	}

	take := func(op string) (interface{}, bool) {
		x, have := rest[op]
		delete(rest, op)
		return x, have
	}

	optional := func(op string) (node, error) {
		x, have := take(op)
		if !have {
			return constant(pattern.Any[any]()), nil
		}
		n, err := c.compile(x)
		if err != nil {
			return nil, errors.Wrap(err, op)
		}
		return n, nil
	}

	var parts []node

	if x, have := take("$if"); have {
		cond, err := c.compile(x)
		if err != nil {
			return nil, errors.Wrap(err, "$if")
		}
		then, err := optional("$then")
		if err != nil {
			return nil, err
		}
		els, err := optional("$else")
		if err != nil {
			return nil, err
		}
		parts = append(parts, func(e *env) pattern.Pattern[any] {
			return pattern.IfThenElse(cond(e), then(e), els(e))
		})
	}

	if x, have := take("$when"); have {
		if _, have := rest["$require"]; !have {
			return nil, &BadPattern{
				Pattern: m,
				Msg:     `"$when" requires "$require"`,
			}
		}
		pre, err := c.compile(x)
		if err != nil {
			return nil, errors.Wrap(err, "$when")
		}
		post, err := optional("$require")
		if err != nil {
			return nil, err
		}
		parts = append(parts, func(e *env) pattern.Pattern[any] {
			return pattern.ThenRequire(pre(e), post(e))
		})
	}

	var accessors []string
	for _, op := range companions["$match"] {
		if _, have := rest[op]; have {
			accessors = append(accessors, op)
		}
	}
	switch len(accessors) {
	case 0:
	case 1:
		op := accessors[0]
		x, _ := take(op)
		sub, err := optional("$match")
		if err != nil {
			return nil, err
		}
		n, err := c.accessor(op, x, sub)
		if err != nil {
			return nil, err
		}
		parts = append(parts, n)
	default:
		return nil, &BadPattern{
			Pattern: m,
			Msg:     "can't have more than one of " + strings.Join(accessors, ", "),
		}
	}

	if x, have := take("$type"); have {
		name, is := x.(string)
		if !is {
			return nil, &BadOperand{Op: "$type", Operand: x}
		}
		if y, have := take("$split"); have {
			ys, is := y.([]interface{})
			if !is {
				return nil, &BadOperand{Op: "$split", Operand: y}
			}
			ns, err := c.compileAll(ys)
			if err != nil {
				return nil, errors.Wrap(err, "$split")
			}
			parts = append(parts, func(e *env) pattern.Pattern[any] {
				return pattern.Destructure(name, instantiateAny(e, ns)...)
			})
		} else {
			parts = append(parts, constant(pattern.TypeIs(name)))
		}
	}

	if x, have := take("$script"); have {
		name := DefaultInterpreter
		if y, have := take("$interpreter"); have {
			s, is := y.(string)
			if !is {
				return nil, &BadOperand{Op: "$interpreter", Operand: y}
			}
			name = s
		}
		n, err := c.script(x, name)
		if err != nil {
			return nil, err
		}
		parts = append(parts, n)
	}

	ops := make([]string, 0, len(rest))
	for op := range rest {
		ops = append(ops, op)
	}
	sort.Strings(ops)

	for _, op := range ops {
		if needs, is := companions[op]; is {
			return nil, &BadPattern{
				Pattern: m,
				Msg:     `"` + op + `" requires ` + strings.Join(needs, " or "),
			}
		}
		n, err := c.compileOp(op, rest[op])
		if err != nil {
			return nil, err
		}
		parts = append(parts, n)
	}

	if len(parts) == 1 {
		return parts[0], nil
	}

	return func(e *env) pattern.Pattern[any] {
		return pattern.AllOf(instantiate(e, parts)...)
	}, nil
}

func (c *compiler) accessor(op string, x interface{}, sub node) (node, error) {
	switch op {
	case "$path":
		path, is := x.(string)
		if !is || path == "" {
			return nil, &BadOperand{Op: op, Operand: x}
		}
		return func(e *env) pattern.Pattern[any] {
			return pattern.Path(sub(e), path)
		}, nil
	case "$index":
		i, is := toInt(x)
		if !is {
			return nil, &BadOperand{Op: op, Operand: x}
		}
		return func(e *env) pattern.Pattern[any] {
			return pattern.Index(sub(e), i)
		}, nil
	case "$key":
		return func(e *env) pattern.Pattern[any] {
			return pattern.Lookup(sub(e), x)
		}, nil
	}
	return nil, &UnknownOperator{Op: op}
}

func orderable(x interface{}) bool {
	_, ok := pattern.Compare(x, x)
	return ok
}

func toInt(x interface{}) (int, bool) {
	switch vv := x.(type) {
	case int:
		return vv, true
	case int64:
		return int(vv), true
	case float64:
		if vv != math.Trunc(vv) {
			return 0, false
		}
		return int(vv), true
	}
	return 0, false
}

func (c *compiler) compileOp(op string, x interface{}) (node, error) {
	switch op {
	case "$eq":
		return constant(pattern.Is(x)), nil
	case "$ne":
		return constant(pattern.Not(pattern.Is(x))), nil
	case "$lt", "$le", "$gt", "$ge":
		if !orderable(x) {
			return nil, &BadOperand{Op: op, Operand: x}
		}
		var p pattern.Pattern[any]
		switch op {
		case "$lt":
			p = pattern.Below(x)
		case "$le":
			p = pattern.AtMost(x)
		case "$gt":
			p = pattern.Above(x)
		default:
			p = pattern.AtLeast(x)
		}
		return constant(p), nil
	case "$between":
		xs, is := x.([]interface{})
		if !is || len(xs) != 2 || !orderable(xs[0]) || !orderable(xs[1]) {
			return nil, &BadOperand{Op: op, Operand: x}
		}
		return constant(pattern.Within(xs[0], xs[1])), nil
	case "$oneOf":
		xs, is := x.([]interface{})
		if !is {
			return nil, &BadOperand{Op: op, Operand: x}
		}
		ps := make([]pattern.Pattern[any], len(xs))
		for i, y := range xs {
			ps[i] = pattern.Is(y)
		}
		return constant(pattern.AnyOf(ps...)), nil
	case "$null":
		b, is := x.(bool)
		if !is {
			return nil, &BadOperand{Op: op, Operand: x}
		}
		if b {
			return constant(pattern.IsNil[any]()), nil
		}
		return constant(pattern.NotNil[any]()), nil
	case "$not":
		n, err := c.compile(x)
		if err != nil {
			return nil, errors.Wrap(err, op)
		}
		return func(e *env) pattern.Pattern[any] {
			return pattern.Not(n(e))
		}, nil
	case "$all", "$any", "$none", "$xor":
		xs, is := x.([]interface{})
		if !is || (op == "$xor" && len(xs) != 2) {
			return nil, &BadOperand{Op: op, Operand: x}
		}
		ns, err := c.compileAll(xs)
		if err != nil {
			return nil, errors.Wrap(err, op)
		}
		switch op {
		case "$all":
			return func(e *env) pattern.Pattern[any] {
				return pattern.AllOf(instantiate(e, ns)...)
			}, nil
		case "$any":
			return func(e *env) pattern.Pattern[any] {
				return pattern.AnyOf(instantiate(e, ns)...)
			}, nil
		case "$none":
			return func(e *env) pattern.Pattern[any] {
				return pattern.NoneOf(instantiate(e, ns)...)
			}, nil
		default:
			return func(e *env) pattern.Pattern[any] {
				return pattern.Xor(ns[0](e), ns[1](e))
			}, nil
		}
	case "$split":
		if _, is := x.([]interface{}); !is {
			return nil, &BadOperand{Op: op, Operand: x}
		}
		return c.compile(x)
	case "$regex":
		s, is := x.(string)
		if !is {
			return nil, &BadOperand{Op: op, Operand: x}
		}
		p, err := pattern.Regexp(s)
		if err != nil {
			return nil, &BadOperand{Op: op, Operand: x, Err: err}
		}
		return constant(pattern.Lift(p)), nil
	case "$prefix", "$suffix":
		s, is := x.(string)
		if !is {
			return nil, &BadOperand{Op: op, Operand: x}
		}
		if op == "$prefix" {
			return constant(pattern.Lift(pattern.HasPrefix(s))), nil
		}
		return constant(pattern.Lift(pattern.HasSuffix(s))), nil
	case "$contains":
		if s, is := x.(string); is && !match.IsVariable(s) {
			return constant(pattern.Or(
				pattern.Lift(pattern.ContainsString(s)),
				pattern.SomeElement(pattern.Is(s)))), nil
		}
		n, err := c.compile(x)
		if err != nil {
			return nil, errors.Wrap(err, op)
		}
		return func(e *env) pattern.Pattern[any] {
			return pattern.SomeElement(n(e))
		}, nil
	case "$size":
		n, err := c.compile(x)
		if err != nil {
			return nil, errors.Wrap(err, op)
		}
		return func(e *env) pattern.Pattern[any] {
			return pattern.SizeIs(pattern.On(n(e), func(k int) any { return k }))
		}, nil
	case "$forAll", "$forAny", "$forNone":
		n, err := c.compile(x)
		if err != nil {
			return nil, errors.Wrap(err, op)
		}
		switch op {
		case "$forAll":
			return func(e *env) pattern.Pattern[any] {
				return pattern.EveryElement(n(e))
			}, nil
		case "$forAny":
			return func(e *env) pattern.Pattern[any] {
				return pattern.SomeElement(n(e))
			}, nil
		default:
			return func(e *env) pattern.Pattern[any] {
				return pattern.NoElement(n(e))
			}, nil
		}
	case "$cron":
		s, is := x.(string)
		if !is {
			return nil, &BadOperand{Op: op, Operand: x}
		}
		p, err := cron.Schedule(s)
		if err != nil {
			return nil, &BadOperand{Op: op, Operand: x, Err: err}
		}
		return constant(cron.Time(p)), nil
	}
	return nil, &UnknownOperator{Op: op}
}

func (c *compiler) script(src interface{}, name string) (node, error) {
	interp, have := c.interpreters[name]
	if !have {
		return nil, &BadOperand{Op: "$script", Operand: name, Err: InterpreterNotFound}
	}
	compiled, err := interp.Compile(c.ctx, src)
	if err != nil {
		return nil, &BadOperand{Op: "$script", Operand: src, Err: err}
	}
	return func(e *env) pattern.Pattern[any] {
		return func(x any) bool {
			return e.script(interp, src, compiled, x)
		}
	}, nil
}
