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

// Package goja is a rules.Interpreter for ECMAScript predicates.
//
// Importing this package registers the interpreter as "goja" in
// rules.DefaultInterpreters.
package goja

import (
	"context"
	"encoding/json"
	"fmt"
	"io/ioutil"
	"path/filepath"
	"strings"
	"time"

	"github.com/Comcast/patmatch/match"
	"github.com/Comcast/patmatch/pattern/cron"
	"github.com/Comcast/patmatch/rules"
	"github.com/Comcast/patmatch/util"

	"github.com/dop251/goja"
	"github.com/pkg/errors"
)

var (
	// InterruptedMessage is the string value of Interrupted.
	InterruptedMessage = "RuntimeError: timeout"

	// Interrupted is returned by Exec if the execution is
	// interrupted.
	Interrupted = errors.New(InterruptedMessage)
)

// init adds an Interpreter as one of the rules.DefaultInterpreters.
func init() {
	rules.DefaultInterpreters["goja"] = NewInterpreter()
}

// Interpreter implements rules.Interpreter using Goja, which is a Go
// implementation of ECMAScript 5.1+.
//
// See https://github.com/dop251/goja.
type Interpreter struct {

	// Testing is used to expose or hide some runtime
	// capabilities.
	Testing bool

	// LibraryProvider resolves the names of required libraries.
	// If nil, DefaultLibraryProvider is used.
	LibraryProvider func(ctx context.Context, i *Interpreter, libraryName string) (string, error)
}

// NewInterpreter makes a new Interpreter.
func NewInterpreter() *Interpreter {
	return &Interpreter{}
}

// ProvideLibrary resolves the library name into library source.
func (i *Interpreter) ProvideLibrary(ctx context.Context, name string) (string, error) {
	if i.LibraryProvider != nil {
		return i.LibraryProvider(ctx, i, name)
	}
	return DefaultLibraryProvider(ctx, i, name)
}

var DefaultLibraryProvider = MakeFileLibraryProvider(".")

// MakeFileLibraryProvider makes a provider for names like
// "file://libs/time.js", which are read relative to dir.
func MakeFileLibraryProvider(dir string) func(context.Context, *Interpreter, string) (string, error) {
	return func(ctx context.Context, i *Interpreter, name string) (string, error) {
		parts := strings.SplitN(name, "://", 2)
		if 2 != len(parts) {
			return "", fmt.Errorf("bad link '%s'", name)
		}
		if parts[0] != "file" {
			return "", fmt.Errorf("unknown protocol '%s'", parts[0])
		}
		bs, err := ioutil.ReadFile(filepath.Join(dir, parts[1]))
		if err != nil {
			return "", err
		}
		return string(bs), nil
	}
}

// MakeMapLibraryProvider makes a provider that looks up library
// sources by name.
func MakeMapLibraryProvider(srcs map[string]string) func(context.Context, *Interpreter, string) (string, error) {
	return func(ctx context.Context, i *Interpreter, name string) (string, error) {
		src, have := srcs[name]
		if !have {
			return "", fmt.Errorf("undefined library '%s'", name)
		}
		return src, nil
	}
}

func wrapSrc(src string) string {
	return fmt.Sprintf("(function() {\n%s\n}());\n", src)
}

// parseSource looks into the given map to try to find "requires" and
// "code" properties.
func parseSource(vv map[string]interface{}) (code string, libs []string, err error) {
	x := vv["code"]
	s, is := x.(string)
	if !is {
		err = fmt.Errorf("bad Goja code (%T)", x)
		return
	}
	code = s

	switch vv := vv["requires"].(type) {
	case nil:
	case string:
		libs = []string{vv}
	case []string:
		libs = vv
	case []interface{}:
		libs = make([]string, 0, len(vv))
		for _, x := range vv {
			s, is := x.(string)
			if !is {
				err = fmt.Errorf("bad library (%T)", x)
				return
			}
			libs = append(libs, s)
		}
	default:
		err = fmt.Errorf("bad requires (%T)", vv)
	}

	return
}

// AsSource accepts either a string of code or a map with "code" and
// optional "requires".
func AsSource(src interface{}) (code string, libs []string, err error) {
	switch vv := src.(type) {
	case string:
		code = vv
		return
	case map[interface{}]interface{}:
		m := make(map[string]interface{})
		for k, v := range vv {
			str, ok := k.(string)
			if !ok {
				err = fmt.Errorf("bad src key (%T)", k)
				return
			}
			m[str] = v
		}
		return parseSource(m)
	case map[string]interface{}:
		return parseSource(vv)
	default:
		err = fmt.Errorf("bad Goja source (%T)", src)
		return
	}
}

// Compile prepends any required libraries to the code and calls
// goja.Compile.
//
// The code is the body of a function, so it should "return" the
// outcome of the predicate.
//
// This method can block if the interpreter's library provider blocks
// in order to obtain external libraries.
func (i *Interpreter) Compile(ctx context.Context, src interface{}) (interface{}, error) {
	code, libs, err := AsSource(src)
	if err != nil {
		return nil, err
	}

	code = wrapSrc(code)

	var libsSrc string
	for _, lib := range libs {
		libSrc, err := i.ProvideLibrary(ctx, lib)
		if err != nil {
			return nil, errors.Wrapf(err, "library %s", lib)
		}
		libsSrc += libSrc + "\n"
	}

	code = libsSrc + code

	obj, err := goja.Compile("", code, true)
	if err != nil {
		return nil, errors.Wrap(err, code)
	}

	return obj, nil
}

func protest(o *goja.Runtime, x interface{}) {
	panic(o.ToValue(x))
}

// Exec implements the rules.Interpreter method of the same name.
//
// The subject is available as x and (a copy of) the current bindings
// as bs.  The following utilities are available at _:
//
//	cronNext(expr): the next time (RFC3339) scheduled by the expression.
//	log(x): log the given value (when util.Logging is on).
//	match(pat, obj): match obj against a pattern in the rule
//	  language; returns the bindings or null.
//
// For testing only:
//
//	sleep(ms): sleep for the given number of milliseconds.
//
// The Testing flag must be set to see sleep().
func (i *Interpreter) Exec(ctx context.Context, bs match.Bindings, x interface{}, src interface{}, compiled interface{}) (interface{}, error) {
	if compiled == nil {
		var err error
		if compiled, err = i.Compile(ctx, src); err != nil {
			return nil, err
		}
	}
	p, is := compiled.(*goja.Program)
	if !is {
		return nil, fmt.Errorf("Goja bad compilation: %T %#v", compiled, compiled)
	}

	o := goja.New()

	env := map[string]interface{}{}
	o.Set("_", env)

	if bs == nil {
		bs = match.NewBindings()
	}
	o.Set("bs", map[string]interface{}(bs.Copy()))

	if y, err := canonicalize(x); err == nil {
		x = y
	}
	o.Set("x", x)

	if i.Testing {
		o.Set("sleep", func(ms int) {
			time.Sleep(time.Duration(ms) * time.Millisecond)
		})
	}

	env["cronNext"] = func(x interface{}) interface{} {
		switch vv := x.(type) {
		case goja.Value:
			x = vv.Export()
		}
		cronExpr, is := x.(string)
		if !is {
			protest(o, "not a string")
		}
		next, err := cron.Next(cronExpr, time.Now())
		if err != nil {
			protest(o, err.Error())
		}
		return next.UTC().Format(time.RFC3339Nano)
	}

	env["log"] = func(x interface{}) interface{} {
		switch vv := x.(type) {
		case goja.Value:
			x = vv.Export()
		}
		js, err := json.Marshal(&x)
		if err != nil {
			util.Logf("goja.log (can't marshal: %s)", err)
		} else {
			util.Logf("goja.log %s", js)
		}
		return x
	}

	// match is a utility that invokes the pattern compiler and
	// matcher.
	env["match"] = func(pat, obj goja.Value) interface{} {
		pp, err := rules.CompilePattern(ctx, pat.Export(), nil)
		if err != nil {
			protest(o, err.Error())
		}
		bss, matched := pp.Match(ctx, obj.Export(), nil)
		if !matched {
			return nil
		}
		return map[string]interface{}(bss)
	}

	// We want to make sure that the following goroutine is
	// terminated as soon as possible.
	ictx, cancel := context.WithCancel(ctx)
	go func() {
		<-ictx.Done()
		// If this Exec method calls cancel() after RunProgram
		// returns, then we'll never see this
		// InterruptedMessage, which is actually the behavior
		// we want.  In this case, we weren't actually interrupted.
		o.Interrupt(InterruptedMessage)
	}()

	v, err := o.RunProgram(p)
	cancel()

	if err != nil {
		if _, is := err.(*goja.InterruptedError); is {
			return nil, Interrupted
		}
		return nil, err
	}

	return v.Export(), nil
}

// canonicalize is an abomination
func canonicalize(x interface{}) (interface{}, error) {
	js, err := json.Marshal(&x)
	if err != nil {
		return nil, err
	}
	var y interface{}
	if err = json.Unmarshal(js, &y); err != nil {
		return nil, err
	}
	return y, nil
}
