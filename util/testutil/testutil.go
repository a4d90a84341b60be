/* Copyright 2018 Comcast Cable Communications Management, LLC
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

// Package testutil has helpers for tests.
package testutil

import (
	"encoding/json"
	"fmt"

	"github.com/Comcast/patmatch/util"

	"github.com/jsccast/yaml"
)

// JS renders its argument as JSON or as a string indicating an error.
func JS(x interface{}) string {
	bs, err := json.Marshal(&x)
	if err != nil {
		util.Warnf("testutil.JS error %s for %#v", err, x)
		return fmt.Sprintf("%#v", x)
	}
	return string(bs)
}

// Dwimjs, when given a string or bytes, parses that data as JSON.
// When given anything else, just returns what's given.
//
// Panics if the data isn't JSON.
//
// See https://en.wikipedia.org/wiki/DWIM.
func Dwimjs(x interface{}) interface{} {
	switch vv := x.(type) {
	case []byte:
		return Dwimjs(string(vv))
	case string:
		var v interface{}
		if err := json.Unmarshal([]byte(vv), &v); err != nil {
			panic(err)
		}
		return v
	default:
		return x
	}
}

// Dwimyaml is Dwimjs for YAML.
//
// Maps come back as map[string]interface{}.
func Dwimyaml(x interface{}) interface{} {
	switch vv := x.(type) {
	case []byte:
		var v interface{}
		if err := yaml.Unmarshal(vv, &v); err != nil {
			panic(err)
		}
		return v
	case string:
		return Dwimyaml([]byte(vv))
	default:
		return x
	}
}
