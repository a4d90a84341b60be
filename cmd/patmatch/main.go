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

// Package main is a command-line utility to invoke pattern matching
// and rule sets.
//
//	patmatch pattern -p '{"likes":"?liked"}' -m '{"likes":"tacos"}'
//	patmatch eval -r greeting.yaml -m '{"greeting":"hi"}'
//	patmatch validate -r db:applicants -m @applicant.json
//	patmatch rules put applicants applicants.yaml
//
// Values given with -m, -b, -p and -w are JSON or YAML.  A value
// that starts with '@' names a file to read.
package main

import (
	"os"

	_ "github.com/Comcast/patmatch/interpreters/goja"
	"github.com/Comcast/patmatch/util"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		util.GetLogger().Error().Err(err).Msg("patmatch")
		os.Exit(1)
	}
}
