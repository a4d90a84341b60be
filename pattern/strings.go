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

package pattern

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// EqualFold matches strings equal to s under Unicode case folding.
func EqualFold(s string) Pattern[string] {
	return func(x string) bool { return strings.EqualFold(x, s) }
}

// HasPrefix matches strings that start with prefix.
func HasPrefix(prefix string) Pattern[string] {
	return func(x string) bool { return strings.HasPrefix(x, prefix) }
}

// HasSuffix matches strings that end with suffix.
func HasSuffix(suffix string) Pattern[string] {
	return func(x string) bool { return strings.HasSuffix(x, suffix) }
}

// ContainsString matches strings that contain s.
func ContainsString(s string) Pattern[string] {
	return func(x string) bool { return strings.Contains(x, s) }
}

// HasLen matches strings whose length in runes matches p.
func HasLen(p Pattern[int]) Pattern[string] {
	return func(x string) bool { return p(utf8.RuneCountInString(x)) }
}

// MatchRegexp matches strings that re matches entirely.
func MatchRegexp(re *regexp.Regexp) Pattern[string] {
	anchored := regexp.MustCompile(`^(?:` + re.String() + `)$`)
	return func(x string) bool { return anchored.MatchString(x) }
}

// Regexp compiles expr and returns MatchRegexp for it.
func Regexp(expr string) (Pattern[string], error) {
	re, err := regexp.Compile(`^(?:` + expr + `)$`)
	if err != nil {
		return nil, err
	}
	return func(x string) bool { return re.MatchString(x) }, nil
}

// MustRegexp is Regexp that panics on a bad expression.
func MustRegexp(expr string) Pattern[string] {
	p, err := Regexp(expr)
	if err != nil {
		panic(err)
	}
	return p
}
