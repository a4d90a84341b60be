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

// Package cron provides time patterns driven by cron expressions.
//
// See https://github.com/gorhill/cronexpr for the syntax.
package cron

import (
	"time"

	"github.com/Comcast/patmatch/pattern"

	"github.com/gorhill/cronexpr"
	"github.com/pkg/errors"
)

// Schedule returns a pattern that matches times that fall on a minute
// scheduled by the cron expression.
//
// Matching has minute granularity: 09:00:42 falls on the 09:00 minute.
func Schedule(expr string) (pattern.Pattern[time.Time], error) {
	c, err := cronexpr.Parse(expr)
	if err != nil {
		return nil, errors.Wrapf(err, "bad cron expression %q", expr)
	}
	return func(t time.Time) bool {
		m := t.Truncate(time.Minute)
		return c.Next(m.Add(-time.Second)).Equal(m)
	}, nil
}

// MustSchedule is Schedule that panics on a bad expression.
func MustSchedule(expr string) pattern.Pattern[time.Time] {
	p, err := Schedule(expr)
	if err != nil {
		panic(err)
	}
	return p
}

// ParseTime accepts a time.Time or an RFC3339 string.
func ParseTime(x any) (time.Time, bool) {
	switch vv := x.(type) {
	case time.Time:
		return vv, true
	case *time.Time:
		if vv == nil {
			return time.Time{}, false
		}
		return *vv, true
	case string:
		t, err := time.Parse(time.RFC3339Nano, vv)
		if err != nil {
			return time.Time{}, false
		}
		return t, true
	}
	return time.Time{}, false
}

// Time lifts p to values that ParseTime accepts.  Anything else
// fails.
func Time(p pattern.Pattern[time.Time]) pattern.Pattern[any] {
	return func(x any) bool {
		t, ok := ParseTime(x)
		return ok && p(t)
	}
}

// Next returns the next time after t that the cron expression
// schedules.
func Next(expr string, t time.Time) (time.Time, error) {
	c, err := cronexpr.Parse(expr)
	if err != nil {
		return time.Time{}, errors.Wrapf(err, "bad cron expression %q", expr)
	}
	return c.Next(t), nil
}
