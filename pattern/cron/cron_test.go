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

package cron

import (
	"testing"
	"time"
)

func TestSchedule(t *testing.T) {
	weekdayMornings := MustSchedule("0 9 * * 1-5")

	// 2021-03-01 is a Monday.
	tests := []struct {
		at   string
		want bool
	}{
		{"2021-03-01T09:00:00Z", true},
		{"2021-03-01T09:00:42Z", true},
		{"2021-03-01T09:01:00Z", false},
		{"2021-03-01T08:59:59Z", false},
		{"2021-03-06T09:00:00Z", false},
	}
	for _, tt := range tests {
		at, err := time.Parse(time.RFC3339, tt.at)
		if err != nil {
			t.Fatal(err)
		}
		if got := weekdayMornings(at); got != tt.want {
			t.Errorf("%s: got %v", tt.at, got)
		}
	}
}

func TestScheduleBadExpr(t *testing.T) {
	if _, err := Schedule("not cron"); err == nil {
		t.Fatal("expected an error")
	}
}

func TestTime(t *testing.T) {
	p := Time(MustSchedule("*/15 * * * *"))
	at := time.Date(2021, 3, 1, 10, 30, 5, 0, time.UTC)
	tests := []struct {
		x    any
		want bool
	}{
		{at, true},
		{&at, true},
		{"2021-03-01T10:30:05Z", true},
		{"2021-03-01T10:31:00Z", false},
		{"yesterday", false},
		{42, false},
		{nil, false},
	}
	for i, tt := range tests {
		if got := p(tt.x); got != tt.want {
			t.Errorf("%d: %v got %v", i, tt.x, got)
		}
	}
}

func TestNext(t *testing.T) {
	at := time.Date(2021, 3, 1, 10, 31, 0, 0, time.UTC)
	next, err := Next("*/15 * * * *", at)
	if err != nil {
		t.Fatal(err)
	}
	if want := time.Date(2021, 3, 1, 10, 45, 0, 0, time.UTC); !next.Equal(want) {
		t.Fatal(next)
	}
}
