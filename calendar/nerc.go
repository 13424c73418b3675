// Copyright 2021-2022
// SPDX-License-Identifier: Apache-2.0
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package calendar

import (
	"sync"
	"time"
)

type nercYear struct {
	tz   string
	year int
}

var nercHolidayCache = struct {
	sync.Mutex
	years map[nercYear][]time.Time
}{years: make(map[nercYear][]time.Time)}

// observed shifts a Sunday holiday to the following Monday per the NERC
// off-peak calendar rules
func observed(t time.Time) time.Time {
	if t.Weekday() == time.Sunday {
		return t.AddDate(0, 0, 1)
	}
	return t
}

// nthWeekday returns the n-th occurrence of the given weekday in the month
func nthWeekday(year int, month time.Month, weekday time.Weekday, n int, tz *time.Location) time.Time {
	t := time.Date(year, month, 1, 0, 0, 0, 0, tz)
	offset := (int(weekday) - int(t.Weekday()) + 7) % 7
	return t.AddDate(0, 0, offset+7*(n-1))
}

// lastWeekday returns the final occurrence of the given weekday in the month
func lastWeekday(year int, month time.Month, weekday time.Weekday, tz *time.Location) time.Time {
	t := time.Date(year, month+1, 1, 0, 0, 0, 0, tz).AddDate(0, 0, -1)
	offset := (int(t.Weekday()) - int(weekday) + 7) % 7
	return t.AddDate(0, 0, -offset)
}

// NercHolidays returns the six NERC holidays observed during the given year
// in the given timezone: New Year's Day, Memorial Day, Independence Day,
// Labor Day, Thanksgiving and Christmas. Sunday holidays shift to Monday.
func NercHolidays(year int, tz *time.Location) []time.Time {
	return []time.Time{
		observed(time.Date(year, time.January, 1, 0, 0, 0, 0, tz)),
		lastWeekday(year, time.May, time.Monday, tz),
		observed(time.Date(year, time.July, 4, 0, 0, 0, 0, tz)),
		nthWeekday(year, time.September, time.Monday, 1, tz),
		nthWeekday(year, time.November, time.Thursday, 4, tz),
		observed(time.Date(year, time.December, 25, 0, 0, 0, 0, tz)),
	}
}

// IsNercHoliday returns true if the date portion of t falls on a NERC
// holiday in t's location
func IsNercHoliday(t time.Time) bool {
	tz := t.Location()
	key := nercYear{tz: tz.String(), year: t.Year()}

	nercHolidayCache.Lock()
	days, ok := nercHolidayCache.years[key]
	if !ok {
		days = NercHolidays(t.Year(), tz)
		nercHolidayCache.years[key] = days
	}
	nercHolidayCache.Unlock()

	d := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, tz)
	for _, h := range days {
		if d.Equal(h) {
			return true
		}
	}
	return false
}
