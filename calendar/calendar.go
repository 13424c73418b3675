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
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/openmeasure/mq-api/common"
)

// monthCodes maps the single-letter futures delivery month convention to a
// calendar month
var monthCodes = map[string]time.Month{
	"F": time.January,
	"G": time.February,
	"H": time.March,
	"J": time.April,
	"K": time.May,
	"M": time.June,
	"N": time.July,
	"Q": time.August,
	"U": time.September,
	"V": time.October,
	"X": time.November,
	"Z": time.December,
}

// codeForMonth is the inverse of monthCodes
var codeForMonth = map[time.Month]string{
	time.January:   "F",
	time.February:  "G",
	time.March:     "H",
	time.April:     "J",
	time.May:       "K",
	time.June:      "M",
	time.July:      "N",
	time.August:    "Q",
	time.September: "U",
	time.October:   "V",
	time.November:  "X",
	time.December:  "Z",
}

// monthNames lists recognized month names longest first so that prefix
// matching always consumes the most specific name (March before Mar)
var monthNames = []struct {
	Name  string
	Month time.Month
}{
	{"September", time.September},
	{"February", time.February},
	{"November", time.November},
	{"December", time.December},
	{"January", time.January},
	{"October", time.October},
	{"August", time.August},
	{"March", time.March},
	{"April", time.April},
	{"June", time.June},
	{"July", time.July},
	{"May", time.May},
	{"Jan", time.January},
	{"Feb", time.February},
	{"Mar", time.March},
	{"Apr", time.April},
	{"Jun", time.June},
	{"Jul", time.July},
	{"Aug", time.August},
	{"Sep", time.September},
	{"Oct", time.October},
	{"Nov", time.November},
	{"Dec", time.December},
}

var (
	monthCodeRegex  = regexp.MustCompile(`^([A-Za-z])(\d{2})$`)
	bareYearRegex   = regexp.MustCompile(`^\d{4}$`)
	quarterRegex    = regexp.MustCompile(`^(\d)[Qq](\d{2})$`)
	halfYearRegex   = regexp.MustCompile(`^(.)[Hh](\d{2}|\d{4})$`)
	monthShapeRegex = regexp.MustCompile(`^[A-Za-z].*\d$`)
	cleanSplitRegex = regexp.MustCompile(`^[A-Za-z]+(\d{2}|\d{4})$`)
)

// expandYear converts a 2- or 4-digit year string to a full year. 2-digit
// years of 50 and above resolve to the 1900s; below 50 to the 2000s.
func expandYear(digits string) (int, error) {
	yy, err := strconv.Atoi(digits)
	if err != nil {
		return 0, ErrInvalidYear
	}
	if len(digits) == 4 {
		return yy, nil
	}
	if yy >= 50 {
		return 1900 + yy, nil
	}
	return 2000 + yy, nil
}

// MonthInterval returns the inclusive first-to-last day interval for the
// given month and year
func MonthInterval(year int, month time.Month) *Interval {
	tz := common.GetTimezone()
	begin := time.Date(year, month, 1, 0, 0, 0, 0, tz)
	return &Interval{
		Begin: begin,
		End:   begin.AddDate(0, 1, -1),
	}
}

// YearInterval returns the Jan 1 to Dec 31 interval for the given year
func YearInterval(year int) *Interval {
	tz := common.GetTimezone()
	return &Interval{
		Begin: time.Date(year, time.January, 1, 0, 0, 0, 0, tz),
		End:   time.Date(year, time.December, 31, 0, 0, 0, 0, tz),
	}
}

// Parse interprets a short calendar code and returns the inclusive date
// interval it names. Recognized forms, tried in order:
//
//	K20       futures month code + 2-digit year
//	Cal22     calendar year shorthand (2- or 4-digit year)
//	2010      bare 4-digit year
//	3Q20      quarter + 2-digit year
//	2H2021    half-year + 2- or 4-digit year
//	Mar2021   month name (full or 3-letter) + 2- or 4-digit year
//
// Malformed input is classified and returned as one of the package error
// values; Parse never panics on bad input.
func Parse(code string) (*Interval, error) {
	// futures month code, e.g. K20
	if m := monthCodeRegex.FindStringSubmatch(code); m != nil {
		month, ok := monthCodes[strings.ToUpper(m[1])]
		if !ok {
			return nil, ErrInvalidMonth
		}
		year, err := expandYear(m[2])
		if err != nil {
			return nil, err
		}
		return MonthInterval(year, month), nil
	}

	// calendar year shorthand, e.g. Cal22 or Cal2012
	if len(code) >= 3 && strings.EqualFold(code[:3], "Cal") {
		rest := code[3:]
		if len(rest) != 2 && len(rest) != 4 {
			return nil, ErrInvalidYear
		}
		year, err := expandYear(rest)
		if err != nil {
			return nil, err
		}
		return YearInterval(year), nil
	}

	// bare 4-digit year, e.g. 2010
	if bareYearRegex.MatchString(code) {
		year, err := expandYear(code)
		if err != nil {
			return nil, err
		}
		return YearInterval(year), nil
	}

	// quarter, e.g. 3Q20
	if m := quarterRegex.FindStringSubmatch(code); m != nil {
		quarter, err := strconv.Atoi(m[1])
		if err != nil || quarter < 1 || quarter > 4 {
			return nil, ErrInvalidQuarter
		}
		year, err := expandYear(m[2])
		if err != nil {
			return nil, err
		}
		tz := common.GetTimezone()
		begin := time.Date(year, time.Month(3*quarter-2), 1, 0, 0, 0, 0, tz)
		return &Interval{
			Begin: begin,
			End:   begin.AddDate(0, 3, -1),
		}, nil
	}

	// half-year, e.g. 2H2021
	if m := halfYearRegex.FindStringSubmatch(code); m != nil {
		half, err := strconv.Atoi(m[1])
		if err != nil {
			return nil, ErrInvalidYear
		}
		if half != 1 && half != 2 {
			return nil, ErrInvalidHalfYear
		}
		year, err := expandYear(m[2])
		if err != nil {
			return nil, err
		}
		tz := common.GetTimezone()
		begin := time.Date(year, time.Month(6*half-5), 1, 0, 0, 0, 0, tz)
		return &Interval{
			Begin: begin,
			End:   begin.AddDate(0, 6, -1),
		}, nil
	}

	// month name + year, e.g. Mar2021 or March2021
	if monthShapeRegex.MatchString(code) {
		for _, candidate := range monthNames {
			if len(code) <= len(candidate.Name) || !strings.EqualFold(code[:len(candidate.Name)], candidate.Name) {
				continue
			}
			rest := code[len(candidate.Name):]
			if len(rest) != 2 && len(rest) != 4 {
				return nil, ErrInvalidDateCode
			}
			year, err := expandYear(rest)
			if err != nil {
				return nil, ErrInvalidDateCode
			}
			return MonthInterval(year, candidate.Month), nil
		}
		// letters + year but the letters aren't a recognized month name
		if cleanSplitRegex.MatchString(code) {
			return nil, ErrInvalidMonth
		}
		return nil, ErrInvalidDateCode
	}

	return nil, ErrUnknownDateCode
}

// ParseStrip interprets a contract strip like J20-K20 or 2Q20 and returns
// one interval per contract month covered by the strip, inclusive.
func ParseStrip(code string) ([]*Interval, error) {
	parts := strings.Split(code, "-")
	switch len(parts) {
	case 1:
		interval, err := Parse(code)
		if err != nil {
			return nil, err
		}
		return monthsCovered(interval.Begin, interval.End), nil
	case 2:
		begin, err := Parse(parts[0])
		if err != nil {
			return nil, err
		}
		end, err := Parse(parts[1])
		if err != nil {
			return nil, err
		}
		if begin.Begin.After(end.Begin) {
			return nil, ErrBeginAfterEnd
		}
		return monthsCovered(begin.Begin, end.Begin), nil
	default:
		return nil, ErrInvalidDateCode
	}
}

func monthsCovered(begin, end time.Time) []*Interval {
	intervals := make([]*Interval, 0, 12)
	for curr := begin; !curr.After(end); curr = curr.AddDate(0, 1, 0) {
		intervals = append(intervals, MonthInterval(curr.Year(), curr.Month()))
	}
	return intervals
}

// ContractCode returns the futures month code naming the month that contains
// the given date, e.g. May 2020 -> K20
func ContractCode(t time.Time) string {
	return fmt.Sprintf("%s%02d", codeForMonth[t.Month()], t.Year()%100)
}
