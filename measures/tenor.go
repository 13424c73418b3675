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

package measures

import (
	"fmt"
	"regexp"
	"strconv"
	"time"

	"github.com/openmeasure/mq-api/data"
)

// TenorUnit is the granularity of a tenor offset
type TenorUnit byte

const (
	TenorDays         TenorUnit = 'd'
	TenorWeeks        TenorUnit = 'w'
	TenorMonths       TenorUnit = 'm'
	TenorYears        TenorUnit = 'y'
	TenorBusinessDays TenorUnit = 'b'
)

// Tenor is a parsed relative date offset, e.g. 3m or 10y
type Tenor struct {
	Count int
	Unit  TenorUnit
}

var (
	tenorRegex        = regexp.MustCompile(`^(\d+)([dwmyb])$`)
	forwardTenorRegex = regexp.MustCompile(`^(\d+)([ymb])$|^imm([1-4])$|^frb([1-9]\d*)$`)
)

// ParseTenor interprets a tenor string of the form <count><unit> where unit
// is one of d, w, m, y or b (business days)
func ParseTenor(code string) (*Tenor, error) {
	m := tenorRegex.FindStringSubmatch(code)
	if m == nil {
		return nil, ErrUnsupportedTenor
	}
	count, err := strconv.Atoi(m[1])
	if err != nil {
		return nil, ErrUnsupportedTenor
	}
	return &Tenor{
		Count: count,
		Unit:  TenorUnit(m[2][0]),
	}, nil
}

// String returns the canonical form of the tenor
func (tenor *Tenor) String() string {
	return fmt.Sprintf("%d%c", tenor.Count, tenor.Unit)
}

// Months converts the tenor to whole months; only month and year tenors
// convert
func (tenor *Tenor) Months() (int, error) {
	switch tenor.Unit {
	case TenorMonths:
		return tenor.Count, nil
	case TenorYears:
		return tenor.Count * 12, nil
	default:
		return 0, ErrUnsupportedTenor
	}
}

// TenorToMonths parses a tenor and converts it to whole months
func TenorToMonths(code string) (int, error) {
	tenor, err := ParseTenor(code)
	if err != nil {
		return 0, err
	}
	return tenor.Months()
}

// MonthsToTenor renders a whole month count as the shortest tenor string:
// multiples of 12 use years
func MonthsToTenor(months int) (string, error) {
	if months <= 0 {
		return "", ErrUnsupportedTenor
	}
	if months%12 == 0 {
		return fmt.Sprintf("%dy", months/12), nil
	}
	return fmt.Sprintf("%dm", months), nil
}

// CheckForwardTenor validates a forward starting tenor: Ny, Nm, Nb, immN
// (N in 1-4) or frbN (N >= 1)
func CheckForwardTenor(code string) error {
	if code == "" {
		return nil
	}
	if forwardTenorRegex.MatchString(code) {
		return nil
	}
	return ErrUnsupportedTenor
}

// Offset shifts t backward by the tenor. Business-day tenors walk the
// trading calendar.
func (tenor *Tenor) Offset(manager *data.Manager, t time.Time) (time.Time, error) {
	switch tenor.Unit {
	case TenorDays:
		return t.AddDate(0, 0, -tenor.Count), nil
	case TenorWeeks:
		return t.AddDate(0, 0, -7*tenor.Count), nil
	case TenorMonths:
		return t.AddDate(0, -tenor.Count, 0), nil
	case TenorYears:
		return t.AddDate(-tenor.Count, 0, 0), nil
	case TenorBusinessDays:
		curr := t
		for ii := 0; ii < tenor.Count; ii++ {
			prev, err := manager.LastTradingDay(curr.AddDate(0, 0, -1))
			if err != nil {
				return time.Time{}, err
			}
			curr = prev
		}
		return curr, nil
	default:
		return time.Time{}, ErrUnsupportedTenor
	}
}

// RangeFromPricingDate resolves a pricing date tenor (e.g. 1b, 3d) relative
// to asOf into an inclusive begin/end query range
func RangeFromPricingDate(manager *data.Manager, asOf time.Time, pricingDate string) (time.Time, time.Time, error) {
	if pricingDate == "" {
		return asOf, asOf, nil
	}

	tenor, err := ParseTenor(pricingDate)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}

	d, err := tenor.Offset(manager, asOf)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	return d, d, nil
}
