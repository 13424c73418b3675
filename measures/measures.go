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

// Package measures translates instruments plus tenor/reference parameters
// into market-data queries and reshapes the returned rows into labeled
// series: volatility skews, swap rates, fx forecasts, commodity bucketized
// prices and ESG scores.
package measures

import (
	"sort"
	"time"

	"github.com/openmeasure/mq-api/data"
	"github.com/openmeasure/mq-api/frame"
)

// Series is a date-indexed, single-column result frame
type Series = frame.Frame[time.Time]

// seriesFromRows projects one numeric field of the rows into a series;
// rows missing the field are skipped
func seriesFromRows(rows []*data.Row, field string) *Series {
	s := frame.New[time.Time](field)
	for _, row := range rows {
		if v, ok := row.Value(field); ok {
			s.InsertRow(row.Date, v)
		}
	}
	return s
}

// groupRowsByDate collects rows into per-date groups preserving date order
func groupRowsByDate(rows []*data.Row) ([]time.Time, map[time.Time][]*data.Row) {
	groups := make(map[time.Time][]*data.Row)
	dates := make([]time.Time, 0, len(rows))
	for _, row := range rows {
		if _, ok := groups[row.Date]; !ok {
			dates = append(dates, row.Date)
		}
		groups[row.Date] = append(groups[row.Date], row)
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })
	return dates, groups
}
