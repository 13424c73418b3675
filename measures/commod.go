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
	"context"
	"sort"
	"time"

	"github.com/openmeasure/mq-api/calendar"
	"github.com/openmeasure/mq-api/data"
	"github.com/openmeasure/mq-api/frame"
	"github.com/rs/zerolog/log"
	"gonum.org/v1/gonum/stat"
)

// Bucket selects the hours of the day a power product settles over
type Bucket string

const (
	Bucket7x24    Bucket = "7X24"
	BucketPeak    Bucket = "PEAK"
	BucketOffPeak Bucket = "OFFPEAK"
	Bucket7x8     Bucket = "7X8"
	Bucket2x16h   Bucket = "2X16H"
)

type isoDetails struct {
	Timezone  string
	PeakStart int
	PeakEnd   int
	Weekend   map[time.Weekday]bool
}

var isos = map[string]isoDetails{
	"PJM": {
		Timezone:  "US/Eastern",
		PeakStart: 7,
		PeakEnd:   23,
		Weekend:   map[time.Weekday]bool{time.Saturday: true, time.Sunday: true},
	},
	"MISO": {
		Timezone:  "US/Central",
		PeakStart: 6,
		PeakEnd:   22,
		Weekend:   map[time.Weekday]bool{time.Saturday: true, time.Sunday: true},
	},
	"ERCOT": {
		Timezone:  "US/Central",
		PeakStart: 6,
		PeakEnd:   22,
		Weekend:   map[time.Weekday]bool{time.Saturday: true, time.Sunday: true},
	},
	"SPP": {
		Timezone:  "US/Central",
		PeakStart: 6,
		PeakEnd:   22,
		Weekend:   map[time.Weekday]bool{time.Saturday: true, time.Sunday: true},
	},
	"CAISO": {
		Timezone:  "US/Pacific",
		PeakStart: 6,
		PeakEnd:   22,
		Weekend:   map[time.Weekday]bool{time.Sunday: true},
	},
}

func isoFor(name string) (isoDetails, error) {
	iso, ok := isos[name]
	if !ok {
		return isoDetails{}, ErrUnsupportedISO
	}
	return iso, nil
}

func validBucket(bucket Bucket) bool {
	switch bucket {
	case Bucket7x24, BucketPeak, BucketOffPeak, Bucket7x8, Bucket2x16h:
		return true
	}
	return false
}

// hourInBucket reports whether the hour beginning at t, already localized
// to the ISO timezone, settles in the bucket. Peak hours are on-window
// hours of business days; NERC holidays count as weekend days
func hourInBucket(iso isoDetails, bucket Bucket, t time.Time) bool {
	onWindow := t.Hour() >= iso.PeakStart && t.Hour() < iso.PeakEnd
	offDay := iso.Weekend[t.Weekday()] || calendar.IsNercHoliday(t)

	switch bucket {
	case Bucket7x24:
		return true
	case BucketPeak:
		return onWindow && !offDay
	case Bucket7x8:
		return !onWindow
	case Bucket2x16h:
		return onWindow && offDay
	case BucketOffPeak:
		return !onWindow || offDay
	}
	return false
}

// bucketHours counts the bucket's settlement hours over the interval.
// Hours are walked in the ISO timezone so DST transition days contribute
// 23 or 25 hours
func bucketHours(iso isoDetails, bucket Bucket, interval *calendar.Interval) int {
	tz, err := time.LoadLocation(iso.Timezone)
	if err != nil {
		log.Panic().Err(err).Str("Timezone", iso.Timezone).Msg("cannot load ISO timezone")
	}

	begin := time.Date(interval.Begin.Year(), interval.Begin.Month(), interval.Begin.Day(), 0, 0, 0, 0, tz)
	end := time.Date(interval.End.Year(), interval.End.Month(), interval.End.Day(), 0, 0, 0, 0, tz).AddDate(0, 0, 1)

	hours := 0
	for t := begin; t.Before(end); t = t.Add(time.Hour) {
		if hourInBucket(iso, bucket, t) {
			hours++
		}
	}
	return hours
}

type constituent struct {
	weight float64
	prices map[time.Time]float64
}

// stripAverage computes the weight-averaged series of the strip
// constituents; only dates quoted for every constituent are returned
func stripAverage(colName string, constituents []constituent) *Series {
	result := frame.New[time.Time](colName)
	if len(constituents) == 0 {
		return result
	}

	dates := make([]time.Time, 0, len(constituents[0].prices))
	for date := range constituents[0].prices {
		dates = append(dates, date)
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })

	for _, date := range dates {
		weightedSum := 0.0
		totalWeight := 0.0
		complete := true
		for _, c := range constituents {
			price, ok := c.prices[date]
			if !ok {
				complete = false
				break
			}
			weightedSum += c.weight * price
			totalWeight += c.weight
		}
		if complete && totalWeight > 0 {
			result.InsertRow(date, weightedSum/totalWeight)
		}
	}

	return result
}

func stripConstituents(ctx context.Context, manager *data.Manager, asset *data.Asset, measure string, field string, where map[string]string, strip string, begin, end time.Time, realTime bool, weigh func(*calendar.Interval) float64) ([]constituent, error) {
	intervals, err := calendar.ParseStrip(strip)
	if err != nil {
		return nil, err
	}

	constituents := make([]constituent, 0, len(intervals))
	for _, interval := range intervals {
		q := data.NewQuery(asset).
			Measure(measure).
			Where("contract", calendar.ContractCode(interval.Begin)).
			Between(begin, end)
		for k, v := range where {
			q.Where(k, v)
		}
		if realTime {
			q.RealTime()
		}

		rows, err := manager.Do(ctx, q)
		if err != nil {
			return nil, err
		}

		series := seriesFromRows(rows, field)
		constituents = append(constituents, constituent{
			weight: weigh(interval),
			prices: series.AsMap(field),
		})
	}

	return constituents, nil
}

// ForwardPrice returns the forward price of a power strip, averaging the
// constituent contract marks weighted by their bucket hours
func ForwardPrice(ctx context.Context, manager *data.Manager, asset *data.Asset, isoName string, bucket Bucket, strip string, begin, end time.Time, realTime bool) (*Series, error) {
	iso, err := isoFor(isoName)
	if err != nil {
		return nil, err
	}
	if !validBucket(bucket) {
		return nil, ErrUnsupportedBucket
	}

	where := map[string]string{"iso": isoName, "bucket": string(bucket)}
	constituents, err := stripConstituents(ctx, manager, asset, data.MeasureForwardPrice, "forwardPrice", where, strip, begin, end, realTime,
		func(interval *calendar.Interval) float64 {
			return float64(bucketHours(iso, bucket, interval))
		})
	if err != nil {
		return nil, err
	}

	return stripAverage("forwardPrice", constituents), nil
}

// FairPrice returns the modeled fair price of a commodity strip, averaging
// the constituent contracts weighted by calendar days
func FairPrice(ctx context.Context, manager *data.Manager, asset *data.Asset, strip string, begin, end time.Time) (*Series, error) {
	constituents, err := stripConstituents(ctx, manager, asset, data.MeasureFairPrice, "fairPrice", nil, strip, begin, end, false,
		func(interval *calendar.Interval) float64 {
			return float64(interval.Days())
		})
	if err != nil {
		return nil, err
	}

	return stripAverage("fairPrice", constituents), nil
}

// CommodImpliedVolatility returns the implied volatility of a commodity
// strip, averaging the constituent contracts weighted by calendar days
func CommodImpliedVolatility(ctx context.Context, manager *data.Manager, asset *data.Asset, strip string, begin, end time.Time) (*Series, error) {
	constituents, err := stripConstituents(ctx, manager, asset, data.MeasureImpliedVolatility, "impliedVolatility", nil, strip, begin, end, false,
		func(interval *calendar.Interval) float64 {
			return float64(interval.Days())
		})
	if err != nil {
		return nil, err
	}

	return stripAverage("impliedVolatility", constituents), nil
}

// BucketizePrice averages an hourly price series over the bucket's hours
// per day (granularity "d") or per month (granularity "m"). Monthly means
// only include months whose first and last day fall inside the date range
func BucketizePrice(ctx context.Context, manager *data.Manager, asset *data.Asset, isoName string, bucket Bucket, granularity string, begin, end time.Time) (*Series, error) {
	iso, err := isoFor(isoName)
	if err != nil {
		return nil, err
	}
	if !validBucket(bucket) {
		return nil, ErrUnsupportedBucket
	}
	if granularity != "d" && granularity != "m" {
		return nil, ErrUnsupportedGranularity
	}

	tz, err := time.LoadLocation(iso.Timezone)
	if err != nil {
		log.Panic().Err(err).Str("Timezone", iso.Timezone).Msg("cannot load ISO timezone")
	}

	q := data.NewQuery(asset).
		Measure(data.MeasurePrice).
		Where("iso", isoName).
		Between(begin, end).
		RealTime()

	rows, err := manager.Do(ctx, q)
	if err != nil {
		return nil, err
	}

	// calendar dates of the range rebuilt in the ISO timezone so the month
	// completeness check compares dates rather than instants
	firstDate := time.Date(begin.Year(), begin.Month(), begin.Day(), 0, 0, 0, 0, tz)
	lastDate := time.Date(end.Year(), end.Month(), end.Day(), 0, 0, 0, 0, tz)

	groups := make(map[time.Time][]float64)
	for _, row := range rows {
		price, ok := row.Value("price")
		if !ok {
			continue
		}
		local := row.Date.In(tz)
		if !hourInBucket(iso, bucket, local) {
			continue
		}

		var key time.Time
		switch granularity {
		case "d":
			key = time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, tz)
		case "m":
			key = time.Date(local.Year(), local.Month(), 1, 0, 0, 0, 0, tz)
			lastDay := key.AddDate(0, 1, -1)
			if key.Before(firstDate) || lastDay.After(lastDate) {
				continue
			}
		}
		groups[key] = append(groups[key], price)
	}

	keys := make([]time.Time, 0, len(groups))
	for key := range groups {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i].Before(keys[j]) })

	result := frame.New[time.Time]("price")
	for _, key := range keys {
		result.InsertRow(key, stat.Mean(groups[key], nil))
	}
	return result, nil
}
