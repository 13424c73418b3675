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

	"github.com/openmeasure/mq-api/data"
	"github.com/openmeasure/mq-api/frame"
)

// esgMetrics maps user-facing metric names to the field returned by the
// data service
var esgMetrics = map[string]string{
	"es_score":                 "esScore",
	"g_score":                  "gScore",
	"social_score":             "socialScore",
	"environmental_score":      "environmentalScore",
	"controversy_score":        "controversyScore",
	"es_disclosure_percentage": "esDisclosurePercentage",
}

// esgField resolves a metric and unit to the vendor field name. Percentile
// ranks are published alongside raw scores with a Percentile suffix.
func esgField(metric, unit string) (string, error) {
	field, ok := esgMetrics[metric]
	if !ok {
		return "", ErrUnsupportedMetric
	}
	switch unit {
	case "", "value":
		return field, nil
	case "percentile":
		return field + "Percentile", nil
	default:
		return "", ErrUnsupportedUnit
	}
}

// EsgScore returns the ESG metric of an asset over the date range
func EsgScore(ctx context.Context, manager *data.Manager, asset *data.Asset, metric, unit string, begin, end time.Time) (*Series, error) {
	field, err := esgField(metric, unit)
	if err != nil {
		return nil, err
	}

	q := data.NewQuery(asset).
		Measure(data.MeasureEsgScore).
		Where("metric", metric).
		Between(begin, end)

	rows, err := manager.Do(ctx, q)
	if err != nil {
		return nil, err
	}

	return seriesFromRows(rows, field), nil
}

// EsgAggregate averages an ESG metric over several assets date by date;
// only dates published for every asset are returned
func EsgAggregate(ctx context.Context, manager *data.Manager, assets []*data.Asset, metric, unit string, begin, end time.Time) (*Series, error) {
	field, err := esgField(metric, unit)
	if err != nil {
		return nil, err
	}

	perAsset := make([]map[time.Time]float64, 0, len(assets))
	for _, asset := range assets {
		series, err := EsgScore(ctx, manager, asset, metric, unit, begin, end)
		if err != nil {
			return nil, err
		}
		perAsset = append(perAsset, series.AsMap(field))
	}

	result := frame.New[time.Time](field)
	if len(perAsset) == 0 {
		return result, nil
	}

	dates := make([]time.Time, 0, len(perAsset[0]))
	for date := range perAsset[0] {
		dates = append(dates, date)
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })

	for _, date := range dates {
		sum := 0.0
		count := 0
		for _, scores := range perAsset {
			if v, ok := scores[date]; ok {
				sum += v
				count++
			}
		}
		if count == len(perAsset) {
			result.InsertRow(date, sum/float64(count))
		}
	}

	return result, nil
}
