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
	"strconv"
	"time"

	"github.com/openmeasure/mq-api/data"
	"github.com/openmeasure/mq-api/frame"
	"github.com/rs/zerolog/log"
)

// VolReference identifies how an option strike is quoted
type VolReference string

const (
	VolRefDeltaCall    VolReference = "delta_call"
	VolRefDeltaPut     VolReference = "delta_put"
	VolRefDeltaNeutral VolReference = "delta_neutral"
	VolRefNormalized   VolReference = "normalized"
	VolRefSpot         VolReference = "spot"
	VolRefForward      VolReference = "forward"
)

// classReferences lists the strike conventions an asset class is quoted in
var classReferences = map[data.AssetClass][]VolReference{
	data.ClassEquity: {VolRefSpot, VolRefForward, VolRefDeltaCall, VolRefDeltaPut, VolRefDeltaNeutral},
	data.ClassFX:     {VolRefDeltaCall, VolRefDeltaPut, VolRefDeltaNeutral, VolRefSpot, VolRefForward},
	data.ClassCommod: {VolRefDeltaCall, VolRefDeltaPut, VolRefDeltaNeutral, VolRefForward},
	data.ClassRates:  {VolRefNormalized, VolRefSpot},
}

func checkReference(asset *data.Asset, reference VolReference) error {
	valid, ok := classReferences[asset.Class]
	if !ok {
		return nil
	}
	for _, ref := range valid {
		if ref == reference {
			return nil
		}
	}
	return ErrUnsupportedReference
}

// relativeStrike converts a quoted strike to the service's relative strike
// convention: percentages of spot/forward scale to a ratio; delta puts are
// negative; normalized strikes pass through in stdev units
func relativeStrike(reference VolReference, strike float64) (float64, error) {
	switch reference {
	case VolRefSpot, VolRefForward, VolRefDeltaCall:
		return strike / 100, nil
	case VolRefDeltaPut:
		return -strike / 100, nil
	case VolRefDeltaNeutral:
		return 0, nil
	case VolRefNormalized:
		return strike, nil
	default:
		return 0, ErrUnsupportedReference
	}
}

func formatStrike(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// ImpliedVolatility returns the implied volatility curve of the asset for
// the given tenor and strike over the date range
func ImpliedVolatility(ctx context.Context, manager *data.Manager, asset *data.Asset, tenor string, reference VolReference, strike float64, begin, end time.Time, realTime bool) (*Series, error) {
	if realTime {
		return nil, ErrRealTimeUnsupported
	}
	if _, err := ParseTenor(tenor); err != nil {
		return nil, err
	}
	if err := checkReference(asset, reference); err != nil {
		return nil, err
	}
	rs, err := relativeStrike(reference, strike)
	if err != nil {
		return nil, err
	}

	q := data.NewQuery(asset).
		Measure(data.MeasureImpliedVolatility).
		Where("tenor", tenor).
		Where("relativeStrike", formatStrike(rs)).
		Between(begin, end)

	rows, err := manager.Do(ctx, q)
	if err != nil {
		return nil, err
	}

	return seriesFromRows(rows, "impliedVolatility"), nil
}

// skewStrikes returns the upper, lower and center relative strikes used for
// the skew calculation at the given distance
func skewStrikes(reference VolReference, distance float64) (upper, lower, center float64, err error) {
	switch reference {
	case VolRefDeltaCall, VolRefDeltaPut, VolRefDeltaNeutral:
		return (100 - distance) / 100, distance / 100, 0.5, nil
	case VolRefNormalized:
		return -distance, distance, 0, nil
	case VolRefSpot, VolRefForward:
		return 1 - distance/100, 1 + distance/100, 1, nil
	default:
		return 0, 0, 0, ErrUnsupportedReference
	}
}

// Skew returns the normalized difference of implied volatilities at strikes
// equidistant from the center: (vol(upper) - vol(lower)) / vol(center)
func Skew(ctx context.Context, manager *data.Manager, asset *data.Asset, tenor string, reference VolReference, distance float64, begin, end time.Time) (*Series, error) {
	if _, err := ParseTenor(tenor); err != nil {
		return nil, err
	}
	if err := checkReference(asset, reference); err != nil {
		return nil, err
	}
	upper, lower, center, err := skewStrikes(reference, distance)
	if err != nil {
		return nil, err
	}

	q := data.NewQuery(asset).
		Measure(data.MeasureImpliedVolatility).
		Where("tenor", tenor).
		Between(begin, end)

	rows, err := manager.Do(ctx, q)
	if err != nil {
		return nil, err
	}

	result := frame.New[time.Time]("skew")
	if len(rows) == 0 {
		return result, nil
	}

	dates, groups := groupRowsByDate(rows)
	for _, date := range dates {
		vols := make(map[float64]float64, len(groups[date]))
		for _, row := range groups[date] {
			strike, okStrike := row.Value("relativeStrike")
			vol, okVol := row.Value("impliedVolatility")
			if okStrike && okVol {
				vols[strike] = vol
			}
		}

		u, okU := vols[upper]
		l, okL := vols[lower]
		c, okC := vols[center]
		if !okU || !okL || !okC {
			log.Warn().Time("Date", date).Object("Asset", asset).Msg("skew strikes missing on date")
			return nil, ErrStrikeNotFound
		}

		result.InsertRow(date, (u-l)/c)
	}

	return result, nil
}

// AverageImpliedVolatility averages the implied volatility of several assets
// date by date; only dates quoted for every asset are returned
func AverageImpliedVolatility(ctx context.Context, manager *data.Manager, assets []*data.Asset, tenor string, reference VolReference, strike float64, begin, end time.Time) (*Series, error) {
	return averageVol(ctx, manager, assets, tenor, reference, strike, begin, end, func(v float64) float64 { return v })
}

// AverageImpliedVariance averages the implied variance (vol squared) of
// several assets date by date
func AverageImpliedVariance(ctx context.Context, manager *data.Manager, assets []*data.Asset, tenor string, reference VolReference, strike float64, begin, end time.Time) (*Series, error) {
	return averageVol(ctx, manager, assets, tenor, reference, strike, begin, end, func(v float64) float64 { return v * v })
}

func averageVol(ctx context.Context, manager *data.Manager, assets []*data.Asset, tenor string, reference VolReference, strike float64, begin, end time.Time, xform func(float64) float64) (*Series, error) {
	perAsset := make([]map[time.Time]float64, 0, len(assets))
	for _, asset := range assets {
		series, err := ImpliedVolatility(ctx, manager, asset, tenor, reference, strike, begin, end, false)
		if err != nil {
			return nil, err
		}
		perAsset = append(perAsset, series.AsMap(series.ColNames[0]))
	}

	result := frame.New[time.Time]("averageImpliedVolatility")
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
		for _, vols := range perAsset {
			if v, ok := vols[date]; ok {
				sum += xform(v)
				count++
			}
		}
		if count == len(perAsset) {
			result.InsertRow(date, sum/float64(count))
		}
	}

	return result, nil
}

// ImpliedCorrelation returns the implied correlation of the index
// constituents for the given tenor
func ImpliedCorrelation(ctx context.Context, manager *data.Manager, asset *data.Asset, tenor string, begin, end time.Time) (*Series, error) {
	if _, err := ParseTenor(tenor); err != nil {
		return nil, err
	}

	q := data.NewQuery(asset).
		Measure(data.MeasureImpliedCorrelation).
		Where("tenor", tenor).
		Between(begin, end)

	rows, err := manager.Do(ctx, q)
	if err != nil {
		return nil, err
	}

	return seriesFromRows(rows, "impliedCorrelation"), nil
}

// VolSmile returns the implied volatility smile of the asset on a single
// date, indexed by relative strike
func VolSmile(ctx context.Context, manager *data.Manager, asset *data.Asset, tenor string, asOf time.Time) (*frame.Frame[float64], error) {
	if _, err := ParseTenor(tenor); err != nil {
		return nil, err
	}

	q := data.NewQuery(asset).
		Measure(data.MeasureImpliedVolatility).
		Where("tenor", tenor).
		Between(asOf, asOf)

	rows, err := manager.Do(ctx, q)
	if err != nil {
		return nil, err
	}

	type point struct {
		strike float64
		vol    float64
	}
	points := make([]point, 0, len(rows))
	for _, row := range rows {
		strike, okStrike := row.Value("relativeStrike")
		vol, okVol := row.Value("impliedVolatility")
		if okStrike && okVol {
			points = append(points, point{strike: strike, vol: vol})
		}
	}
	sort.Slice(points, func(i, j int) bool { return points[i].strike < points[j].strike })

	smile := frame.New[float64]("impliedVolatility")
	for _, p := range points {
		smile.InsertRow(p.strike, p.vol)
	}
	return smile, nil
}
