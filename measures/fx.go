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
	"time"

	"github.com/openmeasure/mq-api/data"
	"github.com/openmeasure/mq-api/frame"
)

// CrossAsset resolves a 6-character currency cross (e.g. EURUSD) to its
// asset. If the cross is only quoted in the opposite direction the reversed
// asset is returned with inverted set
func CrossAsset(bbid string) (asset *data.Asset, inverted bool, err error) {
	if len(bbid) != 6 {
		return nil, false, ErrCrossUnknown
	}

	if asset, err = data.AssetFromBBID(bbid); err == nil {
		return asset, false, nil
	}

	reversed := bbid[3:] + bbid[:3]
	if asset, err = data.AssetFromBBID(reversed); err == nil {
		return asset, true, nil
	}

	return nil, false, ErrCrossUnknown
}

// Forecast returns the FX forecast of a currency cross for the given
// horizon. Crosses quoted in the opposite direction are inverted
func Forecast(ctx context.Context, manager *data.Manager, bbid string, horizon string, begin, end time.Time, realTime bool) (*Series, error) {
	if realTime {
		return nil, ErrRealTimeUnsupported
	}

	asset, inverted, err := CrossAsset(bbid)
	if err != nil {
		return nil, err
	}

	q := data.NewQuery(asset).
		Measure(data.MeasureForecast).
		Where("relativePeriod", horizon).
		Between(begin, end)

	rows, err := manager.Do(ctx, q)
	if err != nil {
		return nil, err
	}

	series := seriesFromRows(rows, "forecast")
	if inverted {
		series = invertSeries(series)
	}
	return series, nil
}

func invertSeries(series *Series) *Series {
	result := frame.New[time.Time](series.ColNames...)
	for idx, date := range series.Index {
		vals := make([]float64, len(series.Vals))
		for col := range series.Vals {
			vals[col] = 1 / series.Vals[col][idx]
		}
		result.InsertRow(date, vals...)
	}
	return result
}
