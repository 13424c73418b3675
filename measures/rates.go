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
	"github.com/rs/zerolog/log"
)

type swapConventions struct {
	Benchmark    string
	FloatingFreq string
	Location     string
}

// swapDefaults holds the standard fixed-float swap conventions by currency
var swapDefaults = map[string]swapConventions{
	"USD": {Benchmark: "USD-LIBOR-BBA", FloatingFreq: "3m", Location: "NYC"},
	"JPY": {Benchmark: "JPY-LIBOR-BBA", FloatingFreq: "6m", Location: "TKO"},
	"EUR": {Benchmark: "EUR-EURIBOR-Telerate", FloatingFreq: "6m", Location: "LDN"},
	"SEK": {Benchmark: "SEK-STIBOR-SIDE", FloatingFreq: "6m", Location: "LDN"},
	"GBP": {Benchmark: "GBP-LIBOR-BBA", FloatingFreq: "6m", Location: "LDN"},
}

// cpiBenchmarks holds the standard inflation index by currency
var cpiBenchmarks = map[string]string{
	"USD": "CPURNSA",
	"GBP": "UKRPI",
	"EUR": "CPXTEMU",
}

// SwapRate returns the par rate of the standard fixed-float swap for the
// currency, read from the asset the floating rate index cross-references.
// forwardTenor moves the swap start forward from spot; an empty forwardTenor
// or "0b" is a spot starting swap. benchmark overrides the standard floating
// rate index of the currency
func SwapRate(ctx context.Context, manager *data.Manager, currency string, tenor string, forwardTenor string, benchmark string, begin, end time.Time, realTime bool) (*Series, error) {
	if realTime {
		return nil, ErrRealTimeUnsupported
	}
	if _, err := ParseTenor(tenor); err != nil {
		return nil, err
	}
	if err := CheckForwardTenor(forwardTenor); err != nil {
		return nil, err
	}

	conventions, ok := swapDefaults[currency]
	if !ok {
		return nil, ErrUnsupportedCurrency
	}
	if benchmark == "" {
		benchmark = conventions.Benchmark
	}

	asset, err := data.AssetFromXref(benchmark)
	if err != nil {
		log.Warn().Str("Benchmark", benchmark).Msg("no asset registered for benchmark")
		return nil, err
	}

	q := data.NewQuery(asset).
		Measure(data.MeasureSwapRate).
		Where("currency", currency).
		Where("tenor", tenor).
		Where("forwardTenor", forwardTenor).
		Where("floatingFreq", conventions.FloatingFreq).
		Where("location", conventions.Location).
		Between(begin, end)

	rows, err := manager.Do(ctx, q)
	if err != nil {
		return nil, err
	}

	return seriesFromRows(rows, "swapRate"), nil
}

// InflationSwapRate returns the zero-coupon inflation swap rate for the
// currency against its standard CPI index
func InflationSwapRate(ctx context.Context, manager *data.Manager, currency string, tenor string, forwardTenor string, begin, end time.Time) (*Series, error) {
	if _, err := ParseTenor(tenor); err != nil {
		return nil, err
	}
	if err := CheckForwardTenor(forwardTenor); err != nil {
		return nil, err
	}

	benchmark, ok := cpiBenchmarks[currency]
	if !ok {
		return nil, ErrUnsupportedCurrency
	}

	asset, err := data.AssetFromXref(benchmark)
	if err != nil {
		log.Warn().Str("Benchmark", benchmark).Msg("no asset registered for inflation index")
		return nil, err
	}

	q := data.NewQuery(asset).
		Measure(data.MeasureSwapRate).
		Where("currency", currency).
		Where("tenor", tenor).
		Where("forwardTenor", forwardTenor).
		Where("swapType", "inflation").
		Between(begin, end)

	rows, err := manager.Do(ctx, q)
	if err != nil {
		return nil, err
	}

	return seriesFromRows(rows, "swapRate"), nil
}

// BasisSwapSpread returns the cross-currency basis swap spread between the
// standard floating rate indices of the pay and receive currencies. Marks
// are carried by the pay leg's benchmark asset
func BasisSwapSpread(ctx context.Context, manager *data.Manager, payCurrency, receiveCurrency string, tenor string, forwardTenor string, begin, end time.Time) (*Series, error) {
	if _, err := ParseTenor(tenor); err != nil {
		return nil, err
	}
	if err := CheckForwardTenor(forwardTenor); err != nil {
		return nil, err
	}

	pay, ok := swapDefaults[payCurrency]
	if !ok {
		return nil, ErrUnsupportedCurrency
	}
	rcv, ok := swapDefaults[receiveCurrency]
	if !ok {
		return nil, ErrUnsupportedCurrency
	}

	asset, err := data.AssetFromXref(pay.Benchmark)
	if err != nil {
		log.Warn().Str("Benchmark", pay.Benchmark).Msg("no asset registered for benchmark")
		return nil, err
	}

	q := data.NewQuery(asset).
		Measure(data.MeasureSwapRate).
		Where("payCurrency", payCurrency).
		Where("receiveCurrency", receiveCurrency).
		Where("receiveBenchmark", rcv.Benchmark).
		Where("tenor", tenor).
		Where("forwardTenor", forwardTenor).
		Where("swapType", "basis").
		Between(begin, end)

	rows, err := manager.Do(ctx, q)
	if err != nil {
		return nil, err
	}

	return seriesFromRows(rows, "spread"), nil
}
