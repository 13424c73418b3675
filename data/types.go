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

package data

import (
	"time"

	"github.com/rs/zerolog"
)

// AssetClass identifies the broad market an asset trades in
type AssetClass string

const (
	ClassCommod AssetClass = "Commod"
	ClassEquity AssetClass = "Equity"
	ClassFX     AssetClass = "FX"
	ClassRates  AssetClass = "Rates"
)

// AssetType refines the asset class
type AssetType string

const (
	TypeBond           AssetType = "Bond"
	TypeCommodityPower AssetType = "CommodityPower"
	TypeCommodityNG    AssetType = "CommodityNaturalGasHub"
	TypeCross          AssetType = "Cross"
	TypeCurrency       AssetType = "Currency"
	TypeIndex          AssetType = "Index"
	TypeSwap           AssetType = "Swap"
)

// Asset represents an instrument resolvable by the market-data service
type Asset struct {
	ID    string     `json:"id"`
	BBID  string     `json:"bbid"`
	Name  string     `json:"name"`
	Class AssetClass `json:"assetClass"`
	Type  AssetType  `json:"type"`
}

// MarshalZerologObject implement the log marshaller interface for zerolog
func (asset *Asset) MarshalZerologObject(e *zerolog.Event) {
	e.Str("ID", asset.ID).Str("BBID", asset.BBID).Str("Class", string(asset.Class)).Str("Type", string(asset.Type))
}

// Measure names understood by the market-data service
const (
	MeasureEsgScore           = "ESG Score"
	MeasureFairPrice          = "Fair Price"
	MeasureForecast           = "Forecast"
	MeasureForwardPrice       = "Forward Price"
	MeasureImpliedCorrelation = "Implied Correlation"
	MeasureImpliedVolatility  = "Implied Volatility"
	MeasurePrice              = "Price"
	MeasureSwapRate           = "Swap Rate"
)

// Row is a single observation returned by the market-data service. Numeric
// fields land in Values; string qualifiers (bucket, tenor, strike reference)
// land in Tags
type Row struct {
	Date   time.Time
	Values map[string]float64
	Tags   map[string]string
}

// Value returns the named numeric field of the row
func (row *Row) Value(field string) (float64, bool) {
	v, ok := row.Values[field]
	return v, ok
}

// Tag returns the named string qualifier of the row
func (row *Row) Tag(name string) (string, bool) {
	t, ok := row.Tags[name]
	return t, ok
}

// MarshalZerologObject implement the log marshaller interface for zerolog
func (row *Row) MarshalZerologObject(e *zerolog.Event) {
	e.Time("Date", row.Date).Int("NumValues", len(row.Values)).Int("NumTags", len(row.Tags))
}
