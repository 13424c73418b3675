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

package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/openmeasure/mq-api/common"
	"github.com/openmeasure/mq-api/data"
	"github.com/openmeasure/mq-api/data/database"
	"github.com/openmeasure/mq-api/measures"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var (
	measureTenor        string
	measureReference    string
	measureStrike       float64
	measureDistance     float64
	measureCurrency     string
	measureForwardTenor string
	measureBenchmark    string
	measureHorizon      string
	measureISO          string
	measureBucket       string
	measureStrip        string
	measureGranularity  string
	measureMetric       string
	measureUnit         string
	measureBegin        string
	measureEnd          string
)

func init() {
	rootCmd.AddCommand(measureCmd)

	measureCmd.Flags().StringVar(&measureTenor, "tenor", "3m", "option or swap tenor, e.g. 3m, 10y")
	measureCmd.Flags().StringVar(&measureReference, "reference", "delta_neutral", "strike reference: delta_call, delta_put, delta_neutral, normalized, spot, forward")
	measureCmd.Flags().Float64Var(&measureStrike, "strike", 0, "strike in reference units")
	measureCmd.Flags().Float64Var(&measureDistance, "distance", 25, "skew strike distance")
	measureCmd.Flags().StringVar(&measureCurrency, "currency", "USD", "receive currency for basis swaps")
	measureCmd.Flags().StringVar(&measureForwardTenor, "forward-tenor", "", "forward starting tenor, e.g. 1y, imm1, frb2")
	measureCmd.Flags().StringVar(&measureBenchmark, "benchmark", "", "floating rate benchmark override")
	measureCmd.Flags().StringVar(&measureHorizon, "horizon", "3m", "fx forecast horizon")
	measureCmd.Flags().StringVar(&measureISO, "iso", "PJM", "independent system operator")
	measureCmd.Flags().StringVar(&measureBucket, "bucket", "PEAK", "power bucket: 7X24, PEAK, OFFPEAK, 7X8, 2X16H")
	measureCmd.Flags().StringVar(&measureStrip, "strip", "", "contract strip, e.g. F21-G21 or Cal22")
	measureCmd.Flags().StringVar(&measureGranularity, "granularity", "d", "bucketize granularity: d or m")
	measureCmd.Flags().StringVar(&measureMetric, "metric", "es_score", "ESG metric")
	measureCmd.Flags().StringVar(&measureUnit, "unit", "value", "ESG unit: value or percentile")
	measureCmd.Flags().StringVar(&measureBegin, "begin", "", "start date (2006-01-02)")
	measureCmd.Flags().StringVar(&measureEnd, "end", "", "end date (2006-01-02)")
}

func measureDates() (time.Time, time.Time, error) {
	tz := common.GetTimezone()
	now := time.Now().In(tz)
	end := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, tz)
	begin := end.AddDate(-1, 0, 0)

	if measureBegin != "" {
		d, err := time.ParseInLocation("2006-01-02", measureBegin, tz)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
		begin = d
	}
	if measureEnd != "" {
		d, err := time.ParseInLocation("2006-01-02", measureEnd, tz)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
		end = d
	}
	return begin, end, nil
}

var measureCmd = &cobra.Command{
	Use:   "measure [flags] kind bbid",
	Short: "Compute a measure and print the resulting series",
	Long: `Compute a single measure from the command line. Kind is one of:
vol, skew, correlation, smile, swap, inflation, basis, forecast,
forward, fair, commod-vol, bucketize, esg. For swap, inflation and
basis the second argument is a currency (e.g. USD); for forecast it is
a currency cross (e.g. EURUSD); otherwise it is a bbid.`,
	Args: cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		common.SetupLogging()

		ctx := context.Background()
		if err := database.Connect(ctx); err != nil {
			log.Fatal().Err(err).Msg("could not connect to database")
		}
		if err := data.LoadAssetsFromDB(ctx); err != nil {
			log.Fatal().Err(err).Msg("could not load asset registry")
		}

		manager := data.GetManagerInstance()
		if err := manager.RefreshTradingDays(ctx); err != nil {
			log.Fatal().Err(err).Msg("could not load trading days")
		}

		kind := args[0]
		begin, end, err := measureDates()
		if err != nil {
			log.Fatal().Err(err).Msg("could not parse date range")
		}

		var asset *data.Asset
		switch kind {
		case "swap", "inflation", "basis", "forecast":
		default:
			asset, err = data.AssetFromBBID(args[1])
			if err != nil {
				log.Fatal().Str("BBID", args[1]).Err(err).Msg("unknown asset")
			}
		}

		var series *measures.Series
		switch kind {
		case "vol":
			series, err = measures.ImpliedVolatility(ctx, manager, asset, measureTenor,
				measures.VolReference(measureReference), measureStrike, begin, end, false)
		case "skew":
			series, err = measures.Skew(ctx, manager, asset, measureTenor,
				measures.VolReference(measureReference), measureDistance, begin, end)
		case "correlation":
			series, err = measures.ImpliedCorrelation(ctx, manager, asset, measureTenor, begin, end)
		case "smile":
			smile, smileErr := measures.VolSmile(ctx, manager, asset, measureTenor, end)
			if smileErr != nil {
				log.Fatal().Err(smileErr).Msg("could not compute measure")
			}
			fmt.Println(smile.String("Strike"))
			return
		case "swap":
			series, err = measures.SwapRate(ctx, manager, args[1], measureTenor,
				measureForwardTenor, measureBenchmark, begin, end, false)
		case "inflation":
			series, err = measures.InflationSwapRate(ctx, manager, args[1],
				measureTenor, measureForwardTenor, begin, end)
		case "basis":
			series, err = measures.BasisSwapSpread(ctx, manager, args[1],
				measureCurrency, measureTenor, measureForwardTenor, begin, end)
		case "forecast":
			series, err = measures.Forecast(ctx, manager, args[1], measureHorizon, begin, end, false)
		case "forward":
			series, err = measures.ForwardPrice(ctx, manager, asset, measureISO,
				measures.Bucket(measureBucket), measureStrip, begin, end, false)
		case "fair":
			series, err = measures.FairPrice(ctx, manager, asset, measureStrip, begin, end)
		case "commod-vol":
			series, err = measures.CommodImpliedVolatility(ctx, manager, asset, measureStrip, begin, end)
		case "bucketize":
			series, err = measures.BucketizePrice(ctx, manager, asset, measureISO,
				measures.Bucket(measureBucket), measureGranularity, begin, end)
		case "esg":
			series, err = measures.EsgScore(ctx, manager, asset, measureMetric, measureUnit, begin, end)
		default:
			log.Fatal().Str("Kind", kind).Msg("unknown measure kind")
		}

		if err != nil {
			log.Fatal().Err(err).Msg("could not compute measure")
		}

		fmt.Println(series.String("Date"))
	},
}
