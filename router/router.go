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

package router

import (
	"github.com/gofiber/fiber/v2"
	"github.com/openmeasure/mq-api/handler"
)

// SetupRoutes registers the api endpoints
func SetupRoutes(app *fiber.App) {
	api := app.Group("/v1")
	api.Get("/ping", handler.Ping)

	// Assets
	api.Get("/assets", handler.LookupAsset)

	// Volatility
	vol := api.Group("/measures/vol")
	vol.Get("/smile/:bbid", handler.VolSmile)
	vol.Get("/skew/:bbid", handler.Skew)
	vol.Get("/correlation/:bbid", handler.ImpliedCorrelation)
	vol.Get("/:bbid", handler.ImpliedVolatility)

	// Rates
	rates := api.Group("/measures/rates")
	rates.Get("/swap/:currency", handler.SwapRate)
	rates.Get("/inflation/:currency", handler.InflationSwapRate)
	rates.Get("/basis", handler.BasisSwapSpread)

	// FX
	api.Get("/measures/fx/forecast/:cross", handler.Forecast)

	// Commodities
	commod := api.Group("/measures/commod")
	commod.Get("/forward/:bbid", handler.ForwardPrice)
	commod.Get("/fair/:bbid", handler.FairPrice)
	commod.Get("/vol/:bbid", handler.StripImpliedVolatility)
	commod.Get("/bucketize/:bbid", handler.BucketizePrice)

	// ESG
	esg := api.Group("/measures/esg")
	esg.Get("/aggregate", handler.EsgAggregate)
	esg.Get("/:bbid", handler.EsgScore)
}
