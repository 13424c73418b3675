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

package handler

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"
	"github.com/openmeasure/mq-api/common"
	"github.com/openmeasure/mq-api/data"
	"github.com/openmeasure/mq-api/frame"
	"github.com/openmeasure/mq-api/measures"
	"github.com/rs/zerolog/log"
)

// SeriesResponse is the JSON shape of a date-indexed measure result
type SeriesResponse struct {
	Field  string    `json:"field"`
	Dates  []string  `json:"dates"`
	Values []float64 `json:"values"`
}

// SmileResponse is the JSON shape of a strike-indexed measure result
type SmileResponse struct {
	Field   string    `json:"field"`
	Strikes []float64 `json:"strikes"`
	Values  []float64 `json:"values"`
}

func seriesResponse(series *measures.Series) SeriesResponse {
	resp := SeriesResponse{
		Field:  series.ColNames[0],
		Dates:  make([]string, 0, series.Len()),
		Values: series.Vals[0],
	}
	for _, d := range series.Index {
		resp.Dates = append(resp.Dates, d.Format("2006-01-02"))
	}
	return resp
}

func parseDateRange(c *fiber.Ctx) (time.Time, time.Time, error) {
	tz := common.GetTimezone()
	now := time.Now().In(tz)
	end := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, tz)
	begin := end.AddDate(-1, 0, 0)

	if v := c.Query("begin"); v != "" {
		d, err := time.ParseInLocation("2006-01-02", v, tz)
		if err != nil {
			return time.Time{}, time.Time{}, fiber.ErrBadRequest
		}
		begin = d
	}
	if v := c.Query("end"); v != "" {
		d, err := time.ParseInLocation("2006-01-02", v, tz)
		if err != nil {
			return time.Time{}, time.Time{}, fiber.ErrBadRequest
		}
		end = d
	}
	if end.Before(begin) {
		return time.Time{}, time.Time{}, fiber.ErrBadRequest
	}
	return begin, end, nil
}

func assetFromParams(c *fiber.Ctx) (*data.Asset, error) {
	asset, err := data.AssetFromBBID(c.Params("bbid"))
	if err != nil {
		log.Warn().Str("BBID", c.Params("bbid")).Msg("unknown asset requested")
		return nil, fiber.ErrNotFound
	}
	return asset, nil
}

// statusFromError translates measure errors into http statuses: anything a
// caller could fix is a 400
func statusFromError(err error) error {
	var fiberErr *fiber.Error
	switch {
	case errors.As(err, &fiberErr):
		return err
	case errors.Is(err, data.ErrNotFound):
		return fiber.ErrNotFound
	case errors.Is(err, data.ErrRemoteStatus):
		return fiber.ErrBadGateway
	case errors.Is(err, measures.ErrStrikeNotFound):
		return fiber.NewError(fiber.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, data.ErrInvalidTimeRange),
		errors.Is(err, data.ErrOutsideCoveredTime),
		errors.Is(err, data.ErrEmptyQuery),
		errors.Is(err, data.ErrNoMeasure):
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	case errors.Is(err, measures.ErrRealTimeUnsupported),
		errors.Is(err, measures.ErrUnsupportedTenor),
		errors.Is(err, measures.ErrUnsupportedCurrency),
		errors.Is(err, measures.ErrUnsupportedBucket),
		errors.Is(err, measures.ErrUnsupportedISO),
		errors.Is(err, measures.ErrUnsupportedGranularity),
		errors.Is(err, measures.ErrUnsupportedReference),
		errors.Is(err, measures.ErrUnsupportedMetric),
		errors.Is(err, measures.ErrUnsupportedUnit),
		errors.Is(err, measures.ErrCrossUnknown):
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	return fiber.ErrInternalServerError
}

// sendCached replays a previously computed response for the URL; returns
// false when the URL is not in the cache
func sendCached(c *fiber.Ctx) bool {
	body, err := common.CacheGet(c.OriginalURL())
	if err != nil || len(body) == 0 {
		return false
	}
	c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	if err := c.Send(body); err != nil {
		return false
	}
	return true
}

func sendJSON(c *fiber.Ctx, resp interface{}) error {
	encoded, err := json.Marshal(resp)
	if err != nil {
		log.Error().Err(err).Msg("could not marshal measure response")
		return fiber.ErrInternalServerError
	}
	if err := common.CacheSet(c.OriginalURL(), encoded); err != nil {
		log.Warn().Err(err).Msg("could not cache measure response")
	}
	c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	return c.Send(encoded)
}

func ImpliedVolatility(c *fiber.Ctx) error {
	if sendCached(c) {
		return nil
	}
	asset, err := assetFromParams(c)
	if err != nil {
		return err
	}
	begin, end, err := parseDateRange(c)
	if err != nil {
		return err
	}
	strike, err := strconv.ParseFloat(c.Query("strike", "0"), 64)
	if err != nil {
		return fiber.ErrBadRequest
	}

	series, err := measures.ImpliedVolatility(c.UserContext(), data.GetManagerInstance(), asset,
		c.Query("tenor", "3m"), measures.VolReference(c.Query("reference", "delta_neutral")),
		strike, begin, end, false)
	if err != nil {
		return statusFromError(err)
	}
	return sendJSON(c, seriesResponse(series))
}

func Skew(c *fiber.Ctx) error {
	if sendCached(c) {
		return nil
	}
	asset, err := assetFromParams(c)
	if err != nil {
		return err
	}
	begin, end, err := parseDateRange(c)
	if err != nil {
		return err
	}
	distance, err := strconv.ParseFloat(c.Query("distance", "25"), 64)
	if err != nil {
		return fiber.ErrBadRequest
	}

	series, err := measures.Skew(c.UserContext(), data.GetManagerInstance(), asset,
		c.Query("tenor", "3m"), measures.VolReference(c.Query("reference", "delta_call")),
		distance, begin, end)
	if err != nil {
		return statusFromError(err)
	}
	return sendJSON(c, seriesResponse(series))
}

func ImpliedCorrelation(c *fiber.Ctx) error {
	if sendCached(c) {
		return nil
	}
	asset, err := assetFromParams(c)
	if err != nil {
		return err
	}
	begin, end, err := parseDateRange(c)
	if err != nil {
		return err
	}

	series, err := measures.ImpliedCorrelation(c.UserContext(), data.GetManagerInstance(), asset,
		c.Query("tenor", "3m"), begin, end)
	if err != nil {
		return statusFromError(err)
	}
	return sendJSON(c, seriesResponse(series))
}

func VolSmile(c *fiber.Ctx) error {
	if sendCached(c) {
		return nil
	}
	asset, err := assetFromParams(c)
	if err != nil {
		return err
	}
	asOf := time.Now().In(common.GetTimezone())
	if v := c.Query("date"); v != "" {
		d, err := time.ParseInLocation("2006-01-02", v, common.GetTimezone())
		if err != nil {
			return fiber.ErrBadRequest
		}
		asOf = d
	}

	smile, err := measures.VolSmile(c.UserContext(), data.GetManagerInstance(), asset,
		c.Query("tenor", "3m"), asOf)
	if err != nil {
		return statusFromError(err)
	}
	return sendJSON(c, smileResponse(smile))
}

func smileResponse(smile *frame.Frame[float64]) SmileResponse {
	return SmileResponse{
		Field:   smile.ColNames[0],
		Strikes: smile.Index,
		Values:  smile.Vals[0],
	}
}

func SwapRate(c *fiber.Ctx) error {
	if sendCached(c) {
		return nil
	}
	begin, end, err := parseDateRange(c)
	if err != nil {
		return err
	}

	series, err := measures.SwapRate(c.UserContext(), data.GetManagerInstance(),
		c.Params("currency"), c.Query("tenor", "10y"), c.Query("forwardTenor"),
		c.Query("benchmark"), begin, end, false)
	if err != nil {
		return statusFromError(err)
	}
	return sendJSON(c, seriesResponse(series))
}

func InflationSwapRate(c *fiber.Ctx) error {
	if sendCached(c) {
		return nil
	}
	begin, end, err := parseDateRange(c)
	if err != nil {
		return err
	}

	series, err := measures.InflationSwapRate(c.UserContext(), data.GetManagerInstance(),
		c.Params("currency"), c.Query("tenor", "10y"), c.Query("forwardTenor"),
		begin, end)
	if err != nil {
		return statusFromError(err)
	}
	return sendJSON(c, seriesResponse(series))
}

func BasisSwapSpread(c *fiber.Ctx) error {
	if sendCached(c) {
		return nil
	}
	begin, end, err := parseDateRange(c)
	if err != nil {
		return err
	}

	series, err := measures.BasisSwapSpread(c.UserContext(), data.GetManagerInstance(),
		c.Query("pay", "EUR"), c.Query("receive", "USD"), c.Query("tenor", "5y"),
		c.Query("forwardTenor"), begin, end)
	if err != nil {
		return statusFromError(err)
	}
	return sendJSON(c, seriesResponse(series))
}

func Forecast(c *fiber.Ctx) error {
	if sendCached(c) {
		return nil
	}
	begin, end, err := parseDateRange(c)
	if err != nil {
		return err
	}

	series, err := measures.Forecast(c.UserContext(), data.GetManagerInstance(),
		c.Params("cross"), c.Query("horizon", "3m"), begin, end, false)
	if err != nil {
		return statusFromError(err)
	}
	return sendJSON(c, seriesResponse(series))
}

func ForwardPrice(c *fiber.Ctx) error {
	if sendCached(c) {
		return nil
	}
	asset, err := assetFromParams(c)
	if err != nil {
		return err
	}
	begin, end, err := parseDateRange(c)
	if err != nil {
		return err
	}

	series, err := measures.ForwardPrice(c.UserContext(), data.GetManagerInstance(), asset,
		c.Query("iso", "PJM"), measures.Bucket(c.Query("bucket", "PEAK")),
		c.Query("strip"), begin, end, false)
	if err != nil {
		return statusFromError(err)
	}
	return sendJSON(c, seriesResponse(series))
}

func FairPrice(c *fiber.Ctx) error {
	if sendCached(c) {
		return nil
	}
	asset, err := assetFromParams(c)
	if err != nil {
		return err
	}
	begin, end, err := parseDateRange(c)
	if err != nil {
		return err
	}

	series, err := measures.FairPrice(c.UserContext(), data.GetManagerInstance(), asset,
		c.Query("strip"), begin, end)
	if err != nil {
		return statusFromError(err)
	}
	return sendJSON(c, seriesResponse(series))
}

func StripImpliedVolatility(c *fiber.Ctx) error {
	if sendCached(c) {
		return nil
	}
	asset, err := assetFromParams(c)
	if err != nil {
		return err
	}
	begin, end, err := parseDateRange(c)
	if err != nil {
		return err
	}

	series, err := measures.CommodImpliedVolatility(c.UserContext(), data.GetManagerInstance(), asset,
		c.Query("strip"), begin, end)
	if err != nil {
		return statusFromError(err)
	}
	return sendJSON(c, seriesResponse(series))
}

func BucketizePrice(c *fiber.Ctx) error {
	asset, err := assetFromParams(c)
	if err != nil {
		return err
	}
	begin, end, err := parseDateRange(c)
	if err != nil {
		return err
	}

	// bucketized prices come from intraday data; do not cache
	series, err := measures.BucketizePrice(c.UserContext(), data.GetManagerInstance(), asset,
		c.Query("iso", "PJM"), measures.Bucket(c.Query("bucket", "7X24")),
		c.Query("granularity", "d"), begin, end)
	if err != nil {
		return statusFromError(err)
	}

	resp := seriesResponse(series)
	encoded, err := json.Marshal(resp)
	if err != nil {
		log.Error().Err(err).Msg("could not marshal measure response")
		return fiber.ErrInternalServerError
	}
	c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	return c.Send(encoded)
}

func EsgScore(c *fiber.Ctx) error {
	if sendCached(c) {
		return nil
	}
	asset, err := assetFromParams(c)
	if err != nil {
		return err
	}
	begin, end, err := parseDateRange(c)
	if err != nil {
		return err
	}

	series, err := measures.EsgScore(c.UserContext(), data.GetManagerInstance(), asset,
		c.Query("metric", "es_score"), c.Query("unit", "value"), begin, end)
	if err != nil {
		return statusFromError(err)
	}
	return sendJSON(c, seriesResponse(series))
}

func EsgAggregate(c *fiber.Ctx) error {
	if sendCached(c) {
		return nil
	}
	begin, end, err := parseDateRange(c)
	if err != nil {
		return err
	}

	bbids := strings.Split(c.Query("assets"), ",")
	if len(bbids) == 1 && bbids[0] == "" {
		return fiber.ErrBadRequest
	}
	assets, err := data.AssetFromBBIDList(bbids)
	if err != nil {
		return statusFromError(err)
	}

	series, err := measures.EsgAggregate(c.UserContext(), data.GetManagerInstance(), assets,
		c.Query("metric", "es_score"), c.Query("unit", "value"), begin, end)
	if err != nil {
		return statusFromError(err)
	}
	return sendJSON(c, seriesResponse(series))
}
