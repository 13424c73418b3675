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
	"context"
	"fmt"
	"regexp"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v4"
	"github.com/openmeasure/mq-api/data"
	"github.com/openmeasure/mq-api/data/database"
	"github.com/rs/zerolog/log"
)

func parseRange(r string) (int, int, error) {
	if r == "" {
		return 100, 0, nil
	}

	re := regexp.MustCompile(`((\w+)=)?(\d+)-(\d+)`)
	res := re.FindStringSubmatch(r)

	if res == nil {
		return 10, 0, fiber.ErrRequestedRangeNotSatisfiable
	}

	if len(res) == 5 && res[2] != "items" {
		return 10, 0, fiber.ErrRequestedRangeNotSatisfiable
	}

	begin, err := strconv.ParseInt(res[3], 10, 32)
	if err != nil {
		log.Error().Err(err).Msg("could not parse limit")
		return 10, 0, fiber.ErrRequestedRangeNotSatisfiable
	}

	end, err := strconv.ParseInt(res[4], 10, 32)
	if err != nil {
		log.Error().Err(err).Msg("could not parse offset")
		return 10, 0, fiber.ErrRequestedRangeNotSatisfiable
	}

	if end <= begin {
		log.Error().Int64("Begin", begin).Int64("End", end).Msg("range error: end <= begin")
		return 10, 0, fiber.ErrRequestedRangeNotSatisfiable
	}

	limit := int(end - begin + 1)
	offset := int(begin)

	return limit, offset, nil
}

// LookupAsset searches the asset registry by bloomberg identifier or name
// prefix; the range header pages through results
func LookupAsset(c *fiber.Ctx) error {
	query := c.Query("q")
	rangeHeader := c.Get("range")
	limit, offset, err := parseRange(rangeHeader)
	if limit > 100 || err != nil {
		log.Error().Int("Limit", limit).Msg("range header error")
		return fiber.ErrRequestedRangeNotSatisfiable
	}

	ctx := context.Background()
	subLog := log.With().Str("Query", query).Str("Endpoint", "LookupAsset").Logger()

	trx, err := database.TrxForUser(ctx, "mquser")
	if err != nil {
		subLog.Error().Stack().Err(err).Msg("could not get transaction when looking up assets")
		return fiber.ErrInternalServerError
	}

	var rows pgx.Rows

	if query != "" {
		pattern := fmt.Sprintf("%s%%", query)
		sql := fmt.Sprintf("SELECT id, bbid, name, asset_class, asset_type FROM assets WHERE active='t' AND (bbid ILIKE $1 OR name ILIKE $1) ORDER BY bbid LIMIT %d OFFSET %d", limit, offset)
		rows, err = trx.Query(ctx, sql, pattern)
		if err != nil {
			subLog.Warn().Stack().Str("SQL", sql).Err(err).Msg("database query failed")
			if err := trx.Rollback(ctx); err != nil {
				log.Error().Stack().Err(err).Msg("could not rollback transaction")
			}
			return fiber.ErrInternalServerError
		}
	} else {
		sql := fmt.Sprintf("SELECT id, bbid, name, asset_class, asset_type FROM assets WHERE active='t' ORDER BY bbid LIMIT %d OFFSET %d", limit, offset)
		rows, err = trx.Query(ctx, sql)
		if err != nil {
			subLog.Warn().Stack().Str("SQL", sql).Err(err).Msg("database query failed")
			if err := trx.Rollback(ctx); err != nil {
				log.Error().Stack().Err(err).Msg("could not rollback transaction")
			}
			return fiber.ErrInternalServerError
		}
	}

	assets := make([]*data.Asset, 0)
	for rows.Next() {
		var id, bbid, name, class, typ string
		if err := rows.Scan(&id, &bbid, &name, &class, &typ); err != nil {
			log.Error().Err(err).Msg("could not scan database results")
			if err := trx.Rollback(ctx); err != nil {
				log.Error().Stack().Err(err).Msg("could not rollback transaction")
			}
			return fiber.ErrInternalServerError
		}
		assets = append(assets, &data.Asset{
			ID:    id,
			BBID:  bbid,
			Name:  name,
			Class: data.AssetClass(class),
			Type:  data.AssetType(typ),
		})
	}

	if err := trx.Commit(ctx); err != nil {
		subLog.Warn().Stack().Err(err).Msg("could not commit transaction")
	}

	beginRange := offset
	endRange := offset + len(assets) - 1
	count := "*"
	if len(assets) < limit {
		count = fmt.Sprintf("%d", len(assets)+offset)
	}
	c.Append("Content-Range", fmt.Sprintf("items %d-%d/%s", beginRange, endRange, count))
	return c.JSON(assets)
}
