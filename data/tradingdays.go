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
	"context"
	"sort"
	"time"

	"github.com/openmeasure/mq-api/data/database"
	"github.com/rs/zerolog/log"
)

// LoadTradingDays retrieves the trading calendar from the database
func LoadTradingDays(ctx context.Context, begin, end time.Time) ([]time.Time, error) {
	trx, err := database.TrxForUser(ctx, "mquser")
	if err != nil {
		log.Error().Stack().Err(err).Msg("could not get transaction when loading trading days")
		return nil, err
	}

	rows, err := trx.Query(ctx, "SELECT trading_day FROM trading_days WHERE trading_day BETWEEN $1 AND $2 ORDER BY trading_day ASC", begin, end)
	if err != nil {
		log.Error().Err(err).Msg("could not query trading days from database")
		if err := trx.Rollback(ctx); err != nil {
			log.Error().Stack().Err(err).Msg("could not rollback transaction")
		}
		return nil, err
	}

	days := make([]time.Time, 0, 252)
	for rows.Next() {
		var dt time.Time
		if err := rows.Scan(&dt); err != nil {
			log.Error().Err(err).Msg("could not scan database results")
			if err := trx.Rollback(ctx); err != nil {
				log.Error().Stack().Err(err).Msg("could not rollback transaction")
			}
			return nil, err
		}
		days = append(days, dt)
	}

	if err := trx.Commit(ctx); err != nil {
		log.Warn().Stack().Err(err).Msg("could not commit transaction")
	}

	if len(days) == 0 {
		return nil, ErrNoTradingDays
	}

	return days, nil
}

// TradingDaysBetween filters the sorted trading calendar down to the
// inclusive range
func TradingDaysBetween(days []time.Time, begin, end time.Time) []time.Time {
	beginIdx := sort.Search(len(days), func(i int) bool {
		idxVal := days[i]
		return (idxVal.After(begin) || idxVal.Equal(begin))
	})

	endIdx := sort.Search(len(days), func(i int) bool {
		idxVal := days[i]
		return idxVal.After(end)
	})

	return days[beginIdx:endIdx]
}

// PreviousTradingDay returns the last trading day strictly before t. Dates
// before the loaded calendar's coverage error with ErrOutsideCoveredTime
func PreviousTradingDay(days []time.Time, t time.Time) (time.Time, error) {
	if len(days) == 0 {
		return time.Time{}, ErrNoTradingDays
	}
	idx := sort.Search(len(days), func(i int) bool {
		idxVal := days[i]
		return (idxVal.After(t) || idxVal.Equal(t))
	})
	if idx == 0 {
		return time.Time{}, ErrOutsideCoveredTime
	}
	return days[idx-1], nil
}
