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
	"sync"
	"time"

	"github.com/openmeasure/mq-api/common"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

// Manager coordinates the market-data client, the query cache and the
// trading calendar
type Manager struct {
	cache       *QueryCache
	client      *Client
	locker      sync.RWMutex
	tradingDays []time.Time
}

var (
	managerOnce     sync.Once
	managerInstance *Manager
)

// NewManager creates a manager around the given client
func NewManager(client *Client, cacheSize int) *Manager {
	if cacheSize == 0 {
		cacheSize = 1024
	}
	return &Manager{
		cache:  NewQueryCache(cacheSize),
		client: client,
	}
}

// GetManagerInstance returns the shared manager, creating it on first use
func GetManagerInstance() *Manager {
	managerOnce.Do(func() {
		if managerInstance == nil {
			managerInstance = NewManager(NewClient(), viper.GetInt("data.cache_size"))
		}
	})
	return managerInstance
}

// SetManagerInstance replaces the shared manager; used by tests
func SetManagerInstance(manager *Manager) {
	managerOnce.Do(func() {})
	managerInstance = manager
}

// Do executes a query, consulting the cache for close-of-market requests.
// Intraday requests always go to the market-data service.
func (manager *Manager) Do(ctx context.Context, q *Query) ([]*Row, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}

	if q.realTime {
		return manager.client.Query(ctx, q)
	}

	if rows, ok := manager.cache.Get(q); ok {
		return rows, nil
	}

	rows, err := manager.client.Query(ctx, q)
	if err != nil {
		return nil, err
	}

	if !q.begin.IsZero() && !q.end.IsZero() {
		manager.cache.Set(q, rows)
	}

	return rows, nil
}

// RefreshTradingDays reloads the trading calendar; it is scheduled daily by
// the serve command
func (manager *Manager) RefreshTradingDays(ctx context.Context) error {
	begin := time.Date(1980, 1, 1, 0, 0, 0, 0, common.GetTimezone())
	now := time.Now()
	end := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, common.GetTimezone())

	days, err := LoadTradingDays(ctx, begin, end)
	if err != nil {
		log.Error().Err(err).Msg("could not load trading days")
		return err
	}

	manager.locker.Lock()
	manager.tradingDays = days
	manager.locker.Unlock()

	return nil
}

// SetTradingDays replaces the trading calendar; used by tests
func (manager *Manager) SetTradingDays(days []time.Time) {
	manager.locker.Lock()
	manager.tradingDays = days
	manager.locker.Unlock()
}

// TradingDays returns the trading days in the inclusive range
func (manager *Manager) TradingDays(begin, end time.Time) []time.Time {
	manager.locker.RLock()
	defer manager.locker.RUnlock()
	return TradingDaysBetween(manager.tradingDays, begin, end)
}

// LastTradingDay returns the final trading day on or before t
func (manager *Manager) LastTradingDay(t time.Time) (time.Time, error) {
	manager.locker.RLock()
	defer manager.locker.RUnlock()
	return PreviousTradingDay(manager.tradingDays, t.AddDate(0, 0, 1))
}
