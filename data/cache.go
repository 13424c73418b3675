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
	"sort"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru"
	"github.com/openmeasure/mq-api/calendar"
	"github.com/rs/zerolog/log"
)

// QueryCache stores rows returned by the market-data service keyed by query
// hash. Each entry remembers the date interval it covers; a cache hit
// requires the cached interval to fully contain the requested range.
type QueryCache struct {
	locker sync.RWMutex
	lru    *lru.Cache
}

type cacheEntry struct {
	rows    []*Row
	covered *calendar.Interval
}

// NewQueryCache creates a cache holding at most size query results
func NewQueryCache(size int) *QueryCache {
	cache, err := lru.New(size)
	if err != nil {
		log.Panic().Err(err).Msg("could not create LRU cache")
	}
	return &QueryCache{
		lru: cache,
	}
}

// Check returns true if the cache covers the queries requested date range
func (cache *QueryCache) Check(q *Query) bool {
	cache.locker.RLock()
	defer cache.locker.RUnlock()

	v, ok := cache.lru.Get(q.HashKey())
	if !ok {
		return false
	}

	entry := v.(*cacheEntry)
	requested := &calendar.Interval{Begin: q.begin, End: q.end}
	return entry.covered.Contains(requested)
}

// Get returns the cached rows trimmed to the queries date range. The second
// return value is false when the cache does not cover the range.
func (cache *QueryCache) Get(q *Query) ([]*Row, bool) {
	cache.locker.RLock()
	defer cache.locker.RUnlock()

	v, ok := cache.lru.Get(q.HashKey())
	if !ok {
		return nil, false
	}

	entry := v.(*cacheEntry)
	requested := &calendar.Interval{Begin: q.begin, End: q.end}
	if !entry.covered.Contains(requested) {
		return nil, false
	}

	rows := make([]*Row, 0, len(entry.rows))
	for _, row := range entry.rows {
		if row.Date.Before(q.begin) || row.Date.After(endOfDay(q.end)) {
			continue
		}
		rows = append(rows, row)
	}
	return rows, true
}

// Set stores rows for the query. When the new range is contiguous with or
// overlaps an existing entry the ranges are merged; otherwise the new entry
// replaces the old one.
func (cache *QueryCache) Set(q *Query, rows []*Row) {
	cache.locker.Lock()
	defer cache.locker.Unlock()

	key := q.HashKey()
	incoming := &calendar.Interval{Begin: q.begin, End: q.end}

	if v, ok := cache.lru.Get(key); ok {
		entry := v.(*cacheEntry)
		if entry.covered.Contiguous(incoming) || entry.covered.Overlaps(incoming) {
			merged := mergeRows(entry.rows, rows, incoming)
			covered := &calendar.Interval{Begin: entry.covered.Begin, End: entry.covered.End}
			if incoming.Begin.Before(covered.Begin) {
				covered.Begin = incoming.Begin
			}
			if incoming.End.After(covered.End) {
				covered.End = incoming.End
			}
			cache.lru.Add(key, &cacheEntry{rows: merged, covered: covered})
			return
		}
	}

	cache.lru.Add(key, &cacheEntry{rows: rows, covered: incoming})
}

// Count returns the number of cached query results
func (cache *QueryCache) Count() int {
	cache.locker.RLock()
	defer cache.locker.RUnlock()
	return cache.lru.Len()
}

// mergeRows combines cached rows with fresh rows, preferring fresh rows for
// dates inside the incoming interval
func mergeRows(cached, fresh []*Row, incoming *calendar.Interval) []*Row {
	merged := make([]*Row, 0, len(cached)+len(fresh))
	for _, row := range cached {
		if !row.Date.Before(incoming.Begin) && !row.Date.After(endOfDay(incoming.End)) {
			continue
		}
		merged = append(merged, row)
	}
	merged = append(merged, fresh...)

	sortRowsByDate(merged)
	return merged
}

func sortRowsByDate(rows []*Row) {
	sort.Slice(rows, func(i, j int) bool {
		return rows[i].Date.Before(rows[j].Date)
	})
}

func endOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, 0, t.Location())
}
