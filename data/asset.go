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

	"github.com/openmeasure/mq-api/data/database"
	"github.com/rs/zerolog/log"
)

var (
	assetLocker  sync.RWMutex
	assetsByID   map[string]*Asset
	assetsByBBID map[string]*Asset
	assetsByXref map[string]*Asset
)

// LoadAssetsFromDB populates the in-memory asset registry from the database
func LoadAssetsFromDB(ctx context.Context) error {
	trx, err := database.TrxForUser(ctx, "mquser")
	if err != nil {
		log.Error().Stack().Err(err).Msg("could not get transaction when creating asset list")
		return err
	}

	rows, err := trx.Query(ctx, "SELECT id, bbid, name, asset_class, asset_type FROM assets WHERE active='t'")
	if err != nil {
		log.Error().Err(err).Msg("could not query assets from database")
		if err := trx.Rollback(ctx); err != nil {
			log.Error().Stack().Err(err).Msg("could not rollback transaction")
		}
		return err
	}

	byID := make(map[string]*Asset)
	byBBID := make(map[string]*Asset)

	for rows.Next() {
		var id, bbid, name, class, typ string
		err := rows.Scan(&id, &bbid, &name, &class, &typ)
		if err != nil {
			log.Error().Err(err).Msg("could not scan database results")
			if err := trx.Rollback(ctx); err != nil {
				log.Error().Stack().Err(err).Msg("could not rollback transaction")
			}
			return err
		}
		asset := &Asset{
			ID:    id,
			BBID:  bbid,
			Name:  name,
			Class: AssetClass(class),
			Type:  AssetType(typ),
		}

		byID[id] = asset
		byBBID[bbid] = asset
	}

	byXref := make(map[string]*Asset)

	rows, err = trx.Query(ctx, "SELECT xref, asset_id FROM asset_xrefs")
	if err != nil {
		log.Error().Err(err).Msg("could not query asset xrefs from database")
		if err := trx.Rollback(ctx); err != nil {
			log.Error().Stack().Err(err).Msg("could not rollback transaction")
		}
		return err
	}

	for rows.Next() {
		var xref, assetID string
		err := rows.Scan(&xref, &assetID)
		if err != nil {
			log.Error().Err(err).Msg("could not scan database results")
			if err := trx.Rollback(ctx); err != nil {
				log.Error().Stack().Err(err).Msg("could not rollback transaction")
			}
			return err
		}
		asset, ok := byID[assetID]
		if !ok {
			log.Warn().Str("Xref", xref).Str("AssetID", assetID).Msg("xref references unknown asset")
			continue
		}
		byXref[xref] = asset
	}

	if err := trx.Commit(ctx); err != nil {
		log.Warn().Stack().Err(err).Msg("could not commit transaction")
	}

	assetLocker.Lock()
	assetsByID = byID
	assetsByBBID = byBBID
	assetsByXref = byXref
	assetLocker.Unlock()

	return nil
}

// RegisterAssets adds assets to the in-memory registry; used by tests
func RegisterAssets(assets ...*Asset) {
	assetLocker.Lock()
	defer assetLocker.Unlock()

	if assetsByID == nil {
		assetsByID = make(map[string]*Asset)
		assetsByBBID = make(map[string]*Asset)
	}
	for _, asset := range assets {
		assetsByID[asset.ID] = asset
		assetsByBBID[asset.BBID] = asset
	}
}

// RegisterXref maps an instrument key to an asset; used by tests
func RegisterXref(xref string, asset *Asset) {
	assetLocker.Lock()
	defer assetLocker.Unlock()

	if assetsByXref == nil {
		assetsByXref = make(map[string]*Asset)
	}
	assetsByXref[xref] = asset
}

// AssetFromID resolves an asset using the market-data service identifier as
// the lookup key
func AssetFromID(id string) (*Asset, error) {
	assetLocker.RLock()
	defer assetLocker.RUnlock()

	if asset, ok := assetsByID[id]; ok {
		return asset, nil
	}
	return nil, ErrNotFound
}

// AssetFromBBID resolves an asset using the bloomberg identifier as the
// lookup key
func AssetFromBBID(bbid string) (*Asset, error) {
	assetLocker.RLock()
	defer assetLocker.RUnlock()

	if asset, ok := assetsByBBID[bbid]; ok {
		return asset, nil
	}
	return nil, ErrNotFound
}

// AssetFromXref resolves the market-data asset that carries marks for an
// instrument key, e.g. USD-LIBOR-BBA
func AssetFromXref(xref string) (*Asset, error) {
	assetLocker.RLock()
	defer assetLocker.RUnlock()

	if asset, ok := assetsByXref[xref]; ok {
		return asset, nil
	}
	return nil, ErrNotFound
}

// AssetFromBBIDList resolves multiple assets; the complete list fails if any
// single identifier is unknown
func AssetFromBBIDList(bbids []string) ([]*Asset, error) {
	assets := make([]*Asset, 0, len(bbids))
	for _, bbid := range bbids {
		asset, err := AssetFromBBID(bbid)
		if err != nil {
			return nil, err
		}
		assets = append(assets, asset)
	}
	return assets, nil
}
