/*
 * Copyright (c) 2026, Villagekeep Project.
 *
 * Villagekeep licenses this file to you under the Apache License,
 * Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.
 * You may obtain a copy of the License at
 *
 * http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing,
 * software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY
 * KIND, either express or implied.  See the License for the
 * specific language governing permissions and limitations
 * under the License.
 */

package integration

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	catalogModel "github.com/villagekeep/village-catalog-service/internal/catalog/model"
	catalogProvider "github.com/villagekeep/village-catalog-service/internal/catalog/provider"
	catalogStore "github.com/villagekeep/village-catalog-service/internal/catalog/store"
	reconcileService "github.com/villagekeep/village-catalog-service/internal/reconciler/service"
	"github.com/villagekeep/village-catalog-service/internal/system/config"
)

func Test_ReconcileMergesDuplicateHouses(t *testing.T) {

	catalogSvc := catalogProvider.NewCatalogProvider().GetCatalogService()
	svc := reconcileService.NewReconcileService(catalogSvc, config.DefaultMatchingConfig())

	// The duplicate is older and carries richer fields; the survivor must
	// still win the election because it holds more accessory links.
	now := time.Now().Unix()
	survivor := catalogModel.Entity{
		ID:        uuid.New().String(),
		Kind:      catalogModel.KindHouse,
		Name:      "Nestled In The Pines",
		CreatedAt: now + 10,
	}
	duplicate := catalogModel.Entity{
		ID:        uuid.New().String(),
		Kind:      catalogModel.KindHouse,
		Name:      "  nestled in the pines ",
		SKU:       "56.55049",
		Year:      2001,
		CreatedAt: now,
	}
	pineTrees := catalogModel.Entity{
		ID:        uuid.New().String(),
		Kind:      catalogModel.KindAccessory,
		Name:      "Pine Tree Set",
		CreatedAt: now,
	}
	sledRiders := catalogModel.Entity{
		ID:        uuid.New().String(),
		Kind:      catalogModel.KindAccessory,
		Name:      "Village Sled Riders",
		CreatedAt: now,
	}
	woodpile := catalogModel.Entity{
		ID:        uuid.New().String(),
		Kind:      catalogModel.KindAccessory,
		Name:      "Stacked Woodpile",
		CreatedAt: now,
	}
	for _, entity := range []catalogModel.Entity{survivor, duplicate, pineTrees, sledRiders, woodpile} {
		require.NoError(t, catalogStore.InsertEntity(entity))
	}
	for _, link := range []catalogModel.HouseAccessoryLink{
		{HouseID: survivor.ID, AccessoryID: pineTrees.ID},
		{HouseID: survivor.ID, AccessoryID: sledRiders.ID},
		{HouseID: duplicate.ID, AccessoryID: woodpile.ID},
	} {
		require.NoError(t, catalogStore.InsertHouseAccessoryLink(link))
	}

	summary, err := svc.Run()
	require.NoError(t, err)
	require.Equal(t, 1, summary.Groups)
	require.Equal(t, 1, summary.Deleted)
	require.Equal(t, 1, summary.Repointed)

	gone, err := catalogStore.GetEntityById(duplicate.ID)
	require.NoError(t, err)
	require.Nil(t, gone)
	kept, err := catalogStore.GetEntityById(survivor.ID)
	require.NoError(t, err)
	require.NotNil(t, kept)

	// The duplicate's link now hangs off the survivor.
	snapshot, err := catalogStore.GetSnapshot()
	require.NoError(t, err)
	require.Contains(t, snapshot.Links, catalogModel.HouseAccessoryLink{
		HouseID:     survivor.ID,
		AccessoryID: woodpile.ID,
	})

	// A second run finds nothing left to merge.
	summary, err = svc.Run()
	require.NoError(t, err)
	require.Equal(t, 0, summary.Groups)
	require.Equal(t, 0, summary.Deleted)
	require.Equal(t, 0, summary.Repointed)
}
