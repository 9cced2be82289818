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

package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	catalogmodel "github.com/villagekeep/village-catalog-service/internal/catalog/model"
	"github.com/villagekeep/village-catalog-service/internal/system/config"
)

// fakeCatalog is an in-memory CatalogRepository with the same repoint
// semantics as the SQL store: moves skip rows that would duplicate one
// already attached to the target.
type fakeCatalog struct {
	entities    map[string]catalogmodel.Entity
	links       []catalogmodel.HouseAccessoryLink
	collections []catalogmodel.CollectionMembership
	tags        []catalogmodel.TagMembership
}

func newFakeCatalog() *fakeCatalog {
	return &fakeCatalog{entities: map[string]catalogmodel.Entity{}}
}

func (f *fakeCatalog) addEntity(entity catalogmodel.Entity) {
	f.entities[entity.ID] = entity
}

func (f *fakeCatalog) GetSnapshot() (*catalogmodel.Snapshot, error) {
	snapshot := &catalogmodel.Snapshot{
		Links:       append([]catalogmodel.HouseAccessoryLink{}, f.links...),
		Collections: append([]catalogmodel.CollectionMembership{}, f.collections...),
		Tags:        append([]catalogmodel.TagMembership{}, f.tags...),
	}
	for _, entity := range f.entities {
		snapshot.Entities = append(snapshot.Entities, entity)
	}
	return snapshot, nil
}

func (f *fakeCatalog) hasLink(houseID, accessoryID string) bool {
	for _, link := range f.links {
		if link.HouseID == houseID && link.AccessoryID == accessoryID {
			return true
		}
	}
	return false
}

func (f *fakeCatalog) RepointRelationships(fromID, toID string, kind catalogmodel.Kind) (int, error) {
	moved := 0
	for i, link := range f.links {
		if kind == catalogmodel.KindHouse && link.HouseID == fromID && !f.hasLink(toID, link.AccessoryID) {
			f.links[i].HouseID = toID
			moved++
		}
		if kind == catalogmodel.KindAccessory && link.AccessoryID == fromID && !f.hasLink(link.HouseID, toID) {
			f.links[i].AccessoryID = toID
			moved++
		}
	}
	for i, membership := range f.collections {
		if membership.EntityID == fromID && !f.hasCollection(toID, membership.CollectionName) {
			f.collections[i].EntityID = toID
			moved++
		}
	}
	for i, tag := range f.tags {
		if tag.EntityID == fromID && !f.hasTag(toID, tag.Tag) {
			f.tags[i].EntityID = toID
			moved++
		}
	}
	return moved, nil
}

func (f *fakeCatalog) hasCollection(entityID, name string) bool {
	for _, membership := range f.collections {
		if membership.EntityID == entityID && membership.CollectionName == name {
			return true
		}
	}
	return false
}

func (f *fakeCatalog) hasTag(entityID, tag string) bool {
	for _, membership := range f.tags {
		if membership.EntityID == entityID && membership.Tag == tag {
			return true
		}
	}
	return false
}

func (f *fakeCatalog) DeleteEntityWithRelationships(entityID string) error {
	delete(f.entities, entityID)

	var links []catalogmodel.HouseAccessoryLink
	for _, link := range f.links {
		if link.HouseID != entityID && link.AccessoryID != entityID {
			links = append(links, link)
		}
	}
	f.links = links

	var collections []catalogmodel.CollectionMembership
	for _, membership := range f.collections {
		if membership.EntityID != entityID {
			collections = append(collections, membership)
		}
	}
	f.collections = collections

	var tags []catalogmodel.TagMembership
	for _, membership := range f.tags {
		if membership.EntityID != entityID {
			tags = append(tags, membership)
		}
	}
	f.tags = tags
	return nil
}

func matchingConfig() config.MatchingConfig {
	return config.DefaultMatchingConfig()
}

func TestRunMergesExactDuplicates(t *testing.T) {
	catalog := newFakeCatalog()
	// Same house under punctuation variants; the linked one must survive.
	catalog.addEntity(catalogmodel.Entity{
		ID: "h-linked", Kind: catalogmodel.KindHouse, Name: "Fezziwig's Ballroom", CreatedAt: 300,
	})
	catalog.addEntity(catalogmodel.Entity{
		ID: "h-dupe", Kind: catalogmodel.KindHouse, Name: "FEZZIWIGS BALLROOM", SKU: "56.58461", CreatedAt: 100,
	})
	catalog.addEntity(catalogmodel.Entity{
		ID: "a1", Kind: catalogmodel.KindAccessory, Name: "Village Gas Lamps", CreatedAt: 50,
	})
	catalog.links = []catalogmodel.HouseAccessoryLink{
		{HouseID: "h-linked", AccessoryID: "a1"},
	}
	catalog.collections = []catalogmodel.CollectionMembership{
		{EntityID: "h-dupe", CollectionName: "Dickens' Village"},
	}

	summary, err := NewReconcileService(catalog, matchingConfig()).Run()
	require.NoError(t, err)

	assert.Equal(t, 1, summary.Groups)
	assert.Equal(t, 1, summary.Deleted)
	assert.Equal(t, 1, summary.Repointed)

	_, dupeRemains := catalog.entities["h-dupe"]
	assert.False(t, dupeRemains)
	assert.True(t, catalog.hasCollection("h-linked", "Dickens' Village"))
	assert.True(t, catalog.hasLink("h-linked", "a1"))
}

func TestRunSkipsDuplicateRelationshipsOnRepoint(t *testing.T) {
	catalog := newFakeCatalog()
	catalog.addEntity(catalogmodel.Entity{
		ID: "h1", Kind: catalogmodel.KindHouse, Name: "Lonely Lighthouse", CreatedAt: 100,
	})
	catalog.addEntity(catalogmodel.Entity{
		ID: "h2", Kind: catalogmodel.KindHouse, Name: "Lonely Lighthouse", CreatedAt: 200,
	})
	catalog.addEntity(catalogmodel.Entity{
		ID: "a1", Kind: catalogmodel.KindAccessory, Name: "Village Gas Lamps", CreatedAt: 50,
	})
	// Both copies link the same accessory; the merge must not double-link it.
	catalog.links = []catalogmodel.HouseAccessoryLink{
		{HouseID: "h1", AccessoryID: "a1"},
		{HouseID: "h2", AccessoryID: "a1"},
	}

	summary, err := NewReconcileService(catalog, matchingConfig()).Run()
	require.NoError(t, err)

	assert.Equal(t, 1, summary.Deleted)
	assert.Equal(t, 0, summary.Repointed)
	require.Len(t, catalog.links, 1)
	assert.True(t, catalog.hasLink("h1", "a1"))
}

func TestRunCrossKindCollisionDeletesHouse(t *testing.T) {
	catalog := newFakeCatalog()
	catalog.addEntity(catalogmodel.Entity{
		ID: "h1", Kind: catalogmodel.KindHouse, Name: "Village Animated Skating Pond", CreatedAt: 100,
	})
	catalog.addEntity(catalogmodel.Entity{
		ID: "a1", Kind: catalogmodel.KindAccessory, Name: "Village Animated Skating Pond", CreatedAt: 200,
	})
	catalog.addEntity(catalogmodel.Entity{
		ID: "a2", Kind: catalogmodel.KindAccessory, Name: "Village Gas Lamps", CreatedAt: 50,
	})
	catalog.links = []catalogmodel.HouseAccessoryLink{
		{HouseID: "h1", AccessoryID: "a2"},
	}

	summary, err := NewReconcileService(catalog, matchingConfig()).Run()
	require.NoError(t, err)

	assert.Equal(t, 1, summary.Collisions)
	_, houseRemains := catalog.entities["h1"]
	assert.False(t, houseRemains)
	_, accessoryRemains := catalog.entities["a1"]
	assert.True(t, accessoryRemains)
	// No dangling links to the deleted house.
	assert.Empty(t, catalog.links)
}

func TestRunFlagsNearDuplicatesWithoutMerging(t *testing.T) {
	catalog := newFakeCatalog()
	catalog.addEntity(catalogmodel.Entity{
		ID: "h1", Kind: catalogmodel.KindHouse, Name: "Santa's Wonderland House", CreatedAt: 100,
	})
	catalog.addEntity(catalogmodel.Entity{
		ID: "h2", Kind: catalogmodel.KindHouse, Name: "Santa Wonderland House", CreatedAt: 200,
	})

	service := NewReconcileService(catalog, matchingConfig())
	summary, err := service.Run()
	require.NoError(t, err)

	assert.Equal(t, 0, summary.Deleted)
	assert.Equal(t, 1, summary.Flagged)
	require.Len(t, summary.Flags, 1)
	assert.Len(t, catalog.entities, 2)

	// Nothing was merged, so the unresolved pair is flagged again on the
	// next pass.
	again, err := service.Run()
	require.NoError(t, err)
	assert.Equal(t, 0, again.Deleted)
	assert.Equal(t, summary.Flags, again.Flags)
}

func TestRunIdempotent(t *testing.T) {
	catalog := newFakeCatalog()
	catalog.addEntity(catalogmodel.Entity{
		ID: "h1", Kind: catalogmodel.KindHouse, Name: "Crooked Fence Cottage", CreatedAt: 100,
	})
	catalog.addEntity(catalogmodel.Entity{
		ID: "h2", Kind: catalogmodel.KindHouse, Name: "crooked fence cottage", CreatedAt: 200,
	})
	catalog.addEntity(catalogmodel.Entity{
		ID: "h3", Kind: catalogmodel.KindHouse, Name: "Crooked   Fence Cottage!", CreatedAt: 300,
	})

	service := NewReconcileService(catalog, matchingConfig())

	first, err := service.Run()
	require.NoError(t, err)
	assert.Equal(t, 2, first.Deleted)
	assert.Len(t, catalog.entities, 1)
	_, survivorRemains := catalog.entities["h1"]
	assert.True(t, survivorRemains)

	second, err := service.Run()
	require.NoError(t, err)
	assert.Equal(t, 0, second.Groups)
	assert.Equal(t, 0, second.Deleted)
	assert.Equal(t, 0, second.Repointed)
	assert.Equal(t, 0, second.Collisions)
}

func TestComputePlanDeterministic(t *testing.T) {
	snapshot := &catalogmodel.Snapshot{
		Entities: []catalogmodel.Entity{
			{ID: "h2", Kind: catalogmodel.KindHouse, Name: "Lonely Lighthouse", CreatedAt: 200},
			{ID: "h1", Kind: catalogmodel.KindHouse, Name: "Lonely Lighthouse", CreatedAt: 100},
			{ID: "h3", Kind: catalogmodel.KindHouse, Name: "Fezziwig's Ballroom", CreatedAt: 50},
			{ID: "h4", Kind: catalogmodel.KindHouse, Name: "Fezziwigs Ballroom", CreatedAt: 60},
		},
	}

	first := ComputePlan(snapshot, matchingConfig())
	second := ComputePlan(snapshot, matchingConfig())
	assert.Equal(t, first, second)

	require.Len(t, first.Merges, 2)
	// Groups iterate in sorted folded-name order.
	assert.Equal(t, "fezziwigs ballroom", first.Merges[0].FoldedName)
	assert.Equal(t, "h4", first.Merges[0].LoserID)
	assert.Equal(t, "h2", first.Merges[1].LoserID)
}

func TestElectSurvivorByPopulatedFields(t *testing.T) {
	snapshot := &catalogmodel.Snapshot{
		Entities: []catalogmodel.Entity{
			{ID: "h1", Kind: catalogmodel.KindHouse, Name: "Lonely Lighthouse", CreatedAt: 100},
			{ID: "h2", Kind: catalogmodel.KindHouse, Name: "Lonely Lighthouse",
				SKU: "56.54903", Description: "Rotating beacon light.", CreatedAt: 200},
		},
	}

	plan := ComputePlan(snapshot, matchingConfig())
	require.Len(t, plan.Merges, 1)
	// The richer record wins despite being newer.
	assert.Equal(t, "h1", plan.Merges[0].LoserID)
	assert.Equal(t, "h2", plan.Merges[0].SurvivorID)
}
