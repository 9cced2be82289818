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

package model

// HouseAccessoryLink connects a house to one of its accessories.
type HouseAccessoryLink struct {
	HouseID     string `json:"house_id"`
	AccessoryID string `json:"accessory_id"`
}

// CollectionMembership places an entity in a named collection.
type CollectionMembership struct {
	EntityID       string `json:"entity_id"`
	CollectionName string `json:"collection_name"`
}

// Tag membership sources.
const (
	TagSourceManual   = "manual"
	TagSourceInferred = "inferred"
)

// TagMembership attaches a tag to an entity. Inferred tags carry the
// confidence of the inference and a reviewed flag.
type TagMembership struct {
	EntityID   string  `json:"entity_id"`
	Tag        string  `json:"tag"`
	Source     string  `json:"source"`
	Confidence float64 `json:"confidence"`
	Reviewed   bool    `json:"reviewed"`
}

// CollisionCheck answers a would-collide query: whether a name already
// exists within the asked kind or on the opposite kind.
type CollisionCheck struct {
	Name      string `json:"name"`
	Kind      Kind   `json:"kind"`
	SameKind  bool   `json:"same_kind"`
	CrossKind bool   `json:"cross_kind"`
}

// Snapshot is a frozen read of the catalog taken at the start of a
// reconciliation or scan pass. Passes never observe writes made after the
// snapshot; staleness is resolved by re-running the idempotent pass.
type Snapshot struct {
	Entities    []Entity
	Links       []HouseAccessoryLink
	Collections []CollectionMembership
	Tags        []TagMembership
}

// EntitiesOfKind filters the snapshot's entities by kind.
func (s *Snapshot) EntitiesOfKind(kind Kind) []Entity {
	var entities []Entity
	for _, entity := range s.Entities {
		if entity.Kind == kind {
			entities = append(entities, entity)
		}
	}
	return entities
}

// ChildCounts returns, per entity id, the number of house-accessory links
// that reference it.
func (s *Snapshot) ChildCounts() map[string]int {
	counts := make(map[string]int)
	for _, link := range s.Links {
		counts[link.HouseID]++
		counts[link.AccessoryID]++
	}
	return counts
}
