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

// Package service implements the duplicate reconciler: it derives a merge
// plan from a catalog snapshot and applies it, restoring the per-kind name
// uniqueness invariant.
package service

import (
	"sort"

	catalogmodel "github.com/villagekeep/village-catalog-service/internal/catalog/model"
	"github.com/villagekeep/village-catalog-service/internal/matching"
	"github.com/villagekeep/village-catalog-service/internal/reconciler/model"
	"github.com/villagekeep/village-catalog-service/internal/system/config"
)

// ComputePlan derives the reconciliation actions for a snapshot. It is pure:
// identical snapshots always yield identical plans.
//
// Exact folded-name duplicates within a kind are merged into an elected
// survivor. Names present as both a House and an Accessory are cross-kind
// collisions resolved by deleting the House. Fuzzy near-duplicates are only
// flagged for manual review.
func ComputePlan(snapshot *catalogmodel.Snapshot, cfg config.MatchingConfig) *model.Plan {
	plan := &model.Plan{}
	childCounts := snapshot.ChildCounts()

	survivors := map[catalogmodel.Kind]map[string]*catalogmodel.Entity{
		catalogmodel.KindHouse:     {},
		catalogmodel.KindAccessory: {},
	}

	for _, kind := range []catalogmodel.Kind{catalogmodel.KindHouse, catalogmodel.KindAccessory} {
		groups := groupByFoldedName(snapshot.EntitiesOfKind(kind))
		for _, foldedName := range sortedKeys(groups) {
			group := groups[foldedName]
			survivor := electSurvivor(group, childCounts)
			survivors[kind][foldedName] = survivor
			if len(group) == 1 {
				continue
			}

			plan.Groups++
			for _, entity := range group {
				if entity.ID == survivor.ID {
					continue
				}
				plan.Merges = append(plan.Merges, model.Merge{
					LoserID:    entity.ID,
					SurvivorID: survivor.ID,
					Kind:       kind,
					FoldedName: foldedName,
				})
			}
		}
	}

	// The accessory is authoritative whenever the same name survives in both
	// kinds, so the colliding house goes.
	for _, foldedName := range sortedKeys(survivors[catalogmodel.KindHouse]) {
		if _, collides := survivors[catalogmodel.KindAccessory][foldedName]; collides {
			plan.Collisions = append(plan.Collisions, model.CollisionDelete{
				HouseID:    survivors[catalogmodel.KindHouse][foldedName].ID,
				FoldedName: foldedName,
			})
		}
	}

	plan.Flags = nearDuplicateFlags(survivors, cfg)
	return plan
}

// CatalogRepository is the mutation surface a reconciliation pass needs.
// The store implements it; tests use an in-memory fake.
type CatalogRepository interface {
	GetSnapshot() (*catalogmodel.Snapshot, error)
	// RepointRelationships moves links, collection and tag memberships from
	// one entity to another, skipping rows that would duplicate an existing
	// one, and returns the number of rows moved.
	RepointRelationships(fromID, toID string, kind catalogmodel.Kind) (int, error)
	// DeleteEntityWithRelationships removes an entity and any relationship
	// rows still referencing it.
	DeleteEntityWithRelationships(entityID string) error
}

// ReconcileService runs reconciliation passes against a catalog repository.
type ReconcileService struct {
	catalog CatalogRepository
	cfg     config.MatchingConfig
}

// NewReconcileService creates a ReconcileService.
func NewReconcileService(catalog CatalogRepository, cfg config.MatchingConfig) *ReconcileService {
	return &ReconcileService{catalog: catalog, cfg: cfg}
}

// Run snapshots the catalog, computes the plan and applies it. The pass is
// idempotent: a rerun over the repaired catalog derives no further merges or
// deletions, though unresolved near-duplicate flags are reported again. A
// partially applied pass leaves the catalog consistent enough that rerunning
// completes the repair.
func (s *ReconcileService) Run() (*model.Summary, error) {
	snapshot, err := s.catalog.GetSnapshot()
	if err != nil {
		return nil, err
	}

	plan := ComputePlan(snapshot, s.cfg)
	summary := &model.Summary{
		Groups:  plan.Groups,
		Flagged: len(plan.Flags),
		Flags:   plan.Flags,
	}

	for _, merge := range plan.Merges {
		repointed, err := s.catalog.RepointRelationships(merge.LoserID, merge.SurvivorID, merge.Kind)
		if err != nil {
			return summary, err
		}
		summary.Repointed += repointed
		if err := s.catalog.DeleteEntityWithRelationships(merge.LoserID); err != nil {
			return summary, err
		}
		summary.Deleted++
	}

	for _, collision := range plan.Collisions {
		if err := s.catalog.DeleteEntityWithRelationships(collision.HouseID); err != nil {
			return summary, err
		}
		summary.Collisions++
		summary.Deleted++
	}

	return summary, nil
}

func groupByFoldedName(entities []catalogmodel.Entity) map[string][]*catalogmodel.Entity {
	groups := make(map[string][]*catalogmodel.Entity)
	for i := range entities {
		entity := &entities[i]
		foldedName := matching.Fold(entity.Name)
		if foldedName == "" {
			continue
		}
		groups[foldedName] = append(groups[foldedName], entity)
	}
	return groups
}

func electSurvivor(group []*catalogmodel.Entity, childCounts map[string]int) *catalogmodel.Entity {
	survivor := group[0]
	for _, entity := range group[1:] {
		if matching.PreferAsSurvivor(entity, survivor, childCounts) {
			survivor = entity
		}
	}
	return survivor
}

// nearDuplicateFlags compares the surviving names within each kind and flags
// the pairs scoring above the flag threshold. Flags are derived fresh from
// the snapshot each pass, so a pair persists until someone resolves it.
func nearDuplicateFlags(survivors map[catalogmodel.Kind]map[string]*catalogmodel.Entity,
	cfg config.MatchingConfig) []model.Flag {

	var flags []model.Flag
	for _, kind := range []catalogmodel.Kind{catalogmodel.KindHouse, catalogmodel.KindAccessory} {
		names := sortedKeys(survivors[kind])
		for i := 0; i < len(names); i++ {
			for j := i + 1; j < len(names); j++ {
				score := matching.Similarity(names[i], names[j])
				if score < cfg.NearDuplicateFlagMin || score == 1 {
					continue
				}
				flags = append(flags, model.Flag{
					EntityAID: survivors[kind][names[i]].ID,
					EntityBID: survivors[kind][names[j]].ID,
					Score:     score,
				})
			}
		}
	}
	return flags
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
