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

import catalogmodel "github.com/villagekeep/village-catalog-service/internal/catalog/model"

// Merge collapses one duplicate into its elected survivor: relationships
// re-point to the survivor, then the loser is deleted.
type Merge struct {
	LoserID    string            `json:"loser_id"`
	SurvivorID string            `json:"survivor_id"`
	Kind       catalogmodel.Kind `json:"kind"`
	FoldedName string            `json:"folded_name"`
}

// CollisionDelete removes a House whose name collides with an Accessory.
// The accessory record is authoritative in a cross-kind collision.
type CollisionDelete struct {
	HouseID    string `json:"house_id"`
	FoldedName string `json:"folded_name"`
}

// Flag marks a fuzzy near-duplicate pair for manual review. The reconciler
// never merges on fuzzy similarity alone.
type Flag struct {
	EntityAID string  `json:"entity_a_id"`
	EntityBID string  `json:"entity_b_id"`
	Score     float64 `json:"score"`
}

// Plan is the full set of actions one reconciliation pass derived from a
// catalog snapshot. Computing it has no side effects; applying it does.
type Plan struct {
	Merges     []Merge           `json:"merges"`
	Collisions []CollisionDelete `json:"collisions"`
	Flags      []Flag            `json:"flags"`
	Groups     int               `json:"groups"`
}

// Summary reports what a reconciliation pass did. A rerun over an already
// clean catalog reports zero groups, deletions, re-points and collisions.
// Flags are standing conditions, not actions: an unresolved near-duplicate
// pair is reported again on every pass until a curator renames or merges it.
type Summary struct {
	Groups     int    `json:"groups"`
	Deleted    int    `json:"deleted"`
	Repointed  int    `json:"repointed"`
	Collisions int    `json:"collisions"`
	Flagged    int    `json:"flagged"`
	Flags      []Flag `json:"flags,omitempty"`
}
