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
	candidatemodel "github.com/villagekeep/village-catalog-service/internal/candidates/model"
	"github.com/villagekeep/village-catalog-service/internal/matching"
	"github.com/villagekeep/village-catalog-service/internal/system/config"
)

func matchingConfig() config.MatchingConfig {
	return config.DefaultMatchingConfig()
}

func TestScanEntityStagesBestMatch(t *testing.T) {
	entity := catalogmodel.Entity{
		ID:   "e1",
		Kind: catalogmodel.KindHouse,
		Name: "A Stitch In Yule Time",
	}
	pool := []candidatemodel.CandidateRecord{
		{
			ID:               "c1",
			Name:             "A Stitch In Yule Time",
			SKU:              "56.55035",
			IntroYear:        2000,
			Description:      "Tailor shop with animated sewing machine.",
			ImageRefs:        []string{"images/stitch.jpg"},
			SourceIdentifier: "retailer-a",
		},
		{
			ID:               "c2",
			Name:             "Completely Unrelated Gazebo",
			SourceIdentifier: "retailer-b",
		},
	}

	proposal, skip := ScanEntity(&entity, pool, matchingConfig())
	require.NotNil(t, proposal)
	assert.Empty(t, skip)
	assert.Equal(t, "e1", proposal.EntityID)
	assert.Equal(t, "c1", proposal.CandidateID)
	assert.Equal(t, "retailer-a", proposal.Source)
	assert.GreaterOrEqual(t, proposal.Confidence, 0.9)
	assert.Equal(t, matching.PriorityHigh, proposal.Priority)

	change, ok := proposal.Diff[catalogmodel.FieldSKU]
	require.True(t, ok)
	assert.Equal(t, "", change.Old)
	assert.Equal(t, "56.55035", change.New)
	assert.True(t, change.GapFill)
}

func TestScanEntityEnforcesNameFloor(t *testing.T) {
	entity := catalogmodel.Entity{ID: "e1", Name: "Lonely Lighthouse"}
	pool := []candidatemodel.CandidateRecord{
		// Rich candidate, but the name is nowhere near: completeness and
		// corroboration must not buy its way past the floor.
		{
			ID:               "c1",
			Name:             "Crooked Fence Cottage",
			SKU:              "56.52345",
			IntroYear:        1998,
			Description:      "Cottage with crooked fence.",
			ImageRefs:        []string{"images/crooked.jpg"},
			SourceIdentifier: "retailer-a",
		},
		{
			ID:               "c2",
			Name:             "Crooked Fence Cottage",
			SKU:              "56.52345",
			SourceIdentifier: "retailer-b",
		},
	}

	proposal, skip := ScanEntity(&entity, pool, matchingConfig())
	assert.Nil(t, proposal)
	assert.Equal(t, SkipNoMatch, skip)
}

func TestScanEntitySkipsWhenNothingNew(t *testing.T) {
	entity := catalogmodel.Entity{
		ID:   "e1",
		Name: "Fezziwig's Ballroom",
		SKU:  "56.58461",
		Year: 2003,
	}
	// The candidate only repeats what the entity already has.
	pool := []candidatemodel.CandidateRecord{
		{
			ID:               "c1",
			Name:             "Fezziwig's Ballroom",
			SKU:              "56.58461",
			IntroYear:        2003,
			SourceIdentifier: "retailer-a",
		},
	}

	proposal, skip := ScanEntity(&entity, pool, matchingConfig())
	assert.Nil(t, proposal)
	assert.Equal(t, SkipNoNewFields, skip)
}

func TestDeriveDiffGapFillVersusOverwrite(t *testing.T) {
	entity := catalogmodel.Entity{
		ID:          "e1",
		Name:        "Fezziwig's Ballroom",
		Description: "Old description.",
	}
	candidate := candidatemodel.CandidateRecord{
		ID:          "c1",
		Name:        "Fezziwig's Ballroom",
		Description: "New, much better description.",
		IntroYear:   2003,
	}

	diff := DeriveDiff(&entity, &candidate)
	require.Len(t, diff, 2)

	overwrite := diff[catalogmodel.FieldDescription]
	assert.Equal(t, "Old description.", overwrite.Old)
	assert.False(t, overwrite.GapFill)

	gapFill := diff[catalogmodel.FieldYear]
	assert.Equal(t, "", gapFill.Old)
	assert.Equal(t, "2003", gapFill.New)
	assert.True(t, gapFill.GapFill)
}

func TestDeriveDiffNeverProposesClearing(t *testing.T) {
	entity := catalogmodel.Entity{
		ID:          "e1",
		Name:        "Fezziwig's Ballroom",
		SKU:         "56.58461",
		Description: "Kept description.",
	}
	candidate := candidatemodel.CandidateRecord{
		ID:   "c1",
		Name: "Fezziwig's Ballroom",
	}

	assert.Empty(t, DeriveDiff(&entity, &candidate))
}

func TestScanEntityCompletenessTiebreak(t *testing.T) {
	entity := catalogmodel.Entity{ID: "e1", Name: "Fezziwig's Ballroom"}
	// Both candidates match the name exactly and score the same confidence;
	// the one with more populated fields must win the tie.
	sparse := candidatemodel.CandidateRecord{
		ID:               "c-sparse",
		Name:             "Fezziwig's Ballroom",
		Collection:       "Dickens' Village",
		SourceIdentifier: "retailer-a",
	}
	richer := candidatemodel.CandidateRecord{
		ID:               "c-richer",
		Name:             "Fezziwig's Ballroom",
		Collection:       "Dickens' Village",
		Price:            72.0,
		SourceIdentifier: "retailer-a",
	}

	proposal, _ := ScanEntity(&entity, []candidatemodel.CandidateRecord{sparse, richer}, matchingConfig())
	require.NotNil(t, proposal)
	assert.Equal(t, "c-richer", proposal.CandidateID)

	// Order of the pool must not change the winner.
	reordered, _ := ScanEntity(&entity, []candidatemodel.CandidateRecord{richer, sparse}, matchingConfig())
	require.NotNil(t, reordered)
	assert.Equal(t, "c-richer", reordered.CandidateID)
}

func TestScanAllDeterministic(t *testing.T) {
	entities := []catalogmodel.Entity{
		{ID: "e1", Name: "Fezziwig's Ballroom"},
		{ID: "e2", Name: "Lonely Lighthouse"},
		{ID: "e3", Name: "Crooked Fence Cottage", SKU: "56.52345"},
	}
	pool := []candidatemodel.CandidateRecord{
		{ID: "c1", Name: "Fezziwig's Ballroom", IntroYear: 2003, SourceIdentifier: "retailer-a"},
		{ID: "c2", Name: "Crooked Fence Cottage", SKU: "56.52345", Price: 65, SourceIdentifier: "retailer-b"},
	}

	first, firstReport := ScanAll(entities, pool, matchingConfig())
	second, secondReport := ScanAll(entities, pool, matchingConfig())

	assert.Equal(t, first, second)
	assert.Equal(t, firstReport, secondReport)

	require.Len(t, first, 2)
	assert.Equal(t, "e1", first[0].EntityID)
	assert.Equal(t, "e3", first[1].EntityID)
	assert.Equal(t, 3, firstReport.Scanned)
	assert.Equal(t, 2, firstReport.Proposed)
	assert.Equal(t, 1, firstReport.Skipped[SkipNoMatch])
}
