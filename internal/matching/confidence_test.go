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

package matching

import (
	"testing"

	"github.com/stretchr/testify/assert"

	catalogmodel "github.com/villagekeep/village-catalog-service/internal/catalog/model"
	candidatemodel "github.com/villagekeep/village-catalog-service/internal/candidates/model"
	"github.com/villagekeep/village-catalog-service/internal/system/config"
)

func matchingConfig() config.MatchingConfig {
	return config.DefaultMatchingConfig()
}

func TestCompleteness(t *testing.T) {
	full := candidatemodel.CandidateRecord{
		Name:        "Fezziwig's Ballroom",
		SKU:         "56.58461",
		IntroYear:   2003,
		Description: "Lit ballroom with dancing figures.",
		ImageRefs:   []string{"images/fezziwig.jpg"},
	}
	assert.Equal(t, 1.0, Completeness(&full))

	half := candidatemodel.CandidateRecord{
		Name:      "Fezziwig's Ballroom",
		IntroYear: 2003,
		SKU:       "56.58461",
	}
	assert.Equal(t, 0.5, Completeness(&half))

	bare := candidatemodel.CandidateRecord{Name: "Fezziwig's Ballroom"}
	assert.Equal(t, 0.0, Completeness(&bare))
}

func TestCorroborated(t *testing.T) {
	candidate := candidatemodel.CandidateRecord{
		ID: "c1", Name: "Fezziwig's Ballroom", SKU: "56.58461", SourceIdentifier: "retailer-a",
	}
	pool := []candidatemodel.CandidateRecord{
		candidate,
		{ID: "c2", Name: "Crooked Fence Cottage", SourceIdentifier: "retailer-b"},
	}
	assert.False(t, Corroborated(&candidate, pool))

	// Same SKU from a different source corroborates.
	pool = append(pool, candidatemodel.CandidateRecord{
		ID: "c3", Name: "Fezziwig Ballroom Set", SKU: "56.58461", SourceIdentifier: "retailer-b",
	})
	assert.True(t, Corroborated(&candidate, pool))

	// A record from the same source never corroborates, whatever it says.
	sameSource := candidatemodel.CandidateRecord{
		ID: "c4", Name: "Lonely Lighthouse", SourceIdentifier: "retailer-a",
	}
	assert.False(t, Corroborated(&sameSource, pool))
}

func TestCorroboratedByName(t *testing.T) {
	candidate := candidatemodel.CandidateRecord{
		ID: "c1", Name: "Fezziwig's Ballroom", SourceIdentifier: "retailer-a",
	}
	pool := []candidatemodel.CandidateRecord{
		candidate,
		{ID: "c2", Name: "FEZZIWIGS BALLROOM", SourceIdentifier: "retailer-b"},
	}
	assert.True(t, Corroborated(&candidate, pool))
}

func TestScoreExactSKUMatch(t *testing.T) {
	entity := catalogmodel.Entity{ID: "e1", Name: "Fezziwig Ballroom", SKU: "56.58461"}
	candidate := candidatemodel.CandidateRecord{
		ID: "c1", Name: "A Totally Different Listing Title", SKU: "56.58461",
	}

	match := Score(&entity, &candidate, false, matchingConfig())
	assert.Equal(t, 1.0, match.Confidence)
}

func TestScoreExactNameFloorsAtNinetyFive(t *testing.T) {
	entity := catalogmodel.Entity{ID: "e1", Name: "Fezziwig's Ballroom"}
	// Sparse candidate: no completeness, no corroboration.
	candidate := candidatemodel.CandidateRecord{ID: "c1", Name: "fezziwigs ballroom"}

	match := Score(&entity, &candidate, false, matchingConfig())
	assert.Equal(t, 1.0, match.NameScore)
	assert.GreaterOrEqual(t, match.Confidence, 0.95)
}

func TestScoreWeightedBlend(t *testing.T) {
	cfg := matchingConfig()
	entity := catalogmodel.Entity{ID: "e1", Name: "Santa's Wonderland House"}
	candidate := candidatemodel.CandidateRecord{
		ID:          "c1",
		Name:        "Santa Wonderland House",
		SKU:         "56.55115",
		IntroYear:   2019,
		Description: "Wonderland house with rotating tree.",
		ImageRefs:   []string{"images/wonderland.jpg"},
	}

	uncorroborated := Score(&entity, &candidate, false, cfg)
	corroborated := Score(&entity, &candidate, true, cfg)

	expected := uncorroborated.NameScore*cfg.NameWeight + 1.0*cfg.CompletenessWeight
	assert.InDelta(t, expected, uncorroborated.Confidence, 1e-9)
	assert.InDelta(t, expected+cfg.CorroborationWeight, corroborated.Confidence, 1e-9)
	assert.Greater(t, corroborated.Confidence, uncorroborated.Confidence)
}

func TestScoreClampedToOne(t *testing.T) {
	entity := catalogmodel.Entity{ID: "e1", Name: "Fezziwig's Ballroom", SKU: "56.58461-a"}
	candidate := candidatemodel.CandidateRecord{
		ID:          "c1",
		Name:        "Fezziwig's Ballroom",
		SKU:         "56.58461",
		IntroYear:   2003,
		Description: "Lit ballroom.",
		ImageRefs:   []string{"images/fezziwig.jpg"},
	}

	match := Score(&entity, &candidate, true, matchingConfig())
	assert.LessOrEqual(t, match.Confidence, 1.0)
}

func TestPriorityFor(t *testing.T) {
	cfg := matchingConfig()
	assert.Equal(t, PriorityHigh, PriorityFor(0.95, cfg))
	assert.Equal(t, PriorityHigh, PriorityFor(cfg.PriorityHigh, cfg))
	assert.Equal(t, PriorityMediumHigh, PriorityFor(0.85, cfg))
	assert.Equal(t, PriorityMedium, PriorityFor(0.6, cfg))
	assert.Equal(t, PriorityLow, PriorityFor(0.4, cfg))
}

func TestBetterCandidate(t *testing.T) {
	a := Match{CandidateID: "c1", Confidence: 0.9}
	b := Match{CandidateID: "c2", Confidence: 0.8}
	assert.True(t, BetterCandidate(a, 1, b, 5))

	// Equal confidence falls back to populated field count.
	b.Confidence = 0.9
	assert.True(t, BetterCandidate(b, 5, a, 1))

	// Full tie breaks on candidate id for determinism.
	assert.True(t, BetterCandidate(a, 3, b, 3))
}

func TestPreferAsSurvivor(t *testing.T) {
	linked := catalogmodel.Entity{ID: "e1", Name: "Fezziwig's Ballroom", CreatedAt: 200}
	sparse := catalogmodel.Entity{ID: "e2", Name: "Fezziwig's Ballroom", CreatedAt: 100}
	counts := map[string]int{"e1": 3, "e2": 0}

	// Relationship count dominates even against an older record.
	assert.True(t, PreferAsSurvivor(&linked, &sparse, counts))
	assert.False(t, PreferAsSurvivor(&sparse, &linked, counts))

	// Tied on links: populated fields decide.
	counts["e1"] = 0
	richer := sparse
	richer.ID = "e3"
	richer.SKU = "56.58461"
	richer.Description = "Lit ballroom."
	richer.CreatedAt = 300
	assert.True(t, PreferAsSurvivor(&richer, &linked, counts))

	// Tied on everything: earliest creation wins.
	assert.True(t, PreferAsSurvivor(&sparse, &linked, counts))

	// Byte-identical records: lowest id, so the election is deterministic.
	twin := sparse
	twin.ID = "e9"
	assert.True(t, PreferAsSurvivor(&sparse, &twin, counts))
}
