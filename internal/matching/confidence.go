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
	"strings"

	catalogmodel "github.com/villagekeep/village-catalog-service/internal/catalog/model"
	candidatemodel "github.com/villagekeep/village-catalog-service/internal/candidates/model"
	"github.com/villagekeep/village-catalog-service/internal/system/config"
)

// Review priorities assigned to staged changes by confidence bucket.
const (
	PriorityHigh       = "high"
	PriorityMediumHigh = "medium-high"
	PriorityMedium     = "medium"
	PriorityLow        = "low"
)

// completenessFields is the checklist used for the completeness component of
// the confidence score. A candidate carrying all four scores 1.0 on it.
var completenessFields = []string{
	catalogmodel.FieldYear,
	catalogmodel.FieldDescription,
	catalogmodel.FieldPrimaryImageRef,
	catalogmodel.FieldSKU,
}

// Match is the scored pairing of a catalog entity and a candidate record.
type Match struct {
	EntityID    string
	CandidateID string
	NameScore   float64
	Confidence  float64
}

// Completeness scores how much of the field checklist a candidate fills,
// in [0,1].
func Completeness(candidate *candidatemodel.CandidateRecord) float64 {
	filled := 0
	for _, field := range completenessFields {
		if candidate.FieldValue(field) != "" {
			filled++
		}
	}
	return float64(filled) / float64(len(completenessFields))
}

// Corroborated reports whether a second record from a different source agrees
// with the candidate, either on SKU or on an essentially identical name.
func Corroborated(candidate *candidatemodel.CandidateRecord, pool []candidatemodel.CandidateRecord) bool {
	candidateSKU := FoldSKU(candidate.SKU)
	candidateName := Fold(candidate.Name)
	for i := range pool {
		other := &pool[i]
		if other.ID == candidate.ID || other.SourceIdentifier == candidate.SourceIdentifier {
			continue
		}
		if candidateSKU != "" && FoldSKU(other.SKU) == candidateSKU {
			return true
		}
		if candidateName != "" && Similarity(candidate.Name, other.Name) >= 0.95 {
			return true
		}
	}
	return false
}

// Score computes the confidence of a candidate against an entity. An exact
// SKU match is conclusive; an exact folded-name match never scores below
// 0.95; everything else is the weighted blend of name similarity, candidate
// completeness and cross-source corroboration.
func Score(entity *catalogmodel.Entity, candidate *candidatemodel.CandidateRecord,
	corroborated bool, cfg config.MatchingConfig) Match {

	match := Match{
		EntityID:    entity.ID,
		CandidateID: candidate.ID,
		NameScore:   Similarity(entity.Name, candidate.Name),
	}

	entitySKU := FoldSKU(entity.SKU)
	candidateSKU := FoldSKU(candidate.SKU)
	if entitySKU != "" && entitySKU == candidateSKU {
		match.Confidence = 1
		return match
	}

	corroboration := 0.0
	if corroborated {
		corroboration = 1
	}
	weighted := match.NameScore*cfg.NameWeight +
		Completeness(candidate)*cfg.CompletenessWeight +
		corroboration*cfg.CorroborationWeight
	if entitySKU != "" && candidateSKU != "" && partialSKUMatch(entitySKU, candidateSKU) {
		weighted += 0.05
	}
	if weighted > 1 {
		weighted = 1
	}

	if match.NameScore == 1 && weighted < 0.95 {
		weighted = 0.95
	}
	match.Confidence = weighted
	return match
}

// PriorityFor buckets a confidence score into a review priority.
func PriorityFor(confidence float64, cfg config.MatchingConfig) string {
	switch {
	case confidence >= cfg.PriorityHigh:
		return PriorityHigh
	case confidence >= cfg.PriorityMediumHigh:
		return PriorityMediumHigh
	case confidence >= cfg.PriorityMedium:
		return PriorityMedium
	default:
		return PriorityLow
	}
}

// BetterCandidate reports whether candidate a beats candidate b for the same
// entity: higher confidence first, more populated fields on a tie.
func BetterCandidate(a Match, aFields int, b Match, bFields int) bool {
	if a.Confidence != b.Confidence {
		return a.Confidence > b.Confidence
	}
	if aFields != bFields {
		return aFields > bFields
	}
	return a.CandidateID < b.CandidateID
}

// PreferAsSurvivor defines the total order the reconciler elects duplicate
// survivors by: most linked relationships, then most populated optional
// fields, then earliest creation, then lowest id. The id tiebreak makes the
// election deterministic for byte-identical records.
func PreferAsSurvivor(a, b *catalogmodel.Entity, childCounts map[string]int) bool {
	if childCounts[a.ID] != childCounts[b.ID] {
		return childCounts[a.ID] > childCounts[b.ID]
	}
	aFields, bFields := a.PopulatedFieldCount(), b.PopulatedFieldCount()
	if aFields != bFields {
		return aFields > bFields
	}
	if a.CreatedAt != b.CreatedAt {
		return a.CreatedAt < b.CreatedAt
	}
	return a.ID < b.ID
}

func partialSKUMatch(a, b string) bool {
	if len(a) < 3 || len(b) < 3 {
		return false
	}
	return strings.Contains(a, b) || strings.Contains(b, a)
}
