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

// Package service implements the match and enrichment scanner: it pairs
// catalog entities with their best candidate record and derives the field
// changes worth staging for review.
package service

import (
	catalogmodel "github.com/villagekeep/village-catalog-service/internal/catalog/model"
	candidatemodel "github.com/villagekeep/village-catalog-service/internal/candidates/model"
	"github.com/villagekeep/village-catalog-service/internal/matching"
	stagingmodel "github.com/villagekeep/village-catalog-service/internal/staging/model"
	"github.com/villagekeep/village-catalog-service/internal/system/config"
)

// Skip reasons reported per entity that produced no proposal.
const (
	SkipNoMatch       = "no_match"
	SkipNoNewFields   = "no_new_fields"
	SkipAlreadyStaged = "already_staged"
)

// Proposal is one scanner finding: the best-matching candidate for an entity
// and the non-empty field changes it would stage.
type Proposal struct {
	EntityID    string            `json:"entity_id"`
	CandidateID string            `json:"candidate_id"`
	Source      string            `json:"source"`
	Diff        stagingmodel.Diff `json:"diff"`
	NameScore   float64           `json:"name_score"`
	Confidence  float64           `json:"confidence"`
	Priority    string            `json:"priority"`
}

// Report summarizes a scan pass. No-match entities are skips, never errors.
type Report struct {
	Scanned    int            `json:"scanned"`
	Proposed   int            `json:"proposed"`
	Skipped    map[string]int `json:"skipped"`
	Priorities map[string]int `json:"priorities"`
}

// ScanEntity finds the best candidate for one entity and derives its diff.
// It returns a nil proposal and a skip reason when no candidate clears the
// name floor or the winner carries nothing the entity lacks.
func ScanEntity(entity *catalogmodel.Entity, pool []candidatemodel.CandidateRecord,
	cfg config.MatchingConfig) (*Proposal, string) {

	var best *matching.Match
	var bestFields int
	var bestRecord *candidatemodel.CandidateRecord
	for i := range pool {
		candidate := &pool[i]
		match := matching.Score(entity, candidate, matching.Corroborated(candidate, pool), cfg)
		if match.NameScore < cfg.NameMatchFloor {
			continue
		}
		fields := candidate.PopulatedFieldCount()
		if best == nil || matching.BetterCandidate(match, fields, *best, bestFields) {
			m := match
			best = &m
			bestFields = fields
			bestRecord = candidate
		}
	}
	if best == nil {
		return nil, SkipNoMatch
	}

	diff := DeriveDiff(entity, bestRecord)
	if len(diff) == 0 {
		return nil, SkipNoNewFields
	}

	return &Proposal{
		EntityID:    entity.ID,
		CandidateID: bestRecord.ID,
		Source:      bestRecord.SourceIdentifier,
		Diff:        diff,
		NameScore:   best.NameScore,
		Confidence:  best.Confidence,
		Priority:    matching.PriorityFor(best.Confidence, cfg),
	}, ""
}

// DeriveDiff computes the field transitions a candidate would apply to an
// entity. A candidate without a value never proposes anything for that
// field, so a change can fill a gap or overwrite, never clear.
func DeriveDiff(entity *catalogmodel.Entity, candidate *candidatemodel.CandidateRecord) stagingmodel.Diff {
	diff := stagingmodel.Diff{}
	for _, field := range catalogmodel.EnrichableFields {
		proposed := candidate.FieldValue(field)
		if proposed == "" {
			continue
		}
		current := entity.FieldValue(field)
		if proposed == current {
			continue
		}
		diff[field] = stagingmodel.FieldChange{
			Old:     current,
			New:     proposed,
			GapFill: current == "",
		}
	}
	return diff
}

// ScanAll runs ScanEntity over every entity in order. Identical input yields
// byte-identical output: entities keep their given order and all candidate
// ties break deterministically.
func ScanAll(entities []catalogmodel.Entity, pool []candidatemodel.CandidateRecord,
	cfg config.MatchingConfig) ([]Proposal, Report) {

	report := Report{
		Skipped:    map[string]int{},
		Priorities: map[string]int{},
	}
	var proposals []Proposal
	for i := range entities {
		report.Scanned++
		proposal, skipReason := ScanEntity(&entities[i], pool, cfg)
		if proposal == nil {
			report.Skipped[skipReason]++
			continue
		}
		report.Proposed++
		report.Priorities[proposal.Priority]++
		proposals = append(proposals, *proposal)
	}
	return proposals, report
}
