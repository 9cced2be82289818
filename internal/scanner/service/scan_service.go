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
	"context"

	catalogmodel "github.com/villagekeep/village-catalog-service/internal/catalog/model"
	candidatemodel "github.com/villagekeep/village-catalog-service/internal/candidates/model"
	stagingmodel "github.com/villagekeep/village-catalog-service/internal/staging/model"
	"github.com/villagekeep/village-catalog-service/internal/system/config"
	"github.com/villagekeep/village-catalog-service/internal/system/log"
)

// CatalogReader supplies the entities a scan pass runs over.
type CatalogReader interface {
	GetAllEntities() ([]catalogmodel.Entity, error)
}

// CandidateReader supplies the candidate pool.
type CandidateReader interface {
	GetAllCandidates(ctx context.Context) ([]candidatemodel.CandidateRecord, error)
}

// ChangeProposer stages a scanner proposal. The second return reports whether
// a new change was created or an equivalent pending one already existed.
type ChangeProposer interface {
	Propose(change stagingmodel.StagedChange) (*stagingmodel.StagedChange, bool, error)
}

// ScanService orchestrates a full enrichment scan: snapshot the catalog and
// pool, score, and stage the findings.
type ScanService struct {
	catalog    CatalogReader
	candidates CandidateReader
	proposer   ChangeProposer
	cfg        config.MatchingConfig
}

// NewScanService creates a ScanService.
func NewScanService(catalog CatalogReader, candidates CandidateReader,
	proposer ChangeProposer, cfg config.MatchingConfig) *ScanService {

	return &ScanService{
		catalog:    catalog,
		candidates: candidates,
		proposer:   proposer,
		cfg:        cfg,
	}
}

// Run executes one scan pass. Proposals whose diff already sits pending for
// the same entity are counted as deduplicated, not re-staged.
func (s *ScanService) Run(ctx context.Context) (Report, error) {
	logger := log.GetLogger()

	entities, err := s.catalog.GetAllEntities()
	if err != nil {
		return Report{}, err
	}
	pool, err := s.candidates.GetAllCandidates(ctx)
	if err != nil {
		return Report{}, err
	}

	proposals, report := ScanAll(entities, pool, s.cfg)
	for _, proposal := range proposals {
		_, created, err := s.proposer.Propose(stagingmodel.StagedChange{
			EntityID:    proposal.EntityID,
			CandidateID: proposal.CandidateID,
			Source:      proposal.Source,
			Diff:        proposal.Diff,
			Confidence:  proposal.Confidence,
			Priority:    proposal.Priority,
		})
		if err != nil {
			return report, err
		}
		if !created {
			report.Skipped[SkipAlreadyStaged]++
			report.Proposed--
			report.Priorities[proposal.Priority]--
		}
	}

	logger.Info("Enrichment scan completed",
		log.Int("scanned", report.Scanned), log.Int("proposed", report.Proposed))
	logger.Audit(log.AuditEvent{
		InitiatorType: log.InitiatorTypeSystem,
		TargetType:    log.TargetTypeCatalog,
		ActionID:      log.ActionEnrichmentScan,
		Data:          report,
	})
	return report, nil
}
