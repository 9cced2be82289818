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
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/villagekeep/village-catalog-service/internal/candidates/model"
	"github.com/villagekeep/village-catalog-service/internal/candidates/store"
	"github.com/villagekeep/village-catalog-service/internal/system/log"
)

// IngestReport summarizes a batch ingest. A malformed record is rejected
// individually and listed here; it never fails the batch.
type IngestReport struct {
	Accepted int              `json:"accepted"`
	Rejected []RejectedRecord `json:"rejected,omitempty"`
}

// RejectedRecord names one record the ingest refused and why.
type RejectedRecord struct {
	Index  int    `json:"index"`
	Name   string `json:"name,omitempty"`
	Reason string `json:"reason"`
}

// CandidateServiceInterface is the business surface over the candidate pool.
type CandidateServiceInterface interface {
	Ingest(ctx context.Context, records []model.CandidateRecord) (*IngestReport, error)
	GetAllCandidates(ctx context.Context) ([]model.CandidateRecord, error)
}

// CandidateService is the default implementation of CandidateServiceInterface.
type CandidateService struct{}

// GetCandidateService creates a new instance of CandidateService.
func GetCandidateService() CandidateServiceInterface {

	return &CandidateService{}
}

// Ingest stores a batch of candidate records. Records without a name are
// rejected one by one; the rest of the batch continues.
func (s *CandidateService) Ingest(ctx context.Context, records []model.CandidateRecord) (*IngestReport, error) {

	report := &IngestReport{}
	for i, record := range records {
		if strings.TrimSpace(record.Name) == "" {
			report.Rejected = append(report.Rejected, RejectedRecord{
				Index:  i,
				Reason: "missing name",
			})
			continue
		}

		record.ID = uuid.New().String()
		if record.CreatedAt == 0 {
			record.CreatedAt = time.Now().Unix()
		}
		if err := store.InsertCandidate(ctx, record); err != nil {
			return report, err
		}
		report.Accepted++
	}

	log.GetLogger().Audit(log.AuditEvent{
		InitiatorType: log.InitiatorTypeSystem,
		TargetType:    log.TargetTypeCandidate,
		ActionID:      log.ActionCandidateIngest,
		Data:          map[string]int{"accepted": report.Accepted, "rejected": len(report.Rejected)},
	})
	return report, nil
}

// GetAllCandidates reads the whole candidate pool; it also implements the
// scanner's pool reader.
func (s *CandidateService) GetAllCandidates(ctx context.Context) ([]model.CandidateRecord, error) {

	return store.GetAllCandidates(ctx)
}
